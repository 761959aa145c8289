// Package cache implements the in-memory response cache and the pipeline stage
// that serves idempotent reads from it.
//
// Eviction is coarse grained: any mutating request (non read method, downloads,
// reports) empties the cache, and there is no time based expiry.
package cache
