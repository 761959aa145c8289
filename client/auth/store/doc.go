// Package store defines the credential store used by the client to keep the
// access/refresh token pair across process restarts.
//
// A Store is a plain key-value layer without logic; Load, Save and Clear map the
// well-known keys onto a Session. It ships with an in-memory implementation for
// tests and an afs backed FileStore for CLI and single-host usage.
package store
