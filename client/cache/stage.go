package cache

import (
	"net/http"

	slogctx "github.com/veqryn/slog-context"
	"github.com/viant/payroll/client/request"
)

// Stage is an http.RoundTripper serving idempotent reads from the Cache.
//
// Auth exempt and paginated requests pass straight through, mutating requests evict
// the whole cache before they are sent, all other requests are looked up by their
// canonical key and stored on a 2xx response.
type Stage struct {
	cache     *Cache
	rules     *request.Rules
	transport http.RoundTripper
}

func (s *Stage) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	descriptor := request.Describe(req, s.rules)
	switch {
	case descriptor.IsAuthExempt, descriptor.IsPaginated:
		return s.transport.RoundTrip(req)
	case descriptor.IsMutating:
		s.cache.EvictAll()
		slogctx.Debug(ctx, "evicted response cache", "method", descriptor.Method, "path", descriptor.Path)
		return s.transport.RoundTrip(req)
	}

	if entry, ok := s.cache.Get(descriptor.Key); ok {
		slogctx.Debug(ctx, "response cache hit", "key", descriptor.Key, "storedAt", entry.StoredAt)
		return entry.Response.Response(req), nil
	}
	resp, err := s.transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, nil
	}
	snapshot, err := NewSnapshot(resp)
	if err != nil {
		return nil, err
	}
	s.cache.Put(descriptor.Key, snapshot)
	slogctx.Debug(ctx, "response cached", "key", descriptor.Key)
	return resp, nil
}

// Cache returns stage cache
func (s *Stage) Cache() *Cache {
	return s.cache
}

// StageOption configures Stage
type StageOption func(*Stage)

// WithRules sets request classification rules
func WithRules(rules *request.Rules) StageOption {
	return func(s *Stage) {
		s.rules = rules
	}
}

// WithTransport sets the next round tripper
func WithTransport(transport http.RoundTripper) StageOption {
	return func(s *Stage) {
		s.transport = transport
	}
}

// NewStage creates a cache stage
func NewStage(cache *Cache, options ...StageOption) *Stage {
	ret := &Stage{
		cache:     cache,
		rules:     request.DefaultRules(),
		transport: http.DefaultTransport,
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.cache == nil {
		ret.cache = New()
	}
	return ret
}
