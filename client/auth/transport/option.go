package transport

import (
	"net/http"

	"github.com/viant/payroll/client/request"
)

type Option func(*RoundTripper)

// WithTransport sets the next round tripper, typically the cache stage
func WithTransport(transport http.RoundTripper) Option {
	return func(t *RoundTripper) {
		t.transport = transport
	}
}

// WithRules sets request classification rules
func WithRules(rules *request.Rules) Option {
	return func(t *RoundTripper) {
		t.rules = rules
	}
}
