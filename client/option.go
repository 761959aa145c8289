package client

import (
	"net/http"
	"time"

	"github.com/viant/payroll/client/auth/refresh"
	"github.com/viant/payroll/client/auth/store"
	"github.com/viant/payroll/client/cache"
	"github.com/viant/payroll/client/request"
)

// Option represents option
type Option func(c *Client)

// WithStore sets credential store
func WithStore(aStore store.Store) Option {
	return func(c *Client) {
		c.store = aStore
	}
}

// WithTransport sets the base round tripper, http.DefaultTransport by default
func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = transport
	}
}

// WithRefresher overrides the HTTP refresh transport
func WithRefresher(refresher refresh.Refresher) Option {
	return func(c *Client) {
		c.refresher = refresher
	}
}

// WithRefreshPath sets refresh endpoint path
func WithRefreshPath(path string) Option {
	return func(c *Client) {
		c.refreshPath = path
	}
}

// WithLoginPath sets login endpoint path
func WithLoginPath(path string) Option {
	return func(c *Client) {
		c.loginPath = path
	}
}

// WithRefreshTimeout bounds the refresh call
func WithRefreshTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.refreshTimeout = timeout
	}
}

// WithTimeout sets the overall http client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRules sets request classification rules
func WithRules(rules *request.Rules) Option {
	return func(c *Client) {
		c.rules = rules
	}
}

// WithCache shares a response cache
func WithCache(aCache *cache.Cache) Option {
	return func(c *Client) {
		c.cache = aCache
	}
}

// WithCookieJar attaches a cookie jar to the base transport
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *Client) {
		c.jar = jar
	}
}

// WithOnSessionTerminated sets the hook called once when a failed refresh ends the session,
// typically used to redirect the user to the login entry point.
func WithOnSessionTerminated(hook refresh.Teardown) Option {
	return func(c *Client) {
		c.onTerminated = hook
	}
}
