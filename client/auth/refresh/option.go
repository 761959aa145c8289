package refresh

import (
	"time"

	"github.com/viant/payroll/client/auth/store"
)

type Option func(*Coordinator)

// WithStore sets store
func WithStore(store store.Store) Option {
	return func(c *Coordinator) {
		c.store = store
	}
}

// WithRefresher sets refresh transport
func WithRefresher(refresher Refresher) Option {
	return func(c *Coordinator) {
		c.refresher = refresher
	}
}

// WithTimeout bounds the refresh call
func WithTimeout(timeout time.Duration) Option {
	return func(c *Coordinator) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithTeardown sets the hook called once per failed refresh (e.g. redirect to login)
func WithTeardown(teardown Teardown) Option {
	return func(c *Coordinator) {
		c.teardown = teardown
	}
}
