package refresh

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	slogctx "github.com/veqryn/slog-context"
	"github.com/viant/payroll/client/auth"
	"github.com/viant/payroll/client/auth/store"
	"github.com/viant/payroll/client/request"
)

// DefaultTimeout bounds a refresh call
const DefaultTimeout = 10 * time.Second

// Teardown is invoked once per failed refresh, after the session has been cleared
type Teardown func(ctx context.Context, err error)

// Coordinator owns the session and guarantees that concurrent expired token failures
// trigger a single refresh, after which every affected request is replayed in the
// order its failure was observed.
type Coordinator struct {
	mux        sync.Mutex
	state      state
	generation uint64
	session    atomic.Pointer[store.Session]
	store      store.Store
	refresher  Refresher
	timeout    time.Duration
	teardown   Teardown
}

// Session returns a copy of the current session or nil
func (c *Coordinator) Session() *store.Session {
	session := c.session.Load()
	if session == nil {
		return nil
	}
	ret := *session
	return &ret
}

// State returns current refresh phase
func (c *Coordinator) State() Phase {
	c.mux.Lock()
	defer c.mux.Unlock()
	return c.state.phase
}

// Store returns credential store
func (c *Coordinator) Store() store.Store {
	return c.store
}

// Attach returns a clone of req carrying the current access token. Auth exempt requests
// and requests issued without a session are returned unchanged.
func (c *Coordinator) Attach(req *http.Request, descriptor *request.Descriptor) *http.Request {
	if descriptor != nil && descriptor.IsAuthExempt {
		return req
	}
	session := c.session.Load()
	if !session.IsAuthenticated() {
		return req
	}
	ret := req.Clone(req.Context())
	session.Token().SetAuthHeader(ret)
	return ret
}

// OnFailure recovers a request that failed with an expired token. usedToken is the
// access token the request was sent with, replay resubmits the request with a session.
func (c *Coordinator) OnFailure(ctx context.Context, usedToken string, replay Replay) (*http.Response, error) {
	continuation := newContinuation(ctx, uuid.NewString(), replay)
	ctx = slogctx.With(ctx, "continuation", continuation.ID)

	c.mux.Lock()
	if c.state.phase == Refreshing {
		c.state.enqueue(continuation)
		c.mux.Unlock()
		slogctx.Debug(ctx, "waiting for token refresh")
		return continuation.wait(ctx)
	}
	current := c.session.Load()
	if !current.IsAuthenticated() {
		// the session already ended, teardown has been signalled
		c.mux.Unlock()
		return nil, auth.Terminated(nil)
	}
	if current.AccessToken != usedToken {
		// a refresh has committed since this request was sent
		c.mux.Unlock()
		return replay(ctx, current)
	}
	c.state.begin()
	generation := c.generation
	c.mux.Unlock()

	c.refresh(ctx, generation, current, continuation)
	return continuation.wait(ctx)
}

func (c *Coordinator) refresh(ctx context.Context, generation uint64, current *store.Session, trigger *Continuation) {
	refreshToken := ""
	if current != nil {
		refreshToken = current.RefreshToken
	}
	slogctx.Info(ctx, "refreshing access token")
	detached := context.WithoutCancel(ctx)
	refreshCtx, cancel := context.WithTimeout(detached, c.timeout)
	defer cancel()
	session, err := c.refresher.Refresh(refreshCtx, refreshToken)
	if err == nil && !session.IsAuthenticated() {
		err = fmt.Errorf("%w: empty access token", auth.ErrRefreshTransport)
	}
	if err != nil && !errors.Is(err, auth.ErrRefreshTransport) {
		err = fmt.Errorf("%w: %w", auth.ErrRefreshTransport, err)
	}

	c.mux.Lock()
	if generation != c.generation {
		// a logout or login superseded this refresh, its waiters were already handed over
		current := c.session.Load()
		c.mux.Unlock()
		if current.IsAuthenticated() {
			c.drain(current, []*Continuation{trigger})
			return
		}
		trigger.fail(auth.Terminated(err))
		return
	}
	if err != nil {
		waiters := c.state.finish()
		c.session.Store(nil)
		clearErr := store.Clear(detached, c.store)
		c.mux.Unlock()
		if clearErr != nil {
			slogctx.Error(ctx, "failed to clear persisted session", "error", clearErr)
		}
		failure := auth.Terminated(err)
		slogctx.Warn(ctx, "token refresh failed, terminating session", "error", err, "waiters", len(waiters))
		trigger.fail(failure)
		for _, waiter := range waiters {
			waiter.fail(failure)
		}
		if c.teardown != nil {
			c.teardown(ctx, failure)
		}
		return
	}
	if saveErr := store.Save(detached, c.store, session); saveErr != nil {
		slogctx.Error(ctx, "failed to persist refreshed session", "error", saveErr)
	}
	c.session.Store(session)
	waiters := c.state.finish()
	c.mux.Unlock()

	slogctx.Info(ctx, "access token refreshed", "waiters", len(waiters), "expiry", session.Expiry())
	c.drain(session, append([]*Continuation{trigger}, waiters...))
}

// drain starts every continuation on its own goroutine. Replays are submitted in enqueue
// order: each one waits for the previous hand off, never for the previous response.
func (c *Coordinator) drain(session *store.Session, continuations []*Continuation) {
	previous := make(chan struct{})
	close(previous)
	for _, continuation := range continuations {
		submitted := make(chan struct{})
		go continuation.resolve(session, previous, submitted)
		previous = submitted
	}
}

// SetSession persists and activates a session, typically after a login. A refresh in
// flight is superseded and its waiters are replayed with the new session.
func (c *Coordinator) SetSession(ctx context.Context, session *store.Session) error {
	c.mux.Lock()
	if err := store.Save(ctx, c.store, session); err != nil {
		c.mux.Unlock()
		return err
	}
	ret := *session
	c.generation++
	waiters := c.state.finish()
	c.session.Store(&ret)
	c.mux.Unlock()
	if len(waiters) > 0 {
		slogctx.Info(ctx, "session replaced during token refresh", "waiters", len(waiters))
		c.drain(&ret, waiters)
	}
	return nil
}

// Reset clears the session, fails any queued waiter and returns to Idle
func (c *Coordinator) Reset(ctx context.Context) error {
	c.mux.Lock()
	c.generation++
	waiters := c.state.finish()
	c.session.Store(nil)
	err := store.Clear(ctx, c.store)
	c.mux.Unlock()
	for _, waiter := range waiters {
		waiter.fail(auth.Terminated(nil))
	}
	return err
}

// New creates a coordinator, the session is loaded from the store
func New(ctx context.Context, options ...Option) (*Coordinator, error) {
	ret := &Coordinator{
		store:   store.NewMemoryStore(),
		timeout: DefaultTimeout,
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.refresher == nil {
		return nil, fmt.Errorf("refresher was empty")
	}
	session, err := store.Load(ctx, ret.store)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	ret.session.Store(session)
	return ret, nil
}
