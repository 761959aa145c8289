package refresh

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/viant/payroll/client/auth/store"
)

// HandOffTimeout bounds how long a replay waits for the previous one to be submitted
const HandOffTimeout = 100 * time.Millisecond

type handOffKey struct{}

// HandOff signals that the replay running with ctx has submitted its request,
// the next continuation in line may start. Replays that never call it hand off on return.
func HandOff(ctx context.Context) {
	if handOff, ok := ctx.Value(handOffKey{}).(func()); ok {
		handOff()
	}
}

// Phase represents refresh state
type Phase int

const (
	Idle Phase = iota
	Refreshing
)

func (p Phase) String() string {
	if p == Refreshing {
		return "refreshing"
	}
	return "idle"
}

// Replay resubmits a request with the supplied session
type Replay func(ctx context.Context, session *store.Session) (*http.Response, error)

// Outcome is a continuation result
type Outcome struct {
	Response *http.Response
	Err      error
}

// Continuation is a deferred replay of one request, consumed exactly once
type Continuation struct {
	ID     string
	ctx    context.Context
	replay Replay
	result chan Outcome
}

// resolve replays once previous has handed off, submitted is closed on this replay's hand off
func (c *Continuation) resolve(session *store.Session, previous <-chan struct{}, submitted chan struct{}) {
	timer := time.NewTimer(HandOffTimeout)
	select {
	case <-previous:
	case <-timer.C:
	}
	timer.Stop()
	once := sync.Once{}
	handOff := func() { once.Do(func() { close(submitted) }) }
	resp, err := c.replay(context.WithValue(c.ctx, handOffKey{}, handOff), session)
	handOff()
	c.result <- Outcome{Response: resp, Err: err}
}

func (c *Continuation) fail(err error) {
	c.result <- Outcome{Err: err}
}

// wait blocks until the continuation is drained or ctx is done; an abandoned
// continuation still gets drained, the buffered result is then dropped.
func (c *Continuation) wait(ctx context.Context) (*http.Response, error) {
	select {
	case outcome := <-c.result:
		return outcome.Response, outcome.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func newContinuation(ctx context.Context, ID string, replay Replay) *Continuation {
	return &Continuation{ID: ID, ctx: ctx, replay: replay, result: make(chan Outcome, 1)}
}

// state is the Idle -> Refreshing -> Idle machine; callers hold the coordinator lock.
type state struct {
	phase   Phase
	waiters []*Continuation
}

// begin moves Idle to Refreshing, it returns false when a refresh is already in flight
func (s *state) begin() bool {
	if s.phase == Refreshing {
		return false
	}
	s.phase = Refreshing
	s.waiters = nil
	return true
}

func (s *state) enqueue(continuation *Continuation) {
	s.waiters = append(s.waiters, continuation)
}

// finish moves back to Idle and hands over the waiters in enqueue order
func (s *state) finish() []*Continuation {
	waiters := s.waiters
	s.phase = Idle
	s.waiters = nil
	return waiters
}
