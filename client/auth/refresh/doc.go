// Package refresh implements the single-flight token refresh coordinator.
//
// The Coordinator is a small Idle/Refreshing state machine guarded by a mutex.
// The first expired token failure moves it to Refreshing and calls the Refresher;
// failures observed meanwhile enqueue a Continuation. Once the new session is
// committed the triggering request and then every waiter are replayed in FIFO
// order. A failed or timed out refresh clears the session, fails all of them with
// auth.ErrSessionTerminated and calls the teardown hook exactly once.
package refresh
