package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrExpiredToken signals a 401 caused by an expired access token; it is recovered by a refresh.
	ErrExpiredToken = errors.New("access token expired")
	// ErrInvalidCredential signals any other 401; it is never retried.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrRefreshTransport signals a failed, malformed or timed out refresh call.
	ErrRefreshTransport = errors.New("token refresh failed")
	// ErrSessionTerminated is returned to every request affected by a failed refresh or a logout.
	ErrSessionTerminated = errors.New("session terminated")
	// ErrNetwork signals a transport level failure talking to the backend.
	ErrNetwork = errors.New("network error")
	// ErrServer signals a non 2xx, non authorization response.
	ErrServer = errors.New("server error")
)

// Failure is a classified request failure
type Failure struct {
	Kind       error
	StatusCode int
	Reason     string
	Cause      error
}

func (f *Failure) Error() string {
	msg := f.Kind.Error()
	if f.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, f.StatusCode)
	}
	if f.Reason != "" {
		msg += ": " + f.Reason
	}
	if f.Cause != nil {
		msg += ": " + f.Cause.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As
func (f *Failure) Unwrap() []error {
	if f.Cause == nil {
		return []error{f.Kind}
	}
	return []error{f.Kind, f.Cause}
}

// NewFailure creates a failure
func NewFailure(kind error, statusCode int, reason string, cause error) *Failure {
	return &Failure{Kind: kind, StatusCode: statusCode, Reason: reason, Cause: cause}
}

// Terminated wraps cause as a session terminated failure
func Terminated(cause error) *Failure {
	return &Failure{Kind: ErrSessionTerminated, Cause: cause}
}
