// Package auth defines the failure taxonomy shared by the client's request
// pipeline and classifies backend authorization failures.
//
// Only a 401 response whose reason mentions an expired token is recoverable
// (ErrExpiredToken); the transport sub-package hands it to the refresh
// coordinator, which refreshes the session once and replays every waiting
// request. Any other 401 is ErrInvalidCredential and propagates untouched.
package auth
