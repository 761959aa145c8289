// Package transport implements the auth stage of the client request pipeline as
// an http.RoundTripper.
//
// Every request that is not auth exempt (login, register, refresh, verification,
// password reset) carries the current bearer access token. When the backend
// answers 401 with an expired token reason, the request is handed to the
// refresh.Coordinator which refreshes the session once and replays it; any other
// response, including other 401s, is returned to the caller untouched.
package transport
