package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptrace"
	"strings"

	slogctx "github.com/veqryn/slog-context"
	"github.com/viant/payroll/client/auth"
	"github.com/viant/payroll/client/auth/refresh"
	"github.com/viant/payroll/client/auth/store"
	"github.com/viant/payroll/client/request"
)

// RoundTripper is the auth stage of the request pipeline: it attaches the current
// access token and hands expired token failures to the refresh coordinator.
type RoundTripper struct {
	coordinator *refresh.Coordinator
	rules       *request.Rules
	transport   http.RoundTripper
}

func New(coordinator *refresh.Coordinator, options ...Option) (*RoundTripper, error) {
	if coordinator == nil {
		return nil, errors.New("coordinator was empty")
	}
	ret := &RoundTripper{
		coordinator: coordinator,
		rules:       request.DefaultRules(),
		transport:   http.DefaultTransport,
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret, nil
}

// Coordinator returns the refresh coordinator
func (r *RoundTripper) Coordinator() *refresh.Coordinator {
	return r.coordinator
}

func (r *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// 1) Derive the descriptor once, later stages read it from the context.
	descriptor := request.Describe(req, r.rules)
	ctx := request.NewContext(req.Context(), descriptor)
	original := clone(req.WithContext(ctx))

	// 2) Attach the token and send.
	outgoing, explicit := r.attach(original, descriptor)
	resp, err := r.transport.RoundTrip(outgoing)
	if err != nil || descriptor.IsAuthExempt || explicit {
		return resp, err
	}

	// 3) Anything but an expired token goes back to the caller untouched.
	failure := auth.Classify(resp)
	if failure == nil || !errors.Is(failure, auth.ErrExpiredToken) {
		return resp, nil
	}
	// Close the prior body so we don’t leak.
	resp.Body.Close()
	slogctx.Debug(ctx, "access token expired", "method", descriptor.Method, "path", descriptor.Path, "reason", failure.Reason)

	// 4) Replay the request once a fresh token is available.
	return r.coordinator.OnFailure(ctx, bearerToken(outgoing), func(ctx context.Context, session *store.Session) (*http.Response, error) {
		trace := &httptrace.ClientTrace{WroteRequest: func(httptrace.WroteRequestInfo) { refresh.HandOff(ctx) }}
		retry := clone(original.WithContext(httptrace.WithClientTrace(ctx, trace)))
		session.Token().SetAuthHeader(retry)
		return r.transport.RoundTrip(retry)
	})
}

// attach sets the authorization header; a token supplied through the context takes
// precedence over the session and is never refreshed.
func (r *RoundTripper) attach(req *http.Request, descriptor *request.Descriptor) (*http.Request, bool) {
	if descriptor.IsAuthExempt {
		return req, false
	}
	if token := getAuthToken(req.Context()); token != "" {
		ret := req.Clone(req.Context())
		(&store.Session{AccessToken: token}).Token().SetAuthHeader(ret)
		return ret, true
	}
	return r.coordinator.Attach(req, descriptor), false
}

func bearerToken(req *http.Request) string {
	return strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer ")
}
