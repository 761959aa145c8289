package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	slogctx "github.com/veqryn/slog-context"
	"github.com/viant/payroll/client/auth"
	"github.com/viant/payroll/client/auth/refresh"
	"github.com/viant/payroll/client/auth/store"
	authtransport "github.com/viant/payroll/client/auth/transport"
	"github.com/viant/payroll/client/cache"
	"github.com/viant/payroll/client/request"
)

const (
	// DefaultLoginPath is the payroll backend login endpoint
	DefaultLoginPath = "/user/login"
	// DefaultVerifyPath is the payroll backend MFA code verification endpoint
	DefaultVerifyPath = "/user/verify/code"
	// DefaultTimeout bounds a single request including a refresh and replay
	DefaultTimeout = 30 * time.Second
)

type Client struct {
	baseURL        string
	loginPath      string
	refreshPath    string
	refreshTimeout time.Duration
	timeout        time.Duration
	store          store.Store
	rules          *request.Rules
	cache          *cache.Cache
	transport      http.RoundTripper
	jar            http.CookieJar
	refresher      refresh.Refresher
	onTerminated   refresh.Teardown
	coordinator    *refresh.Coordinator
	httpClient     *http.Client
}

// HTTPClient returns http client running the request pipeline
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Session returns a snapshot of the current session, nil when unauthenticated
func (c *Client) Session() *store.Session {
	return c.coordinator.Session()
}

// Cache returns response cache
func (c *Client) Cache() *cache.Cache {
	return c.cache
}

// Coordinator returns the token refresh coordinator
func (c *Client) Coordinator() *refresh.Coordinator {
	return c.coordinator
}

// URL returns absolute URL for path
func (c *Client) URL(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Do sends a request through the pipeline; body is JSON encoded, a 2xx response body is decoded into out.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	requestID := uuid.NewString()
	ctx = slogctx.With(ctx, "requestID", requestID)
	URL := c.URL(path)
	if len(query) > 0 {
		URL += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %v %v request: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, URL, reader)
	if err != nil {
		return fmt.Errorf("failed to create %v %v request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, auth.ErrSessionTerminated) {
			return err
		}
		slogctx.Warn(ctx, "request failed", "method", method, "path", path, "error", err)
		return auth.NewFailure(auth.ErrNetwork, 0, "", err)
	}
	defer resp.Body.Close()
	if err = checkResponse(resp); err != nil {
		slogctx.Debug(ctx, "request rejected", "method", method, "path", path, "error", err)
		return err
	}
	if out == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return auth.NewFailure(auth.ErrNetwork, resp.StatusCode, "", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err = json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %v %v response: %w", method, path, err)
	}
	return nil
}

func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if failure := auth.Classify(resp); failure != nil {
		return failure
	}
	return auth.NewFailure(auth.ErrServer, resp.StatusCode, auth.Reason(resp), nil)
}

// Login authenticates with email and password and activates the returned session.
// When the account uses MFA no tokens are returned; call VerifyCode with the received code.
func (c *Client) Login(ctx context.Context, email, password string) (*Profile, error) {
	output := &Response[*Profile]{}
	if err := c.Do(ctx, http.MethodPost, c.loginPath, nil, &Credentials{Email: email, Password: password}, output); err != nil {
		return nil, err
	}
	return c.activate(ctx, output.Data)
}

// VerifyCode completes an MFA login
func (c *Client) VerifyCode(ctx context.Context, email, code string) (*Profile, error) {
	output := &Response[*Profile]{}
	path := DefaultVerifyPath + "/" + url.PathEscape(email) + "/" + url.PathEscape(code)
	if err := c.Do(ctx, http.MethodGet, path, nil, nil, output); err != nil {
		return nil, err
	}
	return c.activate(ctx, output.Data)
}

func (c *Client) activate(ctx context.Context, profile *Profile) (*Profile, error) {
	if profile == nil || profile.AccessToken == "" {
		return profile, nil
	}
	session := &store.Session{AccessToken: profile.AccessToken, RefreshToken: profile.RefreshToken}
	if err := c.coordinator.SetSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	c.cache.EvictAll()
	slogctx.Info(ctx, "logged in", "expiry", session.Expiry())
	return profile, nil
}

// Logout clears the persisted session, resets the refresh state and evicts the cache
func (c *Client) Logout(ctx context.Context) error {
	err := c.coordinator.Reset(ctx)
	c.cache.EvictAll()
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	slogctx.Info(ctx, "logged out")
	return nil
}

// terminated is called by the coordinator once per failed refresh
func (c *Client) terminated(ctx context.Context, err error) {
	c.cache.EvictAll()
	if c.onTerminated != nil {
		c.onTerminated(ctx, err)
	}
}

// Get sends GET request and decodes the envelope
func Get[T any](ctx context.Context, c *Client, path string, query url.Values) (*Response[T], error) {
	return send[T](ctx, c, http.MethodGet, path, query, nil)
}

// Post sends POST request and decodes the envelope
func Post[T any](ctx context.Context, c *Client, path string, body any) (*Response[T], error) {
	return send[T](ctx, c, http.MethodPost, path, nil, body)
}

// Put sends PUT request and decodes the envelope
func Put[T any](ctx context.Context, c *Client, path string, body any) (*Response[T], error) {
	return send[T](ctx, c, http.MethodPut, path, nil, body)
}

// Delete sends DELETE request and decodes the envelope
func Delete[T any](ctx context.Context, c *Client, path string) (*Response[T], error) {
	return send[T](ctx, c, http.MethodDelete, path, nil, nil)
}

func send[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (*Response[T], error) {
	output := &Response[T]{}
	if err := c.Do(ctx, method, path, query, body, output); err != nil {
		return nil, err
	}
	return output, nil
}

// PageQuery returns page/size query parameters
func PageQuery(page, size int) url.Values {
	return url.Values{"page": {fmt.Sprint(page)}, "size": {fmt.Sprint(size)}}
}

// New creates a client for the backend at baseURL, the session is loaded from the store
func New(ctx context.Context, baseURL string, options ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL was empty")
	}
	ret := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		loginPath:      DefaultLoginPath,
		refreshPath:    refresh.DefaultPath,
		refreshTimeout: refresh.DefaultTimeout,
		timeout:        DefaultTimeout,
		transport:      http.DefaultTransport,
		rules:          request.DefaultRules(),
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.store == nil {
		ret.store = store.NewMemoryStore()
	}
	if ret.cache == nil {
		ret.cache = cache.New()
	}
	base := authtransport.WrapWithCookieJar(ret.transport, ret.jar)
	if ret.refresher == nil {
		ret.refresher = refresh.NewHTTPRefresher(ret.baseURL, ret.refreshPath, &http.Client{Transport: base})
	}
	var err error
	if ret.coordinator, err = refresh.New(ctx,
		refresh.WithStore(ret.store),
		refresh.WithRefresher(ret.refresher),
		refresh.WithTimeout(ret.refreshTimeout),
		refresh.WithTeardown(ret.terminated)); err != nil {
		return nil, err
	}
	pipeline, err := ret.pipeline(base)
	if err != nil {
		return nil, err
	}
	ret.httpClient = &http.Client{Transport: pipeline, Timeout: ret.timeout}
	return ret, nil
}

// pipeline composes auth stage -> cache stage -> base transport
func (c *Client) pipeline(base http.RoundTripper) (http.RoundTripper, error) {
	stage := cache.NewStage(c.cache, cache.WithRules(c.rules), cache.WithTransport(base))
	return authtransport.New(c.coordinator, authtransport.WithRules(c.rules), authtransport.WithTransport(stage))
}
