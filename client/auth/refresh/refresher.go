package refresh

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/samber/oops"
	"github.com/viant/payroll/client/auth"
	"github.com/viant/payroll/client/auth/store"
)

// DefaultPath is the payroll backend refresh endpoint
const DefaultPath = "/user/refresh/token"

// Refresher exchanges a refresh token for a new session
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*store.Session, error)
}

// RefresherFunc adapts a function to Refresher
type RefresherFunc func(ctx context.Context, refreshToken string) (*store.Session, error)

func (f RefresherFunc) Refresh(ctx context.Context, refreshToken string) (*store.Session, error) {
	return f(ctx, refreshToken)
}

// HTTPRefresher calls the backend refresh endpoint with the refresh token as bearer credential
type HTTPRefresher struct {
	URL    string
	Method string
	Client *http.Client
}

type refreshResponse struct {
	StatusCode int    `json:"statusCode"`
	Reason     string `json:"reason"`
	Message    string `json:"message"`
	Data       *struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	} `json:"data"`
}

func (r *HTTPRefresher) Refresh(ctx context.Context, refreshToken string) (*store.Session, error) {
	errs := oops.In("token refresh").With("url", r.URL)
	if refreshToken == "" {
		return nil, errs.Wrapf(auth.ErrRefreshTransport, "missing refresh token")
	}
	method := r.Method
	if method == "" {
		method = http.MethodPost
	}
	req, err := http.NewRequestWithContext(ctx, method, r.URL, nil)
	if err != nil {
		return nil, errs.Wrapf(err, "failed to create refresh request")
	}
	req.Header.Set("Authorization", "Bearer "+refreshToken)
	req.Header.Set("Accept", "application/json")
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errs.Wrapf(err, "refresh call failed")
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrapf(err, "failed to read refresh response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errs.With("status", resp.StatusCode).
			Wrapf(auth.ErrRefreshTransport, "unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	body := refreshResponse{}
	if err = json.Unmarshal(data, &body); err != nil {
		return nil, errs.Wrapf(auth.ErrRefreshTransport, "malformed refresh response: %v", err)
	}
	if body.Data == nil || body.Data.AccessToken == "" {
		return nil, errs.Wrapf(auth.ErrRefreshTransport, "refresh response without access_token")
	}
	session := &store.Session{AccessToken: body.Data.AccessToken, RefreshToken: body.Data.RefreshToken}
	if session.RefreshToken == "" {
		session.RefreshToken = refreshToken
	}
	return session, nil
}

// NewHTTPRefresher creates refresher for base URL
func NewHTTPRefresher(baseURL, path string, client *http.Client) *HTTPRefresher {
	if path == "" {
		path = DefaultPath
	}
	return &HTTPRefresher{
		URL:    strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/"),
		Method: http.MethodPost,
		Client: client,
	}
}
