package refresh

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/payroll/client/auth"
	"github.com/viant/payroll/client/auth/store"
)

func TestHTTPRefresher_Refresh(t *testing.T) {
	var testCases = []struct {
		description string
		status      int
		body        string
		expect      *store.Session
		expectErr   bool
	}{
		{
			description: "rotated refresh token",
			status:      http.StatusOK,
			body:        `{"statusCode":200,"data":{"access_token":"a1","refresh_token":"r1"}}`,
			expect:      &store.Session{AccessToken: "a1", RefreshToken: "r1"},
		},
		{
			description: "refresh token kept",
			status:      http.StatusOK,
			body:        `{"statusCode":200,"data":{"access_token":"a1"}}`,
			expect:      &store.Session{AccessToken: "a1", RefreshToken: "r0"},
		},
		{description: "rejected", status: http.StatusUnauthorized, body: `{"reason":"refresh token expired"}`, expectErr: true},
		{description: "malformed", status: http.StatusOK, body: `<html>`, expectErr: true},
		{description: "no access token", status: http.StatusOK, body: `{"data":{}}`, expectErr: true},
	}

	for _, testCase := range testCases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, DefaultPath, r.URL.Path)
			assert.Equal(t, "Bearer r0", r.Header.Get("Authorization"))
			w.WriteHeader(testCase.status)
			_, _ = w.Write([]byte(testCase.body))
		}))
		refresher := NewHTTPRefresher(server.URL, "", server.Client())
		session, err := refresher.Refresh(context.Background(), "r0")
		server.Close()
		if testCase.expectErr {
			require.Error(t, err, testCase.description)
			assert.True(t, errors.Is(err, auth.ErrRefreshTransport), testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, session, testCase.description)
	}
}

func TestHTTPRefresher_MissingToken(t *testing.T) {
	refresher := NewHTTPRefresher("http://localhost", "", nil)
	_, err := refresher.Refresh(context.Background(), "")
	assert.True(t, errors.Is(err, auth.ErrRefreshTransport))
}
