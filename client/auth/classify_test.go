package auth

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResponse(status int, body string) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(body))}
}

func TestClassify(t *testing.T) {
	var testCases = []struct {
		description string
		status      int
		body        string
		expectKind  error
		expectNil   bool
		expect      string
	}{
		{description: "expired reason", status: 401, body: `{"reason":"The Token has EXPIRED"}`, expectKind: ErrExpiredToken, expect: "The Token has EXPIRED"},
		{description: "expired message fallback", status: 401, body: `{"message":"token expired"}`, expectKind: ErrExpiredToken, expect: "token expired"},
		{description: "developer message fallback", status: 401, body: `{"developerMessage":"bad signature"}`, expectKind: ErrInvalidCredential, expect: "bad signature"},
		{description: "plain text body", status: 401, body: "Unauthorized\n", expectKind: ErrInvalidCredential, expect: "Unauthorized"},
		{description: "empty body", status: 401, expectKind: ErrInvalidCredential},
		{description: "not a 401", status: 403, body: `{"reason":"expired"}`, expectNil: true},
	}
	for _, testCase := range testCases {
		resp := newResponse(testCase.status, testCase.body)
		failure := Classify(resp)
		if testCase.expectNil {
			assert.Nil(t, failure, testCase.description)
			continue
		}
		require.NotNil(t, failure, testCase.description)
		assert.True(t, errors.Is(failure, testCase.expectKind), testCase.description)
		assert.Equal(t, testCase.expect, failure.Reason, testCase.description)
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.body, string(data), testCase.description)
	}
}

func TestReason_KeepsRemainderOfLargeBody(t *testing.T) {
	body := strings.Repeat("x", maxErrorBody) + "tail"
	resp := newResponse(http.StatusUnauthorized, body)
	_ = Reason(resp)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, len(body), len(data))
	assert.True(t, strings.HasSuffix(string(data), "tail"))
	assert.NoError(t, resp.Body.Close())
}
