package auth

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// ExpiredMarker is matched (case-insensitive) against the reason of a 401 response
const ExpiredMarker = "expired"

// maxErrorBody caps how much of an error body is inspected
const maxErrorBody = 64 * 1024

type errorBody struct {
	Reason           string `json:"reason"`
	Message          string `json:"message"`
	DeveloperMessage string `json:"developerMessage"`
}

// restoredBody replays the inspected prefix followed by the unread remainder
type restoredBody struct {
	io.Reader
	io.Closer
}

// Reason extracts the server supplied reason from an error response. The body is
// restored so that callers can still read it.
func Reason(resp *http.Response) string {
	if resp == nil || resp.Body == nil {
		return ""
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	resp.Body = &restoredBody{Reader: io.MultiReader(bytes.NewReader(data), resp.Body), Closer: resp.Body}
	if len(data) == 0 {
		return ""
	}
	body := errorBody{}
	if err := json.Unmarshal(data, &body); err != nil {
		return strings.TrimSpace(string(data))
	}
	switch {
	case body.Reason != "":
		return body.Reason
	case body.Message != "":
		return body.Message
	}
	return body.DeveloperMessage
}

// Classify returns an ErrExpiredToken or ErrInvalidCredential failure for a 401 response, nil otherwise.
func Classify(resp *http.Response) *Failure {
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		return nil
	}
	reason := Reason(resp)
	kind := ErrInvalidCredential
	if IsExpired(reason) {
		kind = ErrExpiredToken
	}
	return NewFailure(kind, resp.StatusCode, reason, nil)
}

// IsExpired reports whether reason carries the expired marker
func IsExpired(reason string) bool {
	return strings.Contains(strings.ToLower(reason), ExpiredMarker)
}
