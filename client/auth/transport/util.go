package transport

import (
	"bytes"
	"io"
	"net/http"
)

// clone copies the request with a body that can be read independently, so the
// request can be replayed after a refresh.
func clone(r *http.Request) *http.Request {
	cloned := r.Clone(r.Context())
	if r.Body == nil || r.Body == http.NoBody {
		return cloned
	}
	if r.GetBody != nil {
		if body, err := r.GetBody(); err == nil {
			cloned.Body = body
			return cloned
		}
	}
	buf, _ := io.ReadAll(r.Body)
	r.Body.Close()
	getBody := func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(buf)), nil
	}
	r.Body, _ = getBody()
	r.GetBody = getBody
	cloned.Body, _ = getBody()
	cloned.GetBody = getBody
	return cloned
}
