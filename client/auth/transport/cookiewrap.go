package transport

import (
	"net/http"
)

// cookieWrap sends cookies held by a jar and records the ones the backend sets,
// for deployments that pair the bearer token with a session cookie.
type cookieWrap struct {
	inner http.RoundTripper
	jar   http.CookieJar
}

// WrapWithCookieJar wraps inner with jar; it returns inner when either is nil.
func WrapWithCookieJar(inner http.RoundTripper, jar http.CookieJar) http.RoundTripper {
	if jar == nil || inner == nil {
		return inner
	}
	return &cookieWrap{inner: inner, jar: jar}
}

func (w *cookieWrap) RoundTrip(req *http.Request) (*http.Response, error) {
	outgoing := req.Clone(req.Context())
	for _, cookie := range w.jar.Cookies(outgoing.URL) {
		outgoing.AddCookie(cookie)
	}
	resp, err := w.inner.RoundTrip(outgoing)
	if err != nil {
		return nil, err
	}
	if cookies := resp.Cookies(); len(cookies) > 0 {
		w.jar.SetCookies(outgoing.URL, cookies)
	}
	return resp, nil
}
