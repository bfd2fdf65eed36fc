// Package session builds the authenticated HTTP client the room API runs on.
// Authentication itself happens elsewhere (an SSO login in a browser); this
// package only carries the resulting session cookie on every request.
package session

import "net/http"

type cookieTransport struct {
	base   http.RoundTripper
	cookie string
}

func (t *cookieTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("Cookie", t.cookie)
	return t.base.RoundTrip(clone)
}

// NewHTTPClient returns a client that attaches cookie to every request. The
// client carries no overall timeout: the room API bounds each request with
// its own context and multiplexes many concurrent requests to one host, so
// idle connection reuse is raised accordingly.
func NewHTTPClient(cookie string) *http.Client {
	base := http.RoundTripper(http.DefaultTransport)
	if t, ok := http.DefaultTransport.(*http.Transport); ok {
		c := t.Clone()
		c.MaxIdleConnsPerHost = 16
		base = c
	}
	return &http.Client{
		Transport: &cookieTransport{base: base, cookie: cookie},
	}
}
