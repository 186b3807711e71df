package ticketsafi

import (
	"context"
	"net/http"
)

type cookiesKey struct{}

// WithCookies attaches the browser's cookies to ctx. Every API call made with
// the returned context carries them, so the API authorizes the real caller.
func WithCookies(ctx context.Context, cookies []*http.Cookie) context.Context {
	return context.WithValue(ctx, cookiesKey{}, cookies)
}

func CookiesFrom(ctx context.Context) []*http.Cookie {
	cookies, _ := ctx.Value(cookiesKey{}).([]*http.Cookie)
	return cookies
}

// CSRFCookie is the cookie Django reads the CSRF token from.
const CSRFCookie = "csrftoken"

// CredentialsTransport forwards caller cookies and the headers the API expects.
type CredentialsTransport struct {
	Referer string
	Base    http.RoundTripper
}

func (t *CredentialsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "br")
	if t.Referer != "" {
		req.Header.Set("Referer", t.Referer)
	}

	var csrf string
	for _, c := range CookiesFrom(req.Context()) {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
		if c.Name == CSRFCookie {
			csrf = c.Value
		}
	}
	if csrf != "" && !safeMethod(req.Method) {
		req.Header.Set("X-CSRFToken", csrf)
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

func safeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
