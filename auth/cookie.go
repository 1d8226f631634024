package auth

import (
	"net/http"
	"time"
)

// CookieBridge moves session tokens between HTTP cookies and the token codec
type CookieBridge struct {
	name   string
	maxAge int
	secure bool
}

// NewCookieBridge creates a bridge for the named cookie. ttl is the token lifetime
// and becomes the issuance cookie's Max-Age, rounded up to whole seconds.
func NewCookieBridge(name string, ttl time.Duration, secure bool) *CookieBridge {
	return &CookieBridge{
		name:   name,
		maxAge: maxAgeSeconds(ttl),
		secure: secure,
	}
}

// maxAgeSeconds never yields 0 for a positive ttl: net/http omits Max-Age=0,
// which would turn the issuance cookie into a browser-session cookie.
func maxAgeSeconds(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	return int((ttl + time.Second - 1) / time.Second)
}

// Name returns the cookie name
func (b *CookieBridge) Name() string {
	return b.name
}

// Extract returns the raw session cookie value, unmodified and unvalidated
func (b *CookieBridge) Extract(r *http.Request) (string, bool) {
	c, err := r.Cookie(b.name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

// BuildIssuance returns the cookie that hands token to the client
func (b *CookieBridge) BuildIssuance(token string) *http.Cookie {
	return &http.Cookie{
		Name:     b.name,
		Value:    token,
		Path:     "/",
		MaxAge:   b.maxAge,
		HttpOnly: true,
		Secure:   b.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// BuildClearing returns the cookie that removes the session from the client.
// net/http drops Max-Age=0 from the header, so the epoch Expires does the clearing.
func (b *CookieBridge) BuildClearing() *http.Cookie {
	return &http.Cookie{
		Name:     b.name,
		Value:    "",
		Path:     "/",
		MaxAge:   0,
		Expires:  time.Unix(0, 0).UTC(),
		HttpOnly: true,
		Secure:   b.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
