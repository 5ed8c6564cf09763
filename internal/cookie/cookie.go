// Package cookie provides helpers for the session token cookie.
// All authentication cookies should go through this package so the
// security attributes stay consistent.
package cookie

import (
	"net/http"
	"time"
)

// TokenCookieName carries the signed session token.
const TokenCookieName = "token"

// Config holds cookie configuration.
type Config struct {
	// Domain scopes the cookie. Empty means host-only.
	Domain string

	// Secure determines whether cookies require HTTPS.
	// Should be true in production, false in development.
	Secure bool
}

// NewConfig creates a new cookie configuration.
//
// Example:
//
//	cfg := cookie.NewConfig("", true)             // production, host-only
//	cfg := cookie.NewConfig("shop.example", true) // shared with subdomains
func NewConfig(domain string, secure bool) *Config {
	return &Config{
		Domain: domain,
		Secure: secure,
	}
}

// SetSessionWithExpiry sets an HttpOnly, SameSite=Strict session cookie
// that expires at expires.
func (c *Config) SetSessionWithExpiry(w http.ResponseWriter, name, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Domain:   c.Domain,
		Path:     "/",
		Expires:  expires.UTC(),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSession removes a session cookie by setting MaxAge to -1.
// Domain and Path must match the original cookie.
func (c *Config) ClearSession(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Domain:   c.Domain,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Get retrieves a cookie value from the request.
// Returns empty string if cookie not found.
func Get(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
