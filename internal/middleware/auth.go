package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dukerupert/vendora/internal/cookie"
	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/telemetry"
)

// Authenticator resolves a session token into the user it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// WithUser reads the token from the session cookie or a Bearer
// Authorization header and adds the user to the request context.
// This middleware is optional: invalid or missing tokens leave the request
// anonymous.
func WithUser(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				GetLogger(r.Context()).Debug("ignoring invalid session token", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := domain.NewContextWithUser(r.Context(), user)
			telemetry.TagUser(ctx, &telemetry.UserInfo{ID: user.ID.String(), Email: user.Email})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenFromRequest returns the session token, preferring the cookie.
func TokenFromRequest(r *http.Request) string {
	if token := cookie.Get(r, cookie.TokenCookieName); token != "" {
		return token
	}

	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !domain.IsAuthenticated(r.Context()) {
			respondUnauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects anonymous requests with 401 and non-admins with 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := domain.UserFromContext(r.Context())
		if user == nil {
			respondUnauthorized(w, r)
			return
		}
		if !user.IsAdmin() {
			respondForbidden(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
