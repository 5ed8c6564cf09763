package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/vendora/internal/cookie"
	"github.com/dukerupert/vendora/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator map[string]*domain.User

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, domain.ErrInvalidToken
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) (code, message string) {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body.Error.Code, body.Error.Message
}

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		header string
		want   string
	}{
		{name: "cookie", cookie: "c-token", want: "c-token"},
		{name: "bearer header", header: "Bearer h-token", want: "h-token"},
		{name: "scheme is case insensitive", header: "bearer h-token", want: "h-token"},
		{name: "cookie wins over header", cookie: "c-token", header: "Bearer h-token", want: "c-token"},
		{name: "basic auth ignored", header: "Basic dXNlcjpwYXNz", want: ""},
		{name: "nothing", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: cookie.TokenCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, TokenFromRequest(req))
		})
	}
}

func TestWithUser(t *testing.T) {
	customer := &domain.User{ID: uuid.New(), Email: "thandi@example.com", Role: domain.RoleCustomer}
	auth := stubAuthenticator{"good": customer}

	var seen *domain.User
	handler := WithUser(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = domain.UserFromContext(r.Context())
	}))

	t.Run("valid token", func(t *testing.T) {
		seen = nil
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good")
		handler.ServeHTTP(httptest.NewRecorder(), req)
		require.NotNil(t, seen)
		assert.Equal(t, customer.ID, seen.ID)
	})

	t.Run("invalid token stays anonymous", func(t *testing.T) {
		seen = customer
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: cookie.TokenCookieName, Value: "expired"})
		handler.ServeHTTP(httptest.NewRecorder(), req)
		assert.Nil(t, seen)
	})
}

func TestRequireAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		RequireAuth(ok).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		code, _ := errorBody(t, w)
		assert.Equal(t, domain.EUNAUTHORIZED, code)
	})

	t.Run("authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		ctx := domain.NewContextWithUser(req.Context(), &domain.User{ID: uuid.New(), Role: domain.RoleCustomer})
		w := httptest.NewRecorder()
		RequireAuth(ok).ServeHTTP(w, req.WithContext(ctx))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		user       *domain.User
		wantStatus int
	}{
		{name: "anonymous", user: nil, wantStatus: http.StatusUnauthorized},
		{name: "customer", user: &domain.User{ID: uuid.New(), Role: domain.RoleCustomer}, wantStatus: http.StatusForbidden},
		{name: "admin", user: &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}, wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
			if tt.user != nil {
				req = req.WithContext(domain.NewContextWithUser(req.Context(), tt.user))
			}
			w := httptest.NewRecorder()
			RequireAdmin(ok).ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{domain.EINVALID, http.StatusBadRequest},
		{domain.EINSUFFICIENTSTOCK, http.StatusBadRequest},
		{domain.EEMPTYCART, http.StatusBadRequest},
		{domain.EINVALIDCOUPON, http.StatusBadRequest},
		{domain.ECOUPONNOTELIGIBLE, http.StatusBadRequest},
		{domain.EUNAUTHORIZED, http.StatusUnauthorized},
		{domain.EFORBIDDEN, http.StatusForbidden},
		{domain.ENOTFOUND, http.StatusNotFound},
		{domain.ECONFLICT, http.StatusConflict},
		{domain.ETOOLARGE, http.StatusRequestEntityTooLarge},
		{domain.ERATELIMIT, http.StatusTooManyRequests},
		{domain.EINTERNAL, http.StatusInternalServerError},
		{"something_else", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, errorCodeToHTTPStatus(tt.code))
		})
	}
}

func TestRespondWithError_HidesInternalDetail(t *testing.T) {
	w := httptest.NewRecorder()
	err := domain.Internal(errors.New("pq: connection refused"), "cart.get", "failed to load cart")
	respondWithError(w, httptest.NewRequest(http.MethodGet, "/", nil), err)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	code, message := errorBody(t, w)
	assert.Equal(t, domain.EINTERNAL, code)
	assert.NotContains(t, message, "connection refused")
}
