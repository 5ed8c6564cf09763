package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dukerupert/vendora/internal/cookie"
	"github.com/dukerupert/vendora/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Register(t *testing.T) {
	expires := time.Date(2026, 10, 23, 10, 0, 0, 0, time.UTC)
	users := &mockUserService{
		registerFunc: func(ctx context.Context, params domain.RegisterParams) (*domain.Session, error) {
			if params.Email == "taken@example.com" {
				return nil, domain.ErrEmailTaken
			}
			return &domain.Session{
				Account:   domain.Account{ID: uuid.New(), Name: params.Name, Email: params.Email, Role: domain.RoleCustomer},
				Token:     "signed",
				ExpiresAt: expires,
			}, nil
		},
	}
	h := NewAuthHandler(users, cookie.NewConfig("", false))

	t.Run("success sets cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Register(rec, newRequest(http.MethodPost, "/api/auth/register",
			`{"name":"Thandi","email":"thandi@example.com","password":"correct-horse"}`, nil))

		require.Equal(t, http.StatusCreated, rec.Code)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, cookie.TokenCookieName, cookies[0].Name)
		assert.Equal(t, "signed", cookies[0].Value)

		var body map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		user := body["user"].(map[string]any)
		assert.Equal(t, "thandi@example.com", user["email"])
		assert.NotContains(t, user, "passwordHash")
	})

	t.Run("validation", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Register(rec, newRequest(http.MethodPost, "/api/auth/register",
			`{"name":"Thandi","email":"not-an-email","password":"short"}`, nil))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		_, fields := decodeError(t, rec)
		assert.Contains(t, fields, "email")
		assert.Contains(t, fields, "password")
	})

	t.Run("duplicate email", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Register(rec, newRequest(http.MethodPost, "/api/auth/register",
			`{"name":"Thandi","email":"taken@example.com","password":"correct-horse"}`, nil))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	h := NewAuthHandler(&mockUserService{}, cookie.NewConfig("", false))

	rec := httptest.NewRecorder()
	h.Login(rec, newRequest(http.MethodPost, "/api/auth/login", `{"email":"thandi@example.com","password":"wrong-password"}`, nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestAuthHandler_Logout(t *testing.T) {
	h := NewAuthHandler(&mockUserService{}, cookie.NewConfig("", false))

	rec := httptest.NewRecorder()
	h.Logout(rec, newRequest(http.MethodPost, "/api/auth/logout", "", customer()))

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
