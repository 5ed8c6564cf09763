package storefront

import (
	"net/http"
	"time"

	"github.com/dukerupert/vendora/internal/cookie"
	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/handler"
)

// AuthHandler handles registration, login and session routes
type AuthHandler struct {
	userService domain.UserService
	cookies     *cookie.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService domain.UserService, cookies *cookie.Config) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		cookies:     cookies,
	}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Message   string         `json:"message"`
	User      domain.Account `json:"user"`
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	const op = "auth.register"

	var req registerRequest
	if err := handler.DecodeJSON(r, op, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	session, err := h.userService.Register(r.Context(), domain.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	h.startSession(w, http.StatusCreated, "Registration successful", session)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "auth.login"

	var req loginRequest
	if err := handler.DecodeJSON(r, op, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	session, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	h.startSession(w, http.StatusOK, "Login successful", session)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.ClearSession(w, cookie.TokenCookieName)
	handler.Message(w, http.StatusOK, "Logged out successfully")
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	const op = "auth.me"

	user, err := handler.CurrentUser(r, op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	account, err := h.userService.Get(r.Context(), user.ID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, account)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, status int, message string, session *domain.Session) {
	h.cookies.SetSessionWithExpiry(w, cookie.TokenCookieName, session.Token, session.ExpiresAt)
	handler.JSON(w, status, sessionResponse{
		Message:   message,
		User:      session.Account,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}
