package admin

import (
	"net/http"
	"strings"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/handler"
)

// UserHandler serves account administration routes
type UserHandler struct {
	userService domain.UserService
}

// NewUserHandler creates a new admin user handler
func NewUserHandler(userService domain.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

type roleRequest struct {
	Role string `json:"role" validate:"required,oneof=customer admin"`
}

// List handles GET /api/admin/users
//
// Query parameters: role, search (name or email), page, limit.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := pageParams(r)

	result, err := h.userService.List(r.Context(), domain.UserFilter{
		Role:   domain.Role(q.Get("role")),
		Search: strings.TrimSpace(q.Get("search")),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, result)
}

// UpdateRole handles PATCH /api/admin/users/{id}/role
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	const op = "user.set_role"

	actor, err := handler.CurrentUser(r, op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	id, err := handler.PathUUID(r, "id", op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	var req roleRequest
	if err := handler.DecodeJSON(r, op, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	account, err := h.userService.SetRole(r.Context(), id, domain.Role(req.Role), actor)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, account)
}
