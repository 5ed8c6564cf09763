package storefront

import (
	"net/http"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/handler"
)

// OrderHandler serves a customer's own orders
type OrderHandler struct {
	orderService domain.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService domain.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// Mine handles GET /api/orders/mine
//
// Query parameters: status, page, limit.
func (h *OrderHandler) Mine(w http.ResponseWriter, r *http.Request) {
	user, err := handler.CurrentUser(r, "order.list_mine")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	page, limit := pagination(r)
	status := domain.FulfillmentStatus(r.URL.Query().Get("status"))

	result, err := h.orderService.ListUserOrders(r.Context(), user.ID, status, page, limit)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, result)
}

// Show handles GET /api/orders/{id}
//
// Admins may read any order; customers only their own.
func (h *OrderHandler) Show(w http.ResponseWriter, r *http.Request) {
	const op = "order.get"

	user, err := handler.CurrentUser(r, op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	id, err := handler.PathUUID(r, "id", op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), id, user)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, order)
}

// Cancel handles PATCH /api/orders/{id}/cancel
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	const op = "order.cancel"

	user, err := handler.CurrentUser(r, op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	id, err := handler.PathUUID(r, "id", op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orderService.Cancel(r.Context(), id, user.ID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, map[string]any{
		"message": "Order cancelled successfully",
		"order":   order,
	})
}
