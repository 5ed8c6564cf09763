package storefront

import (
	"net/http"
	"strings"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/handler"
	"github.com/google/uuid"
)

// CartHandler handles all cart routes. Every route requires a user.
type CartHandler struct {
	cartService domain.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService domain.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

type variantInput struct {
	Name   string `json:"name" validate:"max=100"`
	Option string `json:"option" validate:"max=100"`
}

func (v *variantInput) toDomain() domain.Variant {
	if v == nil {
		return domain.Variant{}
	}
	return domain.Variant{Name: strings.TrimSpace(v.Name), Option: strings.TrimSpace(v.Option)}
}

type addItemRequest struct {
	ProductID string        `json:"productId" validate:"required,uuid"`
	Quantity  *int32        `json:"quantity"`
	Variant   *variantInput `json:"variant" validate:"omitempty"`
}

type updateItemRequest struct {
	Quantity *int32        `json:"quantity" validate:"required"`
	Variant  *variantInput `json:"variant" validate:"omitempty"`
}

type removeItemRequest struct {
	Variant *variantInput `json:"variant" validate:"omitempty"`
}

type couponRequest struct {
	Code string `json:"code" validate:"required,max=50"`
}

// View handles GET /api/cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	user, err := handler.CurrentUser(r, "cart.get")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	summary, err := h.cartService.GetCart(r.Context(), user.ID)
	h.respond(w, r, summary, err)
}

// Add handles POST /api/cart
//
// Quantity defaults to 1 when omitted.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	const op = "cart.add_item"

	user, err := handler.CurrentUser(r, op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req addItemRequest
	if err := handler.DecodeJSON(r, op, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	quantity := int32(1)
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	summary, err := h.cartService.AddItem(r.Context(), user.ID, uuid.MustParse(req.ProductID), quantity, req.Variant.toDomain())
	h.respond(w, r, summary, err)
}

// Update handles PATCH /api/cart/{productId}
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "cart.set_quantity"

	user, err := handler.CurrentUser(r, op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	productID, err := handler.PathUUID(r, "productId", op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req updateItemRequest
	if err := handler.DecodeJSON(r, op, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	summary, err := h.cartService.SetItemQuantity(r.Context(), user.ID, productID, *req.Quantity, req.Variant.toDomain())
	h.respond(w, r, summary, err)
}

// Remove handles DELETE /api/cart/{productId}
//
// The variant may be given in the JSON body or as variantName and
// variantOption query parameters.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	const op = "cart.remove_item"

	user, err := handler.CurrentUser(r, op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	productID, err := handler.PathUUID(r, "productId", op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req removeItemRequest
	if err := handler.DecodeJSON(r, op, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if req.Variant == nil {
		q := r.URL.Query()
		if q.Has("variantName") || q.Has("variantOption") {
			req.Variant = &variantInput{Name: q.Get("variantName"), Option: q.Get("variantOption")}
		}
	}

	summary, err := h.cartService.RemoveItem(r.Context(), user.ID, productID, req.Variant.toDomain())
	h.respond(w, r, summary, err)
}

// Clear handles DELETE /api/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user, err := handler.CurrentUser(r, "cart.clear")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.cartService.ClearCart(r.Context(), user.ID); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.Message(w, http.StatusOK, "Cart cleared")
}

// ApplyCoupon handles POST /api/cart/coupon
func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	const op = "cart.apply_coupon"

	user, err := handler.CurrentUser(r, op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req couponRequest
	if err := handler.DecodeJSON(r, op, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	summary, err := h.cartService.ApplyCoupon(r.Context(), user.ID, req.Code)
	h.respond(w, r, summary, err)
}

// ClearCoupon handles DELETE /api/cart/coupon
func (h *CartHandler) ClearCoupon(w http.ResponseWriter, r *http.Request) {
	user, err := handler.CurrentUser(r, "cart.clear_coupon")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	summary, err := h.cartService.ClearCoupon(r.Context(), user.ID)
	h.respond(w, r, summary, err)
}

func (h *CartHandler) respond(w http.ResponseWriter, r *http.Request, summary *domain.CartSummary, err error) {
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, summary)
}
