package storefront

import (
	"net/http"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/handler"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutHandler handles quote, payment option and order placement routes
type CheckoutHandler struct {
	checkoutService domain.CheckoutService
	currency        string
}

// NewCheckoutHandler creates a new checkout handler. currency is the ISO
// code amounts are quoted in.
func NewCheckoutHandler(checkoutService domain.CheckoutService, currency string) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		currency:        currency,
	}
}

// Address fields are checked by the checkout service so every caller gets
// the same rules; the request only has to carry them.
type checkoutRequest struct {
	ShippingAddress *domain.Address `json:"shippingAddress" validate:"required"`
	BillingAddress  *domain.Address `json:"billingAddress"`
	PaymentMethod   string          `json:"paymentMethod" validate:"required"`
}

type checkoutResponse struct {
	Message     string          `json:"message"`
	OrderID     uuid.UUID       `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// Submit handles POST /api/checkout
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	const op = "checkout.place"

	user, err := handler.CurrentUser(r, op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req checkoutRequest
	if err := handler.DecodeJSON(r, op, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.checkoutService.Checkout(r.Context(), domain.CheckoutParams{
		UserID:          user.ID,
		ShippingAddress: *req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusCreated, checkoutResponse{
		Message:     "Order created successfully",
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TotalAmount: order.TotalAmount,
	})
}

// Quote handles GET /api/checkout/quote
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	user, err := handler.CurrentUser(r, "checkout.quote")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	quote, err := h.checkoutService.Quote(r.Context(), user.ID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, quote)
}

// PaymentOptions handles GET /api/checkout/payment-options
func (h *CheckoutHandler) PaymentOptions(w http.ResponseWriter, r *http.Request) {
	handler.JSON(w, http.StatusOK, map[string]any{
		"currency": h.currency,
		"options":  h.checkoutService.PaymentOptions(),
	})
}
