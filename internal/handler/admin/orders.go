package admin

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/handler"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderHandler serves the back-office order routes
type OrderHandler struct {
	orderService domain.OrderService
}

// NewOrderHandler creates a new admin order handler
func NewOrderHandler(orderService domain.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note" validate:"max=1000"`
}

type paymentRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required"`
	TransactionID string `json:"transactionId" validate:"max=200"`
	Note          string `json:"note" validate:"max=1000"`
}

type trackingRequest struct {
	Carrier           string     `json:"carrier" validate:"required,max=100"`
	TrackingNumber    string     `json:"trackingNumber" validate:"required,max=100"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery"`
	Note              string     `json:"note" validate:"max=1000"`
}

type noteRequest struct {
	Note string `json:"note" validate:"required,max=1000"`
}

// List handles GET /api/admin/orders
//
// Query parameters: status, paymentStatus, from, to (YYYY-MM-DD, inclusive),
// minAmount, maxAmount, search, page, limit.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseOrderFilter(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	result, err := h.orderService.ListOrders(r.Context(), filter)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, result)
}

// UpdateStatus handles PATCH /api/admin/orders/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	const op = "order.update_status"

	var req statusRequest
	h.mutate(w, r, op, &req, func(r *http.Request, id uuid.UUID) (*domain.Order, error) {
		return h.orderService.UpdateStatus(r.Context(), id, domain.FulfillmentStatus(req.Status), req.Note)
	})
}

// UpdatePayment handles PATCH /api/admin/orders/{id}/payment
func (h *OrderHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	const op = "order.update_payment"

	var req paymentRequest
	h.mutate(w, r, op, &req, func(r *http.Request, id uuid.UUID) (*domain.Order, error) {
		return h.orderService.UpdatePaymentStatus(r.Context(), id, domain.PaymentUpdate{
			Status:        domain.PaymentStatus(req.PaymentStatus),
			TransactionID: req.TransactionID,
			Note:          req.Note,
		})
	})
}

// UpdateTracking handles PATCH /api/admin/orders/{id}/tracking
func (h *OrderHandler) UpdateTracking(w http.ResponseWriter, r *http.Request) {
	const op = "order.update_tracking"

	var req trackingRequest
	h.mutate(w, r, op, &req, func(r *http.Request, id uuid.UUID) (*domain.Order, error) {
		return h.orderService.UpdateTracking(r.Context(), id, domain.TrackingUpdate{
			Carrier:           req.Carrier,
			TrackingNumber:    req.TrackingNumber,
			EstimatedDelivery: req.EstimatedDelivery,
			Note:              req.Note,
		})
	})
}

// AddNote handles PATCH /api/admin/orders/{id}/note
func (h *OrderHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	const op = "order.add_note"

	var req noteRequest
	h.mutate(w, r, op, &req, func(r *http.Request, id uuid.UUID) (*domain.Order, error) {
		return h.orderService.AddNote(r.Context(), id, req.Note)
	})
}

// mutate parses the order id and body, runs fn and writes the updated order.
func (h *OrderHandler) mutate(w http.ResponseWriter, r *http.Request, op string, req any, fn func(*http.Request, uuid.UUID) (*domain.Order, error)) {
	id, err := handler.PathUUID(r, "id", op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if err := handler.DecodeJSON(r, op, req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := fn(r, id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, order)
}

const dateLayout = "2006-01-02"

func parseOrderFilter(r *http.Request) (domain.OrderFilter, error) {
	const op = "order.list"
	q := r.URL.Query()

	filter := domain.OrderFilter{
		Status:        domain.FulfillmentStatus(q.Get("status")),
		PaymentStatus: domain.PaymentStatus(q.Get("paymentStatus")),
		Search:        strings.TrimSpace(q.Get("search")),
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	var verr error
	filter.From, verr = parseDay(q.Get("from"), "from", false, verr)
	filter.To, verr = parseDay(q.Get("to"), "to", true, verr)
	if v := q.Get("minAmount"); v != "" {
		amount, err := decimal.NewFromString(v)
		if err != nil {
			verr = domain.AddFieldError(verr, "minAmount", "minAmount must be a number")
		} else {
			filter.MinAmount = &amount
		}
	}
	if v := q.Get("maxAmount"); v != "" {
		amount, err := decimal.NewFromString(v)
		if err != nil {
			verr = domain.AddFieldError(verr, "maxAmount", "maxAmount must be a number")
		} else {
			filter.MaxAmount = &amount
		}
	}

	if verr != nil {
		if ve, ok := verr.(*domain.ValidationError); ok {
			ve.Op = op
		}
		return filter, verr
	}
	return filter, nil
}
