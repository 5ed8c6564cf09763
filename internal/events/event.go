// Package events publishes order lifecycle events to a message bus.
package events

import (
	"time"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Subjects carried on the bus.
const (
	SubjectOrderCreated   = "order.created"
	SubjectOrderCancelled = "order.cancelled"

	// SubjectOrderAll matches every order subject.
	SubjectOrderAll = "order.*"
)

// OrderEvent is the payload published for an order state change.
type OrderEvent struct {
	Subject       string           `json:"subject"`
	OrderID       uuid.UUID        `json:"orderId"`
	OrderNumber   string           `json:"orderNumber"`
	UserID        uuid.UUID        `json:"userId"`
	Status        string           `json:"status"`
	PaymentStatus string           `json:"paymentStatus"`
	PaymentMethod string           `json:"paymentMethod"`
	TotalAmount   decimal.Decimal  `json:"totalAmount"`
	CouponCode    string           `json:"couponCode,omitempty"`
	Items         []OrderEventItem `json:"items"`
	OccurredAt    time.Time        `json:"occurredAt"`
}

// OrderEventItem identifies a purchased quantity of a product.
type OrderEventItem struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int32     `json:"quantity"`
}

// NewOrderEvent builds the event for subject from an order.
func NewOrderEvent(subject string, order *domain.Order, at time.Time) OrderEvent {
	items := make([]OrderEventItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderEventItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	return OrderEvent{
		Subject:       subject,
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		UserID:        order.UserID,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		PaymentMethod: string(order.PaymentMethod),
		TotalAmount:   order.TotalAmount,
		CouponCode:    order.CouponCode,
		Items:         items,
		OccurredAt:    at.UTC(),
	}
}
