package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// ORDER STATUS
// =============================================================================

// FulfillmentStatus is the fulfillment axis of an order.
// Admin changes are permissive: any known status may replace any other.
type FulfillmentStatus string

const (
	StatusProcessing FulfillmentStatus = "processing"
	StatusConfirmed  FulfillmentStatus = "confirmed"
	StatusShipped    FulfillmentStatus = "shipped"
	StatusDelivered  FulfillmentStatus = "delivered"
	StatusCancelled  FulfillmentStatus = "cancelled"
	StatusOnHold     FulfillmentStatus = "on_hold"
)

// FulfillmentStatuses lists every fulfillment status.
var FulfillmentStatuses = []FulfillmentStatus{
	StatusProcessing, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled, StatusOnHold,
}

// Valid reports whether s is a known fulfillment status.
func (s FulfillmentStatus) Valid() bool {
	for _, v := range FulfillmentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// CustomerCancellable reports whether the owner may still cancel from this status.
func (s FulfillmentStatus) CustomerCancellable() bool {
	return s == StatusProcessing || s == StatusConfirmed || s == StatusOnHold
}

// PaymentStatus is the payment axis of an order, independent of fulfillment.
type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "pending"
	PaymentPaid              PaymentStatus = "paid"
	PaymentFailed            PaymentStatus = "failed"
	PaymentRefunded          PaymentStatus = "refunded"
	PaymentPartiallyRefunded PaymentStatus = "partially_refunded"
)

// PaymentStatuses lists every payment status.
var PaymentStatuses = []PaymentStatus{
	PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded, PaymentPartiallyRefunded,
}

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	for _, v := range PaymentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// =============================================================================
// ORDER TYPES
// =============================================================================

// Address is a postal address captured at checkout.
type Address struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// FullName joins first and last name.
func (a Address) FullName() string {
	return a.FirstName + " " + a.LastName
}

// OrderItem is a frozen copy of a cart line at the moment of purchase.
// It never references live product data.
type OrderItem struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int32           `json:"quantity"`
	Variant   Variant         `json:"variant"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// Totals are the monetary amounts of an order.
// TotalAmount always equals Subtotal + ShippingCost + TaxAmount, where
// Subtotal is the items subtotal after the coupon discount.
type Totals struct {
	ItemsSubtotal  decimal.Decimal `json:"itemsSubtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	ShippingCost   decimal.Decimal `json:"shippingCost"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	CouponCode     string          `json:"couponCode,omitempty"`
}

// Tracking holds carrier details recorded when an order ships.
type Tracking struct {
	Carrier           string     `json:"carrier"`
	TrackingNumber    string     `json:"trackingNumber"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
}

// OrderNote is an admin annotation on an order.
type OrderNote struct {
	Text      string    `json:"text"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Order is the immutable record of a completed checkout. Only status,
// payment, tracking and notes change after creation.
type Order struct {
	ID              uuid.UUID         `json:"id"`
	OrderNumber     string            `json:"orderNumber"`
	UserID          uuid.UUID         `json:"userId"`
	Items           []OrderItem       `json:"items"`
	Totals                            // flattened into the order JSON
	ShippingAddress Address           `json:"shippingAddress"`
	BillingAddress  Address           `json:"billingAddress"`
	PaymentMethod   PaymentMethod     `json:"paymentMethod"`
	Status          FulfillmentStatus `json:"status"`
	PaymentStatus   PaymentStatus     `json:"paymentStatus"`
	TransactionID   string            `json:"transactionId,omitempty"`
	Tracking        *Tracking         `json:"tracking,omitempty"`
	Notes           []OrderNote       `json:"notes"`
	PaidAt          *time.Time        `json:"paidAt,omitempty"`
	ShippedAt       *time.Time        `json:"shippedAt,omitempty"`
	DeliveredAt     *time.Time        `json:"deliveredAt,omitempty"`
	CancelledAt     *time.Time        `json:"cancelledAt,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// FormatOrderNumber renders <prefix>-<YYYY><MM>-<seq>, seq zero-padded to four digits.
func FormatOrderNumber(prefix string, createdAt time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, OrderPeriod(createdAt), seq)
}

// OrderPeriod returns the YYYYMM key that scopes order number sequences.
func OrderPeriod(t time.Time) string {
	return t.UTC().Format("200601")
}

// OrderFilter narrows an order listing.
type OrderFilter struct {
	UserID        *uuid.UUID
	Status        FulfillmentStatus
	PaymentStatus PaymentStatus
	From          *time.Time
	To            *time.Time
	MinAmount     *decimal.Decimal
	MaxAmount     *decimal.Decimal
	// Search matches order number, customer name or email.
	Search string
	Page   int
	Limit  int
}

// OrderPage is one page of an order listing, newest first.
type OrderPage struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
}

// OrderStats summarizes orders for the admin dashboard.
type OrderStats struct {
	TotalOrders       int                       `json:"totalOrders"`
	ByStatus          map[FulfillmentStatus]int `json:"byStatus"`
	ByPaymentStatus   map[PaymentStatus]int     `json:"byPaymentStatus"`
	PaidOrders        int                       `json:"paidOrders"`
	PaidRevenue       decimal.Decimal           `json:"paidRevenue"`
	AverageOrderValue decimal.Decimal           `json:"averageOrderValue"`
	TodayRevenue      decimal.Decimal           `json:"todayRevenue"`
	MonthRevenue      decimal.Decimal           `json:"monthRevenue"`
	LowStock          []Product                 `json:"lowStock"`
}

// =============================================================================
// ORDER DOMAIN ERRORS
// =============================================================================

var (
	ErrOrderNotFound            = &Error{Code: ENOTFOUND, Message: "Order not found"}
	ErrNotOrderOwner            = &Error{Code: EFORBIDDEN, Message: "You do not have access to this order"}
	ErrOrderNotCancellable      = &Error{Code: EFORBIDDEN, Message: "Order can no longer be cancelled"}
	ErrCancellationWindowClosed = &Error{Code: EFORBIDDEN, Message: "Orders can only be cancelled within the cancellation window"}
	ErrInvalidOrderStatus       = &Error{Code: EINVALID, Message: "Unknown order status"}
	ErrInvalidPaymentStatus     = &Error{Code: EINVALID, Message: "Unknown payment status"}
	ErrTrackingRequired         = &Error{Code: EINVALID, Message: "Carrier and tracking number are required"}
	ErrNoteRequired             = &Error{Code: EINVALID, Message: "Note cannot be empty"}
)

// PaymentUpdate contains the input for an admin payment status change.
type PaymentUpdate struct {
	Status        PaymentStatus
	TransactionID string
	Note          string
}

// TrackingUpdate contains the input for recording shipment details.
type TrackingUpdate struct {
	Carrier           string
	TrackingNumber    string
	EstimatedDelivery *time.Time
	Note              string
}

// OrderService provides order reads, admin mutations and customer cancellation.
type OrderService interface {
	// GetOrder returns an order visible to the requester (owner or admin).
	GetOrder(ctx context.Context, orderID uuid.UUID, requester *User) (*Order, error)

	// ListUserOrders lists a customer's own orders, optionally filtered by status.
	ListUserOrders(ctx context.Context, userID uuid.UUID, status FulfillmentStatus, page, limit int) (*OrderPage, error)

	// ListOrders lists all orders for the admin back office.
	ListOrders(ctx context.Context, filter OrderFilter) (*OrderPage, error)

	// UpdateStatus sets the fulfillment status.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status FulfillmentStatus, note string) (*Order, error)

	// UpdatePaymentStatus sets the payment status. Paid stamps PaidAt.
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, update PaymentUpdate) (*Order, error)

	// UpdateTracking records shipment details and marks the order shipped.
	UpdateTracking(ctx context.Context, orderID uuid.UUID, update TrackingUpdate) (*Order, error)

	// AddNote appends an admin note.
	AddNote(ctx context.Context, orderID uuid.UUID, note string) (*Order, error)

	// Cancel is the customer cancellation path. It restores stock for every item.
	Cancel(ctx context.Context, orderID, userID uuid.UUID) (*Order, error)

	// Stats summarizes orders for the dashboard.
	Stats(ctx context.Context) (*OrderStats, error)

	// Analytics returns the sales series, best sellers and customer figures
	// for a period.
	Analytics(ctx context.Context, period AnalyticsPeriod) (*Analytics, error)

	// SalesReport buckets paid sales over a date range.
	SalesReport(ctx context.Context, params SalesReportParams) (*SalesReport, error)
}
