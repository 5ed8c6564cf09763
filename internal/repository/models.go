package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	Stock       int32
	TrackStock  bool
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Cart stores line items as a JSON document.
type Cart struct {
	UserID     uuid.UUID
	Items      []byte
	CouponCode pgtype.Text
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Order stores items, addresses and notes as JSON documents. Customer name
// and email are copied out of the shipping address for search.
type Order struct {
	ID                uuid.UUID
	OrderNumber       string
	UserID            uuid.UUID
	Items             []byte
	ItemsSubtotal     decimal.Decimal
	DiscountAmount    decimal.Decimal
	Subtotal          decimal.Decimal
	ShippingCost      decimal.Decimal
	TaxAmount         decimal.Decimal
	TotalAmount       decimal.Decimal
	CouponCode        pgtype.Text
	ShippingAddress   []byte
	BillingAddress    []byte
	CustomerName      string
	CustomerEmail     string
	PaymentMethod     string
	Status            string
	PaymentStatus     string
	TransactionID     pgtype.Text
	Carrier           pgtype.Text
	TrackingNumber    pgtype.Text
	EstimatedDelivery pgtype.Timestamptz
	Notes             []byte
	PaidAt            pgtype.Timestamptz
	ShippedAt         pgtype.Timestamptz
	DeliveredAt       pgtype.Timestamptz
	CancelledAt       pgtype.Timestamptz
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderStatsRow aggregates order totals for the dashboard.
type OrderStatsRow struct {
	TotalOrders  int64
	PaidOrders   int64
	PaidRevenue  decimal.Decimal
	TodayRevenue decimal.Decimal
	MonthRevenue decimal.Decimal
}

// StatusCount is one row of a GROUP BY status query.
type StatusCount struct {
	Status string
	Count  int64
}
