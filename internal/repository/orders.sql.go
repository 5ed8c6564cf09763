package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const orderColumns = `id, order_number, user_id, items,
    items_subtotal, discount_amount, subtotal, shipping_cost, tax_amount, total_amount, coupon_code,
    shipping_address, billing_address, customer_name, customer_email,
    payment_method, status, payment_status, transaction_id,
    carrier, tracking_number, estimated_delivery, notes,
    paid_at, shipped_at, delivered_at, cancelled_at, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.UserID,
		&o.Items,
		&o.ItemsSubtotal,
		&o.DiscountAmount,
		&o.Subtotal,
		&o.ShippingCost,
		&o.TaxAmount,
		&o.TotalAmount,
		&o.CouponCode,
		&o.ShippingAddress,
		&o.BillingAddress,
		&o.CustomerName,
		&o.CustomerEmail,
		&o.PaymentMethod,
		&o.Status,
		&o.PaymentStatus,
		&o.TransactionID,
		&o.Carrier,
		&o.TrackingNumber,
		&o.EstimatedDelivery,
		&o.Notes,
		&o.PaidAt,
		&o.ShippedAt,
		&o.DeliveredAt,
		&o.CancelledAt,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	return o, err
}

const createOrder = `INSERT INTO orders (
    id, order_number, user_id, items,
    items_subtotal, discount_amount, subtotal, shipping_cost, tax_amount, total_amount, coupon_code,
    shipping_address, billing_address, customer_name, customer_email,
    payment_method, status, payment_status, notes, created_at, updated_at
) VALUES (
    $1, $2, $3, $4,
    $5, $6, $7, $8, $9, $10, $11,
    $12, $13, $14, $15,
    $16, $17, $18, $19, $20, $20
)
RETURNING ` + orderColumns

// CreateOrder inserts a new order. Fulfillment timestamps and tracking
// fields of arg are ignored.
func (q *Queries) CreateOrder(ctx context.Context, arg Order) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, createOrder,
		arg.ID,
		arg.OrderNumber,
		arg.UserID,
		arg.Items,
		arg.ItemsSubtotal,
		arg.DiscountAmount,
		arg.Subtotal,
		arg.ShippingCost,
		arg.TaxAmount,
		arg.TotalAmount,
		arg.CouponCode,
		arg.ShippingAddress,
		arg.BillingAddress,
		arg.CustomerName,
		arg.CustomerEmail,
		arg.PaymentMethod,
		arg.Status,
		arg.PaymentStatus,
		arg.Notes,
		arg.CreatedAt,
	))
}

const getOrder = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrder, id))
}

const getOrderForUpdate = getOrder + ` FOR UPDATE`

func (q *Queries) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderForUpdate, id))
}

// UpdateOrderStateParams carries every column that may change after creation.
type UpdateOrderStateParams struct {
	ID                uuid.UUID
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
}

const updateOrderState = `UPDATE orders
SET status = $2, payment_status = $3, transaction_id = $4,
    carrier = $5, tracking_number = $6, estimated_delivery = $7, notes = $8,
    paid_at = $9, shipped_at = $10, delivered_at = $11, cancelled_at = $12,
    updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns

func (q *Queries) UpdateOrderState(ctx context.Context, arg UpdateOrderStateParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrderState,
		arg.ID,
		arg.Status,
		arg.PaymentStatus,
		arg.TransactionID,
		arg.Carrier,
		arg.TrackingNumber,
		arg.EstimatedDelivery,
		arg.Notes,
		arg.PaidAt,
		arg.ShippedAt,
		arg.DeliveredAt,
		arg.CancelledAt,
	))
}

// ListOrdersParams filters orders. Invalid (NULL) fields match everything.
type ListOrdersParams struct {
	UserID        pgtype.UUID
	Status        pgtype.Text
	PaymentStatus pgtype.Text
	CreatedFrom   pgtype.Timestamptz
	CreatedTo     pgtype.Timestamptz
	MinTotal      decimal.NullDecimal
	MaxTotal      decimal.NullDecimal
	Search        pgtype.Text
	Limit         int32
	Offset        int32
}

const orderFilter = `
WHERE ($1::uuid IS NULL OR user_id = $1)
  AND ($2::text IS NULL OR status = $2)
  AND ($3::text IS NULL OR payment_status = $3)
  AND ($4::timestamptz IS NULL OR created_at >= $4)
  AND ($5::timestamptz IS NULL OR created_at <= $5)
  AND ($6::numeric IS NULL OR total_amount >= $6)
  AND ($7::numeric IS NULL OR total_amount <= $7)
  AND ($8::text IS NULL
       OR order_number ILIKE '%' || $8 || '%'
       OR customer_name ILIKE '%' || $8 || '%'
       OR customer_email ILIKE '%' || $8 || '%')`

const listOrders = `SELECT ` + orderColumns + ` FROM orders` + orderFilter + `
ORDER BY created_at DESC, id
LIMIT $9 OFFSET $10`

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrders,
		arg.UserID,
		arg.Status,
		arg.PaymentStatus,
		arg.CreatedFrom,
		arg.CreatedTo,
		arg.MinTotal,
		arg.MaxTotal,
		arg.Search,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

const countOrders = `SELECT count(*) FROM orders` + orderFilter

func (q *Queries) CountOrders(ctx context.Context, arg ListOrdersParams) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countOrders,
		arg.UserID,
		arg.Status,
		arg.PaymentStatus,
		arg.CreatedFrom,
		arg.CreatedTo,
		arg.MinTotal,
		arg.MaxTotal,
		arg.Search,
	).Scan(&count)
	return count, err
}

type GetOrderStatsParams struct {
	TodayStart time.Time
	MonthStart time.Time
}

const getOrderStats = `SELECT
    count(*),
    count(*) FILTER (WHERE payment_status = 'paid'),
    COALESCE(sum(total_amount) FILTER (WHERE payment_status = 'paid'), 0),
    COALESCE(sum(total_amount) FILTER (WHERE payment_status = 'paid' AND created_at >= $1), 0),
    COALESCE(sum(total_amount) FILTER (WHERE payment_status = 'paid' AND created_at >= $2), 0)
FROM orders`

func (q *Queries) GetOrderStats(ctx context.Context, arg GetOrderStatsParams) (OrderStatsRow, error) {
	var r OrderStatsRow
	err := q.db.QueryRow(ctx, getOrderStats, arg.TodayStart, arg.MonthStart).Scan(
		&r.TotalOrders,
		&r.PaidOrders,
		&r.PaidRevenue,
		&r.TodayRevenue,
		&r.MonthRevenue,
	)
	return r, err
}

const countOrdersByStatus = `SELECT status, count(*) FROM orders GROUP BY status ORDER BY status`

func (q *Queries) CountOrdersByStatus(ctx context.Context) ([]StatusCount, error) {
	return q.statusCounts(ctx, countOrdersByStatus)
}

const countOrdersByPaymentStatus = `SELECT payment_status, count(*) FROM orders GROUP BY payment_status ORDER BY payment_status`

func (q *Queries) CountOrdersByPaymentStatus(ctx context.Context) ([]StatusCount, error) {
	return q.statusCounts(ctx, countOrdersByPaymentStatus)
}

func (q *Queries) statusCounts(ctx context.Context, query string) ([]StatusCount, error) {
	rows, err := q.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (StatusCount, error) {
		var sc StatusCount
		err := row.Scan(&sc.Status, &sc.Count)
		return sc, err
	})
}

const nextOrderSequence = `INSERT INTO order_sequences (period, value)
VALUES ($1, 1)
ON CONFLICT (period) DO UPDATE SET value = order_sequences.value + 1
RETURNING value`

func (q *Queries) NextOrderSequence(ctx context.Context, period string) (int64, error) {
	var value int64
	err := q.db.QueryRow(ctx, nextOrderSequence, period).Scan(&value)
	return value, err
}
