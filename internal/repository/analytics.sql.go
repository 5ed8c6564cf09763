package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Sales buckets accepted by SalesByPeriod. Weeks start on Monday.
const (
	IntervalDay   = "day"
	IntervalWeek  = "week"
	IntervalMonth = "month"
)

// SalesByPeriodParams selects paid orders in an optional created_at range.
type SalesByPeriodParams struct {
	Interval    string
	CreatedFrom pgtype.Timestamptz
	CreatedTo   pgtype.Timestamptz
}

// SalesBucket aggregates the paid orders created in one period.
type SalesBucket struct {
	PeriodStart time.Time
	Orders      int64
	Units       int64
	Revenue     decimal.Decimal
}

const salesByPeriod = `SELECT
    date_trunc($1::text, o.created_at, 'UTC') AS period,
    count(*),
    COALESCE(sum(u.units), 0)::bigint,
    COALESCE(sum(o.total_amount), 0)
FROM orders o
CROSS JOIN LATERAL (
    SELECT COALESCE(sum((e->>'quantity')::bigint), 0) AS units
    FROM jsonb_array_elements(o.items) e
) u
WHERE o.payment_status = 'paid'
  AND ($2::timestamptz IS NULL OR o.created_at >= $2)
  AND ($3::timestamptz IS NULL OR o.created_at <= $3)
GROUP BY period
ORDER BY period`

func (q *Queries) SalesByPeriod(ctx context.Context, arg SalesByPeriodParams) ([]SalesBucket, error) {
	rows, err := q.db.Query(ctx, salesByPeriod, arg.Interval, arg.CreatedFrom, arg.CreatedTo)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (SalesBucket, error) {
		var b SalesBucket
		err := row.Scan(&b.PeriodStart, &b.Orders, &b.Units, &b.Revenue)
		return b, err
	})
}

// TopProductRow totals the paid order lines of one product. Name is taken
// from the most recent order snapshot.
type TopProductRow struct {
	ProductID uuid.UUID
	Name      string
	Units     int64
	Revenue   decimal.Decimal
}

const topSellingProducts = `SELECT
    (e->>'product_id')::uuid AS product_id,
    (array_agg(e->>'name' ORDER BY o.created_at DESC))[1],
    sum((e->>'quantity')::bigint)::bigint AS units,
    sum((e->>'line_total')::numeric) AS revenue
FROM orders o
CROSS JOIN LATERAL jsonb_array_elements(o.items) e
WHERE o.payment_status = 'paid'
GROUP BY product_id
ORDER BY units DESC, revenue DESC, product_id
LIMIT $1`

func (q *Queries) TopSellingProducts(ctx context.Context, limit int32) ([]TopProductRow, error) {
	rows, err := q.db.Query(ctx, topSellingProducts, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (TopProductRow, error) {
		var p TopProductRow
		err := row.Scan(&p.ProductID, &p.Name, &p.Units, &p.Revenue)
		return p, err
	})
}

// CustomerStatsRow averages paid orders per paying customer.
type CustomerStatsRow struct {
	Customers     int64
	AverageSpend  decimal.Decimal
	AverageOrders decimal.Decimal
}

const getCustomerStats = `SELECT count(*), COALESCE(avg(spent), 0), COALESCE(avg(orders), 0)
FROM (
    SELECT user_id, sum(total_amount) AS spent, count(*) AS orders
    FROM orders
    WHERE payment_status = 'paid'
    GROUP BY user_id
) c`

func (q *Queries) GetCustomerStats(ctx context.Context) (CustomerStatsRow, error) {
	var r CustomerStatsRow
	err := q.db.QueryRow(ctx, getCustomerStats).Scan(&r.Customers, &r.AverageSpend, &r.AverageOrders)
	return r, err
}
