package memstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/dukerupert/vendora/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// orderLineDoc is the part of a stored order item the analytics read.
type orderLineDoc struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

func decodeLines(o repository.Order) ([]orderLineDoc, error) {
	var lines []orderLineDoc
	if err := json.Unmarshal(o.Items, &lines); err != nil {
		return nil, fmt.Errorf("order %s: decode items: %w", o.ID, err)
	}
	return lines, nil
}

// truncate returns the UTC start of the day, ISO week or month holding t.
func truncate(t time.Time, interval string) (time.Time, error) {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch interval {
	case repository.IntervalDay:
		return day, nil
	case repository.IntervalWeek:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset), nil
	case repository.IntervalMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("unknown interval %q", interval)
}

func (q *querier) paidOrders() []repository.Order {
	var out []repository.Order
	for _, o := range q.st.orders {
		if o.PaymentStatus == "paid" {
			out = append(out, o)
		}
	}
	return out
}

func (q *querier) SalesByPeriod(ctx context.Context, arg repository.SalesByPeriodParams) ([]repository.SalesBucket, error) {
	buckets := map[time.Time]*repository.SalesBucket{}
	for _, o := range q.paidOrders() {
		if arg.CreatedFrom.Valid && o.CreatedAt.Before(arg.CreatedFrom.Time) {
			continue
		}
		if arg.CreatedTo.Valid && o.CreatedAt.After(arg.CreatedTo.Time) {
			continue
		}

		start, err := truncate(o.CreatedAt, arg.Interval)
		if err != nil {
			return nil, err
		}
		lines, err := decodeLines(o)
		if err != nil {
			return nil, err
		}

		b, ok := buckets[start]
		if !ok {
			b = &repository.SalesBucket{PeriodStart: start, Revenue: decimal.Zero}
			buckets[start] = b
		}
		b.Orders++
		b.Revenue = b.Revenue.Add(o.TotalAmount)
		for _, l := range lines {
			b.Units += l.Quantity
		}
	}

	out := make([]repository.SalesBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodStart.Before(out[j].PeriodStart) })
	return out, nil
}

func (q *querier) TopSellingProducts(ctx context.Context, limit int32) ([]repository.TopProductRow, error) {
	type total struct {
		row    repository.TopProductRow
		seenAt time.Time
	}
	totals := map[uuid.UUID]*total{}

	for _, o := range q.paidOrders() {
		lines, err := decodeLines(o)
		if err != nil {
			return nil, err
		}
		for _, l := range lines {
			t, ok := totals[l.ProductID]
			if !ok {
				t = &total{row: repository.TopProductRow{ProductID: l.ProductID, Revenue: decimal.Zero}}
				totals[l.ProductID] = t
			}
			t.row.Units += l.Quantity
			t.row.Revenue = t.row.Revenue.Add(l.LineTotal)
			if t.row.Name == "" || o.CreatedAt.After(t.seenAt) {
				t.row.Name = l.Name
				t.seenAt = o.CreatedAt
			}
		}
	}

	out := make([]repository.TopProductRow, 0, len(totals))
	for _, t := range totals {
		out = append(out, t.row)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Units != b.Units {
			return a.Units > b.Units
		}
		if c := a.Revenue.Cmp(b.Revenue); c != 0 {
			return c > 0
		}
		return bytes.Compare(a.ProductID[:], b.ProductID[:]) < 0
	})
	return page(out, limit, 0), nil
}

func (q *querier) GetCustomerStats(ctx context.Context) (repository.CustomerStatsRow, error) {
	row := repository.CustomerStatsRow{AverageSpend: decimal.Zero, AverageOrders: decimal.Zero}

	spent := map[uuid.UUID]decimal.Decimal{}
	orders := int64(0)
	total := decimal.Zero
	for _, o := range q.paidOrders() {
		spent[o.UserID] = spent[o.UserID].Add(o.TotalAmount)
		total = total.Add(o.TotalAmount)
		orders++
	}
	if len(spent) == 0 {
		return row, nil
	}

	row.Customers = int64(len(spent))
	customers := decimal.NewFromInt(row.Customers)
	row.AverageSpend = total.Div(customers)
	row.AverageOrders = decimal.NewFromInt(orders).Div(customers)
	return row, nil
}
