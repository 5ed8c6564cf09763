package service_test

import (
	"testing"
	"time"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) markPaid(t *testing.T, order *domain.Order) {
	t.Helper()
	_, err := f.orders.UpdatePaymentStatus(f.ctx, order.ID, domain.PaymentUpdate{Status: domain.PaymentPaid})
	require.NoError(t, err)
}

func TestOrderService_Analytics(t *testing.T) {
	f := newFixture(t, nil)
	beans := f.addProduct(t, "House Blend", "80.00", 100, true)
	kettle := f.addProduct(t, "Gooseneck Kettle", "45.00", 100, true)
	f.addProduct(t, "Scale", "30.00", 2, true)
	alice, bob := uuid.New(), uuid.New()

	// Friday 16 October.
	f.addToCart(t, alice, beans.ID, 2)
	first := f.placeOrder(t, alice)
	f.markPaid(t, first)

	// Monday 19 October.
	f.clock.Advance(72 * time.Hour)
	f.addToCart(t, bob, beans.ID, 1)
	f.addToCart(t, bob, kettle.ID, 1)
	second := f.placeOrder(t, bob)
	f.markPaid(t, second)

	// Unpaid orders are left out.
	f.addToCart(t, alice, kettle.ID, 3)
	f.placeOrder(t, alice)

	got, err := f.orders.Analytics(f.ctx, domain.PeriodWeekly)
	require.NoError(t, err)

	assert.Equal(t, domain.IntervalWeek, got.Interval)
	assert.Equal(t, time.Date(2026, 10, 12, 10, 0, 0, 0, time.UTC), got.From)
	require.Len(t, got.Sales, 2)
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), got.Sales[0].PeriodStart)
	assert.Equal(t, 2, got.Sales[0].Units)
	assert.True(t, got.Sales[0].Revenue.Equal(first.TotalAmount))
	assert.True(t, got.Sales[0].AverageOrderValue.Equal(first.TotalAmount.Round(2)))
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), got.Sales[1].PeriodStart)
	assert.Equal(t, 2, got.TotalOrders)
	assert.True(t, got.TotalRevenue.Equal(first.TotalAmount.Add(second.TotalAmount)))

	require.Len(t, got.TopProducts, 2)
	assert.Equal(t, beans.ID, got.TopProducts[0].ProductID)
	assert.Equal(t, "House Blend", got.TopProducts[0].Name)
	assert.Equal(t, 3, got.TopProducts[0].UnitsSold)
	assert.True(t, got.TopProducts[0].Revenue.Equal(dec("240.00")))
	assert.Equal(t, kettle.ID, got.TopProducts[1].ProductID)
	assert.Equal(t, 1, got.TopProducts[1].UnitsSold)

	assert.Equal(t, 2, got.Customers.PayingCustomers)
	assert.True(t, got.Customers.AverageOrders.Equal(dec("1")))

	require.Len(t, got.LowStock, 1)
	assert.Equal(t, "Scale", got.LowStock[0].Name)
}

func TestOrderService_Analytics_Periods(t *testing.T) {
	f := newFixture(t, nil)

	got, err := f.orders.Analytics(f.ctx, "")
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodMonthly, got.Period)
	assert.Equal(t, domain.IntervalMonth, got.Interval)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), got.From)
	assert.Empty(t, got.Sales)
	assert.NotNil(t, got.TopProducts)
	assert.True(t, got.TotalRevenue.IsZero())
	assert.True(t, got.Customers.AverageSpend.IsZero())

	got, err = f.orders.Analytics(f.ctx, domain.PeriodYearly)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), got.From)

	_, err = f.orders.Analytics(f.ctx, "daily")
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}

func TestOrderService_SalesReport(t *testing.T) {
	f := newFixture(t, nil)
	beans := f.addProduct(t, "House Blend", "80.00", 100, true)
	alice := uuid.New()

	var orders []*domain.Order
	for i := 0; i < 3; i++ {
		f.addToCart(t, alice, beans.ID, int32(i+1))
		order := f.placeOrder(t, alice)
		f.markPaid(t, order)
		orders = append(orders, order)
		f.clock.Advance(24 * time.Hour)
	}

	day := func(d int) *time.Time {
		v := time.Date(2026, 10, d, 0, 0, 0, 0, time.UTC)
		return &v
	}
	endOf := func(d int) *time.Time {
		v := day(d).Add(24*time.Hour - time.Nanosecond)
		return &v
	}

	t.Run("daily within range", func(t *testing.T) {
		report, err := f.orders.SalesReport(f.ctx, domain.SalesReportParams{From: day(17), To: endOf(18)})
		require.NoError(t, err)

		assert.Equal(t, domain.IntervalDay, report.GroupBy)
		require.Len(t, report.Rows, 2)
		assert.Equal(t, *day(17), report.Rows[0].PeriodStart)
		assert.Equal(t, 2, report.Rows[0].Units)
		assert.Equal(t, *day(18), report.Rows[1].PeriodStart)
		assert.Equal(t, 5, report.TotalUnits)
		assert.Equal(t, 2, report.TotalOrders)
		assert.True(t, report.TotalRevenue.Equal(orders[1].TotalAmount.Add(orders[2].TotalAmount)))
	})

	t.Run("monthly open range", func(t *testing.T) {
		report, err := f.orders.SalesReport(f.ctx, domain.SalesReportParams{GroupBy: domain.IntervalMonth})
		require.NoError(t, err)
		require.Len(t, report.Rows, 1)
		assert.Equal(t, *day(1), report.Rows[0].PeriodStart)
		assert.Equal(t, 3, report.Rows[0].Orders)
		assert.Equal(t, 6, report.TotalUnits)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := f.orders.SalesReport(f.ctx, domain.SalesReportParams{GroupBy: "hour"})
		assert.ErrorIs(t, err, domain.ErrInvalidInterval)

		_, err = f.orders.SalesReport(f.ctx, domain.SalesReportParams{From: day(20), To: day(10)})
		assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
	})
}
