package service

import (
	"context"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/repository"
	"github.com/shopspring/decimal"
)

// Analytics builds the back-office overview for period. An empty period
// means monthly.
func (s *orderService) Analytics(ctx context.Context, period domain.AnalyticsPeriod) (*domain.Analytics, error) {
	const op = "order.analytics"

	if period == "" {
		period = domain.PeriodMonthly
	}
	if !period.Valid() {
		return nil, domain.WithOp(domain.ErrInvalidPeriod, op)
	}

	from, interval := period.Window(s.now())
	buckets, err := s.repo.SalesByPeriod(ctx, repository.SalesByPeriodParams{
		Interval:    string(interval),
		CreatedFrom: timestamptz(from),
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load sales")
	}
	top, err := s.repo.TopSellingProducts(ctx, domain.TopProductsLimit)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load top products")
	}
	customers, err := s.repo.GetCustomerStats(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load customer stats")
	}
	lowStock, err := s.repo.ListLowStockProducts(ctx, domain.LowStockThreshold)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list low stock products")
	}
	if len(lowStock) > domain.TopProductsLimit {
		lowStock = lowStock[:domain.TopProductsLimit]
	}

	sales, revenue, orders, _ := salesPoints(buckets)
	result := &domain.Analytics{
		Period:       period,
		Interval:     interval,
		From:         from,
		Sales:        sales,
		TotalRevenue: revenue,
		TotalOrders:  orders,
		TopProducts:  make([]domain.TopProduct, 0, len(top)),
		Customers: domain.CustomerStats{
			PayingCustomers: int(customers.Customers),
			AverageSpend:    customers.AverageSpend.Round(2),
			AverageOrders:   customers.AverageOrders.Round(2),
		},
		LowStock: make([]domain.Product, 0, len(lowStock)),
	}
	for _, p := range top {
		result.TopProducts = append(result.TopProducts, domain.TopProduct{
			ProductID: p.ProductID,
			Name:      p.Name,
			UnitsSold: int(p.Units),
			Revenue:   p.Revenue,
		})
	}
	for _, p := range lowStock {
		result.LowStock = append(result.LowStock, mapRepoProductToDomain(p))
	}
	return result, nil
}

// SalesReport buckets paid sales between params.From and params.To. An
// empty GroupBy means daily.
func (s *orderService) SalesReport(ctx context.Context, params domain.SalesReportParams) (*domain.SalesReport, error) {
	const op = "order.sales_report"

	if params.GroupBy == "" {
		params.GroupBy = domain.IntervalDay
	}
	if !params.GroupBy.Valid() {
		return nil, domain.WithOp(domain.ErrInvalidInterval, op)
	}
	if params.From != nil && params.To != nil && params.From.After(*params.To) {
		return nil, domain.WithOp(domain.ErrInvalidDateRange, op)
	}

	buckets, err := s.repo.SalesByPeriod(ctx, repository.SalesByPeriodParams{
		Interval:    string(params.GroupBy),
		CreatedFrom: optionalTimestamptz(params.From),
		CreatedTo:   optionalTimestamptz(params.To),
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load sales")
	}

	rows, revenue, orders, units := salesPoints(buckets)
	return &domain.SalesReport{
		GroupBy:      params.GroupBy,
		From:         params.From,
		To:           params.To,
		Rows:         rows,
		TotalRevenue: revenue,
		TotalOrders:  orders,
		TotalUnits:   units,
	}, nil
}

// salesPoints converts buckets and totals them.
func salesPoints(buckets []repository.SalesBucket) ([]domain.SalesPoint, decimal.Decimal, int, int) {
	points := make([]domain.SalesPoint, 0, len(buckets))
	revenue := decimal.Zero
	var orders, units int

	for _, b := range buckets {
		point := domain.SalesPoint{
			PeriodStart:       b.PeriodStart.UTC(),
			Orders:            int(b.Orders),
			Units:             int(b.Units),
			Revenue:           b.Revenue,
			AverageOrderValue: decimal.Zero,
		}
		if b.Orders > 0 {
			point.AverageOrderValue = b.Revenue.Div(decimal.NewFromInt(b.Orders)).Round(2)
		}
		points = append(points, point)

		revenue = revenue.Add(b.Revenue)
		orders += point.Orders
		units += point.Units
	}
	return points, revenue, orders, units
}

