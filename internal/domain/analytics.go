package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesInterval is the bucket width of a sales series. Weeks start on
// Monday and every boundary is taken in UTC.
type SalesInterval string

const (
	IntervalDay   SalesInterval = "day"
	IntervalWeek  SalesInterval = "week"
	IntervalMonth SalesInterval = "month"
)

// Valid reports whether i is a known interval.
func (i SalesInterval) Valid() bool {
	return i == IntervalDay || i == IntervalWeek || i == IntervalMonth
}

// AnalyticsPeriod selects the window of the analytics overview.
type AnalyticsPeriod string

const (
	PeriodWeekly  AnalyticsPeriod = "weekly"
	PeriodMonthly AnalyticsPeriod = "monthly"
	PeriodYearly  AnalyticsPeriod = "yearly"
)

// Valid reports whether p is a known period.
func (p AnalyticsPeriod) Valid() bool {
	return p == PeriodWeekly || p == PeriodMonthly || p == PeriodYearly
}

// Window returns where the period starts, counting back from now, and the
// interval its sales series is bucketed by.
//
//	weekly:  the last seven days, by week
//	monthly: the current month and the six before it, by month
//	yearly:  the current calendar year, by month
func (p AnalyticsPeriod) Window(now time.Time) (time.Time, SalesInterval) {
	now = now.UTC()
	switch p {
	case PeriodWeekly:
		return now.AddDate(0, 0, -7), IntervalWeek
	case PeriodYearly:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), IntervalMonth
	default:
		return time.Date(now.Year(), now.Month()-6, 1, 0, 0, 0, 0, time.UTC), IntervalMonth
	}
}

// TopProductsLimit caps the best sellers in the analytics overview.
const TopProductsLimit = 10

// SalesPoint aggregates the paid orders of one interval.
type SalesPoint struct {
	PeriodStart       time.Time       `json:"periodStart"`
	Orders            int             `json:"orders"`
	Units             int             `json:"units"`
	Revenue           decimal.Decimal `json:"revenue"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
}

// TopProduct is a best seller, totalled from order item snapshots so
// deleted products still appear.
type TopProduct struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	UnitsSold int             `json:"unitsSold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// CustomerStats describes the customers with at least one paid order.
type CustomerStats struct {
	PayingCustomers int             `json:"payingCustomers"`
	AverageSpend    decimal.Decimal `json:"averageSpend"`
	AverageOrders   decimal.Decimal `json:"averageOrders"`
}

// Analytics is the back-office overview for one period. Only paid orders
// count towards revenue.
type Analytics struct {
	Period       AnalyticsPeriod `json:"period"`
	Interval     SalesInterval   `json:"interval"`
	From         time.Time       `json:"from"`
	Sales        []SalesPoint    `json:"sales"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalOrders  int             `json:"totalOrders"`
	TopProducts  []TopProduct    `json:"topProducts"`
	Customers    CustomerStats   `json:"customers"`
	LowStock     []Product       `json:"lowStock"`
}

// SalesReportParams selects paid orders created between From and To, both
// inclusive and both optional.
type SalesReportParams struct {
	From    *time.Time
	To      *time.Time
	GroupBy SalesInterval
}

// SalesReport is a sales series over an arbitrary range.
type SalesReport struct {
	GroupBy      SalesInterval   `json:"groupBy"`
	From         *time.Time      `json:"from,omitempty"`
	To           *time.Time      `json:"to,omitempty"`
	Rows         []SalesPoint    `json:"rows"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalOrders  int             `json:"totalOrders"`
	TotalUnits   int             `json:"totalUnits"`
}

var (
	ErrInvalidPeriod    = &Error{Code: EINVALID, Message: "Period must be weekly, monthly or yearly"}
	ErrInvalidInterval  = &Error{Code: EINVALID, Message: "Group by must be day, week or month"}
	ErrInvalidDateRange = &Error{Code: EINVALID, Message: "Start date must not be after end date"}
)
