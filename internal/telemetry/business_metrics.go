package telemetry

import (
	"github.com/dukerupert/vendora/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for storefront observability.
// All recording methods are safe on a nil receiver.
type BusinessMetrics struct {
	// Cart
	CartUpdated    *prometheus.CounterVec
	CouponsApplied *prometheus.CounterVec
	CouponRejected *prometheus.CounterVec

	// Checkout funnel
	CheckoutFailed *prometheus.CounterVec

	// Orders
	OrdersCreated   *prometheus.CounterVec
	OrderValue      prometheus.Histogram
	OrderItemCount  prometheus.Histogram
	OrderRevenue    prometheus.Counter
	OrdersCancelled prometheus.Counter
	StatusChanges   *prometheus.CounterVec

	// Inventory
	LowStockAlerts *prometheus.CounterVec

	// Auth & accounts
	Signups     prometheus.Counter
	Logins      *prometheus.CounterVec
	LoginFailed prometheus.Counter

	// Events
	EventsPublished *prometheus.CounterVec
	EventsFailed    *prometheus.CounterVec
	EventsProcessed *prometheus.CounterVec
}

// NewBusinessMetrics creates the business metrics and registers them with reg.
func NewBusinessMetrics(namespace string, reg prometheus.Registerer) *BusinessMetrics {
	if namespace == "" {
		namespace = "vendora"
	}
	const subsystem = "business"
	factory := promauto.With(reg)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem, Name: name, Help: help,
		})
	}
	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem, Name: name, Help: help,
		}, labels)
	}

	return &BusinessMetrics{
		CartUpdated:    counterVec("cart_updated_total", "Total cart update operations", "action"), // add, update_quantity, remove, clear
		CouponsApplied: counterVec("coupons_applied_total", "Total coupons attached to carts", "code"),
		CouponRejected: counterVec("coupons_rejected_total", "Total coupon applications rejected", "reason"),

		CheckoutFailed: counterVec("checkout_failed_total", "Total checkouts rejected", "reason"),

		OrdersCreated: counterVec("orders_created_total", "Total orders created", "payment_method"),
		OrderValue: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "order_value",
			Help:      "Order total distribution in store currency",
			Buckets:   []float64{10, 25, 50, 75, 100, 150, 250, 500, 1000},
		}),
		OrderItemCount: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "order_item_count",
			Help:      "Number of units per order",
			Buckets:   []float64{1, 2, 3, 5, 10, 15, 20},
		}),
		OrderRevenue:    counter("order_revenue_total", "Sum of order totals at checkout in store currency"),
		OrdersCancelled: counter("orders_cancelled_total", "Total orders cancelled by customers"),
		StatusChanges:   counterVec("order_status_changes_total", "Total admin fulfillment status changes", "status"),

		LowStockAlerts: counterVec("low_stock_alerts_total", "Total low-stock warnings raised after orders", "product_id"),

		Signups:     counter("signups_total", "Total successful registrations"),
		Logins:      counterVec("logins_total", "Total successful logins", "role"),
		LoginFailed: counter("login_failed_total", "Total failed login attempts"),

		EventsPublished: counterVec("events_published_total", "Total order events published", "subject"),
		EventsFailed:    counterVec("events_failed_total", "Total order events that failed to publish", "subject"),
		EventsProcessed: counterVec("events_processed_total", "Total order events consumed", "subject"),
	}
}

// OrderPlaced records a successful checkout.
func (m *BusinessMetrics) OrderPlaced(order *domain.Order) {
	if m == nil {
		return
	}
	total, _ := order.TotalAmount.Float64()
	var units int32
	for _, item := range order.Items {
		units += item.Quantity
	}

	m.OrdersCreated.WithLabelValues(string(order.PaymentMethod)).Inc()
	m.OrderValue.Observe(total)
	m.OrderItemCount.Observe(float64(units))
	m.OrderRevenue.Add(total)
}

// CheckoutRejected records a failed checkout by error code.
func (m *BusinessMetrics) CheckoutRejected(err error) {
	if m == nil {
		return
	}
	m.CheckoutFailed.WithLabelValues(reason(err)).Inc()
}

// OrderCancelled records a customer cancellation.
func (m *BusinessMetrics) OrderCancelled() {
	if m == nil {
		return
	}
	m.OrdersCancelled.Inc()
}

// StatusChanged records an admin fulfillment status change.
func (m *BusinessMetrics) StatusChanged(status domain.FulfillmentStatus) {
	if m == nil {
		return
	}
	m.StatusChanges.WithLabelValues(string(status)).Inc()
}

// CartAction records a cart mutation.
func (m *BusinessMetrics) CartAction(action string) {
	if m == nil {
		return
	}
	m.CartUpdated.WithLabelValues(action).Inc()
}

// CouponApplied records a coupon attached to a cart.
func (m *BusinessMetrics) CouponApplied(code string) {
	if m == nil {
		return
	}
	m.CouponsApplied.WithLabelValues(code).Inc()
}

// CouponRejectedFor records a rejected coupon by error code.
func (m *BusinessMetrics) CouponRejectedFor(err error) {
	if m == nil {
		return
	}
	m.CouponRejected.WithLabelValues(reason(err)).Inc()
}

// LowStock records a low-stock warning for a product.
func (m *BusinessMetrics) LowStock(productID string) {
	if m == nil {
		return
	}
	m.LowStockAlerts.WithLabelValues(productID).Inc()
}

// Signup records a registration.
func (m *BusinessMetrics) Signup() {
	if m == nil {
		return
	}
	m.Signups.Inc()
}

// Login records a login attempt.
func (m *BusinessMetrics) Login(role domain.Role, ok bool) {
	if m == nil {
		return
	}
	if !ok {
		m.LoginFailed.Inc()
		return
	}
	m.Logins.WithLabelValues(string(role)).Inc()
}

// EventPublished records the outcome of publishing an event on subject.
func (m *BusinessMetrics) EventPublished(subject string, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.EventsFailed.WithLabelValues(subject).Inc()
		return
	}
	m.EventsPublished.WithLabelValues(subject).Inc()
}

// EventProcessed records a consumed event.
func (m *BusinessMetrics) EventProcessed(subject string) {
	if m == nil {
		return
	}
	m.EventsProcessed.WithLabelValues(subject).Inc()
}

// reason labels an error by its domain code.
func reason(err error) string {
	if domain.IsValidationError(err) {
		return domain.EINVALID
	}
	return domain.ErrorCode(err)
}
