package service_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dukerupert/vendora/internal/address"
	"github.com/dukerupert/vendora/internal/coupon"
	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/events"
	"github.com/dukerupert/vendora/internal/repository"
	"github.com/dukerupert/vendora/internal/repository/memstore"
	"github.com/dukerupert/vendora/internal/service"
	"github.com/dukerupert/vendora/internal/shipping"
	"github.com/dukerupert/vendora/internal/tax"
	"github.com/dukerupert/vendora/internal/telemetry"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	ctx      context.Context
	store    *memstore.Store
	clock    *fakeClock
	cart     domain.CartService
	checkout domain.CheckoutService
	orders   domain.OrderService
}

// newFixture wires the services with a 10.00 flat fee below 75.00 and a
// 10% tax rate. A nil publisher discards events.
func newFixture(t *testing.T, publisher events.Publisher) *fixture {
	t.Helper()
	return newFixtureWithStore(t, publisher, func(s *memstore.Store) repository.Store { return s })
}

// newFixtureWithStore is newFixture with the services running against
// wrap(store) instead of the memstore itself.
func newFixtureWithStore(t *testing.T, publisher events.Publisher, wrap func(*memstore.Store) repository.Store) *fixture {
	t.Helper()

	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	clock := &fakeClock{now: time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)}
	store := memstore.New(memstore.WithClock(clock.Now))
	coupons := coupon.NewDefaultEvaluator()
	metrics := telemetry.NewBusinessMetrics("test", prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	taxCalc, err := tax.NewPercentageCalculator(dec("0.10"))
	require.NoError(t, err)

	repo := wrap(store)

	return &fixture{
		ctx:   context.Background(),
		store: store,
		clock: clock,
		cart:  service.NewCartService(repo, coupons, metrics),
		checkout: service.NewCheckoutService(
			repo,
			coupons,
			shipping.NewStandardProvider(dec("10.00"), dec("75.00")),
			taxCalc,
			address.NewBasicValidator(),
			publisher,
			metrics,
			logger,
			service.CheckoutConfig{OrderNumberPrefix: "SC", Now: clock.Now},
		),
		orders: service.NewOrderService(repo, publisher, metrics, logger, service.OrderConfig{
			CancellationWindow: time.Hour,
			Now:                clock.Now,
		}),
	}
}

func (f *fixture) addProduct(t *testing.T, name, price string, stock int32, tracked bool) repository.Product {
	t.Helper()
	p, err := f.store.CreateProduct(f.ctx, repository.CreateProductParams{
		ID:         uuid.New(),
		Name:       name,
		Category:   "coffee",
		Price:      dec(price),
		Stock:      stock,
		TrackStock: tracked,
		Status:     string(domain.ProductStatusActive),
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) stockOf(t *testing.T, id uuid.UUID) int32 {
	t.Helper()
	p, err := f.store.GetProduct(f.ctx, id)
	require.NoError(t, err)
	return p.Stock
}

func (f *fixture) addToCart(t *testing.T, userID, productID uuid.UUID, qty int32) {
	t.Helper()
	_, err := f.cart.AddItem(f.ctx, userID, productID, qty, domain.Variant{})
	require.NoError(t, err)
}

// placeOrder checks out the user's cart with a valid address.
func (f *fixture) placeOrder(t *testing.T, userID uuid.UUID) *domain.Order {
	t.Helper()
	order, err := f.checkout.Checkout(f.ctx, checkoutParams(userID))
	require.NoError(t, err)
	return order
}

func checkoutParams(userID uuid.UUID) domain.CheckoutParams {
	return domain.CheckoutParams{
		UserID:          userID,
		ShippingAddress: shippingAddress(),
		PaymentMethod:   domain.PaymentMethodYoco,
	}
}

func shippingAddress() domain.Address {
	return domain.Address{
		FirstName:  "Thandi",
		LastName:   "Nkosi",
		Email:      "thandi@example.com",
		Street:     "12 Long Street",
		City:       "Cape Town",
		PostalCode: "8001",
		Country:    "ZA",
	}
}

func repositoryUpdate(p repository.Product) repository.UpdateProductParams {
	return repository.UpdateProductParams{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		TrackStock:  p.TrackStock,
		Status:      p.Status,
	}
}

// stockLog records the product IDs passed to stock changes, in call order.
type stockLog struct {
	*memstore.Store

	mu         sync.Mutex
	decrements []uuid.UUID
	increments []uuid.UUID
}

func (l *stockLog) InTx(ctx context.Context, fn func(q repository.Querier) error) error {
	return l.Store.InTx(ctx, func(q repository.Querier) error {
		return fn(stockLogQuerier{Querier: q, log: l})
	})
}

type stockLogQuerier struct {
	repository.Querier
	log *stockLog
}

func (q stockLogQuerier) DecrementStock(ctx context.Context, arg repository.StockChangeParams) (int64, error) {
	q.log.mu.Lock()
	q.log.decrements = append(q.log.decrements, arg.ID)
	q.log.mu.Unlock()
	return q.Querier.DecrementStock(ctx, arg)
}

func (q stockLogQuerier) IncrementStock(ctx context.Context, arg repository.StockChangeParams) (int64, error) {
	q.log.mu.Lock()
	q.log.increments = append(q.log.increments, arg.ID)
	q.log.mu.Unlock()
	return q.Querier.IncrementStock(ctx, arg)
}
