package service

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/dukerupert/vendora/internal/address"
	"github.com/dukerupert/vendora/internal/coupon"
	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/events"
	"github.com/dukerupert/vendora/internal/repository"
	"github.com/dukerupert/vendora/internal/shipping"
	"github.com/dukerupert/vendora/internal/tax"
	"github.com/dukerupert/vendora/internal/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultOrderNumberPrefix is used when CheckoutConfig leaves the prefix empty.
const DefaultOrderNumberPrefix = "SC"

// CheckoutConfig holds checkout settings that are not collaborators.
type CheckoutConfig struct {
	OrderNumberPrefix string
	// Now defaults to time.Now.
	Now func() time.Time
}

type checkoutService struct {
	repo             repository.Store
	coupons          *coupon.Evaluator
	shippingProvider shipping.Provider
	taxCalculator    tax.Calculator
	addressValidator address.Validator
	notifier         orderNotifier
	metrics          *telemetry.BusinessMetrics
	logger           *slog.Logger
	prefix           string
	now              func() time.Time
}

// NewCheckoutService creates a new CheckoutService instance
func NewCheckoutService(
	repo repository.Store,
	coupons *coupon.Evaluator,
	shippingProvider shipping.Provider,
	taxCalculator tax.Calculator,
	addressValidator address.Validator,
	publisher events.Publisher,
	metrics *telemetry.BusinessMetrics,
	logger *slog.Logger,
	cfg CheckoutConfig,
) domain.CheckoutService {
	if cfg.OrderNumberPrefix == "" {
		cfg.OrderNumberPrefix = DefaultOrderNumberPrefix
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &checkoutService{
		repo:             repo,
		coupons:          coupons,
		shippingProvider: shippingProvider,
		taxCalculator:    taxCalculator,
		addressValidator: addressValidator,
		notifier:         orderNotifier{publisher: publisher, metrics: metrics, logger: logger},
		metrics:          metrics,
		logger:           logger,
		prefix:           cfg.OrderNumberPrefix,
		now:              cfg.Now,
	}
}

// orderLine pairs a frozen order item with the product it was taken from.
type orderLine struct {
	item    domain.OrderItem
	product domain.Product
}

// Checkout converts the user's cart into an order.
//
// Stock decrements, the order number, the order row and the cleared cart
// are written in one transaction.
func (s *checkoutService) Checkout(ctx context.Context, params domain.CheckoutParams) (*domain.Order, error) {
	const op = "checkout.submit"

	order, err := s.checkout(ctx, params)
	if err != nil {
		s.metrics.CheckoutRejected(err)
		return nil, passThrough(err, op, "checkout failed")
	}

	s.metrics.OrderPlaced(order)
	s.notifier.notify(ctx, events.SubjectOrderCreated, order, order.CreatedAt)

	s.logger.Info("order placed",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"user_id", order.UserID,
		"total", order.TotalAmount.StringFixed(2),
		"items", len(order.Items),
		"payment_method", order.PaymentMethod,
	)
	return order, nil
}

func (s *checkoutService) checkout(ctx context.Context, params domain.CheckoutParams) (*domain.Order, error) {
	const op = "checkout.submit"

	if !params.PaymentMethod.Valid() {
		return nil, domain.WithOp(domain.ErrInvalidPaymentMethod, op)
	}
	shippingAddr, err := s.validateAddress(ctx, params.ShippingAddress, "shippingAddress")
	if err != nil {
		return nil, err
	}
	billingAddr := shippingAddr
	if params.BillingAddress != nil {
		billingAddr, err = s.validateAddress(ctx, *params.BillingAddress, "billingAddress")
		if err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	var order *domain.Order

	err = s.repo.InTx(ctx, func(q repository.Querier) error {
		cart, err := lockCart(ctx, q, params.UserID, op, true)
		if err != nil {
			return err
		}
		if cart.IsEmpty() {
			return domain.WithOp(domain.ErrEmptyCart, op)
		}

		lines, err := snapshotLines(ctx, q, cart, op)
		if err != nil {
			return err
		}
		totals, err := s.calculateTotals(ctx, lines, cart.CouponCode, shippingAddr)
		if err != nil {
			return err
		}

		if err := decrementStock(ctx, q, lines, op); err != nil {
			return err
		}

		seq, err := q.NextOrderSequence(ctx, domain.OrderPeriod(now))
		if err != nil {
			return domain.Internal(err, op, "failed to allocate order number")
		}

		row, err := newOrderRow(lines, totals, shippingAddr, billingAddr, params, now)
		if err != nil {
			return domain.Internal(err, op, "failed to encode order")
		}
		row.OrderNumber = domain.FormatOrderNumber(s.prefix, now, seq)

		created, err := q.CreateOrder(ctx, row)
		if err != nil {
			return domain.Internal(err, op, "failed to create order")
		}

		cart.Clear()
		cartParams, err := upsertCartParams(cart)
		if err != nil {
			return domain.Internal(err, op, "failed to encode cart")
		}
		if _, err := q.UpsertCart(ctx, cartParams); err != nil {
			return domain.Internal(err, op, "failed to clear cart")
		}

		order, err = mapRepoOrderToDomain(created)
		if err != nil {
			return domain.Internal(err, op, "failed to read order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Quote computes the totals the cart would check out at. Nothing is written.
func (s *checkoutService) Quote(ctx context.Context, userID uuid.UUID) (*domain.CheckoutQuote, error) {
	const op = "checkout.quote"

	row, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domain.WithOp(domain.ErrEmptyCart, op)
		}
		return nil, domain.Internal(err, op, "failed to get cart")
	}
	cart, err := mapRepoCartToDomain(row)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to read cart")
	}
	if cart.IsEmpty() {
		return nil, domain.WithOp(domain.ErrEmptyCart, op)
	}

	lines, err := snapshotLines(ctx, s.repo, cart, op)
	if err != nil {
		return nil, err
	}
	totals, err := s.calculateTotals(ctx, lines, cart.CouponCode, domain.Address{})
	if err != nil {
		return nil, passThrough(err, op, "failed to calculate totals")
	}

	items := make([]domain.OrderItem, len(lines))
	for i, l := range lines {
		items[i] = l.item
	}
	return &domain.CheckoutQuote{Items: items, Totals: totals}, nil
}

// PaymentOptions lists the supported payment methods.
func (s *checkoutService) PaymentOptions() []domain.PaymentOption {
	options := make([]domain.PaymentOption, len(domain.PaymentOptions))
	copy(options, domain.PaymentOptions)
	return options
}

func (s *checkoutService) validateAddress(ctx context.Context, addr domain.Address, role string) (domain.Address, error) {
	const op = "checkout.validate_address"

	result, err := s.addressValidator.Validate(ctx, addr)
	if err != nil {
		return domain.Address{}, domain.Internal(err, op, "failed to validate address")
	}
	if err := result.AsDomainError(op, role); err != nil {
		return domain.Address{}, err
	}
	if result.NormalizedAddress != nil {
		return *result.NormalizedAddress, nil
	}
	return addr, nil
}

// calculateTotals prices the lines. The coupon is re-evaluated against the
// items subtotal; shipping and tax are computed on the discounted subtotal.
func (s *checkoutService) calculateTotals(ctx context.Context, lines []orderLine, couponCode string, addr domain.Address) (domain.Totals, error) {
	const op = "checkout.totals"

	itemsSubtotal := decimal.Zero
	for _, l := range lines {
		itemsSubtotal = itemsSubtotal.Add(l.item.LineTotal)
	}

	var discount coupon.Discount
	if couponCode != "" {
		d, err := s.coupons.Evaluate(couponCode, itemsSubtotal)
		if err != nil {
			return domain.Totals{}, domain.WithOp(err, op)
		}
		discount = d
	}
	subtotal := discount.SubtotalAfter(itemsSubtotal)

	rates, err := s.shippingProvider.GetRates(ctx, shipping.RateParams{
		DestinationAddress: addr,
		Subtotal:           subtotal,
	})
	if err != nil {
		return domain.Totals{}, domain.Internal(err, op, "failed to get shipping rates")
	}
	rate, err := shipping.Cheapest(rates)
	if err != nil {
		return domain.Totals{}, domain.Internal(err, op, "no shipping rate available")
	}
	shippingCost := rate.Cost
	if discount.WaivesShipping() {
		shippingCost = decimal.Zero
	}

	taxResult, err := s.taxCalculator.CalculateTax(ctx, tax.TaxParams{
		ShippingAddress: addr,
		Subtotal:        subtotal,
		Shipping:        shippingCost,
	})
	if err != nil {
		return domain.Totals{}, domain.Internal(err, op, "failed to calculate tax")
	}

	return domain.Totals{
		ItemsSubtotal:  itemsSubtotal,
		DiscountAmount: itemsSubtotal.Sub(subtotal),
		Subtotal:       subtotal,
		ShippingCost:   shippingCost,
		TaxAmount:      taxResult.Total,
		TotalAmount:    subtotal.Add(shippingCost).Add(taxResult.Total),
		CouponCode:     discount.Definition.Code,
	}, nil
}

// snapshotLines freezes each cart line at the current product price and
// checks stock against the combined quantity per product.
func snapshotLines(ctx context.Context, q repository.Querier, cart *domain.Cart, op string) ([]orderLine, error) {
	lines := make([]orderLine, 0, len(cart.Items))
	wanted := make(map[uuid.UUID]int32, len(cart.Items))

	for _, item := range cart.Items {
		product, err := purchasableProduct(ctx, q, item.ProductID, op)
		if err != nil {
			return nil, err
		}

		total, ok := domain.MergeQuantity(wanted[product.ID], item.Quantity)
		if !ok {
			return nil, domain.WithOp(domain.ErrQuantityTooLarge, op)
		}
		wanted[product.ID] = total
		if !product.HasStock(total) {
			return nil, domain.InsufficientStock(op, product.Name, product.Stock)
		}

		lines = append(lines, orderLine{
			item: domain.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				UnitPrice: product.Price,
				Quantity:  item.Quantity,
				Variant:   item.Variant,
				LineTotal: product.Price.Mul(decimal.NewFromInt32(item.Quantity)),
			},
			product: *product,
		})
	}
	return lines, nil
}

// decrementStock takes tracked stock with conditional decrements. A zero
// row count means a concurrent checkout took the units first. Rows are
// touched in product ID order so concurrent checkouts lock them in the
// same sequence.
func decrementStock(ctx context.Context, q repository.Querier, lines []orderLine, op string) error {
	sorted := slices.Clone(lines)
	slices.SortStableFunc(sorted, func(a, b orderLine) int {
		return compareIDs(a.product.ID, b.product.ID)
	})

	for _, l := range sorted {
		if !l.product.TrackStock {
			continue
		}

		n, err := q.DecrementStock(ctx, repository.StockChangeParams{
			ID:       l.product.ID,
			Quantity: l.item.Quantity,
		})
		if err != nil {
			return domain.Internal(err, op, "failed to decrement stock")
		}
		if n == 0 {
			available := int32(0)
			if row, err := q.GetProduct(ctx, l.product.ID); err == nil {
				available = row.Stock
			}
			return domain.InsufficientStock(op, l.product.Name, available)
		}
	}
	return nil
}

func newOrderRow(lines []orderLine, totals domain.Totals, shippingAddr, billingAddr domain.Address, params domain.CheckoutParams, now time.Time) (repository.Order, error) {
	items := make([]domain.OrderItem, len(lines))
	for i, l := range lines {
		items[i] = l.item
	}

	itemsJSON, err := encodeOrderItems(items)
	if err != nil {
		return repository.Order{}, err
	}
	shippingJSON, err := encodeAddress(shippingAddr)
	if err != nil {
		return repository.Order{}, err
	}
	billingJSON, err := encodeAddress(billingAddr)
	if err != nil {
		return repository.Order{}, err
	}
	notesJSON, err := encodeNotes(nil)
	if err != nil {
		return repository.Order{}, err
	}

	return repository.Order{
		ID:              uuid.New(),
		UserID:          params.UserID,
		Items:           itemsJSON,
		ItemsSubtotal:   totals.ItemsSubtotal,
		DiscountAmount:  totals.DiscountAmount,
		Subtotal:        totals.Subtotal,
		ShippingCost:    totals.ShippingCost,
		TaxAmount:       totals.TaxAmount,
		TotalAmount:     totals.TotalAmount,
		CouponCode:      text(totals.CouponCode),
		ShippingAddress: shippingJSON,
		BillingAddress:  billingJSON,
		CustomerName:    shippingAddr.FullName(),
		CustomerEmail:   shippingAddr.Email,
		PaymentMethod:   string(params.PaymentMethod),
		Status:          string(domain.StatusProcessing),
		PaymentStatus:   string(domain.PaymentPending),
		Notes:           notesJSON,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}
