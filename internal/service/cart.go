package service

import (
	"context"

	"github.com/dukerupert/vendora/internal/coupon"
	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/repository"
	"github.com/dukerupert/vendora/internal/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type cartService struct {
	repo    repository.Store
	coupons *coupon.Evaluator
	metrics *telemetry.BusinessMetrics
}

// NewCartService creates a new CartService instance
func NewCartService(repo repository.Store, coupons *coupon.Evaluator, metrics *telemetry.BusinessMetrics) domain.CartService {
	return &cartService{
		repo:    repo,
		coupons: coupons,
		metrics: metrics,
	}
}

// GetCart returns the populated cart for userID. A missing cart yields an
// empty summary and is not persisted.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*domain.CartSummary, error) {
	row, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return emptySummary(), nil
		}
		return nil, domain.Internal(err, "cart.get", "failed to get cart")
	}

	cart, err := mapRepoCartToDomain(row)
	if err != nil {
		return nil, domain.Internal(err, "cart.get", "failed to read cart")
	}
	return s.summarize(ctx, s.repo, cart)
}

// AddItem adds quantity units of productID, merging with an existing line of
// the same variant. Stock is checked against the merged quantity.
func (s *cartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int32, variant domain.Variant) (*domain.CartSummary, error) {
	const op = "cart.add_item"
	if quantity < 1 {
		return nil, domain.WithOp(domain.ErrInvalidQuantity, op)
	}

	summary, err := s.mutate(ctx, userID, op, true, func(q repository.Querier, cart *domain.Cart) error {
		product, err := purchasableProduct(ctx, q, productID, op)
		if err != nil {
			return err
		}

		idx := cart.FindItem(productID, variant)
		total := quantity
		if idx >= 0 {
			var ok bool
			if total, ok = domain.MergeQuantity(cart.Items[idx].Quantity, quantity); !ok {
				return domain.WithOp(domain.ErrQuantityTooLarge, op)
			}
		}
		if !product.HasStock(total) {
			return domain.InsufficientStock(op, product.Name, product.Stock)
		}

		if idx >= 0 {
			cart.Items[idx].Quantity = total
		} else {
			cart.Items = append(cart.Items, domain.CartItem{
				ProductID: productID,
				Quantity:  quantity,
				Variant:   variant,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.CartAction("add")
	return summary, nil
}

// SetItemQuantity replaces the quantity of an existing line. Zero removes it.
func (s *cartService) SetItemQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int32, variant domain.Variant) (*domain.CartSummary, error) {
	const op = "cart.set_quantity"
	if quantity < 0 {
		return nil, domain.WithOp(domain.ErrInvalidQuantity, op)
	}

	summary, err := s.mutate(ctx, userID, op, false, func(q repository.Querier, cart *domain.Cart) error {
		idx := cart.FindItem(productID, variant)
		if idx < 0 {
			return domain.WithOp(domain.ErrCartItemNotFound, op)
		}
		if quantity == 0 {
			cart.RemoveAt(idx)
			return nil
		}

		if quantity > cart.Items[idx].Quantity {
			product, err := purchasableProduct(ctx, q, productID, op)
			if err != nil {
				return err
			}
			if !product.HasStock(quantity) {
				return domain.InsufficientStock(op, product.Name, product.Stock)
			}
		}
		cart.Items[idx].Quantity = quantity
		return nil
	})
	if err != nil {
		return nil, err
	}

	if quantity == 0 {
		s.metrics.CartAction("remove")
	} else {
		s.metrics.CartAction("update_quantity")
	}
	return summary, nil
}

// RemoveItem removes the line matching (productID, variant).
func (s *cartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID, variant domain.Variant) (*domain.CartSummary, error) {
	const op = "cart.remove_item"

	summary, err := s.mutate(ctx, userID, op, false, func(_ repository.Querier, cart *domain.Cart) error {
		idx := cart.FindItem(productID, variant)
		if idx < 0 {
			return domain.WithOp(domain.ErrCartItemNotFound, op)
		}
		cart.RemoveAt(idx)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.CartAction("remove")
	return summary, nil
}

// ApplyCoupon evaluates code against the current subtotal and attaches it.
// On failure the previously applied coupon is kept.
func (s *cartService) ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*domain.CartSummary, error) {
	const op = "cart.apply_coupon"

	summary, err := s.mutate(ctx, userID, op, true, func(q repository.Querier, cart *domain.Cart) error {
		subtotal, err := s.liveSubtotal(ctx, q, cart)
		if err != nil {
			return err
		}
		discount, err := s.coupons.Evaluate(code, subtotal)
		if err != nil {
			return domain.WithOp(err, op)
		}
		cart.CouponCode = discount.Definition.Code
		return nil
	})
	if err != nil {
		s.metrics.CouponRejectedFor(err)
		return nil, err
	}

	s.metrics.CouponApplied(summary.Coupon.Code)
	return summary, nil
}

// ClearCoupon detaches any applied coupon. A missing cart is not an error.
func (s *cartService) ClearCoupon(ctx context.Context, userID uuid.UUID) (*domain.CartSummary, error) {
	return s.mutate(ctx, userID, "cart.clear_coupon", true, func(_ repository.Querier, cart *domain.Cart) error {
		cart.CouponCode = ""
		return nil
	})
}

// ClearCart removes all items and the coupon.
func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	_, err := s.mutate(ctx, userID, "cart.clear", true, func(_ repository.Querier, cart *domain.Cart) error {
		cart.Clear()
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.CartAction("clear")
	return nil
}

// mutate loads the locked cart, applies fn and saves the result in one
// transaction. When create is false a missing cart is ErrCartNotFound.
func (s *cartService) mutate(ctx context.Context, userID uuid.UUID, op string, create bool, fn func(q repository.Querier, cart *domain.Cart) error) (*domain.CartSummary, error) {
	var summary *domain.CartSummary

	err := s.repo.InTx(ctx, func(q repository.Querier) error {
		cart, err := lockCart(ctx, q, userID, op, create)
		if err != nil {
			return err
		}
		if err := fn(q, cart); err != nil {
			return err
		}

		params, err := upsertCartParams(cart)
		if err != nil {
			return domain.Internal(err, op, "failed to encode cart")
		}
		row, err := q.UpsertCart(ctx, params)
		if err != nil {
			return domain.Internal(err, op, "failed to save cart")
		}
		saved, err := mapRepoCartToDomain(row)
		if err != nil {
			return domain.Internal(err, op, "failed to read cart")
		}

		summary, err = s.summarize(ctx, q, saved)
		return err
	})
	if err != nil {
		return nil, passThrough(err, op, "cart update failed")
	}
	return summary, nil
}

// lockCart reads the cart row for update. With create set a missing cart
// becomes a new empty one.
func lockCart(ctx context.Context, q repository.Querier, userID uuid.UUID, op string, create bool) (*domain.Cart, error) {
	row, err := q.GetCartForUpdate(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) && create {
			return &domain.Cart{UserID: userID, Items: []domain.CartItem{}}, nil
		}
		return nil, notFoundOr(err, domain.ErrCartNotFound, op, "failed to load cart")
	}
	cart, err := mapRepoCartToDomain(row)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to read cart")
	}
	return cart, nil
}

// purchasableProduct loads a product that can be added to a cart or bought.
// Draft and archived products are reported as not found.
func purchasableProduct(ctx context.Context, q repository.Querier, id uuid.UUID, op string) (*domain.Product, error) {
	row, err := q.GetProduct(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, domain.ErrProductNotFound, op, "failed to get product")
	}
	if domain.ProductStatus(row.Status) != domain.ProductStatusActive {
		return nil, domain.WithOp(domain.ErrProductNotFound, op)
	}
	product := mapRepoProductToDomain(row)
	return &product, nil
}

// summarize populates cart lines with live product data. Lines whose product
// is gone or no longer active are marked unavailable and left out of the
// subtotal.
func (s *cartService) summarize(ctx context.Context, q repository.Querier, cart *domain.Cart) (*domain.CartSummary, error) {
	summary := emptySummary()

	for _, item := range cart.Items {
		line := domain.CartLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Variant:   item.Variant,
		}

		product, err := purchasableProduct(ctx, q, item.ProductID, "cart.summarize")
		switch {
		case err == nil:
			line.Name = product.Name
			line.UnitPrice = product.Price
			line.Stock = product.Stock
			line.TrackStock = product.TrackStock
			line.LineSubtotal = product.Price.Mul(decimal.NewFromInt32(item.Quantity))
			line.Available = true
			summary.Subtotal = summary.Subtotal.Add(line.LineSubtotal)
			summary.ItemCount += int(item.Quantity)
		case domain.IsCode(err, domain.ENOTFOUND):
			line.UnitPrice = decimal.Zero
			line.LineSubtotal = decimal.Zero
		default:
			return nil, err
		}

		summary.Items = append(summary.Items, line)
	}

	if cart.CouponCode != "" {
		if def, err := s.coupons.Lookup(cart.CouponCode); err == nil {
			summary.Coupon = def.Applied()
		}
	}
	return summary, nil
}

// liveSubtotal sums available lines at current prices.
func (s *cartService) liveSubtotal(ctx context.Context, q repository.Querier, cart *domain.Cart) (decimal.Decimal, error) {
	summary, err := s.summarize(ctx, q, cart)
	if err != nil {
		return decimal.Zero, err
	}
	return summary.Subtotal, nil
}

func emptySummary() *domain.CartSummary {
	return &domain.CartSummary{
		Items:    []domain.CartLine{},
		Subtotal: decimal.Zero,
	}
}
