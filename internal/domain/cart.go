package domain

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// CART DOMAIN ERRORS
// =============================================================================

var (
	ErrCartNotFound     = &Error{Code: ENOTFOUND, Message: "Cart not found"}
	ErrCartItemNotFound = &Error{Code: ENOTFOUND, Message: "Item not found in cart"}
	ErrInvalidQuantity  = &Error{Code: EINVALID, Message: "Quantity must be a positive whole number"}
	ErrQuantityTooLarge = &Error{Code: EINVALID, Message: "Quantity is too large"}
	ErrEmptyCart        = &Error{Code: EEMPTYCART, Message: "Cart is empty"}
	ErrInvalidCoupon    = &Error{Code: EINVALIDCOUPON, Message: "Invalid coupon code"}
)

// MaxLineQuantity is the largest quantity a single line may hold.
const MaxLineQuantity = math.MaxInt32

// MergeQuantity adds b units to a. ok is false when the sum exceeds
// MaxLineQuantity.
func MergeQuantity(a, b int32) (sum int32, ok bool) {
	total := int64(a) + int64(b)
	if total > MaxLineQuantity {
		return 0, false
	}
	return int32(total), true
}

// Variant is an optional named sub-selection of a product, such as a size.
// It affects line item identity but carries no stock of its own.
type Variant struct {
	Name   string `json:"name,omitempty"`
	Option string `json:"option,omitempty"`
}

// IsZero reports whether no variant was selected.
func (v Variant) IsZero() bool {
	return v.Name == "" && v.Option == ""
}

// Key returns the identity key used to match line items.
// The zero variant and an omitted variant share the empty key.
func (v Variant) Key() string {
	if v.IsZero() {
		return ""
	}
	return v.Name + "\x00" + v.Option
}

// CartItem is a (product, variant) line in a persisted cart.
type CartItem struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int32     `json:"quantity"`
	Variant   Variant   `json:"variant"`
}

// Matches reports whether the item has the given identity key.
func (i CartItem) Matches(productID uuid.UUID, variant Variant) bool {
	return i.ProductID == productID && i.Variant.Key() == variant.Key()
}

// Cart is the single shopping cart owned by a user.
type Cart struct {
	UserID     uuid.UUID  `json:"userId"`
	Items      []CartItem `json:"items"`
	CouponCode string     `json:"couponCode,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// FindItem returns the index of the line matching (productID, variant), or -1.
func (c *Cart) FindItem(productID uuid.UUID, variant Variant) int {
	for i, item := range c.Items {
		if item.Matches(productID, variant) {
			return i
		}
	}
	return -1
}

// RemoveAt deletes the line at index i, preserving the order of the rest.
func (c *Cart) RemoveAt(i int) {
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Clear empties items and drops any applied coupon.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.CouponCode = ""
}

// AppliedCoupon describes the coupon attached to a cart.
type AppliedCoupon struct {
	Code        string          `json:"code"`
	Kind        string          `json:"kind"`
	Value       decimal.Decimal `json:"value"`
	MinSubtotal decimal.Decimal `json:"minSubtotal"`
}

// CartLine is a cart item populated with current product data.
type CartLine struct {
	ProductID    uuid.UUID       `json:"productId"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Stock        int32           `json:"stock"`
	TrackStock   bool            `json:"trackStock"`
	Quantity     int32           `json:"quantity"`
	Variant      Variant         `json:"variant"`
	LineSubtotal decimal.Decimal `json:"lineSubtotal"`
	// Available is false when the product has since been deleted.
	Available bool `json:"available"`
}

// CartSummary aggregates cart lines with calculated totals.
type CartSummary struct {
	Items     []CartLine      `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"itemCount"`
	Coupon    *AppliedCoupon  `json:"coupon"`
}

// CartService provides business logic for shopping cart operations.
// Every operation is scoped to the cart of the given user.
type CartService interface {
	// GetCart returns the populated cart. A user without a cart gets an empty summary.
	GetCart(ctx context.Context, userID uuid.UUID) (*CartSummary, error)

	// AddItem adds quantity units of a product, merging with an existing line
	// that has the same variant.
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int32, variant Variant) (*CartSummary, error)

	// SetItemQuantity sets the quantity of an existing line. Zero removes it.
	SetItemQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int32, variant Variant) (*CartSummary, error)

	// RemoveItem removes an existing line.
	RemoveItem(ctx context.Context, userID, productID uuid.UUID, variant Variant) (*CartSummary, error)

	// ApplyCoupon validates a coupon against the current subtotal and attaches it.
	ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*CartSummary, error)

	// ClearCoupon detaches any applied coupon.
	ClearCoupon(ctx context.Context, userID uuid.UUID) (*CartSummary, error)

	// ClearCart removes all items and the coupon.
	ClearCart(ctx context.Context, userID uuid.UUID) error
}
