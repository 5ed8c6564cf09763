// Package coupon evaluates discount codes against a cart subtotal.
// Evaluation is pure: nothing is persisted and eligibility is recomputed
// on every call.
package coupon

import (
	"strings"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/shopspring/decimal"
)

// Kind is the type of discount a coupon grants.
type Kind string

const (
	KindPercentage   Kind = "percentage"
	KindFixed        Kind = "fixed"
	KindFreeShipping Kind = "free_shipping"
)

// Definition describes a coupon code.
type Definition struct {
	Code string
	Kind Kind
	// Value is a percentage (0-100) for KindPercentage, an amount for
	// KindFixed, and unused for KindFreeShipping.
	Value decimal.Decimal
	// MinSubtotal is the smallest items subtotal the coupon applies to.
	MinSubtotal decimal.Decimal
}

// Applied returns the cart-facing description of the coupon.
func (d Definition) Applied() *domain.AppliedCoupon {
	return &domain.AppliedCoupon{
		Code:        d.Code,
		Kind:        string(d.Kind),
		Value:       d.Value,
		MinSubtotal: d.MinSubtotal,
	}
}

// DefaultDefinitions is the built-in coupon table.
var DefaultDefinitions = []Definition{
	{Code: "WELCOME10", Kind: KindPercentage, Value: decimal.NewFromInt(10)},
	{Code: "FREESHIP", Kind: KindFreeShipping, MinSubtotal: decimal.NewFromInt(50)},
	{Code: "SAVE20", Kind: KindPercentage, Value: decimal.NewFromInt(20), MinSubtotal: decimal.NewFromInt(100)},
	{Code: "TAKE5", Kind: KindFixed, Value: decimal.NewFromInt(5)},
}

// Evaluator looks up coupon definitions by code.
type Evaluator struct {
	definitions map[string]Definition
}

// NewEvaluator builds an evaluator over defs. Codes are case-insensitive.
func NewEvaluator(defs []Definition) *Evaluator {
	m := make(map[string]Definition, len(defs))
	for _, d := range defs {
		m[normalize(d.Code)] = d
	}
	return &Evaluator{definitions: m}
}

// NewDefaultEvaluator builds an evaluator over DefaultDefinitions.
func NewDefaultEvaluator() *Evaluator {
	return NewEvaluator(DefaultDefinitions)
}

// Lookup returns the definition for code.
func (e *Evaluator) Lookup(code string) (Definition, error) {
	d, ok := e.definitions[normalize(code)]
	if !ok {
		return Definition{}, domain.WithOp(domain.ErrInvalidCoupon, "coupon.lookup")
	}
	return d, nil
}

// Evaluate checks that code exists and that subtotal meets its minimum.
func (e *Evaluator) Evaluate(code string, subtotal decimal.Decimal) (Discount, error) {
	d, err := e.Lookup(code)
	if err != nil {
		return Discount{}, err
	}
	if subtotal.LessThan(d.MinSubtotal) {
		return Discount{}, domain.Errorf(domain.ECOUPONNOTELIGIBLE, "coupon.evaluate",
			"Coupon %s requires a subtotal of at least %s", d.Code, d.MinSubtotal.StringFixed(2))
	}
	return Discount{Definition: d}, nil
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
