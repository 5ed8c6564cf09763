package tax

import (
	"context"

	"github.com/shopspring/decimal"
)

// PercentageCalculator applies a single rate to the subtotal. Shipping is
// not taxed.
type PercentageCalculator struct {
	rate decimal.Decimal // e.g. 0.10 for 10%
}

// NewPercentageCalculator creates a new percentage-based tax calculator.
// rate must be within [0, 1].
func NewPercentageCalculator(rate decimal.Decimal) (Calculator, error) {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, ErrInvalidTaxRate
	}
	return &PercentageCalculator{rate: rate}, nil
}

// CalculateTax computes subtotal × rate, rounded half away from zero to cents.
func (c *PercentageCalculator) CalculateTax(ctx context.Context, params TaxParams) (*TaxResult, error) {
	if params.Subtotal.IsNegative() {
		return nil, ErrNegativeSubtotal
	}

	amount := params.Subtotal.Mul(c.rate).Round(2)
	return &TaxResult{
		Total: amount,
		Breakdown: []TaxBreakdown{{
			Jurisdiction: "default",
			Name:         "Sales Tax",
			Rate:         c.rate,
			Amount:       amount,
		}},
	}, nil
}
