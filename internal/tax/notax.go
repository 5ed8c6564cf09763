package tax

import (
	"context"

	"github.com/shopspring/decimal"
)

// NoTaxCalculator returns zero tax for all calculations.
// Selected when TAX_RATE is 0.
type NoTaxCalculator struct{}

// NewNoTaxCalculator creates a new no-tax calculator.
func NewNoTaxCalculator() Calculator {
	return &NoTaxCalculator{}
}

// CalculateTax always returns zero tax.
func (c *NoTaxCalculator) CalculateTax(ctx context.Context, params TaxParams) (*TaxResult, error) {
	return &TaxResult{Total: decimal.Zero}, nil
}

// NewCalculator picks NoTaxCalculator for a zero rate and
// PercentageCalculator otherwise.
func NewCalculator(rate decimal.Decimal) (Calculator, error) {
	if rate.IsZero() {
		return NewNoTaxCalculator(), nil
	}
	return NewPercentageCalculator(rate)
}
