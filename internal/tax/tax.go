package tax

import (
	"context"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/shopspring/decimal"
)

// Calculator defines the interface for tax calculation.
// Implementations: PercentageCalculator, NoTaxCalculator
type Calculator interface {
	// CalculateTax computes tax on the discounted subtotal.
	// Returned amounts are rounded to cents.
	CalculateTax(ctx context.Context, params TaxParams) (*TaxResult, error)
}

// TaxParams contains all information needed for tax calculation.
type TaxParams struct {
	ShippingAddress domain.Address
	// Subtotal is the items subtotal after any coupon discount.
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
}

// TaxResult contains the calculated tax amount and breakdown.
type TaxResult struct {
	Total     decimal.Decimal
	Breakdown []TaxBreakdown
}

// TaxBreakdown represents tax for a single jurisdiction.
type TaxBreakdown struct {
	Jurisdiction string
	Name         string
	Rate         decimal.Decimal
	Amount       decimal.Decimal
}
