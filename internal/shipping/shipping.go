package shipping

import (
	"context"
	"time"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/shopspring/decimal"
)

// Provider defines the interface for shipping rate calculation.
// Implementations can integrate with carriers; FlatRateProvider uses
// configured prices.
type Provider interface {
	// GetRates returns available shipping options for an order.
	// Rates are ordered cheapest first.
	GetRates(ctx context.Context, params RateParams) ([]Rate, error)
}

// RateParams contains parameters for calculating shipping rates.
type RateParams struct {
	DestinationAddress domain.Address
	// Subtotal is the items subtotal after any coupon discount.
	Subtotal decimal.Decimal
}

// Rate represents a shipping rate option.
type Rate struct {
	RateID                string
	Carrier               string
	ServiceName           string
	ServiceCode           string
	Cost                  decimal.Decimal
	EstimatedDaysMin      int
	EstimatedDaysMax      int
	EstimatedDeliveryDate time.Time
}

// Cheapest returns the first rate, which providers order by cost.
func Cheapest(rates []Rate) (Rate, error) {
	if len(rates) == 0 {
		return Rate{}, ErrNoRates
	}
	return rates[0], nil
}
