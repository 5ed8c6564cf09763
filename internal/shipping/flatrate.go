package shipping

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// FlatRateProvider returns predefined flat-rate shipping options, waived
// once the subtotal reaches the free shipping threshold.
type FlatRateProvider struct {
	rates    []FlatRate
	freeOver decimal.Decimal
	now      func() time.Time
}

// FlatRate defines a single flat-rate shipping option.
type FlatRate struct {
	ServiceName string
	ServiceCode string
	Cost        decimal.Decimal
	DaysMin     int
	DaysMax     int
}

// NewFlatRateProvider creates a new flat-rate shipping provider.
// A zero freeOver disables free shipping.
func NewFlatRateProvider(rates []FlatRate, freeOver decimal.Decimal) Provider {
	sorted := make([]FlatRate, len(rates))
	copy(sorted, rates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Cost.LessThan(sorted[j].Cost)
	})
	return &FlatRateProvider{rates: sorted, freeOver: freeOver, now: time.Now}
}

// NewStandardProvider creates a provider with one standard rate costing fee,
// free at or above threshold.
func NewStandardProvider(fee, threshold decimal.Decimal) Provider {
	return NewFlatRateProvider([]FlatRate{
		{ServiceName: "Standard Shipping", ServiceCode: "STD", Cost: fee, DaysMin: 3, DaysMax: 7},
	}, threshold)
}

// GetRates converts flat rates to Rate objects.
func (p *FlatRateProvider) GetRates(ctx context.Context, params RateParams) ([]Rate, error) {
	if params.Subtotal.IsNegative() {
		return nil, ErrInvalidSubtotal
	}

	free := p.freeOver.IsPositive() && params.Subtotal.GreaterThanOrEqual(p.freeOver)

	result := make([]Rate, len(p.rates))
	for i, fr := range p.rates {
		cost := fr.Cost
		if free {
			cost = decimal.Zero
		}
		result[i] = Rate{
			RateID:                fr.ServiceCode,
			Carrier:               "Flat Rate",
			ServiceName:           fr.ServiceName,
			ServiceCode:           fr.ServiceCode,
			Cost:                  cost,
			EstimatedDaysMin:      fr.DaysMin,
			EstimatedDaysMax:      fr.DaysMax,
			EstimatedDeliveryDate: p.now().AddDate(0, 0, fr.DaysMax),
		}
	}
	return result, nil
}
