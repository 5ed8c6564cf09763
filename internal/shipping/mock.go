package shipping

import (
	"context"

	"github.com/shopspring/decimal"
)

// MockProvider is a test implementation of Provider.
type MockProvider struct {
	GetRatesFunc func(ctx context.Context, params RateParams) ([]Rate, error)
}

// NewMockProvider creates a mock that returns a single free rate.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// GetRates delegates to the configured function or returns a default result.
func (m *MockProvider) GetRates(ctx context.Context, params RateParams) ([]Rate, error) {
	if m.GetRatesFunc != nil {
		return m.GetRatesFunc(ctx, params)
	}
	return []Rate{{RateID: "MOCK", Carrier: "Mock", ServiceName: "Mock", ServiceCode: "MOCK", Cost: decimal.Zero}}, nil
}
