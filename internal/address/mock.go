package address

import (
	"context"

	"github.com/dukerupert/vendora/internal/domain"
)

// MockValidator is a test implementation of Validator.
type MockValidator struct {
	ValidateFunc func(ctx context.Context, addr domain.Address) (*ValidationResult, error)
	Calls        int
}

// NewMockValidator creates a mock that accepts every address unchanged.
func NewMockValidator() *MockValidator {
	return &MockValidator{}
}

// Validate delegates to the configured function or returns a valid result.
func (m *MockValidator) Validate(ctx context.Context, addr domain.Address) (*ValidationResult, error) {
	m.Calls++
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, addr)
	}
	return &ValidationResult{IsValid: true, NormalizedAddress: &addr}, nil
}
