package address

import (
	"context"

	"github.com/dukerupert/vendora/internal/domain"
)

// Validator defines the interface for address validation.
// Implementations can call external verification APIs; BasicValidator
// checks required fields and formats only.
type Validator interface {
	// Validate checks if an address is complete and well formed.
	// Returns the normalized address when validation succeeds.
	Validate(ctx context.Context, addr domain.Address) (*ValidationResult, error)
}

// ValidationResult contains the outcome of address validation.
type ValidationResult struct {
	IsValid           bool
	NormalizedAddress *domain.Address
	Errors            []ValidationError
}

// ValidationError represents a specific validation error.
type ValidationError struct {
	Field   string
	Message string
}

// AsDomainError converts a failed result into a field-level domain validation
// error prefixed with the address role (e.g. "shippingAddress").
// Returns nil for a valid result.
func (r *ValidationResult) AsDomainError(op, role string) error {
	if r.IsValid {
		return nil
	}
	var err error = &domain.ValidationError{Op: op, Fields: map[string]string{}}
	for _, e := range r.Errors {
		err = domain.AddFieldError(err, role+"."+e.Field, e.Message)
	}
	return err
}
