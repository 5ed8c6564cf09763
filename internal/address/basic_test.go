package address_test

import (
	"context"
	"testing"

	"github.com/dukerupert/vendora/internal/address"
	"github.com/dukerupert/vendora/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAddress() domain.Address {
	return domain.Address{
		FirstName:  "Thandi",
		LastName:   "Nkosi",
		Email:      "Thandi@Example.com ",
		Street:     "12 Long Street",
		City:       "Cape Town",
		PostalCode: "8001",
		Country:    "ZA",
	}
}

func TestBasicValidator_ValidAddressIsNormalized(t *testing.T) {
	v := address.NewBasicValidator()

	result, err := v.Validate(context.Background(), validAddress())

	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "thandi@example.com", result.NormalizedAddress.Email)
	assert.NoError(t, result.AsDomainError("checkout.submit", "shippingAddress"))
}

func TestBasicValidator_FieldErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(a *domain.Address)
		field   string
		message string
	}{
		{"missing first name", func(a *domain.Address) { a.FirstName = "  " }, "firstName", "is required"},
		{"missing city", func(a *domain.Address) { a.City = "" }, "city", "is required"},
		{"missing postal code", func(a *domain.Address) { a.PostalCode = "" }, "postalCode", "is required"},
		{"bad email", func(a *domain.Address) { a.Email = "not-an-email" }, "email", "must be a valid email address"},
	}

	v := address.NewBasicValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := validAddress()
			tt.mutate(&addr)

			result, err := v.Validate(context.Background(), addr)
			require.NoError(t, err)
			assert.False(t, result.IsValid)
			require.Len(t, result.Errors, 1)
			assert.Equal(t, tt.field, result.Errors[0].Field)
			assert.Equal(t, tt.message, result.Errors[0].Message)

			derr := result.AsDomainError("checkout.submit", "shippingAddress")
			assert.True(t, domain.IsValidationError(derr))
			assert.Equal(t, tt.message, domain.GetValidationFields(derr)["shippingAddress."+tt.field])
		})
	}
}
