package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/dukerupert/vendora/internal/address"
	"github.com/dukerupert/vendora/internal/coupon"
	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/events"
	"github.com/dukerupert/vendora/internal/service"
	"github.com/dukerupert/vendora/internal/shipping"
	"github.com/dukerupert/vendora/internal/tax"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkoutWith(f *fixture, addr address.Validator, ship shipping.Provider, calc tax.Calculator) domain.CheckoutService {
	return service.NewCheckoutService(
		f.store,
		coupon.NewDefaultEvaluator(),
		ship,
		calc,
		addr,
		events.NoopPublisher{},
		nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		service.CheckoutConfig{Now: f.clock.Now},
	)
}

func TestCheckoutService_CollaboratorFailures(t *testing.T) {
	boom := errors.New("upstream unavailable")

	tests := []struct {
		name  string
		setup func(a *address.MockValidator, s *shipping.MockProvider, c *tax.MockCalculator)
	}{
		{"address validator", func(a *address.MockValidator, _ *shipping.MockProvider, _ *tax.MockCalculator) {
			a.ValidateFunc = func(context.Context, domain.Address) (*address.ValidationResult, error) { return nil, boom }
		}},
		{"shipping provider", func(_ *address.MockValidator, s *shipping.MockProvider, _ *tax.MockCalculator) {
			s.GetRatesFunc = func(context.Context, shipping.RateParams) ([]shipping.Rate, error) { return nil, boom }
		}},
		{"tax calculator", func(_ *address.MockValidator, _ *shipping.MockProvider, c *tax.MockCalculator) {
			c.CalculateTaxFunc = func(context.Context, tax.TaxParams) (*tax.TaxResult, error) { return nil, boom }
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			p := f.addProduct(t, "Kettle", "40.00", 3, true)
			user := uuid.New()
			f.addToCart(t, user, p.ID, 2)

			addr, ship, calc := address.NewMockValidator(), shipping.NewMockProvider(), tax.NewMockCalculator()
			tt.setup(addr, ship, calc)

			_, err := checkoutWith(f, addr, ship, calc).Checkout(f.ctx, checkoutParams(user))
			require.Error(t, err)
			assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))
			assert.NotContains(t, domain.ErrorMessage(err), "upstream")

			// Nothing was committed.
			assert.Equal(t, int32(3), f.stockOf(t, p.ID))
			summary, err := f.cart.GetCart(f.ctx, user)
			require.NoError(t, err)
			assert.Equal(t, 2, summary.ItemCount)
		})
	}
}

func TestCheckoutService_UsesNormalizedAddress(t *testing.T) {
	f := newFixture(t, nil)
	p := f.addProduct(t, "Kettle", "40.00", 3, true)
	user := uuid.New()
	f.addToCart(t, user, p.ID, 1)

	addr := address.NewMockValidator()
	addr.ValidateFunc = func(_ context.Context, a domain.Address) (*address.ValidationResult, error) {
		a.City = "CAPE TOWN"
		return &address.ValidationResult{IsValid: true, NormalizedAddress: &a}, nil
	}

	order, err := checkoutWith(f, addr, shipping.NewMockProvider(), tax.NewMockCalculator()).Checkout(f.ctx, checkoutParams(user))
	require.NoError(t, err)

	assert.Equal(t, "CAPE TOWN", order.ShippingAddress.City)
	assert.Equal(t, "CAPE TOWN", order.BillingAddress.City)
	assert.True(t, order.ShippingCost.IsZero())
	assert.True(t, order.TaxAmount.IsZero())
	assert.True(t, dec("40.00").Equal(order.TotalAmount))
}

func TestCheckoutService_RejectedAddressFields(t *testing.T) {
	f := newFixture(t, nil)
	p := f.addProduct(t, "Kettle", "40.00", 3, true)
	user := uuid.New()
	f.addToCart(t, user, p.ID, 1)

	addr := address.NewMockValidator()
	addr.ValidateFunc = func(context.Context, domain.Address) (*address.ValidationResult, error) {
		return &address.ValidationResult{Errors: []address.ValidationError{{Field: "postalCode", Message: "is not deliverable"}}}, nil
	}

	_, err := checkoutWith(f, addr, shipping.NewMockProvider(), tax.NewMockCalculator()).Checkout(f.ctx, checkoutParams(user))
	require.True(t, domain.IsValidationError(err))
	assert.Equal(t, "is not deliverable", domain.GetValidationFields(err)["shippingAddress.postalCode"])
	assert.Equal(t, 1, addr.Calls)
}
