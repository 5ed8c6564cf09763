package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const checkoutBody = `{
	"shippingAddress": {
		"firstName": "Thandi", "lastName": "Nkosi", "email": "thandi@example.com",
		"street": "12 Long Street", "city": "Cape Town", "postalCode": "8001", "country": "ZA"
	},
	"paymentMethod": "eft"
}`

func TestCheckoutHandler_Submit(t *testing.T) {
	user := customer()
	orderID := uuid.New()

	var got domain.CheckoutParams
	h := NewCheckoutHandler(&mockCheckoutService{
		checkoutFunc: func(ctx context.Context, params domain.CheckoutParams) (*domain.Order, error) {
			got = params
			return &domain.Order{
				ID:          orderID,
				OrderNumber: "SC-202610-0001",
				Totals:      domain.Totals{TotalAmount: decimal.RequireFromString("110.00")},
			}, nil
		},
	}, "USD")

	rec := httptest.NewRecorder()
	h.Submit(rec, newRequest(http.MethodPost, "/api/checkout", checkoutBody, user))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, user.ID, got.UserID)
	assert.Equal(t, domain.PaymentMethodEFT, got.PaymentMethod)
	assert.Equal(t, "Cape Town", got.ShippingAddress.City)
	assert.Nil(t, got.BillingAddress)

	var body struct {
		OrderID     uuid.UUID `json:"orderId"`
		OrderNumber string    `json:"orderNumber"`
		TotalAmount string    `json:"totalAmount"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, orderID, body.OrderID)
	assert.Equal(t, "SC-202610-0001", body.OrderNumber)
	assert.Equal(t, "110", body.TotalAmount)
}

func TestCheckoutHandler_SubmitErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing shipping address",
			body:       `{"paymentMethod":"eft"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   domain.EINVALID,
		},
		{
			name:       "empty cart",
			body:       checkoutBody,
			serviceErr: domain.ErrEmptyCart,
			wantStatus: http.StatusBadRequest,
			wantCode:   domain.EEMPTYCART,
		},
		{
			name:       "sold out",
			body:       checkoutBody,
			serviceErr: domain.InsufficientStock("checkout.place", "Enamel Mug", 0),
			wantStatus: http.StatusBadRequest,
			wantCode:   domain.EINSUFFICIENTSTOCK,
		},
		{
			name:       "storage failure",
			body:       checkoutBody,
			serviceErr: domain.Internal(nil, "checkout.place", "failed to create order"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   domain.EINTERNAL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCheckoutHandler(&mockCheckoutService{
				checkoutFunc: func(ctx context.Context, params domain.CheckoutParams) (*domain.Order, error) {
					return nil, tt.serviceErr
				},
			}, "USD")

			rec := httptest.NewRecorder()
			h.Submit(rec, newRequest(http.MethodPost, "/api/checkout", tt.body, customer()))

			assert.Equal(t, tt.wantStatus, rec.Code)
			code, _ := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestCheckoutHandler_PaymentOptions(t *testing.T) {
	h := NewCheckoutHandler(&mockCheckoutService{}, "USD")

	rec := httptest.NewRecorder()
	h.PaymentOptions(rec, newRequest(http.MethodGet, "/api/checkout/payment-options", "", customer()))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Currency string                 `json:"currency"`
		Options  []domain.PaymentOption `json:"options"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "USD", body.Currency)
	assert.Len(t, body.Options, len(domain.PaymentOptions))
}
