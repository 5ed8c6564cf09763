package domain

import (
	"context"

	"github.com/google/uuid"
)

// PaymentMethod is how the customer intends to pay. Payment is not captured
// here; the method is recorded on the order only.
type PaymentMethod string

const (
	PaymentMethodYoco       PaymentMethod = "yoco"
	PaymentMethodEFT        PaymentMethod = "eft"
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodPayPal     PaymentMethod = "paypal"
)

// PaymentOption describes a payment method offered at checkout.
type PaymentOption struct {
	Method      PaymentMethod `json:"method"`
	Label       string        `json:"label"`
	Description string        `json:"description"`
}

// PaymentOptions lists the supported payment methods in display order.
var PaymentOptions = []PaymentOption{
	{Method: PaymentMethodYoco, Label: "Yoco", Description: "Pay by card through Yoco"},
	{Method: PaymentMethodEFT, Label: "EFT", Description: "Direct bank transfer; the order ships once funds clear"},
	{Method: PaymentMethodCreditCard, Label: "Credit Card", Description: "Visa, Mastercard or American Express"},
	{Method: PaymentMethodPayPal, Label: "PayPal", Description: "Pay with your PayPal account"},
}

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool {
	for _, o := range PaymentOptions {
		if o.Method == m {
			return true
		}
	}
	return false
}

var (
	ErrInvalidPaymentMethod = &Error{Code: EINVALID, Message: "Unsupported payment method"}
)

// CheckoutParams contains the input for converting a cart into an order.
type CheckoutParams struct {
	UserID          uuid.UUID
	ShippingAddress Address
	// BillingAddress defaults to ShippingAddress when nil.
	BillingAddress *Address
	PaymentMethod  PaymentMethod
}

// CheckoutQuote previews the order a cart would produce.
type CheckoutQuote struct {
	Items  []OrderItem `json:"items"`
	Totals Totals      `json:"totals"`
}

// CheckoutService converts carts into orders.
type CheckoutService interface {
	// Checkout places an order for the user's cart. Stock, the order number
	// counter, the order and the cleared cart commit together or not at all.
	Checkout(ctx context.Context, params CheckoutParams) (*Order, error)

	// Quote computes the totals the cart would check out at, without side effects.
	Quote(ctx context.Context, userID uuid.UUID) (*CheckoutQuote, error)

	// PaymentOptions lists the enabled payment methods.
	PaymentOptions() []PaymentOption
}
