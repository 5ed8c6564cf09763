package coupon

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Discount is an evaluated coupon. The zero value applies no discount.
type Discount struct {
	Definition Definition
}

// Apply returns the discounted subtotal and shipping cost.
// Percentage discounts are rounded to cents; fixed discounts never take the
// subtotal below zero.
func (d Discount) Apply(subtotal, shipping decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	switch d.Definition.Kind {
	case KindPercentage:
		off := subtotal.Mul(d.Definition.Value).Div(hundred).Round(2)
		return subtotal.Sub(off), shipping
	case KindFixed:
		discounted := subtotal.Sub(d.Definition.Value)
		if discounted.IsNegative() {
			discounted = decimal.Zero
		}
		return discounted, shipping
	case KindFreeShipping:
		return subtotal, decimal.Zero
	default:
		return subtotal, shipping
	}
}

// SubtotalAfter returns the subtotal with the discount applied. Free-shipping
// coupons leave the subtotal untouched.
func (d Discount) SubtotalAfter(subtotal decimal.Decimal) decimal.Decimal {
	discounted, _ := d.Apply(subtotal, decimal.Zero)
	return discounted
}

// WaivesShipping reports whether the discount zeroes the shipping cost.
func (d Discount) WaivesShipping() bool {
	return d.Definition.Kind == KindFreeShipping
}
