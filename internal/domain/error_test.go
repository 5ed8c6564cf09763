package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "message only",
			err:      &Error{Code: EINVALID, Message: "quantity must be positive"},
			expected: "quantity must be positive",
		},
		{
			name:     "with operation",
			err:      &Error{Code: EEMPTYCART, Op: "checkout.submit", Message: "Cart is empty"},
			expected: "checkout.submit: Cart is empty",
		},
		{
			name: "with wrapped error",
			err: &Error{
				Code:    EINTERNAL,
				Op:      "order.create",
				Message: "failed to save order",
				Err:     errors.New("connection reset"),
			},
			expected: "order.create: failed to save order: connection reset",
		},
		{
			name: "wrapped error without op",
			err: &Error{
				Code:    EINTERNAL,
				Message: "failed to save order",
				Err:     errors.New("connection reset"),
			},
			expected: "failed to save order: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := Internal(underlying, "cart.save", "failed to save cart")

	if !errors.Is(err, underlying) {
		t.Error("errors.Is should find underlying error")
	}
}

func TestError_IsMatchesSentinelAcrossOps(t *testing.T) {
	sentinel := &Error{Code: EEMPTYCART, Message: "Cart is empty"}
	tagged := WithOp(sentinel, "checkout.submit")

	if !errors.Is(tagged, sentinel) {
		t.Error("tagged copy should match sentinel")
	}
	if ErrorOp(tagged) != "checkout.submit" {
		t.Errorf("ErrorOp() = %q, want checkout.submit", ErrorOp(tagged))
	}
	if ErrorOp(sentinel) != "" {
		t.Error("WithOp must not mutate the sentinel")
	}
	if errors.Is(tagged, &Error{Code: EEMPTYCART, Message: "other"}) {
		t.Error("different message should not match")
	}
}

func TestWithOp_NonDomainError(t *testing.T) {
	plain := errors.New("boom")
	if got := WithOp(plain, "x"); got != plain {
		t.Errorf("WithOp() = %v, want original error", got)
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "domain error", err: &Error{Code: EINVALIDCOUPON}, expected: EINVALIDCOUPON},
		{
			name:     "wrapped domain error",
			err:      fmt.Errorf("wrapped: %w", &Error{Code: ENOTFOUND}),
			expected: ENOTFOUND,
		},
		{name: "non-domain error", err: errors.New("some error"), expected: EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.expected {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	generic := "An internal error occurred. Please try again later."

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "business error", err: Invalid("cart.add", "bad quantity"), expected: "bad quantity"},
		{name: "internal error hides details", err: Internal(errors.New("pq: down"), "x", "db down"), expected: generic},
		{name: "non-domain error", err: errors.New("secret"), expected: generic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorMessage(tt.err); got != tt.expected {
				t.Errorf("ErrorMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("checkout.submit", "shippingAddress.city", "is required")
	if err.Error() != "checkout.submit: shippingAddress.city: is required" {
		t.Errorf("Error() = %q", err.Error())
	}

	err = AddFieldError(err, "paymentMethod", "is required")
	if !IsValidationError(err) {
		t.Fatal("expected validation error")
	}
	fields := GetValidationFields(err)
	if len(fields) != 2 {
		t.Errorf("len(fields) = %d, want 2", len(fields))
	}
	if err.Error() != "checkout.submit: validation failed for 2 fields" {
		t.Errorf("Error() = %q", err.Error())
	}

	if GetValidationFields(errors.New("x")) != nil {
		t.Error("GetValidationFields should return nil for non-validation error")
	}
}

func TestConvenienceFunctions(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"NotFound", NotFound("product.get", "product", "abc-123"), ENOTFOUND},
		{"Unauthorized", Unauthorized("auth.login", "invalid credentials"), EUNAUTHORIZED},
		{"Invalid", Invalid("product.create", "price must not be negative"), EINVALID},
		{"InsufficientStock", InsufficientStock("checkout.submit", "Mug", 1), EINSUFFICIENTSTOCK},
		{"Internal", Internal(errors.New("db"), "order.save", "failed"), EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ErrorCode(tt.err) != tt.code {
				t.Errorf("%s code = %q, want %q", tt.name, ErrorCode(tt.err), tt.code)
			}
		})
	}

	t.Run("InsufficientStock names product", func(t *testing.T) {
		msg := ErrorMessage(InsufficientStock("op", "Blue Mug", 3))
		if msg != "Insufficient stock for Blue Mug (3 available)" {
			t.Errorf("message = %q", msg)
		}
	})
}

func TestPreDefinedErrors(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{ErrEmptyCart, EEMPTYCART},
		{ErrCartNotFound, ENOTFOUND},
		{ErrCartItemNotFound, ENOTFOUND},
		{ErrInvalidQuantity, EINVALID},
		{ErrOrderNotFound, ENOTFOUND},
		{ErrNotOrderOwner, EFORBIDDEN},
		{ErrCancellationWindowClosed, EFORBIDDEN},
		{ErrProductNotFound, ENOTFOUND},
	}

	for _, tt := range tests {
		if ErrorCode(tt.err) != tt.code {
			t.Errorf("%v code = %q, want %q", tt.err, ErrorCode(tt.err), tt.code)
		}
	}
}
