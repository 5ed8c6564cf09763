package shipping

// ============================================================================
// SHIPPING ERROR CODES
// ============================================================================
// These constants mirror domain error codes to avoid circular imports.

const (
	codeInvalid     = "invalid"
	codeUnavailable = "unavailable"
)

// ShippingError represents a shipping-specific error with a code and message.
type ShippingError struct {
	Code    string
	Message string
}

func (e *ShippingError) Error() string {
	return e.Message
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *ShippingError) ErrorCode() string {
	return e.Code
}

func newShippingError(code, message string) *ShippingError {
	return &ShippingError{Code: code, Message: message}
}

var (
	// ErrNoRates is returned when no shipping rates are available.
	ErrNoRates = newShippingError(codeUnavailable, "No shipping rates available")

	// ErrInvalidSubtotal is returned for a negative subtotal.
	ErrInvalidSubtotal = newShippingError(codeInvalid, "Subtotal cannot be negative")
)
