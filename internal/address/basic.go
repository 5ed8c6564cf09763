package address

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/go-playground/validator/v10"
)

// BasicValidator performs format validation without external API calls.
type BasicValidator struct {
	validate *validator.Validate
}

// checked mirrors domain.Address with validation rules.
type checked struct {
	FirstName  string `json:"firstName" validate:"required,max=100"`
	LastName   string `json:"lastName" validate:"required,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"omitempty,max=30"`
	Street     string `json:"street" validate:"required,max=200"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"omitempty,max=100"`
	PostalCode string `json:"postalCode" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,max=56"`
}

// NewBasicValidator creates a new basic address validator.
func NewBasicValidator() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	return &BasicValidator{validate: v}
}

// Validate trims every field, then checks required fields and formats.
func (v *BasicValidator) Validate(ctx context.Context, addr domain.Address) (*ValidationResult, error) {
	normalized := domain.Address{
		FirstName:  strings.TrimSpace(addr.FirstName),
		LastName:   strings.TrimSpace(addr.LastName),
		Email:      strings.ToLower(strings.TrimSpace(addr.Email)),
		Phone:      strings.TrimSpace(addr.Phone),
		Street:     strings.TrimSpace(addr.Street),
		City:       strings.TrimSpace(addr.City),
		State:      strings.TrimSpace(addr.State),
		PostalCode: strings.ToUpper(strings.TrimSpace(addr.PostalCode)),
		Country:    strings.TrimSpace(addr.Country),
	}

	err := v.validate.Struct(checked(normalized))
	if err == nil {
		return &ValidationResult{IsValid: true, NormalizedAddress: &normalized}, nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return nil, err
	}

	result := &ValidationResult{NormalizedAddress: &normalized}
	for _, fe := range vErrs {
		result.Errors = append(result.Errors, ValidationError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return result, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}
