package service

import (
	"errors"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/repository"
)

// notFoundOr maps a store not-found error to sentinel tagged with op and
// wraps anything else as an internal error.
func notFoundOr(err error, sentinel error, op, message string) error {
	if repository.IsNotFound(err) {
		return domain.WithOp(sentinel, op)
	}
	return domain.Internal(err, op, message)
}

// passThrough returns domain and validation errors unchanged and wraps
// anything else as an internal error.
func passThrough(err error, op, message string) error {
	if err == nil {
		return nil
	}
	var derr *domain.Error
	if errors.As(err, &derr) || domain.IsValidationError(err) {
		return err
	}
	return domain.Internal(err, op, message)
}
