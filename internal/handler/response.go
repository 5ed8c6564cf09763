package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/middleware"
	"github.com/dukerupert/vendora/internal/telemetry"
	"github.com/google/uuid"
)

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID,
		domain.EINSUFFICIENTSTOCK,
		domain.EEMPTYCART,
		domain.EINVALIDCOUPON,
		domain.ECOUPONNOTELIGIBLE:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.ETOOLARGE:
		return http.StatusRequestEntityTooLarge
	case domain.ERATELIMIT:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorResponse writes err as the JSON error envelope.
// Validation errors carry their per-field messages. Server errors are logged
// at error level and reported to Sentry; their detail never reaches the client.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsValidationError(err) {
		ValidationErrorResponse(w, r, err)
		return
	}

	code := domain.ErrorCode(err)
	status := ErrorCodeToHTTPStatus(code)
	logger := middleware.GetLogger(r.Context())

	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			"error", err.Error(),
			"op", domain.ErrorOp(err),
			"code", code,
		)
		telemetry.CaptureError(r.Context(), err, map[string]any{
			"op":     domain.ErrorOp(err),
			"method": r.Method,
			"path":   r.URL.Path,
		})
	} else {
		logger.Debug("request rejected", "error", err.Error(), "code", code)
	}

	JSON(w, status, map[string]errorBody{
		"error": {Code: code, Message: domain.ErrorMessage(err)},
	})
}

// ValidationErrorResponse writes a 400 with field-level messages. Errors that
// are not validation errors fall back to ErrorResponse.
func ValidationErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if !domain.IsValidationError(err) {
		ErrorResponse(w, r, err)
		return
	}

	JSON(w, http.StatusBadRequest, map[string]errorBody{
		"error": {
			Code:    domain.EINVALID,
			Message: "Validation failed",
			Fields:  domain.GetValidationFields(err),
		},
	})
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// Message writes a {"message": ...} body, the shape used by operations that
// return nothing else.
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"message": message})
}

// DecodeJSON reads the request body into dst and validates it.
// An empty body decodes as an empty document.
func DecodeJSON(r *http.Request, op string, dst any) error {
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return domain.Errorf(domain.ETOOLARGE, op, "Request body too large")
			}
			return domain.Errorf(domain.EINVALID, op, "Malformed JSON body")
		}
	}
	return Validate(op, dst)
}

// PathUUID parses the named path value as a UUID.
func PathUUID(r *http.Request, name, op string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, domain.NewValidationError(op, name, fmt.Sprintf("%s must be a valid id", name))
	}
	return id, nil
}

// CurrentUser returns the authenticated user. Routes that call it sit behind
// RequireAuth, so a missing user is reported as unauthorized.
func CurrentUser(r *http.Request, op string) (*domain.User, error) {
	user := domain.UserFromContext(r.Context())
	if user == nil {
		return nil, domain.Unauthorized(op, "Authentication required")
	}
	return user, nil
}
