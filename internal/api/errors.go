package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/escolalib/biblio-api/internal/domain"
	"github.com/escolalib/biblio-api/internal/service"
	"github.com/escolalib/biblio-api/internal/service/auth"
	"github.com/escolalib/biblio-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrBookNotFound),
		errors.Is(err, service.ErrLoanNotFound),
		errors.Is(err, service.ErrNotificationNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrOutOfStock),
		errors.Is(err, service.ErrAlreadyReturned),
		errors.Is(err, store.ErrOutOfStock),
		errors.Is(err, store.ErrAlreadyReturned),
		errors.Is(err, store.ErrCopyInvariant),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrDueBeforeLoanDate):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	// Handle nil error
	if err == nil {
		return "An unexpected error occurred"
	}

	// Map specific error types to user-friendly messages
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password"

	// Authorization errors
	case errors.Is(err, domain.ErrUnauthorized):
		return "You are not allowed to perform this operation"

	// Not found errors
	case errors.Is(err, service.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, service.ErrBookNotFound):
		return "Book not found"

	case errors.Is(err, service.ErrLoanNotFound):
		return "Loan not found"

	case errors.Is(err, service.ErrNotificationNotFound):
		return "Notification not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	// Conflict errors
	case errors.Is(err, service.ErrOutOfStock),
		errors.Is(err, store.ErrOutOfStock):
		return "No copies of this book are currently available"

	case errors.Is(err, service.ErrAlreadyReturned),
		errors.Is(err, store.ErrAlreadyReturned):
		return "This loan has already been returned"

	case errors.Is(err, store.ErrCopyInvariant):
		return "Available copies cannot exceed total quantity"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	// Bad request errors
	case errors.Is(err, domain.ErrDueBeforeLoanDate):
		return "Due date cannot be before the loan date"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return "Invalid request data"

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Check if this is likely a validation error message
	if strings.Contains(errMsg, "Field validation") {
		// Extract the field name and validation tag
		// Example format: "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			// Further split to get just the field validation part
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				// Create a cleaner error message
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	// Fall back to a generic validation error message
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "gte":
		return "value too small"
	case "uuid":
		return "invalid identifier"
	default:
		return "validation failed"
	}
}
