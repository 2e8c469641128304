// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidRole is returned when a user role is not one of the known roles.
	ErrInvalidRole = errors.New("invalid user role")

	// ErrInvalidMemberType is returned when a user's member type is not valid.
	ErrInvalidMemberType = errors.New("invalid member type")

	// ErrInvalidLoanStatus is returned when a loan status is not valid.
	ErrInvalidLoanStatus = errors.New("invalid loan status")

	// ErrInvalidSeverity is returned when a notification severity is not valid.
	ErrInvalidSeverity = errors.New("invalid notification severity")

	// ErrInvalidAssetType is returned when a digital asset type is not valid.
	ErrInvalidAssetType = errors.New("invalid digital asset type")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
