package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// This is a generic version of the entity-specific not found errors
	// (e.g., ErrUserNotFound, ErrBookNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a user with the same email).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrOutOfStock is returned by BookStore.ReserveCopy when a book has no
	// available copies left. Recoverable: the caller picks another title or
	// waits for a return.
	ErrOutOfStock = errors.New("no available copies")

	// ErrAlreadyReturned is returned when a return is recorded against a loan
	// that is already in the Returned state. This is the idempotency guard
	// that keeps a double return from double-incrementing available copies.
	ErrAlreadyReturned = errors.New("loan already returned")

	// ErrCopyInvariant is returned by BookStore.ReleaseCopy when the release
	// would push available copies beyond the owned quantity. Releases are
	// only ever matched to prior reserves, so hitting this means the
	// inventory invariant was broken elsewhere; it is reported rather than
	// silently clamped.
	ErrCopyInvariant = errors.New("available copies would exceed quantity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrUserNotFound indicates that the requested user does not exist in the store.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrBookNotFound indicates that the requested book does not exist in the store.
	ErrBookNotFound = fmt.Errorf("%w: book", ErrNotFound)

	// ErrLoanNotFound indicates that the requested loan does not exist in the store.
	ErrLoanNotFound = fmt.Errorf("%w: loan", ErrNotFound)

	// ErrNotificationNotFound indicates that the requested notification does not exist in the store.
	ErrNotificationNotFound = fmt.Errorf("%w: notification", ErrNotFound)

	// ErrAssetNotFound indicates that the requested digital asset does not exist in the store.
	ErrAssetNotFound = fmt.Errorf("%w: digital asset", ErrNotFound)

	// ErrClassSectorNotFound indicates that the requested class/sector entry does not exist in the store.
	ErrClassSectorNotFound = fmt.Errorf("%w: class/sector", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrEmailExists indicates that a user with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
// This includes the generic ErrNotFound and all entity-specific not found errors.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "user", "loan")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
