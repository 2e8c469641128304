package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/escolalib/biblio-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// The user must already carry a hashed password; plaintext passwords
	// never reach the store.
	// Returns ErrEmailExists if the email address is already registered.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List retrieves all users ordered by name.
	List(ctx context.Context) ([]*domain.User, error)

	// Update saves changes to an existing user.
	// Returns ErrUserNotFound if the user does not exist and ErrEmailExists
	// if the new email address collides with another user.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user from the store by their ID.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the total number of registered users.
	Count(ctx context.Context) (int64, error)

	// WithTx returns a new UserStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller,
	// typically through RunInTransaction.
	WithTx(tx *sql.Tx) UserStore
}
