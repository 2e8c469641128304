package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/escolalib/biblio-api/internal/domain"
)

// LoanFilter narrows the result of LoanStore.List. Nil/zero fields match
// everything. Overdue-only filtering is NOT a store concern: the overdue
// state is derived from the due date at read time by the loan service, so
// the store only knows how to restrict to open (not yet returned) loans.
type LoanFilter struct {
	UserID   *uuid.UUID
	BookID   *uuid.UUID
	OpenOnly bool
}

// LoanStore defines the interface for loan ledger persistence.
// The loan service is the exclusive owner of loan records; handlers never
// write to this store directly.
type LoanStore interface {
	// Create appends a new loan to the ledger.
	// Returns validation errors if the loan data is invalid.
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan by its unique ID.
	// Returns ErrLoanNotFound if the loan does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// GetByIDForUpdate retrieves a loan and locks its row for the duration
	// of the surrounding transaction. Used by the return flow so two
	// concurrent returns cannot both pass the already-returned guard.
	// Must be called on a store bound to a transaction via WithTx.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// List retrieves loans matching the filter, most recent first.
	List(ctx context.Context, filter LoanFilter) ([]*domain.Loan, error)

	// Update saves changes to an existing loan (status, return date).
	// Returns ErrLoanNotFound if the loan does not exist.
	Update(ctx context.Context, loan *domain.Loan) error

	// CountOpen returns the number of loans that have not been returned.
	CountOpen(ctx context.Context) (int64, error)

	// WithTx returns a new LoanStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) LoanStore
}
