package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/escolalib/biblio-api/internal/domain"
)

// BookStore defines the interface for book catalog and inventory persistence.
//
// The available-copy counter is owned by the loan service: ReserveCopy and
// ReleaseCopy are its only writers, and both must execute inside the same
// transaction as the loan ledger mutation they pair with (use WithTx and
// RunInTransaction).
type BookStore interface {
	// Create saves a new book to the store.
	// Returns validation errors if the book data is invalid.
	Create(ctx context.Context, book *domain.Book) error

	// GetByID retrieves a book by its unique ID.
	// Returns ErrBookNotFound if the book does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error)

	// GetByIDForUpdate retrieves a book and locks its row for the duration of
	// the surrounding transaction. Catalog updates that recompute the
	// available counter read through this so a concurrent checkout cannot
	// slip between the read and the write. Only meaningful on a store
	// obtained from WithTx. Returns ErrBookNotFound if the book does not
	// exist.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Book, error)

	// List retrieves all books ordered by title.
	List(ctx context.Context) ([]*domain.Book, error)

	// Update saves changes to an existing book's catalog fields and copy
	// counts. Returns ErrBookNotFound if the book does not exist.
	Update(ctx context.Context, book *domain.Book) error

	// Delete removes a book from the store by its ID.
	// Returns ErrBookNotFound if the book does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ReserveCopy atomically decrements the book's available count by one.
	// Returns ErrOutOfStock when no copies are available and ErrBookNotFound
	// when the id is unknown. The conditional single-statement update is the
	// per-book critical section: two concurrent checkouts can never both
	// take the last copy.
	ReserveCopy(ctx context.Context, id uuid.UUID) error

	// ReleaseCopy atomically increments the book's available count by one.
	// Returns ErrCopyInvariant if the increment would exceed the owned
	// quantity and ErrBookNotFound when the id is unknown.
	ReleaseCopy(ctx context.Context, id uuid.UUID) error

	// Count returns the total number of cataloged books.
	Count(ctx context.Context) (int64, error)

	// WithTx returns a new BookStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) BookStore
}
