package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/escolalib/biblio-api/internal/domain"
	"github.com/escolalib/biblio-api/internal/platform/logger"
	"github.com/escolalib/biblio-api/internal/store"
)

// bookColumns is the select list shared by every book query.
const bookColumns = `id, title, author, isbn, category, format, knowledge_area, year,
	quantity, available, shelf, shelf_location, publisher, cover_url, synopsis,
	created_at, updated_at`

// PostgresBookStore implements the store.BookStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBookStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBookStore creates a new PostgreSQL implementation of the BookStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresBookStore(db store.DBTX, logger *slog.Logger) *PostgresBookStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBookStore{
		db:     db,
		logger: logger.With(slog.String("component", "book_store")),
	}
}

// Ensure PostgresBookStore implements store.BookStore interface
var _ store.BookStore = (*PostgresBookStore)(nil)

// WithTx implements store.BookStore.WithTx
func (s *PostgresBookStore) WithTx(tx *sql.Tx) store.BookStore {
	return &PostgresBookStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.BookStore.Create
// It saves a new book to the database, handling domain validation.
func (s *PostgresBookStore) Create(ctx context.Context, book *domain.Book) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := book.Validate(); err != nil {
		log.Warn("book validation failed during create",
			slog.String("error", err.Error()),
			slog.String("book_id", book.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO books (id, title, author, isbn, category, format, knowledge_area,
			year, quantity, available, shelf, shelf_location, publisher, cover_url,
			synopsis, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		book.ID,
		book.Title,
		book.Author,
		book.ISBN,
		book.Category,
		book.Format,
		book.KnowledgeArea,
		book.Year,
		book.Quantity,
		book.Available,
		book.Shelf,
		book.ShelfLocation,
		book.Publisher,
		book.CoverURL,
		book.Synopsis,
		book.CreatedAt,
		book.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create book",
			slog.String("error", err.Error()),
			slog.String("book_id", book.ID.String()))
		return MapError(err)
	}

	log.Info("book created",
		slog.String("book_id", book.ID.String()),
		slog.String("title", book.Title),
		slog.Int("quantity", book.Quantity))
	return nil
}

// GetByID implements store.BookStore.GetByID
// Returns store.ErrBookNotFound if the book does not exist.
func (s *PostgresBookStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	book, err := scanBook(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("book not found", slog.String("book_id", id.String()))
			return nil, store.ErrBookNotFound
		}
		log.Error("failed to get book by ID",
			slog.String("error", err.Error()),
			slog.String("book_id", id.String()))
		return nil, err
	}

	return book, nil
}

// GetByIDForUpdate implements store.BookStore.GetByIDForUpdate
// Returns store.ErrBookNotFound if the book does not exist.
func (s *PostgresBookStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1 FOR UPDATE`

	book, err := scanBook(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrBookNotFound
		}
		log.Error("failed to get book for update",
			slog.String("error", err.Error()),
			slog.String("book_id", id.String()))
		return nil, err
	}

	return book, nil
}

// List implements store.BookStore.List
func (s *PostgresBookStore) List(ctx context.Context) ([]*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + bookColumns + ` FROM books ORDER BY title`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list books", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var books []*domain.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			log.Error("failed to scan book row", slog.String("error", err.Error()))
			return nil, err
		}
		books = append(books, book)
	}

	return books, rows.Err()
}

// Update implements store.BookStore.Update
// Returns store.ErrBookNotFound if the book does not exist.
func (s *PostgresBookStore) Update(ctx context.Context, book *domain.Book) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := book.Validate(); err != nil {
		log.Warn("book validation failed during update",
			slog.String("error", err.Error()),
			slog.String("book_id", book.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE books
		SET title = $1, author = $2, isbn = $3, category = $4, format = $5,
			knowledge_area = $6, year = $7, quantity = $8, available = $9,
			shelf = $10, shelf_location = $11, publisher = $12, cover_url = $13,
			synopsis = $14, updated_at = $15
		WHERE id = $16
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		book.Title,
		book.Author,
		book.ISBN,
		book.Category,
		book.Format,
		book.KnowledgeArea,
		book.Year,
		book.Quantity,
		book.Available,
		book.Shelf,
		book.ShelfLocation,
		book.Publisher,
		book.CoverURL,
		book.Synopsis,
		book.UpdatedAt,
		book.ID,
	)
	if err != nil {
		log.Error("failed to update book",
			slog.String("error", err.Error()),
			slog.String("book_id", book.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrBookNotFound)
}

// Delete implements store.BookStore.Delete
// Returns store.ErrBookNotFound if the book does not exist.
func (s *PostgresBookStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete book",
			slog.String("error", err.Error()),
			slog.String("book_id", id.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrBookNotFound)
}

// ReserveCopy implements store.BookStore.ReserveCopy
//
// The decrement happens in a single conditional UPDATE so it is atomic per
// book row: of two concurrent checkouts racing for the last copy, exactly
// one statement matches `available > 0`. When no row matches we query the
// book again purely to distinguish ErrOutOfStock from ErrBookNotFound.
func (s *PostgresBookStore) ReserveCopy(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE books
		SET available = available - 1, updated_at = NOW()
		WHERE id = $1 AND available > 0
	`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to reserve copy",
			slog.String("error", err.Error()),
			slog.String("book_id", id.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if _, err := s.GetByID(ctx, id); err != nil {
			return err
		}
		log.Debug("book out of stock", slog.String("book_id", id.String()))
		return store.ErrOutOfStock
	}

	return nil
}

// ReleaseCopy implements store.BookStore.ReleaseCopy
//
// Mirrors ReserveCopy: the guarded increment never pushes available past
// quantity. A zero-row update on an existing book means a release without a
// matching reserve, which is surfaced as ErrCopyInvariant rather than
// clamped silently.
func (s *PostgresBookStore) ReleaseCopy(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE books
		SET available = available + 1, updated_at = NOW()
		WHERE id = $1 AND available < quantity
	`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to release copy",
			slog.String("error", err.Error()),
			slog.String("book_id", id.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if _, err := s.GetByID(ctx, id); err != nil {
			return err
		}
		log.Error("release without matching reserve",
			slog.String("book_id", id.String()))
		return store.ErrCopyInvariant
	}

	return nil
}

// Count implements store.BookStore.Count
func (s *PostgresBookStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*domain.Book, error) {
	var book domain.Book
	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.ISBN,
		&book.Category,
		&book.Format,
		&book.KnowledgeArea,
		&book.Year,
		&book.Quantity,
		&book.Available,
		&book.Shelf,
		&book.ShelfLocation,
		&book.Publisher,
		&book.CoverURL,
		&book.Synopsis,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &book, nil
}
