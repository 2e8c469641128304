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

const loanColumns = `id, user_id, book_id, loan_date, due_date, return_date, status,
	created_at, updated_at`

// PostgresLoanStore implements the store.LoanStore interface
// using a PostgreSQL database as the storage backend.
type PostgresLoanStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLoanStore creates a new PostgreSQL implementation of the LoanStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresLoanStore(db store.DBTX, logger *slog.Logger) *PostgresLoanStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLoanStore{
		db:     db,
		logger: logger.With(slog.String("component", "loan_store")),
	}
}

// Ensure PostgresLoanStore implements store.LoanStore interface
var _ store.LoanStore = (*PostgresLoanStore)(nil)

// WithTx implements store.LoanStore.WithTx
func (s *PostgresLoanStore) WithTx(tx *sql.Tx) store.LoanStore {
	return &PostgresLoanStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.LoanStore.Create
// Returns store.ErrInvalidEntity when the referenced user or book does not
// exist (foreign key violation).
func (s *PostgresLoanStore) Create(ctx context.Context, loan *domain.Loan) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := loan.Validate(); err != nil {
		log.Warn("loan validation failed during create",
			slog.String("error", err.Error()),
			slog.String("loan_id", loan.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO loans (id, user_id, book_id, loan_date, due_date, return_date,
			status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		loan.ID,
		loan.UserID,
		loan.BookID,
		loan.LoanDate,
		loan.DueDate,
		loan.ReturnDate,
		loan.Status,
		loan.CreatedAt,
		loan.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during loan creation",
				slog.String("loan_id", loan.ID.String()),
				slog.String("user_id", loan.UserID.String()),
				slog.String("book_id", loan.BookID.String()))
			return fmt.Errorf("%w: referenced user or book not found",
				store.ErrInvalidEntity)
		}
		log.Error("failed to create loan",
			slog.String("error", err.Error()),
			slog.String("loan_id", loan.ID.String()))
		return MapError(err)
	}

	log.Info("loan created",
		slog.String("loan_id", loan.ID.String()),
		slog.String("user_id", loan.UserID.String()),
		slog.String("book_id", loan.BookID.String()))
	return nil
}

// GetByID implements store.LoanStore.GetByID
// Returns store.ErrLoanNotFound if the loan does not exist.
func (s *PostgresLoanStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	return s.getByID(ctx, id, false)
}

// GetByIDForUpdate implements store.LoanStore.GetByIDForUpdate
// The SELECT ... FOR UPDATE row lock serializes concurrent returns of the
// same loan; only meaningful when this store is bound to a transaction.
func (s *PostgresLoanStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	return s.getByID(ctx, id, true)
}

func (s *PostgresLoanStore) getByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*domain.Loan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	loan, err := scanLoan(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("loan not found", slog.String("loan_id", id.String()))
			return nil, store.ErrLoanNotFound
		}
		log.Error("failed to get loan by ID",
			slog.String("error", err.Error()),
			slog.String("loan_id", id.String()))
		return nil, err
	}

	return loan, nil
}

// List implements store.LoanStore.List
func (s *PostgresLoanStore) List(ctx context.Context, filter store.LoanFilter) ([]*domain.Loan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + loanColumns + ` FROM loans WHERE 1=1`
	var args []any

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if filter.BookID != nil {
		args = append(args, *filter.BookID)
		query += fmt.Sprintf(" AND book_id = $%d", len(args))
	}
	if filter.OpenOnly {
		args = append(args, domain.StatusReturned)
		query += fmt.Sprintf(" AND status <> $%d", len(args))
	}

	query += ` ORDER BY loan_date DESC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list loans", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var loans []*domain.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			log.Error("failed to scan loan row", slog.String("error", err.Error()))
			return nil, err
		}
		loans = append(loans, loan)
	}

	return loans, rows.Err()
}

// Update implements store.LoanStore.Update
// Returns store.ErrLoanNotFound if the loan does not exist.
func (s *PostgresLoanStore) Update(ctx context.Context, loan *domain.Loan) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := loan.Validate(); err != nil {
		log.Warn("loan validation failed during update",
			slog.String("error", err.Error()),
			slog.String("loan_id", loan.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE loans
		SET loan_date = $1, due_date = $2, return_date = $3, status = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		loan.LoanDate,
		loan.DueDate,
		loan.ReturnDate,
		loan.Status,
		loan.UpdatedAt,
		loan.ID,
	)
	if err != nil {
		log.Error("failed to update loan",
			slog.String("error", err.Error()),
			slog.String("loan_id", loan.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrLoanNotFound)
}

// CountOpen implements store.LoanStore.CountOpen
func (s *PostgresLoanStore) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM loans WHERE status <> $1`,
		domain.StatusReturned,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func scanLoan(row rowScanner) (*domain.Loan, error) {
	var loan domain.Loan
	var status string
	err := row.Scan(
		&loan.ID,
		&loan.UserID,
		&loan.BookID,
		&loan.LoanDate,
		&loan.DueDate,
		&loan.ReturnDate,
		&status,
		&loan.CreatedAt,
		&loan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	loan.Status = domain.LoanStatus(status)
	return &loan, nil
}
