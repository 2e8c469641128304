package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/escolalib/biblio-api/internal/domain"
	"github.com/escolalib/biblio-api/internal/store"
)

// Sentinel errors for LoanService. The API layer maps these to HTTP status
// codes; everything else is wrapped in a LoanServiceError.
var (
	// ErrOutOfStock indicates a checkout was attempted against a book with
	// no available copies. Recoverable: pick another title or wait.
	ErrOutOfStock = errors.New("book has no available copies")

	// ErrAlreadyReturned indicates a return was recorded against a loan that
	// is already returned. The first return stands; state is unchanged.
	ErrAlreadyReturned = errors.New("loan already returned")

	// ErrLoanNotFound indicates the referenced loan does not exist.
	ErrLoanNotFound = errors.New("loan not found")

	// ErrBookNotFound indicates the referenced book does not exist.
	ErrBookNotFound = errors.New("book not found")

	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// LoanListFilter narrows the result of LoanService.List. OverdueOnly applies
// the canonical derived-overdue rule against the service clock; it is never
// answered from the stored status column alone.
type LoanListFilter struct {
	UserID      *uuid.UUID
	BookID      *uuid.UUID
	OverdueOnly bool
}

// LoanService is the loan ledger: the only writer of loan records and, via
// the book store's reserve/release operations, the only writer of available
// copy counts.
type LoanService interface {
	// Checkout lends a copy of the book to the user. It fails with
	// ErrUserNotFound, ErrBookNotFound or ErrOutOfStock, in which case no
	// state is changed.
	Checkout(ctx context.Context, userID, bookID uuid.UUID, loanDate, dueDate time.Time) (*domain.Loan, error)

	// Return records the return of a loan as of today. It fails with
	// ErrLoanNotFound or ErrAlreadyReturned; the latter leaves the first
	// return's effects untouched.
	Return(ctx context.Context, loanID uuid.UUID) (*domain.Loan, error)

	// List returns loans matching the filter. Pure read; stored statuses
	// are never updated as a side effect of listing.
	List(ctx context.Context, filter LoanListFilter) ([]*domain.Loan, error)
}

// LoanServiceError wraps unexpected errors from the loan service with context.
type LoanServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for LoanServiceError.
func (e *LoanServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("loan service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("loan service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *LoanServiceError) Unwrap() error {
	return e.Err
}

// newLoanServiceError translates store sentinels into service sentinels and
// wraps anything unexpected. Known sentinels pass through unwrapped so
// callers can match them with errors.Is.
func newLoanServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, store.ErrOutOfStock):
		return ErrOutOfStock
	case errors.Is(err, store.ErrAlreadyReturned):
		return ErrAlreadyReturned
	case errors.Is(err, store.ErrLoanNotFound):
		return ErrLoanNotFound
	case errors.Is(err, store.ErrBookNotFound):
		return ErrBookNotFound
	case errors.Is(err, store.ErrUserNotFound):
		return ErrUserNotFound
	}

	// Domain validation failures (e.g. due date before loan date) are caller
	// errors and also pass through unwrapped.
	if errors.Is(err, domain.ErrDueBeforeLoanDate) {
		return err
	}

	return &LoanServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// loanServiceImpl implements the LoanService interface.
type loanServiceImpl struct {
	tx        store.Transactor
	loanStore store.LoanStore
	bookStore store.BookStore
	userStore store.UserStore
	clock     Clock
	logger    *slog.Logger
}

// NewLoanService creates a new LoanService.
// If clock is nil the wall clock is used; if logger is nil the default
// logger is used.
func NewLoanService(
	tx store.Transactor,
	loanStore store.LoanStore,
	bookStore store.BookStore,
	userStore store.UserStore,
	clock Clock,
	logger *slog.Logger,
) LoanService {
	if clock == nil {
		clock = NewClock()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &loanServiceImpl{
		tx:        tx,
		loanStore: loanStore,
		bookStore: bookStore,
		userStore: userStore,
		clock:     clock,
		logger:    logger.With(slog.String("component", "loan_service")),
	}
}

// Checkout implements LoanService.Checkout
//
// The reserve and the ledger insert run in one transaction: a failed insert
// rolls back the reserved copy, and a failed reserve short-circuits before
// any ledger write. The conditional decrement inside ReserveCopy is the
// critical section that keeps two concurrent checkouts from both taking the
// last copy.
func (s *loanServiceImpl) Checkout(ctx context.Context, userID, bookID uuid.UUID, loanDate, dueDate time.Time) (*domain.Loan, error) {
	var created *domain.Loan

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.userStore.WithTx(tx).GetByID(ctx, userID); err != nil {
			return err
		}

		if err := s.bookStore.WithTx(tx).ReserveCopy(ctx, bookID); err != nil {
			return err
		}

		loan, err := domain.NewLoan(userID, bookID, loanDate, dueDate)
		if err != nil {
			return err
		}

		if err := s.loanStore.WithTx(tx).Create(ctx, loan); err != nil {
			return err
		}

		created = loan
		return nil
	})
	if err != nil {
		return nil, newLoanServiceError("checkout", "failed to create loan", err)
	}

	s.logger.Info("checkout completed",
		slog.String("loan_id", created.ID.String()),
		slog.String("user_id", userID.String()),
		slog.String("book_id", bookID.String()),
		slog.Time("due_date", created.DueDate))
	return created, nil
}

// Return implements LoanService.Return
//
// The loan row is locked for the duration of the transaction so the
// already-returned guard is race-free, and the ledger update and the copy
// release land together or not at all.
func (s *loanServiceImpl) Return(ctx context.Context, loanID uuid.UUID) (*domain.Loan, error) {
	var returned *domain.Loan

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		loans := s.loanStore.WithTx(tx)

		loan, err := loans.GetByIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}

		if !loan.Open() {
			return store.ErrAlreadyReturned
		}

		loan.MarkReturned(s.clock.Now())
		if err := loans.Update(ctx, loan); err != nil {
			return err
		}

		if err := s.bookStore.WithTx(tx).ReleaseCopy(ctx, loan.BookID); err != nil {
			return err
		}

		returned = loan
		return nil
	})
	if err != nil {
		return nil, newLoanServiceError("return", "failed to return loan", err)
	}

	s.logger.Info("return completed",
		slog.String("loan_id", returned.ID.String()),
		slog.String("book_id", returned.BookID.String()))
	return returned, nil
}

// List implements LoanService.List
func (s *loanServiceImpl) List(ctx context.Context, filter LoanListFilter) ([]*domain.Loan, error) {
	storeFilter := store.LoanFilter{
		UserID: filter.UserID,
		BookID: filter.BookID,
		// Returned loans can never be overdue, so the store can pre-filter.
		OpenOnly: filter.OverdueOnly,
	}

	loans, err := s.loanStore.List(ctx, storeFilter)
	if err != nil {
		return nil, newLoanServiceError("list", "failed to list loans", err)
	}

	if !filter.OverdueOnly {
		return loans, nil
	}

	today := s.clock.Now()
	overdue := make([]*domain.Loan, 0, len(loans))
	for _, loan := range loans {
		if loan.IsOverdue(today) {
			overdue = append(overdue, loan)
		}
	}
	return overdue, nil
}
