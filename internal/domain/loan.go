package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Loan-specific validation errors
var (
	ErrEmptyLoanID       = errors.New("loan ID cannot be empty")
	ErrEmptyLoanUserID   = errors.New("loan user ID cannot be empty")
	ErrEmptyLoanBookID   = errors.New("loan book ID cannot be empty")
	ErrZeroLoanDate      = errors.New("loan date cannot be zero")
	ErrDueBeforeLoanDate = errors.New("due date cannot be before loan date")
	ErrReturnDateMissing = errors.New("returned loan must have a return date")
)

// LoanStatus is the stored lifecycle state of a loan.
//
// StatusOverdue exists only for compatibility with batch-updated rows; the
// canonical overdue signal is derived at read time via Loan.IsOverdue, never
// persisted by the service itself.
type LoanStatus string

const (
	StatusBorrowed LoanStatus = "Borrowed"
	StatusReturned LoanStatus = "Returned"
	StatusOverdue  LoanStatus = "Overdue"
)

// IsValid reports whether the status is one of the known statuses.
func (s LoanStatus) IsValid() bool {
	return s == StatusBorrowed || s == StatusReturned || s == StatusOverdue
}

// Loan is a single entry in the loan ledger. The lifecycle is
// Borrowed -> Returned, with Returned terminal. ReturnDate is set iff the
// status is Returned.
type Loan struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	BookID     uuid.UUID  `json:"book_id"`
	LoanDate   time.Time  `json:"loan_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	Status     LoanStatus `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewLoan creates a new Loan in status Borrowed. Loan and due dates are
// truncated to calendar dates; a due date before the loan date is a caller
// error and is rejected here rather than at the storage layer.
func NewLoan(userID, bookID uuid.UUID, loanDate, dueDate time.Time) (*Loan, error) {
	loan := &Loan{
		ID:        uuid.New(),
		UserID:    userID,
		BookID:    bookID,
		LoanDate:  DateOnly(loanDate),
		DueDate:   DateOnly(dueDate),
		Status:    StatusBorrowed,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := loan.Validate(); err != nil {
		return nil, err
	}

	return loan, nil
}

// Validate checks if the Loan has valid data.
// Returns an error if any field fails validation.
func (l *Loan) Validate() error {
	if l.ID == uuid.Nil {
		return ErrEmptyLoanID
	}

	if l.UserID == uuid.Nil {
		return ErrEmptyLoanUserID
	}

	if l.BookID == uuid.Nil {
		return ErrEmptyLoanBookID
	}

	if l.LoanDate.IsZero() {
		return ErrZeroLoanDate
	}

	if DateOnly(l.DueDate).Before(DateOnly(l.LoanDate)) {
		return ErrDueBeforeLoanDate
	}

	if !l.Status.IsValid() {
		return ErrInvalidLoanStatus
	}

	if l.Status == StatusReturned && l.ReturnDate == nil {
		return ErrReturnDateMissing
	}

	return nil
}

// Open reports whether the loan still holds a copy, i.e. it has not been
// returned. Open loans are the ones the notification deriver scans.
func (l *Loan) Open() bool {
	return l.Status != StatusReturned
}

// IsOverdue reports whether the loan is overdue as of the given day.
//
// This is the single canonical rule: a loan is overdue when it is open and
// its due date is strictly before today (date-only comparison), or when its
// stored status was explicitly set to Overdue by a batch job. Every display,
// filter and notification path must use this method rather than reimplement
// the comparison.
func (l *Loan) IsOverdue(today time.Time) bool {
	if !l.Open() {
		return false
	}
	if l.Status == StatusOverdue {
		return true
	}
	return DateOnly(l.DueDate).Before(DateOnly(today))
}

// DaysUntilDue returns the number of whole days from today until the due
// date. Negative values mean the loan is past due.
func (l *Loan) DaysUntilDue(today time.Time) int {
	return DaysBetween(today, l.DueDate)
}

// MarkReturned transitions the loan to Returned as of the given day.
// The transition is terminal; callers must check Open() first.
func (l *Loan) MarkReturned(returnedAt time.Time) {
	date := DateOnly(returnedAt)
	l.Status = StatusReturned
	l.ReturnDate = &date
	l.UpdatedAt = time.Now().UTC()
}
