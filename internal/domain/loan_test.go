package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escolalib/biblio-api/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewLoan(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	bookID := uuid.New()

	t.Run("creates loan in borrowed status", func(t *testing.T) {
		t.Parallel()

		loan, err := domain.NewLoan(userID, bookID, date(2025, 3, 10), date(2025, 3, 17))
		require.NoError(t, err)

		assert.Equal(t, domain.StatusBorrowed, loan.Status)
		assert.Equal(t, userID, loan.UserID)
		assert.Equal(t, bookID, loan.BookID)
		assert.Nil(t, loan.ReturnDate)
		assert.NotEqual(t, uuid.Nil, loan.ID)
	})

	t.Run("truncates dates to calendar days", func(t *testing.T) {
		t.Parallel()

		loanDate := time.Date(2025, 3, 10, 23, 45, 0, 0, time.UTC)
		dueDate := time.Date(2025, 3, 17, 8, 30, 0, 0, time.UTC)

		loan, err := domain.NewLoan(userID, bookID, loanDate, dueDate)
		require.NoError(t, err)

		assert.Equal(t, date(2025, 3, 10), loan.LoanDate)
		assert.Equal(t, date(2025, 3, 17), loan.DueDate)
	})

	t.Run("due date equal to loan date is allowed", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewLoan(userID, bookID, date(2025, 3, 10), date(2025, 3, 10))
		assert.NoError(t, err)
	})

	t.Run("rejects due date before loan date", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewLoan(userID, bookID, date(2025, 3, 10), date(2025, 3, 9))
		assert.ErrorIs(t, err, domain.ErrDueBeforeLoanDate)
	})

	t.Run("rejects zero user ID", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewLoan(uuid.Nil, bookID, date(2025, 3, 10), date(2025, 3, 17))
		assert.ErrorIs(t, err, domain.ErrEmptyLoanUserID)
	})
}

func TestLoanIsOverdue(t *testing.T) {
	t.Parallel()

	newLoan := func(t *testing.T, dueDate time.Time) *domain.Loan {
		t.Helper()
		loan, err := domain.NewLoan(uuid.New(), uuid.New(), date(2025, 3, 1), dueDate)
		require.NoError(t, err)
		return loan
	}

	t.Run("due date in the past is overdue", func(t *testing.T) {
		t.Parallel()

		loan := newLoan(t, date(2025, 3, 10))
		assert.True(t, loan.IsOverdue(date(2025, 3, 11)))
	})

	t.Run("due today is not overdue", func(t *testing.T) {
		t.Parallel()

		loan := newLoan(t, date(2025, 3, 10))
		assert.False(t, loan.IsOverdue(date(2025, 3, 10)))
	})

	t.Run("time of day does not matter", func(t *testing.T) {
		t.Parallel()

		loan := newLoan(t, date(2025, 3, 10))
		lateEvening := time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC)
		assert.False(t, loan.IsOverdue(lateEvening))
	})

	t.Run("returned loan is never overdue", func(t *testing.T) {
		t.Parallel()

		loan := newLoan(t, date(2025, 3, 10))
		loan.MarkReturned(date(2025, 3, 20))
		assert.False(t, loan.IsOverdue(date(2025, 3, 21)))
	})

	t.Run("stored overdue status wins regardless of due date", func(t *testing.T) {
		t.Parallel()

		loan := newLoan(t, date(2025, 3, 10))
		loan.Status = domain.StatusOverdue
		assert.True(t, loan.IsOverdue(date(2025, 3, 5)))
	})
}

func TestLoanDaysUntilDue(t *testing.T) {
	t.Parallel()

	loan, err := domain.NewLoan(uuid.New(), uuid.New(), date(2025, 3, 1), date(2025, 3, 10))
	require.NoError(t, err)

	assert.Equal(t, 3, loan.DaysUntilDue(date(2025, 3, 7)))
	assert.Equal(t, 0, loan.DaysUntilDue(date(2025, 3, 10)))
	assert.Equal(t, -2, loan.DaysUntilDue(date(2025, 3, 12)))
}

func TestLoanMarkReturned(t *testing.T) {
	t.Parallel()

	loan, err := domain.NewLoan(uuid.New(), uuid.New(), date(2025, 3, 1), date(2025, 3, 10))
	require.NoError(t, err)

	returnedAt := time.Date(2025, 3, 8, 14, 30, 0, 0, time.UTC)
	loan.MarkReturned(returnedAt)

	assert.Equal(t, domain.StatusReturned, loan.Status)
	require.NotNil(t, loan.ReturnDate)
	assert.Equal(t, date(2025, 3, 8), *loan.ReturnDate)
	assert.False(t, loan.Open())
	assert.NoError(t, loan.Validate())
}

func TestLoanValidate(t *testing.T) {
	t.Parallel()

	t.Run("returned loan requires return date", func(t *testing.T) {
		t.Parallel()

		loan, err := domain.NewLoan(uuid.New(), uuid.New(), date(2025, 3, 1), date(2025, 3, 10))
		require.NoError(t, err)

		loan.Status = domain.StatusReturned
		assert.ErrorIs(t, loan.Validate(), domain.ErrReturnDateMissing)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		t.Parallel()

		loan, err := domain.NewLoan(uuid.New(), uuid.New(), date(2025, 3, 1), date(2025, 3, 10))
		require.NoError(t, err)

		loan.Status = domain.LoanStatus("Lost")
		assert.ErrorIs(t, loan.Validate(), domain.ErrInvalidLoanStatus)
	})
}
