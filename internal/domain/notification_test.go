package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escolalib/biblio-api/internal/domain"
)

func TestNewOverdueNotification(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	bookID := uuid.New()
	derivedAt := time.Date(2025, 3, 12, 16, 20, 0, 0, time.UTC)

	n := domain.NewOverdueNotification(userID, bookID, "Dom Casmurro", derivedAt)

	assert.Equal(t, domain.TitleLoanOverdue, n.Title)
	assert.Equal(t, domain.SeverityDanger, n.Severity)
	assert.Contains(t, n.Message, "Dom Casmurro")
	assert.False(t, n.IsRead)
	require.NotNil(t, n.UserID)
	assert.Equal(t, userID, *n.UserID)
	require.NotNil(t, n.BookID)
	assert.Equal(t, bookID, *n.BookID)
	assert.Equal(t, date(2025, 3, 12), n.Date)
	assert.NoError(t, n.Validate())
}

func TestNewDueSoonNotification(t *testing.T) {
	t.Parallel()

	n := domain.NewDueSoonNotification(uuid.New(), uuid.New(), "Quincas Borba", 2, date(2025, 3, 12))

	assert.Equal(t, domain.TitleReturnDueSoon, n.Title)
	assert.Equal(t, domain.SeverityWarning, n.Severity)
	assert.Contains(t, n.Message, "Quincas Borba")
	assert.Contains(t, n.Message, "2 days")
	assert.NoError(t, n.Validate())
}

func TestNotificationValidate(t *testing.T) {
	t.Parallel()

	t.Run("empty title is rejected", func(t *testing.T) {
		t.Parallel()

		n := domain.NewOverdueNotification(uuid.New(), uuid.New(), "Title", date(2025, 3, 12))
		n.Title = ""
		assert.ErrorIs(t, n.Validate(), domain.ErrEmptyNotificationTitle)
	})

	t.Run("unknown severity is rejected", func(t *testing.T) {
		t.Parallel()

		n := domain.NewOverdueNotification(uuid.New(), uuid.New(), "Title", date(2025, 3, 12))
		n.Severity = domain.Severity("critical")
		assert.ErrorIs(t, n.Validate(), domain.ErrInvalidSeverity)
	})
}
