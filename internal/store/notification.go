package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/escolalib/biblio-api/internal/domain"
)

// NotificationStore defines the interface for notification persistence.
// Notifications are append-only: the deriver creates them, recipients flip
// the read flag, and nothing ever deletes or expires them.
type NotificationStore interface {
	// Create appends a new notification.
	// Returns validation errors if the notification data is invalid.
	Create(ctx context.Context, n *domain.Notification) error

	// List retrieves every notification, newest first.
	List(ctx context.Context) ([]*domain.Notification, error)

	// ListForUser retrieves the notifications addressed to the given user
	// plus the broadcast ones (nil user), newest first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)

	// ExistsForLoanDay reports whether a notification already exists for the
	// (user, book, calendar day) dedup key. The deriver consults this before
	// appending so a loan produces at most one notice per day.
	ExistsForLoanDay(ctx context.Context, userID, bookID uuid.UUID, day time.Time) (bool, error)

	// MarkRead sets the read flag on a notification.
	// Returns ErrNotificationNotFound if the notification does not exist.
	MarkRead(ctx context.Context, id uuid.UUID) error
}
