package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/escolalib/biblio-api/internal/domain"
	"github.com/escolalib/biblio-api/internal/store"
)

// dueSoonWindowDays is the reminder window: a loan due within this many
// whole days (inclusive) produces a "Return Due Soon" warning.
const dueSoonWindowDays = 3

// ErrNotificationNotFound indicates the referenced notification does not exist.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationPublisher receives newly derived notifications, e.g. to push
// them to connected websocket clients. Publish must not block.
type NotificationPublisher interface {
	Publish(n *domain.Notification)
}

// NotificationService derives due-soon and overdue notices from the loan
// ledger and manages the read flag. It only reads loans and books and only
// appends notifications; it never mutates loans or copy counts.
type NotificationService interface {
	// Derive scans every open loan and appends at most one notification per
	// loan per calendar day: danger "Loan Overdue" when the due date has
	// passed, warning "Return Due Soon" when it is at most three days away.
	// Idempotent within a day; safe to call on every login. Returns the
	// full notification set, existing plus newly appended.
	Derive(ctx context.Context) ([]*domain.Notification, error)

	// ListForUser returns the notifications addressed to the user plus
	// broadcasts, newest first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)

	// MarkRead flips the read flag on a notification.
	MarkRead(ctx context.Context, id uuid.UUID) error
}

// NotificationServiceError wraps unexpected errors from the notification
// service with context.
type NotificationServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for NotificationServiceError.
func (e *NotificationServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("notification service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("notification service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *NotificationServiceError) Unwrap() error {
	return e.Err
}

func newNotificationServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNotificationNotFound) {
		return ErrNotificationNotFound
	}
	return &NotificationServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// notificationServiceImpl implements the NotificationService interface.
type notificationServiceImpl struct {
	loanStore         store.LoanStore
	bookStore         store.BookStore
	notificationStore store.NotificationStore
	publisher         NotificationPublisher
	clock             Clock
	logger            *slog.Logger
}

// NewNotificationService creates a new NotificationService.
// publisher may be nil when no live push channel is configured. If clock is
// nil the wall clock is used; if logger is nil the default logger is used.
func NewNotificationService(
	loanStore store.LoanStore,
	bookStore store.BookStore,
	notificationStore store.NotificationStore,
	publisher NotificationPublisher,
	clock Clock,
	logger *slog.Logger,
) NotificationService {
	if clock == nil {
		clock = NewClock()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &notificationServiceImpl{
		loanStore:         loanStore,
		bookStore:         bookStore,
		notificationStore: notificationStore,
		publisher:         publisher,
		clock:             clock,
		logger:            logger.With(slog.String("component", "notification_service")),
	}
}

// Derive implements NotificationService.Derive
func (s *notificationServiceImpl) Derive(ctx context.Context) ([]*domain.Notification, error) {
	today := s.clock.Now()

	// Open loans cover both stored Borrowed and batch-set Overdue statuses.
	loans, err := s.loanStore.List(ctx, store.LoanFilter{OpenOnly: true})
	if err != nil {
		return nil, newNotificationServiceError("derive", "failed to list open loans", err)
	}

	var appended int
	for _, loan := range loans {
		daysRemaining := loan.DaysUntilDue(today)
		if daysRemaining > dueSoonWindowDays {
			continue
		}

		// Dedup on (user, book, day): one notice per loan per day, even if
		// the loan crossed from due-soon into overdue since the last pass
		// today. Known quirk inherited from the daily cadence; covered by a
		// test rather than papered over.
		exists, err := s.notificationStore.ExistsForLoanDay(ctx, loan.UserID, loan.BookID, today)
		if err != nil {
			return nil, newNotificationServiceError("derive", "dedup lookup failed", err)
		}
		if exists {
			continue
		}

		book, err := s.bookStore.GetByID(ctx, loan.BookID)
		if err != nil {
			// A missing book would mean a broken foreign key; log and move on
			// rather than abort the whole pass.
			s.logger.Warn("skipping loan with missing book",
				slog.String("loan_id", loan.ID.String()),
				slog.String("book_id", loan.BookID.String()),
				slog.String("error", err.Error()))
			continue
		}

		var n *domain.Notification
		if daysRemaining < 0 {
			n = domain.NewOverdueNotification(loan.UserID, loan.BookID, book.Title, today)
		} else {
			n = domain.NewDueSoonNotification(loan.UserID, loan.BookID, book.Title, daysRemaining, today)
		}

		if err := s.notificationStore.Create(ctx, n); err != nil {
			return nil, newNotificationServiceError("derive", "failed to append notification", err)
		}
		appended++

		if s.publisher != nil {
			s.publisher.Publish(n)
		}
	}

	if appended > 0 {
		s.logger.Info("derived loan notifications",
			slog.Int("appended", appended),
			slog.Int("open_loans", len(loans)))
	}

	all, err := s.notificationStore.List(ctx)
	if err != nil {
		return nil, newNotificationServiceError("derive", "failed to list notifications", err)
	}
	return all, nil
}

// ListForUser implements NotificationService.ListForUser
func (s *notificationServiceImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	notifications, err := s.notificationStore.ListForUser(ctx, userID)
	if err != nil {
		return nil, newNotificationServiceError("list", "failed to list notifications", err)
	}
	return notifications, nil
}

// MarkRead implements NotificationService.MarkRead
func (s *notificationServiceImpl) MarkRead(ctx context.Context, id uuid.UUID) error {
	if err := s.notificationStore.MarkRead(ctx, id); err != nil {
		return newNotificationServiceError("mark_read", "failed to mark notification read", err)
	}
	return nil
}
