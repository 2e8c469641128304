package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/escolalib/biblio-api/internal/domain"
	"github.com/escolalib/biblio-api/internal/platform/logger"
	"github.com/escolalib/biblio-api/internal/store"
)

const notificationColumns = `id, user_id, book_id, title, message, severity, is_read,
	date, created_at`

// PostgresNotificationStore implements the store.NotificationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresNotificationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNotificationStore creates a new PostgreSQL implementation of the
// NotificationStore interface. If logger is nil, a default logger will be used.
func NewPostgresNotificationStore(db store.DBTX, logger *slog.Logger) *PostgresNotificationStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresNotificationStore{
		db:     db,
		logger: logger.With(slog.String("component", "notification_store")),
	}
}

// Ensure PostgresNotificationStore implements store.NotificationStore interface
var _ store.NotificationStore = (*PostgresNotificationStore)(nil)

// Create implements store.NotificationStore.Create
func (s *PostgresNotificationStore) Create(ctx context.Context, n *domain.Notification) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := n.Validate(); err != nil {
		log.Warn("notification validation failed during create",
			slog.String("error", err.Error()),
			slog.String("notification_id", n.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO notifications (id, user_id, book_id, title, message, severity,
			is_read, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		n.ID,
		n.UserID,
		n.BookID,
		n.Title,
		n.Message,
		n.Severity,
		n.IsRead,
		n.Date,
		n.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create notification",
			slog.String("error", err.Error()),
			slog.String("notification_id", n.ID.String()))
		return MapError(err)
	}

	return nil
}

// List implements store.NotificationStore.List
func (s *PostgresNotificationStore) List(ctx context.Context) ([]*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
		ORDER BY created_at DESC`
	return s.queryNotifications(ctx, query)
}

// ListForUser implements store.NotificationStore.ListForUser
// Broadcast notifications (NULL user_id) are visible to everyone.
func (s *PostgresNotificationStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
		WHERE user_id = $1 OR user_id IS NULL
		ORDER BY created_at DESC`
	return s.queryNotifications(ctx, query, userID)
}

// ExistsForLoanDay implements store.NotificationStore.ExistsForLoanDay
// The (user_id, book_id, date) triple is the structured dedup key for
// derived loan notices.
func (s *PostgresNotificationStore) ExistsForLoanDay(ctx context.Context, userID, bookID uuid.UUID, day time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE user_id = $1 AND book_id = $2 AND date = $3
		)
	`
	var exists bool
	err := s.db.QueryRowContext(ctx, query, userID, bookID, domain.DateOnly(day)).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// MarkRead implements store.NotificationStore.MarkRead
// Returns store.ErrNotificationNotFound if the notification does not exist.
func (s *PostgresNotificationStore) MarkRead(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1`,
		id,
	)
	if err != nil {
		log.Error("failed to mark notification read",
			slog.String("error", err.Error()),
			slog.String("notification_id", id.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrNotificationNotFound)
}

func (s *PostgresNotificationStore) queryNotifications(ctx context.Context, query string, args ...any) ([]*domain.Notification, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query notifications", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var notifications []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.BookID,
			&n.Title,
			&n.Message,
			&n.Severity,
			&n.IsRead,
			&n.Date,
			&n.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan notification row", slog.String("error", err.Error()))
			return nil, err
		}
		notifications = append(notifications, &n)
	}

	return notifications, rows.Err()
}
