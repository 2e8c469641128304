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

const userColumns = `id, name, email, hashed_password, role, phone, member_type,
	sector_or_class, photo_url, must_change_password, created_at, updated_at`

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.UserStore.Create
// The user must carry a hashed password; plaintext never reaches the store.
// Returns store.ErrEmailExists when the email address is already registered.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	if user.HashedPassword == "" {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, domain.ErrEmptyHashedPassword)
	}

	query := `
		INSERT INTO users (id, name, email, hashed_password, role, phone, member_type,
			sector_or_class, photo_url, must_change_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Name,
		user.Email,
		user.HashedPassword,
		user.Role,
		user.Phone,
		user.MemberType,
		user.SectorOrClass,
		user.PhotoURL,
		user.MustChangePassword,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("email already registered",
				slog.String("email", user.Email))
			return store.ErrEmailExists
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	log.Info("user created",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)))
	return nil
}

// GetByID implements store.UserStore.GetByID
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetByEmail implements store.UserStore.GetByEmail
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// List implements store.UserStore.List
func (s *PostgresUserStore) List(ctx context.Context) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + userColumns + ` FROM users ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list users", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			log.Error("failed to scan user row", slog.String("error", err.Error()))
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// Update implements store.UserStore.Update
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during update",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE users
		SET name = $1, email = $2, hashed_password = $3, role = $4, phone = $5,
			member_type = $6, sector_or_class = $7, photo_url = $8,
			must_change_password = $9, updated_at = $10
		WHERE id = $11
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		user.Name,
		user.Email,
		user.HashedPassword,
		user.Role,
		user.Phone,
		user.MemberType,
		user.SectorOrClass,
		user.PhotoURL,
		user.MustChangePassword,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrEmailExists
		}
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// Delete implements store.UserStore.Delete
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete user",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// Count implements store.UserStore.Count
func (s *PostgresUserStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.HashedPassword,
		&user.Role,
		&user.Phone,
		&user.MemberType,
		&user.SectorOrClass,
		&user.PhotoURL,
		&user.MustChangePassword,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
