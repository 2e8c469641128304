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

// PostgresClassSectorStore implements the store.ClassSectorStore interface
// using a PostgreSQL database as the storage backend.
type PostgresClassSectorStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresClassSectorStore creates a new PostgreSQL implementation of the
// ClassSectorStore interface. If logger is nil, a default logger will be used.
func NewPostgresClassSectorStore(db store.DBTX, logger *slog.Logger) *PostgresClassSectorStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresClassSectorStore{
		db:     db,
		logger: logger.With(slog.String("component", "class_sector_store")),
	}
}

// Ensure PostgresClassSectorStore implements store.ClassSectorStore interface
var _ store.ClassSectorStore = (*PostgresClassSectorStore)(nil)

// Create implements store.ClassSectorStore.Create
func (s *PostgresClassSectorStore) Create(ctx context.Context, cs *domain.ClassSector) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := cs.Validate(); err != nil {
		log.Warn("class/sector validation failed during create",
			slog.String("error", err.Error()),
			slog.String("class_sector_id", cs.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO class_sectors (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query, cs.ID, cs.Name, cs.CreatedAt, cs.UpdatedAt)
	if err != nil {
		log.Error("failed to create class/sector",
			slog.String("error", err.Error()),
			slog.String("class_sector_id", cs.ID.String()))
		return MapError(err)
	}

	return nil
}

// GetByID implements store.ClassSectorStore.GetByID
// Returns store.ErrClassSectorNotFound if the entry does not exist.
func (s *PostgresClassSectorStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ClassSector, error) {
	query := `SELECT id, name, created_at, updated_at FROM class_sectors WHERE id = $1`

	cs, err := scanClassSector(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrClassSectorNotFound
		}
		return nil, err
	}
	return cs, nil
}

// List implements store.ClassSectorStore.List
func (s *PostgresClassSectorStore) List(ctx context.Context) ([]*domain.ClassSector, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT id, name, created_at, updated_at FROM class_sectors ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list class/sectors", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []*domain.ClassSector
	for rows.Next() {
		cs, err := scanClassSector(rows)
		if err != nil {
			log.Error("failed to scan class/sector row", slog.String("error", err.Error()))
			return nil, err
		}
		entries = append(entries, cs)
	}

	return entries, rows.Err()
}

// Update implements store.ClassSectorStore.Update
// Returns store.ErrClassSectorNotFound if the entry does not exist.
func (s *PostgresClassSectorStore) Update(ctx context.Context, cs *domain.ClassSector) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := cs.Validate(); err != nil {
		log.Warn("class/sector validation failed during update",
			slog.String("error", err.Error()),
			slog.String("class_sector_id", cs.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `UPDATE class_sectors SET name = $1, updated_at = $2 WHERE id = $3`
	result, err := s.db.ExecContext(ctx, query, cs.Name, cs.UpdatedAt, cs.ID)
	if err != nil {
		log.Error("failed to update class/sector",
			slog.String("error", err.Error()),
			slog.String("class_sector_id", cs.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrClassSectorNotFound)
}

// Delete implements store.ClassSectorStore.Delete
// Returns store.ErrClassSectorNotFound if the entry does not exist.
func (s *PostgresClassSectorStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM class_sectors WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete class/sector",
			slog.String("error", err.Error()),
			slog.String("class_sector_id", id.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrClassSectorNotFound)
}

func scanClassSector(row rowScanner) (*domain.ClassSector, error) {
	var cs domain.ClassSector
	err := row.Scan(&cs.ID, &cs.Name, &cs.CreatedAt, &cs.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &cs, nil
}
