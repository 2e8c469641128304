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

const assetColumns = `id, title, type, category, url, cover_url, created_at, updated_at`

// PostgresAssetStore implements the store.AssetStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAssetStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAssetStore creates a new PostgreSQL implementation of the AssetStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresAssetStore(db store.DBTX, logger *slog.Logger) *PostgresAssetStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAssetStore{
		db:     db,
		logger: logger.With(slog.String("component", "asset_store")),
	}
}

// Ensure PostgresAssetStore implements store.AssetStore interface
var _ store.AssetStore = (*PostgresAssetStore)(nil)

// Create implements store.AssetStore.Create
func (s *PostgresAssetStore) Create(ctx context.Context, asset *domain.DigitalAsset) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := asset.Validate(); err != nil {
		log.Warn("asset validation failed during create",
			slog.String("error", err.Error()),
			slog.String("asset_id", asset.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO digital_assets (id, title, type, category, url, cover_url,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		asset.ID,
		asset.Title,
		asset.Type,
		asset.Category,
		asset.URL,
		asset.CoverURL,
		asset.CreatedAt,
		asset.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create asset",
			slog.String("error", err.Error()),
			slog.String("asset_id", asset.ID.String()))
		return MapError(err)
	}

	return nil
}

// GetByID implements store.AssetStore.GetByID
// Returns store.ErrAssetNotFound if the asset does not exist.
func (s *PostgresAssetStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.DigitalAsset, error) {
	query := `SELECT ` + assetColumns + ` FROM digital_assets WHERE id = $1`

	asset, err := scanAsset(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAssetNotFound
		}
		return nil, err
	}
	return asset, nil
}

// List implements store.AssetStore.List
func (s *PostgresAssetStore) List(ctx context.Context) ([]*domain.DigitalAsset, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + assetColumns + ` FROM digital_assets ORDER BY title`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list assets", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var assets []*domain.DigitalAsset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			log.Error("failed to scan asset row", slog.String("error", err.Error()))
			return nil, err
		}
		assets = append(assets, asset)
	}

	return assets, rows.Err()
}

// Update implements store.AssetStore.Update
// Returns store.ErrAssetNotFound if the asset does not exist.
func (s *PostgresAssetStore) Update(ctx context.Context, asset *domain.DigitalAsset) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := asset.Validate(); err != nil {
		log.Warn("asset validation failed during update",
			slog.String("error", err.Error()),
			slog.String("asset_id", asset.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE digital_assets
		SET title = $1, type = $2, category = $3, url = $4, cover_url = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		asset.Title,
		asset.Type,
		asset.Category,
		asset.URL,
		asset.CoverURL,
		asset.UpdatedAt,
		asset.ID,
	)
	if err != nil {
		log.Error("failed to update asset",
			slog.String("error", err.Error()),
			slog.String("asset_id", asset.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrAssetNotFound)
}

// Delete implements store.AssetStore.Delete
// Returns store.ErrAssetNotFound if the asset does not exist.
func (s *PostgresAssetStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM digital_assets WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete asset",
			slog.String("error", err.Error()),
			slog.String("asset_id", id.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrAssetNotFound)
}

// Count implements store.AssetStore.Count
func (s *PostgresAssetStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM digital_assets`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func scanAsset(row rowScanner) (*domain.DigitalAsset, error) {
	var asset domain.DigitalAsset
	var assetType string
	err := row.Scan(
		&asset.ID,
		&asset.Title,
		&assetType,
		&asset.Category,
		&asset.URL,
		&asset.CoverURL,
		&asset.CreatedAt,
		&asset.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	asset.Type = domain.AssetType(assetType)
	return &asset, nil
}
