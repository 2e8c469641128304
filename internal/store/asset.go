package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/escolalib/biblio-api/internal/domain"
)

// AssetStore defines the interface for digital asset persistence.
type AssetStore interface {
	// Create saves a new digital asset.
	// Returns validation errors if the asset data is invalid.
	Create(ctx context.Context, asset *domain.DigitalAsset) error

	// GetByID retrieves a digital asset by its unique ID.
	// Returns ErrAssetNotFound if the asset does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DigitalAsset, error)

	// List retrieves all digital assets ordered by title.
	List(ctx context.Context) ([]*domain.DigitalAsset, error)

	// Update saves changes to an existing digital asset.
	// Returns ErrAssetNotFound if the asset does not exist.
	Update(ctx context.Context, asset *domain.DigitalAsset) error

	// Delete removes a digital asset by its ID.
	// Returns ErrAssetNotFound if the asset does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the total number of digital assets.
	Count(ctx context.Context) (int64, error)
}
