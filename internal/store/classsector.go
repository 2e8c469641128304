package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/escolalib/biblio-api/internal/domain"
)

// ClassSectorStore defines the interface for the class/sector lookup list.
// Entries are referenced by name from member profiles, so deleting one never
// cascades into users.
type ClassSectorStore interface {
	// Create saves a new class/sector entry.
	// Returns validation errors if the entry data is invalid.
	Create(ctx context.Context, cs *domain.ClassSector) error

	// GetByID retrieves a class/sector entry by its unique ID.
	// Returns ErrClassSectorNotFound if the entry does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ClassSector, error)

	// List retrieves all class/sector entries ordered by name.
	List(ctx context.Context) ([]*domain.ClassSector, error)

	// Update saves changes to an existing class/sector entry.
	// Returns ErrClassSectorNotFound if the entry does not exist.
	Update(ctx context.Context, cs *domain.ClassSector) error

	// Delete removes a class/sector entry by its ID.
	// Returns ErrClassSectorNotFound if the entry does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
