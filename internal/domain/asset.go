package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Digital-asset validation errors
var (
	ErrEmptyAssetID    = errors.New("asset ID cannot be empty")
	ErrEmptyAssetTitle = errors.New("asset title cannot be empty")
	ErrEmptyAssetURL   = errors.New("asset URL cannot be empty")
)

// AssetType classifies a digital asset link.
type AssetType string

const (
	AssetPDF       AssetType = "PDF"
	AssetEBook     AssetType = "E-Book"
	AssetAudiobook AssetType = "Audiobook"
)

// IsValid reports whether the asset type is one of the known types.
func (t AssetType) IsValid() bool {
	return t == AssetPDF || t == AssetEBook || t == AssetAudiobook
}

// DigitalAsset is a link to an external digital resource in the catalog.
// Assets are pure catalog entries; they have no copy counts and never
// participate in the loan ledger.
type DigitalAsset struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Type      AssetType `json:"type"`
	Category  string    `json:"category"`
	URL       string    `json:"url"`
	CoverURL  string    `json:"cover_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDigitalAsset creates a new DigitalAsset with the given fields.
// Returns an error if validation fails.
func NewDigitalAsset(title string, assetType AssetType, category, url string) (*DigitalAsset, error) {
	asset := &DigitalAsset{
		ID:        uuid.New(),
		Title:     title,
		Type:      assetType,
		Category:  category,
		URL:       url,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := asset.Validate(); err != nil {
		return nil, err
	}

	return asset, nil
}

// Validate checks if the DigitalAsset has valid data.
func (a *DigitalAsset) Validate() error {
	if a.ID == uuid.Nil {
		return ErrEmptyAssetID
	}

	if strings.TrimSpace(a.Title) == "" {
		return ErrEmptyAssetTitle
	}

	if !a.Type.IsValid() {
		return ErrInvalidAssetType
	}

	if a.URL == "" {
		return ErrEmptyAssetURL
	}

	return nil
}
