package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Class/sector validation errors
var (
	ErrEmptyClassSectorID   = errors.New("class/sector ID cannot be empty")
	ErrEmptyClassSectorName = errors.New("class/sector name cannot be empty")
)

// ClassSector is an entry in the lookup list of school classes and staff
// sectors (e.g. "3º Ano A", "Sala dos Professores"). Member profiles
// reference it by name through their SectorOrClass field.
type ClassSector struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewClassSector creates a new ClassSector with the given name.
// Returns an error if validation fails.
func NewClassSector(name string) (*ClassSector, error) {
	cs := &ClassSector{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := cs.Validate(); err != nil {
		return nil, err
	}

	return cs, nil
}

// Validate checks if the ClassSector has valid data.
func (c *ClassSector) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyClassSectorID
	}

	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyClassSectorName
	}

	return nil
}
