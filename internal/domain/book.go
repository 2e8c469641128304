package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Book-specific validation errors
var (
	ErrEmptyBookID          = errors.New("book ID cannot be empty")
	ErrEmptyBookTitle       = errors.New("book title cannot be empty")
	ErrNegativeQuantity     = errors.New("book quantity cannot be negative")
	ErrAvailableOutOfBounds = errors.New("available copies must be between 0 and quantity")
)

// Book represents a cataloged title together with its physical copy counts.
//
// Quantity is the total number of copies the library owns; Available is the
// number of copies currently on the shelf. Available is written only through
// the loan service's reserve/release operations, never directly by callers,
// so that quantity - available always equals the number of open loans on the
// title.
type Book struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	ISBN          string    `json:"isbn"`
	Category      string    `json:"category"`
	Format        string    `json:"format"`
	KnowledgeArea string    `json:"knowledge_area,omitempty"`
	Year          string    `json:"year,omitempty"`
	Quantity      int       `json:"quantity"`
	Available     int       `json:"available"`
	Shelf         string    `json:"shelf,omitempty"`
	ShelfLocation string    `json:"shelf_location,omitempty"`
	Publisher     string    `json:"publisher,omitempty"`
	CoverURL      string    `json:"cover_url,omitempty"`
	Synopsis      string    `json:"synopsis,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewBook creates a new Book with the given catalog fields. All copies of a
// newly registered title start on the shelf, so Available is set to Quantity.
// Returns an error if validation fails.
func NewBook(title, author, isbn, category, format string, quantity int) (*Book, error) {
	book := &Book{
		ID:        uuid.New(),
		Title:     title,
		Author:    author,
		ISBN:      isbn,
		Category:  category,
		Format:    format,
		Quantity:  quantity,
		Available: quantity,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := book.Validate(); err != nil {
		return nil, err
	}

	return book, nil
}

// Validate checks if the Book has valid data.
// Returns an error if any field fails validation.
func (b *Book) Validate() error {
	if b.ID == uuid.Nil {
		return ErrEmptyBookID
	}

	if strings.TrimSpace(b.Title) == "" {
		return ErrEmptyBookTitle
	}

	if b.Quantity < 0 {
		return ErrNegativeQuantity
	}

	if b.Available < 0 || b.Available > b.Quantity {
		return ErrAvailableOutOfBounds
	}

	return nil
}

// OnLoan returns the number of copies currently checked out.
func (b *Book) OnLoan() int {
	return b.Quantity - b.Available
}
