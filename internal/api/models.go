package api

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest represents the payload for user registration.
type RegisterRequest struct {
	Name          string `json:"name"           validate:"required"`
	Email         string `json:"email"          validate:"required,email"`
	Password      string `json:"password"       validate:"required,min=8,max=72"`
	Role          string `json:"role"           validate:"omitempty,oneof=ADMIN USER"`
	Phone         string `json:"phone"`
	MemberType    string `json:"member_type"    validate:"required,oneof=student teacher staff"`
	SectorOrClass string `json:"sector_or_class"`
}

// LoginRequest represents the payload for user login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents the payload for refreshing an access token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse represents the response for successful authentication.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
}

// CreateBookRequest represents the payload for cataloging a new book.
type CreateBookRequest struct {
	Title         string `json:"title"          validate:"required"`
	Author        string `json:"author"`
	ISBN          string `json:"isbn"`
	Category      string `json:"category"`
	Format        string `json:"format"`
	KnowledgeArea string `json:"knowledge_area"`
	Year          string `json:"year"`
	Quantity      int    `json:"quantity"       validate:"gte=0"`
	Shelf         string `json:"shelf"`
	ShelfLocation string `json:"shelf_location"`
	Publisher     string `json:"publisher"`
	CoverURL      string `json:"cover_url"`
	Synopsis      string `json:"synopsis"`
}

// UpdateBookRequest represents the payload for updating a book's catalog
// fields. Quantity changes adjust the available count by the same delta.
type UpdateBookRequest struct {
	Title         string `json:"title"          validate:"required"`
	Author        string `json:"author"`
	ISBN          string `json:"isbn"`
	Category      string `json:"category"`
	Format        string `json:"format"`
	KnowledgeArea string `json:"knowledge_area"`
	Year          string `json:"year"`
	Quantity      int    `json:"quantity"       validate:"gte=0"`
	Shelf         string `json:"shelf"`
	ShelfLocation string `json:"shelf_location"`
	Publisher     string `json:"publisher"`
	CoverURL      string `json:"cover_url"`
	Synopsis      string `json:"synopsis"`
}

// CheckoutRequest represents the payload for lending a copy of a book.
// LoanDate defaults to today and DueDate to loan date plus the default loan
// period when omitted.
type CheckoutRequest struct {
	UserID   uuid.UUID  `json:"user_id" validate:"required"`
	BookID   uuid.UUID  `json:"book_id" validate:"required"`
	LoanDate *time.Time `json:"loan_date,omitempty"`
	DueDate  *time.Time `json:"due_date,omitempty"`
}

// UpdateUserRequest represents the payload for updating a user's profile.
// A non-empty password resets the stored hash.
type UpdateUserRequest struct {
	Name          string `json:"name"           validate:"required"`
	Email         string `json:"email"          validate:"required,email"`
	Password      string `json:"password"       validate:"omitempty,min=8,max=72"`
	Role          string `json:"role"           validate:"required,oneof=ADMIN USER"`
	Phone         string `json:"phone"`
	MemberType    string `json:"member_type"    validate:"required,oneof=student teacher staff"`
	SectorOrClass string `json:"sector_or_class"`
	PhotoURL      string `json:"photo_url"`
}

// CreateAssetRequest represents the payload for adding a digital asset link.
type CreateAssetRequest struct {
	Title    string `json:"title"    validate:"required"`
	Type     string `json:"type"     validate:"required,oneof=PDF E-Book Audiobook"`
	Category string `json:"category"`
	URL      string `json:"url"      validate:"required,url"`
	CoverURL string `json:"cover_url"`
}

// UpdateAssetRequest represents the payload for updating a digital asset.
type UpdateAssetRequest struct {
	Title    string `json:"title"    validate:"required"`
	Type     string `json:"type"     validate:"required,oneof=PDF E-Book Audiobook"`
	Category string `json:"category"`
	URL      string `json:"url"      validate:"required,url"`
	CoverURL string `json:"cover_url"`
}

// CreateClassSectorRequest represents the payload for adding a class/sector entry.
type CreateClassSectorRequest struct {
	Name string `json:"name" validate:"required"`
}

// UpdateClassSectorRequest represents the payload for renaming a class/sector entry.
type UpdateClassSectorRequest struct {
	Name string `json:"name" validate:"required"`
}
