package auth

import (
	"context"

	"github.com/google/uuid"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the user.
	// Returns the token string or an error if token generation fails.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken validates the provided access token string and extracts the claims.
	// Returns ErrExpiredToken, ErrWrongTokenType or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed JWT refresh token for the user.
	// Refresh tokens have a longer lifetime and are used to obtain new access tokens.
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateRefreshToken validates the provided refresh token string and extracts the claims.
	// Returns ErrExpiredRefreshToken, ErrWrongTokenType or ErrInvalidRefreshToken on failure.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated content of a token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID

	// TokenType indicates the purpose of the token ("access" or "refresh").
	TokenType string
}
