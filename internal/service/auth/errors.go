package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrInvalidRefreshToken indicates the refresh token format is invalid or signature doesn't match
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrExpiredRefreshToken indicates the refresh token has expired
	ErrExpiredRefreshToken = errors.New("refresh token has expired")

	// ErrWrongTokenType indicates an access token was presented where a
	// refresh token was expected, or vice versa
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrInvalidCredentials indicates the email/password pair did not match
	ErrInvalidCredentials = errors.New("invalid credentials")
)
