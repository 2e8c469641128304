package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/escolalib/biblio-api/internal/api"
	"github.com/escolalib/biblio-api/internal/domain"
	"github.com/escolalib/biblio-api/internal/service"
	"github.com/escolalib/biblio-api/internal/service/auth"
	"github.com/escolalib/biblio-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unauthorized operation", domain.ErrUnauthorized, http.StatusForbidden},
		{"loan not found", service.ErrLoanNotFound, http.StatusNotFound},
		{"book not found", service.ErrBookNotFound, http.StatusNotFound},
		{"store not found", store.ErrAssetNotFound, http.StatusNotFound},
		{"out of stock", service.ErrOutOfStock, http.StatusConflict},
		{"already returned", service.ErrAlreadyReturned, http.StatusConflict},
		{"copy invariant", store.ErrCopyInvariant, http.StatusConflict},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"due before loan date", domain.ErrDueBeforeLoanDate, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, api.MapErrorToStatusCode(tc.err))
		})
	}
}

func TestMapErrorToStatusCodeWrapped(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("checkout failed: %w", service.ErrOutOfStock)
	assert.Equal(t, http.StatusConflict, api.MapErrorToStatusCode(wrapped))
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("known errors get friendly messages", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "Loan not found", api.GetSafeErrorMessage(service.ErrLoanNotFound))
		assert.Equal(t,
			"No copies of this book are currently available",
			api.GetSafeErrorMessage(service.ErrOutOfStock))
		assert.Equal(t,
			"This loan has already been returned",
			api.GetSafeErrorMessage(service.ErrAlreadyReturned))
	})

	t.Run("internal details never leak", func(t *testing.T) {
		t.Parallel()

		err := errors.New("pq: connection refused host=10.0.0.5 password=hunter2")
		msg := api.GetSafeErrorMessage(err)
		assert.Equal(t, "An unexpected error occurred", msg)
	})

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "An unexpected error occurred", api.GetSafeErrorMessage(nil))
	})
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := errors.New(
		"Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag")
	assert.Equal(t, "Invalid Email: required field", api.SanitizeValidationError(err))

	assert.Equal(t, "Validation error", api.SanitizeValidationError(errors.New("boom")))
}
