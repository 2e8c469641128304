package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escolalib/biblio-api/internal/domain"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("valid user", func(t *testing.T) {
		t.Parallel()

		user, err := domain.NewUser("Ana Souza", "ana@example.com", "s3cret-pass", domain.RoleUser, domain.MemberStudent)
		require.NoError(t, err)
		assert.NotEqual(t, "", user.ID.String())
		assert.Equal(t, domain.RoleUser, user.Role)
	})

	t.Run("rejects short password", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewUser("Ana", "ana@example.com", "short", domain.RoleUser, domain.MemberStudent)
		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewUser("Ana", "not-an-email", "s3cret-pass", domain.RoleUser, domain.MemberStudent)
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewUser("Ana", "ana@example.com", "s3cret-pass", domain.UserRole("ROOT"), domain.MemberStudent)
		assert.ErrorIs(t, err, domain.ErrInvalidRole)
	})

	t.Run("rejects unknown member type", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewUser("Ana", "ana@example.com", "s3cret-pass", domain.RoleUser, domain.MemberType("visitor"))
		assert.ErrorIs(t, err, domain.ErrInvalidMemberType)
	})
}

func TestUserValidateStoredUser(t *testing.T) {
	t.Parallel()

	// Users loaded from the store carry only the hash.
	user, err := domain.NewUser("Ana", "ana@example.com", "s3cret-pass", domain.RoleAdmin, domain.MemberStaff)
	require.NoError(t, err)

	user.Password = ""
	user.HashedPassword = "$2a$10$abcdefghijklmnopqrstuv"
	assert.NoError(t, user.Validate())

	user.HashedPassword = ""
	assert.ErrorIs(t, user.Validate(), domain.ErrEmptyPassword)
}
