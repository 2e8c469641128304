package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escolalib/biblio-api/internal/api"
	"github.com/escolalib/biblio-api/internal/config"
	"github.com/escolalib/biblio-api/internal/domain"
	"github.com/escolalib/biblio-api/internal/service/auth"
	"github.com/escolalib/biblio-api/internal/store"
)

// memUserStore is a map-backed store.UserStore for handler tests.
type memUserStore struct {
	users map[uuid.UUID]*domain.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (s *memUserStore) Create(ctx context.Context, user *domain.User) error {
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *memUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (s *memUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *memUserStore) List(ctx context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, user)
	}
	return out, nil
}

func (s *memUserStore) Update(ctx context.Context, user *domain.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	s.users[user.ID] = user
	return nil
}

func (s *memUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *memUserStore) Count(ctx context.Context) (int64, error) {
	return int64(len(s.users)), nil
}

func (s *memUserStore) WithTx(tx *sql.Tx) store.UserStore { return s }

func newAuthRouter(t *testing.T, users *memUserStore) chi.Router {
	t.Helper()

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "0123456789abcdef0123456789abcdef",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 10080,
	})
	require.NoError(t, err)

	handler := api.NewAuthHandler(users, jwtService, auth.NewBcryptHasher())

	r := chi.NewRouter()
	r.Post("/auth/register", handler.Register)
	r.Post("/auth/login", handler.Login)
	r.Post("/auth/refresh", handler.Refresh)
	return r
}

func registerBody(email string) string {
	return fmt.Sprintf(
		`{"name":"Ana Souza","email":%q,"password":"s3cret-pass","member_type":"student"}`,
		email)
}

func TestAuthHandlerRegister(t *testing.T) {
	t.Parallel()

	t.Run("created with hashed password", func(t *testing.T) {
		t.Parallel()

		users := newMemUserStore()
		router := newAuthRouter(t, users)

		req := httptest.NewRequest(http.MethodPost, "/auth/register",
			bytes.NewBufferString(registerBody("ana@example.com")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp api.AuthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.NotEmpty(t, resp.Token)
		assert.NotEmpty(t, resp.RefreshToken)

		stored, err := users.GetByEmail(context.Background(), "ana@example.com")
		require.NoError(t, err)
		assert.Empty(t, stored.Password)
		assert.NotEmpty(t, stored.HashedPassword)
		assert.NotEqual(t, "s3cret-pass", stored.HashedPassword)
		assert.Equal(t, domain.RoleUser, stored.Role)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		t.Parallel()

		users := newMemUserStore()
		router := newAuthRouter(t, users)

		req := httptest.NewRequest(http.MethodPost, "/auth/register",
			bytes.NewBufferString(registerBody("dup@example.com")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		req = httptest.NewRequest(http.MethodPost, "/auth/register",
			bytes.NewBufferString(registerBody("dup@example.com")))
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("short password is a bad request", func(t *testing.T) {
		t.Parallel()

		router := newAuthRouter(t, newMemUserStore())

		body := `{"name":"Ana","email":"ana@example.com","password":"short","member_type":"student"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandlerLogin(t *testing.T) {
	t.Parallel()

	register := func(t *testing.T, router chi.Router) {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/auth/register",
			bytes.NewBufferString(registerBody("ana@example.com")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()

		router := newAuthRouter(t, newMemUserStore())
		register(t, router)

		body := `{"email":"ana@example.com","password":"s3cret-pass"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.AuthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()

		router := newAuthRouter(t, newMemUserStore())
		register(t, router)

		body := `{"email":"ana@example.com","password":"wrong-pass"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown email gets the same response as wrong password", func(t *testing.T) {
		t.Parallel()

		router := newAuthRouter(t, newMemUserStore())

		body := `{"email":"ghost@example.com","password":"s3cret-pass"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthHandlerRefresh(t *testing.T) {
	t.Parallel()

	t.Run("exchanges a refresh token for a new pair", func(t *testing.T) {
		t.Parallel()

		router := newAuthRouter(t, newMemUserStore())

		req := httptest.NewRequest(http.MethodPost, "/auth/register",
			bytes.NewBufferString(registerBody("ana@example.com")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var registered api.AuthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&registered))

		body := fmt.Sprintf(`{"refresh_token":%q}`, registered.RefreshToken)
		req = httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewBufferString(body))
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var refreshed api.AuthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&refreshed))
		assert.Equal(t, registered.UserID, refreshed.UserID)
		assert.NotEmpty(t, refreshed.Token)
	})

	t.Run("access token is rejected as refresh token", func(t *testing.T) {
		t.Parallel()

		router := newAuthRouter(t, newMemUserStore())

		req := httptest.NewRequest(http.MethodPost, "/auth/register",
			bytes.NewBufferString(registerBody("ana@example.com")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var registered api.AuthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&registered))

		body := fmt.Sprintf(`{"refresh_token":%q}`, registered.Token)
		req = httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewBufferString(body))
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
