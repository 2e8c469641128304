package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/escolalib/biblio-api/internal/api/shared"
	"github.com/escolalib/biblio-api/internal/domain"
	"github.com/escolalib/biblio-api/internal/service/auth"
	"github.com/escolalib/biblio-api/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userStore  store.UserStore
	jwtService auth.JWTService
	hasher     auth.PasswordHasher
	validator  *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	hasher auth.PasswordHasher,
) *AuthHandler {
	return &AuthHandler{
		userStore:  userStore,
		jwtService: jwtService,
		hasher:     hasher,
		validator:  validator.New(),
	}
}

// Register handles the /auth/register endpoint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	role := domain.UserRole(req.Role)
	if req.Role == "" {
		role = domain.RoleUser
	}

	user, err := domain.NewUser(req.Name, req.Email, req.Password, role, domain.MemberType(req.MemberType))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user data: "+err.Error())
		return
	}
	user.Phone = req.Phone
	user.SectorOrClass = req.SectorOrClass

	// Hash before the plaintext ever reaches the store.
	hashed, err := h.hasher.Hash(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create user")
		return
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Email already exists")
			return
		}
		slog.Error("failed to create user", "error", err, "email", req.Email)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, refreshToken, err := h.issueTokens(r, user.ID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		UserID:       user.ID,
		Token:        token,
		RefreshToken: refreshToken,
	})
}

// Login handles the /auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		slog.Error("failed to get user by email", "error", err, "email", req.Email)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to authenticate user")
		return
	}

	if err := h.hasher.Compare(user.HashedPassword, req.Password); err != nil {
		// Failed logins log at WARN so repeated attempts stand out.
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid credentials",
			auth.ErrInvalidCredentials, shared.WithElevatedLogLevel())
		return
	}

	token, refreshToken, err := h.issueTokens(r, user.ID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		UserID:       user.ID,
		Token:        token,
		RefreshToken: refreshToken,
	})
}

// Refresh handles the /auth/refresh endpoint. It exchanges a valid refresh
// token for a fresh access and refresh token pair.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	token, refreshToken, err := h.issueTokens(r, claims.UserID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		UserID:       claims.UserID,
		Token:        token,
		RefreshToken: refreshToken,
	})
}

func (h *AuthHandler) issueTokens(r *http.Request, userID uuid.UUID) (string, string, error) {
	token, err := h.jwtService.GenerateToken(r.Context(), userID)
	if err != nil {
		slog.Error("failed to generate token", "error", err, "user_id", userID)
		return "", "", err
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(r.Context(), userID)
	if err != nil {
		slog.Error("failed to generate refresh token", "error", err, "user_id", userID)
		return "", "", err
	}

	return token, refreshToken, nil
}
