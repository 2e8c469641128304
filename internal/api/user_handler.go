package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/escolalib/biblio-api/internal/api/shared"
	"github.com/escolalib/biblio-api/internal/domain"
	"github.com/escolalib/biblio-api/internal/service/auth"
	"github.com/escolalib/biblio-api/internal/store"
)

// UserHandler handles member management API requests.
type UserHandler struct {
	userStore store.UserStore
	hasher    auth.PasswordHasher
	validator *validator.Validate
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(userStore store.UserStore, hasher auth.PasswordHasher) *UserHandler {
	return &UserHandler{
		userStore: userStore,
		hasher:    hasher,
		validator: validator.New(),
	}
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userStore.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, users)
}

// Get handles GET /users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.userStore.GetByID(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// Update handles PUT /users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req UpdateUserRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userStore.GetByID(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Role = domain.UserRole(req.Role)
	user.Phone = req.Phone
	user.MemberType = domain.MemberType(req.MemberType)
	user.SectorOrClass = req.SectorOrClass
	user.PhotoURL = req.PhotoURL
	user.UpdatedAt = time.Now().UTC()

	// A non-empty password resets the stored hash and clears the
	// must-change flag.
	if req.Password != "" {
		hashed, err := h.hasher.Hash(req.Password)
		if err != nil {
			slog.Error("failed to hash password", "error", err, "user_id", id)
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to update user")
			return
		}
		user.HashedPassword = hashed
		user.MustChangePassword = false
	}

	if err := user.Validate(); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user data: "+err.Error())
		return
	}

	if err := h.userStore.Update(r.Context(), user); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// Delete handles DELETE /users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.userStore.Delete(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
