package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/escolalib/biblio-api/internal/api/shared"
	"github.com/escolalib/biblio-api/internal/domain"
	"github.com/escolalib/biblio-api/internal/store"
)

// ClassSectorHandler handles class/sector lookup list API requests.
type ClassSectorHandler struct {
	classStore store.ClassSectorStore
	validator  *validator.Validate
}

// NewClassSectorHandler creates a new ClassSectorHandler with the given dependencies.
func NewClassSectorHandler(classStore store.ClassSectorStore) *ClassSectorHandler {
	return &ClassSectorHandler{
		classStore: classStore,
		validator:  validator.New(),
	}
}

// Create handles POST /classes.
func (h *ClassSectorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateClassSectorRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	cs, err := domain.NewClassSector(req.Name)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid class/sector data: "+err.Error())
		return
	}

	if err := h.classStore.Create(r.Context(), cs); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, cs)
}

// List handles GET /classes.
func (h *ClassSectorHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.classStore.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, entries)
}

// Update handles PUT /classes/{id}.
func (h *ClassSectorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid class/sector ID")
		return
	}

	var req UpdateClassSectorRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	cs, err := h.classStore.GetByID(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	cs.Name = req.Name
	cs.UpdatedAt = time.Now().UTC()

	if err := cs.Validate(); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid class/sector data: "+err.Error())
		return
	}

	if err := h.classStore.Update(r.Context(), cs); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cs)
}

// Delete handles DELETE /classes/{id}. Member profiles reference entries by
// name, so a delete never touches users.
func (h *ClassSectorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid class/sector ID")
		return
	}

	if err := h.classStore.Delete(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
