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

// AssetHandler handles digital asset API requests.
type AssetHandler struct {
	assetStore store.AssetStore
	validator  *validator.Validate
}

// NewAssetHandler creates a new AssetHandler with the given dependencies.
func NewAssetHandler(assetStore store.AssetStore) *AssetHandler {
	return &AssetHandler{
		assetStore: assetStore,
		validator:  validator.New(),
	}
}

// Create handles POST /assets.
func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAssetRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	asset, err := domain.NewDigitalAsset(req.Title, domain.AssetType(req.Type), req.Category, req.URL)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid asset data: "+err.Error())
		return
	}
	asset.CoverURL = req.CoverURL

	if err := h.assetStore.Create(r.Context(), asset); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, asset)
}

// List handles GET /assets.
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	assets, err := h.assetStore.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, assets)
}

// Update handles PUT /assets/{id}.
func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid asset ID")
		return
	}

	var req UpdateAssetRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	asset, err := h.assetStore.GetByID(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	asset.Title = req.Title
	asset.Type = domain.AssetType(req.Type)
	asset.Category = req.Category
	asset.URL = req.URL
	asset.CoverURL = req.CoverURL
	asset.UpdatedAt = time.Now().UTC()

	if err := asset.Validate(); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid asset data: "+err.Error())
		return
	}

	if err := h.assetStore.Update(r.Context(), asset); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, asset)
}

// Delete handles DELETE /assets/{id}.
func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid asset ID")
		return
	}

	if err := h.assetStore.Delete(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
