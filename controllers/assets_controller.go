package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/blogem/asset-registry/apperrors"
	"github.com/blogem/asset-registry/models"
	"github.com/blogem/asset-registry/repositories"
	"github.com/blogem/asset-registry/services"
	"github.com/blogem/asset-registry/userctx"
)

// AssetsController exposes the thin asset surface the workflow needs:
// registering, reading, and direct (admin) deletion. Everything else
// about asset management lives outside this service.
type AssetsController struct {
	services  *services.Services
	assetRepo repositories.AssetRepository
}

// NewAssetsController creates a new assets controller
func NewAssetsController(services *services.Services, assetRepo repositories.AssetRepository) *AssetsController {
	return &AssetsController{
		services:  services,
		assetRepo: assetRepo,
	}
}

// Create handles POST /api/assets
func (c *AssetsController) Create(w http.ResponseWriter, r *http.Request) {
	var form models.AssetForm
	if err := decodeJSON(r, &form); err != nil {
		respondBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	if errs := form.Validate(); len(errs) > 0 {
		respondError(w, apperrors.Validation(errs[0]))
		return
	}

	asset := &models.Asset{
		Name:      strings.TrimSpace(form.Name),
		Cost:      form.Cost,
		CreatedBy: userctx.GetUserID(r.Context()),
	}

	if err := c.assetRepo.Create(r.Context(), asset); err != nil {
		respondError(w, apperrors.Database("failed to create asset", err))
		return
	}

	respondData(w, http.StatusCreated, asset)
}

// Get handles GET /api/assets/{assetID}
func (c *AssetsController) Get(w http.ResponseWriter, r *http.Request) {
	asset, err := c.assetRepo.GetByID(r.Context(), chi.URLParam(r, "assetID"))
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, asset)
}

// Delete handles DELETE /api/assets/{assetID}: the admin bypass that
// deletes an asset without request review, auto-approving any pending
// request in the same transaction.
func (c *AssetsController) Delete(w http.ResponseWriter, r *http.Request) {
	err := c.services.Approval.DeleteAssetDirect(r.Context(), chi.URLParam(r, "assetID"), userctx.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, nil)
}
