package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/blogem/asset-registry/services"
	"github.com/blogem/asset-registry/userctx"
)

// DeletionRequestsController exposes the deletion request workflow over HTTP
type DeletionRequestsController struct {
	services *services.Services
}

// NewDeletionRequestsController creates a new deletion requests controller
func NewDeletionRequestsController(services *services.Services) *DeletionRequestsController {
	return &DeletionRequestsController{services: services}
}

// Submit handles POST /api/assets/{assetID}/deletion-requests
func (c *DeletionRequestsController) Submit(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "assetID")

	var req struct {
		Justification string `json:"justification"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	request, err := c.services.DeletionRequest.Submit(r.Context(), assetID, req.Justification, userctx.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusCreated, request)
}

// Cancel handles POST /api/deletion-requests/{id}/cancel
func (c *DeletionRequestsController) Cancel(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")

	err := c.services.DeletionRequest.Cancel(r.Context(), requestID, userctx.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, nil)
}

// Approve handles POST /api/deletion-requests/{id}/approve
func (c *DeletionRequestsController) Approve(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")

	var req struct {
		Comment string `json:"comment"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	err := c.services.Approval.Approve(r.Context(), requestID, userctx.GetUserID(r.Context()), req.Comment)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, nil)
}

// Reject handles POST /api/deletion-requests/{id}/reject
func (c *DeletionRequestsController) Reject(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")

	var req struct {
		Comment string `json:"comment"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	err := c.services.DeletionRequest.Reject(r.Context(), requestID, userctx.GetUserID(r.Context()), req.Comment)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, nil)
}

// GetForAsset handles GET /api/assets/{assetID}/deletion-request
func (c *DeletionRequestsController) GetForAsset(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "assetID")

	request, err := c.services.DeletionRequest.GetForAsset(r.Context(), assetID)
	if err != nil {
		respondError(w, err)
		return
	}

	// request is null when the asset has no pending request
	respondData(w, http.StatusOK, request)
}

// List handles GET /api/deletion-requests?status=&page=&pageSize=
func (c *DeletionRequestsController) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	page := queryInt(r, "page", 0)
	pageSize := queryInt(r, "pageSize", 0)

	result, err := c.services.DeletionRequest.List(r.Context(), status, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, result)
}

// Stats handles GET /api/deletion-requests/stats
func (c *DeletionRequestsController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.services.Stats.GetStats(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, stats)
}

// queryInt parses an integer query parameter with a fallback
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
