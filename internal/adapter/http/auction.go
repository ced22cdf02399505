package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"adengine/internal/core/domain"
)

// createRequestBody is the payload for registering a new placement
// opportunity.
type createRequestBody struct {
	OrgID    int64                 `json:"org_id"`
	SiteID   int64                 `json:"site_id"`
	AdUnitID int64                 `json:"ad_unit_id"`
	Context  domain.RequestContext `json:"context"`
}

// handleCreateRequest registers a pending ad request and returns its id.
// Parsing errors produce HTTP 400; unknown ad units 404.
func (h *Handler) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	var body createRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	req, err := h.svc.CreateRequest(r.Context(), body.OrgID, body.SiteID, body.AdUnitID, body.Context)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]any{
		"request_id": req.ID,
		"status":     req.Status,
	})
}

// handleRunAuction executes the auction for the {requestID} path
// parameter. The caller always receives a well-formed result object for
// business conditions (no ads, cap exceeded); only infrastructure
// failures surface as errors.
func (h *Handler) handleRunAuction(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "requestID"))
	if err != nil {
		http.Error(w, "invalid request id", http.StatusBadRequest)
		return
	}
	result, err := h.svc.RunAuction(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}
