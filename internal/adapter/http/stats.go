package httpadapter

import (
	"net/http"
	"strconv"
	"time"

	"adengine/internal/core/port"
)

// handleStatsOverview returns aggregated auction statistics over a
// specified period. It accepts optional `from`, `to` (RFC3339 timestamps)
// and `site_id` query parameters. If no period is provided, it defaults
// to the last 24 hours. Invalid parameters result in HTTP 400.
func (h *Handler) handleStatsOverview(w http.ResponseWriter, r *http.Request) {
	var (
		q       = r.URL.Query()
		fromStr = q.Get("from")
		toStr   = q.Get("to")
		req     port.StatsReq
		err     error
	)

	if fromStr != "" {
		req.From, err = time.Parse(time.RFC3339, fromStr)
		if err != nil {
			http.Error(w, "invalid 'from' timestamp", http.StatusBadRequest)
			return
		}
	} else {
		req.From = time.Now().Add(-24 * time.Hour)
	}

	if toStr != "" {
		req.To, err = time.Parse(time.RFC3339, toStr)
		if err != nil {
			http.Error(w, "invalid 'to' timestamp", http.StatusBadRequest)
			return
		}
	} else {
		req.To = time.Now()
	}

	if sid := q.Get("site_id"); sid != "" {
		id, err := strconv.ParseInt(sid, 10, 64)
		if err != nil {
			http.Error(w, "invalid site_id", http.StatusBadRequest)
			return
		}
		req.SiteID = &id
	}

	stats, err := h.svc.GetStats(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

// handleRecommendations runs the optimization advisor for a campaign.
func (h *Handler) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	campaignID, err := strconv.ParseInt(r.URL.Query().Get("campaign_id"), 10, 64)
	if err != nil || campaignID <= 0 {
		http.Error(w, "invalid campaign_id", http.StatusBadRequest)
		return
	}
	recs, err := h.svc.Recommendations(r.Context(), campaignID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"campaign_id":     campaignID,
		"recommendations": recs,
	})
}
