package httpadapter

import (
	"encoding/json"
	"net/http"
	"strconv"

	"adengine/internal/core/domain"
)

// frequencyKeyFromQuery builds the counter key from query parameters.
// user_id and event_type are required; ad_id and campaign_id optional.
func frequencyKeyFromQuery(r *http.Request) (domain.FrequencyKey, bool) {
	q := r.URL.Query()
	key := domain.FrequencyKey{
		UserID:    q.Get("user_id"),
		EventType: domain.EventType(q.Get("event_type")),
	}
	if key.UserID == "" || key.EventType == "" {
		return key, false
	}
	if v := q.Get("ad_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return key, false
		}
		key.AdID = id
	}
	if v := q.Get("campaign_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return key, false
		}
		key.CampaignID = id
	}
	return key, true
}

// handleFrequencyCheck reports the cap decision for a key without
// incrementing anything.
func (h *Handler) handleFrequencyCheck(w http.ResponseWriter, r *http.Request) {
	key, ok := frequencyKeyFromQuery(r)
	if !ok {
		http.Error(w, "user_id and event_type are required", http.StatusBadRequest)
		return
	}
	decision, err := h.svc.CheckFrequency(r.Context(), key)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, decision)
}

// recordEventBody is the payload for the administrative record endpoint.
type recordEventBody struct {
	UserID     string           `json:"user_id"`
	AdID       int64            `json:"ad_id"`
	CampaignID int64            `json:"campaign_id"`
	EventType  domain.EventType `json:"event_type"`
}

// handleFrequencyRecord increments a counter and returns the
// post-increment decision.
func (h *Handler) handleFrequencyRecord(w http.ResponseWriter, r *http.Request) {
	var body recordEventBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	decision, err := h.svc.RecordFrequencyEvent(r.Context(), domain.FrequencyKey{
		UserID:     body.UserID,
		AdID:       body.AdID,
		CampaignID: body.CampaignID,
		EventType:  body.EventType,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, decision)
}
