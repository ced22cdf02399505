package usecase

import (
	"context"

	"adengine/internal/core/domain"
	"adengine/internal/core/port"
	"adengine/internal/errortypes"
)

// CheckFrequency exposes the cap decision for a key without incrementing.
// Used by administrative and batch callers; the auction consults the
// store directly with campaign-level overrides.
func (e *AuctionEngine) CheckFrequency(ctx context.Context, key domain.FrequencyKey) (port.FrequencyDecision, error) {
	fc, err := e.defaultCap(key)
	if err != nil {
		return port.FrequencyDecision{}, err
	}
	decision, err := e.freq.CheckAndReserve(ctx, key, fc)
	if err != nil {
		return port.FrequencyDecision{}, &errortypes.UpstreamUnavailable{Message: "frequency check: " + err.Error(), Cause: err}
	}
	return decision, nil
}

// RecordFrequencyEvent increments the counter for a key and returns the
// post-increment decision. The count may legitimately land above the
// limit here: external recorders (e.g. click tracking) count events that
// already happened, and the cap only gates future CheckFrequency calls.
func (e *AuctionEngine) RecordFrequencyEvent(ctx context.Context, key domain.FrequencyKey) (port.FrequencyDecision, error) {
	fc, err := e.defaultCap(key)
	if err != nil {
		return port.FrequencyDecision{}, err
	}
	count, err := e.freq.RecordEvent(ctx, key, fc)
	if err != nil {
		return port.FrequencyDecision{}, &errortypes.UpstreamUnavailable{Message: "frequency record: " + err.Error(), Cause: err}
	}
	// Same bucketing as the stores: remaining time of the window
	// containing "now".
	now := e.now()
	ws := now.Truncate(fc.Window)
	decision := port.FrequencyDecision{
		Allowed:       count < fc.Limit,
		CurrentCount:  count,
		Limit:         fc.Limit,
		TimeRemaining: ws.Add(fc.Window).Sub(now),
	}
	if !decision.Allowed {
		decision.Reason = "frequency cap reached"
	}
	return decision, nil
}

// defaultCap validates the key and resolves the configured default cap
// for its event type.
func (e *AuctionEngine) defaultCap(key domain.FrequencyKey) (domain.FrequencyCap, error) {
	if key.UserID == "" {
		return domain.FrequencyCap{}, &errortypes.InvalidInput{Message: "frequency key requires a user id"}
	}
	fc, ok := e.caps[key.EventType]
	if !ok {
		return domain.FrequencyCap{}, &errortypes.InvalidInput{Message: "unknown event type " + string(key.EventType)}
	}
	return fc, nil
}
