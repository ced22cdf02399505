package port

import (
	"context"
	"time"

	"adengine/internal/core/domain"
)

// FrequencyStore is the outbound port for frequency cap counters — the
// only mutable state shared between concurrent auctions. RecordEvent must
// be an atomic upsert keyed by (user, ad, event type, window start):
// separate read-then-write steps lose updates under concurrency and
// over-serve the cap.
type FrequencyStore interface {
	// CheckAndReserve reads the counter bucket containing "now" for the
	// key and decides whether one more event fits under the cap. It does
	// not increment.
	CheckAndReserve(ctx context.Context, key domain.FrequencyKey, fc domain.FrequencyCap) (FrequencyDecision, error)

	// RecordEvent atomically increments the active bucket (creating it
	// with count 1 when absent) and returns the new count.
	RecordEvent(ctx context.Context, key domain.FrequencyKey, fc domain.FrequencyCap) (int64, error)
}

// FrequencyDecision is the outcome of a cap check.
type FrequencyDecision struct {
	Allowed       bool          `json:"allowed"`
	Reason        string        `json:"reason,omitempty"`
	CurrentCount  int64         `json:"current_count"`
	Limit         int64         `json:"limit"`
	TimeRemaining time.Duration `json:"time_remaining"`
}
