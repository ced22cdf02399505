package domain

import "time"

// EventType enumerates the user-facing events that frequency caps count.
type EventType string

const (
	EventImpression EventType = "impression"
	EventClick      EventType = "click"
	EventConversion EventType = "conversion"
)

// FrequencyCap pairs a limit with the window it applies to, e.g. at most
// 3 impressions per 24h.
type FrequencyCap struct {
	Limit  int64
	Window time.Duration
}

// FrequencyKey identifies one counter: a user crossed with an ad (or a
// whole campaign when AdID is zero) and an event type. Counters for
// different keys never interfere.
type FrequencyKey struct {
	UserID     string
	AdID       int64
	CampaignID int64
	EventType  EventType
}

// FrequencyCounter is one window bucket of exposure counts. Buckets are
// keyed by (user, ad, event type, window start); an expired bucket is
// simply never selected again, not actively deleted.
type FrequencyCounter struct {
	Key         FrequencyKey
	Count       int64
	WindowStart time.Time
	WindowEnd   time.Time
}
