package domain

import "time"

// AdStatus enumerates the review/serving states of a creative.
type AdStatus string

const (
	AdDraft    AdStatus = "draft"
	AdApproved AdStatus = "approved"
	AdActive   AdStatus = "active"
	AdPaused   AdStatus = "paused"
	AdRejected AdStatus = "rejected"
)

// Ad is a single creative eligible to compete in auctions. The engine
// treats it as read-only except for the lifetime counters, which are
// incremented as a side effect of serving.
type Ad struct {
	ID           int64
	CampaignID   int64
	OrgID        int64
	Status       AdStatus
	Title        string
	CreativeType string
	CreativeURL  string
	LandingURL   string
	Targeting    Targeting
	Weight       int

	// Lifetime counters used by the bid calculator's quality weighting.
	Impressions int64
	Clicks      int64
	Conversions int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Performance derives the historical rates the bid calculator consumes.
func (a Ad) Performance() AdPerformance {
	p := AdPerformance{CreatedAt: a.CreatedAt}
	if a.Impressions > 0 {
		p.CTR = float64(a.Clicks) / float64(a.Impressions)
	}
	if a.Clicks > 0 {
		p.CVR = float64(a.Conversions) / float64(a.Clicks)
	}
	return p
}

// AdPerformance is the slice of an ad's history the bid calculator needs:
// click-through rate, conversion rate and creative age.
type AdPerformance struct {
	CTR       float64
	CVR       float64
	CreatedAt time.Time
}
