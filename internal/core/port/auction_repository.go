package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"adengine/internal/core/domain"
)

// AuctionRepository is the outbound port to the persistent store. It
// serves the engine read-only snapshots of campaign data and applies the
// auction outcome atomically. Implementations must be concurrency-safe;
// CommitOutcome must be transactional so the served flag, the impression
// counter and the audit record can never drift apart.
type AuctionRepository interface {
	// GetAdRequest returns the request by id, or nil when it does not
	// exist.
	GetAdRequest(ctx context.Context, id uuid.UUID) (*domain.AdRequest, error)

	// CreateAdRequest inserts a new pending request.
	CreateAdRequest(ctx context.Context, req *domain.AdRequest) error

	// GetAdUnit returns the placement definition, or nil when unknown.
	GetAdUnit(ctx context.Context, id int64) (*domain.AdUnit, error)

	// GetEligibleAds returns active ads of active campaigns of active
	// organizations whose schedule covers now. Hard format/size and
	// exclusion filtering, and all soft targeting, happen in the engine.
	GetEligibleAds(ctx context.Context, unit domain.AdUnit) ([]AdCandidate, error)

	// CommitOutcome finalizes the request exactly once: it flips the
	// status from pending to served or failed, records the winner fields,
	// increments the winning ad's impression counter, appends the
	// auction outcome and updates daily earnings — all in one
	// transaction. It returns errortypes.InvalidInput when the request is
	// no longer pending.
	CommitOutcome(ctx context.Context, out domain.AuctionOutcome, siteID int64) error

	// GetStats aggregates auction outcomes over a period.
	GetStats(ctx context.Context, req StatsReq) (*StatsResp, error)

	// GetCampaignHistory returns per-day serving snapshots consumed by
	// the optimization advisor.
	GetCampaignHistory(ctx context.Context, campaignID int64, from, to time.Time) ([]domain.PerformanceSnapshot, error)
}

// AdCandidate bundles an ad with its campaign snapshot for one auction.
type AdCandidate struct {
	Ad       domain.Ad
	Campaign domain.Campaign
}

// StatsReq selects the aggregation period and an optional site filter.
type StatsReq struct {
	From   time.Time
	To     time.Time
	SiteID *int64
}

// StatsResp contains aggregated auction counts and revenue for a period.
// Revenue sums clearing prices of served requests in integer cents.
type StatsResp struct {
	Auctions     int64
	Served       int64
	Failed       int64
	Revenue      domain.Money
	AvgClearing  domain.Money
	Participants int64
}
