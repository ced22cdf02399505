package port

import (
	"context"

	"github.com/google/uuid"

	"adengine/internal/core/domain"
)

// AuctionUseCase is the primary port into the decision engine. The HTTP
// adapter (or any RPC layer) drives the engine exclusively through this
// interface.
type AuctionUseCase interface {
	// RunAuction executes the auction for a pending ad request and
	// commits the outcome. Re-running a terminal request returns the
	// stored outcome unchanged and performs no writes. Business
	// conditions (no candidates, cap-blocked winner) produce a result
	// with a nil winner, never an error; errors are reserved for unknown
	// requests and store failures.
	RunAuction(ctx context.Context, requestID uuid.UUID) (*AuctionResult, error)

	// CreateRequest registers a new pending placement opportunity.
	CreateRequest(ctx context.Context, orgID, siteID, adUnitID int64, rc domain.RequestContext) (*domain.AdRequest, error)

	// CheckFrequency exposes the cap decision for inspection without
	// incrementing anything.
	CheckFrequency(ctx context.Context, key domain.FrequencyKey) (FrequencyDecision, error)

	// RecordFrequencyEvent increments the counter for administrative or
	// batch callers and returns the post-increment decision.
	RecordFrequencyEvent(ctx context.Context, key domain.FrequencyKey) (FrequencyDecision, error)

	// GetStats aggregates auction outcomes for reporting.
	GetStats(ctx context.Context, req StatsReq) (*StatsResp, error)

	// Recommendations runs the optimization advisor over the campaign's
	// recent serving history.
	Recommendations(ctx context.Context, campaignID int64) ([]Recommendation, error)
}

// AuctionResult is the caller-facing outcome of one auction run. Winner
// is nil when no candidate could be served; the request is then failed.
type AuctionResult struct {
	RequestID     uuid.UUID    `json:"request_id"`
	Winner        *int64       `json:"winner"`
	WinningBid    domain.Money `json:"winning_bid"`
	ClearingPrice domain.Money `json:"clearing_price"`
	Participants  int          `json:"participants"`
	AuctionData   AuctionData  `json:"auction_data"`
}

// AuctionData carries per-auction diagnostics: the observed bid range and
// every scored candidate's quality and targeting scores.
type AuctionData struct {
	BidRange      BidRange       `json:"bid_range"`
	QualityScores []QualityScore `json:"quality_scores"`
}

// BidRange is the min/max monetary bid among scored candidates.
type BidRange struct {
	Min domain.Money `json:"min"`
	Max domain.Money `json:"max"`
}

// QualityScore reports one candidate's non-monetary scores.
type QualityScore struct {
	AdID           int64   `json:"ad_id"`
	QualityScore   float64 `json:"quality_score"`
	TargetingScore float64 `json:"targeting_score"`
}
