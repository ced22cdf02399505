package domain

import "time"

// CampaignStatus enumerates the lifecycle states of a campaign. Only
// active campaigns participate in auctions.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
	CampaignCancelled CampaignStatus = "cancelled"
)

// BidStrategy is a closed enumeration of campaign bidding modes. The bid
// calculator dispatches exhaustively on this type; an unknown value falls
// through to the floor bid rather than a silent default branch.
type BidStrategy string

const (
	BidManual      BidStrategy = "manual"
	BidAutoCPC     BidStrategy = "auto_cpc"
	BidAutoCPM     BidStrategy = "auto_cpm"
	BidTargetCPA   BidStrategy = "target_cpa"
	BidPredictive  BidStrategy = "predictive"
	BidAIOptimized BidStrategy = "ai_optimized"
)

// Campaign is the economic and scheduling envelope for a set of ads.
// Target prices and budgets are stored in integer cents. The engine reads
// campaigns as immutable snapshots; CRUD belongs to the management layer.
type Campaign struct {
	ID          int64
	OrgID       int64
	Name        string
	Status      CampaignStatus
	BidStrategy BidStrategy

	// Strategy-specific target prices. Zero means unset; the bid
	// calculator substitutes its configured floor.
	TargetCPC Money
	TargetCPM Money
	TargetCPA Money
	MaxBid    Money

	DailyBudget Money
	TotalBudget Money

	// FrequencyCaps overrides the global per-event-type caps for ads of
	// this campaign. Nil means use the configured defaults.
	FrequencyCaps map[EventType]FrequencyCap

	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
