package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuctionOutcome is the persisted audit record of one completed auction.
// It is append-only: one row per auction, written inside the commit
// transaction.
type AuctionOutcome struct {
	RequestID     uuid.UUID
	WinnerAdID    *int64
	WinningBid    Money
	ClearingPrice Money
	Participants  int
	CreatedAt     time.Time
}

// DailyEarning aggregates site revenue per calendar day. Updated by the
// engine at commit time so reporting never has to replay outcomes.
type DailyEarning struct {
	SiteID      int64
	Day         time.Time
	Revenue     Money
	Impressions int64
}

// PerformanceSnapshot is one campaign-day of serving history fed to the
// optimization advisor.
type PerformanceSnapshot struct {
	CampaignID    int64
	Day           time.Time
	Auctions      int64
	Wins          int64
	Impressions   int64
	Clicks        int64
	Conversions   int64
	CapRejections int64
	Spend         Money
	TargetCPA     Money
}
