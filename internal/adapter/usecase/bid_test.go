package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"adengine/internal/core/domain"
)

func TestBaseBidPerStrategy(t *testing.T) {
	c := NewBidCalculator(testAuctionConfig())

	cases := []struct {
		name string
		camp domain.Campaign
		want float64
	}{
		{"manual uses max bid", domain.Campaign{BidStrategy: domain.BidManual, MaxBid: 250}, 2.50},
		{"manual unset floors", domain.Campaign{BidStrategy: domain.BidManual}, 0.10},
		{"target cpa derives from conversions", domain.Campaign{BidStrategy: domain.BidTargetCPA, TargetCPA: 3000}, 3.00},
		{"auto cpc uses target", domain.Campaign{BidStrategy: domain.BidAutoCPC, TargetCPC: 80}, 0.80},
		{"auto cpc unset defaults", domain.Campaign{BidStrategy: domain.BidAutoCPC}, 1.50},
		{"auto cpm divides by thousand", domain.Campaign{BidStrategy: domain.BidAutoCPM, TargetCPM: 500000}, 5.00},
		{"predictive premium", domain.Campaign{BidStrategy: domain.BidPredictive, TargetCPM: 500000}, 6.00},
		{"ai optimized premium", domain.Campaign{BidStrategy: domain.BidAIOptimized, TargetCPM: 500000}, 7.50},
		{"unknown strategy floors", domain.Campaign{BidStrategy: "mystery"}, 0.10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.InDelta(t, tc.want, c.baseBid(tc.camp), 1e-9)
		})
	}
}

func TestQualityWeightBounds(t *testing.T) {
	c := NewBidCalculator(testAuctionConfig())
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// No history at all: baseline only.
	require.InDelta(t, 0.5, c.qualityWeight(domain.AdPerformance{}, now), 1e-9)

	// Strong history plus a brand new creative saturates every
	// contribution but stays capped at 1.0.
	perf := domain.AdPerformance{CTR: 0.5, CVR: 0.9, CreatedAt: now}
	require.InDelta(t, 1.0, c.qualityWeight(perf, now), 1e-9)

	// Freshness decays linearly: half the window adds half the bonus.
	perf = domain.AdPerformance{CreatedAt: now.Add(-15 * 24 * time.Hour)}
	require.InDelta(t, 0.55, c.qualityWeight(perf, now), 1e-9)

	// Older than the window adds nothing.
	perf = domain.AdPerformance{CreatedAt: now.Add(-90 * 24 * time.Hour)}
	require.InDelta(t, 0.5, c.qualityWeight(perf, now), 1e-9)
}

func TestComputeBidCombinesMultipliers(t *testing.T) {
	c := NewBidCalculator(testAuctionConfig())
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	camp := domain.Campaign{ID: 7, OrgID: 3, BidStrategy: domain.BidManual, MaxBid: 400}

	bid := c.Compute(camp, domain.AdPerformance{}, 1.0, now)

	// base 4.00 × quality 0.75 × targeting 1.30 = 3.90
	require.Equal(t, domain.Money(390), bid.Amount)
	require.Equal(t, int64(7), bid.CampaignID)
	require.InDelta(t, 0.5, bid.QualityScore, 1e-9)
	require.InDelta(t, bid.Amount.Float()+0.5*0.5, bid.RankScore, 1e-9)
}

func TestComputeBidTargetingScaling(t *testing.T) {
	c := NewBidCalculator(testAuctionConfig())
	now := time.Now()
	camp := domain.Campaign{BidStrategy: domain.BidManual, MaxBid: 400}

	strong := c.Compute(camp, domain.AdPerformance{}, 1.0, now)
	weak := c.Compute(camp, domain.AdPerformance{}, 0.0, now)

	require.Greater(t, strong.Amount, weak.Amount)
	// Multiplier range [0.7, 1.3] around the same base.
	require.InDelta(t, 1.3/0.7, strong.Amount.Float()/weak.Amount.Float(), 0.01)
}

func TestComputeBidMalformedCampaignFloors(t *testing.T) {
	c := NewBidCalculator(testAuctionConfig())

	// A campaign with no strategy and no prices must yield the floor bid,
	// never an error or a zero bid that would NPE ranking.
	bid := c.Compute(domain.Campaign{}, domain.AdPerformance{}, 0, time.Now())
	require.Equal(t, domain.Money(10), bid.Amount)
	require.Greater(t, bid.RankScore, 0.0)
}
