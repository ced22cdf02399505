package usecase

import (
	"time"

	"adengine/internal/config/configs"
	"adengine/internal/core/domain"
)

const (
	// cpaConversionMultiplier derives a per-impression bid from a
	// target cost-per-acquisition.
	cpaConversionMultiplier = 0.1

	// Premiums applied on top of the CPM-derived base for
	// algorithmically-managed strategies.
	predictivePremium  = 1.2
	aiOptimizedPremium = 1.5

	// Quality weighting: baseline plus bounded contributions from
	// historical click-through, conversion rate and creative freshness.
	qualityBaseline   = 0.5
	ctrContribution   = 0.3
	cvrContribution   = 0.2
	freshContribution = 0.1
	freshnessWindow   = 30 * 24 * time.Hour
)

// BidCalculator computes a monetary bid and rank score for one
// (ad, campaign, request) triple. Deterministic, pure, no I/O. Invalid or
// missing campaign data yields the floor bid rather than an error so one
// malformed candidate cannot abort an auction.
type BidCalculator struct {
	cfg configs.Auction
}

// NewBidCalculator returns a calculator using the given constants.
func NewBidCalculator(cfg configs.Auction) *BidCalculator {
	return &BidCalculator{cfg: cfg}
}

// Compute derives the final bid: a strategy-dependent base scaled by a
// quality multiplier in [0.5,1.0] and a targeting multiplier in [0.7,1.3].
// The rank score adds a quality bonus on top of the monetary amount; the
// auction sorts on rank score but prices on the amount.
func (c *BidCalculator) Compute(camp domain.Campaign, perf domain.AdPerformance, targetingScore float64, now time.Time) domain.Bid {
	base := c.baseBid(camp)
	quality := c.qualityWeight(perf, now)

	qualityMult := 0.5 + 0.5*quality
	targetingMult := 0.7 + 0.6*clamp01(targetingScore)

	amount := domain.MoneyFromFloat(base * qualityMult * targetingMult)
	if amount < domain.Money(c.cfg.FloorBid) {
		amount = domain.Money(c.cfg.FloorBid)
	}

	return domain.Bid{
		AdID:           0, // filled by the engine
		CampaignID:     camp.ID,
		OrgID:          camp.OrgID,
		Amount:         amount,
		QualityScore:   quality,
		TargetingScore: targetingScore,
		RankScore:      amount.Float() + quality*c.cfg.RankQualityWeight,
	}
}

// baseBid dispatches on the campaign's bid strategy. The switch is
// exhaustive over the enum; an unknown value gets the floor, never a
// silent default bid.
func (c *BidCalculator) baseBid(camp domain.Campaign) float64 {
	floor := domain.Money(c.cfg.FloorBid).Float()
	cpmBase := floor
	if camp.TargetCPM > 0 {
		cpmBase = camp.TargetCPM.Float() / 1000
	}

	switch camp.BidStrategy {
	case domain.BidManual:
		if camp.MaxBid > 0 {
			return camp.MaxBid.Float()
		}
		return floor
	case domain.BidTargetCPA:
		if camp.TargetCPA > 0 {
			return camp.TargetCPA.Float() * cpaConversionMultiplier
		}
		return floor
	case domain.BidAutoCPC:
		if camp.TargetCPC > 0 {
			return camp.TargetCPC.Float()
		}
		return domain.Money(c.cfg.DefaultCPC).Float()
	case domain.BidAutoCPM:
		return cpmBase
	case domain.BidPredictive:
		return cpmBase * predictivePremium
	case domain.BidAIOptimized:
		return cpmBase * aiOptimizedPremium
	default:
		return floor
	}
}

// qualityWeight blends the ad's own history into [0,1]: baseline 0.5, up
// to +0.3 for click-through, +0.2 for conversions and +0.1 for freshness
// decaying linearly over 30 days.
func (c *BidCalculator) qualityWeight(perf domain.AdPerformance, now time.Time) float64 {
	w := qualityBaseline

	w += min(clamp01(perf.CTR)*3, ctrContribution)
	w += min(clamp01(perf.CVR)*4, cvrContribution)

	if !perf.CreatedAt.IsZero() {
		age := now.Sub(perf.CreatedAt)
		if age < 0 {
			age = 0
		}
		if age < freshnessWindow {
			w += freshContribution * (1 - float64(age)/float64(freshnessWindow))
		}
	}

	return min(w, 1.0)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
