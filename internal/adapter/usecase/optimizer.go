package usecase

import (
	"fmt"
	"sort"

	"adengine/internal/core/domain"
	"adengine/internal/core/port"
)

// Rule thresholds for the advisor. Like the auction scoring constants,
// these are tuning defaults, not semantics.
const (
	lowCTRThreshold      = 0.005
	lowFillRateThreshold = 0.5
	capRejectionRatio    = 0.2
	cpaOverrunRatio      = 1.25
)

// RuleBasedOptimizer implements port.Optimizer with a fixed rule table
// over aggregated serving history. Deterministic: identical input history
// produces an identical recommendation list. It never touches the hot
// path.
type RuleBasedOptimizer struct{}

// NewRuleBasedOptimizer returns the advisor.
func NewRuleBasedOptimizer() *RuleBasedOptimizer {
	return &RuleBasedOptimizer{}
}

// Analyze aggregates the history and emits every rule whose condition
// holds, ranked by estimated impact with the type as a stable tiebreak.
func (o *RuleBasedOptimizer) Analyze(history []domain.PerformanceSnapshot) []port.Recommendation {
	if len(history) == 0 {
		return nil
	}

	var agg struct {
		auctions, wins, impressions, clicks, conversions, capRejections int64
		spend                                                           domain.Money
		targetCPA                                                       domain.Money
	}
	for _, s := range history {
		agg.auctions += s.Auctions
		agg.wins += s.Wins
		agg.impressions += s.Impressions
		agg.clicks += s.Clicks
		agg.conversions += s.Conversions
		agg.capRejections += s.CapRejections
		agg.spend += s.Spend
		if s.TargetCPA > 0 {
			agg.targetCPA = s.TargetCPA
		}
	}

	var recs []port.Recommendation

	if agg.impressions > 0 {
		ctr := float64(agg.clicks) / float64(agg.impressions)
		if ctr < lowCTRThreshold {
			recs = append(recs, port.Recommendation{
				Type:            "creative_refresh",
				Description:     fmt.Sprintf("click-through rate %.4f is below %.4f; rotate or refresh creatives", ctr, lowCTRThreshold),
				EstimatedImpact: (lowCTRThreshold - ctr) / lowCTRThreshold,
				Confidence:      0.7,
			})
		}
	}

	if agg.auctions > 0 {
		fill := float64(agg.wins) / float64(agg.auctions)
		if fill < lowFillRateThreshold {
			recs = append(recs, port.Recommendation{
				Type:            "broaden_targeting",
				Description:     fmt.Sprintf("win rate %.2f is below %.2f; targeting may be too narrow for the placement mix", fill, lowFillRateThreshold),
				EstimatedImpact: lowFillRateThreshold - fill,
				Confidence:      0.6,
			})
		}
	}

	if agg.wins > 0 {
		rejected := float64(agg.capRejections) / float64(agg.wins+agg.capRejections)
		if rejected > capRejectionRatio {
			recs = append(recs, port.Recommendation{
				Type:            "raise_frequency_cap",
				Description:     fmt.Sprintf("%.0f%% of prospective wins were frequency-capped; widen the audience or raise the cap", rejected*100),
				EstimatedImpact: rejected,
				Confidence:      0.8,
			})
		}
	}

	if agg.targetCPA > 0 && agg.conversions > 0 {
		actualCPA := agg.spend.Float() / float64(agg.conversions)
		if actualCPA > agg.targetCPA.Float()*cpaOverrunRatio {
			recs = append(recs, port.Recommendation{
				Type:            "lower_bids",
				Description:     fmt.Sprintf("actual CPA %.2f exceeds target %.2f by more than %.0f%%; bid down", actualCPA, agg.targetCPA.Float(), (cpaOverrunRatio-1)*100),
				EstimatedImpact: actualCPA/agg.targetCPA.Float() - 1,
				Confidence:      0.65,
			})
		}
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].EstimatedImpact != recs[j].EstimatedImpact {
			return recs[i].EstimatedImpact > recs[j].EstimatedImpact
		}
		return recs[i].Type < recs[j].Type
	})
	return recs
}
