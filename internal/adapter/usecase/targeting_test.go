package usecase

import (
	"testing"

	"github.com/stretchr/testify/require"

	"adengine/internal/config/configs"
	"adengine/internal/core/domain"
)

func testAuctionConfig() configs.Auction {
	return configs.Auction{
		GeoPartialScore:     0.8,
		GeoMismatchFloor:    0.3,
		DevicePartialScore:  0.8,
		DeviceMismatchFloor: 0.3,
		NeutralScore:        0.5,
		FloorBid:            10,
		DefaultCPC:          150,
		RankQualityWeight:   0.5,
		MaxParallelScoring:  4,
	}
}

func TestTargetingNeutralWhenNothingEvaluable(t *testing.T) {
	e := NewTargetingEvaluator(testAuctionConfig())

	res := e.Evaluate(domain.Targeting{}, domain.RequestContext{UserID: "u1"})

	require.True(t, res.Matches)
	require.InDelta(t, 0.5, res.Score, 1e-9)
	require.Empty(t, res.Breakdown)
}

func TestTargetingGeoMatchRules(t *testing.T) {
	e := NewTargetingEvaluator(testAuctionConfig())

	cases := []struct {
		name     string
		targeted []string
		geo      string
		want     float64
	}{
		{"exact", []string{"US"}, "US", 1.0},
		{"exact case-insensitive", []string{"us"}, "US", 1.0},
		{"broader region", []string{"US"}, "US-CA", 0.8},
		{"narrower region", []string{"US-CA"}, "US", 0.8},
		{"mismatch floors, not zero", []string{"DE"}, "US", 0.3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := e.Evaluate(
				domain.Targeting{Geos: tc.targeted},
				domain.RequestContext{Geo: tc.geo},
			)
			require.InDelta(t, tc.want, res.Breakdown["geo"], 1e-9)
			require.InDelta(t, tc.want, res.Score, 1e-9)
		})
	}
}

func TestTargetingDeviceClassPartialMatch(t *testing.T) {
	e := NewTargetingEvaluator(testAuctionConfig())

	res := e.Evaluate(
		domain.Targeting{Devices: []string{"mobile"}},
		domain.RequestContext{Device: "tablet"},
	)
	require.InDelta(t, 0.8, res.Breakdown["device"], 1e-9)

	res = e.Evaluate(
		domain.Targeting{Devices: []string{"mobile"}},
		domain.RequestContext{Device: "desktop"},
	)
	require.InDelta(t, 0.3, res.Breakdown["device"], 1e-9)
}

func TestTargetingInterestOverlapRatio(t *testing.T) {
	e := NewTargetingEvaluator(testAuctionConfig())

	res := e.Evaluate(
		domain.Targeting{Interests: []string{"tech", "music", "sports"}},
		domain.RequestContext{Interests: []string{"tech"}},
	)
	// |intersection| / max(|A|,|B|) = 1/3
	require.InDelta(t, 1.0/3.0, res.Breakdown["interests"], 1e-9)
}

func TestTargetingDemographics(t *testing.T) {
	e := NewTargetingEvaluator(testAuctionConfig())
	ranges := []domain.AgeRange{{Min: 25, Max: 34}}

	res := e.Evaluate(domain.Targeting{AgeRanges: ranges}, domain.RequestContext{Age: 30})
	require.InDelta(t, 1.0, res.Breakdown["demographics"], 1e-9)

	res = e.Evaluate(domain.Targeting{AgeRanges: ranges}, domain.RequestContext{Age: 50})
	require.InDelta(t, 0.3, res.Breakdown["demographics"], 1e-9)
}

func TestTargetingSkipsAbsentDimensions(t *testing.T) {
	e := NewTargetingEvaluator(testAuctionConfig())

	// Geo matches exactly, interests half-overlap; device, demographics
	// and behavior are absent on one side and must not drag the mean.
	res := e.Evaluate(
		domain.Targeting{
			Geos:      []string{"US"},
			Interests: []string{"tech", "music"},
			Devices:   []string{"mobile"},
		},
		domain.RequestContext{
			Geo:       "US",
			Interests: []string{"tech", "cooking"},
		},
	)
	require.Len(t, res.Breakdown, 2)
	require.InDelta(t, (1.0+0.5)/2, res.Score, 1e-9)
	require.Contains(t, res.Reasons, "device not evaluable")
}

func TestTargetingHardConstraintsIgnoredBySoftScorer(t *testing.T) {
	e := NewTargetingEvaluator(testAuctionConfig())

	// Formats and sizes are eligibility filters; the scorer must neither
	// reject nor score them.
	res := e.Evaluate(
		domain.Targeting{Formats: []string{"video"}, Sizes: []string{"640x480"}},
		domain.RequestContext{Format: "banner", Size: "728x90"},
	)
	require.True(t, res.Matches)
	require.InDelta(t, 0.5, res.Score, 1e-9)
}
