package configs

// Auction holds the tunable scoring constants of the decision engine.
// The partial-match and weighting values are defaults to be tuned per
// deployment, not semantics.
type Auction struct {
	// GeoPartialScore applies when the request geo falls inside a broader
	// targeted region; GeoMismatchFloor applies on no overlap, kept above
	// zero so imprecise geo data never fully excludes an ad.
	GeoPartialScore  float64 `env:"GEO_PARTIAL_SCORE" envDefault:"0.8"`
	GeoMismatchFloor float64 `env:"GEO_MISMATCH_FLOOR" envDefault:"0.3"`

	// DevicePartialScore applies when devices share a category (e.g.
	// mobile vs tablet); DeviceMismatchFloor on no overlap.
	DevicePartialScore  float64 `env:"DEVICE_PARTIAL_SCORE" envDefault:"0.8"`
	DeviceMismatchFloor float64 `env:"DEVICE_MISMATCH_FLOOR" envDefault:"0.3"`

	// NeutralScore is returned when no targeting dimension is evaluable.
	NeutralScore float64 `env:"NEUTRAL_SCORE" envDefault:"0.5"`

	// FloorBid is the minimal bid in cents substituted for unset target
	// prices or malformed campaign data.
	FloorBid int64 `env:"FLOOR_BID" envDefault:"10"`

	// DefaultCPC is the fallback cost-per-click in cents for auto-CPC
	// campaigns with no target set.
	DefaultCPC int64 `env:"DEFAULT_CPC" envDefault:"150"`

	// RankQualityWeight is added to the monetary bid (in whole currency
	// units) per point of quality score when computing the rank score.
	// Sized so quality breaks close ties without dominating money.
	RankQualityWeight float64 `env:"RANK_QUALITY_WEIGHT" envDefault:"0.5"`

	// MaxParallelScoring bounds the goroutines scoring candidates within
	// one auction.
	MaxParallelScoring int `env:"MAX_PARALLEL_SCORING" envDefault:"8"`
}
