package domain

// Targeting declares which contexts a creative wants to reach. Every
// field is optional: a nil or empty slice means "no constraint" for that
// dimension. Formats and Sizes are hard filters applied during
// eligibility; the remaining dimensions are soft and only influence the
// targeting score.
type Targeting struct {
	Geos      []string   `json:"geos,omitempty"`
	Devices   []string   `json:"devices,omitempty"`
	Interests []string   `json:"interests,omitempty"`
	AgeRanges []AgeRange `json:"age_ranges,omitempty"`
	Behaviors []string   `json:"behaviors,omitempty"`

	// Hard constraints: the placement's format and size must be listed
	// here (when non-empty) for the ad to enter the auction at all.
	Formats []string `json:"formats,omitempty"`
	Sizes   []string `json:"sizes,omitempty"`

	// Hard negative constraints: a request whose geo or device appears
	// here is mutually exclusive with the ad and never enters the
	// auction. Distinct from the soft Geos/Devices lists, whose
	// mismatches merely lower the targeting score.
	ExcludedGeos    []string `json:"excluded_geos,omitempty"`
	ExcludedDevices []string `json:"excluded_devices,omitempty"`
}

// AgeRange is an inclusive demographic band, e.g. {25, 34}.
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether age falls inside the band. A zero Max means
// open-ended.
func (r AgeRange) Contains(age int) bool {
	if age < r.Min {
		return false
	}
	return r.Max == 0 || age <= r.Max
}

// RequestContext carries what is known about one placement opportunity:
// the viewer and the slot being filled. The HTTP layer builds it from
// request data.
type RequestContext struct {
	UserID    string   `json:"user_id"`
	Geo       string   `json:"geo,omitempty"`
	Device    string   `json:"device,omitempty"`
	Age       int      `json:"age,omitempty"`
	Interests []string `json:"interests,omitempty"`
	Behaviors []string `json:"behaviors,omitempty"`
	Format    string   `json:"format,omitempty"`
	Size      string   `json:"size,omitempty"`
}

// TargetingResult is the outcome of scoring one ad's criteria against one
// request context. Breakdown holds the per-dimension sub-scores that were
// actually evaluable; Reasons explains skipped or degraded dimensions.
type TargetingResult struct {
	Matches   bool
	Score     float64
	Breakdown map[string]float64
	Reasons   []string
}
