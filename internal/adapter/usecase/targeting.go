package usecase

import (
	"strings"

	"adengine/internal/config/configs"
	"adengine/internal/core/domain"
)

// demographicMismatch is the sub-score when the viewer's age falls outside
// every targeted band. Kept above zero for the same reason as the geo and
// device floors.
const demographicMismatch = 0.3

// deviceClasses groups concrete device types into broader categories for
// partial matching. A targeted "mobile" still partially matches a request
// from a "tablet".
var deviceClasses = map[string]string{
	"mobile":  "handheld",
	"phone":   "handheld",
	"tablet":  "handheld",
	"desktop": "desktop",
	"laptop":  "desktop",
	"ctv":     "tv",
	"tv":      "tv",
}

// TargetingEvaluator scores how well one ad's soft targeting criteria fit
// one request context. It is a pure function of its inputs: no state, no
// I/O. Hard constraints (formats, sizes) are enforced by the eligibility
// filter, not here.
type TargetingEvaluator struct {
	cfg configs.Auction
}

// NewTargetingEvaluator returns an evaluator using the given scoring
// constants.
func NewTargetingEvaluator(cfg configs.Auction) *TargetingEvaluator {
	return &TargetingEvaluator{cfg: cfg}
}

// Evaluate scores t against rc. Each dimension present on both sides
// contributes a sub-score in [0,1]; absent dimensions are skipped, not
// penalized. When nothing is evaluable the neutral score applies.
// Malformed or empty criteria are treated as "no constraint", never as an
// error.
func (e *TargetingEvaluator) Evaluate(t domain.Targeting, rc domain.RequestContext) domain.TargetingResult {
	res := domain.TargetingResult{
		Matches:   true,
		Breakdown: make(map[string]float64, 5),
	}

	if len(t.Geos) > 0 && rc.Geo != "" {
		res.Breakdown["geo"] = e.scoreGeo(t.Geos, rc.Geo)
	} else {
		res.Reasons = append(res.Reasons, "geo not evaluable")
	}

	if len(t.Devices) > 0 && rc.Device != "" {
		res.Breakdown["device"] = e.scoreDevice(t.Devices, rc.Device)
	} else {
		res.Reasons = append(res.Reasons, "device not evaluable")
	}

	if len(t.Interests) > 0 && len(rc.Interests) > 0 {
		res.Breakdown["interests"] = overlapRatio(t.Interests, rc.Interests)
	} else {
		res.Reasons = append(res.Reasons, "interests not evaluable")
	}

	if len(t.AgeRanges) > 0 && rc.Age > 0 {
		res.Breakdown["demographics"] = scoreAge(t.AgeRanges, rc.Age)
	} else {
		res.Reasons = append(res.Reasons, "demographics not evaluable")
	}

	if len(t.Behaviors) > 0 && len(rc.Behaviors) > 0 {
		res.Breakdown["behavior"] = overlapRatio(t.Behaviors, rc.Behaviors)
	} else {
		res.Reasons = append(res.Reasons, "behavior not evaluable")
	}

	if len(res.Breakdown) == 0 {
		res.Score = e.cfg.NeutralScore
		res.Reasons = append(res.Reasons, "no targeting dimension evaluable")
		return res
	}

	var sum float64
	for _, v := range res.Breakdown {
		sum += v
	}
	res.Score = sum / float64(len(res.Breakdown))
	return res
}

// scoreGeo returns 1.0 on an exact geo match, the partial score when the
// request geo falls inside a broader targeted region (same country code,
// e.g. targeted "US" vs request "US-CA"), and the mismatch floor
// otherwise.
func (e *TargetingEvaluator) scoreGeo(targeted []string, geo string) float64 {
	best := e.cfg.GeoMismatchFloor
	for _, g := range targeted {
		if strings.EqualFold(g, geo) {
			return 1.0
		}
		if countryOf(g) == countryOf(geo) && best < e.cfg.GeoPartialScore {
			best = e.cfg.GeoPartialScore
		}
	}
	return best
}

// scoreDevice returns 1.0 on an exact device match, the partial score when
// the devices share a class, and the mismatch floor otherwise.
func (e *TargetingEvaluator) scoreDevice(targeted []string, device string) float64 {
	best := e.cfg.DeviceMismatchFloor
	class := deviceClasses[strings.ToLower(device)]
	for _, d := range targeted {
		if strings.EqualFold(d, device) {
			return 1.0
		}
		if class != "" && deviceClasses[strings.ToLower(d)] == class && best < e.cfg.DevicePartialScore {
			best = e.cfg.DevicePartialScore
		}
	}
	return best
}

func scoreAge(ranges []domain.AgeRange, age int) float64 {
	for _, r := range ranges {
		if r.Contains(age) {
			return 1.0
		}
	}
	return demographicMismatch
}

// overlapRatio is a Jaccard-like similarity: |intersection| / max(|A|,|B|).
// Comparison is case-insensitive; duplicates are collapsed.
func overlapRatio(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	inter := 0
	for v := range setA {
		if _, ok := setB[v]; ok {
			inter++
		}
	}
	return float64(inter) / float64(max(len(setA), len(setB)))
}

func toSet(vals []string) map[string]struct{} {
	s := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			s[v] = struct{}{}
		}
	}
	return s
}

// countryOf extracts the country segment of a geo code like "US-CA".
func countryOf(geo string) string {
	geo = strings.ToLower(strings.TrimSpace(geo))
	if i := strings.IndexAny(geo, "-_/"); i > 0 {
		return geo[:i]
	}
	return geo
}
