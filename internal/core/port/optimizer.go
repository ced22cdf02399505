package port

import "adengine/internal/core/domain"

// Optimizer analyzes historical serving performance and produces tuning
// recommendations. It is stateless, read-only and off the hot path.
// Implementations must be deterministic: identical history yields an
// identical recommendation list.
type Optimizer interface {
	Analyze(history []domain.PerformanceSnapshot) []Recommendation
}

// Recommendation is one suggested tuning action, ranked by estimated
// impact.
type Recommendation struct {
	Type            string  `json:"type"`
	Description     string  `json:"description"`
	EstimatedImpact float64 `json:"estimated_impact"`
	Confidence      float64 `json:"confidence"`
}
