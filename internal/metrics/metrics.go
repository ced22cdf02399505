package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuctionDuration tracks end-to-end latency of auction runs.
	AuctionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "auction_duration_seconds",
			Help: "Duration of auction executions in seconds",
			Buckets: []float64{
				0.001, // 1ms
				0.005, // 5ms
				0.01,  // 10ms
				0.025, // 25ms
				0.05,  // 50ms
				0.1,   // 100ms
				0.25,  // 250ms
				0.5,   // 500ms
				1.0,   // 1s
			},
		},
		[]string{"result"}, // served, failed, replayed or error
	)

	// AuctionCandidates tracks how many candidates survive eligibility
	// filtering per auction.
	AuctionCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "auction_candidates",
			Help:    "Number of eligible candidates per auction",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	// FrequencyRejections counts winners dropped by the frequency cap.
	FrequencyRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frequency_cap_rejections_total",
			Help: "Candidates rejected by the frequency cap tracker",
		},
		[]string{"event_type"},
	)

	// ScoringFailures counts candidates dropped because scoring panicked.
	ScoringFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "candidate_scoring_failures_total",
			Help: "Candidates dropped due to scoring failures",
		},
	)
)

// RecordAuctionDuration records the duration of one auction run.
func RecordAuctionDuration(result string, seconds float64) {
	AuctionDuration.WithLabelValues(result).Observe(seconds)
}

// RecordFrequencyRejection counts a cap-rejected prospective winner.
func RecordFrequencyRejection(eventType string) {
	FrequencyRejections.WithLabelValues(eventType).Inc()
}
