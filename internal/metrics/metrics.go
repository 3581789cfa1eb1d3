package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClaimDuration tracks the latency of single-code claims.
	ClaimDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "credit_claim_duration_seconds",
			Help:    "Duration of code claim attempts in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		},
		[]string{"status"}, // assigned, exhausted or error
	)

	// PoolExhaustedTotal counts claims that found an empty pool, per
	// credit type name.
	PoolExhaustedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_pool_exhausted_total",
			Help: "Number of claim attempts that hit an exhausted code pool",
		},
		[]string{"credit_type"},
	)

	// CheckinDuration tracks end-to-end scan processing.
	CheckinDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "checkin_duration_seconds",
			Help:    "Duration of check-in scan processing in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		},
		[]string{"status"}, // success, already_checked_in or error
	)
)

func RecordClaimDuration(status string, seconds float64) {
	ClaimDuration.WithLabelValues(status).Observe(seconds)
}

func RecordPoolExhausted(creditTypeName string) {
	PoolExhaustedTotal.WithLabelValues(creditTypeName).Inc()
}

func RecordCheckinDuration(status string, seconds float64) {
	CheckinDuration.WithLabelValues(status).Observe(seconds)
}
