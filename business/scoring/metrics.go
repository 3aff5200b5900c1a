package scoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ScoringLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lead_scoring_latency_seconds",
			Help:    "Lead scoring latency by vertical.",
			Buckets: []float64{0.1, 0.25, 0.5, 1.0},
		},
		[]string{"vertical"},
	)

	ScoringRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_scoring_requests_total",
			Help: "Total lead scoring attempts by vertical.",
		},
		[]string{"vertical"},
	)

	ScoringErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_scoring_errors_total",
			Help: "Total lead scoring errors by vertical and error kind.",
		},
		[]string{"vertical", "error_kind"},
	)

	ScoringFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_scoring_fallbacks_total",
			Help: "Fallback responses served while a circuit breaker was open.",
		},
		[]string{"vertical"},
	)

	LeadsAcceptedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_accepted_total",
			Help: "Leads scoring at or above the vertical threshold.",
		},
		[]string{"vertical"},
	)

	ModelVersionGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lead_model_version",
			Help: "Currently loaded model version by vertical.",
		},
		[]string{"vertical"},
	)
)

func init() {
	prometheus.MustRegister(
		ScoringLatency,
		ScoringRequestsTotal,
		ScoringErrorsTotal,
		ScoringFallbacksTotal,
		LeadsAcceptedTotal,
		ModelVersionGauge,
	)
}
