package footprint

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "carbon_calculator"

// Result label values of FootprintRequests
const (
	resultSuccess         = "success"
	resultInvalidURL      = "invalid_url"
	resultHostingError    = "hosting_error"
	resultAnalysisError   = "analysis_error"
	resultStatisticsError = "statistics_error"
)

var (
	// FootprintRequests counts footprint computations by outcome
	FootprintRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "footprint_requests_total",
			Help:      "Number of footprint computations by result",
		},
		[]string{"result"},
	)

	// StageDuration measures each pipeline stage
	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of footprint pipeline stages",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 18),
		},
		[]string{"stage"}, // "hosting", "analysis", "statistics"
	)

	// LastFootprint exposes the figures of the most recent successful computation
	LastFootprint = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_footprint",
			Help:      "Most recent footprint by quantity (co2_grams, energy_kwh, water_litres, transfer_bytes)",
		},
		[]string{"quantity"},
	)
)

func init() {
	prometheus.MustRegister(FootprintRequests)
	prometheus.MustRegister(StageDuration)
	prometheus.MustRegister(LastFootprint)
}

func resultForStage(stage Stage) string {
	switch stage {
	case StageHosting:
		return resultHostingError
	case StageAnalysis:
		return resultAnalysisError
	default:
		return resultStatisticsError
	}
}
