package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus collectors for the screening pipeline
// SSOT: all metric definitions live here
type Metrics struct {
	registry *prometheus.Registry

	ScreeningRuns    *prometheus.CounterVec
	ScreeningSeconds prometheus.Histogram
	CandidatesFound  prometheus.Gauge
	SnapshotBuilds   *prometheus.CounterVec
	IngestedBars     prometheus.Counter
}

// New creates a metrics set backed by its own registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		ScreeningRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tailpick",
			Name:      "screening_runs_total",
			Help:      "Screening runs by outcome",
		}, []string{"status"}),

		ScreeningSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tailpick",
			Name:      "screening_duration_seconds",
			Help:      "Wall time of a full screening run",
			Buckets:   prometheus.DefBuckets,
		}),

		CandidatesFound: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "tailpick",
			Name:      "candidates_found",
			Help:      "Candidates produced by the most recent screening run",
		}),

		SnapshotBuilds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tailpick",
			Name:      "snapshot_builds_total",
			Help:      "Aggregate snapshot builds by outcome",
		}, []string{"status"}),

		IngestedBars: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tailpick",
			Name:      "ingested_bars_total",
			Help:      "Daily bars accepted at the ingestion boundary",
		}),
	}
}

// Handler returns an http.Handler serving the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
