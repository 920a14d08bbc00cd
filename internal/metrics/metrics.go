// Package metrics exposes pipeline counters on the health port.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline's Prometheus collectors.
type Metrics struct {
	RunsTotal       *prometheus.CounterVec // by task kind and outcome
	EventsFetched   *prometheus.CounterVec // raw items by source
	EventsRetained  prometheus.Counter     // events surviving dedup
	BatchFailures   *prometheus.CounterVec // partial source failures by source
	DeliveriesTotal *prometheus.CounterVec // by outcome
	RunDuration     prometheus.Histogram
}

// New registers the pipeline metrics with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "digestd_runs_total",
			Help: "Pipeline runs by task kind and outcome.",
		}, []string{"task", "outcome"}),
		EventsFetched: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "digestd_events_fetched_total",
			Help: "Raw calendar records fetched, by source.",
		}, []string{"source"}),
		EventsRetained: factory.NewCounter(prometheus.CounterOpts{
			Name: "digestd_events_retained_total",
			Help: "Canonical events remaining after dedup.",
		}),
		BatchFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "digestd_batch_failures_total",
			Help: "Partial upstream failures tolerated during fetch, by source.",
		}, []string{"source"}),
		DeliveriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "digestd_deliveries_total",
			Help: "Digest deliveries by outcome.",
		}, []string{"outcome"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "digestd_run_duration_seconds",
			Help:    "Wall-clock duration of one pipeline run.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
