package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the scheduling core.
type Metrics struct {
	// ExtendRunsTotal counts extension job runs by outcome.
	ExtendRunsTotal *prometheus.CounterVec

	// SeriesProcessedTotal counts series walked by the extension job.
	SeriesProcessedTotal prometheus.Counter

	// SeriesFailedTotal counts series whose extension errored and was skipped.
	SeriesFailedTotal prometheus.Counter

	// OccurrencesInsertedTotal counts occurrences written by extension.
	OccurrencesInsertedTotal prometheus.Counter

	// OccurrencesDroppedTotal counts occurrences dropped due to conflicts.
	OccurrencesDroppedTotal prometheus.Counter

	// ExtendDuration is the wall time of one full extension run.
	ExtendDuration prometheus.Histogram
}

// New creates and registers the collectors under the given namespace.
func New(namespace string) *Metrics {
	return &Metrics{
		ExtendRunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "extend_runs_total",
				Help:      "Total number of horizon extension runs",
			},
			[]string{"status"},
		),
		SeriesProcessedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "series_processed_total",
				Help:      "Total number of recurring series processed",
			},
		),
		SeriesFailedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "series_failed_total",
				Help:      "Total number of series skipped due to errors",
			},
		),
		OccurrencesInsertedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "occurrences_inserted_total",
				Help:      "Total number of occurrences inserted by extension",
			},
		),
		OccurrencesDroppedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "occurrences_dropped_total",
				Help:      "Total number of occurrences dropped due to conflicts",
			},
		),
		ExtendDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "extend_duration_seconds",
				Help:      "Duration of one full extension run",
				Buckets:   []float64{.05, .1, .5, 1, 5, 15, 60},
			},
		),
	}
}
