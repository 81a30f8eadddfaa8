// Package metrics provides Prometheus metrics for the cache tiers and the
// aggregation pass.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache layers and lookup outcomes used as label values.
const (
	LayerMemory   = "memory"
	LayerSnapshot = "snapshot"
	LayerStore    = "store"
	LayerSource   = "source"
	LayerSummary  = "summary"

	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultStale = "stale"
	ResultError = "error"
)

var (
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salesboard_cache_lookups_total",
			Help: "Cache lookups by layer and outcome",
		},
		[]string{"layer", "result"},
	)

	ReloadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "salesboard_reload_duration_seconds",
			Help:    "Time taken to reload one dataset",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"dataset", "layer"},
	)

	RecordsLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "salesboard_records_loaded",
			Help: "Records currently held in memory per dataset",
		},
		[]string{"dataset"},
	)

	FilesParsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salesboard_source_files_parsed_total",
			Help: "Source files parsed by format and outcome",
		},
		[]string{"format", "status"},
	)

	AggregationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "salesboard_aggregation_duration_seconds",
			Help:    "Time taken by one aggregation pass",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"pass"},
	)
)

// RecordLookup counts one cache lookup.
func RecordLookup(layer, result string) {
	CacheLookups.WithLabelValues(layer, result).Inc()
}

// RecordReload records a completed reload and the resulting record count.
func RecordReload(dataset, layer string, records int, duration time.Duration) {
	ReloadDuration.WithLabelValues(dataset, layer).Observe(duration.Seconds())
	RecordsLoaded.WithLabelValues(dataset).Set(float64(records))
}

func RecordParse(format, status string) {
	FilesParsed.WithLabelValues(format, status).Inc()
}

// Timer is a helper for measuring duration
type Timer struct {
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveAggregation records the elapsed time against an aggregation pass.
func (t *Timer) ObserveAggregation(pass string) time.Duration {
	d := time.Since(t.start)
	AggregationDuration.WithLabelValues(pass).Observe(d.Seconds())
	return d
}
