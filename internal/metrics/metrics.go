// Package metrics exposes Prometheus collectors for the relation store, the
// shopping list aggregator and the report renderer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeCreated  = "created"
	OutcomeExisting = "existing"
	OutcomeRemoved  = "removed"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	// RelationChangesTotal counts relation mutations by kind, action and outcome.
	RelationChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_relation_changes_total",
			Help: "Total number of favorite, cart and subscription mutations",
		},
		[]string{"kind", "action", "outcome"},
	)

	AggregatesBuiltTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_shopping_list_aggregates_total",
			Help: "Total number of shopping list aggregations",
		},
		[]string{"outcome"},
	)

	AggregateLines = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "foodgram_shopping_list_lines",
			Help:    "Number of distinct lines in a built shopping list",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100, 250},
		},
	)

	ReportRenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_report_render_duration_seconds",
			Help:    "Duration of shopping list document rendering in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"format"},
	)

	ImageUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_image_uploads_total",
			Help: "Total number of recipe image uploads by backend and outcome",
		},
		[]string{"backend", "outcome"},
	)
)

func RecordRelationChange(kind, action, outcome string) {
	RelationChangesTotal.WithLabelValues(kind, action, outcome).Inc()
}

// RecordAggregate records a finished aggregation. lines is ignored on failure.
func RecordAggregate(lines int, err error) {
	if err != nil {
		AggregatesBuiltTotal.WithLabelValues(OutcomeError).Inc()
		return
	}
	AggregatesBuiltTotal.WithLabelValues("ok").Inc()
	AggregateLines.Observe(float64(lines))
}

func RecordRender(format string, d time.Duration) {
	ReportRenderDuration.WithLabelValues(format).Observe(d.Seconds())
}

func RecordImageUpload(backend string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = OutcomeError
	}
	ImageUploadsTotal.WithLabelValues(backend, outcome).Inc()
}
