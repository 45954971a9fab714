// Package metrics provides Prometheus metrics for Inkwell.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts API requests by route pattern and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inkwell",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDuration measures API request duration.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "inkwell",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// AssembleDuration measures how long building the full post listing takes.
	AssembleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "inkwell",
			Name:      "assemble_duration_seconds",
			Help:      "Duration of a full content listing assembly in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	// PostsListed is the number of posts in the most recent listing.
	PostsListed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "inkwell",
			Name:      "posts_listed",
			Help:      "Number of posts returned by the most recent full listing",
		},
	)

	// ParseFailuresTotal counts posts skipped because their header is malformed.
	ParseFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "inkwell",
			Name:      "parse_failures_total",
			Help:      "Total number of posts excluded from listings because they failed to parse",
		},
	)

	// DraftOperationsTotal counts lead form draft operations.
	DraftOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inkwell",
			Name:      "draft_operations_total",
			Help:      "Total number of lead form draft operations",
		},
		[]string{"operation", "status"},
	)

	// ContentEventsTotal counts watcher-observed content changes.
	ContentEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inkwell",
			Name:      "content_events_total",
			Help:      "Total number of content change events seen by the watcher",
		},
		[]string{"kind"},
	)
)

// RecordRequest records one served HTTP request.
func RecordRequest(route, method, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(duration)
}

// RecordAssemble records a full listing assembly.
func RecordAssemble(posts int, duration float64) {
	PostsListed.Set(float64(posts))
	AssembleDuration.Observe(duration)
}

// RecordParseFailure records a post excluded from a listing.
func RecordParseFailure() {
	ParseFailuresTotal.Inc()
}

// RecordDraftOperation records a draft store operation.
func RecordDraftOperation(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	DraftOperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordContentEvent records a watcher event.
func RecordContentEvent(kind string) {
	ContentEventsTotal.WithLabelValues(kind).Inc()
}
