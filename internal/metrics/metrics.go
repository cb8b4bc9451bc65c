// Package metrics registers the service's Prometheus collectors and exposes
// the scrape handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SearchDuration tracks end-to-end search latency.
	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sokohub_search_duration_seconds",
		Help:    "End-to-end latency of search requests.",
		Buckets: prometheus.DefBuckets,
	})

	// SearchDegraded counts searches that fell back to baseline scoring after
	// exceeding their latency budget.
	SearchDegraded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sokohub_search_degraded_total",
		Help: "Search requests degraded to baseline scoring.",
	})

	// TransitionsApplied counts lifecycle transitions by target state.
	TransitionsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sokohub_lifecycle_transitions_total",
		Help: "Lifecycle transitions applied by the scheduler, by target state.",
	}, []string{"to"})

	// TransitionsDeferred counts records pushed to the next cycle after
	// exhausting conflict retries.
	TransitionsDeferred = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sokohub_lifecycle_transitions_deferred_total",
		Help: "Lifecycle transitions deferred to the next scheduler cycle.",
	})

	// EventsPublished counts lifecycle events delivered to the notification
	// boundary.
	EventsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sokohub_lifecycle_events_published_total",
		Help: "Lifecycle events published to the notification channel.",
	})

	// EventsDropped counts lifecycle events lost after exhausting publish
	// retries.
	EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sokohub_lifecycle_events_dropped_total",
		Help: "Lifecycle events dropped after publish retries.",
	})

	// SchedulerRunDuration tracks one full scheduler sweep.
	SchedulerRunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sokohub_scheduler_run_duration_seconds",
		Help:    "Duration of one lifecycle scheduler sweep.",
		Buckets: prometheus.DefBuckets,
	})
)

// NewTimer starts a latency observation against the given histogram.
func NewTimer(h prometheus.Observer) *prometheus.Timer {
	return prometheus.NewTimer(h)
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
