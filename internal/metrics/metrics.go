// Package metrics exposes Prometheus instrumentation for a role daemon.
// The collectors are process-global; each daemon runs exactly one role, so
// no role label is needed.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// NotificationsReceived counts notifications arriving on each delivery
	// path before gating.
	NotificationsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mesh_notifications_received_total",
		Help: "Notifications received, by delivery path (push or watch).",
	}, []string{"path"})

	// NotificationsDropped counts notifications rejected by dependency
	// gating.
	NotificationsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mesh_notifications_dropped_total",
		Help: "Notifications dropped because the source is not an upstream dependency.",
	})

	// PipelineRuns counts processing runs by outcome.
	PipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mesh_pipeline_runs_total",
		Help: "Processing pipeline runs, by outcome (completed or error).",
	}, []string{"outcome"})

	// PipelineDuration tracks how long a full pipeline run takes, including
	// generation calls and continuation requests.
	PipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mesh_pipeline_duration_seconds",
		Help:    "Duration of processing pipeline runs.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})

	// RecoveryContinuations counts continuation requests issued while
	// repairing truncated responses.
	RecoveryContinuations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mesh_recovery_continuations_total",
		Help: "Continuation requests issued for truncated responses.",
	})

	// QueueDepth tracks notifications waiting for the processing loop.
	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mesh_dispatch_queue_depth",
		Help: "Notifications queued behind the in-flight pipeline run.",
	})

	// BroadcastFailures counts per-peer broadcast sends that failed.
	BroadcastFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mesh_broadcast_failures_total",
		Help: "Broadcast sends that failed to reach a peer.",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
