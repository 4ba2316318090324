// Package metrics provides Prometheus metrics for the bias audit service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "scorecard"
	subsystem = "audit"
)

var registry = prometheus.NewRegistry()

var (
	// Audit pipeline metrics.
	auditsStarted = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: subsystem,
		Name: "runs_started_total",
		Help: "Number of audit pipeline runs started.",
	})
	auditsCompleted = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: subsystem,
		Name: "runs_completed_total",
		Help: "Number of audit pipeline runs completed successfully.",
	})
	auditsFailed = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: subsystem,
		Name: "runs_failed_total",
		Help: "Number of audit pipeline runs that failed.",
	})
	auditDuration = promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: subsystem,
		Name:    "run_duration_seconds",
		Help:    "Wall-clock duration of audit pipeline runs.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	})

	// Probe metrics.
	probesCompleted = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: subsystem,
		Name: "probes_completed_total",
		Help: "Completed probes by test type.",
	}, []string{"probe"})
	probesFailed = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: subsystem,
		Name: "probes_failed_total",
		Help: "Failed probes by test type.",
	}, []string{"probe"})
	probesSkipped = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: subsystem,
		Name: "probes_skipped_total",
		Help: "Probes skipped for insufficient data, by test type.",
	}, []string{"probe"})

	// Scoring function metrics.
	scoringCalls = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: subsystem,
		Name: "scoring_calls_total",
		Help: "Calls issued to the external scoring probe.",
	})
	scoringLatency = promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: subsystem,
		Name:    "scoring_call_duration_seconds",
		Help:    "Latency of individual scoring probe calls.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
	})

	// Job queue metrics.
	queueDepth = promauto.With(registry).NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: subsystem,
		Name: "queue_depth",
		Help: "Audit jobs waiting in the queue.",
	})
	queueRejected = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: subsystem,
		Name: "queue_rejected_total",
		Help: "Audit jobs rejected due to backpressure.",
	})
	workerCount = promauto.With(registry).NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: subsystem,
		Name: "workers",
		Help: "Running audit workers.",
	})

	// HTTP metrics.
	httpRequests = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "http",
		Name: "requests_total",
		Help: "HTTP requests by endpoint, method, and status.",
	}, []string{"endpoint", "method", "status"})
	httpDuration = promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "http",
		Name:    "request_duration_seconds",
		Help:    "HTTP request latency by endpoint.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "method"})
)

// GetRegistry exposes the registry for the /healthz metrics handler.
func GetRegistry() *prometheus.Registry { return registry }

// RecordAuditStarted increments the started-runs counter.
func RecordAuditStarted() { auditsStarted.Inc() }

// RecordAuditCompleted records a successful run and its duration.
func RecordAuditCompleted(seconds float64) {
	auditsCompleted.Inc()
	auditDuration.Observe(seconds)
}

// RecordAuditFailed increments the failed-runs counter.
func RecordAuditFailed() { auditsFailed.Inc() }

// RecordProbeCompleted increments the completed counter for a probe.
func RecordProbeCompleted(probe string) { probesCompleted.WithLabelValues(probe).Inc() }

// RecordProbeFailure increments the failure counter for a probe.
func RecordProbeFailure(probe string) { probesFailed.WithLabelValues(probe).Inc() }

// RecordProbeSkipped increments the skipped counter for a probe.
func RecordProbeSkipped(probe string) { probesSkipped.WithLabelValues(probe).Inc() }

// RecordScoringCall counts one call to the external scoring probe.
func RecordScoringCall() { scoringCalls.Inc() }

// RecordScoringLatency records the latency of one scoring call.
func RecordScoringLatency(seconds float64) { scoringLatency.Observe(seconds) }

// UpdateQueueDepth sets the current queue depth gauge.
func UpdateQueueDepth(n int) { queueDepth.Set(float64(n)) }

// RecordQueueRejected counts a job rejected on backpressure.
func RecordQueueRejected() { queueRejected.Inc() }

// UpdateWorkerCount sets the running-workers gauge.
func UpdateWorkerCount(n int) { workerCount.Set(float64(n)) }

// RecordHTTPRequest counts one handled HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records HTTP handler latency.
func RecordHTTPRequestDuration(endpoint, method string, seconds float64) {
	httpDuration.WithLabelValues(endpoint, method).Observe(seconds)
}
