// Package middleware provides cross-cutting concerns for the arena engine.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/go-arena/internal/ports"
)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It covers both the run-level pipeline metrics and the
// per-request LLM client metrics.
type PrometheusMetrics struct {
	runLatency      *prometheus.HistogramVec
	runCounter      *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
	requestCounter  *prometheus.CounterVec
	tokenCounter    *prometheus.CounterVec
	systemGauges    *prometheus.GaugeVec
	genericLatency  *prometheus.HistogramVec
	genericCounters *prometheus.CounterVec
}

// NewPrometheusMetrics creates a PrometheusMetrics instance and registers
// all metrics in the global Prometheus registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		runLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arena_run_duration_seconds",
				Help:    "Wall-clock time of full arena runs.",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			},
			[]string{"status"},
		),
		runCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arena_runs_total",
				Help: "Total number of arena runs by outcome.",
			},
			[]string{"status"},
		),
		requestLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "llm_request_duration_seconds",
				Help:    "Latency of individual LLM requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"model", "status"},
		),
		requestCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_requests_total",
				Help: "Total number of LLM requests by model and outcome.",
			},
			[]string{"model", "status"},
		),
		tokenCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_tokens_total",
				Help: "Estimated token usage by model and direction.",
			},
			[]string{"model", "direction"},
		),
		systemGauges: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "arena_state",
				Help: "Current state values for the arena pipeline.",
			},
			[]string{"metric"},
		),
		genericLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arena_operation_duration_seconds",
				Help:    "Execution time of uncategorized arena operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		genericCounters: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arena_operations_total",
				Help: "Total number of uncategorized arena operations.",
			},
			[]string{"operation", "status"},
		),
	}
}

// RecordLatency implements the MetricsCollector interface by recording
// execution latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	switch operation {
	case "arena_run":
		pm.runLatency.WithLabelValues(statusOf(labels)).Observe(duration.Seconds())
	case "llm_request_duration_seconds":
		pm.requestLatency.WithLabelValues(labels["model"], statusOf(labels)).Observe(duration.Seconds())
	default:
		pm.genericLatency.WithLabelValues(operation).Observe(duration.Seconds())
	}
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case "arena_runs_total":
		pm.runCounter.WithLabelValues(statusOf(labels)).Add(value)
	case "llm_requests_total":
		pm.requestCounter.WithLabelValues(labels["model"], statusOf(labels)).Add(value)
	case "llm_tokens_total":
		pm.tokenCounter.WithLabelValues(labels["model"], labels["direction"]).Add(value)
	default:
		pm.genericCounters.WithLabelValues(metric, statusOf(labels)).Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	pm.systemGauges.WithLabelValues(metric).Set(value)
}

// RecordHistogram implements the MetricsCollector interface by recording
// raw values in the generic operation histogram.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	pm.genericLatency.WithLabelValues(metric).Observe(value)
}

func statusOf(labels map[string]string) string {
	if status, ok := labels["status"]; ok {
		return status
	}
	return "unknown"
}

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)
