// Package ports defines the interfaces through which the arena core
// reaches external infrastructure. Implementations live under
// infrastructure/ and are injected at assembly time.
package ports

import (
	"context"
	"time"
)

// LLMClient defines the interface for interacting with a Large Language
// Model provider. Implementations handle provider-specific details like
// authentication, request formatting, and response parsing; the arena
// treats "send prompt, get text back" as opaque.
type LLMClient interface {
	// Complete sends a completion request to the LLM provider and
	// returns the generated text. Implementations must respect context
	// cancellation and deadlines; the arena relies on per-call timeouts
	// to bound each fan-out barrier.
	//
	// The options map allows provider-specific tuning without changing
	// the interface. Common options:
	//   - "temperature": float64
	//   - "max_tokens": int
	//   - "model": string (override the configured model)
	Complete(ctx context.Context, prompt string, options map[string]any) (string, error)

	// GetModel returns the model identifier used by this client,
	// for logging and diagnostics.
	GetModel() string
}

// MetricsCollector defines the interface for collecting operational
// metrics. The Prometheus implementation lives in
// infrastructure/middleware.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram.
	RecordHistogram(metric string, value float64, labels map[string]string)
}
