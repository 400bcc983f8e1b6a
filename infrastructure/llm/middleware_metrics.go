package llm

import (
	"context"
	"errors"
	"time"

	"github.com/ahrav/go-arena/internal/ports"
)

// metricsLLM records latency, request counts, and token usage for every
// request through the chain.
type metricsLLM struct {
	next      CoreLLM
	collector ports.MetricsCollector
}

// MetricsMiddleware creates middleware that reports request metrics to
// the given collector.
func MetricsMiddleware(collector ports.MetricsCollector) Middleware {
	return func(next CoreLLM) CoreLLM {
		return &metricsLLM{next: next, collector: collector}
	}
}

// DoRequest executes the request and records its outcome.
func (m *metricsLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	start := time.Now()
	response, tokensIn, tokensOut, err := m.next.DoRequest(ctx, prompt, opts)
	duration := time.Since(start)

	labels := map[string]string{
		"model":  m.next.GetModel(),
		"status": statusLabel(err),
	}

	m.collector.RecordLatency("llm_request_duration_seconds", duration, labels)
	m.collector.RecordCounter("llm_requests_total", 1, labels)

	if err == nil {
		tokenLabels := map[string]string{"model": m.next.GetModel(), "direction": "input"}
		m.collector.RecordCounter("llm_tokens_total", float64(tokensIn), tokenLabels)
		tokenLabels = map[string]string{"model": m.next.GetModel(), "direction": "output"}
		m.collector.RecordCounter("llm_tokens_total", float64(tokensOut), tokenLabels)
	}

	return response, tokensIn, tokensOut, err
}

func statusLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

// GetModel returns the model name from the wrapped implementation.
func (m *metricsLLM) GetModel() string { return m.next.GetModel() }
