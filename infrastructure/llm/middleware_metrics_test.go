package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingCollector captures metric calls for assertions.
type recordingCollector struct {
	mu        sync.Mutex
	latencies map[string][]map[string]string
	counters  map[string]float64
}

func newRecordingCollector() *recordingCollector {
	return &recordingCollector{
		latencies: make(map[string][]map[string]string),
		counters:  make(map[string]float64),
	}
}

func (r *recordingCollector) RecordLatency(op string, _ time.Duration, labels map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latencies[op] = append(r.latencies[op], labels)
}

func (r *recordingCollector) RecordCounter(metric string, value float64, labels map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[metric] += value
}

func (r *recordingCollector) RecordGauge(string, float64, map[string]string)     {}
func (r *recordingCollector) RecordHistogram(string, float64, map[string]string) {}

func TestMetricsMiddleware_RecordsSuccess(t *testing.T) {
	mock := NewMockCoreLLM()
	collector := newRecordingCollector()
	wrapped := MetricsMiddleware(collector)(mock)

	_, _, _, err := wrapped.DoRequest(context.Background(), "test prompt", nil)
	require.NoError(t, err)

	require.Len(t, collector.latencies["llm_request_duration_seconds"], 1)
	labels := collector.latencies["llm_request_duration_seconds"][0]
	assert.Equal(t, "test-model", labels["model"])
	assert.Equal(t, "success", labels["status"])

	assert.Equal(t, 1.0, collector.counters["llm_requests_total"])
	// Input (10) + output (20) token counts.
	assert.Equal(t, 30.0, collector.counters["llm_tokens_total"])
}

func TestMetricsMiddleware_RecordsFailureStatus(t *testing.T) {
	mock := NewMockCoreLLM()
	mock.Error = errors.New("boom")
	collector := newRecordingCollector()
	wrapped := MetricsMiddleware(collector)(mock)

	_, _, _, err := wrapped.DoRequest(context.Background(), "test prompt", nil)
	require.Error(t, err)

	labels := collector.latencies["llm_request_duration_seconds"][0]
	assert.Equal(t, "error", labels["status"])
	assert.Zero(t, collector.counters["llm_tokens_total"], "no token metrics on failure")
}

func TestMetricsMiddleware_DistinguishesCircuitOpen(t *testing.T) {
	mock := NewMockCoreLLM()
	mock.Error = ErrCircuitOpen
	collector := newRecordingCollector()
	wrapped := MetricsMiddleware(collector)(mock)

	_, _, _, err := wrapped.DoRequest(context.Background(), "test prompt", nil)
	require.Error(t, err)

	labels := collector.latencies["llm_request_duration_seconds"][0]
	assert.Equal(t, "circuit_open", labels["status"])
}

func TestMetricsMiddleware_DistinguishesTimeout(t *testing.T) {
	mock := NewMockCoreLLM()
	mock.Error = context.DeadlineExceeded
	collector := newRecordingCollector()
	wrapped := MetricsMiddleware(collector)(mock)

	_, _, _, err := wrapped.DoRequest(context.Background(), "test prompt", nil)
	require.Error(t, err)

	labels := collector.latencies["llm_request_duration_seconds"][0]
	assert.Equal(t, "timeout", labels["status"])
}

func TestMetricsMiddleware_PassesThroughGetModel(t *testing.T) {
	wrapped := MetricsMiddleware(newRecordingCollector())(NewMockCoreLLM())
	assert.Equal(t, "test-model", wrapped.GetModel())
}
