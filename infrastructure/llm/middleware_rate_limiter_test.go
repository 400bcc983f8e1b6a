package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AllowsBurst(t *testing.T) {
	mock := NewMockCoreLLM()
	wrapped := RateLimiterMiddleware(1, 3)(mock)

	start := time.Now()
	for range 3 {
		_, _, _, err := wrapped.DoRequest(context.Background(), "test prompt", nil)
		require.NoError(t, err)
	}

	assert.Less(t, time.Since(start), 100*time.Millisecond, "burst should not be throttled")
	assert.Equal(t, 3, mock.GetCallCount())
}

func TestRateLimiter_ThrottlesBeyondBurst(t *testing.T) {
	mock := NewMockCoreLLM()
	wrapped := RateLimiterMiddleware(20, 1)(mock)

	start := time.Now()
	for range 3 {
		_, _, _, err := wrapped.DoRequest(context.Background(), "test prompt", nil)
		require.NoError(t, err)
	}

	// Two of the three requests had to wait for tokens at 20 rps.
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestRateLimiter_RespectsContextCancellation(t *testing.T) {
	mock := NewMockCoreLLM()
	wrapped := RateLimiterMiddleware(0.1, 1)(mock)

	// Consume the single burst token.
	_, _, _, err := wrapped.DoRequest(context.Background(), "test prompt", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, _, _, err = wrapped.DoRequest(ctx, "test prompt", nil)

	require.Error(t, err)
	assert.Less(t, time.Since(start), 500*time.Millisecond, "should give up when the context expires")
	assert.Equal(t, 1, mock.GetCallCount(), "throttled request must not reach the provider")
}

func TestRateLimiter_PassesThroughGetModel(t *testing.T) {
	wrapped := RateLimiterMiddleware(1, 1)(NewMockCoreLLM())
	assert.Equal(t, "test-model", wrapped.GetModel())
}
