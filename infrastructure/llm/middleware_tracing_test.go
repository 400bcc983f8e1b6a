package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// With no tracer provider installed the middleware must still be a
// transparent passthrough.
func TestTracingMiddleware_Passthrough(t *testing.T) {
	mock := NewMockCoreLLM()
	wrapped := TracingMiddleware()(mock)

	response, tokensIn, tokensOut, err := wrapped.DoRequest(context.Background(), "test prompt", nil)

	require.NoError(t, err)
	assert.Equal(t, "test response", response)
	assert.Equal(t, 10, tokensIn)
	assert.Equal(t, 20, tokensOut)
	assert.Equal(t, "test prompt", mock.LastPrompt)
}

func TestTracingMiddleware_PropagatesErrors(t *testing.T) {
	mock := NewMockCoreLLM()
	mock.Error = errors.New("provider failure")
	wrapped := TracingMiddleware()(mock)

	_, _, _, err := wrapped.DoRequest(context.Background(), "test prompt", nil)

	require.Error(t, err)
	assert.Equal(t, "provider failure", err.Error())
}

func TestTracingMiddleware_PassesThroughGetModel(t *testing.T) {
	wrapped := TracingMiddleware()(NewMockCoreLLM())
	assert.Equal(t, "test-model", wrapped.GetModel())
}
