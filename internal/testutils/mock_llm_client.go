// Package testutils provides deterministic test doubles for the arena
// pipeline.
package testutils

import (
	"context"
	"strings"
	"sync"

	"github.com/ahrav/go-arena/internal/ports"
)

// MockLLMClient implements the LLMClient interface with deterministic
// responses for pipeline testing. Responses are matched by prompt
// substring, with separate hooks for answer and judging prompts so one
// mock can play both roles in a run.
type MockLLMClient struct {
	mu sync.Mutex

	// model is the mock model identifier.
	model string

	// Answer is returned for prompts that do not look like judging
	// prompts.
	Answer string

	// Ranking is returned for judging prompts (those carrying a
	// <question> block). Typically a JSON results payload.
	Ranking string

	// Err, when set, fails every request.
	Err error

	// responses maps prompt substrings to canned responses; checked
	// before the Answer/Ranking defaults.
	responses map[string]string

	// Prompts records every prompt received, in call order.
	Prompts []string
}

// NewMockLLMClient creates a mock with a plain answer and no ranking.
func NewMockLLMClient(model string) *MockLLMClient {
	return &MockLLMClient{
		model:     model,
		Answer:    "A deterministic answer from " + model + ".",
		responses: make(map[string]string),
	}
}

// AddResponse registers a canned response for prompts containing pattern.
func (m *MockLLMClient) AddResponse(pattern, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[pattern] = response
}

// Complete implements ports.LLMClient.
func (m *MockLLMClient) Complete(ctx context.Context, prompt string, opts map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)

	if m.Err != nil {
		return "", m.Err
	}

	for pattern, response := range m.responses {
		if strings.Contains(prompt, pattern) {
			return response, nil
		}
	}

	if m.Ranking != "" && strings.Contains(prompt, "<question>") {
		return m.Ranking, nil
	}
	return m.Answer, nil
}

// GetModel returns the mock model identifier.
func (m *MockLLMClient) GetModel() string { return m.model }

// PromptCount returns the number of Complete calls received.
func (m *MockLLMClient) PromptCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

// RecordedPrompts returns a copy of all prompts received.
func (m *MockLLMClient) RecordedPrompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Prompts))
	copy(out, m.Prompts)
	return out
}

// Compile-time verification that MockLLMClient implements LLMClient.
var _ ports.LLMClient = (*MockLLMClient)(nil)
