// Package llm provides the provider clients behind the arena's
// "send prompt to provider, get text back" capability. It abstracts the
// two supported protocol families (OpenAI-compatible and Anthropic)
// behind a common interface and adds cross-cutting concerns — timeouts,
// retries, rate limiting, circuit breaking, metrics, tracing — through
// a middleware chain.
//
// Basic usage:
//
//	client, err := llm.NewClient("openai", llm.ClientConfig{
//	    APIKey: os.Getenv("OPENAI_API_KEY"),
//	    Model:  "gpt-5.2",
//	})
//	answer, err := client.Complete(ctx, "What is a monad?", nil)
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahrav/go-arena/internal/ports"
)

// CoreLLM is the minimal interface a protocol family must implement.
// The middleware system wraps any conforming implementation.
type CoreLLM interface {
	// DoRequest sends a prompt to the provider and returns the response
	// text along with input and output token counts.
	DoRequest(ctx context.Context, prompt string, opts map[string]any) (response string, tokensIn, tokensOut int, err error)

	// GetModel returns the configured model name.
	GetModel() string
}

// Middleware wraps a CoreLLM implementation to add cross-cutting
// functionality without modifying provider logic.
type Middleware func(CoreLLM) CoreLLM

// ClientConfig holds all configuration options for creating a client.
type ClientConfig struct {
	// APIKey authenticates requests to the provider.
	APIKey string

	// Model specifies which model to use for requests.
	Model string

	// BaseURL overrides the provider's default API endpoint. This is
	// how OpenAI-compatible services (Gemini, DeepSeek, Groq) are
	// reached through the openai protocol family.
	BaseURL string

	// Timeout bounds each individual request. Zero means no timeout.
	Timeout time.Duration

	// Middleware is applied in order; the first entry is outermost.
	Middleware []Middleware
}

// Client implements ports.LLMClient by delegating to a middleware-wrapped
// CoreLLM. Clients are read-only after construction and safe to share
// across concurrent fan-out calls.
type Client struct {
	core CoreLLM
}

var _ ports.LLMClient = (*Client)(nil)

// NewClient assembles a client for the given protocol kind.
// Kind must name a registered provider factory ("openai" or "anthropic").
func NewClient(kind string, config ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	factory, ok := providerFactories[kind]
	if !ok {
		return nil, fmt.Errorf("unknown provider kind: %s", kind)
	}

	core, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	// Apply middleware in reverse order so the first is outermost.
	for i := len(config.Middleware) - 1; i >= 0; i-- {
		core = config.Middleware[i](core)
	}

	return &Client{core: core}, nil
}

// Complete sends a prompt to the provider and returns the response text.
func (c *Client) Complete(ctx context.Context, prompt string, options map[string]any) (string, error) {
	response, _, _, err := c.core.DoRequest(ctx, prompt, options)
	if err != nil {
		return "", c.wrapError("complete", err)
	}
	return response, nil
}

// CompleteWithUsage sends a prompt and additionally returns input and
// output token counts for usage tracking.
func (c *Client) CompleteWithUsage(ctx context.Context, prompt string, options map[string]any) (string, int, int, error) {
	response, tokensIn, tokensOut, err := c.core.DoRequest(ctx, prompt, options)
	if err != nil {
		return "", 0, 0, c.wrapError("complete_with_usage", err)
	}
	return response, tokensIn, tokensOut, nil
}

// wrapError normalizes a failed request into a ports.LLMError carrying
// the model and operation. When the failure carries a provider
// classification, the matching ports sentinel is threaded into the
// chain so callers can match with errors.Is and consult IsRetryable.
func (c *Client) wrapError(operation string, err error) error {
	if sentinel := sentinelFor(err); sentinel != nil {
		err = fmt.Errorf("%w: %w", sentinel, err)
	}
	return ports.NewLLMError(c.core.GetModel(), operation, err)
}

// sentinelFor maps a classified provider failure onto the ports error
// taxonomy. Unclassified errors get no sentinel.
func sentinelFor(err error) error {
	var providerErr *ProviderError
	if !errors.As(err, &providerErr) {
		return nil
	}
	switch providerErr.Type {
	case ErrorTypeRateLimit:
		return ports.ErrRateLimited
	case ErrorTypeServerError, ErrorTypeNetwork:
		return ports.ErrServiceUnavailable
	case ErrorTypeTimeout:
		return ports.ErrTimeout
	case ErrorTypeAuthentication:
		return ports.ErrAuthenticationFailed
	case ErrorTypeBadRequest, ErrorTypeNotFound:
		return ports.ErrInvalidResponse
	default:
		return nil
	}
}

// GetModel returns the configured model name.
func (c *Client) GetModel() string { return c.core.GetModel() }

// ProviderFactory creates a CoreLLM implementation from configuration.
type ProviderFactory func(ClientConfig) (CoreLLM, error)

// providerFactories is the closed set of protocol families. New kinds
// register themselves from an init function alongside their handler.
var providerFactories = map[string]ProviderFactory{}

// RegisterProviderFactory registers a protocol family factory under the
// given kind.
func RegisterProviderFactory(kind string, factory ProviderFactory) {
	providerFactories[kind] = factory
}
