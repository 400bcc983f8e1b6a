package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// rateLimitedLLM enforces a client-side request rate so that bursty
// scatter/gather traffic does not trip provider-side 429s.
type rateLimitedLLM struct {
	next    CoreLLM
	limiter *rate.Limiter
}

// RateLimiterMiddleware creates middleware that throttles requests to the
// given sustained rate with the given burst allowance.
func RateLimiterMiddleware(requestsPerSecond float64, burst int) Middleware {
	return func(next CoreLLM) CoreLLM {
		return &rateLimitedLLM{
			next:    next,
			limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		}
	}
}

// DoRequest waits for rate limiter clearance before executing the request.
// The wait respects context cancellation.
func (r *rateLimitedLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", 0, 0, fmt.Errorf("rate limiter wait: %w", err)
	}
	return r.next.DoRequest(ctx, prompt, opts)
}

// GetModel returns the model name from the wrapped implementation.
func (r *rateLimitedLLM) GetModel() string { return r.next.GetModel() }
