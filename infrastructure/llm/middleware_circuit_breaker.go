package llm

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the circuit breaker is open and
// requests are being rejected without reaching the provider.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// circuitState represents the state of the circuit breaker.
type circuitState int

const (
	// circuitClosed allows all requests through.
	circuitClosed circuitState = iota
	// circuitOpen rejects all requests.
	circuitOpen
	// circuitHalfOpen allows a probe request through to test recovery.
	circuitHalfOpen
)

// circuitBreakerLLM sheds load to a failing provider. After a run of
// consecutive failures the circuit opens and requests fail fast until a
// cooldown elapses, at which point a single probe decides recovery.
type circuitBreakerLLM struct {
	next CoreLLM

	failureThreshold int
	cooldown         time.Duration

	mu            sync.Mutex
	state         circuitState
	failures      int
	lastFailure   time.Time
	probeInFlight bool
}

// CircuitBreakerMiddleware creates middleware that opens after
// failureThreshold consecutive failures and probes again after cooldown.
func CircuitBreakerMiddleware(failureThreshold int, cooldown time.Duration) Middleware {
	return func(next CoreLLM) CoreLLM {
		return &circuitBreakerLLM{
			next:             next,
			failureThreshold: failureThreshold,
			cooldown:         cooldown,
			state:            circuitClosed,
		}
	}
}

// DoRequest executes the request if the circuit permits it.
func (c *circuitBreakerLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	if !c.allowRequest() {
		return "", 0, 0, ErrCircuitOpen
	}

	response, tokensIn, tokensOut, err := c.next.DoRequest(ctx, prompt, opts)
	c.recordResult(err)
	return response, tokensIn, tokensOut, err
}

func (c *circuitBreakerLLM) allowRequest() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case circuitClosed:
		return true
	case circuitOpen:
		if time.Since(c.lastFailure) >= c.cooldown {
			c.state = circuitHalfOpen
			c.probeInFlight = true
			return true
		}
		return false
	case circuitHalfOpen:
		// Only one probe at a time.
		if c.probeInFlight {
			return false
		}
		c.probeInFlight = true
		return true
	default:
		return false
	}
}

func (c *circuitBreakerLLM) recordResult(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err == nil {
		c.state = circuitClosed
		c.failures = 0
		c.probeInFlight = false
		return
	}

	c.failures++
	c.lastFailure = time.Now()
	c.probeInFlight = false

	if c.state == circuitHalfOpen || c.failures >= c.failureThreshold {
		c.state = circuitOpen
	}
}

// GetModel returns the model name from the wrapped implementation.
func (c *circuitBreakerLLM) GetModel() string { return c.next.GetModel() }
