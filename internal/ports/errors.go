package ports

import (
	"errors"
	"fmt"
	"time"
)

// Common infrastructure errors that can occur during provider calls.
var (
	// ErrRateLimited indicates that the provider rate limited the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrServiceUnavailable indicates that the provider is unavailable.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrTimeout indicates that a provider call timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrInvalidResponse indicates that the provider returned an
	// unusable response.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrAuthenticationFailed indicates that authentication with the
	// provider failed.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrMissingCredential indicates that no API key is available for a
	// provider. This is a filtering condition, not a call failure.
	ErrMissingCredential = errors.New("missing credential")
)

// LLMError represents an error from an LLM provider call.
// It carries the model and operation for diagnostics and supports
// standard error unwrapping.
type LLMError struct {
	// Model is the identifier of the model that generated the error.
	Model string

	// Operation is the name of the operation that failed.
	Operation string

	// Err is the underlying error.
	Err error

	// RetryAfter indicates how long to wait before retrying, if the
	// provider supplied one.
	RetryAfter *time.Duration
}

// Error implements the error interface for LLMError.
func (e *LLMError) Error() string {
	msg := fmt.Sprintf("LLM error: model=%s, operation=%s, err=%v", e.Model, e.Operation, e.Err)
	if e.RetryAfter != nil {
		msg += fmt.Sprintf(", retry_after=%v", *e.RetryAfter)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *LLMError) Unwrap() error { return e.Err }

// IsRetryable returns true if the error is temporary and the call can
// be retried.
func (e *LLMError) IsRetryable() bool {
	return errors.Is(e.Err, ErrRateLimited) ||
		errors.Is(e.Err, ErrServiceUnavailable) ||
		errors.Is(e.Err, ErrTimeout)
}

// NewLLMError creates a new LLMError with the given details.
func NewLLMError(model, operation string, err error) *LLMError {
	return &LLMError{
		Model:     model,
		Operation: operation,
		Err:       err,
	}
}
