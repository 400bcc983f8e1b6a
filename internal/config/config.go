// Package config defines arena process configuration and loading.
//
// Configuration layers, from lowest to highest precedence: built-in
// defaults, an optional YAML file named by ARENA_CONFIG, then ARENA_*
// environment variables.
package config

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
)

// Provider is one roster entry as it appears in configuration. An empty
// roster in config means the built-in default roster is used.
type Provider struct {
	// Name is the display name used on the leaderboard.
	Name string `koanf:"name" validate:"required"`
	// Model is the provider-specific model identifier.
	Model string `koanf:"model" validate:"required"`
	// Kind selects the wire protocol: openai or anthropic.
	Kind string `koanf:"kind" validate:"required,oneof=openai anthropic"`
	// EnvVar names the environment variable holding the API key.
	EnvVar string `koanf:"env_var"`
	// BaseURL overrides the default API endpoint.
	BaseURL string `koanf:"base_url" validate:"omitempty,url"`
	// Optional providers are skipped when no key is present instead of
	// failing startup.
	Optional bool `koanf:"optional"`
	// MaxTokens caps completion length. Zero means the default cap.
	MaxTokens int `koanf:"max_tokens" validate:"gte=0"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// QueryTimeoutSeconds bounds each provider request.
	QueryTimeoutSeconds int `koanf:"query_timeout_seconds" validate:"gt=0"`

	// MaxInputLength bounds the question in runes.
	MaxInputLength int `koanf:"max_input_length" validate:"gt=0"`

	// MaxRetries caps retry attempts per request beyond the first.
	// Zero disables retries.
	MaxRetries int `koanf:"max_retries" validate:"gte=0"`

	// RequestsPerSecond throttles each provider client. Zero disables
	// throttling.
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"gte=0"`

	// RateBurst is the rate limiter burst size. Must be at least 1
	// when throttling is enabled.
	RateBurst int `koanf:"rate_burst" validate:"gte=0"`

	// BreakerThreshold is the run of consecutive failures that opens a
	// provider's circuit. Zero disables the breaker.
	BreakerThreshold int `koanf:"breaker_threshold" validate:"gte=0"`

	// BreakerCooldownSeconds is how long an open circuit waits before
	// letting a probe request through.
	BreakerCooldownSeconds int `koanf:"breaker_cooldown_seconds" validate:"gte=0"`

	// ClarifyEnabled toggles the pre-arena question refinement loop.
	ClarifyEnabled bool `koanf:"clarify_enabled"`

	// ClarifyModel is the analyst model used for refinement. It must
	// be reachable through the OPENAI_API_KEY credential.
	ClarifyModel string `koanf:"clarify_model"`

	// MetricsAddr, when non-empty, exposes Prometheus metrics on this
	// listen address.
	MetricsAddr string `koanf:"metrics_addr"`

	// Providers overrides the built-in roster when non-empty.
	Providers []Provider `koanf:"providers" validate:"dive"`
}

// QueryTimeout returns the per-request timeout as a duration.
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutSeconds) * time.Second
}

// BreakerCooldown returns the open-circuit cooldown as a duration.
func (c *Config) BreakerCooldown() time.Duration {
	return time.Duration(c.BreakerCooldownSeconds) * time.Second
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		QueryTimeoutSeconds:    30,
		MaxInputLength:         2000,
		MaxRetries:             2,
		RequestsPerSecond:      2,
		RateBurst:              4,
		BreakerThreshold:       3,
		BreakerCooldownSeconds: 30,
		ClarifyEnabled:         true,
		ClarifyModel:           "gpt-5.2",
	}
}

// Validate checks field constraints and roster consistency.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.RequestsPerSecond > 0 && c.RateBurst < 1 {
		return errors.New("rate_burst must be at least 1 when requests_per_second is set")
	}
	if c.BreakerThreshold > 0 && c.BreakerCooldownSeconds < 1 {
		return errors.New("breaker_cooldown_seconds must be at least 1 when breaker_threshold is set")
	}
	seen := make(map[string]bool, len(c.Providers))
	for _, p := range c.Providers {
		if seen[p.Name] {
			return &DuplicateProviderError{Name: p.Name}
		}
		seen[p.Name] = true
	}
	return nil
}

// DuplicateProviderError reports a roster entry whose name collides
// with an earlier entry.
type DuplicateProviderError struct{ Name string }

func (e *DuplicateProviderError) Error() string {
	return "duplicate provider name " + e.Name + " in configuration"
}
