package llm

import (
	"fmt"
	"net/url"
	"time"
)

// Valid ranges for common request parameters, shared by both protocol
// families.
const (
	// MinTemperature is the minimum allowed temperature.
	MinTemperature = 0.0
	// MaxTemperature is the maximum allowed temperature. Set to 2.0 to
	// accommodate OpenAI-compatible services.
	MaxTemperature = 2.0
	// MinTopP is the minimum allowed Top-P value.
	MinTopP = 0.0
	// MaxTopP is the maximum allowed Top-P value.
	MaxTopP = 1.0
	// DefaultMaxTokens is the fallback response length bound.
	DefaultMaxTokens = 1000
	// MinTimeout is the minimum allowed request timeout.
	MinTimeout = 1 * time.Second
	// MaxTimeout is the maximum allowed request timeout.
	MaxTimeout = 10 * time.Minute
)

// IsValidTemperature checks the temperature is within [0.0, 2.0].
func IsValidTemperature(val float64) bool {
	return val >= MinTemperature && val <= MaxTemperature
}

// IsValidTopP checks the top_p value is within [0.0, 1.0].
func IsValidTopP(val float64) bool {
	return val >= MinTopP && val <= MaxTopP
}

// IsPositiveInt checks the value is positive.
func IsPositiveInt(val int) bool { return val > 0 }

// IsNonEmptyString checks the string is non-empty.
func IsNonEmptyString(val string) bool { return val != "" }

// ValidateBaseURL validates and normalizes a base URL. The empty string
// is valid and means the provider's default endpoint.
func ValidateBaseURL(baseURL string) (string, error) {
	if baseURL == "" {
		return "", nil
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return "", fmt.Errorf("URL scheme must be http or https, got: %q", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return "", fmt.Errorf("URL must include a host")
	}

	return parsedURL.String(), nil
}

// ValidateTimeout clamps a timeout into [MinTimeout, MaxTimeout].
// Zero or negative means the system default and is returned as zero.
func ValidateTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return 0
	}
	if timeout < MinTimeout {
		return MinTimeout
	}
	if timeout > MaxTimeout {
		return MaxTimeout
	}
	return timeout
}

// ClampFloat64 clamps val into [min, max].
func ClampFloat64(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
