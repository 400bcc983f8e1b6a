package llm

// RequestOptions is the standardized set of per-request parameters
// shared by both protocol families.
type RequestOptions struct {
	// MaxTokens bounds the generated response length.
	MaxTokens int
	// Model overrides the client's configured model for this request.
	Model string
	// Temperature controls output randomness. Nil means the provider default.
	Temperature *float64
	// TopP enables nucleus sampling. Nil means the provider default.
	TopP *float64
	// System supplies a system instruction when the provider supports one.
	System string
}

// ParseRequestOptions extracts and validates request parameters from an
// options map, falling back to defaults for missing or invalid entries.
func ParseRequestOptions(opts map[string]any, defaultModel string) RequestOptions {
	options := RequestOptions{
		MaxTokens: ExtractOptionalInt(opts, "max_tokens", DefaultMaxTokens, IsPositiveInt),
		Model:     ExtractOptionalString(opts, "model", defaultModel, IsNonEmptyString),
		System:    ExtractOptionalString(opts, "system", "", nil),
	}

	if temp := ExtractOptionalFloat64(opts, "temperature", -1, IsValidTemperature); temp != -1 {
		options.Temperature = &temp
	}
	if topP := ExtractOptionalFloat64(opts, "top_p", -1, IsValidTopP); topP != -1 {
		options.TopP = &topP
	}

	return options
}

// TokenCounter estimates token counts when the provider response omits
// actual usage figures.
type TokenCounter struct {
	// CharactersPerToken is an approximation, tuned for English text.
	CharactersPerToken float64
}

// NewTokenCounter creates a TokenCounter with the default ratio.
func NewTokenCounter() *TokenCounter {
	return &TokenCounter{CharactersPerToken: 4.0}
}

// EstimateTokens returns an estimated token count for text.
func (tc *TokenCounter) EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return int(float64(len(text)) / tc.CharactersPerToken)
}

// GetTokenCount prefers the actual count from the API, falling back to
// estimation when it is zero.
func (tc *TokenCounter) GetTokenCount(actualCount int, text string) int {
	if actualCount > 0 {
		return actualCount
	}
	return tc.EstimateTokens(text)
}
