package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequestOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		options := ParseRequestOptions(nil, "default-model")

		assert.Equal(t, DefaultMaxTokens, options.MaxTokens)
		assert.Equal(t, "default-model", options.Model)
		assert.Nil(t, options.Temperature)
		assert.Nil(t, options.TopP)
		assert.Empty(t, options.System)
	})

	t.Run("explicit values", func(t *testing.T) {
		options := ParseRequestOptions(map[string]any{
			"max_tokens":  256,
			"model":       "override",
			"temperature": 0.7,
			"top_p":       0.9,
			"system":      "be brief",
		}, "default-model")

		assert.Equal(t, 256, options.MaxTokens)
		assert.Equal(t, "override", options.Model)
		require.NotNil(t, options.Temperature)
		assert.Equal(t, 0.7, *options.Temperature)
		require.NotNil(t, options.TopP)
		assert.Equal(t, 0.9, *options.TopP)
		assert.Equal(t, "be brief", options.System)
	})

	t.Run("invalid values fall back", func(t *testing.T) {
		options := ParseRequestOptions(map[string]any{
			"max_tokens":  -5,
			"model":       "",
			"temperature": 9.0,
			"top_p":       -0.5,
		}, "default-model")

		assert.Equal(t, DefaultMaxTokens, options.MaxTokens)
		assert.Equal(t, "default-model", options.Model)
		assert.Nil(t, options.Temperature)
		assert.Nil(t, options.TopP)
	})

	t.Run("wrong types fall back", func(t *testing.T) {
		options := ParseRequestOptions(map[string]any{
			"max_tokens":  "lots",
			"temperature": "hot",
		}, "default-model")

		assert.Equal(t, DefaultMaxTokens, options.MaxTokens)
		assert.Nil(t, options.Temperature)
	})
}

func TestTokenCounter(t *testing.T) {
	tc := NewTokenCounter()

	assert.Equal(t, 0, tc.EstimateTokens(""))
	assert.Equal(t, 25, tc.EstimateTokens(string(make([]byte, 100))))

	// Actual counts win; estimation is the fallback.
	assert.Equal(t, 42, tc.GetTokenCount(42, "ignored"))
	assert.Equal(t, 1, tc.GetTokenCount(0, "four"))
}

func TestValidateBaseURL(t *testing.T) {
	url, err := ValidateBaseURL("")
	require.NoError(t, err)
	assert.Empty(t, url)

	url, err = ValidateBaseURL("https://api.example.com/v1")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v1", url)

	_, err = ValidateBaseURL("ftp://api.example.com")
	assert.Error(t, err)

	_, err = ValidateBaseURL("https://")
	assert.Error(t, err)
}

func TestValidateTimeout(t *testing.T) {
	assert.Equal(t, time.Duration(0), ValidateTimeout(0))
	assert.Equal(t, time.Duration(0), ValidateTimeout(-time.Second))
	assert.Equal(t, MinTimeout, ValidateTimeout(time.Millisecond))
	assert.Equal(t, MaxTimeout, ValidateTimeout(time.Hour))
	assert.Equal(t, 30*time.Second, ValidateTimeout(30*time.Second))
}

func TestProviderConstructors_RejectBadConfig(t *testing.T) {
	for _, kind := range []string{"openai", "anthropic"} {
		factory, ok := providerFactories[kind]
		require.True(t, ok, kind)

		_, err := factory(ClientConfig{Model: "m"})
		assert.ErrorIs(t, err, ErrEmptyAPIKey, kind)

		_, err = factory(ClientConfig{APIKey: "k", Model: "m", BaseURL: "ftp://bad"})
		assert.Error(t, err, kind)

		core, err := factory(ClientConfig{APIKey: "k", Model: "m", Timeout: 10 * time.Second})
		require.NoError(t, err, kind)
		assert.Equal(t, "m", core.GetModel(), kind)
	}
}
