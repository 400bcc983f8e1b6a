package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-arena/infrastructure/llm"
	"github.com/ahrav/go-arena/internal/config"
)

func TestBuildRegistry_DefaultRoster(t *testing.T) {
	registry, err := buildRegistry(config.New(), nil)
	require.NoError(t, err)
	assert.Len(t, registry.Specs(), len(llm.DefaultProviderSpecs))
}

func TestBuildRegistry_ConfiguredRoster(t *testing.T) {
	t.Setenv("ONLY_KEY", "k")

	cfg := config.New()
	cfg.Providers = []config.Provider{
		{Name: "Only", Model: "test-model", Kind: "openai", EnvVar: "ONLY_KEY"},
	}

	registry, err := buildRegistry(cfg, nil)
	require.NoError(t, err)

	specs := registry.Specs()
	require.Len(t, specs, 1)
	assert.Equal(t, "Only", specs[0].Name)
	assert.Equal(t, llm.DefaultMaxCompletionTokens, specs[0].MaxTokens)

	// Client construction applies the full chain, including the retry,
	// rate-limit, and breaker layers enabled by the default knobs.
	clients, skipped, err := registry.Clients()
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, clients, 1)
	assert.Equal(t, "test-model", clients[0].Client.GetModel())
}

func TestBuildRegistry_ResilienceDisabled(t *testing.T) {
	t.Setenv("ONLY_KEY", "k")

	cfg := config.New()
	cfg.MaxRetries = 0
	cfg.RequestsPerSecond = 0
	cfg.RateBurst = 0
	cfg.BreakerThreshold = 0
	cfg.BreakerCooldownSeconds = 0
	cfg.Providers = []config.Provider{
		{Name: "Only", Model: "test-model", Kind: "openai", EnvVar: "ONLY_KEY"},
	}

	registry, err := buildRegistry(cfg, nil)
	require.NoError(t, err)

	clients, _, err := registry.Clients()
	require.NoError(t, err)
	require.Len(t, clients, 1)
}
