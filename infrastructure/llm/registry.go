// Registry management for multi-provider arenas. The registry holds an
// ordered table of provider specifications, resolves API keys from the
// environment, and lazily constructs clients for the providers that are
// actually credentialed. Listing order is preserved everywhere so the
// arena sees a deterministic competitor order.
package llm

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/ahrav/go-arena/internal/ports"
)

// ProviderSpec describes one provider entry in the arena roster.
type ProviderSpec struct {
	// Name is the display name used on the leaderboard.
	Name string
	// Model is the provider-specific model identifier.
	Model string
	// Kind selects the wire protocol implementation (openai, anthropic).
	Kind string
	// EnvVar names the environment variable holding the API key.
	EnvVar string
	// APIKey, when set, takes precedence over EnvVar.
	APIKey string
	// BaseURL overrides the default API endpoint. Used to reach
	// OpenAI-compatible gateways for third-party providers.
	BaseURL string
	// Optional providers are silently skipped when no key is present.
	// Required providers cause a registry error instead.
	Optional bool
	// MaxTokens caps the completion length for this provider.
	MaxTokens int
}

// resolveKey returns the API key for this spec, preferring the explicit
// value over the environment.
func (s ProviderSpec) resolveKey() string {
	if s.APIKey != "" {
		return s.APIKey
	}
	if s.EnvVar == "" {
		return ""
	}
	return os.Getenv(s.EnvVar)
}

// RegisteredClient pairs a constructed client with its roster entry.
type RegisteredClient struct {
	Spec   ProviderSpec
	Client *Client
}

// Registry manages the arena's provider roster. Clients are created
// lazily on first request and cached for reuse.
type Registry struct {
	specs      []ProviderSpec
	timeout    time.Duration
	middleware []Middleware

	mu      sync.RWMutex
	clients map[string]*Client
}

// RegistryConfig holds shared settings applied to every client the
// registry constructs.
type RegistryConfig struct {
	// Specs is the ordered provider roster.
	Specs []ProviderSpec
	// Timeout sets the per-request timeout for all providers.
	Timeout time.Duration
	// Middleware is applied to all providers in listing order.
	Middleware []Middleware
}

// NewRegistry creates a registry from the given roster. Names must be
// unique; kinds must have a registered provider factory.
func NewRegistry(config RegistryConfig) (*Registry, error) {
	if len(config.Specs) == 0 {
		return nil, fmt.Errorf("provider roster cannot be empty")
	}

	seen := make(map[string]bool, len(config.Specs))
	for _, spec := range config.Specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("provider name cannot be empty")
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("duplicate provider name %q", spec.Name)
		}
		seen[spec.Name] = true

		if _, ok := providerFactories[spec.Kind]; !ok {
			return nil, fmt.Errorf("provider %q: unknown kind %q", spec.Name, spec.Kind)
		}
		if spec.Model == "" {
			return nil, fmt.Errorf("provider %q: model cannot be empty", spec.Name)
		}
	}

	return &Registry{
		specs:      config.Specs,
		timeout:    config.Timeout,
		middleware: config.Middleware,
		clients:    make(map[string]*Client),
	}, nil
}

// Specs returns the full roster in listing order.
func (r *Registry) Specs() []ProviderSpec {
	out := make([]ProviderSpec, len(r.specs))
	copy(out, r.specs)
	return out
}

// Credentialed splits the roster into providers with a resolvable API
// key and those without, both in listing order.
func (r *Registry) Credentialed() (available, skipped []ProviderSpec) {
	for _, spec := range r.specs {
		if spec.resolveKey() == "" {
			skipped = append(skipped, spec)
			continue
		}
		available = append(available, spec)
	}
	return available, skipped
}

// Clients constructs (or returns cached) clients for every credentialed
// provider, in listing order. A required provider without a key is an
// error; optional ones are reported in the skipped list.
func (r *Registry) Clients() (clients []RegisteredClient, skipped []ProviderSpec, err error) {
	available, skipped := r.Credentialed()

	for _, spec := range skipped {
		if !spec.Optional {
			return nil, nil, fmt.Errorf(
				"required provider %q has no API key (set %s): %w",
				spec.Name, spec.EnvVar, ports.ErrMissingCredential)
		}
	}

	for _, spec := range available {
		client, err := r.clientFor(spec)
		if err != nil {
			return nil, nil, fmt.Errorf("provider %q: %w", spec.Name, err)
		}
		clients = append(clients, RegisteredClient{Spec: spec, Client: client})
	}
	return clients, skipped, nil
}

func (r *Registry) clientFor(spec ProviderSpec) (*Client, error) {
	r.mu.RLock()
	if client, ok := r.clients[spec.Name]; ok {
		r.mu.RUnlock()
		return client, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if client, ok := r.clients[spec.Name]; ok {
		return client, nil
	}

	config := ClientConfig{
		APIKey:     spec.resolveKey(),
		Model:      spec.Model,
		BaseURL:    spec.BaseURL,
		Timeout:    r.timeout,
		Middleware: append([]Middleware{}, r.middleware...),
	}

	client, err := NewClient(spec.Kind, config)
	if err != nil {
		return nil, err
	}

	r.clients[spec.Name] = client
	return client, nil
}

// LogKeyStatus reports which providers are credentialed, for startup
// diagnostics.
func (r *Registry) LogKeyStatus(logger *slog.Logger) {
	for _, spec := range r.specs {
		if spec.resolveKey() == "" {
			logger.Warn("provider has no API key, skipping",
				"provider", spec.Name, "env_var", spec.EnvVar)
			continue
		}
		logger.Info("provider credentialed",
			"provider", spec.Name, "model", spec.Model)
	}
}
