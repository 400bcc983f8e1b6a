// Command arena pits multiple LLM providers against each other on a
// single question. Every provider answers, every answering provider
// ranks all answers, and the per-judge rankings are averaged into a
// final leaderboard.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ahrav/go-arena/infrastructure/llm"
	"github.com/ahrav/go-arena/infrastructure/middleware"
	"github.com/ahrav/go-arena/internal/arena"
	"github.com/ahrav/go-arena/internal/clarify"
	"github.com/ahrav/go-arena/internal/config"
	"github.com/ahrav/go-arena/internal/domain"
	"github.com/ahrav/go-arena/internal/ports"
)

// Retry backoff bounds. The per-attempt timeout comes from config;
// these only shape the wait between attempts.
const (
	retryBaseDelay = 500 * time.Millisecond
	retryMaxDelay  = 8 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "arena: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		question  = flag.String("question", "", "Question to ask; prompts interactively when empty")
		noClarify = flag.Bool("no-clarify", false, "Skip the question refinement loop")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	var collector ports.MetricsCollector
	if cfg.MetricsAddr != "" {
		collector = middleware.NewPrometheusMetrics()
		go serveMetrics(cfg.MetricsAddr, logger)
	}

	registry, err := buildRegistry(cfg, collector)
	if err != nil {
		return err
	}
	registry.LogKeyStatus(logger)

	clients, skipped, err := registry.Clients()
	if err != nil {
		return err
	}

	ctx := context.Background()
	stdin := bufio.NewScanner(os.Stdin)

	q := strings.TrimSpace(*question)
	if q == "" {
		fmt.Print("\nEnter your question: ")
		if !stdin.Scan() {
			return errors.New("no question provided")
		}
		q = strings.TrimSpace(stdin.Text())
	}
	if q == "" {
		return errors.New("no question provided")
	}

	if cfg.ClarifyEnabled && !*noClarify {
		q, err = clarifyQuestion(ctx, cfg, q, stdin, logger)
		if err != nil {
			// Refinement is best effort; run with the question as given.
			logger.Warn("clarification unavailable", "error", err)
		}
	}

	providers := make([]arena.Provider, len(clients))
	for i, rc := range clients {
		providers[i] = arena.Provider{
			Name:      rc.Spec.Name,
			Client:    rc.Client,
			MaxTokens: rc.Spec.MaxTokens,
		}
	}

	skippedNames := make([]string, len(skipped))
	for i, spec := range skipped {
		skippedNames[i] = spec.Name
	}

	eng, err := arena.New(providers, arena.Config{
		Logger:         logger,
		Metrics:        collector,
		Skipped:        skippedNames,
		MaxInputLength: cfg.MaxInputLength,
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n## Final Question\n\n%s\n\n", q)

	result, err := eng.Run(ctx, q)
	render(result)
	return err
}

// buildRegistry assembles the provider roster from configuration,
// falling back to the built-in roster, and wires the shared middleware
// chain onto every client.
func buildRegistry(cfg *config.Config, collector ports.MetricsCollector) (*llm.Registry, error) {
	specs := llm.DefaultProviderSpecs
	if len(cfg.Providers) > 0 {
		specs = make([]llm.ProviderSpec, len(cfg.Providers))
		for i, p := range cfg.Providers {
			maxTokens := p.MaxTokens
			if maxTokens == 0 {
				maxTokens = llm.DefaultMaxCompletionTokens
			}
			specs[i] = llm.ProviderSpec{
				Name:      p.Name,
				Model:     p.Model,
				Kind:      p.Kind,
				EnvVar:    p.EnvVar,
				BaseURL:   p.BaseURL,
				Optional:  p.Optional,
				MaxTokens: maxTokens,
			}
		}
	}

	// Outermost first: tracing spans and retries wrap the per-attempt
	// timeout, so every attempt gets the full budget; the limiter and
	// breaker sit closest to the wire so retries and probes are
	// throttled like any other request.
	chain := []llm.Middleware{llm.TracingMiddleware()}
	if cfg.MaxRetries > 0 {
		chain = append(chain, llm.RetryMiddleware(cfg.MaxRetries, retryBaseDelay, retryMaxDelay))
	}
	chain = append(chain, llm.TimeoutMiddleware(cfg.QueryTimeout()))
	if cfg.RequestsPerSecond > 0 {
		chain = append(chain, llm.RateLimiterMiddleware(cfg.RequestsPerSecond, cfg.RateBurst))
	}
	if cfg.BreakerThreshold > 0 {
		chain = append(chain, llm.CircuitBreakerMiddleware(cfg.BreakerThreshold, cfg.BreakerCooldown()))
	}
	if collector != nil {
		chain = append([]llm.Middleware{llm.MetricsMiddleware(collector)}, chain...)
	}

	return llm.NewRegistry(llm.RegistryConfig{
		Specs:      specs,
		Timeout:    cfg.QueryTimeout(),
		Middleware: chain,
	})
}

// clarifyQuestion drives the interactive refinement loop on stdin.
func clarifyQuestion(ctx context.Context, cfg *config.Config, question string, stdin *bufio.Scanner, logger *slog.Logger) (string, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return question, errors.New("OPENAI_API_KEY not set for the analyst model")
	}

	analyst, err := llm.NewClient("openai", llm.ClientConfig{
		APIKey:  apiKey,
		Model:   cfg.ClarifyModel,
		Timeout: cfg.QueryTimeout(),
	})
	if err != nil {
		return question, err
	}

	session, err := clarify.NewSession(analyst, logger)
	if err != nil {
		return question, err
	}

	turn, err := session.Start(ctx, question)
	if err != nil {
		return question, err
	}

	for turn.State == clarify.StateAwaitingInput {
		fmt.Printf("\n### Clarifying questions\n\n%s\n\nYour answer: ", turn.Prompts)
		if !stdin.Scan() {
			break
		}
		prev := session.Question()
		turn, err = session.Answer(ctx, stdin.Text())
		if err != nil {
			return session.Question(), err
		}
		if refined := session.Question(); refined != prev {
			fmt.Printf("\n### Refined question\n\n%s\n", refined)
		}
	}
	return session.Question(), nil
}

// render prints the run outcome as Markdown. Partial results from
// failed runs still render their answers and failure metadata.
func render(result domain.RunResult) {
	if answers := arena.RenderAnswers(result); answers != "" {
		fmt.Println(answers)
		fmt.Println()
	}
	if len(result.Leaderboard.Rankings) > 0 {
		fmt.Println(arena.RenderRankings(result))
		fmt.Println()
	}
	if winner := arena.RenderWinner(result); winner != "" {
		fmt.Println(winner)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func serveMetrics(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server failed", "error", err)
	}
}
