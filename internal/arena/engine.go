package arena

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahrav/go-arena/internal/domain"
	"github.com/ahrav/go-arena/internal/ports"
)

// DefaultMaxInputLength bounds the question length in runes before the
// pipeline begins.
const DefaultMaxInputLength = 2000

// Config carries the run-level knobs and collaborators for an Arena.
type Config struct {
	// Logger receives stage progress and per-item failure diagnostics.
	// Defaults to slog.Default when nil.
	Logger *slog.Logger

	// Metrics, when non-nil, receives run latency and outcome counters.
	Metrics ports.MetricsCollector

	// Skipped names providers that were filtered out before any call
	// was attempted (missing credentials); carried through to the
	// RunResult for display.
	Skipped []string

	// MaxInputLength bounds the question in runes.
	// Defaults to DefaultMaxInputLength when zero.
	MaxInputLength int
}

// Arena orchestrates one full run: query fan-out, judging fan-out, and
// rank aggregation. It is safe for concurrent runs; all run state is
// local to Run.
type Arena struct {
	providers []Provider
	cfg       Config
}

// New creates an Arena over the given credentialed providers.
// Provider order is significant: it fixes the competitor listing order
// used in every judge prompt and for leaderboard tie-breaking.
func New(providers []Provider, cfg Config) (*Arena, error) {
	seen := make(map[string]bool, len(providers))
	for i, p := range providers {
		if p.Name == "" {
			return nil, fmt.Errorf("provider %d: name cannot be empty", i)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("provider %d: duplicate name %q", i, p.Name)
		}
		seen[p.Name] = true
		if p.Client == nil {
			return nil, fmt.Errorf("provider %q: client cannot be nil", p.Name)
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxInputLength <= 0 {
		cfg.MaxInputLength = DefaultMaxInputLength
	}
	return &Arena{providers: providers, cfg: cfg}, nil
}

// Run executes the full pipeline for one question and returns the
// fully-populated RunResult for display collaborators.
//
// Per-provider and per-judge failures are absorbed and reported as
// metadata on the result. Only two conditions are fatal, and both still
// return a partially-populated result so callers can render failure
// reasons: domain.ErrInsufficientCompetitors when fewer than two
// providers answered, and domain.ErrNoValidJudging when no judge
// produced a usable ranking.
func (a *Arena) Run(ctx context.Context, question string) (domain.RunResult, error) {
	start := time.Now()

	question = truncateRunes(strings.TrimSpace(question), a.cfg.MaxInputLength)
	if question == "" {
		return domain.RunResult{}, domain.ErrEmptyQuestion
	}

	result := domain.RunResult{Question: question, Skipped: a.cfg.Skipped}

	a.cfg.Logger.Info("querying providers",
		slog.Int("providers", len(a.providers)),
		slog.Int("skipped", len(a.cfg.Skipped)))

	answers, failed := QueryAll(ctx, question, a.providers, a.cfg.Logger)
	result.Failed = failed

	// The competitor listing order is fixed here, from provider order,
	// and held constant for every judge prompt in the run.
	var judges []Provider
	for _, p := range a.providers {
		answer, ok := answers[p.Name]
		if !ok {
			continue
		}
		result.Competitors = append(result.Competitors, domain.Competitor{
			Name:     p.Name,
			Answer:   answer,
			CanJudge: true,
		})
		judges = append(judges, p)
	}

	if len(result.Competitors) < 2 {
		a.observeRun(start, result, "insufficient_competitors")
		return result, fmt.Errorf("%w: got %d", domain.ErrInsufficientCompetitors, len(result.Competitors))
	}

	a.cfg.Logger.Info("judging answers",
		slog.Int("competitors", len(result.Competitors)),
		slog.Int("judges", len(judges)))

	rankings, judgeFailures := JudgeAll(ctx, question, result.Competitors, judges, a.cfg.Logger)
	result.JudgeFailures = judgeFailures

	if len(rankings) == 0 {
		a.observeRun(start, result, "no_valid_judging")
		return result, domain.ErrNoValidJudging
	}

	result.Leaderboard = BuildLeaderboard(rankings, result.CompetitorNames())
	result.Timestamp = time.Now()

	a.observeRun(start, result, "ok")
	return result, nil
}

// observeRun reports run latency and outcome to the metrics collector.
func (a *Arena) observeRun(start time.Time, result domain.RunResult, status string) {
	if a.cfg.Metrics == nil {
		return
	}
	labels := map[string]string{"status": status}
	a.cfg.Metrics.RecordLatency("arena_run", time.Since(start), labels)
	a.cfg.Metrics.RecordCounter("arena_runs_total", 1, labels)
	a.cfg.Metrics.RecordGauge("arena_competitors", float64(len(result.Competitors)), nil)
	a.cfg.Metrics.RecordGauge("arena_valid_rankings", float64(len(result.Leaderboard.Rankings)), nil)
}

// truncateRunes bounds s to at most n runes without splitting one.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
