package arena

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-arena/internal/ports"
)

// Provider pairs a competitor name with the client used to reach it.
// The fan-out stages treat the client as an opaque "send prompt, get
// text back" capability; protocol details live in infrastructure/llm.
type Provider struct {
	// Name is the unique display name used on the leaderboard.
	Name string

	// Client performs the actual completion calls.
	Client ports.LLMClient

	// MaxTokens bounds each answer's length. Zero means the provider
	// default.
	MaxTokens int
}

// queryOutcome is one provider's slot in the query barrier.
type queryOutcome struct {
	answer string
	ok     bool
}

// QueryAll issues the question to every provider concurrently and
// gathers the answers. No provider's request blocks the start of
// another's, and any per-call failure — network error, timeout, auth
// rejection, empty response — is absorbed into "no answer" for that
// provider rather than aborting the fan-out.
//
// It returns the answers keyed by provider name and the names of
// providers that failed, in listing order.
func QueryAll(
	ctx context.Context,
	question string,
	providers []Provider,
	logger *slog.Logger,
) (answers map[string]string, failed []string) {
	// Each goroutine writes only its own slot, so the barrier needs no
	// locking.
	outcomes := make([]queryOutcome, len(providers))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range providers {
		g.Go(func() error {
			options := map[string]any{}
			if p.MaxTokens > 0 {
				options["max_tokens"] = p.MaxTokens
			}

			answer, err := p.Client.Complete(gctx, question, options)
			if err != nil {
				logger.Warn("provider produced no answer",
					slog.String("provider", p.Name),
					slog.String("error", err.Error()))
				return nil
			}
			outcomes[i] = queryOutcome{answer: answer, ok: answer != ""}
			return nil
		})
	}
	// Group functions never return errors; the barrier always waits for
	// the full set so a slow provider delays only itself.
	_ = g.Wait()

	answers = make(map[string]string, len(providers))
	for i, p := range providers {
		if outcomes[i].ok {
			answers[p.Name] = outcomes[i].answer
		} else {
			failed = append(failed, p.Name)
		}
	}
	return answers, failed
}
