package arena

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-arena/internal/domain"
)

// judgeOutcome is one judge's slot in the judging barrier.
type judgeOutcome struct {
	ranking domain.JudgeRanking
	ok      bool
	reason  string
}

// JudgeAll runs one judging call per judge concurrently, each against
// the same prompt built from the fixed competitor listing order. A
// judge's call failure or parse failure excludes only that judge; its
// reason is recorded for observability and the round continues.
//
// Valid rankings are returned in judge listing order so output is
// deterministic given identical inputs.
func JudgeAll(
	ctx context.Context,
	question string,
	competitors []domain.Competitor,
	judges []Provider,
	logger *slog.Logger,
) (rankings []domain.JudgeRanking, failures []domain.JudgeFailure) {
	// The prompt is built once: every judge must see competitors in the
	// identical order.
	prompt := BuildJudgePrompt(question, competitors)

	names := make([]string, len(competitors))
	for i, c := range competitors {
		names[i] = c.Name
	}

	outcomes := make([]judgeOutcome, len(judges))

	g, gctx := errgroup.WithContext(ctx)
	for i, j := range judges {
		g.Go(func() error {
			options := map[string]any{}
			if j.MaxTokens > 0 {
				options["max_tokens"] = j.MaxTokens
			}

			response, err := j.Client.Complete(gctx, prompt, options)
			if err != nil {
				outcomes[i] = judgeOutcome{reason: err.Error()}
				logger.Warn("judge call failed",
					slog.String("judge", j.Name),
					slog.String("error", err.Error()))
				return nil
			}

			ranking, err := ParseRanking(j.Name, response, names)
			if err != nil {
				outcomes[i] = judgeOutcome{reason: err.Error()}
				logger.Warn("judge returned unusable ranking",
					slog.String("judge", j.Name),
					slog.String("error", err.Error()))
				return nil
			}

			outcomes[i] = judgeOutcome{ranking: ranking, ok: true}
			return nil
		})
	}
	_ = g.Wait()

	for i, j := range judges {
		if outcomes[i].ok {
			rankings = append(rankings, outcomes[i].ranking)
		} else {
			failures = append(failures, domain.JudgeFailure{Judge: j.Name, Reason: outcomes[i].reason})
		}
	}
	return rankings, failures
}
