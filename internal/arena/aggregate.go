package arena

import (
	"sort"

	"github.com/ahrav/go-arena/internal/domain"
)

// BuildLeaderboard combines valid per-judge rankings into a single
// ordered leaderboard. Each competitor's score is the arithmetic mean
// of the ranks assigned to it across all rankings; because every valid
// ranking covers every competitor exactly once, the denominator is the
// same for all competitors.
//
// Entries are sorted ascending by mean rank (lower is better) with a
// stable sort, so ties fall back to the original competitor listing
// order and the output is deterministic given identical inputs.
//
// Callers must not pass zero rankings; the judging round signals that
// condition as domain.ErrNoValidJudging before aggregation.
func BuildLeaderboard(rankings []domain.JudgeRanking, competitors []string) domain.Leaderboard {
	totals := make(map[string]float64, len(competitors))
	for _, ranking := range rankings {
		for _, e := range ranking.Entries {
			totals[e.Competitor] += float64(e.Rank)
		}
	}

	entries := make([]domain.LeaderboardEntry, len(competitors))
	for i, name := range competitors {
		entries[i] = domain.LeaderboardEntry{
			Competitor: name,
			MeanRank:   totals[name] / float64(len(rankings)),
		}
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].MeanRank < entries[b].MeanRank
	})
	for i := range entries {
		entries[i].Position = i + 1
	}

	return domain.Leaderboard{Entries: entries, Rankings: rankings}
}
