package arena

import (
	"fmt"
	"strings"

	"github.com/ahrav/go-arena/internal/domain"
)

// RenderAnswers formats the per-provider answers section as Markdown,
// including skipped and failed providers so the reader sees the full
// roster outcome.
func RenderAnswers(result domain.RunResult) string {
	var b strings.Builder
	for _, c := range result.Competitors {
		fmt.Fprintf(&b, "### %s\n\n%s\n\n", c.Name, c.Answer)
	}
	for _, name := range result.Failed {
		fmt.Fprintf(&b, "**%s:** *Error — no response*\n\n", name)
	}
	for _, name := range result.Skipped {
		fmt.Fprintf(&b, "*Skipped %s — API key not set*\n\n", name)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderRankings formats each judge's ranking followed by the averaged
// leaderboard as Markdown.
func RenderRankings(result domain.RunResult) string {
	var b strings.Builder

	for _, ranking := range result.Leaderboard.Rankings {
		parts := make([]string, len(ranking.Entries))
		for i, entry := range ranking.Entries {
			parts[i] = fmt.Sprintf("%d. %s", entry.Rank, entry.Competitor)
		}
		fmt.Fprintf(&b, "**%s's ranking:** %s\n\n", ranking.Judge, strings.Join(parts, ", "))
	}
	for _, failure := range result.JudgeFailures {
		fmt.Fprintf(&b, "**%s:** *failed to judge (%s)*\n\n", failure.Judge, failure.Reason)
	}

	b.WriteString("## Final Averaged Rankings\n\n")
	for _, entry := range result.Leaderboard.Entries {
		fmt.Fprintf(&b, "**%d.** %s (avg rank: %.2f)\n\n",
			entry.Position, entry.Competitor, entry.MeanRank)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderWinner formats the winning response section, or an empty string
// when there is no leaderboard.
func RenderWinner(result domain.RunResult) string {
	winner, ok := result.Leaderboard.Winner()
	if !ok {
		return ""
	}
	for _, c := range result.Competitors {
		if c.Name == winner.Competitor {
			return fmt.Sprintf("## Winning Response — %s\n\n%s", c.Name, c.Answer)
		}
	}
	return ""
}
