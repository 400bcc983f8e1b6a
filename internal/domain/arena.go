// Package domain contains pure, dependency-free domain models and types
// for the arena pipeline.
package domain

import (
	"fmt"
	"time"
)

// Competitor is a provider that produced an answer to the arena question
// and is therefore eligible to be ranked and to act as a judge.
// Competitors are created once the query fan-out completes and are
// immutable for the remainder of the run.
type Competitor struct {
	// Name uniquely identifies the competitor within a run.
	Name string `json:"name"`

	// Answer is the text the competitor produced for the question.
	Answer string `json:"answer"`

	// CanJudge indicates the competitor may also rank all answers.
	// Every competitor that answered can judge; the flag exists so a
	// caller can bench a provider from the judging round without
	// removing it from the competition.
	CanJudge bool `json:"can_judge"`
}

// RankedEntry is a single (rank, competitor) pair within a judge's ranking.
// Rank 1 is best.
type RankedEntry struct {
	Rank       int    `json:"rank"`
	Competitor string `json:"competitor"`
}

// JudgeRanking is one judge's complete ordering of all competitors.
// A ranking is valid only if its entries form a permutation over the
// full competitor set: no omissions, no duplicates, no foreign names.
type JudgeRanking struct {
	// Judge is the name of the competitor that produced this ranking.
	Judge string `json:"judge"`

	// Entries is sorted ascending by Rank and covers every competitor.
	Entries []RankedEntry `json:"entries"`
}

// Competitors returns the set of competitor names in the ranking,
// in rank order.
func (r JudgeRanking) Competitors() []string {
	names := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		names[i] = e.Competitor
	}
	return names
}

// Validate checks the permutation invariant: the ranking must assign
// exactly one rank to every competitor in the given listing, with ranks
// forming 1..N. An invalid ranking is rejected whole, never truncated.
// All violations are collected into a single *ValidationError.
func (r JudgeRanking) Validate(competitors []string) error {
	ve := NewValidationError(fmt.Sprintf("ranking by %s", r.Judge))

	if len(r.Entries) != len(competitors) {
		ve.AddError(fmt.Sprintf("covers %d competitors, want %d", len(r.Entries), len(competitors)))
		return ve
	}

	known := make(map[string]bool, len(competitors))
	for _, name := range competitors {
		known[name] = true
	}

	seenName := make(map[string]bool, len(r.Entries))
	seenRank := make(map[int]bool, len(r.Entries))
	for _, e := range r.Entries {
		if !known[e.Competitor] {
			ve.AddError(fmt.Sprintf("names unknown competitor %q", e.Competitor))
		}
		if seenName[e.Competitor] {
			ve.AddError(fmt.Sprintf("ranks %q twice", e.Competitor))
		}
		if e.Rank < 1 || e.Rank > len(competitors) || seenRank[e.Rank] {
			ve.AddError(fmt.Sprintf("has invalid rank %d", e.Rank))
		}
		seenName[e.Competitor] = true
		seenRank[e.Rank] = true
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}

// JudgeFailure records a judge that was excluded from aggregation,
// together with the reason, for operator visibility.
type JudgeFailure struct {
	Judge  string `json:"judge"`
	Reason string `json:"reason"`
}

// LeaderboardEntry is a competitor's final standing after averaging
// all valid judge rankings.
type LeaderboardEntry struct {
	// Position is the 1-based standing on the leaderboard.
	Position int `json:"position"`

	// Competitor is the ranked competitor's name.
	Competitor string `json:"competitor"`

	// MeanRank is the arithmetic mean of the ranks assigned to this
	// competitor across all valid judge rankings. Lower is better.
	MeanRank float64 `json:"mean_rank"`
}

// Leaderboard is the final ordered standing of all competitors,
// sorted ascending by mean rank with ties broken by original
// competitor listing order.
type Leaderboard struct {
	Entries []LeaderboardEntry `json:"entries"`

	// Rankings holds every valid per-judge ranking that contributed
	// to the averages, retained for transparency and display.
	Rankings []JudgeRanking `json:"rankings"`
}

// Winner returns the top leaderboard entry.
// The second return value is false if the leaderboard is empty.
func (l Leaderboard) Winner() (LeaderboardEntry, bool) {
	if len(l.Entries) == 0 {
		return LeaderboardEntry{}, false
	}
	return l.Entries[0], true
}

// RunResult is the fully-populated outcome of one arena run, exposed
// to display collaborators. It carries everything needed to render
// answers, per-judge rankings, failures, and the final leaderboard.
type RunResult struct {
	// Question is the (possibly clarified) question that was asked.
	Question string `json:"question"`

	// Competitors lists every provider that answered, in the fixed
	// order embedded in every judge prompt.
	Competitors []Competitor `json:"competitors"`

	// Skipped lists providers that were filtered out before any call
	// was attempted, typically for a missing credential.
	Skipped []string `json:"skipped,omitempty"`

	// Failed lists providers that were called but produced no answer.
	Failed []string `json:"failed,omitempty"`

	// JudgeFailures records judges whose rankings were excluded.
	JudgeFailures []JudgeFailure `json:"judge_failures,omitempty"`

	// Leaderboard is the aggregated final standing.
	Leaderboard Leaderboard `json:"leaderboard"`

	// Timestamp records when the run completed.
	Timestamp time.Time `json:"timestamp"`
}

// CompetitorNames returns the fixed competitor listing order for the run.
func (r RunResult) CompetitorNames() []string {
	names := make([]string, len(r.Competitors))
	for i, c := range r.Competitors {
		names[i] = c.Name
	}
	return names
}
