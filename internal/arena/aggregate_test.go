package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-arena/internal/domain"
)

func ranking(judge string, pairs ...domain.RankedEntry) domain.JudgeRanking {
	return domain.JudgeRanking{Judge: judge, Entries: pairs}
}

func entry(rank int, name string) domain.RankedEntry {
	return domain.RankedEntry{Rank: rank, Competitor: name}
}

func TestBuildLeaderboard_MeanRanks(t *testing.T) {
	competitors := []string{"A", "B", "C"}
	rankings := []domain.JudgeRanking{
		ranking("A", entry(1, "A"), entry(2, "B"), entry(3, "C")),
		ranking("B", entry(1, "B"), entry(2, "A"), entry(3, "C")),
		ranking("C", entry(1, "A"), entry(2, "C"), entry(3, "B")),
	}

	lb := BuildLeaderboard(rankings, competitors)

	require.Len(t, lb.Entries, 3)
	assert.Equal(t, "A", lb.Entries[0].Competitor)
	assert.InDelta(t, 4.0/3.0, lb.Entries[0].MeanRank, 1e-9)
	assert.Equal(t, "B", lb.Entries[1].Competitor)
	assert.InDelta(t, 2.0, lb.Entries[1].MeanRank, 1e-9)
	assert.Equal(t, "C", lb.Entries[2].Competitor)
	assert.InDelta(t, 8.0/3.0, lb.Entries[2].MeanRank, 1e-9)

	for i, e := range lb.Entries {
		assert.Equal(t, i+1, e.Position)
	}
	assert.Equal(t, rankings, lb.Rankings)
}

// Tied mean ranks fall back to the original competitor listing order.
func TestBuildLeaderboard_TiesPreserveListingOrder(t *testing.T) {
	competitors := []string{"A", "B", "C"}

	// Three rotations: every competitor averages exactly 2.0.
	rankings := []domain.JudgeRanking{
		ranking("A", entry(1, "A"), entry(2, "B"), entry(3, "C")),
		ranking("B", entry(1, "B"), entry(2, "C"), entry(3, "A")),
		ranking("C", entry(1, "C"), entry(2, "A"), entry(3, "B")),
	}

	lb := BuildLeaderboard(rankings, competitors)

	require.Len(t, lb.Entries, 3)
	for _, e := range lb.Entries {
		assert.InDelta(t, 2.0, e.MeanRank, 1e-9)
	}
	assert.Equal(t, "A", lb.Entries[0].Competitor)
	assert.Equal(t, "B", lb.Entries[1].Competitor)
	assert.Equal(t, "C", lb.Entries[2].Competitor)
}

func TestBuildLeaderboard_Deterministic(t *testing.T) {
	competitors := []string{"A", "B", "C", "D"}
	rankings := []domain.JudgeRanking{
		ranking("A", entry(1, "B"), entry(2, "A"), entry(3, "D"), entry(4, "C")),
		ranking("C", entry(1, "B"), entry(2, "D"), entry(3, "A"), entry(4, "C")),
	}

	first := BuildLeaderboard(rankings, competitors)
	for range 10 {
		assert.Equal(t, first, BuildLeaderboard(rankings, competitors))
	}
}

func TestBuildLeaderboard_SingleJudge(t *testing.T) {
	competitors := []string{"A", "B"}
	rankings := []domain.JudgeRanking{
		ranking("B", entry(1, "B"), entry(2, "A")),
	}

	lb := BuildLeaderboard(rankings, competitors)

	require.Len(t, lb.Entries, 2)
	assert.Equal(t, domain.LeaderboardEntry{Position: 1, Competitor: "B", MeanRank: 1}, lb.Entries[0])
	assert.Equal(t, domain.LeaderboardEntry{Position: 2, Competitor: "A", MeanRank: 2}, lb.Entries[1])

	winner, ok := lb.Winner()
	require.True(t, ok)
	assert.Equal(t, "B", winner.Competitor)
}
