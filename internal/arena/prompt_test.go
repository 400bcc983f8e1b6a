package arena

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-arena/internal/domain"
)

func TestBuildJudgePrompt_ContainsAllParts(t *testing.T) {
	competitors := []domain.Competitor{
		{Name: "GPT-Alpha", Answer: "first answer"},
		{Name: "Claude-Beta", Answer: "second answer"},
		{Name: "Gemini-Gamma", Answer: "third answer"},
	}

	prompt := BuildJudgePrompt("What is a monad?", competitors)

	assert.Contains(t, prompt, "<question>\nWhat is a monad?\n</question>")
	assert.Contains(t, prompt, `{"results": [1, 2, 3]}`)
	assert.Contains(t, prompt, "each rank from 1 to 3 exactly once")

	// Answers are labeled by 1-based listing position, never by name.
	for i, c := range competitors {
		assert.Contains(t, prompt, fmt.Sprintf("<response competitor=\"%d\">\n%s\n</response>", i+1, c.Answer))
		assert.NotContains(t, prompt, c.Name)
	}
}

func TestBuildJudgePrompt_PreservesListingOrder(t *testing.T) {
	competitors := []domain.Competitor{
		{Name: "C", Answer: "gamma"},
		{Name: "A", Answer: "alpha"},
		{Name: "B", Answer: "beta"},
	}

	prompt := BuildJudgePrompt("q", competitors)

	gamma := strings.Index(prompt, "gamma")
	alpha := strings.Index(prompt, "alpha")
	beta := strings.Index(prompt, "beta")
	require.NotEqual(t, -1, gamma)
	require.NotEqual(t, -1, alpha)
	require.NotEqual(t, -1, beta)
	assert.Less(t, gamma, alpha)
	assert.Less(t, alpha, beta)
}

// The prompt is a pure function of question and competitor listing, so
// every judge in a round sees the identical prompt.
func TestBuildJudgePrompt_Deterministic(t *testing.T) {
	competitors := []domain.Competitor{
		{Name: "A", Answer: "x"},
		{Name: "B", Answer: "y"},
	}

	first := BuildJudgePrompt("q", competitors)
	for range 5 {
		assert.Equal(t, first, BuildJudgePrompt("q", competitors))
	}
}
