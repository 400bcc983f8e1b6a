package clarify

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedClient returns canned replies in sequence, recording every
// prompt it receives.
type scriptedClient struct {
	replies []string
	err     error
	prompts []string
	systems []string
}

func (s *scriptedClient) Complete(ctx context.Context, prompt string, opts map[string]any) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if system, ok := opts["system"].(string); ok {
		s.systems = append(s.systems, system)
	}
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", errors.New("script exhausted")
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

func (s *scriptedClient) GetModel() string { return "scripted" }

func testLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

func TestSession_ClearImmediately(t *testing.T) {
	client := &scriptedClient{replies: []string{"CLEAR"}}
	session, err := NewSession(client, testLogger())
	require.NoError(t, err)

	turn, err := session.Start(context.Background(), "  What is a monad in Haskell?  ")
	require.NoError(t, err)

	assert.Equal(t, StateDone, turn.State)
	assert.Equal(t, "What is a monad in Haskell?", session.Question())
	assert.Equal(t, 1, session.Rounds())

	// The sentinel comparison is case-insensitive.
	client = &scriptedClient{replies: []string{"clear"}}
	session, err = NewSession(client, testLogger())
	require.NoError(t, err)
	turn, err = session.Start(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, StateDone, turn.State)
}

func TestSession_RefineLoop(t *testing.T) {
	client := &scriptedClient{replies: []string{
		"Which programming language do you mean?", // clarity check 1
		"What is the best language for web development?", // refine
		"CLEAR", // clarity check 2
	}}
	session, err := NewSession(client, testLogger())
	require.NoError(t, err)

	turn, err := session.Start(context.Background(), "What is the best language?")
	require.NoError(t, err)
	require.Equal(t, StateAwaitingInput, turn.State)
	assert.Equal(t, "Which programming language do you mean?", turn.Prompts)

	turn, err = session.Answer(context.Background(), "for web development")
	require.NoError(t, err)

	assert.Equal(t, StateDone, turn.State)
	assert.Equal(t, "What is the best language for web development?", session.Question())
	assert.Equal(t, 2, session.Rounds())

	// The refine call carries both the question and the user's answer.
	require.Len(t, client.prompts, 3)
	assert.Contains(t, client.prompts[1], "Original question: What is the best language?")
	assert.Contains(t, client.prompts[1], "Clarifying answers: for web development")
	// The second clarity check sees the refined question.
	assert.Equal(t, "What is the best language for web development?", client.prompts[2])
}

// An empty answer means "proceed as is".
func TestSession_EmptyAnswerEndsSession(t *testing.T) {
	client := &scriptedClient{replies: []string{"What do you mean?"}}
	session, err := NewSession(client, testLogger())
	require.NoError(t, err)

	turn, err := session.Start(context.Background(), "vague question")
	require.NoError(t, err)
	require.Equal(t, StateAwaitingInput, turn.State)

	turn, err = session.Answer(context.Background(), "   ")
	require.NoError(t, err)

	assert.Equal(t, StateDone, turn.State)
	assert.Equal(t, "vague question", session.Question())
	// No refine call was made.
	assert.Len(t, client.prompts, 1)
}

func TestSession_RoundCap(t *testing.T) {
	replies := make([]string, 0, 2*MaxRounds)
	for range MaxRounds {
		replies = append(replies, "Still unclear, what do you mean?")
		replies = append(replies, "a slightly refined question")
	}
	client := &scriptedClient{replies: replies}
	session, err := NewSession(client, testLogger())
	require.NoError(t, err)

	turn, err := session.Start(context.Background(), "vague")
	require.NoError(t, err)

	for i := 0; turn.State == StateAwaitingInput && i < 2*MaxRounds; i++ {
		turn, err = session.Answer(context.Background(), "more detail")
		require.NoError(t, err)
	}

	assert.Equal(t, StateDone, turn.State)
	assert.LessOrEqual(t, session.Rounds(), MaxRounds)
}

// Analyst failures never block the arena; the question passes through.
func TestSession_AnalystFailureIsAbsorbed(t *testing.T) {
	client := &scriptedClient{err: errors.New("analyst down")}
	session, err := NewSession(client, testLogger())
	require.NoError(t, err)

	turn, err := session.Start(context.Background(), "my question")
	require.NoError(t, err)

	assert.Equal(t, StateDone, turn.State)
	assert.Equal(t, "my question", session.Question())
}

func TestSession_EmptyQuestion(t *testing.T) {
	session, err := NewSession(&scriptedClient{}, testLogger())
	require.NoError(t, err)

	_, err = session.Start(context.Background(), "   ")
	assert.Error(t, err)
}

func TestSession_TruncatesInputs(t *testing.T) {
	client := &scriptedClient{replies: []string{
		"What exactly?",
		"refined",
		"CLEAR",
	}}
	session, err := NewSession(client, testLogger())
	require.NoError(t, err)

	longQuestion := strings.Repeat("q", MaxQuestionLength+100)
	turn, err := session.Start(context.Background(), longQuestion)
	require.NoError(t, err)
	require.Equal(t, StateAwaitingInput, turn.State)
	assert.Len(t, session.Question(), MaxQuestionLength)

	longAnswer := strings.Repeat("a", MaxAnswerLength+100)
	_, err = session.Answer(context.Background(), longAnswer)
	require.NoError(t, err)

	refinePrompt := client.prompts[1]
	assert.NotContains(t, refinePrompt, strings.Repeat("a", MaxAnswerLength+1))
}

func TestSession_NilClient(t *testing.T) {
	_, err := NewSession(nil, testLogger())
	assert.Error(t, err)
}
