// Package clarify implements the interactive question-refinement loop
// that runs before an arena round. A single analyst model evaluates
// whether the user's question is specific enough; when it is not, the
// user's clarifying answers are folded back into a refined question
// until the analyst is satisfied or the round cap is reached.
package clarify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahrav/go-arena/internal/ports"
)

const (
	// MaxRounds caps the number of clarity checks per session.
	MaxRounds = 5
	// MaxAnswerLength bounds clarifying answers in runes.
	MaxAnswerLength = 500
	// MaxQuestionLength bounds the working question in runes.
	MaxQuestionLength = 2000

	// clearSentinel is the analyst's exact reply when the question
	// needs no further refinement. Compared case-insensitively.
	clearSentinel = "CLEAR"

	clarityCheckSystem = "You are a question analyst. Evaluate if the following question " +
		"is clear and specific enough to get a meaningful answer from an LLM. " +
		"If the question is clear, respond with exactly 'CLEAR'. " +
		"If not, ask 1-2 short clarifying questions to help refine it."

	refineSystem = "Rewrite the user's original question incorporating their " +
		"clarifying answers into a single, clear, refined question. " +
		"Respond only with the refined question."
)

// State identifies where a session is in the refinement loop.
type State int

const (
	// StateAwaitingInput means the session needs a clarifying answer
	// from the user before it can proceed.
	StateAwaitingInput State = iota
	// StateDone means the question is final, either because the
	// analyst declared it clear, the round cap was reached, or the
	// user declined to answer.
	StateDone
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateAwaitingInput:
		return "awaiting_input"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Turn is the session's response to one user input: the current state,
// the working question, and the analyst's clarifying questions when
// more input is needed.
type Turn struct {
	State    State
	Question string
	Prompts  string
}

// Session drives one question through the refinement loop. It is not
// safe for concurrent use; drive it from a single goroutine.
type Session struct {
	client ports.LLMClient
	logger *slog.Logger

	state    State
	question string
	rounds   int
}

// NewSession creates a session using the given analyst client.
func NewSession(client ports.LLMClient, logger *slog.Logger) (*Session, error) {
	if client == nil {
		return nil, fmt.Errorf("analyst client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{client: client, logger: logger, state: StateAwaitingInput}, nil
}

// Start submits the initial question and runs the first clarity check.
// A clarity-check failure is absorbed: the session completes with the
// question as given rather than blocking the arena.
func (s *Session) Start(ctx context.Context, question string) (Turn, error) {
	question = truncate(strings.TrimSpace(question), MaxQuestionLength)
	if question == "" {
		return Turn{}, fmt.Errorf("question cannot be empty")
	}
	s.question = question
	return s.checkClarity(ctx)
}

// Answer submits the user's clarifying answer. An empty answer ends the
// session with the current question, matching the interactive contract
// that silence means "proceed as is".
func (s *Session) Answer(ctx context.Context, answer string) (Turn, error) {
	if s.state == StateDone {
		return s.turn(), nil
	}
	if s.question == "" {
		return Turn{}, fmt.Errorf("session not started")
	}

	answer = truncate(strings.TrimSpace(answer), MaxAnswerLength)
	if answer == "" {
		s.logger.Info("no clarifying answer given, keeping current question")
		s.state = StateDone
		return s.turn(), nil
	}

	if s.rounds >= MaxRounds {
		s.state = StateDone
		return s.turn(), nil
	}

	refined, err := s.client.Complete(ctx, refinePrompt(s.question, answer),
		map[string]any{"system": refineSystem, "max_tokens": 500})
	if err != nil {
		// Refinement is best effort; keep the current question.
		s.logger.Warn("question refinement failed", "error", err)
		s.state = StateDone
		return s.turn(), nil
	}
	if refined = strings.TrimSpace(refined); refined != "" {
		s.question = truncate(refined, MaxQuestionLength)
	}

	return s.checkClarity(ctx)
}

// Question returns the current working question.
func (s *Session) Question() string { return s.question }

// State returns the session state.
func (s *Session) State() State { return s.state }

// Rounds returns the number of clarity checks performed so far.
func (s *Session) Rounds() int { return s.rounds }

func (s *Session) checkClarity(ctx context.Context) (Turn, error) {
	if s.rounds >= MaxRounds {
		s.state = StateDone
		return s.turn(), nil
	}
	s.rounds++

	reply, err := s.client.Complete(ctx, s.question,
		map[string]any{"system": clarityCheckSystem, "max_tokens": 500})
	if err != nil {
		s.logger.Warn("clarity check failed, proceeding with question as given",
			"error", err)
		s.state = StateDone
		return s.turn(), nil
	}

	reply = strings.TrimSpace(reply)
	if strings.EqualFold(reply, clearSentinel) {
		s.state = StateDone
		return s.turn(), nil
	}

	s.state = StateAwaitingInput
	t := s.turn()
	t.Prompts = reply
	return t, nil
}

func (s *Session) turn() Turn {
	return Turn{State: s.state, Question: s.question}
}

func refinePrompt(question, answer string) string {
	return fmt.Sprintf("Original question: %s\nClarifying answers: %s", question, answer)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
