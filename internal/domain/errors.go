package domain

import (
	"errors"
	"fmt"
)

// Run-level conditions that abort an arena run. Per-provider and
// per-judge failures are absorbed locally and never surface as errors;
// these two are the only fatal outcomes.
var (
	// ErrInsufficientCompetitors indicates fewer than two providers
	// produced an answer, so there is nothing meaningful to rank.
	ErrInsufficientCompetitors = errors.New("insufficient competitors: need at least 2 answers to judge")

	// ErrNoValidJudging indicates every judge failed to produce a
	// usable ranking; the leaderboard is empty with an explicit cause.
	ErrNoValidJudging = errors.New("no valid judging: every judge failed or returned an invalid ranking")

	// ErrInvalidJudgeOutput indicates a judge response could not be
	// turned into a valid permutation ranking. It is absorbed per
	// judge, never fatal for the run.
	ErrInvalidJudgeOutput = errors.New("invalid judge output")

	// ErrEmptyQuestion indicates a run was started without a question.
	ErrEmptyQuestion = errors.New("question cannot be empty")
)

// ValidationError collects one or more validation failures for an entity.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation error messages.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// AddError adds a new error message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Errors: make([]string, 0),
	}
}
