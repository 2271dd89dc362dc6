package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound           = errors.New("resource not found")
	ErrHypothesisNotFound = fmt.Errorf("%w: hypothesis", ErrNotFound)
	ErrExperimentNotFound = fmt.Errorf("%w: experiment", ErrNotFound)
	ErrEvidenceNotFound   = fmt.Errorf("%w: evidence", ErrNotFound)
	ErrVariableNotFound   = fmt.Errorf("%w: variable", ErrNotFound)
	ErrSchemaNotFound     = fmt.Errorf("%w: worktree schema", ErrNotFound)
	ErrSessionNotFound    = fmt.Errorf("%w: session", ErrNotFound)

	// Validation errors
	ErrInvalidProbability = errors.New("probability outside [0,1]")
	ErrEmptyStatement     = errors.New("hypothesis statement cannot be empty")
	ErrEmptyObservation   = errors.New("observation cannot be empty")

	// Collaborator errors
	ErrWorktreeFailed    = errors.New("worktree materialization failed")
	ErrPersistenceFailed = errors.New("session persistence failed")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidProbability) ||
		errors.Is(err, ErrEmptyStatement) ||
		errors.Is(err, ErrEmptyObservation)
}
