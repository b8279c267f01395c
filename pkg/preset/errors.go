// Package preset validates workflow presets and produces immutable validated
// snapshots for the transition engine.
package preset

import (
	"errors"
	"fmt"

	"github.com/doclane/revflow/pkg/models"
)

// Validation error types raised during preset authoring. All of them are
// recoverable: the caller rejects the save and reports the field back to the
// author.
var (
	// ErrEmptyPreset indicates a preset with zero sequences. Such a preset
	// cannot carry rules and is unusable by the engine.
	ErrEmptyPreset = errors.New("preset has no sequences")

	// ErrDuplicateState indicates two sequences sharing the same
	// (revision description, revision step) pair.
	ErrDuplicateState = errors.New("duplicate workflow state")

	// ErrUnknownCurrentState indicates a rule whose current state is not a
	// member of the preset's sequences.
	ErrUnknownCurrentState = errors.New("rule current state is not in the preset sequences")

	// ErrUnknownNextState indicates a rule whose explicit next state is not a
	// member of the preset's sequences.
	ErrUnknownNextState = errors.New("rule next state is not in the preset sequences")

	// ErrIncompleteNextState indicates a rule that sets only one half of the
	// (revision description, revision step) next-state pair.
	ErrIncompleteNextState = errors.New("rule next state must set both revision description and revision step")

	// ErrEmptyPredicate indicates a rule with an empty review-code set.
	ErrEmptyPredicate = errors.New("rule review code set is empty")
)

// ValidationError wraps a validation failure with the position of the
// offending entry and, when applicable, the state it references.
type ValidationError struct {
	Entity string          // "sequence" or "rule"
	Index  int             // Authoring index of the offending entry
	State  models.StateRef // Referenced state, zero when not applicable
	Err    error
}

func (e *ValidationError) Error() string {
	if e.State != (models.StateRef{}) {
		return fmt.Sprintf("%s %d (%s/%s): %v",
			e.Entity, e.Index, e.State.RevisionDescriptionID, e.State.RevisionStepID, e.Err)
	}

	return fmt.Sprintf("%s %d: %v", e.Entity, e.Index, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidationError checks if an error belongs to the preset validation
// taxonomy.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyPreset) ||
		errors.Is(err, ErrDuplicateState) ||
		errors.Is(err, ErrUnknownCurrentState) ||
		errors.Is(err, ErrUnknownNextState) ||
		errors.Is(err, ErrIncompleteNextState) ||
		errors.Is(err, ErrEmptyPredicate)
}

func newValidationError(entity string, index int, state models.StateRef, err error) *ValidationError {
	return &ValidationError{Entity: entity, Index: index, State: state, Err: err}
}
