// Package persistence provides standardized error types for storage
// operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrPresetNotFound indicates no preset exists for the given identifier.
	ErrPresetNotFound = errors.New("workflow preset not found")

	// ErrPresetNameTaken indicates another preset in the same scope already
	// carries the name.
	ErrPresetNameTaken = errors.New("workflow preset name already taken")

	// ErrVocabularyEntryNotFound indicates a catalog entry was not found.
	ErrVocabularyEntryNotFound = errors.New("vocabulary entry not found")
)

// PresetError wraps preset storage errors with operation context.
type PresetError struct {
	Op       string // Operation being performed (e.g. "GetByID", "Save")
	PresetID string
	Err      error
}

func (e *PresetError) Error() string {
	return fmt.Sprintf("%s operation failed for preset %s: %v", e.Op, e.PresetID, e.Err)
}

func (e *PresetError) Unwrap() error {
	return e.Err
}

func (e *PresetError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewPresetError creates a preset storage error with context.
func NewPresetError(op, presetID string, err error) *PresetError {
	return &PresetError{Op: op, PresetID: presetID, Err: err}
}

// IsPresetNotFound checks if an error indicates a missing preset.
func IsPresetNotFound(err error) bool {
	return errors.Is(err, ErrPresetNotFound)
}

// IsPresetNameTaken checks if an error indicates a duplicate preset name.
func IsPresetNameTaken(err error) bool {
	return errors.Is(err, ErrPresetNameTaken)
}
