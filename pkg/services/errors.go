// Package services provides the business logic layer for preset authoring and
// transition evaluation.
package services

import (
	"errors"
	"fmt"
)

// Business Logic Errors - These indicate client errors (4xx responses).
var (
	// Validation Errors (400 Bad Request).
	ErrInvalidRequest        = errors.New("invalid request")
	ErrPresetNameRequired    = errors.New("preset name is required")
	ErrPresetNil             = errors.New("preset cannot be nil")
	ErrRulesWithoutSequences = errors.New("rules cannot be defined before sequences")
	ErrInvalidDeletePolicy   = errors.New("invalid on-delete policy")
	ErrEmptyCurrentState     = errors.New("current state cannot be empty")

	// Business Logic Conflicts (409 Conflict).
	ErrPresetNameTaken = errors.New("a preset with this name already exists in this scope")
	ErrSequenceInUse   = errors.New("sequence is referenced by one or more rules")

	// Not Found (404).
	ErrSequenceNotFound = errors.New("sequence not found in preset")

	// Authorization Errors (403 Forbidden).
	ErrForbidden = errors.New("not allowed to access this preset")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrPresetNameRequired) ||
		errors.Is(err, ErrPresetNil) ||
		errors.Is(err, ErrRulesWithoutSequences) ||
		errors.Is(err, ErrInvalidDeletePolicy) ||
		errors.Is(err, ErrEmptyCurrentState)
}

// IsConflictError checks if an error is a business logic conflict that should return HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrPresetNameTaken) ||
		errors.Is(err, ErrSequenceInUse)
}

// IsForbiddenError checks if an error is an authorization failure that should return HTTP 403.
func IsForbiddenError(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
