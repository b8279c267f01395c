package models

import "time"

// StateRef identifies one workflow state by its (description, step) pair.
// The pair is the identity of a state; sequences carry no semantic id of
// their own.
type StateRef struct {
	RevisionDescriptionID string `json:"revision_description_id" validate:"required"`
	RevisionStepID        string `json:"revision_step_id"        validate:"required"`
}

// Sequence is one valid state of a workflow preset.
type Sequence struct {
	RevisionDescriptionID string `json:"revision_description_id" validate:"required"`
	RevisionStepID        string `json:"revision_step_id"        validate:"required"`
	IsFinal               bool   `json:"is_final"`             // No further progression expected
	RequiresTransmittal   bool   `json:"requires_transmittal"` // Formal exchange required before entry
}

// State returns the identity pair of the sequence.
func (s *Sequence) State() StateRef {
	return StateRef{
		RevisionDescriptionID: s.RevisionDescriptionID,
		RevisionStepID:        s.RevisionStepID,
	}
}

// Operator is the review-code predicate kind of a rule.
type Operator string

const (
	OperatorEquals    Operator = "equals"     // Decision codes must all be in the accepted set
	OperatorNotEquals Operator = "not_equals" // Decision codes must not intersect the set
)

// FallbackAction determines the outcome of a matching rule that declares no
// explicit next state. Actions other than increment_number are passed through
// verbatim to the caller.
type FallbackAction string

const FallbackIncrementNumber FallbackAction = "increment_number"

// Rule is a guarded transition: when a document sits in the rule's current
// state and the review decision satisfies the predicate, the rule fires.
type Rule struct {
	CurrentRevisionDescriptionID string         `json:"current_revision_description_id" validate:"required"`
	CurrentRevisionStepID        string         `json:"current_revision_step_id"        validate:"required"`
	Operator                     Operator       `json:"operator"                        validate:"required,oneof=equals not_equals"`
	ReviewCodeIDs                ReviewCodeSet  `json:"review_code_ids"                 validate:"required,min=1"`
	NextRevisionDescriptionID    *string        `json:"next_revision_description_id,omitempty"`
	NextRevisionStepID           *string        `json:"next_revision_step_id,omitempty"`
	ActionOnFail                 FallbackAction `json:"action_on_fail"`
	Priority                     int            `json:"priority"`
}

// CurrentState returns the state the rule guards.
func (r *Rule) CurrentState() StateRef {
	return StateRef{
		RevisionDescriptionID: r.CurrentRevisionDescriptionID,
		RevisionStepID:        r.CurrentRevisionStepID,
	}
}

// NextState returns the explicit target state, if the rule declares one.
func (r *Rule) NextState() (StateRef, bool) {
	if r.NextRevisionDescriptionID == nil || r.NextRevisionStepID == nil {
		return StateRef{}, false
	}

	return StateRef{
		RevisionDescriptionID: *r.NextRevisionDescriptionID,
		RevisionStepID:        *r.NextRevisionStepID,
	}, true
}

// Fallback returns the configured fallback action, defaulting to
// increment_number when the preset author left it unset.
func (r *Rule) Fallback() FallbackAction {
	if r.ActionOnFail == "" {
		return FallbackIncrementNumber
	}

	return r.ActionOnFail
}

// WorkflowPreset is a named bundle of sequences and rules defining one
// document-revision workflow. Sequences and rules have no existence outside
// their preset; edits replace the whole arrays.
type WorkflowPreset struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"        validate:"required,min=3"`
	Description string      `json:"description"`
	IsGlobal    bool        `json:"is_global"`
	Sequences   []*Sequence `json:"sequences"`
	Rules       []*Rule     `json:"rules"`
	CreatedBy   string      `json:"created_by,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	DeletedAt   *time.Time  `json:"deleted_at,omitempty"`
}
