package models

// OutcomeKind classifies the result of a transition evaluation.
type OutcomeKind string

const (
	// OutcomeMoveTo moves the document to the rule's explicit next state.
	OutcomeMoveTo OutcomeKind = "move_to"

	// OutcomeIncrementRevisionNumber keeps the current state; the caller
	// increments the numeric revision counter (e.g. "01" -> "02").
	OutcomeIncrementRevisionNumber OutcomeKind = "increment_revision_number"

	// OutcomeFallbackAction carries a fallback action the engine does not
	// interpret; the caller decides what it means.
	OutcomeFallbackAction OutcomeKind = "fallback_action"

	// OutcomeNoMatchingRule signals that no automatic transition applies and
	// manual intervention is required. It is a normal outcome, not an error.
	OutcomeNoMatchingRule OutcomeKind = "no_matching_rule"
)

// TransitionOutcome is the result of evaluating a preset against a document's
// current state and a review decision.
type TransitionOutcome struct {
	Kind OutcomeKind `json:"kind"`

	// Next is set for move_to outcomes.
	Next *StateRef `json:"next,omitempty"`

	// Action is set for fallback_action outcomes.
	Action FallbackAction `json:"action,omitempty"`

	// RuleIndex is the authoring index of the winning rule, -1 when no rule
	// matched.
	RuleIndex int `json:"rule_index"`
}

// NoMatchingRule builds the terminal "manual action required" outcome.
func NoMatchingRule() TransitionOutcome {
	return TransitionOutcome{Kind: OutcomeNoMatchingRule, RuleIndex: -1}
}

// MoveTo builds an outcome targeting an explicit next state.
func MoveTo(next StateRef, ruleIndex int) TransitionOutcome {
	return TransitionOutcome{Kind: OutcomeMoveTo, Next: &next, RuleIndex: ruleIndex}
}

// IncrementRevisionNumber builds the default fallback outcome.
func IncrementRevisionNumber(ruleIndex int) TransitionOutcome {
	return TransitionOutcome{Kind: OutcomeIncrementRevisionNumber, RuleIndex: ruleIndex}
}

// Fallback builds a pass-through outcome for an uninterpreted fallback action.
func Fallback(action FallbackAction, ruleIndex int) TransitionOutcome {
	return TransitionOutcome{Kind: OutcomeFallbackAction, Action: action, RuleIndex: ruleIndex}
}
