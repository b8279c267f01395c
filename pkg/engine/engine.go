// Package engine evaluates workflow preset rules against a document's current
// revision state and a review decision. Evaluation is pure and side-effect
// free: the outcome is computed from the validated preset snapshot and the
// arguments alone, so concurrent callers need no locking.
package engine

import (
	"errors"

	"github.com/doclane/revflow/pkg/models"
	"github.com/doclane/revflow/pkg/preset"
)

// ErrUnknownState indicates Evaluate was called with a current state that is
// not part of the preset's sequences. This is a caller or data-integrity bug,
// not a business outcome; it must fail the calling request rather than be
// swallowed. A stuck-but-valid state yields NoMatchingRule instead.
var ErrUnknownState = errors.New("current state is not a member of the preset sequences")

// Evaluate computes the transition for a document sitting in current after a
// review decision carrying reviewCodes. Rules guarding current are matched
// against the decision; candidates are ordered by priority ascending with
// authoring index as the stable tie-break, and the first match wins. When no
// rule matches, the outcome is NoMatchingRule.
func Evaluate(vp *preset.ValidatedPreset, current models.StateRef, reviewCodes models.ReviewCodeSet) (models.TransitionOutcome, error) {
	if !vp.HasState(current) {
		return models.TransitionOutcome{}, ErrUnknownState
	}

	winnerIndex := -1

	var winner *models.Rule

	for i, rule := range vp.Rules() {
		if rule.CurrentState() != current {
			continue
		}

		if !predicateHolds(rule, reviewCodes) {
			continue
		}

		// Lower priority number wins; authoring index breaks ties, so a
		// later rule only displaces the winner with a strictly lower
		// priority.
		if winner == nil || rule.Priority < winner.Priority {
			winner = rule
			winnerIndex = i
		}
	}

	if winner == nil {
		return models.NoMatchingRule(), nil
	}

	if next, ok := winner.NextState(); ok {
		return models.MoveTo(next, winnerIndex), nil
	}

	if action := winner.Fallback(); action != models.FallbackIncrementNumber {
		return models.Fallback(action, winnerIndex), nil
	}

	return models.IncrementRevisionNumber(winnerIndex), nil
}

// predicateHolds evaluates the rule's review-code predicate against the
// decision's codes.
//
// equals: every code of the decision is in the rule's accepted set, and the
// decision carries at least one code. A decision with a code outside the
// accepted set does not match.
//
// not_equals: the decision shares no code with the rule's set.
func predicateHolds(rule *models.Rule, reviewCodes models.ReviewCodeSet) bool {
	switch rule.Operator {
	case models.OperatorEquals:
		return !reviewCodes.IsEmpty() && reviewCodes.SubsetOf(rule.ReviewCodeIDs)
	case models.OperatorNotEquals:
		return !reviewCodes.Intersects(rule.ReviewCodeIDs)
	default:
		// Unknown operators never match; validation keeps them out of
		// stored presets.
		return false
	}
}
