package preset

import (
	"github.com/doclane/revflow/pkg/models"
)

// ValidateSequences enforces the state-list invariants of a preset: the list
// is non-empty and every (description, step) pair appears at most once.
// Authoring order carries no semantics beyond display and is preserved.
func ValidateSequences(sequences []*models.Sequence) error {
	if len(sequences) == 0 {
		return ErrEmptyPreset
	}

	seen := make(map[models.StateRef]struct{}, len(sequences))

	for i, seq := range sequences {
		state := seq.State()

		if _, dup := seen[state]; dup {
			return newValidationError("sequence", i, state, ErrDuplicateState)
		}

		seen[state] = struct{}{}
	}

	return nil
}

// ValidateRules enforces referential integrity of rules against the preset's
// sequences and that every rule carries a non-empty review-code predicate.
// Overlapping rules are allowed; the engine resolves ordering at evaluation
// time.
func ValidateRules(rules []*models.Rule, sequences []*models.Sequence) error {
	states := make(map[models.StateRef]struct{}, len(sequences))
	for _, seq := range sequences {
		states[seq.State()] = struct{}{}
	}

	for i, rule := range rules {
		current := rule.CurrentState()
		if _, ok := states[current]; !ok {
			return newValidationError("rule", i, current, ErrUnknownCurrentState)
		}

		// A half-set pair is neither an explicit target nor a fallback
		if (rule.NextRevisionDescriptionID == nil) != (rule.NextRevisionStepID == nil) {
			return newValidationError("rule", i, models.StateRef{}, ErrIncompleteNextState)
		}

		if next, ok := rule.NextState(); ok {
			if _, known := states[next]; !known {
				return newValidationError("rule", i, next, ErrUnknownNextState)
			}
		}

		if rule.ReviewCodeIDs.IsEmpty() {
			return newValidationError("rule", i, models.StateRef{}, ErrEmptyPredicate)
		}
	}

	return nil
}

// ValidatedPreset is an immutable snapshot of a preset that passed both
// sequence and rule validation. The engine only accepts validated snapshots;
// an edit produces a new snapshot rather than mutating one in flight.
type ValidatedPreset struct {
	preset *models.WorkflowPreset
	states map[models.StateRef]*models.Sequence
}

// Validate runs sequence and rule validation and returns the validated
// snapshot. The preset must not be mutated afterwards.
func Validate(p *models.WorkflowPreset) (*ValidatedPreset, error) {
	if err := ValidateSequences(p.Sequences); err != nil {
		return nil, err
	}

	if err := ValidateRules(p.Rules, p.Sequences); err != nil {
		return nil, err
	}

	states := make(map[models.StateRef]*models.Sequence, len(p.Sequences))
	for _, seq := range p.Sequences {
		states[seq.State()] = seq
	}

	return &ValidatedPreset{preset: p, states: states}, nil
}

// Preset returns the underlying preset.
func (vp *ValidatedPreset) Preset() *models.WorkflowPreset {
	return vp.preset
}

// Rules returns the preset's rules in authoring order.
func (vp *ValidatedPreset) Rules() []*models.Rule {
	return vp.preset.Rules
}

// HasState reports whether the state is a member of the preset's sequences.
func (vp *ValidatedPreset) HasState(state models.StateRef) bool {
	_, ok := vp.states[state]

	return ok
}

// SequenceFor returns the sequence entry for the given state, nil when the
// state is not part of the preset.
func (vp *ValidatedPreset) SequenceFor(state models.StateRef) *models.Sequence {
	return vp.states[state]
}
