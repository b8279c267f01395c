package engine

import (
	"testing"

	"github.com/doclane/revflow/pkg/models"
	"github.com/doclane/revflow/pkg/preset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	stateATCO = models.StateRef{RevisionDescriptionID: "desc-a", RevisionStepID: "step-tco"}
	stateBCON = models.StateRef{RevisionDescriptionID: "desc-b", RevisionStepID: "step-con"}
)

func validatedPreset(t *testing.T, rules ...*models.Rule) *preset.ValidatedPreset {
	t.Helper()

	p := &models.WorkflowPreset{
		Name: "Standard Review Flow",
		Sequences: []*models.Sequence{
			{RevisionDescriptionID: "desc-a", RevisionStepID: "step-tco"},
			{RevisionDescriptionID: "desc-b", RevisionStepID: "step-con", IsFinal: true},
		},
		Rules: rules,
	}

	vp, err := preset.Validate(p)
	require.NoError(t, err)

	return vp
}

func moveRule(current, next models.StateRef, operator models.Operator, priority int, codes ...string) *models.Rule {
	return &models.Rule{
		CurrentRevisionDescriptionID: current.RevisionDescriptionID,
		CurrentRevisionStepID:        current.RevisionStepID,
		Operator:                     operator,
		ReviewCodeIDs:                models.NewReviewCodeSet(codes...),
		NextRevisionDescriptionID:    &next.RevisionDescriptionID,
		NextRevisionStepID:           &next.RevisionStepID,
		Priority:                     priority,
	}
}

func fallbackRule(current models.StateRef, action models.FallbackAction, priority int, codes ...string) *models.Rule {
	return &models.Rule{
		CurrentRevisionDescriptionID: current.RevisionDescriptionID,
		CurrentRevisionStepID:        current.RevisionStepID,
		Operator:                     models.OperatorEquals,
		ReviewCodeIDs:                models.NewReviewCodeSet(codes...),
		ActionOnFail:                 action,
		Priority:                     priority,
	}
}

func TestEvaluate_MoveToOnApproval(t *testing.T) {
	vp := validatedPreset(t, moveRule(stateATCO, stateBCON, models.OperatorEquals, 100, "app"))

	outcome, err := Evaluate(vp, stateATCO, models.NewReviewCodeSet("app"))
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeMoveTo, outcome.Kind)
	require.NotNil(t, outcome.Next)
	assert.Equal(t, stateBCON, *outcome.Next)
	assert.Equal(t, 0, outcome.RuleIndex)
}

func TestEvaluate_NoMatchingRuleOnRejection(t *testing.T) {
	vp := validatedPreset(t, moveRule(stateATCO, stateBCON, models.OperatorEquals, 100, "app"))

	outcome, err := Evaluate(vp, stateATCO, models.NewReviewCodeSet("rej"))
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeNoMatchingRule, outcome.Kind)
	assert.Equal(t, -1, outcome.RuleIndex)
}

func TestEvaluate_EqualsIsSubsetMatch(t *testing.T) {
	// The decision's codes must all be within the rule's accepted set.
	vp := validatedPreset(t, moveRule(stateATCO, stateBCON, models.OperatorEquals, 100, "app", "awc"))

	outcome, err := Evaluate(vp, stateATCO, models.NewReviewCodeSet("app"))
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeMoveTo, outcome.Kind)

	outcome, err = Evaluate(vp, stateATCO, models.NewReviewCodeSet("app", "awc"))
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeMoveTo, outcome.Kind)

	// One code outside the accepted set disqualifies the rule.
	outcome, err = Evaluate(vp, stateATCO, models.NewReviewCodeSet("app", "rej"))
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeNoMatchingRule, outcome.Kind)

	// An empty decision never satisfies equals.
	outcome, err = Evaluate(vp, stateATCO, models.NewReviewCodeSet())
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeNoMatchingRule, outcome.Kind)
}

func TestEvaluate_NotEqualsIsDisjointMatch(t *testing.T) {
	vp := validatedPreset(t, moveRule(stateATCO, stateBCON, models.OperatorNotEquals, 100, "app"))

	outcome, err := Evaluate(vp, stateATCO, models.NewReviewCodeSet("rej"))
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeMoveTo, outcome.Kind)

	outcome, err = Evaluate(vp, stateATCO, models.NewReviewCodeSet("app"))
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeNoMatchingRule, outcome.Kind)
}

func TestEvaluate_LowerPriorityNumberWins(t *testing.T) {
	// The rule authored later carries the lower priority number and must win.
	vp := validatedPreset(t,
		fallbackRule(stateATCO, "", 200, "app"),
		moveRule(stateATCO, stateBCON, models.OperatorEquals, 10, "app"),
	)

	outcome, err := Evaluate(vp, stateATCO, models.NewReviewCodeSet("app"))
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeMoveTo, outcome.Kind)
	assert.Equal(t, 1, outcome.RuleIndex)
}

func TestEvaluate_AuthoringOrderBreaksPriorityTies(t *testing.T) {
	vp := validatedPreset(t,
		moveRule(stateATCO, stateBCON, models.OperatorEquals, 100, "app"),
		fallbackRule(stateATCO, "", 100, "app"),
	)

	outcome, err := Evaluate(vp, stateATCO, models.NewReviewCodeSet("app"))
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeMoveTo, outcome.Kind)
	assert.Equal(t, 0, outcome.RuleIndex)
}

func TestEvaluate_DefaultFallbackIncrementsRevisionNumber(t *testing.T) {
	vp := validatedPreset(t, fallbackRule(stateATCO, "", 100, "app"))

	outcome, err := Evaluate(vp, stateATCO, models.NewReviewCodeSet("app"))
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeIncrementRevisionNumber, outcome.Kind)
	assert.Nil(t, outcome.Next)
}

func TestEvaluate_UndeclaredFallbackPassesThrough(t *testing.T) {
	vp := validatedPreset(t, fallbackRule(stateATCO, "hold_for_review", 100, "app"))

	outcome, err := Evaluate(vp, stateATCO, models.NewReviewCodeSet("app"))
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeFallbackAction, outcome.Kind)
	assert.Equal(t, models.FallbackAction("hold_for_review"), outcome.Action)
}

func TestEvaluate_UnknownCurrentStateIsIntegrityError(t *testing.T) {
	vp := validatedPreset(t, moveRule(stateATCO, stateBCON, models.OperatorEquals, 100, "app"))

	_, err := Evaluate(vp, models.StateRef{RevisionDescriptionID: "desc-x", RevisionStepID: "step-x"}, models.NewReviewCodeSet("app"))

	assert.ErrorIs(t, err, ErrUnknownState)
}

func TestEvaluate_RulesForOtherStatesIgnored(t *testing.T) {
	vp := validatedPreset(t, moveRule(stateBCON, stateATCO, models.OperatorEquals, 100, "app"))

	outcome, err := Evaluate(vp, stateATCO, models.NewReviewCodeSet("app"))
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeNoMatchingRule, outcome.Kind)
}

func TestEvaluate_Deterministic(t *testing.T) {
	vp := validatedPreset(t,
		moveRule(stateATCO, stateBCON, models.OperatorEquals, 100, "app"),
		fallbackRule(stateATCO, "", 100, "app", "awc"),
	)

	first, err := Evaluate(vp, stateATCO, models.NewReviewCodeSet("app"))
	require.NoError(t, err)

	for range 50 {
		again, err := Evaluate(vp, stateATCO, models.NewReviewCodeSet("app"))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
