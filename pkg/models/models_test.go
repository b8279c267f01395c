package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReviewCodeSet_Deduplicates(t *testing.T) {
	set := NewReviewCodeSet("app", "app", "", "rej", "app")

	assert.Equal(t, ReviewCodeSet{"app", "rej"}, set)
}

func TestReviewCodeSet_SubsetOf(t *testing.T) {
	accepted := NewReviewCodeSet("app", "awc")

	assert.True(t, NewReviewCodeSet("app").SubsetOf(accepted))
	assert.True(t, NewReviewCodeSet("app", "awc").SubsetOf(accepted))
	assert.False(t, NewReviewCodeSet("app", "rej").SubsetOf(accepted))
	assert.True(t, NewReviewCodeSet().SubsetOf(accepted))
}

func TestReviewCodeSet_Intersects(t *testing.T) {
	accepted := NewReviewCodeSet("app")

	assert.True(t, NewReviewCodeSet("app", "rej").Intersects(accepted))
	assert.False(t, NewReviewCodeSet("rej").Intersects(accepted))
	assert.False(t, NewReviewCodeSet().Intersects(accepted))
}

func TestReviewCodeSet_JSONRoundTrip(t *testing.T) {
	rule := Rule{
		CurrentRevisionDescriptionID: "desc-a",
		CurrentRevisionStepID:        "step-tco",
		Operator:                     OperatorEquals,
		ReviewCodeIDs:                NewReviewCodeSet("app", "awc"),
	}

	data, err := json.Marshal(rule)
	require.NoError(t, err)

	var decoded Rule
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rule.ReviewCodeIDs, decoded.ReviewCodeIDs)
}

func TestRule_NextState(t *testing.T) {
	desc := "desc-b"
	step := "step-con"

	rule := &Rule{
		NextRevisionDescriptionID: &desc,
		NextRevisionStepID:        &step,
	}

	next, ok := rule.NextState()
	require.True(t, ok)
	assert.Equal(t, StateRef{RevisionDescriptionID: "desc-b", RevisionStepID: "step-con"}, next)

	_, ok = (&Rule{}).NextState()
	assert.False(t, ok)

	// A half-specified next state is treated as absent.
	_, ok = (&Rule{NextRevisionDescriptionID: &desc}).NextState()
	assert.False(t, ok)
}

func TestRule_FallbackDefaultsToIncrementNumber(t *testing.T) {
	assert.Equal(t, FallbackIncrementNumber, (&Rule{}).Fallback())
	assert.Equal(t, FallbackAction("hold_for_review"), (&Rule{ActionOnFail: "hold_for_review"}).Fallback())
}

func TestSequence_State(t *testing.T) {
	seq := &Sequence{
		RevisionDescriptionID: "desc-a",
		RevisionStepID:        "step-tco",
		IsFinal:               true,
	}

	assert.Equal(t, StateRef{RevisionDescriptionID: "desc-a", RevisionStepID: "step-tco"}, seq.State())
}
