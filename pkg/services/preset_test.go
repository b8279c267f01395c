package services_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doclane/revflow/pkg/mocks"
	"github.com/doclane/revflow/pkg/models"
	"github.com/doclane/revflow/pkg/persistence"
	"github.com/doclane/revflow/pkg/persistence/file"
	"github.com/doclane/revflow/pkg/services"
)

var (
	admin = services.Identity{UserID: "admin-1", IsAdmin: true}
	alice = services.Identity{UserID: "alice"}
	bob   = services.Identity{UserID: "bob"}
)

func newPresetService(t *testing.T) *services.Preset {
	t.Helper()

	return services.NewPreset(file.NewPersistence(t.TempDir()), nil)
}

func draftPreset(name string, isGlobal bool) *models.WorkflowPreset {
	next := "desc-b"
	nextStep := "step-con"

	return &models.WorkflowPreset{
		Name:     name,
		IsGlobal: isGlobal,
		Sequences: []*models.Sequence{
			{RevisionDescriptionID: "desc-a", RevisionStepID: "step-tco"},
			{RevisionDescriptionID: "desc-b", RevisionStepID: "step-con", IsFinal: true},
		},
		Rules: []*models.Rule{{
			CurrentRevisionDescriptionID: "desc-a",
			CurrentRevisionStepID:        "step-tco",
			Operator:                     models.OperatorEquals,
			ReviewCodeIDs:                models.NewReviewCodeSet("code-app"),
			NextRevisionDescriptionID:    &next,
			NextRevisionStepID:           &nextStep,
		}},
	}
}

func TestPreset_Create(t *testing.T) {
	svc := newPresetService(t)

	created, err := svc.Create(t.Context(), alice, draftPreset("Standard Flow", false))
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "alice", created.CreatedBy)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestPreset_Create_NameRequired(t *testing.T) {
	svc := newPresetService(t)

	p := draftPreset("  ", false)

	_, err := svc.Create(t.Context(), alice, p)
	require.ErrorIs(t, err, services.ErrPresetNameRequired)
	assert.True(t, services.IsValidationError(err))
}

func TestPreset_Create_RulesWithoutSequences(t *testing.T) {
	svc := newPresetService(t)

	p := draftPreset("No States", false)
	p.Sequences = nil

	_, err := svc.Create(t.Context(), alice, p)
	require.ErrorIs(t, err, services.ErrRulesWithoutSequences)
	assert.True(t, services.IsValidationError(err))
}

func TestPreset_Create_EmptyPresetAllowed(t *testing.T) {
	svc := newPresetService(t)

	p := draftPreset("Empty Draft", false)
	p.Sequences = nil
	p.Rules = nil

	created, err := svc.Create(t.Context(), alice, p)
	require.NoError(t, err)
	assert.Empty(t, created.Sequences)
}

func TestPreset_Create_InvalidStructureRejected(t *testing.T) {
	svc := newPresetService(t)

	p := draftPreset("Broken", false)
	p.Rules[0].CurrentRevisionDescriptionID = "desc-unknown"

	_, err := svc.Create(t.Context(), alice, p)
	require.Error(t, err)
	assert.True(t, services.IsValidationError(err))
}

func TestPreset_Create_GlobalRequiresAdmin(t *testing.T) {
	svc := newPresetService(t)

	_, err := svc.Create(t.Context(), alice, draftPreset("Global Flow", true))
	require.ErrorIs(t, err, services.ErrForbidden)

	_, err = svc.Create(t.Context(), admin, draftPreset("Global Flow", true))
	assert.NoError(t, err)
}

func TestPreset_Create_DuplicateNamePerScope(t *testing.T) {
	svc := newPresetService(t)

	_, err := svc.Create(t.Context(), alice, draftPreset("Shared Name", false))
	require.NoError(t, err)

	_, err = svc.Create(t.Context(), alice, draftPreset("Shared Name", false))
	require.ErrorIs(t, err, services.ErrPresetNameTaken)
	assert.True(t, services.IsConflictError(err))

	// Same name in the other scope is fine
	_, err = svc.Create(t.Context(), admin, draftPreset("Shared Name", true))
	assert.NoError(t, err)
}

func TestPreset_FetchByID_AccessControl(t *testing.T) {
	svc := newPresetService(t)

	global, err := svc.Create(t.Context(), admin, draftPreset("Global Flow", true))
	require.NoError(t, err)

	private, err := svc.Create(t.Context(), alice, draftPreset("Alice Flow", false))
	require.NoError(t, err)

	// Global presets are readable by everyone
	_, err = svc.FetchByID(t.Context(), bob, global.ID)
	assert.NoError(t, err)

	// Project presets only by their creator or an admin
	_, err = svc.FetchByID(t.Context(), alice, private.ID)
	assert.NoError(t, err)

	_, err = svc.FetchByID(t.Context(), bob, private.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = svc.FetchByID(t.Context(), admin, private.ID)
	assert.NoError(t, err)

	_, err = svc.FetchByID(t.Context(), alice, "missing")
	assert.ErrorIs(t, err, services.ErrPresetNotFound)
}

func TestPreset_List_Visibility(t *testing.T) {
	svc := newPresetService(t)

	_, err := svc.Create(t.Context(), admin, draftPreset("Global Flow", true))
	require.NoError(t, err)

	_, err = svc.Create(t.Context(), alice, draftPreset("Alice Flow", false))
	require.NoError(t, err)

	_, err = svc.Create(t.Context(), bob, draftPreset("Bob Flow", false))
	require.NoError(t, err)

	visible, err := svc.List(t.Context(), alice, persistence.ScopeAll)
	require.NoError(t, err)
	assert.Len(t, visible, 2)

	everything, err := svc.List(t.Context(), admin, persistence.ScopeAll)
	require.NoError(t, err)
	assert.Len(t, everything, 3)
}

func TestPreset_Update(t *testing.T) {
	svc := newPresetService(t)

	created, err := svc.Create(t.Context(), alice, draftPreset("Original", false))
	require.NoError(t, err)

	updated := draftPreset("Renamed", false)

	result, err := svc.Update(t.Context(), alice, created.ID, updated)
	require.NoError(t, err)

	assert.Equal(t, created.ID, result.ID)
	assert.Equal(t, "Renamed", result.Name)
	assert.Equal(t, created.CreatedAt, result.CreatedAt)
	assert.Equal(t, "alice", result.CreatedBy)

	// Bob cannot touch Alice's preset
	_, err = svc.Update(t.Context(), bob, created.ID, draftPreset("Hijack", false))
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestPreset_Update_GlobalOnlyByAdmin(t *testing.T) {
	svc := newPresetService(t)

	global, err := svc.Create(t.Context(), admin, draftPreset("Global Flow", true))
	require.NoError(t, err)

	_, err = svc.Update(t.Context(), alice, global.ID, draftPreset("Global Flow", true))
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestPreset_Delete(t *testing.T) {
	svc := newPresetService(t)

	created, err := svc.Create(t.Context(), alice, draftPreset("Doomed", false))
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(t.Context(), bob, created.ID), services.ErrForbidden)
	require.NoError(t, svc.Delete(t.Context(), alice, created.ID))

	_, err = svc.FetchByID(t.Context(), alice, created.ID)
	assert.ErrorIs(t, err, services.ErrPresetNotFound)

	assert.ErrorIs(t, svc.Delete(t.Context(), alice, created.ID), services.ErrPresetNotFound)
}

func TestPreset_RemoveSequence_Restrict(t *testing.T) {
	svc := newPresetService(t)

	created, err := svc.Create(t.Context(), alice, draftPreset("Flow", false))
	require.NoError(t, err)

	target := models.StateRef{RevisionDescriptionID: "desc-b", RevisionStepID: "step-con"}

	// desc-b/step-con is the next state of the only rule
	_, err = svc.RemoveSequence(t.Context(), alice, created.ID, target, services.DeleteRestrict)
	require.ErrorIs(t, err, services.ErrSequenceInUse)
	assert.True(t, services.IsConflictError(err))
}

func TestPreset_RemoveSequence_Cascade(t *testing.T) {
	svc := newPresetService(t)

	created, err := svc.Create(t.Context(), alice, draftPreset("Flow", false))
	require.NoError(t, err)

	target := models.StateRef{RevisionDescriptionID: "desc-b", RevisionStepID: "step-con"}

	result, err := svc.RemoveSequence(t.Context(), alice, created.ID, target, services.DeleteCascade)
	require.NoError(t, err)

	assert.Len(t, result.Sequences, 1)
	assert.Empty(t, result.Rules)
}

func TestPreset_RemoveSequence_DefaultsToRestrict(t *testing.T) {
	svc := newPresetService(t)

	created, err := svc.Create(t.Context(), alice, draftPreset("Flow", false))
	require.NoError(t, err)

	target := models.StateRef{RevisionDescriptionID: "desc-b", RevisionStepID: "step-con"}

	_, err = svc.RemoveSequence(t.Context(), alice, created.ID, target, "")
	assert.ErrorIs(t, err, services.ErrSequenceInUse)
}

func TestPreset_RemoveSequence_UnknownPolicy(t *testing.T) {
	svc := newPresetService(t)

	created, err := svc.Create(t.Context(), alice, draftPreset("Flow", false))
	require.NoError(t, err)

	target := models.StateRef{RevisionDescriptionID: "desc-b", RevisionStepID: "step-con"}

	_, err = svc.RemoveSequence(t.Context(), alice, created.ID, target, "nullify")
	require.ErrorIs(t, err, services.ErrInvalidDeletePolicy)
	assert.True(t, services.IsValidationError(err))
}

func TestPreset_RemoveSequence_MissingState(t *testing.T) {
	svc := newPresetService(t)

	created, err := svc.Create(t.Context(), alice, draftPreset("Flow", false))
	require.NoError(t, err)

	target := models.StateRef{RevisionDescriptionID: "desc-x", RevisionStepID: "step-x"}

	_, err = svc.RemoveSequence(t.Context(), alice, created.ID, target, services.DeleteCascade)
	assert.ErrorIs(t, err, services.ErrSequenceNotFound)
}

func TestPreset_Create_PublishesLifecycleEvent(t *testing.T) {
	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.Anything, mock.AnythingOfType("events.PresetCreated")).Return(nil)

	svc := services.NewPreset(file.NewPersistence(t.TempDir()), bus)

	created, err := svc.Create(t.Context(), alice, draftPreset("Standard Flow", false))
	require.NoError(t, err)

	bus.AssertCalled(t, "Publish", mock.Anything, created.ID, mock.AnythingOfType("events.PresetCreated"))
}

func TestPreset_Create_BusErrorIsIgnored(t *testing.T) {
	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	svc := services.NewPreset(file.NewPersistence(t.TempDir()), bus)

	_, err := svc.Create(t.Context(), alice, draftPreset("Standard Flow", false))
	require.NoError(t, err)
}

func TestPreset_Create_SaveErrorPropagates(t *testing.T) {
	p := mocks.NewMockPersistence()
	repo := p.GetMockPresetRepository()
	repo.On("GetByName", mock.Anything, "Standard Flow", false).Return(nil, nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	svc := services.NewPreset(p, nil)

	_, err := svc.Create(t.Context(), alice, draftPreset("Standard Flow", false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
