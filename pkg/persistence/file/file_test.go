package file_test

import (
	"testing"
	"time"

	"github.com/doclane/revflow/pkg/models"
	"github.com/doclane/revflow/pkg/persistence"
	"github.com/doclane/revflow/pkg/persistence/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPreset(id, name string, isGlobal bool, createdBy string) *models.WorkflowPreset {
	next := "desc-b"
	nextStep := "step-con"

	return &models.WorkflowPreset{
		ID:          id,
		Name:        name,
		Description: "test preset",
		IsGlobal:    isGlobal,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
		Sequences: []*models.Sequence{
			{RevisionDescriptionID: "desc-a", RevisionStepID: "step-tco"},
			{RevisionDescriptionID: "desc-b", RevisionStepID: "step-con", IsFinal: true},
		},
		Rules: []*models.Rule{{
			CurrentRevisionDescriptionID: "desc-a",
			CurrentRevisionStepID:        "step-tco",
			Operator:                     models.OperatorEquals,
			ReviewCodeIDs:                models.NewReviewCodeSet("app"),
			NextRevisionDescriptionID:    &next,
			NextRevisionStepID:           &nextStep,
			Priority:                     100,
		}},
	}
}

func TestPresetRepository_SaveAndGetByID(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	repo := p.PresetRepository()

	preset := testPreset("preset-1", "Standard Flow", true, "")
	require.NoError(t, repo.Save(t.Context(), preset))

	loaded, err := repo.GetByID(t.Context(), "preset-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, "Standard Flow", loaded.Name)
	assert.Len(t, loaded.Sequences, 2)
	require.Len(t, loaded.Rules, 1)
	assert.Equal(t, models.NewReviewCodeSet("app"), loaded.Rules[0].ReviewCodeIDs)

	next, ok := loaded.Rules[0].NextState()
	require.True(t, ok)
	assert.Equal(t, "desc-b", next.RevisionDescriptionID)
}

func TestPresetRepository_GetByID_Missing(t *testing.T) {
	p := file.NewPersistence(t.TempDir())

	loaded, err := p.PresetRepository().GetByID(t.Context(), "nope")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestPresetRepository_List_ScopeFiltering(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	repo := p.PresetRepository()

	require.NoError(t, repo.Save(t.Context(), testPreset("g1", "Global Flow", true, "")))
	require.NoError(t, repo.Save(t.Context(), testPreset("p1", "Mine", false, "user-1")))
	require.NoError(t, repo.Save(t.Context(), testPreset("p2", "Theirs", false, "user-2")))

	global, err := repo.List(t.Context(), persistence.ListPresetsOptions{Scope: persistence.ScopeGlobal})
	require.NoError(t, err)
	assert.Len(t, global, 1)

	mine, err := repo.List(t.Context(), persistence.ListPresetsOptions{
		Scope:     persistence.ScopeProject,
		CreatedBy: "user-1",
	})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Mine", mine[0].Name)

	visible, err := repo.List(t.Context(), persistence.ListPresetsOptions{CreatedBy: "user-1"})
	require.NoError(t, err)
	assert.Len(t, visible, 2) // Global preset plus own project preset
}

func TestPresetRepository_GetByName(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	repo := p.PresetRepository()

	require.NoError(t, repo.Save(t.Context(), testPreset("g1", "Standard Flow", true, "")))
	require.NoError(t, repo.Save(t.Context(), testPreset("p1", "Standard Flow", false, "user-1")))

	found, err := repo.GetByName(t.Context(), "Standard Flow", true)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "g1", found.ID)

	missing, err := repo.GetByName(t.Context(), "Unknown", true)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPresetRepository_Delete(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	repo := p.PresetRepository()

	require.NoError(t, repo.Save(t.Context(), testPreset("preset-1", "Flow", true, "")))
	require.NoError(t, repo.Delete(t.Context(), "preset-1"))

	loaded, err := repo.GetByID(t.Context(), "preset-1")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	err = repo.Delete(t.Context(), "preset-1")
	assert.ErrorIs(t, err, persistence.ErrPresetNotFound)
}

func TestVocabularyRepository_Catalogs(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	repo := p.VocabularyRepository()

	require.NoError(t, repo.SaveRevisionDescription(t.Context(), &models.RevisionDescription{
		ID: "desc-a", Code: "A", Description: "For Approval", IsActive: true,
	}))
	require.NoError(t, repo.SaveRevisionStep(t.Context(), &models.RevisionStep{
		ID: "step-tco", Code: "TCO", Description: "Issued to Construction", IsActive: true,
	}))
	require.NoError(t, repo.SaveReviewCode(t.Context(), &models.ReviewCode{
		ID: "app", Code: "APP", Description: "Approved", IsActive: true,
	}))

	descriptions, err := repo.RevisionDescriptions(t.Context())
	require.NoError(t, err)
	require.Len(t, descriptions, 1)
	assert.Equal(t, "A", descriptions[0].Code)

	// Upsert by id replaces, not appends.
	require.NoError(t, repo.SaveRevisionDescription(t.Context(), &models.RevisionDescription{
		ID: "desc-a", Code: "A", Description: "For Approval (rev)", IsActive: true,
	}))

	descriptions, err = repo.RevisionDescriptions(t.Context())
	require.NoError(t, err)
	require.Len(t, descriptions, 1)
	assert.Equal(t, "For Approval (rev)", descriptions[0].Description)

	steps, err := repo.RevisionSteps(t.Context())
	require.NoError(t, err)
	assert.Len(t, steps, 1)

	codes, err := repo.ReviewCodes(t.Context())
	require.NoError(t, err)
	assert.Len(t, codes, 1)
}

func TestPersistence_HealthCheck(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	assert.NoError(t, p.HealthCheck(t.Context()))

	missing := file.NewPersistence("/nonexistent/revflow-test")
	assert.Error(t, missing.HealthCheck(t.Context()))
}
