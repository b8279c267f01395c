// Package persistence provides the data storage abstraction for workflow
// presets and the vocabulary reference catalogs.
package persistence

import (
	"context"

	"github.com/doclane/revflow/pkg/models"
)

// PresetScope filters preset listings by ownership.
type PresetScope string

const (
	ScopeAll     PresetScope = ""        // No scope filter
	ScopeGlobal  PresetScope = "global"  // is_global presets only
	ScopeProject PresetScope = "project" // Project-owned presets only
)

// ListPresetsOptions narrows preset listings.
type ListPresetsOptions struct {
	Scope PresetScope

	// CreatedBy limits project-scoped results to one owner. Global presets
	// are visible regardless of owner.
	CreatedBy string
}

// PresetRepository stores workflow presets. GetByID returns (nil, nil) when
// no preset exists for the id; callers translate that into ErrPresetNotFound.
type PresetRepository interface {
	List(ctx context.Context, opts ListPresetsOptions) ([]*models.WorkflowPreset, error)
	GetByID(ctx context.Context, id string) (*models.WorkflowPreset, error)
	GetByName(ctx context.Context, name string, isGlobal bool) (*models.WorkflowPreset, error)
	Save(ctx context.Context, preset *models.WorkflowPreset) error
	Delete(ctx context.Context, id string) error
}

// VocabularyRepository stores the reference catalogs. Catalog entries are
// administered outside the engine; the engine treats them as immutable.
type VocabularyRepository interface {
	RevisionDescriptions(ctx context.Context) ([]*models.RevisionDescription, error)
	RevisionSteps(ctx context.Context) ([]*models.RevisionStep, error)
	ReviewCodes(ctx context.Context) ([]*models.ReviewCode, error)

	SaveRevisionDescription(ctx context.Context, entry *models.RevisionDescription) error
	SaveRevisionStep(ctx context.Context, entry *models.RevisionStep) error
	SaveReviewCode(ctx context.Context, entry *models.ReviewCode) error
}

// Persistence aggregates the repositories behind one backend.
type Persistence interface {
	PresetRepository() PresetRepository
	VocabularyRepository() VocabularyRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
