package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"

	"github.com/doclane/revflow/pkg/models"
	"github.com/doclane/revflow/pkg/persistence"
)

const presetsDir = "presets"

// PresetRepository stores each preset as one JSON document under
// <root>/presets/<id>.json.
type PresetRepository struct {
	root string
}

// NewPresetRepository creates a new file-backed preset repository.
func NewPresetRepository(root string) *PresetRepository {
	return &PresetRepository{root: root}
}

// List returns presets matching the options, newest first.
func (pr *PresetRepository) List(ctx context.Context, opts persistence.ListPresetsOptions) ([]*models.WorkflowPreset, error) {
	dir := path.Join(pr.root, presetsDir)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return make([]*models.WorkflowPreset, 0), nil
	}

	jsonFiles, err := fs.Glob(os.DirFS(dir), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list preset files: %w", err)
	}

	presets := make([]*models.WorkflowPreset, 0, len(jsonFiles))

	for _, name := range jsonFiles {
		id := name[:len(name)-5] // Trim .json

		preset, err := pr.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load preset %s: %w", id, err)
		}

		if preset == nil || !matchesOptions(preset, opts) {
			continue
		}

		presets = append(presets, preset)
	}

	sort.Slice(presets, func(i, j int) bool {
		return presets[i].CreatedAt.After(presets[j].CreatedAt)
	})

	return presets, nil
}

func matchesOptions(preset *models.WorkflowPreset, opts persistence.ListPresetsOptions) bool {
	switch opts.Scope {
	case persistence.ScopeGlobal:
		if !preset.IsGlobal {
			return false
		}
	case persistence.ScopeProject:
		if preset.IsGlobal {
			return false
		}
	case persistence.ScopeAll:
	}

	if opts.CreatedBy != "" && !preset.IsGlobal && preset.CreatedBy != opts.CreatedBy {
		return false
	}

	return true
}

// GetByID loads a preset by id, returning (nil, nil) when absent.
func (pr *PresetRepository) GetByID(_ context.Context, id string) (*models.WorkflowPreset, error) {
	data, err := os.ReadFile(pr.presetPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, persistence.NewPresetError("GetByID", id, err)
	}

	var preset models.WorkflowPreset
	if err := json.Unmarshal(data, &preset); err != nil {
		return nil, persistence.NewPresetError("GetByID", id, err)
	}

	if preset.DeletedAt != nil {
		return nil, nil
	}

	return &preset, nil
}

// GetByName finds a preset by name within one scope, (nil, nil) when absent.
func (pr *PresetRepository) GetByName(ctx context.Context, name string, isGlobal bool) (*models.WorkflowPreset, error) {
	presets, err := pr.List(ctx, persistence.ListPresetsOptions{})
	if err != nil {
		return nil, err
	}

	for _, preset := range presets {
		if preset.Name == name && preset.IsGlobal == isGlobal {
			return preset, nil
		}
	}

	return nil, nil
}

// Save writes the preset document, creating the presets directory on first
// use.
func (pr *PresetRepository) Save(_ context.Context, preset *models.WorkflowPreset) error {
	dir := path.Join(pr.root, presetsDir)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return persistence.NewPresetError("Save", preset.ID, err)
	}

	data, err := json.MarshalIndent(preset, "", "  ")
	if err != nil {
		return persistence.NewPresetError("Save", preset.ID, err)
	}

	if err := os.WriteFile(pr.presetPath(preset.ID), data, 0o644); err != nil {
		return persistence.NewPresetError("Save", preset.ID, err)
	}

	return nil
}

// Delete removes the preset document.
func (pr *PresetRepository) Delete(_ context.Context, id string) error {
	err := os.Remove(pr.presetPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return persistence.NewPresetError("Delete", id, persistence.ErrPresetNotFound)
		}

		return persistence.NewPresetError("Delete", id, err)
	}

	return nil
}

func (pr *PresetRepository) presetPath(id string) string {
	return path.Join(pr.root, presetsDir, id+".json")
}
