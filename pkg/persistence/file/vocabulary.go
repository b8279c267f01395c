package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"

	"github.com/doclane/revflow/pkg/models"
)

const vocabularyDir = "vocabulary"

// VocabularyRepository stores each catalog as one JSON array under
// <root>/vocabulary/.
type VocabularyRepository struct {
	root string
}

// NewVocabularyRepository creates a new file-backed vocabulary repository.
func NewVocabularyRepository(root string) *VocabularyRepository {
	return &VocabularyRepository{root: root}
}

// RevisionDescriptions returns all revision description entries.
func (vr *VocabularyRepository) RevisionDescriptions(_ context.Context) ([]*models.RevisionDescription, error) {
	var entries []*models.RevisionDescription
	if err := vr.readCatalog("revision_descriptions.json", &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// RevisionSteps returns all revision step entries.
func (vr *VocabularyRepository) RevisionSteps(_ context.Context) ([]*models.RevisionStep, error) {
	var entries []*models.RevisionStep
	if err := vr.readCatalog("revision_steps.json", &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// ReviewCodes returns all review code entries.
func (vr *VocabularyRepository) ReviewCodes(_ context.Context) ([]*models.ReviewCode, error) {
	var entries []*models.ReviewCode
	if err := vr.readCatalog("review_codes.json", &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// SaveRevisionDescription upserts one revision description entry by id.
func (vr *VocabularyRepository) SaveRevisionDescription(ctx context.Context, entry *models.RevisionDescription) error {
	entries, err := vr.RevisionDescriptions(ctx)
	if err != nil {
		return err
	}

	updated := false

	for i, existing := range entries {
		if existing.ID == entry.ID {
			entries[i] = entry
			updated = true

			break
		}
	}

	if !updated {
		entries = append(entries, entry)
	}

	return vr.writeCatalog("revision_descriptions.json", entries)
}

// SaveRevisionStep upserts one revision step entry by id.
func (vr *VocabularyRepository) SaveRevisionStep(ctx context.Context, entry *models.RevisionStep) error {
	entries, err := vr.RevisionSteps(ctx)
	if err != nil {
		return err
	}

	updated := false

	for i, existing := range entries {
		if existing.ID == entry.ID {
			entries[i] = entry
			updated = true

			break
		}
	}

	if !updated {
		entries = append(entries, entry)
	}

	return vr.writeCatalog("revision_steps.json", entries)
}

// SaveReviewCode upserts one review code entry by id.
func (vr *VocabularyRepository) SaveReviewCode(ctx context.Context, entry *models.ReviewCode) error {
	entries, err := vr.ReviewCodes(ctx)
	if err != nil {
		return err
	}

	updated := false

	for i, existing := range entries {
		if existing.ID == entry.ID {
			entries[i] = entry
			updated = true

			break
		}
	}

	if !updated {
		entries = append(entries, entry)
	}

	return vr.writeCatalog("review_codes.json", entries)
}

func (vr *VocabularyRepository) readCatalog(name string, out any) error {
	data, err := os.ReadFile(path.Join(vr.root, vocabularyDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("failed to read catalog %s: %w", name, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode catalog %s: %w", name, err)
	}

	return nil
}

func (vr *VocabularyRepository) writeCatalog(name string, entries any) error {
	dir := path.Join(vr.root, vocabularyDir)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create vocabulary directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog %s: %w", name, err)
	}

	if err := os.WriteFile(path.Join(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog %s: %w", name, err)
	}

	return nil
}
