// Package file provides file-based persistence for workflow presets and
// vocabulary catalogs. It is intended for development and tests; production
// deployments use the postgresql backend.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/doclane/revflow/pkg/persistence"
)

// Persistence implements persistence.Persistence on the file system.
type Persistence struct {
	root       string
	presetRepo *PresetRepository
	vocabRepo  *VocabularyRepository
}

// NewPersistence creates a file-backed persistence rooted at the given
// directory. A "file://" prefix is accepted and stripped.
func NewPersistence(root string) persistence.Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:       cleanRoot,
		presetRepo: NewPresetRepository(cleanRoot),
		vocabRepo:  NewVocabularyRepository(cleanRoot),
	}
}

// Close performs any necessary cleanup. Nothing to release for files.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// PresetRepository returns the file-backed preset repository.
func (fp *Persistence) PresetRepository() persistence.PresetRepository {
	return fp.presetRepo
}

// VocabularyRepository returns the file-backed vocabulary repository.
func (fp *Persistence) VocabularyRepository() persistence.VocabularyRepository {
	return fp.vocabRepo
}
