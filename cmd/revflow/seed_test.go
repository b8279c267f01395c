package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doclane/revflow/pkg/persistence/file"
)

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadSeedFile(t *testing.T) {
	path := writeSeedFile(t, `{
		"revision_descriptions": [
			{"id": "desc-a", "code": "A", "description": "For Approval", "is_active": true}
		],
		"revision_steps": [
			{"code": "TCO", "description": "To Construction Owner", "is_active": true}
		],
		"review_codes": [
			{"id": "code-app", "code": "APP", "description": "Approved", "is_active": true},
			{"id": "code-rej", "code": "REJ", "description": "Rejected", "is_active": true}
		]
	}`)

	seed, err := loadSeedFile(path)
	require.NoError(t, err)

	require.Len(t, seed.RevisionDescriptions, 1)
	assert.Equal(t, "desc-a", seed.RevisionDescriptions[0].ID)

	// Entries without an id get one assigned
	require.Len(t, seed.RevisionSteps, 1)
	assert.NotEmpty(t, seed.RevisionSteps[0].ID)

	assert.Len(t, seed.ReviewCodes, 2)
}

func TestLoadSeedFile_MissingCode(t *testing.T) {
	path := writeSeedFile(t, `{"review_codes": [{"id": "code-x", "description": "No code"}]}`)

	_, err := loadSeedFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no code")
}

func TestLoadSeedFile_InvalidJSON(t *testing.T) {
	path := writeSeedFile(t, `{not json`)

	_, err := loadSeedFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse seed file")
}

func TestSeedVocabulary_FileBackend(t *testing.T) {
	dataDir := t.TempDir()
	path := writeSeedFile(t, `{
		"review_codes": [
			{"id": "code-app", "code": "APP", "description": "Approved", "is_active": true}
		]
	}`)

	require.NoError(t, seedVocabulary(t.Context(), dataDir, path))

	codes, err := file.NewPersistence(dataDir).VocabularyRepository().ReviewCodes(t.Context())
	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.Equal(t, "APP", codes[0].Code)
}
