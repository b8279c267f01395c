package preset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateImportDocument_Valid(t *testing.T) {
	doc := []byte(`{
		"name": "Standard Review Flow",
		"is_global": true,
		"sequences": [
			{"revision_description_id": "desc-a", "revision_step_id": "step-tco"},
			{"revision_description_id": "desc-b", "revision_step_id": "step-con", "is_final": true}
		],
		"rules": [
			{
				"current_revision_description_id": "desc-a",
				"current_revision_step_id": "step-tco",
				"operator": "equals",
				"review_code_ids": ["app"],
				"next_revision_description_id": "desc-b",
				"next_revision_step_id": "step-con",
				"priority": 100
			}
		]
	}`)

	assert.NoError(t, ValidateImportDocument(doc))
}

func TestValidateImportDocument_MissingName(t *testing.T) {
	doc := []byte(`{"sequences": []}`)

	err := ValidateImportDocument(doc)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestValidateImportDocument_BadOperator(t *testing.T) {
	doc := []byte(`{
		"name": "Flow",
		"sequences": [{"revision_description_id": "d", "revision_step_id": "s"}],
		"rules": [{
			"current_revision_description_id": "d",
			"current_revision_step_id": "s",
			"operator": "in_list",
			"review_code_ids": ["app"]
		}]
	}`)

	err := ValidateImportDocument(doc)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "operator")
}

func TestValidateImportDocument_EmptyReviewCodes(t *testing.T) {
	doc := []byte(`{
		"name": "Flow",
		"sequences": [{"revision_description_id": "d", "revision_step_id": "s"}],
		"rules": [{
			"current_revision_description_id": "d",
			"current_revision_step_id": "s",
			"operator": "equals",
			"review_code_ids": []
		}]
	}`)

	assert.Error(t, ValidateImportDocument(doc))
}

func TestValidateImportDocument_HalfSetNextState(t *testing.T) {
	doc := []byte(`{
		"name": "Flow",
		"sequences": [{"revision_description_id": "d", "revision_step_id": "s"}],
		"rules": [{
			"current_revision_description_id": "d",
			"current_revision_step_id": "s",
			"operator": "equals",
			"review_code_ids": ["app"],
			"next_revision_description_id": "d2"
		}]
	}`)

	err := ValidateImportDocument(doc)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "next_revision_step_id")
}

func TestValidateImportDocument_NotJSON(t *testing.T) {
	assert.Error(t, ValidateImportDocument([]byte("not json")))
}
