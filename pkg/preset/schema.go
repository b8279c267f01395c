package preset

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// importSchema describes the shape of a preset import document. Structural
// problems are reported before decoding so the author gets schema errors
// instead of unmarshal panics on malformed exports.
const importSchema = `{
	"type": "object",
	"required": ["name", "sequences"],
	"properties": {
		"name": {"type": "string", "minLength": 3},
		"description": {"type": "string"},
		"is_global": {"type": "boolean"},
		"sequences": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["revision_description_id", "revision_step_id"],
				"properties": {
					"revision_description_id": {"type": "string", "minLength": 1},
					"revision_step_id": {"type": "string", "minLength": 1},
					"is_final": {"type": "boolean"},
					"requires_transmittal": {"type": "boolean"}
				}
			}
		},
		"rules": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["current_revision_description_id", "current_revision_step_id", "operator", "review_code_ids"],
				"properties": {
					"current_revision_description_id": {"type": "string", "minLength": 1},
					"current_revision_step_id": {"type": "string", "minLength": 1},
					"operator": {"type": "string", "enum": ["equals", "not_equals"]},
					"review_code_ids": {
						"type": "array",
						"minItems": 1,
						"items": {"type": "string", "minLength": 1}
					},
					"next_revision_description_id": {"type": "string"},
					"next_revision_step_id": {"type": "string"},
					"action_on_fail": {"type": "string"},
					"priority": {"type": "integer"}
				},
				"dependencies": {
					"next_revision_description_id": ["next_revision_step_id"],
					"next_revision_step_id": ["next_revision_description_id"]
				}
			}
		}
	}
}`

// ValidateImportDocument checks a raw preset import document against the
// import schema. Semantic validation (state uniqueness, referential
// integrity) still happens in Validate after decoding.
func ValidateImportDocument(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(importSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate import document: %w", err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, resultError := range result.Errors() {
			details = append(details, resultError.String())
		}

		return fmt.Errorf("import document schema validation failed: %s", strings.Join(details, "; "))
	}

	return nil
}
