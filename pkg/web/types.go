// Package web provides HTTP request and response types for the preset API.
package web

import "github.com/doclane/revflow/pkg/models"

// ErrorResponse represents a standardized API error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// SequencePayload is one workflow state in a request body.
type SequencePayload struct {
	RevisionDescriptionID string `json:"revision_description_id" validate:"required"`
	RevisionStepID        string `json:"revision_step_id"        validate:"required"`
	IsFinal               bool   `json:"is_final"`
	RequiresTransmittal   bool   `json:"requires_transmittal"`
}

// RulePayload is one transition rule in a request body.
type RulePayload struct {
	CurrentRevisionDescriptionID string   `json:"current_revision_description_id" validate:"required"`
	CurrentRevisionStepID        string   `json:"current_revision_step_id"        validate:"required"`
	Operator                     string   `json:"operator"                        validate:"required,oneof=equals not_equals"`
	ReviewCodeIDs                []string `json:"review_code_ids"                 validate:"required,min=1"`
	NextRevisionDescriptionID    *string  `json:"next_revision_description_id,omitempty" validate:"required_with=NextRevisionStepID"`
	NextRevisionStepID           *string  `json:"next_revision_step_id,omitempty"        validate:"required_with=NextRevisionDescriptionID"`
	ActionOnFail                 string   `json:"action_on_fail,omitempty"`
	Priority                     int      `json:"priority"`
}

// CreatePresetRequest represents the request body for creating a new preset.
type CreatePresetRequest struct {
	Name        string            `json:"name"        validate:"required,min=3"`
	Description string            `json:"description"`
	IsGlobal    bool              `json:"is_global"`
	Sequences   []SequencePayload `json:"sequences"   validate:"dive"`
	Rules       []RulePayload     `json:"rules"       validate:"dive"`
}

// UpdatePresetRequest represents the request body for updating a preset.
// Sequences and rules are replaced wholesale; there is no partial patching of
// individual entries.
type UpdatePresetRequest struct {
	Name        string            `json:"name"        validate:"required,min=3"`
	Description string            `json:"description"`
	IsGlobal    bool              `json:"is_global"`
	Sequences   []SequencePayload `json:"sequences"   validate:"dive"`
	Rules       []RulePayload     `json:"rules"       validate:"dive"`
}

// RemoveSequenceRequest identifies the state to remove and the fate of rules
// referencing it.
type RemoveSequenceRequest struct {
	RevisionDescriptionID string `json:"revision_description_id" validate:"required"`
	RevisionStepID        string `json:"revision_step_id"        validate:"required"`
	OnDelete              string `json:"on_delete,omitempty"     validate:"omitempty,oneof=restrict cascade"`
}

// EvaluateTransitionRequest represents the request body for a transition
// evaluation.
type EvaluateTransitionRequest struct {
	PresetID              string   `json:"preset_id"               validate:"required"`
	RevisionDescriptionID string   `json:"revision_description_id" validate:"required"`
	RevisionStepID        string   `json:"revision_step_id"        validate:"required"`
	ReviewCodeIDs         []string `json:"review_code_ids"`
}

// ToModel converts a create/update payload into the domain model.
func (r CreatePresetRequest) ToModel() *models.WorkflowPreset {
	return buildPreset(r.Name, r.Description, r.IsGlobal, r.Sequences, r.Rules)
}

// ToModel converts an update payload into the domain model.
func (r UpdatePresetRequest) ToModel() *models.WorkflowPreset {
	return buildPreset(r.Name, r.Description, r.IsGlobal, r.Sequences, r.Rules)
}

func buildPreset(name, description string, isGlobal bool, sequences []SequencePayload, rules []RulePayload) *models.WorkflowPreset {
	preset := &models.WorkflowPreset{
		Name:        name,
		Description: description,
		IsGlobal:    isGlobal,
		Sequences:   make([]*models.Sequence, 0, len(sequences)),
		Rules:       make([]*models.Rule, 0, len(rules)),
	}

	for _, s := range sequences {
		preset.Sequences = append(preset.Sequences, &models.Sequence{
			RevisionDescriptionID: s.RevisionDescriptionID,
			RevisionStepID:        s.RevisionStepID,
			IsFinal:               s.IsFinal,
			RequiresTransmittal:   s.RequiresTransmittal,
		})
	}

	for _, r := range rules {
		preset.Rules = append(preset.Rules, &models.Rule{
			CurrentRevisionDescriptionID: r.CurrentRevisionDescriptionID,
			CurrentRevisionStepID:        r.CurrentRevisionStepID,
			Operator:                     models.Operator(r.Operator),
			ReviewCodeIDs:                models.NewReviewCodeSet(r.ReviewCodeIDs...),
			NextRevisionDescriptionID:    r.NextRevisionDescriptionID,
			NextRevisionStepID:           r.NextRevisionStepID,
			ActionOnFail:                 models.FallbackAction(r.ActionOnFail),
			Priority:                     r.Priority,
		})
	}

	return preset
}
