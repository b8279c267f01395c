// Package events defines event types and structures for preset lifecycle and
// transition evaluation notifications.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/doclane/revflow/pkg/models"
)

type EventType string

// Topic carries all preset and transition events.
const Topic = "revflow.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Preset lifecycle events.
	PresetCreatedEvent EventType = "preset.created"
	PresetUpdatedEvent EventType = "preset.updated"
	PresetDeletedEvent EventType = "preset.deleted"

	// Transition evaluation events.
	TransitionEvaluatedEvent EventType = "transition.evaluated"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	PresetID  string         `json:"preset_id"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type PresetCreated struct {
	BaseEvent

	Name     string `json:"name"`
	IsGlobal bool   `json:"is_global"`
	Actor    string `json:"actor,omitempty"`
}

func (p PresetCreated) GetType() EventType {
	return PresetCreatedEvent
}

type PresetUpdated struct {
	BaseEvent

	Name          string `json:"name"`
	IsGlobal      bool   `json:"is_global"`
	SequenceCount int    `json:"sequence_count"`
	RuleCount     int    `json:"rule_count"`
	Actor         string `json:"actor,omitempty"`
}

func (p PresetUpdated) GetType() EventType {
	return PresetUpdatedEvent
}

type PresetDeleted struct {
	BaseEvent

	Name  string `json:"name"`
	Actor string `json:"actor,omitempty"`
}

func (p PresetDeleted) GetType() EventType {
	return PresetDeletedEvent
}

// TransitionEvaluated records one engine evaluation, matched or not.
type TransitionEvaluated struct {
	BaseEvent

	CurrentState models.StateRef          `json:"current_state"`
	ReviewCodes  models.ReviewCodeSet     `json:"review_codes"`
	Outcome      models.TransitionOutcome `json:"outcome"`
	DurationMs   int64                    `json:"duration_ms"`
}

func (t TransitionEvaluated) GetType() EventType {
	return TransitionEvaluatedEvent
}

func NewBaseEvent(eventType EventType, presetID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		PresetID:  presetID,
		Metadata:  make(map[string]any),
	}
}
