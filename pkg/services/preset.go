package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/doclane/revflow/pkg/eventbus"
	"github.com/doclane/revflow/pkg/events"
	"github.com/doclane/revflow/pkg/models"
	"github.com/doclane/revflow/pkg/persistence"
	"github.com/doclane/revflow/pkg/preset"
)

// ErrPresetNotFound is returned when a preset is not found.
var ErrPresetNotFound = persistence.ErrPresetNotFound

// Identity carries the authenticated caller. Admins manage global presets;
// everyone else works on their own project-scoped presets.
type Identity struct {
	UserID  string
	IsAdmin bool
}

// DeletePolicy controls what happens to rules referencing a sequence when the
// sequence is removed.
type DeletePolicy string

const (
	// DeleteRestrict refuses the removal while any rule references the state.
	DeleteRestrict DeletePolicy = "restrict"

	// DeleteCascade removes the referencing rules along with the sequence.
	DeleteCascade DeletePolicy = "cascade"
)

// Preset is the authoring service for workflow presets.
type Preset struct {
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
}

// NewPreset creates a new preset service.
func NewPreset(persistence persistence.Persistence, eventBus eventbus.EventBus) *Preset {
	return &Preset{
		persistence: persistence,
		eventBus:    eventBus,
	}
}

// HealthCheck checks the health of the persistence layer.
func (s *Preset) HealthCheck(ctx context.Context) (string, bool) {
	if s.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := s.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// List returns the presets visible to the caller: all global presets plus the
// caller's own project-scoped ones. Admins see everything.
func (s *Preset) List(ctx context.Context, identity Identity, scope persistence.PresetScope) ([]*models.WorkflowPreset, error) {
	opts := persistence.ListPresetsOptions{Scope: scope}

	if !identity.IsAdmin {
		opts.CreatedBy = identity.UserID
	}

	presets, err := s.persistence.PresetRepository().List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}

	return presets, nil
}

// FetchByID retrieves a preset the caller is allowed to read.
func (s *Preset) FetchByID(ctx context.Context, identity Identity, id string) (*models.WorkflowPreset, error) {
	existing, err := s.persistence.PresetRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		return nil, ErrPresetNotFound
	}

	if !s.canRead(identity, existing) {
		return nil, ErrForbidden
	}

	return existing, nil
}

// Create validates and stores a new preset.
func (s *Preset) Create(ctx context.Context, identity Identity, p *models.WorkflowPreset) (*models.WorkflowPreset, error) {
	if err := s.validateAuthoring(p); err != nil {
		return nil, err
	}

	if p.IsGlobal && !identity.IsAdmin {
		return nil, ErrForbidden
	}

	existing, err := s.persistence.PresetRepository().GetByName(ctx, p.Name, p.IsGlobal)
	if err != nil {
		return nil, fmt.Errorf("failed to check preset name: %w", err)
	}

	if existing != nil {
		return nil, ErrPresetNameTaken
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate preset ID: %w", err)
	}

	now := time.Now().UTC()
	p.ID = id.String()
	p.CreatedBy = identity.UserID
	p.CreatedAt = now
	p.UpdatedAt = now

	err = s.persistence.PresetRepository().Save(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to create preset: %w", err)
	}

	s.publish(ctx, p.ID, events.PresetCreated{
		BaseEvent: events.NewBaseEvent(events.PresetCreatedEvent, p.ID),
		Name:      p.Name,
		IsGlobal:  p.IsGlobal,
		Actor:     identity.UserID,
	})

	return p, nil
}

// Update replaces an existing preset's content. Sequences and rules are
// replaced wholesale.
func (s *Preset) Update(ctx context.Context, identity Identity, presetID string, p *models.WorkflowPreset) (*models.WorkflowPreset, error) {
	existing, err := s.persistence.PresetRepository().GetByID(ctx, presetID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		return nil, ErrPresetNotFound
	}

	if !s.canWrite(identity, existing) {
		return nil, ErrForbidden
	}

	if err := s.validateAuthoring(p); err != nil {
		return nil, err
	}

	if p.IsGlobal && !identity.IsAdmin {
		return nil, ErrForbidden
	}

	if p.Name != existing.Name || p.IsGlobal != existing.IsGlobal {
		conflict, err := s.persistence.PresetRepository().GetByName(ctx, p.Name, p.IsGlobal)
		if err != nil {
			return nil, fmt.Errorf("failed to check preset name: %w", err)
		}

		if conflict != nil && conflict.ID != presetID {
			return nil, ErrPresetNameTaken
		}
	}

	p.ID = presetID
	p.CreatedBy = existing.CreatedBy
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	err = s.persistence.PresetRepository().Save(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to update preset: %w", err)
	}

	s.publish(ctx, p.ID, events.PresetUpdated{
		BaseEvent:     events.NewBaseEvent(events.PresetUpdatedEvent, p.ID),
		Name:          p.Name,
		IsGlobal:      p.IsGlobal,
		SequenceCount: len(p.Sequences),
		RuleCount:     len(p.Rules),
		Actor:         identity.UserID,
	})

	return p, nil
}

// Delete removes a preset by its ID.
func (s *Preset) Delete(ctx context.Context, identity Identity, presetID string) error {
	existing, err := s.persistence.PresetRepository().GetByID(ctx, presetID)
	if err != nil {
		return err
	}

	if existing == nil {
		return ErrPresetNotFound
	}

	if !s.canWrite(identity, existing) {
		return ErrForbidden
	}

	err = s.persistence.PresetRepository().Delete(ctx, presetID)
	if err != nil {
		return fmt.Errorf("failed to delete preset: %w", err)
	}

	s.publish(ctx, presetID, events.PresetDeleted{
		BaseEvent: events.NewBaseEvent(events.PresetDeletedEvent, presetID),
		Name:      existing.Name,
		Actor:     identity.UserID,
	})

	return nil
}

// RemoveSequence removes one state from a preset. The policy decides the fate
// of rules referencing the state: restrict refuses, cascade removes them.
func (s *Preset) RemoveSequence(
	ctx context.Context,
	identity Identity,
	presetID string,
	state models.StateRef,
	policy DeletePolicy,
) (*models.WorkflowPreset, error) {
	if policy == "" {
		policy = DeleteRestrict
	}

	if policy != DeleteRestrict && policy != DeleteCascade {
		return nil, NewValidationError(
			"RemoveSequence",
			"INVALID_DELETE_POLICY",
			fmt.Sprintf("invalid on-delete policy '%s', allowed: restrict, cascade", policy),
			ErrInvalidDeletePolicy,
		)
	}

	existing, err := s.persistence.PresetRepository().GetByID(ctx, presetID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		return nil, ErrPresetNotFound
	}

	if !s.canWrite(identity, existing) {
		return nil, ErrForbidden
	}

	sequences := make([]*models.Sequence, 0, len(existing.Sequences))
	removed := false

	for _, sequence := range existing.Sequences {
		if sequence.State() == state {
			removed = true

			continue
		}

		sequences = append(sequences, sequence)
	}

	if !removed {
		return nil, ErrSequenceNotFound
	}

	referencing := 0

	for _, rule := range existing.Rules {
		if rule.CurrentState() == state {
			referencing++

			continue
		}

		if next, ok := rule.NextState(); ok && next == state {
			referencing++
		}
	}

	if referencing > 0 && policy == DeleteRestrict {
		return nil, NewValidationError(
			"RemoveSequence",
			"SEQUENCE_IN_USE",
			fmt.Sprintf("%d rule(s) reference this state", referencing),
			ErrSequenceInUse,
		)
	}

	if referencing > 0 {
		rules := make([]*models.Rule, 0, len(existing.Rules))

		for _, rule := range existing.Rules {
			if rule.CurrentState() == state {
				continue
			}

			if next, ok := rule.NextState(); ok && next == state {
				continue
			}

			rules = append(rules, rule)
		}

		existing.Rules = rules
	}

	existing.Sequences = sequences
	existing.UpdatedAt = time.Now().UTC()

	err = s.persistence.PresetRepository().Save(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("failed to save preset: %w", err)
	}

	s.publish(ctx, existing.ID, events.PresetUpdated{
		BaseEvent:     events.NewBaseEvent(events.PresetUpdatedEvent, existing.ID),
		Name:          existing.Name,
		IsGlobal:      existing.IsGlobal,
		SequenceCount: len(existing.Sequences),
		RuleCount:     len(existing.Rules),
		Actor:         identity.UserID,
	})

	return existing, nil
}

// validateAuthoring enforces the authoring invariants before any structural
// validation.
func (s *Preset) validateAuthoring(p *models.WorkflowPreset) error {
	if p == nil {
		return ErrPresetNil
	}

	if strings.TrimSpace(p.Name) == "" {
		return ErrPresetNameRequired
	}

	if len(p.Sequences) == 0 && len(p.Rules) > 0 {
		return ErrRulesWithoutSequences
	}

	if len(p.Sequences) > 0 {
		if _, err := preset.Validate(p); err != nil {
			return NewValidationError("validateAuthoring", "INVALID_PRESET", err.Error(), ErrInvalidRequest)
		}
	}

	return nil
}

func (s *Preset) canRead(identity Identity, p *models.WorkflowPreset) bool {
	return p.IsGlobal || identity.IsAdmin || p.CreatedBy == identity.UserID
}

func (s *Preset) canWrite(identity Identity, p *models.WorkflowPreset) bool {
	if p.IsGlobal {
		return identity.IsAdmin
	}

	return identity.IsAdmin || p.CreatedBy == identity.UserID
}

func (s *Preset) publish(ctx context.Context, key string, event eventbus.Event) {
	if s.eventBus == nil {
		return
	}

	// Event delivery is best effort; authoring never fails on a bus error
	_ = s.eventBus.Publish(ctx, key, event)
}
