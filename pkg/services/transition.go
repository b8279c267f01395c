package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/doclane/revflow/pkg/engine"
	"github.com/doclane/revflow/pkg/eventbus"
	"github.com/doclane/revflow/pkg/events"
	"github.com/doclane/revflow/pkg/models"
	"github.com/doclane/revflow/pkg/otelhelper"
	"github.com/doclane/revflow/pkg/persistence"
	"github.com/doclane/revflow/pkg/preset"
)

// ErrUnknownState is returned when the document's current state is not a
// member of the preset's sequences.
var ErrUnknownState = engine.ErrUnknownState

// Transition evaluates preset rules against review decisions.
type Transition struct {
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	tracer      trace.Tracer
}

// NewTransition creates a new transition service. A nil tracer disables
// tracing.
func NewTransition(persistence persistence.Persistence, eventBus eventbus.EventBus, tracer trace.Tracer) *Transition {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("transition")
	}

	return &Transition{
		persistence: persistence,
		eventBus:    eventBus,
		tracer:      tracer,
	}
}

// EvaluateRequest describes one evaluation: where the document is and what
// the reviewers decided.
type EvaluateRequest struct {
	PresetID     string
	CurrentState models.StateRef
	ReviewCodes  []string
}

// EvaluateResponse carries the outcome plus the preset that produced it.
type EvaluateResponse struct {
	PresetID string                   `json:"preset_id"`
	Outcome  models.TransitionOutcome `json:"outcome"`
}

// Evaluate loads the preset, validates it and runs the transition engine. A
// no_matching_rule outcome is a normal response; only unknown states and
// invalid presets are errors.
func (s *Transition) Evaluate(ctx context.Context, identity Identity, req EvaluateRequest) (*EvaluateResponse, error) {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "transition.evaluate",
		attribute.String(otelhelper.PresetIDKey, req.PresetID),
		attribute.String(otelhelper.StateKey, req.CurrentState.RevisionDescriptionID+"/"+req.CurrentState.RevisionStepID),
		attribute.StringSlice(otelhelper.ReviewCodesKey, req.ReviewCodes),
	)
	defer span.End()

	if req.CurrentState.RevisionDescriptionID == "" || req.CurrentState.RevisionStepID == "" {
		return nil, ErrEmptyCurrentState
	}

	stored, err := s.persistence.PresetRepository().GetByID(ctx, req.PresetID)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	if stored == nil {
		return nil, ErrPresetNotFound
	}

	if !stored.IsGlobal && !identity.IsAdmin && stored.CreatedBy != identity.UserID {
		return nil, ErrForbidden
	}

	validated, err := preset.Validate(stored)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("preset %s failed validation: %w", req.PresetID, err)
	}

	start := time.Now()

	outcome, err := engine.Evaluate(validated, req.CurrentState, models.NewReviewCodeSet(req.ReviewCodes...))
	if err != nil {
		if errors.Is(err, engine.ErrUnknownState) {
			return nil, err
		}

		otelhelper.SetError(span, err)

		return nil, err
	}

	span.SetAttributes(
		attribute.String(otelhelper.OutcomeKindKey, string(outcome.Kind)),
		attribute.Int(otelhelper.RuleIndexKey, outcome.RuleIndex),
	)

	s.publishEvaluated(ctx, stored.ID, req, outcome, time.Since(start))

	return &EvaluateResponse{
		PresetID: stored.ID,
		Outcome:  outcome,
	}, nil
}

func (s *Transition) publishEvaluated(
	ctx context.Context,
	presetID string,
	req EvaluateRequest,
	outcome models.TransitionOutcome,
	duration time.Duration,
) {
	if s.eventBus == nil {
		return
	}

	event := events.TransitionEvaluated{
		BaseEvent:    events.NewBaseEvent(events.TransitionEvaluatedEvent, presetID),
		CurrentState: req.CurrentState,
		ReviewCodes:  models.NewReviewCodeSet(req.ReviewCodes...),
		Outcome:      outcome,
		DurationMs:   duration.Milliseconds(),
	}

	// Evaluation results are best effort on the bus
	_ = s.eventBus.Publish(ctx, presetID, event)
}
