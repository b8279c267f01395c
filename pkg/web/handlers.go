// Package web provides HTTP handlers and REST API endpoints for preset
// authoring and transition evaluation.
package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/doclane/revflow/pkg/models"
	"github.com/doclane/revflow/pkg/persistence"
	"github.com/doclane/revflow/pkg/preset"
	"github.com/doclane/revflow/pkg/services"
	"github.com/doclane/revflow/pkg/vocabulary"
)

// Identity headers. An upstream gateway authenticates callers and forwards
// who they are.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

type APIHandlers struct {
	presetService     *services.Preset
	transitionService *services.Transition
	vocabularyStore   *vocabulary.Store
	validator         *validator.Validate
}

func NewAPIHandlers(
	presetService *services.Preset,
	transitionService *services.Transition,
	vocabularyStore *vocabulary.Store,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		presetService:     presetService,
		transitionService: transitionService,
		vocabularyStore:   vocabularyStore,
		validator:         validator,
	}
}

func identityFrom(c fiber.Ctx) services.Identity {
	return services.Identity{
		UserID:  c.Get(HeaderUserID),
		IsAdmin: c.Get(HeaderUserRole) == "admin",
	}
}

func (h *APIHandlers) GetPresets(c fiber.Ctx) error {
	scope := persistence.PresetScope(c.Query("scope"))

	switch scope {
	case persistence.ScopeAll, persistence.ScopeGlobal, persistence.ScopeProject:
	default:
		return badRequest(c, "Invalid scope, allowed: global, project")
	}

	presets, err := h.presetService.List(c.Context(), identityFrom(c), scope)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"presets":     presets,
		"total_count": len(presets),
	})
}

func (h *APIHandlers) GetPreset(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Preset ID is required")
	}

	found, err := h.presetService.FetchByID(c.Context(), identityFrom(c), id)
	if err != nil {
		if persistence.IsPresetNotFound(err) {
			return notFound(c, "Preset not found")
		}

		return handleServiceError(c, err)
	}

	return c.JSON(found)
}

func (h *APIHandlers) CreatePreset(c fiber.Ctx) error {
	var req CreatePresetRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.presetService.Create(c.Context(), identityFrom(c), req.ToModel())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdatePreset(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Preset ID is required")
	}

	var req UpdatePresetRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.presetService.Update(c.Context(), identityFrom(c), id, req.ToModel())
	if err != nil {
		if persistence.IsPresetNotFound(err) {
			return notFound(c, "Preset not found")
		}

		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeletePreset(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Preset ID is required")
	}

	err := h.presetService.Delete(c.Context(), identityFrom(c), id)
	if err != nil {
		if persistence.IsPresetNotFound(err) {
			return notFound(c, "Preset not found")
		}

		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ImportPreset validates a raw preset document against the import schema
// before decoding it. Malformed documents are rejected without touching the
// service layer.
func (h *APIHandlers) ImportPreset(c fiber.Ctx) error {
	body := c.Body()

	if err := preset.ValidateImportDocument(body); err != nil {
		return badRequest(c, err.Error())
	}

	var req CreatePresetRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	created, err := h.presetService.Create(c.Context(), identityFrom(c), req.ToModel())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// RemoveSequence removes one state from a preset. The on_delete field picks
// the referential-integrity policy, defaulting to restrict.
func (h *APIHandlers) RemoveSequence(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Preset ID is required")
	}

	var req RemoveSequenceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	state := models.StateRef{
		RevisionDescriptionID: req.RevisionDescriptionID,
		RevisionStepID:        req.RevisionStepID,
	}

	updated, err := h.presetService.RemoveSequence(
		c.Context(), identityFrom(c), id, state, services.DeletePolicy(req.OnDelete),
	)
	if err != nil {
		if persistence.IsPresetNotFound(err) {
			return notFound(c, "Preset not found")
		}

		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) EvaluateTransition(c fiber.Ctx) error {
	var req EvaluateTransitionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.transitionService.Evaluate(c.Context(), identityFrom(c), services.EvaluateRequest{
		PresetID: req.PresetID,
		CurrentState: models.StateRef{
			RevisionDescriptionID: req.RevisionDescriptionID,
			RevisionStepID:        req.RevisionStepID,
		},
		ReviewCodes: req.ReviewCodeIDs,
	})
	if err != nil {
		if persistence.IsPresetNotFound(err) {
			return notFound(c, "Preset not found")
		}

		return handleServiceError(c, err)
	}

	return c.JSON(result)
}

// The vocabulary endpoints serve the authoring catalogs: active entries only,
// unless include_inactive=true asks for the historical ones too.
func includeInactive(c fiber.Ctx) bool {
	return c.Query("include_inactive") == "true"
}

func (h *APIHandlers) GetRevisionDescriptions(c fiber.Ctx) error {
	snapshot := h.vocabularyStore.Snapshot()

	entries := snapshot.ActiveRevisionDescriptions()
	if includeInactive(c) {
		entries = snapshot.RevisionDescriptions()
	}

	return c.JSON(fiber.Map{
		"revision_descriptions": entries,
	})
}

func (h *APIHandlers) GetRevisionSteps(c fiber.Ctx) error {
	snapshot := h.vocabularyStore.Snapshot()

	entries := snapshot.ActiveRevisionSteps()
	if includeInactive(c) {
		entries = snapshot.RevisionSteps()
	}

	return c.JSON(fiber.Map{
		"revision_steps": entries,
	})
}

func (h *APIHandlers) GetReviewCodes(c fiber.Ctx) error {
	snapshot := h.vocabularyStore.Snapshot()

	entries := snapshot.ActiveReviewCodes()
	if includeInactive(c) {
		entries = snapshot.ReviewCodes()
	}

	return c.JSON(fiber.Map{
		"review_codes": entries,
	})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.presetService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Revflow API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Revflow API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}
