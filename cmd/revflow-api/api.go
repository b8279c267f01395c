// Package main provides the Revflow API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"go.opentelemetry.io/otel/trace"

	"github.com/doclane/revflow/pkg/eventbus"
	"github.com/doclane/revflow/pkg/persistence"
	"github.com/doclane/revflow/pkg/services"
	"github.com/doclane/revflow/pkg/vocabulary"
	"github.com/doclane/revflow/pkg/web"
)

type API struct {
	logger          *slog.Logger
	persistence     persistence.Persistence
	eventBus        eventbus.EventBus
	vocabularyStore *vocabulary.Store
	tracer          trace.Tracer
	validate        *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
	vocabularyStore *vocabulary.Store,
	tracer trace.Tracer,
) *API {
	return &API{
		logger:          logger,
		persistence:     persistence,
		eventBus:        eventBus,
		vocabularyStore: vocabularyStore,
		tracer:          tracer,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	presetService := services.NewPreset(a.persistence, a.eventBus)
	transitionService := services.NewTransition(a.persistence, a.eventBus, a.tracer)

	handlers := web.NewAPIHandlers(presetService, transitionService, a.vocabularyStore, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Revflow API")
	})

	p := app.Group("/presets")
	p.Get("/", handlers.GetPresets)
	p.Post("/", handlers.CreatePreset)
	p.Post("/import", handlers.ImportPreset)
	p.Get("/:id", handlers.GetPreset)
	p.Put("/:id", handlers.UpdatePreset)
	p.Delete("/:id", handlers.DeletePreset)
	p.Delete("/:id/sequences", handlers.RemoveSequence)

	t := app.Group("/transitions")
	t.Post("/evaluate", handlers.EvaluateTransition)

	v := app.Group("/vocabulary")
	v.Get("/revision-descriptions", handlers.GetRevisionDescriptions)
	v.Get("/revision-steps", handlers.GetRevisionSteps)
	v.Get("/review-codes", handlers.GetReviewCodes)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
