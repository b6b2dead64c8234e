package server

import (
	"context"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/emostate/internal/classifier"
	"github.com/danielpatrickdp/emostate/internal/logging"
	"github.com/danielpatrickdp/emostate/internal/orchestrator"
	"github.com/danielpatrickdp/emostate/internal/session"
	"github.com/danielpatrickdp/emostate/internal/states"
)

// Service is the part of the orchestrator the HTTP API exposes.
type Service interface {
	ProcessTurn(ctx context.Context, req orchestrator.TurnRequest) orchestrator.TurnResponse
	SessionSummary(ctx context.Context, sessionID string) (session.Report, error)
	Health(ctx context.Context) orchestrator.HealthReport
	Describe(ctx context.Context, id states.StateID) states.Meta
	States() []states.Meta
}

// Options tunes the HTTP app.
type Options struct {
	// Prometheus, when set, serves /metrics and instruments every route.
	Prometheus *fiberprometheus.FiberPrometheus
	Logger     *zap.Logger
}

// New builds the fiber app serving svc. clf backs the classify endpoint.
func New(svc Service, clf *classifier.Classifier, opts Options) *fiber.App {
	if clf == nil {
		clf = classifier.Default()
	}
	log := logging.OrNop(opts.Logger).Named("http")

	app := fiber.New(fiber.Config{
		AppName:               "emostate",
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          60 * time.Second,
		BodyLimit:             1 * 1024 * 1024,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestLogger(log))
	if opts.Prometheus != nil {
		opts.Prometheus.RegisterAt(app, "/metrics")
		app.Use(opts.Prometheus.Middleware)
	}

	h := &handler{svc: svc, clf: clf, log: log}
	app.Get("/health", h.health)

	api := app.Group("/api")
	api.Post("/chat", h.chat)
	api.Post("/classify", h.classify)
	api.Get("/states", h.states)
	api.Get("/sessions/:id/summary", h.summary)

	return app
}

func requestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Debug("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)))
		return err
	}
}
