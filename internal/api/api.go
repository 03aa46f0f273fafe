// Package api exposes the pipeline over HTTP: triggering runs with partial
// request overrides, fetching archived run records, and listing artifacts.
package api

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/liftlab/liftwire/pkg/artifact"
	"github.com/liftlab/liftwire/pkg/models"
)

// Runner triggers one pipeline run.
type Runner interface {
	Run(ctx context.Context, request models.AnalysisRequest) (*models.RunRecord, error)
}

type Handlers struct {
	runner    Runner
	defaults  models.AnalysisRequest
	store     artifact.Store
	validator *validator.Validate
	logger    *slog.Logger
}

func NewHandlers(runner Runner, defaults models.AnalysisRequest, store artifact.Store, logger *slog.Logger) *Handlers {
	return &Handlers{
		runner:    runner,
		defaults:  defaults,
		store:     store,
		validator: validator.New(),
		logger:    logger.With("module", "api"),
	}
}

// NewApp builds the fiber application with all routes registered.
func NewApp(h *Handlers) *fiber.App {
	app := fiber.New()

	app.Get("/healthz", h.Health)
	app.Post("/runs", h.TriggerRun)
	app.Get("/runs/:id", h.GetRun)
	app.Get("/artifacts", h.ListArtifacts)

	return app
}

func (h *Handlers) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// TriggerRun starts a pipeline run. The request body holds partial JSON
// overrides of the configured default request; an empty body runs the
// defaults as-is.
func (h *Handlers) TriggerRun(c fiber.Ctx) error {
	request := h.defaults

	if body := c.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &request); err != nil {
			return badRequest(c, "invalid request body: "+err.Error())
		}
	}

	if err := h.validator.Struct(request); err != nil {
		return badRequest(c, err.Error())
	}

	record, err := h.runner.Run(c.Context(), request)
	if err != nil {
		h.logger.Error("run failed", "error", err)

		return internalError(c, err)
	}

	return c.JSON(runSummary(record))
}

// GetRun returns an archived run record.
func (h *Handlers) GetRun(c fiber.Ctx) error {
	if h.store == nil {
		return notFound(c, "run archive is not configured")
	}

	runID := c.Params("id")

	data, err := h.store.Get(c.Context(), artifact.RunPath(runID, "run_record.json"))
	if err != nil {
		if artifact.IsNotFound(err) {
			return notFound(c, "run "+runID+" not found")
		}

		return internalError(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	return c.Send(data)
}

// ListArtifacts lists stored artifacts under an optional prefix.
func (h *Handlers) ListArtifacts(c fiber.Ctx) error {
	if h.store == nil {
		return notFound(c, "artifact store is not configured")
	}

	entries, err := h.store.List(c.Context(), c.Query("prefix"))
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"artifacts": entries,
		"count":     len(entries),
	})
}

func runSummary(record *models.RunRecord) fiber.Map {
	summary := fiber.Map{
		"run_id":      record.ID,
		"success":     record.Execution != nil && record.Execution.Success,
		"started_at":  record.StartedAt,
		"finished_at": record.FinishedAt,
	}

	if record.Insight != nil {
		summary["summary"] = record.Insight.Summary
		summary["confidence_level"] = record.Insight.ConfidenceLevel
		summary["incremental_lift_pct"] = record.Insight.IncrementalLiftPct
	}

	if record.Distribution != nil {
		summary["distribution"] = record.Distribution
	}

	return summary
}
