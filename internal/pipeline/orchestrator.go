// Package pipeline chains the five analysis stages into one run. The
// orchestrator aborts only when the analyst cannot produce code at all; every
// later stage degrades in place, so a run with no live credentials still
// finishes end to end in demo mode.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/liftlab/liftwire/internal/stages/distributor"
	"github.com/liftlab/liftwire/pkg/artifact"
	"github.com/liftlab/liftwire/pkg/eventbus"
	"github.com/liftlab/liftwire/pkg/events"
	"github.com/liftlab/liftwire/pkg/models"
)

// Stage names used in lifecycle events.
const (
	StageAnalyst     = "analyst"
	StageExecutor    = "executor"
	StageInterpreter = "interpreter"
	StageReporter    = "reporter"
	StageDistributor = "distributor"
)

type Analyst interface {
	Generate(ctx context.Context, request models.AnalysisRequest) (*models.CodeArtifact, error)
}

type Executor interface {
	Execute(ctx context.Context, source string) *models.ExecutionResult
	ExecuteFromLocator(ctx context.Context, locator string) *models.ExecutionResult
}

type Interpreter interface {
	Interpret(ctx context.Context, result *models.ExecutionResult) *models.InsightRecord
}

type Reporter interface {
	RenderAll(ctx context.Context, insight *models.InsightRecord) []models.ReportArtifact
}

type Distributor interface {
	Distribute(ctx context.Context, delivery distributor.Delivery) map[string]models.DistributionOutcome
}

// Orchestrator drives one run through all five stages.
type Orchestrator struct {
	analyst     Analyst
	executor    Executor
	interpreter Interpreter
	reporter    Reporter
	distributor Distributor

	store     artifact.Store
	publisher eventbus.EventPublisher
	validator *validator.Validate
	logger    *slog.Logger
}

// NewOrchestrator wires the stages. Store and publisher are optional.
func NewOrchestrator(
	analyst Analyst,
	executor Executor,
	interpreter Interpreter,
	reporter Reporter,
	dist Distributor,
	store artifact.Store,
	publisher eventbus.EventPublisher,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		analyst:     analyst,
		executor:    executor,
		interpreter: interpreter,
		reporter:    reporter,
		distributor: dist,
		store:       store,
		publisher:   publisher,
		validator:   validator.New(),
		logger:      logger.With("module", "pipeline"),
	}
}

// Run executes the full pipeline for one request. The returned record is
// complete whenever the error is nil, including runs whose execution failed;
// an error means the run aborted before producing anything distributable.
func (o *Orchestrator) Run(ctx context.Context, request models.AnalysisRequest) (*models.RunRecord, error) {
	if err := o.validator.Struct(request); err != nil {
		return nil, fmt.Errorf("invalid analysis request: %w", err)
	}

	runID := uuid.New().String()
	logger := o.logger.With("run_id", runID)

	record := &models.RunRecord{
		ID:        runID,
		Request:   request,
		StartedAt: time.Now().UTC(),
	}

	o.publish(ctx, events.RunStarted{BaseEvent: events.NewBase(runID), Request: request})
	logger.InfoContext(ctx, "run started", "table", request.Table, "method", request.Method)

	o.stageStarted(ctx, runID, StageAnalyst)

	art, err := o.analyst.Generate(ctx, request)
	if err != nil {
		o.publish(ctx, events.RunFailed{
			BaseEvent: events.NewBase(runID),
			Stage:     StageAnalyst,
			Error:     err.Error(),
		})

		return nil, fmt.Errorf("analyst stage failed: %w", err)
	}

	record.Artifact = art
	o.stageCompleted(ctx, runID, StageAnalyst, map[string]any{
		"valid":   art.Valid,
		"locator": art.Locator,
	})

	o.stageStarted(ctx, runID, StageExecutor)

	var execution *models.ExecutionResult
	if art.Locator != "" {
		execution = o.executor.ExecuteFromLocator(ctx, art.Locator)
	} else {
		execution = o.executor.Execute(ctx, art.Source)
	}

	record.Execution = execution
	o.stageCompleted(ctx, runID, StageExecutor, map[string]any{
		"success":   execution.Success,
		"procedure": execution.ProcedureName,
	})

	o.stageStarted(ctx, runID, StageInterpreter)

	insight := o.interpreter.Interpret(ctx, execution)
	record.Insight = insight

	o.stageCompleted(ctx, runID, StageInterpreter, map[string]any{
		"confidence":  insight.ConfidenceLevel,
		"persistence": insight.Persistence,
	})

	o.stageStarted(ctx, runID, StageReporter)

	reports := o.reporter.RenderAll(ctx, insight)
	record.Reports = make(map[models.Persona]*models.ReportArtifact, len(reports))

	for i := range reports {
		record.Reports[reports[i].Persona] = &reports[i]
	}

	o.stageCompleted(ctx, runID, StageReporter, map[string]any{"count": len(reports)})

	o.stageStarted(ctx, runID, StageDistributor)

	record.Distribution = o.distributor.Distribute(ctx, distributor.Delivery{
		Reports: record.Reports,
		Insight: insight,
		Metadata: models.RunMetadata{
			RunID:     runID,
			Request:   request,
			Artifact:  art,
			Execution: execution,
		},
	})

	o.stageCompleted(ctx, runID, StageDistributor, nil)

	record.FinishedAt = time.Now().UTC()

	o.archiveRecord(ctx, record)
	o.publish(ctx, events.RunCompleted{
		BaseEvent: events.NewBase(runID),
		Success:   execution.Success,
		Duration:  record.FinishedAt.Sub(record.StartedAt),
	})

	logger.InfoContext(ctx, "run finished",
		"success", execution.Success,
		"duration", record.FinishedAt.Sub(record.StartedAt))

	return record, nil
}

// archiveRecord writes the aggregated run record into the run's archive
// namespace. Failures are logged only.
func (o *Orchestrator) archiveRecord(ctx context.Context, record *models.RunRecord) {
	if o.store == nil {
		return
	}

	payload, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		o.logger.WarnContext(ctx, "failed to encode run record", "error", err)

		return
	}

	if _, err := artifact.ArchiveVersion(ctx, o.store, record.ID, payload, "application/json", "run_record.json"); err != nil {
		o.logger.WarnContext(ctx, "failed to archive run record", "run_id", record.ID, "error", err)
	}
}

func (o *Orchestrator) stageStarted(ctx context.Context, runID, stage string) {
	o.publish(ctx, events.StageStarted{BaseEvent: events.NewBase(runID), Stage: stage})
}

func (o *Orchestrator) stageCompleted(ctx context.Context, runID, stage string, detail map[string]any) {
	o.publish(ctx, events.StageCompleted{BaseEvent: events.NewBase(runID), Stage: stage, Detail: detail})
}

func (o *Orchestrator) publish(ctx context.Context, event eventbus.Event) {
	if o.publisher == nil {
		return
	}

	if err := o.publisher.Publish(ctx, event); err != nil {
		o.logger.WarnContext(ctx, "failed to publish event", "event_type", event.GetType(), "error", err)
	}
}
