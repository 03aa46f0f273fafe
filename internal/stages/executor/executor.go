// Package executor deploys generated analysis code into the warehouse and
// normalizes whatever comes back. Execution failures are results, not errors:
// the stage always returns an ExecutionResult so a run can finish and report
// the failure downstream.
package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/liftlab/liftwire/pkg/artifact"
	"github.com/liftlab/liftwire/pkg/models"
	"github.com/liftlab/liftwire/pkg/warehouse"
)

const procNamePrefix = "run_incrementality_analysis_"

// Stage runs one code artifact per invocation against the warehouse.
type Stage struct {
	opener warehouse.Opener
	store  artifact.Store
	logger *slog.Logger
}

// NewStage wires the executor. The store is optional and used for the latest
// result slot and for loading code by locator.
func NewStage(opener warehouse.Opener, store artifact.Store, logger *slog.Logger) *Stage {
	return &Stage{
		opener: opener,
		store:  store,
		logger: logger.With("stage", "executor"),
	}
}

// Execute deploys source as a timestamp-named procedure, calls it, and
// normalizes the return value. Every failure path produces a failed result.
func (s *Stage) Execute(ctx context.Context, source string) *models.ExecutionResult {
	procName := procNamePrefix + time.Now().Format("20060102_150405")

	result := s.run(ctx, procName, source)
	result.ProcedureName = procName
	result.ExecutedAt = time.Now().UTC()

	s.publish(ctx, result)

	return result
}

// ExecuteFromLocator loads previously published code from the artifact store
// and executes it.
func (s *Stage) ExecuteFromLocator(ctx context.Context, locator string) *models.ExecutionResult {
	if s.store == nil {
		return failedResult(fmt.Sprintf("no artifact store configured, cannot load %s", locator))
	}

	source, err := s.store.Get(ctx, locator)
	if err != nil {
		return failedResult(fmt.Sprintf("failed to load code from %s: %v", locator, err))
	}

	s.logger.InfoContext(ctx, "loaded code artifact", "locator", locator, "bytes", len(source))

	return s.Execute(ctx, string(source))
}

func (s *Stage) run(ctx context.Context, procName, source string) *models.ExecutionResult {
	session, err := s.opener.Open(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "warehouse unavailable", "error", err)

		return failedResult(fmt.Sprintf("failed to open warehouse session: %v", err))
	}
	defer session.Close()

	if err := session.Deploy(ctx, procName, source); err != nil {
		return failedResult(fmt.Sprintf("failed to deploy procedure %s: %v", procName, err))
	}

	s.logger.InfoContext(ctx, "procedure deployed", "procedure", procName)

	raw, err := session.Call(ctx, procName)
	if err != nil {
		return failedResult(fmt.Sprintf("procedure %s failed: %v", procName, err))
	}

	return normalize(raw)
}

// publish writes the latest-result slot. Failures are logged only.
func (s *Stage) publish(ctx context.Context, result *models.ExecutionResult) {
	if s.store == nil {
		return
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		s.logger.WarnContext(ctx, "failed to encode execution result", "error", err)

		return
	}

	if _, err := artifact.PublishLatest(ctx, s.store, artifact.LatestResultPath, payload, "application/json"); err != nil {
		s.logger.WarnContext(ctx, "failed to publish execution result", "error", err)
	}
}
