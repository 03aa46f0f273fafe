// Package interpreter turns a normalized execution result into a business
// insight record and persists it. Like the executor, it degrades instead of
// failing: a generation or persistence problem produces a low-confidence or
// unpersisted record, never an aborted run.
package interpreter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/liftlab/liftwire/pkg/models"
)

// Stage interprets execution results.
type Stage struct {
	generator InsightGenerator
	store     InsightStore
	logger    *slog.Logger
}

// NewStage wires the interpreter. A nil store disables persistence; the
// record is marked skipped.
func NewStage(generator InsightGenerator, store InsightStore, logger *slog.Logger) *Stage {
	return &Stage{
		generator: generator,
		store:     store,
		logger:    logger.With("stage", "interpreter"),
	}
}

// Interpret produces an insight record for the execution result. It never
// returns an error: generation failures yield a degraded record and
// persistence failures are recorded on the Persistence field.
func (s *Stage) Interpret(ctx context.Context, result *models.ExecutionResult) *models.InsightRecord {
	record, err := s.generator.Insights(ctx, result)
	if err != nil {
		s.logger.WarnContext(ctx, "insight generation failed, producing degraded record", "error", err)

		record = degradedRecord(err)
	}

	record.Raw = result
	record.PromoteMetrics(result)

	s.persist(ctx, record)

	return record
}

func (s *Stage) persist(ctx context.Context, record *models.InsightRecord) {
	if s.store == nil {
		record.Persistence = models.PersistenceSkipped

		s.logger.InfoContext(ctx, "insight persistence skipped, no store configured")

		return
	}

	if err := s.store.Save(ctx, record); err != nil {
		record.Persistence = fmt.Sprintf("failed: %v", err)

		s.logger.ErrorContext(ctx, "failed to persist insight", "error", err)

		return
	}

	record.Persistence = models.PersistencePostgres
}

func degradedRecord(err error) *models.InsightRecord {
	return &models.InsightRecord{
		Summary:         fmt.Sprintf("Error generating insights: %v", err),
		KeyFindings:     []string{},
		Recommendation:  "Review manually.",
		ConfidenceLevel: models.ConfidenceLow,
		GeneratedAt:     now(),
	}
}
