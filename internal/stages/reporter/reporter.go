// Package reporter renders one insight record into persona-specific
// documents. Each persona is generated independently: a failure produces an
// error-marked artifact for that persona without touching the others.
package reporter

import (
	"context"
	"log/slog"

	"github.com/liftlab/liftwire/pkg/artifact"
	"github.com/liftlab/liftwire/pkg/models"
)

// Stage renders and archives persona reports.
type Stage struct {
	generator DocumentGenerator
	converter Converter
	store     artifact.Store
	logger    *slog.Logger
}

// NewStage wires the reporter. Converter and store are optional: without a
// converter the HTML body is the final artifact, without a store nothing is
// archived.
func NewStage(generator DocumentGenerator, converter Converter, store artifact.Store, logger *slog.Logger) *Stage {
	return &Stage{
		generator: generator,
		converter: converter,
		store:     store,
		logger:    logger.With("stage", "reporter"),
	}
}

// RenderAll produces one artifact per persona, in AllPersonas order. The
// slice always has an entry for every persona; failed personas carry an Error
// marker.
func (s *Stage) RenderAll(ctx context.Context, insight *models.InsightRecord) []models.ReportArtifact {
	personas := models.AllPersonas()
	reports := make([]models.ReportArtifact, 0, len(personas))

	for _, persona := range personas {
		report, err := s.Render(ctx, insight, persona)
		if err != nil {
			s.logger.ErrorContext(ctx, "persona report failed", "persona", persona, "error", err)

			report = &models.ReportArtifact{
				Persona: persona,
				Error:   err.Error(),
			}
		}

		reports = append(reports, *report)
	}

	return reports
}

// Render generates a single persona document, converts it, and publishes the
// latest-report slot. Conversion and publishing problems are logged and leave
// Locator empty; only generation failure is an error.
func (s *Stage) Render(ctx context.Context, insight *models.InsightRecord, persona models.Persona) (*models.ReportArtifact, error) {
	report, err := s.generator.Document(ctx, insight, persona)
	if err != nil {
		return nil, err
	}

	if s.converter == nil || s.store == nil {
		return report, nil
	}

	pdf, err := s.converter.Convert(ctx, report.Body)
	if err != nil {
		s.logger.WarnContext(ctx, "document conversion failed", "persona", persona, "error", err)

		return report, nil
	}

	locator, err := artifact.PublishLatest(ctx, s.store, artifact.LatestReportPath(persona), pdf, "application/pdf")
	if err != nil {
		s.logger.WarnContext(ctx, "failed to publish report", "persona", persona, "error", err)

		return report, nil
	}

	report.Locator = locator

	return report, nil
}
