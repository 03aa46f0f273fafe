// Package analyst generates warehouse analysis code from an analysis request
// and the active semantic model.
package analyst

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/liftlab/liftwire/pkg/artifact"
	"github.com/liftlab/liftwire/pkg/genai"
	"github.com/liftlab/liftwire/pkg/models"
	"github.com/liftlab/liftwire/pkg/semantic"
)

const maxAttempts = 3

var generationParams = genai.Params{
	Temperature: 0.1,
	MaxTokens:   16384,
}

// GenerationError reports that the backend failed on every attempt.
type GenerationError struct {
	Attempts int
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("code generation failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Stage produces a CodeArtifact for an AnalysisRequest.
type Stage struct {
	client    genai.Client
	modelName string
	model     *semantic.Model
	validator SyntaxValidator
	store     artifact.Store
	logger    *slog.Logger
}

// NewStage wires the analyst. The store is optional; without one the latest
// artifact slot is simply not published.
func NewStage(
	client genai.Client,
	modelName string,
	model *semantic.Model,
	store artifact.Store,
	logger *slog.Logger,
) *Stage {
	return &Stage{
		client:    client,
		modelName: modelName,
		model:     model,
		validator: &PythonStructural{},
		store:     store,
		logger:    logger.With("stage", "analyst"),
	}
}

// Generate builds the prompt, calls the backend, and validates the result.
// Backend failures are retried up to maxAttempts; a syntactically invalid
// final attempt is still returned, flagged, so the caller decides whether to
// execute it.
func (s *Stage) Generate(ctx context.Context, request models.AnalysisRequest) (*models.CodeArtifact, error) {
	prompt := buildPrompt(s.model, request)

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		raw, err := s.client.Generate(ctx, prompt, generationParams)
		if err != nil {
			lastErr = err

			s.logger.WarnContext(ctx, "generation attempt failed",
				"attempt", attempt, "error", err)

			continue
		}

		source := genai.StripFences(raw)

		validationErr := s.validator.Validate(source)
		if validationErr != nil && attempt < maxAttempts {
			s.logger.WarnContext(ctx, "generated code failed validation, retrying",
				"attempt", attempt, "error", validationErr)

			continue
		}

		art := &models.CodeArtifact{
			Source:               source,
			Valid:                validationErr == nil,
			GeneratedAt:          time.Now().UTC(),
			Model:                s.modelName,
			SemanticModelVersion: s.model.Version,
		}
		if validationErr != nil {
			art.SyntaxError = validationErr.Error()
		}

		s.publish(ctx, art)

		return art, nil
	}

	return nil, &GenerationError{Attempts: maxAttempts, Err: lastErr}
}

// publish writes the latest-code slot. Failures are logged, not fatal: the
// artifact is still usable in-memory for the rest of the run.
func (s *Stage) publish(ctx context.Context, art *models.CodeArtifact) {
	if s.store == nil {
		return
	}

	locator, err := artifact.PublishLatest(ctx, s.store, artifact.LatestCodePath, []byte(art.Source), "text/x-python")
	if err != nil {
		s.logger.WarnContext(ctx, "failed to publish generated code", "error", err)

		return
	}

	art.Locator = locator
}
