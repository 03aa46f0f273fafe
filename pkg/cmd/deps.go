package cmd

import (
	"fmt"
	"log/slog"

	"github.com/liftlab/liftwire/internal/pipeline"
	"github.com/liftlab/liftwire/internal/stages/analyst"
	"github.com/liftlab/liftwire/internal/stages/distributor"
	"github.com/liftlab/liftwire/internal/stages/executor"
	"github.com/liftlab/liftwire/internal/stages/interpreter"
	"github.com/liftlab/liftwire/internal/stages/reporter"
	"github.com/liftlab/liftwire/pkg/artifact"
	"github.com/liftlab/liftwire/pkg/artifact/file"
	"github.com/liftlab/liftwire/pkg/config"
	"github.com/liftlab/liftwire/pkg/eventbus"
	"github.com/liftlab/liftwire/pkg/genai"
	"github.com/liftlab/liftwire/pkg/models"
	"github.com/liftlab/liftwire/pkg/semantic"
	"github.com/liftlab/liftwire/pkg/warehouse"
)

// DefaultRequest is the analysis run executed when no overrides are given.
func DefaultRequest() models.AnalysisRequest {
	return models.AnalysisRequest{
		Table:     "campaign_exposures",
		Treatment: "received_email",
		Outcome:   "converted",
		Covariates: []string{
			"age_group", "customer_segment", "total_purchases", "recency_bin",
		},
		Method:           "propensity_score_matching",
		BusinessQuestion: "What is the incremental lift in conversions from the email campaign?",
	}
}

// NewArtifactStore opens the filesystem artifact store.
func NewArtifactStore(cfg config.Config) (artifact.Store, error) {
	store, err := file.NewStore(cfg.ArtifactRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact store: %w", err)
	}

	return store, nil
}

// NewOrchestrator assembles the five stages from configuration. Each stage
// independently picks its live or offline strategy based on which credential
// groups are present.
func NewOrchestrator(
	cfg config.Config,
	store artifact.Store,
	publisher eventbus.EventPublisher,
	logger *slog.Logger,
) (*pipeline.Orchestrator, error) {
	model, err := semantic.Resolve(cfg.SemanticPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load semantic model: %w", err)
	}

	var backendClient genai.Client
	if cfg.Backend.Live() {
		backendClient = genai.NewHTTPClient(cfg.Backend.BaseURL, cfg.Backend.APIKey, cfg.Backend.Model)
	} else {
		logger.Warn("generation backend not configured, using offline strategies")

		backendClient = analyst.OfflineClient{}
	}

	analystStage := analyst.NewStage(backendClient, cfg.Backend.Model, model, store, logger)
	executorStage := executor.NewStage(warehouse.NewPostgresOpener(cfg.Warehouse.DSN, logger), store, logger)

	var insightGen interpreter.InsightGenerator = interpreter.Templated{}
	if cfg.Backend.Live() {
		insightGen = &interpreter.BackendBacked{Client: backendClient}
	}

	var insightStore interpreter.InsightStore

	if cfg.Warehouse.Live() {
		insightStore, err = interpreter.NewPostgresStore(cfg.Warehouse.DSN, cfg.Warehouse.InsightsTable)
		if err != nil {
			return nil, fmt.Errorf("failed to open insight store: %w", err)
		}
	}

	interpreterStage := interpreter.NewStage(insightGen, insightStore, logger)

	var docGen reporter.DocumentGenerator = reporter.Templated{}
	if cfg.Backend.Live() {
		docGen = &reporter.BackendBacked{Client: backendClient}
	}

	reporterStage := reporter.NewStage(docGen, &reporter.ChromePDF{}, store, logger)
	distributorStage := distributor.NewStage(cfg, store, logger)

	return pipeline.NewOrchestrator(
		analystStage,
		executorStage,
		interpreterStage,
		reporterStage,
		distributorStage,
		store,
		publisher,
		logger,
	), nil
}
