package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	cli "github.com/urfave/cli/v3"

	"github.com/liftlab/liftwire/pkg/cmd"
	"github.com/liftlab/liftwire/pkg/eventbus"
	"github.com/liftlab/liftwire/pkg/events"
	"github.com/liftlab/liftwire/pkg/log"
	"github.com/liftlab/liftwire/pkg/models"
)

func requestFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "table",
			Usage:   "Fully qualified table holding exposure data",
			Sources: cli.EnvVars("ANALYSIS_TABLE"),
		},
		&cli.StringFlag{
			Name:  "treatment",
			Usage: "Treatment column name",
		},
		&cli.StringFlag{
			Name:  "outcome",
			Usage: "Outcome column name",
		},
		&cli.StringFlag{
			Name:  "covariates",
			Usage: "Comma-separated covariate column names",
		},
		&cli.StringFlag{
			Name:  "method",
			Usage: "Analysis method",
		},
		&cli.StringFlag{
			Name:  "question",
			Usage: "Business question driving the analysis",
		},
	}
}

func requestFromFlags(command *cli.Command) models.AnalysisRequest {
	request := cmd.DefaultRequest()

	if v := command.String("table"); v != "" {
		request.Table = v
	}

	if v := command.String("treatment"); v != "" {
		request.Treatment = v
	}

	if v := command.String("outcome"); v != "" {
		request.Outcome = v
	}

	if v := command.String("covariates"); v != "" {
		parts := strings.Split(v, ",")
		covariates := make([]string, 0, len(parts))

		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				covariates = append(covariates, trimmed)
			}
		}

		request.Covariates = covariates
	}

	if v := command.String("method"); v != "" {
		request.Method = v
	}

	if v := command.String("question"); v != "" {
		request.BusinessQuestion = v
	}

	return request
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Execute one full analysis run",
		Flags:   append(cmd.ConfigFlags(), requestFlags()...),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))
			logger := log.WithModule("liftwire-run")

			cfg := cmd.BuildConfig(command)
			if err := cfg.Validate(); err != nil {
				return err
			}

			store, err := cmd.NewArtifactStore(cfg)
			if err != nil {
				return err
			}

			bus := eventbus.NewGoChannelBus(logger)
			defer bus.Close()

			registerProgressLogger(bus, logger)

			if err := bus.Subscribe(ctx); err != nil {
				return err
			}

			orchestrator, err := cmd.NewOrchestrator(cfg, store, bus, logger)
			if err != nil {
				return err
			}

			record, err := orchestrator.Run(ctx, requestFromFlags(command))
			if err != nil {
				return err
			}

			summary, err := json.MarshalIndent(record, "", "  ")
			if err != nil {
				return err
			}

			fmt.Println(string(summary))

			return nil
		},
	}
}

// registerProgressLogger logs lifecycle events as the run moves through its
// stages.
func registerProgressLogger(bus eventbus.EventSubscriber, logger *slog.Logger) {
	bus.Handle(events.RunStartedEvent, func(ctx context.Context, event any) error {
		if e, ok := event.(*events.RunStarted); ok {
			logger.InfoContext(ctx, "run started", "run_id", e.RunID, "table", e.Request.Table)
		}

		return nil
	})

	bus.Handle(events.StageStartedEvent, func(ctx context.Context, event any) error {
		if e, ok := event.(*events.StageStarted); ok {
			logger.InfoContext(ctx, "stage started", "run_id", e.RunID, "stage", e.Stage)
		}

		return nil
	})

	bus.Handle(events.StageCompletedEvent, func(ctx context.Context, event any) error {
		if e, ok := event.(*events.StageCompleted); ok {
			logger.InfoContext(ctx, "stage completed", "run_id", e.RunID, "stage", e.Stage, "detail", e.Detail)
		}

		return nil
	})

	bus.Handle(events.RunCompletedEvent, func(ctx context.Context, event any) error {
		if e, ok := event.(*events.RunCompleted); ok {
			logger.InfoContext(ctx, "run completed", "run_id", e.RunID, "success", e.Success, "duration", e.Duration)
		}

		return nil
	})

	bus.Handle(events.RunFailedEvent, func(ctx context.Context, event any) error {
		if e, ok := event.(*events.RunFailed); ok {
			logger.ErrorContext(ctx, "run failed", "run_id", e.RunID, "stage", e.Stage, "error", e.Error)
		}

		return nil
	})
}
