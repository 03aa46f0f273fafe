package main

import (
	"context"

	"github.com/robfig/cron/v3"
	cli "github.com/urfave/cli/v3"

	"github.com/liftlab/liftwire/pkg/cmd"
	"github.com/liftlab/liftwire/pkg/eventbus"
	"github.com/liftlab/liftwire/pkg/log"
)

func scheduleCommand() *cli.Command {
	flags := append(cmd.ConfigFlags(), requestFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:    "cron",
			Usage:   "Cron expression for recurring runs",
			Value:   "0 9 * * MON",
			Sources: cli.EnvVars("RUN_SCHEDULE"),
		},
	)

	return &cli.Command{
		Name:  "schedule",
		Usage: "Run the pipeline on a recurring schedule",
		Flags: flags,
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))
			logger := log.WithModule("liftwire-schedule")

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

			request := requestFromFlags(command)

			scheduler := cron.New()

			_, err = scheduler.AddFunc(command.String("cron"), func() {
				if _, err := orchestrator.Run(ctx, request); err != nil {
					logger.ErrorContext(ctx, "scheduled run failed", "error", err)
				}
			})
			if err != nil {
				return err
			}

			logger.InfoContext(ctx, "scheduler started", "cron", command.String("cron"))
			scheduler.Start()

			<-ctx.Done()

			<-scheduler.Stop().Done()

			return nil
		},
	}
}
