package main

import (
	"context"

	cli "github.com/urfave/cli/v3"

	"github.com/liftlab/liftwire/internal/api"
	"github.com/liftlab/liftwire/pkg/cmd"
	"github.com/liftlab/liftwire/pkg/eventbus"
	"github.com/liftlab/liftwire/pkg/log"
)

func serveCommand() *cli.Command {
	flags := append(cmd.ConfigFlags(),
		&cli.StringFlag{
			Name:    "port",
			Usage:   "HTTP listen port",
			Value:   "3000",
			Sources: cli.EnvVars("PORT"),
		},
	)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Serve the pipeline over HTTP",
		Flags:   flags,
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))
			logger := log.WithModule("liftwire-api")

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

			app := api.NewApp(api.NewHandlers(orchestrator, cmd.DefaultRequest(), store, logger))

			go func() {
				<-ctx.Done()

				if err := app.Shutdown(); err != nil {
					logger.Error("failed to shut down server", "error", err)
				}
			}()

			logger.InfoContext(ctx, "serving", "port", command.String("port"))

			return app.Listen(":" + command.String("port"))
		},
	}
}
