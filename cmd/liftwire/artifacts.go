package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"

	"github.com/liftlab/liftwire/pkg/cmd"
	"github.com/liftlab/liftwire/pkg/log"
)

func artifactsCommand() *cli.Command {
	flags := append(cmd.ConfigFlags(),
		&cli.StringFlag{
			Name:  "prefix",
			Usage: "Only list artifacts under this path prefix",
		},
	)

	return &cli.Command{
		Name:  "artifacts",
		Usage: "List stored artifacts",
		Flags: flags,
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			cfg := cmd.BuildConfig(command)

			store, err := cmd.NewArtifactStore(cfg)
			if err != nil {
				return err
			}

			entries, err := store.List(ctx, command.String("prefix"))
			if err != nil {
				return err
			}

			for _, entry := range entries {
				fmt.Printf("%s\t%d\t%s\n", entry.Path, entry.Size, entry.CreatedAt.Format("2006-01-02 15:04:05"))
			}

			fmt.Printf("%d artifacts\n", len(entries))

			return nil
		},
	}
}
