package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/liftlab/liftwire/pkg/log"
)

func main() {
	root := &cli.Command{
		Name:                  "liftwire",
		Usage:                 "Run and serve the incrementality analysis pipeline",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			runCommand(),
			serveCommand(),
			scheduleCommand(),
			artifactsCommand(),
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		log.WithModule("liftwire").Error("command failed", "error", err)
		os.Exit(1)
	}
}
