// Trainyard serves train schedules over HTTP with read-through query caches
// in front of SQLite.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

var version = "dev"

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "trainyard",
		Usage: "train schedule service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
				Value:   "configs/trainyard.yaml",
				Sources: cli.EnvVars("TRAINYARD_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP server (default)",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return run(ctx, cmd.String("config"))
				},
			},
			{
				Name:  "migrate",
				Usage: "apply database migrations and seed schedules, then exit",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return migrate(ctx, cmd.String("config"))
				},
			},
			{
				Name:  "version",
				Usage: "print version and exit",
				Action: func(_ context.Context, cmd *cli.Command) error {
					fmt.Fprintln(cmd.Root().Writer, "trainyard", version)
					return nil
				},
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, cmd.String("config"))
		},
	}
}
