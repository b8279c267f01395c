// Package main provides the revflow management CLI.
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"

	"github.com/doclane/revflow/pkg/log"
)

func main() {
	_ = godotenv.Load()

	command := &cli.Command{
		Name:                  "revflow",
		Usage:                 "Manage workflow presets and vocabulary catalogs",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			{
				Name:    "vocabulary",
				Aliases: []string{"v"},
				Usage:   "Manage the vocabulary catalogs",
				Commands: []*cli.Command{
					{
						Name:  "seed",
						Usage: "Load catalog entries from a JSON file into persistence",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "database-url",
								Usage:    "Database connection URL for persistence",
								Required: true,
								Sources:  cli.EnvVars("DATABASE_URL"),
							},
							&cli.StringFlag{
								Name:     "file",
								Aliases:  []string{"f"},
								Usage:    "Path to the seed JSON file",
								Required: true,
							},
							&cli.StringFlag{
								Name:    "log-level",
								Usage:   "Log level (debug, info, warn, error)",
								Value:   "info",
								Sources: cli.EnvVars("LOG_LEVEL"),
							},
						},
						Action: func(ctx context.Context, command *cli.Command) error {
							log.Setup(command.String("log-level"))

							return seedVocabulary(ctx, command.String("database-url"), command.String("file"))
						},
					},
				},
			},
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		log.WithModule("cli").Error("Command failed", "error", err)
		os.Exit(1)
	}
}
