package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/MASITH-developpement/Azalscore-sub013/cmd/app/commands"
	"github.com/MASITH-developpement/Azalscore-sub013/internal/app"
	"github.com/MASITH-developpement/Azalscore-sub013/internal/config"
	cryptoService "github.com/MASITH-developpement/Azalscore-sub013/internal/crypto/service"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "generate-master-secret",
			Usage: "Generate a new master secret for tenant key derivation",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "kms-key-uri",
					Aliases: []string{"k"},
					Value:   "",
					Usage:   "KMS key URI to wrap the secret with (omit for a plain base64 secret)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunGenerateMasterSecret(
					ctx,
					cryptoService.NewKMSService(),
					cmd.String("kms-key-uri"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
