package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/MASITH-developpement/Azalscore-sub013/cmd/app/commands"
)

func getIntegrityCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "integrity-sweep",
			Usage: "Check every tenant's data integrity and isolate corrupted tenants",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "auto-recover",
					Aliases: []string{"a"},
					Value:   false,
					Usage:   "Attempt backup recovery immediately instead of leaving tenants isolated",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunIntegritySweep(ctx, cmd.Bool("auto-recover"), commands.DefaultIO())
			},
		},
		{
			Name:  "recover-tenant",
			Usage: "Trigger backup recovery for a single tenant",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Tenant ID",
				},
				&cli.StringFlag{
					Name:    "details",
					Aliases: []string{"d"},
					Value:   "",
					Usage:   "Description of the corruption being recovered from",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunRecoverTenant(ctx, cmd.String("id"), cmd.String("details"), commands.DefaultIO())
			},
		},
	}
}
