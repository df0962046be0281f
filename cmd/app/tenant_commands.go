package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/MASITH-developpement/Azalscore-sub013/cmd/app/commands"
)

func getTenantCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-tenant",
			Usage: "Register a new tenant and generate its salt",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Tenant ID (e.g., acme-corp)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunCreateTenant(ctx, cmd.String("id"), commands.DefaultIO())
			},
		},
		{
			Name:  "rotate-tenant-salt",
			Usage: "Swap a tenant's salt for a new random one",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Tenant ID",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunRotateTenantSalt(ctx, cmd.String("id"), commands.DefaultIO())
			},
		},
	}
}
