// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete realty CLI command tree.
package commands

import (
	"context"
	"log/slog"

	"github.com/bureau-foundation/realty/cmd/realty/account"
	"github.com/bureau-foundation/realty/cmd/realty/agents"
	"github.com/bureau-foundation/realty/cmd/realty/cli"
	"github.com/bureau-foundation/realty/cmd/realty/clients"
	"github.com/bureau-foundation/realty/cmd/realty/contracts"
	"github.com/bureau-foundation/realty/cmd/realty/payments"
	tuicmd "github.com/bureau-foundation/realty/cmd/realty/tui"
	"github.com/bureau-foundation/realty/lib/version"
)

// Root builds and returns the complete realty CLI command tree. Run
// without a subcommand, realty opens the desk; leading flags are
// passed to "realty tui".
func Root() *cli.Command {
	desk := tuicmd.Command()

	return &cli.Command{
		Name: "realty",
		Description: `realty: the real estate and insurance desk.

Clients, agents, contracts, payments and commissions, from a terminal
desk or from scripts. Run without arguments to open the desk.`,
		Subcommands: []*cli.Command{
			desk,
			account.LoginCommand(),
			account.LogoutCommand(),
			account.RegisterCommand(),
			account.WhoAmICommand(),
			clients.Command(),
			agents.Command(),
			contracts.Command(),
			payments.Command(),
			statsCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					if err := cli.NoArguments(args); err != nil {
						return err
					}
					cli.Printf("realty %s\n", version.Full())
					return nil
				},
			},
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			return desk.Execute(ctx, args)
		},
		Examples: []cli.Example{
			{
				Description: "Open the desk",
				Command:     "realty",
			},
			{
				Description: "Sign in (saves the session locally)",
				Command:     "realty login meera",
			},
			{
				Description: "Dashboard totals as JSON",
				Command:     "realty stats --json",
			},
			{
				Description: "Record a payment and see the commission move",
				Command:     "realty payments add 12 --amount 50000",
			},
		},
	}
}
