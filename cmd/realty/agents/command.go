// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package agents implements the "realty agents" subcommands.
package agents

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/bureau-foundation/realty/cmd/realty/cli"
	"github.com/bureau-foundation/realty/lib/desk"
)

// Command returns the "agents" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "agents",
		Summary: "List agents and their commission earnings",
		Subcommands: []*cli.Command{
			listCommand(),
			earningsCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "What agent 3 has earned and could still earn",
				Command:     "realty agents earnings 3",
			},
		},
	}
}

type listParams struct {
	cli.Environment
	cli.JSONOutput
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List agents",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.NoArguments(args); err != nil {
				return err
			}
			backend, err := params.OpenSession(logger)
			if err != nil {
				return err
			}
			defer backend.Close()

			agents, err := backend.Client.Agents(ctx)
			if err != nil {
				return cli.APIFailure("list agents", err)
			}
			if done, err := params.EmitJSON(agents); done {
				return err
			}

			table := desk.Table{
				Columns:     []string{"ID", "First Name", "Last Name"},
				Placeholder: "No agents.",
			}
			for _, agent := range agents {
				table.Rows = append(table.Rows, []string{strconv.Itoa(agent.AgentID), agent.Fname, agent.Lname})
			}
			cli.PrintTable(table)
			return nil
		},
	}
}

type earningsParams struct {
	cli.Environment
	cli.JSONOutput
}

func earningsCommand() *cli.Command {
	var params earningsParams

	return &cli.Command{
		Name:    "earnings",
		Summary: "Show an agent's commissions per contract",
		Description: `Show, for each contract an agent earns on, the contract amount, the
commission percentage, the potential earning at that percentage and
what has actually been earned from payments so far.`,
		Usage:  "realty agents earnings <agent-id> [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			agentID, err := cli.ParseID(args, "agent")
			if err != nil {
				return err
			}
			backend, err := params.OpenSession(logger)
			if err != nil {
				return err
			}
			defer backend.Close()

			earnings, err := backend.Client.AgentEarnings(ctx, agentID)
			if err != nil {
				return cli.APIFailure("fetch earnings", err)
			}
			if done, err := params.EmitJSON(earnings); done {
				return err
			}
			cli.PrintTable(desk.RenderEarnings(earnings))
			return nil
		},
	}
}
