// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package contracts implements the "realty contracts" subcommands.
package contracts

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/bureau-foundation/realty/cmd/realty/cli"
	"github.com/bureau-foundation/realty/lib/desk"
	"github.com/bureau-foundation/realty/lib/format"
	"github.com/bureau-foundation/realty/lib/realtyapi"
)

// Command returns the "contracts" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "contracts",
		Summary: "List, add and delete contracts",
		Subcommands: []*cli.Command{
			listCommand(),
			addCommand(),
			deleteCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Open a contract for client 104",
				Command:     "realty contracts add --client 104 --start 2024-11-01 --end 2025-10-31 --amount 2500000",
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
		Summary: "List contracts",
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

			contracts, err := backend.Client.Contracts(ctx)
			if err != nil {
				return cli.APIFailure("list contracts", err)
			}
			if done, err := params.EmitJSON(contracts); done {
				return err
			}
			cli.PrintTable(contractTable(contracts))
			return nil
		},
	}
}

func contractTable(contracts []realtyapi.ContractRecord) desk.Table {
	table := desk.Table{
		Columns:     []string{"ID", "Client", "Amount", "Start", "End"},
		Placeholder: "No contracts.",
	}
	for _, contract := range contracts {
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(contract.ContractID),
			contract.ClientName,
			format.Currency(contract.Amount.Float()),
			format.DateString(contract.StartDate),
			format.DateString(contract.EndDate),
		})
	}
	return table
}

type addParams struct {
	cli.Environment
	Client string `json:"-" flag:"client" desc:"client ID"`
	Start  string `json:"-" flag:"start" desc:"start date (YYYY-MM-DD)"`
	End    string `json:"-" flag:"end" desc:"end date (YYYY-MM-DD), after the start"`
	Amount string `json:"-" flag:"amount" desc:"contract amount in rupees"`
}

func addCommand() *cli.Command {
	var params addParams

	return &cli.Command{
		Name:    "add",
		Summary: "Add a contract for a client",
		Description: `Add a contract. The end date must fall strictly after the start date;
the request is not sent otherwise.`,
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.NoArguments(args); err != nil {
				return err
			}
			input, err := desk.ValidateContract(desk.ContractForm{
				ClientID:  params.Client,
				StartDate: params.Start,
				EndDate:   params.End,
				Amount:    params.Amount,
			})
			if err != nil {
				return cli.APIFailure("add contract", err)
			}

			backend, err := params.OpenSession(logger)
			if err != nil {
				return err
			}
			defer backend.Close()

			message, err := backend.Client.AddContract(ctx, input)
			if err != nil {
				return cli.APIFailure("add contract", err)
			}
			fmt.Fprintln(cli.Stderr, message)
			return nil
		},
	}
}

type deleteParams struct {
	cli.Environment
	Yes bool `json:"-" flag:"yes,y" desc:"delete without asking for confirmation"`
}

func deleteCommand() *cli.Command {
	var params deleteParams

	return &cli.Command{
		Name:        "delete",
		Summary:     "Delete a contract and its payments",
		Description: `Delete a contract and every payment recorded against it. Asks for confirmation unless --yes is given.`,
		Usage:       "realty contracts delete <contract-id> [flags]",
		Params:      func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			contractID, err := cli.ParseID(args, "contract")
			if err != nil {
				return err
			}
			backend, err := params.OpenSession(logger)
			if err != nil {
				return err
			}
			defer backend.Close()

			if err := cli.ConfirmDelete(desk.DeleteContractTarget(contractID), params.Yes); err != nil {
				return err
			}

			message, err := backend.Client.DeleteContract(ctx, contractID)
			if err != nil {
				return cli.APIFailure("delete contract", err)
			}
			logger.Info("contract deleted", "contract", contractID)
			fmt.Fprintln(cli.Stderr, message)
			return nil
		},
	}
}
