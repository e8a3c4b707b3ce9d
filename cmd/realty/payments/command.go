// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package payments implements the "realty payments" subcommands.
package payments

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/realty/cmd/realty/cli"
	"github.com/bureau-foundation/realty/lib/desk"
)

// Command returns the "payments" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "payments",
		Summary: "Record payments and read payment history",
		Description: `Record payments against contracts and read them back.

Recording a payment moves the earning agent's commission; "payments add"
prints the commission before and after.`,
		Subcommands: []*cli.Command{
			listCommand(),
			addCommand(),
			totalCommand(),
		},
		Examples: []cli.Example{
			{
				Command: "realty payments add 12 --amount 50000",
			},
			{
				Description: "Payment history, newest first",
				Command:     "realty payments list 12",
			},
		},
	}
}

type readParams struct {
	cli.Environment
	cli.JSONOutput
}

func listCommand() *cli.Command {
	var params readParams

	return &cli.Command{
		Name:    "list",
		Summary: "Show a contract's payment history",
		Usage:   "realty payments list <contract-id> [flags]",
		Params:  func() any { return &params },
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

			payments, err := backend.Client.Payments(ctx, contractID)
			if err != nil {
				return cli.APIFailure("fetch payments", err)
			}
			if done, err := params.EmitJSON(payments); done {
				return err
			}
			cli.PrintTable(desk.RenderPayments(payments, true))
			return nil
		},
	}
}

type addParams struct {
	cli.Environment
	cli.JSONOutput
	Amount string `json:"-" flag:"amount" desc:"payment amount in rupees"`
}

func addCommand() *cli.Command {
	var params addParams

	return &cli.Command{
		Name:    "add",
		Summary: "Record a payment against a contract",
		Usage:   "realty payments add <contract-id> --amount <rupees> [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			contract := ""
			if len(args) > 1 {
				return cli.Validation("unexpected argument: %s", args[1])
			}
			if len(args) == 1 {
				contract = args[0]
			}
			input, err := desk.ValidatePayment(desk.PaymentForm{ContractID: contract, Amount: params.Amount})
			if err != nil {
				return cli.APIFailure("add payment", err)
			}

			backend, err := params.OpenSession(logger)
			if err != nil {
				return err
			}
			defer backend.Close()

			receipt, err := backend.Client.AddPayment(ctx, input)
			if err != nil {
				return cli.APIFailure("add payment", err)
			}
			logger.Info("payment recorded",
				"contract", input.ContractID,
				"commission", receipt.CommissionReport.CommissionID,
				"delta", desk.CommissionDelta(receipt.CommissionReport))

			if done, err := params.EmitJSON(receipt); done {
				return err
			}
			fmt.Fprintln(cli.Stderr, receipt.Message)
			cli.Printf("Commission report\n")
			cli.PrintCards(desk.RenderCommission(receipt.CommissionReport))
			return nil
		},
	}
}

func totalCommand() *cli.Command {
	var params readParams

	return &cli.Command{
		Name:    "total",
		Summary: "Show the total paid on a contract",
		Usage:   "realty payments total <contract-id> [flags]",
		Params:  func() any { return &params },
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

			total, err := backend.Client.TotalPayment(ctx, contractID)
			if err != nil {
				return cli.APIFailure("fetch total", err)
			}
			if done, err := params.EmitJSON(map[string]any{
				"contract_id": contractID,
				"total":       total.Float(),
			}); done {
				return err
			}
			card := desk.RenderTotal(total)
			cli.Printf("Contract %d  %s: %s\n", contractID, card.Label, card.Value)
			return nil
		},
	}
}
