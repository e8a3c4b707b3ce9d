// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clients implements the "realty clients" subcommands.
package clients

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/bureau-foundation/realty/cmd/realty/cli"
	"github.com/bureau-foundation/realty/lib/desk"
	"github.com/bureau-foundation/realty/lib/realtyapi"
)

// Command returns the "clients" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "clients",
		Summary: "List, add and delete clients",
		Description: `Manage the client book.

Deleting a client also deletes every contract the client holds and every
payment against those contracts.`,
		Subcommands: []*cli.Command{
			listCommand(),
			addCommand(),
			deleteCommand(),
			highValueCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "List client IDs and names",
				Command:     "realty clients list",
			},
			{
				Description: "Client IDs only, for scripting",
				Command:     "realty clients list --query '[].ClientID'",
			},
			{
				Description: "Clients holding above-average contracts",
				Command:     "realty clients high-value",
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
		Summary: "List clients",
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

			clients, err := backend.Client.Clients(ctx)
			if err != nil {
				return cli.APIFailure("list clients", err)
			}
			if done, err := params.EmitJSON(clients); done {
				return err
			}
			cli.PrintTable(clientTable(clients))
			return nil
		},
	}
}

func clientTable(clients []realtyapi.ClientRecord) desk.Table {
	table := desk.Table{
		Columns:     []string{"ID", "First Name", "Last Name"},
		Placeholder: "No clients.",
	}
	for _, client := range clients {
		table.Rows = append(table.Rows, []string{strconv.Itoa(client.ClientID), client.Fname, client.Lname})
	}
	return table
}

type addParams struct {
	cli.Environment
	File     string `json:"-" flag:"file,f" desc:"JSONC file with the client fields (- for stdin); flags override it"`
	Fname    string `json:"fname" flag:"fname" desc:"first name"`
	Lname    string `json:"lname" flag:"lname" desc:"last name"`
	HireDate string `json:"hire_date" flag:"hire-date" desc:"hire date (YYYY-MM-DD)"`
	Address  string `json:"address" flag:"address" desc:"street address"`
	City     string `json:"city" flag:"city" desc:"city"`
	State    string `json:"state" flag:"state" desc:"state"`
	ZipCode  string `json:"zip_code" flag:"zip-code" desc:"postal code"`
}

func addCommand() *cli.Command {
	var params addParams

	return &cli.Command{
		Name:    "add",
		Summary: "Add a client",
		Description: `Add a client. Every field is required. Fields come from flags, a
JSONC file (keys as in the API: fname, lname, hire_date, address, city,
state, zip_code), or both, with flags winning.`,
		Examples: []cli.Example{
			{
				Command: "realty clients add --fname Asha --lname Rao --hire-date 2024-10-01 --address '12 MG Road' --city Pune --state MH --zip-code 411001",
			},
			{
				Description: "From a file",
				Command:     "realty clients add --file asha.jsonc",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := cli.NoArguments(args); err != nil {
				return err
			}

			form := desk.ClientForm{}
			if params.File != "" {
				var fromFile realtyapi.ClientInput
				if err := cli.ReadPayload(params.File, &fromFile); err != nil {
					return err
				}
				form = desk.ClientForm(fromFile)
			}
			overlay(&form.Fname, params.Fname)
			overlay(&form.Lname, params.Lname)
			overlay(&form.HireDate, params.HireDate)
			overlay(&form.Address, params.Address)
			overlay(&form.City, params.City)
			overlay(&form.State, params.State)
			overlay(&form.ZipCode, params.ZipCode)

			input, err := desk.ValidateClient(form)
			if err != nil {
				return cli.APIFailure("add client", err)
			}

			backend, err := params.OpenSession(logger)
			if err != nil {
				return err
			}
			defer backend.Close()

			message, err := backend.Client.AddClient(ctx, input)
			if err != nil {
				return cli.APIFailure("add client", err)
			}
			fmt.Fprintln(cli.Stderr, message)
			return nil
		},
	}
}

func overlay(target *string, value string) {
	if value != "" {
		*target = value
	}
}

type deleteParams struct {
	cli.Environment
	Yes bool `json:"-" flag:"yes,y" desc:"delete without asking for confirmation"`
}

func deleteCommand() *cli.Command {
	var params deleteParams

	return &cli.Command{
		Name:    "delete",
		Summary: "Delete a client and everything attached to it",
		Description: `Delete a client together with all of the client's contracts and the
payments against them. Asks for confirmation unless --yes is given.`,
		Usage: "realty clients delete <client-id> [flags]",
		Examples: []cli.Example{
			{
				Command: "realty clients delete 104",
			},
			{
				Description: "Without the prompt",
				Command:     "realty clients delete 104 --yes",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			clientID, err := cli.ParseID(args, "client")
			if err != nil {
				return err
			}
			backend, err := params.OpenSession(logger)
			if err != nil {
				return err
			}
			defer backend.Close()

			var cache desk.Cache
			if !params.Yes {
				// Only the prompt needs the client's name.
				clients, err := backend.Client.Clients(ctx)
				if err != nil {
					return cli.APIFailure("look up client", err)
				}
				cache.Replace(desk.Snapshot{Clients: clients})
			}
			if err := cli.ConfirmDelete(desk.DeleteClientTarget(&cache, clientID), params.Yes); err != nil {
				return err
			}

			message, err := backend.Client.DeleteClient(ctx, clientID)
			if err != nil {
				return cli.APIFailure("delete client", err)
			}
			logger.Info("client deleted", "client", clientID)
			fmt.Fprintln(cli.Stderr, message)
			return nil
		},
	}
}

type highValueParams struct {
	cli.Environment
	cli.JSONOutput
}

func highValueCommand() *cli.Command {
	var params highValueParams

	return &cli.Command{
		Name:    "high-value",
		Summary: "Clients with a contract above the average amount",
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

			rows, err := backend.Client.HighValueClients(ctx)
			if err != nil {
				return cli.APIFailure("list high-value clients", err)
			}
			if done, err := params.EmitJSON(rows); done {
				return err
			}
			cli.PrintTable(desk.RenderHighValue(rows))
			return nil
		},
	}
}
