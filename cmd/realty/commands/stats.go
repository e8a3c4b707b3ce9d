// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"log/slog"

	"github.com/bureau-foundation/realty/cmd/realty/cli"
	"github.com/bureau-foundation/realty/lib/desk"
)

type statsParams struct {
	cli.Environment
	cli.JSONOutput
}

func statsCommand() *cli.Command {
	var params statsParams

	return &cli.Command{
		Name:    "stats",
		Summary: "Show the dashboard totals",
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

			stats, err := backend.Client.Stats(ctx)
			if err != nil {
				return cli.APIFailure("fetch stats", err)
			}
			if done, err := params.EmitJSON(stats); done {
				return err
			}
			cli.PrintCards(desk.RenderStats(stats))
			return nil
		},
	}
}
