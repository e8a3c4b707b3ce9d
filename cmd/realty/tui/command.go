// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui implements "realty tui", the interactive desk.
package tui

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/realty/cmd/realty/cli"
	"github.com/bureau-foundation/realty/lib/desk"
	"github.com/bureau-foundation/realty/lib/deskui"
)

type tuiParams struct {
	cli.Environment
	LogFile string `json:"-" flag:"log-file" desc:"write JSON log records to this file (overrides log.file)"`
	Page    string `json:"-" flag:"page" desc:"page to open on with a stored session (dashboard, add-client, add-contract, add-payment, agent-earnings, total-payments, high-value-clients)"`
}

// Command returns the "tui" command. The root command also runs it when
// realty is invoked without arguments.
func Command() *cli.Command {
	var params tuiParams

	return &cli.Command{
		Name:    "tui",
		Summary: "Open the interactive desk (default)",
		Description: `Open the full-screen desk: a dashboard, the client, contract and
payment forms, and the agent earnings, total payment and high-value
client reports. With a stored session the desk opens on --page, the
dashboard by default.

The desk owns the terminal while it runs, so log records go to the file
named by --log-file or log.file. Warnings and errors also appear in the
desk as toasts. Press ? inside the desk for the key reference.`,
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := cli.NoArguments(args); err != nil {
				return err
			}
			startPage := desk.PageDashboard
			if params.Page != "" {
				page, err := desk.ParsePage(params.Page)
				if err != nil {
					return cli.Validation("--page: %w", err)
				}
				startPage = page
			}
			cfg, err := params.LoadConfig()
			if err != nil {
				return err
			}
			level, _ := cfg.SlogLevel()
			logFile := cfg.Log.File
			if params.LogFile != "" {
				logFile = params.LogFile
			}

			// Warnings and above surface as toasts; everything at the
			// configured level also goes to the file when one is set.
			deskHandler := deskui.NewLogHandler(max(level, slog.LevelWarn))
			var handler slog.Handler = deskHandler
			if logFile != "" {
				fileHandler, closeFile, err := openFileLogHandler(logFile, level)
				if err != nil {
					return cli.Validation("cannot open log file %s: %w", logFile, err)
				}
				defer closeFile()
				handler = fanoutHandler{deskHandler, fileHandler}
			}
			logger := slog.New(handler)

			backend, err := cli.NewBackend(cfg, logger)
			if err != nil {
				return err
			}
			defer backend.Close()

			model := deskui.NewModel(deskui.Config{
				Backend:       backend.Client,
				Session:       backend.Gate,
				ToastDuration: cfg.UI.ToastDuration,
				StartPage:     startPage,
				Logger:        logger,
			})

			options := []tea.ProgramOption{tea.WithAltScreen()}
			if cfg.UI.Mouse {
				options = append(options, tea.WithMouseCellMotion())
			}
			program := tea.NewProgram(model, options...)

			// Records logged before this point are dropped: nothing is
			// on screen yet to show them.
			deskHandler.SetProgram(program)

			_, err = program.Run()
			return err
		},
	}
}

// openFileLogHandler creates a slog.JSONHandler appending to path.
// Returns the handler and a function that closes the file.
func openFileLogHandler(path string, level slog.Level) (slog.Handler, func(), error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	return handler, func() { file.Close() }, nil
}
