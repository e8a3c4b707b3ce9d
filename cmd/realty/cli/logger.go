// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// LogLevel is the minimum level of command loggers. It starts at warn
// and [Environment.LoadConfig] moves it to log.level, so records emitted
// before the config is read still respect a later change.
var LogLevel = new(slog.LevelVar)

func init() {
	LogLevel.Set(slog.LevelWarn)
}

// NewCommandLogger returns the logger a command runs with. It writes to
// stderr so stdout stays clean for tables and --json output: text lines
// at a terminal, JSON records when stderr is redirected to a file or a
// log collector. The command dispatcher scopes it with the command path,
// for example "realty contracts delete".
func NewCommandLogger() *slog.Logger {
	return newCommandLogger(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())))
}

func newCommandLogger(output io.Writer, interactive bool) *slog.Logger {
	options := &slog.HandlerOptions{Level: LogLevel}
	if interactive {
		return slog.New(slog.NewTextHandler(output, options))
	}
	return slog.New(slog.NewJSONHandler(output, options))
}
