// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the realty CLI.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a parameter struct whose tagged
// fields become pflag flags, and a Run function. Commands are assembled
// into a tree in cmd/realty/commands and dispatched via [Command.Execute],
// which handles flag parsing, subcommand routing, and structured help
// output with examples.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3).
//
// Commands that talk to the backend embed [Environment], which adds
// --config and --env-file and opens a [Backend]: the configuration, the
// session gate and an API client. Read commands embed [JSONOutput] for
// --json and --query. Failures are returned as [ToolError] values whose
// category selects the exit code; [APIFailure] categorizes errors from
// the API client.
package cli
