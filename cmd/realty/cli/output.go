// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"strconv"

	"github.com/bureau-foundation/realty/lib/desk"
)

// PrintTable writes a rendered report to [Stdout], one line per row.
func PrintTable(table desk.Table) {
	for _, line := range table.Lines() {
		fmt.Fprintln(Stdout, line)
	}
}

// PrintCards writes labelled values to [Stdout], labels padded to a
// common width.
func PrintCards(cards []desk.Card) {
	width := 0
	for _, card := range cards {
		width = max(width, len(card.Label))
	}
	for _, card := range cards {
		fmt.Fprintf(Stdout, "%-*s  %s\n", width+1, card.Label+":", card.Value)
	}
}

// ParseID reads the single positional record ID of a command.
func ParseID(args []string, noun string) (int, error) {
	if len(args) < 1 {
		return 0, Validation("%s ID is required", noun)
	}
	if len(args) > 1 {
		return 0, Validation("unexpected argument: %s", args[1])
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return 0, Validation("invalid %s ID %q: must be a positive integer", noun, args[0])
	}
	return id, nil
}

// NoArguments rejects stray positional arguments.
func NoArguments(args []string) error {
	if len(args) > 0 {
		return Validation("unexpected argument: %s", args[0])
	}
	return nil
}

// ConfirmDelete asks before a destructive action unless yes is set.
// A refusal prints "Cancelled." and returns an [ExitError] with code 1,
// so scripts see the delete did not happen.
func ConfirmDelete(target desk.Target, yes bool) error {
	if yes {
		return nil
	}
	if Confirm(target.Title, target.Message) {
		return nil
	}
	fmt.Fprintln(Stderr, "Cancelled.")
	return &ExitError{Code: 1}
}
