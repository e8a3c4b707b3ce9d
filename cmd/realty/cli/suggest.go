// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"

	"github.com/spf13/pflag"
)

// maxSuggestDistance is the largest edit distance still offered as a
// "did you mean" hint. "contarcts" reaches "contracts" in two edits.
const maxSuggestDistance = 3

// suggestCommand returns the subcommand name nearest to unknown, or ""
// when none is within maxSuggestDistance.
func suggestCommand(unknown string, commands []*Command) string {
	names := make([]string, 0, len(commands))
	for _, command := range commands {
		names = append(names, command.Name)
	}
	return closest(unknown, names)
}

// suggestFlag finds the first flag in args that flagSet does not define
// and returns the nearest defined flag as "--name", or "". Arguments
// after "--" are operands and are not examined.
func suggestFlag(args []string, flagSet *pflag.FlagSet) string {
	unknown, found := firstUnknownFlag(args, flagSet)
	if !found {
		return ""
	}
	var names []string
	flagSet.VisitAll(func(flag *pflag.Flag) {
		names = append(names, flag.Name)
	})
	if name := closest(unknown, names); name != "" {
		return "--" + name
	}
	return ""
}

func firstUnknownFlag(args []string, flagSet *pflag.FlagSet) (string, bool) {
	for _, arg := range args {
		if arg == "--" {
			return "", false
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name, _, _ := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if flagSet.Lookup(name) != nil {
			continue
		}
		if len(name) == 1 && flagSet.ShorthandLookup(name) != nil {
			continue
		}
		return name, true
	}
	return "", false
}

// closest returns the candidate with the smallest edit distance to
// target, preferring the earliest on ties.
func closest(target string, candidates []string) string {
	best, bestDistance := "", maxSuggestDistance+1
	for _, candidate := range candidates {
		if distance := editDistance(target, candidate); distance < bestDistance {
			best, bestDistance = candidate, distance
		}
	}
	return best
}

// editDistance is the Levenshtein distance between a and b in runes.
func editDistance(a, b string) int {
	source, target := []rune(a), []rune(b)
	if len(source) > len(target) {
		source, target = target, source
	}
	row := make([]int, len(source)+1)
	for index := range row {
		row[index] = index
	}
	for column, targetRune := range target {
		diagonal := row[0]
		row[0] = column + 1
		for index, sourceRune := range source {
			substitution := diagonal
			if sourceRune != targetRune {
				substitution++
			}
			diagonal = row[index+1]
			row[index+1] = min(row[index+1]+1, row[index]+1, substitution)
		}
	}
	return row[len(source)]
}
