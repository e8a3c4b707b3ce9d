// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package desk

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/bureau-foundation/realty/lib/tui"
)

// Option is one dropdown choice.
type Option struct {
	Value string
	Label string
}

// Match is an option that survived a filter, with the rune positions
// in its label that matched.
type Match struct {
	Option
	Positions []int
}

// Select is a dropdown's option list and current choice. An empty
// value means the placeholder is showing.
type Select struct {
	placeholder string
	options     []Option
	value       string
}

// NewSelect returns an empty select showing placeholder.
func NewSelect(placeholder string) Select {
	return Select{placeholder: placeholder}
}

// Populate replaces the options. The current choice is kept when an
// option with the same value is still present; otherwise the select
// falls back to the placeholder. Returns whether the choice was kept
// (true also when nothing was chosen).
func (selection *Select) Populate(options []Option) bool {
	selection.options = options
	if selection.value == "" {
		return true
	}
	if selection.indexOf(selection.value) >= 0 {
		return true
	}
	selection.value = ""
	return false
}

// Set chooses value. It fails, leaving the choice unchanged, when no
// option has that value.
func (selection *Select) Set(value string) bool {
	if selection.indexOf(value) < 0 {
		return false
	}
	selection.value = value
	return true
}

// Clear returns the select to its placeholder.
func (selection *Select) Clear() { selection.value = "" }

// Value returns the chosen value, or "" when the placeholder shows.
func (selection *Select) Value() string { return selection.value }

// ID returns the chosen value as an integer entity ID.
func (selection *Select) ID() (int, bool) {
	if selection.value == "" {
		return 0, false
	}
	id, err := strconv.Atoi(selection.value)
	return id, err == nil
}

// Label returns the chosen option's label, or the placeholder.
func (selection *Select) Label() string {
	if index := selection.indexOf(selection.value); index >= 0 && selection.value != "" {
		return selection.options[index].Label
	}
	return selection.placeholder
}

// Placeholder returns the text shown while nothing is chosen.
func (selection *Select) Placeholder() string { return selection.placeholder }

// Options returns the current options.
func (selection *Select) Options() []Option { return selection.options }

// Filter returns the options whose labels fuzzy-match pattern, best
// first. Ties keep the population order. An empty pattern returns
// every option with no positions.
func (selection *Select) Filter(pattern string) []Match {
	runes := []rune(pattern)
	slab := tui.NewFuzzySlab()
	type scored struct {
		match Match
		score int
		order int
	}
	var results []scored
	for order, option := range selection.options {
		result := tui.FuzzyMatch(option.Label, runes, slab)
		if result.Score <= 0 {
			continue
		}
		results = append(results, scored{
			match: Match{Option: option, Positions: result.Positions},
			score: result.Score,
			order: order,
		})
	}
	slices.SortStableFunc(results, func(a, b scored) int {
		return cmp.Or(cmp.Compare(b.score, a.score), cmp.Compare(a.order, b.order))
	})
	matches := make([]Match, len(results))
	for index, result := range results {
		matches[index] = result.match
	}
	return matches
}

func (selection *Select) indexOf(value string) int {
	return slices.IndexFunc(selection.options, func(option Option) bool { return option.Value == value })
}
