// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyResult is the outcome of matching one text against a pattern.
// A zero Score means no match.
type FuzzyResult struct {
	Score int

	// Positions are the rune indexes in the text that matched, in
	// ascending order. Used to highlight matched characters.
	Positions []int
}

var fuzzyInitOnce sync.Once

// NewFuzzySlab allocates scratch space for repeated FuzzyMatch calls.
// One slab may be reused across calls but not across goroutines.
func NewFuzzySlab() *util.Slab {
	return util.MakeSlab(100*1024, 2048)
}

// FuzzyMatch runs fzf's V2 matcher over text. Matching is
// case-insensitive: both sides are lowercased before the match. An
// empty pattern matches everything with a score of 1 and no positions.
// slab may be nil.
func FuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 {
		return FuzzyResult{Score: 1}
	}
	fuzzyInitOnce.Do(func() { algo.Init("default") })

	lowered := make([]rune, len(pattern))
	for index, character := range pattern {
		lowered[index] = toLowerRune(character)
	}
	chars := util.ToChars([]byte(strings.ToLower(text)))
	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, lowered, true, slab)
	if result.Start < 0 || result.Score <= 0 {
		return FuzzyResult{}
	}

	match := FuzzyResult{Score: result.Score}
	if positions != nil {
		match.Positions = append([]int(nil), (*positions)...)
		// fzf reports positions back to front.
		for left, right := 0, len(match.Positions)-1; left < right; left, right = left+1, right-1 {
			match.Positions[left], match.Positions[right] = match.Positions[right], match.Positions[left]
		}
	}
	return match
}

func toLowerRune(character rune) rune {
	return []rune(strings.ToLower(string(character)))[0]
}
