// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"slices"
	"testing"
)

func TestFuzzyMatchSubstring(t *testing.T) {
	result := FuzzyMatch("Meera - Iyer", []rune("iyer"), nil)
	if result.Score <= 0 {
		t.Fatal("expected positive score for substring match")
	}
	if !slices.Equal(result.Positions, []int{8, 9, 10, 11}) {
		t.Errorf("Positions = %v, want [8 9 10 11]", result.Positions)
	}
}

func TestFuzzyMatchNonContiguous(t *testing.T) {
	result := FuzzyMatch("104 - Zed Adams", []rune("1za"), NewFuzzySlab())
	if result.Score <= 0 {
		t.Fatal("expected positive score for non-contiguous match")
	}
	if !slices.IsSorted(result.Positions) {
		t.Errorf("Positions %v not ascending", result.Positions)
	}
}

func TestFuzzyMatchCaseInsensitive(t *testing.T) {
	if FuzzyMatch("RAVI KUMAR", []rune("kum"), nil).Score <= 0 {
		t.Error("lowercase pattern did not match uppercase text")
	}
	if FuzzyMatch("ravi kumar", []rune("KUM"), nil).Score <= 0 {
		t.Error("uppercase pattern did not match lowercase text")
	}
}

func TestFuzzyMatchNoMatch(t *testing.T) {
	result := FuzzyMatch("Anu - Bose", []rune("xyz"), nil)
	if result.Score != 0 || len(result.Positions) != 0 {
		t.Errorf("no-match result = %+v, want zero", result)
	}
}

func TestFuzzyMatchEmptyPattern(t *testing.T) {
	result := FuzzyMatch("anything", nil, nil)
	if result.Score != 1 || result.Positions != nil {
		t.Errorf("empty pattern result = %+v, want score 1 and no positions", result)
	}
}
