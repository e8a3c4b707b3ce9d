// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DropdownOption is a single selectable item in a dropdown overlay.
type DropdownOption struct {
	Label string // Display text shown in the dropdown.
	Value string // Key stored in the owning select on choice.

	// Matches are rune indexes into Label highlighted as fuzzy
	// filter hits. Nil when no filter is active.
	Matches []int
}

// DropdownOverlay renders a floating menu anchored at a screen
// position, with a filter line on top. It captures all keyboard input
// when active (typing filters, up/down navigate, enter selects, escape
// dismisses). The model owns the dropdown and recomputes Options from
// Query; the overlay only draws and tracks the cursor.
type DropdownOverlay struct {
	Options []DropdownOption
	Cursor  int
	Query   string

	AnchorX int // Screen X coordinate of the dropdown's top-left corner.
	AnchorY int // Screen Y coordinate of the dropdown's top-left corner.

	// MaxVisible caps the number of option rows drawn. Zero means
	// dropdownDefaultVisible.
	MaxVisible int

	scrollOffset int
}

const (
	dropdownDefaultVisible = 8
	dropdownMinLabelWidth  = 24
)

// SetOptions replaces the option list, keeping the cursor in range.
func (dropdown *DropdownOverlay) SetOptions(options []DropdownOption) {
	dropdown.Options = options
	if dropdown.Cursor >= len(options) {
		dropdown.Cursor = len(options) - 1
	}
	if dropdown.Cursor < 0 {
		dropdown.Cursor = 0
	}
	dropdown.keepCursorVisible()
}

// MoveUp moves the cursor up by one, wrapping to the bottom.
func (dropdown *DropdownOverlay) MoveUp() {
	if len(dropdown.Options) == 0 {
		return
	}
	dropdown.Cursor--
	if dropdown.Cursor < 0 {
		dropdown.Cursor = len(dropdown.Options) - 1
	}
	dropdown.keepCursorVisible()
}

// MoveDown moves the cursor down by one, wrapping to the top.
func (dropdown *DropdownOverlay) MoveDown() {
	if len(dropdown.Options) == 0 {
		return
	}
	dropdown.Cursor++
	if dropdown.Cursor >= len(dropdown.Options) {
		dropdown.Cursor = 0
	}
	dropdown.keepCursorVisible()
}

// Selected returns the currently highlighted option. The second return
// is false when the filter left nothing to select.
func (dropdown *DropdownOverlay) Selected() (DropdownOption, bool) {
	if dropdown.Cursor < 0 || dropdown.Cursor >= len(dropdown.Options) {
		return DropdownOption{}, false
	}
	return dropdown.Options[dropdown.Cursor], true
}

func (dropdown *DropdownOverlay) visibleRows() int {
	if dropdown.MaxVisible > 0 {
		return dropdown.MaxVisible
	}
	return dropdownDefaultVisible
}

func (dropdown *DropdownOverlay) keepCursorVisible() {
	visible := dropdown.visibleRows()
	if dropdown.Cursor < dropdown.scrollOffset {
		dropdown.scrollOffset = dropdown.Cursor
	}
	if dropdown.Cursor >= dropdown.scrollOffset+visible {
		dropdown.scrollOffset = dropdown.Cursor - visible + 1
	}
	if dropdown.scrollOffset < 0 {
		dropdown.scrollOffset = 0
	}
}

// Width returns the total visible width of the rendered dropdown in
// columns. This matches the width used by Render and is needed for
// mouse hit-testing.
func (dropdown *DropdownOverlay) Width() int {
	maxLabelWidth := dropdownMinLabelWidth
	for _, option := range dropdown.Options {
		maxLabelWidth = max(maxLabelWidth, ansi.StringWidth(option.Label))
	}
	maxLabelWidth = max(maxLabelWidth, ansi.StringWidth(dropdown.Query)+2)
	// Layout: " > LABEL " with 1 char padding on each side.
	return 3 + maxLabelWidth + 2
}

// Height returns the number of rendered lines: the filter line plus
// the visible option rows (at least one, for the empty notice).
func (dropdown *DropdownOverlay) Height() int {
	rows := min(len(dropdown.Options), dropdown.visibleRows())
	return 1 + max(rows, 1)
}

// Contains returns true if the screen coordinate (x, y) falls within
// the dropdown's bounding rectangle.
func (dropdown *DropdownOverlay) Contains(x, y int) bool {
	if y < dropdown.AnchorY || y >= dropdown.AnchorY+dropdown.Height() {
		return false
	}
	return x >= dropdown.AnchorX && x < dropdown.AnchorX+dropdown.Width()
}

// OptionAtY returns the option index corresponding to the given screen
// Y coordinate, or -1 if Y is on the filter line or outside the
// dropdown's option rows.
func (dropdown *DropdownOverlay) OptionAtY(y int) int {
	row := y - dropdown.AnchorY - 1
	rows := min(len(dropdown.Options), dropdown.visibleRows())
	if row < 0 || row >= rows {
		return -1
	}
	return dropdown.scrollOffset + row
}

// Render produces the dropdown lines for overlay splicing. Each line
// has the same visible width and a solid background so the dropdown
// stands apart from the content beneath it.
func (dropdown *DropdownOverlay) Render(theme Theme) []string {
	totalWidth := dropdown.Width()
	innerWidth := totalWidth - 2

	backgroundStyle := lipgloss.NewStyle().
		Foreground(theme.OverlayForeground).
		Background(theme.OverlayBackground)
	selectedStyle := lipgloss.NewStyle().
		Background(theme.SelectedBackground).
		Foreground(theme.SelectedForeground)
	faintStyle := backgroundStyle.Foreground(theme.FaintText)

	var lines []string

	queryLine := faintStyle.Render("/ ") + backgroundStyle.Render(dropdown.Query) +
		backgroundStyle.Foreground(theme.Accent).Render("▎")
	lines = append(lines, PadOverlayLine(queryLine, innerWidth, totalWidth, backgroundStyle))

	if len(dropdown.Options) == 0 {
		lines = append(lines, PadOverlayLine(faintStyle.Render("  no matches"), innerWidth, totalWidth, backgroundStyle))
		return lines
	}

	end := min(dropdown.scrollOffset+dropdown.visibleRows(), len(dropdown.Options))
	for index := dropdown.scrollOffset; index < end; index++ {
		option := dropdown.Options[index]
		lineStyle := backgroundStyle
		marker := "  "
		if index == dropdown.Cursor {
			lineStyle = selectedStyle
			marker = "> "
		}
		matchStyle := lineStyle.Foreground(theme.MatchForeground).Bold(true)
		content := lineStyle.Render(marker) + highlightRunes(option.Label, option.Matches, lineStyle, matchStyle)
		lines = append(lines, PadOverlayLine(content, innerWidth, totalWidth, lineStyle))
	}
	return lines
}

// highlightRunes renders label with the runes at positions in
// matchStyle and the rest in baseStyle.
func highlightRunes(label string, positions []int, baseStyle, matchStyle lipgloss.Style) string {
	if len(positions) == 0 {
		return baseStyle.Render(label)
	}
	matched := make(map[int]bool, len(positions))
	for _, position := range positions {
		matched[position] = true
	}
	var builder strings.Builder
	var run []rune
	runMatched := false
	flush := func() {
		if len(run) == 0 {
			return
		}
		if runMatched {
			builder.WriteString(matchStyle.Render(string(run)))
		} else {
			builder.WriteString(baseStyle.Render(string(run)))
		}
		run = run[:0]
	}
	for index, character := range []rune(label) {
		if matched[index] != runMatched {
			flush()
			runMatched = matched[index]
		}
		run = append(run, character)
	}
	flush()
	return builder.String()
}
