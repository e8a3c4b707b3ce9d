// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Scrollbar returns one single-column cell per row for a pane of the
// given height showing rows [offset, offset+height) of total. The
// thumb is proportional to the visible share, at least one row tall.
// When everything fits the thumb fills the track.
func Scrollbar(theme Theme, height, total, offset int) []string {
	if height <= 0 {
		return nil
	}
	trackStyle := lipgloss.NewStyle().Foreground(theme.BorderColor)
	thumbStyle := lipgloss.NewStyle().Foreground(theme.Accent)

	cells := make([]string, height)
	if total <= height {
		for index := range cells {
			cells[index] = thumbStyle.Render("┃")
		}
		return cells
	}

	thumbSize := max(height*height/total, 1)
	scrollable := total - height
	track := height - thumbSize
	thumbOffset := 0
	if scrollable > 0 && track > 0 {
		thumbOffset = min(max(offset, 0), scrollable) * track / scrollable
	}

	for index := range cells {
		if index >= thumbOffset && index < thumbOffset+thumbSize {
			cells[index] = thumbStyle.Render("┃")
		} else {
			cells[index] = trackStyle.Render("│")
		}
	}
	return cells
}
