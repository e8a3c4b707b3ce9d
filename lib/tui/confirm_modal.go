// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// ConfirmChoice is the outcome of a key press in a ConfirmModal.
type ConfirmChoice int

const (
	// ConfirmUndecided means the modal is still open.
	ConfirmUndecided ConfirmChoice = iota
	// ConfirmAccepted means the user confirmed the action.
	ConfirmAccepted
	// ConfirmRejected means the user cancelled.
	ConfirmRejected
)

// ConfirmModal is a centered yes/no dialog for destructive actions.
// Focus starts on the cancel button, so an accidental Enter is
// harmless.
type ConfirmModal struct {
	Title   string
	Message string

	confirmFocused bool
	theme          Theme

	// Button hit boxes from the last Render, in screen coordinates.
	buttonsY     int
	confirmRange [2]int
	cancelRange  [2]int
}

// Modal chrome: 2 columns border + 2 columns padding horizontally.
const (
	confirmModalChromeWidth = 4
	confirmModalMaxInner    = 56
	confirmModalMinInner    = 24
)

// NewConfirmModal creates a modal with focus on the cancel button.
func NewConfirmModal(title, message string, theme Theme) ConfirmModal {
	return ConfirmModal{Title: title, Message: message, theme: theme}
}

// Update processes a key and reports whether it decided the modal.
// y and n answer directly; tab and the arrow keys move focus; enter
// answers with the focused button; escape cancels.
func (modal *ConfirmModal) Update(message tea.KeyMsg) ConfirmChoice {
	switch message.String() {
	case "y", "Y":
		return ConfirmAccepted
	case "n", "N", "esc", "q":
		return ConfirmRejected
	case "tab", "shift+tab", "left", "right", "h", "l":
		modal.confirmFocused = !modal.confirmFocused
	case "enter", " ":
		if modal.confirmFocused {
			return ConfirmAccepted
		}
		return ConfirmRejected
	}
	return ConfirmUndecided
}

// ChoiceAt maps a mouse click at screen (x, y) to a button, using the
// geometry of the last Render. Clicks elsewhere are undecided.
func (modal ConfirmModal) ChoiceAt(x, y int) ConfirmChoice {
	if y != modal.buttonsY {
		return ConfirmUndecided
	}
	switch {
	case x >= modal.confirmRange[0] && x < modal.confirmRange[1]:
		return ConfirmAccepted
	case x >= modal.cancelRange[0] && x < modal.cancelRange[1]:
		return ConfirmRejected
	}
	return ConfirmUndecided
}

// Render produces the modal lines and the anchor that centers them on
// a screen of the given size. It records button positions for
// ChoiceAt, so call it on a pointer held by the model.
func (modal *ConfirmModal) Render(screenWidth, screenHeight int) ([]string, int, int) {
	innerWidth := min(max(screenWidth-8-confirmModalChromeWidth, confirmModalMinInner), confirmModalMaxInner)

	backgroundStyle := lipgloss.NewStyle().
		Foreground(modal.theme.OverlayForeground).
		Background(modal.theme.OverlayBackground)
	titleStyle := backgroundStyle.
		Bold(true).
		Foreground(modal.theme.ErrorForeground)
	buttonStyle := lipgloss.NewStyle().
		Foreground(modal.theme.NormalText).
		Background(modal.theme.SelectedBackground).
		Padding(0, 1)
	focusedStyle := buttonStyle.
		Bold(true).
		Foreground(modal.theme.SelectedForeground).
		Background(modal.theme.ErrorForeground)

	pad := func(content string) string {
		width := ansi.StringWidth(content)
		if width < innerWidth {
			content += backgroundStyle.Render(strings.Repeat(" ", innerWidth-width))
		}
		return content
	}

	var lines []string
	lines = append(lines, pad(titleStyle.Render(modal.Title)))
	lines = append(lines, pad(""))
	for _, line := range strings.Split(lipgloss.NewStyle().Width(innerWidth).Render(modal.Message), "\n") {
		lines = append(lines, pad(backgroundStyle.Render(strings.TrimRight(line, " "))))
	}
	lines = append(lines, pad(""))

	confirmButton, cancelButton := buttonStyle.Render("Delete"), buttonStyle.Render("Cancel")
	if modal.confirmFocused {
		confirmButton = focusedStyle.Render("Delete")
	} else {
		cancelButton = focusedStyle.Render("Cancel")
	}
	gap := backgroundStyle.Render("  ")
	buttons := cancelButton + gap + confirmButton
	buttonsWidth := ansi.StringWidth(buttons)
	leftPad := max(innerWidth-buttonsWidth, 0)
	lines = append(lines, backgroundStyle.Render(strings.Repeat(" ", leftPad))+buttons)
	lines = append(lines, pad(backgroundStyle.Foreground(modal.theme.FaintText).Render("y delete  n/Esc cancel  Tab switch")))

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(modal.theme.BorderColor).
		BorderBackground(modal.theme.OverlayBackground).
		Background(modal.theme.OverlayBackground).
		Padding(0, 1)
	rendered := strings.Split(borderStyle.Render(strings.Join(lines, "\n")), "\n")
	anchorX, anchorY := CenterOverlay(rendered, screenWidth, screenHeight)

	// Border row, then content rows; the buttons are the second to
	// last content row. Content starts after border and padding.
	modal.buttonsY = anchorY + 1 + len(lines) - 2
	contentX := anchorX + 2
	cancelWidth := ansi.StringWidth(cancelButton)
	modal.cancelRange = [2]int{contentX + leftPad, contentX + leftPad + cancelWidth}
	confirmStart := modal.cancelRange[1] + 2
	modal.confirmRange = [2]int{confirmStart, confirmStart + ansi.StringWidth(confirmButton)}

	return rendered, anchorX, anchorY
}
