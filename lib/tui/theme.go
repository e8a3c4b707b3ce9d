// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for realty's terminal UI. All colors
// use lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row, active navigation entry.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
	Accent           lipgloss.Color // Focused input, scrollbar thumb, brand.

	// Notification kinds.
	SuccessForeground lipgloss.Color
	ErrorForeground   lipgloss.Color
	WarningForeground lipgloss.Color

	// Money movement in the commission report.
	PositiveChange lipgloss.Color
	NegativeChange lipgloss.Color

	// Fuzzy filter match highlighting inside dropdowns.
	MatchForeground lipgloss.Color

	// Overlays (dropdowns, modals, toasts).
	OverlayForeground lipgloss.Color
	OverlayBackground lipgloss.Color
}

// ChangeColor returns the color for a signed amount: PositiveChange for
// zero and above, NegativeChange below.
func (theme Theme) ChangeColor(delta float64) lipgloss.Color {
	if delta < 0 {
		return theme.NegativeChange
	}
	return theme.PositiveChange
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
	Accent:           lipgloss.Color("75"), // blue

	SuccessForeground: lipgloss.Color("114"), // green
	ErrorForeground:   lipgloss.Color("203"), // soft red
	WarningForeground: lipgloss.Color("220"), // amber

	PositiveChange: lipgloss.Color("114"),
	NegativeChange: lipgloss.Color("203"),

	MatchForeground: lipgloss.Color("220"),

	OverlayForeground: lipgloss.Color("252"),
	OverlayBackground: lipgloss.Color("237"), // slightly lighter than terminal background
}
