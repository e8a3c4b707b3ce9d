// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package deskui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/realty/lib/tui"
)

// ToastKind styles a notification.
type ToastKind int

const (
	ToastSuccess ToastKind = iota
	ToastError
	ToastWarning // Log records at warn level and above.
)

// Toast is one notification on screen.
type Toast struct {
	Kind    ToastKind
	Text    string
	Expires time.Time

	id int
}

// toastExpireMsg is delivered after a toast's duration has passed.
type toastExpireMsg struct{ id int }

// toastStackLimit bounds how many toasts are drawn at once; older ones
// are dropped first.
const toastStackLimit = 4

const toastMaxWidth = 48

// pushToast adds a notification and schedules its expiry.
func (model *Model) pushToast(kind ToastKind, text string) tea.Cmd {
	model.nextToastID++
	toast := Toast{
		Kind:    kind,
		Text:    text,
		Expires: model.clock.Now().Add(model.toastDuration),
		id:      model.nextToastID,
	}
	model.toasts = append(model.toasts, toast)
	if len(model.toasts) > toastStackLimit {
		model.toasts = model.toasts[len(model.toasts)-toastStackLimit:]
	}
	id := toast.id
	return model.tick(model.toastDuration, func(time.Time) tea.Msg {
		return toastExpireMsg{id: id}
	})
}

// expireToasts drops every toast whose deadline has passed on the
// model's clock. The tick message only prompts the sweep; the clock
// decides.
func (model *Model) expireToasts() {
	now := model.clock.Now()
	kept := model.toasts[:0]
	for _, toast := range model.toasts {
		if now.Before(toast.Expires) {
			kept = append(kept, toast)
		}
	}
	model.toasts = kept
}

// Toasts returns the notifications currently shown, oldest first.
func (model Model) Toasts() []Toast {
	return append([]Toast(nil), model.toasts...)
}

// renderToasts draws the stack as overlay lines, newest at the bottom.
func renderToasts(toasts []Toast, theme tui.Theme) []string {
	if len(toasts) == 0 {
		return nil
	}
	width := 0
	for _, toast := range toasts {
		width = max(width, ansi.StringWidth(toast.Text))
	}
	width = min(width+4, toastMaxWidth)

	background := lipgloss.NewStyle().Background(theme.OverlayBackground)
	var lines []string
	for _, toast := range toasts {
		color := theme.SuccessForeground
		marker := "✓"
		switch toast.Kind {
		case ToastError:
			color = theme.ErrorForeground
			marker = "✗"
		case ToastWarning:
			color = theme.WarningForeground
			marker = "!"
		}
		style := background.Foreground(color)
		text := ansi.Truncate(toast.Text, width-4, "…")
		content := style.Bold(true).Render(marker) + style.Render(" "+text)
		lines = append(lines, tui.PadOverlayLine(content, width-2, width, background))
	}
	return lines
}
