// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package deskui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the desk TUI. Single-letter
// bindings apply only while the navigation column has focus, so they
// never steal keystrokes from a text field.
type KeyMap struct {
	// Navigation column.
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding // Open the page under the cursor and focus its form.
	Jump  key.Binding // 1-7 jump straight to a page.

	// Forms.
	NextField     key.Binding
	PreviousField key.Binding
	Submit        key.Binding // Submit the form the focused field belongs to.
	ClearSelect   key.Binding // Clear a focused dropdown.
	Back          key.Binding // Leave the form for the navigation column.

	// Session and chrome.
	Refresh     key.Binding
	Logout      key.Binding
	Help        key.Binding
	AuthToggle  key.Binding // Switch the auth screen between login and register.
	Quit        key.Binding
	ForceQuit   key.Binding
	DismissHelp key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter", "l", "right"),
		key.WithHelp("Enter", "open"),
	),
	Jump: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6", "7"),
		key.WithHelp("1-7", "page"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("Tab", "next field"),
	),
	PreviousField: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("S-Tab", "prev field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("C-s", "submit"),
	),
	ClearSelect: key.NewBinding(
		key.WithKeys("backspace", "delete"),
		key.WithHelp("BS", "clear"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "back"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Logout: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "logout"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	AuthToggle: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("C-r", "login/register"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
	DismissHelp: key.NewBinding(
		key.WithKeys("esc", "?", "q"),
		key.WithHelp("Esc", "close help"),
	),
}

// navigationHelp adapts the key map to bubbles/help for the status
// line while the navigation column has focus.
type navigationHelp struct{ keys KeyMap }

func (h navigationHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.keys.Up, h.keys.Down, h.keys.Enter, h.keys.Jump, h.keys.Refresh, h.keys.Logout, h.keys.Help, h.keys.Quit}
}

func (h navigationHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}

// formHelp is the status line while a form field has focus.
type formHelp struct{ keys KeyMap }

func (h formHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.keys.NextField, h.keys.PreviousField, h.keys.Submit, h.keys.ClearSelect, h.keys.Back, h.keys.ForceQuit}
}

func (h formHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}

// authHelp is the status line on the auth screen.
type authHelp struct{ keys KeyMap }

func (h authHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.keys.NextField, h.keys.PreviousField, h.keys.AuthToggle, h.keys.ForceQuit}
}

func (h authHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}
