// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package deskui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/realty/lib/desk"
	"github.com/bureau-foundation/realty/lib/tui"
)

// wheelStep is how many content lines one wheel notch scrolls.
const wheelStep = 3

func (model Model) handleMouse(message tea.MouseMsg) (tea.Model, tea.Cmd) {
	wheel := message.Button == tea.MouseButtonWheelUp || message.Button == tea.MouseButtonWheelDown
	press := message.Action == tea.MouseActionPress && message.Button == tea.MouseButtonLeft
	if !wheel && !press {
		return model, nil
	}

	if model.showHelp {
		if press {
			model.showHelp = false
		}
		return model, nil
	}

	if model.confirmModal != nil {
		if !press {
			return model, nil
		}
		switch model.confirmModal.ChoiceAt(message.X, message.Y) {
		case tui.ConfirmAccepted:
			return model.confirmDelete()
		case tui.ConfirmRejected:
			model.cancelDelete()
		}
		return model, nil
	}

	if model.dropdown != nil {
		return model.handleDropdownMouse(message, wheel)
	}

	if model.screen != ScreenDesk {
		return model, nil
	}

	if wheel {
		if message.X >= contentX {
			delta := wheelStep
			if message.Button == tea.MouseButtonWheelUp {
				delta = -wheelStep
			}
			model.scrollBy(delta)
		}
		return model, nil
	}

	row := message.Y - contentTop
	if row < 0 || row >= model.contentHeight() {
		return model, nil
	}

	if message.X < navigationWidth {
		pages := desk.Pages()
		if row >= len(pages) {
			return model, nil
		}
		model.focus = FocusNavigation
		return model, model.show(pages[row])
	}

	if message.X >= contentX {
		return model.clickField(model.scroll + row)
	}
	return model, nil
}

func (model Model) handleDropdownMouse(message tea.MouseMsg, wheel bool) (tea.Model, tea.Cmd) {
	if wheel {
		if message.Button == tea.MouseButtonWheelUp {
			model.dropdown.MoveUp()
		} else {
			model.dropdown.MoveDown()
		}
		return model, nil
	}

	if !model.dropdown.Contains(message.X, message.Y) {
		model.dropdown = nil
		return model, nil
	}
	index := model.dropdown.OptionAtY(message.Y)
	if index < 0 || index >= len(model.dropdown.Options) {
		return model, nil
	}
	value := model.dropdown.Options[index].Value
	model.dropdown = nil
	return model, model.choose(model.dropdownOwner, value)
}

// clickField focuses the field drawn on content line, pressing it when
// it is a button and opening it when it is a select.
func (model Model) clickField(line int) (tea.Model, tea.Cmd) {
	pageForm := model.forms[model.router.Current()]
	_, rows := model.contentLines()
	for index, fieldRow := range rows {
		if fieldRow != line {
			continue
		}
		model.focus = FocusForm
		focusCmd := pageForm.setFocus(index)
		switch pageForm.fields[index].kind {
		case fieldButton:
			next, cmd := model.press(pageForm.fields[index].action)
			return next, tea.Batch(focusCmd, cmd)
		case fieldSelect:
			model.openDropdown(index)
		}
		return model, focusCmd
	}
	return model, nil
}
