// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package deskui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/realty/lib/desk"
)

// fieldKind is what a form row is.
type fieldKind int

const (
	fieldText fieldKind = iota
	fieldSelect
	fieldButton
)

// action is what a button does when pressed.
type action int

const (
	actionNone action = iota
	actionLogin
	actionRegister
	actionToggleAuth
	actionAddClient
	actionDeleteClient
	actionAddContract
	actionDeleteContract
	actionAddPayment
)

// Field names, used to read values back out of a form.
const (
	fieldUsername  = "username"
	fieldPassword  = "password"
	fieldFname     = "fname"
	fieldLname     = "lname"
	fieldHireDate  = "hire_date"
	fieldAddress   = "address"
	fieldCity      = "city"
	fieldState     = "state"
	fieldZipCode   = "zip_code"
	fieldStartDate = "start_date"
	fieldEndDate   = "end_date"
	fieldAmount    = "amount"
)

// field is one focusable row of a form: a text input, a dropdown
// bound to one of the desk's selections, or a button.
type field struct {
	kind  fieldKind
	name  string
	label string

	input    textinput.Model
	dropdown desk.Dropdown
	action   action

	// section, when set, is drawn as a heading above the field.
	section string
}

// form is an ordered list of fields with one focused.
type form struct {
	fields []*field
	focus  int
}

func textField(name, label, placeholder string) *field {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = placeholder
	input.CharLimit = 96
	return &field{kind: fieldText, name: name, label: label, input: input}
}

func passwordField(name, label string) *field {
	f := textField(name, label, "")
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '•'
	return f
}

func selectField(dropdown desk.Dropdown, label string) *field {
	return &field{kind: fieldSelect, label: label, dropdown: dropdown}
}

func buttonField(label string, act action) *field {
	return &field{kind: fieldButton, label: label, action: act}
}

func withSection(f *field, section string) *field {
	f.section = section
	return f
}

func newForm(fields ...*field) *form {
	return &form{fields: fields}
}

// focused returns the focused field, or nil for an empty form.
func (f *form) focused() *field {
	if f == nil || len(f.fields) == 0 {
		return nil
	}
	return f.fields[f.focus]
}

// setFocus moves focus to index, blurring every text input but the
// focused one.
func (f *form) setFocus(index int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	index = ((index % len(f.fields)) + len(f.fields)) % len(f.fields)
	f.focus = index
	var cmd tea.Cmd
	for position, candidate := range f.fields {
		if candidate.kind != fieldText {
			continue
		}
		if position == index {
			cmd = candidate.input.Focus()
		} else {
			candidate.input.Blur()
		}
	}
	return cmd
}

// blur removes keyboard focus from every input, leaving the focus index
// where it was.
func (f *form) blur() {
	for _, candidate := range f.fields {
		if candidate.kind == fieldText {
			candidate.input.Blur()
		}
	}
}

func (f *form) next() tea.Cmd     { return f.setFocus(f.focus + 1) }
func (f *form) previous() tea.Cmd { return f.setFocus(f.focus - 1) }

// value returns the text of the named input, or "" if there is none.
func (f *form) value(name string) string {
	for _, candidate := range f.fields {
		if candidate.kind == fieldText && candidate.name == name {
			return candidate.input.Value()
		}
	}
	return ""
}

// setValue sets the text of the named input.
func (f *form) setValue(name, value string) {
	for _, candidate := range f.fields {
		if candidate.kind == fieldText && candidate.name == name {
			candidate.input.SetValue(value)
		}
	}
}

// reset clears the named inputs, or every input when no names are
// given.
func (f *form) reset(names ...string) {
	for _, candidate := range f.fields {
		if candidate.kind != fieldText {
			continue
		}
		if len(names) == 0 || containsName(names, candidate.name) {
			candidate.input.Reset()
		}
	}
}

// ownerOf returns the submit action of the group the field at index
// belongs to: the first button at or after it.
func (f *form) ownerOf(index int) action {
	for position := index; position < len(f.fields); position++ {
		if f.fields[position].kind == fieldButton {
			return f.fields[position].action
		}
	}
	return actionNone
}

// indexOfAction returns the position of the button for act, or -1.
func (f *form) indexOfAction(act action) int {
	for position, candidate := range f.fields {
		if candidate.kind == fieldButton && candidate.action == act {
			return position
		}
	}
	return -1
}

func containsName(names []string, name string) bool {
	for _, candidate := range names {
		if candidate == name {
			return true
		}
	}
	return false
}

// newAuthForm builds the login or register form.
func newAuthForm(register bool) *form {
	submit, toggle := buttonField("Login", actionLogin), buttonField("Need an account? Register", actionToggleAuth)
	if register {
		submit, toggle = buttonField("Register", actionRegister), buttonField("Have an account? Login", actionToggleAuth)
	}
	return newForm(
		textField(fieldUsername, "Username", "username"),
		passwordField(fieldPassword, "Password"),
		submit,
		toggle,
	)
}

// newPageForms builds the forms of every page. Pages without inputs
// get an empty form.
func newPageForms() map[desk.Page]*form {
	forms := make(map[desk.Page]*form, len(desk.Pages()))
	for _, page := range desk.Pages() {
		forms[page] = newForm()
	}

	forms[desk.PageAddClient] = newForm(
		withSection(textField(fieldFname, "First name", ""), "New client"),
		textField(fieldLname, "Last name", ""),
		textField(fieldHireDate, "Hire date", "YYYY-MM-DD"),
		textField(fieldAddress, "Address", ""),
		textField(fieldCity, "City", ""),
		textField(fieldState, "State", ""),
		textField(fieldZipCode, "Zip code", ""),
		buttonField("Add Client", actionAddClient),
		withSection(selectField(desk.DropdownDeleteClient, "Client"), "Delete client"),
		buttonField("Delete Client", actionDeleteClient),
	)

	forms[desk.PageAddContract] = newForm(
		withSection(selectField(desk.DropdownContractClient, "Client"), "New contract"),
		textField(fieldStartDate, "Start date", "YYYY-MM-DD"),
		textField(fieldEndDate, "End date", "YYYY-MM-DD"),
		textField(fieldAmount, "Amount", "0.00"),
		buttonField("Add Contract", actionAddContract),
		withSection(selectField(desk.DropdownDeleteContract, "Contract"), "Delete contract"),
		buttonField("Delete Contract", actionDeleteContract),
	)

	forms[desk.PageAddPayment] = newForm(
		withSection(selectField(desk.DropdownPaymentContract, "Contract"), "New payment"),
		textField(fieldAmount, "Amount", "0.00"),
		buttonField("Add Payment", actionAddPayment),
	)

	forms[desk.PageAgentEarnings] = newForm(
		selectField(desk.DropdownEarningsAgent, "Agent"),
	)

	forms[desk.PageTotalPayments] = newForm(
		selectField(desk.DropdownTotalContract, "Contract"),
	)

	return forms
}
