// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package deskui

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/realty/lib/desk"
	"github.com/bureau-foundation/realty/lib/format"
	"github.com/bureau-foundation/realty/lib/realtyapi"
	"github.com/bureau-foundation/realty/lib/tui"
)

//go:embed help.md
var helpMarkdown string

// Layout. The header and its separator take the top two rows, the
// bottom separator and the status line the last two. Between them the
// navigation column, a divider and the page content share the width.
const (
	contentTop      = 2
	chromeHeight    = 4
	navigationWidth = 24
	contentX        = navigationWidth + 2
	labelWidth      = 14
	helpMaxWidth    = 72
)

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return desk.Loading
	}

	var output string
	toastY := 0
	if model.screen == ScreenAuth {
		output = model.renderAuth()
	} else {
		output = model.renderDesk()
		toastY = contentTop
	}

	if model.dropdown != nil {
		output = tui.SpliceOverlay(output, model.dropdown.Render(model.theme),
			model.dropdown.AnchorX, model.dropdown.AnchorY)
	}
	if model.confirmModal != nil {
		lines, anchorX, anchorY := model.confirmModal.Render(model.width, model.height)
		output = tui.SpliceOverlay(output, lines, anchorX, anchorY)
	}
	if model.showHelp {
		lines := model.renderHelpOverlay()
		anchorX, anchorY := tui.CenterOverlay(lines, model.width, model.height)
		output = tui.SpliceOverlay(output, lines, anchorX, anchorY)
	}
	if toastLines := renderToasts(model.toasts, model.theme); len(toastLines) > 0 {
		anchorX := max(model.width-ansi.StringWidth(toastLines[0])-1, 0)
		output = tui.SpliceOverlay(output, toastLines, anchorX, toastY)
	}
	return output
}

// fit truncates or pads s to exactly width columns.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "…")
	if gap := width - ansi.StringWidth(s); gap > 0 {
		s += strings.Repeat(" ", gap)
	}
	return s
}

// --- Auth screen ---

func (model Model) renderAuth() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.Accent)
	subtitleStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	subtitle := "Sign in to the desk"
	if model.registerMode {
		subtitle = "Create an account"
	}

	lines := []string{titleStyle.Render("realty"), subtitleStyle.Render(subtitle), ""}
	formLines, _ := model.formLines(model.authForm, true)
	lines = append(lines, formLines...)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(model.theme.BorderColor).
		Padding(1, 3).
		Render(strings.Join(lines, "\n"))

	body := lipgloss.Place(model.width, max(model.height-1, 1), lipgloss.Center, lipgloss.Center, box)
	return body + "\n" + model.renderStatus(authHelp{model.keys}, "LOGIN")
}

// --- Desk screen ---

func (model Model) renderDesk() string {
	height := model.contentHeight()
	content, _ := model.contentLines()
	scroll := min(model.scroll, max(len(content)-height, 0))

	contentWidth := max(model.width-contentX-1, 0)
	scrollbar := tui.Scrollbar(model.theme, height, len(content), scroll)
	navigation := model.navigationLines()
	divider := lipgloss.NewStyle().Foreground(model.theme.BorderColor).Render("│")

	rows := make([]string, 0, height)
	for row := range height {
		navigationCell := ""
		if row < len(navigation) {
			navigationCell = navigation[row]
		}
		contentCell := ""
		if index := scroll + row; index < len(content) {
			contentCell = content[index]
		}
		bar := " "
		if len(content) > height && row < len(scrollbar) {
			bar = scrollbar[row]
		}
		rows = append(rows, fit(navigationCell, navigationWidth)+divider+" "+fit(contentCell, contentWidth)+bar)
	}

	separator := lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Render(strings.Repeat("─", model.width))

	focusIndicator := "NAV"
	var keys help.KeyMap = navigationHelp{model.keys}
	if model.focus == FocusForm {
		focusIndicator = "FORM"
		keys = formHelp{model.keys}
	}
	if model.dropdown != nil {
		focusIndicator = "SELECT"
	}
	if model.confirmModal != nil {
		focusIndicator = "CONFIRM"
	}

	sections := []string{model.renderHeader(), separator}
	sections = append(sections, rows...)
	sections = append(sections, separator, model.renderStatus(keys, focusIndicator))
	return strings.Join(sections, "\n")
}

// contentHeight is the number of rows available to page content.
func (model Model) contentHeight() int {
	return max(model.height-chromeHeight, 1)
}

func (model Model) renderHeader() string {
	brandStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.Accent)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	badgeStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(model.theme.SelectedForeground).
		Background(model.theme.Accent)

	left := " " + brandStyle.Render("realty") + "  " + titleStyle.Render(model.router.Current().Title())

	right := ""
	if model.busy() {
		right += model.spinner.View() + " "
	}
	if initial := model.session.Initial(); initial != "" {
		right += badgeStyle.Render(" "+initial+" ") + " " + model.session.DisplayName() + " "
	}

	gap := model.width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 1 {
		return fit(left, model.width)
	}
	return left + strings.Repeat(" ", gap) + right
}

func (model Model) renderStatus(keys help.KeyMap, focusIndicator string) string {
	style := lipgloss.NewStyle().Foreground(model.theme.HelpText)
	prefix := style.Render(fmt.Sprintf(" [%s] ", focusIndicator))
	return fit(prefix+model.help.View(keys), model.width)
}

func (model Model) navigationLines() []string {
	activeStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(model.theme.SelectedForeground).
		Background(model.theme.SelectedBackground)
	normalStyle := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	faintStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	var lines []string
	for index, page := range desk.Pages() {
		marker := "  "
		if model.focus == FocusNavigation && index == model.navCursor && model.dropdown == nil {
			marker = "› "
		}
		label := fmt.Sprintf("%s%d %s", marker, index+1, page.Title())
		if model.router.Active(page) {
			lines = append(lines, activeStyle.Render(fit(label, navigationWidth)))
		} else {
			lines = append(lines, normalStyle.Render(label))
		}
	}
	if model.cache.Loaded() {
		lines = append(lines, "",
			faintStyle.Render(fmt.Sprintf("  %s clients", format.Count(len(model.cache.Clients())))),
			faintStyle.Render(fmt.Sprintf("  %s agents", format.Count(len(model.cache.Agents())))),
			faintStyle.Render(fmt.Sprintf("  %s contracts", format.Count(len(model.cache.Contracts())))),
		)
	}
	return lines
}

// formLines renders a form one row per field, with section headings,
// and returns for each field the line it occupies.
func (model Model) formLines(f *form, active bool) ([]string, []int) {
	labelStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	focusStyle := lipgloss.NewStyle().Foreground(model.theme.Accent).Bold(true)
	buttonStyle := lipgloss.NewStyle().Foreground(model.theme.NormalText).Background(model.theme.SelectedBackground).Padding(0, 1)
	focusedButtonStyle := buttonStyle.Bold(true).Foreground(model.theme.SelectedForeground).Background(model.theme.Accent)
	disabledStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText).Padding(0, 1)

	var lines []string
	rows := make([]int, len(f.fields))
	for index, candidate := range f.fields {
		if candidate.section != "" {
			if index > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, sectionStyle.Render(candidate.section))
		}
		focused := active && index == f.focus
		marker := "  "
		if focused {
			marker = focusStyle.Render("› ")
		}

		var line string
		switch candidate.kind {
		case fieldText:
			line = marker + labelStyle.Render(fit(candidate.label, labelWidth)) + candidate.input.View()

		case fieldSelect:
			selection := model.selects[candidate.dropdown]
			value := selection.Label()
			valueStyle := lipgloss.NewStyle().Foreground(model.theme.NormalText)
			if selection.Value() == "" {
				valueStyle = labelStyle
			}
			if focused {
				valueStyle = valueStyle.Foreground(model.theme.Accent)
			}
			line = marker + labelStyle.Render(fit(candidate.label, labelWidth)) + valueStyle.Render("["+value+" ▾]")

		case fieldButton:
			label := candidate.label
			if model.inFlight[candidate.action] {
				label += " …"
			}
			style := buttonStyle
			switch {
			case candidate.action == actionAddContract && !model.contractSubmittable():
				style = disabledStyle
			case focused:
				style = focusedButtonStyle
			}
			if candidate.action == actionToggleAuth {
				style = labelStyle.Underline(focused)
			}
			line = marker + strings.Repeat(" ", labelWidth) + style.Render(label)
		}
		rows[index] = len(lines)
		lines = append(lines, line)
	}
	return lines, rows
}

// contentLines renders the current page and returns the lines with the
// content-relative row of each form field.
func (model Model) contentLines() ([]string, []int) {
	page := model.router.Current()
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	sectionStyle := titleStyle
	faintStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	lines := []string{titleStyle.Render(page.Title()), ""}
	formLines, rows := model.formLines(model.forms[page], model.focus == FocusForm)
	for index := range rows {
		rows[index] += len(lines)
	}
	lines = append(lines, formLines...)

	switch page {
	case desk.PageDashboard:
		switch {
		case model.reports.stats != nil:
			lines = append(lines, model.cardLines(desk.RenderStats(*model.reports.stats))...)
		case model.loading[reportStats]:
			lines = append(lines, faintStyle.Render(desk.Loading))
		}

	case desk.PageAddContract:
		pageForm := model.forms[desk.PageAddContract]
		if desk.ContractDatesConflict(pageForm.value(fieldStartDate), pageForm.value(fieldEndDate)) {
			warning := lipgloss.NewStyle().Foreground(model.theme.WarningForeground)
			lines = append(lines, "", warning.Render("⚠ "+desk.MessageContractOrder))
		}

	case desk.PageAddPayment:
		selected := model.selects[desk.DropdownPaymentContract].Value()
		lines = append(lines, "", sectionStyle.Render("Payment history"))
		if selected != "" && model.loading[reportPayments] && model.reports.payments == nil {
			lines = append(lines, faintStyle.Render(desk.Loading))
		} else {
			lines = append(lines, model.tableLines(desk.RenderPayments(model.reports.payments, selected != ""))...)
		}
		if model.reports.commission != nil && model.reports.commissionKey == selected {
			lines = append(lines, "", sectionStyle.Render("Commission report"))
			lines = append(lines, model.commissionLines(*model.reports.commission)...)
		}

	case desk.PageAgentEarnings:
		lines = append(lines, "")
		switch {
		case model.selects[desk.DropdownEarningsAgent].Value() == "":
			lines = append(lines, faintStyle.Render(desk.NoAgentChosen))
		case model.loading[reportEarnings]:
			lines = append(lines, faintStyle.Render(desk.Loading))
		default:
			lines = append(lines, model.tableLines(desk.RenderEarnings(model.reports.earnings))...)
		}

	case desk.PageTotalPayments:
		lines = append(lines, "")
		switch {
		case model.selects[desk.DropdownTotalContract].Value() == "":
			lines = append(lines, faintStyle.Render(desk.NoContractChosen))
		case model.loading[reportTotal]:
			lines = append(lines, faintStyle.Render(desk.Loading))
		default:
			lines = append(lines, model.cardLines([]desk.Card{desk.RenderTotal(model.reports.total)})...)
		}

	case desk.PageHighValueClients:
		if model.loading[reportHighValue] && model.reports.highValue == nil {
			lines = append(lines, faintStyle.Render(desk.Loading))
		} else {
			lines = append(lines, model.tableLines(desk.RenderHighValue(model.reports.highValue))...)
		}
	}
	return lines, rows
}

// cardLines draws cards side by side as bordered tiles.
func (model Model) cardLines(cards []desk.Card) []string {
	labelStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	tileStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(model.theme.BorderColor).
		Padding(0, 1)

	tiles := make([]string, 0, len(cards))
	for _, card := range cards {
		tiles = append(tiles, tileStyle.Render(labelStyle.Render(card.Label)+"\n"+valueStyle.Render(card.Value)))
	}
	return strings.Split(lipgloss.JoinHorizontal(lipgloss.Top, tiles...), "\n")
}

// tableLines styles a report table: bold header, faint placeholder.
func (model Model) tableLines(table desk.Table) []string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	faintStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	lines := table.Lines()
	for index, line := range lines {
		switch {
		case index == 0:
			lines[index] = headerStyle.Render(line)
		case table.Empty():
			lines[index] = faintStyle.Render(line)
		}
	}
	return lines
}

// commissionLines lists the commission report with the change colored
// by direction.
func (model Model) commissionLines(report realtyapi.CommissionReport) []string {
	labelStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	changeStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.ChangeColor(desk.CommissionDelta(report)))

	var lines []string
	for _, card := range desk.RenderCommission(report) {
		value := card.Value
		if card.Label == "Change" {
			value = changeStyle.Render(value)
		}
		lines = append(lines, "  "+labelStyle.Render(fit(card.Label, labelWidth))+value)
	}
	return lines
}

func (model Model) renderHelpOverlay() []string {
	width := min(helpMaxWidth, max(model.width-8, 20))
	body := tui.RenderMarkdown(helpMarkdown, model.theme, width-4)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(model.theme.Accent).
		Padding(0, 1).
		Width(width - 2).
		Render(strings.TrimRight(body, "\n"))

	lines := strings.Split(box, "\n")
	if limit := model.height - 2; limit > 0 && len(lines) > limit {
		lines = lines[:limit]
	}
	return lines
}

// --- Scrolling and geometry ---

func (model *Model) scrollBy(delta int) {
	model.scroll += delta
	model.clampScroll()
}

func (model *Model) clampScroll() {
	if model.screen != ScreenDesk {
		model.scroll = 0
		return
	}
	content, _ := model.contentLines()
	model.scroll = min(max(model.scroll, 0), max(len(content)-model.contentHeight(), 0))
}

// fieldScreenPosition returns where the value of the current page's
// field at index is drawn, scrolling it into view first.
func (model *Model) fieldScreenPosition(index int) (int, int) {
	_, rows := model.contentLines()
	row := rows[index]
	height := model.contentHeight()
	if row < model.scroll {
		model.scroll = row
	} else if row >= model.scroll+height {
		model.scroll = row - height + 1
	}
	return contentX + 2 + labelWidth, contentTop + row - model.scroll
}
