// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package desk

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/realty/lib/format"
	"github.com/bureau-foundation/realty/lib/realtyapi"
)

// Card is a labelled value: a dashboard tile or a report line.
type Card struct {
	Label string
	Value string
}

// Table is a rendered report. When Rows is empty, Placeholder stands in
// as a single row.
type Table struct {
	Columns     []string
	Rows        [][]string
	Placeholder string
}

// Empty reports whether the table shows its placeholder.
func (table Table) Empty() bool { return len(table.Rows) == 0 }

// Widths returns each column's display width: the widest of its header
// and cells.
func (table Table) Widths() []int {
	widths := make([]int, len(table.Columns))
	for index, column := range table.Columns {
		widths[index] = ansi.StringWidth(column)
	}
	for _, row := range table.Rows {
		for index, cell := range row {
			if index < len(widths) {
				widths[index] = max(widths[index], ansi.StringWidth(cell))
			}
		}
	}
	return widths
}

// Lines renders the table as aligned plain text: a header line, then
// one line per row, or the placeholder as the only row.
func (table Table) Lines() []string {
	widths := table.Widths()
	lines := []string{alignRow(table.Columns, widths)}
	if table.Empty() {
		return append(lines, table.Placeholder)
	}
	for _, row := range table.Rows {
		lines = append(lines, alignRow(row, widths))
	}
	return lines
}

func alignRow(cells []string, widths []int) string {
	var builder strings.Builder
	for index, cell := range cells {
		if index > 0 {
			builder.WriteString("  ")
		}
		builder.WriteString(cell)
		if index < len(cells)-1 && index < len(widths) {
			builder.WriteString(strings.Repeat(" ", max(widths[index]-ansi.StringWidth(cell), 0)))
		}
	}
	return builder.String()
}

// RenderStats returns the four dashboard cards.
func RenderStats(stats realtyapi.Stats) []Card {
	return []Card{
		{Label: "Total Clients", Value: format.Count(stats.Clients)},
		{Label: "Total Contracts", Value: format.Count(stats.Contracts)},
		{Label: "Total Agents", Value: format.Count(stats.Agents)},
		{Label: "Total Paid", Value: format.Currency(stats.TotalPaid.Float())},
	}
}

// RenderEarnings tabulates an agent's commissions.
func RenderEarnings(earnings []realtyapi.Earning) Table {
	table := Table{
		Columns:     []string{"Contract ID", "Commission ID", "Contract Amount", "Percentage", "Potential Earning", "Actual Earned"},
		Placeholder: NoEarnings,
	}
	for _, earning := range earnings {
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(earning.ContractID),
			strconv.Itoa(earning.CommissionID),
			format.Currency(earning.ContractAmount.Float()),
			format.Percentage(earning.Percentage.Float()),
			format.Currency(earning.PotentialEarning.Float()),
			format.Currency(earning.ActualEarnedAmount.Float()),
		})
	}
	return table
}

// RenderTotal returns the total-payment card. A contract without
// payments totals ₹0.00.
func RenderTotal(total realtyapi.Money) Card {
	return Card{Label: "Total Paid", Value: format.Currency(total.Float())}
}

// RenderPayments tabulates a contract's payment history. selected is
// false while no contract is chosen.
func RenderPayments(payments []realtyapi.Payment, selected bool) Table {
	table := Table{
		Columns:     []string{"Payment No", "Date", "Amount"},
		Placeholder: NoPayments,
	}
	if !selected {
		table.Placeholder = NoContractChosen
		return table
	}
	for _, payment := range payments {
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(payment.PaymentNo),
			format.DateString(payment.PaymentDate),
			format.Currency(payment.Amount.Float()),
		})
	}
	return table
}

// RenderHighValue tabulates clients with above-average contracts.
func RenderHighValue(rows []realtyapi.HighValueClient) Table {
	table := Table{
		Columns:     []string{"Client", "Contract ID", "Amount"},
		Placeholder: NoHighValue,
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{
			row.Fname + " " + row.Lname + " (ID: " + strconv.Itoa(row.ClientID) + ")",
			strconv.Itoa(row.ContractID),
			format.Currency(row.Amount.Float()),
		})
	}
	return table
}

// RenderCommission returns the commission report lines shown after a
// payment.
func RenderCommission(report realtyapi.CommissionReport) []Card {
	before, after := report.PreAmount.Float(), report.PostAmount.Float()
	return []Card{
		{Label: "Commission ID", Value: strconv.Itoa(report.CommissionID)},
		{Label: "Amount Before", Value: format.Currency(before)},
		{Label: "Amount After", Value: format.Currency(after)},
		{Label: "Change", Value: format.Change(before, after)},
	}
}

// CommissionDelta returns the signed commission movement of a report.
func CommissionDelta(report realtyapi.CommissionReport) float64 {
	return report.PostAmount.Float() - report.PreAmount.Float()
}
