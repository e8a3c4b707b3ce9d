// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package format renders amounts, dates, and counts for display.
//
// Currency follows the Indian numbering system used by the backend's
// accounts: the rightmost three integer digits form one group and every
// group to the left of it has two digits, so one hundred thousand rupees
// is "₹1,00,000.00". Dates are shown as M/D/YYYY in UTC regardless of the
// local zone, because the backend stores calendar dates without a zone and
// serializes them as midnight GMT.
package format

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RupeeSign prefixes every formatted amount.
const RupeeSign = "₹"

// NotAvailable is shown in place of a missing date.
const NotAvailable = "N/A"

// InvalidDate is shown when a date string is present but unparseable.
const InvalidDate = "Invalid Date"

// Currency formats amount as Indian rupees with lakh grouping and two
// decimal places. Non-finite values format as zero, matching how the
// dashboard treats a missing total.
func Currency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}

	// Round to paise before splitting so "0.005" style values do not
	// produce a negative-zero sign or a three-digit fraction.
	paise := math.Round(amount * 100)
	negative := paise < 0
	if negative {
		paise = -paise
	}

	digits := strconv.FormatFloat(paise/100, 'f', 2, 64)
	integer, fraction, _ := strings.Cut(digits, ".")

	var builder strings.Builder
	if negative {
		builder.WriteByte('-')
	}
	builder.WriteString(RupeeSign)
	builder.WriteString(groupIndian(integer))
	builder.WriteByte('.')
	builder.WriteString(fraction)
	return builder.String()
}

// Change formats the difference after-before for the commission report.
// Growth is shown with an explicit plus sign; a decrease keeps the minus
// sign from Currency instead of rendering "+-".
func Change(before, after float64) string {
	difference := after - before
	formatted := Currency(difference)
	if strings.HasPrefix(formatted, "-") {
		return formatted
	}
	return "+" + formatted
}

// groupIndian inserts separators into a string of ASCII digits: the last
// three digits form one group, then groups of two.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	groups = append(groups, tail)
	return strings.Join(groups, ",")
}

// Date formats t as M/D/YYYY in UTC. The zero time is NotAvailable.
func Date(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}
	return t.UTC().Format("1/2/2006")
}

// dateLayouts are the encodings the backend is known to emit for date
// columns: Flask's default RFC 1123 rendering, ISO 8601 timestamps, and
// bare calendar dates from hand-written fixtures.
var dateLayouts = []string{
	time.RFC1123,
	time.RFC1123Z,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// ParseDate parses a backend date string in any of the known layouts.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// DateString formats a backend date string. Empty input is NotAvailable;
// input in an unknown layout is InvalidDate.
func DateString(value string) string {
	if strings.TrimSpace(value) == "" {
		return NotAvailable
	}
	parsed, ok := ParseDate(value)
	if !ok {
		return InvalidDate
	}
	return Date(parsed)
}

var countPrinter = message.NewPrinter(language.MustParse("en-IN"))

// Count formats an entity count with digit grouping.
func Count(count int) string {
	return countPrinter.Sprintf("%d", count)
}

// Percentage formats a commission percentage as stored, without trailing
// zeros: 12.5 becomes "12.5%" and 10 becomes "10%".
func Percentage(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64) + "%"
}
