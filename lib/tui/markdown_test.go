// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestRenderMarkdownBlocks(t *testing.T) {
	input := "# Keys\n\nMove with **arrows** and\nconfirm with `Enter`.\n\n- one\n- two\n\n| Key | Action |\n|-----|--------|\n| q | quit |\n"
	rendered := RenderMarkdown(input, DefaultTheme, 60)
	plain := ansi.Strip(rendered)

	if !strings.HasPrefix(plain, "Keys") {
		t.Errorf("heading not first:\n%s", plain)
	}
	if !strings.Contains(plain, "Move with arrows and confirm with Enter.") {
		t.Errorf("soft break not reflowed:\n%s", plain)
	}
	if !strings.Contains(plain, "• one\n• two") {
		t.Errorf("list not rendered:\n%s", plain)
	}
	if !strings.Contains(plain, "Key  Action") || !strings.Contains(plain, "q    quit") {
		t.Errorf("table not aligned:\n%s", plain)
	}
	if rendered == plain {
		t.Error("output carries no styling")
	}
}

func TestRenderMarkdownWraps(t *testing.T) {
	input := strings.Repeat("word ", 30)
	for _, line := range strings.Split(ansi.Strip(RenderMarkdown(input, DefaultTheme, 20)), "\n") {
		if ansi.StringWidth(line) > 20 {
			t.Errorf("line %q wider than 20", line)
		}
	}
}

func TestRenderMarkdownEmpty(t *testing.T) {
	if got := RenderMarkdown("", DefaultTheme, 40); got != "" {
		t.Errorf("empty input rendered %q", got)
	}
}
