// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var (
	markdownParserInstance goldmark.Markdown
	markdownParserOnce     sync.Once
)

func markdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParserInstance = goldmark.New(goldmark.WithExtensions(extension.Table))
	})
	return markdownParserInstance
}

// RenderMarkdown renders markdown as styled terminal text wrapped to
// width. It covers what the help screen uses: headings, paragraphs,
// lists, emphasis, code spans, fenced code (highlighted with chroma),
// thematic breaks and pipe tables. Soft line breaks become spaces so
// hard-wrapped source reflows at any width.
func RenderMarkdown(input string, theme Theme, width int) string {
	if input == "" {
		return ""
	}
	source := []byte(input)
	document := markdownParser().Parser().Parse(text.NewReader(source))

	// Always styled output: the help screen renders inside the TUI even
	// when tests run without a terminal.
	lipRenderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	lipRenderer.SetColorProfile(termenv.ANSI256)

	renderer := &markdownRenderer{source: source, theme: theme, lipRenderer: lipRenderer}
	var blocks []string
	for node := document.FirstChild(); node != nil; node = node.NextSibling() {
		if block := renderer.block(node, max(width, 10)); block != "" {
			blocks = append(blocks, block)
		}
	}
	return strings.Join(blocks, "\n\n")
}

type markdownRenderer struct {
	source      []byte
	theme       Theme
	lipRenderer *lipgloss.Renderer
}

func (renderer *markdownRenderer) style() lipgloss.Style {
	return renderer.lipRenderer.NewStyle().Foreground(renderer.theme.NormalText)
}

func (renderer *markdownRenderer) block(node ast.Node, width int) string {
	switch node := node.(type) {
	case *ast.Heading:
		style := renderer.style().Bold(true).Foreground(renderer.theme.HeaderForeground)
		if node.Level == 1 {
			style = style.Foreground(renderer.theme.Accent).Underline(true)
		}
		return style.Render(plainText(renderer.inline(node, inlineStyle{})))

	case *ast.Paragraph, *ast.TextBlock:
		return ansi.Wrap(renderer.inline(node, inlineStyle{}), width, " ,.;-+|")

	case *ast.List:
		return renderer.list(node, width)

	case *ast.FencedCodeBlock:
		return renderer.code(node, string(node.Language(renderer.source)))

	case *ast.CodeBlock:
		return renderer.code(node, "")

	case *ast.ThematicBreak:
		return renderer.style().Foreground(renderer.theme.BorderColor).Render(strings.Repeat("─", width))

	case *extast.Table:
		return renderer.table(node)

	default:
		return ansi.Wrap(renderer.inline(node, inlineStyle{}), width, " ")
	}
}

func (renderer *markdownRenderer) list(list *ast.List, width int) string {
	var items []string
	number := list.Start
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		bullet := "• "
		if list.IsOrdered() {
			bullet = fmt.Sprintf("%d. ", number)
			number++
		}
		bulletWidth := ansi.StringWidth(bullet)

		var parts []string
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			if part := renderer.block(child, max(width-bulletWidth, 10)); part != "" {
				parts = append(parts, part)
			}
		}
		lines := strings.Split(strings.Join(parts, "\n"), "\n")
		bulletStyle := renderer.style().Foreground(renderer.theme.Accent)
		for index, line := range lines {
			if index == 0 {
				lines[index] = bulletStyle.Render(bullet) + line
			} else {
				lines[index] = strings.Repeat(" ", bulletWidth) + line
			}
		}
		items = append(items, strings.Join(lines, "\n"))
	}
	return strings.Join(items, "\n")
}

func (renderer *markdownRenderer) code(node ast.Node, language string) string {
	var code strings.Builder
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		code.Write(segment.Value(renderer.source))
	}
	body := strings.TrimRight(code.String(), "\n")

	highlighted := ""
	if language != "" {
		var buffer strings.Builder
		if err := quick.Highlight(&buffer, body, language, "terminal256", "monokai"); err == nil {
			highlighted = buffer.String()
		}
	}
	if highlighted == "" {
		highlighted = renderer.style().Foreground(renderer.theme.FaintText).Render(body)
	}

	indented := strings.Split(strings.TrimRight(highlighted, "\n"), "\n")
	for index, line := range indented {
		indented[index] = "  " + line
	}
	return strings.Join(indented, "\n")
}

func (renderer *markdownRenderer) table(table *extast.Table) string {
	var rows [][]string
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, renderer.inline(cell, inlineStyle{bold: row.Kind() == extast.KindTableHeader}))
		}
		rows = append(rows, cells)
	}

	var widths []int
	for _, cells := range rows {
		for index, cell := range cells {
			if index >= len(widths) {
				widths = append(widths, 0)
			}
			widths[index] = max(widths[index], ansi.StringWidth(cell))
		}
	}

	lines := make([]string, 0, len(rows))
	for _, cells := range rows {
		var line strings.Builder
		for index, cell := range cells {
			if index > 0 {
				line.WriteString("  ")
			}
			line.WriteString(cell)
			if index < len(cells)-1 {
				line.WriteString(strings.Repeat(" ", widths[index]-ansi.StringWidth(cell)))
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

type inlineStyle struct {
	bold   bool
	italic bool
}

// inline renders the inline children of node as one styled string.
func (renderer *markdownRenderer) inline(node ast.Node, style inlineStyle) string {
	var builder strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		renderer.inlineNode(&builder, child, style)
	}
	return builder.String()
}

func (renderer *markdownRenderer) inlineNode(builder *strings.Builder, node ast.Node, style inlineStyle) {
	textStyle := renderer.style().Bold(style.bold).Italic(style.italic)
	switch node := node.(type) {
	case *ast.Text:
		builder.WriteString(textStyle.Render(string(node.Segment.Value(renderer.source))))
		switch {
		case node.HardLineBreak():
			builder.WriteString("\n")
		case node.SoftLineBreak():
			builder.WriteString(" ")
		}

	case *ast.String:
		builder.WriteString(textStyle.Render(string(node.Value)))

	case *ast.Emphasis:
		nested := style
		if node.Level >= 2 {
			nested.bold = true
		} else {
			nested.italic = true
		}
		builder.WriteString(renderer.inline(node, nested))

	case *ast.CodeSpan:
		code := plainText(renderer.inline(node, inlineStyle{}))
		builder.WriteString(renderer.style().Foreground(renderer.theme.Accent).Render(code))

	case *ast.AutoLink:
		builder.WriteString(textStyle.Underline(true).Render(string(node.URL(renderer.source))))

	case *ast.Link:
		builder.WriteString(renderer.inline(node, style))

	default:
		builder.WriteString(renderer.inline(node, style))
	}
}

// plainText strips ANSI styling so a fragment can be restyled as a
// unit.
func plainText(styled string) string {
	return ansi.Strip(styled)
}
