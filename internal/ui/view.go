package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/cellcombo/internal/ui/grid"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"
)

type styledLine struct {
	text  string
	style *lipgloss.Style
	raw   bool // text contains ANSI escapes; skip style wrapping, use ANSI-aware truncation
}

// View implements tea.Model.
func (m *Model) View() string {
	lines := make([]styledLine, 0, 16)
	lines = append(lines, styledLine{text: m.title, style: styles.Title})
	for _, line := range m.grid.Lines() {
		lines = append(lines, styledLine{text: line, raw: true})
	}

	bottom := []styledLine{m.statusLine()}
	if m.showFooter {
		bottom = append(bottom, styledLine{text: footerText(m.grid.Keys()), style: styles.Footer})
	}

	lines = limitHeight(lines, m.height-len(bottom), m.width)
	if m.height > 0 {
		for len(lines) < m.height-len(bottom) {
			lines = append(lines, styledLine{})
		}
	}
	lines = append(lines, bottom...)
	lines = applyWidth(lines, m.width)

	out := strings.Split(renderLines(lines), "\n")
	if ov, ok := m.grid.Overlay(); ok {
		out = grid.Splice(out, ov)
	}
	return strings.Join(out, "\n")
}

// statusLine shows, in order of precedence, a validation error, a catalog
// error, the tooltip of the hovered cell and the last info message.
func (m *Model) statusLine() styledLine {
	if err := m.grid.Err(); err != "" {
		return styledLine{text: fmt.Sprintf("Error: %s", err), style: styles.Error}
	}
	if m.errMsg != "" {
		return styledLine{text: fmt.Sprintf("Error: %s", m.errMsg), style: styles.Error}
	}
	if tip := m.grid.Tooltip(); tip != "" {
		return styledLine{text: tip, style: styles.Tooltip}
	}
	if info := m.currentInfo(); info != "" {
		return styledLine{text: info, style: styles.Info}
	}
	return styledLine{}
}

func footerText(keys grid.KeyMap) string {
	bindings := []key.Binding{keys.Edit, keys.Next, keys.Clear}
	parts := make([]string, 0, len(bindings)+2)
	parts = append(parts, "←↑↓→ move")
	for _, b := range bindings {
		help := b.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	parts = append(parts, "esc quit")
	return strings.Join(parts, "  ")
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			if ansi.StringWidth(text) > width {
				text = truncate.StringWithTail(text, uint(width), "…")
			}
		} else {
			text = truncateText(text, width)
		}
		result[i] = styledLine{text: text, style: line.style, raw: line.raw}
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if line.raw || line.style == nil || line.text == "" {
			out[i] = line.text
			continue
		}
		out[i] = line.style.Render(line.text)
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
