// Package caret renders an editable text field with a blinking caret.
package caret

import (
	"strings"

	"github.com/atomicstack/cellcombo/internal/theme"
	"github.com/atomicstack/cellcombo/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Caret wraps the bubbles cursor used inside cell editors.
type Caret struct {
	model   cursor.Model
	styles  *theme.Styles
	focused bool
	moved   bool
}

// New returns an unfocused caret.
func New(styles *theme.Styles) *Caret {
	if styles == nil {
		styles = theme.Default()
	}
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Field != nil {
		c.TextStyle = styles.Field.Copy()
	}
	c.SetChar(" ")
	return &Caret{model: c, styles: styles}
}

// SetStatic turns blinking off.
func (c *Caret) SetStatic() {
	c.model.SetMode(cursor.CursorStatic)
}

// Focus shows the caret and starts blinking.
func (c *Caret) Focus() tea.Cmd {
	c.focused = true
	return c.model.Focus()
}

// Blur hides the caret.
func (c *Caret) Blur() {
	c.focused = false
	c.model.Blur()
}

// Focused reports whether the caret is shown.
func (c *Caret) Focused() bool {
	return c.focused
}

// Update forwards blink messages to the cursor.
func (c *Caret) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.model, cmd = c.model.Update(msg)
	return cmd
}

// Moved notes that the caret position changed so it is shown solid until
// the next blink.
func (c *Caret) Moved() {
	c.moved = true
}

// Flush restarts the blink cycle after a move.
func (c *Caret) Flush() tea.Cmd {
	if !c.moved || !c.focused {
		c.moved = false
		return nil
	}
	c.moved = false
	c.model.Blink = false
	return c.model.BlinkCmd()
}

// Render draws f into width columns. The visible window scrolls so the caret
// stays on screen. An unfocused field renders as plain text.
func (c *Caret) Render(f state.Field, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(f.Text)
	if !c.focused {
		return pad(theme.Render(c.styles.Field, ansi.Truncate(f.Text, width, "")), width)
	}
	pos := f.CursorPos()
	if f.Selected {
		visible := string(runes)
		if ansi.StringWidth(visible) > width-1 {
			visible = ansi.TruncateLeft(visible, ansi.StringWidth(visible)-(width-1), "")
		}
		return pad(theme.Render(c.styles.FieldSelected, visible)+c.renderCaret(" "), width)
	}
	start := 0
	if pos >= width {
		start = pos - width + 1
	}
	end := start + width
	if end > len(runes) {
		end = len(runes)
	}
	before := string(runes[start:pos])
	caretRune := " "
	after := ""
	if pos < len(runes) {
		caretRune = string(runes[pos])
		if pos+1 < end {
			after = string(runes[pos+1 : end])
		}
	}
	line := theme.Render(c.styles.Field, before) + c.renderCaret(caretRune) + theme.Render(c.styles.Field, after)
	return pad(ansi.Truncate(line, width, ""), width)
}

func (c *Caret) renderCaret(char string) string {
	c.model.SetChar(char)
	base := c.model.TextStyle.Copy().Inline(true)
	if c.model.Blink {
		return base.Render(char)
	}
	if c.styles.Cursor != nil {
		cursorStyle := c.styles.Cursor.Copy().Inline(true)
		return base.Inherit(cursorStyle).Blink(false).Render(char)
	}
	return base.Reverse(true).Render(char)
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
