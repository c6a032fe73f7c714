package dropdown

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// RowAt maps a screen cell to a list row inside the open frame. The row is
// relative to the first visible entry.
func (c *Controller) RowAt(x, y int) (int, bool) {
	if c.state != Open {
		return 0, false
	}
	p := c.placement
	inner := Rect{X: p.X + 1, Y: p.Y + 1, W: p.W - 2, H: p.H - BorderRows}
	if !inner.Contains(x, y) {
		return 0, false
	}
	return (y - inner.Y) / ItemHeight, true
}

// Contains reports whether the cell lies on the open frame.
func (c *Controller) Contains(x, y int) bool {
	return c.state == Open && c.placement.Contains(x, y)
}

// Row pads text to width, truncating it when wider, and applies style so a
// highlight spans the whole row.
func Row(text string, width int, style *lipgloss.Style) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(text) > width {
		text = ansi.Truncate(text, width, "…")
	}
	if w := ansi.StringWidth(text); w < width {
		text += strings.Repeat(" ", width-w)
	}
	if style == nil {
		return text
	}
	return style.Render(text)
}

// InnerWidth returns the usable width inside the open frame.
func (c *Controller) InnerWidth() int {
	if w := c.placement.W - 2; w > 0 {
		return w
	}
	return 0
}

// RenderFrame draws rows inside a rounded border sized to p. Rows are
// truncated or padded to the inner width; missing rows are blank.
func RenderFrame(p Placement, rows []string, border *lipgloss.Style) []string {
	if p.W < 2 || p.H < BorderRows {
		return nil
	}
	innerW := p.W - 2
	innerH := p.H - BorderRows
	paint := func(s string) string {
		if border == nil {
			return s
		}
		return border.Render(s)
	}
	b := lipgloss.RoundedBorder()
	lines := make([]string, 0, p.H)
	lines = append(lines, paint(b.TopLeft+strings.Repeat(b.Top, innerW)+b.TopRight))
	for i := 0; i < innerH; i++ {
		row := ""
		if i < len(rows) {
			row = rows[i]
		}
		if ansi.StringWidth(row) > innerW {
			row = ansi.Truncate(row, innerW, "")
		}
		if w := ansi.StringWidth(row); w < innerW {
			row += strings.Repeat(" ", innerW-w)
		}
		lines = append(lines, paint(b.Left)+row+paint(b.Right))
	}
	lines = append(lines, paint(b.BottomLeft+strings.Repeat(b.Bottom, innerW)+b.BottomRight))
	return lines
}
