package grid

import (
	"strings"

	"github.com/atomicstack/cellcombo/internal/catalog"
	"github.com/atomicstack/cellcombo/internal/theme"
	"github.com/atomicstack/cellcombo/internal/ui/combo/dropdown"
	"github.com/atomicstack/cellcombo/internal/ui/combo/editing"
	"github.com/atomicstack/cellcombo/internal/ui/combo/selection"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"
)

const (
	columnSep = "│"
	sgrReset  = "\x1b[0m"
)

// Lines renders the header and the visible rows, one string per screen row.
func (g *Grid) Lines() []string {
	styles := g.opts.Styles
	sep := theme.Render(styles.RowMarker, columnSep)

	header := make([]string, len(g.columns))
	for i, column := range g.columns {
		header[i] = theme.Render(styles.Header, fit(column.Title, column.Width))
	}
	lines := []string{strings.Repeat(" ", markerWidth) + strings.Join(header, sep)}

	last := g.rows
	if g.viewRows > 0 && g.rowOffset+g.viewRows < last {
		last = g.rowOffset + g.viewRows
	}
	for row := g.rowOffset; row < last; row++ {
		cells := make([]string, len(g.columns))
		for col := range g.columns {
			cells[col] = g.renderCell(row, col)
		}
		lines = append(lines, g.marker(row)+strings.Join(cells, sep))
	}
	return lines
}

func (g *Grid) marker(row int) string {
	styles := g.opts.Styles
	switch {
	case g.edit != nil && g.edit.row == row:
		return theme.Render(styles.CellEditing, "✎") + " "
	case g.modified[row]:
		return theme.Render(styles.RowModified, "*") + " "
	}
	return strings.Repeat(" ", markerWidth)
}

func (g *Grid) renderCell(row, col int) string {
	column := g.columns[col]
	if g.edit != nil && g.edit.row == row && g.edit.col == col {
		return fit(g.edit.control.View(column.Width), column.Width)
	}
	styles := g.opts.Styles
	style := styles.Cell
	switch {
	case row == g.row && col == g.col:
		style = styles.CellCursor
	case column.ReadOnly:
		style = styles.CellReadOnly
	}
	value := g.Value(row, col)
	if column.Kind == KindChecked {
		text := selection.Truncate(checkedSummary(column.Catalog, value), column.Width, nil)
		return theme.Render(style, fit(text, column.Width))
	}
	return theme.Render(style, fit(displayValue(column, value), column.Width))
}

// displayValue is the text shown for a stored value outside of editing.
func displayValue(column Column, value string) string {
	switch column.Kind {
	case KindFiltered:
		if item, ok := editing.DecodeSingle(column.Catalog, value); ok {
			return item.Long
		}
	case KindChecked:
		return checkedSummary(column.Catalog, value)
	}
	return value
}

// checkedSummary recomputes the summary of a stored multi-select value from
// the catalog, falling back to the stored summary when none of the texts
// are known.
func checkedSummary(c *catalog.Catalog, value string) string {
	summary, longs := editing.DecodeMulti(value)
	sel := selection.NewMulti(c)
	if sel.SetCheckedByLongText(longs) {
		return selection.Summary(sel)
	}
	return summary
}

func fit(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(text) > width {
		text = truncate.StringWithTail(text, uint(width), "…")
	}
	if w := ansi.StringWidth(text); w < width {
		text += strings.Repeat(" ", width-w)
	}
	return text
}

// Overlay returns the dropdown of the active session.
func (g *Grid) Overlay() (editing.Overlay, bool) {
	if g.edit == nil {
		return editing.Overlay{}, false
	}
	return g.edit.control.Overlay()
}

// Tooltip returns the full text of the cell under the pointer. The edited
// cell reports its control's tooltip.
func (g *Grid) Tooltip() string {
	x, y, ok := g.Pointer()
	if !ok {
		return ""
	}
	row, col, ok := g.CellAt(x, y)
	if !ok {
		return ""
	}
	if g.edit != nil && g.edit.row == row && g.edit.col == col {
		return g.edit.control.Tooltip()
	}
	column := g.columns[col]
	if column.Kind == KindText {
		return ""
	}
	return displayValue(column, g.Value(row, col))
}

func overlayRect(ov editing.Overlay) dropdown.Rect {
	width := 0
	for _, line := range ov.Lines {
		if w := ansi.StringWidth(line); w > width {
			width = w
		}
	}
	return dropdown.Rect{X: ov.X, Y: ov.Y, W: width, H: len(ov.Lines)}
}

// Splice draws ov over lines, padding with blank rows and columns where the
// overlay reaches past the existing text.
func Splice(lines []string, ov editing.Overlay) []string {
	out := make([]string, len(lines))
	copy(out, lines)
	if ov.X < 0 {
		return out
	}
	for i, line := range ov.Lines {
		y := ov.Y + i
		if y < 0 {
			continue
		}
		for len(out) <= y {
			out = append(out, "")
		}
		base := out[y]
		left := ansi.Truncate(base, ov.X, "")
		if w := ansi.StringWidth(left); w < ov.X {
			left += strings.Repeat(" ", ov.X-w)
		}
		right := ansi.TruncateLeft(base, ov.X+ansi.StringWidth(line), "")
		out[y] = left + sgrReset + line + sgrReset + right
	}
	return out
}
