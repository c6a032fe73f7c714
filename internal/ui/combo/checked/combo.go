// Package checked implements the multi-select cell editor: a summary of the
// checked items with clear and select-all buttons, above a checkbox list.
package checked

import (
	"strings"

	"github.com/atomicstack/cellcombo/internal/catalog"
	"github.com/atomicstack/cellcombo/internal/logging/events"
	"github.com/atomicstack/cellcombo/internal/theme"
	"github.com/atomicstack/cellcombo/internal/ui/combo/dropdown"
	"github.com/atomicstack/cellcombo/internal/ui/combo/editing"
	"github.com/atomicstack/cellcombo/internal/ui/combo/selection"
	"github.com/atomicstack/cellcombo/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

const (
	arrowGlyph = "▼"
	clearGlyph = "☐"
	allGlyph   = "■"
	// buttonCols is the width of the button strip at the right of the cell.
	buttonCols = 3
)

type button int

const (
	noButton button = iota
	arrowButton
	clearButton
	allButton
)

// Combo is the checked combo box editor.
type Combo struct {
	name     string
	env      editing.Env
	catalog  *catalog.Catalog
	adapter  *editing.Adapter
	drop     *dropdown.Controller
	sel      *selection.Multi
	list     *state.List
	disposed bool
}

var _ editing.Control = (*Combo)(nil)

// New builds an editor over c. A nil catalog yields an empty list.
func New(name string, c *catalog.Catalog, env editing.Env) *Combo {
	env = env.WithDefaults()
	cb := &Combo{
		name:    name,
		env:     env,
		catalog: c,
		adapter: editing.NewAdapter(name, env.Host),
		sel:     selection.NewMulti(c),
		list:    state.NewList(c.Items()),
	}
	cb.drop = dropdown.New(env.Dropdown(name, cb.EncodedValue, cb.adapter.MarkDirty))
	return cb
}

// Adapter implements editing.Control.
func (c *Combo) Adapter() *editing.Adapter { return c.adapter }

// Dropdown exposes the dropdown state.
func (c *Combo) Dropdown() *dropdown.Controller { return c.drop }

// Selection exposes the checked set.
func (c *Combo) Selection() *selection.Multi { return c.sel }

// Cursor returns the highlighted list row.
func (c *Combo) Cursor() int { return c.list.Cursor }

// EncodedValue implements editing.Control. An empty selection encodes to "".
func (c *Combo) EncodedValue() string {
	items := c.sel.CheckedItems()
	if len(items) == 0 {
		return ""
	}
	longs := make([]string, len(items))
	for i, item := range items {
		longs[i] = item.Long
	}
	return editing.EncodeMulti(selection.Summary(c.sel), longs)
}

// SetEncodedValue implements editing.Control. Only the long-text part is
// read; texts unknown to the catalog are dropped.
func (c *Combo) SetEncodedValue(value string) {
	_, longs := editing.DecodeMulti(value)
	c.sel.SetCheckedByLongText(longs)
	c.list.Cursor = 0
	if c.list.Len() == 0 {
		c.list.Cursor = -1
	}
	if items := c.sel.CheckedItems(); len(items) > 0 {
		c.list.Cursor = c.list.IndexOf(items[0].ID)
	}
	c.list.ViewportOffset = 0
}

// IsDirty implements editing.Control.
func (c *Combo) IsDirty() bool { return c.adapter.IsDirty() }

// ClearDirty implements editing.Control.
func (c *Combo) ClearDirty() { c.adapter.ClearDirty() }

// WantsInputKey implements editing.Control.
func (c *Combo) WantsInputKey(msg tea.KeyMsg, hostWantsKey bool) bool {
	return editing.WantsInputKey(msg, hostWantsKey)
}

// PrepareForEdit implements editing.Control. There is no text to select, so
// selectAll is ignored.
func (c *Combo) PrepareForEdit(bool) tea.Cmd {
	if c.disposed {
		return nil
	}
	c.adapter.Begin()
	return nil
}

// Tooltip implements editing.Control. It is the untruncated summary.
func (c *Combo) Tooltip() string { return selection.Summary(c.sel) }

// Dispose implements editing.Control.
func (c *Combo) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	c.drop.Dispose()
}

// Update implements editing.Control.
func (c *Combo) Update(msg tea.Msg) tea.Cmd {
	if c.disposed {
		return nil
	}
	if cmd, ok := c.drop.Update(msg); ok {
		return cmd
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return c.handleKey(msg)
	case tea.MouseMsg:
		return c.handleMouse(msg)
	case tea.BlurMsg, editing.FocusLostMsg:
		c.drop.FocusLost()
	case tea.WindowSizeMsg:
		c.drop.Reposition()
	}
	return nil
}

func (c *Combo) handleKey(msg tea.KeyMsg) tea.Cmd {
	if !c.adapter.Editing() {
		return nil
	}
	if cmd, ok := c.drop.HandleKey(msg, c.list.Len()); ok {
		c.syncViewport()
		return cmd
	}
	switch msg.Type {
	case tea.KeyEnter, tea.KeyTab:
		return c.requestCommit()
	case tea.KeyEsc:
		if c.drop.IsOpen() {
			c.drop.Close(dropdown.ReasonEscape)
			return nil
		}
		cmd, err := c.adapter.RequestCancel()
		if err != nil {
			events.Edit.Rejected(c.name, err)
		}
		return cmd
	case tea.KeySpace:
		if !c.drop.IsOpen() {
			return c.open()
		}
		if item, ok := c.list.Current(); ok {
			return c.changed(c.sel.Toggle(item.ID))
		}
	case tea.KeyCtrlA:
		return c.press(allButton)
	case tea.KeyCtrlD, tea.KeyDelete:
		return c.press(clearButton)
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown, tea.KeyHome, tea.KeyEnd:
		return c.moveList(msg.Type)
	case tea.KeyRunes:
		if len(msg.Runes) == 1 && msg.Runes[0] == ' ' && !msg.Alt {
			return c.handleKey(tea.KeyMsg{Type: tea.KeySpace, Runes: msg.Runes})
		}
	}
	return nil
}

func (c *Combo) open() tea.Cmd {
	cmd := c.drop.Open(c.list.Len())
	c.syncViewport()
	return cmd
}

// changed records a selection change. While the list is open the dirty
// notification waits for the close; the cell is only redrawn.
func (c *Combo) changed(did bool) tea.Cmd {
	if !did {
		return c.drop.Touch()
	}
	if c.drop.IsOpen() {
		c.adapter.Invalidate()
		return c.drop.Touch()
	}
	c.adapter.MarkDirty()
	return nil
}

func (c *Combo) press(b button) tea.Cmd {
	switch b {
	case arrowButton:
		cmd := c.drop.Toggle(c.list.Len())
		c.syncViewport()
		return cmd
	case clearButton:
		if !c.sel.ClearEnabled() {
			return nil
		}
		return c.changed(c.sel.ClearAll())
	case allButton:
		if !c.sel.SelectAllEnabled() {
			return nil
		}
		return c.changed(c.sel.SelectAll())
	}
	return nil
}

func (c *Combo) moveList(k tea.KeyType) tea.Cmd {
	if !c.drop.IsOpen() {
		if k == tea.KeyUp || k == tea.KeyDown {
			return c.open()
		}
		return nil
	}
	moved := false
	switch k {
	case tea.KeyUp:
		moved = c.list.MoveUp()
	case tea.KeyDown:
		moved = c.list.MoveDown()
	case tea.KeyPgUp:
		moved = c.list.MoveCursorPageUp(c.drop.ListRows())
	case tea.KeyPgDown:
		moved = c.list.MoveCursorPageDown(c.drop.ListRows())
	case tea.KeyHome:
		moved = c.list.MoveCursorHome()
	case tea.KeyEnd:
		moved = c.list.MoveCursorEnd()
	}
	c.syncViewport()
	if !moved {
		return nil
	}
	return c.drop.Touch()
}

func (c *Combo) syncViewport() {
	c.list.EnsureCursorVisible(c.drop.ListRows())
}

func (c *Combo) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if !c.adapter.Editing() {
		return nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if !c.drop.Contains(msg.X, msg.Y) {
			return nil
		}
		if msg.Button == tea.MouseButtonWheelUp {
			return c.moveList(tea.KeyUp)
		}
		return c.moveList(tea.KeyDown)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
	default:
		return nil
	}
	if row, ok := c.drop.RowAt(msg.X, msg.Y); ok {
		idx := c.list.ViewportOffset + row
		if idx < 0 || idx >= c.list.Len() {
			return nil
		}
		c.list.Cursor = idx
		return c.changed(c.sel.Toggle(c.list.Items[idx].ID))
	}
	anchor, ok := c.env.Anchor()
	if !ok || !anchor.Contains(msg.X, msg.Y) {
		return nil
	}
	if b := buttonAt(anchor, msg.X); b != noButton {
		return c.press(b)
	}
	return c.press(arrowButton)
}

// buttonAt maps a column inside the anchor to the button strip.
func buttonAt(anchor dropdown.Rect, x int) button {
	if anchor.W < buttonCols {
		return noButton
	}
	switch anchor.Right() - x {
	case 3:
		return arrowButton
	case 2:
		return clearButton
	case 1:
		return allButton
	}
	return noButton
}

func (c *Combo) requestCommit() tea.Cmd {
	c.drop.Close(dropdown.ReasonCommit)
	cmd, err := c.adapter.RequestCommit()
	if err != nil {
		events.Edit.Rejected(c.name, err)
		return nil
	}
	return cmd
}

// View implements editing.Control: the truncated summary followed by the
// button strip.
func (c *Combo) View(width int) string {
	if width <= 0 {
		return ""
	}
	buttons := c.buttons()
	if width <= buttonCols {
		return ansi.Truncate(buttons, width, "")
	}
	budget := width - buttonCols - 1
	display, _ := selection.Display(c.sel, budget)
	if w := selection.Width(display); w < budget {
		display += strings.Repeat(" ", budget-w)
	}
	return display + " " + buttons
}

func (c *Combo) buttons() string {
	styles := c.env.Styles
	render := func(glyph string, enabled bool) string {
		if !enabled {
			return theme.Render(styles.ButtonDisabled, glyph)
		}
		return theme.Render(styles.Button, glyph)
	}
	return render(arrowGlyph, true) +
		render(clearGlyph, c.sel.ClearEnabled()) +
		render(allGlyph, c.sel.SelectAllEnabled())
}

// Overlay implements editing.Control.
func (c *Combo) Overlay() (editing.Overlay, bool) {
	if c.disposed || !c.drop.IsOpen() {
		return editing.Overlay{}, false
	}
	p := c.drop.Placement()
	width := c.drop.InnerWidth()
	styles := c.env.Styles
	var rows []string
	if c.list.Len() == 0 {
		rows = append(rows, dropdown.Row("(no items)", width, styles.DropdownEmpty))
	} else {
		idx, _ := c.list.Visible(c.drop.ListRows())
		for _, i := range idx {
			item := c.list.Items[i]
			mark := "[ ] "
			if c.sel.IsChecked(item.ID) {
				mark = "[x] "
			}
			style := styles.DropdownItem
			if i == c.list.Cursor {
				style = styles.DropdownActive
			}
			rows = append(rows, dropdown.Row(mark+ansi.Strip(item.Long), width, style))
		}
	}
	return editing.Overlay{X: p.X, Y: p.Y, Lines: dropdown.RenderFrame(p, rows, styles.DropdownBorder)}, true
}
