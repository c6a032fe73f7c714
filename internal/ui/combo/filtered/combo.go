// Package filtered implements the single-select cell editor: a text field
// that filters the catalog as the user types, above a dropdown of matches.
package filtered

import (
	"strings"

	"github.com/atomicstack/cellcombo/internal/catalog"
	"github.com/atomicstack/cellcombo/internal/logging/events"
	"github.com/atomicstack/cellcombo/internal/theme"
	"github.com/atomicstack/cellcombo/internal/ui/combo/caret"
	"github.com/atomicstack/cellcombo/internal/ui/combo/dropdown"
	"github.com/atomicstack/cellcombo/internal/ui/combo/editing"
	"github.com/atomicstack/cellcombo/internal/ui/combo/filter"
	"github.com/atomicstack/cellcombo/internal/ui/combo/selection"
	"github.com/atomicstack/cellcombo/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

const arrow = "▼"

// Combo is the filtered combo box editor.
type Combo struct {
	name    string
	env     editing.Env
	catalog *catalog.Catalog
	adapter *editing.Adapter
	engine  *filter.Engine
	drop    *dropdown.Controller
	caret   *caret.Caret

	// field holds what the user typed; committed is the display text of the
	// committed item. They only meet at edit start and at commit.
	field     state.Field
	committed string
	fallback  string
	list      *state.List
	sel       selection.Single

	seeding  bool
	pending  []tea.Cmd
	disposed bool
}

var _ editing.Control = (*Combo)(nil)

// New builds an editor over c. A nil catalog yields an empty, inert list.
func New(name string, c *catalog.Catalog, env editing.Env) *Combo {
	env = env.WithDefaults()
	cb := &Combo{
		name:    name,
		env:     env,
		catalog: c,
		adapter: editing.NewAdapter(name, env.Host),
		caret:   caret.New(env.Styles),
		list:    state.NewList(c.Items()),
	}
	if env.StaticCaret {
		cb.caret.SetStatic()
	}
	cb.engine = filter.New(name, c, env.Debounce, env.Scheduler)
	cb.engine.OnApplied = cb.onFiltered
	opts := env.Dropdown(name, cb.sel.ID, cb.adapter.MarkDirty)
	opts.DisableAutoClose = true
	cb.drop = dropdown.New(opts)
	return cb
}

// Adapter implements editing.Control.
func (c *Combo) Adapter() *editing.Adapter { return c.adapter }

// Dropdown exposes the dropdown state.
func (c *Combo) Dropdown() *dropdown.Controller { return c.drop }

// Engine exposes the filter engine.
func (c *Combo) Engine() *filter.Engine { return c.engine }

// Text returns the typed filter text.
func (c *Combo) Text() string { return c.field.Text }

// Committed returns the display text of the committed item.
func (c *Combo) Committed() string { return c.committed }

// Selected returns the committed item.
func (c *Combo) Selected() (catalog.Item, bool) { return c.sel.Get() }

// Visible returns the rows the dropdown currently lists.
func (c *Combo) Visible() []catalog.Item { return state.CloneItems(c.list.Items) }

// EncodedValue implements editing.Control. It is the identity of the
// committed item, or the stored text when it matched no item.
func (c *Combo) EncodedValue() string {
	if item, ok := c.sel.Get(); ok {
		return editing.EncodeSingle(item, true)
	}
	return c.fallback
}

// SetEncodedValue implements editing.Control.
func (c *Combo) SetEncodedValue(value string) {
	c.seeding = true
	defer func() { c.seeding = false }()

	if item, ok := editing.DecodeSingle(c.catalog, value); ok {
		c.sel.Commit(&item)
		c.committed = item.Long
		c.fallback = ""
	} else {
		c.sel.Clear()
		c.committed = strings.TrimSpace(value)
		c.fallback = c.committed
	}
	c.field.Set(c.committed, len([]rune(c.committed)))
	c.engine.Cancel()
	c.engine.Apply("")
	if idx := c.list.IndexOf(c.sel.ID()); idx >= 0 {
		c.list.Cursor = idx
	}
}

// IsDirty implements editing.Control.
func (c *Combo) IsDirty() bool { return c.adapter.IsDirty() }

// ClearDirty implements editing.Control.
func (c *Combo) ClearDirty() { c.adapter.ClearDirty() }

// WantsInputKey implements editing.Control.
func (c *Combo) WantsInputKey(msg tea.KeyMsg, hostWantsKey bool) bool {
	return editing.WantsInputKey(msg, hostWantsKey)
}

// PrepareForEdit implements editing.Control.
func (c *Combo) PrepareForEdit(selectAll bool) tea.Cmd {
	if c.disposed {
		return nil
	}
	c.adapter.Begin()
	if selectAll {
		c.field.SelectAll()
	} else {
		c.field.MoveEnd()
	}
	return c.caret.Focus()
}

// Dispose implements editing.Control.
func (c *Combo) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	c.engine.Dispose()
	c.drop.Dispose()
	c.caret.Blur()
	c.pending = nil
}

// Tooltip implements editing.Control.
func (c *Combo) Tooltip() string { return c.committed }

// Update implements editing.Control.
func (c *Combo) Update(msg tea.Msg) tea.Cmd {
	if c.disposed {
		return nil
	}
	var cmds []tea.Cmd
	if cmd := c.caret.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if c.engine.Update(msg) {
		return c.flush(cmds)
	}
	if cmd, ok := c.drop.Update(msg); ok {
		return c.flush(append(cmds, cmd))
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmds = append(cmds, c.handleKey(msg))
	case tea.MouseMsg:
		cmds = append(cmds, c.handleMouse(msg))
	case tea.BlurMsg, editing.FocusLostMsg:
		c.engine.Cancel()
		c.drop.FocusLost()
	case tea.WindowSizeMsg:
		c.drop.Reposition()
	}
	return c.flush(cmds)
}

func (c *Combo) flush(cmds []tea.Cmd) tea.Cmd {
	cmds = append(cmds, c.pending...)
	c.pending = nil
	if cmd := c.caret.Flush(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
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
		return c.commit()
	case tea.KeyEsc:
		if c.drop.IsOpen() {
			c.drop.Close(dropdown.ReasonEscape)
			return nil
		}
		c.engine.Cancel()
		cmd, err := c.adapter.RequestCancel()
		if err != nil {
			events.Edit.Rejected(c.name, err)
		}
		return cmd
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		return c.moveList(msg.Type)
	case tea.KeyLeft:
		c.moveCaret(c.field.MoveRuneBackward)
	case tea.KeyRight:
		c.moveCaret(c.field.MoveRuneForward)
	case tea.KeyHome, tea.KeyCtrlA:
		c.moveCaret(c.field.MoveStart)
	case tea.KeyEnd, tea.KeyCtrlE:
		c.moveCaret(c.field.MoveEnd)
	case tea.KeyBackspace, tea.KeyCtrlH:
		return c.edit(c.field.DeleteBackward)
	case tea.KeyDelete:
		return c.edit(c.field.DeleteForward)
	case tea.KeyCtrlW:
		return c.edit(c.field.DeleteWordBackward)
	case tea.KeyCtrlU:
		return c.edit(func() bool {
			if c.field.Text == "" {
				return false
			}
			c.field.Set("", 0)
			return true
		})
	case tea.KeySpace:
		return c.edit(func() bool { return c.field.Insert(" ") })
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return nil
		}
		return c.edit(func() bool { return c.field.Insert(string(msg.Runes)) })
	}
	return nil
}

func (c *Combo) moveCaret(move func() bool) {
	if move() {
		c.caret.Moved()
	}
}

// edit applies a text change and restarts the debounce. Typing opens the
// dropdown; emptying the field clears the selection.
func (c *Combo) edit(change func() bool) tea.Cmd {
	if !change() {
		return nil
	}
	c.caret.Moved()
	if strings.TrimSpace(c.field.Text) == "" {
		if c.sel.Clear() || c.fallback != "" {
			c.committed = ""
			c.fallback = ""
			c.adapter.MarkDirty()
		}
	}
	cmds := []tea.Cmd{c.engine.Request(c.field.Text)}
	if strings.TrimSpace(c.field.Text) != "" && !c.drop.IsOpen() && c.adapter.Editing() {
		cmds = append(cmds, c.drop.Open(c.list.Len()))
		c.syncViewport()
	}
	return tea.Batch(cmds...)
}

func (c *Combo) moveList(k tea.KeyType) tea.Cmd {
	if !c.drop.IsOpen() {
		if k == tea.KeyUp || k == tea.KeyDown {
			cmd := c.drop.Open(c.list.Len())
			c.syncViewport()
			return cmd
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
		c.commitItem(c.list.Items[idx])
		return c.requestCommit()
	}
	if anchor, ok := c.env.Anchor(); ok && anchor.Contains(msg.X, msg.Y) {
		cmd := c.drop.Toggle(c.list.Len())
		c.syncViewport()
		return cmd
	}
	return nil
}

// onFiltered runs inside the engine after every new result set.
func (c *Combo) onFiltered(items []catalog.Item) {
	c.list.SetItems(items)
	if idx := filter.BestMatch(items, c.engine.LastApplied()); idx >= 0 {
		c.list.Cursor = idx
	}
	c.drop.SetItemCount(len(items))
	c.syncViewport()
	if c.seeding || !c.adapter.Editing() {
		return
	}
	if strings.TrimSpace(c.engine.LastApplied()) == "" || len(items) != 1 {
		return
	}
	events.Filter.AutoCommit(c.name, items[0].ID)
	c.commitItem(items[0])
	if cmd := c.requestCommit(); cmd != nil {
		c.pending = append(c.pending, cmd)
	}
}

// commit resolves the typed text to an item and asks the host to end the
// edit. Text that matches nothing restores the committed text.
func (c *Combo) commit() tea.Cmd {
	c.engine.Flush()
	if !c.adapter.Editing() {
		return nil
	}
	switch {
	case strings.TrimSpace(c.field.Text) == "":
		if c.sel.Clear() || c.fallback != "" {
			c.committed = ""
			c.fallback = ""
			c.adapter.MarkDirty()
		}
	case c.field.Text == c.committed:
	default:
		if item, ok := c.list.Current(); ok {
			c.commitItem(item)
		} else {
			c.field.Set(c.committed, len([]rune(c.committed)))
		}
	}
	return c.requestCommit()
}

func (c *Combo) commitItem(item catalog.Item) {
	if c.sel.Commit(&item) || c.fallback != "" {
		c.fallback = ""
		c.adapter.MarkDirty()
	}
	c.committed = item.Long
	c.field.Set(item.Long, len([]rune(item.Long)))
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

// View implements editing.Control.
func (c *Combo) View(width int) string {
	if width <= 0 {
		return ""
	}
	if width == 1 {
		return arrow
	}
	return c.caret.Render(c.field, width-1) + theme.Render(c.env.Styles.Button, arrow)
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
		label := "(no matches)"
		if c.catalog.Len() == 0 {
			label = "(no items)"
		}
		rows = append(rows, dropdown.Row(label, width, styles.DropdownEmpty))
	} else {
		idx, _ := c.list.Visible(c.drop.ListRows())
		for _, i := range idx {
			style := styles.DropdownItem
			if i == c.list.Cursor {
				style = styles.DropdownActive
			}
			rows = append(rows, dropdown.Row(ansi.Strip(c.list.Items[i].Long), width, style))
		}
	}
	return editing.Overlay{X: p.X, Y: p.Y, Lines: dropdown.RenderFrame(p, rows, styles.DropdownBorder)}, true
}
