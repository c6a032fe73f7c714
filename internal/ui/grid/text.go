package grid

import (
	"github.com/atomicstack/cellcombo/internal/logging/events"
	"github.com/atomicstack/cellcombo/internal/ui/combo/editing"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// textControl edits plain text cells. Typed runes pass the column mask
// before they reach the input.
type textControl struct {
	name     string
	row, col int
	mask     Mask
	adapter  *editing.Adapter
	input    textinput.Model
	// replace clears the stored text on the first edit after a
	// select-all start.
	replace  bool
	disposed bool
}

var _ editing.Control = (*textControl)(nil)

func newTextControl(row, col int, column Column, env editing.Env) *textControl {
	env = env.WithDefaults()
	ti := textinput.New()
	ti.Prompt = ""
	ti.Width = inputWidth(column.Width)
	if env.Styles.CellEditing != nil {
		ti.TextStyle = *env.Styles.CellEditing
	}
	if env.Styles.Cursor != nil {
		ti.Cursor.Style = *env.Styles.Cursor
	}
	if env.StaticCaret {
		ti.Cursor.SetMode(cursor.CursorStatic)
	}
	return &textControl{
		name:    column.Key,
		row:     row,
		col:     col,
		mask:    column.Mask,
		adapter: editing.NewAdapter(column.Key, env.Host),
		input:   ti,
	}
}

// inputWidth leaves one column for the cursor at the end of the text.
func inputWidth(cell int) int {
	if cell > 1 {
		return cell - 1
	}
	return 1
}

func (c *textControl) Adapter() *editing.Adapter { return c.adapter }

func (c *textControl) EncodedValue() string { return c.input.Value() }

func (c *textControl) SetEncodedValue(value string) {
	c.input.SetValue(value)
	c.input.CursorEnd()
	c.replace = false
}

func (c *textControl) IsDirty() bool { return c.adapter.IsDirty() }

func (c *textControl) ClearDirty() { c.adapter.ClearDirty() }

func (c *textControl) WantsInputKey(msg tea.KeyMsg, hostWantsKey bool) bool {
	return editing.WantsInputKey(msg, hostWantsKey)
}

func (c *textControl) PrepareForEdit(selectAll bool) tea.Cmd {
	if c.disposed {
		return nil
	}
	c.adapter.Begin()
	c.input.CursorEnd()
	c.replace = selectAll && c.input.Value() != ""
	return c.input.Focus()
}

func (c *textControl) Tooltip() string { return "" }

func (c *textControl) Overlay() (editing.Overlay, bool) { return editing.Overlay{}, false }

func (c *textControl) Dispose() {
	c.disposed = true
	c.input.Blur()
}

func (c *textControl) View(width int) string {
	if w := inputWidth(width); c.input.Width != w {
		c.input.Width = w
	}
	return c.input.View()
}

func (c *textControl) Update(msg tea.Msg) tea.Cmd {
	if c.disposed {
		return nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return c.forward(msg)
	}
	if !c.adapter.Editing() {
		return nil
	}
	switch key.Type {
	case tea.KeyEnter, tea.KeyTab:
		cmd, err := c.adapter.RequestCommit()
		if err != nil {
			events.Edit.Rejected(c.name, err)
		}
		return cmd
	case tea.KeyEsc:
		cmd, err := c.adapter.RequestCancel()
		if err != nil {
			events.Edit.Rejected(c.name, err)
		}
		return cmd
	case tea.KeySpace:
		return c.insert([]rune{' '})
	case tea.KeyRunes:
		if key.Alt {
			return c.forward(key)
		}
		return c.insert(key.Runes)
	case tea.KeyBackspace, tea.KeyDelete, tea.KeyCtrlH, tea.KeyCtrlW:
		if c.replace {
			c.clear()
			return nil
		}
	}
	c.replace = false
	return c.forward(key)
}

// forward hands msg to the input and marks the session dirty when the text
// changed.
func (c *textControl) forward(msg tea.Msg) tea.Cmd {
	before := c.input.Value()
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	if c.input.Value() != before {
		c.adapter.MarkDirty()
	}
	return cmd
}

func (c *textControl) clear() {
	c.replace = false
	if c.input.Value() == "" {
		return
	}
	c.input.SetValue("")
	c.adapter.MarkDirty()
}

// insert types runes one at a time so the mask sees the text each rune
// would extend. A select-all start is only replaced once a rune passes.
func (c *textControl) insert(runes []rune) tea.Cmd {
	var cmds []tea.Cmd
	for _, r := range runes {
		base := c.input.Value()
		if c.replace {
			base = ""
		}
		if c.mask != nil && !c.mask(base, r) {
			events.Grid.Rejected(c.row, c.col, r)
			continue
		}
		if c.replace {
			c.clear()
		}
		cmds = append(cmds, c.forward(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}))
	}
	return tea.Batch(cmds...)
}
