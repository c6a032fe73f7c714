// Package grid is the host data-entry grid. It stores cell values, moves the
// cell cursor and runs one edit session at a time, acting as the host of the
// editing protocol for the control in the edited cell.
package grid

import (
	"errors"
	"strconv"
	"time"

	"github.com/atomicstack/cellcombo/internal/catalog"
	"github.com/atomicstack/cellcombo/internal/logging/events"
	"github.com/atomicstack/cellcombo/internal/theme"
	"github.com/atomicstack/cellcombo/internal/ui/combo/checked"
	"github.com/atomicstack/cellcombo/internal/ui/combo/dropdown"
	"github.com/atomicstack/cellcombo/internal/ui/combo/editing"
	"github.com/atomicstack/cellcombo/internal/ui/combo/filtered"
	"github.com/atomicstack/cellcombo/internal/ui/combo/timer"
	"github.com/atomicstack/cellcombo/internal/ui/command"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	// markerWidth is the row marker gutter left of the first column.
	markerWidth  = 2
	defaultWidth = 10
)

var (
	ErrNoWorkArea = errors.New("work area unknown")
	ErrNotEditing = errors.New("no cell is being edited")
	ErrNotVisible = errors.New("cell not visible")
)

// Options configures a Grid. Timing and size fields are passed to the
// editing controls; zero values take the control defaults.
type Options struct {
	Rows      int
	Columns   []Column
	Bus       *command.Bus
	Scheduler timer.Scheduler
	Styles    *theme.Styles
	Keys      *KeyMap

	Debounce    time.Duration
	CloseDelay  time.Duration
	Margin      int
	MaxHeight   int
	StaticCaret bool
}

type cellKey struct{ row, col int }

type endEditMsg struct{ seq int }

type cancelEditMsg struct{ seq int }

type session struct {
	seq      int
	row, col int
	control  editing.Control
	dirty    bool
	// after runs once the session has been committed.
	after func()
}

// Grid is the data-entry grid.
type Grid struct {
	opts     Options
	columns  []Column
	rows     int
	keys     KeyMap
	cells    map[cellKey]string
	modified map[int]bool

	row, col  int
	rowOffset int

	originX, originY int
	viewRows         int
	width, height    int

	pointerX, pointerY int
	pointerSeen        bool

	edit   *session
	seq    int
	errMsg string
}

var (
	_ editing.Host      = (*Grid)(nil)
	_ dropdown.Geometry = (*Grid)(nil)
)

// New builds an empty grid.
func New(opts Options) *Grid {
	if opts.Bus == nil {
		opts.Bus = command.New()
	}
	if opts.Styles == nil {
		opts.Styles = theme.Default()
	}
	if opts.Rows < 0 {
		opts.Rows = 0
	}
	keys := DefaultKeyMap
	if opts.Keys != nil {
		keys = *opts.Keys
	}
	columns := make([]Column, len(opts.Columns))
	copy(columns, opts.Columns)
	for i := range columns {
		if columns[i].Width <= 0 {
			columns[i].Width = defaultWidth
		}
	}
	return &Grid{
		opts:     opts,
		columns:  columns,
		rows:     opts.Rows,
		keys:     keys,
		cells:    map[cellKey]string{},
		modified: map[int]bool{},
	}
}

// Rows returns the number of data rows.
func (g *Grid) Rows() int { return g.rows }

// Columns returns a copy of the column definitions.
func (g *Grid) Columns() []Column {
	out := make([]Column, len(g.columns))
	copy(out, g.columns)
	return out
}

// ColumnIndex returns the position of the column with key, or -1.
func (g *Grid) ColumnIndex(key string) int {
	for i, col := range g.columns {
		if col.Key == key {
			return i
		}
	}
	return -1
}

// Cursor returns the current cell.
func (g *Grid) Cursor() (row, col int) { return g.row, g.col }

// Value returns the stored value of a cell.
func (g *Grid) Value(row, col int) string { return g.cells[cellKey{row, col}] }

// SetValue stores a value without marking the row modified.
func (g *Grid) SetValue(row, col int, value string) {
	if !g.valid(row, col) {
		return
	}
	g.store(cellKey{row, col}, value)
}

// Modified reports whether a committed edit changed the row.
func (g *Grid) Modified(row int) bool { return g.modified[row] }

// Editing reports whether an edit session is active.
func (g *Grid) Editing() bool { return g.edit != nil }

// Control returns the control of the active session, or nil.
func (g *Grid) Control() editing.Control {
	if g.edit == nil {
		return nil
	}
	return g.edit.control
}

// Keys returns the active key bindings.
func (g *Grid) Keys() KeyMap { return g.keys }

// Err returns the last validation error shown to the user.
func (g *Grid) Err() string { return g.errMsg }

// SetCatalog replaces the catalog of the column with key. Sessions already
// running keep the catalog they started with.
func (g *Grid) SetCatalog(key string, c *catalog.Catalog) bool {
	idx := g.ColumnIndex(key)
	if idx < 0 || g.columns[idx].Kind == KindText {
		return false
	}
	g.columns[idx].Catalog = c
	return true
}

// SetViewport places the grid on screen and sets how many data rows fit.
// rows <= 0 shows every row.
func (g *Grid) SetViewport(x, y, rows int) {
	g.originX, g.originY = x, y
	g.viewRows = rows
	g.ensureVisible()
}

// SetSize records the terminal size used as the dropdown work area.
func (g *Grid) SetSize(width, height int) {
	g.width, g.height = width, height
}

// Update routes a message to the edit session or the grid navigation.
func (g *Grid) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		g.SetSize(msg.Width, msg.Height)
		return g.forward(msg)
	case tea.MouseMsg:
		return g.handleMouse(msg)
	case tea.KeyMsg:
		if g.edit != nil {
			return g.editKey(msg)
		}
		return g.navigate(msg)
	case endEditMsg:
		g.finishCommit(msg.seq)
		return nil
	case cancelEditMsg:
		g.finishCancel(msg.seq)
		return nil
	}
	return g.forward(msg)
}

func (g *Grid) forward(msg tea.Msg) tea.Cmd {
	if g.edit == nil {
		return nil
	}
	return g.edit.control.Update(msg)
}

// BeginEdit starts a session on the cursor cell. Read-only cells refuse.
func (g *Grid) BeginEdit(selectAll bool) tea.Cmd {
	if g.edit != nil || !g.valid(g.row, g.col) {
		return nil
	}
	column := g.columns[g.col]
	if column.ReadOnly {
		return nil
	}
	g.seq++
	s := &session{seq: g.seq, row: g.row, col: g.col}
	s.control = g.newControl(column)
	g.edit = s
	g.errMsg = ""

	value := g.Value(g.row, g.col)
	s.control.SetEncodedValue(value)
	s.control.ClearDirty()
	events.Grid.BeginEdit(g.row, g.col, value)
	return s.control.PrepareForEdit(selectAll)
}

func (g *Grid) newControl(column Column) editing.Control {
	env := editing.Env{
		Host:        g,
		Geometry:    g,
		Scheduler:   g.opts.Scheduler,
		Styles:      g.opts.Styles,
		Debounce:    g.opts.Debounce,
		CloseDelay:  g.opts.CloseDelay,
		Margin:      g.opts.Margin,
		MaxHeight:   g.opts.MaxHeight,
		StaticCaret: g.opts.StaticCaret,
	}
	switch column.Kind {
	case KindFiltered:
		return filtered.New(column.Key, column.Catalog, env)
	case KindChecked:
		return checked.New(column.Key, column.Catalog, env)
	default:
		return newTextControl(g.row, g.col, column, env)
	}
}

// finishCommit validates and stores the session value. A validation failure
// returns the control to editing with its input intact.
func (g *Grid) finishCommit(seq int) {
	s := g.edit
	if s == nil || s.seq != seq {
		return
	}
	adapter := s.control.Adapter()
	if adapter.State() != editing.CommitRequested {
		return
	}
	value := s.control.EncodedValue()
	if validate := g.columns[s.col].Validate; validate != nil {
		if err := validate(value); err != nil {
			g.errMsg = err.Error()
			s.after = nil
			adapter.Reject(err)
			return
		}
	}
	k := cellKey{s.row, s.col}
	if s.dirty || s.control.IsDirty() || value != g.cells[k] {
		g.modified[s.row] = true
	}
	g.store(k, value)
	s.control.ClearDirty()
	g.closeSession()
	g.errMsg = ""
	events.Grid.EndEdit(s.row, s.col, value)
	if s.after != nil {
		s.after()
	}
}

func (g *Grid) finishCancel(seq int) {
	s := g.edit
	if s == nil || s.seq != seq {
		return
	}
	g.closeSession()
	g.errMsg = ""
	events.Grid.CancelEdit(s.row, s.col)
}

func (g *Grid) closeSession() {
	s := g.edit
	g.edit = nil
	s.control.Adapter().Finish()
	s.control.Dispose()
}

// commitThen asks the control to commit as if Enter was pressed and runs
// after once the value is stored.
func (g *Grid) commitThen(after func()) tea.Cmd {
	s := g.edit
	s.after = after
	return s.control.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func (g *Grid) editKey(msg tea.KeyMsg) tea.Cmd {
	s := g.edit
	hostWants := key.Matches(msg, g.keys.Next, g.keys.Prev)
	if s.control.WantsInputKey(msg, hostWants) {
		return s.control.Update(msg)
	}
	if !hostWants {
		return nil
	}
	dir := 1
	if key.Matches(msg, g.keys.Prev) {
		dir = -1
	}
	return g.commitThen(func() { g.step(dir) })
}

func (g *Grid) navigate(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, g.keys.Up):
		g.setCursor(g.row-1, g.col)
	case key.Matches(msg, g.keys.Down):
		g.setCursor(g.row+1, g.col)
	case key.Matches(msg, g.keys.Left):
		g.setCursor(g.row, g.col-1)
	case key.Matches(msg, g.keys.Right):
		g.setCursor(g.row, g.col+1)
	case key.Matches(msg, g.keys.PageUp):
		g.setCursor(g.row-g.page(), g.col)
	case key.Matches(msg, g.keys.PageDown):
		g.setCursor(g.row+g.page(), g.col)
	case key.Matches(msg, g.keys.Home):
		g.setCursor(g.row, 0)
	case key.Matches(msg, g.keys.End):
		g.setCursor(g.row, len(g.columns)-1)
	case key.Matches(msg, g.keys.Next):
		g.step(1)
	case key.Matches(msg, g.keys.Prev):
		g.step(-1)
	case key.Matches(msg, g.keys.Edit):
		return g.BeginEdit(false)
	case key.Matches(msg, g.keys.Clear):
		g.clearCell()
	case msg.Type == tea.KeySpace, msg.Type == tea.KeyRunes && !msg.Alt:
		cmd := g.BeginEdit(true)
		if g.edit == nil {
			return cmd
		}
		return tea.Batch(cmd, g.edit.control.Update(msg))
	}
	return nil
}

func (g *Grid) clearCell() {
	if !g.valid(g.row, g.col) || g.columns[g.col].ReadOnly {
		return
	}
	k := cellKey{g.row, g.col}
	if g.cells[k] == "" {
		return
	}
	g.store(k, "")
	g.modified[g.row] = true
}

func (g *Grid) store(k cellKey, value string) {
	if value == "" {
		delete(g.cells, k)
		return
	}
	g.cells[k] = value
}

func (g *Grid) valid(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < len(g.columns)
}

func (g *Grid) page() int {
	switch {
	case g.viewRows <= 0:
		return g.rows
	case g.viewRows > 1:
		return g.viewRows - 1
	}
	return 1
}

// step moves to the next or previous cell in reading order.
func (g *Grid) step(dir int) {
	cols := len(g.columns)
	if cols == 0 || g.rows == 0 {
		return
	}
	idx := g.row*cols + g.col + dir
	if idx < 0 || idx >= g.rows*cols {
		return
	}
	g.setCursor(idx/cols, idx%cols)
}

func (g *Grid) setCursor(row, col int) {
	if g.rows == 0 || len(g.columns) == 0 {
		return
	}
	row = clamp(row, 0, g.rows-1)
	col = clamp(col, 0, len(g.columns)-1)
	if row == g.row && col == g.col {
		return
	}
	g.row, g.col = row, col
	g.ensureVisible()
	events.Grid.Cursor(row, col)
}

func (g *Grid) ensureVisible() {
	if g.viewRows <= 0 {
		g.rowOffset = 0
		return
	}
	if g.row < g.rowOffset {
		g.rowOffset = g.row
	}
	if g.row >= g.rowOffset+g.viewRows {
		g.rowOffset = g.row - g.viewRows + 1
	}
	if last := g.rows - g.viewRows; g.rowOffset > last {
		g.rowOffset = last
	}
	if g.rowOffset < 0 {
		g.rowOffset = 0
	}
}

func (g *Grid) scroll(delta int) {
	if g.viewRows <= 0 || g.rows <= g.viewRows {
		return
	}
	g.rowOffset = clamp(g.rowOffset+delta, 0, g.rows-g.viewRows)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NotifyCurrentCellDirty implements editing.Host.
func (g *Grid) NotifyCurrentCellDirty() {
	if g.edit != nil {
		g.edit.dirty = true
	}
}

// InvalidateCell implements editing.Host. The view is rebuilt after every
// update, so there is nothing to schedule.
func (g *Grid) InvalidateCell() {}

// RequestEndEdit implements editing.Host. The commit is processed when the
// returned command's message comes back through Update.
func (g *Grid) RequestEndEdit() tea.Cmd {
	if g.edit == nil {
		return nil
	}
	seq := g.edit.seq
	return g.opts.Bus.Send(strconv.Itoa(seq), "end-edit", endEditMsg{seq: seq})
}

// RequestCancelEdit implements editing.Host.
func (g *Grid) RequestCancelEdit() tea.Cmd {
	if g.edit == nil {
		return nil
	}
	seq := g.edit.seq
	return g.opts.Bus.Send(strconv.Itoa(seq), "cancel-edit", cancelEditMsg{seq: seq})
}

// WorkArea implements dropdown.Geometry.
func (g *Grid) WorkArea() (dropdown.Rect, error) {
	if g.width <= 0 || g.height <= 0 {
		return dropdown.Rect{}, ErrNoWorkArea
	}
	return dropdown.Rect{W: g.width, H: g.height}, nil
}

// Anchor implements dropdown.Geometry: the screen rectangle of the edited cell.
func (g *Grid) Anchor() (dropdown.Rect, error) {
	if g.edit == nil {
		return dropdown.Rect{}, ErrNotEditing
	}
	return g.CellRect(g.edit.row, g.edit.col)
}

// Pointer implements dropdown.Geometry. Positions outside the terminal are
// reported as unknown.
func (g *Grid) Pointer() (int, int, bool) {
	if !g.pointerSeen {
		return 0, 0, false
	}
	if g.width > 0 && g.height > 0 {
		area := dropdown.Rect{W: g.width, H: g.height}
		if !area.Contains(g.pointerX, g.pointerY) {
			return 0, 0, false
		}
	}
	return g.pointerX, g.pointerY, true
}

// CellRect returns the screen rectangle of a visible cell.
func (g *Grid) CellRect(row, col int) (dropdown.Rect, error) {
	if !g.valid(row, col) {
		return dropdown.Rect{}, ErrNotVisible
	}
	if row < g.rowOffset || (g.viewRows > 0 && row >= g.rowOffset+g.viewRows) {
		return dropdown.Rect{}, ErrNotVisible
	}
	x := g.originX + markerWidth
	for i := 0; i < col; i++ {
		x += g.columns[i].Width + 1
	}
	y := g.originY + 1 + row - g.rowOffset
	return dropdown.Rect{X: x, Y: y, W: g.columns[col].Width, H: 1}, nil
}

// CellAt maps a screen position to a visible cell.
func (g *Grid) CellAt(x, y int) (row, col int, ok bool) {
	row = y - g.originY - 1 + g.rowOffset
	if y < g.originY+1 || row >= g.rows {
		return 0, 0, false
	}
	if g.viewRows > 0 && row >= g.rowOffset+g.viewRows {
		return 0, 0, false
	}
	left := g.originX + markerWidth
	for i, column := range g.columns {
		if x >= left && x < left+column.Width {
			return row, i, true
		}
		left += column.Width + 1
	}
	return 0, 0, false
}

func (g *Grid) handleMouse(msg tea.MouseMsg) tea.Cmd {
	g.pointerX, g.pointerY, g.pointerSeen = msg.X, msg.Y, true
	press := msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress
	if g.edit != nil {
		if press && !g.insideEdit(msg.X, msg.Y) {
			row, col, ok := g.CellAt(msg.X, msg.Y)
			return g.commitThen(func() {
				if ok {
					g.setCursor(row, col)
				}
			})
		}
		if msg.Action == tea.MouseActionMotion {
			return nil
		}
		return g.edit.control.Update(msg)
	}
	switch {
	case press:
		row, col, ok := g.CellAt(msg.X, msg.Y)
		if !ok {
			return nil
		}
		if row == g.row && col == g.col {
			return g.BeginEdit(false)
		}
		g.setCursor(row, col)
	case msg.Button == tea.MouseButtonWheelUp:
		g.scroll(-1)
	case msg.Button == tea.MouseButtonWheelDown:
		g.scroll(1)
	}
	return nil
}

// insideEdit reports whether a position hits the edited cell or its open
// dropdown.
func (g *Grid) insideEdit(x, y int) bool {
	if anchor, err := g.Anchor(); err == nil && anchor.Contains(x, y) {
		return true
	}
	ov, ok := g.edit.control.Overlay()
	if !ok || len(ov.Lines) == 0 {
		return false
	}
	return overlayRect(ov).Contains(x, y)
}
