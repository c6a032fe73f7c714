// Package dropdown drives the open/closed state of an in-cell dropdown:
// toggling, placement around the anchor cell and the inactivity auto-close.
package dropdown

import (
	"fmt"
	"time"

	"github.com/atomicstack/cellcombo/internal/logging/events"
	"github.com/atomicstack/cellcombo/internal/ui/combo/timer"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	// DefaultCloseDelay is the inactivity window before an auto-close check.
	DefaultCloseDelay = 750 * time.Millisecond
	// DefaultMargin is the horizontal pointer tolerance in columns.
	DefaultMargin = 2
	// DefaultMaxHeight caps the frame height in rows.
	DefaultMaxHeight = 12
)

// State of the dropdown.
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// Close reasons reported to tracing and callers.
const (
	ReasonToggle   = "toggle"
	ReasonCommit   = "commit"
	ReasonEscape   = "escape"
	ReasonTimeout  = "timeout"
	ReasonFocus    = "focus"
	ReasonGeometry = "geometry"
	ReasonDispose  = "dispose"
)

// ToggleKeys open a closed dropdown and close an open one.
var ToggleKeys = key.NewBinding(
	key.WithKeys("f4", "alt+down", "alt+up"),
	key.WithHelp("f4", "toggle list"),
)

// Options configure a Controller.
type Options struct {
	Name       string
	CloseDelay time.Duration
	Margin     int
	MaxHeight  int
	Scheduler  timer.Scheduler
	Geometry   Geometry
	// DisableAutoClose turns off the inactivity check; the dropdown then
	// closes only on explicit actions.
	DisableAutoClose bool
	// Fingerprint identifies the current selection; a different value at
	// close than at open means the selection changed.
	Fingerprint func() string
	// OnDirty runs when the dropdown closes with a changed selection.
	OnDirty func()
}

// Controller is the dropdown state machine.
type Controller struct {
	opts      Options
	state     State
	placement Placement
	items     int
	snapshot  string
	closeT    *timer.Timer
}

// New constructs a closed controller. A zero CloseDelay or MaxHeight takes
// the default.
func New(opts Options) *Controller {
	if opts.CloseDelay <= 0 {
		opts.CloseDelay = DefaultCloseDelay
	}
	if opts.Margin < 0 {
		opts.Margin = 0
	}
	if opts.MaxHeight <= 0 {
		opts.MaxHeight = DefaultMaxHeight
	}
	return &Controller{
		opts:   opts,
		closeT: timer.New(opts.Name+":close", opts.CloseDelay, opts.Scheduler),
	}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// IsOpen reports whether the dropdown is showing.
func (c *Controller) IsOpen() bool { return c.state == Open }

// Placement returns where the open dropdown is drawn.
func (c *Controller) Placement() Placement { return c.placement }

// ListRows returns how many list entries fit inside the frame.
func (c *Controller) ListRows() int {
	rows := (c.placement.H - BorderRows) / ItemHeight
	if rows < 0 {
		return 0
	}
	return rows
}

// TimerActive reports whether an auto-close check is pending.
func (c *Controller) TimerActive() bool { return c.closeT.Active() }

// Open shows the dropdown for itemCount rows. When placement fails the
// dropdown stays closed.
func (c *Controller) Open(itemCount int) tea.Cmd {
	if c.state == Open || c.closeT.Disposed() {
		return nil
	}
	placement, err := c.place(itemCount)
	if err != nil {
		events.Dropdown.Fault(c.opts.Name, err)
		return nil
	}
	c.items = itemCount
	c.placement = placement
	c.state = Open
	c.snapshot = c.fingerprint()
	events.Dropdown.Open(c.opts.Name, placement.X, placement.Y, placement.W, placement.H, placement.Direction == Up)
	return c.startTimer()
}

// Close hides the dropdown and reports whether the selection changed while
// it was open. A change runs OnDirty.
func (c *Controller) Close(reason string) bool {
	if c.state != Open {
		return false
	}
	c.state = Closed
	c.closeT.Stop()
	changed := c.fingerprint() != c.snapshot
	events.Dropdown.Close(c.opts.Name, reason, changed)
	if changed && c.opts.OnDirty != nil {
		c.opts.OnDirty()
	}
	return changed
}

// Toggle opens a closed dropdown or closes an open one.
func (c *Controller) Toggle(itemCount int) tea.Cmd {
	if c.state == Open {
		c.Close(ReasonToggle)
		return nil
	}
	return c.Open(itemCount)
}

// HandleKey toggles on ToggleKeys and reports whether it consumed msg.
func (c *Controller) HandleKey(msg tea.KeyMsg, itemCount int) (tea.Cmd, bool) {
	if !key.Matches(msg, ToggleKeys) {
		return nil, false
	}
	return c.Toggle(itemCount), true
}

// Touch restarts the inactivity window after user interaction.
func (c *Controller) Touch() tea.Cmd {
	if c.state != Open {
		return nil
	}
	return c.startTimer()
}

func (c *Controller) startTimer() tea.Cmd {
	if c.opts.DisableAutoClose {
		return nil
	}
	return c.closeT.Start()
}

// Update handles the inactivity expiry. The dropdown closes when the pointer
// is outside the widget, otherwise the window restarts.
func (c *Controller) Update(msg tea.Msg) (tea.Cmd, bool) {
	if !c.closeT.Fired(msg) {
		return nil, false
	}
	if c.state != Open {
		return nil, true
	}
	if c.PointerInside() {
		events.Dropdown.Extend(c.opts.Name)
		return c.startTimer(), true
	}
	c.Close(ReasonTimeout)
	return nil, true
}

// FocusLost closes the dropdown when the pointer is outside the widget.
func (c *Controller) FocusLost() bool {
	if c.state != Open || c.PointerInside() {
		return false
	}
	c.Close(ReasonFocus)
	return true
}

// SetItemCount records a new row count and repositions an open dropdown.
func (c *Controller) SetItemCount(itemCount int) {
	if c.items == itemCount {
		return
	}
	c.items = itemCount
	c.Reposition()
}

// Reposition recomputes the placement of an open dropdown. A failure closes
// the dropdown.
func (c *Controller) Reposition() {
	if c.state != Open {
		return
	}
	placement, err := c.place(c.items)
	if err != nil {
		events.Dropdown.Fault(c.opts.Name, err)
		c.Close(ReasonGeometry)
		return
	}
	c.placement = placement
}

// PointerInside reports whether the pointer is over the anchor or the open
// list, widened horizontally by the margin. Unknown positions count as outside.
func (c *Controller) PointerInside() bool {
	if c.opts.Geometry == nil {
		return false
	}
	x, y, ok := c.opts.Geometry.Pointer()
	if !ok {
		return false
	}
	anchor, err := c.opts.Geometry.Anchor()
	if err != nil || anchor.Empty() {
		return false
	}
	top, bottom := anchor.Y, anchor.Bottom()
	if c.state == Open {
		if c.placement.Y < top {
			top = c.placement.Y
		}
		if c.placement.Bottom() > bottom {
			bottom = c.placement.Bottom()
		}
	}
	left := anchor.X - c.opts.Margin
	right := anchor.Right() + c.opts.Margin
	return x >= left && x < right && y >= top && y < bottom
}

// Dispose closes the dropdown and stops its timer permanently.
func (c *Controller) Dispose() {
	if c.state == Open {
		c.state = Closed
		events.Dropdown.Close(c.opts.Name, ReasonDispose, false)
	}
	c.closeT.Dispose()
}

func (c *Controller) place(itemCount int) (Placement, error) {
	if c.opts.Geometry == nil {
		return Placement{}, ErrNoAnchor
	}
	anchor, err := c.opts.Geometry.Anchor()
	if err != nil {
		return Placement{}, fmt.Errorf("anchor: %w", err)
	}
	work, err := c.opts.Geometry.WorkArea()
	if err != nil {
		return Placement{}, fmt.Errorf("work area: %w", err)
	}
	return Place(anchor, work, itemCount, c.opts.MaxHeight)
}

func (c *Controller) fingerprint() string {
	if c.opts.Fingerprint == nil {
		return ""
	}
	return c.opts.Fingerprint()
}
