// Package editing connects dropdown widgets to the grid's per-cell edit
// lifecycle. The grid only ever sees the Control and Host interfaces and
// the encoded cell value.
package editing

import (
	"errors"
	"fmt"

	"github.com/atomicstack/cellcombo/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	// ErrCommitInFlight is returned when a commit or cancel is requested
	// while an earlier request has not been answered by the host.
	ErrCommitInFlight = errors.New("edit request already in flight")
	// ErrNotEditing is returned for requests made outside an edit session.
	ErrNotEditing = errors.New("control is not editing")
)

// State of an edit session as seen by the control.
type State int

const (
	Idle State = iota
	Editing
	CommitRequested
	CancelRequested
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case CommitRequested:
		return "commit-requested"
	case CancelRequested:
		return "cancel-requested"
	default:
		return "idle"
	}
}

// Host is the grid side of an edit session.
type Host interface {
	// NotifyCurrentCellDirty marks the row being edited as modified.
	NotifyCurrentCellDirty()
	// InvalidateCell asks for the edited cell to be redrawn.
	InvalidateCell()
	// RequestEndEdit returns a command that asks the host to validate and
	// store the control's value.
	RequestEndEdit() tea.Cmd
	// RequestCancelEdit returns a command that asks the host to discard the
	// session and keep the original value.
	RequestCancelEdit() tea.Cmd
}

// Adapter is the edit-session state machine shared by the widgets.
type Adapter struct {
	name  string
	host  Host
	state State
	dirty bool
}

// NewAdapter returns an idle adapter reporting to host.
func NewAdapter(name string, host Host) *Adapter {
	return &Adapter{name: name, host: host}
}

// State returns the current state.
func (a *Adapter) State() State { return a.state }

// Begin starts an edit session.
func (a *Adapter) Begin() {
	if a.state != Idle {
		return
	}
	a.dirty = false
	a.transition(Editing)
}

// Editing reports whether user input is being accepted.
func (a *Adapter) Editing() bool { return a.state == Editing }

// IsDirty reports whether the value changed since the last ClearDirty.
func (a *Adapter) IsDirty() bool { return a.dirty }

// ClearDirty resets the dirty flag.
func (a *Adapter) ClearDirty() { a.dirty = false }

// MarkDirty records a value change and asks the host to redraw the cell.
func (a *Adapter) MarkDirty() {
	a.dirty = true
	events.Edit.Dirty(a.name)
	if a.host != nil {
		a.host.NotifyCurrentCellDirty()
		a.host.InvalidateCell()
	}
}

// Invalidate asks the host to redraw the cell without marking it dirty.
func (a *Adapter) Invalidate() {
	if a.host != nil {
		a.host.InvalidateCell()
	}
}

// RequestCommit moves Editing to CommitRequested and returns the host's
// end-edit command.
func (a *Adapter) RequestCommit() (tea.Cmd, error) {
	if err := a.checkRequest(); err != nil {
		return nil, err
	}
	a.transition(CommitRequested)
	if a.host == nil {
		return nil, nil
	}
	return a.host.RequestEndEdit(), nil
}

// RequestCancel moves Editing to CancelRequested and returns the host's
// cancel-edit command.
func (a *Adapter) RequestCancel() (tea.Cmd, error) {
	if err := a.checkRequest(); err != nil {
		return nil, err
	}
	a.transition(CancelRequested)
	if a.host == nil {
		return nil, nil
	}
	return a.host.RequestCancelEdit(), nil
}

func (a *Adapter) checkRequest() error {
	switch a.state {
	case Editing:
		return nil
	case CommitRequested, CancelRequested:
		return fmt.Errorf("%s: %w", a.name, ErrCommitInFlight)
	default:
		return fmt.Errorf("%s: %w", a.name, ErrNotEditing)
	}
}

// Reject returns a rejected commit to Editing. The control keeps its input.
func (a *Adapter) Reject(err error) {
	if a.state != CommitRequested {
		return
	}
	events.Edit.Rejected(a.name, err)
	a.transition(Editing)
}

// Finish ends the session after the host stored or discarded the value.
func (a *Adapter) Finish() {
	if a.state == Idle {
		return
	}
	a.transition(Idle)
}

func (a *Adapter) transition(to State) {
	events.Edit.Transition(a.name, a.state.String(), to.String())
	a.state = to
}
