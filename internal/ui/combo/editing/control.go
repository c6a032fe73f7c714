package editing

import (
	tea "github.com/charmbracelet/bubbletea"
)

// FocusLostMsg tells a control that input moved elsewhere, for example a
// click outside the cell and its dropdown.
type FocusLostMsg struct{}

// Overlay is a block of pre-rendered lines drawn over the grid with its
// top-left corner at (X, Y).
type Overlay struct {
	X, Y  int
	Lines []string
}

// Control is implemented by every widget that can edit a grid cell.
type Control interface {
	// EncodedValue serialises the current state. It never returns a value
	// cached from an earlier state.
	EncodedValue() string
	// SetEncodedValue seeds the control from a stored cell value.
	SetEncodedValue(value string)
	IsDirty() bool
	ClearDirty()
	// WantsInputKey reports whether the control claims msg. hostWantsKey
	// tells whether the grid would otherwise act on it.
	WantsInputKey(msg tea.KeyMsg, hostWantsKey bool) bool
	// PrepareForEdit focuses the text field; selectAll makes the next typed
	// text replace the current value.
	PrepareForEdit(selectAll bool) tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	// View renders the cell content into width columns.
	View(width int) string
	// Overlay returns the open dropdown, if any.
	Overlay() (Overlay, bool)
	// Tooltip is the full text for hover display.
	Tooltip() string
	Adapter() *Adapter
	// Dispose stops all timers. No message is acted on afterwards.
	Dispose()
}

// WantsInputKey is the key arbitration shared by the widgets. Navigation and
// editing keys are always claimed; enter, escape and tab only when the host
// does not want them.
func WantsInputKey(msg tea.KeyMsg, hostWantsKey bool) bool {
	switch msg.Type {
	case tea.KeyUp, tea.KeyDown, tea.KeyLeft, tea.KeyRight,
		tea.KeyHome, tea.KeyEnd, tea.KeyPgUp, tea.KeyPgDown,
		tea.KeyBackspace, tea.KeyDelete:
		return true
	case tea.KeyEnter, tea.KeyEsc, tea.KeyTab, tea.KeyShiftTab:
		return !hostWantsKey
	case tea.KeyRunes, tea.KeySpace:
		return true
	}
	return !hostWantsKey
}
