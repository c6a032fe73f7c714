package grid

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the grid bindings used while no cell is being edited.
// Next and Prev also end an edit session and move on.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	Next key.Binding
	Prev key.Binding

	Edit  key.Binding
	Clear key.Binding
}

// DefaultKeyMap is the built-in binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "right"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("home"),
		key.WithHelp("home", "first column"),
	),
	End: key.NewBinding(
		key.WithKeys("end"),
		key.WithHelp("end", "last column"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next cell"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous cell"),
	),
	Edit: key.NewBinding(
		key.WithKeys("enter", "f2"),
		key.WithHelp("enter", "edit"),
	),
	Clear: key.NewBinding(
		key.WithKeys("delete", "backspace"),
		key.WithHelp("del", "clear"),
	),
}
