package command

import (
	"fmt"

	"github.com/atomicstack/cellcombo/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// Request encapsulates a deferred host action.
type Request struct {
	ID      string
	Label   string
	Handler func() tea.Msg
}

// Bus turns host requests raised inside widgets into Bubble Tea commands so
// they run after the current Update returns.
type Bus struct{}

// New initialises a command bus instance.
func New() *Bus {
	return &Bus{}
}

// Execute wraps a request into a Bubble Tea command while emitting trace logs.
func (b *Bus) Execute(req Request) tea.Cmd {
	events.Command.Queue(req.ID, req.Label)
	return func() tea.Msg {
		if req.Handler == nil {
			events.Command.Skip(req.ID, req.Label)
			return nil
		}
		msg := req.Handler()
		events.Command.Result(req.ID, req.Label, fmt.Sprintf("%T", msg))
		return msg
	}
}

// Send is Execute for a request whose result is a fixed message.
func (b *Bus) Send(id, label string, msg tea.Msg) tea.Cmd {
	return b.Execute(Request{ID: id, Label: label, Handler: func() tea.Msg { return msg }})
}
