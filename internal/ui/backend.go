package ui

import (
	"fmt"
	"path/filepath"

	"github.com/atomicstack/cellcombo/internal/backend"
	"github.com/atomicstack/cellcombo/internal/logging"
	tea "github.com/charmbracelet/bubbletea"
)

func waitForCatalogEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return catalogDoneMsg{}
		}
		return catalogEventMsg{event: evt}
	}
}

type catalogEventMsg struct {
	event backend.Event
}

type catalogDoneMsg struct{}

func (m *Model) handleCatalogEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(catalogEventMsg)
	if !ok {
		return nil
	}
	m.applyCatalogEvent(eventMsg.event)
	if m.watcher != nil {
		return waitForCatalogEvent(m.watcher)
	}
	return nil
}

func (m *Model) handleCatalogDoneMsg(tea.Msg) tea.Cmd {
	m.watcher = nil
	return nil
}

// applyCatalogEvent swaps reloaded catalogs into the grid. Cells already
// being edited keep their catalog until the session ends.
func (m *Model) applyCatalogEvent(evt backend.Event) {
	name := filepath.Base(evt.Path)
	if evt.Err != nil {
		logging.Error(fmt.Errorf("reload %s: %w", name, evt.Err))
		m.errMsg = fmt.Sprintf("catalog %s: %v", name, evt.Err)
		return
	}
	m.errMsg = ""
	if m.projectColumn != "" && evt.Set.Projects != nil {
		m.grid.SetCatalog(m.projectColumn, evt.Set.Projects)
	}
	if m.typeColumn != "" && evt.Set.Types != nil {
		m.grid.SetCatalog(m.typeColumn, evt.Set.Types)
	}
	m.setInfo(fmt.Sprintf("reloaded %s: %d projects, %d types", name, evt.Set.Projects.Len(), evt.Set.Types.Len()))
}
