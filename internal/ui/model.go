package ui

import (
	"reflect"
	"time"

	"github.com/atomicstack/cellcombo/internal/backend"
	"github.com/atomicstack/cellcombo/internal/theme"
	"github.com/atomicstack/cellcombo/internal/ui/grid"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultTitle = "timesheet"
	// titleRows is the number of screen rows above the grid header.
	titleRows = 1
	infoTTL   = 5 * time.Second
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options configures the root model.
type Options struct {
	Title      string
	Width      int
	Height     int
	ShowFooter bool
	Watcher    *backend.Watcher

	// ProjectColumn and TypeColumn name the grid columns that receive the
	// catalogs of a reloaded project file.
	ProjectColumn string
	TypeColumn    string
}

// Model implements the Bubble Tea model hosting the data-entry grid.
type Model struct {
	grid        *grid.Grid
	title       string
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool

	watcher       *backend.Watcher
	projectColumn string
	typeColumn    string

	errMsg     string
	infoMsg    string
	infoExpire time.Time

	handlers map[reflect.Type]msgHandler
}

// NewModel wraps g in a model. Non-zero Width or Height pin that dimension
// regardless of the terminal size.
func NewModel(g *grid.Grid, opts Options) *Model {
	m := &Model{
		grid:          g,
		title:         opts.Title,
		showFooter:    opts.ShowFooter,
		watcher:       opts.Watcher,
		projectColumn: opts.ProjectColumn,
		typeColumn:    opts.TypeColumn,
	}
	if m.title == "" {
		m.title = defaultTitle
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.layout()
	m.registerHandlers()
	return m
}

// Grid exposes the hosted grid.
func (m *Model) Grid() *grid.Grid {
	return m.grid
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return waitForCatalogEvent(m.watcher)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, m.grid.Update(msg)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(catalogEventMsg{}):   m.handleCatalogEventMsg,
		reflect.TypeOf(catalogDoneMsg{}):    m.handleCatalogDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch keyMsg.Type {
	case tea.KeyCtrlC:
		return tea.Quit
	case tea.KeyEsc:
		if !m.grid.Editing() {
			return tea.Quit
		}
	}
	m.clearInfo()
	return m.grid.Update(keyMsg)
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	// the viewport must settle before an open dropdown is repositioned
	m.layout()
	return m.grid.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
}

// layout sizes the dropdown work area and the grid viewport from the
// current screen size.
func (m *Model) layout() {
	m.grid.SetSize(m.width, m.height)
	m.grid.SetViewport(0, titleRows, m.gridRows())
}

// gridRows is the number of data rows that fit between the title and the
// status line. Zero means unlimited.
func (m *Model) gridRows() int {
	if m.height <= 0 {
		return 0
	}
	used := titleRows + 1 + 1 // title, grid header, status
	if m.showFooter {
		used++
	}
	if remain := m.height - used; remain > 1 {
		return remain
	}
	return 1
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(infoTTL)
}

func (m *Model) clearInfo() {
	if m.infoMsg == "" {
		return
	}
	if !m.infoExpire.IsZero() && time.Now().Before(m.infoExpire) {
		return
	}
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}
