package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/cellcombo/internal/backend"
	"github.com/atomicstack/cellcombo/internal/catalog"
	"github.com/atomicstack/cellcombo/internal/logging"
	"github.com/atomicstack/cellcombo/internal/logging/events"
	"github.com/atomicstack/cellcombo/internal/ui"
	"github.com/atomicstack/cellcombo/internal/ui/grid"
	tea "github.com/charmbracelet/bubbletea"
)

// Column keys of the timesheet layout.
const (
	ColumnCustomer = "customer"
	ColumnProject  = "project"
	ColumnType     = "type"
	ColumnKm       = "km"
)

// kmLimit is the exclusive upper bound accepted in the km column.
const kmLimit = 1000

var weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Config describes user-provided application options.
type Config struct {
	CatalogPath string
	Watch       bool
	Rows        int
	Width       int
	Height      int
	ShowFooter  bool
	Debounce    time.Duration
	CloseDelay  time.Duration
	Margin      int
	MaxHeight   int
	NoBlink     bool
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	set, err := LoadCatalogs(cfg.CatalogPath)
	if err != nil {
		return err
	}
	var watcher *backend.Watcher
	if cfg.Watch && cfg.CatalogPath != "" {
		watcher, err = backend.NewWatcher(cfg.CatalogPath, backend.DefaultInterval)
		if err != nil {
			// the grid still works with the catalogs loaded above
			logging.Error(fmt.Errorf("watch catalog: %w", err))
			watcher = nil
		} else {
			defer watcher.Stop()
		}
	}
	model := ui.NewModel(NewGrid(cfg, set), ui.Options{
		Width:         cfg.Width,
		Height:        cfg.Height,
		ShowFooter:    cfg.ShowFooter,
		Watcher:       watcher,
		ProjectColumn: ColumnProject,
		TypeColumn:    ColumnType,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithReportFocus())
	_, err = program.Run()
	events.App.Stop(err)
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// LoadCatalogs reads the project file at path, or returns the built-in
// sample catalogs when path is empty.
func LoadCatalogs(path string) (catalog.Set, error) {
	if path == "" {
		set, err := catalog.Parse([]byte(sampleCatalog), catalog.FormatJSON)
		if err != nil {
			return catalog.Set{}, fmt.Errorf("sample catalog: %w", err)
		}
		events.Catalog.Loaded("(sample)", set.Projects.Len()+set.Types.Len())
		return set, nil
	}
	set, err := catalog.LoadFile(path)
	if err != nil {
		events.Catalog.Error(path, err)
		return catalog.Set{}, fmt.Errorf("load catalog: %w", err)
	}
	events.Catalog.Loaded(path, set.Projects.Len()+set.Types.Len())
	return set, nil
}

// Columns returns the timesheet layout: customer, project code, project
// type, km and one hours column per weekday.
func Columns(set catalog.Set) []grid.Column {
	columns := []grid.Column{
		{Key: ColumnCustomer, Title: "Customer", Width: 14},
		{Key: ColumnProject, Title: "Project", Width: 28, Kind: grid.KindFiltered, Catalog: set.Projects},
		{Key: ColumnType, Title: "Type", Width: 16, Kind: grid.KindChecked, Catalog: set.Types},
		{Key: ColumnKm, Title: "Km", Width: 5, Mask: grid.Digits, Validate: grid.Below(kmLimit)},
	}
	for _, day := range weekdays {
		columns = append(columns, grid.Column{Key: day, Title: day, Width: 5, Mask: grid.Decimal})
	}
	return columns
}

// NewGrid builds the timesheet grid for cfg.
func NewGrid(cfg Config, set catalog.Set) *grid.Grid {
	rows := cfg.Rows
	if rows <= 0 {
		rows = DefaultRows
	}
	return grid.New(grid.Options{
		Rows:        rows,
		Columns:     Columns(set),
		Debounce:    cfg.Debounce,
		CloseDelay:  cfg.CloseDelay,
		Margin:      cfg.Margin,
		MaxHeight:   cfg.MaxHeight,
		StaticCaret: cfg.NoBlink,
	})
}

// DefaultRows is the number of timesheet rows when none is configured.
const DefaultRows = 20

const sampleCatalog = `{
  // built-in catalog used when no project file is given
  "ProjectCodes": [
    {"Code": 10001, "Type": "Design", "Description": "Bridge deck"},
    {"Code": 10002, "Type": "Design", "Description": "Cooling loop"},
    {"Code": 20001, "Type": "Survey", "Description": "Bridge approach"},
    {"Code": 20014, "Type": "Survey", "Description": "Harbour wall"},
    {"Code": 30007, "Type": "Site", "Description": "Office fit-out"},
    {"Code": 30012, "Type": "Site", "Description": "Car park extension"},
  ],
  "ProjectTypes": ["Design", "Survey", "Site", "Management", "Travel"]
}`
