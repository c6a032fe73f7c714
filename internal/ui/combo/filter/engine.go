package filter

import (
	"time"

	"github.com/atomicstack/cellcombo/internal/catalog"
	"github.com/atomicstack/cellcombo/internal/logging/events"
	"github.com/atomicstack/cellcombo/internal/ui/combo/timer"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultDebounce is the delay between the last request and its application.
const DefaultDebounce = 500 * time.Millisecond

// Engine applies filter text to a catalog. Requests are debounced through a
// timer whose expiry arrives as a message on the update loop.
type Engine struct {
	name        string
	catalog     *catalog.Catalog
	pattern     string
	lastApplied string
	applied     bool
	filtering   bool
	results     []catalog.Item
	timer       *timer.Timer
	runs        int

	// OnApplied runs after every application that produced a new result set.
	// Calls to Apply made from inside it are dropped.
	OnApplied func(items []catalog.Item)
}

// New constructs an engine for the named widget.
func New(name string, c *catalog.Catalog, debounce time.Duration, sched timer.Scheduler) *Engine {
	if debounce < 0 {
		debounce = 0
	}
	return &Engine{
		name:    name,
		catalog: c,
		timer:   timer.New(name+":filter", debounce, sched),
	}
}

// SetCatalog swaps the catalog. The next application always recomputes.
func (e *Engine) SetCatalog(c *catalog.Catalog) {
	e.catalog = c
	e.applied = false
	e.results = nil
}

// Catalog returns the active catalog.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Pattern returns the most recently requested text.
func (e *Engine) Pattern() string { return e.pattern }

// LastApplied returns the text of the last application.
func (e *Engine) LastApplied() string { return e.lastApplied }

// Results returns a copy of the last result set.
func (e *Engine) Results() []catalog.Item {
	dup := make([]catalog.Item, len(e.results))
	copy(dup, e.results)
	return dup
}

// Runs returns how many times a result set has been computed.
func (e *Engine) Runs() int { return e.runs }

// Pending reports whether a debounced request is waiting.
func (e *Engine) Pending() bool { return e.timer.Active() }

// Apply filters the catalog with text immediately. Without a catalog it does
// nothing and returns nil. Repeating the last applied text returns the cached
// results without recomputing or notifying OnApplied.
func (e *Engine) Apply(text string) []catalog.Item {
	if e.catalog == nil {
		return nil
	}
	if e.filtering {
		events.Filter.Dropped(e.name, text)
		return e.Results()
	}
	e.pattern = text
	if e.applied && text == e.lastApplied {
		return e.Results()
	}
	e.filtering = true
	defer func() { e.filtering = false }()

	e.results = Items(e.catalog.Items(), text)
	e.lastApplied = text
	e.applied = true
	e.runs++
	events.Filter.Applied(e.name, text, len(e.results))
	if e.OnApplied != nil {
		e.OnApplied(e.Results())
	}
	return e.Results()
}

// Request records text and restarts the debounce delay. Text without tokens
// is applied at once.
func (e *Engine) Request(text string) tea.Cmd {
	e.pattern = text
	events.Filter.Requested(e.name, text)
	if Compile(text) == nil || e.timer.Delay() == 0 {
		e.timer.Stop()
		e.Apply(text)
		return nil
	}
	return e.timer.Start()
}

// Update applies the pending request when msg is the current debounce expiry.
func (e *Engine) Update(msg tea.Msg) bool {
	if !e.timer.Fired(msg) {
		return false
	}
	e.Apply(e.pattern)
	return true
}

// Flush applies a pending request immediately.
func (e *Engine) Flush() {
	if !e.timer.Active() {
		return
	}
	e.timer.Stop()
	e.Apply(e.pattern)
}

// Cancel drops a pending request without applying it.
func (e *Engine) Cancel() {
	e.timer.Stop()
}

// Dispose stops the debounce timer permanently.
func (e *Engine) Dispose() {
	e.timer.Dispose()
}
