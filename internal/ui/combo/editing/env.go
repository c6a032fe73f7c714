package editing

import (
	"time"

	"github.com/atomicstack/cellcombo/internal/theme"
	"github.com/atomicstack/cellcombo/internal/ui/combo/dropdown"
	"github.com/atomicstack/cellcombo/internal/ui/combo/filter"
	"github.com/atomicstack/cellcombo/internal/ui/combo/timer"
)

// Env carries what the grid injects into a control when an edit session
// starts.
type Env struct {
	Host      Host
	Geometry  dropdown.Geometry
	Scheduler timer.Scheduler
	Styles    *theme.Styles
	// StaticCaret disables caret blinking in text fields.
	StaticCaret bool

	Debounce   time.Duration
	CloseDelay time.Duration
	Margin     int
	MaxHeight  int
}

// WithDefaults fills zero timings, sizes and styles.
func (e Env) WithDefaults() Env {
	if e.Scheduler == nil {
		e.Scheduler = timer.TeaScheduler{}
	}
	if e.Styles == nil {
		e.Styles = theme.Default()
	}
	if e.Debounce <= 0 {
		e.Debounce = filter.DefaultDebounce
	}
	if e.CloseDelay <= 0 {
		e.CloseDelay = dropdown.DefaultCloseDelay
	}
	if e.Margin < 0 {
		e.Margin = dropdown.DefaultMargin
	}
	if e.MaxHeight <= 0 {
		e.MaxHeight = dropdown.DefaultMaxHeight
	}
	return e
}

// Dropdown builds the controller options for a widget.
func (e Env) Dropdown(name string, fingerprint func() string, onDirty func()) dropdown.Options {
	return dropdown.Options{
		Name:        name,
		CloseDelay:  e.CloseDelay,
		Margin:      e.Margin,
		MaxHeight:   e.MaxHeight,
		Scheduler:   e.Scheduler,
		Geometry:    e.Geometry,
		Fingerprint: fingerprint,
		OnDirty:     onDirty,
	}
}

// Pointer returns the pointer position from the geometry, if known.
func (e Env) Pointer() (int, int, bool) {
	if e.Geometry == nil {
		return 0, 0, false
	}
	return e.Geometry.Pointer()
}

// Anchor returns the edited cell rectangle.
func (e Env) Anchor() (dropdown.Rect, bool) {
	if e.Geometry == nil {
		return dropdown.Rect{}, false
	}
	r, err := e.Geometry.Anchor()
	if err != nil || r.Empty() {
		return dropdown.Rect{}, false
	}
	return r, true
}
