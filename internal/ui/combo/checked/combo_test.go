package checked

import (
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/cellcombo/internal/catalog"
	"github.com/atomicstack/cellcombo/internal/ui/combo/dropdown"
	"github.com/atomicstack/cellcombo/internal/ui/combo/editing"
	"github.com/atomicstack/cellcombo/internal/ui/combo/selection"
	"github.com/atomicstack/cellcombo/internal/ui/combo/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	dirty       int
	invalidated int
	ends        int
	cancels     int
}

func (h *fakeHost) NotifyCurrentCellDirty() { h.dirty++ }
func (h *fakeHost) InvalidateCell()         { h.invalidated++ }
func (h *fakeHost) RequestEndEdit() tea.Cmd {
	h.ends++
	return func() tea.Msg { return nil }
}
func (h *fakeHost) RequestCancelEdit() tea.Cmd {
	h.cancels++
	return func() tea.Msg { return nil }
}

type fakeGeometry struct {
	x, y    int
	pointer bool
}

func (g *fakeGeometry) WorkArea() (dropdown.Rect, error) {
	return dropdown.Rect{W: 80, H: 24}, nil
}
func (g *fakeGeometry) Anchor() (dropdown.Rect, error) {
	return dropdown.Rect{X: 10, Y: 4, W: 30, H: 1}, nil
}
func (g *fakeGeometry) Pointer() (int, int, bool) { return g.x, g.y, g.pointer }

type fixture struct {
	clock *timer.Manual
	host  *fakeHost
	geo   *fakeGeometry
	combo *Combo
}

func months() *catalog.Catalog {
	return catalog.FromStrings("months", 3, "January", "February", "March", "April", "May")
}

func newFixture(t *testing.T, stored string) *fixture {
	t.Helper()
	f := &fixture{clock: timer.NewManual(), host: &fakeHost{}, geo: &fakeGeometry{}}
	f.combo = New("types", months(), editing.Env{
		Host:       f.host,
		Geometry:   f.geo,
		Scheduler:  f.clock,
		CloseDelay: 750 * time.Millisecond,
		Margin:     dropdown.DefaultMargin,
	})
	f.combo.SetEncodedValue(stored)
	f.combo.PrepareForEdit(false)
	return f
}

func (f *fixture) key(k tea.KeyType) tea.Cmd {
	return f.combo.Update(tea.KeyMsg{Type: k})
}

func (f *fixture) advance(d time.Duration) {
	for _, msg := range f.clock.Advance(d) {
		f.combo.Update(msg)
	}
}

// check moves the list cursor to idx and toggles it with space.
func (f *fixture) check(t *testing.T, idx int) {
	t.Helper()
	if !f.combo.Dropdown().IsOpen() {
		f.key(tea.KeyF4)
	}
	require.True(t, f.combo.Dropdown().IsOpen())
	f.key(tea.KeyHome)
	for i := 0; i < idx; i++ {
		f.key(tea.KeyDown)
	}
	require.Equal(t, idx, f.combo.Cursor())
	f.key(tea.KeySpace)
}

func (f *fixture) click(x, y int) tea.Cmd {
	return f.combo.Update(tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
}

func TestSummaryFollowsChecks(t *testing.T) {
	f := newFixture(t, "")
	f.check(t, 1)
	f.check(t, 0)
	assert.Equal(t, "Feb, Jan", f.combo.Tooltip())

	f.check(t, 3)
	assert.Equal(t, "Apr, Feb, Jan", f.combo.Tooltip())

	f.check(t, 2)
	f.check(t, 4)
	assert.Equal(t, selection.AllText, f.combo.Tooltip())

	for _, idx := range []int{0, 1, 2, 3} {
		f.check(t, idx)
	}
	assert.Equal(t, "May", f.combo.Tooltip())
	f.check(t, 4)
	assert.Equal(t, "", f.combo.Tooltip())
	assert.Equal(t, "", f.combo.EncodedValue())
}

func TestInactivityCloseMarksDirty(t *testing.T) {
	f := newFixture(t, "")
	f.geo.pointer = true
	f.geo.x, f.geo.y = 15, 4
	f.check(t, 1)
	require.False(t, f.combo.IsDirty())
	assert.Equal(t, 0, f.host.dirty)
	assert.Positive(t, f.host.invalidated)

	f.advance(750 * time.Millisecond)
	require.True(t, f.combo.Dropdown().IsOpen())

	f.geo.x = 60
	f.advance(750 * time.Millisecond)
	assert.False(t, f.combo.Dropdown().IsOpen())
	assert.True(t, f.combo.IsDirty())
	assert.Equal(t, 1, f.host.dirty)
	assert.Equal(t, editing.Editing, f.combo.Adapter().State())
}

func TestInactivityCloseWithoutChangeStaysClean(t *testing.T) {
	f := newFixture(t, ";February")
	f.key(tea.KeyF4)
	f.key(tea.KeyDown)
	f.advance(750 * time.Millisecond)
	assert.False(t, f.combo.Dropdown().IsOpen())
	assert.False(t, f.combo.IsDirty())
	assert.Equal(t, 0, f.host.dirty)
}

func TestMarginCountsAsInside(t *testing.T) {
	f := newFixture(t, "")
	f.geo.pointer = true
	f.geo.x, f.geo.y = 41, 4
	f.key(tea.KeyF4)
	f.advance(750 * time.Millisecond)
	assert.True(t, f.combo.Dropdown().IsOpen())

	f.geo.x = 42
	f.advance(750 * time.Millisecond)
	assert.False(t, f.combo.Dropdown().IsOpen())
}

func TestEncodedValueRoundTrip(t *testing.T) {
	f := newFixture(t, "Feb,Jan;February,January")
	assert.Equal(t, 2, f.combo.Selection().Count())
	assert.Equal(t, 0, f.combo.Cursor())

	value := f.combo.EncodedValue()
	assert.Equal(t, "Feb, Jan;January,February", value)

	_, longs := editing.DecodeMulti(value)
	sort.Strings(longs)
	assert.Equal(t, []string{"February", "January"}, longs)

	other := newFixture(t, value)
	assert.Equal(t, value, other.combo.EncodedValue())
	assert.False(t, other.combo.IsDirty())
}

func TestUnknownLongTextsAreDropped(t *testing.T) {
	f := newFixture(t, "x;Smarch,April")
	assert.Equal(t, "Apr;April", f.combo.EncodedValue())
	assert.Equal(t, 3, f.combo.Cursor())
}

func TestButtonsWhileClosed(t *testing.T) {
	f := newFixture(t, ";March")

	f.click(38, 4)
	assert.Equal(t, "", f.combo.EncodedValue())
	assert.True(t, f.combo.IsDirty())
	assert.Equal(t, 1, f.host.dirty)

	f.click(38, 4)
	assert.Equal(t, 1, f.host.dirty, "clear is disabled on an empty selection")

	f.click(39, 4)
	assert.Equal(t, selection.AllText, f.combo.Tooltip())
	assert.Equal(t, 2, f.host.dirty)

	f.click(39, 4)
	assert.Equal(t, 2, f.host.dirty, "select all is disabled when everything is checked")
	assert.False(t, f.combo.Dropdown().IsOpen())

	f.click(37, 4)
	assert.True(t, f.combo.Dropdown().IsOpen())
	f.click(15, 4)
	assert.False(t, f.combo.Dropdown().IsOpen())
}

func TestKeyboardShortcuts(t *testing.T) {
	f := newFixture(t, "")
	f.key(tea.KeyCtrlA)
	assert.Equal(t, selection.AllText, f.combo.Tooltip())
	f.key(tea.KeyCtrlD)
	assert.Equal(t, "", f.combo.Tooltip())
	assert.Equal(t, 2, f.host.dirty)
}

func TestRowClickToggles(t *testing.T) {
	f := newFixture(t, "")
	f.key(tea.KeyF4)
	p := f.combo.Dropdown().Placement()
	require.Equal(t, dropdown.Down, p.Direction)
	require.Equal(t, 5, p.Y)

	f.click(12, 8)
	assert.Equal(t, 2, f.combo.Cursor())
	assert.True(t, f.combo.Selection().IsChecked("March"))
	f.click(12, 8)
	assert.False(t, f.combo.Selection().IsChecked("March"))
	assert.True(t, f.combo.Dropdown().IsOpen())
}

func TestSpaceOpensClosedDropdown(t *testing.T) {
	f := newFixture(t, "")
	f.key(tea.KeySpace)
	assert.True(t, f.combo.Dropdown().IsOpen())
	assert.Equal(t, 0, f.combo.Selection().Count())
}

func TestEnterClosesAndCommits(t *testing.T) {
	f := newFixture(t, "")
	f.check(t, 0)
	cmd := f.key(tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.False(t, f.combo.Dropdown().IsOpen())
	assert.True(t, f.combo.IsDirty())
	assert.Equal(t, editing.CommitRequested, f.combo.Adapter().State())
	assert.Equal(t, 1, f.host.ends)

	assert.Nil(t, f.key(tea.KeyEnter))
	assert.Equal(t, 1, f.host.ends)
}

func TestEscapeClosesThenCancels(t *testing.T) {
	f := newFixture(t, "")
	f.key(tea.KeyF4)
	f.key(tea.KeyEsc)
	assert.False(t, f.combo.Dropdown().IsOpen())
	assert.Equal(t, editing.Editing, f.combo.Adapter().State())

	f.key(tea.KeyEsc)
	assert.Equal(t, editing.CancelRequested, f.combo.Adapter().State())
	assert.Equal(t, 1, f.host.cancels)
}

func TestFocusLostClosesWhenPointerAway(t *testing.T) {
	f := newFixture(t, "")
	f.key(tea.KeyF4)
	f.combo.Update(editing.FocusLostMsg{})
	assert.False(t, f.combo.Dropdown().IsOpen())
}

func TestView(t *testing.T) {
	f := newFixture(t, "Feb,Jan;February,January")
	view := f.combo.View(20)
	assert.Equal(t, 20, ansi.StringWidth(view))
	plain := ansi.Strip(view)
	assert.True(t, strings.HasPrefix(plain, "Feb, Jan"))
	assert.True(t, strings.HasSuffix(plain, arrowGlyph+clearGlyph+allGlyph))

	narrow := ansi.Strip(f.combo.View(9))
	assert.Equal(t, "Fe... "+arrowGlyph+clearGlyph+allGlyph, narrow)

	assert.Equal(t, arrowGlyph+clearGlyph, ansi.Strip(f.combo.View(2)))
	assert.Equal(t, "", f.combo.View(0))
}

func TestOverlay(t *testing.T) {
	f := newFixture(t, ";March")
	_, ok := f.combo.Overlay()
	assert.False(t, ok)

	f.key(tea.KeyF4)
	ov, ok := f.combo.Overlay()
	require.True(t, ok)
	assert.Equal(t, 10, ov.X)
	assert.Equal(t, 5, ov.Y)
	require.Len(t, ov.Lines, 7)
	assert.Contains(t, ansi.Strip(ov.Lines[1]), "[ ] January")
	assert.Contains(t, ansi.Strip(ov.Lines[3]), "[x] March")
}

func TestDisposeStopsTimer(t *testing.T) {
	f := newFixture(t, "")
	f.key(tea.KeyF4)
	f.combo.Dispose()
	assert.False(t, f.combo.Dropdown().IsOpen())
	f.advance(time.Second)
	assert.Nil(t, f.key(tea.KeyEnter))
	assert.Equal(t, 0, f.host.ends)
}
