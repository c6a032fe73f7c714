package dropdown

import (
	"errors"
	"testing"
	"time"

	"github.com/atomicstack/cellcombo/internal/ui/combo/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeometry struct {
	work     Rect
	anchor   Rect
	x, y     int
	pointer  bool
	workErr  error
	anchorEr error
}

func (g *fakeGeometry) WorkArea() (Rect, error) { return g.work, g.workErr }
func (g *fakeGeometry) Anchor() (Rect, error)   { return g.anchor, g.anchorEr }
func (g *fakeGeometry) Pointer() (int, int, bool) {
	return g.x, g.y, g.pointer
}

type fixture struct {
	clock    *timer.Manual
	geometry *fakeGeometry
	ctrl     *Controller
	value    string
	dirty    int
}

func newFixture() *fixture {
	f := &fixture{
		clock: timer.NewManual(),
		geometry: &fakeGeometry{
			work:   Rect{X: 0, Y: 0, W: 80, H: 24},
			anchor: Rect{X: 10, Y: 4, W: 20, H: 1},
		},
	}
	f.ctrl = New(Options{
		Name:        "test",
		CloseDelay:  750 * time.Millisecond,
		Margin:      DefaultMargin,
		Scheduler:   f.clock,
		Geometry:    f.geometry,
		Fingerprint: func() string { return f.value },
		OnDirty:     func() { f.dirty++ },
	})
	return f
}

func (f *fixture) advance(d time.Duration) {
	for _, msg := range f.clock.Advance(d) {
		f.ctrl.Update(msg)
	}
}

func TestToggleKeys(t *testing.T) {
	f := newFixture()
	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyF4},
		{Type: tea.KeyDown, Alt: true},
		{Type: tea.KeyUp, Alt: true},
	} {
		_, handled := f.ctrl.HandleKey(msg, 3)
		require.True(t, handled, "key %s", msg)
		assert.Equal(t, Open, f.ctrl.State(), "key %s", msg)
		f.ctrl.HandleKey(msg, 3)
		assert.Equal(t, Closed, f.ctrl.State(), "key %s", msg)
	}
	_, handled := f.ctrl.HandleKey(tea.KeyMsg{Type: tea.KeyDown}, 3)
	assert.False(t, handled)
}

func TestAutoCloseWhenPointerOutside(t *testing.T) {
	f := newFixture()
	f.ctrl.Open(3)
	f.value = "changed"
	f.geometry.pointer = true
	f.geometry.x, f.geometry.y = 10+20+DefaultMargin+1, 4

	f.advance(700 * time.Millisecond)
	assert.True(t, f.ctrl.IsOpen())
	f.advance(100 * time.Millisecond)
	assert.False(t, f.ctrl.IsOpen())
	assert.Equal(t, 1, f.dirty)
}

func TestPulseExtensionWhilePointerInside(t *testing.T) {
	f := newFixture()
	f.ctrl.Open(3)
	f.geometry.pointer = true
	f.geometry.x, f.geometry.y = 10+20+DefaultMargin-1, 4

	f.advance(750 * time.Millisecond)
	require.True(t, f.ctrl.IsOpen())
	require.True(t, f.ctrl.TimerActive())
	f.advance(750 * time.Millisecond)
	require.True(t, f.ctrl.IsOpen())

	// pointer over the list rows also counts as inside
	f.geometry.x, f.geometry.y = 12, 7
	f.advance(750 * time.Millisecond)
	require.True(t, f.ctrl.IsOpen())

	f.geometry.pointer = false
	f.advance(750 * time.Millisecond)
	assert.False(t, f.ctrl.IsOpen())
	assert.Equal(t, 0, f.dirty)
}

func TestTouchRestartsInactivityWindow(t *testing.T) {
	f := newFixture()
	f.ctrl.Open(3)
	f.advance(500 * time.Millisecond)
	f.ctrl.Touch()
	f.advance(500 * time.Millisecond)
	assert.True(t, f.ctrl.IsOpen())
	f.advance(250 * time.Millisecond)
	assert.False(t, f.ctrl.IsOpen())
}

func TestFocusLost(t *testing.T) {
	f := newFixture()
	f.ctrl.Open(3)
	f.geometry.pointer = true
	f.geometry.x, f.geometry.y = 15, 4
	assert.False(t, f.ctrl.FocusLost())
	f.geometry.y = 20
	assert.True(t, f.ctrl.FocusLost())
	assert.Equal(t, Closed, f.ctrl.State())
}

func TestPlacementDirection(t *testing.T) {
	f := newFixture()
	f.ctrl.Open(5)
	p := f.ctrl.Placement()
	assert.Equal(t, Down, p.Direction)
	assert.Equal(t, Rect{X: 10, Y: 5, W: 20, H: 7}, p.Rect)
	assert.Equal(t, 5, f.ctrl.ListRows())
	f.ctrl.Close(ReasonToggle)

	f.geometry.anchor = Rect{X: 10, Y: 20, W: 20, H: 1}
	f.ctrl.Open(5)
	p = f.ctrl.Placement()
	assert.Equal(t, Up, p.Direction)
	assert.Equal(t, Rect{X: 10, Y: 13, W: 20, H: 7}, p.Rect)
}

func TestRepositionOnResize(t *testing.T) {
	f := newFixture()
	f.ctrl.Open(5)
	require.Equal(t, Down, f.ctrl.Placement().Direction)
	f.geometry.work.H = 8
	f.ctrl.Reposition()
	assert.Equal(t, Up, f.ctrl.Placement().Direction)
	assert.Equal(t, Rect{X: 10, Y: 0, W: 20, H: 4}, f.ctrl.Placement().Rect)

	f.geometry.work.H = 3
	f.geometry.anchor.Y = 1
	f.ctrl.Reposition()
	assert.False(t, f.ctrl.IsOpen())
}

func TestGeometryFailureKeepsClosed(t *testing.T) {
	f := newFixture()
	f.geometry.anchorEr = errors.New("no cell")
	assert.Nil(t, f.ctrl.Open(3))
	assert.False(t, f.ctrl.IsOpen())
	assert.False(t, f.ctrl.PointerInside())
}

func TestDisposeStopsTimer(t *testing.T) {
	f := newFixture()
	f.ctrl.Open(3)
	f.ctrl.Dispose()
	assert.False(t, f.ctrl.IsOpen())
	for _, msg := range f.clock.Advance(time.Second) {
		_, handled := f.ctrl.Update(msg)
		assert.False(t, handled)
	}
	assert.Nil(t, f.ctrl.Open(3))
}

func TestPreferredHeight(t *testing.T) {
	assert.Equal(t, MinHeight, PreferredHeight(0, 12))
	assert.Equal(t, 12, PreferredHeight(40, 12))
	assert.Equal(t, 42, PreferredHeight(40, 0))
}

func TestRowAtAndFrame(t *testing.T) {
	f := newFixture()
	f.ctrl.Open(3)
	row, ok := f.ctrl.RowAt(12, 7)
	require.True(t, ok)
	assert.Equal(t, 1, row)
	_, ok = f.ctrl.RowAt(10, 7)
	assert.False(t, ok, "border column is not a row")
	assert.True(t, f.ctrl.Contains(10, 5))

	lines := RenderFrame(f.ctrl.Placement(), []string{"one", "a very long entry that overflows"}, nil)
	require.Len(t, lines, 5)
	for _, line := range lines {
		assert.Equal(t, 20, ansi.StringWidth(line))
	}
	assert.Equal(t, "│one               │", lines[1])
	assert.Equal(t, "│                  │", lines[3])
}

func TestRow(t *testing.T) {
	assert.Equal(t, "ab  ", Row("ab", 4, nil))
	assert.Equal(t, "abc…", Row("abcdefgh", 4, nil))
	assert.Equal(t, "", Row("ab", 0, nil))
}

func TestDisableAutoClose(t *testing.T) {
	clock := timer.NewManual()
	ctrl := New(Options{
		Name:             "test",
		Scheduler:        clock,
		Geometry:         &fakeGeometry{work: Rect{W: 80, H: 24}, anchor: Rect{X: 1, Y: 1, W: 10, H: 1}},
		DisableAutoClose: true,
	})
	ctrl.Open(2)
	ctrl.Touch()
	assert.False(t, ctrl.TimerActive())
	assert.Equal(t, 0, clock.Pending())
	assert.True(t, ctrl.IsOpen())
}
