package filtered

import (
	"testing"
	"time"

	"github.com/atomicstack/cellcombo/internal/catalog"
	"github.com/atomicstack/cellcombo/internal/ui/combo/dropdown"
	"github.com/atomicstack/cellcombo/internal/ui/combo/editing"
	"github.com/atomicstack/cellcombo/internal/ui/combo/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	dirty   int
	ends    int
	cancels int
}

func (h *fakeHost) NotifyCurrentCellDirty() { h.dirty++ }
func (h *fakeHost) InvalidateCell()         {}
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

func projects() *catalog.Catalog {
	return catalog.New("projects", []catalog.Item{
		{ID: "10001", Long: "10001 - Bridge deck", Short: "10001"},
		{ID: "10002", Long: "10002 - Cooling loop", Short: "10002"},
		{ID: "20001", Long: "20001 - Bridge approach", Short: "20001"},
		{ID: "30007", Long: "30007 - Office fit-out", Short: "30007"},
	})
}

func newFixture(t *testing.T, c *catalog.Catalog, stored string) *fixture {
	t.Helper()
	f := &fixture{clock: timer.NewManual(), host: &fakeHost{}, geo: &fakeGeometry{}}
	f.combo = New("project", c, editing.Env{
		Host:       f.host,
		Geometry:   f.geo,
		Scheduler:  f.clock,
		Debounce:   500 * time.Millisecond,
		CloseDelay: 750 * time.Millisecond,
		Margin:     dropdown.DefaultMargin,
	})
	f.combo.SetEncodedValue(stored)
	f.combo.PrepareForEdit(false)
	return f
}

func (f *fixture) typeText(text string) {
	for _, r := range text {
		if r == ' ' {
			f.combo.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		f.combo.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (f *fixture) key(k tea.KeyType) tea.Cmd {
	return f.combo.Update(tea.KeyMsg{Type: k})
}

func (f *fixture) advance(d time.Duration) {
	for _, msg := range f.clock.Advance(d) {
		f.combo.Update(msg)
	}
}

func TestSingleMatchAutoCommits(t *testing.T) {
	f := newFixture(t, projects(), "")
	f.typeText("cool")
	require.True(t, f.combo.Engine().Pending())
	require.True(t, f.combo.Dropdown().IsOpen())
	assert.Equal(t, editing.Editing, f.combo.Adapter().State())

	f.advance(500 * time.Millisecond)
	assert.Equal(t, editing.CommitRequested, f.combo.Adapter().State())
	assert.Equal(t, 1, f.host.ends)
	assert.Equal(t, "10002", f.combo.EncodedValue())
	assert.Equal(t, "10002 - Cooling loop", f.combo.Text())
	assert.True(t, f.combo.IsDirty())
	assert.False(t, f.combo.Dropdown().IsOpen())
}

func TestDebounceAppliesOnlyLastText(t *testing.T) {
	f := newFixture(t, projects(), "")
	f.typeText("bri")
	f.advance(300 * time.Millisecond)
	f.typeText("dge")
	f.advance(300 * time.Millisecond)
	assert.Equal(t, 1, f.combo.Engine().Runs(), "only the seed application so far")
	f.advance(200 * time.Millisecond)
	assert.Equal(t, 2, f.combo.Engine().Runs())
	assert.Len(t, f.combo.Visible(), 2)
	assert.Equal(t, editing.Editing, f.combo.Adapter().State())
}

func TestEnterCommitsHighlightedMatch(t *testing.T) {
	f := newFixture(t, projects(), "")
	f.typeText("bridge")
	f.advance(time.Second)
	f.key(tea.KeyDown)
	cmd := f.key(tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.Equal(t, "20001", f.combo.EncodedValue())
	assert.Equal(t, editing.CommitRequested, f.combo.Adapter().State())
	assert.Equal(t, 1, f.host.ends)

	f.key(tea.KeyEnter)
	assert.Equal(t, 1, f.host.ends, "no second request while one is in flight")
}

func TestEnterFlushesPendingFilter(t *testing.T) {
	f := newFixture(t, projects(), "")
	f.typeText("loop")
	f.key(tea.KeyEnter)
	assert.Equal(t, "10002", f.combo.EncodedValue())
	assert.Equal(t, 1, f.host.ends)
}

func TestSeedingDoesNotAutoCommit(t *testing.T) {
	f := newFixture(t, projects(), "10002")
	assert.Equal(t, editing.Editing, f.combo.Adapter().State())
	assert.Equal(t, "10002", f.combo.EncodedValue())
	assert.Equal(t, "10002 - Cooling loop", f.combo.Committed())
	assert.Equal(t, "10002 - Cooling loop", f.combo.Text())
	assert.Len(t, f.combo.Visible(), 4)
	assert.False(t, f.combo.IsDirty())

	f.key(tea.KeyEnter)
	assert.Equal(t, "10002", f.combo.EncodedValue())
	assert.False(t, f.combo.IsDirty())
}

func TestSeedByLongTextAndFallback(t *testing.T) {
	f := newFixture(t, projects(), "30007 - Office fit-out")
	assert.Equal(t, "30007", f.combo.EncodedValue())

	g := newFixture(t, projects(), "legacy code")
	assert.Equal(t, "legacy code", g.combo.EncodedValue())
	_, ok := g.combo.Selected()
	assert.False(t, ok)
}

func TestSelectAllReplacesText(t *testing.T) {
	f := newFixture(t, projects(), "10002")
	f.combo.Adapter().Finish()
	f.combo.PrepareForEdit(true)
	f.typeText("3")
	assert.Equal(t, "3", f.combo.Text())
}

func TestClearingTextClearsSelection(t *testing.T) {
	f := newFixture(t, projects(), "10002")
	f.combo.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	assert.Equal(t, "", f.combo.EncodedValue())
	assert.True(t, f.combo.IsDirty())
	assert.Equal(t, 1, f.host.dirty)
}

func TestNoMatchRestoresCommittedText(t *testing.T) {
	f := newFixture(t, projects(), "10001")
	f.typeText(" zzz")
	f.advance(time.Second)
	assert.Empty(t, f.combo.Visible())
	assert.Equal(t, editing.Editing, f.combo.Adapter().State())
	f.key(tea.KeyEnter)
	assert.Equal(t, "10001", f.combo.EncodedValue())
	assert.Equal(t, "10001 - Bridge deck", f.combo.Text())
}

func TestEscapeClosesThenCancels(t *testing.T) {
	f := newFixture(t, projects(), "")
	f.key(tea.KeyDown)
	require.True(t, f.combo.Dropdown().IsOpen())
	f.key(tea.KeyEsc)
	assert.False(t, f.combo.Dropdown().IsOpen())
	assert.Equal(t, 0, f.host.cancels)
	f.key(tea.KeyEsc)
	assert.Equal(t, 1, f.host.cancels)
	assert.Equal(t, editing.CancelRequested, f.combo.Adapter().State())
}

func TestToggleKeysAndOverlay(t *testing.T) {
	f := newFixture(t, projects(), "")
	f.combo.Update(tea.KeyMsg{Type: tea.KeyF4})
	require.True(t, f.combo.Dropdown().IsOpen())
	overlay, ok := f.combo.Overlay()
	require.True(t, ok)
	assert.Equal(t, 10, overlay.X)
	assert.Equal(t, 5, overlay.Y)
	require.Len(t, overlay.Lines, 6)
	assert.Contains(t, ansi.Strip(overlay.Lines[1]), "10001 - Bridge deck")

	f.combo.Update(tea.KeyMsg{Type: tea.KeyDown, Alt: true})
	assert.False(t, f.combo.Dropdown().IsOpen())
	_, ok = f.combo.Overlay()
	assert.False(t, ok)
}

func TestClickRowCommits(t *testing.T) {
	f := newFixture(t, projects(), "")
	f.combo.Update(tea.MouseMsg{X: 12, Y: 4, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	require.True(t, f.combo.Dropdown().IsOpen())
	f.combo.Update(tea.MouseMsg{X: 12, Y: 9, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.Equal(t, "30007", f.combo.EncodedValue())
	assert.Equal(t, editing.CommitRequested, f.combo.Adapter().State())
}

func TestListStaysOpenWhileTyping(t *testing.T) {
	f := newFixture(t, projects(), "")
	f.typeText("b")
	f.geo.pointer = true
	f.geo.x, f.geo.y = 70, 20
	f.advance(2 * time.Second)
	assert.True(t, f.combo.Dropdown().IsOpen())

	f.combo.Update(editing.FocusLostMsg{})
	assert.False(t, f.combo.Dropdown().IsOpen())
}

func TestWithoutCatalog(t *testing.T) {
	f := newFixture(t, nil, "")
	f.typeText("abc")
	f.advance(time.Second)
	assert.Empty(t, f.combo.Visible())
	f.key(tea.KeyEnter)
	assert.Equal(t, "", f.combo.EncodedValue())
	assert.Equal(t, editing.CommitRequested, f.combo.Adapter().State())
}

func TestDisposeStopsTimers(t *testing.T) {
	f := newFixture(t, projects(), "")
	f.typeText("cool")
	f.combo.Dispose()
	f.advance(time.Second)
	assert.Equal(t, editing.Editing, f.combo.Adapter().State())
	assert.Equal(t, "", f.combo.EncodedValue())
	assert.Nil(t, f.key(tea.KeyEnter))
}

func TestView(t *testing.T) {
	f := newFixture(t, projects(), "10001")
	got := ansi.Strip(f.combo.View(12))
	assert.Equal(t, 12, ansi.StringWidth(got))
	assert.True(t, len(got) > 0)
	assert.Contains(t, got, "▼")
	assert.Equal(t, "▼", f.combo.View(1))
}
