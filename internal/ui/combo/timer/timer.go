// Package timer provides restartable one-shot timers whose expiry is
// delivered as a message into the Bubble Tea update loop.
package timer

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Scheduler turns a delay and a message into a command that delivers the
// message once the delay has elapsed.
type Scheduler interface {
	Schedule(d time.Duration, msg tea.Msg) tea.Cmd
}

// TeaScheduler schedules through tea.Tick.
type TeaScheduler struct{}

// Schedule implements Scheduler.
func (TeaScheduler) Schedule(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// FiredMsg is delivered when a timer's delay elapses.
type FiredMsg struct {
	ID  uint64
	Seq uint64
}

var nextID atomic.Uint64

// Timer is a one-shot timer that can be restarted. Each start bumps a
// sequence number so expiries from earlier starts are recognised as stale.
type Timer struct {
	id       uint64
	name     string
	delay    time.Duration
	sched    Scheduler
	seq      uint64
	active   bool
	disposed bool
}

// New constructs an idle timer. A nil scheduler uses TeaScheduler.
func New(name string, delay time.Duration, sched Scheduler) *Timer {
	if sched == nil {
		sched = TeaScheduler{}
	}
	return &Timer{id: nextID.Add(1), name: name, delay: delay, sched: sched}
}

// Name returns the label given at construction.
func (t *Timer) Name() string { return t.name }

// Delay returns the configured delay.
func (t *Timer) Delay() time.Duration { return t.delay }

// SetDelay changes the delay used by subsequent starts.
func (t *Timer) SetDelay(d time.Duration) { t.delay = d }

// Active reports whether an expiry is pending.
func (t *Timer) Active() bool { return t.active && !t.disposed }

// Start (re)arms the timer and returns the command that delivers its expiry.
func (t *Timer) Start() tea.Cmd {
	if t.disposed {
		return nil
	}
	t.seq++
	t.active = true
	return t.sched.Schedule(t.delay, FiredMsg{ID: t.id, Seq: t.seq})
}

// Stop cancels a pending expiry.
func (t *Timer) Stop() {
	if !t.active {
		return
	}
	t.active = false
	t.seq++
}

// Dispose stops the timer permanently.
func (t *Timer) Dispose() {
	t.Stop()
	t.disposed = true
}

// Disposed reports whether Dispose has been called.
func (t *Timer) Disposed() bool { return t.disposed }

// Fired reports whether msg is the current expiry of this timer and, if so,
// marks the timer idle. Stale, foreign and post-dispose messages return false.
func (t *Timer) Fired(msg tea.Msg) bool {
	fired, ok := msg.(FiredMsg)
	if !ok || fired.ID != t.id {
		return false
	}
	if t.disposed || !t.active || fired.Seq != t.seq {
		return false
	}
	t.active = false
	return true
}

// Manual is a Scheduler driven by Advance instead of wall time.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	order   int
	pending []manualEntry
}

type manualEntry struct {
	due   time.Duration
	order int
	msg   tea.Msg
}

// NewManual returns a Manual scheduler at time zero.
func NewManual() *Manual {
	return &Manual{}
}

// Schedule records msg for delivery by Advance and returns a nil command.
func (m *Manual) Schedule(d time.Duration, msg tea.Msg) tea.Cmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order++
	m.pending = append(m.pending, manualEntry{due: m.now + d, order: m.order, msg: msg})
	return nil
}

// Advance moves the clock forward and returns the messages that became due,
// in due order.
func (m *Manual) Advance(d time.Duration) []tea.Msg {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now += d
	var due, keep []manualEntry
	for _, entry := range m.pending {
		if entry.due <= m.now {
			due = append(due, entry)
		} else {
			keep = append(keep, entry)
		}
	}
	m.pending = keep
	sort.SliceStable(due, func(i, j int) bool {
		if due[i].due == due[j].due {
			return due[i].order < due[j].order
		}
		return due[i].due < due[j].due
	})
	msgs := make([]tea.Msg, len(due))
	for i, entry := range due {
		msgs[i] = entry.msg
	}
	return msgs
}

// Pending returns the number of undelivered messages.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Now returns the elapsed manual time.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}
