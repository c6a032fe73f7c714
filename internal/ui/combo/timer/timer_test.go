package timer

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestRestartInvalidatesEarlierExpiry(t *testing.T) {
	clock := NewManual()
	tm := New("debounce", 500*time.Millisecond, clock)

	tm.Start()
	clock.Advance(300 * time.Millisecond)
	tm.Start()

	msgs := clock.Advance(200 * time.Millisecond)
	if len(msgs) != 1 {
		t.Fatalf("expected first expiry delivered, got %d", len(msgs))
	}
	if tm.Fired(msgs[0]) {
		t.Fatalf("expected stale expiry ignored")
	}
	if !tm.Active() {
		t.Fatalf("expected timer still armed")
	}

	msgs = clock.Advance(300 * time.Millisecond)
	if len(msgs) != 1 || !tm.Fired(msgs[0]) {
		t.Fatalf("expected restarted expiry to fire, got %v", msgs)
	}
	if tm.Active() {
		t.Fatalf("expected timer idle after firing")
	}
	if tm.Fired(msgs[0]) {
		t.Fatalf("expected a second delivery to be ignored")
	}
}

func TestStopAndDispose(t *testing.T) {
	clock := NewManual()
	tm := New("close", 750*time.Millisecond, clock)
	tm.Start()
	tm.Stop()
	for _, msg := range clock.Advance(time.Second) {
		if tm.Fired(msg) {
			t.Fatalf("expected stopped timer not to fire")
		}
	}

	tm.Start()
	tm.Dispose()
	for _, msg := range clock.Advance(time.Second) {
		if tm.Fired(msg) {
			t.Fatalf("expected disposed timer not to fire")
		}
	}
	if cmd := tm.Start(); cmd != nil || tm.Active() {
		t.Fatalf("expected disposed timer to refuse restart")
	}
	if clock.Pending() != 0 {
		t.Fatalf("expected nothing scheduled after dispose, got %d", clock.Pending())
	}
}

func TestForeignMessagesIgnored(t *testing.T) {
	clock := NewManual()
	a := New("a", time.Millisecond, clock)
	b := New("b", time.Millisecond, clock)
	a.Start()
	b.Start()
	msgs := clock.Advance(time.Millisecond)
	if len(msgs) != 2 {
		t.Fatalf("expected both expiries, got %d", len(msgs))
	}
	if b.Fired(msgs[0]) || !a.Fired(msgs[0]) {
		t.Fatalf("expected first message to belong to a")
	}
	if a.Fired(tea.KeyMsg{}) {
		t.Fatalf("expected non-timer message ignored")
	}
}

func TestTeaSchedulerReturnsCommand(t *testing.T) {
	tm := New("tick", time.Nanosecond, nil)
	cmd := tm.Start()
	if cmd == nil {
		t.Fatalf("expected tick command")
	}
	if !tm.Fired(cmd()) {
		t.Fatalf("expected tick to deliver the current expiry")
	}
}
