package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestViewShowsTitleAndHeader(t *testing.T) {
	m, _ := newTestModel(Options{Title: "week 42", Width: 80, Height: 12})
	view := ansi.Strip(m.View())
	lines := strings.Split(view, "\n")
	if lines[0] != "week 42" {
		t.Fatalf("expected title on the first line, got %q", lines[0])
	}
	for _, want := range []string{"Customer", "Project", "Type", "Km"} {
		if !strings.Contains(lines[1], want) {
			t.Fatalf("expected %q in header line %q", want, lines[1])
		}
	}
}

func TestViewDefaultsTitle(t *testing.T) {
	m, _ := newTestModel(Options{})
	if got := strings.Split(ansi.Strip(m.View()), "\n")[0]; got != defaultTitle {
		t.Fatalf("expected default title %q, got %q", defaultTitle, got)
	}
}

func TestLimitHeightAddsEllipsis(t *testing.T) {
	lines := []styledLine{{text: "a"}, {text: "b"}, {text: "c"}}
	got := limitHeight(lines, 2, 10)
	if len(got) != 2 || got[1].text != "…" {
		t.Fatalf("unexpected trimmed lines %#v", got)
	}
	if got := limitHeight(lines, 1, 10); len(got) != 1 || got[0].text != "…" {
		t.Fatalf("unexpected single line %#v", got)
	}
	if got := limitHeight(lines, 0, 10); len(got) != 3 {
		t.Fatalf("expected unlimited height to keep every line, got %d", len(got))
	}
}

func TestTruncateText(t *testing.T) {
	cases := []struct {
		text  string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 4, "hel…"},
		{"hello", 1, "h"},
		{"hello", 0, "hello"},
	}
	for _, tc := range cases {
		if got := truncateText(tc.text, tc.width); got != tc.want {
			t.Fatalf("truncateText(%q, %d) = %q, want %q", tc.text, tc.width, got, tc.want)
		}
	}
}

func TestApplyWidthTruncatesRawLines(t *testing.T) {
	raw := "\x1b[1mabcdefghij\x1b[0m"
	got := applyWidth([]styledLine{{text: raw, raw: true}}, 5)
	if w := ansi.StringWidth(got[0].text); w != 5 {
		t.Fatalf("expected raw line to fill exactly 5 cells, got %d (%q)", w, got[0].text)
	}
	if !strings.HasPrefix(ansi.Strip(got[0].text), "abcd") {
		t.Fatalf("expected raw line to keep its prefix, got %q", ansi.Strip(got[0].text))
	}
}
