package selection

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Ellipsis marks truncated text.
const Ellipsis = "..."

// Width measures terminal cells.
func Width(s string) int {
	return ansi.StringWidth(s)
}

// Truncate fits text into budget cells as measured by measure (Width when
// nil). Text that fits is returned unchanged; otherwise runes are dropped
// from the end and Ellipsis appended until the result fits. When no prefix
// fits, Ellipsis alone is returned, clipped to the budget.
func Truncate(text string, budget int, measure func(string) int) string {
	if measure == nil {
		measure = Width
	}
	if measure(text) <= budget {
		return text
	}
	runes := []rune(text)
	for n := len(runes) - 1; n > 0; n-- {
		candidate := string(runes[:n]) + Ellipsis
		if measure(candidate) <= budget {
			return candidate
		}
	}
	if measure(Ellipsis) <= budget {
		return Ellipsis
	}
	if budget <= 0 {
		return ""
	}
	return strings.Repeat(".", budget)
}

// Display returns the summary truncated to budget along with the full text
// for the tooltip.
func Display(m *Multi, budget int) (display, tooltip string) {
	full := Summary(m)
	return Truncate(full, budget, nil), full
}
