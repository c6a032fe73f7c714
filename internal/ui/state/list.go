package state

import "github.com/atomicstack/cellcombo/internal/catalog"

// List holds the visible rows of a dropdown together with the highlighted
// row and the scroll offset.
type List struct {
	Items          []catalog.Item
	Cursor         int
	ViewportOffset int
}

// NewList constructs a List with no highlighted row.
func NewList(items []catalog.Item) *List {
	l := &List{Cursor: -1}
	l.SetItems(items)
	return l
}

// SetItems replaces the rows. The highlight follows the previously
// highlighted item when it survives, otherwise it resets to the first row.
func (l *List) SetItems(items []catalog.Item) {
	prevID := ""
	if item, ok := l.Current(); ok {
		prevID = item.ID
	}
	l.Items = CloneItems(items)
	if len(l.Items) == 0 {
		l.Cursor = -1
		l.ViewportOffset = 0
		return
	}
	if idx := l.IndexOf(prevID); idx >= 0 {
		l.Cursor = idx
	} else if l.Cursor >= len(l.Items) || l.Cursor < 0 {
		l.Cursor = 0
	}
	if l.ViewportOffset > len(l.Items)-1 {
		l.ViewportOffset = 0
	}
}

// IndexOf returns the row index for an item identity.
func (l *List) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range l.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Current returns the highlighted item.
func (l *List) Current() (catalog.Item, bool) {
	if l == nil || l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return catalog.Item{}, false
	}
	return l.Items[l.Cursor], true
}

// Len returns the number of rows.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Items)
}

// CloneItems produces a shallow copy of the provided items.
func CloneItems(items []catalog.Item) []catalog.Item {
	dup := make([]catalog.Item, len(items))
	copy(dup, items)
	return dup
}
