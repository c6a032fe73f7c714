// Package selection tracks what a dropdown cell has selected and renders the
// compact summary shown in the cell.
package selection

import (
	"sort"
	"strings"

	"github.com/atomicstack/cellcombo/internal/catalog"
	"github.com/atomicstack/cellcombo/internal/ui/state"
)

// AllText is the summary shown when every item is checked.
const AllText = "All"

// Separator joins short texts in a summary.
const Separator = ", "

// Single holds at most one committed item.
type Single struct {
	item *catalog.Item
}

// Commit replaces the selection. A nil item clears it.
func (s *Single) Commit(item *catalog.Item) bool {
	prev := s.ID()
	if item == nil {
		s.item = nil
	} else {
		dup := *item
		s.item = &dup
	}
	return prev != s.ID()
}

// Get returns the selected item.
func (s *Single) Get() (catalog.Item, bool) {
	if s.item == nil {
		return catalog.Item{}, false
	}
	return *s.item, true
}

// ID returns the identity of the selected item, or "".
func (s *Single) ID() string {
	if s.item == nil {
		return ""
	}
	return s.item.ID
}

// Clear is Commit(nil).
func (s *Single) Clear() bool {
	return s.Commit(nil)
}

// Multi holds a set of checked identities, always a subset of its catalog.
type Multi struct {
	catalog *catalog.Catalog
	checked state.CheckSet
}

// NewMulti returns an empty selection over c.
func NewMulti(c *catalog.Catalog) *Multi {
	return &Multi{catalog: c, checked: state.CheckSet{}}
}

// Catalog returns the catalog the selection is bound to.
func (m *Multi) Catalog() *catalog.Catalog { return m.catalog }

// SetCatalog rebinds the selection and drops identities the new catalog lacks.
func (m *Multi) SetCatalog(c *catalog.Catalog) bool {
	m.catalog = c
	return m.checked.Retain(c.Contains)
}

// SetChecked checks or unchecks id. Identities outside the catalog are ignored.
func (m *Multi) SetChecked(id string, checked bool) bool {
	if checked && !m.catalog.Contains(id) {
		return false
	}
	return m.checked.Set(id, checked)
}

// Toggle flips id.
func (m *Multi) Toggle(id string) bool {
	return m.SetChecked(id, !m.checked.Has(id))
}

// IsChecked reports whether id is checked.
func (m *Multi) IsChecked(id string) bool {
	return m.checked.Has(id)
}

// SelectAll checks every catalog item.
func (m *Multi) SelectAll() bool {
	changed := false
	for _, item := range m.catalog.Items() {
		if m.checked.Set(item.ID, true) {
			changed = true
		}
	}
	return changed
}

// ClearAll unchecks everything.
func (m *Multi) ClearAll() bool {
	return m.checked.Clear()
}

// SetCheckedByLongText replaces the selection with the items whose long text
// is in longs. Unknown texts are ignored.
func (m *Multi) SetCheckedByLongText(longs []string) bool {
	want := make(map[string]struct{}, len(longs))
	for _, long := range longs {
		if item, ok := m.catalog.ByLong(long); ok {
			want[item.ID] = struct{}{}
		}
	}
	changed := m.checked.Retain(func(id string) bool {
		_, ok := want[id]
		return ok
	})
	for id := range want {
		if m.checked.Set(id, true) {
			changed = true
		}
	}
	return changed
}

// CheckedItems returns the checked items in catalog order.
func (m *Multi) CheckedItems() []catalog.Item {
	if len(m.checked) == 0 {
		return nil
	}
	out := make([]catalog.Item, 0, len(m.checked))
	seen := make(map[string]struct{}, len(m.checked))
	for _, item := range m.catalog.Items() {
		if _, dup := seen[item.ID]; dup || !m.checked.Has(item.ID) {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}

// Count returns the number of checked items.
func (m *Multi) Count() int { return len(m.checked) }

// Total returns the number of distinct catalog items.
func (m *Multi) Total() int {
	seen := make(map[string]struct{}, m.catalog.Len())
	for _, item := range m.catalog.Items() {
		seen[item.ID] = struct{}{}
	}
	return len(seen)
}

// SelectAllEnabled reports whether checking everything would change anything.
func (m *Multi) SelectAllEnabled() bool { return m.Count() < m.Total() }

// ClearEnabled reports whether anything is checked.
func (m *Multi) ClearEnabled() bool { return m.Count() > 0 }

// Summary returns "" when nothing is checked, AllText when everything is,
// and otherwise the sorted short texts joined by Separator.
func Summary(m *Multi) string {
	count := m.Count()
	if count == 0 {
		return ""
	}
	if count == m.Total() {
		return AllText
	}
	items := m.CheckedItems()
	shorts := make([]string, len(items))
	for i, item := range items {
		shorts[i] = item.Short
	}
	sort.Strings(shorts)
	return strings.Join(shorts, Separator)
}
