// Package catalog holds the read-only item lists offered by dropdown cells.
//
// A Catalog is built once and then shared by pointer between columns and
// editing widgets. Nothing in this module mutates a Catalog after New returns,
// so concurrent readers need no locking.
package catalog

import (
	"errors"
	"strings"
)

// ErrNoItems is returned by loaders when a source yields an empty list.
var ErrNoItems = errors.New("catalog has no items")

// Item is one selectable entry. Long is shown in dropdown lists, Short in
// compact summaries; ID is the identity used for set membership.
type Item struct {
	ID    string
	Long  string
	Short string
}

// String returns the long display form.
func (i Item) String() string {
	return i.Long
}

// Catalog is an immutable, ordered list of items.
type Catalog struct {
	name   string
	items  []Item
	byID   map[string]int
	byLong map[string]int
}

// New builds a catalog from items. Missing IDs fall back to the long text and
// missing short forms fall back to the long text. Later duplicates of an ID
// are kept in the list but lookups resolve to the first occurrence.
func New(name string, items []Item) *Catalog {
	c := &Catalog{
		name:   name,
		items:  make([]Item, 0, len(items)),
		byID:   make(map[string]int, len(items)),
		byLong: make(map[string]int, len(items)),
	}
	for _, item := range items {
		if item.ID == "" {
			item.ID = item.Long
		}
		if item.Short == "" {
			item.Short = item.Long
		}
		idx := len(c.items)
		c.items = append(c.items, item)
		if _, ok := c.byID[item.ID]; !ok {
			c.byID[item.ID] = idx
		}
		if _, ok := c.byLong[item.Long]; !ok {
			c.byLong[item.Long] = idx
		}
	}
	return c
}

// FromStrings builds a catalog whose items use the given long texts as
// identity, abbreviated to shortLen runes for the short form.
func FromStrings(name string, shortLen int, longs ...string) *Catalog {
	items := make([]Item, 0, len(longs))
	for _, long := range longs {
		items = append(items, Item{ID: long, Long: long, Short: Abbreviate(long, shortLen)})
	}
	return New(name, items)
}

// Abbreviate returns the first n runes of s, or s itself when shorter.
func Abbreviate(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n])
}

// Name returns the label the catalog was created with.
func (c *Catalog) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

// Len reports the number of items. A nil catalog is empty.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Items returns a copy of the item list in catalog order.
func (c *Catalog) Items() []Item {
	if c == nil || len(c.items) == 0 {
		return nil
	}
	dup := make([]Item, len(c.items))
	copy(dup, c.items)
	return dup
}

// At returns the item at index i.
func (c *Catalog) At(i int) Item {
	return c.items[i]
}

// ByID resolves an identity.
func (c *Catalog) ByID(id string) (Item, bool) {
	if c == nil {
		return Item{}, false
	}
	idx, ok := c.byID[id]
	if !ok {
		return Item{}, false
	}
	return c.items[idx], true
}

// ByLong resolves an item by its exact long text.
func (c *Catalog) ByLong(long string) (Item, bool) {
	if c == nil {
		return Item{}, false
	}
	idx, ok := c.byLong[long]
	if !ok {
		return Item{}, false
	}
	return c.items[idx], true
}

// Contains reports whether id belongs to the catalog.
func (c *Catalog) Contains(id string) bool {
	if c == nil {
		return false
	}
	_, ok := c.byID[id]
	return ok
}

// Index returns the position of id, or -1.
func (c *Catalog) Index(id string) int {
	if c == nil {
		return -1
	}
	if idx, ok := c.byID[id]; ok {
		return idx
	}
	return -1
}
