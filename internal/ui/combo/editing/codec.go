package editing

import (
	"strings"

	"github.com/atomicstack/cellcombo/internal/catalog"
)

const (
	// SummarySep separates the summary from the long-text list.
	SummarySep = ";"
	// ListSep joins long texts.
	ListSep = ","
)

// EncodeMulti builds "<summary>;<long1,long2,...>".
func EncodeMulti(summary string, longs []string) string {
	return summary + SummarySep + strings.Join(longs, ListSep)
}

// DecodeMulti splits a multi-select value at its first separator. The
// summary is informational; longs is the source of truth. A value without
// a separator is read as a bare long-text list.
func DecodeMulti(value string) (summary string, longs []string) {
	list := value
	if idx := strings.Index(value, SummarySep); idx >= 0 {
		summary = value[:idx]
		list = value[idx+len(SummarySep):]
	}
	for _, part := range strings.Split(list, ListSep) {
		if part = strings.TrimSpace(part); part != "" {
			longs = append(longs, part)
		}
	}
	return summary, longs
}

// EncodeSingle is the identity of the selected item, or "" when none.
func EncodeSingle(item catalog.Item, ok bool) string {
	if !ok {
		return ""
	}
	return item.ID
}

// DecodeSingle resolves a stored single-select value, trying the identity
// first and the long text as a fallback.
func DecodeSingle(c *catalog.Catalog, value string) (catalog.Item, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return catalog.Item{}, false
	}
	if item, ok := c.ByID(value); ok {
		return item, true
	}
	return c.ByLong(value)
}
