// Package filter narrows a catalog to the items whose long text contains the
// typed tokens in order, applying requests after a debounce delay.
package filter

import (
	"regexp"
	"strings"

	"github.com/atomicstack/cellcombo/internal/catalog"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Compile builds the case-insensitive matcher for text. Tokens are the
// whitespace-separated words of text; each must appear in order, separated by
// at least one character. Empty text compiles to nil, which matches all.
func Compile(text string) *regexp.Regexp {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil
	}
	quoted := make([]string, len(tokens))
	for i, token := range tokens {
		quoted[i] = regexp.QuoteMeta(token)
	}
	return regexp.MustCompile("(?is).*" + strings.Join(quoted, ".+") + ".*")
}

// Matches reports whether item satisfies re.
func Matches(re *regexp.Regexp, item catalog.Item) bool {
	if re == nil {
		return true
	}
	return re.MatchString(item.Long)
}

// Items returns the items matching text, in input order.
func Items(items []catalog.Item, text string) []catalog.Item {
	re := Compile(text)
	filtered := make([]catalog.Item, 0, len(items))
	for _, item := range items {
		if Matches(re, item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// BestMatch returns the index of the item that best fits text: exact, then
// prefix, then substring, then fuzzy distance. Empty results return -1.
func BestMatch(items []catalog.Item, text string) int {
	if len(items) == 0 {
		return -1
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	lower := strings.ToLower(trimmed)
	for i, item := range items {
		if strings.EqualFold(item.Long, trimmed) || strings.EqualFold(item.ID, trimmed) {
			return i
		}
	}
	for i, item := range items {
		if strings.HasPrefix(strings.ToLower(item.Long), lower) {
			return i
		}
	}
	for i, item := range items {
		if strings.HasPrefix(strings.ToLower(item.ID), lower) {
			return i
		}
	}
	for i, item := range items {
		if strings.Contains(strings.ToLower(item.Long), lower) {
			return i
		}
	}
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Long
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels)
	if len(ranks) == 0 {
		return 0
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance {
			best = rank
			continue
		}
		if rank.Distance == best.Distance && rank.OriginalIndex < best.OriginalIndex {
			best = rank
		}
	}
	if best.OriginalIndex < 0 || best.OriginalIndex >= len(items) {
		return 0
	}
	return best.OriginalIndex
}
