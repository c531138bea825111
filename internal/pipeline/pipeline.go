// Package pipeline merges item lists from several sources, filters them and
// orders them. Apply always runs the same steps in the same order:
// concatenate, dedupe by Key (first wins), filter (all predicates), stable sort.
package pipeline

import (
	"slices"

	"github.com/mmcdole/marquee/internal/domain"
)

// Predicate reports whether an item stays in the result.
// Predicates must be pure and total over every CatalogItem variant.
type Predicate func(domain.CatalogItem) bool

// Comparator orders two items: negative if a sorts first, 0 if equal
type Comparator func(a, b domain.CatalogItem) int

// Apply runs the merge/filter/sort steps. A nil comparator keeps fetch order.
func Apply(lists [][]domain.CatalogItem, preds []Predicate, cmp Comparator) []domain.CatalogItem {
	total := 0
	for _, l := range lists {
		total += len(l)
	}

	merged := make([]domain.CatalogItem, 0, total)
	for _, l := range lists {
		merged = append(merged, l...)
	}

	merged, _ = Dedupe(merged, nil)
	merged = Filter(merged, preds)

	if cmp != nil {
		slices.SortStableFunc(merged, cmp)
	}
	return merged
}

// Dedupe drops items whose Key was already seen, keeping the first occurrence.
// seen may be nil; when given it is consulted and updated, which lets callers
// dedupe a new page against items they already hold.
func Dedupe(items []domain.CatalogItem, seen map[domain.Key]struct{}) ([]domain.CatalogItem, int) {
	if seen == nil {
		seen = make(map[domain.Key]struct{}, len(items))
	}
	out := items[:0:0]
	removed := 0
	for _, item := range items {
		if item == nil {
			removed++
			continue
		}
		key := item.Key()
		if _, dup := seen[key]; dup {
			removed++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out, removed
}

// Filter keeps items passing every predicate
func Filter(items []domain.CatalogItem, preds []Predicate) []domain.CatalogItem {
	if len(preds) == 0 {
		return items
	}
	out := make([]domain.CatalogItem, 0, len(items))
	for _, item := range items {
		if passes(item, preds) {
			out = append(out, item)
		}
	}
	return out
}

func passes(item domain.CatalogItem, preds []Predicate) bool {
	for _, p := range preds {
		if p != nil && !p(item) {
			return false
		}
	}
	return true
}
