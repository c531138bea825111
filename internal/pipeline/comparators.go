package pipeline

import (
	"cmp"
	"sync"

	"github.com/mmcdole/marquee/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Base comparators sort ascending. Items missing the compared value sort
// last in both directions: comparators report them with ±missingOrder,
// which Descending leaves alone.
const missingOrder = 2

// ByPopularity orders by popularity score
func ByPopularity(a, b domain.CatalogItem) int {
	return cmp.Compare(a.GetPopularity(), b.GetPopularity())
}

// ByRating orders by vote average
func ByRating(a, b domain.CatalogItem) int {
	ra, okA := domain.RatingOf(a)
	rb, okB := domain.RatingOf(b)
	if r, missing := compareMissing(okA, okB); missing {
		return r
	}
	return cmp.Compare(ra, rb)
}

// compareMissing orders items by presence of a value. It reports false when
// both have one.
func compareMissing(okA, okB bool) (int, bool) {
	switch {
	case okA && okB:
		return 0, false
	case !okA && !okB:
		return 0, true
	case !okA:
		return missingOrder, true
	default:
		return -missingOrder, true
	}
}

// ByVoteCount orders by number of votes
func ByVoteCount(a, b domain.CatalogItem) int {
	return cmp.Compare(domain.VotesOf(a), domain.VotesOf(b))
}

// ByReleaseDate orders by release or first-air date
func ByReleaseDate(a, b domain.CatalogItem) int {
	ta, okA := domain.ReleasedOn(a)
	tb, okB := domain.ReleasedOn(b)
	if r, missing := compareMissing(okA, okB); missing {
		return r
	}
	return ta.Compare(tb)
}

// ByTitle returns a locale-aware alphabetical comparator.
// Collators keep scratch buffers, so each comparator owns one behind a lock.
func ByTitle(tag language.Tag) Comparator {
	var mu sync.Mutex
	c := collate.New(tag, collate.Loose)
	return func(a, b domain.CatalogItem) int {
		mu.Lock()
		defer mu.Unlock()
		return c.CompareString(a.DisplayName(), b.DisplayName())
	}
}

// Descending reverses a comparator, keeping items without a value last
func Descending(c Comparator) Comparator {
	return func(a, b domain.CatalogItem) int {
		r := c(a, b)
		if r == missingOrder || r == -missingOrder {
			return r
		}
		return -r
	}
}

// Then breaks ties of the first comparator with the second
func Then(first, second Comparator) Comparator {
	return func(a, b domain.CatalogItem) int {
		if r := first(a, b); r != 0 {
			return r
		}
		return second(a, b)
	}
}
