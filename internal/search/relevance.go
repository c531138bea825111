package search

import (
	"cmp"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/pipeline"
)

// Relevance orders items by how closely their display name matches query.
// Ties keep the catalog's own order because the pipeline sorts stably.
func Relevance(query string) pipeline.Comparator {
	query = strings.ToLower(strings.TrimSpace(query))
	return func(a, b domain.CatalogItem) int {
		return cmp.Compare(MatchScore(a.DisplayName(), query), MatchScore(b.DisplayName(), query))
	}
}

// MatchScore scores a title against a lowercase query. Lower is better.
func MatchScore(title, query string) int {
	title = strings.ToLower(title)

	// Exact match is best
	if title == query {
		return 0
	}

	if strings.HasPrefix(title, query) {
		return 10
	}

	if strings.Contains(title, query) {
		return 50
	}

	// Every query rune appears in order
	if fuzzy.MatchFold(query, title) {
		return min(75+fuzzy.RankMatchFold(query, title)/10, 99)
	}

	return 100 + fuzzy.LevenshteinDistance(query, title)
}
