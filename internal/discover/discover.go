// Package discover builds listing configurations for the browse surfaces:
// trending, top rated, people and full search results.
package discover

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/listing"
	"github.com/mmcdole/marquee/internal/pipeline"
)

const (
	// DefaultTrendingCap bounds the trending listing
	DefaultTrendingCap = 30

	// PeopleSearchDebounce is the delay before a people query is sent
	PeopleSearchDebounce = 500 * time.Millisecond
)

// Presets holds the settings shared by every surface
type Presets struct {
	Language     string // Request language, e.g. "en-US"
	IncludeAdult bool
	TrendingCap  int
	PopularCap   int
	PeopleCap    int
}

// DefaultPresets returns the stock surface settings
func DefaultPresets() Presets {
	return Presets{Language: "en-US", TrendingCap: DefaultTrendingCap}
}

func (p Presets) params(extra domain.Params) domain.Params {
	params := extra.Clone()
	if p.Language != "" {
		params["language"] = p.Language
	}
	return params
}

func (p Presets) collation() language.Tag {
	tag, err := language.Parse(p.Language)
	if err != nil {
		return language.English
	}
	return tag
}

// TrendingFilter selects what the trending surface shows
type TrendingFilter struct {
	Media  Media
	Window Window
	Genre  int // 0 means every genre
	Sort   Sort
}

// DefaultTrending matches the surface's initial state
func DefaultTrending() TrendingFilter {
	return TrendingFilter{Media: MediaAll, Window: WindowDay, Sort: SortPopularity}
}

// Trending merges the movie and show trending collections
func (p Presets) Trending(f TrendingFilter) listing.Config {
	window := f.Window
	if window == "" {
		window = WindowDay
	}

	var sources []listing.Source
	for _, kind := range mediaKinds(f.Media) {
		sources = append(sources, listing.Source{
			Name:     string(kind),
			Endpoint: fmt.Sprintf("/trending/%s/%s", string(kind), window),
			Params:   p.params(nil),
		})
	}

	var preds []pipeline.Predicate
	if f.Genre != 0 {
		preds = append(preds, pipeline.HasGenre(f.Genre))
	}

	return listing.Config{
		Name:       fmt.Sprintf("Trending %s · %s", f.Media.Label(), window.Label()),
		Sources:    sources,
		Predicates: preds,
		Comparator: p.comparator(f.Sort),
		Cap:        p.TrendingCap,
	}
}

// PopularFilter selects what the top rated surface shows
type PopularFilter struct {
	Media     Media
	Sort      Sort
	MinRating float64
	MinVotes  int
	Genre     int // 0 means every genre
	Year      int // 0 means every year
}

// DefaultPopular matches the surface's initial state
func DefaultPopular() PopularFilter {
	return PopularFilter{Media: MediaAll, Sort: SortRating}
}

// Popular merges the top rated movie and show collections
func (p Presets) Popular(f PopularFilter) listing.Config {
	var sources []listing.Source
	for _, kind := range mediaKinds(f.Media) {
		sources = append(sources, listing.Source{
			Name:     string(kind),
			Endpoint: fmt.Sprintf("/%s/top_rated", string(kind)),
			Params:   p.params(nil),
		})
	}

	var preds []pipeline.Predicate
	if f.MinRating > 0 {
		preds = append(preds, pipeline.MinRating(f.MinRating))
	}
	if f.MinVotes > 0 {
		preds = append(preds, pipeline.MinVotes(f.MinVotes))
	}
	if f.Genre != 0 {
		preds = append(preds, pipeline.HasGenre(f.Genre))
	}
	if f.Year != 0 {
		preds = append(preds, pipeline.ReleaseYear(f.Year))
	}

	return listing.Config{
		Name:       "Top Rated " + f.Media.Label(),
		Sources:    sources,
		Predicates: preds,
		Comparator: p.comparator(f.Sort),
		Cap:        p.PopularCap,
	}
}

// PeopleFilter selects what the people surface shows
type PeopleFilter struct {
	Query      string        // Non-blank switches from popular people to search
	Gender     domain.Gender // AnyGender disables the filter
	Department string        // Empty means every department
	Sort       PeopleSort
}

// DefaultPeople matches the surface's initial state
func DefaultPeople() PeopleFilter {
	return PeopleFilter{Gender: AnyGender, Sort: PeoplePopularityDesc}
}

// People lists popular people, or people matching Query
func (p Presets) People(f PeopleFilter) listing.Config {
	src := listing.Source{Name: "people", Endpoint: "/person/popular", Params: p.params(nil)}
	name := "Popular People"
	if q := strings.TrimSpace(f.Query); q != "" {
		src = listing.Source{
			Name:     "people",
			Endpoint: "/search/person",
			Params:   p.params(domain.Params{"query": f.Query}),
		}
		name = fmt.Sprintf("People matching %q", q)
	}

	preds := []pipeline.Predicate{pipeline.KindIn(domain.KindPerson)}
	if f.Gender != AnyGender {
		preds = append(preds, pipeline.GenderIs(f.Gender))
	}
	if f.Department != "" {
		preds = append(preds, pipeline.DepartmentIs(f.Department))
	}

	var cmp pipeline.Comparator
	switch f.Sort {
	case PeoplePopularityAsc:
		cmp = pipeline.ByPopularity
	case PeopleNameAsc:
		cmp = pipeline.ByTitle(p.collation())
	case PeopleNameDesc:
		cmp = pipeline.Descending(pipeline.ByTitle(p.collation()))
	default:
		cmp = pipeline.Descending(pipeline.ByPopularity)
	}

	return listing.Config{
		Name:       name,
		Sources:    []listing.Source{src},
		Predicates: preds,
		Comparator: cmp,
		Cap:        p.PeopleCap,
	}
}

// SearchResults is the full results page behind "view all"
func (p Presets) SearchResults(query string) listing.Config {
	return listing.Config{
		Name: fmt.Sprintf("Results for %q", strings.TrimSpace(query)),
		Sources: []listing.Source{{
			Name:     "search",
			Endpoint: "/search/multi",
			Params: p.params(domain.Params{
				"query":         query,
				"include_adult": strconv.FormatBool(p.IncludeAdult),
			}),
		}},
		Predicates: []pipeline.Predicate{pipeline.KindIn(domain.KindMovie, domain.KindTV, domain.KindPerson)},
	}
}

func (p Presets) comparator(s Sort) pipeline.Comparator {
	switch s {
	case SortRating:
		return pipeline.Descending(pipeline.ByRating)
	case SortVotes:
		return pipeline.Descending(pipeline.ByVoteCount)
	case SortRelease:
		return pipeline.Descending(pipeline.ByReleaseDate)
	case SortTitle:
		return pipeline.ByTitle(p.collation())
	default:
		return pipeline.Descending(pipeline.ByPopularity)
	}
}

func mediaKinds(m Media) []domain.Kind {
	switch m {
	case MediaMovie:
		return []domain.Kind{domain.KindMovie}
	case MediaTV:
		return []domain.Kind{domain.KindTV}
	default:
		return []domain.Kind{domain.KindMovie, domain.KindTV}
	}
}
