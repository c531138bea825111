package tmdb

import (
	"strings"
	"time"

	"github.com/mmcdole/marquee/internal/domain"
)

const dateLayout = "2006-01-02"

// MapPage converts a page envelope to a domain page. Entries whose kind
// cannot be determined are dropped.
func MapPage(resp *PageResponse, hint domain.Kind, requestedPage int) *domain.PageResult {
	page := resp.Page
	if page < 1 {
		page = max(requestedPage, 1)
	}
	return &domain.PageResult{
		Items:      MapResults(resp.Results, hint),
		Page:       page,
		TotalPages: max(resp.TotalPages, 0),
	}
}

// MapResults converts collection entries to catalog items
func MapResults(results []Result, hint domain.Kind) []domain.CatalogItem {
	items := make([]domain.CatalogItem, 0, len(results))
	for _, r := range results {
		if item := mapResult(r, hint); item != nil {
			items = append(items, item)
		}
	}
	return items
}

func mapResult(r Result, hint domain.Kind) domain.CatalogItem {
	switch resolveKind(r, hint) {
	case domain.KindMovie:
		return mapMovie(r)
	case domain.KindTV:
		return mapShow(r)
	case domain.KindPerson:
		return mapPerson(r)
	default:
		return nil
	}
}

// resolveKind prefers the entry's own media_type, then the endpoint's kind,
// then the fields the entry carries
func resolveKind(r Result, hint domain.Kind) domain.Kind {
	if r.MediaType != "" {
		kind, _ := domain.ParseKind(r.MediaType)
		return kind
	}
	if hint != "" {
		return hint
	}
	switch {
	case r.Title != "" || r.ReleaseDate != "":
		return domain.KindMovie
	case r.FirstAirDate != "":
		return domain.KindTV
	case r.KnownForDepartment != "" || r.ProfilePath != "" || len(r.KnownFor) > 0:
		return domain.KindPerson
	default:
		return ""
	}
}

func mapMovie(r Result) *domain.Movie {
	return &domain.Movie{
		ID:          r.ID,
		Title:       r.Title,
		Overview:    r.Overview,
		Popularity:  r.Popularity,
		PosterPath:  r.PosterPath,
		VoteAverage: r.VoteAverage,
		VoteCount:   r.VoteCount,
		ReleaseDate: parseDate(r.ReleaseDate),
		GenreIDs:    r.GenreIDs,
	}
}

func mapShow(r Result) *domain.TvShow {
	return &domain.TvShow{
		ID:           r.ID,
		Name:         r.Name,
		Overview:     r.Overview,
		Popularity:   r.Popularity,
		PosterPath:   r.PosterPath,
		VoteAverage:  r.VoteAverage,
		VoteCount:    r.VoteCount,
		FirstAirDate: parseDate(r.FirstAirDate),
		GenreIDs:     r.GenreIDs,
	}
}

func mapPerson(r Result) *domain.Person {
	p := &domain.Person{
		ID:                 r.ID,
		Name:               r.Name,
		Popularity:         r.Popularity,
		ProfilePath:        r.ProfilePath,
		Gender:             mapGender(r.Gender),
		KnownForDepartment: r.KnownForDepartment,
	}
	for _, credit := range r.KnownFor {
		if len(p.KnownFor) == domain.MaxKnownFor {
			break
		}
		// Credits are titles; a person inside known_for is malformed
		item := mapResult(credit, "")
		if item == nil || item.Kind() == domain.KindPerson {
			continue
		}
		p.KnownFor = append(p.KnownFor, item)
	}
	return p
}

func mapGender(code int) domain.Gender {
	switch domain.Gender(code) {
	case domain.GenderFemale, domain.GenderMale, domain.GenderNonBinary:
		return domain.Gender(code)
	default:
		return domain.GenderUnspecified
	}
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// KindHint derives the kind of every entry from an endpoint path such as
// "/movie/top_rated" or "/trending/tv/week". Mixed endpoints return "".
func KindHint(endpoint string) domain.Kind {
	for _, seg := range strings.Split(strings.Trim(endpoint, "/"), "/") {
		if kind, ok := domain.ParseKind(seg); ok {
			return kind
		}
	}
	return ""
}
