package domain

import (
	"fmt"
	"time"
)

// Kind distinguishes catalog item variants. Values match the catalog's media_type.
type Kind string

const (
	KindMovie  Kind = "movie"
	KindTV     Kind = "tv"
	KindPerson Kind = "person"
)

// String returns a human-readable label for the kind
func (k Kind) String() string {
	switch k {
	case KindMovie:
		return "Movie"
	case KindTV:
		return "TV Show"
	case KindPerson:
		return "Person"
	default:
		return "Unknown"
	}
}

// ParseKind converts a media_type value to a Kind
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindMovie, KindTV, KindPerson:
		return Kind(s), true
	default:
		return "", false
	}
}

// Key identifies a catalog item. IDs are only unique within a kind.
type Key struct {
	Kind Kind
	ID   int
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%d", k.Kind, k.ID)
}

// CatalogItem is a movie, TV show or person. The set of implementations is
// closed: *Movie, *TvShow and *Person.
type CatalogItem interface {
	Kind() Kind
	Key() Key
	DisplayName() string
	GetPopularity() float64
	Poster() string

	catalogItem()
}

// Movie is a feature film entry
type Movie struct {
	ID          int
	Title       string
	Overview    string
	Popularity  float64
	PosterPath  string  // Empty when the catalog has no poster
	VoteAverage float64 // 0-10
	VoteCount   int
	ReleaseDate time.Time // Zero when unknown
	GenreIDs    []int
}

func (m *Movie) Kind() Kind             { return KindMovie }
func (m *Movie) Key() Key               { return Key{Kind: KindMovie, ID: m.ID} }
func (m *Movie) DisplayName() string    { return m.Title }
func (m *Movie) GetPopularity() float64 { return m.Popularity }
func (m *Movie) Poster() string         { return m.PosterPath }
func (m *Movie) catalogItem()           {}

// TvShow is a television series entry
type TvShow struct {
	ID           int
	Name         string
	Overview     string
	Popularity   float64
	PosterPath   string
	VoteAverage  float64
	VoteCount    int
	FirstAirDate time.Time
	GenreIDs     []int
}

func (s *TvShow) Kind() Kind             { return KindTV }
func (s *TvShow) Key() Key               { return Key{Kind: KindTV, ID: s.ID} }
func (s *TvShow) DisplayName() string    { return s.Name }
func (s *TvShow) GetPopularity() float64 { return s.Popularity }
func (s *TvShow) Poster() string         { return s.PosterPath }
func (s *TvShow) catalogItem()           {}

// Gender follows the catalog's numeric codes
type Gender int

const (
	GenderUnspecified Gender = iota
	GenderFemale
	GenderMale
	GenderNonBinary
)

// String returns a human-readable representation of the gender
func (g Gender) String() string {
	switch g {
	case GenderFemale:
		return "Female"
	case GenderMale:
		return "Male"
	case GenderNonBinary:
		return "Non-binary"
	default:
		return "Unspecified"
	}
}

// MaxKnownFor bounds the number of credits kept on a Person
const MaxKnownFor = 3

// Person is a cast or crew member
type Person struct {
	ID                 int
	Name               string
	Popularity         float64
	ProfilePath        string
	Gender             Gender
	KnownForDepartment string
	KnownFor           []CatalogItem // At most MaxKnownFor summaries
}

func (p *Person) Kind() Kind             { return KindPerson }
func (p *Person) Key() Key               { return Key{Kind: KindPerson, ID: p.ID} }
func (p *Person) DisplayName() string    { return p.Name }
func (p *Person) GetPopularity() float64 { return p.Popularity }
func (p *Person) Poster() string         { return p.ProfilePath }
func (p *Person) catalogItem()           {}

// PageResult is one page of a paginated catalog collection
type PageResult struct {
	Items      []CatalogItem
	Page       int
	TotalPages int
}

// Exhausted returns true when no page follows this one
func (p PageResult) Exhausted() bool {
	return p.Page >= p.TotalPages
}

// RatingOf returns the vote average. People carry no rating.
func RatingOf(item CatalogItem) (float64, bool) {
	switch v := item.(type) {
	case *Movie:
		return v.VoteAverage, true
	case *TvShow:
		return v.VoteAverage, true
	case *Person:
		return 0, false
	default:
		return 0, false
	}
}

// VotesOf returns the vote count, 0 when the item has none
func VotesOf(item CatalogItem) int {
	switch v := item.(type) {
	case *Movie:
		return v.VoteCount
	case *TvShow:
		return v.VoteCount
	case *Person:
		return 0
	default:
		return 0
	}
}

// ReleasedOn returns the release or first-air date
func ReleasedOn(item CatalogItem) (time.Time, bool) {
	switch v := item.(type) {
	case *Movie:
		return v.ReleaseDate, !v.ReleaseDate.IsZero()
	case *TvShow:
		return v.FirstAirDate, !v.FirstAirDate.IsZero()
	case *Person:
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// YearOf returns the release year, or 0 when unknown
func YearOf(item CatalogItem) int {
	if t, ok := ReleasedOn(item); ok {
		return t.Year()
	}
	return 0
}

// GenresOf returns the genre IDs of a movie or show
func GenresOf(item CatalogItem) []int {
	switch v := item.(type) {
	case *Movie:
		return v.GenreIDs
	case *TvShow:
		return v.GenreIDs
	case *Person:
		return nil
	default:
		return nil
	}
}

// Describe returns secondary info for display (e.g. "Movie • 2024 • ★ 7.9")
func Describe(item CatalogItem) string {
	desc := item.Kind().String()
	switch v := item.(type) {
	case *Movie, *TvShow:
		if year := YearOf(v); year > 0 {
			desc += fmt.Sprintf(" • %d", year)
		}
		if rating, ok := RatingOf(v); ok && rating > 0 {
			desc += fmt.Sprintf(" • ★ %.1f", rating)
		}
	case *Person:
		if len(v.KnownFor) > 0 {
			desc += " • " + v.KnownFor[0].DisplayName()
		} else if v.KnownForDepartment != "" {
			desc += " • " + v.KnownForDepartment
		}
	}
	return desc
}
