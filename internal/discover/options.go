package discover

import (
	"fmt"
	"slices"

	"github.com/mmcdole/marquee/internal/domain"
)

// Media selects movies, shows or both
type Media string

const (
	MediaAll   Media = "all"
	MediaMovie Media = "movie"
	MediaTV    Media = "tv"
)

var mediaOrder = []Media{MediaAll, MediaMovie, MediaTV}

func (m Media) Label() string {
	switch m {
	case MediaMovie:
		return "Movies"
	case MediaTV:
		return "TV Shows"
	default:
		return "All Media"
	}
}

func (m Media) Next() Media { return next(mediaOrder, m) }

// Window is the trending time window
type Window string

const (
	WindowDay  Window = "day"
	WindowWeek Window = "week"
)

var windowOrder = []Window{WindowDay, WindowWeek}

func (w Window) Label() string {
	if w == WindowWeek {
		return "This Week"
	}
	return "Today"
}

func (w Window) Next() Window { return next(windowOrder, w) }

// Sort orders a listing. Numeric and date keys sort highest first,
// titles alphabetically.
type Sort string

const (
	SortPopularity Sort = "popularity"
	SortRating     Sort = "vote_average"
	SortVotes      Sort = "vote_count"
	SortRelease    Sort = "release_date"
	SortTitle      Sort = "title"
)

// TrendingSorts and PopularSorts list the orders each surface offers
var (
	TrendingSorts = []Sort{SortPopularity, SortRating, SortRelease, SortTitle}
	PopularSorts  = []Sort{SortRating, SortVotes, SortPopularity, SortRelease, SortTitle}
)

func (s Sort) Label() string {
	switch s {
	case SortRating:
		return "Highest Rated"
	case SortVotes:
		return "Most Voted"
	case SortRelease:
		return "Latest Release"
	case SortTitle:
		return "Alphabetical"
	default:
		return "Most Popular"
	}
}

// PeopleSort orders the people listing
type PeopleSort string

const (
	PeoplePopularityDesc PeopleSort = "popularity.desc"
	PeoplePopularityAsc  PeopleSort = "popularity.asc"
	PeopleNameAsc        PeopleSort = "name.asc"
	PeopleNameDesc       PeopleSort = "name.desc"
)

var peopleSortOrder = []PeopleSort{PeoplePopularityDesc, PeoplePopularityAsc, PeopleNameAsc, PeopleNameDesc}

func (s PeopleSort) Label() string {
	switch s {
	case PeoplePopularityAsc:
		return "Least Popular"
	case PeopleNameAsc:
		return "Name A-Z"
	case PeopleNameDesc:
		return "Name Z-A"
	default:
		return "Most Popular"
	}
}

func (s PeopleSort) Next() PeopleSort { return next(peopleSortOrder, s) }

// AnyGender disables the gender filter
const AnyGender domain.Gender = -1

// Departments offered by the people filter
var Departments = []string{
	"Acting", "Directing", "Production", "Writing", "Sound", "Camera",
	"Editing", "Art", "Costume & Make-Up", "Visual Effects",
}

// Genre is a catalog genre
type Genre struct {
	ID   int
	Name string
}

// Genres offered by the trending and popular filters
var Genres = []Genre{
	{28, "Action"}, {12, "Adventure"}, {16, "Animation"}, {35, "Comedy"},
	{80, "Crime"}, {99, "Documentary"}, {18, "Drama"}, {10751, "Family"},
	{14, "Fantasy"}, {36, "History"}, {27, "Horror"}, {10402, "Music"},
	{9648, "Mystery"}, {10749, "Romance"}, {878, "Science Fiction"},
	{10770, "TV Movie"}, {53, "Thriller"}, {10752, "War"}, {37, "Western"},
}

// GenreName returns the name of a genre ID, "All Genres" for 0
func GenreName(id int) string {
	if id == 0 {
		return "All Genres"
	}
	for _, g := range Genres {
		if g.ID == id {
			return g.Name
		}
	}
	return fmt.Sprintf("Genre %d", id)
}

// NextGenre cycles through 0 (all) and every known genre
func NextGenre(id int) int {
	i := slices.IndexFunc(Genres, func(g Genre) bool { return g.ID == id })
	if i == len(Genres)-1 {
		return 0
	}
	return Genres[i+1].ID
}

// ParseMedia validates a media value
func ParseMedia(s string) (Media, error) {
	if m := Media(s); slices.Contains(mediaOrder, m) {
		return m, nil
	}
	return "", fmt.Errorf("unknown media type %q", s)
}

// ParseWindow validates a trending window. The catalog has no monthly window.
func ParseWindow(s string) (Window, error) {
	if w := Window(s); slices.Contains(windowOrder, w) {
		return w, nil
	}
	return "", fmt.Errorf("unknown time window %q", s)
}

// NextSort returns the sort after s within options
func NextSort(options []Sort, s Sort) Sort { return next(options, s) }

func next[T comparable](order []T, v T) T {
	i := slices.Index(order, v)
	return order[(i+1)%len(order)]
}
