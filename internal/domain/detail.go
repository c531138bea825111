package domain

import "time"

// Credit ties a catalog item to a role. On a title page the item is the
// *Person and Role is the character or job; on a person page the item is the
// *Movie or *TvShow they worked on.
type Credit struct {
	Item CatalogItem
	Role string
}

// Video is a trailer, teaser or clip hosted on a video site
type Video struct {
	Key  string // Site-specific video ID
	Name string
	Site string // "YouTube", "Vimeo"
	Type string // "Trailer", "Teaser", "Clip"
}

// URL returns a watch link for the video, empty for unknown sites
func (v Video) URL() string {
	switch v.Site {
	case "YouTube":
		return "https://www.youtube.com/watch?v=" + v.Key
	case "Vimeo":
		return "https://vimeo.com/" + v.Key
	default:
		return ""
	}
}

// Review is a user review of a title
type Review struct {
	Author    string
	Content   string
	Rating    float64 // 0 when the author left no rating
	CreatedAt time.Time
}

// WatchProviders lists where a title can be watched in one region
type WatchProviders struct {
	Region string
	Link   string
	Stream []string
	Free   []string
	Rent   []string
	Buy    []string
}

// Empty reports whether no provider is listed
func (w WatchProviders) Empty() bool {
	return len(w.Stream)+len(w.Free)+len(w.Rent)+len(w.Buy) == 0
}

// Episode is one episode of a season
type Episode struct {
	Number   int
	Name     string
	Overview string
	AirDate  time.Time
}

// Season is one season of a TV show
type Season struct {
	Number   int
	Name     string
	Episodes []Episode
}

// Detail is the full page for one catalog item. Sections that could not be
// loaded are left empty and named in Failed.
type Detail struct {
	Item CatalogItem

	// Movie and TV show
	Tagline         string
	Status          string
	Genres          []string
	Runtime         int // Minutes, movies only
	SeasonCount     int
	EpisodeCount    int
	Cast            []Credit
	Crew            []Credit
	Videos          []Video
	Reviews         []Review
	Providers       WatchProviders
	Similar         []CatalogItem
	Recommendations []CatalogItem
	Season          *Season // First season, TV shows only

	// Person
	Biography    string
	PlaceOfBirth string
	Birthday     time.Time
	Deathday     time.Time
	Images       []string // Profile image paths

	Failed []string
}

// Trailer returns the first trailer on a known site, falling back to the
// first video
func (d *Detail) Trailer() (Video, bool) {
	for _, v := range d.Videos {
		if v.Type == "Trailer" && (v.Site == "YouTube" || v.Site == "Vimeo") {
			return v, true
		}
	}
	if len(d.Videos) > 0 {
		return d.Videos[0], true
	}
	return Video{}, false
}
