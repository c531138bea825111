package tmdb

// PageResponse is the envelope of every paginated collection endpoint
type PageResponse struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// Result is one entry of a collection. Multi-search and trending mix movies,
// shows and people in the same array, so the fields of all three live here
// and MediaType tells them apart when the endpoint does not.
type Result struct {
	ID         int     `json:"id"`
	MediaType  string  `json:"media_type,omitempty"`
	Popularity float64 `json:"popularity"`
	Overview   string  `json:"overview,omitempty"`
	Adult      bool    `json:"adult,omitempty"`

	// Movie
	Title       string `json:"title,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`

	// TV show and person
	Name string `json:"name,omitempty"`

	// TV show
	FirstAirDate string `json:"first_air_date,omitempty"`

	// Movie and TV show
	PosterPath  string  `json:"poster_path,omitempty"`
	VoteAverage float64 `json:"vote_average,omitempty"`
	VoteCount   int     `json:"vote_count,omitempty"`
	GenreIDs    []int   `json:"genre_ids,omitempty"`

	// Person
	ProfilePath        string   `json:"profile_path,omitempty"`
	Gender             int      `json:"gender,omitempty"`
	KnownForDepartment string   `json:"known_for_department,omitempty"`
	KnownFor           []Result `json:"known_for,omitempty"`
}

// statusResponse is returned by /authentication and by most error responses
type statusResponse struct {
	Success       *bool  `json:"success,omitempty"`
	StatusCode    int    `json:"status_code,omitempty"`
	StatusMessage string `json:"status_message,omitempty"`
}
