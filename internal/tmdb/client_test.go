package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/marquee/internal/domain"
)

const multiPage = `{
  "page": 1,
  "total_pages": 3,
  "total_results": 55,
  "results": [
    {"id": 438631, "media_type": "movie", "title": "Dune", "popularity": 120.5,
     "poster_path": "/d5NXSklXo0qyIYkgV94XAgMIckC.jpg", "vote_average": 7.8,
     "vote_count": 11000, "release_date": "2021-09-15", "genre_ids": [878, 12]},
    {"id": 90228, "media_type": "tv", "name": "Dune: Prophecy", "popularity": 80,
     "poster_path": null, "vote_average": 7.1, "vote_count": 300,
     "first_air_date": "2024-11-17", "genre_ids": [10765]},
    {"id": 1190668, "media_type": "person", "name": "Timothée Chalamet",
     "popularity": 60, "gender": 2, "known_for_department": "Acting",
     "profile_path": "/BE2sdjpgsa2rNTFa66f7upkaOP.jpg",
     "known_for": [
       {"id": 438631, "media_type": "movie", "title": "Dune"},
       {"id": 693134, "media_type": "movie", "title": "Dune: Part Two"},
       {"id": 1, "media_type": "person", "name": "Not a credit"},
       {"id": 787699, "media_type": "movie", "title": "Wonka"},
       {"id": 398818, "media_type": "movie", "title": "Call Me by Your Name"}
     ]},
    {"id": 5, "media_type": "collection", "name": "Dune Collection"}
  ]
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewClient(Options{BaseURL: srv.URL, Token: "secret"}, nil)
}

func TestFetchPageSendsAuthAndParams(t *testing.T) {
	var got *http.Request
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Write([]byte(`{"page":1,"total_pages":1,"results":[]}`))
	})

	_, err := c.FetchPage(context.Background(), "/search/multi", domain.Params{
		"query":         "dune part two",
		"include_adult": "false",
		"page":          "1",
	})

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "/search/multi", got.URL.Path)
	assert.Equal(t, "Bearer secret", got.Header.Get("Authorization"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.Equal(t, "dune part two", got.URL.Query().Get("query"))
	assert.Equal(t, "false", got.URL.Query().Get("include_adult"))
}

func TestFetchPageMapsMixedResults(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(multiPage))
	})

	page, err := c.FetchPage(context.Background(), "/search/multi", domain.Params{"page": "1"})
	require.NoError(t, err)

	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 3, "unknown media types are dropped")

	movie, ok := page.Items[0].(*domain.Movie)
	require.True(t, ok)
	assert.Equal(t, "Dune", movie.Title)
	assert.Equal(t, 2021, movie.ReleaseDate.Year())
	assert.Equal(t, []int{878, 12}, movie.GenreIDs)

	show, ok := page.Items[1].(*domain.TvShow)
	require.True(t, ok)
	assert.Empty(t, show.PosterPath)
	assert.Equal(t, time.November, show.FirstAirDate.Month())

	person, ok := page.Items[2].(*domain.Person)
	require.True(t, ok)
	assert.Equal(t, domain.GenderMale, person.Gender)
	assert.Equal(t, "Acting", person.KnownForDepartment)
	require.Len(t, person.KnownFor, domain.MaxKnownFor)
	assert.Equal(t, "Wonka", person.KnownFor[2].DisplayName())
}

func TestFetchPageUsesEndpointHint(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"page":2,"total_pages":9,"results":[{"id":1,"name":"Severance","first_air_date":""}]}`))
	})

	page, err := c.FetchPage(context.Background(), "/tv/top_rated", domain.Params{"page": "2"})
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Equal(t, domain.KindTV, page.Items[0].Kind())
	assert.Equal(t, 2, page.Page)
}

func TestFetchPageErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"status_code":7}`, domain.ErrAuthFailed},
		{"server error", http.StatusInternalServerError, `oops`, domain.ErrNetwork},
		{"bad json", http.StatusOK, `{"page":`, domain.ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.FetchPage(context.Background(), "/movie/top_rated", nil)

			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFetchPageUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := NewClient(Options{BaseURL: srv.URL, Timeout: time.Second}, nil)

	_, err := c.FetchPage(context.Background(), "/movie/top_rated", nil)

	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(Options{BaseURL: srv.URL, BreakerFailures: 2, BreakerCooldown: time.Minute}, nil)

	for range 3 {
		_, err := c.FetchPage(context.Background(), "/trending/movie/day", nil)
		assert.ErrorIs(t, err, domain.ErrNetwork)
	}

	assert.Equal(t, int32(2), hits.Load(), "third call rejected without reaching the server")
}

func TestAuthFailuresDoNotTripBreaker(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(Options{BaseURL: srv.URL, BreakerFailures: 1}, nil)

	for range 3 {
		_, err := c.FetchPage(context.Background(), "/trending/movie/day", nil)
		assert.ErrorIs(t, err, domain.ErrAuthFailed)
	}

	assert.Equal(t, int32(3), hits.Load())
}

func TestRateLimitWaitHonoursContext(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"page":1,"total_pages":1,"results":[]}`))
	})
	c = NewClient(Options{BaseURL: c.baseURL, RequestsPerSecond: 0.001, Burst: 1}, nil)

	_, err := c.FetchPage(context.Background(), "/person/popular", nil)
	require.NoError(t, err, "burst allows the first call")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.FetchPage(ctx, "/person/popular", nil)
	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestVerify(t *testing.T) {
	_, ok := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/authentication", r.URL.Path)
		w.Write([]byte(`{"success":true,"status_code":1,"status_message":"Success."}`))
	})
	assert.NoError(t, ok.Verify(context.Background()))

	_, bad := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	assert.ErrorIs(t, bad.Verify(context.Background()), domain.ErrAuthFailed)
}

func TestKindHint(t *testing.T) {
	tests := map[string]domain.Kind{
		"/trending/movie/week": domain.KindMovie,
		"/tv/top_rated":        domain.KindTV,
		"/person/popular":      domain.KindPerson,
		"/search/person":       domain.KindPerson,
		"/search/multi":        "",
		"":                     "",
	}
	for endpoint, want := range tests {
		assert.Equal(t, want, KindHint(endpoint), endpoint)
	}
}
