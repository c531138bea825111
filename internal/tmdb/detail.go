package tmdb

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/mmcdole/marquee/internal/domain"
)

// titleResponse is /movie/{id} or /tv/{id}
type titleResponse struct {
	Result
	Tagline          string  `json:"tagline"`
	Status           string  `json:"status"`
	Runtime          int     `json:"runtime"`
	Genres           []genre `json:"genres"`
	NumberOfSeasons  int     `json:"number_of_seasons"`
	NumberOfEpisodes int     `json:"number_of_episodes"`
}

type genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// personResponse is /person/{id}
type personResponse struct {
	Result
	Biography    string `json:"biography"`
	Birthday     string `json:"birthday"`
	Deathday     string `json:"deathday"`
	PlaceOfBirth string `json:"place_of_birth"`
}

// creditEntry is one cast or crew row. Title credits list people, combined
// credits list titles, so it embeds Result for both.
type creditEntry struct {
	Result
	Character string `json:"character"`
	Job       string `json:"job"`
	Order     int    `json:"order"`
}

type creditsResponse struct {
	Cast []creditEntry `json:"cast"`
	Crew []creditEntry `json:"crew"`
}

type videosResponse struct {
	Results []struct {
		Key  string `json:"key"`
		Name string `json:"name"`
		Site string `json:"site"`
		Type string `json:"type"`
	} `json:"results"`
}

type reviewsResponse struct {
	Results []struct {
		Author        string `json:"author"`
		Content       string `json:"content"`
		CreatedAt     string `json:"created_at"`
		AuthorDetails struct {
			Rating *float64 `json:"rating"`
		} `json:"author_details"`
	} `json:"results"`
}

type provider struct {
	Name string `json:"provider_name"`
}

type providersResponse struct {
	Results map[string]struct {
		Link     string     `json:"link"`
		Flatrate []provider `json:"flatrate"`
		Free     []provider `json:"free"`
		Rent     []provider `json:"rent"`
		Buy      []provider `json:"buy"`
	} `json:"results"`
}

type seasonResponse struct {
	SeasonNumber int    `json:"season_number"`
	Name         string `json:"name"`
	Episodes     []struct {
		EpisodeNumber int    `json:"episode_number"`
		Name          string `json:"name"`
		Overview      string `json:"overview"`
		AirDate       string `json:"air_date"`
	} `json:"episodes"`
}

type imagesResponse struct {
	Profiles []struct {
		FilePath string `json:"file_path"`
	} `json:"profiles"`
}

func decode(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: failed to parse response: %w", domain.ErrNetwork, err)
	}
	return nil
}

// DecodeTitle fills the header fields of d from a movie or show document
func DecodeTitle(body []byte, kind domain.Kind, d *domain.Detail) error {
	var resp titleResponse
	if err := decode(body, &resp); err != nil {
		return err
	}
	if item := mapResult(resp.Result, kind); item != nil && resp.ID != 0 {
		d.Item = item
	}
	d.Tagline = resp.Tagline
	d.Status = resp.Status
	d.Runtime = resp.Runtime
	d.SeasonCount = resp.NumberOfSeasons
	d.EpisodeCount = resp.NumberOfEpisodes
	d.Genres = make([]string, 0, len(resp.Genres))
	for _, g := range resp.Genres {
		d.Genres = append(d.Genres, g.Name)
	}
	return nil
}

// DecodePerson fills the biography fields of d from a person document
func DecodePerson(body []byte, d *domain.Detail) error {
	var resp personResponse
	if err := decode(body, &resp); err != nil {
		return err
	}
	if resp.ID != 0 {
		d.Item = mapPerson(resp.Result)
	}
	d.Biography = strings.TrimSpace(resp.Biography)
	d.PlaceOfBirth = resp.PlaceOfBirth
	d.Birthday = parseDate(resp.Birthday)
	d.Deathday = parseDate(resp.Deathday)
	return nil
}

// DecodeCredits decodes a title's cast and crew. Every credited entry is a
// person.
func DecodeCredits(body []byte) (cast, crew []domain.Credit, err error) {
	var resp creditsResponse
	if err := decode(body, &resp); err != nil {
		return nil, nil, err
	}
	for _, c := range resp.Cast {
		cast = append(cast, domain.Credit{Item: mapPerson(c.Result), Role: c.Character})
	}
	for _, c := range resp.Crew {
		crew = append(crew, domain.Credit{Item: mapPerson(c.Result), Role: c.Job})
	}
	return cast, crew, nil
}

// DecodeCombinedCredits decodes a person's movie and TV credits. Entries
// whose media type is unknown are dropped.
func DecodeCombinedCredits(body []byte) (cast, crew []domain.Credit, err error) {
	var resp creditsResponse
	if err := decode(body, &resp); err != nil {
		return nil, nil, err
	}
	for _, c := range resp.Cast {
		if item := mapResult(c.Result, ""); item != nil && item.Kind() != domain.KindPerson {
			cast = append(cast, domain.Credit{Item: item, Role: c.Character})
		}
	}
	for _, c := range resp.Crew {
		if item := mapResult(c.Result, ""); item != nil && item.Kind() != domain.KindPerson {
			crew = append(crew, domain.Credit{Item: item, Role: c.Job})
		}
	}
	return cast, crew, nil
}

// DecodeVideos decodes a title's videos in catalog order
func DecodeVideos(body []byte) ([]domain.Video, error) {
	var resp videosResponse
	if err := decode(body, &resp); err != nil {
		return nil, err
	}
	videos := make([]domain.Video, 0, len(resp.Results))
	for _, v := range resp.Results {
		videos = append(videos, domain.Video{Key: v.Key, Name: v.Name, Site: v.Site, Type: v.Type})
	}
	return videos, nil
}

// DecodeReviews decodes the first page of a title's reviews
func DecodeReviews(body []byte) ([]domain.Review, error) {
	var resp reviewsResponse
	if err := decode(body, &resp); err != nil {
		return nil, err
	}
	reviews := make([]domain.Review, 0, len(resp.Results))
	for _, r := range resp.Results {
		review := domain.Review{Author: r.Author, Content: strings.TrimSpace(r.Content)}
		if r.AuthorDetails.Rating != nil {
			review.Rating = *r.AuthorDetails.Rating
		}
		if len(r.CreatedAt) >= len(dateLayout) {
			review.CreatedAt = parseDate(r.CreatedAt[:len(dateLayout)])
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

// DecodeProviders picks region's entry out of a watch providers document.
// A region without providers yields an empty list, not an error.
func DecodeProviders(body []byte, region string) (domain.WatchProviders, error) {
	out := domain.WatchProviders{Region: region}
	var resp providersResponse
	if err := decode(body, &resp); err != nil {
		return out, err
	}
	entry, ok := resp.Results[region]
	if !ok {
		return out, nil
	}
	out.Link = entry.Link
	out.Stream = providerNames(entry.Flatrate)
	out.Free = providerNames(entry.Free)
	out.Rent = providerNames(entry.Rent)
	out.Buy = providerNames(entry.Buy)
	return out, nil
}

func providerNames(ps []provider) []string {
	if len(ps) == 0 {
		return nil
	}
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return names
}

// DecodeSeason decodes a season document
func DecodeSeason(body []byte) (*domain.Season, error) {
	var resp seasonResponse
	if err := decode(body, &resp); err != nil {
		return nil, err
	}
	season := &domain.Season{Number: resp.SeasonNumber, Name: resp.Name}
	for _, e := range resp.Episodes {
		season.Episodes = append(season.Episodes, domain.Episode{
			Number:   e.EpisodeNumber,
			Name:     e.Name,
			Overview: e.Overview,
			AirDate:  parseDate(e.AirDate),
		})
	}
	return season, nil
}

// DecodeImages decodes a person's profile image paths
func DecodeImages(body []byte) ([]string, error) {
	var resp imagesResponse
	if err := decode(body, &resp); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(resp.Profiles))
	for _, p := range resp.Profiles {
		if p.FilePath != "" {
			paths = append(paths, p.FilePath)
		}
	}
	return paths, nil
}
