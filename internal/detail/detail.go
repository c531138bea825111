// Package detail loads the full page of a movie, TV show or person. Every
// section is a separate catalog request issued in parallel; a section that
// fails is left empty instead of failing the page.
package detail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/text/language"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/fetch"
	"github.com/mmcdole/marquee/internal/tmdb"
)

// Section names, also used as request sources
const (
	SectionDetails         = "details"
	SectionCredits         = "credits"
	SectionVideos          = "videos"
	SectionReviews         = "reviews"
	SectionProviders       = "watch providers"
	SectionSimilar         = "similar"
	SectionRecommendations = "recommendations"
	SectionSeason          = "season"
	SectionCombinedCredits = "combined credits"
	SectionImages          = "images"
)

// DefaultRegion is used for watch providers when the language has no region
const DefaultRegion = "US"

// ErrSuperseded is returned when a newer Load started before this one settled
var ErrSuperseded = errors.New("detail load superseded")

// Options configures a Service
type Options struct {
	Language string // e.g. "en-US"; its region picks the watch providers
}

// Service loads detail pages. Only the most recent Load delivers a result.
type Service struct {
	orch     *fetch.Orchestrator
	seq      fetch.Sequence
	language string
	region   string
	logger   *slog.Logger
}

// NewService creates a detail service
func NewService(orch *fetch.Orchestrator, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		orch:     orch,
		language: opts.Language,
		region:   regionOf(opts.Language),
		logger:   logger,
	}
}

func regionOf(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return DefaultRegion
	}
	region, confidence := tag.Region()
	if confidence == language.No {
		return DefaultRegion
	}
	return region.String()
}

// Region returns the watch provider region
func (s *Service) Region() string {
	return s.region
}

// Requests returns the section requests for item
func (s *Service) Requests(item domain.CatalogItem) []fetch.Request {
	params := domain.Params{}
	if s.language != "" {
		params["language"] = s.language
	}
	base := domain.IntentFor(item).Path()

	doc := func(section, endpoint string) fetch.Request {
		return fetch.Request{Source: section, Endpoint: endpoint, Params: params, Document: true}
	}

	if item.Kind() == domain.KindPerson {
		return []fetch.Request{
			doc(SectionDetails, base),
			doc(SectionCombinedCredits, base+"/combined_credits"),
			doc(SectionImages, base+"/images"),
		}
	}

	reqs := []fetch.Request{
		doc(SectionDetails, base),
		doc(SectionCredits, base+"/credits"),
		doc(SectionVideos, base+"/videos"),
		doc(SectionReviews, base+"/reviews"),
		// Providers are keyed by region, not language
		{Source: SectionProviders, Endpoint: base + "/watch/providers", Document: true},
		{Source: SectionSimilar, Endpoint: base + "/similar", Params: params},
		{Source: SectionRecommendations, Endpoint: base + "/recommendations", Params: params},
	}
	if item.Kind() == domain.KindTV {
		reqs = append(reqs, doc(SectionSeason, base+"/season/1"))
	}
	return reqs
}

// Load fetches every section of item's page. The returned detail always
// carries at least item; it fails only when every section failed or a newer
// Load superseded this one.
func (s *Service) Load(ctx context.Context, item domain.CatalogItem) (*domain.Detail, error) {
	ticket := s.seq.Next()
	batch, ok := s.orch.Run(ctx, ticket, s.Requests(item))
	if !ok {
		return nil, ErrSuperseded
	}
	if err := batch.Err(); err != nil {
		return nil, err
	}

	d := &domain.Detail{Item: item, Providers: domain.WatchProviders{Region: s.region}}
	for _, out := range batch.Outcomes {
		err := out.Err
		if err == nil {
			err = s.apply(d, item.Kind(), out)
		}
		if err != nil {
			s.logger.Warn("detail section unavailable",
				"item", item.Key().String(),
				"section", out.Request.Source,
				"error", err)
			d.Failed = append(d.Failed, out.Request.Source)
		}
	}

	s.logger.Debug("detail loaded", "item", item.Key().String(), "failed", len(d.Failed))
	return d, nil
}

// apply decodes one settled section into d
func (s *Service) apply(d *domain.Detail, kind domain.Kind, out fetch.Outcome) error {
	var err error
	switch out.Request.Source {
	case SectionDetails:
		if kind == domain.KindPerson {
			err = tmdb.DecodePerson(out.Body, d)
		} else {
			err = tmdb.DecodeTitle(out.Body, kind, d)
		}
	case SectionCredits:
		d.Cast, d.Crew, err = tmdb.DecodeCredits(out.Body)
	case SectionCombinedCredits:
		d.Cast, d.Crew, err = tmdb.DecodeCombinedCredits(out.Body)
	case SectionVideos:
		d.Videos, err = tmdb.DecodeVideos(out.Body)
	case SectionReviews:
		d.Reviews, err = tmdb.DecodeReviews(out.Body)
	case SectionProviders:
		d.Providers, err = tmdb.DecodeProviders(out.Body, s.region)
	case SectionSimilar:
		d.Similar = out.Page.Items
	case SectionRecommendations:
		d.Recommendations = out.Page.Items
	case SectionSeason:
		d.Season, err = tmdb.DecodeSeason(out.Body)
	case SectionImages:
		d.Images, err = tmdb.DecodeImages(out.Body)
	default:
		err = fmt.Errorf("unknown section %q", out.Request.Source)
	}
	return err
}
