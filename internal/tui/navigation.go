package tui

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/marquee/internal/discover"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/listing"
)

// ratingSteps are the minimum ratings the top rated filter cycles through
var ratingSteps = []float64{0, 5, 6, 7, 8}

// genderSteps are the genders the people filter cycles through
var genderSteps = []domain.Gender{discover.AnyGender, domain.GenderFemale, domain.GenderMale}

// handleIntent routes a navigation intent from the search session
func (m *Model) handleIntent(intent domain.Intent) tea.Cmd {
	m.Route = intent.Path()
	m.logger.Info("navigate", "path", m.Route)

	m.Session.Blur()
	m.SearchInput.Blur()

	if intent.Target == domain.TargetSearch {
		m.closeDetail()
		m.listings[SurfaceResults].Configure(m.Presets.SearchResults(intent.Query))
		m.panes[SurfaceResults].SetFilters(m.filterSummary(SurfaceResults))
		cmd := m.switchSurface(SurfaceResults)
		if cmd == nil {
			cmd = LoadCmd(m.listings[SurfaceResults], SurfaceResults)
		}
		return cmd
	}

	if item := m.findResult(intent); item != nil {
		return m.openDetail(item)
	}
	m.closeDetail()
	return nil
}

// findResult looks up the dropdown result an intent points at
func (m Model) findResult(intent domain.Intent) domain.CatalogItem {
	kind, ok := domain.ParseKind(string(intent.Target))
	if !ok {
		return nil
	}
	key := domain.Key{Kind: kind, ID: intent.ID}
	for _, item := range m.Session.Snapshot().Results {
		if item.Key() == key {
			return item
		}
	}
	return nil
}

// applyPeopleQuery switches the people surface between popular people and
// a name search
func (m *Model) applyPeopleQuery(query string) tea.Cmd {
	if strings.TrimSpace(query) == strings.TrimSpace(m.people.Query) {
		return nil
	}
	m.people.Query = query
	return m.reconfigure(SurfacePeople)
}

// reconfigure applies the current filters of s. A batch in flight for the
// old filters is discarded when it resolves.
func (m *Model) reconfigure(s Surface) tea.Cmd {
	m.listings[s].Configure(m.surfaceConfig(s))
	m.panes[s].SetFilters(m.filterSummary(s))
	m.panes[s].SetSnapshot(m.listings[s].Snapshot())
	return LoadCmd(m.listings[s], s)
}

func (m Model) surfaceConfig(s Surface) listing.Config {
	switch s {
	case SurfacePopular:
		return m.Presets.Popular(m.popular)
	case SurfacePeople:
		return m.Presets.People(m.people)
	case SurfaceResults:
		if m.listings[s] != nil {
			return m.listings[s].Config()
		}
		return listing.Config{Name: SurfaceResults.Label()}
	default:
		return m.Presets.Trending(m.trending)
	}
}

func (m Model) filterSummary(s Surface) string {
	switch s {
	case SurfaceTrending:
		f := m.trending
		return strings.Join([]string{
			f.Media.Label(), f.Window.Label(), discover.GenreName(f.Genre), f.Sort.Label(),
		}, " · ")
	case SurfacePopular:
		f := m.popular
		parts := []string{f.Media.Label(), discover.GenreName(f.Genre), f.Sort.Label()}
		if f.MinRating > 0 {
			parts = append(parts, fmt.Sprintf("★ ≥ %.0f", f.MinRating))
		}
		return strings.Join(parts, " · ")
	case SurfacePeople:
		f := m.people
		gender := "Any Gender"
		if f.Gender != discover.AnyGender {
			gender = f.Gender.String()
		}
		dept := f.Department
		if dept == "" {
			dept = "Any Department"
		}
		parts := []string{gender, dept, f.Sort.Label()}
		if q := strings.TrimSpace(f.Query); q != "" {
			parts = append([]string{fmt.Sprintf("%q", q)}, parts...)
		}
		return strings.Join(parts, " · ")
	default:
		return ""
	}
}

// Filter cycling. Each returns false when the key does not apply to the
// active surface.

func (m *Model) cycleSort() bool {
	switch m.Active {
	case SurfaceTrending:
		m.trending.Sort = discover.NextSort(discover.TrendingSorts, m.trending.Sort)
	case SurfacePopular:
		m.popular.Sort = discover.NextSort(discover.PopularSorts, m.popular.Sort)
	case SurfacePeople:
		m.people.Sort = m.people.Sort.Next()
	default:
		return false
	}
	return true
}

func (m *Model) cycleMedia() bool {
	switch m.Active {
	case SurfaceTrending:
		m.trending.Media = m.trending.Media.Next()
	case SurfacePopular:
		m.popular.Media = m.popular.Media.Next()
	default:
		return false
	}
	return true
}

func (m *Model) cycleWindow() bool {
	if m.Active != SurfaceTrending {
		return false
	}
	m.trending.Window = m.trending.Window.Next()
	return true
}

func (m *Model) cycleGenre() bool {
	switch m.Active {
	case SurfaceTrending:
		m.trending.Genre = discover.NextGenre(m.trending.Genre)
	case SurfacePopular:
		m.popular.Genre = discover.NextGenre(m.popular.Genre)
	default:
		return false
	}
	return true
}

func (m *Model) cycleMinRating() bool {
	if m.Active != SurfacePopular {
		return false
	}
	m.popular.MinRating = nextOf(ratingSteps, m.popular.MinRating)
	return true
}

func (m *Model) cycleGender() bool {
	if m.Active != SurfacePeople {
		return false
	}
	m.people.Gender = nextOf(genderSteps, m.people.Gender)
	return true
}

func (m *Model) cycleDepartment() bool {
	if m.Active != SurfacePeople {
		return false
	}
	steps := append([]string{""}, discover.Departments...)
	m.people.Department = nextOf(steps, m.people.Department)
	return true
}

func nextOf[T comparable](steps []T, v T) T {
	i := slices.Index(steps, v)
	return steps[(i+1)%len(steps)]
}
