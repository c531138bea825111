package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/marquee/internal/catalogtest"
	"github.com/mmcdole/marquee/internal/detail"
	"github.com/mmcdole/marquee/internal/discover"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/fetch"
	"github.com/mmcdole/marquee/internal/history"
	"github.com/mmcdole/marquee/internal/listing"
	"github.com/mmcdole/marquee/internal/search"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	gw := catalogtest.NewGateway().
		Serve("/trending/movie/day", []domain.CatalogItem{&domain.Movie{ID: 1, Title: "Dune", Popularity: 10}}).
		Serve("/trending/tv/day", []domain.CatalogItem{&domain.TvShow{ID: 2, Name: "Severance", Popularity: 5}}).
		ServeDocument("/movie/1", `{"id": 1, "title": "Dune", "runtime": 155, "genres": [{"id": 878, "name": "Science Fiction"}]}`).
		ServeDocument("/movie/1/credits", `{"cast": [{"id": 10, "name": "Timothée Chalamet", "character": "Paul Atreides"}]}`).
		ServeDocument("/movie/1/watch/providers", `{"results": {"US": {"flatrate": [{"provider_name": "Max"}]}}}`).
		Serve("/movie/1/similar", []domain.CatalogItem{&domain.Movie{ID: 3, Title: "Arrival"}}).
		Serve("/movie/1/recommendations", []domain.CatalogItem{&domain.Movie{ID: 4, Title: "Blade Runner 2049"}})

	orch := fetch.NewOrchestrator(gw, 0, nil)
	obs := NewChannelObserver(64)
	session := search.NewSession(orch, history.NewStore(nil, 5, nil), obs.Navigate, search.Options{}, nil)

	m := NewModel(Services{
		Session:      session,
		Orchestrator: orch,
		Presets:      discover.DefaultPresets(),
		Observer:     obs,
		Details:      detail.NewService(orch, detail.Options{Language: "en-US"}, nil),
	})
	t.Cleanup(m.Close)

	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loadTrending runs the initial trending load the way the program would
func loadTrending(t *testing.T, m Model) Model {
	t.Helper()
	msg := LoadCmd(m.listings[SurfaceTrending], SurfaceTrending)()
	done, ok := msg.(ListingDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)
	return update(t, m, done)
}

func TestTrendingLoadsIntoPane(t *testing.T) {
	m := loadTrending(t, newTestModel(t))

	snap := m.panes[SurfaceTrending].Snapshot()
	assert.Equal(t, listing.StatusReady, snap.Status)
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "Dune", snap.Items[0].DisplayName())
	assert.Contains(t, m.View(), "Severance")
}

func TestSwitchSurfaceLoadsOnFirstVisit(t *testing.T) {
	m := newTestModel(t)

	m, cmd := updateCmd(t, m, typed("2"))
	assert.Equal(t, SurfacePopular, m.Active)
	assert.NotNil(t, cmd)

	m, cmd = updateCmd(t, m, typed("4"))
	assert.Equal(t, SurfaceResults, m.Active)
	assert.Nil(t, cmd, "results surface has nothing to load before a search")
}

func TestFilterKeysReconfigureActiveSurface(t *testing.T) {
	m := newTestModel(t)

	m, cmd := updateCmd(t, m, typed("s"))
	assert.Equal(t, discover.SortRating, m.trending.Sort)
	assert.NotNil(t, cmd)

	// Minimum rating only applies to top rated
	m, cmd = updateCmd(t, m, typed("v"))
	assert.Zero(t, m.popular.MinRating)
	assert.Nil(t, cmd)

	m = update(t, m, typed("2"))
	m = update(t, m, typed("v"))
	assert.Equal(t, 5.0, m.popular.MinRating)
	assert.Len(t, m.listings[SurfacePopular].Config().Predicates, 1)
}

func TestEnterOpensDetail(t *testing.T) {
	m := loadTrending(t, newTestModel(t))

	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, StateDetail, m.State)
	require.NotNil(t, cmd, "opening a detail page loads its sections")
	assert.Equal(t, "Dune", m.Detail.DisplayName())
	assert.Equal(t, "/movie/1", m.Route)
	assert.Contains(t, m.View(), "Loading details")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateBrowsing, m.State)
	assert.Nil(t, m.Detail)
}

func TestDetailRendersLoadedSections(t *testing.T) {
	m := loadTrending(t, newTestModel(t))
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 120})

	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	loaded, ok := cmd().(DetailLoadedMsg)
	require.True(t, ok)
	require.NoError(t, loaded.Err)
	m = update(t, m, loaded)

	view := m.View()
	assert.NotContains(t, view, "Loading details")
	assert.Contains(t, view, "Science Fiction")
	assert.Contains(t, view, "2h 35m")
	assert.Contains(t, view, "Paul Atreides")
	assert.Contains(t, view, "Where to watch (US)")
	assert.Contains(t, view, "Max")
	assert.Contains(t, view, "Arrival")
	assert.Contains(t, view, "Blade Runner 2049")
	assert.Contains(t, view, "Unavailable: videos, reviews")
}

func TestDetailIgnoresResultForAnotherItem(t *testing.T) {
	m := loadTrending(t, newTestModel(t))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m = update(t, m, DetailLoadedMsg{
		Key:    domain.Key{Kind: domain.KindTV, ID: 2},
		Detail: &domain.Detail{Item: &domain.TvShow{ID: 2, Name: "Severance"}},
	})
	assert.Nil(t, m.page)
	assert.True(t, m.detailLoading)

	m = update(t, m, DetailLoadedMsg{Key: m.Detail.Key(), Err: detail.ErrSuperseded})
	assert.True(t, m.detailLoading, "a superseded load leaves the newer one pending")
}

func TestDetailRetryAfterFailure(t *testing.T) {
	m := newTestModel(t)
	cmd := m.openDetail(&domain.TvShow{ID: 2, Name: "Severance"})
	require.NotNil(t, cmd)

	failed, ok := cmd().(DetailLoadedMsg)
	require.True(t, ok)
	require.ErrorIs(t, failed.Err, domain.ErrAllSourcesFailed)
	m = update(t, m, failed)
	assert.Contains(t, m.View(), "press r to retry")
	assert.Equal(t, "Severance", m.Detail.DisplayName())

	m, cmd = updateCmd(t, m, typed("r"))
	assert.NotNil(t, cmd)
	assert.True(t, m.detailLoading)
	assert.NoError(t, m.detailErr)
}

func TestTypingUpdatesSearchSession(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, typed("/"))
	require.Equal(t, StateSearching, m.State)
	assert.True(t, m.Session.Snapshot().Focused)

	m = update(t, m, typed("d"))
	m = update(t, m, typed("u"))
	assert.Equal(t, "du", m.Session.Snapshot().Query)

	// Dropdown open: first escape dismisses it, second leaves the box
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateSearching, m.State)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateBrowsing, m.State)
}

func TestSearchIntentShowsResultsSurface(t *testing.T) {
	m := newTestModel(t)

	m, cmd := updateCmd(t, m, NavigateMsg{Intent: domain.Intent{Target: domain.TargetSearch, Query: "dune"}})
	assert.NotNil(t, cmd)
	assert.Equal(t, SurfaceResults, m.Active)
	assert.Equal(t, "/search?q=dune", m.Route)

	sources := m.listings[SurfaceResults].Config().Sources
	require.Len(t, sources, 1)
	assert.Equal(t, search.Endpoint, sources[0].Endpoint)
	assert.Equal(t, "dune", sources[0].Params["query"])
}

func TestPeopleQueryAppliesOnEnter(t *testing.T) {
	m := newTestModel(t)

	// Finding people only works on the people surface
	m = update(t, m, typed("p"))
	assert.Equal(t, StateBrowsing, m.State)

	m = update(t, m, typed("3"))
	m = update(t, m, typed("p"))
	require.Equal(t, StatePeopleQuery, m.State)

	m = update(t, m, typed("a"))
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd)
	assert.Equal(t, StateBrowsing, m.State)
	assert.Equal(t, "a", m.people.Query)

	sources := m.listings[SurfacePeople].Config().Sources
	require.Len(t, sources, 1)
	assert.Equal(t, "/search/person", sources[0].Endpoint)
}

func TestHelpToggles(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, typed("?"))
	require.Equal(t, StateHelp, m.State)
	assert.Contains(t, m.View(), "Keyboard shortcuts")

	m = update(t, m, typed("?"))
	assert.Equal(t, StateBrowsing, m.State)
}

func TestInMemoryHistoryWarnsAtStartup(t *testing.T) {
	m := newTestModel(t)
	assert.False(t, m.historyNotice)
	quiet, ok := m.Init()().(tea.BatchMsg)
	require.True(t, ok)

	m.historyNotice = true
	batch, ok := m.Init()().(tea.BatchMsg)
	require.True(t, ok)
	require.Len(t, batch, len(quiet)+1)

	// The warning is queued after the startup commands
	status, ok := batch[len(batch)-1]().(StatusMsg)
	require.True(t, ok)
	assert.True(t, status.IsError)

	m = update(t, m, status)
	assert.Contains(t, m.View(), "searches won't be remembered")
}
