package search

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/marquee/internal/debounce"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/fetch"
	"github.com/mmcdole/marquee/internal/history"
	"github.com/mmcdole/marquee/internal/selection"
)

// manualClock hands out timers that only fire when the test says so
type manualClock struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.stopped = true
	return true
}

func (c *manualClock) AfterFunc(_ time.Duration, f func()) debounce.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{fn: f}
	c.timers = append(c.timers, t)
	return t
}

// advance fires every live timer on the calling goroutine
func (c *manualClock) advance() {
	c.mu.Lock()
	timers := c.timers
	c.timers = nil
	c.mu.Unlock()
	for _, t := range timers {
		if !t.stopped {
			t.fn()
		}
	}
}

func (c *manualClock) armed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// queryGateway answers /search/multi per query string
type queryGateway struct {
	mu      sync.Mutex
	results map[string][]domain.CatalogItem
	fail    map[string]error
	holds   map[string]chan struct{}
	queries []string
	started chan string
}

func newQueryGateway() *queryGateway {
	return &queryGateway{
		results: map[string][]domain.CatalogItem{},
		fail:    map[string]error{},
		holds:   map[string]chan struct{}{},
		started: make(chan string, 16),
	}
}

func (g *queryGateway) FetchPage(ctx context.Context, endpoint string, params domain.Params) (*domain.PageResult, error) {
	q := params["query"]
	g.mu.Lock()
	g.queries = append(g.queries, q)
	hold := g.holds[q]
	g.mu.Unlock()
	g.started <- q

	if hold != nil {
		<-hold
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.fail[q]; err != nil {
		return nil, err
	}
	return &domain.PageResult{Items: g.results[q], Page: 1, TotalPages: 1}, nil
}

func (g *queryGateway) seen() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.queries...)
}

type fixture struct {
	clock   *manualClock
	gw      *queryGateway
	session *Session
	intents []domain.Intent
	hist    *history.Store
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	f := &fixture{clock: &manualClock{}, gw: newQueryGateway()}
	f.hist = history.NewStore(nil, 5, nil)
	opts.AfterFunc = f.clock.AfterFunc
	f.session = NewSession(fetch.NewOrchestrator(f.gw, 0, nil), f.hist, func(i domain.Intent) {
		f.intents = append(f.intents, i)
	}, opts, nil)
	t.Cleanup(f.session.Close)
	return f
}

func mixed() []domain.CatalogItem {
	return []domain.CatalogItem{
		&domain.Movie{ID: 1, Title: "Dune"},
		&domain.TvShow{ID: 2, Name: "Dune: Prophecy"},
		&domain.Person{ID: 3, Name: "Denis Villeneuve"},
		&domain.Movie{ID: 4, Title: "Dune: Part Two"},
	}
}

func TestShortQueryMakesNoRequest(t *testing.T) {
	f := newFixture(t, Options{})

	f.session.SetQuery(" d ")
	f.clock.advance()

	snap := f.session.Snapshot()
	assert.Empty(t, f.gw.seen())
	assert.Empty(t, snap.Results)
	assert.False(t, snap.Open)
	assert.False(t, snap.Loading)
}

func TestCheckQuery(t *testing.T) {
	f := newFixture(t, Options{})

	assert.ErrorIs(t, f.session.checkQuery(" é "), domain.ErrEmptyQuery)
	assert.ErrorIs(t, f.session.checkQuery(""), domain.ErrEmptyQuery)
	assert.NoError(t, f.session.checkQuery("éa"), "length counts runes, not bytes")
}

func TestShortQueryCancelsPendingSearch(t *testing.T) {
	f := newFixture(t, Options{})

	f.session.SetQuery("dune")
	f.session.SetQuery("d")

	assert.Zero(t, f.clock.armed())
	f.clock.advance()
	assert.Empty(t, f.gw.seen())
}

func TestRapidTypingSearchesOnce(t *testing.T) {
	f := newFixture(t, Options{})
	f.gw.results["dune"] = mixed()

	for _, q := range []string{"du", "dun", "dune"} {
		f.session.SetQuery(q)
	}
	f.clock.advance()

	assert.Equal(t, []string{"dune"}, f.gw.seen())
	snap := f.session.Snapshot()
	assert.Len(t, snap.Results, 4)
	assert.True(t, snap.Open)
	assert.False(t, snap.Loading)
	assert.Equal(t, selection.None, snap.Selected)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	f := newFixture(t, Options{})
	f.gw.results["ab"] = []domain.CatalogItem{&domain.Movie{ID: 1, Title: "ab"}}
	f.gw.results["abc"] = []domain.CatalogItem{&domain.Movie{ID: 2, Title: "abc"}}
	release := make(chan struct{})
	f.gw.holds["ab"] = release

	f.session.SetQuery("ab")
	done := make(chan struct{})
	go func() {
		f.clock.advance()
		close(done)
	}()
	<-f.gw.started

	f.session.SetQuery("abc")
	f.clock.advance()
	<-f.gw.started

	close(release)
	<-done

	snap := f.session.Snapshot()
	require.Len(t, snap.Results, 1)
	assert.Equal(t, 2, snap.Results[0].Key().ID, "results match the latest query")
}

func TestCategoryFiltersAndRefetches(t *testing.T) {
	f := newFixture(t, Options{})
	f.gw.results["dune"] = mixed()

	f.session.SetQuery("dune")
	f.clock.advance()
	f.session.SetCategory(CategoryMovie)
	f.clock.advance()

	snap := f.session.Snapshot()
	assert.Equal(t, CategoryMovie, snap.Category)
	assert.Len(t, f.gw.seen(), 2)
	require.Len(t, snap.Results, 2)
	for _, r := range snap.Results {
		assert.Equal(t, domain.KindMovie, r.Kind())
	}

	f.session.CycleCategory()
	f.clock.advance()
	snap = f.session.Snapshot()
	assert.Equal(t, CategoryTV, snap.Category)
	require.Len(t, snap.Results, 1)
}

func TestResultsAreCapped(t *testing.T) {
	f := newFixture(t, Options{})
	var many []domain.CatalogItem
	for i := range 12 {
		many = append(many, &domain.Movie{ID: i + 1, Title: fmt.Sprintf("Alien %d", i)})
	}
	f.gw.results["alien"] = many

	f.session.SetQuery("alien")
	f.clock.advance()

	assert.Len(t, f.session.Snapshot().Results, DefaultResultLimit)
}

func TestRankResultsOrdersByMatch(t *testing.T) {
	f := newFixture(t, Options{RankResults: true})
	f.gw.results["dune"] = []domain.CatalogItem{
		&domain.Movie{ID: 1, Title: "Children of Dune"},
		&domain.Movie{ID: 2, Title: "Dune: Part Two"},
		&domain.Movie{ID: 3, Title: "Dune"},
	}

	f.session.SetQuery("dune")
	f.clock.advance()

	require.Equal(t, []string{"dune"}, f.gw.seen())
	snap := f.session.Snapshot()
	require.Len(t, snap.Results, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{
		snap.Results[0].Key().ID, snap.Results[1].Key().ID, snap.Results[2].Key().ID,
	})
}

func TestEnterNavigatesOnlyWithSelection(t *testing.T) {
	f := newFixture(t, Options{})
	f.gw.results["dune"] = mixed()
	f.session.SetQuery("dune")
	f.clock.advance()

	_, ok := f.session.Enter()
	assert.False(t, ok, "plain enter does nothing")
	assert.Empty(t, f.intents)

	f.session.Down()
	f.session.Down()
	intent, ok := f.session.Enter()

	require.True(t, ok)
	assert.Equal(t, domain.Intent{Target: domain.TargetTV, ID: 2}, intent)
	assert.Equal(t, []domain.Intent{intent}, f.intents)
	assert.False(t, f.session.Snapshot().Open)
}

func TestUpWrapsToLastResult(t *testing.T) {
	f := newFixture(t, Options{})
	f.gw.results["dune"] = mixed()
	f.session.SetQuery("dune")
	f.clock.advance()

	f.session.Up()
	assert.Equal(t, 3, f.session.Snapshot().Selected)

	f.session.Dismiss()
	snap := f.session.Snapshot()
	assert.False(t, snap.Open)
	assert.Equal(t, selection.None, snap.Selected)
}

func TestViewAllRecordsHistory(t *testing.T) {
	f := newFixture(t, Options{})

	f.session.SetQuery("  blade runner ")
	intent, ok := f.session.ViewAll()

	require.True(t, ok)
	assert.Equal(t, domain.Intent{Target: domain.TargetSearch, Query: "blade runner"}, intent)
	assert.Equal(t, "/search?q=blade+runner", intent.Path())
	assert.Equal(t, []string{"blade runner"}, f.session.History())
	assert.False(t, f.session.Snapshot().Open)

	f.session.SetQuery("   ")
	_, ok = f.session.ViewAll()
	assert.False(t, ok)
}

func TestUseHistoryAndClear(t *testing.T) {
	f := newFixture(t, Options{})
	f.gw.results["heat"] = []domain.CatalogItem{&domain.Movie{ID: 949, Title: "Heat"}}
	f.hist.Record("heat")
	f.hist.Record("alien")

	f.session.Focus()
	assert.True(t, f.session.Snapshot().ShowHistory)

	f.session.UseHistory("heat")
	f.clock.advance()

	snap := f.session.Snapshot()
	assert.Equal(t, "heat", snap.Query)
	assert.Equal(t, []string{"heat", "alien"}, snap.History)
	assert.False(t, snap.ShowHistory)
	assert.Len(t, snap.Results, 1)

	f.session.ClearHistory()
	assert.Empty(t, f.session.History())
}

func TestSearchFailureIsNonFatal(t *testing.T) {
	f := newFixture(t, Options{})
	f.gw.fail["dune"] = domain.ErrNetwork

	f.session.SetQuery("dune")
	f.clock.advance()

	snap := f.session.Snapshot()
	assert.Empty(t, snap.Results)
	assert.ErrorIs(t, snap.Err, domain.ErrNetwork)
	assert.False(t, snap.Loading)

	f.gw.mu.Lock()
	delete(f.gw.fail, "dune")
	f.gw.results["dune"] = mixed()
	f.gw.mu.Unlock()
	f.session.SetQuery("dune")
	f.clock.advance()

	snap = f.session.Snapshot()
	assert.NoError(t, snap.Err)
	assert.Len(t, snap.Results, 4)
}

func TestRequestParams(t *testing.T) {
	f := newFixture(t, Options{Language: "fr-FR"})
	var got domain.Params
	f.session.orch = fetch.NewOrchestrator(paramsSpy(func(p domain.Params) { got = p }), 0, nil)

	f.session.SetQuery("amélie")
	f.clock.advance()

	assert.Equal(t, domain.Params{
		"query":         "amélie",
		"include_adult": "false",
		"language":      "fr-FR",
		"page":          "1",
	}, got)
}

type paramsSpy func(domain.Params)

func (p paramsSpy) FetchPage(_ context.Context, _ string, params domain.Params) (*domain.PageResult, error) {
	p(params)
	return &domain.PageResult{Page: 1, TotalPages: 1}, nil
}

func TestCloseStopsPendingSearch(t *testing.T) {
	f := newFixture(t, Options{})

	f.session.SetQuery("dune")
	f.session.Close()
	f.clock.advance()
	f.session.SetQuery("arrival")
	f.clock.advance()

	assert.Empty(t, f.gw.seen())
}

func TestSubscribersReceiveSnapshots(t *testing.T) {
	f := newFixture(t, Options{})
	f.gw.results["dune"] = mixed()
	var (
		mu    sync.Mutex
		snaps []Snapshot
	)
	cancel := f.session.Subscribe(func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		snaps = append(snaps, s)
	})

	f.session.SetQuery("dune")
	f.clock.advance()
	cancel()
	f.session.Down()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, snaps, 2)
	assert.True(t, snaps[0].Loading)
	assert.Len(t, snaps[1].Results, 4)
}

func TestMatchScore(t *testing.T) {
	assert.Equal(t, 0, MatchScore("Dune", "dune"))
	assert.Equal(t, 10, MatchScore("Dune: Part Two", "dune"))
	assert.Equal(t, 50, MatchScore("Children of Dune", "dune"))
	assert.Less(t, MatchScore("Dark Universe", "dune"), 100)
	assert.GreaterOrEqual(t, MatchScore("Heat", "dune"), 100)
}
