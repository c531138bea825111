// Package search drives the incremental search dropdown: debounced queries,
// stale-response discarding, keyboard selection and search history.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/mmcdole/marquee/internal/debounce"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/fetch"
	"github.com/mmcdole/marquee/internal/history"
	"github.com/mmcdole/marquee/internal/pipeline"
	"github.com/mmcdole/marquee/internal/selection"
)

// Endpoint is the mixed-kind search collection
const Endpoint = "/search/multi"

// Defaults
const (
	DefaultDebounce       = 300 * time.Millisecond
	DefaultMinQueryLength = 2
	DefaultResultLimit    = 8
)

// Category narrows results to one kind
type Category string

const (
	CategoryAll    Category = "all"
	CategoryMovie  Category = "movie"
	CategoryTV     Category = "tv"
	CategoryPerson Category = "person"
)

// Categories lists every category in display order
var Categories = []Category{CategoryAll, CategoryMovie, CategoryTV, CategoryPerson}

// Label returns the tab label for the category
func (c Category) Label() string {
	switch c {
	case CategoryMovie:
		return "Movies"
	case CategoryTV:
		return "TV Shows"
	case CategoryPerson:
		return "People"
	default:
		return "All"
	}
}

// Kinds returns the kinds the category admits
func (c Category) Kinds() []domain.Kind {
	switch c {
	case CategoryMovie:
		return []domain.Kind{domain.KindMovie}
	case CategoryTV:
		return []domain.Kind{domain.KindTV}
	case CategoryPerson:
		return []domain.Kind{domain.KindPerson}
	default:
		return []domain.Kind{domain.KindMovie, domain.KindTV, domain.KindPerson}
	}
}

// Next returns the category after c, wrapping around
func (c Category) Next() Category {
	i := slices.Index(Categories, c)
	return Categories[(i+1)%len(Categories)]
}

// Options tunes a Session. Zero values fall back to the defaults.
type Options struct {
	Debounce       time.Duration
	MinQueryLength int
	ResultLimit    int
	Language       string
	IncludeAdult   bool
	RankResults    bool               // Reorder results by title match instead of catalog order
	AfterFunc      debounce.AfterFunc // Timer factory; nil uses real timers
}

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.MinQueryLength <= 0 {
		o.MinQueryLength = DefaultMinQueryLength
	}
	if o.ResultLimit <= 0 {
		o.ResultLimit = DefaultResultLimit
	}
	if o.Language == "" {
		o.Language = "en-US"
	}
	return o
}

// Snapshot is a read-only copy of the session state
type Snapshot struct {
	ID          string
	Query       string
	Category    Category
	Results     []domain.CatalogItem
	Open        bool // Dropdown visible
	Selected    int  // Highlighted row, selection.None when none
	Loading     bool
	Err         error
	Focused     bool
	History     []string
	ShowHistory bool // Focused with an empty query and a non-empty history
	Seq         uint64
}

// Session is the state behind one search box. Safe for concurrent use:
// timer callbacks and fetches run on their own goroutines.
type Session struct {
	id        string
	opts      Options
	orch      *fetch.Orchestrator
	seq       fetch.Sequence
	debouncer *debounce.Scheduler
	history   *history.Store
	navigate  domain.Navigator
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	query    string
	category Category
	results  []domain.CatalogItem
	sel      *selection.Machine
	loading  bool
	err      error
	focused  bool

	subs    map[int]func(Snapshot)
	nextSub int
}

// NewSession creates a session. hist and navigate may be nil.
func NewSession(orch *fetch.Orchestrator, hist *history.Store, navigate domain.Navigator, opts Options, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if hist == nil {
		hist = history.NewStore(nil, 0, logger)
	}
	opts = opts.withDefaults()
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())

	return &Session{
		id:        id,
		opts:      opts,
		orch:      orch,
		debouncer: debounce.NewWithTimer(opts.AfterFunc),
		history:   hist,
		navigate:  navigate,
		logger:    logger.With("session", id),
		ctx:       ctx,
		cancel:    cancel,
		category:  CategoryAll,
		sel:       selection.New(),
		subs:      make(map[int]func(Snapshot)),
	}
}

// SetQuery updates the query. Short queries clear the results at once;
// longer ones are fetched after the debounce delay. Either way any response
// for an earlier query is discarded.
func (s *Session) SetQuery(raw string) {
	s.mu.Lock()
	s.query = raw
	s.seq.Next()

	if err := s.checkQuery(raw); err != nil {
		s.logger.Debug("query not searched", "reason", err)
		s.debouncer.Cancel()
		s.clearResultsLocked()
		s.mu.Unlock()
		s.notify()
		return
	}

	s.loading = true
	s.err = nil
	s.sel.Open()
	s.mu.Unlock()

	s.debouncer.Schedule(raw, s.opts.Debounce, s.fire)
	s.notify()
}

// checkQuery reports ErrEmptyQuery for queries too short to search
func (s *Session) checkQuery(raw string) error {
	if utf8.RuneCountInString(strings.TrimSpace(raw)) < s.opts.MinQueryLength {
		return fmt.Errorf("%w: %q", domain.ErrEmptyQuery, raw)
	}
	return nil
}

func (s *Session) clearResultsLocked() {
	s.results = nil
	s.loading = false
	s.err = nil
	s.sel.Resize(0)
	s.sel.Close()
}

// Clear empties the query and closes the dropdown
func (s *Session) Clear() {
	s.SetQuery("")
}

// SetCategory changes the category and re-runs the current query
func (s *Session) SetCategory(c Category) {
	if !slices.Contains(Categories, c) {
		c = CategoryAll
	}
	s.mu.Lock()
	s.category = c
	query := s.query
	s.mu.Unlock()

	s.SetQuery(query)
}

// CycleCategory moves to the next category
func (s *Session) CycleCategory() {
	s.mu.Lock()
	next := s.category.Next()
	s.mu.Unlock()
	s.SetCategory(next)
}

// fire runs on the debounce timer goroutine
func (s *Session) fire(query string) {
	s.mu.Lock()
	ticket := s.seq.Current()
	category := s.category
	s.mu.Unlock()

	req := fetch.Request{
		Source:   "search",
		Endpoint: Endpoint,
		Params: domain.Params{
			"query":         query,
			"include_adult": strconv.FormatBool(s.opts.IncludeAdult),
			"language":      s.opts.Language,
			"page":          "1",
		},
	}

	s.logger.Debug("searching", "query", query, "category", category, "seq", ticket.ID)
	batch, ok := s.orch.Run(s.ctx, ticket, []fetch.Request{req})
	if !ok {
		return
	}

	s.mu.Lock()
	if !ticket.Valid() {
		s.mu.Unlock()
		return
	}
	s.loading = false

	if err := batch.Err(); err != nil {
		s.results = nil
		s.err = err
		s.sel.Resize(0)
		s.sel.Open()
		s.mu.Unlock()

		s.logger.Warn("search failed", "query", query, "error", err)
		s.notify()
		return
	}

	var cmp pipeline.Comparator
	if s.opts.RankResults {
		cmp = Relevance(query)
	}
	results := pipeline.Apply(batch.Items(), []pipeline.Predicate{pipeline.KindIn(category.Kinds()...)}, cmp)
	if len(results) > s.opts.ResultLimit {
		results = results[:s.opts.ResultLimit]
	}
	s.results = results
	s.err = nil
	s.sel.Resize(len(results))
	s.sel.Open()
	s.mu.Unlock()

	s.logger.Debug("search complete", "query", query, "results", len(results))
	s.notify()
}

// Focus marks the search box focused and reopens the dropdown when there
// is something to show
func (s *Session) Focus() {
	s.mu.Lock()
	s.focused = true
	if s.checkQuery(s.query) == nil && (len(s.results) > 0 || s.loading) {
		s.sel.Open()
	}
	s.mu.Unlock()
	s.notify()
}

// Dismiss closes the dropdown (escape or click outside)
func (s *Session) Dismiss() {
	s.mu.Lock()
	s.sel.Close()
	s.mu.Unlock()
	s.notify()
}

// Blur removes focus and closes the dropdown
func (s *Session) Blur() {
	s.mu.Lock()
	s.focused = false
	s.sel.Close()
	s.mu.Unlock()
	s.notify()
}

// Down highlights the next result
func (s *Session) Down() {
	s.mu.Lock()
	s.sel.Down()
	s.mu.Unlock()
	s.notify()
}

// Up highlights the previous result
func (s *Session) Up() {
	s.mu.Lock()
	s.sel.Up()
	s.mu.Unlock()
	s.notify()
}

// Enter navigates to the highlighted result. Without a highlight it does
// nothing; it never opens the full results page.
func (s *Session) Enter() (domain.Intent, bool) {
	s.mu.Lock()
	idx, ok := s.sel.Enter()
	if !ok || idx >= len(s.results) {
		s.mu.Unlock()
		return domain.Intent{}, false
	}
	intent := domain.IntentFor(s.results[idx])
	s.mu.Unlock()

	s.logger.Info("navigating to result", "path", intent.Path())
	s.emit(intent)
	s.notify()
	return intent, true
}

// Pick navigates to the result at index, as a click would
func (s *Session) Pick(index int) (domain.Intent, bool) {
	s.mu.Lock()
	if index < 0 || index >= len(s.results) {
		s.mu.Unlock()
		return domain.Intent{}, false
	}
	intent := domain.IntentFor(s.results[index])
	s.sel.Close()
	s.mu.Unlock()

	s.emit(intent)
	s.notify()
	return intent, true
}

// ViewAll records the query in history and navigates to the full results
// page. Blank queries do nothing.
func (s *Session) ViewAll() (domain.Intent, bool) {
	s.mu.Lock()
	query := strings.TrimSpace(s.query)
	if query == "" {
		s.mu.Unlock()
		return domain.Intent{}, false
	}
	s.sel.Close()
	s.focused = false
	s.mu.Unlock()

	s.history.Record(query)
	intent := domain.Intent{Target: domain.TargetSearch, Query: query}
	s.logger.Info("viewing all results", "path", intent.Path())
	s.emit(intent)
	s.notify()
	return intent, true
}

// UseHistory runs a past query again and moves it to the front of the history
func (s *Session) UseHistory(query string) {
	s.history.Record(query)
	s.SetQuery(query)
}

// ClearHistory empties the search history
func (s *Session) ClearHistory() {
	s.history.Clear()
	s.notify()
}

// History returns the search history, most recent first
func (s *Session) History() []string {
	return s.history.Entries()
}

func (s *Session) emit(intent domain.Intent) {
	if s.navigate != nil {
		s.navigate(intent)
	}
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() Snapshot {
	hist := s.history.Entries()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(hist)
}

func (s *Session) snapshotLocked(hist []string) Snapshot {
	return Snapshot{
		ID:          s.id,
		Query:       s.query,
		Category:    s.category,
		Results:     slices.Clone(s.results),
		Open:        s.sel.IsOpen(),
		Selected:    s.sel.Index(),
		Loading:     s.loading,
		Err:         s.err,
		Focused:     s.focused,
		History:     hist,
		ShowHistory: s.focused && strings.TrimSpace(s.query) == "" && len(hist) > 0,
		Seq:         s.seq.ID(),
	}
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned func unregisters it.
func (s *Session) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) notify() {
	hist := s.history.Entries()
	s.mu.Lock()
	snap := s.snapshotLocked(hist)
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// Close stops the pending timer and abandons in-flight requests
func (s *Session) Close() {
	s.debouncer.Dispose()
	s.cancel()
	s.mu.Lock()
	s.seq.Next()
	s.subs = make(map[int]func(Snapshot))
	s.mu.Unlock()
}
