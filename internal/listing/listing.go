// Package listing aggregates several paginated catalog sources into one
// append-only, infinitely scrollable list.
package listing

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/fetch"
	"github.com/mmcdole/marquee/internal/pipeline"
)

// Status is the load state of a listing
type Status int

const (
	StatusIdle    Status = iota // Configured, nothing requested yet
	StatusLoading               // First page in flight
	StatusReady                 // At least one batch applied
	StatusFailed                // Every source failed on the last batch
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Config describes what a listing shows
type Config struct {
	Name       string
	Sources    []Source
	Predicates []pipeline.Predicate
	Comparator pipeline.Comparator // nil keeps fetch order
	Cap        int                 // Maximum items kept; 0 means unlimited
}

// Snapshot is a read-only copy of a listing's state
type Snapshot struct {
	Name     string
	Items    []domain.CatalogItem
	HasMore  bool
	Status   Status
	Err      error // Set when Status is StatusFailed
	Fetching bool  // A batch for the current configuration is in flight
	Seq      uint64
	Progress []Progress
}

// Listing fetches pages of its configured sources, runs them through the
// pipeline and appends the new items. Safe for concurrent use; network
// calls are made without holding the lock.
type Listing struct {
	mu     sync.Mutex
	orch   *fetch.Orchestrator
	seq    fetch.Sequence
	logger *slog.Logger

	cfg      Config
	cursor   *Cursor
	items    []domain.CatalogItem
	seen     map[domain.Key]struct{}
	status   Status
	err      error
	capped   bool
	inFlight bool
	flightID uint64

	subs    map[int]func(Snapshot)
	nextSub int
}

// New creates an idle listing for cfg
func New(orch *fetch.Orchestrator, cfg Config, logger *slog.Logger) *Listing {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Listing{
		orch:   orch,
		logger: logger,
		subs:   make(map[int]func(Snapshot)),
	}
	l.seq.Next()
	l.resetLocked(cfg)
	return l
}

// Configure replaces the listing's configuration. Any batch in flight for the
// previous configuration is discarded when it settles.
func (l *Listing) Configure(cfg Config) {
	l.mu.Lock()
	l.seq.Next()
	l.resetLocked(cfg)
	l.mu.Unlock()

	l.notify()
}

// Config returns the current configuration
func (l *Listing) Config() Config {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cfg
}

func (l *Listing) resetLocked(cfg Config) {
	l.cfg = cfg
	l.cursor = NewCursor(cfg.Sources)
	l.items = nil
	l.seen = make(map[domain.Key]struct{})
	l.status = StatusIdle
	l.err = nil
	l.capped = false
	l.inFlight = false
}

// Load discards accumulated items and fetches page 1 of every source.
// It blocks until the batch settles and returns the batch error, if any.
func (l *Listing) Load(ctx context.Context) error {
	l.mu.Lock()
	ticket := l.seq.Next()
	l.resetLocked(l.cfg)
	reqs := l.cursor.Advance()
	if len(reqs) == 0 {
		l.status = StatusReady
		l.mu.Unlock()
		l.notify()
		return nil
	}
	l.status = StatusLoading
	l.startLocked(ticket)
	name := l.cfg.Name
	l.mu.Unlock()

	l.logger.Info("loading listing", "listing", name, "sources", len(reqs), "seq", ticket.ID)
	l.notify()
	return l.run(ctx, ticket, reqs)
}

// Refresh reloads the listing from page 1
func (l *Listing) Refresh(ctx context.Context) error {
	return l.Load(ctx)
}

// LoadMore fetches the next page of every source that has one. It does
// nothing while a batch is in flight, after every source is exhausted, or
// while the listing is failed.
func (l *Listing) LoadMore(ctx context.Context) error {
	l.mu.Lock()
	if l.status != StatusReady || l.capped || !l.cursor.HasMore() {
		l.mu.Unlock()
		return nil
	}
	ticket := l.seq.Current()
	if l.inFlight && l.flightID == ticket.ID {
		l.mu.Unlock()
		return nil
	}
	reqs := l.cursor.Advance()
	l.startLocked(ticket)
	name := l.cfg.Name
	l.mu.Unlock()

	l.logger.Debug("loading more", "listing", name, "sources", len(reqs), "seq", ticket.ID)
	l.notify()
	return l.run(ctx, ticket, reqs)
}

// Retry re-issues the requests of a failed listing. Sources that succeeded
// before keep their position.
func (l *Listing) Retry(ctx context.Context) error {
	l.mu.Lock()
	if l.status != StatusFailed {
		l.mu.Unlock()
		return nil
	}
	if !l.cursor.Started() {
		l.mu.Unlock()
		return l.Load(ctx)
	}
	ticket := l.seq.Current()
	reqs := l.cursor.Advance()
	l.status = StatusReady
	l.err = nil
	l.startLocked(ticket)
	name := l.cfg.Name
	l.mu.Unlock()

	l.logger.Info("retrying listing", "listing", name, "sources", len(reqs), "seq", ticket.ID)
	l.notify()
	return l.run(ctx, ticket, reqs)
}

func (l *Listing) startLocked(ticket fetch.Ticket) {
	l.inFlight = true
	l.flightID = ticket.ID
}

func (l *Listing) run(ctx context.Context, ticket fetch.Ticket, reqs []fetch.Request) error {
	batch, ok := l.orch.Run(ctx, ticket, reqs)
	if !ok {
		return nil
	}

	l.mu.Lock()
	// Configure may have run between the orchestrator's check and here
	if !ticket.Valid() {
		l.mu.Unlock()
		return nil
	}
	l.inFlight = false
	name := l.cfg.Name

	if batch.AllFailed() {
		l.status = StatusFailed
		l.err = batch.Err()
		err := l.err
		l.mu.Unlock()

		l.logger.Error("listing fetch failed", "listing", name, "seq", ticket.ID, "error", err)
		l.notify()
		return err
	}

	for _, out := range batch.Succeeded() {
		l.cursor.Observe(out.Request.Source, out.Page)
	}
	added := l.appendLocked(batch.Items())
	l.status = StatusReady
	l.err = nil
	total := len(l.items)
	l.mu.Unlock()

	l.logger.Debug("listing updated", "listing", name, "seq", ticket.ID, "added", added, "total", total)
	l.notify()
	return nil
}

// appendLocked runs new pages through the pipeline and appends what was not
// already shown. Existing items never move.
func (l *Listing) appendLocked(lists [][]domain.CatalogItem) int {
	page := pipeline.Apply(lists, l.cfg.Predicates, l.cfg.Comparator)
	fresh, _ := pipeline.Dedupe(page, l.seen)
	l.items = append(l.items, fresh...)

	if l.cfg.Cap > 0 && len(l.items) >= l.cfg.Cap {
		l.items = l.items[:l.cfg.Cap]
		l.capped = true
	}
	return len(fresh)
}

// Snapshot returns a copy of the current state
func (l *Listing) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *Listing) snapshotLocked() Snapshot {
	return Snapshot{
		Name:     l.cfg.Name,
		Items:    slices.Clone(l.items),
		HasMore:  !l.capped && l.cursor.HasMore() && l.status != StatusIdle && l.status != StatusFailed,
		Status:   l.status,
		Err:      l.err,
		Fetching: l.inFlight && l.flightID == l.seq.ID(),
		Seq:      l.seq.ID(),
		Progress: l.cursor.Progress(),
	}
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned func unregisters it.
func (l *Listing) Subscribe(fn func(Snapshot)) (cancel func()) {
	l.mu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.subs, id)
		l.mu.Unlock()
	}
}

func (l *Listing) notify() {
	l.mu.Lock()
	snap := l.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(l.subs))
	for _, fn := range l.subs {
		subs = append(subs, fn)
	}
	l.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
