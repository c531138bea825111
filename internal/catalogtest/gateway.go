// Package catalogtest provides an in-memory catalog gateway for tests.
package catalogtest

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/mmcdole/marquee/internal/domain"
)

// Call records one FetchPage invocation
type Call struct {
	Endpoint string
	Params   domain.Params
}

// Page returns the requested page number, 1 when absent
func (c Call) Page() int {
	if n, err := strconv.Atoi(c.Params["page"]); err == nil {
		return n
	}
	return 1
}

// Gateway serves canned pages per endpoint. Handlers may block on Hold
// channels so tests control resolution order.
type Gateway struct {
	mu       sync.Mutex
	pages    map[string][]*domain.PageResult
	docs     map[string][]byte
	failures map[string]error
	holds    map[string]chan struct{}
	calls    []Call
	started  chan Call
}

// NewGateway returns an empty gateway; unknown endpoints fail with ErrNetwork
func NewGateway() *Gateway {
	return &Gateway{
		pages:    make(map[string][]*domain.PageResult),
		docs:     make(map[string][]byte),
		failures: make(map[string]error),
		holds:    make(map[string]chan struct{}),
		started:  make(chan Call, 64),
	}
}

// Serve registers the pages of an endpoint, page 1 first. TotalPages is
// filled in from the number of pages given.
func (g *Gateway) Serve(endpoint string, pages ...[]domain.CatalogItem) *Gateway {
	g.mu.Lock()
	defer g.mu.Unlock()
	results := make([]*domain.PageResult, len(pages))
	for i, items := range pages {
		results[i] = &domain.PageResult{Items: items, Page: i + 1, TotalPages: len(pages)}
	}
	g.pages[endpoint] = results
	return g
}

// ServeDocument registers the body returned by FetchDocument for endpoint
func (g *Gateway) ServeDocument(endpoint, body string) *Gateway {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.docs[endpoint] = []byte(body)
	return g
}

// Fail makes every call to endpoint return err until Recover is called
func (g *Gateway) Fail(endpoint string, err error) *Gateway {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures[endpoint] = err
	return g
}

// Recover clears a failure registered with Fail
func (g *Gateway) Recover(endpoint string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.failures, endpoint)
}

// Hold blocks calls to endpoint until the returned release func is called
func (g *Gateway) Hold(endpoint string) (release func()) {
	ch := make(chan struct{})
	g.mu.Lock()
	g.holds[endpoint] = ch
	g.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			if g.holds[endpoint] == ch {
				delete(g.holds, endpoint)
			}
			g.mu.Unlock()
			close(ch)
		})
	}
}

// Started delivers every call as it begins
func (g *Gateway) Started() <-chan Call {
	return g.started
}

// Calls returns the calls made so far
func (g *Gateway) Calls() []Call {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Call(nil), g.calls...)
}

// CallsTo returns the calls made to endpoint
func (g *Gateway) CallsTo(endpoint string) []Call {
	var out []Call
	for _, c := range g.Calls() {
		if c.Endpoint == endpoint {
			out = append(out, c)
		}
	}
	return out
}

// begin records call and waits out any hold on its endpoint
func (g *Gateway) begin(ctx context.Context, call Call) error {
	g.mu.Lock()
	g.calls = append(g.calls, call)
	hold := g.holds[call.Endpoint]
	g.mu.Unlock()

	select {
	case g.started <- call:
	default:
	}

	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", domain.ErrNetwork, ctx.Err())
		}
	}
	return nil
}

func (g *Gateway) FetchDocument(ctx context.Context, endpoint string, params domain.Params) ([]byte, error) {
	if err := g.begin(ctx, Call{Endpoint: endpoint, Params: params.Clone()}); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.failures[endpoint]; err != nil {
		return nil, err
	}
	body, ok := g.docs[endpoint]
	if !ok {
		return nil, fmt.Errorf("%w: no such document %s", domain.ErrNetwork, endpoint)
	}
	return body, nil
}

func (g *Gateway) FetchPage(ctx context.Context, endpoint string, params domain.Params) (*domain.PageResult, error) {
	call := Call{Endpoint: endpoint, Params: params.Clone()}
	if err := g.begin(ctx, call); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.failures[endpoint]; err != nil {
		return nil, err
	}
	pages, ok := g.pages[endpoint]
	if !ok {
		return nil, fmt.Errorf("%w: no such endpoint %s", domain.ErrNetwork, endpoint)
	}
	n := call.Page()
	if n < 1 || n > len(pages) {
		return &domain.PageResult{Page: n, TotalPages: len(pages)}, nil
	}
	return pages[n-1], nil
}

// Movies builds movies with the given IDs and descending popularity
func Movies(ids ...int) []domain.CatalogItem {
	items := make([]domain.CatalogItem, len(ids))
	for i, id := range ids {
		items[i] = &domain.Movie{ID: id, Title: fmt.Sprintf("Movie %d", id), Popularity: float64(100 - i)}
	}
	return items
}

// Shows builds TV shows with the given IDs and descending popularity
func Shows(ids ...int) []domain.CatalogItem {
	items := make([]domain.CatalogItem, len(ids))
	for i, id := range ids {
		items[i] = &domain.TvShow{ID: id, Name: fmt.Sprintf("Show %d", id), Popularity: float64(100 - i)}
	}
	return items
}

// Keys returns the keys of items in order
func Keys(items []domain.CatalogItem) []domain.Key {
	out := make([]domain.Key, len(items))
	for i, it := range items {
		out[i] = it.Key()
	}
	return out
}
