// Package fetch issues catalog requests in parallel and discards results that
// arrive after a newer request was issued.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mmcdole/marquee/internal/domain"
)

// Request is one page request against one source
type Request struct {
	Source   string // Source name, used for cursor bookkeeping and logs
	Endpoint string
	Params   domain.Params
	Document bool // Fetch a single document instead of a page of items
}

// Outcome is the settled result of one request. Page requests fill Page,
// document requests fill Body.
type Outcome struct {
	Request Request
	Page    *domain.PageResult
	Body    []byte
	Err     error
}

// Find returns the outcome of the request for source
func (b Batch) Find(source string) (Outcome, bool) {
	for _, o := range b.Outcomes {
		if o.Request.Source == source {
			return o, true
		}
	}
	return Outcome{}, false
}

// Batch holds the outcomes of one Run, in request order
type Batch struct {
	Ticket   Ticket
	Outcomes []Outcome
}

// Succeeded returns the outcomes that produced a page
func (b Batch) Succeeded() []Outcome {
	var ok []Outcome
	for _, o := range b.Outcomes {
		if o.Err == nil && (o.Page != nil || o.Body != nil) {
			ok = append(ok, o)
		}
	}
	return ok
}

// AllFailed reports whether a non-empty batch produced no page at all
func (b Batch) AllFailed() bool {
	return len(b.Outcomes) > 0 && len(b.Succeeded()) == 0
}

// Err returns an error wrapping domain.ErrAllSourcesFailed when every source
// failed, or nil otherwise
func (b Batch) Err() error {
	if !b.AllFailed() {
		return nil
	}
	errs := make([]error, 0, len(b.Outcomes))
	for _, o := range b.Outcomes {
		errs = append(errs, fmt.Errorf("%s: %w", o.Request.Source, o.Err))
	}
	return fmt.Errorf("%w: %w", domain.ErrAllSourcesFailed, errors.Join(errs...))
}

// Items returns the item lists of the successful outcomes, in request order
func (b Batch) Items() [][]domain.CatalogItem {
	var lists [][]domain.CatalogItem
	for _, o := range b.Succeeded() {
		if o.Page != nil {
			lists = append(lists, o.Page.Items)
		}
	}
	return lists
}

// Orchestrator fans requests out to a gateway
type Orchestrator struct {
	gateway     domain.Gateway
	logger      *slog.Logger
	maxParallel int
}

// NewOrchestrator creates an orchestrator. maxParallel <= 0 means no limit.
func NewOrchestrator(gateway domain.Gateway, maxParallel int, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		gateway:     gateway,
		logger:      logger,
		maxParallel: maxParallel,
	}
}

// Run issues all requests concurrently and waits for every one to settle.
// It returns ok=false when the ticket was superseded while the requests were
// in flight; the batch must then be ignored.
func (o *Orchestrator) Run(ctx context.Context, ticket Ticket, reqs []Request) (Batch, bool) {
	batch := Batch{Ticket: ticket, Outcomes: make([]Outcome, len(reqs))}
	start := time.Now()

	// Goroutines never return an error: one failed source must not cancel the others.
	var g errgroup.Group
	if o.maxParallel > 0 {
		g.SetLimit(o.maxParallel)
	}
	for i, req := range reqs {
		g.Go(func() error {
			batch.Outcomes[i] = o.fetch(ctx, req)
			return nil
		})
	}
	_ = g.Wait()

	for _, out := range batch.Outcomes {
		if out.Err != nil {
			o.logger.Warn("source fetch failed",
				"source", out.Request.Source,
				"endpoint", out.Request.Endpoint,
				"seq", ticket.ID,
				"error", out.Err)
		}
	}

	if !ticket.Valid() {
		o.logger.Debug("discarding stale batch", "seq", ticket.ID, "requests", len(reqs))
		return Batch{}, false
	}

	o.logger.Debug("batch settled",
		"seq", ticket.ID,
		"requests", len(reqs),
		"failed", len(reqs)-len(batch.Succeeded()),
		"elapsed", time.Since(start))
	return batch, true
}

func (o *Orchestrator) fetch(ctx context.Context, req Request) (out Outcome) {
	out.Request = req
	defer func() {
		if r := recover(); r != nil {
			out.Page = nil
			out.Body = nil
			out.Err = fmt.Errorf("%w: gateway panic: %v", domain.ErrNetwork, r)
		}
	}()

	if req.Document {
		return o.fetchDocument(ctx, out)
	}

	page, err := o.gateway.FetchPage(ctx, req.Endpoint, req.Params)
	if err != nil {
		out.Err = err
		return out
	}
	if page == nil {
		out.Err = fmt.Errorf("%w: empty response", domain.ErrNetwork)
		return out
	}
	out.Page = page
	return out
}

func (o *Orchestrator) fetchDocument(ctx context.Context, out Outcome) Outcome {
	docs, ok := o.gateway.(domain.DocumentGateway)
	if !ok {
		out.Err = fmt.Errorf("%w: gateway cannot fetch documents", domain.ErrNetwork)
		return out
	}

	body, err := docs.FetchDocument(ctx, out.Request.Endpoint, out.Request.Params)
	if err != nil {
		out.Err = err
		return out
	}
	if len(body) == 0 {
		out.Err = fmt.Errorf("%w: empty response", domain.ErrNetwork)
		return out
	}
	out.Body = body
	return out
}
