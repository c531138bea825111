package listing

import (
	"strconv"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/fetch"
)

// Source is one independently paginated collection
type Source struct {
	Name     string
	Endpoint string
	Params   domain.Params // Fixed params; the cursor adds "page"
}

type sourceState struct {
	source     Source
	nextPage   int
	lastPage   int // 0 until a page was observed
	totalPages int
	exhausted  bool
}

// Cursor tracks the next page of each source. A source only advances when
// a page from it is observed, so a failed source is asked again next time.
type Cursor struct {
	states []*sourceState
}

// NewCursor creates a cursor positioned at page 1 of every source
func NewCursor(sources []Source) *Cursor {
	c := &Cursor{states: make([]*sourceState, len(sources))}
	for i, src := range sources {
		c.states[i] = &sourceState{source: src, nextPage: 1}
	}
	return c
}

// Advance returns one request per source that is not exhausted
func (c *Cursor) Advance() []fetch.Request {
	var reqs []fetch.Request
	for _, st := range c.states {
		if st.exhausted {
			continue
		}
		params := st.source.Params.Clone()
		params["page"] = strconv.Itoa(st.nextPage)
		reqs = append(reqs, fetch.Request{
			Source:   st.source.Name,
			Endpoint: st.source.Endpoint,
			Params:   params,
		})
	}
	return reqs
}

// Observe records a page received from the named source
func (c *Cursor) Observe(source string, page *domain.PageResult) {
	if page == nil {
		return
	}
	for _, st := range c.states {
		if st.source.Name != source {
			continue
		}
		st.lastPage = page.Page
		st.totalPages = page.TotalPages
		st.nextPage = page.Page + 1
		st.exhausted = page.Exhausted()
		return
	}
}

// HasMore reports whether any source has pages left
func (c *Cursor) HasMore() bool {
	for _, st := range c.states {
		if !st.exhausted {
			return true
		}
	}
	return false
}

// Started reports whether any page was observed
func (c *Cursor) Started() bool {
	for _, st := range c.states {
		if st.lastPage > 0 {
			return true
		}
	}
	return false
}

// Progress describes one source's pagination position
type Progress struct {
	Source     string
	LastPage   int
	TotalPages int
	Exhausted  bool
}

// Progress returns the position of every source, in source order
func (c *Cursor) Progress() []Progress {
	out := make([]Progress, len(c.states))
	for i, st := range c.states {
		out[i] = Progress{
			Source:     st.source.Name,
			LastPage:   st.lastPage,
			TotalPages: st.totalPages,
			Exhausted:  st.exhausted,
		}
	}
	return out
}
