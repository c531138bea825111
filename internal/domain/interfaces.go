package domain

import "context"

// Params are the query parameters of a catalog request
type Params map[string]string

// Clone returns a copy of the params so callers can add page numbers safely
func (p Params) Clone() Params {
	out := make(Params, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Gateway fetches one page of a catalog collection.
// Base URL, authentication and timeouts are the gateway's concern.
type Gateway interface {
	FetchPage(ctx context.Context, endpoint string, params Params) (*PageResult, error)
}

// DocumentGateway fetches a single catalog document that is not a page of
// items, such as a title's credits. The body is returned undecoded.
type DocumentGateway interface {
	FetchDocument(ctx context.Context, endpoint string, params Params) ([]byte, error)
}

// KeyValueStore persists small string values outside process memory
type KeyValueStore interface {
	ReadKey(name string) (string, bool)
	WriteKey(name, value string) error
}
