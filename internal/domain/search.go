package domain

import (
	"fmt"
	"net/url"
)

// Target is what a navigation intent points at
type Target string

const (
	TargetMovie  Target = "movie"
	TargetTV     Target = "tv"
	TargetPerson Target = "person"
	TargetSearch Target = "search" // Full results page for Query
)

// Intent is emitted when the user commits a selection or asks for all results.
// Routing it is the UI's job.
type Intent struct {
	Target Target
	ID     int
	Query  string
}

// IntentFor builds the navigation intent for a catalog item
func IntentFor(item CatalogItem) Intent {
	return Intent{Target: Target(item.Kind()), ID: item.Key().ID}
}

// Path returns a route-like rendering of the intent (e.g. "/movie/603")
func (i Intent) Path() string {
	if i.Target == TargetSearch {
		return "/search?q=" + url.QueryEscape(i.Query)
	}
	return fmt.Sprintf("/%s/%d", i.Target, i.ID)
}

// Navigator receives navigation intents
type Navigator func(Intent)
