package tui

import "github.com/mmcdole/marquee/internal/domain"

// Message types for the TUI

// SearchChangedMsg signals that the search session state changed
type SearchChangedMsg struct{}

// ListingChangedMsg signals that a surface's listing state changed
type ListingChangedMsg struct {
	Surface Surface
}

// ListingDoneMsg is sent when a load, load-more or retry returns
type ListingDoneMsg struct {
	Surface Surface
	Err     error
}

// NavigateMsg carries a navigation intent emitted by the search session
type NavigateMsg struct {
	Intent domain.Intent
}

// DetailLoadedMsg carries the sections of a detail page
type DetailLoadedMsg struct {
	Key    domain.Key
	Detail *domain.Detail
	Err    error
}

// PeopleQueryMsg carries a debounced people search query
type PeopleQueryMsg struct {
	Query string
}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
