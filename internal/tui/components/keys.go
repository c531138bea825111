package components

import "github.com/charmbracelet/bubbles/key"

// ListPaneKeyMap defines key bindings for listing pane navigation
type ListPaneKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Home     key.Binding
	End      key.Binding
	HalfUp   key.Binding
	HalfDown key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

// DefaultListPaneKeyMap returns the default listing pane key bindings
func DefaultListPaneKeyMap() ListPaneKeyMap {
	return ListPaneKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),
		HalfUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("C-u", "half page up"),
		),
		HalfDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("C-d", "half page down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "page down"),
		),
	}
}

// SearchBoxKeyMap defines key bindings while the search box has focus.
// Everything else goes to the text input.
type SearchBoxKeyMap struct {
	Escape       key.Binding
	Enter        key.Binding
	Up           key.Binding
	Down         key.Binding
	Category     key.Binding
	ViewAll      key.Binding
	ClearHistory key.Binding
}

// DefaultSearchBoxKeyMap returns the default search box key bindings
func DefaultSearchBoxKeyMap() SearchBoxKeyMap {
	return SearchBoxKeyMap{
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑/C-p", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓/C-n", "next"),
		),
		Category: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "category"),
		),
		ViewAll: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "all results"),
		),
		ClearHistory: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "clear history"),
		),
	}
}

// Package-level key map instances
var (
	ListPaneKeys  = DefaultListPaneKeyMap()
	SearchBoxKeys = DefaultSearchBoxKeyMap()
)
