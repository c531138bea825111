package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings used while browsing
type KeyMap struct {
	// Surfaces
	Trending key.Binding
	Popular  key.Binding
	People   key.Binding
	Results  key.Binding

	// Actions
	Quit     key.Binding
	Help     key.Binding
	Escape   key.Binding
	Search   key.Binding
	Enter    key.Binding
	LoadMore key.Binding
	Retry    key.Binding
	Refresh  key.Binding
	Scroll   key.Binding

	// Filters
	Sort       key.Binding
	Media      key.Binding
	Window     key.Binding
	Genre      key.Binding
	MinRating  key.Binding
	Gender     key.Binding
	Department key.Binding
	FindPeople key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Surfaces
		Trending: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "trending"),
		),
		Popular: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "top rated"),
		),
		People: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "people"),
		),
		Results: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "search results"),
		),

		// Actions
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		LoadMore: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "load more"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh"),
		),
		Scroll: key.NewBinding(
			key.WithKeys("up", "down", "pgup", "pgdown"),
			key.WithHelp("↑/↓", "scroll"),
		),

		// Filters
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		Media: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "media"),
		),
		Window: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "day/week"),
		),
		Genre: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "genre"),
		),
		MinRating: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "min rating"),
		),
		Gender: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "gender"),
		),
		Department: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "department"),
		),
		FindPeople: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "find people"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
