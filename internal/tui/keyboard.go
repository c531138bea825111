package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/marquee/internal/discover"
	"github.com/mmcdole/marquee/internal/listing"
	"github.com/mmcdole/marquee/internal/tui/components"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c always quits, even while typing
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.State {
	case StateHelp:
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.State = StateBrowsing
		}
		return m, nil

	case StateDetail:
		switch {
		case key.Matches(msg, Keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, Keys.Escape, Keys.Enter):
			m.closeDetail()
			return m, nil
		case key.Matches(msg, Keys.Search):
			return m.focusSearch()
		case key.Matches(msg, Keys.Retry):
			if m.detailErr != nil {
				cmd := m.openDetail(m.Detail)
				return m, cmd
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.detailView, cmd = m.detailView.Update(msg)
		return m, cmd

	case StateSearching:
		return m.handleSearchKey(msg)

	case StatePeopleQuery:
		return m.handlePeopleKey(msg)
	}

	return m.handleBrowseKey(msg)
}

func (m Model) focusSearch() (tea.Model, tea.Cmd) {
	m.closeDetail()
	m.State = StateSearching
	m.Session.Focus()
	cmd := m.SearchInput.Focus()
	return m, cmd
}

// handleSearchKey handles keys while the search box has focus
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := components.SearchBoxKeys

	switch {
	case key.Matches(msg, keys.Escape):
		// First escape closes the dropdown, second leaves the search box
		if m.Session.Snapshot().Open {
			m.Session.Dismiss()
			return m, nil
		}
		m.Session.Blur()
		m.SearchInput.Blur()
		m.State = StateBrowsing
		return m, nil

	case key.Matches(msg, keys.Down):
		if m.Dropdown.ShowingHistory() {
			m.Dropdown.HistoryDown()
		} else {
			m.Session.Down()
		}
		return m, nil

	case key.Matches(msg, keys.Up):
		if m.Dropdown.ShowingHistory() {
			m.Dropdown.HistoryUp()
		} else {
			m.Session.Up()
		}
		return m, nil

	case key.Matches(msg, keys.Enter):
		if m.Dropdown.ShowingHistory() {
			if q, ok := m.Dropdown.SelectedHistory(); ok {
				m.SearchInput.SetValue(q)
				m.SearchInput.CursorEnd()
				m.prevQuery = q
				m.Session.UseHistory(q)
			}
			return m, nil
		}
		// The session emits the intent through the observer
		m.Session.Enter()
		return m, nil

	case key.Matches(msg, keys.Category):
		m.Session.CycleCategory()
		return m, nil

	case key.Matches(msg, keys.ViewAll):
		m.Session.ViewAll()
		return m, nil

	case key.Matches(msg, keys.ClearHistory):
		m.Session.ClearHistory()
		return m, nil
	}

	var cmd tea.Cmd
	m.SearchInput, cmd = m.SearchInput.Update(msg)
	if q := m.SearchInput.Value(); q != m.prevQuery {
		m.prevQuery = q
		m.Session.SetQuery(q)
	}
	return m, cmd
}

// handlePeopleKey handles keys while the people search box has focus
func (m Model) handlePeopleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Escape):
		m.PeopleInput.Blur()
		m.State = StateBrowsing
		return m, nil

	case key.Matches(msg, Keys.Enter):
		// Search now instead of waiting out the debounce
		m.peopleDebounce.Cancel()
		m.PeopleInput.Blur()
		m.State = StateBrowsing
		cmd := m.applyPeopleQuery(m.PeopleInput.Value())
		return m, cmd
	}

	before := m.PeopleInput.Value()
	var cmd tea.Cmd
	m.PeopleInput, cmd = m.PeopleInput.Update(msg)
	if q := m.PeopleInput.Value(); q != before {
		obs := m.Observer
		m.peopleDebounce.Schedule(q, discover.PeopleSearchDebounce, func(q string) {
			obs.Post(PeopleQueryMsg{Query: q})
		})
	}
	return m, cmd
}

// handleBrowseKey handles keys on the browse surfaces
func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	active := m.listings[m.Active]

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Search):
		return m.focusSearch()

	case key.Matches(msg, Keys.Trending):
		cmd := m.switchSurface(SurfaceTrending)
		return m, cmd
	case key.Matches(msg, Keys.Popular):
		cmd := m.switchSurface(SurfacePopular)
		return m, cmd
	case key.Matches(msg, Keys.People):
		cmd := m.switchSurface(SurfacePeople)
		return m, cmd
	case key.Matches(msg, Keys.Results):
		cmd := m.switchSurface(SurfaceResults)
		return m, cmd

	case key.Matches(msg, Keys.Enter):
		if item := m.panes[m.Active].Selected(); item != nil {
			cmd := m.openDetail(item)
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, Keys.LoadMore):
		snap := active.Snapshot()
		if snap.Status == listing.StatusReady && snap.HasMore {
			return m, LoadMoreCmd(active, m.Active)
		}
		return m, nil

	case key.Matches(msg, Keys.Retry):
		if active.Snapshot().Status == listing.StatusFailed {
			return m, RetryCmd(active, m.Active)
		}
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		if len(active.Config().Sources) > 0 {
			return m, RefreshCmd(active, m.Active)
		}
		return m, nil

	case key.Matches(msg, Keys.FindPeople):
		if m.Active != SurfacePeople {
			return m, nil
		}
		m.State = StatePeopleQuery
		cmd := tea.Batch(m.PeopleInput.Focus(), textinput.Blink)
		return m, cmd
	}

	if m.cycleFilter(msg) {
		cmd := m.reconfigure(m.Active)
		return m, cmd
	}

	if m.panes[m.Active].Update(msg) {
		return m, m.maybeLoadMore()
	}
	return m, nil
}

// cycleFilter advances the filter bound to msg on the active surface
func (m *Model) cycleFilter(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, Keys.Sort):
		return m.cycleSort()
	case key.Matches(msg, Keys.Media):
		return m.cycleMedia()
	case key.Matches(msg, Keys.Window):
		return m.cycleWindow()
	case key.Matches(msg, Keys.Genre):
		return m.cycleGenre()
	case key.Matches(msg, Keys.MinRating):
		return m.cycleMinRating()
	case key.Matches(msg, Keys.Gender):
		return m.cycleGender()
	case key.Matches(msg, Keys.Department):
		return m.cycleDepartment()
	default:
		return false
	}
}

// helpLines lists the bindings that apply in the current state
func (m Model) helpLines() []key.Binding {
	switch m.State {
	case StateSearching:
		k := components.SearchBoxKeys
		return []key.Binding{k.Up, k.Down, k.Enter, k.Category, k.ViewAll, k.ClearHistory, k.Escape}
	case StatePeopleQuery:
		return []key.Binding{Keys.Enter, Keys.Escape}
	case StateDetail:
		if m.detailErr != nil {
			return []key.Binding{Keys.Escape, Keys.Retry, Keys.Search, Keys.Quit}
		}
		return []key.Binding{Keys.Escape, Keys.Scroll, Keys.Search, Keys.Quit}
	}

	bindings := []key.Binding{Keys.Search, Keys.Trending, Keys.Popular, Keys.People, Keys.Results}
	switch m.Active {
	case SurfaceTrending:
		bindings = append(bindings, Keys.Media, Keys.Window, Keys.Genre, Keys.Sort)
	case SurfacePopular:
		bindings = append(bindings, Keys.Media, Keys.Genre, Keys.MinRating, Keys.Sort)
	case SurfacePeople:
		bindings = append(bindings, Keys.FindPeople, Keys.Gender, Keys.Department, Keys.Sort)
	}
	return append(bindings, Keys.LoadMore, Keys.Retry, Keys.Help, Keys.Quit)
}

func renderBindings(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}
