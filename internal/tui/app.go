package tui

import (
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/marquee/internal/debounce"
	"github.com/mmcdole/marquee/internal/detail"
	"github.com/mmcdole/marquee/internal/discover"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/fetch"
	"github.com/mmcdole/marquee/internal/listing"
	"github.com/mmcdole/marquee/internal/search"
	"github.com/mmcdole/marquee/internal/tui/components"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateSearching
	StatePeopleQuery
	StateDetail
	StateHelp
)

// Surface is one of the browse listings
type Surface int

const (
	SurfaceTrending Surface = iota
	SurfacePopular
	SurfacePeople
	SurfaceResults
	surfaceCount
)

// Label returns the tab label of the surface
func (s Surface) Label() string {
	switch s {
	case SurfacePopular:
		return "Top Rated"
	case SurfacePeople:
		return "People"
	case SurfaceResults:
		return "Search Results"
	default:
		return "Trending"
	}
}

const tickInterval = 100 * time.Millisecond

const historyNoticeText = "History store unavailable: searches won't be remembered"

// Services are the engine pieces the model drives
type Services struct {
	Session      *search.Session
	Orchestrator *fetch.Orchestrator
	Presets      discover.Presets
	Observer     *ChannelObserver // Must be the observer the session navigates through
	Details      *detail.Service  // Nil shows only what the list already knows
	Logger       *slog.Logger

	// HistoryInMemory warns at startup that search history won't persist
	HistoryInMemory bool
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	// Services
	Session  *search.Session
	Observer *ChannelObserver
	Presets  discover.Presets
	logger   *slog.Logger

	// Search box
	SearchInput textinput.Model
	Dropdown    components.Dropdown
	prevQuery   string

	// Browse surfaces
	Active   Surface
	listings [surfaceCount]*listing.Listing
	panes    [surfaceCount]*components.ListPane
	trending discover.TrendingFilter
	popular  discover.PopularFilter
	people   discover.PeopleFilter

	// People search box, debounced separately from the main search
	PeopleInput    textinput.Model
	peopleDebounce *debounce.Scheduler

	// Detail view
	Detail        domain.CatalogItem
	page          *domain.Detail // Loaded sections of Detail
	detailErr     error
	detailLoading bool
	detailView    viewport.Model
	details       *detail.Service
	Route         string

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg     string
	StatusIsErr   bool
	SpinnerFrame  int
	historyNotice bool
}

// NewModel creates a new application model
func NewModel(svc Services) Model {
	logger := svc.Logger
	if logger == nil {
		logger = slog.Default()
	}

	si := textinput.New()
	si.Placeholder = "Search movies, TV shows and people..."
	si.CharLimit = 100
	si.Prompt = "/ "
	si.PromptStyle = styles.AccentStyle
	si.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	si.PlaceholderStyle = styles.DimStyle

	pi := textinput.New()
	pi.Placeholder = "Search people by name..."
	pi.CharLimit = 100
	pi.Prompt = "p "
	pi.PromptStyle = styles.AccentStyle
	pi.PlaceholderStyle = styles.DimStyle

	m := Model{
		State:          StateBrowsing,
		Session:        svc.Session,
		Observer:       svc.Observer,
		Presets:        svc.Presets,
		logger:         logger,
		SearchInput:    si,
		Dropdown:       components.NewDropdown(),
		PeopleInput:    pi,
		peopleDebounce: debounce.New(),
		trending:       discover.DefaultTrending(),
		popular:        discover.DefaultPopular(),
		people:         discover.DefaultPeople(),
		historyNotice:  svc.HistoryInMemory,
		detailView:     viewport.New(0, 0),
		details:        svc.Details,
	}

	for s := range surfaceCount {
		m.listings[s] = listing.New(svc.Orchestrator, m.surfaceConfig(s), logger.With("surface", s.Label()))
		m.listings[s].Subscribe(svc.Observer.OnListing(s))
		m.panes[s] = components.NewListPane()
		m.panes[s].SetFilters(m.filterSummary(s))
	}
	m.panes[SurfaceTrending].SetFocused(true)
	svc.Session.Subscribe(svc.Observer.OnSearch)

	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		LoadCmd(m.listings[SurfaceTrending], SurfaceTrending),
		m.Observer.Wait(),
		TickCmd(tickInterval),
	}
	if m.historyNotice {
		cmds = append(cmds, func() tea.Msg {
			return StatusMsg{Message: historyNoticeText, IsError: true}
		})
	}
	return tea.Batch(cmds...)
}

// Close releases timers and in-flight work
func (m Model) Close() {
	m.peopleDebounce.Dispose()
	m.Session.Close()
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		m.refreshDetail()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		m.Dropdown.SetSpinnerFrame(m.SpinnerFrame)
		m.refreshSnapshots()
		if m.State == StateDetail && m.detailLoading {
			m.refreshDetail()
		}
		return m, TickCmd(tickInterval)

	case SearchChangedMsg:
		m.Dropdown.SetSnapshot(m.Session.Snapshot())
		m.updateLayout()
		return m, m.Observer.Wait()

	case ListingChangedMsg:
		m.panes[msg.Surface].SetSnapshot(m.listings[msg.Surface].Snapshot())
		return m, m.Observer.Wait()

	case NavigateMsg:
		cmd := m.handleIntent(msg.Intent)
		return m, tea.Batch(cmd, m.Observer.Wait())

	case PeopleQueryMsg:
		cmd := m.applyPeopleQuery(msg.Query)
		return m, tea.Batch(cmd, m.Observer.Wait())

	case ListingDoneMsg:
		pane := m.panes[msg.Surface]
		pane.SetSnapshot(m.listings[msg.Surface].Snapshot())
		if msg.Err != nil {
			m.logger.Warn("listing failed", "surface", msg.Surface.Label(), "error", msg.Err)
			m.StatusMsg = msg.Surface.Label() + ": couldn't load, press r to retry"
			m.StatusIsErr = true
			return m, ClearStatusCmd(5 * time.Second)
		}
		// Keep paging while the cursor sits at the end of a short page
		if msg.Surface == m.Active {
			return m, m.maybeLoadMore()
		}
		return m, nil

	case DetailLoadedMsg:
		if m.Detail == nil || msg.Key != m.Detail.Key() || errors.Is(msg.Err, detail.ErrSuperseded) {
			return m, nil
		}
		m.detailLoading = false
		if msg.Err != nil {
			m.logger.Warn("detail failed", "item", msg.Key.String(), "error", msg.Err)
			m.detailErr = msg.Err
		} else {
			m.page = msg.Detail
		}
		m.refreshDetail()
		return m, nil

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		return m, ClearStatusCmd(3 * time.Second)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	// Cursor blink and other input messages
	var cmd tea.Cmd
	switch m.State {
	case StateSearching:
		m.SearchInput, cmd = m.SearchInput.Update(msg)
	case StatePeopleQuery:
		m.PeopleInput, cmd = m.PeopleInput.Update(msg)
	}
	return m, cmd
}

// refreshSnapshots re-reads every snapshot. Change signals can be dropped
// under load, so the tick is what guarantees the view converges.
func (m *Model) refreshSnapshots() {
	m.Dropdown.SetSnapshot(m.Session.Snapshot())
	for s := range surfaceCount {
		m.panes[s].SetSnapshot(m.listings[s].Snapshot())
		m.panes[s].SetSpinnerFrame(m.SpinnerFrame)
	}
	m.updateLayout()
}

// maybeLoadMore requests the next page of the active surface when the
// cursor is near the end of what has been loaded
func (m Model) maybeLoadMore() tea.Cmd {
	pane := m.panes[m.Active]
	snap := pane.Snapshot()
	if !pane.NearEnd() || !snap.HasMore || snap.Fetching || snap.Status != listing.StatusReady {
		return nil
	}
	return LoadMoreCmd(m.listings[m.Active], m.Active)
}

// openDetail shows item and starts loading the rest of its page
func (m *Model) openDetail(item domain.CatalogItem) tea.Cmd {
	m.Detail = item
	m.page = nil
	m.detailErr = nil
	m.detailLoading = m.details != nil
	m.State = StateDetail
	m.Route = domain.IntentFor(item).Path()
	m.refreshDetail()
	m.detailView.GotoTop()

	if m.details == nil {
		return nil
	}
	return DetailCmd(m.details, item)
}

func (m *Model) closeDetail() {
	m.State = StateBrowsing
	m.Detail = nil
	m.page = nil
	m.detailErr = nil
	m.detailLoading = false
}

// switchSurface makes s the active surface, loading it on first visit
func (m *Model) switchSurface(s Surface) tea.Cmd {
	m.panes[m.Active].SetFocused(false)
	m.Active = s
	m.panes[s].SetFocused(true)
	m.updateLayout()

	if m.listings[s].Snapshot().Status == listing.StatusIdle && len(m.listings[s].Config().Sources) > 0 {
		return LoadCmd(m.listings[s], s)
	}
	return nil
}
