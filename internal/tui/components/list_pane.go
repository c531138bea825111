package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/listing"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// Layout constants for list panes
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Title, filter summary, scroll indicator and status footer
	PaneChromeLines = 4

	// Rows from the end at which the next page is requested
	LoadAheadRows = 3
)

// ListPane is a scrollable view over a listing snapshot
type ListPane struct {
	snap    listing.Snapshot
	filters string

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	spinnerFrame int
}

// NewListPane creates an empty pane
func NewListPane() *ListPane {
	return &ListPane{}
}

// SetSnapshot replaces the rendered state. Items only grow within one
// configuration, so the cursor survives unless the list was reset.
func (p *ListPane) SetSnapshot(s listing.Snapshot) {
	if s.Seq != p.snap.Seq && len(s.Items) < len(p.snap.Items) {
		p.cursor = 0
		p.offset = 0
	}
	p.snap = s
	if n := len(s.Items); p.cursor >= n {
		p.cursor = max(n-1, 0)
	}
	p.ensureVisible()
}

// Snapshot returns the rendered state
func (p *ListPane) Snapshot() listing.Snapshot {
	return p.snap
}

// SetFilters sets the one-line summary of the active filters
func (p *ListPane) SetFilters(summary string) {
	p.filters = summary
}

func (p *ListPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.recalcMaxVisible()
	p.ensureVisible()
}

func (p *ListPane) SetFocused(focused bool) {
	p.focused = focused
}

func (p *ListPane) SetSpinnerFrame(frame int) {
	p.spinnerFrame = frame
}

// Cursor returns the selected row
func (p *ListPane) Cursor() int {
	return p.cursor
}

// Selected returns the item under the cursor, nil when empty
func (p *ListPane) Selected() domain.CatalogItem {
	if p.cursor < 0 || p.cursor >= len(p.snap.Items) {
		return nil
	}
	return p.snap.Items[p.cursor]
}

// NearEnd reports whether the cursor is close enough to the end that the
// next page should be requested
func (p *ListPane) NearEnd() bool {
	n := len(p.snap.Items)
	return n > 0 && p.cursor >= n-LoadAheadRows
}

// Update handles navigation keys and reports whether msg was one
func (p *ListPane) Update(msg tea.KeyMsg) bool {
	count := len(p.snap.Items)
	if count == 0 {
		return false
	}

	switch {
	case key.Matches(msg, ListPaneKeys.Down):
		if p.cursor < count-1 {
			p.cursor++
		}
	case key.Matches(msg, ListPaneKeys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, ListPaneKeys.Home):
		p.cursor = 0
	case key.Matches(msg, ListPaneKeys.End):
		p.cursor = count - 1
	case key.Matches(msg, ListPaneKeys.HalfDown):
		p.cursor = min(p.cursor+p.maxVisible/2, count-1)
	case key.Matches(msg, ListPaneKeys.HalfUp):
		p.cursor = max(p.cursor-p.maxVisible/2, 0)
	case key.Matches(msg, ListPaneKeys.PageDown):
		p.cursor = min(p.cursor+p.maxVisible, count-1)
	case key.Matches(msg, ListPaneKeys.PageUp):
		p.cursor = max(p.cursor-p.maxVisible, 0)
	default:
		return false
	}
	p.ensureVisible()
	return true
}

func (p *ListPane) View() string {
	style := styles.InactiveBorder
	if p.focused {
		style = styles.ActiveBorder
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(p.width - frameW).
		Height(p.height - frameH).
		Render(p.renderContent())
}

func (p *ListPane) recalcMaxVisible() {
	p.maxVisible = max(p.height-BorderHeight-PaneChromeLines, 1)
}

func (p *ListPane) ensureVisible() {
	// Don't adjust offset if size hasn't been set yet
	if p.maxVisible <= 0 {
		return
	}
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+p.maxVisible {
		p.offset = p.cursor - p.maxVisible + 1
	}
}

// Rendering

func (p *ListPane) renderContent() string {
	itemWidth := max(p.width-BorderWidth, 10)

	title := styles.AccentStyle.Render(styles.Truncate(p.snap.Name, itemWidth))
	filters := styles.DimStyle.Render(styles.Truncate(p.filters, itemWidth))
	if p.filters == "" {
		filters = " "
	}

	count := len(p.snap.Items)
	if count == 0 {
		return strings.Join([]string{title, filters, " ", p.renderStatus(itemWidth)}, "\n")
	}

	end := min(p.offset+p.maxVisible, count)
	lines := make([]string, 0, end-p.offset)
	for i := p.offset; i < end; i++ {
		lines = append(lines, p.renderItem(p.snap.Items[i], i == p.cursor, itemWidth))
	}

	// Always reserve the indicator line to prevent layout shifts
	indicator := " "
	if p.offset > 0 {
		indicator = styles.DimStyle.Render(fmt.Sprintf("↑ %d more", p.offset))
	}

	return strings.Join([]string{
		title,
		filters,
		indicator,
		strings.Join(lines, "\n"),
		p.renderStatus(itemWidth),
	}, "\n")
}

func (p *ListPane) renderItem(item domain.CatalogItem, selected bool, width int) string {
	meta := "  " + domain.Describe(item)
	titleWidth := max(width-len([]rune(meta))-2, 8)
	dim := styles.DimGray
	return styles.RenderListRow([]styles.RowPart{
		{Text: styles.Truncate(item.DisplayName(), titleWidth)},
		{Text: meta, Foreground: &dim},
	}, selected, width)
}

func (p *ListPane) renderStatus(width int) string {
	s := p.snap
	spinner := styles.Spinner(p.spinnerFrame)

	switch {
	case s.Status == listing.StatusFailed:
		return styles.ErrorStyle.Render(styles.Truncate("Couldn't load: "+errorText(s.Err)+" · r to retry", width))
	case s.Status == listing.StatusLoading:
		return styles.DimStyle.Render(spinner + " Loading...")
	case s.Fetching:
		return styles.DimStyle.Render(spinner + " Loading more...")
	case s.Status == listing.StatusIdle:
		return styles.DimStyle.Render("Not loaded")
	case len(s.Items) == 0:
		return styles.DimStyle.Render("Nothing matches the current filters")
	case s.HasMore:
		text := fmt.Sprintf("%d items · ↓ more · %s", len(s.Items), progressText(s.Progress))
		return styles.DimStyle.Render(styles.Truncate(text, width))
	default:
		return styles.DimStyle.Render(fmt.Sprintf("%d items · end of list", len(s.Items)))
	}
}

func progressText(progress []listing.Progress) string {
	parts := make([]string, 0, len(progress))
	for _, pr := range progress {
		if pr.Exhausted {
			parts = append(parts, pr.Source+" done")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %d/%d", pr.Source, pr.LastPage, pr.TotalPages))
	}
	return strings.Join(parts, " · ")
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	// Keep the first line of joined per-source errors
	msg, _, _ := strings.Cut(err.Error(), "\n")
	return msg
}
