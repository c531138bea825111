package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/search"
	"github.com/mmcdole/marquee/internal/selection"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// Dropdown renders the search results or the search history under the
// search box. It holds no search state of its own beyond the history
// cursor; everything else comes from the session snapshot.
type Dropdown struct {
	snap          search.Snapshot
	historyCursor int
	width         int
	spinnerFrame  int
}

// NewDropdown creates an empty dropdown
func NewDropdown() Dropdown {
	return Dropdown{historyCursor: selection.None}
}

// SetSnapshot updates the rendered session state
func (d *Dropdown) SetSnapshot(s search.Snapshot) {
	d.snap = s
	if !s.ShowHistory || d.historyCursor >= len(s.History) {
		d.historyCursor = selection.None
	}
}

func (d *Dropdown) SetWidth(width int) {
	d.width = width
}

func (d *Dropdown) SetSpinnerFrame(frame int) {
	d.spinnerFrame = frame
}

// ShowingHistory reports whether the history list is shown
func (d Dropdown) ShowingHistory() bool {
	return d.snap.ShowHistory
}

// HistoryDown and HistoryUp move through history entries, wrapping like the
// results list does
func (d *Dropdown) HistoryDown() {
	n := len(d.snap.History)
	if n == 0 {
		return
	}
	if d.historyCursor == selection.None || d.historyCursor >= n-1 {
		d.historyCursor = 0
		return
	}
	d.historyCursor++
}

func (d *Dropdown) HistoryUp() {
	n := len(d.snap.History)
	if n == 0 {
		return
	}
	if d.historyCursor <= 0 {
		d.historyCursor = n - 1
		return
	}
	d.historyCursor--
}

// SelectedHistory returns the highlighted history entry
func (d Dropdown) SelectedHistory() (string, bool) {
	if d.historyCursor < 0 || d.historyCursor >= len(d.snap.History) {
		return "", false
	}
	return d.snap.History[d.historyCursor], true
}

// Visible reports whether the dropdown has anything to show
func (d Dropdown) Visible() bool {
	return d.snap.Open || d.snap.ShowHistory
}

// View renders the dropdown, or "" when closed
func (d Dropdown) View() string {
	if !d.Visible() {
		return ""
	}

	width := max(d.width, 30)
	inner := width - styles.DropdownStyle.GetHorizontalFrameSize()

	var b strings.Builder
	if d.snap.ShowHistory {
		d.renderHistory(&b, inner)
	} else {
		b.WriteString(d.renderCategories())
		b.WriteString("\n")
		d.renderResults(&b, inner)
	}

	return styles.DropdownStyle.Width(inner).Render(strings.TrimRight(b.String(), "\n"))
}

func (d Dropdown) renderCategories() string {
	tabs := make([]string, len(search.Categories))
	for i, c := range search.Categories {
		if c == d.snap.Category {
			tabs[i] = styles.ActiveTabStyle.Render(c.Label())
		} else {
			tabs[i] = styles.InactiveTabStyle.Render(c.Label())
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (d Dropdown) renderHistory(b *strings.Builder, width int) {
	b.WriteString(styles.DimStyle.Render("Recent searches"))
	b.WriteString("\n")
	for i, q := range d.snap.History {
		line := styles.Truncate(q, width-2)
		if i == d.historyCursor {
			b.WriteString(styles.SelectedItemStyle.Render(line))
		} else {
			b.WriteString(styles.NormalItemStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString(styles.DimStyle.Render("C-x clear history"))
}

func (d Dropdown) renderResults(b *strings.Builder, width int) {
	switch {
	case d.snap.Loading && len(d.snap.Results) == 0:
		b.WriteString(styles.DimStyle.Render(styles.Spinner(d.spinnerFrame) + " Searching..."))
		return
	case d.snap.Err != nil:
		b.WriteString(styles.ErrorStyle.Render("Search failed. Keep typing to try again."))
		return
	case len(d.snap.Results) == 0:
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("No results for %q", strings.TrimSpace(d.snap.Query))))
		return
	}

	highlights := matchIndexes(d.snap.Query, d.snap.Results)
	for i, item := range d.snap.Results {
		selected := i == d.snap.Selected

		var line strings.Builder
		line.WriteString(kindBadge(item.Kind()))
		line.WriteString(" ")

		title := styles.Truncate(item.DisplayName(), width-20)
		line.WriteString(highlightMatches(title, highlights[i], selected))

		meta := describeShort(item)
		if meta != "" {
			line.WriteString(styles.DimStyle.Render("  " + meta))
		}
		b.WriteString(line.String())
		b.WriteString("\n")
	}

	footer := fmt.Sprintf("C-o all results for %q", strings.TrimSpace(d.snap.Query))
	if d.snap.Loading {
		footer = styles.Spinner(d.spinnerFrame) + " " + footer
	}
	b.WriteString(styles.DimStyle.Render(styles.Truncate(footer, width)))
}

func kindBadge(k domain.Kind) string {
	switch k {
	case domain.KindMovie:
		return styles.DimBadgeStyle.Render("MOV")
	case domain.KindTV:
		return styles.DimBadgeStyle.Render("TV ")
	default:
		return styles.DimBadgeStyle.Render("PER")
	}
}

// describeShort is Describe without the leading kind label, which the
// badge already shows
func describeShort(item domain.CatalogItem) string {
	desc := domain.Describe(item)
	_, rest, found := strings.Cut(desc, " • ")
	if !found {
		return ""
	}
	return rest
}

// matchIndexes returns, per result, the title runes matched by query
func matchIndexes(query string, results []domain.CatalogItem) [][]int {
	out := make([][]int, len(results))
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return out
	}
	titles := make([]string, len(results))
	for i, item := range results {
		titles[i] = strings.ToLower(item.DisplayName())
	}
	for _, m := range fuzzy.Find(query, titles) {
		out[m.Index] = runeIndexes(titles[m.Index], m.MatchedIndexes)
	}
	return out
}

// runeIndexes converts byte offsets into s to rune positions. Lowercasing
// maps rune for rune, so positions line up with the displayed title.
func runeIndexes(s string, offsets []int) []int {
	pos := make(map[int]int, len(s))
	r := 0
	for i := range s {
		pos[i] = r
		r++
	}
	out := make([]int, 0, len(offsets))
	for _, off := range offsets {
		if p, ok := pos[off]; ok {
			out = append(out, p)
		}
	}
	return out
}

// highlightMatches renders text with matched characters highlighted
func highlightMatches(text string, matched []int, selected bool) string {
	normal := styles.NormalItemStyle.UnsetPadding()
	match := styles.MatchHighlightStyle
	if selected {
		normal = styles.SelectedItemStyle.UnsetPadding()
		match = styles.MatchHighlightSelectedStyle
	}
	if len(matched) == 0 {
		return normal.Render(text)
	}

	matchSet := make(map[int]bool, len(matched))
	for _, idx := range matched {
		matchSet[idx] = true
	}

	// Batch consecutive runes with the same match state
	var result strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); {
		isMatch := matchSet[i]
		start := i
		for i < len(runes) && matchSet[i] == isMatch {
			i++
		}
		if isMatch {
			result.WriteString(match.Render(string(runes[start:i])))
		} else {
			result.WriteString(normal.Render(string(runes[start:i])))
		}
	}
	return result.String()
}
