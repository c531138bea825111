package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/marquee/internal/tui/styles"
)

// Fixed chrome around the active pane
const (
	headerHeight    = 1
	searchBoxHeight = 3 // Input plus its border
	footerHeight    = 1
	minPaneHeight   = 5
)

// updateLayout sizes the panes around the header, search box, dropdown and
// footer
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	m.Dropdown.SetWidth(m.Width)
	m.SearchInput.Width = max(m.Width-8, 10)
	m.PeopleInput.Width = max(m.Width-8, 10)

	used := headerHeight + searchBoxHeight + footerHeight
	if m.State == StateSearching && m.Dropdown.Visible() {
		used += lipgloss.Height(m.Dropdown.View())
	}
	if m.showPeopleInput() {
		used++
	}

	height := max(m.Height-used, minPaneHeight)
	for s := range surfaceCount {
		m.panes[s].SetSize(m.Width, height)
	}

	frame := styles.ModalStyle
	m.detailView.Width = max(m.Width-frame.GetHorizontalFrameSize(), 20)
	m.detailView.Height = max(m.Height-headerHeight-searchBoxHeight-footerHeight-frame.GetVerticalFrameSize(), minPaneHeight)
}

func (m Model) showPeopleInput() bool {
	return m.Active == SurfacePeople &&
		(m.State == StatePeopleQuery || strings.TrimSpace(m.PeopleInput.Value()) != "")
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	sections := []string{m.renderHeader(), m.renderSearchBox()}
	if m.State == StateSearching && m.Dropdown.Visible() {
		sections = append(sections, m.Dropdown.View())
	}

	if m.State == StateDetail && m.Detail != nil {
		sections = append(sections, m.renderDetail())
	} else {
		if m.showPeopleInput() {
			sections = append(sections, m.PeopleInput.View())
		}
		sections = append(sections, m.panes[m.Active].View())
	}

	sections = append(sections, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := styles.AccentStyle.Bold(true).Render("▶ marquee")

	tabs := make([]string, 0, surfaceCount)
	for s := range surfaceCount {
		label := fmt.Sprintf("%d %s", s+1, s.Label())
		if s == m.Active {
			tabs = append(tabs, styles.ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, styles.InactiveTabStyle.Render(label))
		}
	}

	left := title + "  " + strings.Join(tabs, "")
	route := ""
	if m.Route != "" {
		route = styles.DimStyle.Render(m.Route)
	}

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(route)
	if gap < 1 {
		return styles.Truncate(left, m.Width)
	}
	return left + strings.Repeat(" ", gap) + route
}

func (m Model) renderSearchBox() string {
	style := styles.InactiveBorder
	if m.State == StateSearching {
		style = styles.ActiveBorder
	}
	return style.Width(m.Width - style.GetHorizontalFrameSize()).Render(m.SearchInput.View())
}

func writeOverview(b *strings.Builder, overview string, width int) {
	if overview == "" {
		overview = "No overview available."
	}
	b.WriteString(lipgloss.NewStyle().Width(width).Render(overview))
	b.WriteString("\n\n")
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString(styles.HelpKeyStyle.Render(label+": ") + value + "\n")
}

func (m Model) renderFooter() string {
	if m.StatusMsg != "" {
		style := styles.SuccessStyle
		if m.StatusIsErr {
			style = styles.ErrorStyle
		}
		return style.Render(styles.Truncate(m.StatusMsg, m.Width))
	}
	return styles.HelpDescStyle.Render(styles.Truncate(renderBindings(m.helpLines()), m.Width))
}

func (m Model) renderHelp() string {
	sections := []struct {
		title    string
		bindings []string
	}{
		{"Surfaces", bindingRows(Keys.Trending, Keys.Popular, Keys.People, Keys.Results)},
		{"Lists", bindingRows(Keys.Enter, Keys.LoadMore, Keys.Retry, Keys.Refresh)},
		{"Details", bindingRows(Keys.Scroll, Keys.Escape)},
		{"Filters", bindingRows(Keys.Sort, Keys.Media, Keys.Window, Keys.Genre, Keys.MinRating, Keys.Gender, Keys.Department, Keys.FindPeople)},
		{"Search", bindingRows(Keys.Search, Keys.Escape)},
		{"General", bindingRows(Keys.Help, Keys.Quit)},
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Keyboard shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(styles.AccentStyle.Render(s.title))
		b.WriteString("\n")
		for _, row := range s.bindings {
			b.WriteString("  " + row + "\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("Press ? or esc to close"))

	modal := styles.ModalStyle.Render(b.String())
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, modal)
}

func bindingRows(bindings ...key.Binding) []string {
	rows := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		h := binding.Help()
		rows = append(rows, styles.HelpKeyStyle.Render(fmt.Sprintf("%-10s", h.Key))+styles.HelpDescStyle.Render(h.Desc))
	}
	return rows
}
