package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// Rows shown per detail section
const (
	maxCast         = 8
	maxCrew         = 6
	maxReviews      = 3
	maxReviewRunes  = 300
	maxRelated      = 10
	maxPersonCredit = 12
	maxEpisodes     = 20
)

const detailDateLayout = "January 2, 2006"

// refreshDetail re-renders the detail page into its viewport
func (m *Model) refreshDetail() {
	if m.Detail == nil || m.Width == 0 {
		return
	}
	m.detailView.SetContent(m.detailContent(m.detailView.Width))
}

// renderDetail frames the scrollable detail page
func (m Model) renderDetail() string {
	style := styles.ModalStyle
	return style.Width(m.detailView.Width + style.GetHorizontalPadding()).Render(m.detailView.View())
}

func (m Model) detailContent(width int) string {
	item := m.Detail
	d := m.page
	if d != nil && d.Item != nil {
		item = d.Item
	}
	width = max(width, 20)

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(item.DisplayName()))
	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render(domain.Describe(item)))
	b.WriteString("\n")
	if d != nil && d.Tagline != "" {
		b.WriteString(styles.DimStyle.Italic(true).Render(d.Tagline))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.detailLoading:
		b.WriteString(styles.AccentStyle.Render(styles.Spinner(m.SpinnerFrame) + " Loading details..."))
		b.WriteString("\n\n")
	case m.detailErr != nil:
		b.WriteString(styles.ErrorStyle.Render("Couldn't load details, press r to retry"))
		b.WriteString("\n\n")
	}

	switch v := item.(type) {
	case *domain.Movie:
		writeTitleFacts(&b, d)
		writeOverview(&b, v.Overview, width)
		writeField(&b, "Votes", fmt.Sprintf("%d", v.VoteCount))
		writeTitleSections(&b, d, width)
	case *domain.TvShow:
		writeTitleFacts(&b, d)
		writeOverview(&b, v.Overview, width)
		writeField(&b, "Votes", fmt.Sprintf("%d", v.VoteCount))
		writeTitleSections(&b, d, width)
	case *domain.Person:
		writePerson(&b, v, d, width)
	}

	if poster := item.Poster(); poster != "" {
		writeField(&b, "Image", poster)
	}
	writeField(&b, "Route", domain.IntentFor(item).Path())

	if d != nil && len(d.Failed) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render("Unavailable: " + strings.Join(d.Failed, ", ")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("esc back"))
	return b.String()
}

// writeTitleFacts writes the genre, runtime and status line
func writeTitleFacts(b *strings.Builder, d *domain.Detail) {
	if d == nil {
		return
	}
	var facts []string
	if len(d.Genres) > 0 {
		facts = append(facts, strings.Join(d.Genres, ", "))
	}
	if d.Runtime > 0 {
		facts = append(facts, formatRuntime(d.Runtime))
	}
	if d.SeasonCount > 0 {
		facts = append(facts, fmt.Sprintf("%d seasons · %d episodes", d.SeasonCount, d.EpisodeCount))
	}
	if d.Status != "" {
		facts = append(facts, d.Status)
	}
	if len(facts) > 0 {
		b.WriteString(styles.DimStyle.Render(strings.Join(facts, " · ")))
		b.WriteString("\n\n")
	}
}

func formatRuntime(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func writeTitleSections(b *strings.Builder, d *domain.Detail, width int) {
	if d == nil {
		return
	}

	if v, ok := d.Trailer(); ok {
		writeHeading(b, "Trailer")
		line := "  " + v.Name
		if url := v.URL(); url != "" {
			line += "  " + styles.DimStyle.Render(url)
		}
		b.WriteString(line + "\n")
	}

	writeHeading(b, "Where to watch ("+d.Providers.Region+")")
	if d.Providers.Empty() {
		b.WriteString(styles.DimStyle.Render("  Not available in this region") + "\n")
	} else {
		writeProviders(b, "Stream", d.Providers.Stream)
		writeProviders(b, "Free", d.Providers.Free)
		writeProviders(b, "Rent", d.Providers.Rent)
		writeProviders(b, "Buy", d.Providers.Buy)
	}

	writeCredits(b, "Cast", d.Cast, maxCast)
	writeCredits(b, "Crew", d.Crew, maxCrew)

	if d.Season != nil && len(d.Season.Episodes) > 0 {
		writeHeading(b, seasonTitle(d.Season))
		for _, e := range d.Season.Episodes[:min(len(d.Season.Episodes), maxEpisodes)] {
			line := fmt.Sprintf("  %2d. %s", e.Number, e.Name)
			if !e.AirDate.IsZero() {
				line += "  " + styles.DimStyle.Render(e.AirDate.Format(detailDateLayout))
			}
			b.WriteString(line + "\n")
		}
	}

	if len(d.Reviews) > 0 {
		writeHeading(b, fmt.Sprintf("Reviews (%d)", len(d.Reviews)))
		for _, r := range d.Reviews[:min(len(d.Reviews), maxReviews)] {
			author := r.Author
			if r.Rating > 0 {
				author += fmt.Sprintf("  ★ %.0f", r.Rating)
			}
			b.WriteString("  " + styles.AccentStyle.Render(author) + "\n")
			b.WriteString(lipgloss.NewStyle().Width(width).PaddingLeft(2).Render(clip(r.Content, maxReviewRunes)))
			b.WriteString("\n")
		}
	}

	writeItems(b, "Similar", d.Similar)
	writeItems(b, "Recommended", d.Recommendations)
	b.WriteString("\n")
}

func seasonTitle(s *domain.Season) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("Season %d", s.Number)
}

func writePerson(b *strings.Builder, p *domain.Person, d *domain.Detail, width int) {
	if p.KnownForDepartment != "" {
		writeField(b, "Department", p.KnownForDepartment)
	}
	if p.Gender != domain.GenderUnspecified {
		writeField(b, "Gender", p.Gender.String())
	}

	if d == nil {
		if len(p.KnownFor) > 0 {
			writeItems(b, "Known for", p.KnownFor)
		}
		return
	}

	if !d.Birthday.IsZero() {
		born := d.Birthday.Format(detailDateLayout)
		if d.PlaceOfBirth != "" {
			born += " in " + d.PlaceOfBirth
		}
		writeField(b, "Born", born)
	}
	if !d.Deathday.IsZero() {
		writeField(b, "Died", d.Deathday.Format(detailDateLayout))
	}
	if d.Biography != "" {
		b.WriteString("\n")
		writeOverview(b, d.Biography, width)
	}

	writeCredits(b, fmt.Sprintf("Acting (%d)", len(d.Cast)), d.Cast, maxPersonCredit)
	writeCredits(b, fmt.Sprintf("Behind the camera (%d)", len(d.Crew)), d.Crew, maxPersonCredit)
	if len(d.Images) > 0 {
		writeField(b, "Photos", fmt.Sprintf("%d", len(d.Images)))
	}
	b.WriteString("\n")
}

func writeHeading(b *strings.Builder, title string) {
	b.WriteString("\n")
	b.WriteString(styles.AccentStyle.Bold(true).Render(title))
	b.WriteString("\n")
}

func writeProviders(b *strings.Builder, label string, names []string) {
	if len(names) == 0 {
		return
	}
	b.WriteString("  " + styles.HelpKeyStyle.Render(label+": ") + strings.Join(names, ", ") + "\n")
}

func writeCredits(b *strings.Builder, title string, credits []domain.Credit, limit int) {
	if len(credits) == 0 {
		return
	}
	writeHeading(b, title)
	for _, c := range credits[:min(len(credits), limit)] {
		line := "  • " + c.Item.DisplayName()
		if c.Role != "" {
			line += "  " + styles.DimStyle.Render(c.Role)
		}
		b.WriteString(line + "\n")
	}
}

func writeItems(b *strings.Builder, title string, items []domain.CatalogItem) {
	if len(items) == 0 {
		return
	}
	writeHeading(b, title)
	for _, item := range items[:min(len(items), maxRelated)] {
		b.WriteString("  • " + item.DisplayName() + "  ")
		b.WriteString(styles.DimStyle.Render(domain.Describe(item)))
		b.WriteString("\n")
	}
}

// clip shortens s to n runes
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "..."
}
