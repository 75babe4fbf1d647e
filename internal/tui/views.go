package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/keroda/watchdeck/internal/domain"
	"github.com/keroda/watchdeck/internal/library"
	"github.com/keroda/watchdeck/internal/tui/styles"
)

func (m Model) View() string {
	if m.Width == 0 {
		return "loading..."
	}

	var body string
	switch m.State {
	case StateLibrary:
		body = m.viewLibrary()
	case StateBrowse:
		body = m.viewBrowse()
	case StateSearch:
		body = m.viewSearch()
	case StateDetail:
		body = m.viewDetail()
	}

	out := lipgloss.JoinVertical(lipgloss.Left, body, m.viewFooter())

	if m.errDialog != nil {
		return m.overlayDialog(out)
	}
	return out
}

func (m Model) viewFooter() string {
	var parts []string
	if m.Loading {
		parts = append(parts, m.spinner.View()+" loading")
	}
	if m.signInNotice {
		parts = append(parts, styles.ErrorStyle.Render("sign in to track titles (edit config and restart)"))
	}
	switch m.State {
	case StateLibrary:
		parts = append(parts, styles.HelpStyle.Render("tab: status · f: favorites · enter: open · w/a/c/d/p: status · v: fav · /: search · q: quit"))
	case StateBrowse:
		parts = append(parts, styles.HelpStyle.Render("tab: movies/shows · h/l: page · enter: open · 1: library · /: search · q: quit"))
	case StateSearch:
		parts = append(parts, styles.HelpStyle.Render("enter: open · h/l: page · esc: back · q: quit"))
	case StateDetail:
		parts = append(parts, styles.HelpStyle.Render("space: episode · s: season · S: show · h/l: season · r: refresh · esc: back"))
	}
	return strings.Join(parts, "  ")
}

func (m Model) listHeight() int {
	h := m.Height - 6
	if h < 3 {
		h = 3
	}
	return h
}

// window returns the slice bounds that keep cursor visible in a list
// of n items rendered h rows tall.
func window(cursor, n, h int) (int, int) {
	if n <= h {
		return 0, n
	}
	start := cursor - h/2
	if start < 0 {
		start = 0
	}
	if start+h > n {
		start = n - h
	}
	return start, start + h
}

func itemLine(item domain.CatalogItem, selected bool) string {
	title := item.Title
	if y := item.Year(); y > 0 {
		title = fmt.Sprintf("%s (%d)", title, y)
	}
	line := fmt.Sprintf("%-50s %s %4.1f", truncate(title, 50), string(item.MediaType), item.Score)
	if selected {
		return styles.SelectedItemStyle.Render(line)
	}
	return styles.NormalItemStyle.Render(line)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func (m Model) viewCatalogList(title string, items []domain.CatalogItem, cursor, page int, hasMore bool) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(title))
	b.WriteString("\n\n")

	start, end := window(cursor, len(items), m.listHeight())
	for i := start; i < end; i++ {
		b.WriteString(itemLine(items[i], i == cursor))
		b.WriteString("\n")
	}
	if len(items) == 0 && !m.Loading {
		b.WriteString(styles.DimStyle.Render("nothing here"))
		b.WriteString("\n")
	}

	pager := fmt.Sprintf("page %d", page)
	if hasMore {
		pager += " →"
	}
	b.WriteString(styles.DimStyle.Render(pager))
	return b.String()
}

func (m Model) viewBrowse() string {
	label := "Trending Movies"
	if m.browseMedia == domain.MediaTypeTV {
		label = "Trending Shows"
	}
	return m.viewCatalogList(label, m.trending, m.browseCursor, m.browsePage, m.browseHasMore)
}

func (m Model) viewSearch() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Search"))
	b.WriteString("\n")
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	start, end := window(m.searchCursor, len(m.results), m.listHeight()-2)
	for i := start; i < end; i++ {
		b.WriteString(itemLine(m.results[i], i == m.searchCursor && !m.typing))
		b.WriteString("\n")
	}
	if m.query != "" && len(m.results) == 0 && !m.Loading && !m.typing {
		b.WriteString(styles.DimStyle.Render("no results for " + m.query))
	}
	return b.String()
}

func statusTabLabel(s domain.Status) string {
	if s == domain.StatusNone {
		return "all"
	}
	return string(s)
}

func (m Model) viewLibrary() string {
	var b strings.Builder

	var tabs []string
	for i, s := range statusTabs {
		label := statusTabLabel(s)
		if i == m.tabIdx {
			tabs = append(tabs, styles.TabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, styles.TabInactiveStyle.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	if m.favsOnly {
		b.WriteString("  " + styles.FavoriteMark)
	}
	b.WriteString("\n\n")

	start, end := window(m.libCursor, len(m.entries), m.listHeight())
	for i := start; i < end; i++ {
		b.WriteString(m.entryLine(m.entries[i], i == m.libCursor))
		b.WriteString("\n")
	}
	if len(m.entries) == 0 && !m.Loading {
		b.WriteString(styles.DimStyle.Render("library is empty. browse (2) or search (/) to add titles"))
		b.WriteString("\n")
	}

	pager := fmt.Sprintf("page %d", m.libPage)
	if m.libHasMore {
		pager += " →"
	}
	b.WriteString(styles.DimStyle.Render(pager))
	return b.String()
}

func (m Model) entryLine(entry domain.LibraryEntry, selected bool) string {
	marker := " "
	if entry.IsFavorite {
		marker = styles.FavoriteMark
	}
	progress := ""
	if entry.MediaType == domain.MediaTypeTV && entry.TotalEpisodes > 0 {
		progress = fmt.Sprintf("%d/%d", entry.EpisodesWatched, entry.TotalEpisodes)
	}
	line := fmt.Sprintf("%s %-46s %-10s %s", marker, truncate(entry.Title, 46), entry.Status.String(), progress)
	if selected {
		return styles.SelectedItemStyle.Render(line)
	}
	return styles.NormalItemStyle.Render(line)
}

func (m Model) viewDetail() string {
	if m.detail == nil {
		return styles.DimStyle.Render("loading detail...")
	}
	item := m.detail

	var b strings.Builder
	title := item.Title
	if y := item.Year(); y > 0 {
		title = fmt.Sprintf("%s (%d)", title, y)
	}
	b.WriteString(styles.TitleStyle.Render(title))
	if m.entry.IsFavorite {
		b.WriteString(" " + styles.FavoriteMark)
	}
	b.WriteString("\n")

	meta := fmt.Sprintf("%s · %.1f", string(item.MediaType), item.Score)
	if item.IsAnime() {
		meta += " · anime"
	}
	if m.entry.Status != domain.StatusNone {
		meta += " · " + styles.AccentStyle.Render(m.entry.Status.String())
	}
	b.WriteString(styles.SubtitleStyle.Render(meta))
	b.WriteString("\n\n")

	if item.Overview != "" {
		b.WriteString(styles.SubtitleStyle.Render(truncate(item.Overview, 400)))
		b.WriteString("\n\n")
	}

	if item.MediaType == domain.MediaTypeTV {
		b.WriteString(m.viewSeason())
	}
	return b.String()
}

func (m Model) viewSeason() string {
	season, ok := m.currentSeason()
	if !ok {
		return ""
	}

	var b strings.Builder
	watched := m.marks.CountSeason(season.Number)
	bound := library.SeasonWatchBound(season, m.detail.LastAired)
	header := season.DisplayTitle()
	if bound > 0 {
		header += fmt.Sprintf("  %d/%d", watched, bound)
	}
	b.WriteString(styles.AccentStyle.Render(header))
	b.WriteString("\n")

	start, end := window(m.epCursor, len(m.episodes), m.listHeight()-8)
	for i := start; i < end; i++ {
		ep := m.episodes[i]
		check := styles.UnwatchedDot
		if m.marks.Contains(ep.Season, ep.Episode) {
			check = styles.WatchedCheck
		}
		line := fmt.Sprintf("%s %s %s", check, ep.Code(), truncate(ep.Name, 44))
		if i == m.epCursor {
			line = styles.SelectedItemStyle.Render(line)
		} else {
			line = styles.NormalItemStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.episodes) == 0 && !m.Loading {
		b.WriteString(styles.DimStyle.Render("no episodes"))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) overlayDialog(base string) string {
	msg := m.errDialog
	var b strings.Builder
	b.WriteString(styles.ErrorStyle.Render("something went wrong"))
	b.WriteString("\n\n")
	b.WriteString(msg.Error())
	b.WriteString("\n\n")
	if msg.Retry != nil {
		b.WriteString(styles.HelpStyle.Render("enter: retry · esc: dismiss"))
	} else {
		b.WriteString(styles.HelpStyle.Render("esc: dismiss"))
	}
	dialog := styles.DialogBorder.Render(b.String())
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, dialog)
}
