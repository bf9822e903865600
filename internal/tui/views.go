package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/marquee/internal/feed"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}
	if m.ShowHelp {
		return m.renderHelp()
	}

	var content string
	switch m.Screen {
	case ScreenDetails:
		content = m.Details.View()
	case ScreenFavorites:
		content = m.FavoritesList.View()
	default:
		content = lipgloss.JoinVertical(lipgloss.Left,
			m.SearchBar.View(),
			m.Results.View(),
		)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		content,
		m.renderFooter(),
	)
}

// renderHeader renders the title bar with the screen tabs
func (m Model) renderHeader() string {
	brand := styles.BadgeStyle.Render("marquee")

	tab := func(label string, active bool) string {
		if active {
			return styles.AccentStyle.Bold(true).Render(label)
		}
		return styles.DimStyle.Render(label)
	}
	favLabel := fmt.Sprintf("%s Favorites (%d)", styles.FavoriteChar, m.favs.Len())
	tabs := tab("Search", m.Screen == ScreenSearch) + "  " +
		tab("Details", m.Screen == ScreenDetails) + "  " +
		tab(favLabel, m.Screen == ScreenFavorites)

	return brand + "  " + tabs
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	// Left side: status message, or the feed activity
	var left string
	switch {
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.SuccessStyle.Render(m.StatusMsg)
	default:
		if s := m.feed.State(); s.Status.Busy() {
			left = styles.Spinner(m.SpinnerFrame) + " " + styles.DimStyle.Render(feedActivity(s))
		}
	}

	// Center section: context-specific hints
	hint := func(k, desc string) string {
		return styles.AccentStyle.Render(k) + styles.DimStyle.Render(" "+desc)
	}
	var hints []string
	switch m.Screen {
	case ScreenSearch:
		if m.SearchBar.Focused() {
			hints = []string{hint("tab", "year"), hint("C-t", "type"), hint("enter", "search")}
		} else {
			hints = []string{hint("s", "search"), hint("enter", "details"), hint("f", "favorite"), hint("F", "favorites")}
		}
	case ScreenDetails:
		hints = []string{hint("f", "favorite"), hint("tab", "trending"), hint("esc", "back")}
	case ScreenFavorites:
		hints = []string{hint("/", "filter"), hint("x", "remove"), hint("esc", "back")}
	}
	center := strings.Join(hints, "  ")

	// Right side: "? help" hint
	right := hint("?", "help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		// Not enough space - just left + right
		gap := max(m.Width-leftWidth-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	// Center the hints in available space
	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

func feedActivity(s feed.State) string {
	if s.Status == feed.StatusLoadingMore {
		return fmt.Sprintf("Loading page %d...", s.Page+1)
	}
	return "Searching " + s.Query.String() + "..."
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
SEARCH                          NAVIGATION
  s/Tab      Edit search           j/k        Up/down
  Tab        Text / year field     g/G        First/last
  Ctrl+t     Cycle type            Ctrl+u/d   Half page
  t          Cycle type (list)     /          Filter list
  Enter      Run search            Esc        Back / clear
  r          Retry failed page

TITLES                          OTHER
  Enter      Details               q          Quit
  f          Toggle favorite       ?          This help
  F          Favorites
  x          Remove favorite

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}
