package tui

import "github.com/charmbracelet/lipgloss"

const (
	// Header and footer take one line each
	ChromeHeight = 2

	MinContentHeight = 5
)

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	contentHeight := max(m.Height-ChromeHeight, MinContentHeight)

	m.SearchBar.SetWidth(m.Width)
	barHeight := lipgloss.Height(m.SearchBar.View())
	m.Results.SetSize(m.Width, max(contentHeight-barHeight, MinContentHeight))

	m.Details.SetSize(m.Width, contentHeight)
	m.FavoritesList.SetSize(m.Width, contentHeight)
}
