package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/marquee/internal/feed"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, Keys.ForceQuit) {
		return m, tea.Quit
	}

	// Any key closes help
	if m.ShowHelp {
		m.ShowHelp = false
		return m, nil
	}

	switch m.Screen {
	case ScreenDetails:
		return m.handleDetailsKeys(msg)
	case ScreenFavorites:
		return m.handleFavoritesKeys(msg)
	default:
		return m.handleSearchKeys(msg)
	}
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Typing in the search bar
	if m.SearchBar.Focused() {
		switch msg.Type {
		case tea.KeyEsc:
			m.SearchBar.Blur()
			m.syncFocus()
			return m, nil
		case tea.KeyEnter:
			m.SearchBar.Blur()
			m.syncFocus()
			m.debounce.Cancel()
			m.SearchBar.QueryChanged()
			m.applyQuery()
			return m, nil
		}
		var cmd tea.Cmd
		m.SearchBar, cmd = m.SearchBar.Update(msg)
		if m.SearchBar.QueryChanged() {
			return m, tea.Batch(cmd, m.debounce.Trigger())
		}
		return m, cmd
	}

	// Typing in the local filter
	if m.Results.IsFilterTyping() {
		return m, m.Results.Update(msg)
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.ShowHelp = true
		return m, nil

	case key.Matches(msg, Keys.Search):
		cmd := m.SearchBar.Focus()
		m.syncFocus()
		return m, cmd

	case key.Matches(msg, Keys.Favorites):
		m.openFavorites()
		return m, nil

	case key.Matches(msg, Keys.Open):
		if movie, ok := m.Results.Selected(); ok {
			return m, m.openDetails(movie)
		}
		return m, nil

	case key.Matches(msg, Keys.Favorite):
		if movie, ok := m.Results.Selected(); ok {
			return m, m.toggleFavorite(movie)
		}
		return m, nil

	case key.Matches(msg, Keys.Retry):
		if m.feed.State().Status == feed.StatusError {
			m.feed.RequestNextPage()
		}
		return m, nil

	case key.Matches(msg, Keys.CycleType):
		m.SearchBar.CycleType()
		m.SearchBar.QueryChanged()
		m.debounce.Cancel()
		m.applyQuery()
		return m, nil
	}

	cmd := m.Results.Update(msg)
	m.maybePrefetch()
	return m, cmd
}

func (m Model) handleDetailsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.ShowHelp = true
		return m, nil

	case key.Matches(msg, Keys.Back):
		m.goBack()
		return m, nil

	case key.Matches(msg, Keys.Favorites):
		m.openFavorites()
		return m, nil

	case key.Matches(msg, Keys.Favorite):
		if movie, ok := m.Details.Summary(); ok {
			return m, m.toggleFavorite(movie)
		}
		return m, nil

	case key.Matches(msg, Keys.Retry):
		if m.Details.Failed() {
			id := m.Details.ID()
			m.Details.Load(id)
			return m, LoadDetailsCmd(m.catalog, id)
		}
		return m, nil

	case key.Matches(msg, Keys.Open):
		if movie, ok := m.Details.SelectedTrending(); ok {
			return m, m.openDetails(movie)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.Details, cmd = m.Details.Update(msg)
	return m, cmd
}

func (m Model) handleFavoritesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.FavoritesList.IsFilterTyping() {
		return m, m.FavoritesList.Update(msg)
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.ShowHelp = true
		return m, nil

	case key.Matches(msg, Keys.Back):
		if m.FavoritesList.IsFiltering() {
			m.FavoritesList.ClearFilter()
			return m, nil
		}
		m.goBack()
		return m, nil

	case key.Matches(msg, Keys.Open):
		if movie, ok := m.FavoritesList.Selected(); ok {
			return m, m.openDetails(movie)
		}
		return m, nil

	case key.Matches(msg, Keys.Remove, Keys.Favorite):
		if movie, ok := m.FavoritesList.Selected(); ok {
			return m, m.toggleFavorite(movie)
		}
		return m, nil
	}

	return m, m.FavoritesList.Update(msg)
}
