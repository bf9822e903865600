package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/favorites"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// FavoritesList shows the saved titles with a fuzzy filter
type FavoritesList struct {
	filter  func(query string) []favorites.Match
	matches []favorites.Match
	total   int

	listCursor

	width   int
	height  int
	focused bool

	filterActive bool
	filterInput  textinput.Model
}

// NewFavoritesList creates a list that reads favorites through filter
func NewFavoritesList(filter func(query string) []favorites.Match) *FavoritesList {
	ti := textinput.New()
	ti.Placeholder = "filter favorites..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	l := &FavoritesList{filter: filter, filterInput: ti}
	l.Refresh()
	return l
}

// Refresh re-reads the favorites, keeping the filter
func (l *FavoritesList) Refresh() {
	l.matches = l.filter(l.filterInput.Value())
	l.total = len(l.filter(""))
	l.clamp(len(l.matches))
}

// Update handles navigation and the filter
func (l *FavoritesList) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !l.focused || !ok {
		return nil
	}

	if l.filterActive && l.filterInput.Focused() {
		switch keyMsg.String() {
		case "esc":
			l.clearFilter()
			return nil
		case "enter":
			l.filterInput.Blur()
			return nil
		case "backspace":
			if l.filterInput.Value() == "" {
				l.clearFilter()
				return nil
			}
		}
		prev := l.filterInput.Value()
		var cmd tea.Cmd
		l.filterInput, cmd = l.filterInput.Update(msg)
		if l.filterInput.Value() != prev {
			l.reset()
			l.Refresh()
		}
		return cmd
	}

	if key.Matches(keyMsg, ListKeys.Filter) {
		l.filterActive = true
		l.recalcMaxVisible()
		return l.filterInput.Focus()
	}

	l.move(keyMsg, len(l.matches))
	return nil
}

// Selected returns the favorite under the cursor
func (l *FavoritesList) Selected() (domain.MovieSummary, bool) {
	if len(l.matches) == 0 {
		return domain.MovieSummary{}, false
	}
	return l.matches[l.cursor].Movie, true
}

// ItemCount returns the number of visible rows
func (l *FavoritesList) ItemCount() int {
	return len(l.matches)
}

// IsFilterTyping returns true if filter is active AND input is focused
func (l *FavoritesList) IsFilterTyping() bool {
	return l.filterActive && l.filterInput.Focused()
}

// IsFiltering returns true while a filter narrows the list
func (l *FavoritesList) IsFiltering() bool {
	return l.filterActive
}

// ClearFilter removes the filter
func (l *FavoritesList) ClearFilter() {
	l.clearFilter()
}

func (l *FavoritesList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.recalcMaxVisible()
	l.ensureVisible()
}

func (l *FavoritesList) SetFocused(focused bool) {
	l.focused = focused
}

func (l *FavoritesList) View() string {
	style := styles.InactiveBorder
	if l.focused {
		style = styles.ActiveBorder
	}
	frameW, frameH := style.GetFrameSize()
	return style.
		Width(l.width - frameW).
		Height(l.height - frameH).
		Render(l.renderContent())
}

func (l *FavoritesList) recalcMaxVisible() {
	l.maxVisible = l.height - BorderHeight - ScrollIndicatorLines - 1
	if l.filterActive {
		l.maxVisible--
	}
	if l.maxVisible < 1 {
		l.maxVisible = 1
	}
}

func (l *FavoritesList) clearFilter() {
	l.filterActive = false
	l.filterInput.SetValue("")
	l.filterInput.Blur()
	l.recalcMaxVisible()
	l.reset()
	l.Refresh()
}

func (l *FavoritesList) renderContent() string {
	itemWidth := max(l.width-BorderWidth, 10)
	titleLine := styles.AccentStyle.Render(fmt.Sprintf("%s Favorites (%d)", styles.FavoriteChar, l.total))

	if len(l.matches) == 0 {
		msg := "No favorites yet. Press f on a title to save it."
		if l.filterActive && l.filterInput.Value() != "" {
			msg = "No matches"
		}
		content := titleLine + "\n \n" + styles.DimStyle.Render(msg)
		if l.filterActive {
			content += "\n" + l.filterInput.View()
		}
		return content
	}

	start, end := l.window(len(l.matches))
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, l.renderItem(l.matches[i].Movie, i == l.cursor, itemWidth))
	}

	header := " "
	if start > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < len(l.matches) {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if l.filterActive {
		countStr := styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", len(l.matches), l.total))
		content += "\n" + l.filterInput.View() + countStr
	}
	return content
}

func (l *FavoritesList) renderItem(m domain.MovieSummary, selected bool, width int) string {
	favFg := styles.Pink
	var ratingFg lipgloss.Color
	rating := ""
	if m.Rating != nil {
		rating = fmt.Sprintf(" ★ %.1f", *m.Rating)
		ratingFg = styles.RatingColor(*m.Rating)
	}

	available := max(width-4-len([]rune(rating)), 5)
	parts := []styles.RowPart{
		{Text: styles.FavoriteChar, Foreground: &favFg},
		{Text: " " + styles.Truncate(m.DisplayTitle(), available)},
	}
	if rating != "" {
		parts = append(parts, styles.RowPart{Text: rating, Foreground: &ratingFg})
	}
	return styles.RenderListRow(parts, selected, width)
}
