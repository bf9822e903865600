package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/feed"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// ResultList is the infinite-scrolling list of search results
type ResultList struct {
	feed  feed.State
	isFav func(id string) bool

	listCursor

	width   int
	height  int
	focused bool

	spinnerFrame int

	// Filter state (local, over the loaded results)
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into feed.Items
}

// NewResultList creates a result list. isFav reports favorite membership.
func NewResultList(isFav func(id string) bool) *ResultList {
	ti := textinput.New()
	ti.Placeholder = "filter loaded results..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	if isFav == nil {
		isFav = func(string) bool { return false }
	}
	return &ResultList{isFav: isFav, filterInput: ti}
}

// SetState replaces the displayed feed state. A new query resets the cursor.
func (l *ResultList) SetState(s feed.State) {
	if s.Query != l.feed.Query || len(s.Items) < len(l.feed.Items) {
		l.reset()
	}
	l.feed = s
	if l.filterActive {
		l.applyFilter()
	}
	l.clamp(l.ItemCount())
}

// Update handles navigation and the local filter
func (l *ResultList) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !l.focused || !ok {
		return nil
	}

	// Handle filter input when active AND focused (typing mode)
	if l.filterActive && l.filterInput.Focused() {
		switch keyMsg.String() {
		case "esc":
			l.clearFilter()
			return nil
		case "enter":
			// Accept filter, blur input to allow navigation
			l.filterInput.Blur()
			return nil
		case "backspace":
			if l.filterInput.Value() == "" {
				l.clearFilter()
				return nil
			}
		}
		var cmd tea.Cmd
		l.filterInput, cmd = l.filterInput.Update(msg)
		l.applyFilter()
		return cmd
	}

	if l.filterActive && key.Matches(keyMsg, ListKeys.Escape) {
		l.clearFilter()
		return nil
	}
	if key.Matches(keyMsg, ListKeys.Filter) {
		l.filterActive = true
		l.filterInput.Focus()
		l.recalcMaxVisible()
		return nil
	}

	l.move(keyMsg, l.ItemCount())
	return nil
}

// NeedsMore reports whether the viewport is within threshold rows of
// the end of the loaded results. It is false while filtering.
func (l *ResultList) NeedsMore(threshold int) bool {
	if l.filterActive {
		return false
	}
	count := len(l.feed.Items)
	if count == 0 {
		return false
	}
	_, end := l.window(count)
	return l.cursor >= count-1-threshold || end >= count
}

// Selected returns the movie under the cursor
func (l *ResultList) Selected() (domain.MovieSummary, bool) {
	if l.ItemCount() == 0 {
		return domain.MovieSummary{}, false
	}
	return l.feed.Items[l.mapIndex(l.cursor)], true
}

// SelectedIndex returns the cursor position
func (l *ResultList) SelectedIndex() int {
	return l.cursor
}

// ItemCount returns the number of visible rows
func (l *ResultList) ItemCount() int {
	if l.filterActive && l.filterQuery != "" {
		return len(l.filteredIdx)
	}
	return len(l.feed.Items)
}

// IsFilterTyping returns true if filter is active AND input is focused
func (l *ResultList) IsFilterTyping() bool {
	return l.filterActive && l.filterInput.Focused()
}

func (l *ResultList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.recalcMaxVisible()
	l.ensureVisible()
}

func (l *ResultList) SetFocused(focused bool) {
	l.focused = focused
}

func (l *ResultList) SetSpinnerFrame(frame int) {
	l.spinnerFrame = frame
}

func (l *ResultList) View() string {
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

func (l *ResultList) recalcMaxVisible() {
	// Reserve: title line, scroll indicators, status line
	l.maxVisible = l.height - BorderHeight - ScrollIndicatorLines - 2
	if l.filterActive {
		l.maxVisible--
	}
	if l.maxVisible < 1 {
		l.maxVisible = 1
	}
}

func (l *ResultList) clearFilter() {
	l.filterActive = false
	l.filterQuery = ""
	l.filteredIdx = nil
	l.filterInput.SetValue("")
	l.filterInput.Blur()
	l.recalcMaxVisible()
	l.clamp(l.ItemCount())
}

func (l *ResultList) applyFilter() {
	query := l.filterInput.Value()
	changed := query != l.filterQuery
	l.filterQuery = query
	if query == "" {
		l.filteredIdx = nil
		return
	}

	titles := make([]string, len(l.feed.Items))
	for i, m := range l.feed.Items {
		titles[i] = m.Title
	}
	ranks := fuzzy.RankFindNormalizedFold(query, titles)
	sort.Stable(ranks)

	l.filteredIdx = make([]int, len(ranks))
	for i, r := range ranks {
		l.filteredIdx[i] = r.OriginalIndex
	}
	if changed {
		l.reset()
	}
}

func (l *ResultList) mapIndex(i int) int {
	if l.filterActive && l.filterQuery != "" {
		return l.filteredIdx[i]
	}
	return i
}

func (l *ResultList) title() string {
	if l.feed.Revision == 0 {
		return "Results"
	}
	return "Results: " + l.feed.Query.String()
}

func (l *ResultList) renderContent() string {
	itemWidth := max(l.width-BorderWidth, 10)
	titleLine := styles.AccentStyle.Render(styles.Truncate(l.title(), itemWidth))

	count := l.ItemCount()
	if count == 0 {
		var msg string
		switch {
		case l.feed.Status == feed.StatusLoading:
			msg = styles.DimStyle.Render(styles.Spinner(l.spinnerFrame) + " Loading...")
		case l.feed.Status == feed.StatusError:
			msg = styles.ErrorStyle.Render("✗ " + l.feed.ErrorMessage)
		case l.filterActive && l.filterQuery != "":
			msg = styles.DimStyle.Render("No matches")
		case l.feed.Revision == 0:
			msg = styles.DimStyle.Render("Type a title to search")
		default:
			msg = styles.DimStyle.Render("No results")
		}
		content := titleLine + "\n \n" + msg + "\n "
		if l.filterActive {
			content += "\n" + l.renderFilterBar()
		}
		return content
	}

	start, end := l.window(count)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, l.renderItem(l.feed.Items[l.mapIndex(i)], i == l.cursor, itemWidth))
	}

	// ALWAYS reserve space for header and footer to prevent layout shifts
	header := " "
	if start > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer +
		"\n" + l.renderStatusLine(itemWidth)
	if l.filterActive {
		content += "\n" + l.renderFilterBar()
	}
	return content
}

func (l *ResultList) renderItem(m domain.MovieSummary, selected bool, width int) string {
	favChar := styles.NotFavoriteChar
	favFg := styles.Pink
	if l.isFav(m.ID) {
		favChar = styles.FavoriteChar
	}

	rating := ""
	var ratingFg lipgloss.Color
	if m.Rating != nil {
		rating = fmt.Sprintf(" ★ %.1f", *m.Rating)
		ratingFg = styles.RatingColor(*m.Rating)
	}

	kind := ""
	dimFg := styles.DimGray
	if m.Type != "" && m.Type != domain.MediaTypeMovie {
		kind = " [" + m.Type.Label() + "]"
	}

	// Available space: width - marker(1) - space(1) - margins(2)
	available := max(width-4-len([]rune(rating))-len(kind), 5)
	title := styles.Truncate(m.DisplayTitle(), available)

	parts := []styles.RowPart{
		{Text: favChar, Foreground: &favFg},
		{Text: " " + title, Foreground: nil},
	}
	if kind != "" {
		parts = append(parts, styles.RowPart{Text: kind, Foreground: &dimFg})
	}
	if rating != "" {
		parts = append(parts, styles.RowPart{Text: rating, Foreground: &ratingFg})
	}
	return styles.RenderListRow(parts, selected, width)
}

func (l *ResultList) renderStatusLine(width int) string {
	var line string
	switch {
	case l.feed.Status == feed.StatusLoadingMore:
		line = styles.AccentStyle.Render(styles.Spinner(l.spinnerFrame) + " Loading more...")
	case l.feed.Status == feed.StatusError:
		line = styles.ErrorStyle.Render("✗ "+l.feed.ErrorMessage) + styles.DimStyle.Render("  r: retry")
	case !l.feed.HasMore:
		line = styles.DimStyle.Render(fmt.Sprintf("End of results · %d titles", len(l.feed.Items)))
	default:
		line = styles.DimStyle.Render(fmt.Sprintf("%d of %d · page %d/%d",
			len(l.feed.Items), l.feed.TotalResults, l.feed.Page, l.feed.TotalPages))
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}

func (l *ResultList) renderFilterBar() string {
	countStr := ""
	if l.filterQuery != "" {
		countStr = styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", l.ItemCount(), len(l.feed.Items)))
	}
	return l.filterInput.View() + countStr
}
