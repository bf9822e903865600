package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// Layout constants for the details pane
const (
	DetailsBorderHeight     = 2
	DetailsScrollIndicators = 2
)

// detailsContent holds the three-zone layout content
type detailsContent struct {
	header string // fixed top
	body   string // scrollable middle
	footer string // fixed bottom
}

// Details displays the full record of one title plus the trending strip
type Details struct {
	id       string
	details  *domain.MovieDetails
	errMsg   string
	loading  bool
	favorite bool

	trending        []domain.MovieSummary
	trendingLoading bool
	trendingCursor  int

	width        int
	height       int
	offset       int // body scroll offset
	maxVisible   int
	spinnerFrame int
}

// NewDetails creates a new details component
func NewDetails() Details {
	return Details{}
}

// Load resets the pane for id and marks it loading
func (d *Details) Load(id string) {
	d.id = id
	d.details = nil
	d.errMsg = ""
	d.loading = true
	d.offset = 0
}

// ID returns the id of the title being shown
func (d Details) ID() string {
	return d.id
}

// SetDetails shows a fetched record
func (d *Details) SetDetails(details *domain.MovieDetails) {
	d.details = details
	d.loading = false
	d.errMsg = ""
}

// SetError shows msg in place of the record
func (d *Details) SetError(msg string) {
	d.details = nil
	d.loading = false
	d.errMsg = msg
}

// Failed returns true if the last lookup failed
func (d Details) Failed() bool {
	return d.errMsg != ""
}

// SetFavorite sets the favorite marker
func (d *Details) SetFavorite(fav bool) {
	d.favorite = fav
}

// SetTrendingLoading marks the trending strip as loading
func (d *Details) SetTrendingLoading() {
	d.trendingLoading = true
}

// SetTrending sets the trending strip
func (d *Details) SetTrending(items []domain.MovieSummary) {
	d.trending = items
	d.trendingLoading = false
	d.trendingCursor = 0
}

// Summary returns the summary of the loaded record
func (d Details) Summary() (domain.MovieSummary, bool) {
	if d.details == nil {
		return domain.MovieSummary{}, false
	}
	return d.details.Summary(), true
}

// SelectedTrending returns the highlighted trending title
func (d Details) SelectedTrending() (domain.MovieSummary, bool) {
	if len(d.trending) == 0 {
		return domain.MovieSummary{}, false
	}
	return d.trending[d.trendingCursor], true
}

func (d *Details) SetSize(width, height int) {
	d.width = width
	d.height = height
	// Reserve space for border, scroll indicators and title
	d.maxVisible = max(height-DetailsBorderHeight-DetailsScrollIndicators-2, 1)
}

func (d *Details) SetSpinnerFrame(frame int) {
	d.spinnerFrame = frame
}

// Update scrolls the body (j/k) and moves through the trending strip (tab)
func (d Details) Update(msg tea.Msg) (Details, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}
	switch {
	case key.Matches(keyMsg, ListKeys.Down):
		d.offset++
	case key.Matches(keyMsg, ListKeys.Up):
		if d.offset > 0 {
			d.offset--
		}
	case keyMsg.String() == "tab":
		if len(d.trending) > 0 {
			d.trendingCursor = (d.trendingCursor + 1) % len(d.trending)
		}
	case keyMsg.String() == "shift+tab":
		if len(d.trending) > 0 {
			d.trendingCursor = (d.trendingCursor - 1 + len(d.trending)) % len(d.trending)
		}
	}
	return d, nil
}

// View renders the component
func (d Details) View() string {
	style := styles.ActiveBorder
	contentWidth := max(d.width-3, 10)

	content := d.render(contentWidth)
	titleLine := styles.AccentStyle.Render("Details")

	headerLines := splitLines(content.header)
	footerLines := splitLines(content.footer)
	bodyLines := splitLines(content.body)

	availableForBody := max(d.maxVisible-len(headerLines)-len(footerLines), 1)
	maxOffset := max(len(bodyLines)-availableForBody, 0)
	offset := min(d.offset, maxOffset)
	end := min(offset+availableForBody, len(bodyLines))
	visibleBody := bodyLines[offset:end]

	header := " "
	if offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < len(bodyLines) {
		footer = styles.DimStyle.Render("↓ more")
	}

	lines := []string{titleLine}
	lines = append(lines, headerLines...)
	lines = append(lines, header)
	lines = append(lines, visibleBody...)
	lines = append(lines, footer)
	lines = append(lines, footerLines...)

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(d.width - frameW).
		Height(d.height - frameH).
		Render(strings.Join(lines, "\n"))
}

func (d Details) render(width int) detailsContent {
	switch {
	case d.loading:
		return detailsContent{header: styles.DimStyle.Render(styles.Spinner(d.spinnerFrame) + " Loading...")}
	case d.errMsg != "":
		return detailsContent{
			header: styles.ErrorStyle.Render("✗ " + d.errMsg),
			footer: d.renderTrending(width),
		}
	case d.details == nil:
		return detailsContent{}
	}
	return detailsContent{
		header: d.renderHeader(width),
		body:   d.renderBody(width),
		footer: d.renderTrending(width),
	}
}

func (d Details) renderHeader(width int) string {
	item := d.details
	var b strings.Builder

	title := item.Title
	if d.favorite {
		title = styles.FavoriteChar + " " + title
	}
	b.WriteString(styles.TitleStyle.Render(styles.Truncate(title, width)))
	b.WriteString("\n")

	// Meta line: Year · Runtime · Rated · Type
	var metaParts []string
	if item.Year != "" {
		metaParts = append(metaParts, item.Year)
	}
	if rt := item.FormattedRuntime(); rt != "" {
		metaParts = append(metaParts, rt)
	}
	if item.Rated != "" {
		metaParts = append(metaParts, item.Rated)
	}
	if item.Type != "" {
		metaParts = append(metaParts, item.Type.Label())
	}
	b.WriteString(styles.DimStyle.Render(strings.Join(metaParts, " · ")))
	b.WriteString("\n")

	if item.Rating != nil {
		ratingStyle := lipgloss.NewStyle().Foreground(styles.RatingColor(*item.Rating))
		b.WriteString(ratingStyle.Render(fmt.Sprintf("%s  %.1f/10", styles.RenderStars(item.StarRating()), *item.Rating)))
		if item.Votes != "" {
			b.WriteString(styles.DimStyle.Render(" (" + item.Votes + " votes)"))
		}
	} else {
		b.WriteString(styles.DimStyle.Render("Not rated"))
	}
	return b.String()
}

func (d Details) renderBody(width int) string {
	item := d.details
	bodyWidth := min(width-2, 80)

	var sections []string
	if item.Plot != "" {
		sections = append(sections, styles.SubtitleStyle.Render(wordWrap(item.Plot, bodyWidth)))
	}

	var facts []string
	addFact := func(label, value string) {
		if value != "" {
			facts = append(facts, styles.DimStyle.Render(label+": ")+wordWrap(value, bodyWidth-len(label)-2))
		}
	}
	addFact("Genre", strings.Join(item.Genres, ", "))
	addFact("Director", item.Director)
	addFact("Writer", item.Writer)
	addFact("Cast", strings.Join(item.Actors, ", "))
	addFact("Released", item.Released)
	addFact("Language", item.Language)
	addFact("Country", item.Country)
	addFact("Awards", item.Awards)
	addFact("Box office", item.BoxOffice)
	addFact("Metascore", item.Metascore)
	if len(facts) > 0 {
		sections = append(sections, strings.Join(facts, "\n"))
	}

	if len(item.Ratings) > 0 {
		var ratings []string
		for _, r := range item.Ratings {
			ratings = append(ratings, styles.DimStyle.Render(r.Source+": ")+r.Value)
		}
		sections = append(sections, strings.Join(ratings, "\n"))
	}
	return strings.Join(sections, "\n\n")
}

func (d Details) renderTrending(width int) string {
	var b strings.Builder
	b.WriteString(styles.DimStyle.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	b.WriteString(styles.AccentStyle.Render("Trending now"))
	b.WriteString("\n")

	switch {
	case d.trendingLoading:
		b.WriteString(styles.DimStyle.Render(styles.Spinner(d.spinnerFrame) + " Loading..."))
	case len(d.trending) == 0:
		b.WriteString(styles.DimStyle.Render("Nothing trending"))
	default:
		var names []string
		for i, m := range d.trending {
			name := styles.Truncate(m.Title, 24)
			if i == d.trendingCursor {
				names = append(names, styles.BadgeStyle.Render(name))
			} else {
				names = append(names, styles.DimBadgeStyle.Render(name))
			}
		}
		b.WriteString(lipgloss.NewStyle().Width(width).Render(strings.Join(names, " ")))
	}
	return b.String()
}

// splitLines splits a string into lines, returning empty slice for empty string
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// wordWrap wraps text to the specified width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lineLen := 0

	for i, word := range strings.Fields(text) {
		wordLen := len([]rune(word))

		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}
		if i > 0 && lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}
		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}
