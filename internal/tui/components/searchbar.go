package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// Search bar fields
const (
	fieldText = iota
	fieldYear
	fieldCount
)

// SearchBar edits the search text, year and type filters
type SearchBar struct {
	text      textinput.Model
	year      textinput.Model
	mediaType domain.MediaType
	field     int
	focused   bool
	errMsg    string
	prevQuery domain.SearchQuery
	width     int
}

// NewSearchBar creates a search bar preset to mediaType
func NewSearchBar(mediaType domain.MediaType, charLimit int) SearchBar {
	text := textinput.New()
	text.Placeholder = "Search titles..."
	text.CharLimit = charLimit
	text.Prompt = "🔍 "
	text.PromptStyle = styles.AccentStyle
	text.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	text.PlaceholderStyle = styles.DimStyle

	year := textinput.New()
	year.Placeholder = "year"
	year.CharLimit = 4
	year.Width = 4
	year.Prompt = ""
	year.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	year.PlaceholderStyle = styles.DimStyle

	b := SearchBar{text: text, year: year, mediaType: mediaType}
	b.prevQuery = b.Query()
	return b
}

// Focus focuses the text field
func (b *SearchBar) Focus() tea.Cmd {
	b.focused = true
	b.field = fieldText
	b.year.Blur()
	return b.text.Focus()
}

// Blur removes focus from every field
func (b *SearchBar) Blur() {
	b.focused = false
	b.text.Blur()
	b.year.Blur()
}

// Focused returns true if the bar accepts typing
func (b SearchBar) Focused() bool {
	return b.focused
}

// Query returns the query the fields describe
func (b SearchBar) Query() domain.SearchQuery {
	return domain.SearchQuery{
		Text: strings.TrimSpace(b.text.Value()),
		Year: strings.TrimSpace(b.year.Value()),
		Type: b.mediaType,
	}
}

// MediaType returns the selected type filter
func (b SearchBar) MediaType() domain.MediaType {
	return b.mediaType
}

// CycleType moves to the next type filter
func (b *SearchBar) CycleType() {
	b.mediaType = b.mediaType.Next()
}

// QueryChanged returns true if the query changed since last check and updates prevQuery
func (b *SearchBar) QueryChanged() bool {
	current := b.Query()
	if current != b.prevQuery {
		b.prevQuery = current
		return true
	}
	return false
}

// SetError shows a validation message under the fields
func (b *SearchBar) SetError(msg string) {
	b.errMsg = msg
}

func (b *SearchBar) SetWidth(width int) {
	b.width = width
	b.text.Width = max(width-30, 10)
}

// Update handles typing. tab switches field and ctrl+t cycles the type.
func (b SearchBar) Update(msg tea.Msg) (SearchBar, tea.Cmd) {
	if !b.focused {
		return b, nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab", "shift+tab":
			b.field = (b.field + 1) % fieldCount
			if b.field == fieldText {
				b.year.Blur()
				return b, b.text.Focus()
			}
			b.text.Blur()
			return b, b.year.Focus()
		case "ctrl+t":
			b.CycleType()
			return b, nil
		}
	}

	var cmd tea.Cmd
	if b.field == fieldYear {
		b.year, cmd = b.year.Update(msg)
	} else {
		b.text, cmd = b.text.Update(msg)
	}
	return b, cmd
}

func (b SearchBar) View() string {
	style := styles.InactiveBorder
	if b.focused {
		style = styles.ActiveBorder
	}

	yearLabel := styles.DimStyle.Render("y:")
	typeBadge := styles.DimBadgeStyle.Render(b.mediaType.Label())
	if b.focused {
		typeBadge = styles.BadgeStyle.Render(b.mediaType.Label())
	}
	line := lipgloss.JoinHorizontal(lipgloss.Center,
		b.text.View(), "  ", yearLabel, b.year.View(), "  ", typeBadge)
	if b.errMsg != "" {
		line += "\n" + styles.ErrorStyle.Render("✗ "+b.errMsg)
	}

	frameW, _ := style.GetFrameSize()
	return style.Width(max(b.width-frameW, 1)).Render(line)
}
