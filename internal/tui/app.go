package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/marquee/internal/config"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/favorites"
	"github.com/mmcdole/marquee/internal/feed"
	"github.com/mmcdole/marquee/internal/service"
	"github.com/mmcdole/marquee/internal/tui/components"
)

// Screen is the view currently filling the content area
type Screen int

const (
	ScreenSearch Screen = iota
	ScreenDetails
	ScreenFavorites
)

const (
	tickInterval    = 100 * time.Millisecond
	defaultPrefetch = 5
)

// Deps are the services the model drives
type Deps struct {
	Feed      *feed.Controller
	Favorites *favorites.Store
	Catalog   *service.CatalogService
	Search    config.SearchConfig
	Logger    *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	Screen     Screen
	prevScreen Screen
	ShowHelp   bool
	Ready      bool

	// Services
	feed    *feed.Controller
	favs    *favorites.Store
	catalog *service.CatalogService
	logger  *slog.Logger

	// UI Components
	SearchBar     components.SearchBar
	Results       *components.ResultList
	Details       components.Details
	FavoritesList *components.FavoritesList

	// Change signals from the services
	feedSignal <-chan struct{}
	favSignal  <-chan struct{}

	debounce          debouncer
	prefetchThreshold int
	trendingRequested bool

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	SpinnerFrame int
}

// NewModel creates a new application model and subscribes it to the services
func NewModel(deps Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	feedCh := make(chan struct{}, 1)
	favCh := make(chan struct{}, 1)
	deps.Feed.Subscribe(NewChannelObserver(feedCh).OnFeedChange)
	deps.Favorites.Subscribe(NewChannelObserver(favCh).OnFavoritesChange)

	mediaType := domain.MediaType(deps.Search.DefaultType)
	if !mediaType.Valid() {
		logger.Warn("ignoring unknown default type", "type", deps.Search.DefaultType)
		mediaType = domain.MediaTypeAny
	}
	charLimit := deps.Search.MaxQueryLength
	if charLimit <= 0 {
		charLimit = feed.DefaultMaxQueryLength
	}
	prefetch := deps.Search.PrefetchThreshold
	if prefetch <= 0 {
		prefetch = defaultPrefetch
	}

	m := Model{
		Screen:            ScreenSearch,
		feed:              deps.Feed,
		favs:              deps.Favorites,
		catalog:           deps.Catalog,
		logger:            logger,
		SearchBar:         components.NewSearchBar(mediaType, charLimit),
		Results:           components.NewResultList(deps.Favorites.IsFavorite),
		Details:           components.NewDetails(),
		FavoritesList:     components.NewFavoritesList(deps.Favorites.Filter),
		feedSignal:        feedCh,
		favSignal:         favCh,
		debounce:          newDebouncer(deps.Search.Debounce),
		prefetchThreshold: prefetch,
	}
	m.SearchBar.Focus()
	m.syncFocus()
	return m
}

// Init starts the landing search and the signal loops
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		TickCmd(tickInterval),
		WaitForSignalCmd(m.feedSignal, FeedChangedMsg{}),
		WaitForSignalCmd(m.favSignal, FavoritesChangedMsg{}),
	}
	if err := m.feed.SetQuery(m.SearchBar.Query()); err != nil {
		cmds = append(cmds, func() tea.Msg { return ErrMsg{Err: err, Context: "starting search"} })
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		m.Results.SetSpinnerFrame(m.SpinnerFrame)
		m.Details.SetSpinnerFrame(m.SpinnerFrame)
		return m, TickCmd(tickInterval)

	case DebounceMsg:
		if !m.debounce.IsLatest(msg) {
			return m, nil
		}
		m.applyQuery()
		return m, nil

	case FeedChangedMsg:
		m.Results.SetState(m.feed.State())
		m.maybePrefetch()
		return m, WaitForSignalCmd(m.feedSignal, FeedChangedMsg{})

	case FavoritesChangedMsg:
		m.FavoritesList.Refresh()
		if id := m.Details.ID(); id != "" {
			m.Details.SetFavorite(m.favs.IsFavorite(id))
		}
		return m, WaitForSignalCmd(m.favSignal, FavoritesChangedMsg{})

	case FavoriteToggledMsg:
		return m, m.handleFavoriteToggled(msg)

	case DetailsLoadedMsg:
		if msg.ID != m.Details.ID() {
			return m, nil
		}
		m.Details.SetDetails(msg.Details)
		m.Details.SetFavorite(m.favs.IsFavorite(msg.ID))
		return m, nil

	case DetailsFailedMsg:
		if msg.ID != m.Details.ID() {
			return m, nil
		}
		m.logger.Error("details lookup failed", "id", msg.ID, "error", msg.Err)
		m.Details.SetError(domain.UserMessage(msg.Err))
		return m, nil

	case TrendingLoadedMsg:
		m.Details.SetTrending(msg.Items)
		return m, nil

	case ErrMsg:
		m.StatusMsg = msg.Error()
		m.StatusIsErr = true
		return m, ClearStatusCmd(5 * time.Second)

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		return m, ClearStatusCmd(3 * time.Second)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	// Cursor blink and other input messages
	if m.SearchBar.Focused() {
		var cmd tea.Cmd
		m.SearchBar, cmd = m.SearchBar.Update(msg)
		return m, cmd
	}
	return m, nil
}

// applyQuery hands the search bar's query to the feed
func (m *Model) applyQuery() {
	q := m.SearchBar.Query()
	if s := m.feed.State(); s.Revision > 0 && s.Query == q && s.Status != feed.StatusError {
		return
	}
	err := m.feed.SetQuery(q)
	switch {
	case errors.Is(err, domain.ErrInvalidQuery):
		m.SearchBar.SetError(err.Error())
	case err != nil:
		m.SearchBar.SetError("")
		m.StatusMsg = ErrMsg{Err: err, Context: "search"}.Error()
		m.StatusIsErr = true
	default:
		m.SearchBar.SetError("")
	}
	m.updateLayout()
}

// maybePrefetch asks for the next page when the list nears its end.
// A failed page is only retried on request.
func (m *Model) maybePrefetch() {
	if m.Screen != ScreenSearch {
		return
	}
	s := m.feed.State()
	if s.Revision == 0 || s.Status != feed.StatusIdle || !s.HasMore {
		return
	}
	if m.Results.NeedsMore(m.prefetchThreshold) {
		m.feed.RequestNextPage()
	}
}

func (m *Model) openDetails(movie domain.MovieSummary) tea.Cmd {
	if m.Screen != ScreenDetails {
		m.prevScreen = m.Screen
	}
	m.Screen = ScreenDetails
	m.Details.Load(movie.ID)
	m.Details.SetFavorite(m.favs.IsFavorite(movie.ID))
	m.syncFocus()

	cmds := []tea.Cmd{LoadDetailsCmd(m.catalog, movie.ID)}
	if !m.trendingRequested {
		m.trendingRequested = true
		m.Details.SetTrendingLoading()
		cmds = append(cmds, LoadTrendingCmd(m.catalog))
	}
	return tea.Batch(cmds...)
}

func (m *Model) openFavorites() {
	if m.Screen != ScreenFavorites {
		m.prevScreen = m.Screen
	}
	m.Screen = ScreenFavorites
	m.FavoritesList.Refresh()
	m.syncFocus()
}

func (m *Model) goBack() {
	switch m.Screen {
	case ScreenDetails:
		m.Screen = m.prevScreen
	default:
		m.Screen = ScreenSearch
	}
	m.prevScreen = ScreenSearch
	m.syncFocus()
	m.maybePrefetch()
}

// toggleFavorite applies the change on the update loop so toggles
// commit in key order, then reports the outcome
func (m *Model) toggleFavorite(movie domain.MovieSummary) tea.Cmd {
	added, err := m.favs.Toggle(movie)
	return func() tea.Msg {
		return FavoriteToggledMsg{Movie: movie, Added: added, Err: err}
	}
}

func (m *Model) handleFavoriteToggled(msg FavoriteToggledMsg) tea.Cmd {
	verb := "Removed from favorites: "
	if msg.Added {
		verb = "Added to favorites: "
	}
	if msg.Err != nil {
		m.logger.Error("favorite not saved", "id", msg.Movie.ID, "error", msg.Err)
		m.StatusMsg = fmt.Sprintf("%s%s (not saved: %v)", verb, msg.Movie.Title, msg.Err)
		m.StatusIsErr = true
		return ClearStatusCmd(5 * time.Second)
	}
	m.StatusMsg = verb + msg.Movie.Title
	m.StatusIsErr = false
	return ClearStatusCmd(3 * time.Second)
}

// syncFocus gives key focus to the component of the active screen
func (m *Model) syncFocus() {
	m.Results.SetFocused(m.Screen == ScreenSearch && !m.SearchBar.Focused())
	m.FavoritesList.SetFocused(m.Screen == ScreenFavorites)
}
