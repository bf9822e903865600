package tui

import (
	"github.com/mmcdole/marquee/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + domain.UserMessage(e.Err)
	}
	return domain.UserMessage(e.Err)
}

// FeedChangedMsg signals that the result feed committed a change.
// The model re-reads the controller state when it arrives.
type FeedChangedMsg struct{}

// FavoritesChangedMsg signals that the favorites collection changed
type FavoritesChangedMsg struct{}

// DetailsLoadedMsg carries the full record of a title
type DetailsLoadedMsg struct {
	ID      string
	Details *domain.MovieDetails
}

// DetailsFailedMsg signals that a details lookup failed
type DetailsFailedMsg struct {
	ID  string
	Err error
}

// TrendingLoadedMsg carries the trending strip
type TrendingLoadedMsg struct {
	Items []domain.MovieSummary
}

// FavoriteToggledMsg reports the outcome of a favorite toggle.
// Err is set when the change could not be persisted; the change is kept.
type FavoriteToggledMsg struct {
	Movie domain.MovieSummary
	Added bool
	Err   error
}

// DebounceMsg fires when the search input has been idle for the debounce delay
type DebounceMsg struct {
	Seq int
}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
