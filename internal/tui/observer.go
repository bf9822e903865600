package tui

import (
	"github.com/mmcdole/marquee/internal/favorites"
	"github.com/mmcdole/marquee/internal/feed"
)

// ChannelObserver adapts change listeners to a channel for Bubble Tea.
// It only signals; the model re-reads the current state on receipt.
type ChannelObserver struct {
	ch chan<- struct{}
}

// NewChannelObserver creates a new channel-based observer.
// ch should have a buffer of one.
func NewChannelObserver(ch chan<- struct{}) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// OnFeedChange implements the feed listener
func (o *ChannelObserver) OnFeedChange(feed.State) {
	o.signal()
}

// OnFavoritesChange implements the favorites listener
func (o *ChannelObserver) OnFavoritesChange(favorites.Change) {
	o.signal()
}

func (o *ChannelObserver) signal() {
	select {
	case o.ch <- struct{}{}:
	default: // A signal is already pending
	}
}
