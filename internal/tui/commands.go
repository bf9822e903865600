package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/marquee/internal/service"
)

// Command factories for async operations

// LoadDetailsCmd loads the full record of a title
func LoadDetailsCmd(svc *service.CatalogService, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		details, err := svc.Details(ctx, id)
		if err != nil {
			return DetailsFailedMsg{ID: id, Err: err}
		}
		return DetailsLoadedMsg{ID: id, Details: details}
	}
}

// LoadTrendingCmd loads the trending strip
func LoadTrendingCmd(svc *service.CatalogService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		return TrendingLoadedMsg{Items: svc.Trending(ctx)}
	}
}

// WaitForSignalCmd waits for the next signal on ch and delivers msg
func WaitForSignalCmd(ch <-chan struct{}, msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return msg
	}
}

// TickCmd creates a tick command for animations
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd clears the status message after a delay
func ClearStatusCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
