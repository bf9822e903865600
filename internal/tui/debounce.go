package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// debouncer coalesces bursts of input into one DebounceMsg.
// Every Trigger supersedes the previous one; only the latest fires.
type debouncer struct {
	delay time.Duration
	seq   int
}

func newDebouncer(delay time.Duration) debouncer {
	return debouncer{delay: delay}
}

// Trigger starts a new wait and returns the command that ends it
func (d *debouncer) Trigger() tea.Cmd {
	d.seq++
	seq := d.seq
	if d.delay <= 0 {
		return func() tea.Msg { return DebounceMsg{Seq: seq} }
	}
	return tea.Tick(d.delay, func(time.Time) tea.Msg {
		return DebounceMsg{Seq: seq}
	})
}

// Cancel invalidates any pending wait
func (d *debouncer) Cancel() {
	d.seq++
}

// IsLatest reports whether msg belongs to the most recent Trigger
func (d debouncer) IsLatest(msg DebounceMsg) bool {
	return msg.Seq == d.seq
}
