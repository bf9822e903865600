package components

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Layout constants for list panes
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2
)

// listCursor tracks selection and scrolling over count rows
type listCursor struct {
	cursor     int
	offset     int
	maxVisible int
}

// move handles navigation keys; it returns true if the key was consumed
func (c *listCursor) move(msg tea.KeyMsg, count int) bool {
	if count == 0 {
		return false
	}
	switch {
	case key.Matches(msg, ListKeys.Down):
		if c.cursor < count-1 {
			c.cursor++
		}
	case key.Matches(msg, ListKeys.Up):
		if c.cursor > 0 {
			c.cursor--
		}
	case key.Matches(msg, ListKeys.Home):
		c.cursor = 0
	case key.Matches(msg, ListKeys.End):
		c.cursor = count - 1
	case key.Matches(msg, ListKeys.HalfDown):
		c.cursor = min(c.cursor+max(c.maxVisible/2, 1), count-1)
	case key.Matches(msg, ListKeys.HalfUp):
		c.cursor = max(c.cursor-max(c.maxVisible/2, 1), 0)
	default:
		return false
	}
	c.ensureVisible()
	return true
}

func (c *listCursor) reset() {
	c.cursor = 0
	c.offset = 0
}

// clamp keeps the cursor inside count rows
func (c *listCursor) clamp(count int) {
	if c.cursor >= count {
		c.cursor = max(count-1, 0)
	}
	c.ensureVisible()
}

func (c *listCursor) ensureVisible() {
	// Don't adjust offset if size hasn't been set yet
	if c.maxVisible <= 0 {
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.maxVisible {
		c.offset = c.cursor - c.maxVisible + 1
	}
}

// window returns the visible row range [offset, end)
func (c *listCursor) window(count int) (int, int) {
	end := min(c.offset+c.maxVisible, count)
	return c.offset, end
}
