// Package ui provides the single-pane frame every view renders into: a
// one-line header, the content area, and a one-line status bar.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/checkin/internal/theme"
)

// Layout tracks the terminal dimensions and the fixed chrome heights.
type Layout struct {
	Width  int
	Height int
}

// chromeLines is the header plus the status bar.
const chromeLines = 2

// NewLayout creates a Layout for the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{Width: width, Height: height}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the content area.
func (l Layout) ContentHeight() int {
	return l.Height - chromeLines
}

// RenderHeader renders the top bar: the title on the left, the sync state
// on the right, the gap filled with the header background.
func (l Layout) RenderHeader(title string, syncState string) string {
	left := theme.HeaderStyle.Render(title)
	right := theme.HeaderStyle.Align(lipgloss.Right).Render(syncState)
	return l.fillBetween(theme.HeaderStyle, left, right)
}

// RenderStatusBar renders the bottom bar with keyboard hints or messages.
func (l Layout) RenderStatusBar(hints string) string {
	return l.fillBetween(theme.StatusBarStyle, theme.StatusBarStyle.Render(hints), "")
}

// fillBetween joins left and right with a styled filler padded to the full
// terminal width, so the bar's background spans the whole line.
func (l Layout) fillBetween(style lipgloss.Style, left, right string) string {
	gap := l.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	filler := style.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(style.GetBackground()).
			Render(""),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, filler, right)
}

// RenderWithFrame stacks the header, content area, and status bar.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}
