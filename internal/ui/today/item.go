package today

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/checkin/internal/model"
	"github.com/nhle/checkin/internal/theme"
)

// Item wraps a checkin together with its task title so the bubbles list
// can render it without a store lookup.
type Item struct {
	Checkin   model.Checkin
	TaskTitle string
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string { return i.TaskTitle }

// Title returns the task title for the list.
func (i Item) Title() string { return i.TaskTitle }

// Description returns a short summary line for the list.
func (i Item) Description() string {
	return i.Checkin.State
}

// ItemDelegate implements list.ItemDelegate for rendering checkin lines.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single checkin line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}

	c := it.Checkin
	isSelected := index == m.Index()

	prefix := statePrefix(c.State)
	stateBadge := theme.StateStyle(c.State).Render(c.State)

	chainBadge := ""
	if c.Source == model.CheckinSourcePostponed {
		chainBadge = lipgloss.NewStyle().
			Foreground(theme.ColorYellow).
			Render(" ↪ from " + c.OriginDate)
	}

	noteBadge := ""
	if c.Note != "" {
		noteBadge = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(" ✎")
	}

	line := fmt.Sprintf("%s %s %s%s%s",
		prefix, stateBadge, it.TaskTitle, chainBadge, noteBadge)

	if resolved(c.State) {
		line = theme.DimmedStyle.Render(line)
	}

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// statePrefix returns the one-rune marker shown before each checkin.
func statePrefix(state string) string {
	switch state {
	case model.CheckinStateDone:
		return "✓"
	case model.CheckinStatePostponed:
		return "→"
	case model.CheckinStateCanceled:
		return "✗"
	case model.CheckinStateMissed:
		return "!"
	default:
		return "○"
	}
}

// resolved reports whether the state is one the user no longer acts on today.
func resolved(state string) bool {
	switch state {
	case model.CheckinStateDone, model.CheckinStateCanceled, model.CheckinStatePostponed:
		return true
	}
	return false
}
