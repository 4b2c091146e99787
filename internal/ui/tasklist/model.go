// Package tasklist renders all non-archived tasks and turns key presses
// into edit/pause/archive requests.
package tasklist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/checkin/internal/keys"
	"github.com/nhle/checkin/internal/model"
	"github.com/nhle/checkin/internal/theme"
)

// EditRequestMsg asks the application to open the task form for a task.
type EditRequestMsg struct {
	Task model.Task
}

// ArchiveMsg asks the application to archive a task.
type ArchiveMsg struct {
	TaskID string
}

// ToggleMsg asks the application to flip a task between active and paused.
type ToggleMsg struct {
	TaskID string
}

// Item wraps a task for the bubbles list.
type Item struct {
	Task model.Task
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Task.Title }

// Title returns the task title for the list.
func (i Item) Title() string { return i.Task.Title }

// Description returns a short summary line for the list.
func (i Item) Description() string { return i.Task.Status }

// ItemDelegate implements list.ItemDelegate for rendering task lines.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}

	t := it.Task
	isSelected := index == m.Index()

	statusBadge := statusStyle(t.Status).Render(t.Status)

	schedule := "one-off"
	if t.Type == model.TaskTypeRecurring && t.Recurrence != nil {
		if t.Recurrence.Interval == 1 {
			schedule = "daily"
		} else {
			schedule = fmt.Sprintf("every %d days", t.Recurrence.Interval)
		}
	}
	scheduleBadge := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(schedule)

	window := t.StartDate
	if t.EndDate != "" {
		window += " → " + t.EndDate
	}
	windowBadge := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(window)

	line := fmt.Sprintf("%s %s  %s  %s", statusBadge, t.Title, scheduleBadge, windowBadge)

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// statusStyle returns a color-coded style for a task status.
func statusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	switch status {
	case model.TaskStatusActive:
		return base.Foreground(theme.ColorGreen)
	case model.TaskStatusPaused:
		return base.Foreground(theme.ColorYellow)
	default:
		return base.Foreground(theme.ColorGray)
	}
}

// Model is the task management view component.
type Model struct {
	list   list.Model
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates a new task list model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height)
	l.Title = "Tasks"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		keys:   k,
		width:  width,
		height: height,
	}
}

// SetTasks replaces the list contents with all non-archived tasks.
func (m *Model) SetTasks(tasks []model.Task) {
	var items []list.Item
	for _, t := range tasks {
		if t.Status == model.TaskStatusArchived {
			continue
		}
		items = append(items, Item{Task: t})
	}
	m.list.SetItems(items)
}

// Selected returns the currently highlighted task, if any.
func (m Model) Selected() (model.Task, bool) {
	it, ok := m.list.SelectedItem().(Item)
	if !ok {
		return model.Task{}, false
	}
	return it.Task, true
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleKeys processes key input for the task list view.
func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	t, hasSelection := m.Selected()

	switch {
	case hasSelection && key.Matches(msg, m.keys.Edit):
		return m, func() tea.Msg { return EditRequestMsg{Task: t} }

	case hasSelection && key.Matches(msg, m.keys.Archive):
		return m, func() tea.Msg { return ArchiveMsg{TaskID: t.ID} }

	case hasSelection && key.Matches(msg, m.keys.Pause):
		return m, func() tea.Msg { return ToggleMsg{TaskID: t.ID} }
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the task list view.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}
	return m.list.View()
}

// renderEmptyState shows guidance text when no tasks exist yet.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	return style.Render("No tasks yet.\n\nPress a to add one.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}
