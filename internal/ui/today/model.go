// Package today renders the list of checkins due on the current day and
// turns key presses into state-change requests.
package today

import (
	"sort"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/checkin/internal/keys"
	"github.com/nhle/checkin/internal/model"
	"github.com/nhle/checkin/internal/theme"
)

// MarkMsg asks the application to set a checkin's state.
type MarkMsg struct {
	CheckinID string
	State     string
}

// NoteRequestMsg asks the application to open the note editor for a checkin.
type NoteRequestMsg struct {
	CheckinID string
	Current   string
}

// Model is the today view component.
type Model struct {
	list   list.Model
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates a new today view model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height)
	l.Title = "Today"
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

// SetCheckins replaces the list contents. Unresolved checkins sort before
// resolved ones; within each group the original order is kept.
func (m *Model) SetCheckins(checkins []model.Checkin, titles map[string]string) {
	items := make([]list.Item, len(checkins))
	for i, c := range checkins {
		title := titles[c.TaskID]
		if title == "" {
			title = "(deleted task)"
		}
		items[i] = Item{Checkin: c, TaskTitle: title}
	}

	sort.SliceStable(items, func(a, b int) bool {
		ca := items[a].(Item).Checkin
		cb := items[b].(Item).Checkin
		return !resolved(ca.State) && resolved(cb.State)
	})

	m.list.SetItems(items)
}

// Selected returns the currently highlighted checkin, if any.
func (m Model) Selected() (model.Checkin, bool) {
	it, ok := m.list.SelectedItem().(Item)
	if !ok {
		return model.Checkin{}, false
	}
	return it.Checkin, true
}

// Update handles messages for the today view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleKeys processes key input for the today view.
func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	c, hasSelection := m.Selected()

	switch {
	case hasSelection && key.Matches(msg, m.keys.Done):
		return m, markCmd(c.ID, model.CheckinStateDone)

	case hasSelection && key.Matches(msg, m.keys.Postpone):
		return m, markCmd(c.ID, model.CheckinStatePostponed)

	case hasSelection && key.Matches(msg, m.keys.Cancel):
		return m, markCmd(c.ID, model.CheckinStateCanceled)

	case hasSelection && key.Matches(msg, m.keys.Note):
		return m, func() tea.Msg {
			return NoteRequestMsg{CheckinID: c.ID, Current: c.Note}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// markCmd returns a command that emits a MarkMsg.
func markCmd(checkinID, state string) tea.Cmd {
	return func() tea.Msg {
		return MarkMsg{CheckinID: checkinID, State: state}
	}
}

// View renders the today view.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}
	return m.list.View()
}

// renderEmptyState shows guidance text when nothing is due today.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	return style.Render(
		"Nothing due today.\n\n" +
			"Press a to add a task.",
	)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}
