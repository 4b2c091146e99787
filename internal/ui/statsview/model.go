// Package statsview renders completion statistics for the current month
// and the trailing week.
package statsview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/checkin/internal/dates"
	"github.com/nhle/checkin/internal/model"
	"github.com/nhle/checkin/internal/stats"
	"github.com/nhle/checkin/internal/theme"
)

// Model is the stats view component. It holds a copy of the data it
// renders; the application refreshes it whenever the snapshot changes.
type Model struct {
	monthly stats.Monthly
	byTask  []stats.TaskMonthly
	week    []stats.Daily
	width   int
	height  int
}

// New creates a new stats view model.
func New(width, height int) Model {
	return Model{width: width, height: height}
}

// SetData recomputes all statistics from the given snapshot.
func (m *Model) SetData(snap model.Snapshot, today string) {
	month := dates.Month(today)
	m.monthly = stats.ForMonth(snap.Checkins, month, today)
	m.byTask = stats.ByTaskForMonth(snap.Tasks, snap.Checkins, month)
	m.week = stats.TrailingWeek(snap.Checkins, today)
}

// Update handles messages for the stats view. The view is read-only, so
// navigation keys are the only input it sees and it ignores them.
func (m Model) Update(_ tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the stats view.
func (m Model) View() string {
	sections := []string{
		m.renderMonthly(),
		m.renderByTask(),
		m.renderWeek(),
	}
	content := strings.Join(sections, "\n\n")

	return theme.PanelStyle.MaxWidth(m.width).Render(content)
}

func (m Model) renderMonthly() string {
	title := theme.HeaderStyle.Render("This Month (" + m.monthly.Month + ")")

	line := fmt.Sprintf(
		"planned %d   done %d   postponed %d   canceled %d   missed %d",
		m.monthly.Planned,
		m.monthly.Done,
		m.monthly.Postponed,
		m.monthly.Canceled,
		m.monthly.Missed,
	)

	rate := lipgloss.NewStyle().
		Bold(true).
		Foreground(rateColor(m.monthly.CompletionRate)).
		Render(fmt.Sprintf("completion %3.0f%%", m.monthly.CompletionRate*100))

	return lipgloss.JoinVertical(lipgloss.Left, title, line, rate)
}

func (m Model) renderByTask() string {
	title := theme.HeaderStyle.Render("By Task")
	if len(m.byTask) == 0 {
		return title + "\n" + theme.HelpStyle.Render("no scheduled checkins this month")
	}

	var rows []string
	for _, t := range m.byTask {
		name := t.Title
		if name == "" {
			name = "(deleted task)"
		}
		bar := progressBar(t.CompletionRate, 20)
		rows = append(rows, fmt.Sprintf(
			"%-24s %s %2d/%-2d",
			truncate(name, 24), bar, t.Done, t.Planned,
		))
	}

	return title + "\n" + strings.Join(rows, "\n")
}

func (m Model) renderWeek() string {
	title := theme.HeaderStyle.Render("Last 7 Days")

	var rows []string
	for _, d := range m.week {
		bar := progressBar(dayRate(d), 14)
		rows = append(rows, fmt.Sprintf(
			"%s %s %d/%d done",
			d.Date, bar, d.Done, d.Planned,
		))
	}

	return title + "\n" + strings.Join(rows, "\n")
}

// dayRate returns the completion rate for one day, 0 when nothing was planned.
func dayRate(d stats.Daily) float64 {
	if d.Planned == 0 {
		return 0
	}
	return float64(d.Done) / float64(d.Planned)
}

// progressBar renders a fixed-width filled/empty bar for a 0..1 rate.
func progressBar(rate float64, width int) string {
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	filled := int(rate*float64(width) + 0.5)

	full := lipgloss.NewStyle().
		Foreground(rateColor(rate)).
		Render(strings.Repeat("█", filled))
	empty := lipgloss.NewStyle().
		Foreground(theme.ColorSubtle).
		Render(strings.Repeat("░", width-filled))

	return full + empty
}

// rateColor maps a completion rate onto the palette.
func rateColor(rate float64) lipgloss.AdaptiveColor {
	switch {
	case rate >= 0.8:
		return theme.ColorGreen
	case rate >= 0.5:
		return theme.ColorYellow
	default:
		return theme.ColorRed
	}
}

// truncate shortens s to at most n runes, ellipsized.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
