// Package settingsform is the huh-backed form for the remote sync target.
package settingsform

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/checkin/internal/model"
	"github.com/nhle/checkin/internal/theme"
)

// SavedMsg is dispatched when the user submits the form. Token is empty
// when the stored token should be left untouched.
type SavedMsg struct {
	Settings model.Settings
	Token    string
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	owner  string
	repo   string
	branch string
	token  string
}

// Model is the Bubble Tea model for the sync settings form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates a new settings form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes the form with the current settings. The token field
// always starts empty; leaving it blank keeps the stored token.
func (m *Model) Start(settings model.Settings) tea.Cmd {
	m.fb.owner = settings.Owner
	m.fb.repo = settings.Repo
	m.fb.branch = settings.Branch
	if m.fb.branch == "" {
		m.fb.branch = "main"
	}
	m.fb.token = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Repository Owner").
				Placeholder("github user or org").
				Value(&m.fb.owner),
			huh.NewInput().
				Title("Repository Name").
				Placeholder("checkin-data").
				Value(&m.fb.repo),
			huh.NewInput().
				Title("Branch").
				Value(&m.fb.branch),
			huh.NewInput().
				Title("Access Token").
				Placeholder("leave blank to keep current").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.token),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())

	return m.form.Init()
}

// Active reports whether the form is currently open.
func (m Model) Active() bool {
	return m.form != nil
}

// Update handles messages for the settings form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.form = nil
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

func (m Model) handleSubmit() tea.Cmd {
	settings := model.Settings{
		Owner:  strings.TrimSpace(m.fb.owner),
		Repo:   strings.TrimSpace(m.fb.repo),
		Branch: strings.TrimSpace(m.fb.branch),
	}
	if settings.Branch == "" {
		settings.Branch = "main"
	}
	token := strings.TrimSpace(m.fb.token)

	return func() tea.Msg {
		return SavedMsg{Settings: settings, Token: token}
	}
}

// View renders the settings form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Sync Settings") + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}
