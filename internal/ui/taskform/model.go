// Package taskform is the huh-backed form for creating and editing tasks.
package taskform

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/checkin/internal/dates"
	"github.com/nhle/checkin/internal/model"
	"github.com/nhle/checkin/internal/sync"
	"github.com/nhle/checkin/internal/theme"
)

// TaskCreatedMsg is dispatched when a new task is submitted via the form.
type TaskCreatedMsg struct {
	Input sync.TaskInput
}

// TaskUpdatedMsg is dispatched when an existing task is updated via the form.
type TaskUpdatedMsg struct {
	Task model.Task
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title     string
	taskType  string
	interval  string
	startDate string
	endDate   string
	status    string
}

// Model is the Bubble Tea model for the task create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editTask model.Task
	width    int
	height   int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for creating a new task. today is used
// as the default start date.
func (m *Model) StartCreate(today string) tea.Cmd {
	m.editMode = false
	m.editTask = model.Task{}
	m.fb.title = ""
	m.fb.taskType = string(model.TaskTypeRecurring)
	m.fb.interval = "1"
	m.fb.startDate = today
	m.fb.endDate = ""
	m.fb.status = model.TaskStatusActive
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing task.
func (m *Model) StartEdit(task model.Task) tea.Cmd {
	m.editMode = true
	m.editTask = task
	m.fb.title = task.Title
	m.fb.taskType = string(task.Type)
	m.fb.interval = "1"
	if task.Recurrence != nil {
		m.fb.interval = strconv.Itoa(task.Recurrence.Interval)
	}
	m.fb.startDate = task.StartDate
	m.fb.endDate = task.EndDate
	m.fb.status = task.Status
	m.form = m.buildForm()
	return m.form.Init()
}

// Active reports whether a form is currently open.
func (m Model) Active() bool {
	return m.form != nil
}

// Update handles messages for the task form.
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

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.editMode {
		titleText = "Edit Task"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What do you want to check in on?").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewSelect[string]().
			Title("Type").
			Options(
				huh.NewOption("Recurring", string(model.TaskTypeRecurring)),
				huh.NewOption("One-off", string(model.TaskTypeNormal)),
			).
			Value(&m.fb.taskType),
		huh.NewInput().
			Title("Repeat every N days").
			Placeholder("1").
			Value(&m.fb.interval).
			Validate(m.validateInterval),
		huh.NewInput().
			Title("Start Date").
			Placeholder("YYYY-MM-DD").
			Value(&m.fb.startDate).
			Validate(validateDate),
		huh.NewInput().
			Title("End Date").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&m.fb.endDate).
			Validate(m.validateEndDate),
	}

	if m.editMode {
		fields = append(fields,
			huh.NewSelect[string]().
				Title("Status").
				Options(
					huh.NewOption("Active", model.TaskStatusActive),
					huh.NewOption("Paused", model.TaskStatusPaused),
				).
				Value(&m.fb.status),
		)
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	interval, _ := strconv.Atoi(strings.TrimSpace(m.fb.interval))

	if m.editMode {
		task := m.editTask
		task.Title = strings.TrimSpace(m.fb.title)
		task.Type = model.TaskType(m.fb.taskType)
		task.StartDate = m.fb.startDate
		task.EndDate = strings.TrimSpace(m.fb.endDate)
		task.Status = m.fb.status
		if task.Type == model.TaskTypeRecurring {
			task.Recurrence = &model.Recurrence{
				Rule:     model.RecurrenceRuleEveryNDays,
				Interval: interval,
			}
		} else {
			task.Recurrence = nil
		}
		return func() tea.Msg { return TaskUpdatedMsg{Task: task} }
	}

	input := sync.TaskInput{
		Title:     strings.TrimSpace(m.fb.title),
		Type:      model.TaskType(m.fb.taskType),
		Interval:  interval,
		StartDate: m.fb.startDate,
		EndDate:   strings.TrimSpace(m.fb.endDate),
	}
	return func() tea.Msg { return TaskCreatedMsg{Input: input} }
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

// validateInterval requires a positive integer when the task is recurring.
func (m *Model) validateInterval(s string) error {
	if m.fb.taskType != string(model.TaskTypeRecurring) {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fmt.Errorf("interval must be a positive number of days")
	}
	return nil
}

// validateEndDate accepts an empty end date and otherwise requires a
// well-formed date on or after the start date.
func (m *Model) validateEndDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if err := validateDate(s); err != nil {
		return err
	}
	if s < strings.TrimSpace(m.fb.startDate) {
		return fmt.Errorf("end date must not be before start date")
	}
	return nil
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateDate(s string) error {
	if !dates.Valid(strings.TrimSpace(s)) {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
