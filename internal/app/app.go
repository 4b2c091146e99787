// Package app is the root Bubble Tea model. It routes messages between the
// views and the sync orchestrator, which owns all state; the views only
// render snapshots and emit requests.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/checkin/internal/credential"
	"github.com/nhle/checkin/internal/dates"
	"github.com/nhle/checkin/internal/keys"
	"github.com/nhle/checkin/internal/model"
	appsync "github.com/nhle/checkin/internal/sync"
	"github.com/nhle/checkin/internal/ui"
	"github.com/nhle/checkin/internal/ui/settingsform"
	"github.com/nhle/checkin/internal/ui/statsview"
	"github.com/nhle/checkin/internal/ui/taskform"
	"github.com/nhle/checkin/internal/ui/tasklist"
	"github.com/nhle/checkin/internal/ui/today"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewToday ViewState = iota
	ViewTasks
	ViewStats
	ViewSettings
	ViewTaskForm
	ViewNote
	ViewHelp
)

// loadedMsg is sent after the orchestrator has loaded the local snapshot.
type loadedMsg struct {
	err error
}

// syncEventMsg carries one orchestrator status change to the UI.
type syncEventMsg appsync.Event

// mutationDoneMsg is sent after a local mutation has been applied.
type mutationDoneMsg struct {
	err error
}

// Model is the root Bubble Tea model that manages view routing, layout,
// and access to the sync orchestrator.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	orch         *appsync.Orchestrator
	keys         *keys.KeyMap

	todayView    today.Model
	taskList     tasklist.Model
	taskForm     taskform.Model
	statsView    statsview.Model
	settingsForm settingsform.Model

	noteInput     textinput.Model
	noteCheckinID string

	ready      bool
	flash      string
	syncStatus appsync.Status
	syncErr    string
	report     *appsync.Report
}

// New creates a new root application model over the given orchestrator.
func New(orch *appsync.Orchestrator) Model {
	k := keys.DefaultKeyMap()

	ni := textinput.New()
	ni.Prompt = "note> "
	ni.CharLimit = 500

	return Model{
		currentView:  ViewToday,
		orch:         orch,
		keys:         &k,
		todayView:    today.New(&k, 80, 24),
		taskList:     tasklist.New(&k, 80, 24),
		taskForm:     taskform.New(80, 24),
		statsView:    statsview.New(80, 24),
		settingsForm: settingsform.New(80, 24),
		noteInput:    ni,
	}
}

// Init loads the snapshot and starts listening for sync events.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.waitForEvent())
}

// load returns a command that runs the orchestrator's startup sequence.
func (m Model) load() tea.Cmd {
	orch := m.orch
	return func() tea.Msg {
		return loadedMsg{err: orch.Load(context.Background())}
	}
}

// waitForEvent returns a command that blocks on the next sync event.
func (m Model) waitForEvent() tea.Cmd {
	ch := m.orch.Events()
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return syncEventMsg(ev)
	}
}

// refresh re-renders every data-bearing view from the current snapshot.
func (m *Model) refresh() {
	snap := m.orch.Snapshot()
	todayKey := dates.Today(time.Now())

	titles := make(map[string]string, len(snap.Tasks))
	for _, t := range snap.Tasks {
		titles[t.ID] = t.Title
	}

	var due []model.Checkin
	for _, c := range snap.Checkins {
		if c.Date == todayKey {
			due = append(due, c)
		}
	}

	m.todayView.SetCheckins(due, titles)
	m.taskList.SetTasks(snap.Tasks)
	m.statsView.SetData(snap, todayKey)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.todayView.SetSize(w, h)
		m.taskList.SetSize(w, h)
		m.taskForm.SetSize(w, h)
		m.statsView.SetSize(w, h)
		m.settingsForm.SetSize(w, h)
		m.noteInput.Width = w - 8
		// Forward to the active view so huh forms can calculate layout.
		return m.updateActiveView(msg)

	case loadedMsg:
		if msg.err != nil {
			m.flash = msg.err.Error()
		}
		m.refresh()
		return m, nil

	case syncEventMsg:
		m.syncStatus = msg.Status
		m.syncErr = msg.Err
		if msg.Report != nil {
			m.report = msg.Report
		}
		// A sync cycle may have merged remote records into the snapshot.
		m.refresh()
		return m, m.waitForEvent()

	case mutationDoneMsg:
		if msg.err != nil {
			m.flash = msg.err.Error()
		} else {
			m.flash = ""
		}
		m.refresh()
		return m, nil

	case today.MarkMsg:
		return m, m.setCheckinState(msg.CheckinID, msg.State)

	case today.NoteRequestMsg:
		m.previousView = m.currentView
		m.currentView = ViewNote
		m.noteCheckinID = msg.CheckinID
		m.noteInput.SetValue(msg.Current)
		m.noteInput.CursorEnd()
		return m, m.noteInput.Focus()

	case taskform.TaskCreatedMsg:
		m.currentView = ViewToday
		return m, m.addTask(msg.Input)

	case taskform.TaskUpdatedMsg:
		m.currentView = ViewTasks
		return m, m.updateTask(msg.Task)

	case taskform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case tasklist.EditRequestMsg:
		m.previousView = m.currentView
		m.currentView = ViewTaskForm
		return m, m.taskForm.StartEdit(msg.Task)

	case tasklist.ArchiveMsg:
		return m, m.archiveTask(msg.TaskID)

	case tasklist.ToggleMsg:
		return m, m.toggleTask(msg.TaskID)

	case settingsform.SavedMsg:
		m.currentView = m.previousView
		return m, m.saveSettings(msg.Settings, msg.Token)

	case settingsform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m.updateActiveView(msg)
}

// handleKeys processes global keys and delegates the rest to the active view.
func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Forms and the note editor own the keyboard while open. The Active
	// checks cover the frame between a form finishing and the view switch
	// its message triggers.
	switch m.currentView {
	case ViewTaskForm:
		if m.taskForm.Active() {
			return m.updateActiveView(msg)
		}
	case ViewSettings:
		if m.settingsForm.Active() {
			return m.updateActiveView(msg)
		}
	case ViewNote:
		return m.handleNoteKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.orch.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil

	case key.Matches(msg, m.keys.Today):
		m.currentView = ViewToday
		return m, nil

	case key.Matches(msg, m.keys.Tasks):
		m.currentView = ViewTasks
		return m, nil

	case key.Matches(msg, m.keys.Stats):
		m.currentView = ViewStats
		return m, nil

	case key.Matches(msg, m.keys.Settings):
		m.previousView = m.currentView
		m.currentView = ViewSettings
		return m, m.settingsForm.Start(m.orch.Settings())

	case key.Matches(msg, m.keys.NewTask):
		m.previousView = m.currentView
		m.currentView = ViewTaskForm
		return m, m.taskForm.StartCreate(dates.Today(time.Now()))

	case key.Matches(msg, m.keys.Sync):
		if m.currentView == ViewToday || m.currentView == ViewStats {
			return m, m.syncNow()
		}

	case key.Matches(msg, m.keys.Refresh):
		return m, m.regenerateToday()

	case key.Matches(msg, m.keys.Back):
		if m.currentView != ViewToday {
			m.currentView = ViewToday
			return m, nil
		}
	}

	return m.updateActiveView(msg)
}

// handleNoteKeys processes key input while the note editor is open.
func (m Model) handleNoteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.currentView = m.previousView
		m.noteInput.Blur()
		return m, m.setCheckinNote(m.noteCheckinID, m.noteInput.Value())
	case "esc":
		m.currentView = m.previousView
		m.noteInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.noteInput, cmd = m.noteInput.Update(msg)
	return m, cmd
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewToday:
		m.todayView, cmd = m.todayView.Update(msg)
	case ViewTasks:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewStats:
		m.statsView, cmd = m.statsView.Update(msg)
	case ViewSettings:
		m.settingsForm, cmd = m.settingsForm.Update(msg)
	case ViewTaskForm:
		m.taskForm, cmd = m.taskForm.Update(msg)
	}

	return m, cmd
}

// Commands wrapping orchestrator mutations. Each runs off the UI goroutine
// and reports back through mutationDoneMsg.

func (m Model) setCheckinState(checkinID, state string) tea.Cmd {
	orch := m.orch
	return func() tea.Msg {
		return mutationDoneMsg{err: orch.SetCheckinState(context.Background(), checkinID, state)}
	}
}

func (m Model) setCheckinNote(checkinID, note string) tea.Cmd {
	orch := m.orch
	return func() tea.Msg {
		return mutationDoneMsg{err: orch.SetCheckinNote(context.Background(), checkinID, note)}
	}
}

func (m Model) addTask(input appsync.TaskInput) tea.Cmd {
	orch := m.orch
	input.Timezone = time.Local.String()
	return func() tea.Msg {
		_, err := orch.AddTask(context.Background(), input)
		return mutationDoneMsg{err: err}
	}
}

func (m Model) updateTask(task model.Task) tea.Cmd {
	orch := m.orch
	return func() tea.Msg {
		return mutationDoneMsg{err: orch.UpdateTask(context.Background(), task)}
	}
}

func (m Model) archiveTask(taskID string) tea.Cmd {
	orch := m.orch
	return func() tea.Msg {
		return mutationDoneMsg{err: orch.ArchiveTask(context.Background(), taskID)}
	}
}

func (m Model) toggleTask(taskID string) tea.Cmd {
	orch := m.orch
	return func() tea.Msg {
		return mutationDoneMsg{err: orch.ToggleTaskStatus(context.Background(), taskID)}
	}
}

func (m Model) regenerateToday() tea.Cmd {
	orch := m.orch
	return func() tea.Msg {
		return mutationDoneMsg{err: orch.RegenerateToday(context.Background())}
	}
}

func (m Model) syncNow() tea.Cmd {
	orch := m.orch
	return func() tea.Msg {
		return mutationDoneMsg{err: orch.SyncNow(context.Background())}
	}
}

func (m Model) saveSettings(settings model.Settings, token string) tea.Cmd {
	orch := m.orch
	return func() tea.Msg {
		if token != "" {
			if err := credential.SetToken(token); err != nil {
				return mutationDoneMsg{err: err}
			}
		}
		return mutationDoneMsg{err: orch.UpdateSettings(context.Background(), settings)}
	}
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Checkin", m.syncLabel())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewToday:
		return m.todayView.View()
	case ViewTasks:
		return m.taskList.View()
	case ViewStats:
		return m.statsView.View()
	case ViewSettings:
		return m.settingsForm.View()
	case ViewTaskForm:
		return m.taskForm.View()
	case ViewNote:
		return "\n  " + m.noteInput.View()
	case ViewHelp:
		return m.renderHelp()
	default:
		return ""
	}
}

// syncLabel returns a short string describing the sync state for the header.
func (m Model) syncLabel() string {
	switch m.syncStatus {
	case appsync.StatusSyncing:
		return "syncing…"
	case appsync.StatusError:
		return "⚠ sync error"
	case appsync.StatusSuccess:
		if m.report != nil && (m.report.Tasks.Changed() || m.report.Checkins.Changed()) {
			return fmt.Sprintf("synced ↓%d ↑%d",
				m.report.Tasks.PulledAdded+m.report.Tasks.PulledUpdated+
					m.report.Checkins.PulledAdded+m.report.Checkins.PulledUpdated,
				m.report.Tasks.PushedAdded+m.report.Tasks.PushedUpdated+
					m.report.Checkins.PushedAdded+m.report.Checkins.PushedUpdated)
		}
		return "synced"
	default:
		if !m.orch.Settings().Configured() {
			return "offline"
		}
		return "idle"
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.flash != "" {
		return m.flash
	}
	if m.syncStatus == appsync.StatusError && m.syncErr != "" {
		return m.syncErr
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help"
	case ViewTasks:
		return "e edit | space pause | ⌫ archive | a add | esc today"
	case ViewStats:
		return "s sync | esc today"
	case ViewSettings, ViewTaskForm:
		return "enter submit | esc cancel"
	case ViewNote:
		return "enter save | esc cancel"
	default:
		return "d done | p postpone | x cancel | n note | a add | s sync | ? help"
	}
}

// renderHelp draws the full keyboard reference.
func (m Model) renderHelp() string {
	return `
  Today view
    d/enter    mark done
    p          postpone to tomorrow
    x          cancel
    n          edit note
    r          regenerate today's checkins

  Anywhere
    1/2/3/4    today / tasks / stats / settings
    a          add task
    s          sync now
    ?          toggle this help
    q          quit

  Tasks view
    e          edit task
    space      pause / resume
    backspace  archive
`
}
