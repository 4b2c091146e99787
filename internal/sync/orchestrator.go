package sync

import (
	"context"
	"fmt"
	gosync "sync"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/checkin/internal/dates"
	"github.com/nhle/checkin/internal/engine"
	"github.com/nhle/checkin/internal/model"
	"github.com/nhle/checkin/internal/remote"
	"github.com/nhle/checkin/internal/store"
)

// Status represents the orchestrator's sync state. Success and Error are
// not terminal; any later sync attempt re-enters Syncing.
type Status int

const (
	StatusIdle Status = iota
	StatusSyncing
	StatusSuccess
	StatusError
)

// String returns the lower-case status name.
func (s Status) String() string {
	switch s {
	case StatusSyncing:
		return "syncing"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Event is emitted to consumers whenever the sync status changes.
type Event struct {
	Status Status
	Err    string
	Report *Report
}

// RemoteStore is what the orchestrator needs from the remote client: pull
// the three-document snapshot, push it back.
type RemoteStore interface {
	Pull(ctx context.Context) (model.Snapshot, error)
	Push(ctx context.Context, snap model.Snapshot, now time.Time) error
}

// RemoteFactory builds a remote store for the given settings, returning
// nil when the settings plus ambient credentials do not form a complete
// remote target.
type RemoteFactory func(model.Settings) RemoteStore

// TaskInput carries the user-supplied fields for a new task.
type TaskInput struct {
	Title     string
	Type      model.TaskType
	Interval  int
	StartDate string
	EndDate   string
	Timezone  string
}

// Orchestrator owns the in-memory snapshot and is the only path through
// which it changes. Local mutations run the scheduling engine, persist,
// and restart the push debounce timer; sync cycles pull, merge, re-settle,
// and push. Each mutation is one atomic read-transform-install operation;
// the next begins only after the previous install. All pull-merge-push
// cycles are serialized through a single mutex so a manual sync can never
// race an in-flight debounced push.
type Orchestrator struct {
	store     store.Store
	newRemote RemoteFactory
	now       func() time.Time
	debounce  time.Duration

	mu       gosync.Mutex
	snap     model.Snapshot
	settings model.Settings
	status   Status
	lastErr  string
	report   *Report
	timer    *time.Timer

	// opMu serializes whole read-transform-install operations. mu alone
	// only protects the snapshot variable; without opMu two concurrent
	// mutations could clone the same snapshot and the second install would
	// drop the first's change.
	opMu gosync.Mutex

	// syncMu serializes sync cycles; it is never held while mu is held.
	syncMu gosync.Mutex

	events chan Event
}

// New creates an orchestrator over the given local store. The factory may
// be nil for a client that never syncs.
func New(s store.Store, factory RemoteFactory, debounce time.Duration) *Orchestrator {
	if debounce <= 0 {
		debounce = 1500 * time.Millisecond
	}
	return &Orchestrator{
		store:     s,
		newRemote: factory,
		now:       time.Now,
		debounce:  debounce,
		events:    make(chan Event, 16),
	}
}

// SetClock overrides the wall clock, for tests.
func (o *Orchestrator) SetClock(now func() time.Time) {
	o.now = now
}

// Events returns the channel on which status changes are delivered.
// Events are dropped rather than blocking when the consumer lags.
func (o *Orchestrator) Events() <-chan Event {
	return o.events
}

// Snapshot returns a copy of the current snapshot.
func (o *Orchestrator) Snapshot() model.Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snap.Clone()
}

// Settings returns the current sync settings.
func (o *Orchestrator) Settings() model.Settings {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.settings
}

// Status returns the current sync status with any error message and the
// last merge report.
func (o *Orchestrator) Status() (Status, string, *Report) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status, o.lastErr, o.report
}

// remoteStore builds a remote client for the current settings, or nil when
// sync is not configured.
func (o *Orchestrator) remoteStore() RemoteStore {
	if o.newRemote == nil {
		return nil
	}
	o.mu.Lock()
	settings := o.settings
	o.mu.Unlock()
	return o.newRemote(settings)
}

// setStatus records a status transition and emits it without blocking.
func (o *Orchestrator) setStatus(status Status, errMsg string, report *Report) {
	o.mu.Lock()
	o.status = status
	o.lastErr = errMsg
	if report != nil {
		o.report = report
	}
	o.mu.Unlock()

	select {
	case o.events <- Event{Status: status, Err: errMsg, Report: report}:
	default:
		// Drop if the consumer is behind; status is also pollable.
	}
}

// Load reads the local snapshot, settles it through the scheduler and
// sweeper, and, when sync is configured, runs a full pull-merge-push
// cycle. A failed pull leaves the locally-settled snapshot in place and
// reports the error; the client stays fully usable offline.
func (o *Orchestrator) Load(ctx context.Context) error {
	tasks, err := o.store.GetTasks(ctx)
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}
	checkins, err := o.store.GetCheckins(ctx)
	if err != nil {
		return fmt.Errorf("loading checkins: %w", err)
	}
	meta, err := o.store.GetMeta(ctx)
	if err != nil {
		return fmt.Errorf("loading meta: %w", err)
	}
	settings, err := o.store.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	// The client id is assigned exactly once, on first run.
	if meta.ClientID == "" {
		meta.ClientID = uuid.New().String()
	}

	o.opMu.Lock()
	now := o.now()
	today := dates.Today(now)
	checkins, meta = engine.Generate(tasks, checkins, meta, today, now)
	checkins = engine.Sweep(checkins, today, now)

	snap := model.Snapshot{Tasks: tasks, Checkins: checkins, Meta: meta}

	o.mu.Lock()
	o.snap = snap
	o.settings = settings
	o.mu.Unlock()

	if err := o.persist(ctx, snap); err != nil {
		o.opMu.Unlock()
		return err
	}
	o.opMu.Unlock()

	if o.remoteStore() == nil {
		return nil
	}
	// Sync errors are surfaced through the status, never fatal to load.
	_ = o.runSyncCycle(ctx)
	return nil
}

// SyncNow runs a pull-merge-push cycle immediately. When sync is not
// configured it fails before any network activity without entering the
// syncing state.
func (o *Orchestrator) SyncNow(ctx context.Context) error {
	if o.remoteStore() == nil {
		o.setStatus(StatusError, remote.ErrNotConfigured.Error(), nil)
		return remote.ErrNotConfigured
	}
	return o.runSyncCycle(ctx)
}

// runSyncCycle performs one serialized pull-merge-push. The merged result
// is applied as a local mutation with the debounce deliberately not
// scheduled: the cycle pushes the snapshot itself, so the echo push the
// apply would otherwise trigger is suppressed by construction.
func (o *Orchestrator) runSyncCycle(ctx context.Context) error {
	o.syncMu.Lock()
	defer o.syncMu.Unlock()

	rs := o.remoteStore()
	if rs == nil {
		o.setStatus(StatusError, remote.ErrNotConfigured.Error(), nil)
		return remote.ErrNotConfigured
	}

	o.setStatus(StatusSyncing, "", nil)

	remoteSnap, err := rs.Pull(ctx)
	if err != nil {
		o.setStatus(StatusError, err.Error(), nil)
		return err
	}

	// The merge reads and installs under the operation lock so a mutation
	// landing mid-cycle is either part of the merged snapshot or ordered
	// after it, never overwritten.
	o.opMu.Lock()
	now := o.now()
	local := o.Snapshot()
	merged, report := Merge(local, remoteSnap, now)
	merged.Meta.LastSyncAt = now

	// Remote data may be stale relative to today; settle it again.
	today := dates.Today(now)
	merged.Checkins, merged.Meta = engine.Generate(merged.Tasks, merged.Checkins, merged.Meta, today, now)
	merged.Checkins = engine.Sweep(merged.Checkins, today, now)

	o.mu.Lock()
	o.snap = merged
	o.mu.Unlock()
	if err := o.persist(ctx, merged); err != nil {
		o.opMu.Unlock()
		o.setStatus(StatusError, err.Error(), nil)
		return err
	}
	o.opMu.Unlock()

	o.setStatus(StatusSuccess, "", &report)

	if err := rs.Push(ctx, merged, o.now()); err != nil {
		o.setStatus(StatusError, err.Error(), nil)
		return err
	}

	return nil
}

// pushLocal pushes the current snapshot without pulling first. It backs
// the debounced push after local mutations.
func (o *Orchestrator) pushLocal(ctx context.Context) error {
	o.syncMu.Lock()
	defer o.syncMu.Unlock()

	rs := o.remoteStore()
	if rs == nil {
		return remote.ErrNotConfigured
	}

	o.setStatus(StatusSyncing, "", nil)

	if err := rs.Push(ctx, o.Snapshot(), o.now()); err != nil {
		o.setStatus(StatusError, err.Error(), nil)
		return err
	}

	o.setStatus(StatusSuccess, "", nil)
	return nil
}

// scheduleDebouncedPush restarts the quiet-period timer. When the timer
// elapses with no further mutation the current snapshot is pushed.
func (o *Orchestrator) scheduleDebouncedPush() {
	if o.remoteStore() == nil {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.timer != nil {
		o.timer.Stop()
	}
	o.timer = time.AfterFunc(o.debounce, func() {
		_ = o.pushLocal(context.Background())
	})
}

// Stop cancels any pending debounced push.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
}

// persist writes the snapshot's collections to the local store. Each
// collection is written independently; the store offers no cross-key
// transaction and the engine tolerates one collection being momentarily
// stale relative to another.
func (o *Orchestrator) persist(ctx context.Context, snap model.Snapshot) error {
	if err := o.store.SaveTasks(ctx, snap.Tasks); err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	if err := o.store.SaveCheckins(ctx, snap.Checkins); err != nil {
		return fmt.Errorf("saving checkins: %w", err)
	}
	if err := o.store.SaveMeta(ctx, snap.Meta); err != nil {
		return fmt.Errorf("saving meta: %w", err)
	}
	return nil
}

// applyLocal installs a mutated snapshot, persists it, and restarts the
// push debounce.
func (o *Orchestrator) applyLocal(ctx context.Context, snap model.Snapshot) error {
	o.mu.Lock()
	o.snap = snap
	o.mu.Unlock()

	if err := o.persist(ctx, snap); err != nil {
		return err
	}

	o.scheduleDebouncedPush()
	return nil
}

// validateWindow rejects an end date before the start date. Empty end
// means no end.
func validateWindow(startDate, endDate string) error {
	if endDate != "" && endDate < startDate {
		return fmt.Errorf("end date %s is before start date %s", endDate, startDate)
	}
	return nil
}

// AddTask creates a task from user input and immediately schedules any
// checkins it is already due for.
func (o *Orchestrator) AddTask(ctx context.Context, input TaskInput) (model.Task, error) {
	if err := validateWindow(input.StartDate, input.EndDate); err != nil {
		return model.Task{}, err
	}

	o.opMu.Lock()
	defer o.opMu.Unlock()

	now := o.now()
	task := model.Task{
		ID:        uuid.New().String(),
		Title:     input.Title,
		Type:      input.Type,
		Status:    model.TaskStatusActive,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Timezone:  input.Timezone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.Type == model.TaskTypeRecurring {
		task.Recurrence = &model.Recurrence{
			Rule:     model.RecurrenceRuleEveryNDays,
			Interval: input.Interval,
		}
	}

	snap := o.Snapshot()
	snap.Tasks = append(snap.Tasks, task)
	today := dates.Today(now)
	snap.Checkins, snap.Meta = engine.Generate(snap.Tasks, snap.Checkins, snap.Meta, today, now)

	return task, o.applyLocal(ctx, snap)
}

// UpdateTask replaces a task's user-editable fields and re-runs the
// scheduler so an edited recurrence takes effect from the task's own start
// date forward (never before the global watermark).
func (o *Orchestrator) UpdateTask(ctx context.Context, task model.Task) error {
	if err := validateWindow(task.StartDate, task.EndDate); err != nil {
		return err
	}

	o.opMu.Lock()
	defer o.opMu.Unlock()

	now := o.now()
	snap := o.Snapshot()
	for i := range snap.Tasks {
		if snap.Tasks[i].ID == task.ID {
			task.UpdatedAt = now
			snap.Tasks[i] = task
			break
		}
	}

	today := dates.Today(now)
	snap.Checkins, snap.Meta = engine.Generate(snap.Tasks, snap.Checkins, snap.Meta, today, now)
	snap.Checkins = engine.Sweep(snap.Checkins, today, now)

	return o.applyLocal(ctx, snap)
}

// ArchiveTask retires a task from scheduling. Tasks are never deleted.
func (o *Orchestrator) ArchiveTask(ctx context.Context, taskID string) error {
	o.opMu.Lock()
	defer o.opMu.Unlock()

	now := o.now()
	snap := o.Snapshot()
	for i := range snap.Tasks {
		if snap.Tasks[i].ID == taskID {
			snap.Tasks[i].Status = model.TaskStatusArchived
			snap.Tasks[i].UpdatedAt = now
			break
		}
	}
	return o.applyLocal(ctx, snap)
}

// ToggleTaskStatus flips a task between active and paused.
func (o *Orchestrator) ToggleTaskStatus(ctx context.Context, taskID string) error {
	o.opMu.Lock()
	defer o.opMu.Unlock()

	now := o.now()
	snap := o.Snapshot()
	for i := range snap.Tasks {
		if snap.Tasks[i].ID != taskID {
			continue
		}
		switch snap.Tasks[i].Status {
		case model.TaskStatusActive:
			snap.Tasks[i].Status = model.TaskStatusPaused
		case model.TaskStatusPaused:
			snap.Tasks[i].Status = model.TaskStatusActive
		default:
			return nil
		}
		snap.Tasks[i].UpdatedAt = now
		break
	}

	today := dates.Today(now)
	snap.Checkins, snap.Meta = engine.Generate(snap.Tasks, snap.Checkins, snap.Meta, today, now)

	return o.applyLocal(ctx, snap)
}

// SetCheckinState transitions a checkin. Postponement routes through the
// chainer so the next-day follow-up is created at most once; every other
// state is a pure transition with no side-effect creation.
func (o *Orchestrator) SetCheckinState(ctx context.Context, checkinID, state string) error {
	o.opMu.Lock()
	defer o.opMu.Unlock()

	now := o.now()
	snap := o.Snapshot()
	if state == model.CheckinStatePostponed {
		snap.Checkins = engine.Postpone(snap.Checkins, checkinID, now)
	} else {
		snap.Checkins = engine.SetState(snap.Checkins, checkinID, state, now)
	}
	return o.applyLocal(ctx, snap)
}

// SetCheckinNote attaches free text to a checkin.
func (o *Orchestrator) SetCheckinNote(ctx context.Context, checkinID, note string) error {
	o.opMu.Lock()
	defer o.opMu.Unlock()

	snap := o.Snapshot()
	snap.Checkins = engine.SetNote(snap.Checkins, checkinID, note, o.now())
	return o.applyLocal(ctx, snap)
}

// RegenerateToday re-runs the scheduler and sweeper on demand.
func (o *Orchestrator) RegenerateToday(ctx context.Context) error {
	o.opMu.Lock()
	defer o.opMu.Unlock()

	now := o.now()
	today := dates.Today(now)
	snap := o.Snapshot()
	snap.Checkins, snap.Meta = engine.Generate(snap.Tasks, snap.Checkins, snap.Meta, today, now)
	snap.Checkins = engine.Sweep(snap.Checkins, today, now)
	return o.applyLocal(ctx, snap)
}

// UpdateSettings replaces the sync settings and persists them. Settings
// are local-only configuration and are not pushed.
func (o *Orchestrator) UpdateSettings(ctx context.Context, settings model.Settings) error {
	o.mu.Lock()
	o.settings = settings
	o.mu.Unlock()

	if err := o.store.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}
