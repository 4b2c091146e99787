package sync

import (
	"testing"
	"time"

	"github.com/nhle/checkin/internal/model"
)

var (
	t1 = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	t2 = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
)

func task(id, title string, updatedAt time.Time) model.Task {
	return model.Task{
		ID:        id,
		Title:     title,
		Type:      model.TaskTypeNormal,
		Status:    model.TaskStatusActive,
		StartDate: "2024-01-01",
		CreatedAt: t1,
		UpdatedAt: updatedAt,
	}
}

func findTask(tasks []model.Task, id string) *model.Task {
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i]
		}
	}
	return nil
}

func TestMergeRemoteNewerWins(t *testing.T) {
	local := model.Snapshot{Tasks: []model.Task{task("a", "old", t1)}}
	remoteSnap := model.Snapshot{Tasks: []model.Task{task("a", "new", t2)}}

	merged, report := Merge(local, remoteSnap, t2)

	if got := findTask(merged.Tasks, "a"); got == nil || got.Title != "new" {
		t.Errorf("merged record = %+v, want the remote copy", got)
	}
	if report.Tasks.PulledUpdated != 1 {
		t.Errorf("pulledUpdated = %d, want 1", report.Tasks.PulledUpdated)
	}
}

func TestMergeLocalNewerWins(t *testing.T) {
	local := model.Snapshot{Tasks: []model.Task{task("a", "new", t2)}}
	remoteSnap := model.Snapshot{Tasks: []model.Task{task("a", "old", t1)}}

	merged, report := Merge(local, remoteSnap, t2)

	if got := findTask(merged.Tasks, "a"); got == nil || got.Title != "new" {
		t.Errorf("merged record = %+v, want the local copy", got)
	}
	if report.Tasks.PushedUpdated != 1 {
		t.Errorf("pushedUpdated = %d, want 1", report.Tasks.PushedUpdated)
	}
}

func TestMergeTieKeepsLocalUncounted(t *testing.T) {
	local := model.Snapshot{Tasks: []model.Task{task("a", "local", t1)}}
	remoteSnap := model.Snapshot{Tasks: []model.Task{task("a", "remote", t1)}}

	merged, report := Merge(local, remoteSnap, t2)

	if got := findTask(merged.Tasks, "a"); got == nil || got.Title != "local" {
		t.Errorf("merged record = %+v, want the local copy on a tie", got)
	}
	if report.Tasks.Changed() {
		t.Errorf("tie counted as a change: %+v", report.Tasks)
	}
}

func TestMergeAdds(t *testing.T) {
	local := model.Snapshot{Tasks: []model.Task{task("onlyLocal", "l", t1)}}
	remoteSnap := model.Snapshot{Tasks: []model.Task{task("onlyRemote", "r", t1)}}

	merged, report := Merge(local, remoteSnap, t2)

	if len(merged.Tasks) != 2 {
		t.Fatalf("merged has %d tasks, want 2", len(merged.Tasks))
	}
	if report.Tasks.PulledAdded != 1 {
		t.Errorf("pulledAdded = %d, want 1", report.Tasks.PulledAdded)
	}
	if report.Tasks.PushedAdded != 1 {
		t.Errorf("pushedAdded = %d, want 1", report.Tasks.PushedAdded)
	}
}

func TestMergeCompleteness(t *testing.T) {
	local := model.Snapshot{Tasks: []model.Task{
		task("a", "a", t1), task("b", "b", t2),
	}}
	remoteSnap := model.Snapshot{Tasks: []model.Task{
		task("b", "b2", t1), task("c", "c", t1),
	}}

	merged, _ := Merge(local, remoteSnap, t2)

	seen := make(map[string]int)
	for _, rec := range merged.Tasks {
		seen[rec.ID]++
	}
	for _, id := range []string{"a", "b", "c"} {
		if seen[id] != 1 {
			t.Errorf("id %q appears %d times in merged result, want 1", id, seen[id])
		}
	}
}

func TestMergeMeta(t *testing.T) {
	local := model.Snapshot{Meta: model.Meta{
		SchemaVersion:     1,
		ClientID:          "local-client",
		DataVersion:       3,
		LastGeneratedDate: "2024-01-05",
		LastSyncAt:        t1,
	}}
	remoteSnap := model.Snapshot{Meta: model.Meta{
		SchemaVersion:     2,
		ClientID:          "remote-client",
		DataVersion:       1,
		LastGeneratedDate: "2024-01-08",
		LastSyncAt:        t2,
	}}

	merged, _ := Merge(local, remoteSnap, t2)

	meta := merged.Meta
	if meta.SchemaVersion != 2 {
		t.Errorf("schemaVersion = %d, want max 2", meta.SchemaVersion)
	}
	if meta.DataVersion != 3 {
		t.Errorf("dataVersion = %d, want max 3", meta.DataVersion)
	}
	if meta.LastGeneratedDate != "2024-01-08" {
		t.Errorf("lastGeneratedDate = %q, want the later 2024-01-08", meta.LastGeneratedDate)
	}
	if meta.ClientID != "local-client" {
		t.Errorf("clientId = %q, want the local one", meta.ClientID)
	}
	if !meta.LastSyncAt.Equal(t1) {
		t.Errorf("lastSyncAt = %v, want the local one", meta.LastSyncAt)
	}
}

func TestMergeMetaWatermarkOnlyOneSet(t *testing.T) {
	local := model.Snapshot{Meta: model.Meta{SchemaVersion: 1}}
	remoteSnap := model.Snapshot{Meta: model.Meta{SchemaVersion: 1, LastGeneratedDate: "2024-01-03"}}

	merged, _ := Merge(local, remoteSnap, t2)
	if merged.Meta.LastGeneratedDate != "2024-01-03" {
		t.Errorf("lastGeneratedDate = %q, want the only non-empty value", merged.Meta.LastGeneratedDate)
	}

	merged, _ = Merge(remoteSnap, local, t2)
	if merged.Meta.LastGeneratedDate != "2024-01-03" {
		t.Errorf("reversed: lastGeneratedDate = %q, want the only non-empty value", merged.Meta.LastGeneratedDate)
	}
}

func TestMergeReportSyncedAt(t *testing.T) {
	_, report := Merge(model.Snapshot{}, model.Snapshot{}, t2)
	if !report.SyncedAt.Equal(t2) {
		t.Errorf("report.SyncedAt = %v, want %v", report.SyncedAt, t2)
	}
}
