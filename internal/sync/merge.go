// Package sync reconciles local and remote snapshots and drives the
// pull-merge-push cycle against the remote store.
package sync

import (
	"time"

	"github.com/nhle/checkin/internal/model"
)

// ReportItem tallies what a merge did to one collection. PulledAdded and
// PulledUpdated records came from the remote; PushedAdded and PushedUpdated
// are local records the remote is missing or holds stale copies of, which
// the following push will deliver.
type ReportItem struct {
	PulledAdded   int `json:"pulledAdded"`
	PulledUpdated int `json:"pulledUpdated"`
	PushedAdded   int `json:"pushedAdded"`
	PushedUpdated int `json:"pushedUpdated"`
}

// Report summarizes one merge. It is informational only: it never feeds
// back into the merge outcome.
type Report struct {
	Tasks    ReportItem `json:"tasks"`
	Checkins ReportItem `json:"checkins"`
	SyncedAt time.Time  `json:"syncedAt"`
}

// Changed reports whether the item recorded any difference between the two
// sides.
func (r ReportItem) Changed() bool {
	return r.PulledAdded+r.PulledUpdated+r.PushedAdded+r.PushedUpdated > 0
}

// mergeRecords merges two record slices keyed by id, newer updatedAt wins.
// Ties keep the local copy and count as no change: timestamps are wall
// clock, not a logical clock, so identical stamps from truly concurrent
// edits are an accepted edge case rather than a detected conflict. The
// result preserves local order, with remote-only records appended in
// remote order.
func mergeRecords[T any](local, remote []T, id func(T) string, updatedAt func(T) time.Time) ([]T, ReportItem) {
	var item ReportItem

	index := make(map[string]int, len(local))
	out := append([]T(nil), local...)
	for i, rec := range local {
		index[id(rec)] = i
	}

	remoteIDs := make(map[string]bool, len(remote))
	for _, rec := range remote {
		remoteIDs[id(rec)] = true
		i, ok := index[id(rec)]
		if !ok {
			index[id(rec)] = len(out)
			out = append(out, rec)
			item.PulledAdded++
			continue
		}
		switch {
		case updatedAt(rec).After(updatedAt(out[i])):
			out[i] = rec
			item.PulledUpdated++
		case updatedAt(out[i]).After(updatedAt(rec)):
			item.PushedUpdated++
		}
	}

	for _, rec := range local {
		if !remoteIDs[id(rec)] {
			item.PushedAdded++
		}
	}

	return out, item
}

// mergeMeta combines the watermark records. Versions take the max of the
// two sides and the generation watermark takes the later date; the client
// id and last sync time stay local, since the caller re-stamps the sync
// time right after merging anyway.
func mergeMeta(local, remote model.Meta) model.Meta {
	merged := local
	if remote.SchemaVersion > merged.SchemaVersion {
		merged.SchemaVersion = remote.SchemaVersion
	}
	if remote.DataVersion > merged.DataVersion {
		merged.DataVersion = remote.DataVersion
	}
	if remote.LastGeneratedDate > merged.LastGeneratedDate {
		merged.LastGeneratedDate = remote.LastGeneratedDate
	}
	return merged
}

// Merge reconciles a local and a remote snapshot with whole-record
// last-writer-wins semantics and reports exactly what changed. Every id
// present on either side appears exactly once in the merged result.
func Merge(local, remote model.Snapshot, syncedAt time.Time) (model.Snapshot, Report) {
	var (
		merged model.Snapshot
		report Report
	)

	merged.Tasks, report.Tasks = mergeRecords(local.Tasks, remote.Tasks,
		func(t model.Task) string { return t.ID },
		func(t model.Task) time.Time { return t.UpdatedAt })
	merged.Checkins, report.Checkins = mergeRecords(local.Checkins, remote.Checkins,
		func(c model.Checkin) string { return c.ID },
		func(c model.Checkin) time.Time { return c.UpdatedAt })
	merged.Meta = mergeMeta(local.Meta, remote.Meta)
	report.SyncedAt = syncedAt

	return merged, report
}
