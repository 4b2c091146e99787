package engine

import (
	"time"

	"github.com/nhle/checkin/internal/dates"
	"github.com/nhle/checkin/internal/model"
)

// Generate materializes scheduled checkins for every due (task, date) pair
// between the generation watermark (exclusive) and today (inclusive), then
// advances the watermark to today.
//
// On first run, when the watermark is unset, only today is generated; the
// system never back-fills before it existed. The (taskId, date, scheduled)
// dedup key makes the operation idempotent even when called with a stale
// watermark, and a watermark already at or past today is a no-op so a
// remote watermark ahead of the local clock is never regressed.
func Generate(tasks []model.Task, checkins []model.Checkin, meta model.Meta, today string, now time.Time) ([]model.Checkin, model.Meta) {
	start := today
	// A malformed watermark (a hand-edited meta document can carry one)
	// counts as unset; resuming from it would walk from the zero date.
	if dates.Valid(meta.LastGeneratedDate) {
		start = dates.AddDays(meta.LastGeneratedDate, 1)
	}
	if start > today {
		return checkins, meta
	}

	existing := make(map[string]bool, len(checkins))
	for _, c := range checkins {
		existing[c.DedupKey()] = true
	}

	out := append([]model.Checkin(nil), checkins...)
	for cursor := start; cursor <= today; cursor = dates.AddDays(cursor, 1) {
		for _, task := range tasks {
			if !task.IsDueOn(cursor) {
				continue
			}
			c := newCheckin(task.ID, cursor, model.CheckinSourceScheduled, "", now)
			if existing[c.DedupKey()] {
				continue
			}
			existing[c.DedupKey()] = true
			out = append(out, c)
		}
	}

	meta.LastGeneratedDate = today
	return out, meta
}
