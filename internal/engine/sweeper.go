package engine

import (
	"time"

	"github.com/nhle/checkin/internal/model"
)

// Sweep transitions every pending checkin dated strictly before today into
// the terminal missed state, refreshing its updatedAt. Checkins dated today
// or later, and checkins in any non-pending state, are never touched, which
// makes repeated sweeps of the same day no-ops.
func Sweep(checkins []model.Checkin, today string, now time.Time) []model.Checkin {
	changed := false
	out := append([]model.Checkin(nil), checkins...)
	for i := range out {
		if out[i].State == model.CheckinStatePending && out[i].Date < today {
			out[i].State = model.CheckinStateMissed
			out[i].UpdatedAt = now
			changed = true
		}
	}
	if !changed {
		return checkins
	}
	return out
}
