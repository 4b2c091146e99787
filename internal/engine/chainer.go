package engine

import (
	"time"

	"github.com/nhle/checkin/internal/dates"
	"github.com/nhle/checkin/internal/model"
)

// Postpone marks the target checkin postponed and, at most once, creates a
// pending next-day follow-up linked back to the target's date.
//
// The follow-up carries source "postponed" and originDate equal to the
// postponed checkin's date, so a chain of repeated postponements always
// points each link at the immediately preceding one. Postponing the same
// checkin again finds the existing follow-up and creates nothing new.
// Unknown ids leave the input unchanged.
func Postpone(checkins []model.Checkin, checkinID string, now time.Time) []model.Checkin {
	var target *model.Checkin
	for i := range checkins {
		if checkins[i].ID == checkinID {
			target = &checkins[i]
			break
		}
	}
	if target == nil {
		return checkins
	}

	out := SetState(checkins, checkinID, model.CheckinStatePostponed, now)

	nextDate := dates.AddDays(target.Date, 1)
	for _, c := range out {
		if c.TaskID == target.TaskID &&
			c.Date == nextDate &&
			c.Source == model.CheckinSourcePostponed &&
			c.OriginDate == target.Date {
			return out
		}
	}

	return append(out, newCheckin(target.TaskID, nextDate, model.CheckinSourcePostponed, target.Date, now))
}
