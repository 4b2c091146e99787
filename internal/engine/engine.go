// Package engine implements the local-first scheduling core: materializing
// scheduled checkins from recurring tasks, aging overdue checkins into the
// missed state, and chaining postponements into next-day follow-ups.
//
// Every function is a pure transform over its inputs. The current day and
// clock reading are parameters, never read from the wall clock here, so the
// same inputs always produce the same outputs.
package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/nhle/checkin/internal/model"
)

// newCheckin builds a pending checkin for one task and day.
func newCheckin(taskID, date, source, originDate string, now time.Time) model.Checkin {
	return model.Checkin{
		ID:         uuid.New().String(),
		TaskID:     taskID,
		Date:       date,
		State:      model.CheckinStatePending,
		Source:     source,
		OriginDate: originDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// SetState returns a copy of checkins with the target checkin moved to the
// given state and its updatedAt refreshed. It performs no side-effect
// creation; postponement goes through Postpone instead. Unknown ids leave
// the input unchanged.
func SetState(checkins []model.Checkin, checkinID, state string, now time.Time) []model.Checkin {
	out := append([]model.Checkin(nil), checkins...)
	for i := range out {
		if out[i].ID == checkinID {
			out[i].State = state
			out[i].UpdatedAt = now
			break
		}
	}
	return out
}

// SetNote returns a copy of checkins with the target checkin's note
// replaced and its updatedAt refreshed.
func SetNote(checkins []model.Checkin, checkinID, note string, now time.Time) []model.Checkin {
	out := append([]model.Checkin(nil), checkins...)
	for i := range out {
		if out[i].ID == checkinID {
			out[i].Note = note
			out[i].UpdatedAt = now
			break
		}
	}
	return out
}
