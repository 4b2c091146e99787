package engine

import (
	"testing"
	"time"

	"github.com/nhle/checkin/internal/model"
)

func pendingCheckin(id, date string) model.Checkin {
	created := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	return model.Checkin{
		ID:        id,
		TaskID:    "t1",
		Date:      date,
		State:     model.CheckinStatePending,
		Source:    model.CheckinSourceScheduled,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestSweepMissesOverduePending(t *testing.T) {
	checkins := []model.Checkin{
		pendingCheckin("c1", "2024-01-08"),
		pendingCheckin("c2", "2024-01-09"),
	}

	swept := Sweep(checkins, "2024-01-10", testNow)

	for _, c := range swept {
		if c.State != model.CheckinStateMissed {
			t.Errorf("checkin %s state = %q, want missed", c.ID, c.State)
		}
		if !c.UpdatedAt.Equal(testNow) {
			t.Errorf("checkin %s updatedAt not refreshed", c.ID)
		}
	}
}

func TestSweepLeavesTodayAndFuture(t *testing.T) {
	checkins := []model.Checkin{
		pendingCheckin("today", "2024-01-10"),
		pendingCheckin("future", "2024-01-11"),
	}

	swept := Sweep(checkins, "2024-01-10", testNow)

	for _, c := range swept {
		if c.State != model.CheckinStatePending {
			t.Errorf("checkin %s state = %q, want pending", c.ID, c.State)
		}
	}
}

func TestSweepLeavesResolvedStates(t *testing.T) {
	done := pendingCheckin("done", "2024-01-01")
	done.State = model.CheckinStateDone
	canceled := pendingCheckin("canceled", "2024-01-01")
	canceled.State = model.CheckinStateCanceled
	postponed := pendingCheckin("postponed", "2024-01-01")
	postponed.State = model.CheckinStatePostponed

	checkins := []model.Checkin{done, canceled, postponed}
	swept := Sweep(checkins, "2024-01-10", testNow)

	for i, c := range swept {
		if c.State != checkins[i].State {
			t.Errorf("checkin %s state changed to %q", c.ID, c.State)
		}
		if !c.UpdatedAt.Equal(checkins[i].UpdatedAt) {
			t.Errorf("checkin %s updatedAt changed without a transition", c.ID)
		}
	}
}

func TestSweepIdempotent(t *testing.T) {
	checkins := []model.Checkin{pendingCheckin("c1", "2024-01-05")}

	once := Sweep(checkins, "2024-01-10", testNow)
	later := testNow.Add(time.Hour)
	twice := Sweep(once, "2024-01-10", later)

	if twice[0].State != model.CheckinStateMissed {
		t.Errorf("state = %q, want missed", twice[0].State)
	}
	if !twice[0].UpdatedAt.Equal(testNow) {
		t.Error("second sweep touched an already-missed checkin")
	}
}
