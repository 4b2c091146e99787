package engine

import (
	"testing"

	"github.com/nhle/checkin/internal/model"
)

func findFollowUp(checkins []model.Checkin, taskID, date string) *model.Checkin {
	for i, c := range checkins {
		if c.TaskID == taskID && c.Date == date && c.Source == model.CheckinSourcePostponed {
			return &checkins[i]
		}
	}
	return nil
}

func TestPostponeCreatesNextDayFollowUp(t *testing.T) {
	checkins := []model.Checkin{pendingCheckin("c1", "2024-01-10")}

	out := Postpone(checkins, "c1", testNow)

	if out[0].State != model.CheckinStatePostponed {
		t.Errorf("target state = %q, want postponed", out[0].State)
	}

	follow := findFollowUp(out, "t1", "2024-01-11")
	if follow == nil {
		t.Fatal("no follow-up checkin created for the next day")
	}
	if follow.State != model.CheckinStatePending {
		t.Errorf("follow-up state = %q, want pending", follow.State)
	}
	if follow.OriginDate != "2024-01-10" {
		t.Errorf("follow-up originDate = %q, want 2024-01-10", follow.OriginDate)
	}
}

func TestPostponeTwiceCreatesOneFollowUp(t *testing.T) {
	checkins := []model.Checkin{pendingCheckin("c1", "2024-01-10")}

	out := Postpone(checkins, "c1", testNow)
	out = Postpone(out, "c1", testNow)

	if len(out) != 2 {
		t.Errorf("got %d checkins after double postpone, want 2", len(out))
	}
}

func TestPostponeChainLinksToImmediatePredecessor(t *testing.T) {
	checkins := []model.Checkin{pendingCheckin("c1", "2024-01-10")}

	out := Postpone(checkins, "c1", testNow)
	first := findFollowUp(out, "t1", "2024-01-11")
	if first == nil {
		t.Fatal("first follow-up missing")
	}

	out = Postpone(out, first.ID, testNow)
	second := findFollowUp(out, "t1", "2024-01-12")
	if second == nil {
		t.Fatal("second follow-up missing")
	}
	if second.OriginDate != "2024-01-11" {
		t.Errorf("chain originDate = %q, want the immediately preceding date 2024-01-11",
			second.OriginDate)
	}
}

func TestPostponeUnknownIDIsNoOp(t *testing.T) {
	checkins := []model.Checkin{pendingCheckin("c1", "2024-01-10")}

	out := Postpone(checkins, "nope", testNow)

	if len(out) != 1 || out[0].State != model.CheckinStatePending {
		t.Error("postponing an unknown id changed the collection")
	}
}

func TestSetStateIsPure(t *testing.T) {
	checkins := []model.Checkin{pendingCheckin("c1", "2024-01-10")}

	out := SetState(checkins, "c1", model.CheckinStateDone, testNow)

	if len(out) != 1 {
		t.Errorf("completing created %d extra checkins", len(out)-1)
	}
	if out[0].State != model.CheckinStateDone {
		t.Errorf("state = %q, want done", out[0].State)
	}
	if checkins[0].State != model.CheckinStatePending {
		t.Error("input slice was mutated")
	}
}

func TestSetNote(t *testing.T) {
	checkins := []model.Checkin{pendingCheckin("c1", "2024-01-10")}

	out := SetNote(checkins, "c1", "ran 5k", testNow)

	if out[0].Note != "ran 5k" {
		t.Errorf("note = %q, want %q", out[0].Note, "ran 5k")
	}
	if !out[0].UpdatedAt.Equal(testNow) {
		t.Error("updatedAt not refreshed")
	}
}
