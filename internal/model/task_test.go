package model

import "testing"

func recurringTask(start, end string, interval int) Task {
	return Task{
		ID:        "t1",
		Title:     "stretch",
		Type:      TaskTypeRecurring,
		Status:    TaskStatusActive,
		StartDate: start,
		EndDate:   end,
		Recurrence: &Recurrence{
			Rule:     RecurrenceRuleEveryNDays,
			Interval: interval,
		},
	}
}

func TestIsDueOnInterval(t *testing.T) {
	task := recurringTask("2024-01-01", "", 3)

	cases := map[string]bool{
		"2024-01-01": true,
		"2024-01-02": false,
		"2024-01-03": false,
		"2024-01-04": true,
		"2024-01-07": true,
		"2023-12-31": false,
	}
	for date, want := range cases {
		if got := task.IsDueOn(date); got != want {
			t.Errorf("IsDueOn(%s) = %v, want %v", date, got, want)
		}
	}
}

func TestIsDueOnWindow(t *testing.T) {
	task := recurringTask("2024-01-01", "2024-01-05", 1)

	if !task.IsDueOn("2024-01-05") {
		t.Error("end date itself should be due")
	}
	if task.IsDueOn("2024-01-06") {
		t.Error("past end date should not be due")
	}
}

func TestIsDueOnInactiveStates(t *testing.T) {
	paused := recurringTask("2024-01-01", "", 1)
	paused.Status = TaskStatusPaused
	if paused.IsDueOn("2024-01-02") {
		t.Error("paused task should never be due")
	}

	archived := recurringTask("2024-01-01", "", 1)
	archived.Status = TaskStatusArchived
	if archived.IsDueOn("2024-01-02") {
		t.Error("archived task should never be due")
	}
}

func TestIsDueOnNormalTask(t *testing.T) {
	task := Task{
		ID:        "t2",
		Title:     "one-off",
		Type:      TaskTypeNormal,
		Status:    TaskStatusActive,
		StartDate: "2024-01-01",
	}
	if task.IsDueOn("2024-01-01") {
		t.Error("one-off tasks are never scheduled")
	}
}

func TestIsDueOnBadInterval(t *testing.T) {
	task := recurringTask("2024-01-01", "", 0)
	if task.IsDueOn("2024-01-01") {
		t.Error("non-positive interval should never be due")
	}
}
