package taskform

import "testing"

func TestValidateEndDate(t *testing.T) {
	m := New(80, 24)
	m.fb.startDate = "2024-01-10"

	if err := m.validateEndDate(""); err != nil {
		t.Errorf("empty end date rejected: %v", err)
	}
	if err := m.validateEndDate("2024-01-10"); err != nil {
		t.Errorf("end date equal to start date rejected: %v", err)
	}
	if err := m.validateEndDate("2024-02-01"); err != nil {
		t.Errorf("end date after start date rejected: %v", err)
	}
	if err := m.validateEndDate("2024-01-05"); err == nil {
		t.Error("end date before start date accepted")
	}
	if err := m.validateEndDate("01/05/2024"); err == nil {
		t.Error("malformed end date accepted")
	}
}

func TestValidateInterval(t *testing.T) {
	m := New(80, 24)

	m.fb.taskType = "recurring"
	if err := m.validateInterval("3"); err != nil {
		t.Errorf("positive interval rejected: %v", err)
	}
	if err := m.validateInterval("0"); err == nil {
		t.Error("zero interval accepted for a recurring task")
	}
	if err := m.validateInterval("often"); err == nil {
		t.Error("non-numeric interval accepted for a recurring task")
	}

	m.fb.taskType = "normal"
	if err := m.validateInterval(""); err != nil {
		t.Errorf("interval validated for a one-off task: %v", err)
	}
}
