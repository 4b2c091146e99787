package model

import (
	"time"

	"github.com/nhle/checkin/internal/dates"
)

// TaskType distinguishes one-off tasks from recurring ones.
type TaskType string

const (
	TaskTypeNormal    TaskType = "normal"
	TaskTypeRecurring TaskType = "recurring"
)

// Task status constants.
const (
	TaskStatusActive   = "active"
	TaskStatusPaused   = "paused"
	TaskStatusArchived = "archived"
)

// RecurrenceRuleEveryNDays is the only recurrence rule currently supported:
// the task is due every Interval calendar days counted from its start date.
const RecurrenceRuleEveryNDays = "every_n_days"

// Recurrence describes how often a recurring task is due.
type Recurrence struct {
	Rule     string `json:"rule"`
	Interval int    `json:"interval"`
}

// Task is a user-defined obligation. Tasks are never deleted; archiving
// removes them from scheduling while keeping their history intact.
type Task struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Type   TaskType `json:"type"`
	Status string   `json:"status"`

	// StartDate is a YYYY-MM-DD date key. EndDate is the same format, or
	// empty when the task has no end.
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate,omitempty"`

	// Timezone records the IANA zone of the device that created the task.
	// It is descriptive metadata only; scheduling uses plain date keys.
	Timezone string `json:"timezone,omitempty"`

	// Recurrence is nil for normal (one-off) tasks, which are never
	// scheduled.
	Recurrence *Recurrence `json:"recurrence"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsDueOn reports whether the task is due on the given date key. Only
// active recurring tasks within their [StartDate, EndDate] window are due,
// on every Interval-th day counted from StartDate.
func (t Task) IsDueOn(date string) bool {
	if t.Type != TaskTypeRecurring || t.Recurrence == nil {
		return false
	}
	if t.Status != TaskStatusActive {
		return false
	}
	if date < t.StartDate {
		return false
	}
	if t.EndDate != "" && date > t.EndDate {
		return false
	}
	if t.Recurrence.Interval < 1 {
		return false
	}
	diff := dates.DaysBetween(t.StartDate, date)
	return diff >= 0 && diff%t.Recurrence.Interval == 0
}
