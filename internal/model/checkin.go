package model

import "time"

// Checkin state constants. Pending checkins are the only ones the sweeper
// or user actions may still move; the other states are terminal except that
// a postponed checkin's follow-up can itself be postponed again.
const (
	CheckinStatePending   = "pending"
	CheckinStateDone      = "done"
	CheckinStatePostponed = "postponed"
	CheckinStateCanceled  = "canceled"
	CheckinStateMissed    = "missed"
)

// CheckinSource records how a checkin came to exist.
const (
	CheckinSourceScheduled = "scheduled"
	CheckinSourcePostponed = "postponed"
)

// Checkin is one day's concrete obligation for one task. At most one
// checkin exists per (TaskID, Date, Source) triple; that triple is the
// deduplication key for both the scheduler and the postponement chain.
type Checkin struct {
	ID     string `json:"id"`
	TaskID string `json:"taskId"`

	// Date is the YYYY-MM-DD day this obligation belongs to.
	Date string `json:"date"`

	State  string `json:"state"`
	Source string `json:"source"`

	// OriginDate is set only on postponed-source checkins and names the
	// date of the checkin whose postponement produced this one (the
	// immediately preceding link of the chain, not the first).
	OriginDate string `json:"originDate,omitempty"`

	// Note is optional free text attached by the user.
	Note string `json:"note,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DedupKey returns the (taskID, date, source) key under which at most one
// checkin may exist.
func (c Checkin) DedupKey() string {
	return c.TaskID + "|" + c.Date + "|" + c.Source
}
