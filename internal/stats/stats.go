// Package stats derives completion statistics from the checkin history.
// All functions are read-only views over the snapshot collections.
package stats

import (
	"sort"

	"github.com/nhle/checkin/internal/dates"
	"github.com/nhle/checkin/internal/model"
)

// Monthly aggregates one calendar month of checkins.
type Monthly struct {
	Month          string
	Planned        int
	Done           int
	Postponed      int
	Canceled       int
	Missed         int
	CompletionRate float64
}

// ForMonth computes the monthly aggregate for a YYYY-MM month. Planned and
// Done count scheduled checkins only, so postponement chains don't inflate
// the plan. Overdue pending checkins the sweeper has not visited yet are
// already counted as missed.
func ForMonth(checkins []model.Checkin, month, today string) Monthly {
	m := Monthly{Month: month}
	for _, c := range checkins {
		if dates.Month(c.Date) != month {
			continue
		}
		if c.Source == model.CheckinSourceScheduled {
			m.Planned++
			if c.State == model.CheckinStateDone {
				m.Done++
			}
		}
		switch {
		case c.State == model.CheckinStatePostponed:
			m.Postponed++
		case c.State == model.CheckinStateCanceled:
			m.Canceled++
		case c.State == model.CheckinStateMissed:
			m.Missed++
		case c.State == model.CheckinStatePending && c.Date < today:
			m.Missed++
		}
	}
	if m.Planned > 0 {
		m.CompletionRate = float64(m.Done) / float64(m.Planned)
	}
	return m
}

// TaskMonthly is one task's share of a month.
type TaskMonthly struct {
	TaskID         string
	Title          string
	Planned        int
	Done           int
	CompletionRate float64
}

// ByTaskForMonth breaks a month down per task, sorted by completion rate
// ascending so the most-neglected tasks list first. Checkins whose task is
// missing are reported under an empty title rather than dropped.
func ByTaskForMonth(tasks []model.Task, checkins []model.Checkin, month string) []TaskMonthly {
	titles := make(map[string]string, len(tasks))
	for _, t := range tasks {
		titles[t.ID] = t.Title
	}

	byTask := make(map[string]*TaskMonthly)
	var order []string
	for _, c := range checkins {
		if dates.Month(c.Date) != month || c.Source != model.CheckinSourceScheduled {
			continue
		}
		entry, ok := byTask[c.TaskID]
		if !ok {
			entry = &TaskMonthly{TaskID: c.TaskID, Title: titles[c.TaskID]}
			byTask[c.TaskID] = entry
			order = append(order, c.TaskID)
		}
		entry.Planned++
		if c.State == model.CheckinStateDone {
			entry.Done++
		}
	}

	out := make([]TaskMonthly, 0, len(order))
	for _, id := range order {
		entry := byTask[id]
		if entry.Planned > 0 {
			entry.CompletionRate = float64(entry.Done) / float64(entry.Planned)
		}
		out = append(out, *entry)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletionRate < out[j].CompletionRate
	})
	return out
}

// Daily tallies one day's checkins.
type Daily struct {
	Date      string
	Planned   int
	Done      int
	Postponed int
	Canceled  int
}

// TrailingWeek returns per-day tallies for the seven days ending today,
// oldest first.
func TrailingWeek(checkins []model.Checkin, today string) []Daily {
	out := make([]Daily, 0, 7)
	for i := 6; i >= 0; i-- {
		day := Daily{Date: dates.AddDays(today, -i)}
		for _, c := range checkins {
			if c.Date != day.Date {
				continue
			}
			if c.Source == model.CheckinSourceScheduled {
				day.Planned++
				if c.State == model.CheckinStateDone {
					day.Done++
				}
			}
			switch c.State {
			case model.CheckinStatePostponed:
				day.Postponed++
			case model.CheckinStateCanceled:
				day.Canceled++
			}
		}
		out = append(out, day)
	}
	return out
}
