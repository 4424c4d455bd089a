package model

import "time"

// RecurrenceRule is a value object owned by its task. It is copied when the
// task is copied and serialized inline with the task row.
type RecurrenceRule struct {
	Type           RecurrenceType `json:"type"`
	Interval       int            `json:"interval"`
	Weekdays       []Weekday      `json:"weekdays,omitempty"`
	EndDate        *time.Time     `json:"end_date,omitempty"`
	MaxOccurrences *int           `json:"max_occurrences,omitempty"`
}

// ShouldRepeat reports whether the rule still permits another occurrence
// after the given moment.
func (r *RecurrenceRule) ShouldRepeat(at time.Time) bool {
	if r.EndDate != nil && !at.Before(*r.EndDate) {
		return false
	}
	if r.MaxOccurrences != nil && *r.MaxOccurrences <= 0 {
		return false
	}
	return true
}

// NextOccurrence advances from the given moment by the rule's pattern and
// interval. Monthly and yearly advancement clamp the day to the target
// month's length, so a 31st repeats on the 30th or 28th when needed. Weekly
// rules with a weekday set pick the next enabled day, jumping extra weeks
// when the interval is above one and the scan wraps past the last enabled
// day. Returns false when the result would land past the end date.
func (r *RecurrenceRule) NextOccurrence(from time.Time) (time.Time, bool) {
	interval := r.Interval
	if interval < 1 {
		interval = 1
	}

	var next time.Time
	switch r.Type {
	case RecurDaily:
		next = from.AddDate(0, 0, interval)
	case RecurWeekly:
		next = r.nextWeekly(from, interval)
	case RecurMonthly:
		next = addMonthsClamped(from, interval)
	case RecurYearly:
		next = addMonthsClamped(from, 12*interval)
	default:
		return time.Time{}, false
	}

	if r.EndDate != nil && next.After(*r.EndDate) {
		return time.Time{}, false
	}
	return next, true
}

func (r *RecurrenceRule) nextWeekly(from time.Time, interval int) time.Time {
	if len(r.Weekdays) == 0 {
		return from.AddDate(0, 0, 7*interval)
	}
	enabled := make(map[Weekday]bool, len(r.Weekdays))
	for _, d := range r.Weekdays {
		enabled[d] = true
	}
	for offset := 1; offset <= 7; offset++ {
		cand := from.AddDate(0, 0, offset)
		if !enabled[weekdayOf(cand)] {
			continue
		}
		// Crossing into a new week skips ahead by the remaining interval.
		if weekdayOf(cand) <= weekdayOf(from) && interval > 1 {
			cand = cand.AddDate(0, 0, 7*(interval-1))
		}
		return cand
	}
	return from.AddDate(0, 0, 7*interval)
}

func (r *RecurrenceRule) clone() *RecurrenceRule {
	c := RecurrenceRule{Type: r.Type, Interval: r.Interval}
	if len(r.Weekdays) > 0 {
		c.Weekdays = append([]Weekday(nil), r.Weekdays...)
	}
	if r.EndDate != nil {
		end := *r.EndDate
		c.EndDate = &end
	}
	if r.MaxOccurrences != nil {
		max := *r.MaxOccurrences
		c.MaxOccurrences = &max
	}
	return &c
}

// weekdayOf maps time.Weekday (Sunday = 0) onto Weekday (Monday = 0).
func weekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysInMonth(first.Month(), first.Year()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(month time.Month, year int) int {
	// First of next month, rolled back a day.
	firstOfNext := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
	return firstOfNext.AddDate(0, 0, -1).Day()
}
