package model

import (
	"testing"
)

func TestComplete_Idempotent(t *testing.T) {
	now := date(2025, 3, 10, 12, 0)
	task := NewTask("t1", "u1", "write report", now)

	task.Complete(now)
	if !task.IsCompleted || task.Status != StatusCompleted || task.ProgressPercent != 100 {
		t.Fatalf("unexpected state after complete: %+v", task)
	}
	if task.CompletedAt == nil || !task.CompletedAt.Equal(now) {
		t.Fatalf("completed_at not set")
	}

	task.Complete(now)
	if !task.IsCompleted || task.Status != StatusCompleted || task.ProgressPercent != 100 {
		t.Fatalf("second complete changed terminal values: %+v", task)
	}
}

func TestComplete_NoGuardOnCancelled(t *testing.T) {
	now := date(2025, 3, 10, 12, 0)
	task := NewTask("t1", "u1", "write report", now)
	task.Status = StatusCancelled

	task.Complete(now)
	if task.Status != StatusCompleted {
		t.Fatalf("expected completion to win, got %s", task.Status)
	}
}

func TestSnooze(t *testing.T) {
	now := date(2025, 3, 10, 12, 0)
	until := date(2025, 3, 11, 9, 0)
	task := NewTask("t1", "u1", "write report", now)

	task.Snooze(until, now)
	if task.Status != StatusSnoozed {
		t.Fatalf("got status %s", task.Status)
	}
	if task.DueDateTime == nil || !task.DueDateTime.Equal(until) {
		t.Fatalf("due time not moved")
	}
}

func TestNextInstance_CopiesFieldsAndLeavesOriginal(t *testing.T) {
	now := date(2025, 3, 10, 12, 0)
	due := date(2025, 3, 10, 18, 0)
	goalID := "g1"
	max := 3

	task := NewTask("t1", "u1", "daily run", now)
	task.GoalID = &goalID
	task.Description = "5k"
	task.DueDateTime = &due
	task.DurationMinutes = 30
	task.Priority = PriorityHigh
	task.Type = TypeGoal
	task.Recurrence = &RecurrenceRule{Type: RecurDaily, Interval: 1, MaxOccurrences: &max}

	next := task.NextInstance(now)
	if next == nil {
		t.Fatalf("expected an instance")
	}
	if next.ID != "" {
		t.Fatalf("id should be assigned by the service, got %q", next.ID)
	}
	if next.Title != task.Title || next.Description != task.Description ||
		next.DurationMinutes != task.DurationMinutes || next.Priority != task.Priority ||
		next.Type != task.Type || next.UserID != task.UserID {
		t.Fatalf("fields not carried over: %+v", next)
	}
	if next.GoalID == nil || *next.GoalID != goalID {
		t.Fatalf("goal reference not carried over")
	}
	if next.DueDateTime == nil || !next.DueDateTime.Equal(due.AddDate(0, 0, 1)) {
		t.Fatalf("due not advanced: %v", next.DueDateTime)
	}
	if next.Recurrence.MaxOccurrences == nil || *next.Recurrence.MaxOccurrences != 2 {
		t.Fatalf("occurrence budget not decremented")
	}

	// Expansion is a pure read: the original must be untouched.
	if !task.DueDateTime.Equal(due) || *task.Recurrence.MaxOccurrences != 3 {
		t.Fatalf("original mutated by expansion")
	}
}

func TestNextInstance_NilWhenNotRecurringOrSpent(t *testing.T) {
	now := date(2025, 3, 10, 12, 0)
	task := NewTask("t1", "u1", "one-off", now)
	if task.NextInstance(now) != nil {
		t.Fatalf("non-recurring task expanded")
	}

	spent := 0
	task.Recurrence = &RecurrenceRule{Type: RecurDaily, MaxOccurrences: &spent}
	if task.NextInstance(now) != nil {
		t.Fatalf("spent rule expanded")
	}

	end := date(2025, 3, 1, 0, 0)
	due := date(2025, 3, 10, 12, 0)
	task.DueDateTime = &due
	task.Recurrence = &RecurrenceRule{Type: RecurDaily, EndDate: &end}
	if task.NextInstance(now) != nil {
		t.Fatalf("rule past end date expanded")
	}
}

func TestStatusTerminal(t *testing.T) {
	if !StatusCompleted.Terminal() || !StatusCancelled.Terminal() {
		t.Fatalf("completed/cancelled must be terminal")
	}
	for _, s := range []TaskStatus{StatusPending, StatusToday, StatusOverdue, StatusUpcoming, StatusSnoozed, StatusInProgress} {
		if s.Terminal() {
			t.Fatalf("%s must not be terminal", s)
		}
	}
}
