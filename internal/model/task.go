package model

import "time"

// Task is the core unit of work. GoalID is a lookup-only reference, deleting
// the goal does not delete the task.
type Task struct {
	ID              string  `gorm:"primaryKey;column:task_id"`
	UserID          string  `gorm:"index;column:user_id"`
	GoalID          *string `gorm:"index;column:goal_id"`
	Title           string
	Description     string
	DueDateTime     *time.Time `gorm:"index;column:due_date_time"`
	DurationMinutes int
	Priority        Priority
	Recurrence      *RecurrenceRule `gorm:"serializer:json"`
	IsCompleted     bool            `gorm:"default:false"`
	CompletedAt     *time.Time
	Type            TaskType   `gorm:"column:task_type"`
	Status          TaskStatus `gorm:"default:created"`
	ProgressPercent int
	CreatedAt       time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime:false"`
}

func (Task) TableName() string { return "task" }

// NewTask builds a task with defaults filled in at the single construction
// site. Status stays StatusCreated until the service derives a real one.
func NewTask(id, userID, title string, now time.Time) *Task {
	return &Task{
		ID:        id,
		UserID:    userID,
		Title:     title,
		Priority:  PriorityMedium,
		Type:      TypeFree,
		Status:    StatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Complete sets the terminal completion values. Calling it again rewrites the
// same state; there is no guard against completing a cancelled task.
func (t *Task) Complete(at time.Time) {
	t.IsCompleted = true
	completed := at
	t.CompletedAt = &completed
	t.Status = StatusCompleted
	t.ProgressPercent = 100
	t.UpdatedAt = at
}

// Snooze pushes the due time forward and marks the task snoozed. Nothing
// un-snoozes it automatically.
func (t *Task) Snooze(until, at time.Time) {
	u := until
	t.DueDateTime = &u
	t.Status = StatusSnoozed
	t.UpdatedAt = at
}

// NextInstance expands a recurring task into its next occurrence. It returns
// nil when the task has no rule or the rule no longer permits a repeat. The
// receiver is left untouched; the returned task has an empty ID for the
// service to assign. The copied rule's occurrence budget is decremented.
func (t *Task) NextInstance(now time.Time) *Task {
	if t.Recurrence == nil {
		return nil
	}
	base := now
	if t.DueDateTime != nil {
		base = *t.DueDateTime
	}
	if !t.Recurrence.ShouldRepeat(base) {
		return nil
	}
	next, ok := t.Recurrence.NextOccurrence(base)
	if !ok {
		return nil
	}

	rule := t.Recurrence.clone()
	if rule.MaxOccurrences != nil {
		remaining := *rule.MaxOccurrences - 1
		rule.MaxOccurrences = &remaining
	}
	due := next
	var goalID *string
	if t.GoalID != nil {
		g := *t.GoalID
		goalID = &g
	}
	return &Task{
		UserID:          t.UserID,
		GoalID:          goalID,
		Title:           t.Title,
		Description:     t.Description,
		DueDateTime:     &due,
		DurationMinutes: t.DurationMinutes,
		Priority:        t.Priority,
		Recurrence:      rule,
		Type:            t.Type,
		Status:          StatusCreated,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
