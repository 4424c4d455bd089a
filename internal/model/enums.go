package model

import "fmt"

// Priority of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}

// TaskType distinguishes free-standing tasks from goal-linked and study ones.
type TaskType string

const (
	TypeFree         TaskType = "free"
	TypeGoal         TaskType = "goal"
	TypeAssignment   TaskType = "assignment"
	TypeExam         TaskType = "exam"
	TypeStudySession TaskType = "study_session"
)

func (t TaskType) Valid() bool {
	switch t {
	case TypeFree, TypeGoal, TypeAssignment, TypeExam, TypeStudySession:
		return true
	}
	return false
}

func ParseTaskType(s string) (TaskType, error) {
	t := TaskType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown task type %q", s)
	}
	return t, nil
}

// TaskStatus is the task lifecycle state. StatusCreated is the construction
// default before a service derives a real status. Transitions happen only
// through explicit service calls; nothing flips statuses on a clock.
type TaskStatus string

const (
	StatusCreated    TaskStatus = "created"
	StatusScheduled  TaskStatus = "scheduled"
	StatusPending    TaskStatus = "pending"
	StatusUpcoming   TaskStatus = "upcoming"
	StatusToday      TaskStatus = "today"
	StatusOverdue    TaskStatus = "overdue"
	StatusInProgress TaskStatus = "in_progress"
	StatusPaused     TaskStatus = "paused"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
	StatusSnoozed    TaskStatus = "snoozed"
	// StatusRejected is a display synonym for cancelled, never stored.
	StatusRejected TaskStatus = "rejected"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusCreated, StatusScheduled, StatusPending, StatusUpcoming,
		StatusToday, StatusOverdue, StatusInProgress, StatusPaused,
		StatusCompleted, StatusCancelled, StatusSnoozed, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further application-driven transition is expected.
func (s TaskStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled:
		return true
	case StatusCreated, StatusScheduled, StatusPending, StatusUpcoming,
		StatusToday, StatusOverdue, StatusInProgress, StatusPaused,
		StatusSnoozed, StatusRejected:
		return false
	}
	return false
}

// DisplayName maps a status to its user-facing label.
func (s TaskStatus) DisplayName() string {
	switch s {
	case StatusCreated:
		return "Created"
	case StatusScheduled:
		return "Scheduled"
	case StatusPending:
		return "Pending"
	case StatusUpcoming:
		return "Upcoming"
	case StatusToday:
		return "Today"
	case StatusOverdue:
		return "Overdue"
	case StatusInProgress:
		return "In progress"
	case StatusPaused:
		return "Paused"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled, StatusRejected:
		return "Cancelled"
	case StatusSnoozed:
		return "Snoozed"
	}
	return string(s)
}

func ParseTaskStatus(s string) (TaskStatus, error) {
	st := TaskStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown task status %q", s)
	}
	return st, nil
}

// RecurrenceType is the repeat pattern of a recurrence rule.
type RecurrenceType string

const (
	RecurDaily   RecurrenceType = "daily"
	RecurWeekly  RecurrenceType = "weekly"
	RecurMonthly RecurrenceType = "monthly"
	RecurYearly  RecurrenceType = "yearly"
)

func (t RecurrenceType) Valid() bool {
	switch t {
	case RecurDaily, RecurWeekly, RecurMonthly, RecurYearly:
		return true
	}
	return false
}

// GoalCategory groups goals by area of life.
type GoalCategory string

const (
	CategoryHealth   GoalCategory = "health"
	CategoryWork     GoalCategory = "work"
	CategoryLearning GoalCategory = "learning"
	CategoryPersonal GoalCategory = "personal"
	CategoryOther    GoalCategory = "other"
)

func (c GoalCategory) Valid() bool {
	switch c {
	case CategoryHealth, CategoryWork, CategoryLearning, CategoryPersonal, CategoryOther:
		return true
	}
	return false
}

func ParseGoalCategory(s string) (GoalCategory, error) {
	c := GoalCategory(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown goal category %q", s)
	}
	return c, nil
}

// FrequencyType says how often a goal is meant to be completed.
type FrequencyType string

const (
	FrequencyDaily   FrequencyType = "daily"
	FrequencyWeekly  FrequencyType = "weekly"
	FrequencyMonthly FrequencyType = "monthly"
)

func (f FrequencyType) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

func ParseFrequencyType(s string) (FrequencyType, error) {
	f := FrequencyType(s)
	if !f.Valid() {
		return "", fmt.Errorf("unknown frequency %q", s)
	}
	return f, nil
}

// ReminderChannel is how a reminder reaches the user.
type ReminderChannel string

const (
	ChannelPush  ReminderChannel = "push"
	ChannelEmail ReminderChannel = "email"
	ChannelInApp ReminderChannel = "in_app"
)

func (c ReminderChannel) Valid() bool {
	switch c {
	case ChannelPush, ChannelEmail, ChannelInApp:
		return true
	}
	return false
}

// Weekday numbers days with Monday = 0 through Sunday = 6.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

func (d Weekday) Valid() bool { return d >= Monday && d <= Sunday }
