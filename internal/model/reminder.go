package model

import "time"

// Reminder points at a task by weak reference. It fires either at an explicit
// trigger time or a number of minutes before the task's due time; when both
// are present the explicit time wins.
type Reminder struct {
	ID            string          `gorm:"primaryKey;column:reminder_id"`
	TaskID        string          `gorm:"index;column:task_id"`
	ReminderTime  *time.Time      `gorm:"column:reminder_time"`
	MinutesBefore int             `gorm:"column:minutes_before"`
	IsSent        bool            `gorm:"default:false"`
	Channel       ReminderChannel `gorm:"column:channel"`
	CreatedAt     time.Time       `gorm:"autoCreateTime:false"`
}

func (Reminder) TableName() string { return "reminder" }

// NewReminder builds an in-app reminder; callers override the channel or
// trigger as needed.
func NewReminder(id, taskID string, now time.Time) *Reminder {
	return &Reminder{
		ID:        id,
		TaskID:    taskID,
		Channel:   ChannelInApp,
		CreatedAt: now,
	}
}

// TriggerTime resolves when the reminder should fire given the task's due
// time. It returns false when neither an explicit time nor a due time to
// offset from exists.
func (r *Reminder) TriggerTime(due *time.Time) (time.Time, bool) {
	if r.ReminderTime != nil {
		return *r.ReminderTime, true
	}
	if due == nil {
		return time.Time{}, false
	}
	return due.Add(-time.Duration(r.MinutesBefore) * time.Minute), true
}
