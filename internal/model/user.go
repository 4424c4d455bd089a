package model

import "time"

// NotificationPreferences lives in its own row keyed by the owning user.
// Quiet hours are hours of day, 0-23; a window wrapping midnight is allowed.
type NotificationPreferences struct {
	ID                     string  `gorm:"primaryKey;column:pref_id"`
	UserID                 string  `gorm:"uniqueIndex;column:user_id"`
	Enabled                bool    `gorm:"column:notifications_enabled;default:true"`
	Sound                  *string `gorm:"column:sound"`
	QuietHoursStart        *int    `gorm:"column:quiet_hours_start"`
	QuietHoursEnd          *int    `gorm:"column:quiet_hours_end"`
	DefaultReminderMinutes int     `gorm:"column:default_reminder_minutes;default:15"`
}

func (NotificationPreferences) TableName() string { return "user_preferences" }

// User owns every goal and task. Exactly one user exists per installation,
// created lazily on first access.
type User struct {
	ID            string `gorm:"primaryKey;column:user_id"`
	Name          string
	Email         string
	IsStudentMode bool                    `gorm:"default:false"`
	Preferences   NotificationPreferences `gorm:"foreignKey:UserID;references:ID"`
	CreatedAt     time.Time               `gorm:"autoCreateTime:false"`
	UpdatedAt     time.Time               `gorm:"autoUpdateTime:false"`
}

func (User) TableName() string { return "user" }

// NewUser builds a user with default preferences.
func NewUser(id, name, email string, now time.Time) *User {
	return &User{
		ID:    id,
		Name:  name,
		Email: email,
		Preferences: NotificationPreferences{
			ID:                     "pref_" + id,
			UserID:                 id,
			Enabled:                true,
			DefaultReminderMinutes: 15,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ToggleStudentMode flips student-specific features on or off.
func (u *User) ToggleStudentMode() {
	u.IsStudentMode = !u.IsStudentMode
}
