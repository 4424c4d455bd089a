package model

import "time"

// Goal is a tracked objective owning tasks by reference and carrying streak
// counters.
type Goal struct {
	ID            string `gorm:"primaryKey;column:goal_id"`
	UserID        string `gorm:"index;column:user_id"`
	Title         string
	Description   string
	Category      GoalCategory
	ColorHex      string
	Frequency     FrequencyType `gorm:"column:frequency_type"`
	CreatedAt     time.Time     `gorm:"autoCreateTime:false"`
	IsArchived    bool          `gorm:"default:false"`
	CurrentStreak int
	LongestStreak int
}

func (Goal) TableName() string { return "goal" }

// NewGoal builds a goal with defaults filled in at construction.
func NewGoal(id, userID, title string, now time.Time) *Goal {
	return &Goal{
		ID:        id,
		UserID:    userID,
		Title:     title,
		Category:  CategoryOther,
		ColorHex:  "#4CAF50",
		Frequency: FrequencyDaily,
		CreatedAt: now,
	}
}

// Archive soft-deletes the goal. The row stays in place.
func (g *Goal) Archive() {
	g.IsArchived = true
}

// UpdateStreak sets the current streak and raises the longest streak when the
// new value exceeds it. The longest streak is a high-water mark and never
// goes down; the current streak may drop below it freely.
func (g *Goal) UpdateStreak(current int, longest *int) {
	g.CurrentStreak = current
	if longest != nil && *longest > g.LongestStreak {
		g.LongestStreak = *longest
	}
}

// CompletionRate returns completed/scheduled capped at 1.0, or 0 when
// nothing was scheduled.
func (g *Goal) CompletionRate(completed, scheduled int) float64 {
	if scheduled <= 0 {
		return 0
	}
	rate := float64(completed) / float64(scheduled)
	if rate > 1 {
		return 1
	}
	return rate
}
