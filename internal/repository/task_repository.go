package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"goaldesk/internal/model"
)

// TaskFilter narrows ListByUser. Every field is optional and composes with
// the others. From and To compare by calendar date, inclusive on both ends;
// tasks without a due date never match a date range. Search matches title or
// description case-insensitively; a blank query filters nothing.
type TaskFilter struct {
	From             *time.Time
	To               *time.Time
	IncludeCompleted bool
	Search           string
}

// TaskRepository is the persistence gateway for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// GetByID returns nil without error when the task does not exist.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Where("task_id = ?", id).First(&task).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, storageErr("find task", err)
	}
	return &task, nil
}

// ListByUser returns the user's tasks ordered with undated tasks after all
// dated ones, dated tasks ascending by due time, ties broken by creation time.
func (r *TaskRepository) ListByUser(ctx context.Context, userID string, filter TaskFilter) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if !filter.IncludeCompleted {
		q = q.Where("is_completed = ?", false)
	}
	if filter.From != nil {
		q = q.Where("due_date_time IS NOT NULL AND date(due_date_time) >= date(?)",
			filter.From.Format("2006-01-02"))
	}
	if filter.To != nil {
		q = q.Where("due_date_time IS NOT NULL AND date(due_date_time) <= date(?)",
			filter.To.Format("2006-01-02"))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}

	var tasks []model.Task
	if err := q.Order("due_date_time IS NULL, due_date_time ASC, created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, storageErr("list tasks", err)
	}
	return tasks, nil
}

// Save upserts the full row: insert when the id is new, replace otherwise.
// A failure leaves the prior stored row unchanged.
func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "task_id"}},
			UpdateAll: true,
		}).
		Create(task).Error
	if err != nil {
		return storageErr("save task", err)
	}
	return nil
}

// Delete removes the row if present; a missing id is a no-op.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("task_id = ?", id).
		Delete(&model.Task{}).Error; err != nil {
		return storageErr("delete task", err)
	}
	return nil
}
