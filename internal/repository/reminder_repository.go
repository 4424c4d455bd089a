package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"goaldesk/internal/model"
)

// ReminderRepository is the persistence gateway for reminders.
type ReminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// GetByID returns nil without error when the reminder does not exist.
func (r *ReminderRepository) GetByID(ctx context.Context, id string) (*model.Reminder, error) {
	var reminder model.Reminder
	err := r.db.WithContext(ctx).Where("reminder_id = ?", id).First(&reminder).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, storageErr("find reminder", err)
	}
	return &reminder, nil
}

// ListUnsent returns every reminder not yet delivered, oldest first.
func (r *ReminderRepository) ListUnsent(ctx context.Context) ([]model.Reminder, error) {
	var reminders []model.Reminder
	if err := r.db.WithContext(ctx).Where("is_sent = ?", false).
		Order("created_at ASC").Find(&reminders).Error; err != nil {
		return nil, storageErr("list reminders", err)
	}
	return reminders, nil
}

func (r *ReminderRepository) ListByTask(ctx context.Context, taskID string) ([]model.Reminder, error) {
	var reminders []model.Reminder
	if err := r.db.WithContext(ctx).Where("task_id = ?", taskID).
		Order("created_at ASC").Find(&reminders).Error; err != nil {
		return nil, storageErr("list reminders", err)
	}
	return reminders, nil
}

// Save upserts the full row.
func (r *ReminderRepository) Save(ctx context.Context, reminder *model.Reminder) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "reminder_id"}},
			UpdateAll: true,
		}).
		Create(reminder).Error
	if err != nil {
		return storageErr("save reminder", err)
	}
	return nil
}

// MarkSent flips the sent flag. Marking a missing reminder is a no-op.
func (r *ReminderRepository) MarkSent(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Model(&model.Reminder{}).
		Where("reminder_id = ?", id).
		Update("is_sent", true).Error; err != nil {
		return storageErr("mark reminder sent", err)
	}
	return nil
}

// Delete removes the row if present; a missing id is a no-op.
func (r *ReminderRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("reminder_id = ?", id).
		Delete(&model.Reminder{}).Error; err != nil {
		return storageErr("delete reminder", err)
	}
	return nil
}
