package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"goaldesk/internal/model"
)

// GoalRepository is the persistence gateway for goals.
type GoalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

// GetByID returns nil without error when the goal does not exist.
func (r *GoalRepository) GetByID(ctx context.Context, id string) (*model.Goal, error) {
	var goal model.Goal
	err := r.db.WithContext(ctx).Where("goal_id = ?", id).First(&goal).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, storageErr("find goal", err)
	}
	return &goal, nil
}

func (r *GoalRepository) ListByUser(ctx context.Context, userID string, includeArchived bool) ([]model.Goal, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if !includeArchived {
		q = q.Where("is_archived = ?", false)
	}
	var goals []model.Goal
	if err := q.Order("created_at ASC").Find(&goals).Error; err != nil {
		return nil, storageErr("list goals", err)
	}
	return goals, nil
}

// CountActive counts the user's non-archived goals.
func (r *GoalRepository) CountActive(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Goal{}).
		Where("user_id = ? AND is_archived = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, storageErr("count goals", err)
	}
	return count, nil
}

// SumCurrentStreaks sums current_streak across the user's non-archived goals.
func (r *GoalRepository) SumCurrentStreaks(ctx context.Context, userID string) (int, error) {
	var total int
	if err := r.db.WithContext(ctx).Model(&model.Goal{}).
		Where("user_id = ? AND is_archived = ?", userID, false).
		Select("COALESCE(SUM(current_streak), 0)").
		Scan(&total).Error; err != nil {
		return 0, storageErr("sum streaks", err)
	}
	return total, nil
}

// Save upserts the full row.
func (r *GoalRepository) Save(ctx context.Context, goal *model.Goal) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "goal_id"}},
			UpdateAll: true,
		}).
		Create(goal).Error
	if err != nil {
		return storageErr("save goal", err)
	}
	return nil
}

// Delete removes the goal and clears the weak reference on any task that
// pointed at it, in one transaction. Tasks themselves are preserved. A
// missing id is a no-op.
func (r *GoalRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Task{}).Where("goal_id = ?", id).
			Update("goal_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("goal_id = ?", id).Delete(&model.Goal{}).Error
	})
	if err != nil {
		return storageErr("delete goal", err)
	}
	return nil
}
