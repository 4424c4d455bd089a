package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"goaldesk/internal/model"
)

// UserRepository is the persistence gateway for the user and its preferences
// row. Both rows are written together as one atomic unit.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID returns nil without error when the user does not exist. A missing
// preferences row falls back to defaults rather than failing.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("user_id = ?", id).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, storageErr("find user", err)
	}

	var prefs model.NotificationPreferences
	err = r.db.WithContext(ctx).Where("user_id = ?", id).First(&prefs).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		prefs = model.NotificationPreferences{
			ID:                     "pref_" + id,
			UserID:                 id,
			Enabled:                true,
			DefaultReminderMinutes: 15,
		}
	case err != nil:
		return nil, storageErr("find user preferences", err)
	}
	user.Preferences = prefs
	return &user, nil
}

// Save upserts the user and its preferences row in one transaction; a
// failure rolls back both writes.
func (r *UserRepository) Save(ctx context.Context, user *model.User) error {
	if user.Preferences.ID == "" {
		user.Preferences.ID = "pref_" + user.ID
	}
	user.Preferences.UserID = user.ID

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Preferences").
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}},
				UpdateAll: true,
			}).
			Create(user).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pref_id"}},
			UpdateAll: true,
		}).Create(&user.Preferences).Error
	})
	if err != nil {
		return storageErr("save user", err)
	}
	return nil
}
