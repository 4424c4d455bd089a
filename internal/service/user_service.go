package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"goaldesk/internal/model"
	"goaldesk/internal/repository"
)

// DefaultUserID is the fixed identifier of the single per-installation user.
const DefaultUserID = "default_user"

// PreferencesUpdate enumerates the exact settable preference fields. Nil
// fields are left untouched; there is no way to address an unknown field.
type PreferencesUpdate struct {
	Enabled                *bool
	Sound                  *string
	QuietHoursStart        *int
	QuietHoursEnd          *int
	DefaultReminderMinutes *int
}

// UserService owns the singleton default user.
type UserService struct {
	repo *repository.UserRepository
	log  *zap.Logger
}

func NewUserService(repo *repository.UserRepository, log *zap.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

// GetOrCreateDefault returns the default user, creating it with default
// preferences on first call. Calling it again returns the same row.
func (s *UserService) GetOrCreateDefault(ctx context.Context) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, DefaultUserID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = model.NewUser(DefaultUserID, "User", "user@local", time.Now())
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("default user created", zap.String("user_id", user.ID))
	return user, nil
}

// UpdatePreferences applies the supplied fields and saves user and
// preferences as one atomic unit.
func (s *UserService) UpdatePreferences(ctx context.Context, update PreferencesUpdate) (*model.User, error) {
	user, err := s.GetOrCreateDefault(ctx)
	if err != nil {
		return nil, err
	}

	prefs := &user.Preferences
	if update.Enabled != nil {
		prefs.Enabled = *update.Enabled
	}
	if update.Sound != nil {
		sound := *update.Sound
		if sound == "" {
			prefs.Sound = nil
		} else {
			prefs.Sound = &sound
		}
	}
	if update.QuietHoursStart != nil {
		start := *update.QuietHoursStart
		prefs.QuietHoursStart = &start
	}
	if update.QuietHoursEnd != nil {
		end := *update.QuietHoursEnd
		prefs.QuietHoursEnd = &end
	}
	if update.DefaultReminderMinutes != nil {
		prefs.DefaultReminderMinutes = *update.DefaultReminderMinutes
	}
	user.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ToggleStudentMode flips student mode and persists the user.
func (s *UserService) ToggleStudentMode(ctx context.Context) (*model.User, error) {
	user, err := s.GetOrCreateDefault(ctx)
	if err != nil {
		return nil, err
	}
	user.ToggleStudentMode()
	user.UpdatedAt = time.Now()
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
