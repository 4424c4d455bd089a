package service

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()
	env := newTestEnv(t)
	return NewUserService(env.users, zap.NewNop())
}

func TestGetOrCreateDefault_Singleton(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	first, err := svc.GetOrCreateDefault(ctx)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if first.ID != DefaultUserID {
		t.Fatalf("id = %q", first.ID)
	}
	if !first.Preferences.Enabled || first.Preferences.DefaultReminderMinutes != 15 {
		t.Fatalf("default preferences wrong: %+v", first.Preferences)
	}

	second, err := svc.GetOrCreateDefault(ctx)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("second call returned a different user: %q", second.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("second call recreated the user")
	}
}

func TestUpdatePreferences(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	got, err := svc.UpdatePreferences(ctx, PreferencesUpdate{
		Enabled:                ptr(false),
		Sound:                  ptr("chime"),
		QuietHoursStart:        ptr(22),
		QuietHoursEnd:          ptr(7),
		DefaultReminderMinutes: ptr(30),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	p := got.Preferences
	if p.Enabled || p.Sound == nil || *p.Sound != "chime" ||
		p.QuietHoursStart == nil || *p.QuietHoursStart != 22 ||
		p.QuietHoursEnd == nil || *p.QuietHoursEnd != 7 ||
		p.DefaultReminderMinutes != 30 {
		t.Fatalf("update not applied: %+v", p)
	}

	// Omitted fields keep their values; an empty sound clears it.
	got, err = svc.UpdatePreferences(ctx, PreferencesUpdate{Sound: ptr("")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	p = got.Preferences
	if p.Sound != nil {
		t.Fatalf("sound not cleared: %v", *p.Sound)
	}
	if p.Enabled || p.QuietHoursStart == nil || p.DefaultReminderMinutes != 30 {
		t.Fatalf("omitted fields changed: %+v", p)
	}

	stored, err := svc.GetOrCreateDefault(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Preferences.DefaultReminderMinutes != 30 || stored.Preferences.Enabled {
		t.Fatalf("preferences not persisted: %+v", stored.Preferences)
	}
}

func TestToggleStudentMode(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	got, err := svc.ToggleStudentMode(ctx)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !got.IsStudentMode {
		t.Fatalf("first toggle did not enable student mode")
	}
	got, err = svc.ToggleStudentMode(ctx)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got.IsStudentMode {
		t.Fatalf("second toggle did not disable student mode")
	}
}
