package service

import (
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"goaldesk/internal/repository"
)

// testEnv bundles the repositories every service test wires against, backed
// by a throwaway SQLite file.
type testEnv struct {
	tasks     *repository.TaskRepository
	goals     *repository.GoalRepository
	users     *repository.UserRepository
	reminders *repository.ReminderRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = repository.Close(db) })
	return &testEnv{
		tasks:     repository.NewTaskRepository(db),
		goals:     repository.NewGoalRepository(db),
		users:     repository.NewUserRepository(db),
		reminders: repository.NewReminderRepository(db),
	}
}

func at(y int, m time.Month, d, hour, min int) time.Time {
	return time.Date(y, m, d, hour, min, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }
