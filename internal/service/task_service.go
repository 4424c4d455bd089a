package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"goaldesk/internal/model"
	"goaldesk/internal/repository"
)

// TaskInput carries the data required to create a task.
type TaskInput struct {
	UserID          string
	GoalID          *string
	Title           string
	Description     string
	DueDateTime     *time.Time
	DurationMinutes int
	Priority        model.Priority
	Type            model.TaskType
	Recurrence      *model.RecurrenceRule
}

// TaskUpdate is a partial update: nil fields are left untouched, set fields
// overwrite the stored value.
type TaskUpdate struct {
	Title           *string
	Description     *string
	DueDateTime     *time.Time
	DurationMinutes *int
	Priority        *model.Priority
	ProgressPercent *int
	Status          *model.TaskStatus
}

// TaskService wraps task business rules around the repository.
type TaskService struct {
	repo *repository.TaskRepository
	log  *zap.Logger
}

func NewTaskService(repo *repository.TaskRepository, log *zap.Logger) *TaskService {
	return &TaskService{repo: repo, log: log}
}

// DeriveStatus computes the creation-time status from the due time. The
// today check wins over the overdue check, so a due time earlier today stays
// StatusToday. The result is never re-evaluated automatically afterwards;
// callers needing freshness recompute.
func DeriveStatus(due *time.Time, now time.Time) model.TaskStatus {
	if due == nil {
		return model.StatusPending
	}
	d := due.In(now.Location())
	if sameCalendarDay(d, now) {
		return model.StatusToday
	}
	if d.Before(now) {
		return model.StatusOverdue
	}
	return model.StatusUpcoming
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Create persists a new task with a generated id and a derived status.
func (s *TaskService) Create(ctx context.Context, input TaskInput) (*model.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}

	now := time.Now()
	task := model.NewTask(uuid.New().String(), input.UserID, input.Title, now)
	task.GoalID = input.GoalID
	task.Description = input.Description
	task.DueDateTime = input.DueDateTime
	task.DurationMinutes = input.DurationMinutes
	task.Recurrence = input.Recurrence
	if input.Priority != "" {
		task.Priority = input.Priority
	}
	if input.Type != "" {
		task.Type = input.Type
	}
	task.Status = DeriveStatus(input.DueDateTime, now)

	if err := s.repo.Save(ctx, task); err != nil {
		return nil, err
	}
	s.log.Info("task created",
		zap.String("task_id", task.ID),
		zap.String("status", string(task.Status)))
	return task, nil
}

// Get returns nil without error when the task does not exist.
func (s *TaskService) Get(ctx context.Context, id string) (*model.Task, error) {
	return s.repo.GetByID(ctx, id)
}

// List passes the filter through to the gateway.
func (s *TaskService) List(ctx context.Context, userID string, filter repository.TaskFilter) ([]model.Task, error) {
	return s.repo.ListByUser(ctx, userID, filter)
}

// Update applies a partial update and refreshes the updated timestamp.
// Progress is clamped into [0,100]. Returns nil when the task is missing.
func (s *TaskService) Update(ctx context.Context, id string, update TaskUpdate) (*model.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil || task == nil {
		return nil, err
	}

	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.DueDateTime != nil {
		due := *update.DueDateTime
		task.DueDateTime = &due
	}
	if update.DurationMinutes != nil {
		task.DurationMinutes = *update.DurationMinutes
	}
	if update.Priority != nil {
		task.Priority = *update.Priority
	}
	if update.ProgressPercent != nil {
		task.ProgressPercent = clampProgress(*update.ProgressPercent)
	}
	if update.Status != nil {
		task.Status = *update.Status
	}
	task.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Complete marks the task done. The effect is idempotent; there is no guard
// against completing a cancelled task. Returns nil when the task is missing.
func (s *TaskService) Complete(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil || task == nil {
		return nil, err
	}
	task.Complete(time.Now())
	if err := s.repo.Save(ctx, task); err != nil {
		return nil, err
	}
	s.log.Info("task completed", zap.String("task_id", task.ID))
	return task, nil
}

// Cancel moves the task to its terminal cancelled status through the generic
// update path. No dedicated cancellation timestamp is stored.
func (s *TaskService) Cancel(ctx context.Context, id string) (*model.Task, error) {
	status := model.StatusCancelled
	return s.Update(ctx, id, TaskUpdate{Status: &status})
}

// SetRunning flips the task to in-progress.
func (s *TaskService) SetRunning(ctx context.Context, id string) (*model.Task, error) {
	status := model.StatusInProgress
	return s.Update(ctx, id, TaskUpdate{Status: &status})
}

// Snooze sets a new due time and the snoozed status. Returns nil when the
// task is missing.
func (s *TaskService) Snooze(ctx context.Context, id string, until time.Time) (*model.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil || task == nil {
		return nil, err
	}
	task.Snooze(until, time.Now())
	if err := s.repo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// SpawnNextInstance expands a recurring task and persists the new occurrence
// with a fresh id and a derived status. The original task is untouched.
// Returns nil when the task is missing, has no rule, or the rule is spent.
func (s *TaskService) SpawnNextInstance(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil || task == nil {
		return nil, err
	}
	now := time.Now()
	next := task.NextInstance(now)
	if next == nil {
		return nil, nil
	}
	next.ID = uuid.New().String()
	next.Status = DeriveStatus(next.DueDateTime, now)
	if err := s.repo.Save(ctx, next); err != nil {
		return nil, err
	}
	s.log.Info("recurring task expanded",
		zap.String("task_id", task.ID),
		zap.String("next_id", next.ID))
	return next, nil
}

// Delete removes the task permanently. A missing id is a no-op.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func clampProgress(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
