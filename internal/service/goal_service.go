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

// GoalInput carries the data required to create a goal.
type GoalInput struct {
	UserID      string
	Title       string
	Description string
	Category    model.GoalCategory
	ColorHex    string
	Frequency   model.FrequencyType
}

// GoalService wraps goal use cases. No streak-increment rule lives here:
// SetStreak is a passthrough setter and nothing computes whether the goal was
// satisfied today.
type GoalService struct {
	repo *repository.GoalRepository
	log  *zap.Logger
}

func NewGoalService(repo *repository.GoalRepository, log *zap.Logger) *GoalService {
	return &GoalService{repo: repo, log: log}
}

func (s *GoalService) Create(ctx context.Context, input GoalInput) (*model.Goal, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}

	goal := model.NewGoal(uuid.New().String(), input.UserID, input.Title, time.Now())
	goal.Description = input.Description
	if input.Category != "" {
		goal.Category = input.Category
	}
	if input.ColorHex != "" {
		goal.ColorHex = input.ColorHex
	}
	if input.Frequency != "" {
		goal.Frequency = input.Frequency
	}

	if err := s.repo.Save(ctx, goal); err != nil {
		return nil, err
	}
	s.log.Info("goal created", zap.String("goal_id", goal.ID))
	return goal, nil
}

// Get returns nil without error when the goal does not exist.
func (s *GoalService) Get(ctx context.Context, id string) (*model.Goal, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *GoalService) List(ctx context.Context, userID string, includeArchived bool) ([]model.Goal, error) {
	return s.repo.ListByUser(ctx, userID, includeArchived)
}

func (s *GoalService) Save(ctx context.Context, goal *model.Goal) error {
	return s.repo.Save(ctx, goal)
}

// Archive soft-deletes the goal. Returns nil when the goal is missing.
func (s *GoalService) Archive(ctx context.Context, id string) (*model.Goal, error) {
	goal, err := s.repo.GetByID(ctx, id)
	if err != nil || goal == nil {
		return nil, err
	}
	goal.Archive()
	if err := s.repo.Save(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// Delete removes the goal permanently, clearing the reference on any task
// that pointed at it.
func (s *GoalService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// SetStreak sets the current streak, raising the longest streak only when the
// supplied value exceeds the stored high-water mark. Returns nil when the
// goal is missing.
func (s *GoalService) SetStreak(ctx context.Context, id string, current int, longest *int) (*model.Goal, error) {
	goal, err := s.repo.GetByID(ctx, id)
	if err != nil || goal == nil {
		return nil, err
	}
	goal.UpdateStreak(current, longest)
	if err := s.repo.Save(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// ActiveCount counts non-archived goals for the user.
func (s *GoalService) ActiveCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.CountActive(ctx, userID)
}

// TotalStreak sums current streaks across the user's non-archived goals.
func (s *GoalService) TotalStreak(ctx context.Context, userID string) (int, error) {
	return s.repo.SumCurrentStreaks(ctx, userID)
}
