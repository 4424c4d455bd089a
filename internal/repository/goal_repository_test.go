package repository

import (
	"context"
	"testing"

	"goaldesk/internal/model"
)

func TestGoalRoundTrip(t *testing.T) {
	repo := NewGoalRepository(newTestDB(t))
	ctx := context.Background()

	goal := model.NewGoal("g1", "u1", "run daily", at(2025, 3, 10, 9, 0))
	goal.Description = "5k minimum"
	goal.Category = model.CategoryHealth
	goal.ColorHex = "#FF7043"
	goal.Frequency = model.FrequencyWeekly
	goal.CurrentStreak = 4
	goal.LongestStreak = 9

	if err := repo.Save(ctx, goal); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.GetByID(ctx, "g1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatalf("goal not found after save")
	}
	if got.Title != goal.Title || got.Description != goal.Description ||
		got.Category != goal.Category || got.ColorHex != goal.ColorHex ||
		got.Frequency != goal.Frequency || got.CurrentStreak != 4 || got.LongestStreak != 9 ||
		got.IsArchived {
		t.Fatalf("fields differ after round trip: %+v", got)
	}
	if !got.CreatedAt.Equal(goal.CreatedAt) {
		t.Fatalf("created_at differs: %v", got.CreatedAt)
	}
}

func TestGoalGetByID_MissingIsNilNotError(t *testing.T) {
	repo := NewGoalRepository(newTestDB(t))
	got, err := repo.GetByID(context.Background(), "nope")
	if err != nil || got != nil {
		t.Fatalf("got %+v, %v", got, err)
	}
}

func seedGoals(t *testing.T, repo *GoalRepository) {
	t.Helper()
	ctx := context.Background()

	active1 := model.NewGoal("g1", "u1", "run", at(2025, 3, 1, 0, 0))
	active1.CurrentStreak = 3
	active2 := model.NewGoal("g2", "u1", "read", at(2025, 3, 2, 0, 0))
	active2.CurrentStreak = 5
	archived := model.NewGoal("g3", "u1", "meditate", at(2025, 3, 3, 0, 0))
	archived.CurrentStreak = 10
	archived.Archive()
	other := model.NewGoal("g4", "u2", "not mine", at(2025, 3, 1, 0, 0))
	other.CurrentStreak = 100

	for _, g := range []*model.Goal{active1, active2, archived, other} {
		if err := repo.Save(ctx, g); err != nil {
			t.Fatalf("seed %s: %v", g.ID, err)
		}
	}
}

func TestGoalList_ArchivedToggle(t *testing.T) {
	repo := NewGoalRepository(newTestDB(t))
	seedGoals(t, repo)
	ctx := context.Background()

	goals, err := repo.ListByUser(ctx, "u1", false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(goals) != 2 {
		t.Fatalf("active only: got %d goals", len(goals))
	}

	goals, err = repo.ListByUser(ctx, "u1", true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(goals) != 3 {
		t.Fatalf("with archived: got %d goals", len(goals))
	}
}

func TestGoalAggregates(t *testing.T) {
	repo := NewGoalRepository(newTestDB(t))
	seedGoals(t, repo)
	ctx := context.Background()

	count, err := repo.CountActive(ctx, "u1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}

	sum, err := repo.SumCurrentStreaks(ctx, "u1")
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if sum != 8 {
		t.Fatalf("sum = %d, want 8 (archived excluded)", sum)
	}
}

func TestGoalDelete_ClearsTaskReferences(t *testing.T) {
	db := newTestDB(t)
	goals := NewGoalRepository(db)
	tasks := NewTaskRepository(db)
	ctx := context.Background()

	goal := model.NewGoal("g1", "u1", "run", at(2025, 3, 1, 0, 0))
	if err := goals.Save(ctx, goal); err != nil {
		t.Fatalf("save goal: %v", err)
	}
	goalID := goal.ID
	linked := newTask("t1", "u1", "run 5k", at(2025, 3, 2, 0, 0))
	linked.GoalID = &goalID
	if err := tasks.Save(ctx, linked); err != nil {
		t.Fatalf("save task: %v", err)
	}

	if err := goals.Delete(ctx, "g1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, _ := goals.GetByID(ctx, "g1"); got != nil {
		t.Fatalf("goal survived delete")
	}

	got, err := tasks.GetByID(ctx, "t1")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got == nil {
		t.Fatalf("task deleted with its goal")
	}
	if got.GoalID != nil {
		t.Fatalf("dangling goal reference left: %v", *got.GoalID)
	}
}

func TestGoalDelete_MissingIsNoOp(t *testing.T) {
	repo := NewGoalRepository(newTestDB(t))
	if err := repo.Delete(context.Background(), "nope"); err != nil {
		t.Fatalf("deleting a missing goal errored: %v", err)
	}
}
