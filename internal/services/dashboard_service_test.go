package services_test

import (
	"testing"
	"time"

	"github.com/derrickhua/achieve-arcade-sub000/internal/dto"
	"github.com/derrickhua/achieve-arcade-sub000/internal/models"
	"github.com/derrickhua/achieve-arcade-sub000/internal/services"
	"github.com/derrickhua/achieve-arcade-sub000/internal/testutil"
)

func TestGetMetrics_EmptyAccount(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewDashboardService(db)
	user := createTestUser(t, db, 0)

	metrics, err := svc.GetMetrics(user.ID)
	if err != nil {
		t.Fatalf("fetching metrics: %v", err)
	}
	if metrics.Tasks.Total != 0 || metrics.Tasks.CompletionRate != 0 {
		t.Errorf("expected zeroed task metrics, got %+v", metrics.Tasks)
	}
	if metrics.Habits.BestStreak != 0 {
		t.Errorf("expected zero best streak, got %d", metrics.Habits.BestStreak)
	}
}

func TestGetMetrics_Aggregates(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewDashboardService(db)
	taskService := services.NewTaskService(db)
	scheduleService := services.NewScheduleService(db)
	habitService := services.NewHabitService(db)
	goalService := newGoalService(db)
	user := createTestUser(t, db, 0)

	// Two tasks, one complete.
	done, err := taskService.CreateTask(user.ID, &dto.CreateTaskRequest{Name: "Done", Difficulty: models.DifficultyEasy})
	if err != nil {
		t.Fatalf("creating task: %v", err)
	}
	if _, err := taskService.CompleteTask(user.ID, done.ID); err != nil {
		t.Fatalf("completing task: %v", err)
	}
	if _, err := taskService.CreateTask(user.ID, &dto.CreateTaskRequest{Name: "Open"}); err != nil {
		t.Fatalf("creating task: %v", err)
	}

	// One completed 2h work block.
	block := createWorkBlock(t, db, user.ID, 2)
	if _, err := scheduleService.CompleteTimeBlock(user.ID, block.ID); err != nil {
		t.Fatalf("completing block: %v", err)
	}

	// A habit with a live streak.
	habit := createDailyHabit(t, db, user.ID, 1)
	if _, err := habitService.ChangeCompletion(user.ID, habit.ID, &dto.ChangeCompletionRequest{
		Date: time.Now().AddDate(0, 0, -1), Completions: 1,
	}); err != nil {
		t.Fatalf("seeding habit: %v", err)
	}
	if _, err := habitService.CalculateStreak(user.ID, habit.ID); err != nil {
		t.Fatalf("calculating streak: %v", err)
	}

	// A goal with one of two milestones complete.
	goal := createHardGoal(t, goalService, user.ID)
	first, err := goalService.AddMilestone(user.ID, goal.ID, &dto.CreateMilestoneRequest{Title: "First", Deadline: goal.Deadline})
	if err != nil {
		t.Fatalf("adding milestone: %v", err)
	}
	if _, err := goalService.AddMilestone(user.ID, goal.ID, &dto.CreateMilestoneRequest{Title: "Second", Deadline: goal.Deadline}); err != nil {
		t.Fatalf("adding milestone: %v", err)
	}
	if _, err := goalService.CompleteMilestone(user.ID, goal.ID, first.ID); err != nil {
		t.Fatalf("completing milestone: %v", err)
	}

	metrics, err := svc.GetMetrics(user.ID)
	if err != nil {
		t.Fatalf("fetching metrics: %v", err)
	}

	if metrics.Tasks.Total != 2 || metrics.Tasks.Completed != 1 {
		t.Errorf("expected 1/2 tasks complete, got %+v", metrics.Tasks)
	}
	if metrics.Tasks.CompletionRate != 0.5 {
		t.Errorf("expected completion rate 0.5, got %v", metrics.Tasks.CompletionRate)
	}
	if metrics.TimeBlocks.Completed != 1 {
		t.Errorf("expected 1 completed block, got %+v", metrics.TimeBlocks)
	}
	if metrics.TimeBlocks.HoursByCategory[models.CategoryWork] != 2 {
		t.Errorf("expected 2 work hours, got %v", metrics.TimeBlocks.HoursByCategory)
	}
	if metrics.Habits.BestStreak != 1 || metrics.Habits.Adherence != 1 {
		t.Errorf("expected streak 1 and full adherence, got %+v", metrics.Habits)
	}
	if metrics.Goals.Total != 1 || metrics.Goals.Completed != 0 {
		t.Errorf("expected 1 open goal, got %+v", metrics.Goals)
	}
	if metrics.Goals.MilestonesCompleted != 1 || metrics.Goals.Progress != 0.5 {
		t.Errorf("expected 1/2 milestones, got %+v", metrics.Goals)
	}
}
