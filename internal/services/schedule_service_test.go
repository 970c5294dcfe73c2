package services_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/derrickhua/achieve-arcade-sub000/internal/dto"
	"github.com/derrickhua/achieve-arcade-sub000/internal/models"
	"github.com/derrickhua/achieve-arcade-sub000/internal/services"
	"github.com/derrickhua/achieve-arcade-sub000/internal/testutil"
	"github.com/google/uuid"
)

func TestGetOrCreateToday_SingleSchedulePerDay(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewScheduleService(db)
	user := createTestUser(t, db, 0)

	first, err := svc.GetOrCreateToday(user.ID)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	second, err := svc.GetOrCreateToday(user.ID)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected the same schedule, got %s and %s", first.ID, second.ID)
	}

	var count int64
	db.Model(&models.DailySchedule{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 schedule row, got %d", count)
	}
}

func TestAddTimeBlock_Validation(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewScheduleService(db)
	user := createTestUser(t, db, 0)
	start := time.Now()

	_, err := svc.AddTimeBlock(user.ID, &dto.CreateTimeBlockRequest{
		Name: "Bad category", Category: "chores", StartTime: start, EndTime: start.Add(time.Hour),
	})
	if !errors.Is(err, services.ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}

	_, err = svc.AddTimeBlock(user.ID, &dto.CreateTimeBlockRequest{
		Name: "Backwards", Category: models.CategoryWork, StartTime: start, EndTime: start.Add(-time.Hour),
	})
	if !errors.Is(err, services.ErrInvalidInterval) {
		t.Errorf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestCompleteTimeBlock_EmptyBlockToggle(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewScheduleService(db)
	user := createTestUser(t, db, 0)
	block := createWorkBlock(t, db, user.ID, 2)

	completed, err := svc.CompleteTimeBlock(user.ID, block.ID)
	if err != nil {
		t.Fatalf("completing block: %v", err)
	}
	if !completed.Completed {
		t.Error("expected block to be marked complete")
	}
	if completed.TimerDuration != 2*3600 {
		t.Errorf("expected derived timer of 7200s, got %d", completed.TimerDuration)
	}
	if got := coinBalance(t, db, user.ID); got != 4 {
		t.Errorf("2h work block should pay 4 coins, got %d", got)
	}

	// Completing again is a no-op.
	if _, err := svc.CompleteTimeBlock(user.ID, block.ID); err != nil {
		t.Fatalf("re-completing block: %v", err)
	}
	if got := coinBalance(t, db, user.ID); got != 4 {
		t.Errorf("re-completion must not pay again, got %d", got)
	}

	// Unchecking debits the same tier and resets the timer.
	reverted, err := svc.IncompleteTimeBlock(user.ID, block.ID)
	if err != nil {
		t.Fatalf("un-completing block: %v", err)
	}
	if reverted.Completed || reverted.TimerDuration != 0 {
		t.Errorf("expected reset block, got completed=%v timer=%d", reverted.Completed, reverted.TimerDuration)
	}
	if got := coinBalance(t, db, user.ID); got != 0 {
		t.Errorf("expected balance back to 0, got %d", got)
	}
}

func TestCompleteTimeBlock_AtelicPaysNothing(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewScheduleService(db)
	user := createTestUser(t, db, 0)

	start := time.Now()
	block, err := svc.AddTimeBlock(user.ID, &dto.CreateTimeBlockRequest{
		Name: "Stargazing", Category: models.CategoryAtelic, StartTime: start, EndTime: start.Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("creating block: %v", err)
	}

	if _, err := svc.CompleteTimeBlock(user.ID, block.ID); err != nil {
		t.Fatalf("completing block: %v", err)
	}
	if got := coinBalance(t, db, user.ID); got != 0 {
		t.Errorf("atelic blocks pay nothing, got %d", got)
	}
}

func TestCompleteTimeBlock_RejectedWithTasks(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewScheduleService(db)
	taskService := services.NewTaskService(db)
	user := createTestUser(t, db, 0)
	block := createWorkBlock(t, db, user.ID, 1)

	if _, err := taskService.CreateTask(user.ID, &dto.CreateTaskRequest{
		Name: "Occupied", TimeBlockID: &block.ID,
	}); err != nil {
		t.Fatalf("creating task: %v", err)
	}

	_, err := svc.CompleteTimeBlock(user.ID, block.ID)
	if !errors.Is(err, services.ErrBlockHasTasks) {
		t.Errorf("expected ErrBlockHasTasks, got %v", err)
	}
}

func TestDeleteTimeBlock_DetachesTasks(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewScheduleService(db)
	taskService := services.NewTaskService(db)
	user := createTestUser(t, db, 0)
	block := createWorkBlock(t, db, user.ID, 1)

	task, err := taskService.CreateTask(user.ID, &dto.CreateTaskRequest{
		Name: "Survivor", TimeBlockID: &block.ID,
	})
	if err != nil {
		t.Fatalf("creating task: %v", err)
	}

	if err := svc.DeleteTimeBlock(user.ID, block.ID); err != nil {
		t.Fatalf("deleting block: %v", err)
	}

	survivor, err := taskService.GetTask(user.ID, task.ID)
	if err != nil {
		t.Fatalf("task should outlive its block: %v", err)
	}
	if survivor.TimeBlockID != nil {
		t.Error("expected the task's block reference to be cleared")
	}
}

func TestGetWeeklyMetrics(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewScheduleService(db)
	user := createTestUser(t, db, 0)
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("work_hours_goal", 10.0).Error; err != nil {
		t.Fatalf("setting hour goal: %v", err)
	}

	block := createWorkBlock(t, db, user.ID, 2)
	if _, err := svc.CompleteTimeBlock(user.ID, block.ID); err != nil {
		t.Fatalf("completing block: %v", err)
	}

	metrics, err := svc.GetWeeklyMetrics(user.ID, time.Now())
	if err != nil {
		t.Fatalf("fetching metrics: %v", err)
	}
	if metrics.TotalHours != 2 {
		t.Errorf("expected 2 total hours, got %v", metrics.TotalHours)
	}

	for _, cat := range metrics.Categories {
		if cat.Category != models.CategoryWork {
			continue
		}
		if cat.Hours != 2 {
			t.Errorf("expected 2 work hours, got %v", cat.Hours)
		}
		if cat.GoalHours != 10 {
			t.Errorf("expected goal of 10 hours, got %v", cat.GoalHours)
		}
	}
}

func TestGetOrCreateToday_ConcurrentFirstReads(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewScheduleService(db)
	user := createTestUser(t, db, 0)

	// Both racers must come back with the same row; the loser of the insert
	// recovers through the unique (user_id, date) index instead of erroring.
	const racers = 4
	ids := make(chan uuid.UUID, racers)
	errs := make(chan error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			schedule, err := svc.GetOrCreateToday(user.ID)
			if err != nil {
				errs <- err
				return
			}
			ids <- schedule.ID
		}()
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		t.Errorf("concurrent first read failed: %v", err)
	}
	var first uuid.UUID
	for id := range ids {
		if first == uuid.Nil {
			first = id
			continue
		}
		if id != first {
			t.Errorf("expected one schedule, got %s and %s", first, id)
		}
	}

	var count int64
	if err := db.Model(&models.DailySchedule{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("counting schedules: %v", err)
	}
	if count != 1 {
		t.Errorf("expected a single schedule row, got %d", count)
	}
}
