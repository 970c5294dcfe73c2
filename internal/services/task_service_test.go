package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/derrickhua/achieve-arcade-sub000/internal/dto"
	"github.com/derrickhua/achieve-arcade-sub000/internal/models"
	"github.com/derrickhua/achieve-arcade-sub000/internal/services"
	"github.com/derrickhua/achieve-arcade-sub000/internal/testutil"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func createWorkBlock(t *testing.T, db *gorm.DB, userID uuid.UUID, hours int) *models.TimeBlock {
	t.Helper()
	scheduleService := services.NewScheduleService(db)
	start := time.Now()
	block, err := scheduleService.AddTimeBlock(userID, &dto.CreateTimeBlockRequest{
		Name:      "Deep work",
		Category:  models.CategoryWork,
		StartTime: start,
		EndTime:   start.Add(time.Duration(hours) * time.Hour),
	})
	if err != nil {
		t.Fatalf("creating time block: %v", err)
	}
	return block
}

func TestCompleteTask_PaysByDifficulty(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewTaskService(db)

	cases := []struct {
		difficulty string
		coins      int
	}{
		{models.DifficultyEasy, 1},
		{models.DifficultyMedium, 2},
		{models.DifficultyHard, 3},
	}

	for _, tc := range cases {
		user := createTestUser(t, db, 0)
		task, err := svc.CreateTask(user.ID, &dto.CreateTaskRequest{
			Name: "Slay " + tc.difficulty, Difficulty: tc.difficulty,
		})
		if err != nil {
			t.Fatalf("creating %s task: %v", tc.difficulty, err)
		}

		if _, err := svc.CompleteTask(user.ID, task.ID); err != nil {
			t.Fatalf("completing %s task: %v", tc.difficulty, err)
		}
		if got := coinBalance(t, db, user.ID); got != tc.coins {
			t.Errorf("%s task: expected %d coins, got %d", tc.difficulty, tc.coins, got)
		}
	}
}

func TestCompleteTask_TimeBlockBonusFloors(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewTaskService(db)
	user := createTestUser(t, db, 0)
	block := createWorkBlock(t, db, user.ID, 2)

	// Hard in a block: 3 * 1.5 = 4.5, floored to 4. Completing the block's
	// only task also completes the block, which pays its own 4 for a 2h
	// work block.
	task, err := svc.CreateTask(user.ID, &dto.CreateTaskRequest{
		Name: "Focused work", Difficulty: models.DifficultyHard, TimeBlockID: &block.ID,
	})
	if err != nil {
		t.Fatalf("creating task: %v", err)
	}

	if _, err := svc.CompleteTask(user.ID, task.ID); err != nil {
		t.Fatalf("completing task: %v", err)
	}
	if got := coinBalance(t, db, user.ID); got != 8 {
		t.Errorf("expected 8 coins (4 task + 4 block), got %d", got)
	}

	var saved models.TimeBlock
	if err := db.First(&saved, "id = ?", block.ID).Error; err != nil {
		t.Fatalf("fetching block: %v", err)
	}
	if !saved.Completed {
		t.Error("expected block to complete when its last task does")
	}
}

func TestCompleteTask_Idempotent(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewTaskService(db)
	user := createTestUser(t, db, 0)

	task, err := svc.CreateTask(user.ID, &dto.CreateTaskRequest{
		Name: "Once only", Difficulty: models.DifficultyMedium,
	})
	if err != nil {
		t.Fatalf("creating task: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.CompleteTask(user.ID, task.ID); err != nil {
			t.Fatalf("completion %d: %v", i+1, err)
		}
	}
	if got := coinBalance(t, db, user.ID); got != 2 {
		t.Errorf("repeated completion must pay once, got %d coins", got)
	}
}

func TestUpdateTask_UncompleteReversesAward(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewTaskService(db)
	user := createTestUser(t, db, 0)

	task, err := svc.CreateTask(user.ID, &dto.CreateTaskRequest{
		Name: "Flip flop", Difficulty: models.DifficultyHard,
	})
	if err != nil {
		t.Fatalf("creating task: %v", err)
	}

	if _, err := svc.CompleteTask(user.ID, task.ID); err != nil {
		t.Fatalf("completing task: %v", err)
	}

	incomplete := false
	if _, err := svc.UpdateTask(user.ID, task.ID, &dto.UpdateTaskRequest{Completed: &incomplete}); err != nil {
		t.Fatalf("un-completing task: %v", err)
	}
	if got := coinBalance(t, db, user.ID); got != 0 {
		t.Errorf("expected balance back to 0, got %d", got)
	}
}

func TestCreateTask_InvalidDifficulty(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewTaskService(db)
	user := createTestUser(t, db, 0)

	_, err := svc.CreateTask(user.ID, &dto.CreateTaskRequest{Name: "Bad", Difficulty: "Impossible"})
	if !errors.Is(err, services.ErrInvalidDifficulty) {
		t.Errorf("expected ErrInvalidDifficulty, got %v", err)
	}
}

func TestCreateTask_RejectsForeignBlock(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewTaskService(db)
	owner := createTestUser(t, db, 0)
	intruder := createTestUser(t, db, 0)
	block := createWorkBlock(t, db, owner.ID, 1)

	_, err := svc.CreateTask(intruder.ID, &dto.CreateTaskRequest{
		Name: "Stolen slot", TimeBlockID: &block.ID,
	})
	if !errors.Is(err, services.ErrTimeBlockNotFound) {
		t.Errorf("expected ErrTimeBlockNotFound, got %v", err)
	}
}

func TestDeleteTask_CompletesBlockWhenLastIncompleteGoes(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewTaskService(db)
	user := createTestUser(t, db, 0)
	block := createWorkBlock(t, db, user.ID, 1)

	done, err := svc.CreateTask(user.ID, &dto.CreateTaskRequest{
		Name: "Done", Difficulty: models.DifficultyEasy, TimeBlockID: &block.ID,
	})
	if err != nil {
		t.Fatalf("creating task: %v", err)
	}
	if _, err := svc.CompleteTask(user.ID, done.ID); err != nil {
		t.Fatalf("completing task: %v", err)
	}

	pending, err := svc.CreateTask(user.ID, &dto.CreateTaskRequest{
		Name: "Pending", Difficulty: models.DifficultyEasy, TimeBlockID: &block.ID,
	})
	if err != nil {
		t.Fatalf("creating task: %v", err)
	}

	if err := svc.DeleteTask(user.ID, pending.ID); err != nil {
		t.Fatalf("deleting task: %v", err)
	}

	var saved models.TimeBlock
	if err := db.First(&saved, "id = ?", block.ID).Error; err != nil {
		t.Fatalf("fetching block: %v", err)
	}
	if !saved.Completed {
		t.Error("expected block to complete after the only incomplete task was removed")
	}
}

func TestCreateTask_RollsBackWhenBlockReversalFails(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	svc := services.NewTaskService(db)
	scheduleService := services.NewScheduleService(db)
	user := createTestUser(t, db, 0)
	block := createWorkBlock(t, db, user.ID, 2)

	// Complete the empty block (pays 4), then spend the coins so the
	// reversal triggered by attaching an incomplete task cannot be funded.
	if _, err := scheduleService.CompleteTimeBlock(user.ID, block.ID); err != nil {
		t.Fatalf("completing block: %v", err)
	}
	if err := services.DebitCoins(db, user.ID, 4); err != nil {
		t.Fatalf("spending coins: %v", err)
	}

	_, err := svc.CreateTask(user.ID, &dto.CreateTaskRequest{
		Name: "Late addition", Difficulty: models.DifficultyEasy, TimeBlockID: &block.ID,
	})
	if !errors.Is(err, services.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// The failed sync must take the task row down with it: a persisted
	// incomplete task under a completed block would break the derived flag.
	var count int64
	if err := db.Model(&models.Task{}).Where("time_block_id = ?", block.ID).Count(&count).Error; err != nil {
		t.Fatalf("counting tasks: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no task rows after rollback, got %d", count)
	}

	var saved models.TimeBlock
	if err := db.First(&saved, "id = ?", block.ID).Error; err != nil {
		t.Fatalf("fetching block: %v", err)
	}
	if !saved.Completed {
		t.Error("expected block to stay completed after rollback")
	}
}
