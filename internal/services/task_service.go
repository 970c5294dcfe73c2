package services

import (
	"errors"
	"fmt"

	"github.com/derrickhua/achieve-arcade-sub000/internal/dto"
	"github.com/derrickhua/achieve-arcade-sub000/internal/models"
	"github.com/derrickhua/achieve-arcade-sub000/internal/scope"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
)

type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

func (s *TaskService) CreateTask(userID uuid.UUID, req *dto.CreateTaskRequest) (*models.Task, error) {
	if req.Name == "" {
		return nil, errors.New("name is required")
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyEasy
	}
	if !validTaskDifficulty(difficulty) {
		return nil, ErrInvalidDifficulty
	}

	if req.TimeBlockID != nil {
		var block models.TimeBlock
		if err := s.db.Scopes(scope.ForUser(userID)).First(&block, "id = ?", *req.TimeBlockID).Error; err != nil {
			return nil, ErrTimeBlockNotFound
		}
	}

	task := models.Task{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        req.Name,
		Difficulty:  difficulty,
		Monster:     req.Monster,
		TimeBlockID: req.TimeBlockID,
	}

	// The create and the block sync share one transaction: a new incomplete
	// task can knock its block out of completeness, and if the reversal debit
	// fails the task must not survive either.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&task).Error; err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		if task.TimeBlockID != nil {
			return syncBlockCompletion(tx, userID, *task.TimeBlockID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &task, nil
}

func (s *TaskService) GetTasks(userID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.Scopes(scope.ForUser(userID)).Order("created_at DESC").Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) GetTask(userID, taskID uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := s.db.Scopes(scope.ForUser(userID)).First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to fetch task: %w", err)
	}
	return &task, nil
}

// UpdateTask applies field changes, and when the completed flag flips it runs
// the coin award (or its reversal) and the owning block's derived-state sync
// inside one transaction.
func (s *TaskService) UpdateTask(userID, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*models.Task, error) {
	var task models.Task
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(scope.ForUser(userID)).First(&task, "id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return fmt.Errorf("failed to fetch task: %w", err)
		}

		if req.Name != nil {
			task.Name = *req.Name
		}
		if req.Difficulty != nil {
			if !validTaskDifficulty(*req.Difficulty) {
				return ErrInvalidDifficulty
			}
			task.Difficulty = *req.Difficulty
		}
		if req.Monster != nil {
			task.Monster = *req.Monster
		}

		completionChanged := false
		if req.Completed != nil && *req.Completed != task.Completed {
			amount := taskCoinValue(task.Difficulty, task.TimeBlockID != nil)
			if *req.Completed {
				if err := CreditCoins(tx, userID, amount); err != nil {
					return err
				}
			} else {
				if err := DebitCoins(tx, userID, amount); err != nil {
					return err
				}
			}
			task.Completed = *req.Completed
			completionChanged = true
		}

		if err := tx.Save(&task).Error; err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		if completionChanged && task.TimeBlockID != nil {
			return syncBlockCompletion(tx, userID, *task.TimeBlockID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// CompleteTask marks the task complete and pays its coin value. Completing an
// already-complete task is a no-op and pays nothing.
func (s *TaskService) CompleteTask(userID, taskID uuid.UUID) (*models.Task, error) {
	completed := true
	return s.UpdateTask(userID, taskID, &dto.UpdateTaskRequest{Completed: &completed})
}

func (s *TaskService) DeleteTask(userID, taskID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Scopes(scope.ForUser(userID)).First(&task, "id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return fmt.Errorf("failed to fetch task: %w", err)
		}

		if err := tx.Delete(&task).Error; err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		// Removing the last incomplete task can complete the block.
		if task.TimeBlockID != nil {
			return syncBlockCompletion(tx, userID, *task.TimeBlockID)
		}
		return nil
	})
}

func validTaskDifficulty(d string) bool {
	for _, v := range models.TaskDifficulties {
		if v == d {
			return true
		}
	}
	return false
}
