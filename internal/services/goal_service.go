package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/derrickhua/achieve-arcade-sub000/internal/dto"
	"github.com/derrickhua/achieve-arcade-sub000/internal/models"
	"github.com/derrickhua/achieve-arcade-sub000/internal/scope"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrGoalNotFound      = errors.New("goal not found")
	ErrMilestoneNotFound = errors.New("milestone not found")
	ErrMilestoneDeadline = errors.New("milestone deadline cannot exceed the goal deadline")
)

type GoalService struct {
	db        *gorm.DB
	suggester MilestoneSuggester
}

func NewGoalService(db *gorm.DB, suggester MilestoneSuggester) *GoalService {
	return &GoalService{db: db, suggester: suggester}
}

func (s *GoalService) CreateGoal(userID uuid.UUID, req *dto.CreateGoalRequest) (*models.Goal, error) {
	if req.Title == "" {
		return nil, errors.New("title is required")
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyEasy
	}
	if !validGoalDifficulty(difficulty) {
		return nil, ErrInvalidDifficulty
	}

	goal := models.Goal{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		Difficulty:  difficulty,
		Category:    req.Category,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&goal).Error; err != nil {
			return fmt.Errorf("failed to create goal: %w", err)
		}
		return appendHistory(tx, goal.ID, "created", "Goal created")
	})
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (s *GoalService) GetGoals(userID uuid.UUID) ([]models.Goal, error) {
	var goals []models.Goal
	err := s.db.Scopes(scope.ForUser(userID)).
		Preload("Milestones", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC").
		Find(&goals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch goals: %w", err)
	}
	return goals, nil
}

func (s *GoalService) GetGoal(userID, goalID uuid.UUID) (*models.Goal, error) {
	var goal models.Goal
	err := s.db.Scopes(scope.ForUser(userID)).
		Preload("Milestones", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&goal, "id = ?", goalID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to fetch goal: %w", err)
	}
	return &goal, nil
}

func (s *GoalService) UpdateGoal(userID, goalID uuid.UUID, req *dto.UpdateGoalRequest) (*models.Goal, error) {
	goal, err := s.GetGoal(userID, goalID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		goal.Title = *req.Title
	}
	if req.Description != nil {
		goal.Description = *req.Description
	}
	if req.Deadline != nil {
		goal.Deadline = *req.Deadline
	}
	if req.Difficulty != nil {
		if !validGoalDifficulty(*req.Difficulty) {
			return nil, ErrInvalidDifficulty
		}
		goal.Difficulty = *req.Difficulty
	}

	if err := s.db.Save(goal).Error; err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return goal, nil
}

func (s *GoalService) UpdateCategory(userID, goalID uuid.UUID, category string) (*models.Goal, error) {
	goal, err := s.GetGoal(userID, goalID)
	if err != nil {
		return nil, err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(goal).Update("category", category).Error; err != nil {
			return fmt.Errorf("failed to update category: %w", err)
		}
		return appendHistory(tx, goal.ID, "category_changed", "Category set to "+category)
	})
	if err != nil {
		return nil, err
	}
	goal.Category = category
	return goal, nil
}

func (s *GoalService) DeleteGoal(userID, goalID uuid.UUID) error {
	goal, err := s.GetGoal(userID, goalID)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		tx.Where("goal_id = ?", goal.ID).Delete(&models.Milestone{})
		tx.Where("goal_id = ?", goal.ID).Delete(&models.GoalHistory{})
		return tx.Delete(goal).Error
	})
}

func (s *GoalService) GetHistory(userID, goalID uuid.UUID) ([]models.GoalHistory, error) {
	goal, err := s.GetGoal(userID, goalID)
	if err != nil {
		return nil, err
	}
	var history []models.GoalHistory
	if err := s.db.Where("goal_id = ?", goal.ID).Order("date DESC").Find(&history).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	return history, nil
}

func (s *GoalService) AddMilestone(userID, goalID uuid.UUID, req *dto.CreateMilestoneRequest) (*models.Milestone, error) {
	goal, err := s.GetGoal(userID, goalID)
	if err != nil {
		return nil, err
	}
	if req.Title == "" {
		return nil, errors.New("title is required")
	}
	if !goal.Deadline.IsZero() && req.Deadline.After(goal.Deadline) {
		return nil, ErrMilestoneDeadline
	}

	milestone := models.Milestone{
		ID:          uuid.New(),
		GoalID:      goal.ID,
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		Position:    len(goal.Milestones),
	}
	if err := s.db.Create(&milestone).Error; err != nil {
		return nil, fmt.Errorf("failed to create milestone: %w", err)
	}
	return &milestone, nil
}

func (s *GoalService) UpdateMilestone(userID, goalID, milestoneID uuid.UUID, req *dto.UpdateMilestoneRequest) (*models.Milestone, error) {
	goal, err := s.GetGoal(userID, goalID)
	if err != nil {
		return nil, err
	}

	var milestone models.Milestone
	if err := s.db.Where("goal_id = ?", goal.ID).First(&milestone, "id = ?", milestoneID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMilestoneNotFound
		}
		return nil, fmt.Errorf("failed to fetch milestone: %w", err)
	}

	if req.Title != nil {
		milestone.Title = *req.Title
	}
	if req.Description != nil {
		milestone.Description = *req.Description
	}
	if req.Deadline != nil {
		if !goal.Deadline.IsZero() && req.Deadline.After(goal.Deadline) {
			return nil, ErrMilestoneDeadline
		}
		milestone.Deadline = *req.Deadline
	}

	if err := s.db.Save(&milestone).Error; err != nil {
		return nil, fmt.Errorf("failed to update milestone: %w", err)
	}
	return &milestone, nil
}

func (s *GoalService) DeleteMilestone(userID, goalID, milestoneID uuid.UUID) error {
	goal, err := s.GetGoal(userID, goalID)
	if err != nil {
		return err
	}
	result := s.db.Where("goal_id = ? AND id = ?", goal.ID, milestoneID).Delete(&models.Milestone{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete milestone: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMilestoneNotFound
	}
	return nil
}

// CompleteMilestone flips the milestone, pays the difficulty-tiered bonus, and
// completes the goal when this was the last open milestone. Whether it was the
// last one is verified against the milestone rows, never taken from the
// caller. Completing an already-complete milestone is a no-op.
func (s *GoalService) CompleteMilestone(userID, goalID, milestoneID uuid.UUID) (*dto.CompleteMilestoneResponse, error) {
	resp := &dto.CompleteMilestoneResponse{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var goal models.Goal
		if err := tx.Scopes(scope.ForUser(userID)).First(&goal, "id = ?", goalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGoalNotFound
			}
			return fmt.Errorf("failed to fetch goal: %w", err)
		}

		var milestone models.Milestone
		if err := tx.Where("goal_id = ?", goal.ID).First(&milestone, "id = ?", milestoneID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMilestoneNotFound
			}
			return fmt.Errorf("failed to fetch milestone: %w", err)
		}

		if milestone.Completed {
			resp.GoalCompleted = goal.Completed
			return nil
		}

		var remaining int64
		if err := tx.Model(&models.Milestone{}).
			Where("goal_id = ? AND id != ? AND completed = false", goal.ID, milestone.ID).
			Count(&remaining).Error; err != nil {
			return fmt.Errorf("failed to count milestones: %w", err)
		}
		isFinal := remaining == 0

		amount := milestoneCoinValue(goal.Difficulty, isFinal)
		if err := CreditCoins(tx, userID, amount); err != nil {
			return err
		}

		now := time.Now()
		milestone.Completed = true
		milestone.CompletionDate = &now
		if err := tx.Save(&milestone).Error; err != nil {
			return fmt.Errorf("failed to complete milestone: %w", err)
		}

		if err := appendHistory(tx, goal.ID, "milestone_completed", "Completed milestone: "+milestone.Title); err != nil {
			return err
		}

		if isFinal {
			if err := tx.Model(&goal).Update("completed", true).Error; err != nil {
				return fmt.Errorf("failed to complete goal: %w", err)
			}
			if err := appendHistory(tx, goal.ID, "completed", "All milestones completed"); err != nil {
				return err
			}
		}

		resp.CoinsAwarded = amount
		resp.GoalCompleted = isFinal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GenerateMilestones asks the suggestion service for milestones and appends
// them. Failures are logged, never surfaced: the goal simply stays without
// milestones until the user adds some.
func (s *GoalService) GenerateMilestones(userID, goalID uuid.UUID) {
	goal, err := s.GetGoal(userID, goalID)
	if err != nil {
		slog.Error("milestone generation failed", "goal_id", goalID, "error", err)
		return
	}

	suggestions, err := s.suggester.Suggest(goal)
	if err != nil {
		slog.Error("milestone generation failed", "goal_id", goal.ID, "error", err)
		return
	}

	position := len(goal.Milestones)
	for _, sug := range suggestions {
		deadline := sug.Deadline
		if !goal.Deadline.IsZero() && (deadline.IsZero() || deadline.After(goal.Deadline)) {
			deadline = goal.Deadline
		}
		milestone := models.Milestone{
			ID:          uuid.New(),
			GoalID:      goal.ID,
			Title:       sug.Title,
			Description: sug.Description,
			Deadline:    deadline,
			Position:    position,
		}
		if err := s.db.Create(&milestone).Error; err != nil {
			slog.Error("failed to save generated milestone", "goal_id", goal.ID, "error", err)
			return
		}
		position++
	}
	slog.Info("milestones generated", "goal_id", goal.ID, "count", len(suggestions))
}

func appendHistory(tx *gorm.DB, goalID uuid.UUID, action, description string) error {
	entry := models.GoalHistory{
		ID:          uuid.New(),
		GoalID:      goalID,
		Date:        time.Now(),
		Action:      action,
		Description: description,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

func validGoalDifficulty(d string) bool {
	for _, v := range models.GoalDifficulties {
		if v == d {
			return true
		}
	}
	return false
}
