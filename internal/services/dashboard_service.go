package services

import (
	"fmt"

	"github.com/derrickhua/achieve-arcade-sub000/internal/dto"
	"github.com/derrickhua/achieve-arcade-sub000/internal/models"
	"github.com/derrickhua/achieve-arcade-sub000/internal/scope"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// GetMetrics aggregates cross-entity metrics fresh on every call; there is no
// caching layer.
func (s *DashboardService) GetMetrics(userID uuid.UUID) (*dto.DashboardResponse, error) {
	resp := &dto.DashboardResponse{}

	var err error
	if resp.Tasks, err = s.taskMetrics(userID); err != nil {
		return nil, err
	}
	if resp.TimeBlocks, err = s.timeBlockMetrics(userID); err != nil {
		return nil, err
	}
	if resp.Habits, err = s.habitMetrics(userID); err != nil {
		return nil, err
	}
	if resp.Goals, err = s.goalMetrics(userID); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *DashboardService) taskMetrics(userID uuid.UUID) (dto.TaskMetrics, error) {
	var m dto.TaskMetrics
	base := s.db.Model(&models.Task{}).Scopes(scope.ForUser(userID))
	if err := base.Session(&gorm.Session{}).Count(&m.Total).Error; err != nil {
		return m, fmt.Errorf("failed to count tasks: %w", err)
	}
	if err := base.Session(&gorm.Session{}).Where("completed = true").Count(&m.Completed).Error; err != nil {
		return m, fmt.Errorf("failed to count completed tasks: %w", err)
	}
	if m.Total > 0 {
		m.CompletionRate = float64(m.Completed) / float64(m.Total)
	}
	return m, nil
}

func (s *DashboardService) timeBlockMetrics(userID uuid.UUID) (dto.TimeBlockMetrics, error) {
	m := dto.TimeBlockMetrics{HoursByCategory: map[string]float64{}}
	base := s.db.Model(&models.TimeBlock{}).Scopes(scope.ForUser(userID))
	if err := base.Session(&gorm.Session{}).Count(&m.Total).Error; err != nil {
		return m, fmt.Errorf("failed to count time blocks: %w", err)
	}
	if err := base.Session(&gorm.Session{}).Where("completed = true").Count(&m.Completed).Error; err != nil {
		return m, fmt.Errorf("failed to count completed blocks: %w", err)
	}
	if m.Total > 0 {
		m.Efficiency = float64(m.Completed) / float64(m.Total)
	}

	type row struct {
		Category string
		Seconds  int64
	}
	var rows []row
	err := s.db.Model(&models.TimeBlock{}).
		Scopes(scope.ForUser(userID)).
		Select("category, COALESCE(SUM(timer_duration), 0) AS seconds").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return m, fmt.Errorf("failed to aggregate block hours: %w", err)
	}
	for _, r := range rows {
		m.HoursByCategory[r.Category] = float64(r.Seconds) / 3600
	}
	return m, nil
}

func (s *DashboardService) habitMetrics(userID uuid.UUID) (dto.HabitMetrics, error) {
	var m dto.HabitMetrics
	base := s.db.Model(&models.Habit{}).Scopes(scope.ForUser(userID))
	if err := base.Session(&gorm.Session{}).Count(&m.Total).Error; err != nil {
		return m, fmt.Errorf("failed to count habits: %w", err)
	}

	type row struct {
		Best   int
		Active int64
	}
	var r row
	err := s.db.Model(&models.Habit{}).
		Scopes(scope.ForUser(userID)).
		Select("COALESCE(MAX(streak), 0) AS best, COUNT(*) FILTER (WHERE streak > 0) AS active").
		Scan(&r).Error
	if err != nil {
		return m, fmt.Errorf("failed to aggregate habit streaks: %w", err)
	}
	m.BestStreak = r.Best
	if m.Total > 0 {
		m.Adherence = float64(r.Active) / float64(m.Total)
	}
	return m, nil
}

func (s *DashboardService) goalMetrics(userID uuid.UUID) (dto.GoalMetrics, error) {
	var m dto.GoalMetrics
	base := s.db.Model(&models.Goal{}).Scopes(scope.ForUser(userID))
	if err := base.Session(&gorm.Session{}).Count(&m.Total).Error; err != nil {
		return m, fmt.Errorf("failed to count goals: %w", err)
	}
	if err := base.Session(&gorm.Session{}).Where("completed = true").Count(&m.Completed).Error; err != nil {
		return m, fmt.Errorf("failed to count completed goals: %w", err)
	}

	var milestonesTotal int64
	goalIDs := s.db.Model(&models.Goal{}).Select("id").Where("user_id = ?", userID)
	if err := s.db.Model(&models.Milestone{}).Where("goal_id IN (?)", goalIDs).Count(&milestonesTotal).Error; err != nil {
		return m, fmt.Errorf("failed to count milestones: %w", err)
	}
	if err := s.db.Model(&models.Milestone{}).
		Where("goal_id IN (?) AND completed = true", goalIDs).
		Count(&m.MilestonesCompleted).Error; err != nil {
		return m, fmt.Errorf("failed to count completed milestones: %w", err)
	}
	if milestonesTotal > 0 {
		m.Progress = float64(m.MilestonesCompleted) / float64(milestonesTotal)
	}
	return m, nil
}
