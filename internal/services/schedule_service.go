package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/derrickhua/achieve-arcade-sub000/internal/dto"
	"github.com/derrickhua/achieve-arcade-sub000/internal/models"
	"github.com/derrickhua/achieve-arcade-sub000/internal/scope"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTimeBlockNotFound = errors.New("time block not found")
	ErrScheduleNotFound  = errors.New("daily schedule not found")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrInvalidInterval   = errors.New("end time must be after start time")
	ErrBlockHasTasks     = errors.New("completion of a block with tasks is derived from its tasks")
)

type ScheduleService struct {
	db *gorm.DB
}

func NewScheduleService(db *gorm.DB) *ScheduleService {
	return &ScheduleService{db: db}
}

// midnight truncates a time to the start of its UTC day.
func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// weekBounds returns the Monday 00:00 UTC start and the exclusive end of the
// ISO week containing t.
func weekBounds(t time.Time) (time.Time, time.Time) {
	day := midnight(t)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	start := day.AddDate(0, 0, -(weekday - 1))
	return start, start.AddDate(0, 0, 7)
}

// GetOrCreateToday returns today's schedule, creating an empty one on first
// read. This is the only creation path; missed days are never backfilled.
func (s *ScheduleService) GetOrCreateToday(userID uuid.UUID) (*models.DailySchedule, error) {
	today := midnight(time.Now())

	var schedule models.DailySchedule
	err := s.db.Scopes(scope.ForUser(userID)).
		Preload("TimeBlocks", func(db *gorm.DB) *gorm.DB { return db.Order("start_time ASC") }).
		Preload("TimeBlocks.Tasks").
		Where("date = ?", today).
		First(&schedule).Error
	if err == nil {
		return &schedule, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}

	schedule = models.DailySchedule{
		ID:     uuid.New(),
		UserID: userID,
		Date:   today,
	}
	if err := s.db.Create(&schedule).Error; err != nil {
		// A concurrent first read can win the insert; the unique
		// (user_id, date) index turns the loser's create into a re-fetch.
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			var existing models.DailySchedule
			fetchErr := s.db.Scopes(scope.ForUser(userID)).
				Preload("TimeBlocks", func(db *gorm.DB) *gorm.DB { return db.Order("start_time ASC") }).
				Preload("TimeBlocks.Tasks").
				Where("date = ?", today).
				First(&existing).Error
			if fetchErr == nil {
				return &existing, nil
			}
		}
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}
	return &schedule, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed"))
}

func (s *ScheduleService) UpdateNotes(userID uuid.UUID, notes string) (*models.DailySchedule, error) {
	schedule, err := s.GetOrCreateToday(userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(schedule).Update("notes", notes).Error; err != nil {
		return nil, fmt.Errorf("failed to update notes: %w", err)
	}
	schedule.Notes = notes
	return schedule, nil
}

func (s *ScheduleService) AddTimeBlock(userID uuid.UUID, req *dto.CreateTimeBlockRequest) (*models.TimeBlock, error) {
	if req.Name == "" {
		return nil, errors.New("name is required")
	}
	if !validCategory(req.Category) {
		return nil, ErrInvalidCategory
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidInterval
	}

	schedule, err := s.GetOrCreateToday(userID)
	if err != nil {
		return nil, err
	}

	block := models.TimeBlock{
		ID:              uuid.New(),
		UserID:          userID,
		DailyScheduleID: schedule.ID,
		Name:            req.Name,
		Category:        req.Category,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
	}
	if err := s.db.Create(&block).Error; err != nil {
		return nil, fmt.Errorf("failed to create time block: %w", err)
	}
	return &block, nil
}

func (s *ScheduleService) GetTimeBlock(userID, blockID uuid.UUID) (*models.TimeBlock, error) {
	var block models.TimeBlock
	err := s.db.Scopes(scope.ForUser(userID)).Preload("Tasks").First(&block, "id = ?", blockID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimeBlockNotFound
		}
		return nil, fmt.Errorf("failed to fetch time block: %w", err)
	}
	return &block, nil
}

func (s *ScheduleService) UpdateTimeBlock(userID, blockID uuid.UUID, req *dto.UpdateTimeBlockRequest) (*models.TimeBlock, error) {
	block, err := s.GetTimeBlock(userID, blockID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		block.Name = *req.Name
	}
	if req.Category != nil {
		if !validCategory(*req.Category) {
			return nil, ErrInvalidCategory
		}
		block.Category = *req.Category
	}
	if req.StartTime != nil {
		block.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		block.EndTime = *req.EndTime
	}
	if !block.EndTime.After(block.StartTime) {
		return nil, ErrInvalidInterval
	}

	if err := s.db.Save(block).Error; err != nil {
		return nil, fmt.Errorf("failed to update time block: %w", err)
	}
	return block, nil
}

func (s *ScheduleService) DeleteTimeBlock(userID, blockID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var block models.TimeBlock
		if err := tx.Scopes(scope.ForUser(userID)).First(&block, "id = ?", blockID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTimeBlockNotFound
			}
			return fmt.Errorf("failed to fetch time block: %w", err)
		}

		// Detach tasks rather than delete them; a task's lifecycle is
		// independent of its block.
		if err := tx.Model(&models.Task{}).
			Where("time_block_id = ?", block.ID).
			Update("time_block_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach tasks: %w", err)
		}

		return tx.Delete(&block).Error
	})
}

// CompleteTimeBlock is the direct user toggle. It only applies to blocks with
// no tasks; blocks with tasks change state through the task cascade.
func (s *ScheduleService) CompleteTimeBlock(userID, blockID uuid.UUID) (*models.TimeBlock, error) {
	var block *models.TimeBlock
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		block, err = loadBlockForToggle(tx, userID, blockID)
		if err != nil {
			return err
		}
		return completeBlockTx(tx, block)
	})
	if err != nil {
		return nil, err
	}
	return block, nil
}

// IncompleteTimeBlock reverses a direct completion: the same tiered amount is
// debited and the timer resets.
func (s *ScheduleService) IncompleteTimeBlock(userID, blockID uuid.UUID) (*models.TimeBlock, error) {
	var block *models.TimeBlock
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		block, err = loadBlockForToggle(tx, userID, blockID)
		if err != nil {
			return err
		}
		return incompleteBlockTx(tx, block)
	})
	if err != nil {
		return nil, err
	}
	return block, nil
}

func loadBlockForToggle(tx *gorm.DB, userID, blockID uuid.UUID) (*models.TimeBlock, error) {
	var block models.TimeBlock
	if err := tx.Scopes(scope.ForUser(userID)).Preload("Tasks").First(&block, "id = ?", blockID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimeBlockNotFound
		}
		return nil, fmt.Errorf("failed to fetch time block: %w", err)
	}
	if len(block.Tasks) > 0 {
		return nil, ErrBlockHasTasks
	}
	return &block, nil
}

// completeBlockTx awards the duration-tiered coins and marks the block
// complete. No-op when already complete.
func completeBlockTx(tx *gorm.DB, block *models.TimeBlock) error {
	if block.Completed {
		return nil
	}

	if block.TimerDuration == 0 {
		block.TimerDuration = int(block.EndTime.Sub(block.StartTime).Seconds())
	}

	amount := blockCoinValue(block.Category, block.TimerDuration)
	if err := CreditCoins(tx, block.UserID, amount); err != nil {
		return err
	}

	block.Completed = true
	if err := tx.Save(block).Error; err != nil {
		return fmt.Errorf("failed to complete time block: %w", err)
	}
	return nil
}

// incompleteBlockTx is the symmetric reversal: same tier debited, timer reset.
func incompleteBlockTx(tx *gorm.DB, block *models.TimeBlock) error {
	if !block.Completed {
		return nil
	}

	amount := blockCoinValue(block.Category, block.TimerDuration)
	if err := DebitCoins(tx, block.UserID, amount); err != nil {
		return err
	}

	block.Completed = false
	block.TimerDuration = 0
	if err := tx.Model(block).Updates(map[string]interface{}{
		"completed":      false,
		"timer_duration": 0,
	}).Error; err != nil {
		return fmt.Errorf("failed to reset time block: %w", err)
	}
	return nil
}

// syncBlockCompletion recomputes a block's derived completed flag from its
// tasks after a task mutation: complete iff every task is complete. State
// transitions run the award or its reversal.
func syncBlockCompletion(tx *gorm.DB, userID, blockID uuid.UUID) error {
	var block models.TimeBlock
	if err := tx.Scopes(scope.ForUser(userID)).Preload("Tasks").First(&block, "id = ?", blockID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTimeBlockNotFound
		}
		return fmt.Errorf("failed to fetch time block: %w", err)
	}

	if len(block.Tasks) == 0 {
		// Empty blocks keep whatever the user toggled.
		return nil
	}

	allComplete := true
	for _, t := range block.Tasks {
		if !t.Completed {
			allComplete = false
			break
		}
	}

	if allComplete && !block.Completed {
		return completeBlockTx(tx, &block)
	}
	if !allComplete && block.Completed {
		return incompleteBlockTx(tx, &block)
	}
	return nil
}

// GetWeeklyMetrics sums timer durations by category over the week containing
// the given date and merges them with the user's weekly hour targets.
func (s *ScheduleService) GetWeeklyMetrics(userID uuid.UUID, date time.Time) (*dto.WeeklyMetricsResponse, error) {
	start, end := weekBounds(date)

	type row struct {
		Category string
		Seconds  int64
	}
	var rows []row
	err := s.db.Model(&models.TimeBlock{}).
		Scopes(scope.ForUser(userID)).
		Select("category, COALESCE(SUM(timer_duration), 0) AS seconds").
		Where("start_time >= ? AND start_time < ?", start, end).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate weekly metrics: %w", err)
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	hours := map[string]float64{}
	for _, r := range rows {
		hours[r.Category] = float64(r.Seconds) / 3600
	}
	goals := map[string]float64{
		models.CategoryWork:          user.WorkHoursGoal,
		models.CategoryLeisure:       user.LeisureHoursGoal,
		models.CategoryFamilyFriends: user.FamilyFriendsHoursGoal,
		models.CategoryAtelic:        user.AtelicHoursGoal,
	}

	resp := &dto.WeeklyMetricsResponse{WeekStart: start, WeekEnd: end}
	for _, cat := range models.TimeBlockCategories {
		resp.Categories = append(resp.Categories, dto.CategoryHours{
			Category:  cat,
			Hours:     hours[cat],
			GoalHours: goals[cat],
		})
		resp.TotalHours += hours[cat]
	}
	return resp, nil
}

func validCategory(c string) bool {
	for _, v := range models.TimeBlockCategories {
		if v == c {
			return true
		}
	}
	return false
}
