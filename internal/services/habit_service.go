package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/derrickhua/achieve-arcade-sub000/internal/dto"
	"github.com/derrickhua/achieve-arcade-sub000/internal/models"
	"github.com/derrickhua/achieve-arcade-sub000/internal/scope"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrHabitNotFound     = errors.New("habit not found")
	ErrInvalidPeriod     = errors.New("invalid habit period")
	ErrInvalidGoal       = errors.New("consistency goal must be positive")
	ErrGoalDateInPast    = errors.New("effective date cannot be in the past")
	ErrGoalDateNotAfter  = errors.New("effective date must be after the current goal's")
	ErrNoConsistencyGoal = errors.New("habit has no consistency goal")
)

type HabitService struct {
	db *gorm.DB
}

func NewHabitService(db *gorm.DB) *HabitService {
	return &HabitService{db: db}
}

func (s *HabitService) CreateHabit(userID uuid.UUID, req *dto.CreateHabitRequest) (*models.Habit, error) {
	if req.Name == "" {
		return nil, errors.New("name is required")
	}
	period := req.HabitPeriod
	if period == "" {
		period = models.PeriodDaily
	}
	if !validPeriod(period) {
		return nil, ErrInvalidPeriod
	}
	if req.Goal <= 0 {
		return nil, ErrInvalidGoal
	}

	// Normalized like UpdateGoal's input, so the strictly-after comparison
	// between successive goals never hinges on a time-of-day remainder.
	effective := midnight(req.EffectiveDate)
	if req.EffectiveDate.IsZero() {
		effective = midnight(time.Now())
	}

	habit := models.Habit{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        req.Name,
		HabitPeriod: period,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&habit).Error; err != nil {
			return fmt.Errorf("failed to create habit: %w", err)
		}
		goal := models.ConsistencyGoal{
			ID:            uuid.New(),
			HabitID:       habit.ID,
			Goal:          req.Goal,
			EffectiveDate: effective,
		}
		return tx.Create(&goal).Error
	})
	if err != nil {
		return nil, err
	}
	return &habit, nil
}

func (s *HabitService) GetHabits(userID uuid.UUID) ([]models.Habit, error) {
	var habits []models.Habit
	err := s.db.Scopes(scope.ForUser(userID)).
		Preload("ConsistencyGoals", func(db *gorm.DB) *gorm.DB { return db.Order("effective_date DESC") }).
		Order("created_at ASC").
		Find(&habits).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch habits: %w", err)
	}
	return habits, nil
}

func (s *HabitService) GetHabit(userID, habitID uuid.UUID) (*models.Habit, error) {
	var habit models.Habit
	err := s.db.Scopes(scope.ForUser(userID)).
		Preload("ConsistencyGoals", func(db *gorm.DB) *gorm.DB { return db.Order("effective_date DESC") }).
		First(&habit, "id = ?", habitID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, fmt.Errorf("failed to fetch habit: %w", err)
	}
	return &habit, nil
}

func (s *HabitService) UpdateHabit(userID, habitID uuid.UUID, req *dto.UpdateHabitRequest) (*models.Habit, error) {
	habit, err := s.GetHabit(userID, habitID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		habit.Name = *req.Name
	}
	if req.HabitPeriod != nil {
		if !validPeriod(*req.HabitPeriod) {
			return nil, ErrInvalidPeriod
		}
		habit.HabitPeriod = *req.HabitPeriod
	}
	if err := s.db.Save(habit).Error; err != nil {
		return nil, fmt.Errorf("failed to update habit: %w", err)
	}
	return habit, nil
}

func (s *HabitService) DeleteHabit(userID, habitID uuid.UUID) error {
	habit, err := s.GetHabit(userID, habitID)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		tx.Where("habit_id = ?", habit.ID).Delete(&models.HabitOccurrence{})
		tx.Where("habit_id = ?", habit.ID).Delete(&models.ConsistencyGoal{})
		return tx.Delete(habit).Error
	})
}

// ChangeCompletion upserts the occurrence for a calendar day to max(0, count).
// It is a set, not an increment: repeating the call with the same count is
// idempotent.
func (s *HabitService) ChangeCompletion(userID, habitID uuid.UUID, req *dto.ChangeCompletionRequest) (*models.HabitOccurrence, error) {
	habit, err := s.GetHabit(userID, habitID)
	if err != nil {
		return nil, err
	}

	day := midnight(req.Date)
	if req.Date.IsZero() {
		day = midnight(time.Now())
	}
	count := req.Completions
	if count < 0 {
		count = 0
	}

	var occ models.HabitOccurrence
	err = s.db.Where("habit_id = ? AND date = ?", habit.ID, day).First(&occ).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		occ = models.HabitOccurrence{
			ID:          uuid.New(),
			HabitID:     habit.ID,
			Date:        day,
			Completions: count,
		}
		if err := s.db.Create(&occ).Error; err != nil {
			return nil, fmt.Errorf("failed to create occurrence: %w", err)
		}
		return &occ, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch occurrence: %w", err)
	}

	if err := s.db.Model(&occ).Update("completions", count).Error; err != nil {
		return nil, fmt.Errorf("failed to update occurrence: %w", err)
	}
	occ.Completions = count
	return &occ, nil
}

// latestGoal returns the consistency goal with the greatest effective date.
func (s *HabitService) latestGoal(habitID uuid.UUID) (*models.ConsistencyGoal, error) {
	var goal models.ConsistencyGoal
	err := s.db.Where("habit_id = ?", habitID).Order("effective_date DESC").First(&goal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoConsistencyGoal
		}
		return nil, fmt.Errorf("failed to fetch consistency goal: %w", err)
	}
	return &goal, nil
}

// UpdateGoal appends a new consistency goal. The effective date must be today
// or later and strictly after the current latest goal's.
func (s *HabitService) UpdateGoal(userID, habitID uuid.UUID, req *dto.UpdateConsistencyGoalRequest) (*models.ConsistencyGoal, error) {
	habit, err := s.GetHabit(userID, habitID)
	if err != nil {
		return nil, err
	}
	if req.Goal <= 0 {
		return nil, ErrInvalidGoal
	}

	effective := midnight(req.EffectiveDate)
	if effective.Before(midnight(time.Now())) {
		return nil, ErrGoalDateInPast
	}

	latest, err := s.latestGoal(habit.ID)
	if err != nil && !errors.Is(err, ErrNoConsistencyGoal) {
		return nil, err
	}
	if latest != nil && !effective.After(latest.EffectiveDate) {
		return nil, ErrGoalDateNotAfter
	}

	goal := models.ConsistencyGoal{
		ID:            uuid.New(),
		HabitID:       habit.ID,
		Goal:          req.Goal,
		EffectiveDate: effective,
	}
	if err := s.db.Create(&goal).Error; err != nil {
		return nil, fmt.Errorf("failed to create consistency goal: %w", err)
	}
	return &goal, nil
}

// periodStart buckets a day into the start of its habit period.
func periodStart(period string, day time.Time) time.Time {
	switch period {
	case models.PeriodWeekly:
		start, _ := weekBounds(day)
		return start
	case models.PeriodMonthly:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return midnight(day)
	}
}

// prevPeriod steps a period start back by one period.
func prevPeriod(period string, start time.Time) time.Time {
	switch period {
	case models.PeriodWeekly:
		return start.AddDate(0, 0, -7)
	case models.PeriodMonthly:
		return start.AddDate(0, -1, 0)
	default:
		return start.AddDate(0, 0, -1)
	}
}

// CalculateStreak recomputes the habit's streak and caches it on the row.
// The streak is the length of the contiguous run of periods meeting the
// latest goal, counted backwards from the most recent period; the current
// in-progress period neither breaks nor is required to extend the run.
func (s *HabitService) CalculateStreak(userID, habitID uuid.UUID) (int, error) {
	habit, err := s.GetHabit(userID, habitID)
	if err != nil {
		return 0, err
	}
	goal, err := s.latestGoal(habit.ID)
	if err != nil {
		return 0, err
	}

	var occurrences []models.HabitOccurrence
	if err := s.db.Where("habit_id = ?", habit.ID).Find(&occurrences).Error; err != nil {
		return 0, fmt.Errorf("failed to fetch occurrences: %w", err)
	}

	sums := make(map[time.Time]int)
	for _, occ := range occurrences {
		sums[periodStart(habit.HabitPeriod, occ.Date)] += occ.Completions
	}

	current := periodStart(habit.HabitPeriod, time.Now())
	streak := 0

	// The current period counts when it already meets the goal; otherwise the
	// run starts at the previous period.
	cursor := current
	if sums[cursor] < goal.Goal {
		cursor = prevPeriod(habit.HabitPeriod, cursor)
	}
	for sums[cursor] >= goal.Goal {
		streak++
		cursor = prevPeriod(habit.HabitPeriod, cursor)
	}

	if err := s.db.Model(habit).Update("streak", streak).Error; err != nil {
		return 0, fmt.Errorf("failed to save streak: %w", err)
	}
	return streak, nil
}

// GetWeeklyOccurrences returns Monday through Sunday counts for the week
// containing the given date.
func (s *HabitService) GetWeeklyOccurrences(userID, habitID uuid.UUID, date time.Time) (*dto.WeeklyOccurrencesResponse, error) {
	habit, err := s.GetHabit(userID, habitID)
	if err != nil {
		return nil, err
	}

	start, end := weekBounds(date)
	var occurrences []models.HabitOccurrence
	if err := s.db.Where("habit_id = ? AND date >= ? AND date < ?", habit.ID, start, end).Find(&occurrences).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch occurrences: %w", err)
	}

	byDay := make(map[string]int)
	for _, occ := range occurrences {
		byDay[occ.Date.Format("2006-01-02")] = occ.Completions
	}

	resp := &dto.WeeklyOccurrencesResponse{WeekStart: start}
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		resp.Days = append(resp.Days, dto.OccurrenceDay{Date: key, Completions: byDay[key]})
	}
	return resp, nil
}

// GetHeatmapData returns the last 365 days of occurrence counts, sparse:
// days without an occurrence row are omitted.
func (s *HabitService) GetHeatmapData(userID, habitID uuid.UUID) (*dto.HeatmapResponse, error) {
	habit, err := s.GetHabit(userID, habitID)
	if err != nil {
		return nil, err
	}

	since := midnight(time.Now()).AddDate(0, 0, -365)
	var occurrences []models.HabitOccurrence
	err = s.db.Where("habit_id = ? AND date >= ?", habit.ID, since).
		Order("date ASC").
		Find(&occurrences).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch occurrences: %w", err)
	}

	resp := &dto.HeatmapResponse{Days: make([]dto.OccurrenceDay, 0, len(occurrences))}
	for _, occ := range occurrences {
		resp.Days = append(resp.Days, dto.OccurrenceDay{
			Date:        occ.Date.Format("2006-01-02"),
			Completions: occ.Completions,
		})
	}
	return resp, nil
}

// CalculatePerformanceRate reports the share of periods since the habit was
// created that met the latest goal.
func (s *HabitService) CalculatePerformanceRate(userID, habitID uuid.UUID) (*dto.PerformanceRateResponse, error) {
	habit, err := s.GetHabit(userID, habitID)
	if err != nil {
		return nil, err
	}
	goal, err := s.latestGoal(habit.ID)
	if err != nil {
		return nil, err
	}

	var occurrences []models.HabitOccurrence
	if err := s.db.Where("habit_id = ?", habit.ID).Find(&occurrences).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch occurrences: %w", err)
	}

	sums := make(map[time.Time]int)
	for _, occ := range occurrences {
		sums[periodStart(habit.HabitPeriod, occ.Date)] += occ.Completions
	}

	first := periodStart(habit.HabitPeriod, habit.CreatedAt)
	current := periodStart(habit.HabitPeriod, time.Now())

	total, met := 0, 0
	for cursor := first; !cursor.After(current); cursor = nextPeriod(habit.HabitPeriod, cursor) {
		total++
		if sums[cursor] >= goal.Goal {
			met++
		}
	}

	rate := 0.0
	if total > 0 {
		rate = float64(met) / float64(total)
	}
	return &dto.PerformanceRateResponse{PeriodsMet: met, PeriodsTotal: total, Rate: rate}, nil
}

func nextPeriod(period string, start time.Time) time.Time {
	switch period {
	case models.PeriodWeekly:
		return start.AddDate(0, 0, 7)
	case models.PeriodMonthly:
		return start.AddDate(0, 1, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}

func validPeriod(p string) bool {
	for _, v := range models.HabitPeriods {
		if v == p {
			return true
		}
	}
	return false
}
