package dto

import "time"

type CreateHabitRequest struct {
	Name          string    `json:"name"`
	HabitPeriod   string    `json:"habit_period"`
	Goal          int       `json:"goal"`
	EffectiveDate time.Time `json:"effective_date"`
}

type UpdateHabitRequest struct {
	Name        *string `json:"name"`
	HabitPeriod *string `json:"habit_period"`
}

type ChangeCompletionRequest struct {
	Date        time.Time `json:"date"`
	Completions int       `json:"completions"`
}

type UpdateConsistencyGoalRequest struct {
	Goal          int       `json:"goal"`
	EffectiveDate time.Time `json:"effective_date"`
}

type StreakResponse struct {
	Streak int `json:"streak"`
}

type OccurrenceDay struct {
	Date        string `json:"date"` // YYYY-MM-DD
	Completions int    `json:"completions"`
}

type WeeklyOccurrencesResponse struct {
	WeekStart time.Time       `json:"week_start"`
	Days      []OccurrenceDay `json:"days"`
}

type HeatmapResponse struct {
	Days []OccurrenceDay `json:"days"`
}

type PerformanceRateResponse struct {
	PeriodsMet   int     `json:"periods_met"`
	PeriodsTotal int     `json:"periods_total"`
	Rate         float64 `json:"rate"`
}
