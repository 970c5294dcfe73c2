package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PeriodDaily   = "Daily"
	PeriodWeekly  = "Weekly"
	PeriodMonthly = "Monthly"
)

var HabitPeriods = []string{PeriodDaily, PeriodWeekly, PeriodMonthly}

// Habit tracks per-period completion counts against a consistency goal.
// Streak is a cached aggregate: it is recomputed on demand and can be stale
// between writes.
type Habit struct {
	ID               uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	Name             string            `gorm:"size:255;not null" json:"name"`
	HabitPeriod      string            `gorm:"size:20;not null;default:'Daily'" json:"habit_period"`
	Streak           int               `gorm:"default:0" json:"streak"`
	Occurrences      []HabitOccurrence `gorm:"foreignKey:HabitID" json:"occurrences,omitempty"`
	ConsistencyGoals []ConsistencyGoal `gorm:"foreignKey:HabitID" json:"consistency_goals,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	DeletedAt        gorm.DeletedAt    `gorm:"index" json:"-"`
}

// HabitOccurrence is one row per habit per calendar day, upserted by date.
type HabitOccurrence struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	HabitID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_occurrence_habit_date" json:"habit_id"`
	Date        time.Time `gorm:"not null;uniqueIndex:idx_occurrence_habit_date" json:"date"`
	Completions int       `gorm:"not null;default:0" json:"completions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ConsistencyGoal is an entry in the habit's goal history. The latest goal is
// the row with the greatest effective date.
type ConsistencyGoal struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	HabitID       uuid.UUID `gorm:"type:uuid;not null;index" json:"habit_id"`
	Goal          int       `gorm:"not null" json:"goal"`
	EffectiveDate time.Time `gorm:"not null" json:"effective_date"`
	CreatedAt     time.Time `json:"created_at"`
}
