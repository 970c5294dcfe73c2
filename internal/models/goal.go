package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var GoalDifficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyLifeChanging}

type Goal struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Deadline    time.Time      `json:"deadline"`
	Difficulty  string         `gorm:"size:20;not null;default:'Easy'" json:"difficulty"`
	Category    string         `gorm:"size:50" json:"category"`
	Completed   bool           `gorm:"default:false" json:"completed"`
	Milestones  []Milestone    `gorm:"foreignKey:GoalID" json:"milestones,omitempty"`
	History     []GoalHistory  `gorm:"foreignKey:GoalID" json:"history,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Milestone is an ordered step toward a goal. Its deadline may not exceed the
// goal's deadline.
type Milestone struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	GoalID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"goal_id"`
	Title          string     `gorm:"size:255;not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description"`
	Deadline       time.Time  `json:"deadline"`
	Position       int        `gorm:"not null;default:0" json:"position"`
	Completed      bool       `gorm:"default:false" json:"completed"`
	CompletionDate *time.Time `json:"completion_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type GoalHistory struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GoalID      uuid.UUID `gorm:"type:uuid;not null;index" json:"goal_id"`
	Date        time.Time `gorm:"not null" json:"date"`
	Action      string    `gorm:"size:50;not null" json:"action"`
	Description string    `gorm:"type:text" json:"description"`
}
