package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task difficulties and their base coin values.
const (
	DifficultyEasy         = "Easy"
	DifficultyMedium       = "Medium"
	DifficultyHard         = "Hard"
	DifficultyLifeChanging = "Life-Changing"
)

// Task is a unit of work. TimeBlockID is a weak back-reference: a task can
// outlive its block and a block never owns its tasks exclusively.
type Task struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Difficulty  string         `gorm:"size:20;not null;default:'Easy'" json:"difficulty"`
	Completed   bool           `gorm:"default:false" json:"completed"`
	Monster     string         `gorm:"size:50" json:"monster"`
	TimeBlockID *uuid.UUID     `gorm:"type:uuid;index" json:"time_block_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

var TaskDifficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}
