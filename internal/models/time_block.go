package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CategoryWork          = "work"
	CategoryLeisure       = "leisure"
	CategoryFamilyFriends = "family_friends"
	CategoryAtelic        = "atelic"
)

var TimeBlockCategories = []string{CategoryWork, CategoryLeisure, CategoryFamilyFriends, CategoryAtelic}

// TimeBlock is a scheduled interval inside a DailySchedule. When it holds at
// least one task its Completed flag is derived (all tasks complete) and never
// set directly; an empty block toggles through the checkbox endpoints.
type TimeBlock struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	DailyScheduleID uuid.UUID      `gorm:"type:uuid;not null;index" json:"daily_schedule_id"`
	Name            string         `gorm:"size:255;not null" json:"name"`
	Category        string         `gorm:"size:20;not null;default:'work'" json:"category"`
	StartTime       time.Time      `gorm:"not null" json:"start_time"`
	EndTime         time.Time      `gorm:"not null" json:"end_time"`
	TimerDuration   int            `gorm:"default:0" json:"timer_duration"` // seconds
	Completed       bool           `gorm:"default:false" json:"completed"`
	Tasks           []Task         `gorm:"foreignKey:TimeBlockID" json:"tasks,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}
