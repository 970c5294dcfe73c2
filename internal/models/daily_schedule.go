package models

import (
	"time"

	"github.com/google/uuid"
)

// DailySchedule is one row per user per calendar day (date truncated to
// midnight UTC), created lazily on first read of "today".
type DailySchedule struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_schedule_user_date" json:"user_id"`
	Date       time.Time   `gorm:"not null;uniqueIndex:idx_schedule_user_date" json:"date"`
	Notes      string      `gorm:"type:text" json:"notes"`
	TimeBlocks []TimeBlock `gorm:"foreignKey:DailyScheduleID" json:"time_blocks,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}
