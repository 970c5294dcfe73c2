package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User holds the account record and the coin balance. Coins are only ever
// mutated through the ledger service's conditional updates.
type User struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email            string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Name             string         `gorm:"size:255" json:"name"`
	Password         string         `gorm:"not null" json:"-"`
	Role             string         `gorm:"size:20;default:'user'" json:"role"`
	Coins            int            `gorm:"not null;default:0" json:"coins"`
	Subscription     string         `gorm:"size:20;default:'free'" json:"subscription"`
	SubscriptionType string         `gorm:"size:50" json:"subscription_type"`

	// Weekly hour targets, zero until onboarding sets them.
	WorkHoursGoal          float64 `gorm:"default:0" json:"work_hours_goal"`
	LeisureHoursGoal       float64 `gorm:"default:0" json:"leisure_hours_goal"`
	FamilyFriendsHoursGoal float64 `gorm:"default:0" json:"family_friends_hours_goal"`
	AtelicHoursGoal        float64 `gorm:"default:0" json:"atelic_hours_goal"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
