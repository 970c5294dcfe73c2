package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ChestWood  = "Wood"
	ChestMetal = "Metal"
	ChestGold  = "Gold"
)

var ChestTypes = []string{ChestWood, ChestMetal, ChestGold}

// Reward is a catalog entry drawn from when a chest of its type is opened.
type Reward struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Icon      string         `gorm:"size:100" json:"icon"`
	ChestType string         `gorm:"size:10;not null;index" json:"chest_type"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// OwnedReward records a reward a user won from a chest.
type OwnedReward struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	RewardID  uuid.UUID `gorm:"type:uuid;not null" json:"reward_id"`
	ChestType string    `gorm:"size:10;not null" json:"chest_type"`
	CreatedAt time.Time `json:"created_at"`
	Reward    Reward    `gorm:"foreignKey:RewardID" json:"reward"`
}
