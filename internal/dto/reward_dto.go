package dto

import "github.com/google/uuid"

type CreateRewardRequest struct {
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	ChestType string `json:"chest_type"`
}

type UpdateRewardRequest struct {
	Name *string `json:"name"`
	Icon *string `json:"icon"`
}

type PurchaseChestRequest struct {
	ChestType string `json:"chest_type"`
}

type PurchaseChestResponse struct {
	RewardID   uuid.UUID `json:"reward_id"`
	Name       string    `json:"name"`
	Icon       string    `json:"icon"`
	ChestType  string    `json:"chest_type"`
	CoinsSpent int       `json:"coins_spent"`
	Balance    int       `json:"balance"`
}
