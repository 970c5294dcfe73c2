package dto

import "time"

type CreateGoalRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
	Difficulty  string    `json:"difficulty"`
	Category    string    `json:"category"`
}

type UpdateGoalRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	Difficulty  *string    `json:"difficulty"`
}

type UpdateCategoryRequest struct {
	Category string `json:"category"`
}

type CreateMilestoneRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
}

type UpdateMilestoneRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Deadline    *time.Time `json:"deadline"`
}

type CompleteMilestoneResponse struct {
	CoinsAwarded  int  `json:"coins_awarded"`
	GoalCompleted bool `json:"goal_completed"`
}
