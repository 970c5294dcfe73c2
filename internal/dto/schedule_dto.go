package dto

import "time"

type CreateTimeBlockRequest struct {
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type UpdateTimeBlockRequest struct {
	Name      *string    `json:"name"`
	Category  *string    `json:"category"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
}

type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// CategoryHours pairs the hours actually logged in a category with the user's
// weekly target for it.
type CategoryHours struct {
	Category  string  `json:"category"`
	Hours     float64 `json:"hours"`
	GoalHours float64 `json:"goal_hours"`
}

type WeeklyMetricsResponse struct {
	WeekStart  time.Time       `json:"week_start"`
	WeekEnd    time.Time       `json:"week_end"`
	Categories []CategoryHours `json:"categories"`
	TotalHours float64         `json:"total_hours"`
}
