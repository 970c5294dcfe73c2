package dto

type DashboardResponse struct {
	Tasks      TaskMetrics      `json:"tasks"`
	TimeBlocks TimeBlockMetrics `json:"time_blocks"`
	Habits     HabitMetrics     `json:"habits"`
	Goals      GoalMetrics      `json:"goals"`
}

type TaskMetrics struct {
	Total          int64   `json:"total"`
	Completed      int64   `json:"completed"`
	CompletionRate float64 `json:"completion_rate"`
}

type TimeBlockMetrics struct {
	Total           int64              `json:"total"`
	Completed       int64              `json:"completed"`
	Efficiency      float64            `json:"efficiency"`
	HoursByCategory map[string]float64 `json:"hours_by_category"`
}

type HabitMetrics struct {
	Total      int64   `json:"total"`
	BestStreak int     `json:"best_streak"`
	Adherence  float64 `json:"adherence"`
}

type GoalMetrics struct {
	Total               int64   `json:"total"`
	Completed           int64   `json:"completed"`
	MilestonesCompleted int64   `json:"milestones_completed"`
	Progress            float64 `json:"progress"`
}
