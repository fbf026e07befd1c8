package examtrackv1

import "time"

type AddGoalRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
	GoalType    string `json:"goal_type,omitempty"`
	TargetValue *int   `json:"target_value,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
}

type UpdateGoalProgressRequest struct {
	ID           int64 `json:"id" validate:"gt=0"`
	CurrentValue int   `json:"current_value" validate:"gte=0"`
}

type ListGoalsResponse struct {
	Goals []*Goal `json:"goals"`
}

type Goal struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	GoalType     string    `json:"goal_type"`
	TargetValue  *int      `json:"target_value,omitempty"`
	CurrentValue int       `json:"current_value"`
	IsCompleted  bool      `json:"is_completed"`
	DueDate      string    `json:"due_date,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
