package mapping

import (
	"github.com/eslsoft/examtrack/internal/entity"
	examtrackv1 "github.com/eslsoft/examtrack/pkg/api/examtrack/v1"
)

func FromPbGoal(req *examtrackv1.AddGoalRequest) (entity.Goal, error) {
	due, err := ParseOptDate(req.DueDate)
	if err != nil {
		return entity.Goal{}, err
	}
	return entity.Goal{
		Title:       req.Title,
		Description: req.Description,
		GoalType:    entity.GoalType(req.GoalType),
		TargetValue: req.TargetValue,
		DueDate:     due,
	}, nil
}

func ToPbGoal(goal *entity.Goal) *examtrackv1.Goal {
	if goal == nil {
		return nil
	}
	return &examtrackv1.Goal{
		ID:           goal.ID,
		Title:        goal.Title,
		Description:  goal.Description,
		GoalType:     string(goal.GoalType),
		TargetValue:  goal.TargetValue,
		CurrentValue: goal.CurrentValue,
		IsCompleted:  goal.IsCompleted,
		DueDate:      formatOptDate(goal.DueDate),
		CreatedAt:    goal.CreatedAt,
	}
}
