package entity

import (
	"strings"
	"time"
)

// GoalType is the cadence of a goal.
type GoalType string

const (
	GoalTypeDaily   GoalType = "DAILY"
	GoalTypeWeekly  GoalType = "WEEKLY"
	GoalTypeMonthly GoalType = "MONTHLY"
	GoalTypeExam    GoalType = "EXAM"
)

// ParseGoalType defaults blank input to DAILY.
func ParseGoalType(raw string) (GoalType, error) {
	switch t := GoalType(strings.ToUpper(strings.TrimSpace(raw))); t {
	case "":
		return GoalTypeDaily, nil
	case GoalTypeDaily, GoalTypeWeekly, GoalTypeMonthly, GoalTypeExam:
		return t, nil
	default:
		return "", ErrInvalidGoalType
	}
}

// Goal is a user-defined target.
type Goal struct {
	ID           int64
	UserID       string
	Title        string
	Description  string
	GoalType     GoalType
	TargetValue  *int
	CurrentValue int
	IsCompleted  bool
	DueDate      *time.Time
	CreatedAt    time.Time
}

// ReachedTarget reports whether current meets the target. Goals without a
// target never complete on their own.
func (g *Goal) ReachedTarget(current int) bool {
	return g.TargetValue != nil && current >= *g.TargetValue
}
