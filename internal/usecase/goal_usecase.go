package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/eslsoft/examtrack/internal/entity"
	"github.com/eslsoft/examtrack/internal/repository"
)

// GoalUsecase manages user goals.
type GoalUsecase interface {
	AddGoal(ctx context.Context, userID string, goal entity.Goal) (*entity.Goal, error)
	ListGoals(ctx context.Context, userID string) ([]entity.Goal, error)
	UpdateGoalProgress(ctx context.Context, userID string, goalID int64, current int) (*entity.Goal, error)
	ToggleGoalComplete(ctx context.Context, userID string, goalID int64, done bool) (*entity.Goal, error)
	DeleteGoal(ctx context.Context, userID string, goalID int64) error
}

// NewGoalUsecase wires the store with default behaviour.
func NewGoalUsecase(store repository.Store) GoalUsecase {
	return &goalUsecase{
		store: store,
		clock: time.Now,
	}
}

type goalUsecase struct {
	store repository.Store
	clock func() time.Time
}

func (u *goalUsecase) AddGoal(ctx context.Context, userID string, goal entity.Goal) (*entity.Goal, error) {
	userID, err := entity.NormalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	goal.Title = strings.TrimSpace(goal.Title)
	if goal.Title == "" {
		return nil, entity.ErrInvalidGoal
	}
	if goal.GoalType, err = entity.ParseGoalType(string(goal.GoalType)); err != nil {
		return nil, err
	}
	if goal.TargetValue != nil && *goal.TargetValue <= 0 {
		goal.TargetValue = nil
	}
	if goal.DueDate != nil {
		due := entity.DateOf(*goal.DueDate)
		goal.DueDate = &due
	}
	goal.ID = 0
	goal.UserID = userID
	goal.Description = strings.TrimSpace(goal.Description)
	goal.CurrentValue = 0
	goal.IsCompleted = false
	goal.CreatedAt = u.clock().UTC()

	row, err := u.store.Insert(ctx, repository.Goals, repository.Row{
		"user_id":       goal.UserID,
		"title":         goal.Title,
		"description":   nullable(goal.Description),
		"goal_type":     string(goal.GoalType),
		"target_value":  goal.TargetValue,
		"current_value": goal.CurrentValue,
		"is_completed":  goal.IsCompleted,
		"due_date":      goal.DueDate,
		"created_at":    goal.CreatedAt,
	})
	if err != nil {
		return nil, err
	}
	goal.ID = row.Int64("id")
	return &goal, nil
}

func (u *goalUsecase) ListGoals(ctx context.Context, userID string) ([]entity.Goal, error) {
	userID, err := entity.NormalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	rows, err := u.store.Select(ctx, repository.Goals, repository.Where(repository.Filter{"user_id": userID}).Order("created_at", true))
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(r repository.Row, _ int) entity.Goal { return mapGoal(r) }), nil
}

// UpdateGoalProgress stores current and derives completion from the target.
func (u *goalUsecase) UpdateGoalProgress(ctx context.Context, userID string, goalID int64, current int) (*entity.Goal, error) {
	userID, err := entity.NormalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	if current < 0 {
		return nil, entity.ErrInvalidProgress
	}
	row, err := loadOwned(ctx, u.store, repository.Goals, userID, goalID, entity.ErrGoalNotFound)
	if err != nil {
		return nil, err
	}
	goal := mapGoal(row)
	goal.CurrentValue = current
	goal.IsCompleted = goal.ReachedTarget(current)
	if _, err := u.store.Update(ctx, repository.Goals, repository.Filter{"id": goal.ID, "user_id": userID}, repository.Row{
		"current_value": goal.CurrentValue,
		"is_completed":  goal.IsCompleted,
	}); err != nil {
		return nil, err
	}
	return &goal, nil
}

func (u *goalUsecase) ToggleGoalComplete(ctx context.Context, userID string, goalID int64, done bool) (*entity.Goal, error) {
	userID, err := entity.NormalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	row, err := loadOwned(ctx, u.store, repository.Goals, userID, goalID, entity.ErrGoalNotFound)
	if err != nil {
		return nil, err
	}
	goal := mapGoal(row)
	goal.IsCompleted = done
	if _, err := u.store.Update(ctx, repository.Goals, repository.Filter{"id": goal.ID, "user_id": userID}, repository.Row{"is_completed": done}); err != nil {
		return nil, err
	}
	return &goal, nil
}

func (u *goalUsecase) DeleteGoal(ctx context.Context, userID string, goalID int64) error {
	userID, err := entity.NormalizeUserID(userID)
	if err != nil {
		return err
	}
	if goalID <= 0 {
		return entity.ErrGoalNotFound
	}
	n, err := u.store.Delete(ctx, repository.Goals, repository.Filter{"id": goalID, "user_id": userID})
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrGoalNotFound
	}
	return nil
}
