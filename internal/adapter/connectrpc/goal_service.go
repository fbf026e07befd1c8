package connectrpc

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/samber/lo"

	"github.com/eslsoft/examtrack/internal/adapter/mapping"
	"github.com/eslsoft/examtrack/internal/entity"
	"github.com/eslsoft/examtrack/internal/usecase"
	examtrackv1 "github.com/eslsoft/examtrack/pkg/api/examtrack/v1"
)

type GoalServiceServer struct {
	uc usecase.GoalUsecase
}

func NewGoalServiceServer(uc usecase.GoalUsecase) *GoalServiceServer {
	return &GoalServiceServer{uc: uc}
}

func (s *GoalServiceServer) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	handle(mux, examtrackv1.GoalServiceAddGoalProcedure, s.AddGoal, opts)
	handle(mux, examtrackv1.GoalServiceListGoalsProcedure, s.ListGoals, opts)
	handle(mux, examtrackv1.GoalServiceUpdateGoalProgressProcedure, s.UpdateGoalProgress, opts)
	handle(mux, examtrackv1.GoalServiceToggleGoalCompleteProcedure, s.ToggleGoalComplete, opts)
	handle(mux, examtrackv1.GoalServiceDeleteGoalProcedure, s.DeleteGoal, opts)
	return "/" + examtrackv1.GoalServiceName + "/", mux
}

func (s *GoalServiceServer) AddGoal(ctx context.Context, req *connect.Request[examtrackv1.AddGoalRequest]) (*connect.Response[examtrackv1.Goal], error) {
	goal, err := mapping.FromPbGoal(req.Msg)
	if err != nil {
		return nil, err
	}
	created, err := s.uc.AddGoal(ctx, UserIDFrom(ctx), goal)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(mapping.ToPbGoal(created)), nil
}

func (s *GoalServiceServer) ListGoals(ctx context.Context, _ *connect.Request[examtrackv1.Empty]) (*connect.Response[examtrackv1.ListGoalsResponse], error) {
	goals, err := s.uc.ListGoals(ctx, UserIDFrom(ctx))
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&examtrackv1.ListGoalsResponse{
		Goals: lo.Map(goals, func(g entity.Goal, _ int) *examtrackv1.Goal { return mapping.ToPbGoal(&g) }),
	}), nil
}

func (s *GoalServiceServer) UpdateGoalProgress(ctx context.Context, req *connect.Request[examtrackv1.UpdateGoalProgressRequest]) (*connect.Response[examtrackv1.Goal], error) {
	goal, err := s.uc.UpdateGoalProgress(ctx, UserIDFrom(ctx), req.Msg.ID, req.Msg.CurrentValue)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(mapping.ToPbGoal(goal)), nil
}

func (s *GoalServiceServer) ToggleGoalComplete(ctx context.Context, req *connect.Request[examtrackv1.ToggleRequest]) (*connect.Response[examtrackv1.Goal], error) {
	goal, err := s.uc.ToggleGoalComplete(ctx, UserIDFrom(ctx), req.Msg.ID, req.Msg.Done)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(mapping.ToPbGoal(goal)), nil
}

func (s *GoalServiceServer) DeleteGoal(ctx context.Context, req *connect.Request[examtrackv1.IDRequest]) (*connect.Response[examtrackv1.Empty], error) {
	if err := s.uc.DeleteGoal(ctx, UserIDFrom(ctx), req.Msg.ID); err != nil {
		return nil, err
	}
	return connect.NewResponse(&examtrackv1.Empty{}), nil
}
