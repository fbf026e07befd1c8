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

type StudyServiceServer struct {
	uc usecase.StudyUsecase
}

func NewStudyServiceServer(uc usecase.StudyUsecase) *StudyServiceServer {
	return &StudyServiceServer{uc: uc}
}

func (s *StudyServiceServer) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	handle(mux, examtrackv1.StudyServiceAddSessionProcedure, s.AddSession, opts)
	handle(mux, examtrackv1.StudyServiceListSessionsProcedure, s.ListSessions, opts)
	handle(mux, examtrackv1.StudyServiceTodayStatsProcedure, s.TodayStats, opts)
	handle(mux, examtrackv1.StudyServiceDeleteSessionProcedure, s.DeleteSession, opts)
	return "/" + examtrackv1.StudyServiceName + "/", mux
}

func (s *StudyServiceServer) AddSession(ctx context.Context, req *connect.Request[examtrackv1.AddSessionRequest]) (*connect.Response[examtrackv1.StudySession], error) {
	msg := req.Msg
	date, err := mapping.ParseDate(msg.Date)
	if err != nil {
		return nil, err
	}
	session, err := s.uc.AddSession(ctx, UserIDFrom(ctx), usecase.SessionInput{
		DurationMinutes: msg.DurationMinutes,
		Date:            date,
		SubjectCode:     msg.SubjectCode,
		ExamType:        entity.ExamType(msg.ExamType),
		Notes:           msg.Notes,
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(mapping.ToPbSession(session)), nil
}

func (s *StudyServiceServer) ListSessions(ctx context.Context, req *connect.Request[examtrackv1.ListSessionsRequest]) (*connect.Response[examtrackv1.ListSessionsResponse], error) {
	start, err := mapping.ParseOptDate(req.Msg.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := mapping.ParseOptDate(req.Msg.EndDate)
	if err != nil {
		return nil, err
	}
	sessions, err := s.uc.ListSessions(ctx, UserIDFrom(ctx), start, end)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&examtrackv1.ListSessionsResponse{
		Sessions: lo.Map(sessions, func(ss entity.StudySession, _ int) *examtrackv1.StudySession { return mapping.ToPbSession(&ss) }),
	}), nil
}

func (s *StudyServiceServer) TodayStats(ctx context.Context, _ *connect.Request[examtrackv1.Empty]) (*connect.Response[examtrackv1.DailyStudy], error) {
	stats, err := s.uc.TodayStats(ctx, UserIDFrom(ctx))
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(mapping.ToPbDailyStudy(stats)), nil
}

func (s *StudyServiceServer) DeleteSession(ctx context.Context, req *connect.Request[examtrackv1.IDRequest]) (*connect.Response[examtrackv1.Empty], error) {
	if err := s.uc.DeleteSession(ctx, UserIDFrom(ctx), req.Msg.ID); err != nil {
		return nil, err
	}
	return connect.NewResponse(&examtrackv1.Empty{}), nil
}
