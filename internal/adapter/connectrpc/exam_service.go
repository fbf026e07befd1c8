package connectrpc

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/eslsoft/examtrack/internal/adapter/mapping"
	"github.com/eslsoft/examtrack/internal/entity"
	"github.com/eslsoft/examtrack/internal/repository"
	"github.com/eslsoft/examtrack/internal/usecase"
	examtrackv1 "github.com/eslsoft/examtrack/pkg/api/examtrack/v1"
)

type ExamServiceServer struct {
	uc usecase.ExamUsecase
}

func NewExamServiceServer(uc usecase.ExamUsecase) *ExamServiceServer {
	return &ExamServiceServer{uc: uc}
}

// Handler mounts every ExamService procedure under its service path.
func (s *ExamServiceServer) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	handle(mux, examtrackv1.ExamServiceSubmitExamProcedure, s.SubmitExam, opts)
	handle(mux, examtrackv1.ExamServiceEditExamProcedure, s.EditExam, opts)
	handle(mux, examtrackv1.ExamServiceDeleteExamProcedure, s.DeleteExam, opts)
	handle(mux, examtrackv1.ExamServiceGetExamProcedure, s.GetExam, opts)
	handle(mux, examtrackv1.ExamServiceListExamsProcedure, s.ListExams, opts)
	return "/" + examtrackv1.ExamServiceName + "/", mux
}

func (s *ExamServiceServer) SubmitExam(ctx context.Context, req *connect.Request[examtrackv1.SubmitExamRequest]) (*connect.Response[examtrackv1.Exam], error) {
	msg := req.Msg
	examType, err := entity.ParseExamType(msg.ExamType)
	if err != nil {
		return nil, err
	}
	date, err := mapping.ParseDate(msg.Date)
	if err != nil {
		return nil, err
	}
	sheet, err := s.uc.ParseScores(examType, msg.Scores)
	if err != nil {
		return nil, err
	}
	exam, err := s.uc.SubmitExam(ctx, UserIDFrom(ctx), examType, date, sheet)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(mapping.ToPbExam(exam)), nil
}

func (s *ExamServiceServer) EditExam(ctx context.Context, req *connect.Request[examtrackv1.EditExamRequest]) (*connect.Response[examtrackv1.Exam], error) {
	msg := req.Msg
	current, err := s.uc.GetExam(ctx, UserIDFrom(ctx), msg.ID)
	if err != nil {
		return nil, err
	}
	date, err := mapping.ParseDate(msg.Date)
	if err != nil {
		return nil, err
	}
	sheet, err := s.uc.ParseScores(current.Type, msg.Scores)
	if err != nil {
		return nil, err
	}
	exam, err := s.uc.EditExam(ctx, UserIDFrom(ctx), msg.ID, date, sheet)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(mapping.ToPbExam(exam)), nil
}

func (s *ExamServiceServer) DeleteExam(ctx context.Context, req *connect.Request[examtrackv1.IDRequest]) (*connect.Response[examtrackv1.Empty], error) {
	if err := s.uc.DeleteExam(ctx, UserIDFrom(ctx), req.Msg.ID); err != nil {
		return nil, err
	}
	return connect.NewResponse(&examtrackv1.Empty{}), nil
}

func (s *ExamServiceServer) GetExam(ctx context.Context, req *connect.Request[examtrackv1.IDRequest]) (*connect.Response[examtrackv1.Exam], error) {
	exam, err := s.uc.GetExam(ctx, UserIDFrom(ctx), req.Msg.ID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(mapping.ToPbExam(exam)), nil
}

func (s *ExamServiceServer) ListExams(ctx context.Context, req *connect.Request[examtrackv1.ListExamsRequest]) (*connect.Response[examtrackv1.ListExamsResponse], error) {
	msg := req.Msg
	query := &repository.ListExamQuery{
		Pagination: convertPagination(msg.Pagination),
		FilterOrder: repository.FilterOrder{
			Filter:  msg.Filter,
			OrderBy: msg.OrderBy,
		},
		UserID: UserIDFrom(ctx),
	}
	items, total, err := s.uc.ListExams(ctx, query)
	if err != nil {
		return nil, err
	}

	total32, err := safeInt32("total exams", total)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&examtrackv1.ListExamsResponse{
		Exams: mapping.ToPbExams(items),
		Pagination: &examtrackv1.PaginationResponse{
			Total:  total32,
			PageNo: query.PageNo,
		},
	}), nil
}
