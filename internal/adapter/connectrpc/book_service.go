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

type BookServiceServer struct {
	uc usecase.BookUsecase
}

func NewBookServiceServer(uc usecase.BookUsecase) *BookServiceServer {
	return &BookServiceServer{uc: uc}
}

func (s *BookServiceServer) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	handle(mux, examtrackv1.BookServiceAddBookProcedure, s.AddBook, opts)
	handle(mux, examtrackv1.BookServiceUpdateBookProgressProcedure, s.UpdateBookProgress, opts)
	handle(mux, examtrackv1.BookServiceDeleteBookProcedure, s.DeleteBook, opts)
	handle(mux, examtrackv1.BookServiceListBooksProcedure, s.ListBooks, opts)
	handle(mux, examtrackv1.BookServiceGetBookProcedure, s.GetBook, opts)
	handle(mux, examtrackv1.BookServiceAddUnitProcedure, s.AddUnit, opts)
	handle(mux, examtrackv1.BookServiceToggleUnitCompletionProcedure, s.ToggleUnitCompletion, opts)
	handle(mux, examtrackv1.BookServiceDeleteUnitProcedure, s.DeleteUnit, opts)
	handle(mux, examtrackv1.BookServiceAddTestProcedure, s.AddTest, opts)
	handle(mux, examtrackv1.BookServiceUpdateTestProcedure, s.UpdateTest, opts)
	handle(mux, examtrackv1.BookServiceDeleteTestProcedure, s.DeleteTest, opts)
	return "/" + examtrackv1.BookServiceName + "/", mux
}

func (s *BookServiceServer) AddBook(ctx context.Context, req *connect.Request[examtrackv1.AddBookRequest]) (*connect.Response[examtrackv1.Book], error) {
	msg := req.Msg
	book, err := s.uc.AddBook(ctx, UserIDFrom(ctx), usecase.BookInput{
		Title:       msg.Title,
		TotalUnits:  msg.TotalUnits,
		SubjectCode: msg.SubjectCode,
		ExamType:    entity.ExamType(msg.ExamType),
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(mapping.ToPbBook(book)), nil
}

func (s *BookServiceServer) UpdateBookProgress(ctx context.Context, req *connect.Request[examtrackv1.UpdateBookProgressRequest]) (*connect.Response[examtrackv1.Book], error) {
	book, err := s.uc.UpdateBookProgress(ctx, UserIDFrom(ctx), req.Msg.ID, req.Msg.CompletedUnits)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(mapping.ToPbBook(book)), nil
}

func (s *BookServiceServer) DeleteBook(ctx context.Context, req *connect.Request[examtrackv1.IDRequest]) (*connect.Response[examtrackv1.Empty], error) {
	if err := s.uc.DeleteBook(ctx, UserIDFrom(ctx), req.Msg.ID); err != nil {
		return nil, err
	}
	return connect.NewResponse(&examtrackv1.Empty{}), nil
}

func (s *BookServiceServer) ListBooks(ctx context.Context, _ *connect.Request[examtrackv1.Empty]) (*connect.Response[examtrackv1.ListBooksResponse], error) {
	books, err := s.uc.ListBooks(ctx, UserIDFrom(ctx))
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&examtrackv1.ListBooksResponse{
		Books: lo.Map(books, func(b entity.Book, _ int) *examtrackv1.Book { return mapping.ToPbBook(&b) }),
	}), nil
}

func (s *BookServiceServer) GetBook(ctx context.Context, req *connect.Request[examtrackv1.IDRequest]) (*connect.Response[examtrackv1.Book], error) {
	book, err := s.uc.GetBook(ctx, UserIDFrom(ctx), req.Msg.ID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(mapping.ToPbBook(book)), nil
}

func (s *BookServiceServer) AddUnit(ctx context.Context, req *connect.Request[examtrackv1.AddUnitRequest]) (*connect.Response[examtrackv1.BookUnit], error) {
	msg := req.Msg
	unit, err := s.uc.AddUnit(ctx, UserIDFrom(ctx), msg.BookID, msg.UnitName, msg.UnitOrder)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(mapping.ToPbUnit(unit)), nil
}

func (s *BookServiceServer) ToggleUnitCompletion(ctx context.Context, req *connect.Request[examtrackv1.ToggleRequest]) (*connect.Response[examtrackv1.BookUnit], error) {
	unit, err := s.uc.ToggleUnitCompletion(ctx, UserIDFrom(ctx), req.Msg.ID, req.Msg.Done)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(mapping.ToPbUnit(unit)), nil
}

func (s *BookServiceServer) DeleteUnit(ctx context.Context, req *connect.Request[examtrackv1.IDRequest]) (*connect.Response[examtrackv1.Empty], error) {
	if err := s.uc.DeleteUnit(ctx, UserIDFrom(ctx), req.Msg.ID); err != nil {
		return nil, err
	}
	return connect.NewResponse(&examtrackv1.Empty{}), nil
}

func (s *BookServiceServer) AddTest(ctx context.Context, req *connect.Request[examtrackv1.SaveTestRequest]) (*connect.Response[examtrackv1.BookTest], error) {
	if req.Msg.UnitID <= 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, entity.ErrUnitNotFound)
	}
	test, err := s.uc.AddTest(ctx, UserIDFrom(ctx), req.Msg.UnitID, mapping.FromPbTest(req.Msg))
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(mapping.ToPbTest(test)), nil
}

func (s *BookServiceServer) UpdateTest(ctx context.Context, req *connect.Request[examtrackv1.SaveTestRequest]) (*connect.Response[examtrackv1.BookTest], error) {
	if req.Msg.ID <= 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, entity.ErrTestNotFound)
	}
	test, err := s.uc.UpdateTest(ctx, UserIDFrom(ctx), req.Msg.ID, mapping.FromPbTest(req.Msg))
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(mapping.ToPbTest(test)), nil
}

func (s *BookServiceServer) DeleteTest(ctx context.Context, req *connect.Request[examtrackv1.IDRequest]) (*connect.Response[examtrackv1.Empty], error) {
	if err := s.uc.DeleteTest(ctx, UserIDFrom(ctx), req.Msg.ID); err != nil {
		return nil, err
	}
	return connect.NewResponse(&examtrackv1.Empty{}), nil
}
