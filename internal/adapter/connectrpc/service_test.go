package connectrpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"

	"github.com/eslsoft/examtrack/internal/repository/repotest"
	"github.com/eslsoft/examtrack/internal/usecase"
	examtrackv1 "github.com/eslsoft/examtrack/pkg/api/examtrack/v1"
)

type testServer struct {
	*httptest.Server
	store *repotest.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := repotest.NewStore()
	books := usecase.NewBookUsecase(store)
	study := usecase.NewStudyUsecase(store)

	opts := DefaultHandlerOptions()
	mux := http.NewServeMux()
	for _, svc := range []interface {
		Handler(...connect.HandlerOption) (string, http.Handler)
	}{
		NewExamServiceServer(usecase.NewExamUsecase(store)),
		NewBookServiceServer(books),
		NewGoalServiceServer(usecase.NewGoalUsecase(store)),
		NewStudyServiceServer(study),
		NewProfileServiceServer(usecase.NewProfileUsecase(store)),
	} {
		path, h := svc.Handler(opts...)
		mux.Handle(path, h)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, store: store}
}

func call[Req, Res any](t *testing.T, srv *testServer, procedure, userID string, msg *Req) (*Res, error) {
	t.Helper()
	client := connect.NewClient[Req, Res](srv.Client(), srv.URL+procedure, connect.WithCodec(examtrackv1.JSONCodec{}))
	req := connect.NewRequest(msg)
	if userID != "" {
		req.Header().Set(UserIDHeader, userID)
	}
	resp, err := client.CallUnary(context.Background(), req)
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func TestExamService_SubmitAndList(t *testing.T) {
	srv := newTestServer(t)

	exam, err := call[examtrackv1.SubmitExamRequest, examtrackv1.Exam](t, srv, examtrackv1.ExamServiceSubmitExamProcedure, "u1", &examtrackv1.SubmitExamRequest{
		ExamType: "TYT",
		Date:     "2026-03-01",
		Scores:   json.RawMessage(`{"MATH":{"correct":30,"incorrect":4},"TURKISH":{"correct":0,"incorrect":0}}`),
	})
	if err != nil {
		t.Fatalf("SubmitExam: %v", err)
	}
	if exam.TotalNet != 29 || exam.Date != "2026-03-01" || len(exam.Results) != 1 {
		t.Fatalf("unexpected exam %+v", exam)
	}
	if exam.Results[0].SubjectName != "Matematik" {
		t.Fatalf("unexpected subject %q", exam.Results[0].SubjectName)
	}

	list, err := call[examtrackv1.ListExamsRequest, examtrackv1.ListExamsResponse](t, srv, examtrackv1.ExamServiceListExamsProcedure, "u1", &examtrackv1.ListExamsRequest{
		Filter: "exam_type == 'TYT'",
	})
	if err != nil {
		t.Fatalf("ListExams: %v", err)
	}
	if list.Pagination.Total != 1 || list.Pagination.PageNo != 1 || len(list.Exams) != 1 {
		t.Fatalf("unexpected list %+v", list)
	}

	other, err := call[examtrackv1.ListExamsRequest, examtrackv1.ListExamsResponse](t, srv, examtrackv1.ExamServiceListExamsProcedure, "u2", &examtrackv1.ListExamsRequest{})
	if err != nil {
		t.Fatalf("ListExams u2: %v", err)
	}
	if other.Pagination.Total != 0 {
		t.Fatalf("exams leaked across users: %+v", other)
	}
}

func TestExamService_Errors(t *testing.T) {
	srv := newTestServer(t)

	cases := map[string]struct {
		userID string
		req    *examtrackv1.SubmitExamRequest
		want   connect.Code
	}{
		"no identity": {"", &examtrackv1.SubmitExamRequest{ExamType: "TYT", Scores: json.RawMessage(`{"MATH":{"correct":1}}`)}, connect.CodeUnauthenticated},
		"empty sheet": {"u1", &examtrackv1.SubmitExamRequest{ExamType: "TYT", Scores: json.RawMessage(`{"MATH":{"correct":0}}`)}, connect.CodeInvalidArgument},
		"bad type":    {"u1", &examtrackv1.SubmitExamRequest{ExamType: "LGS", Scores: json.RawMessage(`{}`)}, connect.CodeInvalidArgument},
		"missing":     {"u1", &examtrackv1.SubmitExamRequest{ExamType: "TYT"}, connect.CodeInvalidArgument},
		"bad date":    {"u1", &examtrackv1.SubmitExamRequest{ExamType: "TYT", Date: "01/03/2026", Scores: json.RawMessage(`{"MATH":{"correct":1}}`)}, connect.CodeInvalidArgument},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := call[examtrackv1.SubmitExamRequest, examtrackv1.Exam](t, srv, examtrackv1.ExamServiceSubmitExamProcedure, tc.userID, tc.req)
			if got := connect.CodeOf(err); got != tc.want {
				t.Fatalf("code = %v, want %v (%v)", got, tc.want, err)
			}
		})
	}

	_, err := call[examtrackv1.IDRequest, examtrackv1.Exam](t, srv, examtrackv1.ExamServiceGetExamProcedure, "u1", &examtrackv1.IDRequest{ID: 42})
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestBookService_UnitsAndTests(t *testing.T) {
	srv := newTestServer(t)

	book, err := call[examtrackv1.AddBookRequest, examtrackv1.Book](t, srv, examtrackv1.BookServiceAddBookProcedure, "u1", &examtrackv1.AddBookRequest{Title: "Limit Yayınları", TotalUnits: 2, SubjectCode: "MATH"})
	if err != nil {
		t.Fatalf("AddBook: %v", err)
	}
	unit, err := call[examtrackv1.AddUnitRequest, examtrackv1.BookUnit](t, srv, examtrackv1.BookServiceAddUnitProcedure, "u1", &examtrackv1.AddUnitRequest{BookID: book.ID, UnitName: "Türev"})
	if err != nil {
		t.Fatalf("AddUnit: %v", err)
	}
	if _, err := call[examtrackv1.ToggleRequest, examtrackv1.BookUnit](t, srv, examtrackv1.BookServiceToggleUnitCompletionProcedure, "u1", &examtrackv1.ToggleRequest{ID: unit.ID, Done: true}); err != nil {
		t.Fatalf("ToggleUnitCompletion: %v", err)
	}
	if _, err := call[examtrackv1.SaveTestRequest, examtrackv1.BookTest](t, srv, examtrackv1.BookServiceAddTestProcedure, "u1", &examtrackv1.SaveTestRequest{UnitID: unit.ID, TotalQuestions: 20, CorrectAnswers: 15, WrongAnswers: 4}); err != nil {
		t.Fatalf("AddTest: %v", err)
	}

	got, err := call[examtrackv1.IDRequest, examtrackv1.Book](t, srv, examtrackv1.BookServiceGetBookProcedure, "u1", &examtrackv1.IDRequest{ID: book.ID})
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if got.SubjectName != "Matematik" || !got.Progress.ByUnits || got.Progress.Completed != 1 || got.Progress.Percentage != 100 {
		t.Fatalf("unexpected book %+v", got)
	}
	if len(got.Units) != 1 || got.Units[0].Stats == nil || got.Units[0].Stats.SuccessRate != 75 {
		t.Fatalf("unexpected units %+v", got.Units)
	}

	_, err = call[examtrackv1.UpdateBookProgressRequest, examtrackv1.Book](t, srv, examtrackv1.BookServiceUpdateBookProgressProcedure, "u1", &examtrackv1.UpdateBookProgressRequest{ID: book.ID, CompletedUnits: 3})
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestProfileService(t *testing.T) {
	srv := newTestServer(t)

	profile, err := call[examtrackv1.SetStudyFieldRequest, examtrackv1.Profile](t, srv, examtrackv1.ProfileServiceSetStudyFieldProcedure, "u1", &examtrackv1.SetStudyFieldRequest{StudyField: "SAYISAL"})
	if err != nil {
		t.Fatalf("SetStudyField: %v", err)
	}
	if profile.StudyField != "SAYISAL" || profile.UserID != "u1" {
		t.Fatalf("unexpected profile %+v", profile)
	}

	opts, err := call[examtrackv1.SubjectOptionsRequest, examtrackv1.SubjectOptionsResponse](t, srv, examtrackv1.ProfileServiceSubjectOptionsProcedure, "u1", &examtrackv1.SubjectOptionsRequest{ExamType: "AYT"})
	if err != nil {
		t.Fatalf("SubjectOptions: %v", err)
	}
	if len(opts.Subjects) == 0 || opts.Subjects[0].Code != "MATH" {
		t.Fatalf("unexpected options %+v", opts.Subjects)
	}

	topics, err := call[examtrackv1.TopicsRequest, examtrackv1.TopicsResponse](t, srv, examtrackv1.ProfileServiceTopicsProcedure, "u1", &examtrackv1.TopicsRequest{Subject: "PHILOSOPHY_GRP"})
	if err != nil {
		t.Fatalf("Topics: %v", err)
	}
	if len(topics.Topics) != 3 || topics.Topics[0] != "Psikoloji" {
		t.Fatalf("unexpected topics %v", topics.Topics)
	}
}

func TestConvertPagination(t *testing.T) {
	if p := convertPagination(nil); p.PageNo != 1 || p.PageSize != _defaultPageSize {
		t.Fatalf("unexpected defaults %+v", p)
	}
	if p := convertPagination(&examtrackv1.PaginationRequest{PageNo: 3, PageSize: 500}); p.PageNo != 3 || p.PageSize != _maxPageSize {
		t.Fatalf("unexpected clamp %+v", p)
	}
}
