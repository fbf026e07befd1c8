package connectrpc

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/samber/lo"

	"github.com/eslsoft/examtrack/internal/catalog"
	"github.com/eslsoft/examtrack/internal/entity"
	"github.com/eslsoft/examtrack/internal/usecase"
	examtrackv1 "github.com/eslsoft/examtrack/pkg/api/examtrack/v1"
)

type ProfileServiceServer struct {
	uc usecase.ProfileUsecase
}

func NewProfileServiceServer(uc usecase.ProfileUsecase) *ProfileServiceServer {
	return &ProfileServiceServer{uc: uc}
}

func (s *ProfileServiceServer) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	handle(mux, examtrackv1.ProfileServiceGetProfileProcedure, s.GetProfile, opts)
	handle(mux, examtrackv1.ProfileServiceSetStudyFieldProcedure, s.SetStudyField, opts)
	handle(mux, examtrackv1.ProfileServiceSubjectOptionsProcedure, s.SubjectOptions, opts)
	handle(mux, examtrackv1.ProfileServiceTopicsProcedure, s.Topics, opts)
	return "/" + examtrackv1.ProfileServiceName + "/", mux
}

func (s *ProfileServiceServer) GetProfile(ctx context.Context, _ *connect.Request[examtrackv1.Empty]) (*connect.Response[examtrackv1.Profile], error) {
	profile, err := s.uc.GetProfile(ctx, UserIDFrom(ctx))
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(toPbProfile(profile)), nil
}

func (s *ProfileServiceServer) SetStudyField(ctx context.Context, req *connect.Request[examtrackv1.SetStudyFieldRequest]) (*connect.Response[examtrackv1.Profile], error) {
	profile, err := s.uc.SetStudyField(ctx, UserIDFrom(ctx), entity.StudyField(req.Msg.StudyField))
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(toPbProfile(profile)), nil
}

func (s *ProfileServiceServer) SubjectOptions(ctx context.Context, req *connect.Request[examtrackv1.SubjectOptionsRequest]) (*connect.Response[examtrackv1.SubjectOptionsResponse], error) {
	options, err := s.uc.SubjectOptions(ctx, UserIDFrom(ctx), entity.ExamType(req.Msg.ExamType))
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&examtrackv1.SubjectOptionsResponse{
		Subjects: lo.Map(options, func(o catalog.Option, _ int) *examtrackv1.SubjectOption {
			return &examtrackv1.SubjectOption{Code: o.Code, Label: o.Label}
		}),
	}), nil
}

// Topics accepts either a subject code or its display name.
func (s *ProfileServiceServer) Topics(_ context.Context, req *connect.Request[examtrackv1.TopicsRequest]) (*connect.Response[examtrackv1.TopicsResponse], error) {
	return connect.NewResponse(&examtrackv1.TopicsResponse{
		Topics: catalog.TopicsFor(catalog.CanonicalName(req.Msg.Subject)),
	}), nil
}

func toPbProfile(p *entity.Profile) *examtrackv1.Profile {
	return &examtrackv1.Profile{
		UserID:     p.UserID,
		StudyField: string(p.StudyField),
		UpdatedAt:  p.UpdatedAt,
	}
}
