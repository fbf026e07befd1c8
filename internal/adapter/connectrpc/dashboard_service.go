package connectrpc

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/eslsoft/examtrack/internal/adapter/mapping"
	"github.com/eslsoft/examtrack/internal/usecase"
	examtrackv1 "github.com/eslsoft/examtrack/pkg/api/examtrack/v1"
)

type DashboardServiceServer struct {
	uc usecase.DashboardUsecase
}

func NewDashboardServiceServer(uc usecase.DashboardUsecase) *DashboardServiceServer {
	return &DashboardServiceServer{uc: uc}
}

func (s *DashboardServiceServer) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	handle(mux, examtrackv1.DashboardServiceGetDashboardProcedure, s.GetDashboard, opts)
	return "/" + examtrackv1.DashboardServiceName + "/", mux
}

func (s *DashboardServiceServer) GetDashboard(ctx context.Context, _ *connect.Request[examtrackv1.Empty]) (*connect.Response[examtrackv1.Dashboard], error) {
	dashboard, err := s.uc.Dashboard(ctx, UserIDFrom(ctx))
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(mapping.ToPbDashboard(dashboard)), nil
}
