package app

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/examtrack/internal/adapter/connectrpc"
	"github.com/eslsoft/examtrack/internal/infrastructure/config"
	"github.com/eslsoft/examtrack/internal/infrastructure/server"
	"github.com/eslsoft/examtrack/internal/usecase"
)

// Container aggregates the application dependencies produced by Wire.
type Container struct {
	Logger *logrus.Logger
	Server *server.Server
}

func provideTargetDate(cfg *config.Config) (usecase.TargetDate, error) {
	t, err := cfg.ExamTargetDate()
	if err != nil {
		return usecase.TargetDate(time.Time{}), err
	}
	return usecase.TargetDate(t), nil
}

func provideServices(
	exams *connectrpc.ExamServiceServer,
	books *connectrpc.BookServiceServer,
	goals *connectrpc.GoalServiceServer,
	study *connectrpc.StudyServiceServer,
	profiles *connectrpc.ProfileServiceServer,
	dashboard *connectrpc.DashboardServiceServer,
) []server.Service {
	return []server.Service{exams, books, goals, study, profiles, dashboard}
}
