//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/eslsoft/examtrack/internal/adapter/connectrpc"
	sqlstore "github.com/eslsoft/examtrack/internal/adapter/repository"
	"github.com/eslsoft/examtrack/internal/infrastructure/config"
	"github.com/eslsoft/examtrack/internal/infrastructure/database"
	"github.com/eslsoft/examtrack/internal/infrastructure/server"
	"github.com/eslsoft/examtrack/internal/repository"
	"github.com/eslsoft/examtrack/internal/usecase"
)

var configSet = wire.NewSet(
	config.Load,
	provideTargetDate,
)

var databaseSet = wire.NewSet(
	database.NewConnection,
)

var repositorySet = wire.NewSet(
	sqlstore.NewSQLStore,
	wire.Bind(new(repository.Store), new(*sqlstore.SQLStore)),
)

var usecaseSet = wire.NewSet(
	usecase.NewExamUsecase,
	usecase.NewBookUsecase,
	usecase.NewGoalUsecase,
	usecase.NewStudyUsecase,
	usecase.NewProfileUsecase,
	usecase.NewDashboardUsecase,
)

var serviceSet = wire.NewSet(
	connectrpc.NewExamServiceServer,
	connectrpc.NewBookServiceServer,
	connectrpc.NewGoalServiceServer,
	connectrpc.NewStudyServiceServer,
	connectrpc.NewProfileServiceServer,
	connectrpc.NewDashboardServiceServer,
	provideServices,
)

var serverSet = wire.NewSet(
	server.NewLogger,
	server.NewServer,
)

// Initialize builds the application container using Wire.
func Initialize() (*Container, func(), error) {
	wire.Build(
		configSet,
		databaseSet,
		repositorySet,
		usecaseSet,
		serviceSet,
		serverSet,
		wire.Struct(new(Container), "Logger", "Server"),
	)
	return nil, nil, nil
}
