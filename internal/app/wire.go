//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/speaktrack/internal/adapter/repository"
	"github.com/eslsoft/speaktrack/internal/adapter/rest"
	"github.com/eslsoft/speaktrack/internal/infrastructure/config"
	"github.com/eslsoft/speaktrack/internal/infrastructure/database"
	"github.com/eslsoft/speaktrack/internal/infrastructure/server"
	"github.com/eslsoft/speaktrack/internal/usecase"
)

var configSet = wire.NewSet(
	config.Load,
	provideLocation,
)

var databaseSet = wire.NewSet(
	database.NewStore,
)

var repositorySet = wire.NewSet(
	repository.NewRepositoryFactory,
)

var usecaseSet = wire.NewSet(
	usecase.NewWeakWordUsecase,
	usecase.NewPhraseUsecase,
	usecase.NewStatsUsecase,
	usecase.NewSettingsUsecase,
	usecase.NewProgressUsecase,
	provideInsightCatalog,
	usecase.NewInsightUsecase,
	provideBackupService,
)

var serverSet = wire.NewSet(
	server.NewLogger,
	wire.Bind(new(logrus.FieldLogger), new(*logrus.Logger)),
	rest.NewHandler,
	server.NewServer,
)

// Initialize builds the application container using Wire.
func Initialize() (*Container, func(), error) {
	wire.Build(
		configSet,
		databaseSet,
		repositorySet,
		usecaseSet,
		serverSet,
		wire.Struct(new(Container), "*"),
	)
	return nil, nil, nil
}
