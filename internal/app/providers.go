package app

import (
	"time"

	"github.com/eslsoft/speaktrack/internal/entity"
	"github.com/eslsoft/speaktrack/internal/infrastructure/config"
	"github.com/eslsoft/speaktrack/internal/repository"
	"github.com/eslsoft/speaktrack/internal/usecase"
	"github.com/eslsoft/speaktrack/internal/usecase/backup"
	"github.com/sirupsen/logrus"
)

func provideLocation(cfg *config.Config) (*time.Location, error) {
	return cfg.Location()
}

func provideInsightCatalog(cfg *config.Config) (*usecase.InsightCatalog, error) {
	return usecase.LoadInsightCatalog(entity.ParseLanguage(cfg.App.Locale))
}

func provideBackupService(repos repository.Factory, progress usecase.ProgressUsecase, logger logrus.FieldLogger) *backup.Service {
	return backup.NewService(repos, progress, logger)
}
