package app

import (
	"github.com/eslsoft/speaktrack/internal/infrastructure/config"
	"github.com/eslsoft/speaktrack/internal/infrastructure/server"
	"github.com/eslsoft/speaktrack/internal/usecase"
	"github.com/eslsoft/speaktrack/internal/usecase/backup"
	"github.com/sirupsen/logrus"
)

// Container aggregates the application dependencies produced by Wire.
type Container struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Server   *server.Server
	Words    usecase.WeakWordUsecase
	Phrases  usecase.PhraseUsecase
	Stats    usecase.StatsUsecase
	Insights usecase.InsightUsecase
	Settings usecase.SettingsUsecase
	Progress usecase.ProgressUsecase
	Backup   *backup.Service
}
