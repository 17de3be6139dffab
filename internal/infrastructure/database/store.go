package database

import (
	"context"
	"fmt"

	"github.com/eslsoft/speaktrack/internal/infrastructure/config"
	"github.com/eslsoft/speaktrack/internal/repository"
	"github.com/sirupsen/logrus"
)

// NewStore opens the backend selected by database.driver.
func NewStore(cfg *config.Config, logger logrus.FieldLogger) (repository.KVStore, func(), error) {
	ctx := context.Background()
	driver := cfg.DatabaseDriver()

	dsn, err := cfg.DatabaseURL()
	if err != nil {
		return nil, nil, fmt.Errorf("determine database dsn: %w", err)
	}

	var store repository.KVStore
	switch driver {
	case "memory":
		store = NewMemoryStore()
	case "sqlite", "sqlite3", "postgres":
		store, err = OpenSQLStore(ctx, driver, dsn)
	case "pgx":
		store, err = NewPgxStore(ctx, dsn, PgxOptions{
			MaxConns: cfg.Database.MaxConns,
			LogSQL:   cfg.Database.LogSQL,
			Logger:   logger,
		})
	case "redis":
		store, err = NewRedisStore(ctx, dsn, cfg.Database.KeyPrefix)
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, nil, err
	}

	logger.WithField("driver", driver).Debug("progress store opened")
	return store, func() {
		if err := store.Close(); err != nil {
			logger.WithError(err).Warn("close progress store")
		}
	}, nil
}
