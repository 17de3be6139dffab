package repository

import (
	"context"

	"github.com/eslsoft/speaktrack/internal/entity"
)

// SettingsRepository stores learner settings; Get falls back to defaults.
type SettingsRepository interface {
	Get(ctx context.Context) (entity.UserSettings, error)
	Save(ctx context.Context, settings entity.UserSettings) error
}

// WeeklyGoalRepository stores the daily speaking goal in minutes.
type WeeklyGoalRepository interface {
	Get(ctx context.Context) (int, error)
	Set(ctx context.Context, minutes int) error
}

// SessionRepository counts completed practice sessions.
type SessionRepository interface {
	Count(ctx context.Context) (int, error)
	Increment(ctx context.Context) (int, error)
	Set(ctx context.Context, count int) error
	Clear(ctx context.Context) error
}
