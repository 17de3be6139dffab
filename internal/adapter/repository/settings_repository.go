package repository

import (
	"context"

	"github.com/eslsoft/speaktrack/internal/entity"
	"github.com/sirupsen/logrus"
)

type settingsRepository struct {
	settings document[entity.UserSettings]
}

func (r *settingsRepository) Get(ctx context.Context) (entity.UserSettings, error) {
	return r.settings.load(ctx, entity.DefaultUserSettings())
}

func (r *settingsRepository) Save(ctx context.Context, settings entity.UserSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	return r.settings.save(ctx, settings)
}

type weeklyGoalRepository struct {
	goal document[int]
	log  logrus.FieldLogger
}

func (r *weeklyGoalRepository) Get(ctx context.Context) (int, error) {
	minutes, err := r.goal.load(ctx, entity.DefaultWeeklyGoalMinutes)
	if err != nil {
		return entity.DefaultWeeklyGoalMinutes, err
	}
	if entity.ValidateWeeklyGoal(minutes) != nil {
		r.log.WithField("key", r.goal.key).WithField("minutes", minutes).Warn("ignoring non-positive weekly goal")
		return entity.DefaultWeeklyGoalMinutes, nil
	}
	return minutes, nil
}

func (r *weeklyGoalRepository) Set(ctx context.Context, minutes int) error {
	if err := entity.ValidateWeeklyGoal(minutes); err != nil {
		return err
	}
	return r.goal.save(ctx, minutes)
}

type sessionRepository struct {
	count document[int]
}

func (r *sessionRepository) Count(ctx context.Context) (int, error) {
	n, err := r.count.load(ctx, 0)
	if err != nil {
		return 0, err
	}
	return max(0, n), nil
}

func (r *sessionRepository) Increment(ctx context.Context) (int, error) {
	n, err := r.Count(ctx)
	if err != nil {
		return 0, err
	}
	n++
	if err := r.count.save(ctx, n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *sessionRepository) Set(ctx context.Context, count int) error {
	return r.count.save(ctx, max(0, count))
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	return r.count.clear(ctx)
}
