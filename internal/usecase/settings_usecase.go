package usecase

import (
	"context"

	"github.com/eslsoft/speaktrack/internal/entity"
	"github.com/eslsoft/speaktrack/internal/repository"
)

// SettingsUsecase manages learner settings, the daily goal and session counts.
type SettingsUsecase interface {
	GetSettings(ctx context.Context, userID string) (entity.UserSettings, error)
	UpdateSettings(ctx context.Context, userID string, patch entity.SettingsPatch) (entity.UserSettings, error)
	PronunciationThreshold(ctx context.Context, userID string) (float64, error)
	SetPronunciationThreshold(ctx context.Context, userID string, threshold float64) error
	WeeklyGoal(ctx context.Context, userID string) (int, error)
	SetWeeklyGoal(ctx context.Context, userID string, minutes int) error
	SessionCount(ctx context.Context, userID string) (int, error)
	IncrementSession(ctx context.Context, userID string) (int, error)
}

func NewSettingsUsecase(repos repository.Factory) SettingsUsecase {
	return &settingsUsecase{repos: repos}
}

type settingsUsecase struct {
	repos repository.Factory
}

func (u *settingsUsecase) GetSettings(ctx context.Context, userID string) (entity.UserSettings, error) {
	r, err := scoped(u.repos, userID)
	if err != nil {
		return entity.DefaultUserSettings(), err
	}
	return r.Settings.Get(ctx)
}

// UpdateSettings merges patch into the stored settings. Invalid results are rejected whole.
func (u *settingsUsecase) UpdateSettings(ctx context.Context, userID string, patch entity.SettingsPatch) (entity.UserSettings, error) {
	r, err := scoped(u.repos, userID)
	if err != nil {
		return entity.UserSettings{}, err
	}
	current, err := r.Settings.Get(ctx)
	if err != nil {
		return current, err
	}
	merged := current.Merge(patch)
	if err := r.Settings.Save(ctx, merged); err != nil {
		return current, err
	}
	return merged, nil
}

func (u *settingsUsecase) PronunciationThreshold(ctx context.Context, userID string) (float64, error) {
	settings, err := u.GetSettings(ctx, userID)
	if err != nil {
		return entity.DefaultPronunciationThreshold, err
	}
	return settings.PronunciationThreshold, nil
}

func (u *settingsUsecase) SetPronunciationThreshold(ctx context.Context, userID string, threshold float64) error {
	_, err := u.UpdateSettings(ctx, userID, entity.SettingsPatch{PronunciationThreshold: &threshold})
	return err
}

func (u *settingsUsecase) WeeklyGoal(ctx context.Context, userID string) (int, error) {
	r, err := scoped(u.repos, userID)
	if err != nil {
		return entity.DefaultWeeklyGoalMinutes, err
	}
	return r.WeeklyGoal.Get(ctx)
}

func (u *settingsUsecase) SetWeeklyGoal(ctx context.Context, userID string, minutes int) error {
	r, err := scoped(u.repos, userID)
	if err != nil {
		return err
	}
	return r.WeeklyGoal.Set(ctx, minutes)
}

func (u *settingsUsecase) SessionCount(ctx context.Context, userID string) (int, error) {
	r, err := scoped(u.repos, userID)
	if err != nil {
		return 0, err
	}
	return r.Sessions.Count(ctx)
}

func (u *settingsUsecase) IncrementSession(ctx context.Context, userID string) (int, error) {
	r, err := scoped(u.repos, userID)
	if err != nil {
		return 0, err
	}
	return r.Sessions.Increment(ctx)
}
