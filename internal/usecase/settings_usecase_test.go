package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/eslsoft/speaktrack/internal/entity"
)

func TestSettingsDefaultsAndUpdate(t *testing.T) {
	env := newTestEnv(t)
	uc := NewSettingsUsecase(env.factory)
	ctx := context.Background()

	settings, err := uc.GetSettings(ctx, "u1")
	if err != nil {
		t.Fatalf("GetSettings returned error: %v", err)
	}
	if settings != entity.DefaultUserSettings() {
		t.Fatalf("expected defaults, got %+v", settings)
	}

	attempts := 5
	updated, err := uc.UpdateSettings(ctx, "u1", entity.SettingsPatch{MasteredWordAttempts: &attempts})
	if err != nil {
		t.Fatalf("UpdateSettings returned error: %v", err)
	}
	if updated.MasteredWordAttempts != 5 || updated.PronunciationThreshold != entity.DefaultPronunciationThreshold {
		t.Fatalf("unexpected merged settings: %+v", updated)
	}

	bad := 75.0
	if _, err := uc.UpdateSettings(ctx, "u1", entity.SettingsPatch{PronunciationThreshold: &bad}); !errors.Is(err, entity.ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}
	threshold, err := uc.PronunciationThreshold(ctx, "u1")
	if err != nil || threshold != entity.DefaultPronunciationThreshold {
		t.Fatalf("rejected update must not persist, got %v (err=%v)", threshold, err)
	}

	if err := uc.SetPronunciationThreshold(ctx, "u1", 80); err != nil {
		t.Fatalf("SetPronunciationThreshold returned error: %v", err)
	}
	if threshold, _ := uc.PronunciationThreshold(ctx, "u1"); threshold != 80 {
		t.Fatalf("expected 80, got %v", threshold)
	}
}

func TestWeeklyGoal(t *testing.T) {
	env := newTestEnv(t)
	uc := NewSettingsUsecase(env.factory)
	ctx := context.Background()

	if goal, err := uc.WeeklyGoal(ctx, "u1"); err != nil || goal != entity.DefaultWeeklyGoalMinutes {
		t.Fatalf("expected default goal, got %d (err=%v)", goal, err)
	}
	if err := uc.SetWeeklyGoal(ctx, "u1", 0); !errors.Is(err, entity.ErrInvalidWeeklyGoal) {
		t.Fatalf("expected ErrInvalidWeeklyGoal, got %v", err)
	}
	if err := uc.SetWeeklyGoal(ctx, "u1", 30); err != nil {
		t.Fatalf("SetWeeklyGoal returned error: %v", err)
	}
	if goal, _ := uc.WeeklyGoal(ctx, "u1"); goal != 30 {
		t.Fatalf("expected 30, got %d", goal)
	}
}

func TestSessionCount(t *testing.T) {
	env := newTestEnv(t)
	uc := NewSettingsUsecase(env.factory)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		got, err := uc.IncrementSession(ctx, "u1")
		if err != nil || got != want {
			t.Fatalf("IncrementSession = %d (err=%v), want %d", got, err, want)
		}
	}
	if n, _ := uc.SessionCount(ctx, "u2"); n != 0 {
		t.Fatalf("sessions are per user, got %d", n)
	}
}
