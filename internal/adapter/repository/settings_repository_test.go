package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/eslsoft/speaktrack/internal/entity"
	"github.com/eslsoft/speaktrack/internal/repository"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func TestSettingsDefaultAndPartialDocuments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.repos.Settings.Get(ctx)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != entity.DefaultUserSettings() {
		t.Fatalf("expected defaults, got %+v", got)
	}

	_ = f.store.Set(ctx, repository.Key(repository.KindSettings, "u1"), `{"pronunciationThreshold":90}`)
	got, _ = f.repos.Settings.Get(ctx)
	if got.PronunciationThreshold != 90 || got.MasteredWordAttempts != entity.DefaultMasteredWordAttempts || !got.AutoSaveWeakWords {
		t.Fatalf("missing fields should keep their defaults: %+v", got)
	}

	bad := entity.DefaultUserSettings()
	bad.PronunciationThreshold = 70
	if err := f.repos.Settings.Save(ctx, bad); !errors.Is(err, entity.ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}
}

func TestWeeklyGoal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if got, _ := f.repos.WeeklyGoal.Get(ctx); got != entity.DefaultWeeklyGoalMinutes {
		t.Fatalf("expected default goal, got %d", got)
	}
	if err := f.repos.WeeklyGoal.Set(ctx, 0); !errors.Is(err, entity.ErrInvalidWeeklyGoal) {
		t.Fatalf("expected ErrInvalidWeeklyGoal, got %v", err)
	}
	if err := f.repos.WeeklyGoal.Set(ctx, 25); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if got, _ := f.repos.WeeklyGoal.Get(ctx); got != 25 {
		t.Fatalf("expected 25, got %d", got)
	}

	_ = f.store.Set(ctx, repository.Key(repository.KindWeeklyGoal, "u1"), "twenty")
	if got, _ := f.repos.WeeklyGoal.Get(ctx); got != entity.DefaultWeeklyGoalMinutes {
		t.Fatalf("unreadable goal should fall back to default, got %d", got)
	}
}

func TestSessionCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		got, err := f.repos.Sessions.Increment(ctx)
		if err != nil {
			t.Fatalf("Increment returned error: %v", err)
		}
		if got != want {
			t.Fatalf("expected %d, got %d", want, got)
		}
	}
	if err := f.repos.Sessions.Clear(ctx); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if got, _ := f.repos.Sessions.Count(ctx); got != 0 {
		t.Fatalf("expected 0 after clear, got %d", got)
	}
}

func TestRepositoriesAreScopedPerUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	logger, _ := logtest.NewNullLogger()
	other := NewFactory(f.store, logger).ForUser("u2")

	if _, err := f.repos.Sessions.Increment(ctx); err != nil {
		t.Fatalf("Increment returned error: %v", err)
	}
	if got, _ := other.Sessions.Count(ctx); got != 0 {
		t.Fatalf("sessions leaked across users: %d", got)
	}
	if _, ok := f.store.Snapshot()["session_count_u1"]; !ok {
		t.Fatalf("expected key session_count_u1 in %v", f.store.Snapshot())
	}
}
