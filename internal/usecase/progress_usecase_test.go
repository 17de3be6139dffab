package usecase

import (
	"context"
	"testing"

	"github.com/eslsoft/speaktrack/internal/entity"
)

func TestProgressSummaryAndClear(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	words := NewWeakWordUsecase(env.factory, env.logger)
	phrases := env.phrases()
	settings := NewSettingsUsecase(env.factory)
	uc := NewProgressUsecase(env.factory, env.logger)

	for _, w := range []string{"three", "three", "world"} {
		if _, err := words.SaveWeakWord(ctx, "u1", entity.WeakWordInput{Word: w, ErrorType: entity.ErrorTypeSubstitution}); err != nil {
			t.Fatalf("SaveWeakWord returned error: %v", err)
		}
	}
	if _, err := words.SaveWeakWord(ctx, "u1", entity.WeakWordInput{Word: "very", ErrorType: entity.ErrorTypeDeletion}); err != nil {
		t.Fatalf("SaveWeakWord returned error: %v", err)
	}
	if _, err := words.MasterWord(ctx, "u1", "very"); err != nil {
		t.Fatalf("MasterWord returned error: %v", err)
	}
	travel := "travel"
	for _, in := range []entity.PhraseInput{{TextEN: "Where is the station?", Topic: travel}, {TextEN: "Thanks a lot"}} {
		if _, err := phrases.SavePhrase(ctx, "u1", in); err != nil {
			t.Fatalf("SavePhrase returned error: %v", err)
		}
	}
	if _, err := settings.IncrementSession(ctx, "u1"); err != nil {
		t.Fatalf("IncrementSession returned error: %v", err)
	}
	if err := settings.SetWeeklyGoal(ctx, "u1", 20); err != nil {
		t.Fatalf("SetWeeklyGoal returned error: %v", err)
	}

	summary, err := uc.Summary(ctx, "u1")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if summary.Stats.TotalWeakWords != 2 || summary.Stats.TotalErrors != 3 || summary.Stats.TotalSavedPhrases != 2 {
		t.Fatalf("unexpected stats: %+v", summary.Stats)
	}
	if summary.Stats.PhrasesByTopic["travel"] != 1 || summary.Stats.PhrasesByTopic[entity.DefaultPhraseTopic] != 1 {
		t.Fatalf("unexpected topics: %+v", summary.Stats.PhrasesByTopic)
	}
	if summary.SessionCount != 1 {
		t.Fatalf("expected one session, got %d", summary.SessionCount)
	}

	if err := uc.ClearUserData(ctx, "u1"); err != nil {
		t.Fatalf("ClearUserData returned error: %v", err)
	}
	summary, err = uc.Summary(ctx, "u1")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if len(summary.WeakWords) != 0 || len(summary.SavedPhrases) != 0 || summary.SessionCount != 0 {
		t.Fatalf("expected cleared progress, got %+v", summary)
	}
	if mastered, _ := words.ListMastered(ctx, "u1"); len(mastered) != 1 {
		t.Fatalf("mastered words survive a clear, got %+v", mastered)
	}
	if goal, _ := settings.WeeklyGoal(ctx, "u1"); goal != 20 {
		t.Fatalf("the weekly goal survives a clear, got %d", goal)
	}
}
