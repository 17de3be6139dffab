package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eslsoft/speaktrack/internal/entity"
	"github.com/eslsoft/speaktrack/internal/repository"
)

func daysAgo(n int) *time.Time {
	t := wednesday.Add(-time.Duration(n) * 24 * time.Hour)
	return &t
}

func TestPhrasePriority(t *testing.T) {
	cases := []struct {
		name   string
		phrase entity.SavedPhrase
		want   int
	}{
		{"never practiced weak", entity.SavedPhrase{Status: entity.PhraseStatusWeak}, 100 + 200 + 30},
		{"learning four days ago", entity.SavedPhrase{Status: entity.PhraseStatusLearning, LastPracticedAt: daysAgo(4), AvgScore: 70}, 50 + 80 + 15},
		{"weak eight days ago", entity.SavedPhrase{Status: entity.PhraseStatusWeak, LastPracticedAt: daysAgo(8), AvgScore: 50}, 100 + 150 + 30},
		{"learning yesterday", entity.SavedPhrase{Status: entity.PhraseStatusLearning, LastPracticedAt: daysAgo(1), AvgScore: 82}, 50 + 40},
		{"mastered today", entity.SavedPhrase{Status: entity.PhraseStatusMastered, LastPracticedAt: daysAgo(0), AvgScore: 95}, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PhrasePriority(tc.phrase, wednesday); got != tc.want {
				t.Fatalf("PhrasePriority = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestRankPhrasesOrdersAndLimits(t *testing.T) {
	phrases := []entity.SavedPhrase{
		{ID: "mastered", Status: entity.PhraseStatusMastered, LastPracticedAt: daysAgo(0), AvgScore: 95},
		{ID: "new-a", Status: entity.PhraseStatusWeak},
		{ID: "stale", Status: entity.PhraseStatusLearning, LastPracticedAt: daysAgo(10), AvgScore: 75},
		{ID: "new-b", Status: entity.PhraseStatusWeak},
	}

	ranked := RankPhrases(phrases, wednesday, 0)
	if len(ranked) != DefaultTodayPhrases {
		t.Fatalf("expected %d phrases, got %d", DefaultTodayPhrases, len(ranked))
	}
	got := []string{ranked[0].ID, ranked[1].ID, ranked[2].ID}
	want := []string{"new-a", "new-b", "stale"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rank order = %v, want %v", got, want)
		}
	}
	if ranked[0].Priority != 330 {
		t.Fatalf("expected priority 330, got %d", ranked[0].Priority)
	}

	if all := RankPhrases(phrases, wednesday, 10); len(all) != 4 {
		t.Fatalf("limit above size should return everything, got %d", len(all))
	}
}

func TestPracticePhraseReportsJustMastered(t *testing.T) {
	env := newTestEnv(t)
	uc := env.phrases()
	ctx := context.Background()

	phrase, err := uc.SavePhrase(ctx, "u1", entity.PhraseInput{TextEN: "Could you say that again?"})
	if err != nil {
		t.Fatalf("SavePhrase returned error: %v", err)
	}

	var res *entity.PhrasePracticeResult
	for i := 0; i < 3; i++ {
		if res, err = uc.PracticePhrase(ctx, "u1", phrase.ID, 88); err != nil {
			t.Fatalf("PracticePhrase returned error: %v", err)
		}
		if i < 2 && res.JustMastered {
			t.Fatalf("mastered too early on drill %d", i+1)
		}
	}
	if !res.Passed || !res.JustMastered || res.Phrase.Status != entity.PhraseStatusMastered {
		t.Fatalf("expected the third pass to master the phrase, got %+v", res)
	}

	res, err = uc.PracticePhrase(ctx, "u1", phrase.ID, 99)
	if err != nil {
		t.Fatalf("PracticePhrase returned error: %v", err)
	}
	if res.JustMastered {
		t.Fatalf("an already mastered phrase is not just mastered")
	}

	if _, err := uc.PracticePhrase(ctx, "u1", "missing", 90); !errors.Is(err, entity.ErrPhraseNotFound) {
		t.Fatalf("expected ErrPhraseNotFound, got %v", err)
	}
}

func TestPracticePhraseUsesPronunciationThreshold(t *testing.T) {
	env := newTestEnv(t)
	uc := env.phrases()
	ctx := context.Background()

	if err := NewSettingsUsecase(env.factory).SetPronunciationThreshold(ctx, "u1", 90); err != nil {
		t.Fatalf("SetPronunciationThreshold returned error: %v", err)
	}
	phrase, err := uc.SavePhrase(ctx, "u1", entity.PhraseInput{TextEN: "Nice to meet you"})
	if err != nil {
		t.Fatalf("SavePhrase returned error: %v", err)
	}
	res, err := uc.PracticePhrase(ctx, "u1", phrase.ID, 88)
	if err != nil {
		t.Fatalf("PracticePhrase returned error: %v", err)
	}
	if res.Passed || res.Phrase.SuccessStreak != 0 {
		t.Fatalf("88 should fail a 90 threshold, got %+v", res)
	}
}

func TestPhrasesByTopicAndToday(t *testing.T) {
	env := newTestEnv(t)
	uc := env.phrases()
	ctx := context.Background()

	travel := "travel"
	for _, in := range []entity.PhraseInput{
		{TextEN: "Where is the station?", Topic: travel},
		{TextEN: "One ticket, please", Topic: travel},
		{TextEN: "I'm fine, thanks"},
	} {
		if _, err := uc.SavePhrase(ctx, "u1", in); err != nil {
			t.Fatalf("SavePhrase returned error: %v", err)
		}
	}
	if _, err := uc.SavePhrase(ctx, "u1", entity.PhraseInput{TextEN: "one ticket, PLEASE"}); !errors.Is(err, entity.ErrDuplicatePhrase) {
		t.Fatalf("expected ErrDuplicatePhrase, got %v", err)
	}

	grouped, err := uc.PhrasesByTopic(ctx, "u1")
	if err != nil {
		t.Fatalf("PhrasesByTopic returned error: %v", err)
	}
	if len(grouped["travel"]) != 2 || len(grouped[entity.DefaultPhraseTopic]) != 1 {
		t.Fatalf("unexpected grouping: %+v", grouped)
	}

	env.practicePhrase(t, wednesday, "phrase-1", 95)
	today, err := uc.TodayPhrases(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("TodayPhrases returned error: %v", err)
	}
	if len(today) != 2 {
		t.Fatalf("expected 2 phrases, got %d", len(today))
	}
	for _, p := range today {
		if p.ID == "phrase-1" {
			t.Fatalf("the phrase practiced today should not be prioritised: %+v", today)
		}
	}

	filtered, err := uc.ListPhrases(ctx, "u1", &repository.ListSavedPhraseQuery{Topic: "travel"})
	if err != nil || len(filtered) != 2 {
		t.Fatalf("expected 2 travel phrases, got %d (err=%v)", len(filtered), err)
	}

	if err := uc.RemovePhrase(ctx, "u1", "where is the station?"); err != nil {
		t.Fatalf("RemovePhrase returned error: %v", err)
	}
	if all, _ := uc.ListPhrases(ctx, "u1", nil); len(all) != 2 {
		t.Fatalf("expected 2 phrases after removal, got %d", len(all))
	}
}
