package entity

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestApplyPracticeRunningAverageAndStatus(t *testing.T) {
	now := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	phrase := NewSavedPhrase("p1", PhraseInput{TextEN: "How are you?", Source: PhraseSourceManual}, now)
	rule := DefaultMasteryRule()

	phrase = phrase.ApplyPractice(70, rule, now)
	if phrase.PracticeCount != 1 || phrase.AvgScore != 70 || phrase.SuccessStreak != 0 {
		t.Fatalf("unexpected stats after first drill: %+v", phrase)
	}
	if phrase.Status != PhraseStatusWeak {
		t.Fatalf("expected weak, got %s", phrase.Status)
	}

	phrase = phrase.ApplyPractice(90, rule, now)
	if phrase.AvgScore != 80 || phrase.SuccessStreak != 1 || phrase.Status != PhraseStatusLearning {
		t.Fatalf("unexpected stats after second drill: %+v", phrase)
	}

	phrase = phrase.ApplyPractice(85, rule, now)
	phrase = phrase.ApplyPractice(95, rule, now)
	if phrase.SuccessStreak != 3 || phrase.Status != PhraseStatusMastered {
		t.Fatalf("expected mastered after three passes, got %+v", phrase)
	}
	if phrase.LastPracticedAt == nil || !phrase.LastPracticedAt.Equal(now) {
		t.Fatalf("expected last practiced to be stamped")
	}

	phrase = phrase.ApplyPractice(40, rule, now)
	if phrase.SuccessStreak != 0 || phrase.Status != PhraseStatusLearning {
		t.Fatalf("a failed drill should reset the streak, got %+v", phrase)
	}
}

func TestApplyPracticeRoundsAverage(t *testing.T) {
	phrase := SavedPhrase{PracticeCount: 2, AvgScore: 80, Status: PhraseStatusLearning}
	got := phrase.ApplyPractice(81, DefaultMasteryRule(), time.Now())
	// (80*2 + 81) / 3 = 80.33
	if got.AvgScore != 80 {
		t.Fatalf("expected rounded average 80, got %v", got.AvgScore)
	}
}

func TestDerivePhraseStatus(t *testing.T) {
	cases := []struct {
		streak, count int
		want          PhraseStatus
	}{
		{0, 1, PhraseStatusWeak},
		{0, 2, PhraseStatusLearning},
		{1, 1, PhraseStatusLearning},
		{3, 3, PhraseStatusMastered},
		{2, 5, PhraseStatusLearning},
	}
	for _, tc := range cases {
		if got := DerivePhraseStatus(tc.streak, tc.count, 3); got != tc.want {
			t.Fatalf("DerivePhraseStatus(%d, %d) = %s, want %s", tc.streak, tc.count, got, tc.want)
		}
	}
}

func TestPhraseInputValidate(t *testing.T) {
	if _, err := (PhraseInput{TextEN: "   "}).Validate(); !errors.Is(err, ErrInvalidPhraseText) {
		t.Fatalf("expected ErrInvalidPhraseText, got %v", err)
	}
	in, err := (PhraseInput{TextEN: " Nice to meet you "}).Validate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Source != PhraseSourceManual || in.TextEN != "Nice to meet you" {
		t.Fatalf("unexpected normalised input: %+v", in)
	}
	if _, err := (PhraseInput{TextEN: "x", Source: "podcast"}).Validate(); !errors.Is(err, ErrInvalidPhraseSource) {
		t.Fatalf("expected ErrInvalidPhraseSource, got %v", err)
	}
}

func TestNormalizePhraseSource(t *testing.T) {
	cases := map[PhraseSource]PhraseSource{
		"lesson":         PhraseSourceLesson,
		"lesson_3":       PhraseSourceLesson,
		"live_talk_cafe": PhraseSourceLiveTalk,
		"speaking_lab":   PhraseSourceSpeakingLab,
		"something_else": PhraseSourceManual,
		"":               PhraseSourceManual,
	}
	for in, want := range cases {
		if got := NormalizePhraseSource(in); got != want {
			t.Fatalf("NormalizePhraseSource(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTopicOrDefault(t *testing.T) {
	topic := "travel"
	if got := (SavedPhrase{Topic: &topic}).TopicOrDefault(); got != "travel" {
		t.Fatalf("expected travel, got %s", got)
	}
	if got := (SavedPhrase{}).TopicOrDefault(); got != DefaultPhraseTopic {
		t.Fatalf("expected default topic, got %s", got)
	}
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorKind
	}{
		{nil, KindNone},
		{fmt.Errorf("wrap: %w", ErrDuplicatePhrase), KindDuplicate},
		{ErrPhraseNotFound, KindNotFound},
		{fmt.Errorf("save: %w: %w", ErrStorage, errors.New("disk full")), KindStorage},
		{ErrWordAlreadyMastered, KindAlreadyMastered},
		{ErrInvalidSettings, KindInvalid},
		{errors.New("boom"), KindUnknown},
	}
	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Fatalf("KindOf(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
