package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/eslsoft/speaktrack/internal/entity"
	"github.com/eslsoft/speaktrack/internal/infrastructure/database"
	"github.com/eslsoft/speaktrack/internal/repository"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

type fixture struct {
	store *database.MemoryStore
	hook  *logtest.Hook
	now   time.Time
	repos repository.UserRepositories
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	f := &fixture{
		store: database.NewMemoryStore(),
		hook:  hook,
		now:   time.Date(2025, 3, 5, 9, 30, 0, 0, time.UTC),
	}
	seq := 0
	factory := NewFactory(f.store, logger,
		WithClock(func() time.Time { return f.now }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("phrase-%d", seq)
		}),
	)
	f.repos = factory.ForUser("u1")
	return f
}

func TestWeakWordSaveOrUpdateAccumulates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	words := f.repos.WeakWords

	if _, err := words.SaveOrUpdate(ctx, entity.WeakWordInput{Word: "Three", ErrorType: entity.ErrorTypeSubstitution}); err != nil {
		t.Fatalf("SaveOrUpdate returned error: %v", err)
	}
	score := 62.0
	updated, err := words.SaveOrUpdate(ctx, entity.WeakWordInput{
		Word:       "three",
		ErrorType:  entity.ErrorTypeDeletion,
		ErrorCount: lo.ToPtr(2),
		LastScore:  &score,
	})
	if err != nil {
		t.Fatalf("SaveOrUpdate returned error: %v", err)
	}

	if updated.Word != "Three" || updated.ErrorCount != 3 || updated.ErrorType != entity.ErrorTypeDeletion {
		t.Fatalf("unexpected merged word: %+v", updated)
	}
	if updated.LastScore != 62 || updated.SuccessStreak != 0 {
		t.Fatalf("unexpected score/streak: %+v", updated)
	}

	list, err := words.List(ctx, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected a single entry for case-insensitive matches, got %d", len(list))
	}
}

func TestWeakWordUpdateKeepsUnsuppliedFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	words := f.repos.WeakWords

	_, _ = words.SaveOrUpdate(ctx, entity.WeakWordInput{Word: "world", ErrorType: entity.ErrorTypeMispronunciation, LastScore: lo.ToPtr(70.0), SuccessStreak: lo.ToPtr(2)})
	got, err := words.SaveOrUpdate(ctx, entity.WeakWordInput{Word: "WORLD", ErrorType: entity.ErrorTypeMispronunciation})
	if err != nil {
		t.Fatalf("SaveOrUpdate returned error: %v", err)
	}
	if got.LastScore != 70 || got.SuccessStreak != 2 {
		t.Fatalf("score and streak should survive an update without them: %+v", got)
	}

	drill, err := words.SaveOrUpdate(ctx, entity.WeakWordInput{Word: "world", ErrorType: entity.ErrorTypeMispronunciation, ErrorCount: lo.ToPtr(0), SuccessStreak: lo.ToPtr(3)})
	if err != nil {
		t.Fatalf("SaveOrUpdate returned error: %v", err)
	}
	if drill.ErrorCount != 2 {
		t.Fatalf("an explicit zero count must not increment, got %d", drill.ErrorCount)
	}
}

func TestWeakWordInsertDefaults(t *testing.T) {
	f := newFixture(t)
	got, err := f.repos.WeakWords.SaveOrUpdate(context.Background(), entity.WeakWordInput{Word: "  think ", ErrorType: entity.ErrorTypeSubstitution, ErrorCount: lo.ToPtr(0)})
	if err != nil {
		t.Fatalf("SaveOrUpdate returned error: %v", err)
	}
	if got.Word != "think" || got.ErrorCount != 1 || got.LastScore != 0 || got.SuccessStreak != 0 {
		t.Fatalf("unexpected defaults: %+v", got)
	}
	if !got.LastPracticed.Equal(f.now) {
		t.Fatalf("expected last practiced to default to now, got %v", got.LastPracticed)
	}
}

func TestWeakWordSaveRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	_, err := f.repos.WeakWords.SaveOrUpdate(context.Background(), entity.WeakWordInput{Word: "x", ErrorType: "lisp"})
	if !errors.Is(err, entity.ErrInvalidErrorType) {
		t.Fatalf("expected ErrInvalidErrorType, got %v", err)
	}
	if len(f.store.Snapshot()) != 0 {
		t.Fatalf("invalid input must not write")
	}
}

func TestWeakWordListOrdersByErrorCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, in := range []struct {
		word  string
		count int
	}{{"a", 1}, {"b", 5}, {"c", 3}, {"d", 5}} {
		if _, err := f.repos.WeakWords.SaveOrUpdate(ctx, entity.WeakWordInput{Word: in.word, ErrorType: entity.ErrorTypeDeletion, ErrorCount: lo.ToPtr(in.count)}); err != nil {
			t.Fatalf("SaveOrUpdate returned error: %v", err)
		}
	}

	list, err := f.repos.WeakWords.List(ctx, 3)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	got := lo.Map(list, func(w entity.WeakWord, _ int) string { return w.Word })
	want := []string{"b", "d", "c"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestWeakWordRemoveIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _ = f.repos.WeakWords.SaveOrUpdate(ctx, entity.WeakWordInput{Word: "Hello", ErrorType: entity.ErrorTypeDeletion})

	if err := f.repos.WeakWords.Remove(ctx, "hello"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if err := f.repos.WeakWords.Remove(ctx, "hello"); err != nil {
		t.Fatalf("second Remove returned error: %v", err)
	}
	if _, err := f.repos.WeakWords.Find(ctx, "hello"); !errors.Is(err, entity.ErrWeakWordNotFound) {
		t.Fatalf("expected ErrWeakWordNotFound, got %v", err)
	}
}

func TestMoveToMasteredIsExclusive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	word, _ := f.repos.WeakWords.SaveOrUpdate(ctx, entity.WeakWordInput{Word: "three", ErrorType: entity.ErrorTypeSubstitution, ErrorCount: lo.ToPtr(4)})
	_, _ = f.repos.WeakWords.SaveOrUpdate(ctx, entity.WeakWordInput{Word: "world", ErrorType: entity.ErrorTypeDeletion})

	mastered, err := f.repos.WeakWords.MoveToMastered(ctx, *word)
	if err != nil {
		t.Fatalf("MoveToMastered returned error: %v", err)
	}
	if mastered.FinalErrorCount != 4 || !mastered.MasteredAt.Equal(f.now) {
		t.Fatalf("unexpected mastered record: %+v", mastered)
	}

	weak, _ := f.repos.WeakWords.List(ctx, 0)
	if len(weak) != 1 || weak[0].Word != "world" {
		t.Fatalf("mastered word must leave the weak list, got %+v", weak)
	}
	history, _ := f.repos.MasteredWords.List(ctx)
	if len(history) != 1 || history[0].Word != "three" {
		t.Fatalf("unexpected mastered list: %+v", history)
	}

	_, err = f.repos.WeakWords.MoveToMastered(ctx, entity.WeakWord{Word: "THREE"})
	if !errors.Is(err, entity.ErrWordAlreadyMastered) {
		t.Fatalf("expected ErrWordAlreadyMastered, got %v", err)
	}
	history, _ = f.repos.MasteredWords.List(ctx)
	if len(history) != 1 {
		t.Fatalf("a refused move must not change the mastered list, got %d entries", len(history))
	}
}

func TestMasteredListIsNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _ = f.repos.WeakWords.MoveToMastered(ctx, entity.WeakWord{Word: "first", ErrorCount: 1})
	f.now = f.now.Add(time.Hour)
	_, _ = f.repos.WeakWords.MoveToMastered(ctx, entity.WeakWord{Word: "second", ErrorCount: 1})

	history, err := f.repos.MasteredWords.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(history) != 2 || history[0].Word != "second" {
		t.Fatalf("expected newest first, got %+v", history)
	}

	if err := f.repos.MasteredWords.Remove(ctx, "SECOND"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	history, _ = f.repos.MasteredWords.List(ctx)
	if len(history) != 1 || history[0].Word != "first" {
		t.Fatalf("unexpected history after removal: %+v", history)
	}
}

func TestCorruptCollectionReadsAsEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_ = f.store.Set(ctx, repository.Key(repository.KindWeakWords, "u1"), "{not json")

	list, err := f.repos.WeakWords.List(ctx, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %+v", list)
	}
	entry := f.hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel {
		t.Fatalf("expected a warning to be logged")
	}
	if err, ok := entry.Data[logrus.ErrorKey].(error); !ok || !errors.Is(err, entity.ErrCorruptRecord) {
		t.Fatalf("expected logged error to wrap ErrCorruptRecord, got %v", entry.Data[logrus.ErrorKey])
	}
}
