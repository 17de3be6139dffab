package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	kvrepo "github.com/eslsoft/speaktrack/internal/adapter/repository"
	"github.com/eslsoft/speaktrack/internal/entity"
	"github.com/eslsoft/speaktrack/internal/infrastructure/database"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

// wednesday is the reference "now" of most tests: week of Mon 3 Mar 2025.
var wednesday = time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	now     time.Time
	logger  *logrus.Logger
	hook    *logtest.Hook
	factory *kvrepo.Factory
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	env := &testEnv{now: wednesday, logger: logger, hook: hook}
	seq := 0
	env.factory = kvrepo.NewFactory(database.NewMemoryStore(), logger,
		kvrepo.WithClock(func() time.Time { return env.now }),
		kvrepo.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("phrase-%d", seq)
		}),
	)
	return env
}

func (e *testEnv) clock() time.Time { return e.now }

func (e *testEnv) stats() *statsUsecase {
	return &statsUsecase{repos: e.factory, loc: time.UTC, clock: e.clock}
}

func (e *testEnv) phrases() *phraseUsecase {
	return &phraseUsecase{repos: e.factory, logger: e.logger, clock: e.clock}
}

func (e *testEnv) savePhrase(t *testing.T, at time.Time, text string) *entity.SavedPhrase {
	t.Helper()
	e.now = at
	p, err := e.factory.ForUser("u1").Phrases.Save(context.Background(), entity.PhraseInput{TextEN: text})
	if err != nil {
		t.Fatalf("save phrase %q: %v", text, err)
	}
	return p
}

func (e *testEnv) practicePhrase(t *testing.T, at time.Time, id string, score float64) {
	t.Helper()
	e.now = at
	if _, err := e.factory.ForUser("u1").Phrases.UpdateStats(context.Background(), id, score, entity.DefaultMasteryRule()); err != nil {
		t.Fatalf("practice phrase %s: %v", id, err)
	}
}

func (e *testEnv) masterWord(t *testing.T, at time.Time, word string) {
	t.Helper()
	e.now = at
	if _, err := e.factory.ForUser("u1").WeakWords.MoveToMastered(context.Background(), entity.WeakWord{Word: word, ErrorCount: 2}); err != nil {
		t.Fatalf("master %q: %v", word, err)
	}
}

var errStoreDown = errors.New("store down")

// failingStore fails every operation.
type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, errStoreDown
}
func (failingStore) Set(ctx context.Context, key, value string) error { return errStoreDown }
func (failingStore) SetMany(ctx context.Context, entries map[string]string) error {
	return errStoreDown
}
func (failingStore) Remove(ctx context.Context, keys ...string) error { return errStoreDown }
func (failingStore) Close() error                                     { return nil }

func failingFactory() *kvrepo.Factory {
	logger, _ := logtest.NewNullLogger()
	return kvrepo.NewFactory(failingStore{}, logger)
}
