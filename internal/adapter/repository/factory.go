package repository

import (
	"encoding/json"
	"time"

	"github.com/eslsoft/speaktrack/internal/entity"
	"github.com/eslsoft/speaktrack/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Factory builds KV-backed repositories scoped to one learner.
type Factory struct {
	store  repository.KVStore
	logger logrus.FieldLogger
	clock  func() time.Time
	newID  func() string
}

// Option customises a Factory.
type Option func(*Factory)

// WithClock overrides the time source used for timestamps.
func WithClock(clock func() time.Time) Option {
	return func(f *Factory) { f.clock = clock }
}

// WithIDGenerator overrides the phrase id generator.
func WithIDGenerator(newID func() string) Option {
	return func(f *Factory) { f.newID = newID }
}

// NewFactory constructs a repository factory over store.
func NewFactory(store repository.KVStore, logger logrus.FieldLogger, opts ...Option) *Factory {
	f := &Factory{
		store:  store,
		logger: logger,
		clock:  time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewRepositoryFactory is the injector-friendly constructor.
func NewRepositoryFactory(store repository.KVStore, logger logrus.FieldLogger) repository.Factory {
	return NewFactory(store, logger)
}

func (f *Factory) ForUser(userID string) repository.UserRepositories {
	log := f.logger.WithField("user_id", userID)
	mastered := newCollection[entity.MasteredWord](f.store, repository.KindMasteredWords, userID, log)
	return repository.UserRepositories{
		WeakWords: &weakWordRepository{
			store:    f.store,
			words:    newCollection[entity.WeakWord](f.store, repository.KindWeakWords, userID, log),
			mastered: mastered,
			clock:    f.clock,
		},
		MasteredWords: &masteredWordRepository{mastered: mastered},
		Phrases: &savedPhraseRepository{
			phrases: newCollection[json.RawMessage](f.store, repository.KindSavedPhrases, userID, log),
			clock:   f.clock,
			newID:   f.newID,
			log:     log,
		},
		Settings:   &settingsRepository{settings: newDocument[entity.UserSettings](f.store, repository.KindSettings, userID, log)},
		WeeklyGoal: &weeklyGoalRepository{goal: newDocument[int](f.store, repository.KindWeeklyGoal, userID, log), log: log},
		Sessions:   &sessionRepository{count: newDocument[int](f.store, repository.KindSessionCount, userID, log)},
	}
}
