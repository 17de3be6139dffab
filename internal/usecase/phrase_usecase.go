package usecase

import (
	"context"
	"time"

	"github.com/eslsoft/speaktrack/internal/entity"
	"github.com/eslsoft/speaktrack/internal/repository"
	"github.com/sirupsen/logrus"
)

// PhraseUsecase encapsulates saving, drilling and prioritising phrases.
type PhraseUsecase interface {
	SavePhrase(ctx context.Context, userID string, input entity.PhraseInput) (*entity.SavedPhrase, error)
	ListPhrases(ctx context.Context, userID string, query *repository.ListSavedPhraseQuery) ([]entity.SavedPhrase, error)
	UpdatePhraseStats(ctx context.Context, userID, phraseID string, score float64, rule entity.MasteryRule) (*entity.SavedPhrase, error)
	PracticePhrase(ctx context.Context, userID, phraseID string, score float64) (*entity.PhrasePracticeResult, error)
	RemovePhrase(ctx context.Context, userID, idOrText string) error
	PhrasesByTopic(ctx context.Context, userID string) (map[string][]entity.SavedPhrase, error)
	TodayPhrases(ctx context.Context, userID string, limit int) ([]entity.PrioritizedPhrase, error)
}

// NewPhraseUsecase wires the repositories with default behaviour.
func NewPhraseUsecase(repos repository.Factory, logger logrus.FieldLogger) PhraseUsecase {
	return &phraseUsecase{repos: repos, logger: logger, clock: time.Now}
}

type phraseUsecase struct {
	repos  repository.Factory
	logger logrus.FieldLogger
	clock  func() time.Time
}

func (u *phraseUsecase) SavePhrase(ctx context.Context, userID string, input entity.PhraseInput) (*entity.SavedPhrase, error) {
	r, err := scoped(u.repos, userID)
	if err != nil {
		return nil, err
	}
	return r.Phrases.Save(ctx, input)
}

func (u *phraseUsecase) ListPhrases(ctx context.Context, userID string, query *repository.ListSavedPhraseQuery) ([]entity.SavedPhrase, error) {
	r, err := scoped(u.repos, userID)
	if err != nil {
		return nil, err
	}
	return r.Phrases.List(ctx, query)
}

func (u *phraseUsecase) UpdatePhraseStats(ctx context.Context, userID, phraseID string, score float64, rule entity.MasteryRule) (*entity.SavedPhrase, error) {
	r, err := scoped(u.repos, userID)
	if err != nil {
		return nil, err
	}
	return r.Phrases.UpdateStats(ctx, phraseID, score, rule)
}

// PracticePhrase drills a phrase using the learner's pronunciation threshold as the pass mark.
func (u *phraseUsecase) PracticePhrase(ctx context.Context, userID, phraseID string, score float64) (*entity.PhrasePracticeResult, error) {
	r, err := scoped(u.repos, userID)
	if err != nil {
		return nil, err
	}
	settings, err := r.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	before, err := r.Phrases.GetByID(ctx, phraseID)
	if err != nil {
		return nil, err
	}
	rule := settings.PhraseMasteryRule()
	after, err := r.Phrases.UpdateStats(ctx, phraseID, score, rule)
	if err != nil {
		return nil, err
	}

	result := &entity.PhrasePracticeResult{
		Phrase:       *after,
		Passed:       score >= rule.Threshold,
		JustMastered: before.Status != entity.PhraseStatusMastered && after.Status == entity.PhraseStatusMastered,
	}
	if result.JustMastered {
		u.logger.WithField("phrase_id", after.ID).Info("phrase mastered")
	}
	return result, nil
}

func (u *phraseUsecase) RemovePhrase(ctx context.Context, userID, idOrText string) error {
	r, err := scoped(u.repos, userID)
	if err != nil {
		return err
	}
	return r.Phrases.Remove(ctx, idOrText)
}

// PhrasesByTopic groups phrases by topic; untagged phrases land in "other".
func (u *phraseUsecase) PhrasesByTopic(ctx context.Context, userID string) (map[string][]entity.SavedPhrase, error) {
	phrases, err := u.ListPhrases(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]entity.SavedPhrase)
	for _, p := range phrases {
		topic := p.TopicOrDefault()
		grouped[topic] = append(grouped[topic], p)
	}
	return grouped, nil
}

// TodayPhrases returns the phrases most in need of practice.
func (u *phraseUsecase) TodayPhrases(ctx context.Context, userID string, limit int) ([]entity.PrioritizedPhrase, error) {
	phrases, err := u.ListPhrases(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	return RankPhrases(phrases, u.clock(), limit), nil
}
