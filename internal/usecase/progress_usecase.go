package usecase

import (
	"context"

	"github.com/eslsoft/speaktrack/internal/entity"
	"github.com/eslsoft/speaktrack/internal/repository"
	"github.com/sirupsen/logrus"
)

// ProgressUsecase reports and resets the overall progress of a learner.
type ProgressUsecase interface {
	Summary(ctx context.Context, userID string) (*entity.ProgressSummary, error)
	// ClearUserData removes weak words, saved phrases and the session count.
	// Mastered words, settings and the weekly goal are kept.
	ClearUserData(ctx context.Context, userID string) error
}

func NewProgressUsecase(repos repository.Factory, logger logrus.FieldLogger) ProgressUsecase {
	return &progressUsecase{repos: repos, logger: logger}
}

type progressUsecase struct {
	repos  repository.Factory
	logger logrus.FieldLogger
}

func (u *progressUsecase) Summary(ctx context.Context, userID string) (*entity.ProgressSummary, error) {
	r, err := scoped(u.repos, userID)
	if err != nil {
		return nil, err
	}
	weak, err := r.WeakWords.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	phrases, err := r.Phrases.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	sessions, err := r.Sessions.Count(ctx)
	if err != nil {
		return nil, err
	}

	stats := entity.ProgressStats{
		TotalWeakWords:    len(weak),
		TotalSavedPhrases: len(phrases),
		PhrasesByTopic:    make(map[string]int),
	}
	for _, w := range weak {
		stats.TotalErrors += w.ErrorCount
	}
	for _, p := range phrases {
		stats.PhrasesByTopic[p.TopicOrDefault()]++
	}

	return &entity.ProgressSummary{
		WeakWords:    weak,
		SavedPhrases: phrases,
		SessionCount: sessions,
		Stats:        stats,
	}, nil
}

func (u *progressUsecase) ClearUserData(ctx context.Context, userID string) error {
	r, err := scoped(u.repos, userID)
	if err != nil {
		return err
	}
	if err := r.WeakWords.Clear(ctx); err != nil {
		return err
	}
	if err := r.Phrases.Clear(ctx); err != nil {
		return err
	}
	if err := r.Sessions.Clear(ctx); err != nil {
		return err
	}
	u.logger.WithField("user_id", userID).Info("progress cleared")
	return nil
}
