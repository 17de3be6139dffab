package usecase

import (
	"context"
	"fmt"

	"github.com/eslsoft/speaktrack/internal/entity"
	"github.com/eslsoft/speaktrack/internal/repository"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// DefaultTopWeakWords is the size of the weak-word shortlist.
const DefaultTopWeakWords = 5

// WeakWordUsecase encapsulates the weak and mastered word lifecycle of a learner.
type WeakWordUsecase interface {
	SaveWeakWord(ctx context.Context, userID string, input entity.WeakWordInput) (*entity.WeakWord, error)
	ListWeakWords(ctx context.Context, userID string, limit int) ([]entity.WeakWord, error)
	TopWeakWords(ctx context.Context, userID string, n int) ([]entity.WeakWord, error)
	RemoveWeakWord(ctx context.Context, userID, word string) error
	MoveToMastered(ctx context.Context, userID string, word entity.WeakWord) (*entity.MasteredWord, error)
	MasterWord(ctx context.Context, userID, word string) (*entity.MasteredWord, error)
	ListMastered(ctx context.Context, userID string) ([]entity.MasteredWord, error)
	RemoveMastered(ctx context.Context, userID, word string) error
	RecordEvaluation(ctx context.Context, userID string, eval entity.Evaluation) ([]entity.WeakWord, error)
	PracticeWord(ctx context.Context, userID, word string, score float64) (*entity.WordPracticeResult, error)
}

// NewWeakWordUsecase wires the repositories with default behaviour.
func NewWeakWordUsecase(repos repository.Factory, logger logrus.FieldLogger) WeakWordUsecase {
	return &weakWordUsecase{repos: repos, logger: logger}
}

type weakWordUsecase struct {
	repos  repository.Factory
	logger logrus.FieldLogger
}

func (u *weakWordUsecase) SaveWeakWord(ctx context.Context, userID string, input entity.WeakWordInput) (*entity.WeakWord, error) {
	r, err := scoped(u.repos, userID)
	if err != nil {
		return nil, err
	}
	return r.WeakWords.SaveOrUpdate(ctx, input)
}

func (u *weakWordUsecase) ListWeakWords(ctx context.Context, userID string, limit int) ([]entity.WeakWord, error) {
	r, err := scoped(u.repos, userID)
	if err != nil {
		return nil, err
	}
	return r.WeakWords.List(ctx, limit)
}

func (u *weakWordUsecase) TopWeakWords(ctx context.Context, userID string, n int) ([]entity.WeakWord, error) {
	if n <= 0 {
		n = DefaultTopWeakWords
	}
	return u.ListWeakWords(ctx, userID, n)
}

func (u *weakWordUsecase) RemoveWeakWord(ctx context.Context, userID, word string) error {
	r, err := scoped(u.repos, userID)
	if err != nil {
		return err
	}
	return r.WeakWords.Remove(ctx, word)
}

func (u *weakWordUsecase) MoveToMastered(ctx context.Context, userID string, word entity.WeakWord) (*entity.MasteredWord, error) {
	r, err := scoped(u.repos, userID)
	if err != nil {
		return nil, err
	}
	return r.WeakWords.MoveToMastered(ctx, word)
}

// MasterWord promotes a stored weak word by its text.
func (u *weakWordUsecase) MasterWord(ctx context.Context, userID, word string) (*entity.MasteredWord, error) {
	r, err := scoped(u.repos, userID)
	if err != nil {
		return nil, err
	}
	existing, err := r.WeakWords.Find(ctx, word)
	if err != nil {
		return nil, err
	}
	return r.WeakWords.MoveToMastered(ctx, *existing)
}

func (u *weakWordUsecase) ListMastered(ctx context.Context, userID string) ([]entity.MasteredWord, error) {
	r, err := scoped(u.repos, userID)
	if err != nil {
		return nil, err
	}
	return r.MasteredWords.List(ctx)
}

func (u *weakWordUsecase) RemoveMastered(ctx context.Context, userID, word string) error {
	r, err := scoped(u.repos, userID)
	if err != nil {
		return err
	}
	return r.MasteredWords.Remove(ctx, word)
}

// RecordEvaluation stores the tricky words of a failed assessment as weak words.
// Nothing is saved when auto-save is off or the overall score clears the threshold.
func (u *weakWordUsecase) RecordEvaluation(ctx context.Context, userID string, eval entity.Evaluation) ([]entity.WeakWord, error) {
	if err := entity.ValidateScore(eval.OverallScore); err != nil {
		return nil, err
	}
	r, err := scoped(u.repos, userID)
	if err != nil {
		return nil, err
	}
	settings, err := r.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.AutoSaveWeakWords || eval.OverallScore >= settings.PronunciationThreshold {
		return []entity.WeakWord{}, nil
	}

	saved := make([]entity.WeakWord, 0, len(eval.TrickyWords))
	for _, tricky := range eval.TrickyWords {
		word, err := r.WeakWords.SaveOrUpdate(ctx, entity.WeakWordInput{
			Word:       tricky.Word,
			ErrorType:  tricky.ClassifyError(),
			ErrorCount: lo.ToPtr(1),
		})
		if err != nil {
			return saved, fmt.Errorf("save tricky word %q: %w", tricky.Word, err)
		}
		saved = append(saved, *word)
	}
	return saved, nil
}

// PracticeWord applies one drill score. Passing scores extend the streak and a
// long enough streak promotes the word to mastered.
func (u *weakWordUsecase) PracticeWord(ctx context.Context, userID, word string, score float64) (*entity.WordPracticeResult, error) {
	if err := entity.ValidateScore(score); err != nil {
		return nil, err
	}
	r, err := scoped(u.repos, userID)
	if err != nil {
		return nil, err
	}
	settings, err := r.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	existing, err := r.WeakWords.Find(ctx, word)
	if err != nil {
		return nil, err
	}

	passed := score >= settings.MasteredWordThreshold
	streak := 0
	if passed {
		streak = existing.SuccessStreak + 1
	}
	updated, err := r.WeakWords.SaveOrUpdate(ctx, entity.WeakWordInput{
		Word:          existing.Word,
		ErrorType:     existing.ErrorType,
		ErrorCount:    lo.ToPtr(0),
		LastScore:     &score,
		SuccessStreak: &streak,
	})
	if err != nil {
		return nil, err
	}

	result := &entity.WordPracticeResult{Word: *updated, Passed: passed}
	if streak < settings.MasteredWordAttempts {
		return result, nil
	}

	mastered, err := r.WeakWords.MoveToMastered(ctx, *updated)
	if err != nil {
		return nil, err
	}
	u.logger.WithField("word", mastered.Word).WithField("streak", streak).Info("word mastered")
	result.Mastered = mastered
	return result, nil
}
