package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/eslsoft/speaktrack/internal/entity"
	"github.com/eslsoft/speaktrack/internal/repository"
	"github.com/samber/lo"
)

type weakWordRepository struct {
	store    repository.KVStore
	words    collection[entity.WeakWord]
	mastered collection[entity.MasteredWord]
	clock    func() time.Time
}

func (r *weakWordRepository) SaveOrUpdate(ctx context.Context, input entity.WeakWordInput) (*entity.WeakWord, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	words, err := r.words.load(ctx)
	if err != nil {
		return nil, err
	}

	practiced := input.LastPracticed
	if practiced.IsZero() {
		practiced = r.clock()
	}

	var saved entity.WeakWord
	if _, idx, ok := lo.FindIndexOf(words, func(w entity.WeakWord) bool { return entity.SameText(w.Word, input.Word) }); ok {
		// Existing entries accumulate the count; score and streak change only when supplied.
		w := &words[idx]
		w.ErrorCount += lo.FromPtrOr(input.ErrorCount, 1)
		w.ErrorType = input.ErrorType
		w.LastPracticed = practiced
		if input.LastScore != nil {
			w.LastScore = *input.LastScore
		}
		if input.SuccessStreak != nil {
			w.SuccessStreak = *input.SuccessStreak
		}
		saved = *w
	} else {
		saved = entity.WeakWord{
			Word:          strings.TrimSpace(input.Word),
			ErrorType:     input.ErrorType,
			ErrorCount:    max(1, lo.FromPtrOr(input.ErrorCount, 1)),
			LastPracticed: practiced,
			LastScore:     lo.FromPtr(input.LastScore),
			SuccessStreak: lo.FromPtr(input.SuccessStreak),
		}
		words = append(words, saved)
	}

	if err := r.words.save(ctx, words); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *weakWordRepository) List(ctx context.Context, limit int) ([]entity.WeakWord, error) {
	words, err := r.words.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range words {
		words[i].ErrorType = entity.NormalizeErrorType(words[i].ErrorType)
	}
	slices.SortStableFunc(words, func(a, b entity.WeakWord) int {
		return b.ErrorCount - a.ErrorCount
	})
	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}
	return words, nil
}

func (r *weakWordRepository) Find(ctx context.Context, word string) (*entity.WeakWord, error) {
	words, err := r.words.load(ctx)
	if err != nil {
		return nil, err
	}
	found, ok := lo.Find(words, func(w entity.WeakWord) bool { return entity.SameText(w.Word, word) })
	if !ok {
		return nil, fmt.Errorf("%w: %q", entity.ErrWeakWordNotFound, word)
	}
	found.ErrorType = entity.NormalizeErrorType(found.ErrorType)
	return &found, nil
}

func (r *weakWordRepository) Remove(ctx context.Context, word string) error {
	words, err := r.words.load(ctx)
	if err != nil {
		return err
	}
	kept := lo.Reject(words, func(w entity.WeakWord, _ int) bool { return entity.SameText(w.Word, word) })
	if len(kept) == len(words) {
		return nil
	}
	return r.words.save(ctx, kept)
}

func (r *weakWordRepository) MoveToMastered(ctx context.Context, word entity.WeakWord) (*entity.MasteredWord, error) {
	if strings.TrimSpace(word.Word) == "" {
		return nil, entity.ErrInvalidWordText
	}
	mastered, err := r.mastered.load(ctx)
	if err != nil {
		return nil, err
	}
	if lo.ContainsBy(mastered, func(m entity.MasteredWord) bool { return entity.SameText(m.Word, word.Word) }) {
		return nil, fmt.Errorf("%w: %q", entity.ErrWordAlreadyMastered, word.Word)
	}
	words, err := r.words.load(ctx)
	if err != nil {
		return nil, err
	}

	record := entity.MasteredWord{
		Word:            strings.TrimSpace(word.Word),
		ErrorType:       entity.NormalizeErrorType(word.ErrorType),
		MasteredAt:      r.clock(),
		FinalErrorCount: word.ErrorCount,
	}
	mastered = append([]entity.MasteredWord{record}, mastered...)
	remaining := lo.Reject(words, func(w entity.WeakWord, _ int) bool { return entity.SameText(w.Word, word.Word) })

	masteredPayload, err := r.mastered.encode(mastered)
	if err != nil {
		return nil, err
	}
	weakPayload, err := r.words.encode(remaining)
	if err != nil {
		return nil, err
	}
	if err := r.store.SetMany(ctx, map[string]string{
		r.mastered.key: masteredPayload,
		r.words.key:    weakPayload,
	}); err != nil {
		return nil, fmt.Errorf("move %q to mastered: %w: %w", word.Word, entity.ErrStorage, err)
	}
	return &record, nil
}

// ReplaceAll keeps the first of case-insensitive duplicates and drops words
// that are already mastered.
func (r *weakWordRepository) ReplaceAll(ctx context.Context, words []entity.WeakWord) error {
	mastered, err := r.mastered.load(ctx)
	if err != nil {
		return err
	}
	normalized := make([]entity.WeakWord, 0, len(words))
	for _, w := range words {
		if strings.TrimSpace(w.Word) == "" {
			continue
		}
		if lo.ContainsBy(normalized, func(k entity.WeakWord) bool { return entity.SameText(k.Word, w.Word) }) {
			continue
		}
		if lo.ContainsBy(mastered, func(m entity.MasteredWord) bool { return entity.SameText(m.Word, w.Word) }) {
			continue
		}
		w.ErrorType = entity.NormalizeErrorType(w.ErrorType)
		w.ErrorCount = max(1, w.ErrorCount)
		normalized = append(normalized, w)
	}
	return r.words.save(ctx, normalized)
}

func (r *weakWordRepository) Clear(ctx context.Context) error {
	return r.words.clear(ctx)
}

type masteredWordRepository struct {
	mastered collection[entity.MasteredWord]
}

func (r *masteredWordRepository) List(ctx context.Context) ([]entity.MasteredWord, error) {
	return r.mastered.load(ctx)
}

func (r *masteredWordRepository) Remove(ctx context.Context, word string) error {
	mastered, err := r.mastered.load(ctx)
	if err != nil {
		return err
	}
	kept := lo.Reject(mastered, func(m entity.MasteredWord, _ int) bool { return entity.SameText(m.Word, word) })
	if len(kept) == len(mastered) {
		return nil
	}
	return r.mastered.save(ctx, kept)
}

func (r *masteredWordRepository) ReplaceAll(ctx context.Context, words []entity.MasteredWord) error {
	normalized := make([]entity.MasteredWord, 0, len(words))
	for _, w := range words {
		if strings.TrimSpace(w.Word) == "" {
			continue
		}
		if lo.ContainsBy(normalized, func(m entity.MasteredWord) bool { return entity.SameText(m.Word, w.Word) }) {
			continue
		}
		w.ErrorType = entity.NormalizeErrorType(w.ErrorType)
		normalized = append(normalized, w)
	}
	return r.mastered.save(ctx, normalized)
}
