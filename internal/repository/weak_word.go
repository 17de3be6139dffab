package repository

import (
	"context"

	"github.com/eslsoft/speaktrack/internal/entity"
)

// WeakWordRepository persists the weak-word list of one learner.
type WeakWordRepository interface {
	// SaveOrUpdate increments an existing entry (matched case-insensitively) or appends a new one.
	SaveOrUpdate(ctx context.Context, input entity.WeakWordInput) (*entity.WeakWord, error)
	// List returns entries by descending error count; limit <= 0 returns all.
	List(ctx context.Context, limit int) ([]entity.WeakWord, error)
	Find(ctx context.Context, word string) (*entity.WeakWord, error)
	Remove(ctx context.Context, word string) error
	// MoveToMastered removes word from the weak list and records it as mastered in one write.
	MoveToMastered(ctx context.Context, word entity.WeakWord) (*entity.MasteredWord, error)
	ReplaceAll(ctx context.Context, words []entity.WeakWord) error
	Clear(ctx context.Context) error
}

// MasteredWordRepository exposes the mastered-word history of one learner.
type MasteredWordRepository interface {
	List(ctx context.Context) ([]entity.MasteredWord, error)
	Remove(ctx context.Context, word string) error
	ReplaceAll(ctx context.Context, words []entity.MasteredWord) error
}
