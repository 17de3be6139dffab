package repository

import (
	"context"

	"github.com/eslsoft/speaktrack/internal/entity"
)

// ListSavedPhraseQuery holds parameters for listing saved phrases.
// Filter is a CEL expression and OrderBy an "field [asc|desc]" list.
type ListSavedPhraseQuery struct {
	FilterOrder

	Topic  string
	Status entity.PhraseStatus
}

// SavedPhraseRepository persists the saved phrases of one learner.
type SavedPhraseRepository interface {
	Save(ctx context.Context, input entity.PhraseInput) (*entity.SavedPhrase, error)
	List(ctx context.Context, query *ListSavedPhraseQuery) ([]entity.SavedPhrase, error)
	GetByID(ctx context.Context, id string) (*entity.SavedPhrase, error)
	UpdateStats(ctx context.Context, id string, score float64, rule entity.MasteryRule) (*entity.SavedPhrase, error)
	// Remove deletes every phrase whose id equals idOrText or whose text matches it case-insensitively.
	Remove(ctx context.Context, idOrText string) error
	ReplaceAll(ctx context.Context, phrases []entity.SavedPhrase) error
	Clear(ctx context.Context) error
}
