package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/eslsoft/speaktrack/internal/entity"
	"github.com/eslsoft/speaktrack/internal/repository"
	"github.com/eslsoft/speaktrack/pkg/filterexpr"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

type savedPhraseRepository struct {
	phrases collection[json.RawMessage]
	clock   func() time.Time
	newID   func() string
	log     logrus.FieldLogger
}

// storedPhrase accepts both the current layout and the first-generation
// {phrase, source, topic, saved_at} layout.
type storedPhrase struct {
	entity.SavedPhrase
	Phrase  string     `json:"phrase,omitempty"`
	SavedAt *time.Time `json:"saved_at,omitempty"`
}

func (s storedPhrase) legacy() bool {
	return strings.TrimSpace(s.TextEN) == "" && strings.TrimSpace(s.Phrase) != ""
}

// load decodes the stored phrases, upgrading legacy records. Upgraded
// collections are written back so the migration runs once per user.
func (r *savedPhraseRepository) load(ctx context.Context) ([]entity.SavedPhrase, error) {
	raws, err := r.phrases.load(ctx)
	if err != nil {
		return nil, err
	}

	phrases := make([]entity.SavedPhrase, 0, len(raws))
	upgraded := false
	for i, raw := range raws {
		var record storedPhrase
		if err := json.Unmarshal(raw, &record); err != nil {
			r.log.WithError(fmt.Errorf("%w: %w", entity.ErrCorruptRecord, err)).
				WithField("key", r.phrases.key).
				WithField("index", i).
				Warn("skipping unreadable phrase")
			upgraded = true
			continue
		}
		phrase, changed := r.upgrade(record)
		if phrase.TextEN == "" {
			upgraded = true
			continue
		}
		upgraded = upgraded || changed
		phrases = append(phrases, phrase)
	}

	if upgraded {
		if err := r.save(ctx, phrases); err != nil {
			return nil, err
		}
		r.log.WithField("key", r.phrases.key).Info("upgraded stored phrases")
	}
	return phrases, nil
}

// upgrade normalises a stored record to the current layout.
func (r *savedPhraseRepository) upgrade(record storedPhrase) (entity.SavedPhrase, bool) {
	phrase := record.SavedPhrase
	changed := false

	if record.legacy() {
		phrase.TextEN = strings.TrimSpace(record.Phrase)
		if record.SavedAt != nil {
			phrase.CreatedAt = *record.SavedAt
		}
		phrase.PracticeCount = 0
		phrase.SuccessStreak = 0
		phrase.AvgScore = 0
		phrase.LastPracticedAt = nil
		phrase.Status = entity.PhraseStatusWeak
		changed = true
	}
	if phrase.ID == "" {
		phrase.ID = r.newID()
		changed = true
	}
	if phrase.CreatedAt.IsZero() {
		phrase.CreatedAt = r.clock()
		changed = true
	}
	if source := entity.NormalizePhraseSource(phrase.Source); source != phrase.Source {
		phrase.Source = source
		changed = true
	}
	if !phrase.Status.Valid() {
		phrase.Status = entity.PhraseStatusWeak
		changed = true
	}
	return phrase, changed
}

func (r *savedPhraseRepository) save(ctx context.Context, phrases []entity.SavedPhrase) error {
	raws := make([]json.RawMessage, 0, len(phrases))
	for _, p := range phrases {
		raw, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode phrase %s: %w", p.ID, err)
		}
		raws = append(raws, raw)
	}
	return r.phrases.save(ctx, raws)
}

func (r *savedPhraseRepository) Save(ctx context.Context, input entity.PhraseInput) (*entity.SavedPhrase, error) {
	input, err := input.Validate()
	if err != nil {
		return nil, err
	}
	phrases, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if lo.ContainsBy(phrases, func(p entity.SavedPhrase) bool { return entity.SameText(p.TextEN, input.TextEN) }) {
		return nil, fmt.Errorf("%w: %q", entity.ErrDuplicatePhrase, input.TextEN)
	}

	phrase := entity.NewSavedPhrase(r.newID(), input, r.clock())
	phrases = append([]entity.SavedPhrase{phrase}, phrases...)
	if err := r.save(ctx, phrases); err != nil {
		return nil, err
	}
	return &phrase, nil
}

func (r *savedPhraseRepository) List(ctx context.Context, query *repository.ListSavedPhraseQuery) ([]entity.SavedPhrase, error) {
	if query == nil {
		query = &repository.ListSavedPhraseQuery{}
	}
	compiled, err := filterexpr.Compile(query, listSavedPhrasesSchema)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrInvalidFilter, err)
	}

	phrases, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]entity.SavedPhrase, 0, len(phrases))
	for _, p := range phrases {
		if query.Topic != "" && (p.Topic == nil || *p.Topic != query.Topic) {
			continue
		}
		if query.Status != "" && p.Status != query.Status {
			continue
		}
		matched, err := compiled.Match(phraseFilterVars(p))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", entity.ErrInvalidFilter, err)
		}
		if matched {
			result = append(result, p)
		}
	}

	filterexpr.Sort(result, compiled.Order, phraseOrderValue)
	return result, nil
}

func (r *savedPhraseRepository) GetByID(ctx context.Context, id string) (*entity.SavedPhrase, error) {
	phrases, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	phrase, ok := lo.Find(phrases, func(p entity.SavedPhrase) bool { return p.ID == id })
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrPhraseNotFound, id)
	}
	return &phrase, nil
}

func (r *savedPhraseRepository) UpdateStats(ctx context.Context, id string, score float64, rule entity.MasteryRule) (*entity.SavedPhrase, error) {
	if err := entity.ValidateScore(score); err != nil {
		return nil, err
	}
	phrases, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	_, idx, ok := lo.FindIndexOf(phrases, func(p entity.SavedPhrase) bool { return p.ID == id })
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrPhraseNotFound, id)
	}

	phrases[idx] = phrases[idx].ApplyPractice(score, rule, r.clock())
	if err := r.save(ctx, phrases); err != nil {
		return nil, err
	}
	updated := phrases[idx]
	return &updated, nil
}

func (r *savedPhraseRepository) Remove(ctx context.Context, idOrText string) error {
	phrases, err := r.load(ctx)
	if err != nil {
		return err
	}
	kept := lo.Reject(phrases, func(p entity.SavedPhrase, _ int) bool {
		return p.ID == idOrText || entity.SameText(p.TextEN, idOrText)
	})
	if len(kept) == len(phrases) {
		return nil
	}
	return r.save(ctx, kept)
}

// ReplaceAll keeps the first of phrases whose text differs only by case and
// assigns a fresh id to any id seen earlier in the list.
func (r *savedPhraseRepository) ReplaceAll(ctx context.Context, phrases []entity.SavedPhrase) error {
	normalized := make([]entity.SavedPhrase, 0, len(phrases))
	ids := make(map[string]struct{}, len(phrases))
	for _, p := range phrases {
		upgraded, _ := r.upgrade(storedPhrase{SavedPhrase: p})
		upgraded.TextEN = strings.TrimSpace(upgraded.TextEN)
		if upgraded.TextEN == "" {
			continue
		}
		if lo.ContainsBy(normalized, func(k entity.SavedPhrase) bool { return entity.SameText(k.TextEN, upgraded.TextEN) }) {
			continue
		}
		for _, taken := ids[upgraded.ID]; taken; _, taken = ids[upgraded.ID] {
			upgraded.ID = r.newID()
		}
		ids[upgraded.ID] = struct{}{}
		normalized = append(normalized, upgraded)
	}
	return r.save(ctx, normalized)
}

func (r *savedPhraseRepository) Clear(ctx context.Context) error {
	return r.phrases.clear(ctx)
}
