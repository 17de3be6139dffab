package usecase

import (
	"slices"
	"time"

	"github.com/eslsoft/speaktrack/internal/entity"
)

// DefaultTodayPhrases is how many phrases the daily practice list holds.
const DefaultTodayPhrases = 3

// PhrasePriority scores how urgently a phrase should be practiced.
// Weaker status, longer neglect and lower average score all raise it.
func PhrasePriority(p entity.SavedPhrase, now time.Time) int {
	priority := 0
	switch p.Status {
	case entity.PhraseStatusWeak:
		priority += 100
	case entity.PhraseStatusLearning:
		priority += 50
	case entity.PhraseStatusMastered:
		priority += 10
	}

	if p.LastPracticedAt == nil {
		priority += 200
	} else {
		days := int(now.Sub(*p.LastPracticedAt).Hours() / 24)
		switch {
		case days >= 7:
			priority += 150
		case days >= 3:
			priority += 80
		case days >= 1:
			priority += 40
		}
	}

	switch {
	case p.AvgScore < 60:
		priority += 30
	case p.AvgScore < 80:
		priority += 15
	}
	return priority
}

// RankPhrases returns the limit highest-priority phrases. Ties keep input order.
func RankPhrases(phrases []entity.SavedPhrase, now time.Time, limit int) []entity.PrioritizedPhrase {
	if limit <= 0 {
		limit = DefaultTodayPhrases
	}
	ranked := make([]entity.PrioritizedPhrase, 0, len(phrases))
	for _, p := range phrases {
		ranked = append(ranked, entity.PrioritizedPhrase{SavedPhrase: p, Priority: PhrasePriority(p, now)})
	}
	slices.SortStableFunc(ranked, func(a, b entity.PrioritizedPhrase) int {
		return b.Priority - a.Priority
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
