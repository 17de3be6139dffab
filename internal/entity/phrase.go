package entity

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DefaultPhraseTopic is the bucket used when a phrase carries no topic.
const DefaultPhraseTopic = "other"

// PhraseSource records where a phrase was saved from.
type PhraseSource string

const (
	PhraseSourceLesson      PhraseSource = "lesson"
	PhraseSourceLiveTalk    PhraseSource = "live_talk"
	PhraseSourceSpeakingLab PhraseSource = "speaking_lab"
	PhraseSourceManual      PhraseSource = "manual"
)

func (s PhraseSource) Valid() bool {
	switch s {
	case PhraseSourceLesson, PhraseSourceLiveTalk, PhraseSourceSpeakingLab, PhraseSourceManual:
		return true
	default:
		return false
	}
}

// ParsePhraseSource validates user input. Empty input defaults to manual.
func ParsePhraseSource(raw string) (PhraseSource, error) {
	s := PhraseSource(strings.ToLower(strings.TrimSpace(raw)))
	if s == "" {
		return PhraseSourceManual, nil
	}
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhraseSource, raw)
	}
	return s, nil
}

// NormalizePhraseSource maps stored values onto a known source. Older records
// carried suffixed sources such as "lesson_3", which keep their prefix.
func NormalizePhraseSource(s PhraseSource) PhraseSource {
	if s.Valid() {
		return s
	}
	raw := strings.ToLower(string(s))
	for _, candidate := range []PhraseSource{PhraseSourceSpeakingLab, PhraseSourceLiveTalk, PhraseSourceLesson} {
		if strings.HasPrefix(raw, string(candidate)) {
			return candidate
		}
	}
	return PhraseSourceManual
}

// PhraseStatus is the mastery tier of a saved phrase.
type PhraseStatus string

const (
	PhraseStatusWeak     PhraseStatus = "weak"
	PhraseStatusLearning PhraseStatus = "learning"
	PhraseStatusMastered PhraseStatus = "mastered"
)

func (s PhraseStatus) Valid() bool {
	switch s {
	case PhraseStatusWeak, PhraseStatusLearning, PhraseStatusMastered:
		return true
	default:
		return false
	}
}

// ParsePhraseStatus validates a status filter. Empty input means "any".
func ParsePhraseStatus(raw string) (PhraseStatus, error) {
	s := PhraseStatus(strings.ToLower(strings.TrimSpace(raw)))
	if s == "" || s.Valid() {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPhraseStatus, raw)
}

// MasteryRule configures when a practiced phrase counts as mastered.
type MasteryRule struct {
	Threshold      float64
	RequiredStreak int
}

// Default mastery rule for phrase drills.
const (
	DefaultPhraseMasteryThreshold = 85
	DefaultPhraseRequiredStreak   = 3
)

func DefaultMasteryRule() MasteryRule {
	return MasteryRule{Threshold: DefaultPhraseMasteryThreshold, RequiredStreak: DefaultPhraseRequiredStreak}
}

// Normalize fills unset fields with defaults.
func (r MasteryRule) Normalize() MasteryRule {
	if r.Threshold <= 0 {
		r.Threshold = DefaultPhraseMasteryThreshold
	}
	if r.RequiredStreak <= 0 {
		r.RequiredStreak = DefaultPhraseRequiredStreak
	}
	return r
}

// SavedPhrase is a phrase the learner bookmarked for drilling.
type SavedPhrase struct {
	ID              string       `json:"id"`
	TextEN          string       `json:"text_en"`
	TextVI          *string      `json:"text_vi"`
	Source          PhraseSource `json:"source"`
	Topic           *string      `json:"topic"`
	CoachID         *string      `json:"coach_id"`
	CreatedAt       time.Time    `json:"created_at"`
	LastPracticedAt *time.Time   `json:"last_practiced_at"`
	PracticeCount   int          `json:"practice_count"`
	SuccessStreak   int          `json:"success_streak"`
	AvgScore        float64      `json:"avg_score"`
	Status          PhraseStatus `json:"status"`
}

// TopicOrDefault returns the topic or the shared "other" bucket.
func (p SavedPhrase) TopicOrDefault() string {
	if p.Topic == nil || strings.TrimSpace(*p.Topic) == "" {
		return DefaultPhraseTopic
	}
	return *p.Topic
}

// ApplyPractice folds one drill score into the phrase statistics.
func (p SavedPhrase) ApplyPractice(score float64, rule MasteryRule, now time.Time) SavedPhrase {
	rule = rule.Normalize()
	count := p.PracticeCount + 1
	p.AvgScore = math.Round((p.AvgScore*float64(p.PracticeCount) + score) / float64(count))
	p.PracticeCount = count
	if score >= rule.Threshold {
		p.SuccessStreak++
	} else {
		p.SuccessStreak = 0
	}
	p.Status = DerivePhraseStatus(p.SuccessStreak, p.PracticeCount, rule.RequiredStreak)
	practiced := now
	p.LastPracticedAt = &practiced
	return p
}

// DerivePhraseStatus computes the tier from streak and practice count.
func DerivePhraseStatus(streak, practiceCount, requiredStreak int) PhraseStatus {
	switch {
	case streak >= requiredStreak:
		return PhraseStatusMastered
	case streak >= 1 || practiceCount >= 2:
		return PhraseStatusLearning
	default:
		return PhraseStatusWeak
	}
}

// PhraseInput carries the caller-provided fields of a new phrase.
type PhraseInput struct {
	TextEN  string
	TextVI  string
	Source  PhraseSource
	Topic   string
	CoachID string
}

// Validate checks the required fields and normalises the source.
func (in PhraseInput) Validate() (PhraseInput, error) {
	in.TextEN = strings.TrimSpace(in.TextEN)
	if in.TextEN == "" {
		return in, ErrInvalidPhraseText
	}
	if in.Source == "" {
		in.Source = PhraseSourceManual
	}
	if !in.Source.Valid() {
		return in, fmt.Errorf("%w: %q", ErrInvalidPhraseSource, in.Source)
	}
	return in, nil
}

// NewSavedPhrase builds a fresh phrase record with zeroed statistics.
func NewSavedPhrase(id string, in PhraseInput, now time.Time) SavedPhrase {
	return SavedPhrase{
		ID:        id,
		TextEN:    strings.TrimSpace(in.TextEN),
		TextVI:    optionalString(in.TextVI),
		Source:    in.Source,
		Topic:     optionalString(in.Topic),
		CoachID:   optionalString(in.CoachID),
		CreatedAt: now,
		Status:    PhraseStatusWeak,
	}
}

// PrioritizedPhrase pairs a phrase with its practice priority.
type PrioritizedPhrase struct {
	SavedPhrase
	Priority int `json:"priority"`
}

// PhrasePracticeResult describes the outcome of a phrase drill.
type PhrasePracticeResult struct {
	Phrase       SavedPhrase `json:"phrase"`
	Passed       bool        `json:"passed"`
	JustMastered bool        `json:"just_mastered"`
}
