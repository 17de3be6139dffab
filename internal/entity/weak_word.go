package entity

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrorType classifies how a word was mispronounced.
type ErrorType string

const (
	ErrorTypeMispronunciation ErrorType = "mispronunciation"
	ErrorTypeSubstitution     ErrorType = "substitution"
	ErrorTypeDeletion         ErrorType = "deletion"
	ErrorTypeInsertion        ErrorType = "insertion"
)

// Valid reports whether the error type is one of the known categories.
func (t ErrorType) Valid() bool {
	switch t {
	case ErrorTypeMispronunciation, ErrorTypeSubstitution, ErrorTypeDeletion, ErrorTypeInsertion:
		return true
	default:
		return false
	}
}

// ParseErrorType converts user input into an ErrorType, rejecting unknown values.
func ParseErrorType(raw string) (ErrorType, error) {
	t := ErrorType(strings.ToLower(strings.TrimSpace(raw)))
	if t == "" {
		return ErrorTypeMispronunciation, nil
	}
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidErrorType, raw)
	}
	return t, nil
}

// NormalizeErrorType maps stored values that are no longer recognised onto mispronunciation.
func NormalizeErrorType(t ErrorType) ErrorType {
	if t.Valid() {
		return t
	}
	return ErrorTypeMispronunciation
}

// WeakWord is a word the learner has repeatedly struggled to pronounce.
type WeakWord struct {
	Word          string    `json:"word"`
	ErrorType     ErrorType `json:"error_type"`
	ErrorCount    int       `json:"error_count"`
	LastPracticed time.Time `json:"last_practiced"`
	LastScore     float64   `json:"last_score"`
	SuccessStreak int       `json:"success_streak"`
}

// WeakWordInput carries an observation for saveOrUpdate. Nil pointers mean "not provided".
type WeakWordInput struct {
	Word          string
	ErrorType     ErrorType
	ErrorCount    *int
	LastPracticed time.Time
	LastScore     *float64
	SuccessStreak *int
}

// Validate checks the fields every observation must carry.
func (in WeakWordInput) Validate() error {
	if strings.TrimSpace(in.Word) == "" {
		return ErrInvalidWordText
	}
	if !in.ErrorType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidErrorType, in.ErrorType)
	}
	if in.LastScore != nil {
		if err := ValidateScore(*in.LastScore); err != nil {
			return err
		}
	}
	return nil
}

// MasteredWord records a word the learner graduated out of the weak list.
type MasteredWord struct {
	Word            string    `json:"word"`
	ErrorType       ErrorType `json:"error_type"`
	MasteredAt      time.Time `json:"mastered_at"`
	FinalErrorCount int       `json:"final_error_count"`
}

// WordPracticeResult describes the outcome of drilling a single weak word.
type WordPracticeResult struct {
	Word     WeakWord      `json:"word"`
	Passed   bool          `json:"passed"`
	Mastered *MasteredWord `json:"mastered,omitempty"`
}

// WordEvaluation is the per-word slice of a pronunciation assessment.
type WordEvaluation struct {
	Word          string  `json:"word"`
	Score         float64 `json:"score"`
	Substitutions int     `json:"substitutions"`
	Deletions     int     `json:"deletions"`
	Insertions    int     `json:"insertions"`
}

// ClassifyError picks the dominant error category for an evaluated word.
func (w WordEvaluation) ClassifyError() ErrorType {
	switch {
	case w.Substitutions > 0:
		return ErrorTypeSubstitution
	case w.Deletions > 0:
		return ErrorTypeDeletion
	case w.Insertions > 0:
		return ErrorTypeInsertion
	default:
		return ErrorTypeMispronunciation
	}
}

// Evaluation is a full pronunciation assessment returned by a speech scorer.
type Evaluation struct {
	OverallScore float64          `json:"overall_score"`
	TrickyWords  []WordEvaluation `json:"tricky_words"`
}

// ValidateScore rejects NaN and infinite scores. Any finite number is taken
// as reported by the speech evaluator, without clamping.
func ValidateScore(score float64) error {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidScore, score)
	}
	return nil
}
