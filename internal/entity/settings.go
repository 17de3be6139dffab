package entity

import (
	"fmt"
	"slices"
)

// Defaults applied when a learner has not saved settings yet.
const (
	DefaultPronunciationThreshold = 85
	DefaultMasteredWordThreshold  = 90
	DefaultMasteredWordAttempts   = 3
	DefaultWeeklyGoalMinutes      = 15
)

// AllowedPronunciationThresholds lists the selectable strictness levels.
var AllowedPronunciationThresholds = []float64{80, 85, 90}

// UserSettings holds per-learner tuning of the practice rules.
type UserSettings struct {
	PronunciationThreshold float64 `json:"pronunciationThreshold"`
	AutoSaveWeakWords      bool    `json:"autoSaveWeakWords"`
	MasteredWordThreshold  float64 `json:"masteredWordThreshold"`
	MasteredWordAttempts   int     `json:"masteredWordAttempts"`
}

func DefaultUserSettings() UserSettings {
	return UserSettings{
		PronunciationThreshold: DefaultPronunciationThreshold,
		AutoSaveWeakWords:      true,
		MasteredWordThreshold:  DefaultMasteredWordThreshold,
		MasteredWordAttempts:   DefaultMasteredWordAttempts,
	}
}

// Validate enforces the allowed ranges of each setting.
func (s UserSettings) Validate() error {
	if !slices.Contains(AllowedPronunciationThresholds, s.PronunciationThreshold) {
		return fmt.Errorf("%w: pronunciation threshold %v not in %v", ErrInvalidSettings, s.PronunciationThreshold, AllowedPronunciationThresholds)
	}
	if s.MasteredWordThreshold < 0 || s.MasteredWordThreshold > 100 {
		return fmt.Errorf("%w: mastered word threshold %v out of range", ErrInvalidSettings, s.MasteredWordThreshold)
	}
	if s.MasteredWordAttempts < 1 {
		return fmt.Errorf("%w: mastered word attempts must be at least 1", ErrInvalidSettings)
	}
	return nil
}

// PhraseMasteryRule derives the phrase drill rule from the learner settings.
func (s UserSettings) PhraseMasteryRule() MasteryRule {
	return MasteryRule{Threshold: s.PronunciationThreshold, RequiredStreak: DefaultPhraseRequiredStreak}
}

// SettingsPatch is a partial update. Nil fields are left untouched.
type SettingsPatch struct {
	PronunciationThreshold *float64 `json:"pronunciationThreshold,omitempty"`
	AutoSaveWeakWords      *bool    `json:"autoSaveWeakWords,omitempty"`
	MasteredWordThreshold  *float64 `json:"masteredWordThreshold,omitempty"`
	MasteredWordAttempts   *int     `json:"masteredWordAttempts,omitempty"`
}

// Merge returns s with the non-nil fields of patch applied.
func (s UserSettings) Merge(patch SettingsPatch) UserSettings {
	if patch.PronunciationThreshold != nil {
		s.PronunciationThreshold = *patch.PronunciationThreshold
	}
	if patch.AutoSaveWeakWords != nil {
		s.AutoSaveWeakWords = *patch.AutoSaveWeakWords
	}
	if patch.MasteredWordThreshold != nil {
		s.MasteredWordThreshold = *patch.MasteredWordThreshold
	}
	if patch.MasteredWordAttempts != nil {
		s.MasteredWordAttempts = *patch.MasteredWordAttempts
	}
	return s
}

// ValidateWeeklyGoal rejects non-positive daily minute goals.
func ValidateWeeklyGoal(minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWeeklyGoal, minutes)
	}
	return nil
}
