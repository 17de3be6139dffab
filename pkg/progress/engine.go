// Package progress is the embeddable facade of the learner progress engine.
//
// Every method absorbs failures: it logs the error, records it for LastError
// and returns false, nil, an empty collection or a default value instead.
package progress

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"time"

	kvrepo "github.com/eslsoft/speaktrack/internal/adapter/repository"
	"github.com/eslsoft/speaktrack/internal/entity"
	"github.com/eslsoft/speaktrack/internal/repository"
	"github.com/eslsoft/speaktrack/internal/usecase"
	"github.com/eslsoft/speaktrack/internal/usecase/backup"
	"github.com/sirupsen/logrus"
)

// Engine tracks weak words, saved phrases, settings and weekly statistics.
type Engine struct {
	words    usecase.WeakWordUsecase
	phrases  usecase.PhraseUsecase
	stats    usecase.StatsUsecase
	insights usecase.InsightUsecase
	settings usecase.SettingsUsecase
	progress usecase.ProgressUsecase
	backup   *backup.Service
	logger   logrus.FieldLogger

	mu      sync.Mutex
	lastErr error
}

type options struct {
	loc  *time.Location
	lang entity.Language
}

// Option customises an Engine.
type Option func(*options)

// WithLocation sets the timezone calendar weeks are computed in.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.loc = loc }
}

// WithLanguage selects the language of insight messages.
func WithLanguage(lang entity.Language) Option {
	return func(o *options) { o.lang = lang }
}

// New builds an engine persisting to store.
func New(store repository.KVStore, logger logrus.FieldLogger, opts ...Option) (*Engine, error) {
	o := options{loc: time.Local, lang: entity.LanguageEnglish}
	for _, opt := range opts {
		opt(&o)
	}
	catalog, err := usecase.LoadInsightCatalog(o.lang)
	if err != nil {
		return nil, err
	}

	repos := kvrepo.NewRepositoryFactory(store, logger)
	stats := usecase.NewStatsUsecase(repos, o.loc)
	progress := usecase.NewProgressUsecase(repos, logger)
	return &Engine{
		words:    usecase.NewWeakWordUsecase(repos, logger),
		phrases:  usecase.NewPhraseUsecase(repos, logger),
		stats:    stats,
		insights: usecase.NewInsightUsecase(repos, stats, catalog),
		settings: usecase.NewSettingsUsecase(repos),
		progress: progress,
		backup:   backup.NewService(repos, progress, logger),
		logger:   logger,
	}, nil
}

// LastError returns the error absorbed by the most recent failing call.
func (e *Engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// absorb records err and reports whether the call succeeded.
func (e *Engine) absorb(op, userID string, err error) bool {
	if err == nil {
		return true
	}
	e.mu.Lock()
	e.lastErr = err
	e.mu.Unlock()

	entry := e.logger.WithError(err).WithField("op", op).WithField("user_id", userID)
	switch entity.KindOf(err) {
	case entity.KindNotFound, entity.KindDuplicate, entity.KindAlreadyMastered:
		entry.Debug("operation rejected")
	case entity.KindInvalid:
		entry.Warn("invalid request")
	default:
		entry.Error("operation failed")
	}
	return false
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func (e *Engine) GetWeakWords(ctx context.Context, userID string) []entity.WeakWord {
	words, err := e.words.ListWeakWords(ctx, userID, 0)
	e.absorb("get_weak_words", userID, err)
	return orEmpty(words)
}

// GetTopWeakWords returns the n most frequent weak words; n <= 0 means five.
func (e *Engine) GetTopWeakWords(ctx context.Context, userID string, n int) []entity.WeakWord {
	words, err := e.words.TopWeakWords(ctx, userID, n)
	e.absorb("get_top_weak_words", userID, err)
	return orEmpty(words)
}

func (e *Engine) SaveWeakWord(ctx context.Context, userID string, input entity.WeakWordInput) bool {
	_, err := e.words.SaveWeakWord(ctx, userID, input)
	return e.absorb("save_weak_word", userID, err)
}

func (e *Engine) RemoveWeakWord(ctx context.Context, userID, word string) bool {
	return e.absorb("remove_weak_word", userID, e.words.RemoveWeakWord(ctx, userID, word))
}

// MoveToMastered returns false when the word is already mastered.
func (e *Engine) MoveToMastered(ctx context.Context, userID string, word entity.WeakWord) bool {
	_, err := e.words.MoveToMastered(ctx, userID, word)
	return e.absorb("move_to_mastered", userID, err)
}

func (e *Engine) GetMasteredWords(ctx context.Context, userID string) []entity.MasteredWord {
	words, err := e.words.ListMastered(ctx, userID)
	e.absorb("get_mastered_words", userID, err)
	return orEmpty(words)
}

func (e *Engine) RemoveMasteredWord(ctx context.Context, userID, word string) bool {
	return e.absorb("remove_mastered_word", userID, e.words.RemoveMastered(ctx, userID, word))
}

// RecordEvaluation stores the tricky words of a failed assessment.
func (e *Engine) RecordEvaluation(ctx context.Context, userID string, eval entity.Evaluation) []entity.WeakWord {
	saved, err := e.words.RecordEvaluation(ctx, userID, eval)
	e.absorb("record_evaluation", userID, err)
	return orEmpty(saved)
}

func (e *Engine) PracticeWord(ctx context.Context, userID, word string, score float64) *entity.WordPracticeResult {
	result, err := e.words.PracticeWord(ctx, userID, word, score)
	if !e.absorb("practice_word", userID, err) {
		return nil
	}
	return result
}

// SavePhrase returns nil when an equal phrase is already saved.
func (e *Engine) SavePhrase(ctx context.Context, userID string, input entity.PhraseInput) *entity.SavedPhrase {
	phrase, err := e.phrases.SavePhrase(ctx, userID, input)
	if !e.absorb("save_phrase", userID, err) {
		return nil
	}
	return phrase
}

// GetSavedPhrases lists phrases newest first. Empty topic and status match everything.
func (e *Engine) GetSavedPhrases(ctx context.Context, userID, topic string, status entity.PhraseStatus) []entity.SavedPhrase {
	var query *repository.ListSavedPhraseQuery
	if topic = strings.TrimSpace(topic); topic != "" || status != "" {
		query = &repository.ListSavedPhraseQuery{Topic: topic, Status: status}
	}
	phrases, err := e.phrases.ListPhrases(ctx, userID, query)
	e.absorb("get_saved_phrases", userID, err)
	return orEmpty(phrases)
}

// UpdatePhraseStats returns nil when the phrase does not exist.
func (e *Engine) UpdatePhraseStats(ctx context.Context, userID, phraseID string, score float64, rule entity.MasteryRule) *entity.SavedPhrase {
	phrase, err := e.phrases.UpdatePhraseStats(ctx, userID, phraseID, score, rule)
	if !e.absorb("update_phrase_stats", userID, err) {
		return nil
	}
	return phrase
}

func (e *Engine) PracticePhrase(ctx context.Context, userID, phraseID string, score float64) *entity.PhrasePracticeResult {
	result, err := e.phrases.PracticePhrase(ctx, userID, phraseID, score)
	if !e.absorb("practice_phrase", userID, err) {
		return nil
	}
	return result
}

func (e *Engine) RemoveSavedPhrase(ctx context.Context, userID, idOrText string) bool {
	return e.absorb("remove_saved_phrase", userID, e.phrases.RemovePhrase(ctx, userID, idOrText))
}

func (e *Engine) GetPhrasesByTopic(ctx context.Context, userID string) map[string][]entity.SavedPhrase {
	grouped, err := e.phrases.PhrasesByTopic(ctx, userID)
	if !e.absorb("get_phrases_by_topic", userID, err) {
		return map[string][]entity.SavedPhrase{}
	}
	return grouped
}

// GetTodayPhrases returns the phrases most in need of practice; limit <= 0 means three.
func (e *Engine) GetTodayPhrases(ctx context.Context, userID string, limit int) []entity.PrioritizedPhrase {
	phrases, err := e.phrases.TodayPhrases(ctx, userID, limit)
	e.absorb("get_today_phrases", userID, err)
	return orEmpty(phrases)
}

func (e *Engine) GetWeekRange(weekOffset int) entity.DateRange {
	return e.stats.WeekRange(weekOffset)
}

func (e *Engine) GetDailyActivity(ctx context.Context, userID string, week entity.DateRange) []entity.DailyActivity {
	days, err := e.stats.DailyActivity(ctx, userID, week)
	e.absorb("get_daily_activity", userID, err)
	return orEmpty(days)
}

// GetWeeklyStats returns zeroed stats for the requested week on failure.
func (e *Engine) GetWeeklyStats(ctx context.Context, userID string, weekOffset int) entity.WeeklyStats {
	stats, err := e.stats.WeeklyStats(ctx, userID, weekOffset)
	if !e.absorb("get_weekly_stats", userID, err) {
		return e.emptyWeek(weekOffset)
	}
	return *stats
}

// GetWeeklyInsights falls back to empty weeks, no insights and a goal progress
// of zero against the stored (or default) goal.
func (e *Engine) GetWeeklyInsights(ctx context.Context, userID string) entity.WeeklyInsights {
	report, err := e.insights.WeeklyInsights(ctx, userID)
	if e.absorb("get_weekly_insights", userID, err) {
		return *report
	}
	goal, err := e.settings.WeeklyGoal(ctx, userID)
	if err != nil || goal <= 0 {
		goal = entity.DefaultWeeklyGoalMinutes
	}
	return entity.WeeklyInsights{
		ThisWeek:     e.emptyWeek(0),
		LastWeek:     e.emptyWeek(-1),
		Insights:     []entity.Insight{},
		GoalProgress: entity.GoalProgress{Target: goal * 7},
	}
}

func (e *Engine) emptyWeek(weekOffset int) entity.WeeklyStats {
	week := e.stats.WeekRange(weekOffset)
	return entity.WeeklyStats{WeekOffset: weekOffset, StartDate: week.Start, EndDate: week.End, DailyActivity: []entity.DailyActivity{}}
}

func (e *Engine) GetTodaySummary(ctx context.Context, userID string) *entity.TodaySummary {
	summary, err := e.stats.TodaySummary(ctx, userID)
	if !e.absorb("get_today_summary", userID, err) {
		return nil
	}
	return summary
}

// GetUserSettings falls back to the defaults on failure.
func (e *Engine) GetUserSettings(ctx context.Context, userID string) entity.UserSettings {
	settings, err := e.settings.GetSettings(ctx, userID)
	if !e.absorb("get_user_settings", userID, err) {
		return entity.DefaultUserSettings()
	}
	return settings
}

func (e *Engine) UpdateUserSettings(ctx context.Context, userID string, patch entity.SettingsPatch) bool {
	_, err := e.settings.UpdateSettings(ctx, userID, patch)
	return e.absorb("update_user_settings", userID, err)
}

func (e *Engine) GetPronunciationThreshold(ctx context.Context, userID string) float64 {
	threshold, err := e.settings.PronunciationThreshold(ctx, userID)
	if !e.absorb("get_pronunciation_threshold", userID, err) {
		return entity.DefaultPronunciationThreshold
	}
	return threshold
}

func (e *Engine) UpdatePronunciationThreshold(ctx context.Context, userID string, threshold float64) bool {
	return e.absorb("update_pronunciation_threshold", userID, e.settings.SetPronunciationThreshold(ctx, userID, threshold))
}

func (e *Engine) GetWeeklyGoal(ctx context.Context, userID string) int {
	minutes, err := e.settings.WeeklyGoal(ctx, userID)
	if !e.absorb("get_weekly_goal", userID, err) {
		return entity.DefaultWeeklyGoalMinutes
	}
	return minutes
}

func (e *Engine) UpdateWeeklyGoal(ctx context.Context, userID string, minutes int) bool {
	return e.absorb("update_weekly_goal", userID, e.settings.SetWeeklyGoal(ctx, userID, minutes))
}

func (e *Engine) GetSessionCount(ctx context.Context, userID string) int {
	count, err := e.settings.SessionCount(ctx, userID)
	e.absorb("get_session_count", userID, err)
	return count
}

// IncrementSessionCount returns the new count, or 0 on failure.
func (e *Engine) IncrementSessionCount(ctx context.Context, userID string) int {
	count, err := e.settings.IncrementSession(ctx, userID)
	e.absorb("increment_session_count", userID, err)
	return count
}

func (e *Engine) GetUserProgress(ctx context.Context, userID string) *entity.ProgressSummary {
	summary, err := e.progress.Summary(ctx, userID)
	if !e.absorb("get_user_progress", userID, err) {
		return nil
	}
	return summary
}

func (e *Engine) ClearUserData(ctx context.Context, userID string) bool {
	return e.absorb("clear_user_data", userID, e.progress.ClearUserData(ctx, userID))
}

// ExportUserData returns the JSON backup of the learner, or "" on failure.
func (e *Engine) ExportUserData(ctx context.Context, userID string) string {
	var buf bytes.Buffer
	if !e.absorb("export_user_data", userID, e.backup.Export(ctx, userID, &buf)) {
		return ""
	}
	return buf.String()
}

func (e *Engine) ImportUserData(ctx context.Context, userID, data string) bool {
	_, err := e.backup.Import(ctx, userID, strings.NewReader(data))
	return e.absorb("import_user_data", userID, err)
}
