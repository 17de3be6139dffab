package progress

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/eslsoft/speaktrack/internal/entity"
	"github.com/eslsoft/speaktrack/internal/infrastructure/database"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func newEngine(t *testing.T) (*Engine, *logtest.Hook) {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	e, err := New(database.NewMemoryStore(), logger)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e, hook
}

func TestWeakWordFlow(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)

	for _, word := range []string{"three", "three", "world"} {
		if !e.SaveWeakWord(ctx, "u1", entity.WeakWordInput{Word: word, ErrorType: entity.ErrorTypeMispronunciation}) {
			t.Fatalf("save %q failed: %v", word, e.LastError())
		}
	}
	top := e.GetTopWeakWords(ctx, "u1", 1)
	if len(top) != 1 || top[0].Word != "three" || top[0].ErrorCount != 2 {
		t.Fatalf("unexpected top words: %+v", top)
	}

	if !e.MoveToMastered(ctx, "u1", top[0]) {
		t.Fatalf("move to mastered failed: %v", e.LastError())
	}
	if e.MoveToMastered(ctx, "u1", top[0]) {
		t.Fatalf("mastering twice should be rejected")
	}
	if !errors.Is(e.LastError(), entity.ErrWordAlreadyMastered) {
		t.Fatalf("expected ErrWordAlreadyMastered, got %v", e.LastError())
	}
	if got := e.GetWeakWords(ctx, "u1"); len(got) != 1 || got[0].Word != "world" {
		t.Fatalf("expected only world to remain weak, got %+v", got)
	}
	if got := e.GetMasteredWords(ctx, "u1"); len(got) != 1 {
		t.Fatalf("expected one mastered word, got %+v", got)
	}
	if !e.RemoveMasteredWord(ctx, "u1", "three") || len(e.GetMasteredWords(ctx, "u1")) != 0 {
		t.Fatalf("remove mastered word failed")
	}
	if e.SaveWeakWord(ctx, "u1", entity.WeakWordInput{Word: " "}) {
		t.Fatalf("blank word should be rejected")
	}
}

func TestPhraseFlow(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)

	phrase := e.SavePhrase(ctx, "u1", entity.PhraseInput{TextEN: "Could you repeat that?", Topic: "travel"})
	if phrase == nil {
		t.Fatalf("save phrase failed: %v", e.LastError())
	}
	if dup := e.SavePhrase(ctx, "u1", entity.PhraseInput{TextEN: "Could you repeat that?"}); dup != nil {
		t.Fatalf("duplicate phrase should not be saved")
	}
	if !errors.Is(e.LastError(), entity.ErrDuplicatePhrase) {
		t.Fatalf("expected ErrDuplicatePhrase, got %v", e.LastError())
	}

	if got := e.GetSavedPhrases(ctx, "u1", "travel", ""); len(got) != 1 {
		t.Fatalf("expected one travel phrase, got %d", len(got))
	}
	if got := e.GetSavedPhrases(ctx, "u1", "food", ""); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
	if grouped := e.GetPhrasesByTopic(ctx, "u1"); len(grouped["travel"]) != 1 {
		t.Fatalf("unexpected grouping: %+v", grouped)
	}

	updated := e.UpdatePhraseStats(ctx, "u1", phrase.ID, 90, entity.DefaultMasteryRule())
	if updated == nil || updated.PracticeCount != 1 || updated.SuccessStreak != 1 {
		t.Fatalf("unexpected stats update: %+v", updated)
	}
	if e.UpdatePhraseStats(ctx, "u1", "missing", 90, entity.DefaultMasteryRule()) != nil {
		t.Fatalf("unknown phrase should return nil")
	}
	if got := e.GetSavedPhrases(ctx, "u1", "", entity.PhraseStatusLearning); len(got) != 1 {
		t.Fatalf("expected one learning phrase, got %d", len(got))
	}
	if got := e.GetSavedPhrases(ctx, "u1", "travel", entity.PhraseStatusMastered); got == nil || len(got) != 0 {
		t.Fatalf("expected no mastered phrases, got %#v", got)
	}
	if today := e.GetTodayPhrases(ctx, "u1", 0); len(today) != 1 {
		t.Fatalf("expected one phrase for today, got %d", len(today))
	}
	if !e.RemoveSavedPhrase(ctx, "u1", phrase.ID) || len(e.GetSavedPhrases(ctx, "u1", "", "")) != 0 {
		t.Fatalf("remove phrase failed")
	}
}

func TestSettingsGoalAndSessions(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)

	if got := e.GetPronunciationThreshold(ctx, "u1"); got != entity.DefaultPronunciationThreshold {
		t.Fatalf("expected default threshold, got %v", got)
	}
	if !e.UpdatePronunciationThreshold(ctx, "u1", 90) || e.GetPronunciationThreshold(ctx, "u1") != 90 {
		t.Fatalf("threshold update not persisted")
	}
	if e.UpdatePronunciationThreshold(ctx, "u1", 10) {
		t.Fatalf("out of range threshold should be rejected")
	}

	attempts := 5
	if !e.UpdateUserSettings(ctx, "u1", entity.SettingsPatch{MasteredWordAttempts: &attempts}) {
		t.Fatalf("settings update failed: %v", e.LastError())
	}
	if s := e.GetUserSettings(ctx, "u1"); s.MasteredWordAttempts != 5 || s.PronunciationThreshold != 90 {
		t.Fatalf("unexpected settings: %+v", s)
	}

	if e.GetWeeklyGoal(ctx, "u1") != entity.DefaultWeeklyGoalMinutes {
		t.Fatalf("expected default weekly goal")
	}
	if !e.UpdateWeeklyGoal(ctx, "u1", 30) || e.GetWeeklyGoal(ctx, "u1") != 30 {
		t.Fatalf("weekly goal not persisted")
	}

	if e.IncrementSessionCount(ctx, "u1") != 1 || e.IncrementSessionCount(ctx, "u1") != 2 {
		t.Fatalf("session count should increase by one")
	}
	if e.GetSessionCount(ctx, "u1") != 2 {
		t.Fatalf("expected two sessions")
	}
}

func TestExportImportAndClear(t *testing.T) {
	ctx := context.Background()
	e, hook := newEngine(t)

	e.SaveWeakWord(ctx, "u1", entity.WeakWordInput{Word: "three", ErrorType: entity.ErrorTypeDeletion})
	e.SavePhrase(ctx, "u1", entity.PhraseInput{TextEN: "See you soon"})
	e.IncrementSessionCount(ctx, "u1")

	data := e.ExportUserData(ctx, "u1")
	if !strings.Contains(data, `"three"`) {
		t.Fatalf("export is missing the weak word: %s", data)
	}
	if !e.ImportUserData(ctx, "u2", data) {
		t.Fatalf("import failed: %v", e.LastError())
	}
	progress := e.GetUserProgress(ctx, "u2")
	if progress == nil || len(progress.WeakWords) != 1 || len(progress.SavedPhrases) != 1 || progress.SessionCount != 1 {
		t.Fatalf("unexpected imported progress: %+v", progress)
	}

	if e.ImportUserData(ctx, "u2", "not json") {
		t.Fatalf("malformed backup should be rejected")
	}
	if !errors.Is(e.LastError(), entity.ErrInvalidBackup) {
		t.Fatalf("expected ErrInvalidBackup, got %v", e.LastError())
	}
	if entry := hook.LastEntry(); entry == nil || entry.Data["op"] != "import_user_data" {
		t.Fatalf("expected the rejection to be logged, got %+v", entry)
	}

	if !e.ClearUserData(ctx, "u2") {
		t.Fatalf("clear failed: %v", e.LastError())
	}
	if p := e.GetUserProgress(ctx, "u2"); len(p.WeakWords) != 0 || len(p.SavedPhrases) != 0 || p.SessionCount != 0 {
		t.Fatalf("expected cleared progress, got %+v", p)
	}
}

func TestWeeklyViews(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)

	week := e.GetWeekRange(0)
	if week.Start.Weekday().String() != "Monday" || !week.End.After(week.Start) {
		t.Fatalf("unexpected week range: %+v", week)
	}
	if days := e.GetDailyActivity(ctx, "u1", week); len(days) != 7 {
		t.Fatalf("expected seven days, got %d", len(days))
	}
	stats := e.GetWeeklyStats(ctx, "u1", -1)
	if stats.WeekOffset != -1 || len(stats.DailyActivity) != 7 {
		t.Fatalf("unexpected weekly stats: %+v", stats)
	}
	if insights := e.GetWeeklyInsights(ctx, "u1"); insights.GoalProgress.Target != 7*entity.DefaultWeeklyGoalMinutes {
		t.Fatalf("unexpected insights: %+v", insights)
	}
	if summary := e.GetTodaySummary(ctx, "u1"); summary == nil || summary.GoalMinutes != entity.DefaultWeeklyGoalMinutes {
		t.Fatalf("unexpected today summary: %+v", summary)
	}
}

type downStore struct{}

var errDown = errors.New("store down")

func (downStore) Get(context.Context, string) (string, bool, error) { return "", false, errDown }
func (downStore) Set(context.Context, string, string) error         { return errDown }
func (downStore) SetMany(context.Context, map[string]string) error  { return errDown }
func (downStore) Remove(context.Context, ...string) error           { return errDown }
func (downStore) Close() error                                      { return nil }

func TestStorageFailuresFallBackToDefaults(t *testing.T) {
	ctx := context.Background()
	logger, hook := logtest.NewNullLogger()
	e, err := New(downStore{}, logger)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	if got := e.GetWeakWords(ctx, "u1"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice, got %#v", got)
	}
	if !errors.Is(e.LastError(), errDown) || entity.KindOf(e.LastError()) != entity.KindStorage {
		t.Fatalf("expected wrapped storage error, got %v", e.LastError())
	}
	if e.GetWeeklyGoal(ctx, "u1") != entity.DefaultWeeklyGoalMinutes {
		t.Fatalf("expected default goal on failure")
	}
	if e.GetUserSettings(ctx, "u1") != entity.DefaultUserSettings() {
		t.Fatalf("expected default settings on failure")
	}
	if e.ExportUserData(ctx, "u1") != "" || e.GetUserProgress(ctx, "u1") != nil {
		t.Fatalf("failed reads should return zero values")
	}
	insights := e.GetWeeklyInsights(ctx, "u1")
	if insights.GoalProgress.Target != 7*entity.DefaultWeeklyGoalMinutes || insights.GoalProgress.Current != 0 {
		t.Fatalf("expected zero progress against the default goal, got %+v", insights.GoalProgress)
	}
	if insights.Insights == nil || len(insights.Insights) != 0 || insights.LastWeek.WeekOffset != -1 {
		t.Fatalf("expected an empty report, got %+v", insights)
	}
	if entry := hook.LastEntry(); entry == nil || entry.Level != logrus.ErrorLevel {
		t.Fatalf("storage failures should be logged at error level")
	}
}
