package entity

import "time"

// DateRange is an inclusive span of instants, e.g. Monday 00:00:00.000 through Sunday 23:59:59.999.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the range at millisecond precision.
func (r DateRange) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	return !t.Before(r.Start) && t.Before(r.End.Add(time.Millisecond))
}

// ContainsPtr is Contains for optional timestamps.
func (r DateRange) ContainsPtr(t *time.Time) bool {
	return t != nil && r.Contains(*t)
}

// DailyActivity aggregates one calendar day of practice.
type DailyActivity struct {
	Date             time.Time `json:"date"`
	DayName          string    `json:"day_name"`
	SpeakingMinutes  int       `json:"speaking_minutes"`
	WordsMastered    int       `json:"words_mastered"`
	PhrasesAdded     int       `json:"phrases_added"`
	PhrasesPracticed int       `json:"phrases_practiced"`
}

// Active reports whether anything happened on the day.
func (d DailyActivity) Active() bool {
	return d.SpeakingMinutes > 0 || d.WordsMastered > 0 || d.PhrasesAdded > 0
}

// WeeklyStats summarises one Monday-to-Sunday week.
type WeeklyStats struct {
	WeekOffset      int             `json:"week_offset"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	SpeakingMinutes int             `json:"speaking_minutes"`
	WordsMastered   int             `json:"words_mastered"`
	PhrasesSaved    int             `json:"phrases_saved"`
	AvgScore        int             `json:"avg_score"`
	ActiveDays      int             `json:"active_days"`
	Streak          int             `json:"streak"`
	DailyActivity   []DailyActivity `json:"daily_activity"`
}

// InsightType is the visual category of an insight.
type InsightType string

const (
	InsightImprovement InsightType = "improvement"
	InsightWarning     InsightType = "warning"
	InsightSuccess     InsightType = "success"
	InsightProgress    InsightType = "progress"
	InsightConsistency InsightType = "consistency"
	InsightStreak      InsightType = "streak"
	InsightAchievement InsightType = "achievement"
)

// Insight is one human-readable observation about the week.
type Insight struct {
	Type    InsightType `json:"type"`
	Rule    string      `json:"rule"`
	Icon    string      `json:"icon"`
	Message string      `json:"message"`
	Value   string      `json:"value"`
}

// GoalProgress compares weekly minutes to seven times the daily goal.
type GoalProgress struct {
	Current    int `json:"current"`
	Target     int `json:"target"`
	Percentage int `json:"percentage"`
}

// WeeklyInsights bundles the current and previous week with derived insights.
type WeeklyInsights struct {
	ThisWeek     WeeklyStats  `json:"this_week"`
	LastWeek     WeeklyStats  `json:"last_week"`
	Insights     []Insight    `json:"insights"`
	GoalProgress GoalProgress `json:"goal_progress"`
}

// TodaySummary is the compact widget shown on the dashboard.
type TodaySummary struct {
	Date             time.Time `json:"date"`
	SpeakingMinutes  int       `json:"speaking_minutes"`
	GoalMinutes      int       `json:"goal_minutes"`
	GoalPercentage   int       `json:"goal_percentage"`
	WordsMastered    int       `json:"words_mastered"`
	PhrasesAdded     int       `json:"phrases_added"`
	PhrasesPracticed int       `json:"phrases_practiced"`
	Streak           int       `json:"streak"`
}

// ProgressStats are aggregate counts reported with a progress export.
type ProgressStats struct {
	TotalWeakWords    int            `json:"total_weak_words"`
	TotalErrors       int            `json:"total_errors"`
	TotalSavedPhrases int            `json:"total_saved_phrases"`
	PhrasesByTopic    map[string]int `json:"phrases_by_topic"`
}

// ProgressSummary is the full progress snapshot of a learner.
type ProgressSummary struct {
	WeakWords    []WeakWord    `json:"weak_words"`
	SavedPhrases []SavedPhrase `json:"saved_phrases"`
	SessionCount int           `json:"session_count"`
	Stats        ProgressStats `json:"stats"`
}
