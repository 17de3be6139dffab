package usecase

import (
	"context"

	"github.com/eslsoft/speaktrack/internal/entity"
	"github.com/eslsoft/speaktrack/internal/repository"
)

// Insight rule identifiers, also the catalog keys.
const (
	RuleSpeakingTimeUp   = "speaking_time_up"
	RuleSpeakingTimeDown = "speaking_time_down"
	RuleGoalReached      = "goal_reached"
	RuleGoalAlmost       = "goal_almost"
	RuleConsistency      = "consistency"
	RuleStreakFire       = "streak_fire"
	RuleStreakGoing      = "streak_going"
	RulePronunciationUp  = "pronunciation_up"
	RuleWordsMastered    = "words_mastered"
)

// InsightUsecase compares this week against the previous one.
type InsightUsecase interface {
	WeeklyInsights(ctx context.Context, userID string) (*entity.WeeklyInsights, error)
}

// NewInsightUsecase wires the stats engine, repositories and message catalog.
func NewInsightUsecase(repos repository.Factory, stats StatsUsecase, catalog *InsightCatalog) InsightUsecase {
	return &insightUsecase{repos: repos, stats: stats, catalog: catalog}
}

type insightUsecase struct {
	repos   repository.Factory
	stats   StatsUsecase
	catalog *InsightCatalog
}

func (u *insightUsecase) WeeklyInsights(ctx context.Context, userID string) (*entity.WeeklyInsights, error) {
	r, err := scoped(u.repos, userID)
	if err != nil {
		return nil, err
	}
	goal, err := r.WeeklyGoal.Get(ctx)
	if err != nil {
		return nil, err
	}
	thisWeek, err := u.stats.WeeklyStats(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	lastWeek, err := u.stats.WeeklyStats(ctx, userID, -1)
	if err != nil {
		return nil, err
	}

	insights, progress := BuildInsights(*thisWeek, *lastWeek, goal, u.catalog)
	return &entity.WeeklyInsights{
		ThisWeek:     *thisWeek,
		LastWeek:     *lastWeek,
		Insights:     insights,
		GoalProgress: progress,
	}, nil
}

// BuildInsights applies the insight rules in order. dailyGoal is in minutes per day.
func BuildInsights(thisWeek, lastWeek entity.WeeklyStats, dailyGoal int, catalog *InsightCatalog) ([]entity.Insight, entity.GoalProgress) {
	insights := make([]entity.Insight, 0, 6)
	add := func(kind entity.InsightType, rule, icon string, messageArg, valueArg int) {
		message, value := catalog.render(rule, messageArg, valueArg)
		insights = append(insights, entity.Insight{Type: kind, Rule: rule, Icon: icon, Message: message, Value: value})
	}

	delta := thisWeek.SpeakingMinutes - lastWeek.SpeakingMinutes
	switch {
	case delta > 0:
		add(entity.InsightImprovement, RuleSpeakingTimeUp, "trendingUp", delta, delta)
	case delta < 0:
		add(entity.InsightWarning, RuleSpeakingTimeDown, "trendingDown", -delta, delta)
	}

	target := dailyGoal * 7
	progress := entity.GoalProgress{
		Current:    thisWeek.SpeakingMinutes,
		Target:     target,
		Percentage: percentage(thisWeek.SpeakingMinutes, target),
	}
	switch {
	case target > 0 && thisWeek.SpeakingMinutes >= target:
		add(entity.InsightSuccess, RuleGoalReached, "trophy", target, progress.Percentage)
	case progress.Percentage >= 80:
		add(entity.InsightProgress, RuleGoalAlmost, "target", target-thisWeek.SpeakingMinutes, progress.Percentage)
	}

	if thisWeek.ActiveDays >= 5 {
		add(entity.InsightConsistency, RuleConsistency, "calendar", thisWeek.ActiveDays, thisWeek.ActiveDays)
	}

	switch {
	case thisWeek.Streak >= 7:
		add(entity.InsightStreak, RuleStreakFire, "fire", thisWeek.Streak, thisWeek.Streak)
	case thisWeek.Streak >= 3:
		add(entity.InsightStreak, RuleStreakGoing, "zap", thisWeek.Streak, thisWeek.Streak)
	}

	scoreDelta := thisWeek.AvgScore - lastWeek.AvgScore
	if thisWeek.AvgScore > 0 && lastWeek.AvgScore > 0 && scoreDelta >= 5 {
		add(entity.InsightImprovement, RulePronunciationUp, "sparkles", scoreDelta, scoreDelta)
	}

	if thisWeek.WordsMastered > 0 {
		add(entity.InsightAchievement, RuleWordsMastered, "award", thisWeek.WordsMastered, thisWeek.WordsMastered)
	}

	return insights, progress
}
