package usecase

import (
	"context"
	"math"
	"time"

	"github.com/eslsoft/speaktrack/internal/entity"
	"github.com/eslsoft/speaktrack/internal/repository"
)

const (
	// maxDailyMinutes caps the estimated speaking time of a single day.
	maxDailyMinutes = 60
	// streakLookbackDays bounds how far back the streak walk goes.
	streakLookbackDays = 30
)

// StatsUsecase derives calendar-based practice statistics.
type StatsUsecase interface {
	WeekRange(weekOffset int) entity.DateRange
	DailyActivity(ctx context.Context, userID string, week entity.DateRange) ([]entity.DailyActivity, error)
	WeeklyStats(ctx context.Context, userID string, weekOffset int) (*entity.WeeklyStats, error)
	TodaySummary(ctx context.Context, userID string) (*entity.TodaySummary, error)
}

// NewStatsUsecase computes weeks in loc; nil means the local timezone.
func NewStatsUsecase(repos repository.Factory, loc *time.Location) StatsUsecase {
	if loc == nil {
		loc = time.Local
	}
	return &statsUsecase{repos: repos, loc: loc, clock: time.Now}
}

type statsUsecase struct {
	repos repository.Factory
	loc   *time.Location
	clock func() time.Time
}

func (u *statsUsecase) now() time.Time {
	return u.clock().In(u.loc)
}

// WeekRange returns Monday 00:00:00.000 through Sunday 23:59:59.999 of the
// week weekOffset weeks away from the current one.
func (u *statsUsecase) WeekRange(weekOffset int) entity.DateRange {
	return weekRange(u.now(), weekOffset)
}

func weekRange(now time.Time, weekOffset int) entity.DateRange {
	sinceMonday := (int(now.Weekday()) + 6) % 7
	y, m, d := now.Date()
	start := time.Date(y, m, d-sinceMonday+weekOffset*7, 0, 0, 0, 0, now.Location())
	sy, sm, sd := start.Date()
	end := time.Date(sy, sm, sd+6, 23, 59, 59, int(999*time.Millisecond), now.Location())
	return entity.DateRange{Start: start, End: end}
}

func dayRange(day time.Time) entity.DateRange {
	y, m, d := day.Date()
	return entity.DateRange{
		Start: time.Date(y, m, d, 0, 0, 0, 0, day.Location()),
		End:   time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), day.Location()),
	}
}

// activity is the snapshot of timestamped records the statistics read.
type activity struct {
	weak     []entity.WeakWord
	mastered []entity.MasteredWord
	phrases  []entity.SavedPhrase
}

func (u *statsUsecase) load(ctx context.Context, userID string) (*activity, error) {
	r, err := scoped(u.repos, userID)
	if err != nil {
		return nil, err
	}
	weak, err := r.WeakWords.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	mastered, err := r.MasteredWords.List(ctx)
	if err != nil {
		return nil, err
	}
	phrases, err := r.Phrases.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &activity{weak: weak, mastered: mastered, phrases: phrases}, nil
}

// SpeakingMinutes estimates speaking time from counted actions, capped per day.
func SpeakingMinutes(wordsMastered, phrasesAdded, phrasesPracticed int) int {
	return min(maxDailyMinutes, 2*wordsMastered+3*phrasesAdded+3*phrasesPracticed)
}

func (a *activity) wordsMastered(r entity.DateRange) int {
	n := 0
	for _, w := range a.mastered {
		if r.Contains(w.MasteredAt) {
			n++
		}
	}
	return n
}

func (a *activity) phrasesAdded(r entity.DateRange) int {
	n := 0
	for _, p := range a.phrases {
		if r.Contains(p.CreatedAt) {
			n++
		}
	}
	return n
}

func (a *activity) phrasesPracticed(r entity.DateRange) int {
	n := 0
	for _, p := range a.phrases {
		if r.ContainsPtr(p.LastPracticedAt) {
			n++
		}
	}
	return n
}

func (a *activity) day(day time.Time) entity.DailyActivity {
	r := dayRange(day)
	words := a.wordsMastered(r)
	added := a.phrasesAdded(r)
	practiced := a.phrasesPracticed(r)
	return entity.DailyActivity{
		Date:             r.Start,
		DayName:          r.Start.Weekday().String()[:3],
		SpeakingMinutes:  SpeakingMinutes(words, added, practiced),
		WordsMastered:    words,
		PhrasesAdded:     added,
		PhrasesPracticed: practiced,
	}
}

func (a *activity) week(week entity.DateRange) []entity.DailyActivity {
	days := make([]entity.DailyActivity, 0, 7)
	y, m, d := week.Start.Date()
	for i := 0; i < 7; i++ {
		days = append(days, a.day(time.Date(y, m, d+i, 0, 0, 0, 0, week.Start.Location())))
	}
	return days
}

// avgScore averages the scores of items practiced inside r. Weak words count
// only once they have been drilled, i.e. carry a non-zero last score.
func (a *activity) avgScore(r entity.DateRange) int {
	total, n := 0.0, 0
	for _, w := range a.weak {
		if w.LastScore > 0 && r.Contains(w.LastPracticed) {
			total += w.LastScore
			n++
		}
	}
	for _, p := range a.phrases {
		if r.ContainsPtr(p.LastPracticedAt) {
			total += p.AvgScore
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(total / float64(n)))
}

// streak counts consecutive active days ending today. An idle today does not
// break the streak; the first idle day before it does.
func (a *activity) streak(today time.Time) int {
	streak := 0
	y, m, d := today.Date()
	for i := 0; i < streakLookbackDays; i++ {
		r := dayRange(time.Date(y, m, d-i, 0, 0, 0, 0, today.Location()))
		if a.wordsMastered(r) > 0 || a.phrasesAdded(r) > 0 || a.phrasesPracticed(r) > 0 {
			streak++
		} else if i > 0 {
			break
		}
	}
	return streak
}

func (u *statsUsecase) DailyActivity(ctx context.Context, userID string, week entity.DateRange) ([]entity.DailyActivity, error) {
	a, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return a.week(week), nil
}

func (u *statsUsecase) WeeklyStats(ctx context.Context, userID string, weekOffset int) (*entity.WeeklyStats, error) {
	a, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := u.now()
	week := weekRange(now, weekOffset)
	days := a.week(week)

	stats := &entity.WeeklyStats{
		WeekOffset:    weekOffset,
		StartDate:     week.Start,
		EndDate:       week.End,
		WordsMastered: a.wordsMastered(week),
		PhrasesSaved:  a.phrasesAdded(week),
		AvgScore:      a.avgScore(week),
		Streak:        a.streak(now),
		DailyActivity: days,
	}
	for _, day := range days {
		stats.SpeakingMinutes += day.SpeakingMinutes
		if day.Active() {
			stats.ActiveDays++
		}
	}
	return stats, nil
}

func (u *statsUsecase) TodaySummary(ctx context.Context, userID string) (*entity.TodaySummary, error) {
	r, err := scoped(u.repos, userID)
	if err != nil {
		return nil, err
	}
	goal, err := r.WeeklyGoal.Get(ctx)
	if err != nil {
		return nil, err
	}
	a, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := u.now()
	today := a.day(now)
	return &entity.TodaySummary{
		Date:             today.Date,
		SpeakingMinutes:  today.SpeakingMinutes,
		GoalMinutes:      goal,
		GoalPercentage:   min(100, percentage(today.SpeakingMinutes, goal)),
		WordsMastered:    today.WordsMastered,
		PhrasesAdded:     today.PhrasesAdded,
		PhrasesPracticed: today.PhrasesPracticed,
		Streak:           a.streak(now),
	}, nil
}

func percentage(current, target int) int {
	if target <= 0 {
		return 0
	}
	return int(math.Round(float64(current) / float64(target) * 100))
}
