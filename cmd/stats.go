/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/eslsoft/speaktrack/internal/app"
	"github.com/eslsoft/speaktrack/internal/entity"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "查看练习统计",
}

var statsWeekCmd = &cobra.Command{
	Use:   "week",
	Short: "按天显示一周 (周一至周日) 的练习统计",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		offset, _ := cmd.Flags().GetInt("offset")
		return runWithApp(cmd, func(ctx context.Context, c *app.Container, userID string) error {
			stats, err := c.Stats.WeeklyStats(ctx, userID, offset)
			if err != nil {
				return fmt.Errorf("查询周统计失败: %w", err)
			}
			rows := lo.Map(stats.DailyActivity, func(d entity.DailyActivity, _ int) []string {
				return []string{
					formatDate(d.Date),
					d.DayName,
					strconv.Itoa(d.SpeakingMinutes),
					strconv.Itoa(d.WordsMastered),
					strconv.Itoa(d.PhrasesAdded),
					strconv.Itoa(d.PhrasesPracticed),
				}
			})
			rows = append(rows, []string{
				"合计", "",
				strconv.Itoa(stats.SpeakingMinutes),
				strconv.Itoa(stats.WordsMastered),
				strconv.Itoa(stats.PhrasesSaved),
				fmt.Sprintf("avg %d / streak %d", stats.AvgScore, stats.Streak),
			})
			return render(cmd.OutOrStdout(), stats, []string{"Date", "Day", "Minutes", "Mastered", "Phrases Added", "Phrases Practiced"}, rows)
		})
	},
}

var statsTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "今日练习概览",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, c *app.Container, userID string) error {
			s, err := c.Stats.TodaySummary(ctx, userID)
			if err != nil {
				return fmt.Errorf("查询今日概览失败: %w", err)
			}
			row := []string{
				formatDate(s.Date),
				fmt.Sprintf("%d/%d (%d%%)", s.SpeakingMinutes, s.GoalMinutes, s.GoalPercentage),
				strconv.Itoa(s.WordsMastered),
				strconv.Itoa(s.PhrasesAdded),
				strconv.Itoa(s.PhrasesPracticed),
				strconv.Itoa(s.Streak),
			}
			return render(cmd.OutOrStdout(), s, []string{"Date", "Minutes", "Mastered", "Phrases Added", "Phrases Practiced", "Streak"}, [][]string{row})
		})
	},
}

var statsInsightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "本周与上周对比的学习洞察",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, c *app.Container, userID string) error {
			report, err := c.Insights.WeeklyInsights(ctx, userID)
			if err != nil {
				return fmt.Errorf("生成学习洞察失败: %w", err)
			}
			rows := lo.Map(report.Insights, func(in entity.Insight, _ int) []string {
				return []string{in.Icon, string(in.Type), in.Message, in.Value}
			})
			g := report.GoalProgress
			rows = append(rows, []string{"", "goal", fmt.Sprintf("%d/%d", g.Current, g.Target), fmt.Sprintf("%d%%", g.Percentage)})
			return render(cmd.OutOrStdout(), report, []string{"", "Type", "Message", "Value"}, rows)
		})
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.AddCommand(statsWeekCmd, statsTodayCmd, statsInsightsCmd)

	statsWeekCmd.Flags().Int("offset", 0, "周偏移: 0 为本周，-1 为上周")
}
