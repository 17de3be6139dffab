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
	"sort"
	"strconv"

	"github.com/eslsoft/speaktrack/internal/app"
	"github.com/eslsoft/speaktrack/internal/entity"
	"github.com/eslsoft/speaktrack/internal/repository"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var phrasesCmd = &cobra.Command{
	Use:   "phrases",
	Short: "管理收藏的短语",
}

var phrasesSaveCmd = &cobra.Command{
	Use:   "save <text>",
	Short: "收藏一个短语",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rawSource, _ := cmd.Flags().GetString("source")
		source, err := entity.ParsePhraseSource(rawSource)
		if err != nil {
			return err
		}
		input := entity.PhraseInput{TextEN: args[0], Source: source}
		input.TextVI, _ = cmd.Flags().GetString("translation")
		input.Topic, _ = cmd.Flags().GetString("topic")
		input.CoachID, _ = cmd.Flags().GetString("coach")

		return runWithApp(cmd, func(ctx context.Context, c *app.Container, userID string) error {
			phrase, err := c.Phrases.SavePhrase(ctx, userID, input)
			if err != nil {
				return fmt.Errorf("收藏短语失败: %w", err)
			}
			return render(cmd.OutOrStdout(), phrase, phraseHeader, [][]string{phraseRow(*phrase, 0)})
		})
	},
}

var phrasesListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出收藏的短语 (最新在前)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rawStatus, _ := cmd.Flags().GetString("status")
		status, err := entity.ParsePhraseStatus(rawStatus)
		if err != nil {
			return err
		}
		query := &repository.ListSavedPhraseQuery{Status: status}
		query.Topic, _ = cmd.Flags().GetString("topic")
		query.Filter, _ = cmd.Flags().GetString("filter")
		query.OrderBy, _ = cmd.Flags().GetString("order-by")

		return runWithApp(cmd, func(ctx context.Context, c *app.Container, userID string) error {
			phrases, err := c.Phrases.ListPhrases(ctx, userID, query)
			if err != nil {
				return fmt.Errorf("查询短语失败: %w", err)
			}
			return render(cmd.OutOrStdout(), phrases, phraseHeader, lo.Map(phrases, phraseRow))
		})
	},
}

var phrasesTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "今日推荐练习的短语",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return runWithApp(cmd, func(ctx context.Context, c *app.Container, userID string) error {
			phrases, err := c.Phrases.TodayPhrases(ctx, userID, limit)
			if err != nil {
				return fmt.Errorf("查询今日短语失败: %w", err)
			}
			rows := lo.Map(phrases, func(p entity.PrioritizedPhrase, i int) []string {
				return append([]string{strconv.Itoa(p.Priority)}, phraseRow(p.SavedPhrase, i)...)
			})
			return render(cmd.OutOrStdout(), phrases, append([]string{"Priority"}, phraseHeader...), rows)
		})
	},
}

var phrasesPracticeCmd = &cobra.Command{
	Use:   "practice <id> <score>",
	Short: "记录一次短语练习成绩",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("解析分数失败: %w", err)
		}
		return runWithApp(cmd, func(ctx context.Context, c *app.Container, userID string) error {
			result, err := c.Phrases.PracticePhrase(ctx, userID, args[0], score)
			if err != nil {
				return fmt.Errorf("记录练习失败: %w", err)
			}
			if result.JustMastered {
				cmd.PrintErrf("恭喜! 已掌握: %s\n", result.Phrase.TextEN)
			}
			return render(cmd.OutOrStdout(), result, phraseHeader, [][]string{phraseRow(result.Phrase, 0)})
		})
	},
}

var phrasesRemoveCmd = &cobra.Command{
	Use:   "remove <id|text>",
	Short: "删除收藏的短语",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, c *app.Container, userID string) error {
			if err := c.Phrases.RemovePhrase(ctx, userID, args[0]); err != nil {
				return fmt.Errorf("删除短语失败: %w", err)
			}
			cmd.Printf("已删除: %s\n", args[0])
			return nil
		})
	},
}

var phrasesTopicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "按主题统计收藏的短语",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, c *app.Container, userID string) error {
			grouped, err := c.Phrases.PhrasesByTopic(ctx, userID)
			if err != nil {
				return fmt.Errorf("查询主题失败: %w", err)
			}
			topics := lo.Keys(grouped)
			sort.Strings(topics)
			rows := lo.Map(topics, func(topic string, _ int) []string {
				return []string{topic, strconv.Itoa(len(grouped[topic]))}
			})
			return render(cmd.OutOrStdout(), grouped, []string{"Topic", "Phrases"}, rows)
		})
	},
}

var phraseHeader = []string{"ID", "Phrase", "Topic", "Status", "Practiced", "Avg", "Streak", "Last Practiced"}

func phraseRow(p entity.SavedPhrase, _ int) []string {
	return []string{
		p.ID,
		p.TextEN,
		p.TopicOrDefault(),
		string(p.Status),
		strconv.Itoa(p.PracticeCount),
		formatScore(p.AvgScore),
		strconv.Itoa(p.SuccessStreak),
		formatTime(p.LastPracticedAt),
	}
}

func init() {
	rootCmd.AddCommand(phrasesCmd)
	phrasesCmd.AddCommand(phrasesSaveCmd, phrasesListCmd, phrasesTodayCmd, phrasesPracticeCmd, phrasesRemoveCmd, phrasesTopicsCmd)

	phrasesSaveCmd.Flags().String("translation", "", "越南语译文")
	phrasesSaveCmd.Flags().String("source", "", "来源: lesson|live_talk|speaking_lab|manual")
	phrasesSaveCmd.Flags().String("topic", "", "主题")
	phrasesSaveCmd.Flags().String("coach", "", "教练 ID")

	phrasesListCmd.Flags().String("topic", "", "仅显示指定主题")
	phrasesListCmd.Flags().String("status", "", "仅显示指定状态: weak|learning|mastered")
	phrasesListCmd.Flags().String("filter", "", "CEL 过滤表达式，例如 practice_count > 2")
	phrasesListCmd.Flags().String("order-by", "", "排序，例如 \"avg_score asc\"")

	phrasesTodayCmd.Flags().IntP("limit", "n", 0, "最多推荐条数 (默认 3)")
}
