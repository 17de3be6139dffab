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

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "管理薄弱单词与已掌握单词",
}

var wordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出薄弱单词 (按错误次数降序)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		top, _ := cmd.Flags().GetBool("top")
		limit, _ := cmd.Flags().GetInt("limit")
		return runWithApp(cmd, func(ctx context.Context, c *app.Container, userID string) error {
			var (
				words []entity.WeakWord
				err   error
			)
			if top {
				words, err = c.Words.TopWeakWords(ctx, userID, limit)
			} else {
				words, err = c.Words.ListWeakWords(ctx, userID, limit)
			}
			if err != nil {
				return fmt.Errorf("查询薄弱单词失败: %w", err)
			}
			return render(cmd.OutOrStdout(), words, weakWordHeader, lo.Map(words, weakWordRow))
		})
	},
}

var wordsAddCmd = &cobra.Command{
	Use:   "add <word>",
	Short: "记录一次单词发音错误",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		errorType, _ := cmd.Flags().GetString("error-type")
		input := entity.WeakWordInput{Word: args[0], ErrorType: entity.ErrorType(errorType)}
		if cmd.Flags().Changed("score") {
			score, _ := cmd.Flags().GetFloat64("score")
			input.LastScore = &score
		}
		return runWithApp(cmd, func(ctx context.Context, c *app.Container, userID string) error {
			word, err := c.Words.SaveWeakWord(ctx, userID, input)
			if err != nil {
				return fmt.Errorf("记录薄弱单词失败: %w", err)
			}
			return render(cmd.OutOrStdout(), word, weakWordHeader, [][]string{weakWordRow(*word, 0)})
		})
	},
}

var wordsRemoveCmd = &cobra.Command{
	Use:   "remove <word>",
	Short: "删除薄弱单词",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mastered, _ := cmd.Flags().GetBool("mastered")
		return runWithApp(cmd, func(ctx context.Context, c *app.Container, userID string) error {
			remove := c.Words.RemoveWeakWord
			if mastered {
				remove = c.Words.RemoveMastered
			}
			if err := remove(ctx, userID, args[0]); err != nil {
				return fmt.Errorf("删除单词失败: %w", err)
			}
			cmd.Printf("已删除: %s\n", args[0])
			return nil
		})
	},
}

var wordsMasterCmd = &cobra.Command{
	Use:   "master <word>",
	Short: "将薄弱单词标记为已掌握",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, c *app.Container, userID string) error {
			mastered, err := c.Words.MasterWord(ctx, userID, args[0])
			if err != nil {
				return fmt.Errorf("标记已掌握失败: %w", err)
			}
			return render(cmd.OutOrStdout(), mastered, masteredHeader, [][]string{masteredRow(*mastered, 0)})
		})
	},
}

var wordsPracticeCmd = &cobra.Command{
	Use:   "practice <word> <score>",
	Short: "记录一次单词练习成绩",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("解析分数失败: %w", err)
		}
		return runWithApp(cmd, func(ctx context.Context, c *app.Container, userID string) error {
			result, err := c.Words.PracticeWord(ctx, userID, args[0], score)
			if err != nil {
				return fmt.Errorf("记录练习失败: %w", err)
			}
			row := []string{result.Word.Word, formatScore(score), strconv.FormatBool(result.Passed), strconv.Itoa(result.Word.SuccessStreak), strconv.FormatBool(result.Mastered != nil)}
			return render(cmd.OutOrStdout(), result, []string{"Word", "Score", "Passed", "Streak", "Mastered"}, [][]string{row})
		})
	},
}

var wordsMasteredCmd = &cobra.Command{
	Use:   "mastered",
	Short: "列出已掌握单词 (最近掌握在前)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, c *app.Container, userID string) error {
			words, err := c.Words.ListMastered(ctx, userID)
			if err != nil {
				return fmt.Errorf("查询已掌握单词失败: %w", err)
			}
			return render(cmd.OutOrStdout(), words, masteredHeader, lo.Map(words, masteredRow))
		})
	},
}

var (
	weakWordHeader = []string{"Word", "Error Type", "Errors", "Last Score", "Streak", "Last Practiced"}
	masteredHeader = []string{"Word", "Error Type", "Final Errors", "Mastered At"}
)

func weakWordRow(w entity.WeakWord, _ int) []string {
	return []string{
		w.Word,
		string(w.ErrorType),
		strconv.Itoa(w.ErrorCount),
		formatScore(w.LastScore),
		strconv.Itoa(w.SuccessStreak),
		formatTime(&w.LastPracticed),
	}
}

func masteredRow(w entity.MasteredWord, _ int) []string {
	return []string{w.Word, string(w.ErrorType), strconv.Itoa(w.FinalErrorCount), formatTime(&w.MasteredAt)}
}

func init() {
	rootCmd.AddCommand(wordsCmd)
	wordsCmd.AddCommand(wordsListCmd, wordsAddCmd, wordsRemoveCmd, wordsMasterCmd, wordsPracticeCmd, wordsMasteredCmd)

	wordsListCmd.Flags().Bool("top", false, "仅显示错误最多的单词")
	wordsListCmd.Flags().IntP("limit", "n", 0, "最多显示条数 (--top 时默认 5)")

	wordsAddCmd.Flags().String("error-type", string(entity.ErrorTypeMispronunciation), "错误类型: mispronunciation|substitution|deletion|insertion")
	wordsAddCmd.Flags().Float64("score", 0, "本次发音得分 (0-100)")

	wordsRemoveCmd.Flags().Bool("mastered", false, "从已掌握列表中删除")
}
