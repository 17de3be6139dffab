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
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "学习进度总览",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, c *app.Container, userID string) error {
			p, err := c.Progress.Summary(ctx, userID)
			if err != nil {
				return fmt.Errorf("查询学习进度失败: %w", err)
			}
			rows := [][]string{
				{"weak_words", strconv.Itoa(p.Stats.TotalWeakWords)},
				{"total_errors", strconv.Itoa(p.Stats.TotalErrors)},
				{"saved_phrases", strconv.Itoa(p.Stats.TotalSavedPhrases)},
				{"sessions", strconv.Itoa(p.SessionCount)},
			}
			topics := lo.Keys(p.Stats.PhrasesByTopic)
			sort.Strings(topics)
			for _, topic := range topics {
				rows = append(rows, []string{"topic:" + topic, strconv.Itoa(p.Stats.PhrasesByTopic[topic])})
			}
			return render(cmd.OutOrStdout(), p, []string{"Metric", "Value"}, rows)
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "清空薄弱单词、收藏短语与练习次数",
	Long:  "清空学习者的薄弱单词、收藏短语与练习次数。已掌握单词、设置与每日目标会保留。",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("该操作不可恢复，请使用 --yes 确认")
		}
		return runWithApp(cmd, func(ctx context.Context, c *app.Container, userID string) error {
			if err := c.Progress.ClearUserData(ctx, userID); err != nil {
				return fmt.Errorf("清空数据失败: %w", err)
			}
			cmd.Printf("已清空学习者 %s 的进度数据\n", userID)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(progressCmd, clearCmd)
	clearCmd.Flags().Bool("yes", false, "确认清空")
}
