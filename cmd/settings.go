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
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "查看或修改练习设置",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "显示当前设置",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, c *app.Container, userID string) error {
			s, err := c.Settings.GetSettings(ctx, userID)
			if err != nil {
				return fmt.Errorf("读取设置失败: %w", err)
			}
			return renderSettings(cmd, s)
		})
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "修改设置，仅更新指定的字段",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch entity.SettingsPatch
		flags := cmd.Flags()
		if flags.Changed("threshold") {
			v, _ := flags.GetFloat64("threshold")
			patch.PronunciationThreshold = &v
		}
		if flags.Changed("auto-save") {
			v, _ := flags.GetBool("auto-save")
			patch.AutoSaveWeakWords = &v
		}
		if flags.Changed("mastered-threshold") {
			v, _ := flags.GetFloat64("mastered-threshold")
			patch.MasteredWordThreshold = &v
		}
		if flags.Changed("mastered-attempts") {
			v, _ := flags.GetInt("mastered-attempts")
			patch.MasteredWordAttempts = &v
		}
		return runWithApp(cmd, func(ctx context.Context, c *app.Container, userID string) error {
			s, err := c.Settings.UpdateSettings(ctx, userID, patch)
			if err != nil {
				return fmt.Errorf("更新设置失败: %w", err)
			}
			return renderSettings(cmd, s)
		})
	},
}

func renderSettings(cmd *cobra.Command, s entity.UserSettings) error {
	rows := [][]string{
		{"pronunciation_threshold", formatScore(s.PronunciationThreshold)},
		{"auto_save_weak_words", strconv.FormatBool(s.AutoSaveWeakWords)},
		{"mastered_word_threshold", formatScore(s.MasteredWordThreshold)},
		{"mastered_word_attempts", strconv.Itoa(s.MasteredWordAttempts)},
	}
	return render(cmd.OutOrStdout(), s, []string{"Setting", "Value"}, rows)
}

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "每日练习目标 (分钟)",
}

var goalShowCmd = &cobra.Command{
	Use:   "show",
	Short: "显示每日练习目标",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, c *app.Container, userID string) error {
			minutes, err := c.Settings.WeeklyGoal(ctx, userID)
			if err != nil {
				return fmt.Errorf("读取目标失败: %w", err)
			}
			return renderGoal(cmd, minutes)
		})
	},
}

var goalSetCmd = &cobra.Command{
	Use:   "set <minutes>",
	Short: "设置每日练习目标",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		minutes, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("解析分钟数失败: %w", err)
		}
		return runWithApp(cmd, func(ctx context.Context, c *app.Container, userID string) error {
			if err := c.Settings.SetWeeklyGoal(ctx, userID, minutes); err != nil {
				return fmt.Errorf("设置目标失败: %w", err)
			}
			return renderGoal(cmd, minutes)
		})
	},
}

func renderGoal(cmd *cobra.Command, minutes int) error {
	rows := [][]string{{strconv.Itoa(minutes), strconv.Itoa(minutes * 7)}}
	return render(cmd.OutOrStdout(), map[string]int{"minutes": minutes, "weekly_target": minutes * 7}, []string{"Daily Minutes", "Weekly Target"}, rows)
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "练习次数",
}

var sessionCountCmd = &cobra.Command{
	Use:   "count",
	Short: "显示累计练习次数",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, c *app.Container, userID string) error {
			count, err := c.Settings.SessionCount(ctx, userID)
			if err != nil {
				return fmt.Errorf("读取练习次数失败: %w", err)
			}
			return renderSessions(cmd, count)
		})
	},
}

var sessionIncrementCmd = &cobra.Command{
	Use:   "increment",
	Short: "记录一次新的练习",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, c *app.Container, userID string) error {
			count, err := c.Settings.IncrementSession(ctx, userID)
			if err != nil {
				return fmt.Errorf("记录练习失败: %w", err)
			}
			return renderSessions(cmd, count)
		})
	},
}

func renderSessions(cmd *cobra.Command, count int) error {
	return render(cmd.OutOrStdout(), map[string]int{"session_count": count}, []string{"Sessions"}, [][]string{{strconv.Itoa(count)}})
}

func init() {
	rootCmd.AddCommand(settingsCmd, goalCmd, sessionCmd)
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd)
	goalCmd.AddCommand(goalShowCmd, goalSetCmd)
	sessionCmd.AddCommand(sessionCountCmd, sessionIncrementCmd)

	settingsSetCmd.Flags().Float64("threshold", entity.DefaultPronunciationThreshold, "发音通过分数: 80|85|90")
	settingsSetCmd.Flags().Bool("auto-save", true, "自动记录测评中的薄弱单词")
	settingsSetCmd.Flags().Float64("mastered-threshold", entity.DefaultMasteredWordThreshold, "单词练习通过分数")
	settingsSetCmd.Flags().Int("mastered-attempts", entity.DefaultMasteredWordAttempts, "单词连续通过多少次后视为掌握")
}
