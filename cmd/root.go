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
	"os"
	"strings"

	"github.com/eslsoft/speaktrack/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configKey = "config"
	userKey   = "user"
	formatKey = "format"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "speaktrack",
	Short: "记录口语练习进度: 薄弱单词、收藏短语与每周统计",
	Long: `speaktrack 跟踪学习者的口语练习进度。

它记录发音测评中的薄弱单词、收藏的短语及其练习成绩，
并按周汇总练习时长、掌握单词数和连续打卡天数。`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "配置文件路径 (默认查找 ./speaktrack.yaml)")
	rootCmd.PersistentFlags().StringP("user", "u", "", "学习者 ID (默认使用 app.default_user)")
	rootCmd.PersistentFlags().String("format", "table", "输出格式: table 或 json")

	bindFlagToViper(configKey, rootCmd.PersistentFlags().Lookup("config"))
	bindFlagToViper(userKey, rootCmd.PersistentFlags().Lookup("user"))
	bindFlagToViper(formatKey, rootCmd.PersistentFlags().Lookup("format"))
}

// runWithApp builds the container, resolves the learner and runs fn.
func runWithApp(cmd *cobra.Command, fn func(ctx context.Context, c *app.Container, userID string) error) error {
	c, cleanup, err := app.Initialize()
	if err != nil {
		return fmt.Errorf("初始化应用失败: %w", err)
	}
	defer cleanup()

	userID := strings.TrimSpace(viper.GetString(userKey))
	if userID == "" {
		userID = strings.TrimSpace(c.Config.App.DefaultUser)
	}
	if userID == "" {
		return fmt.Errorf("未指定学习者: 请使用 --user 或配置 app.default_user")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, c, userID)
}
