package main

import (
	"context"
	"fmt"
	"os"

	"riichienv/common/config"
	"riichienv/common/log"
	"riichienv/common/metrics"
	"riichienv/framework/game/engines/calculator"
	"riichienv/runtime/game/replay"
	"riichienv/selfplay/app"

	"github.com/spf13/cobra"
)

// 加载配置 -> 启动监控 -> 启动自对弈 worker

var (
	configFile string
	replayFile string
)

var rootCmd = &cobra.Command{
	Use:   "selfplay",
	Short: "selfplay 立直麻将自对弈",
	Long:  `selfplay 四人立直麻将自对弈环境，产出牌谱、轨迹和回放日志`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "启动自对弈",
	Run: func(cmd *cobra.Command, args []string) {
		if err := config.Load(configFile); err != nil {
			log.Fatal("文件配置发生错误：%v", err)
		}
		conf := config.SelfplayConfig
		log.InitLog(conf.ID, conf.LogConf.Level)
		log.Info("配置文件: %+v", conf)

		if conf.MetricPort > 0 {
			go func() {
				log.Info("启动监控..., URL: http://localhost:%d/debug/statsviz/", conf.MetricPort)
				if err := metrics.Serve(fmt.Sprintf("0.0.0.0:%d", conf.MetricPort)); err != nil {
					log.Error("监控服务退出: %v", err)
				}
			}()
		}

		if err := app.Run(context.Background(), configFile); err != nil {
			log.Error("发生异常: %v", err)
			os.Exit(-1)
		}
	},
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "重放回放日志并校验确定性",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := replay.Load(replayFile)
		if err != nil {
			return err
		}
		searcher := calculator.NewSearcher(nil)
		if err := replay.Verify(l, calculator.NewHandCalculator(searcher), searcher); err != nil {
			return err
		}
		log.Info("回放一致: matchID=%s, hands=%d", l.MatchID, len(l.Hands))
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&configFile, "configFile", "resource/selfplay.yml", "resource file")
	replayCmd.Flags().StringVar(&replayFile, "file", "", "replay log file")
	replayCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(runCmd, replayCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("error happen: %#v", err)
		os.Exit(1)
	}
}
