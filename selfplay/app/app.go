package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"riichienv/common/config"
	"riichienv/common/log"
	"riichienv/core/container"
	"riichienv/runtime/game"
)

// Run 构建容器并启动 worker，对局全部结束或收到退出信号后返回
func Run(ctx context.Context, configFile string) error {
	conf := config.SelfplayConfig
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	selfplayContainer, err := container.NewSelfplayContainer(ctx, conf)
	if err != nil {
		log.Error("selfplay 容器初始化失败: %v", err)
		return err
	}
	defer func() {
		if err := selfplayContainer.Close(); err != nil {
			log.Error("关闭 selfplay 容器失败: %v", err)
		}
	}()

	config.Watch(configFile, func(c config.SelfplayConfiguration) {
		log.SetLevel(c.LogConf.Level)
		log.Info("配置文件变更，日志级别: %s", c.LogConf.Level)
	})

	deps := game.Deps{
		Evaluator:   selfplayContainer.Calculator,
		Searcher:    selfplayContainer.Searcher,
		GameRecords: selfplayContainer.GameRecords,
		MatchStates: selfplayContainer.MatchStates,
	}
	if selfplayContainer.Publisher != nil {
		deps.Publisher = selfplayContainer.Publisher
	}
	if selfplayContainer.CalcCache != nil {
		deps.HitRatio = selfplayContainer.CalcCache.HitRatio
	}
	worker := game.NewWorker(conf.ID, conf.WorkerConf, game.EngineOptions(conf), deps)

	done := make(chan error, 1)
	go func() {
		done <- worker.Start(ctx)
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGHUP)
	defer signal.Stop(c)
	for {
		select {
		case err := <-done:
			log.Info("selfplay 对局全部完成")
			return err
		case s := <-c:
			log.Info("收到信号 %v，等待进行中的对局在局间停下...", s)
			cancel()
			select {
			case err := <-done:
				log.Info("selfplay 服务已停止")
				return err
			case <-time.After(30 * time.Second):
				log.Warn("等待对局停止超时（30秒），强制退出")
				return nil
			}
		}
	}
}
