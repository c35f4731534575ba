package container

import (
	"context"
	"fmt"
	"sync"
	"time"

	"riichienv/common/config"
	"riichienv/common/log"
	"riichienv/core/domain/repository"
	"riichienv/core/infrastructure/cache"
	"riichienv/core/infrastructure/message/node"
	"riichienv/core/infrastructure/persistence"
	"riichienv/core/infrastructure/realtime"
	"riichienv/framework/game/engines/calculator"
)

// SelfplayContainer selfplay 服务的依赖，所有 worker 共享
// 计算器无状态可以共享，引擎每个 worker 各自创建
type SelfplayContainer struct {
	*BaseContainer
	CalcCache   *cache.CalculatorCache
	Searcher    *calculator.Searcher
	Calculator  *calculator.HandCalculator
	GameRecords repository.GameRecordRepository // 未开启记录时为 nil
	MatchStates repository.MatchStateRepository // 未开启进度保存时为 nil
	Publisher   *node.TrajectoryPublisher       // 未开启轨迹发布时为 nil

	closed bool
	mu     sync.Mutex
}

func NewSelfplayContainer(ctx context.Context, conf config.SelfplayConfiguration) (*SelfplayContainer, error) {
	wc := conf.WorkerConf
	base, err := NewBase(ctx, conf.DatabaseConf, wc.RecordGames, wc.CheckpointMatches)
	if err != nil {
		return nil, err
	}
	c := &SelfplayContainer{BaseContainer: base}

	if wc.CacheMaxCost > 0 {
		calcCache, err := cache.NewCalculatorCache(wc.CacheMaxCost, time.Duration(wc.CacheTTLSeconds)*time.Second)
		if err != nil {
			_ = base.Close()
			return nil, err
		}
		c.CalcCache = calcCache
		c.Searcher = calculator.NewSearcher(calcCache)
	} else {
		c.Searcher = calculator.NewSearcher(nil)
	}
	c.Calculator = calculator.NewHandCalculator(c.Searcher)

	if wc.RecordGames {
		c.GameRecords = persistence.NewGameRecordRepository(base.GetMongo())
	}
	if wc.CheckpointMatches {
		c.MatchStates = realtime.NewRedisMatchStateRepository(base.GetRedis())
	}
	if wc.PublishTrajectories {
		publisher := node.NewTrajectoryPublisher(node.NewNatsClient(conf.ID), 4096)
		if err := publisher.Run(conf.NatsConfig.URL); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("nats 初始化失败: %w", err)
		}
		c.Publisher = publisher
	}
	return c, nil
}

func (c *SelfplayContainer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	if c.Publisher != nil {
		c.Publisher.Close()
	}
	if c.CalcCache != nil {
		c.CalcCache.Close()
	}
	log.Info("selfplay 容器已关闭")
	return c.BaseContainer.Close()
}
