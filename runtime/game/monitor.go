package game

import (
	"context"
	"sync"
	"time"

	"riichienv/common/log"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Monitor 监控器
// 定期收集对局吞吐和主机负载并写日志
type Monitor struct {
	matchManager   *MatchManager
	hitRatio       func() float64
	updateInterval time.Duration
	stopCh         chan struct{}
	stopOnce       sync.Once

	lastHands int64
	lastTime  time.Time
}

// NewMonitor 创建监控器
// hitRatio: 计算器缓存命中率，可为空
// updateInterval: 更新间隔（建议 5-10 秒）
func NewMonitor(matchManager *MatchManager, hitRatio func() float64, updateInterval time.Duration) *Monitor {
	return &Monitor{
		matchManager:   matchManager,
		hitRatio:       hitRatio,
		updateInterval: updateInterval,
		stopCh:         make(chan struct{}),
		lastTime:       time.Now(),
	}
}

// Start 阻塞直到 ctx 取消或 Stop
func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Monitor 收到停止信号，退出监控")
			return
		case <-m.stopCh:
			log.Info("Monitor 收到停止信号，退出监控")
			return
		case <-ticker.C:
			m.reportLoad()
		}
	}
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
	})
}

func (m *Monitor) reportLoad() {
	li := m.collectLoadInfo(time.Now())
	log.Info("Monitor: Load=%.2f, Active=%d, Finished=%d, Hands/s=%.2f, CPU=%.2f%%, Mem=%.2f%%, CacheHit=%.3f",
		li.CalculateLoad(), li.ActiveMatches, li.FinishedMatches, li.HandsPerSecond, li.CPUUsage, li.MemUsage, li.CacheHitRatio)
}

func (m *Monitor) collectLoadInfo(now time.Time) *LoadInfo {
	active, finished, hands := m.matchManager.GetStats()

	var rate float64
	if elapsed := now.Sub(m.lastTime).Seconds(); elapsed > 0 {
		rate = float64(hands-m.lastHands) / elapsed
	}
	m.lastHands, m.lastTime = hands, now

	li := &LoadInfo{
		ActiveMatches:   active,
		FinishedMatches: finished,
		HandsPerSecond:  rate,
		CPUUsage:        m.getCPUUsage(),
		MemUsage:        m.getMemoryUsage(),
	}
	if m.hitRatio != nil {
		li.CacheHitRatio = m.hitRatio()
	}
	return li
}

// getCPUUsage 上次调用以来的整机 CPU 使用率
func (m *Monitor) getCPUUsage() float64 {
	percents, err := cpu.Percent(0, false)
	if err != nil || len(percents) == 0 {
		log.Debug("获取 CPU 使用率失败: %v", err)
		return 0.0
	}
	return percents[0]
}

func (m *Monitor) getMemoryUsage() float64 {
	vm, err := mem.VirtualMemory()
	if err != nil {
		log.Debug("获取内存使用率失败: %v", err)
		return 0.0
	}
	return vm.UsedPercent
}
