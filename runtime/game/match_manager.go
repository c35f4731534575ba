package game

import (
	"fmt"
	"sync"

	"riichienv/common/log"
)

// MatchManager 对局管理器
// 记录进行中的对局，供 Monitor 统计
type MatchManager struct {
	matches  map[string]*Match // matchID -> Match
	finished int
	hands    int64 // 已结束对局的局数合计
	mu       sync.RWMutex
}

func NewMatchManager() *MatchManager {
	return &MatchManager{
		matches: make(map[string]*Match),
	}
}

// Add 同一个 matchID 不能同时进行两次
func (mm *MatchManager) Add(m *Match) error {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	if _, exists := mm.matches[m.ID]; exists {
		return fmt.Errorf("对局已存在: %s", m.ID)
	}
	mm.matches[m.ID] = m
	return nil
}

func (mm *MatchManager) GetMatch(matchID string) (*Match, bool) {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	m, ok := mm.matches[matchID]
	return m, ok
}

// Remove 对局结束或中断后调用
func (mm *MatchManager) Remove(matchID string) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	m, ok := mm.matches[matchID]
	if !ok {
		log.Warn("MatchManager 删除不存在的对局: %s", matchID)
		return
	}
	delete(mm.matches, matchID)
	mm.finished++
	mm.hands += m.HandsPlayed()
}

// GetStats 进行中对局数、已结束对局数、累计完成局数（含进行中的对局）
func (mm *MatchManager) GetStats() (active, finished int, hands int64) {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	hands = mm.hands
	for _, m := range mm.matches {
		hands += m.HandsPlayed()
	}
	return len(mm.matches), mm.finished, hands
}
