package cache

import (
	"fmt"
	"time"

	"riichienv/common/cache"
	"riichienv/framework/game/engines/calculator"
)

// CalculatorCache 向听/听牌/和牌判定结果缓存，所有 worker 共享一个实例
type CalculatorCache struct {
	cache  *cache.EntryCache
	prefix string
}

// NewCalculatorCache maxCost 按条目计数，ttl 为 0 时不过期
func NewCalculatorCache(maxCost int64, ttl time.Duration) (*CalculatorCache, error) {
	entryCache, err := cache.NewEntryCache(maxCost, ttl)
	if err != nil {
		return nil, fmt.Errorf("创建计算缓存失败: %w", err)
	}
	return &CalculatorCache{cache: entryCache, prefix: "calc:"}, nil
}

func (c *CalculatorCache) Get(key string) (interface{}, bool) {
	return c.cache.Get(c.prefix + key)
}

// Set 搜索结果只有 []TileType、bool、int 三种，其余类型拒绝写入
func (c *CalculatorCache) Set(key string, value interface{}) bool {
	switch value.(type) {
	case []calculator.TileType, bool, int:
		return c.cache.Set(c.prefix+key, value)
	default:
		return false
	}
}

func (c *CalculatorCache) Stats() (hits, misses uint64) {
	return c.cache.Stats()
}

// HitRatio 没有查询时返回 0
func (c *CalculatorCache) HitRatio() float64 {
	return c.cache.HitRatio()
}

// Wait 等待异步写入生效
func (c *CalculatorCache) Wait() {
	c.cache.Wait()
}

func (c *CalculatorCache) Close() {
	c.cache.Close()
}
