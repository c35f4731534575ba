package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

// EntryCache 按条目计数的本地缓存，每个值成本为 1，maxEntries 即条目上限
type EntryCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewEntryCache ttl 为 0 表示不过期
func NewEntryCache(maxEntries int64, ttl time.Duration) (*EntryCache, error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("缓存条目上限必须大于 0: %d", maxEntries)
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        maxEntries * 10, // 计数器取条目数的 10 倍
		MaxCost:            maxEntries,
		BufferItems:        64,
		Metrics:            true,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 ristretto 缓存失败: %w", err)
	}
	return &EntryCache{cache: cache, ttl: ttl}, nil
}

func (c *EntryCache) Get(key string) (interface{}, bool) {
	return c.cache.Get(key)
}

// Set 异步写入，返回 false 表示被准入策略丢弃
func (c *EntryCache) Set(key string, value interface{}) bool {
	return c.cache.SetWithTTL(key, value, 1, c.ttl)
}

// Wait 等待写缓冲全部生效，写完马上要读时使用
func (c *EntryCache) Wait() {
	c.cache.Wait()
}

// Stats 命中统计来自 ristretto 自带的 Metrics
func (c *EntryCache) Stats() (hits, misses uint64) {
	return c.cache.Metrics.Hits(), c.cache.Metrics.Misses()
}

func (c *EntryCache) HitRatio() float64 {
	return c.cache.Metrics.Ratio()
}

func (c *EntryCache) Close() {
	c.cache.Close()
}

