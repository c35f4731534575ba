package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryCache(t *testing.T) {
	c, err := NewEntryCache(16, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	assert.True(t, c.Set("a", 3))
	c.Wait()
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = c.Get("b")
	assert.False(t, ok)

	hits, misses := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.InDelta(t, 0.5, c.HitRatio(), 1e-9)
}

func TestEntryCacheRejectsZeroSize(t *testing.T) {
	_, err := NewEntryCache(0, time.Minute)
	assert.Error(t, err)
}
