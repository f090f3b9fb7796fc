package utils_test

import (
	"testing"
	"time"

	"tracker/src/utils"

	"github.com/stretchr/testify/assert"
)

func TestCache(t *testing.T) {
	t.Run("get returns a fresh value", func(t *testing.T) {
		cache := utils.NewCache[string]()
		cache.Set("hello", time.Minute)

		value, ok := cache.Get()
		assert.True(t, ok)
		assert.Equal(t, "hello", value)
	})

	t.Run("empty cache misses", func(t *testing.T) {
		cache := utils.NewCache[string]()

		_, ok := cache.Get()
		assert.False(t, ok)

		_, ok = cache.Stale()
		assert.False(t, ok)
	})

	t.Run("expired value misses but stays stale-readable", func(t *testing.T) {
		cache := utils.NewCache[int]()
		cache.Set(42, -time.Second)

		_, ok := cache.Get()
		assert.False(t, ok)

		value, ok := cache.Stale()
		assert.True(t, ok)
		assert.Equal(t, 42, value)
	})

	t.Run("cached at tracks the last set", func(t *testing.T) {
		cache := utils.NewCache[int]()

		_, ok := cache.CachedAt()
		assert.False(t, ok)

		cache.Set(1, time.Minute)
		cachedAt, ok := cache.CachedAt()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now(), cachedAt, time.Second)
	})

	t.Run("clear drops the value entirely", func(t *testing.T) {
		cache := utils.NewCache[int]()
		cache.Set(42, time.Minute)
		cache.Clear()

		_, ok := cache.Get()
		assert.False(t, ok)
		_, ok = cache.Stale()
		assert.False(t, ok)
	})

	t.Run("set overwrites", func(t *testing.T) {
		cache := utils.NewCache[int]()
		cache.Set(1, time.Minute)
		cache.Set(2, time.Minute)

		value, ok := cache.Get()
		assert.True(t, ok)
		assert.Equal(t, 2, value)
	})
}
