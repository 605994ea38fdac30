package storage

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func setupTest(_ *testing.T) (*Engine, *fakeClock) {
	clock := newFakeClock()
	return NewEngine(WithClock(clock.Now)), clock
}

func TestEngine(t *testing.T) {
	t.Run("NewEngine", func(t *testing.T) {
		engine := NewEngine()
		assert.NotNil(t, engine)
		assert.NotNil(t, engine.data)
		assert.Zero(t, engine.Len())
	})

	t.Run("Set and Get operations", func(t *testing.T) {
		engine, _ := setupTest(t)

		engine.Set("key1", "value1")

		value, exists := engine.Get("key1")
		assert.True(t, exists)
		assert.Equal(t, "value1", value)

		// Ключ, который никогда не записывался
		value, exists = engine.Get("nonexistent")
		assert.False(t, exists)
		assert.Empty(t, value)
	})

	t.Run("Set without TTL never expires", func(t *testing.T) {
		engine, clock := setupTest(t)

		engine.Set("key1", "value1")
		clock.Advance(100 * 365 * 24 * time.Hour)

		value, exists := engine.Get("key1")
		assert.True(t, exists)
		assert.Equal(t, "value1", value)
	})

	t.Run("Set overwrites", func(t *testing.T) {
		engine, _ := setupTest(t)

		engine.Set("key1", "value1")
		engine.Set("key1", "value2")

		value, exists := engine.Get("key1")
		assert.True(t, exists)
		assert.Equal(t, "value2", value)
	})

	t.Run("TTL expiry is strict", func(t *testing.T) {
		engine, clock := setupTest(t)

		engine.SetWithTTL("key1", "value1", 50*time.Millisecond)

		value, exists := engine.Get("key1")
		assert.True(t, exists)
		assert.Equal(t, "value1", value)

		// Ровно в момент истечения ключ ещё жив
		clock.Advance(50 * time.Millisecond)
		_, exists = engine.Get("key1")
		assert.True(t, exists)

		clock.Advance(time.Nanosecond)
		value, exists = engine.Get("key1")
		assert.False(t, exists)
		assert.Empty(t, value)
	})

	t.Run("zero TTL is live at write time", func(t *testing.T) {
		engine, clock := setupTest(t)

		engine.SetWithTTL("key1", "value1", 0)
		_, exists := engine.Get("key1")
		assert.True(t, exists)

		clock.Advance(time.Millisecond)
		_, exists = engine.Get("key1")
		assert.False(t, exists)
	})

	t.Run("Get does not evict expired entries", func(t *testing.T) {
		engine, clock := setupTest(t)

		engine.SetWithTTL("key1", "value1", time.Millisecond)
		clock.Advance(time.Second)

		_, exists := engine.Get("key1")
		assert.False(t, exists)
		assert.Equal(t, 1, engine.Len())
	})

	t.Run("overwrite discards previous expiry", func(t *testing.T) {
		engine, clock := setupTest(t)

		engine.SetWithTTL("key1", "value1", time.Millisecond)
		engine.Set("key1", "value2")
		clock.Advance(time.Hour)

		value, exists := engine.Get("key1")
		assert.True(t, exists)
		assert.Equal(t, "value2", value)

		engine.SetWithTTL("key1", "value3", time.Minute)
		clock.Advance(30 * time.Second)
		engine.SetWithTTL("key1", "value4", time.Minute)
		clock.Advance(45 * time.Second)

		value, exists = engine.Get("key1")
		assert.True(t, exists)
		assert.Equal(t, "value4", value)
	})

	t.Run("expiry uses real time by default", func(t *testing.T) {
		engine := NewEngine()

		engine.SetWithTTL("key1", "value1", 20*time.Millisecond)
		_, exists := engine.Get("key1")
		require.True(t, exists)

		assert.Eventually(t, func() bool {
			_, exists := engine.Get("key1")
			return !exists
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("Concurrent operations", func(t *testing.T) {
		engine := NewEngine()

		var wg sync.WaitGroup
		const iterations = 100

		for w := 0; w < 2; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				value := fmt.Sprintf("value%d", w)
				for i := 0; i < iterations; i++ {
					engine.Set("key", value)
					engine.Get("key")
				}
			}(w)
		}

		wg.Wait()

		// Значение должно быть одним из записанных и стабильным
		value, exists := engine.Get("key")
		require.True(t, exists)
		assert.Contains(t, []string{"value0", "value1"}, value)

		again, _ := engine.Get("key")
		assert.Equal(t, value, again)
	})
}
