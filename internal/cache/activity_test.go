package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityCache_NewActivityCache(t *testing.T) {
	cache := NewActivityCache()

	require.NotNil(t, cache)
	assert.NotNil(t, cache.lastSeen)
	assert.Equal(t, 0, cache.Len())
}

func TestActivityCache_RecordAndGet(t *testing.T) {
	cache := NewActivityCache()

	cache.Record("Zezima", 120)

	tick, ok := cache.Get("Zezima")
	require.True(t, ok, "expected to find Zezima")
	assert.Equal(t, 120, tick)
}

func TestActivityCache_Get_NotFound(t *testing.T) {
	cache := NewActivityCache()

	_, ok := cache.Get("nobody")
	assert.False(t, ok, "expected not to find nobody")
}

func TestActivityCache_RecordOverwrites(t *testing.T) {
	cache := NewActivityCache()

	cache.Record("miner", 10)
	cache.Record("miner", 25)

	tick, _ := cache.Get("miner")
	assert.Equal(t, 25, tick)
	assert.Equal(t, 1, cache.Len())
}

func TestActivityCache_ActiveWithin(t *testing.T) {
	cache := NewActivityCache()
	cache.Record("miner", 100)

	tests := []struct {
		tick int
		want bool
	}{
		{100, true},
		{105, true},
		{112, true},
		{113, false},
		{200, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("tick %d", tt.tick), func(t *testing.T) {
			assert.Equal(t, tt.want, cache.ActiveWithin("miner", tt.tick, 13))
		})
	}

	assert.False(t, cache.ActiveWithin("stranger", 100, 13))
}

func TestActivityCache_Reset(t *testing.T) {
	cache := NewActivityCache()

	cache.Record("a", 1)
	cache.Record("b", 2)
	assert.Equal(t, 2, cache.Len())

	cache.Reset()
	assert.Equal(t, 0, cache.Len())

	// Verify we can still record after reset
	cache.Record("c", 3)
	_, ok := cache.Get("c")
	assert.True(t, ok, "expected to find entry recorded after reset")
}

func TestActivityCache_Concurrent(t *testing.T) {
	cache := NewActivityCache()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			cache.Record(fmt.Sprintf("player%d", n), n)
		}(i)
		go func(n int) {
			defer wg.Done()
			cache.ActiveWithin(fmt.Sprintf("player%d", n), n, 13)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, cache.Len())
}
