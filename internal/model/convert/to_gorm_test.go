package convert

import (
	"testing"
	"time"

	"github.com/starinfo/extension/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestCoreToSession(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := core.Session{ID: "abc", StartTime: start, World: 301, ExtensionVersion: "1.2.0"}

	got := CoreToSession(s, map[string]any{"showMiners": true})
	assert.Equal(t, "abc", got.ID)
	assert.Equal(t, start, got.StartTime)
	assert.Equal(t, 301, got.World)
	assert.Equal(t, "1.2.0", got.ExtensionVersion)
	assert.Equal(t, true, got.Settings["showMiners"])
	assert.False(t, got.EndTime.Valid)

	empty := CoreToSession(s, nil)
	assert.NotNil(t, empty.Settings)
	assert.Empty(t, empty.Settings)
}

func TestCoreToStarSighting(t *testing.T) {
	now := time.Now()
	got := CoreToStarSighting("sess", core.StarSighting{
		StarID:   7,
		Time:     now,
		Tick:     42,
		World:    301,
		Tier:     6,
		Location: core.WorldPoint{X: 3200, Y: 3200, Plane: 0},
		Site:     "Varrock east bank",
	})

	assert.Equal(t, "sess", got.SessionID)
	assert.Equal(t, uint64(7), got.StarID)
	assert.Equal(t, 42, got.Tick)
	assert.Equal(t, 6, got.Tier)
	assert.Equal(t, 3200, got.X)
	assert.Equal(t, 3200, got.Y)
	assert.Equal(t, 0, got.Plane)
	assert.Equal(t, "Varrock east bank", got.Site)
}

func TestCoreToStarState(t *testing.T) {
	t.Run("known miners", func(t *testing.T) {
		n := 3
		got := CoreToStarState("sess", core.StarState{StarID: 1, Tick: 9, Tier: 4, Health: 75, Miners: &n})
		assert.True(t, got.Miners.Valid)
		assert.Equal(t, int32(3), got.Miners.Int32)
		assert.Equal(t, 75, got.Health)
	})

	t.Run("unknown miners", func(t *testing.T) {
		got := CoreToStarState("sess", core.StarState{StarID: 1, Tick: 9, Tier: 4, Health: -1})
		assert.False(t, got.Miners.Valid)
		assert.Equal(t, -1, got.Health)
	})
}

func TestCoreToStarRemoval(t *testing.T) {
	got := CoreToStarRemoval("sess", core.StarRemoval{
		StarID:  2,
		Tick:    100,
		Reason:  "despawned",
		Tracked: 90 * time.Second,
	})
	assert.Equal(t, "despawned", got.Reason)
	assert.InDelta(t, 90.0, got.TrackedSeconds, 0.001)
}

func TestEndTime(t *testing.T) {
	assert.False(t, EndTime(time.Time{}).Valid)
	now := time.Now()
	got := EndTime(now)
	assert.True(t, got.Valid)
	assert.Equal(t, now, got.Time)
}
