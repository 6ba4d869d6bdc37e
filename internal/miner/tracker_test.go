package miner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starinfo/extension/internal/cache"
	"github.com/starinfo/extension/internal/star"
	"github.com/starinfo/extension/pkg/core"
)

const (
	faceSouth = 0
	faceWest  = 512
	faceNorth = 1024
	faceEast  = 1536

	runePickaxe = 624
	idle        = -1
)

var site = core.WorldPoint{X: 3000, Y: 3000}

func at(dx, dy int) core.WorldPoint {
	return core.WorldPoint{X: site.X + dx, Y: site.Y + dy, Plane: site.Plane}
}

func miner(name string, loc core.WorldPoint, orientation, animation int) core.Player {
	return core.Player{
		Name:        name,
		Location:    loc,
		Orientation: orientation,
		Animation:   animation,
		HealthRatio: 30,
		HealthScale: 30,
	}
}

func tickWith(count int, players ...core.Player) core.Tick {
	observer := site
	return core.Tick{Count: count, Local: &observer, Players: players}
}

func TestIsMining(t *testing.T) {
	assert.True(t, IsMining(runePickaxe))
	assert.True(t, IsMining(8347))
	assert.False(t, IsMining(idle))
	assert.False(t, IsMining(808))

	w, ok := Weight(625)
	assert.True(t, ok)
	assert.Equal(t, 8.0, w)
	w, ok = Weight(4482)
	assert.True(t, ok)
	assert.InDelta(t, 2.833, w, 0.001)
}

func TestTracker_FacingGrid(t *testing.T) {
	tests := []struct {
		name        string
		offsetX     int
		offsetY     int
		orientation int
		counted     bool
	}{
		{"west side facing east", -1, 0, faceEast, true},
		{"west side facing west", -1, 0, faceWest, false},
		{"west side upper facing east", -1, 1, faceEast, true},
		{"east side facing west", 2, 1, faceWest, true},
		{"east side facing east", 2, 1, faceEast, false},
		{"south side facing north", 0, -1, faceNorth, true},
		{"south side facing south", 1, -1, faceSouth, false},
		{"north side facing south", 1, 2, faceSouth, true},
		{"north side facing north", 0, 2, faceNorth, false},
		{"level on x facing east", 0, 0, faceEast, false},
		{"level on y facing north", 0, 0, faceNorth, false},
		{"inside footprint facing south-west tile", 1, 1, faceWest, true},
		{"corner outside both bands", -1, -1, faceNorth, false},
		{"two tiles west", -2, 0, faceEast, false},
		{"three tiles north", 0, 3, faceSouth, false},
		{"rounded orientation counts as east", -1, 0, faceEast + 200, true},
		{"rounded orientation counts as north", -1, 0, faceEast - 300, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker(cache.NewActivityCache())
			p := miner("Zezima", at(tt.offsetX, tt.offsetY), tt.orientation, runePickaxe)

			n, ok := tr.Count(site, tickWith(1, p))
			require.True(t, ok)
			if tt.counted {
				assert.Equal(t, 1, n)
			} else {
				assert.Equal(t, 0, n)
			}
		})
	}
}

func TestTracker_ActivityWindow(t *testing.T) {
	c := cache.NewActivityCache()
	tr := NewTracker(c)
	loc := at(-1, 0)

	n, _ := tr.Count(site, tickWith(100, miner("Zezima", loc, faceEast, runePickaxe)))
	require.Equal(t, 1, n)

	resting := miner("Zezima", loc, faceEast, idle)

	n, _ = tr.Count(site, tickWith(112, resting))
	assert.Equal(t, 1, n, "still counted 12 ticks later")

	n, _ = tr.Count(site, tickWith(113, resting))
	assert.Equal(t, 0, n, "dropped 13 ticks later")
}

func TestTracker_IdleNeedsHealthReading(t *testing.T) {
	c := cache.NewActivityCache()
	c.Record("Zezima", 100)
	tr := NewTracker(c)

	p := miner("Zezima", at(-1, 0), faceEast, idle)
	p.HealthRatio = -1

	n, _ := tr.Count(site, tickWith(101, p))
	assert.Equal(t, 0, n)
}

func TestTracker_IdleWithoutHistory(t *testing.T) {
	tr := NewTracker(cache.NewActivityCache())

	n, ok := tr.Count(site, tickWith(5, miner("Zezima", at(-1, 0), faceEast, idle)))
	assert.True(t, ok)
	assert.Equal(t, 0, n)
}

func TestTracker_MiningRecordsActivity(t *testing.T) {
	c := cache.NewActivityCache()
	tr := NewTracker(c)

	tr.Count(site, tickWith(42,
		miner("Zezima", at(-1, 0), faceEast, runePickaxe),
		miner("Woox", at(-1, 0), faceWest, runePickaxe),
	))

	last, ok := c.Get("Zezima")
	assert.True(t, ok)
	assert.Equal(t, 42, last)

	_, ok = c.Get("Woox")
	assert.False(t, ok, "players not facing the star are not recorded")
}

func TestTracker_OutOfRange(t *testing.T) {
	tr := NewTracker(cache.NewActivityCache())
	s := trackedStar(t)

	far := at(15, 0)
	tick := core.Tick{
		Count:   1,
		Local:   &far,
		Players: []core.Player{miner("Zezima", at(-1, 0), faceEast, runePickaxe)},
	}

	assert.Equal(t, star.UnknownMiners, tr.Update(s, tick))
	assert.Equal(t, star.UnknownMiners, s.Miners())

	// 13 tiles from the far edge of the footprint is still in range
	edge := at(14, 0)
	tick.Local = &edge
	assert.Equal(t, "1", tr.Update(s, tick))

	other := core.WorldPoint{X: site.X, Y: site.Y, Plane: 1}
	tick.Local = &other
	assert.Equal(t, star.UnknownMiners, tr.Update(s, tick))
}

func TestTracker_NoObserver(t *testing.T) {
	tr := NewTracker(cache.NewActivityCache())
	s := trackedStar(t)
	s.SetMiners("3")

	assert.Equal(t, star.UnknownMiners, tr.Update(s, core.Tick{Count: 1}))
	assert.Equal(t, star.UnknownMiners, s.Miners())
	assert.Equal(t, star.UnknownMiners, tr.Update(nil, core.Tick{Count: 1}))
}

func TestTracker_UpdateCountsEveryMiner(t *testing.T) {
	tr := NewTracker(cache.NewActivityCache())
	s := trackedStar(t)

	miners := tr.Update(s, tickWith(7,
		miner("Zezima", at(-1, 0), faceEast, runePickaxe),
		miner("Woox", at(2, 1), faceWest, 626),
		miner("Lynx Titan", at(0, -1), faceNorth, 8347),
		miner("B0aty", at(5, 5), faceSouth, runePickaxe),
	))

	assert.Equal(t, "3", miners)
	assert.Equal(t, "3", s.Miners())
}

func TestTracker_Reset(t *testing.T) {
	c := cache.NewActivityCache()
	tr := NewTracker(c)
	c.Record("Zezima", 1)

	tr.Reset()

	assert.Equal(t, 0, c.Len())
}

func trackedStar(t *testing.T) *star.Star {
	t.Helper()
	r := star.NewRegistry()
	s, created := r.OnObjectSpawned(core.GameObject{ID: star.ObjectIDForTier(6), Location: site}, 301)
	require.True(t, created)
	return s
}
