// Package miner counts the players mining the promoted star.
package miner

import (
	"strconv"

	"github.com/starinfo/extension/internal/cache"
	"github.com/starinfo/extension/internal/geo"
	"github.com/starinfo/extension/internal/star"
	"github.com/starinfo/extension/pkg/core"
)

const (
	// DefaultWindow is how many ticks a player stays counted after their last
	// mining animation.
	DefaultWindow = 13
	// DefaultMaxDistance is the furthest the observer can be from a star's
	// footprint for the count to be trusted.
	DefaultMaxDistance = 13
)

// Tracker measures the miner count of a star on each tick.
type Tracker struct {
	cache       *cache.ActivityCache
	window      int
	maxDistance int
}

// NewTracker creates a Tracker backed by c.
func NewTracker(c *cache.ActivityCache) *Tracker {
	return &Tracker{
		cache:       c,
		window:      DefaultWindow,
		maxDistance: DefaultMaxDistance,
	}
}

// Footprint returns the 2x2 tile block a star occupies.
func Footprint(location core.WorldPoint) geo.Area {
	return geo.NewArea(location, 2, 2)
}

// bands returns the tiles a player can mine from: one band across the star
// widened by a tile on each side horizontally, and one widened vertically.
func bands(location core.WorldPoint) (geo.Area, geo.Area) {
	horizontal := geo.NewArea(location.DX(-1), 4, 2)
	vertical := geo.NewArea(location.DY(-1), 2, 4)
	return horizontal, vertical
}

// Count returns the number of players mining the star at location on tick,
// or false when the observer is missing or too far away to tell.
func (t *Tracker) Count(location core.WorldPoint, tick core.Tick) (int, bool) {
	if tick.Local == nil {
		return 0, false
	}
	if Footprint(location).DistanceTo(*tick.Local) > t.maxDistance {
		return 0, false
	}

	horizontal, vertical := bands(location)
	count := 0
	for _, p := range tick.Players {
		if !geo.InArea2D(p.Location, horizontal, vertical) {
			continue
		}
		if !geo.Facing(p.Location, p.Orientation, location) {
			continue
		}

		if IsMining(p.Animation) {
			t.cache.Record(p.Name, tick.Count)
			count++
			continue
		}

		if p.HealthRatio >= 0 && p.HealthScale > 0 && t.cache.ActiveWithin(p.Name, tick.Count, t.window) {
			count++
		}
	}
	return count, true
}

// Update measures s and stores the result as its miner count. The count is
// star.UnknownMiners when it cannot be measured.
func (t *Tracker) Update(s *star.Star, tick core.Tick) string {
	if s == nil {
		return star.UnknownMiners
	}
	miners := star.UnknownMiners
	if n, ok := t.Count(s.Location(), tick); ok {
		miners = strconv.Itoa(n)
	}
	s.SetMiners(miners)
	return miners
}

// Reset forgets every player's mining activity.
func (t *Tracker) Reset() {
	t.cache.Reset()
}
