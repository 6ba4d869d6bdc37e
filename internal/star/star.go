// Package star tracks crashed stars reported by the host. A star is keyed by
// the tile it landed on; its scene object and its NPC arrive on separate
// event streams and are merged here.
package star

import (
	"time"

	"github.com/starinfo/extension/pkg/core"
)

// UnknownMiners is shown when the miner count cannot be measured.
const UnknownMiners = "?"

// Star is one tracked star. Location, tier (once set) and world never change.
type Star struct {
	id        uint64
	location  core.WorldPoint
	tier      int
	world     int
	npc       *core.NPC
	object    *core.GameObject
	miners    string
	firstSeen time.Time
}

// ID is unique per registry and identifies this star instance.
func (s *Star) ID() uint64 { return s.id }

func (s *Star) Location() core.WorldPoint { return s.location }

// Tier is 1-9, or 0 while only the NPC has been seen.
func (s *Star) Tier() int { return s.tier }

func (s *Star) World() int { return s.world }

// NPC returns the attached NPC, or nil while it is not spawned.
func (s *Star) NPC() *core.NPC { return s.npc }

// Object returns the scene object backing the star, or nil if only the NPC was seen.
func (s *Star) Object() *core.GameObject { return s.object }

func (s *Star) Miners() string { return s.miners }

// SetMiners stores the latest miner count, or UnknownMiners.
func (s *Star) SetMiners(miners string) { s.miners = miners }

func (s *Star) FirstSeen() time.Time { return s.firstSeen }

// Health returns the NPC health in percent, or -1 without a valid reading.
func (s *Star) Health() int {
	if !s.npc.HasHealth() {
		return -1
	}
	return 100 * s.npc.HealthRatio / s.npc.HealthScale
}

func (s *Star) setObject(obj core.GameObject) {
	s.object = &obj
	if s.tier <= 0 {
		s.tier = TierOf(obj.ID)
	}
}

func (s *Star) setNPC(npc *core.NPC) {
	s.npc = npc
}
