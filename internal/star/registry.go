package star

import (
	"slices"
	"time"

	"github.com/starinfo/extension/internal/queue"
	"github.com/starinfo/extension/pkg/core"
)

// RemovalReason says why the sweep dropped a star.
type RemovalReason string

const (
	RemovedDespawned  RemovalReason = "despawned"
	RemovedOutOfRange RemovalReason = "out_of_range"

	// RemovedReset is used by callers that drop the whole registry on a world change.
	RemovedReset RemovalReason = "reset"
)

// Removal is a star dropped by Sweep.
type Removal struct {
	Star   *Star
	Reason RemovalReason
}

// Registry holds the tracked stars, most recently spawned first.
// Index 0 is the promoted star. Stars only leave the registry through Sweep;
// object despawns are queued so an immediate respawn at the same tile keeps
// the same star.
//
// Registry is not safe for concurrent use; callers serialise access.
type Registry struct {
	stars   []*Star
	pending *queue.Queue[*Star]
	nextID  uint64
	now     func() time.Time
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		pending: queue.New[*Star](),
		now:     time.Now,
	}
}

// SetClock overrides the clock used to stamp new stars.
func (r *Registry) SetClock(now func() time.Time) {
	r.now = now
}

// Promoted returns the star at index 0, or nil if nothing is tracked.
func (r *Registry) Promoted() *Star {
	if len(r.stars) == 0 {
		return nil
	}
	return r.stars[0]
}

// Stars returns the tracked stars in promotion order.
func (r *Registry) Stars() []*Star {
	return slices.Clone(r.stars)
}

func (r *Registry) Len() int {
	return len(r.stars)
}

func (r *Registry) Empty() bool {
	return len(r.stars) == 0
}

// Find returns the star at location.
func (r *Registry) Find(location core.WorldPoint) (*Star, bool) {
	i := r.indexOf(location)
	if i < 0 {
		return nil, false
	}
	return r.stars[i], true
}

// Pending reports whether s is queued for removal on the next sweep.
func (r *Registry) Pending(s *Star) bool {
	return r.pending.Contains(s)
}

func (r *Registry) indexOf(location core.WorldPoint) int {
	return slices.IndexFunc(r.stars, func(s *Star) bool {
		return s.location == location
	})
}

func (r *Registry) newStar(location core.WorldPoint, world int) *Star {
	r.nextID++
	return &Star{
		id:        r.nextID,
		location:  location,
		world:     world,
		miners:    UnknownMiners,
		firstSeen: r.now(),
	}
}

func (r *Registry) promote(i int) {
	if i <= 0 {
		return
	}
	s := r.stars[i]
	copy(r.stars[1:i+1], r.stars[:i])
	r.stars[0] = s
}

// OnNPCSpawned attaches npc to the star on its tile, or starts tracking a new
// star that only has the NPC so far. The star's pending despawn is cancelled.
func (r *Registry) OnNPCSpawned(npc core.NPC, world int) *Star {
	if s, ok := r.Find(npc.Location); ok {
		s.setNPC(&npc)
		r.pending.Remove(s)
		return s
	}

	s := r.newStar(npc.Location, world)
	s.setNPC(&npc)
	r.stars = slices.Insert(r.stars, 0, s)
	return s
}

// OnNPCDespawned detaches the NPC from the star on its tile. The star stays
// tracked because its object may still be standing.
func (r *Registry) OnNPCDespawned(npc core.NPC) bool {
	s, ok := r.Find(npc.Location)
	if !ok {
		return false
	}
	s.setNPC(nil)
	return true
}

// UpdateNPCHealth refreshes the health reading of the attached NPC with the given index.
func (r *Registry) UpdateNPCHealth(index, ratio, scale int) bool {
	for _, s := range r.stars {
		if s.npc != nil && s.npc.Index == index {
			s.npc.HealthRatio = ratio
			s.npc.HealthScale = scale
			return true
		}
	}
	return false
}

// OnObjectSpawned tracks a star object. Objects that are not stars return
// (nil, false). A star already on the tile gets the new object, loses its
// pending despawn and is promoted; otherwise a new star is created at the
// front and created is true.
func (r *Registry) OnObjectSpawned(obj core.GameObject, world int) (s *Star, created bool) {
	if TierOf(obj.ID) < 0 {
		return nil, false
	}

	if i := r.indexOf(obj.Location); i >= 0 {
		s = r.stars[i]
		s.setObject(obj)
		r.pending.Remove(s)
		r.promote(i)
		return s, false
	}

	s = r.newStar(obj.Location, world)
	s.setObject(obj)
	r.stars = slices.Insert(r.stars, 0, s)
	return s, true
}

// OnObjectDespawned queues the star on the object's tile for removal.
// Nothing is removed until the next Sweep.
func (r *Registry) OnObjectDespawned(obj core.GameObject) bool {
	if TierOf(obj.ID) < 0 {
		return false
	}
	s, ok := r.Find(obj.Location)
	if !ok {
		return false
	}
	r.pending.Add(s)
	return true
}

// Sweep removes queued stars and stars more than maxDistance away according
// to distance. The pending queue is empty afterwards.
func (r *Registry) Sweep(distance func(core.WorldPoint) int, maxDistance int) []Removal {
	var removed []Removal
	kept := r.stars[:0]
	for _, s := range r.stars {
		switch {
		case r.pending.Contains(s):
			removed = append(removed, Removal{Star: s, Reason: RemovedDespawned})
		case distance(s.location) > maxDistance:
			removed = append(removed, Removal{Star: s, Reason: RemovedOutOfRange})
		default:
			kept = append(kept, s)
		}
	}
	clear(r.stars[len(kept):])
	r.stars = kept
	r.pending.Clear()
	return removed
}

// Reset forgets every star and pending despawn.
func (r *Registry) Reset() {
	r.stars = nil
	r.pending.Clear()
}
