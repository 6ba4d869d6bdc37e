// Package geo holds the tile geometry used to relate players to a star:
// rectangular tile areas, Chebyshev distances and facing tests.
package geo

import (
	"math"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/starinfo/extension/pkg/core"
)

// Unreachable is the distance reported between points on different planes.
const Unreachable = math.MaxInt32

// Area is an axis-aligned block of tiles anchored at its south-west corner.
type Area struct {
	X      int
	Y      int
	Width  int
	Height int
	Plane  int
}

// NewArea creates an area of width x height tiles starting at origin.
func NewArea(origin core.WorldPoint, width, height int) Area {
	return Area{
		X:      origin.X,
		Y:      origin.Y,
		Width:  width,
		Height: height,
		Plane:  origin.Plane,
	}
}

// envelope returns the area as a closed envelope over tile coordinates.
// The max corner is the last tile inside the area, so Contains is inclusive.
func (a Area) envelope() (geom.Envelope, error) {
	return geom.NewEnvelope([]geom.XY{
		{X: float64(a.X), Y: float64(a.Y)},
		{X: float64(a.X + a.Width - 1), Y: float64(a.Y + a.Height - 1)},
	})
}

// Contains2D reports whether p lies inside the area, ignoring the plane.
func (a Area) Contains2D(p core.WorldPoint) bool {
	if a.Width <= 0 || a.Height <= 0 {
		return false
	}
	env, err := a.envelope()
	if err != nil {
		return false
	}
	return env.Contains(geom.XY{X: float64(p.X), Y: float64(p.Y)})
}

// DistanceTo returns the Chebyshev distance from p to the nearest tile of the area.
// Points inside the area are at distance 0.
func (a Area) DistanceTo(p core.WorldPoint) int {
	if a.Plane != p.Plane {
		return Unreachable
	}
	dx := axisGap(p.X, a.X, a.X+a.Width-1)
	dy := axisGap(p.Y, a.Y, a.Y+a.Height-1)
	return max(dx, dy)
}

func axisGap(v, lo, hi int) int {
	switch {
	case v < lo:
		return lo - v
	case v > hi:
		return v - hi
	default:
		return 0
	}
}

// InArea2D reports whether p is inside any of the given areas.
func InArea2D(p core.WorldPoint, areas ...Area) bool {
	for _, a := range areas {
		if a.Contains2D(p) {
			return true
		}
	}
	return false
}

// Distance returns the Chebyshev distance between two points.
func Distance(a, b core.WorldPoint) int {
	if a.Plane != b.Plane {
		return Unreachable
	}
	return max(abs(a.X-b.X), abs(a.Y-b.Y))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
