package geo

import "github.com/starinfo/extension/pkg/core"

// Direction is one of the four cardinal directions.
type Direction int

// Order follows the host's orientation wheel: 0 faces south and the angle
// grows clockwise through west, north and east.
const (
	South Direction = iota
	West
	North
	East
)

// orientationUnits is the number of orientation steps in a full turn.
const orientationUnits = 2048

func (d Direction) String() string {
	switch d {
	case South:
		return "south"
	case West:
		return "west"
	case North:
		return "north"
	case East:
		return "east"
	default:
		return "unknown"
	}
}

// NearestDirection rounds an orientation to the closest cardinal direction.
func NearestDirection(orientation int) Direction {
	angle := orientation % orientationUnits
	if angle < 0 {
		angle += orientationUnits
	}
	quarter := orientationUnits / 4
	return Direction(((angle + quarter/2) / quarter) % 4)
}

// Facing reports whether an actor at from, turned to orientation, faces target.
// Only the axis of the facing direction is checked and the comparison is strict,
// so a target level with the actor on that axis is not faced.
func Facing(from core.WorldPoint, orientation int, target core.WorldPoint) bool {
	dx := target.X - from.X
	dy := target.Y - from.Y
	switch NearestDirection(orientation) {
	case North:
		return dy > 0
	case South:
		return dy < 0
	case East:
		return dx > 0
	case West:
		return dx < 0
	}
	return false
}
