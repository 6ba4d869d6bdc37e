// pkg/core/types.go
package core

import "fmt"

// WorldPoint is a tile coordinate in the game world.
type WorldPoint struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Plane int `json:"plane"`
}

// DX returns the point shifted by dx tiles along the X axis.
func (p WorldPoint) DX(dx int) WorldPoint {
	return WorldPoint{X: p.X + dx, Y: p.Y, Plane: p.Plane}
}

// DY returns the point shifted by dy tiles along the Y axis.
func (p WorldPoint) DY(dy int) WorldPoint {
	return WorldPoint{X: p.X, Y: p.Y + dy, Plane: p.Plane}
}

func (p WorldPoint) String() string {
	return fmt.Sprintf("%d, %d, %d", p.X, p.Y, p.Plane)
}

// GameObject is a static scene object reported by the host.
type GameObject struct {
	ID       int
	Location WorldPoint
}

// NPC is a non-player actor reported by the host.
// HealthRatio is negative while the host has no health bar reading.
type NPC struct {
	ID          int
	Index       int
	Location    WorldPoint
	HealthRatio int
	HealthScale int
}

// HasHealth reports whether the NPC carries a usable health reading.
func (n *NPC) HasHealth() bool {
	return n != nil && n.HealthRatio >= 0 && n.HealthScale > 0
}

// Player is a snapshot of a visible player taken on a tick.
type Player struct {
	Name        string
	Location    WorldPoint
	Orientation int
	Animation   int
	HealthRatio int
	HealthScale int
}

// Tick is the per-tick view of the world pushed by the host.
// Local is nil when the host could not resolve the local player.
type Tick struct {
	Count   int
	Local   *WorldPoint
	Players []Player
}

// GameState mirrors the host client's connection state.
type GameState string

const (
	GameStateUnknown     GameState = "UNKNOWN"
	GameStateLoginScreen GameState = "LOGIN_SCREEN"
	GameStateLoggingIn   GameState = "LOGGING_IN"
	GameStateLoading     GameState = "LOADING"
	GameStateLoggedIn    GameState = "LOGGED_IN"
	GameStateHopping     GameState = "HOPPING"
)

// IsWorldTransition reports whether entering this state invalidates all
// location-keyed state.
func (s GameState) IsWorldTransition() bool {
	return s == GameStateHopping || s == GameStateLoggingIn
}
