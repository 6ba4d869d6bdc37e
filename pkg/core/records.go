// pkg/core/records.go
package core

import "time"

// Session represents one recording session (plugin start to stop).
type Session struct {
	ID               string
	StartTime        time.Time
	World            int
	ExtensionVersion string
	Settings         map[string]any
}

// StarSighting is recorded when a star is first tracked.
type StarSighting struct {
	ID       uint
	StarID   uint64
	Time     time.Time
	Tick     int
	World    int
	Tier     int
	Location WorldPoint
	Site     string
}

// StarState is a per-tick sample of a tracked star.
// Miners is nil when the count could not be measured.
type StarState struct {
	StarID uint64
	Time   time.Time
	Tick   int
	Tier   int
	Health int
	Miners *int
}

// StarRemoval is recorded when the sweep drops a star.
type StarRemoval struct {
	StarID  uint64
	Time    time.Time
	Tick    int
	Reason  string
	Tracked time.Duration
}
