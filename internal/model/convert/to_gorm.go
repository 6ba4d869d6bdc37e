// Package convert provides functions to convert core records to GORM models
package convert

import (
	"database/sql"
	"time"

	"github.com/starinfo/extension/internal/model"
	"github.com/starinfo/extension/pkg/core"
	"gorm.io/datatypes"
)

// CoreToSession converts a core.Session to a GORM model.Session.
// settings is stored as-is in the JSON column; nil becomes an empty object.
func CoreToSession(s core.Session, settings map[string]any) model.Session {
	if settings == nil {
		settings = map[string]any{}
	}
	return model.Session{
		ID:               s.ID,
		StartTime:        s.StartTime,
		World:            s.World,
		ExtensionVersion: s.ExtensionVersion,
		Settings:         datatypes.JSONMap(settings),
	}
}

// CoreToStarSighting converts a core.StarSighting to a GORM model.StarSighting.
func CoreToStarSighting(sessionID string, s core.StarSighting) model.StarSighting {
	return model.StarSighting{
		SessionID: sessionID,
		StarID:    s.StarID,
		Time:      s.Time,
		Tick:      s.Tick,
		World:     s.World,
		Tier:      s.Tier,
		X:         s.Location.X,
		Y:         s.Location.Y,
		Plane:     s.Location.Plane,
		Site:      s.Site,
	}
}

// CoreToStarState converts a core.StarState to a GORM model.StarState.
func CoreToStarState(sessionID string, s core.StarState) model.StarState {
	var miners sql.NullInt32
	if s.Miners != nil {
		miners = sql.NullInt32{Int32: int32(*s.Miners), Valid: true}
	}
	return model.StarState{
		SessionID: sessionID,
		StarID:    s.StarID,
		Time:      s.Time,
		Tick:      s.Tick,
		Tier:      s.Tier,
		Health:    s.Health,
		Miners:    miners,
	}
}

// CoreToStarRemoval converts a core.StarRemoval to a GORM model.StarRemoval.
func CoreToStarRemoval(sessionID string, r core.StarRemoval) model.StarRemoval {
	return model.StarRemoval{
		SessionID:      sessionID,
		StarID:         r.StarID,
		Time:           r.Time,
		Tick:           r.Tick,
		Reason:         r.Reason,
		TrackedSeconds: r.Tracked.Seconds(),
	}
}

// EndTime wraps a session end time for the nullable column.
func EndTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
