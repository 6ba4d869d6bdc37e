package model

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []any{
	&ExtensionInfo{},
	&Session{},
	&StarSighting{},
	&StarState{},
	&StarRemoval{},
}

////////////////////////
// SYSTEM MODELS
////////////////////////

// ExtensionInfo records which extension build created the schema
type ExtensionInfo struct {
	gorm.Model
	Name    string `json:"name" gorm:"size:64"`
	Version string `json:"version" gorm:"size:32"`
}

func (*ExtensionInfo) TableName() string {
	return "extension_infos"
}

////////////////////////
// RECORDING MODELS
////////////////////////

// Session is one plugin run, start to stop
type Session struct {
	ID               string            `json:"id" gorm:"primaryKey;size:36"`
	StartTime        time.Time         `json:"startTime"`
	EndTime          sql.NullTime      `json:"endTime"`
	World            int               `json:"world" gorm:"index:idx_session_world"`
	ExtensionVersion string            `json:"extensionVersion" gorm:"size:32"`
	Settings         datatypes.JSONMap `json:"settings"` // star settings in effect when the session started
}

func (*Session) TableName() string {
	return "sessions"
}

// StarSighting is written once when a star enters the registry.
// Rows travel through comparable write queues, so no slice, map or JSON columns here.
type StarSighting struct {
	ID        uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	SessionID string    `json:"sessionId" gorm:"size:36;index:idx_starsighting_session_id"`
	StarID    uint64    `json:"starId" gorm:"index:idx_starsighting_star_id"`
	Time      time.Time `json:"time"`
	Tick      int       `json:"tick"`
	World     int       `json:"world" gorm:"index:idx_starsighting_world"`
	Tier      int       `json:"tier"`
	X         int       `json:"x"`
	Y         int       `json:"y"`
	Plane     int       `json:"plane"`
	Site      string    `json:"site" gorm:"size:127"`
}

func (*StarSighting) TableName() string {
	return "star_sightings"
}

// StarState is a per-tick sample of tier, health and miner count
type StarState struct {
	ID        uint          `json:"id" gorm:"primarykey;autoIncrement;"`
	SessionID string        `json:"sessionId" gorm:"size:36;index:idx_starstate_session_id"`
	StarID    uint64        `json:"starId" gorm:"index:idx_starstate_star_id"`
	Time      time.Time     `json:"time"`
	Tick      int           `json:"tick" gorm:"index:idx_starstate_tick"`
	Tier      int           `json:"tier"`
	Health    int           `json:"health"` // -1 when no NPC reading was available
	Miners    sql.NullInt32 `json:"miners"` // NULL when the count was unknown
}

func (*StarState) TableName() string {
	return "star_states"
}

// StarRemoval is written when the sweep drops a star
type StarRemoval struct {
	ID             uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	SessionID      string    `json:"sessionId" gorm:"size:36;index:idx_starremoval_session_id"`
	StarID         uint64    `json:"starId" gorm:"index:idx_starremoval_star_id"`
	Time           time.Time `json:"time"`
	Tick           int       `json:"tick"`
	Reason         string    `json:"reason" gorm:"size:32"`
	TrackedSeconds float64   `json:"trackedSeconds"`
}

func (*StarRemoval) TableName() string {
	return "star_removals"
}
