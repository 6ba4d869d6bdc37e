package influx

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/starinfo/extension/internal/storage"
	"github.com/starinfo/extension/pkg/core"
)

// Measurement names
const (
	MeasurementSighting = "star_sighting"
	MeasurementState    = "star_state"
	MeasurementRemoval  = "star_removal"
	MeasurementSession  = "star_session"
)

// Backend records star history as InfluxDB points.
type Backend struct {
	m *Manager

	mu      sync.Mutex
	session *core.Session
	worlds  map[uint64]int // star ID -> world, for state and removal tags
}

// NewBackend wraps a manager. Connect is called from Init.
func NewBackend(m *Manager) *Backend {
	return &Backend{m: m, worlds: make(map[uint64]int)}
}

// Init connects to the server or falls back to the backup file.
func (b *Backend) Init() error {
	return b.m.Connect(context.Background())
}

// Close flushes and closes the manager.
func (b *Backend) Close() error {
	return b.m.Close()
}

// StartSession writes a session start marker.
func (b *Backend) StartSession(s *core.Session) error {
	b.mu.Lock()
	b.session = s
	b.worlds = make(map[uint64]int)
	b.mu.Unlock()

	p := influxdb2_write.NewPointWithMeasurement(MeasurementSession).
		AddTag("session", s.ID).
		AddTag("world", strconv.Itoa(s.World)).
		AddField("event", "start").
		AddField("version", s.ExtensionVersion).
		SetTime(s.StartTime)
	return b.m.WritePoint(p)
}

// EndSession writes a session end marker and flushes.
func (b *Backend) EndSession() error {
	b.mu.Lock()
	s := b.session
	b.session = nil
	b.mu.Unlock()

	if s == nil {
		return storage.ErrNoSession
	}

	p := influxdb2_write.NewPointWithMeasurement(MeasurementSession).
		AddTag("session", s.ID).
		AddTag("world", strconv.Itoa(s.World)).
		AddField("event", "end")
	return errors.Join(b.m.WritePoint(p), b.m.Flush())
}

// AddStar writes a sighting point.
func (b *Backend) AddStar(s *core.StarSighting) error {
	sessionID, err := b.remember(s.StarID, s.World)
	if err != nil {
		return err
	}

	p := influxdb2_write.NewPointWithMeasurement(MeasurementSighting).
		AddTag("session", sessionID).
		AddTag("world", strconv.Itoa(s.World)).
		AddTag("tier", strconv.Itoa(s.Tier)).
		AddField("star_id", s.StarID).
		AddField("x", s.Location.X).
		AddField("y", s.Location.Y).
		AddField("plane", s.Location.Plane).
		AddField("tick", s.Tick).
		SetTime(s.Time)
	if s.Site != "" {
		p.AddField("site", s.Site)
	}
	return b.m.WritePoint(p)
}

// RecordStarState writes a state point. The miners field is omitted when unknown.
func (b *Backend) RecordStarState(s *core.StarState) error {
	sessionID, world, err := b.lookup(s.StarID)
	if err != nil {
		return err
	}

	p := influxdb2_write.NewPointWithMeasurement(MeasurementState).
		AddTag("session", sessionID).
		AddTag("world", strconv.Itoa(world)).
		AddTag("star_id", strconv.FormatUint(s.StarID, 10)).
		AddField("tier", s.Tier).
		AddField("health", s.Health).
		AddField("tick", s.Tick).
		SetTime(s.Time)
	if s.Miners != nil {
		p.AddField("miners", *s.Miners)
	}
	return b.m.WritePoint(p)
}

// RecordStarRemoval writes a removal point.
func (b *Backend) RecordStarRemoval(r *core.StarRemoval) error {
	sessionID, world, err := b.lookup(r.StarID)
	if err != nil {
		return err
	}

	b.mu.Lock()
	delete(b.worlds, r.StarID)
	b.mu.Unlock()

	p := influxdb2_write.NewPointWithMeasurement(MeasurementRemoval).
		AddTag("session", sessionID).
		AddTag("world", strconv.Itoa(world)).
		AddTag("reason", r.Reason).
		AddField("star_id", r.StarID).
		AddField("tick", r.Tick).
		AddField("tracked_seconds", r.Tracked.Seconds()).
		SetTime(r.Time)
	return b.m.WritePoint(p)
}

func (b *Backend) remember(starID uint64, world int) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil {
		return "", storage.ErrNoSession
	}
	b.worlds[starID] = world
	return b.session.ID, nil
}

func (b *Backend) lookup(starID uint64) (string, int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil {
		return "", 0, storage.ErrNoSession
	}
	world, ok := b.worlds[starID]
	if !ok {
		return "", 0, fmt.Errorf("star %d not recorded", starID)
	}
	return b.session.ID, world, nil
}
