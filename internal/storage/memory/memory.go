// internal/storage/memory/memory.go
package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/starinfo/extension/internal/config"
	"github.com/starinfo/extension/internal/storage"
	"github.com/starinfo/extension/pkg/core"
)

// StarRecord groups a sighting with all its time-series data
type StarRecord struct {
	Sighting core.StarSighting
	States   []core.StarState
	Removal  *core.StarRemoval
}

// Backend stores session data in memory and exports to JSON
type Backend struct {
	cfg     config.MemoryConfig
	session *core.Session
	now     func() time.Time

	stars map[uint64]*StarRecord // keyed by star ID
	order []uint64               // sighting order

	idCounter      uint
	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:   cfg,
		now:   time.Now,
		stars: make(map[uint64]*StarRecord),
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartSession begins recording a new session and drops anything held from the last one
func (b *Backend) StartSession(s *core.Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.session = s
	b.stars = make(map[uint64]*StarRecord)
	b.order = nil
	b.idCounter = 0

	return nil
}

// EndSession exports the session data and forgets the session
func (b *Backend) EndSession() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		return storage.ErrNoSession
	}
	err := b.exportJSON(b.now())
	b.session = nil
	return err
}

// AddStar registers a sighting and assigns its ID
func (b *Backend) AddStar(s *core.StarSighting) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		return storage.ErrNoSession
	}
	if _, ok := b.stars[s.StarID]; ok {
		return fmt.Errorf("star %d already recorded", s.StarID)
	}

	b.idCounter++
	s.ID = b.idCounter

	b.stars[s.StarID] = &StarRecord{Sighting: *s}
	b.order = append(b.order, s.StarID)
	return nil
}

// RecordStarState appends a state sample to its star
func (b *Backend) RecordStarState(s *core.StarState) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	record, err := b.record(s.StarID)
	if err != nil {
		return err
	}
	record.States = append(record.States, *s)
	return nil
}

// RecordStarRemoval marks a star as removed
func (b *Backend) RecordStarRemoval(r *core.StarRemoval) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	record, err := b.record(r.StarID)
	if err != nil {
		return err
	}
	removal := *r
	record.Removal = &removal
	return nil
}

func (b *Backend) record(starID uint64) (*StarRecord, error) {
	if b.session == nil {
		return nil, storage.ErrNoSession
	}
	record, ok := b.stars[starID]
	if !ok {
		return nil, fmt.Errorf("star %d not recorded", starID)
	}
	return record, nil
}

// GetExportedFilePath returns the path of the last exported file
func (b *Backend) GetExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}

// Star returns a copy of the record for a star
func (b *Backend) Star(starID uint64) (StarRecord, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	record, ok := b.stars[starID]
	if !ok {
		return StarRecord{}, false
	}
	return *record, true
}
