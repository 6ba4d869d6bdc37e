package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/starinfo/extension/internal/logging"
	"github.com/starinfo/extension/internal/queue"
	"github.com/starinfo/extension/internal/storage"
	"github.com/starinfo/extension/pkg/core"
)

// DefaultInterval is the flush period used when none is configured.
const DefaultInterval = 5 * time.Second

// Dependencies holds all dependencies for the worker manager
type Dependencies struct {
	LogManager *logging.SlogManager
	Interval   time.Duration
}

// Manager buffers star records and hands them to the storage backend off the
// tick path. Records are written in sighting, state, removal order.
type Manager struct {
	deps    Dependencies
	backend storage.Backend

	sightings *queue.Queue[core.StarSighting]
	states    *queue.Queue[core.StarState]
	removals  *queue.Queue[core.StarRemoval]

	flushMu sync.Mutex
	cancel  context.CancelFunc
	done    sync.WaitGroup
}

// NewManager creates a new worker manager. A nil backend drops every record.
func NewManager(deps Dependencies, backend storage.Backend) *Manager {
	if deps.LogManager == nil {
		deps.LogManager = logging.NewSlogManager()
	}
	if deps.Interval <= 0 {
		deps.Interval = DefaultInterval
	}
	return &Manager{
		deps:      deps,
		backend:   backend,
		sightings: queue.New[core.StarSighting](),
		states:    queue.New[core.StarState](),
		removals:  queue.New[core.StarRemoval](),
	}
}

// DBWriteDurationProvider is an optional interface that backends can implement
// to expose their last DB write duration for monitoring.
type DBWriteDurationProvider interface {
	GetLastDBWriteDuration() time.Duration
}

// GetLastDBWriteDuration returns the duration of the last DB write cycle.
// Returns 0 if the backend doesn't support this metric.
func (m *Manager) GetLastDBWriteDuration() time.Duration {
	if p, ok := m.backend.(DBWriteDurationProvider); ok {
		return p.GetLastDBWriteDuration()
	}
	return 0
}

// Start runs the flush loop until ctx is cancelled or Close is called.
func (m *Manager) Start(ctx context.Context) {
	if m.backend == nil {
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)

	m.done.Add(1)
	go func() {
		defer m.done.Done()
		ticker := time.NewTicker(m.deps.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := m.Flush(); err != nil {
					m.deps.LogManager.WriteLog("worker:flush", err.Error(), "ERROR")
				}
			}
		}
	}()
}

// Close stops the flush loop and writes what is still buffered.
func (m *Manager) Close() error {
	if m.cancel != nil {
		m.cancel()
		m.done.Wait()
		m.cancel = nil
	}
	return m.Flush()
}

// Sighted buffers a new star.
func (m *Manager) Sighted(s core.StarSighting) {
	if m.backend != nil {
		m.sightings.Push(s)
	}
}

// State buffers a per-tick sample.
func (m *Manager) State(s core.StarState) {
	if m.backend != nil {
		m.states.Push(s)
	}
}

// Removed buffers a removal.
func (m *Manager) Removed(r core.StarRemoval) {
	if m.backend != nil {
		m.removals.Push(r)
	}
}

// Pending returns the number of buffered records.
func (m *Manager) Pending() int {
	return m.sightings.Len() + m.states.Len() + m.removals.Len()
}

// StartSession writes anything left from the previous session, then opens s.
func (m *Manager) StartSession(s *core.Session) error {
	if m.backend == nil {
		return nil
	}
	flushErr := m.Flush()
	return errors.Join(flushErr, m.backend.StartSession(s))
}

// EndSession writes the buffered records, then closes the session.
func (m *Manager) EndSession() error {
	if m.backend == nil {
		return nil
	}
	flushErr := m.Flush()
	return errors.Join(flushErr, m.backend.EndSession())
}

// Flush hands every buffered record to the backend. Records the backend
// rejects are logged and dropped.
func (m *Manager) Flush() error {
	if m.backend == nil {
		return nil
	}

	m.flushMu.Lock()
	defer m.flushMu.Unlock()

	var errs []error
	for _, s := range m.sightings.GetAndEmpty() {
		if err := m.backend.AddStar(&s); err != nil {
			errs = append(errs, fmt.Errorf("star %d sighting: %w", s.StarID, err))
		}
	}
	for _, s := range m.states.GetAndEmpty() {
		if err := m.backend.RecordStarState(&s); err != nil {
			errs = append(errs, fmt.Errorf("star %d state: %w", s.StarID, err))
		}
	}
	for _, r := range m.removals.GetAndEmpty() {
		if err := m.backend.RecordStarRemoval(&r); err != nil {
			errs = append(errs, fmt.Errorf("star %d removal: %w", r.StarID, err))
		}
	}
	return errors.Join(errs...)
}
