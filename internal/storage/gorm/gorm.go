// Package gormstorage implements the storage.Backend interface on top of GORM
// with internal queues and a background DB writer goroutine.
package gormstorage

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/starinfo/extension/internal/database"
	"github.com/starinfo/extension/internal/logging"
	"github.com/starinfo/extension/internal/model"
	"github.com/starinfo/extension/internal/model/convert"
	"github.com/starinfo/extension/internal/queue"
	"github.com/starinfo/extension/pkg/core"

	"gorm.io/gorm"
)

// DefaultWriteInterval is how often queued rows are written when none is configured.
const DefaultWriteInterval = 2 * time.Second

// Dependencies holds all dependencies for the GORM storage backend.
// A nil DB runs the backend in queue-only mode.
type Dependencies struct {
	DB            *gorm.DB
	LogManager    *logging.SlogManager
	Version       string
	WriteInterval time.Duration
}

// MaxRowAttempts is how many flushes may reject a row before it is dropped.
// Only flushes in which other rows of the same table were written count.
const MaxRowAttempts = 3

// queues holds all the write queues for batch DB insertion.
type queues struct {
	Sightings *queue.Queue[model.StarSighting]
	States    *queue.Queue[model.StarState]
	Removals  *queue.Queue[model.StarRemoval]

	sightingAttempts map[model.StarSighting]int
	stateAttempts    map[model.StarState]int
	removalAttempts  map[model.StarRemoval]int
}

func newQueues() *queues {
	return &queues{
		Sightings:        queue.New[model.StarSighting](),
		States:           queue.New[model.StarState](),
		Removals:         queue.New[model.StarRemoval](),
		sightingAttempts: make(map[model.StarSighting]int),
		stateAttempts:    make(map[model.StarState]int),
		removalAttempts:  make(map[model.StarRemoval]int),
	}
}

// Backend implements storage.Backend using GORM with queue-based batch writes.
type Backend struct {
	deps   Dependencies
	queues *queues

	mu        sync.Mutex
	sessionID string

	flushMu  sync.Mutex
	stopChan chan struct{}
	done     sync.WaitGroup
	lastDur  time.Duration
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.LogManager == nil {
		deps.LogManager = logging.NewSlogManager()
	}
	if deps.WriteInterval <= 0 {
		deps.WriteInterval = DefaultWriteInterval
	}
	return &Backend{
		deps:   deps,
		queues: newQueues(),
	}
}

// Init runs schema migration and starts the DB writer goroutine.
func (b *Backend) Init() error {
	b.stopChan = make(chan struct{})

	if b.deps.DB != nil {
		manager := database.NewManager(b.deps.DB, b.deps.LogManager.Zerolog())
		if err := manager.Setup(b.deps.Version); err != nil {
			return fmt.Errorf("failed to setup DB: %w", err)
		}
	}

	b.startDBWriter()
	return nil
}

// Close stops the DB writer goroutine and writes whatever is still queued.
func (b *Backend) Close() error {
	if b.stopChan != nil {
		close(b.stopChan)
		b.done.Wait()
		b.stopChan = nil
	}
	return b.Flush()
}

// DB returns the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// StartSession inserts the session row and stamps subsequent rows with its ID.
func (b *Backend) StartSession(s *core.Session) error {
	if err := b.Flush(); err != nil {
		b.deps.LogManager.WriteLog("StartSession", fmt.Sprintf("Flushing previous session: %v", err), "WARN")
	}

	b.mu.Lock()
	b.sessionID = s.ID
	b.mu.Unlock()

	if b.deps.DB == nil {
		return nil
	}

	row := convert.CoreToSession(*s, s.Settings)
	if err := b.deps.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// EndSession writes queued rows and stamps the session end time.
func (b *Backend) EndSession() error {
	b.mu.Lock()
	id := b.sessionID
	b.mu.Unlock()

	flushErr := b.Flush()
	if b.deps.DB == nil || id == "" {
		return flushErr
	}

	err := b.deps.DB.Model(&model.Session{}).
		Where("id = ?", id).
		Update("end_time", convert.EndTime(time.Now())).Error
	if err != nil {
		err = fmt.Errorf("failed to close session: %w", err)
	}
	return errors.Join(flushErr, err)
}

// AddStar converts a sighting to GORM and pushes it to the write queue.
func (b *Backend) AddStar(s *core.StarSighting) error {
	b.queues.Sightings.Push(convert.CoreToStarSighting("", *s))
	return nil
}

// RecordStarState converts and queues a state sample.
func (b *Backend) RecordStarState(s *core.StarState) error {
	b.queues.States.Push(convert.CoreToStarState("", *s))
	return nil
}

// RecordStarRemoval converts and queues a removal.
func (b *Backend) RecordStarRemoval(r *core.StarRemoval) error {
	b.queues.Removals.Push(convert.CoreToStarRemoval("", *r))
	return nil
}

// GetLastDBWriteDuration returns how long the last write cycle took.
func (b *Backend) GetLastDBWriteDuration() time.Duration {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()
	return b.lastDur
}

// Flush writes all queued rows in sighting, state, removal order.
// Rows that fail stay queued for the next cycle, up to MaxRowAttempts.
func (b *Backend) Flush() error {
	if b.deps.DB == nil {
		return nil
	}

	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	b.mu.Lock()
	sessionID := b.sessionID
	b.mu.Unlock()

	start := time.Now()
	err := errors.Join(
		writeQueue(b.deps.DB, b.queues.Sightings, b.queues.sightingAttempts, "star sightings", func(items []model.StarSighting) {
			for i := range items {
				items[i].SessionID = sessionID
			}
		}),
		writeQueue(b.deps.DB, b.queues.States, b.queues.stateAttempts, "star states", func(items []model.StarState) {
			for i := range items {
				items[i].SessionID = sessionID
			}
		}),
		writeQueue(b.deps.DB, b.queues.Removals, b.queues.removalAttempts, "star removals", func(items []model.StarRemoval) {
			for i := range items {
				items[i].SessionID = sessionID
			}
		}),
	)
	b.lastDur = time.Since(start)
	return err
}

// writeQueue writes all items from a queue to the database in a transaction.
// When the batch is rejected the rows are retried one by one so a single bad
// row cannot hold back the rest; rows that keep failing are dropped.
func writeQueue[T comparable](db *gorm.DB, q *queue.Queue[T], attempts map[T]int, name string, prepare func([]T)) error {
	if q.Empty() {
		return nil
	}

	tx := db.Begin()
	items := q.GetAndEmpty()
	if prepare != nil {
		prepare(items)
	}
	// Create fills in primary keys; items stays as queued so it can be requeued
	rows := slices.Clone(items)
	batchErr := tx.Create(&rows).Error
	if batchErr == nil {
		if err := tx.Commit().Error; err != nil {
			q.Push(items...)
			return fmt.Errorf("error committing %s: %w", name, err)
		}
		for _, item := range items {
			delete(attempts, item)
		}
		return nil
	}
	tx.Rollback()

	var failed []T
	var rowErr error
	for _, item := range items {
		row := item
		if err := db.Create(&row).Error; err != nil {
			failed = append(failed, item)
			rowErr = err
			continue
		}
		delete(attempts, item)
	}

	// nothing went through: the table or connection is at fault, not the rows
	if len(failed) == len(items) {
		q.Push(items...)
		return fmt.Errorf("error creating %s: %w", name, batchErr)
	}

	dropped := 0
	for _, item := range failed {
		attempts[item]++
		if attempts[item] >= MaxRowAttempts {
			delete(attempts, item)
			dropped++
			continue
		}
		q.Push(item)
	}
	return fmt.Errorf("error creating %d of %d %s (%d dropped): %w", len(failed), len(items), name, dropped, rowErr)
}

// startDBWriter starts the background goroutine that periodically drains queues into the DB.
func (b *Backend) startDBWriter() {
	if b.deps.DB == nil {
		return
	}

	stop := b.stopChan
	b.done.Add(1)
	go func() {
		defer b.done.Done()
		ticker := time.NewTicker(b.deps.WriteInterval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if err := b.Flush(); err != nil {
					b.deps.LogManager.WriteLog(":DB:WRITER:", err.Error(), "ERROR")
				}
			}
		}
	}()
}
