package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/starinfo/extension/internal/logging"
	"github.com/starinfo/extension/internal/session"
)

// DefaultInterval is how often the status file is rewritten.
const DefaultInterval = time.Second

// Recorder is the part of the worker manager the monitor reports on.
type Recorder interface {
	Pending() int
	GetLastDBWriteDuration() time.Duration
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	LogManager *logging.SlogManager
	Session    *session.Context
	Recorder   Recorder
	Tracked    func() int
	StatusPath string
	Interval   time.Duration
}

// Status is a snapshot of the running extension.
type Status struct {
	Time                time.Time `json:"time"`
	Session             string    `json:"session,omitempty"`
	World               int       `json:"world"`
	GameState           string    `json:"gameState"`
	Tracked             int       `json:"tracked"`
	PendingRecords      int       `json:"pendingRecords"`
	LastWriteDurationMs float32   `json:"lastWriteDurationMs"`
	Uptime              string    `json:"uptime"`
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	started   time.Time
	isRunning bool
	mu        sync.RWMutex
	cancel    context.CancelFunc
	done      sync.WaitGroup
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.LogManager == nil {
		deps.LogManager = logging.NewSlogManager()
	}
	if deps.Interval <= 0 {
		deps.Interval = DefaultInterval
	}
	return &Service{deps: deps}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetProgramStatus returns the current program status
func (s *Service) GetProgramStatus() Status {
	now := time.Now()
	st := Status{Time: now}

	if s.deps.Session != nil {
		st.Session = s.deps.Session.SessionID()
		st.World = s.deps.Session.World()
		st.GameState = string(s.deps.Session.GameState())
	}
	if s.deps.Tracked != nil {
		st.Tracked = s.deps.Tracked()
	}
	if s.deps.Recorder != nil {
		st.PendingRecords = s.deps.Recorder.Pending()
		st.LastWriteDurationMs = float32(s.deps.Recorder.GetLastDBWriteDuration().Microseconds()) / 1000
	}

	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started.IsZero() {
		st.Uptime = humanize.RelTime(started, now, "", "")
	}
	return st
}

// WriteStatus replaces the status file with the current status.
func (s *Service) WriteStatus() error {
	data, err := json.MarshalIndent(s.GetProgramStatus(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding status: %w", err)
	}
	if err := os.WriteFile(s.deps.StatusPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing status file: %w", err)
	}
	return nil
}

// Start starts the status monitor goroutine
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.isRunning = true
	s.started = time.Now()
	s.mu.Unlock()

	s.done.Add(1)
	go func() {
		defer s.done.Done()
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		logger := s.deps.LogManager.Logger()
		logger.Debug("Starting status monitor goroutine", "path", s.deps.StatusPath)

		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		failing := false
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.WriteStatus(); err != nil {
					if !failing {
						logger.Error("Error writing status file", "error", err)
					}
					failing = true
					continue
				}
				failing = false
			}
		}
	}()
}

// Stop stops the status monitor and waits for it to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.done.Wait()
}
