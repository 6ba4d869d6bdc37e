package handlers

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/starinfo/extension/internal/cache"
	"github.com/starinfo/extension/internal/config"
	"github.com/starinfo/extension/internal/dispatcher"
	"github.com/starinfo/extension/internal/display"
	"github.com/starinfo/extension/internal/logging"
	"github.com/starinfo/extension/internal/miner"
	"github.com/starinfo/extension/internal/parser"
	"github.com/starinfo/extension/internal/session"
	"github.com/starinfo/extension/internal/star"
	"github.com/starinfo/extension/pkg/core"
)

// Chat message types understood by the host.
const (
	ChatConsole = "CONSOLE"
	ChatGame    = "GAMEMESSAGE"
)

// Host is the client side of the bridge: display effects plus chat.
type Host interface {
	display.Host
	Chat(chatType, message string) error
}

// Clipboard copies text for the user.
type Clipboard interface {
	Copy(text string) error
}

// Recorder receives the write-only star history.
type Recorder interface {
	StartSession(s *core.Session) error
	EndSession() error
	Sighted(s core.StarSighting)
	State(s core.StarState)
	Removed(r core.StarRemoval)
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	LogManager       *logging.SlogManager
	Parser           *parser.Parser
	Session          *session.Context
	Host             Host
	Clipboard        Clipboard
	Recorder         Recorder
	Sites            *star.Sites
	ExtensionVersion string
}

// recordedState is what was last written to the recorder for a star.
type recordedState struct {
	tier   int
	health int
	miners string
}

// Service owns the star registry and runs every host command against it.
// Entry points are serialised by mu.
type Service struct {
	deps         Dependencies
	writeLogFunc func(functionName, data, level string)
	metrics      *metrics
	tracked      atomic.Int64

	mu         sync.Mutex
	registry   *star.Registry
	tracker    *miner.Tracker
	reconciler *display.Reconciler
	lastTick   core.Tick
	recorded   map[uint64]recordedState
}

// NewService creates a new handler service
func NewService(deps Dependencies) (*Service, error) {
	if deps.LogManager == nil {
		deps.LogManager = logging.NewSlogManager()
	}
	if deps.Parser == nil {
		deps.Parser = parser.NewParser(deps.LogManager.Logger())
	}
	if deps.Session == nil {
		deps.Session = session.NewContext(deps.ExtensionVersion)
	}
	if deps.Recorder == nil {
		deps.Recorder = nopRecorder{}
	}
	if deps.Host == nil {
		deps.Host = nopHost{}
	}

	m, err := newMetrics()
	if err != nil {
		return nil, err
	}

	registry := star.NewRegistry()
	registry.SetClock(deps.Session.Now)

	s := &Service{
		deps:       deps,
		metrics:    m,
		registry:   registry,
		tracker:    miner.NewTracker(cache.NewActivityCache()),
		reconciler: display.NewReconciler(deps.Host, displayOptions(config.GetStarConfig())),
		recorded:   make(map[uint64]recordedState),
	}
	s.writeLogFunc = deps.LogManager.WriteLog
	return s, nil
}

// RegisterHandlers registers every host command with the dispatcher.
// All commands answer synchronously because the host waits for the result.
func (s *Service) RegisterHandlers(d *dispatcher.Dispatcher) {
	d.Register(":SESSION:START:", s.handleSessionStart, dispatcher.Logged())
	d.Register(":SESSION:STOP:", s.handleSessionStop, dispatcher.Logged())
	d.Register(":GAMESTATE:", s.handleGameState, dispatcher.Logged())
	d.Register(":CONFIG:CHANGED:", s.handleConfigChanged, dispatcher.Logged())

	d.Register(":OBJECT:SPAWNED:", s.handleObjectSpawned, dispatcher.Logged())
	d.Register(":OBJECT:DESPAWNED:", s.handleObjectDespawned, dispatcher.Logged())
	d.Register(":NPC:SPAWNED:", s.handleNPCSpawned, dispatcher.Logged())
	d.Register(":NPC:DESPAWNED:", s.handleNPCDespawned, dispatcher.Logged())
	d.Register(":NPC:HEALTH:", s.handleNPCHealth)

	d.Register(":TICK:", s.handleTick)

	d.Register(":MENU:EXAMINE:", s.handleMenuExamine)
	d.Register(":MENU:COPY:", s.handleMenuCopy, dispatcher.Logged())
	d.Register(":OVERLAY:TEXT:", s.handleOverlayText)
}

// Tracked returns the number of tracked stars without waiting for a
// command in progress.
func (s *Service) Tracked() int {
	return int(s.tracked.Load())
}

func (s *Service) updateTracked() {
	n := s.registry.Len()
	s.tracked.Store(int64(n))
	s.metrics.setTracked(n)
}

// Stars returns the tracked stars in promotion order. For tests and diagnostics.
func (s *Service) Stars() []*star.Star {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*star.Star(nil), s.registry.Stars()...)
}

func (s *Service) writeLog(functionName, data, level string) {
	s.writeLogFunc(functionName, data, level)
}

func displayOptions(cfg config.StarConfig) display.Options {
	return display.Options{
		ShowInfoBox:   cfg.ShowInfoBox,
		ShowHintArrow: cfg.ShowHintArrow,
		TextColor:     cfg.TextColor.Hex(),
	}
}

// reconcile pushes the promoted star to the host. Host failures are logged;
// the reconciler retries them on the next call.
func (s *Service) reconcile() {
	if err := s.reconciler.Reconcile(s.registry.Promoted()); err != nil {
		s.writeLog("reconcile", fmt.Sprintf("Host display update failed: %v", err), "WARN")
	}
}

// reset drops every location-keyed piece of state. Tracked stars are
// recorded as removed.
func (s *Service) reset(reason star.RemovalReason) {
	removals := make([]star.Removal, 0, s.registry.Len())
	for _, st := range s.registry.Stars() {
		removals = append(removals, star.Removal{Star: st, Reason: reason})
	}
	s.recordRemovals(removals)

	s.registry.Reset()
	s.tracker.Reset()
	s.reconciler.Health(nil)
	s.recorded = make(map[uint64]recordedState)
	s.updateTracked()
}

func (s *Service) chat(chatType, message string) {
	if err := s.deps.Host.Chat(chatType, message); err != nil {
		s.writeLog("chat", fmt.Sprintf("Failed to send chat message: %v", err), "WARN")
	}
}

type nopRecorder struct{}

func (nopRecorder) StartSession(*core.Session) error { return nil }
func (nopRecorder) EndSession() error                { return nil }
func (nopRecorder) Sighted(core.StarSighting)        {}
func (nopRecorder) State(core.StarState)             {}
func (nopRecorder) Removed(core.StarRemoval)         {}

type nopHost struct{}

func (nopHost) SetInfoBox(display.Badge) error      { return nil }
func (nopHost) RemoveInfoBox() error                { return nil }
func (nopHost) SetHintArrow(core.WorldPoint) error  { return nil }
func (nopHost) ClearHintArrow() error               { return nil }
func (nopHost) Chat(chatType, message string) error { return nil }
