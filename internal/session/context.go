package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starinfo/extension/pkg/core"
)

// Context holds the current recording session and client state
type Context struct {
	mu        sync.RWMutex
	session   *core.Session
	gameState core.GameState
	world     int
	version   string
	now       func() time.Time
}

// NewContext creates a new Context with no active session
func NewContext(extensionVersion string) *Context {
	return &Context{
		gameState: core.GameStateUnknown,
		version:   extensionVersion,
		now:       time.Now,
	}
}

// SetClock overrides the clock used to stamp sessions.
func (c *Context) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Start begins a new session with a fresh ID and returns it.
func (c *Context) Start() *core.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = &core.Session{
		ID:               uuid.NewString(),
		StartTime:        c.now(),
		World:            c.world,
		ExtensionVersion: c.version,
	}
	return c.session
}

// Stop ends the current session and returns it, or nil if none was active.
func (c *Context) Stop() *core.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.session
	c.session = nil
	return s
}

// GetSession returns the active session, or nil
func (c *Context) GetSession() *core.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// SessionID returns the active session ID, or an empty string
func (c *Context) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return ""
	}
	return c.session.ID
}

// SetGameState records a client state change. A non-zero world replaces the
// current world.
func (c *Context) SetGameState(state core.GameState, world int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gameState = state
	if world > 0 {
		c.world = world
		if c.session != nil && c.session.World == 0 {
			c.session.World = world
		}
	}
}

// GameState returns the last reported client state
func (c *Context) GameState() core.GameState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gameState
}

// World returns the world the client is logged into, or 0 if unknown
func (c *Context) World() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.world
}

// Now returns the current time according to the context clock
func (c *Context) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now()
}
