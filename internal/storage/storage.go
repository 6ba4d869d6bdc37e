// internal/storage/storage.go
package storage

import (
	"errors"

	"github.com/starinfo/extension/pkg/core"
)

// ErrNoSession is returned when a record arrives outside a recording session.
var ErrNoSession = errors.New("no active session")

// Backend is the interface all sighting recorder implementations must satisfy.
// Recording is write-only: nothing read back from a backend feeds the registry.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Session management
	StartSession(s *core.Session) error
	EndSession() error

	// Star registration (may assign ID to the passed pointer)
	AddStar(s *core.StarSighting) error

	// State recording
	RecordStarState(s *core.StarState) error
	RecordStarRemoval(r *core.StarRemoval) error
}

// Exporter is an optional interface for backends that write a session file on EndSession.
type Exporter interface {
	GetExportedFilePath() string
}
