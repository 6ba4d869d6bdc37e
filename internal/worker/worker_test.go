package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/starinfo/extension/internal/storage"
	"github.com/starinfo/extension/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBackend records every call in order.
type mockBackend struct {
	mu      sync.Mutex
	calls   []string
	failIDs map[uint64]bool
	dur     time.Duration
}

var _ storage.Backend = (*mockBackend)(nil)

func (b *mockBackend) add(call string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, call)
}

func (b *mockBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *mockBackend) Init() error                           { return nil }
func (b *mockBackend) Close() error                          { return nil }
func (b *mockBackend) GetLastDBWriteDuration() time.Duration { return b.dur }

func (b *mockBackend) StartSession(s *core.Session) error {
	b.add("start:" + s.ID)
	return nil
}

func (b *mockBackend) EndSession() error {
	b.add("end")
	return nil
}

func (b *mockBackend) AddStar(s *core.StarSighting) error {
	if b.failIDs[s.StarID] {
		return errors.New("boom")
	}
	b.add("star")
	return nil
}

func (b *mockBackend) RecordStarState(s *core.StarState) error {
	b.add("state")
	return nil
}

func (b *mockBackend) RecordStarRemoval(r *core.StarRemoval) error {
	b.add("removal")
	return nil
}

func TestFlushOrder(t *testing.T) {
	backend := &mockBackend{}
	m := NewManager(Dependencies{}, backend)

	m.Removed(core.StarRemoval{StarID: 1})
	m.State(core.StarState{StarID: 1})
	m.Sighted(core.StarSighting{StarID: 1})
	assert.Equal(t, 3, m.Pending())

	require.NoError(t, m.Flush())
	assert.Equal(t, []string{"star", "state", "removal"}, backend.Calls())
	assert.Equal(t, 0, m.Pending())
}

func TestSessionBoundariesFlush(t *testing.T) {
	backend := &mockBackend{}
	m := NewManager(Dependencies{}, backend)

	m.Sighted(core.StarSighting{StarID: 1})
	require.NoError(t, m.StartSession(&core.Session{ID: "a"}))
	m.State(core.StarState{StarID: 1})
	require.NoError(t, m.EndSession())

	assert.Equal(t, []string{"star", "start:a", "state", "end"}, backend.Calls())
}

func TestFlushReportsBackendErrors(t *testing.T) {
	backend := &mockBackend{failIDs: map[uint64]bool{2: true}}
	m := NewManager(Dependencies{}, backend)

	m.Sighted(core.StarSighting{StarID: 1})
	m.Sighted(core.StarSighting{StarID: 2})

	err := m.Flush()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "star 2 sighting")
	assert.Equal(t, []string{"star"}, backend.Calls())
	assert.Equal(t, 0, m.Pending(), "rejected records are dropped")
}

func TestNilBackendDropsRecords(t *testing.T) {
	m := NewManager(Dependencies{}, nil)
	m.Sighted(core.StarSighting{StarID: 1})
	m.State(core.StarState{StarID: 1})
	m.Removed(core.StarRemoval{StarID: 1})

	assert.Equal(t, 0, m.Pending())
	assert.NoError(t, m.StartSession(&core.Session{ID: "x"}))
	assert.NoError(t, m.EndSession())
	m.Start(context.Background())
	assert.NoError(t, m.Close())
	assert.Zero(t, m.GetLastDBWriteDuration())
}

func TestStartFlushesOnInterval(t *testing.T) {
	backend := &mockBackend{}
	m := NewManager(Dependencies{Interval: 10 * time.Millisecond}, backend)
	m.Start(context.Background())
	defer m.Close()

	m.Sighted(core.StarSighting{StarID: 1})
	assert.Eventually(t, func() bool {
		return len(backend.Calls()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestCloseFlushesRemaining(t *testing.T) {
	backend := &mockBackend{}
	m := NewManager(Dependencies{Interval: time.Hour}, backend)
	m.Start(context.Background())

	m.State(core.StarState{StarID: 1})
	require.NoError(t, m.Close())
	assert.Equal(t, []string{"state"}, backend.Calls())
}

func TestGetLastDBWriteDuration(t *testing.T) {
	m := NewManager(Dependencies{}, &mockBackend{dur: 42 * time.Millisecond})
	assert.Equal(t, 42*time.Millisecond, m.GetLastDBWriteDuration())
}
