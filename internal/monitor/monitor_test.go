package monitor

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starinfo/extension/internal/session"
	"github.com/starinfo/extension/pkg/core"
)

type mockRecorder struct {
	pending int
	dur     time.Duration
}

func (r mockRecorder) Pending() int                          { return r.pending }
func (r mockRecorder) GetLastDBWriteDuration() time.Duration { return r.dur }

func newTestService(t *testing.T) *Service {
	t.Helper()
	sess := session.NewContext("1.0.0")
	sess.SetGameState(core.GameStateLoggedIn, 301)
	sess.Start()

	return NewService(Dependencies{
		Session:    sess,
		Recorder:   mockRecorder{pending: 3, dur: 1500 * time.Microsecond},
		Tracked:    func() int { return 2 },
		StatusPath: filepath.Join(t.TempDir(), "status.json"),
		Interval:   10 * time.Millisecond,
	})
}

func TestGetProgramStatus(t *testing.T) {
	s := newTestService(t)
	st := s.GetProgramStatus()

	assert.NotEmpty(t, st.Session)
	assert.Equal(t, 301, st.World)
	assert.Equal(t, "LOGGED_IN", st.GameState)
	assert.Equal(t, 2, st.Tracked)
	assert.Equal(t, 3, st.PendingRecords)
	assert.InDelta(t, 1.5, st.LastWriteDurationMs, 0.001)
	assert.Empty(t, st.Uptime, "not started")
}

func TestGetProgramStatus_NoDependencies(t *testing.T) {
	st := NewService(Dependencies{}).GetProgramStatus()
	assert.Zero(t, st.Tracked)
	assert.Zero(t, st.PendingRecords)
	assert.Empty(t, st.Session)
}

func TestWriteStatus(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.WriteStatus())

	data, err := os.ReadFile(s.deps.StatusPath)
	require.NoError(t, err)

	var st Status
	require.NoError(t, json.Unmarshal(data, &st))
	assert.Equal(t, 2, st.Tracked)
	assert.Equal(t, 301, st.World)
}

func TestStartStop(t *testing.T) {
	s := newTestService(t)
	s.Start(context.Background())
	s.Start(context.Background())
	assert.True(t, s.IsRunning())

	assert.Eventually(t, func() bool {
		_, err := os.Stat(s.deps.StatusPath)
		return err == nil
	}, time.Second, 5*time.Millisecond)

	s.Stop()
	assert.False(t, s.IsRunning())
	s.Stop()
}

func TestWriteStatus_BadPath(t *testing.T) {
	s := NewService(Dependencies{StatusPath: filepath.Join(t.TempDir(), "missing", "status.json")})
	assert.Error(t, s.WriteStatus())
}
