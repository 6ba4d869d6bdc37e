package sqlitestorage

import (
	"bytes"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/starinfo/extension/internal/database"
	"github.com/starinfo/extension/internal/logging"
	"github.com/starinfo/extension/internal/model"
	"github.com/starinfo/extension/internal/storage"
	"github.com/starinfo/extension/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ storage.Backend  = (*Backend)(nil)
	_ storage.Exporter = (*Backend)(nil)
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func newBackend(t *testing.T, cfg Config) *Backend {
	t.Helper()
	if cfg.Path == "" {
		cfg.Path = filepath.Join(t.TempDir(), "live.db")
	}
	b, err := New(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, b.Init())
	return b
}

func countSightings(t *testing.T, path string) int64 {
	t.Helper()
	db, err := database.GetSqliteDB(path)
	require.NoError(t, err)
	var n int64
	require.NoError(t, db.Model(&model.StarSighting{}).Count(&n).Error)
	return n
}

func TestEndSessionDumps(t *testing.T) {
	dump := filepath.Join(t.TempDir(), "dump", "stars.db")
	b := newBackend(t, Config{DumpPath: dump})
	defer b.Close()

	require.NoError(t, b.StartSession(&core.Session{ID: "s", StartTime: time.Now(), World: 301}))
	require.NoError(t, b.AddStar(&core.StarSighting{StarID: 1, Tier: 5}))
	require.NoError(t, b.EndSession())

	assert.Equal(t, dump, b.GetExportedFilePath())
	assert.Equal(t, int64(1), countSightings(t, dump))
}

func TestCloseWritesFinalDump(t *testing.T) {
	dump := filepath.Join(t.TempDir(), "final.db")
	b := newBackend(t, Config{DumpPath: dump})

	require.NoError(t, b.StartSession(&core.Session{ID: "s", StartTime: time.Now()}))
	require.NoError(t, b.AddStar(&core.StarSighting{StarID: 1}))
	require.NoError(t, b.AddStar(&core.StarSighting{StarID: 2}))
	require.NoError(t, b.Close())

	assert.Equal(t, int64(2), countSightings(t, dump))
}

func TestDumpLoop(t *testing.T) {
	dump := filepath.Join(t.TempDir(), "loop.db")
	logs := &syncBuffer{}
	lm := logging.NewSlogManager()
	lm.Setup(logs, "debug", nil)

	b, err := New(Config{Path: filepath.Join(t.TempDir(), "live.db"), DumpPath: dump, DumpInterval: 20 * time.Millisecond}, lm)
	require.NoError(t, err)
	require.NoError(t, b.Init())
	defer b.Close()

	require.NoError(t, b.StartSession(&core.Session{ID: "s", StartTime: time.Now()}))
	require.NoError(t, b.AddStar(&core.StarSighting{StarID: 1}))

	assert.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "Dumped to disk")
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNoDumpPath(t *testing.T) {
	b := newBackend(t, Config{})
	require.NoError(t, b.StartSession(&core.Session{ID: "s", StartTime: time.Now()}))
	require.NoError(t, b.EndSession())
	require.NoError(t, b.Close())
	assert.Empty(t, b.GetExportedFilePath())
}
