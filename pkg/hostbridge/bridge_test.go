package hostbridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starinfo/extension/internal/dispatcher"
	"github.com/starinfo/extension/internal/display"
	"github.com/starinfo/extension/pkg/core"
)

type mockDispatcher struct {
	handlers map[string]dispatcher.HandlerFunc
	events   []dispatcher.Event
}

func (d *mockDispatcher) HasHandler(command string) bool {
	_, ok := d.handlers[command]
	return ok
}

func (d *mockDispatcher) Dispatch(e dispatcher.Event) (any, error) {
	d.events = append(d.events, e)
	return d.handlers[e.Command](e)
}

func newMockDispatcher() *mockDispatcher {
	return &mockDispatcher{handlers: map[string]dispatcher.HandlerFunc{
		":OBJECT:SPAWNED:": func(dispatcher.Event) (any, error) { return "created", nil },
		":OVERLAY:TEXT:":   func(dispatcher.Event) (any, error) { return []string{"T6 ?M", "#ffff00"}, nil },
		":MENU:COPY:":      func(dispatcher.Event) (any, error) { return nil, nil },
		":CONFIG:CHANGED:": func(dispatcher.Event) (any, error) { return nil, errors.New("unknown setting: nope") },
	}}
}

// syncBuffer is safe to read while Serve writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Split(strings.TrimSpace(b.buf.String()), "\n")
}

func TestFormatResponse(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		result   any
		err      error
		expected string
	}{
		{
			name:     "success with simple string",
			command:  ":OBJECT:SPAWNED:",
			result:   "created",
			expected: `["ok",":OBJECT:SPAWNED:","created"]`,
		},
		{
			name:     "success with string array",
			command:  ":OVERLAY:TEXT:",
			result:   []string{"T6 1M", "#ffff00"},
			expected: `["ok",":OVERLAY:TEXT:",["T6 1M","#ffff00"]]`,
		},
		{
			name:     "success with nil result",
			command:  ":MENU:EXAMINE:",
			expected: `["ok",":MENU:EXAMINE:"]`,
		},
		{
			name:     "error response",
			command:  ":TICK:",
			err:      errors.New(`tick: invalid number "x"`),
			expected: `["error",":TICK:","tick: invalid number \"x\""]`,
		},
		{
			name:     "success with map",
			command:  ":MAP:",
			result:   map[string]int{"count": 42},
			expected: `["ok",":MAP:",{"count":42}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(formatResponse(tt.command, tt.result, tt.err))
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(got))
		})
	}
}

func TestStringArgs(t *testing.T) {
	var cmd Command
	require.NoError(t, json.Unmarshal([]byte(
		`{"command":":TICK:","args":[12,"3000","32.00",null,[{"name":"Zezima"}]]}`), &cmd))

	assert.Equal(t, []string{"12", "3000", "32.00", "", `[{"name":"Zezima"}]`}, cmd.StringArgs())
}

func TestHandle(t *testing.T) {
	d := newMockDispatcher()
	now := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	b := New(io.Discard, d, WithClock(func() time.Time { return now }))

	t.Run("dispatches with string args", func(t *testing.T) {
		resp := b.Handle(Command{
			Command: ":OBJECT:SPAWNED:",
			Args:    []json.RawMessage{[]byte("41226"), []byte(`"3000"`), []byte("3000"), []byte("0")},
		})
		assert.Equal(t, []any{StatusOK, ":OBJECT:SPAWNED:", "created"}, resp)
		require.Len(t, d.events, 1)
		assert.Equal(t, []string{"41226", "3000", "3000", "0"}, d.events[0].Args)
		assert.Equal(t, now, d.events[0].Timestamp)
	})

	t.Run("timestamp is answered directly", func(t *testing.T) {
		resp := b.Handle(Command{Command: CommandTimestamp})
		assert.Equal(t, []any{StatusOK, CommandTimestamp, "1714586400000000000"}, resp)
	})

	t.Run("unknown command", func(t *testing.T) {
		resp := b.Handle(Command{Command: ":NOPE:"})
		assert.Equal(t, []any{StatusError, ":NOPE:", ErrNoHandler.Error()}, resp)
	})

	t.Run("handler error", func(t *testing.T) {
		resp := b.Handle(Command{Command: ":CONFIG:CHANGED:"})
		assert.Equal(t, []any{StatusError, ":CONFIG:CHANGED:", "unknown setting: nope"}, resp)
	})

	t.Run("nil dispatcher", func(t *testing.T) {
		resp := New(io.Discard, nil).Handle(Command{Command: ":TICK:"})
		assert.Equal(t, StatusError, resp[0])
	})
}

func TestServe(t *testing.T) {
	input := strings.Join([]string{
		`{"command":":OBJECT:SPAWNED:","args":[41226,3000,3000,0]}`,
		``,
		`not json`,
		`{"command":":OVERLAY:TEXT:","args":[]}`,
		`{"command":":MENU:COPY:"}`,
	}, "\n")

	var out syncBuffer
	b := New(&out, newMockDispatcher())
	require.NoError(t, b.Serve(context.Background(), strings.NewReader(input)))

	lines := out.Lines()
	require.Len(t, lines, 4)
	assert.JSONEq(t, `["ok",":OBJECT:SPAWNED:","created"]`, lines[0])
	assert.Contains(t, lines[1], `"error"`)
	assert.Contains(t, lines[1], "malformed command")
	assert.JSONEq(t, `["ok",":OVERLAY:TEXT:",["T6 ?M","#ffff00"]]`, lines[2])
	assert.JSONEq(t, `["ok",":MENU:COPY:"]`, lines[3])
}

func TestServe_ContextCancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(io.Discard, newMockDispatcher()).Serve(ctx, r)
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("pipe closed") }

func TestServe_WriteError(t *testing.T) {
	b := New(failingWriter{}, newMockDispatcher())
	err := b.Serve(context.Background(), strings.NewReader(`{"command":":MENU:COPY:"}`))
	assert.ErrorContains(t, err, "pipe closed")
}

func TestCallbacks(t *testing.T) {
	var out syncBuffer
	b := New(&out, nil)
	h := b.Host()

	require.NoError(t, b.Ready("1.2.0"))
	require.NoError(t, h.SetInfoBox(display.Badge{ItemID: 25547, Text: "T6 1M", Tooltip: "World 301", Color: "#ffff00"}))
	require.NoError(t, h.RemoveInfoBox())
	require.NoError(t, h.SetHintArrow(core.WorldPoint{X: 3000, Y: 3001, Plane: 0}))
	require.NoError(t, h.ClearHintArrow())
	require.NoError(t, h.Chat("CONSOLE", "Star T6 found on world 301 at Rimmington mine."))
	require.NoError(t, h.Copy("W301 T6"))

	expected := []string{
		`{"callback":":EXT:READY:","args":[]}`,
		`{"callback":":VERSION:","args":["1.2.0"]}`,
		`{"callback":":INFOBOX:SET:","args":[25547,"T6 1M","World 301","#ffff00"]}`,
		`{"callback":":INFOBOX:REMOVE:","args":[]}`,
		`{"callback":":HINT:SET:","args":[3000,3001,0]}`,
		`{"callback":":HINT:CLEAR:","args":[]}`,
		`{"callback":":CHAT:","args":["CONSOLE","Star T6 found on world 301 at Rimmington mine."]}`,
		`{"callback":":CLIPBOARD:","args":["W301 T6"]}`,
	}
	lines := out.Lines()
	require.Len(t, lines, len(expected))
	for i, want := range expected {
		assert.JSONEq(t, want, lines[i])
	}
}

func TestGetModuleDir(t *testing.T) {
	assert.NotEmpty(t, GetModulePath())
	assert.NotEqual(t, "", GetModuleDir())
}
