// Package hostbridge connects the extension to the game client over JSON
// lines. Commands arrive as {"command", "args"} objects and are answered with
// ["ok", command, result] or ["error", command, message]. Side effects go out
// as {"callback", "args"} objects on the same stream.
package hostbridge

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/starinfo/extension/internal/dispatcher"
)

// MaxLineSize bounds a single command line. Tick snapshots of crowded
// worlds are the largest.
const MaxLineSize = 4 << 20

// ErrNoHandler is reported for commands nothing is registered for.
var ErrNoHandler = errors.New("no handler registered")

// Dispatcher routes commands to handlers.
type Dispatcher interface {
	HasHandler(command string) bool
	Dispatch(e dispatcher.Event) (any, error)
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger for malformed input and write failures.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) {
		b.logger = l
	}
}

// WithClock overrides the clock used for event and :TIMESTAMP: values.
func WithClock(now func() time.Time) Option {
	return func(b *Bridge) {
		b.now = now
	}
}

// Bridge reads host commands and writes responses and callbacks.
type Bridge struct {
	dispatcher Dispatcher
	logger     *slog.Logger
	now        func() time.Time

	mu sync.Mutex // guards w
	w  io.Writer
}

// New creates a Bridge that writes to w and dispatches through d.
func New(w io.Writer, d Dispatcher, opts ...Option) *Bridge {
	b := &Bridge{
		dispatcher: d,
		w:          w,
		logger:     slog.New(slog.DiscardHandler),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Serve handles command lines from r until r is exhausted or ctx is done.
// A clean end of input returns nil.
func (b *Bridge) Serve(ctx context.Context, r io.Reader) error {
	lines := make(chan []byte)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("reading host input: %w", err)
					}
				default:
				}
				return nil
			}
			if len(line) == 0 {
				continue
			}
			if err := b.handleLine(line); err != nil {
				return err
			}
		}
	}
}

func (b *Bridge) handleLine(line []byte) error {
	var cmd Command
	if err := json.Unmarshal(line, &cmd); err != nil {
		b.logger.Warn("Malformed host command", "error", err, "line", truncate(string(line), 200))
		return b.write([]any{StatusError, "", fmt.Sprintf("malformed command: %v", err)})
	}
	return b.write(b.Handle(cmd))
}

// Handle runs one command and returns its response.
func (b *Bridge) Handle(cmd Command) []any {
	if cmd.Command == CommandTimestamp {
		return formatResponse(cmd.Command, b.timestamp(), nil)
	}
	if b.dispatcher == nil || !b.dispatcher.HasHandler(cmd.Command) {
		return formatResponse(cmd.Command, nil, ErrNoHandler)
	}

	result, err := b.dispatcher.Dispatch(dispatcher.Event{
		Command:   cmd.Command,
		Args:      cmd.StringArgs(),
		Timestamp: b.now(),
	})
	return formatResponse(cmd.Command, result, err)
}

// WriteCallback sends a side effect to the host.
func (b *Bridge) WriteCallback(name string, args ...any) error {
	if args == nil {
		args = []any{}
	}
	return b.write(Callback{Callback: name, Args: args})
}

// Ready announces the extension and its version to the host.
func (b *Bridge) Ready(version string) error {
	return errors.Join(
		b.WriteCallback(CallbackReady),
		b.WriteCallback(CallbackVersion, version),
	)
}

func (b *Bridge) write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding host message: %w", err)
	}
	data = append(data, '\n')

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.w.Write(data); err != nil {
		return fmt.Errorf("writing host message: %w", err)
	}
	return nil
}

func (b *Bridge) timestamp() string {
	return strconv.FormatInt(b.now().UTC().UnixNano(), 10)
}

// formatResponse builds the response array for command. A nil result is
// omitted.
func formatResponse(command string, result any, err error) []any {
	if err != nil {
		return []any{StatusError, command, err.Error()}
	}
	if result == nil {
		return []any{StatusOK, command}
	}
	return []any{StatusOK, command, result}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
