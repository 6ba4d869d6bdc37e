package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// consoleWriter receives console logs when no file is configured. Stdout is
// the host command channel, so logs never go there.
var consoleWriter io.Writer = os.Stderr

// SlogManager manages slog-based logging with optional OTel integration.
type SlogManager struct {
	logger *slog.Logger
	level  string
	out    io.Writer

	// OTel provider for flushing
	logProvider *sdklog.LoggerProvider

	// Context, when set, adds dynamic attributes to every record.
	Context ContextProvider
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func handlerOptions(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}
}

// Setup initializes the logging system. Records go to file, or to stderr when
// file is nil, plus OTel when provider is set and any extra sinks.
func (m *SlogManager) Setup(file io.Writer, level string, provider *sdklog.LoggerProvider, sinks ...slog.Handler) {
	lvl := parseLevel(level)
	m.logProvider = provider
	m.level = level

	opts := handlerOptions(lvl)

	m.out = file
	if m.out == nil {
		m.out = consoleWriter
	}

	handlers := []slog.Handler{slog.NewTextHandler(m.out, opts)}

	if provider != nil {
		handlers = append(handlers, otelslog.NewHandler("starinfo", otelslog.WithLoggerProvider(provider)))
	}
	handlers = append(handlers, sinks...)

	var handler slog.Handler = NewMultiHandler(handlers...)
	if m.Context != nil {
		handler = NewContextHandler(handler, m.Context)
	}

	m.logger = slog.New(handler)
	m.logger.Info("Logging initialized", "level", level)
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		// Return a default logger if Setup hasn't been called
		return slog.Default()
	}
	return m.logger
}

// Zerolog returns a zerolog.Logger writing to the same destination as the
// slog logger, for the components that log through zerolog.
func (m *SlogManager) Zerolog() zerolog.Logger {
	out := m.out
	if out == nil {
		out = consoleWriter
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}).Level(zerologLevel(m.level)).With().Timestamp().Logger()
}

func zerologLevel(level string) zerolog.Level {
	switch parseLevel(level) {
	case slog.LevelDebug:
		return zerolog.DebugLevel
	case slog.LevelWarn:
		return zerolog.WarnLevel
	case slog.LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Flush forces a flush of OTel logs if available.
func (m *SlogManager) Flush(ctx context.Context) error {
	if m.logProvider != nil {
		return m.logProvider.ForceFlush(ctx)
	}
	return nil
}

// WriteLog writes a log entry with the specified function name, data, and level.
func (m *SlogManager) WriteLog(functionName, data, level string) {
	if m.logger == nil {
		return
	}

	lvl := parseLevel(level)
	m.logger.Log(context.Background(), lvl, data, "function", functionName)
}
