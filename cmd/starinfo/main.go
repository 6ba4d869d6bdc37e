package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/viper"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/starinfo/extension/internal/config"
	"github.com/starinfo/extension/internal/dispatcher"
	"github.com/starinfo/extension/internal/handlers"
	"github.com/starinfo/extension/internal/logging"
	"github.com/starinfo/extension/internal/monitor"
	intOtel "github.com/starinfo/extension/internal/otel"
	"github.com/starinfo/extension/internal/session"
	"github.com/starinfo/extension/internal/star"
	"github.com/starinfo/extension/internal/storage"
	"github.com/starinfo/extension/internal/worker"
	"github.com/starinfo/extension/pkg/hostbridge"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	CurrentExtensionVersion string = "0.0.1"
	BuildDate               string = "unknown"

	ExtensionName string = "starinfo"
)

var (
	// ConfigDir holds starinfo.cfg.json and, by default, the landing-site catalog.
	ConfigDir string

	LogFilePath string
	LogFile     *os.File

	SessionStartTime time.Time = time.Now()
)

// global variables
var (
	SlogManager  *logging.SlogManager
	Logger       *slog.Logger
	OTelProvider *intOtel.Provider
	graylogSink  *logging.GraylogSink

	handlerService  *handlers.Service
	workerManager   *worker.Manager
	monitorService  *monitor.Service
	eventDispatcher *dispatcher.Dispatcher
	bridge          *hostbridge.Bridge
	sessionContext  *session.Context

	storageBackend storage.Backend
)

func main() {
	flag.StringVar(&ConfigDir, "config", hostbridge.GetModuleDir(), "directory containing "+config.FileName)
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", ExtensionName, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	setupLogging()
	defer closeLogging()

	Logger.Info("Starting", "version", CurrentExtensionVersion, "buildDate", BuildDate, "configDir", ConfigDir)

	sessionContext = session.NewContext(CurrentExtensionVersion)

	if err := initStorage(); err != nil {
		return err
	}

	workerManager = worker.NewManager(worker.Dependencies{
		LogManager: SlogManager,
		Interval:   config.GetStorageConfig().FlushInterval,
	}, storageBackend)
	workerManager.Start(ctx)

	var err error
	eventDispatcher, err = dispatcher.New(logging.NewDispatcherLogger(SlogManager.Zerolog()))
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}

	bridge = hostbridge.New(os.Stdout, eventDispatcher, hostbridge.WithLogger(Logger))
	host := bridge.Host()

	handlerService, err = handlers.NewService(handlers.Dependencies{
		LogManager:       SlogManager,
		Session:          sessionContext,
		Host:             host,
		Clipboard:        newClipboard(host, Logger),
		Recorder:         workerManager,
		Sites:            loadSites(),
		ExtensionVersion: CurrentExtensionVersion,
	})
	if err != nil {
		return fmt.Errorf("failed to create handler service: %w", err)
	}
	handlerService.RegisterHandlers(eventDispatcher)
	Logger.Info("Handlers registered", "commands", len(eventDispatcher.Commands()))

	monitorService = monitor.NewService(monitor.Dependencies{
		LogManager: SlogManager,
		Session:    sessionContext,
		Recorder:   workerManager,
		Tracked:    handlerService.Tracked,
		StatusPath: filepath.Join(ConfigDir, "status.json"),
	})
	monitorService.Start(ctx)

	if err := bridge.Ready(CurrentExtensionVersion); err != nil {
		return fmt.Errorf("failed to announce extension: %w", err)
	}

	serveErr := bridge.Serve(ctx, os.Stdin)
	if errors.Is(serveErr, context.Canceled) {
		serveErr = nil
	}
	shutdown()
	return serveErr
}

// setupLogging logs to stderr until the log file and optional sinks are ready.
func setupLogging() {
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(nil, "info", nil)
	Logger = SlogManager.Logger()

	if err := config.Load(ConfigDir); err != nil {
		Logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		Logger.Info("Loaded config")
	}

	logsDir := viper.GetString("logsDir")
	if !filepath.IsAbs(logsDir) {
		logsDir = filepath.Join(ConfigDir, logsDir)
	}
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		Logger.Error("Failed to create logs directory", "error", err, "path", logsDir)
	}

	LogFilePath = logging.LogFilePath(logsDir, ExtensionName, SessionStartTime)
	if _, err := os.Stat(LogFilePath); err == nil {
		_ = os.Rename(LogFilePath, LogFilePath+".old")
	}

	var err error
	LogFile, err = os.OpenFile(LogFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		Logger.Error("Failed to create/open log file!", "error", err, "path", LogFilePath)
		LogFile = nil
	}

	var logWriter io.Writer
	if LogFile != nil {
		logWriter = LogFile
	}

	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		OTelProvider, err = intOtel.New(intOtel.ConfigFrom(otelCfg, CurrentExtensionVersion, logWriter))
		if err != nil {
			Logger.Error("Failed to initialize OTel provider", "error", err)
		} else {
			Logger.Info("OTel provider initialized", "file", LogFilePath, "endpoint", otelCfg.Endpoint)
		}
	}

	var sinks []slog.Handler
	level := viper.GetString("logLevel")
	if gl := config.GetGraylogConfig(); gl.Enabled {
		graylogSink, err = logging.NewGraylogSink(gl.Address)
		if err != nil {
			Logger.Error("Failed to connect Graylog sink", "error", err, "address", gl.Address)
		} else {
			sinks = append(sinks, graylogSink.Handler(level))
		}
	}

	var otelLogProvider *sdklog.LoggerProvider
	if OTelProvider != nil {
		otelLogProvider = OTelProvider.LoggerProvider()
	}
	SlogManager.Context = logContext
	SlogManager.Setup(logWriter, level, otelLogProvider, sinks...)
	Logger = SlogManager.Logger()
	Logger.Info("Logging to file", "path", LogFilePath)
}

// logContext adds the client state to every log record.
func logContext() []slog.Attr {
	var attrs []slog.Attr
	if sessionContext != nil {
		attrs = append(attrs,
			slog.Int("world", sessionContext.World()),
			slog.String("gameState", string(sessionContext.GameState())),
		)
		if id := sessionContext.SessionID(); id != "" {
			attrs = append(attrs, slog.String("session", id))
		}
	}
	if handlerService != nil {
		attrs = append(attrs, slog.Int("tracked", handlerService.Tracked()))
	}
	return attrs
}

// loadSites reads the landing-site catalog. Without one, locations are
// described by their coordinates.
func loadSites() *star.Sites {
	path := config.GetStarConfig().LocationsFile
	if path == "" {
		path = filepath.Join(ConfigDir, "sites.yaml")
		if _, err := os.Stat(path); err != nil {
			Logger.Info("No landing-site catalog found", "path", path)
			return nil
		}
	}
	sites, err := star.LoadSites(path)
	if err != nil {
		Logger.Warn("Failed to load landing-site catalog", "error", err, "path", path)
		return nil
	}
	Logger.Info("Loaded landing-site catalog", "path", path, "sites", sites.Len())
	return sites
}

// shutdown ends any open session and flushes everything to storage.
func shutdown() {
	if sessionContext.GetSession() != nil {
		if _, err := eventDispatcher.Dispatch(dispatcher.Event{Command: ":SESSION:STOP:", Timestamp: time.Now()}); err != nil {
			Logger.Error("Failed to stop session", "error", err)
		}
	}
	eventDispatcher.Close()
	monitorService.Stop()

	if err := workerManager.Close(); err != nil {
		Logger.Error("Failed to flush pending records", "error", err)
	}
	if err := storageBackend.Close(); err != nil {
		Logger.Error("Failed to close storage backend", "error", err)
	}
	if exporter, ok := storageBackend.(storage.Exporter); ok && exporter.GetExportedFilePath() != "" {
		Logger.Info("Sighting history written", "path", exporter.GetExportedFilePath())
	}
	Logger.Info("Stopped")
}

func closeLogging() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := SlogManager.Flush(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to flush logs: %v\n", err)
	}
	if OTelProvider != nil {
		if err := OTelProvider.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "failed to shut down OTel: %v\n", err)
		}
	}
	if graylogSink != nil {
		_ = graylogSink.Close()
	}
	if LogFile != nil {
		_ = LogFile.Close()
	}
}
