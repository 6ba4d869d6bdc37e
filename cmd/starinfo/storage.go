package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/starinfo/extension/internal/config"
	"github.com/starinfo/extension/internal/database"
	"github.com/starinfo/extension/internal/influx"
	"github.com/starinfo/extension/internal/storage"
	"github.com/starinfo/extension/internal/storage/memory"
	pgstorage "github.com/starinfo/extension/internal/storage/postgres"
	sqlitestorage "github.com/starinfo/extension/internal/storage/sqlite"
)

// initStorage creates the configured backend. A postgres backend that cannot
// connect falls back to sqlite, and sqlite falls back to memory.
func initStorage() error {
	storageCfg := config.GetStorageConfig()
	logLeftoverDumps()

	backend, err := createStorageBackend(storageCfg)
	if err == nil {
		err = backend.Init()
	}

	for err != nil {
		next := fallbackStorageType(storageCfg.Type)
		if next == "" {
			return fmt.Errorf("failed to initialize %s storage: %w", storageCfg.Type, err)
		}
		Logger.Error("Failed to initialize storage backend, falling back", "type", storageCfg.Type, "fallback", next, "error", err)

		storageCfg.Type = next
		backend, err = createStorageBackend(storageCfg)
		if err == nil {
			err = backend.Init()
		}
	}

	storageBackend = backend
	Logger.Info("Storage backend ready", "type", storageCfg.Type)
	return nil
}

func fallbackStorageType(current string) string {
	switch current {
	case "postgres", "influx":
		return "sqlite"
	case "sqlite":
		return "memory"
	default:
		return ""
	}
}

func createStorageBackend(storageCfg config.StorageConfig) (storage.Backend, error) {
	switch storageCfg.Type {
	case "postgres":
		Logger.Info("Postgres storage backend selected", "host", storageCfg.Postgres.Host)
		return pgstorage.New(storageCfg.Postgres, CurrentExtensionVersion, SlogManager), nil

	case "sqlite":
		backend, err := sqlitestorage.New(sqlitestorage.Config{
			DumpInterval: storageCfg.SQLite.DumpInterval,
			DumpPath:     sqliteDumpPath(),
			Version:      CurrentExtensionVersion,
		}, SlogManager)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite backend: %w", err)
		}
		Logger.Info("SQLite storage backend selected", "dumpPath", sqliteDumpPath())
		return backend, nil

	case "influx":
		influxCfg := config.GetInfluxConfig()
		if !influxCfg.Enabled {
			return nil, influx.ErrDisabled
		}
		backupPath := filepath.Join(ConfigDir, fmt.Sprintf("%s_influx_%s.lp.gz", ExtensionName, SessionStartTime.Format("20060102_150405")))
		Logger.Info("InfluxDB storage backend selected", "host", influxCfg.Host, "bucket", influxCfg.Bucket)
		return influx.NewBackend(influx.NewManager(influxCfg, SlogManager.Zerolog(), backupPath)), nil

	case "memory", "":
		Logger.Info("Memory storage backend selected", "outputDir", storageCfg.Memory.OutputDir)
		return memory.New(storageCfg.Memory), nil

	default:
		return nil, fmt.Errorf("%w: %q", errUnknownStorage, storageCfg.Type)
	}
}

var errUnknownStorage = errors.New("unknown storage type")

func sqliteDumpPath() string {
	return filepath.Join(ConfigDir, fmt.Sprintf("%s_%s.db", ExtensionName, SessionStartTime.Format("20060102_150405")))
}

// logLeftoverDumps reports sqlite dumps from earlier runs.
func logLeftoverDumps() {
	paths, err := database.GetBackupDBPaths(ConfigDir)
	if err != nil {
		Logger.Debug("Could not list sqlite dumps", "error", err)
		return
	}
	if len(paths) > 0 {
		Logger.Info("Found sqlite dumps from earlier sessions", "count", len(paths), "dir", ConfigDir)
	}
}
