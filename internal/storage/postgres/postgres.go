// Package postgres implements the storage.Backend interface on a remote
// PostgreSQL database, reusing the GORM queue writer.
package postgres

import (
	"fmt"

	"github.com/starinfo/extension/internal/config"
	"github.com/starinfo/extension/internal/database"
	"github.com/starinfo/extension/internal/logging"
	gormstorage "github.com/starinfo/extension/internal/storage/gorm"

	"gorm.io/gorm"
)

// Connector opens the database. Tests replace it.
type Connector func(cfg config.PostgresConfig) (*gorm.DB, error)

// Backend wraps the GORM backend with a lazily opened Postgres connection.
type Backend struct {
	*gormstorage.Backend
	cfg     config.PostgresConfig
	log     *logging.SlogManager
	version string
	connect Connector
}

// New creates a new Postgres storage backend. The connection is made in Init.
func New(cfg config.PostgresConfig, version string, logManager *logging.SlogManager) *Backend {
	if logManager == nil {
		logManager = logging.NewSlogManager()
	}
	return &Backend{
		cfg:     cfg,
		log:     logManager,
		version: version,
		connect: database.GetPostgresDB,
	}
}

// Init connects, migrates and starts the writer.
func (b *Backend) Init() error {
	db, err := b.connect(b.cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres at %s:%s: %w", b.cfg.Host, b.cfg.Port, err)
	}
	b.log.WriteLog("postgres:Init", fmt.Sprintf("Connected to %s:%s/%s", b.cfg.Host, b.cfg.Port, b.cfg.Database), "INFO")

	b.Backend = gormstorage.New(gormstorage.Dependencies{
		DB:         db,
		LogManager: b.log,
		Version:    b.version,
	})
	return b.Backend.Init()
}

// Close stops the writer. It is safe to call when Init failed.
func (b *Backend) Close() error {
	if b.Backend == nil {
		return nil
	}
	return b.Backend.Close()
}
