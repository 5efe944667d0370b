// Package daemon wires the database, the session store and the web service together.
package daemon

import (
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/skyportlabs/panel/internal/config"
	"github.com/skyportlabs/panel/internal/db/dsn"
	"github.com/skyportlabs/panel/internal/db/models"
	"github.com/skyportlabs/panel/internal/logo"
	"github.com/skyportlabs/panel/internal/web"
	"github.com/skyportlabs/panel/internal/web/session"
)

const sessionTable = "sessions"

// Daemon represents the main application daemon.
type Daemon struct {
	webService *web.Service
}

// Start starts the Daemon's web service. It blocks until the service stops.
func (d *Daemon) Start() error {
	return d.webService.Start()
}

// WaitShutdown blocks until a termination signal stopped the web service.
func (d *Daemon) WaitShutdown() {
	d.webService.WaitShutdown()
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	if err = Migrate(db); err != nil {
		return nil, err
	}

	if err = seed(cfg, db); err != nil {
		return nil, errors.Wrap(err, "failed to seed database")
	}

	fsys := afero.NewOsFs()

	if err = reconcileLogo(db, logo.NewStore(fsys, cfg.Storage.LogoFile)); err != nil {
		return nil, errors.Wrap(err, "failed to reconcile logo flag")
	}

	session.Init(newSessionStorage(cfg), cfg.Webserver.Session.ExpiryTime)

	return &Daemon{
		webService: web.New(cfg, db, fsys),
	}, nil
}

// Open connects to the configured database engine.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case config.EngineSQLite:
		if dir := filepath.Dir(cfg.DB.Name); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil { //nolint:mnd
				return nil, errors.Wrapf(err, "failed to create database directory %s", dir)
			}
		}

		dialector = sqlite.Open(cfg.DB.Name)
	case config.EngineMySQL:
		dialector = gormmysql.Open(dsn.MySQL(cfg))
	case config.EnginePostgres:
		dialector = gormpostgres.Open(dsn.Postgres(cfg))
	default:
		return nil, errors.Wrap(config.ErrUnknownGormEngine, cfg.DB.GormEngine)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect %s database", cfg.DB.GormEngine)
	}

	log.Info().Str("engine", cfg.DB.GormEngine).Msg("database connected")

	return db, nil
}

// Migrate creates or updates the tables of all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Setting{},
		&models.Role{},
		&models.Permission{},
		&models.RolePermission{},
		&models.User{},
		&models.AuditLog{},
	); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}

	return nil
}

// newSessionStorage keeps sessions next to the data for server databases.
// sqlite installs use fiber's in-memory storage, a restart logs everybody out.
func newSessionStorage(cfg *config.Config) fiber.Storage {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.MySQL(cfg),
			Table:         sessionTable,
			GCInterval:    10 * time.Minute, //nolint:mnd
		})
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Postgres(cfg),
			Table:         sessionTable,
			GCInterval:    10 * time.Minute, //nolint:mnd
		})
	default:
		return nil
	}
}
