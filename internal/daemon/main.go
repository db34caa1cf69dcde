// Package daemon opens the panel database, migrates the provisioning tables
// and runs the web service.
package daemon

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/GoWings-Provision/GoWings-Provision/internal/config"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/dsn"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
	"github.com/GoWings-Provision/GoWings-Provision/internal/web"
)

// GormEngineSQLite selects the embedded sqlite driver instead of mysql.
// Used for development and tests; cfg.DB.Name is the database file path.
const GormEngineSQLite = "sqlite"

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService web.Service
}

// Start runs the Daemon's web service until a shutdown signal arrives.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	dbDriver := gormmysql.Open(dsn.Create(cfg))
	if cfg.DB.GormEngine == GormEngineSQLite {
		dbDriver = sqlite.Open(cfg.DB.Name)
	}

	db, err := gorm.Open(dbDriver, &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	// Only the provisioning tables are owned by this service. The panel
	// tables (users, nodes, spells, ...) are read in place and never migrated.
	if err = db.AutoMigrate(
		&models.Group{},
		&models.GroupPermission{},
		&models.UserGroup{},
		&models.UserPermission{},
		&models.ResourcePermission{},
		&models.Setting{},
		&models.Activity{},
	); err != nil {
		panic("failed to migrate database")
	}

	seed(cfg, db)

	return &Daemon{
		cfg:        cfg,
		webService: *web.New(cfg, db),
	}
}
