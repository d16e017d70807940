package database

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hugh/buddy-tracker/internal/database/models"
	"github.com/hugh/buddy-tracker/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrDisabled is returned by Connect when no database driver is configured.
var ErrDisabled = errors.New("database disabled")

func Connect(cfg *config.DatabaseConfig, env string, log *slog.Logger) (*gorm.DB, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}

	gormLogger := logger.Default.LogMode(logger.Warn)
	if env == "development" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(SQLiteDSN(cfg.SQLitePath))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying db: %w", err)
	}

	if cfg.Driver == config.DriverSQLite {
		// SQLite serialises writers; one connection also keeps the
		// foreign_keys pragma in force for every statement.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	log.Info("connected to database", "driver", cfg.Driver, "database", databaseName(cfg))

	return db, nil
}

// SQLiteDSN enables foreign key enforcement, which SQLite leaves off by
// default. Cascading deletes depend on it.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_foreign_keys=on"
}

// Migrate brings the schema up to date: versioned SQL migrations on postgres,
// gorm auto-migration on sqlite.
func Migrate(db *gorm.DB, driver string, log *slog.Logger) error {
	switch driver {
	case config.DriverPostgres:
		return RunMigrations(db, log)
	case config.DriverSQLite:
		return AutoMigrate(db)
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("getting underlying db: %w", err)
	}
	return sqlDB.Close()
}

func databaseName(cfg *config.DatabaseConfig) string {
	if cfg.Driver == config.DriverSQLite {
		return cfg.SQLitePath
	}
	return cfg.Host + "/" + cfg.Name
}
