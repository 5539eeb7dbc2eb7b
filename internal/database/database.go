package database

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pageza/recipe-service/config"
)

// New opens the relational database selected by cfg.StoreDriver
func New(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		// Log connection target (without password)
		slog.Info("connecting to postgres", "host", cfg.DBHost, "port", cfg.DBPort, "user", cfg.DBUser, "db", cfg.DBName)
		dialector = postgres.Open(cfg.PostgresDSN())
	case config.DriverSQLite:
		slog.Info("opening sqlite database", "path", cfg.SQLitePath)
		dialector = sqlite.New(sqlite.Config{
			DriverName: SQLiteDriverName,
			DSN:        cfg.SQLitePath,
		})
	default:
		return nil, fmt.Errorf("store driver %q is not a SQL database", cfg.StoreDriver)
	}

	logLevel := logger.Warn
	if cfg.LogLevel == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		// gorm pings while opening; release the pool it already created
		closeQuietly(db)
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting database handle: %w", err)
	}

	// Set connection pool settings
	if cfg.StoreDriver == config.DriverSQLite {
		// sqlite serialises writers; one connection avoids SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	slog.Info("successfully connected to database", "driver", cfg.StoreDriver)
	return db, nil
}

// Close releases the pool behind db
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func closeQuietly(db *gorm.DB) {
	if db == nil || db.ConnPool == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
