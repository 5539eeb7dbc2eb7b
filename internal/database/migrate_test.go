package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pageza/recipe-service/config"
	"github.com/pageza/recipe-service/internal/model"
)

func TestMigrationVersion(t *testing.T) {
	assert.Equal(t, "0001", MigrationVersion("0001_create_recipes.sql"))
	assert.Equal(t, "0002", MigrationVersion("0002_add_index.sql"))
	assert.Equal(t, "baseline", MigrationVersion("baseline.sql"))
}

func TestRunMigrationsSQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, RunMigrations(db, "does-not-matter"))
	assert.True(t, db.Migrator().HasTable(&model.Recipe{}))
	assert.True(t, db.Migrator().HasColumn(&model.Recipe{}, "ingredients"))
	assert.True(t, db.Migrator().HasColumn(&model.Recipe{}, "version"))
}

func TestNewSQLite(t *testing.T) {
	cfg := &config.Config{
		StoreDriver: config.DriverSQLite,
		SQLitePath:  ":memory:",
		LogLevel:    "info",
	}

	db, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", db.Dialector.Name())
	assert.NoError(t, Close(db))
}

func TestNewRejectsMongoDriver(t *testing.T) {
	_, err := New(&config.Config{StoreDriver: config.DriverMongo})
	assert.Error(t, err)
}

func TestNewSQLiteFoldsUnicodeCase(t *testing.T) {
	db, err := New(&config.Config{StoreDriver: config.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	defer func() { _ = Close(db) }()

	var lowered string
	require.NoError(t, db.Raw("SELECT "+SQLiteLowerFunc+"(?)", "ĆEVAPI Šljivovica").Scan(&lowered).Error)
	assert.Equal(t, "ćevapi šljivovica", lowered)
}

func TestNewSQLiteUnreachablePath(t *testing.T) {
	_, err := New(&config.Config{
		StoreDriver: config.DriverSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "missing", "recipes.db"),
	})
	assert.Error(t, err)
}
