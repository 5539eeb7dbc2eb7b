package testhelpers

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"gorm.io/gorm"

	"github.com/pageza/recipe-service/config"
	"github.com/pageza/recipe-service/internal/database"
)

// MigrationsDir locates the repository's migrations directory
func MigrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

// SetupSQLiteDB returns a migrated in-memory sqlite database private to the test
func SetupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.New(&config.Config{
		StoreDriver: config.DriverSQLite,
		SQLitePath:  ":memory:",
		LogLevel:    "info",
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db, MigrationsDir()))

	t.Cleanup(func() {
		if err := database.Close(db); err != nil {
			t.Logf("failed to close sqlite database: %v", err)
		}
	})
	return db
}

// requireDocker skips container-based tests in -short mode or without a
// reachable container runtime
func requireDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
}

func startContainer(t *testing.T, req testcontainers.ContainerRequest) (string, nat.Port) {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start %s container", req.Image)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, nat.Port(req.ExposedPorts[0]))
	require.NoError(t, err)
	return host, port
}

// SetupPostgresDB starts a postgres container and applies the SQL migrations
func SetupPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	requireDocker(t)

	const user, password, name = "recipes", "recipes", "recipes"
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": password,
			"POSTGRES_DB":       name,
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
			return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port.Port(), name)
		}).WithStartupTimeout(60 * time.Second),
	})

	db, err := database.New(&config.Config{
		StoreDriver: config.DriverPostgres,
		DBHost:      host,
		DBPort:      port.Port(),
		DBUser:      user,
		DBPassword:  password,
		DBName:      name,
		DBSSLMode:   "disable",
		LogLevel:    "info",
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db, MigrationsDir()))

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// SetupMongoCollection starts a MongoDB container and returns a fresh collection
func SetupMongoCollection(t *testing.T) *mongo.Collection {
	t.Helper()
	requireDocker(t)

	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(60 * time.Second),
	})

	cfg := &config.Config{
		MongoURI:        fmt.Sprintf("mongodb://%s:%s", host, port.Port()),
		MongoDatabase:   "recipes_test",
		MongoCollection: "recipes",
	}
	client, err := database.NewMongoClient(context.Background(), cfg)
	require.NoError(t, err)

	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	return database.RecipeCollection(client, cfg)
}

// SetupRedis starts a Redis container and returns a connected client
func SetupRedis(t *testing.T) *redis.Client {
	t.Helper()
	requireDocker(t)

	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	})

	client, err := database.NewRedisClient(&config.Config{RedisHost: host, RedisPort: port.Port()})
	require.NoError(t, err)

	t.Cleanup(func() { _ = client.Close() })
	return client
}
