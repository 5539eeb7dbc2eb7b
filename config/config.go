package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Store drivers understood by the service
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort      string `validate:"required,numeric"`
	ServerHost      string
	ShutdownTimeout time.Duration `validate:"gt=0"`

	// Storage backend selection
	StoreDriver string `validate:"required,oneof=postgres sqlite mongo"`

	// Database configuration (postgres)
	DBHost     string `validate:"required_if=StoreDriver postgres"`
	DBPort     string `validate:"required_if=StoreDriver postgres"`
	DBUser     string `validate:"required_if=StoreDriver postgres"`
	DBPassword string
	DBName     string `validate:"required_if=StoreDriver postgres"`
	DBSSLMode  string `validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`

	// SQLite configuration
	SQLitePath string `validate:"required_if=StoreDriver sqlite"`

	// Directory of .sql migrations applied to SQL stores at startup
	MigrationsDir string

	// MongoDB configuration
	MongoURI        string `validate:"required_if=StoreDriver mongo"`
	MongoDatabase   string `validate:"required_if=StoreDriver mongo"`
	MongoCollection string `validate:"required_if=StoreDriver mongo"`

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int `validate:"gte=0"`
	RedisURL      string

	// Rate limiting for mutating routes
	RateLimitEnabled bool
	RateLimitWindow  time.Duration `validate:"required_if=RateLimitEnabled true"`
	RateLimitMax     int           `validate:"gte=0"`
	RateLimitRPS     float64       `validate:"gte=0"`
	RateLimitBurst   int           `validate:"gte=0"`

	// HTTP surface
	CORSAllowedOrigins []string

	// Observability
	LogLevel     string `validate:"oneof=debug info warn error"`
	OTELEndpoint string
	ServiceName  string `validate:"required"`
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return net.JoinHostPort(c.ServerHost, c.ServerPort)
}

// RedisConfigured reports whether enough settings exist to dial Redis
func (c *Config) RedisConfigured() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// PostgresDSN builds the connection string for the postgres driver
func (c *Config) PostgresDSN() string {
	sslMode := c.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, sslMode,
	)
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := defaults()

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	// Load sensitive values based on environment
	switch env {
	case CI:
		loadCISecrets(cfg)
	case Development, Test:
		loadDevSecrets(cfg)
	case Production:
		loadProdSecrets(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		ServerPort:       "8080",
		ShutdownTimeout:  5 * time.Second,
		StoreDriver:      DriverMongo,
		DBPort:           "5432",
		DBSSLMode:        "disable",
		SQLitePath:       "recipes.db",
		MigrationsDir:    "migrations",
		MongoURI:         "mongodb://localhost:27017",
		MongoDatabase:    "recipes",
		MongoCollection:  "recipes",
		RateLimitEnabled: true,
		RateLimitWindow:  time.Minute,
		RateLimitMax:     60,
		RateLimitRPS:     1,
		RateLimitBurst:   10,
		LogLevel:         "info",
		ServiceName:      "recipe-service",
	}
}

// loadFromEnv overlays non-sensitive settings from environment variables
func loadFromEnv(cfg *Config) error {
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.ServerHost = getEnv("SERVER_HOST", cfg.ServerHost)
	cfg.StoreDriver = strings.ToLower(getEnv("STORE_DRIVER", cfg.StoreDriver))
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnv("DB_PORT", cfg.DBPort)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", cfg.DBSSLMode)
	cfg.SQLitePath = getEnv("SQLITE_PATH", cfg.SQLitePath)
	cfg.MigrationsDir = getEnv("MIGRATIONS_DIR", cfg.MigrationsDir)
	cfg.MongoDatabase = getEnv("MONGO_DATABASE", cfg.MongoDatabase)
	cfg.MongoCollection = getEnv("MONGO_COLLECTION", cfg.MongoCollection)
	cfg.RedisHost = getEnv("REDIS_HOST", cfg.RedisHost)
	cfg.RedisPort = getEnv("REDIS_PORT", cfg.RedisPort)
	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", cfg.LogLevel))
	cfg.OTELEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTELEndpoint)
	cfg.ServiceName = getEnv("SERVICE_NAME", cfg.ServiceName)

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSAllowedOrigins = splitList(origins)
	}

	var err error
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", cfg.RedisDB); err != nil {
		return err
	}
	if cfg.RateLimitEnabled, err = getEnvBool("RATE_LIMIT_ENABLED", cfg.RateLimitEnabled); err != nil {
		return err
	}
	if cfg.RateLimitWindow, err = getEnvDuration("RATE_LIMIT_WINDOW", cfg.RateLimitWindow); err != nil {
		return err
	}
	if cfg.RateLimitMax, err = getEnvInt("RATE_LIMIT_MAX", cfg.RateLimitMax); err != nil {
		return err
	}
	if cfg.RateLimitRPS, err = getEnvFloat("RATE_LIMIT_RPS", cfg.RateLimitRPS); err != nil {
		return err
	}
	if cfg.RateLimitBurst, err = getEnvInt("RATE_LIMIT_BURST", cfg.RateLimitBurst); err != nil {
		return err
	}
	if cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return err
	}
	return nil
}

// loadCISecrets reads sensitive values from environment variables only
func loadCISecrets(cfg *Config) {
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.MongoURI = getEnv("MONGO_URI", cfg.MongoURI)
}

// loadDevSecrets prefers environment variables and falls back to Docker secrets
func loadDevSecrets(cfg *Config) {
	cfg.DBPassword = firstNonEmpty(os.Getenv("DB_PASSWORD"), readSecret("db_password"))
	cfg.RedisPassword = firstNonEmpty(os.Getenv("REDIS_PASSWORD"), readSecret("redis_password"))
	cfg.RedisURL = firstNonEmpty(os.Getenv("REDIS_URL"), readSecret("redis_url"))
	cfg.MongoURI = firstNonEmpty(os.Getenv("MONGO_URI"), readSecret("mongo_uri"), cfg.MongoURI)
}

// loadProdSecrets reads sensitive values from Docker secrets only
func loadProdSecrets(cfg *Config) {
	cfg.DBPassword = readSecret("db_password")
	cfg.RedisPassword = readSecret("redis_password")
	cfg.RedisURL = readSecret("redis_url")
	cfg.MongoURI = readSecret("mongo_uri")
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return f, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
