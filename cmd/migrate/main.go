package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/lib/pq"

	"github.com/pageza/recipe-service/config"
	"github.com/pageza/recipe-service/internal/database"
)

const createMigrationsTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	migrationsDir := flag.String("dir", "migrations", "Directory holding the .sql migration files")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("DATABASE_URL is not set and configuration failed to load: %v", err)
		}
		if cfg.StoreDriver != config.DriverPostgres {
			log.Fatalf("migrations only apply to the postgres store, configured driver is %q", cfg.StoreDriver)
		}
		dsn = cfg.PostgresDSN()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(createMigrationsTable); err != nil {
		log.Fatalf("failed to create migrations table: %v", err)
	}

	if *rollback {
		name, err := rollbackLast(db, *migrationsDir)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Successfully rolled back migration: %s\n", name)
		return
	}

	files, err := migrationFiles(*migrationsDir)
	if err != nil {
		log.Fatalf("failed to read migrations directory: %v", err)
	}

	for _, file := range files {
		applied, err := apply(db, *migrationsDir, file)
		if err != nil {
			log.Fatal(err)
		}
		if applied {
			fmt.Printf("Successfully applied migration: %s\n", file)
		} else {
			fmt.Printf("Migration already applied: %s\n", file)
		}
	}

	fmt.Println("All migrations applied successfully.")
}

// migrationFiles lists forward migrations in the order they apply
func migrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".sql" || strings.HasSuffix(name, "_rollback.sql") {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}

func apply(db *sql.DB, dir, file string) (bool, error) {
	version := database.MigrationVersion(file)

	var applied bool
	if err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)", version).Scan(&applied); err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	if applied {
		return false, nil
	}

	content, err := os.ReadFile(filepath.Join(dir, file))
	if err != nil {
		return false, fmt.Errorf("failed to read migration %s: %w", file, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to start transaction: %w", err)
	}
	if _, err := tx.Exec(string(content)); err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("failed to apply migration %s: %w", file, err)
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", version, file); err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("failed to record migration: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit migration: %w", err)
	}
	return true, nil
}

func rollbackLast(db *sql.DB, dir string) (string, error) {
	var version, name string
	err := db.QueryRow(`
		SELECT version, name
		FROM schema_migrations
		ORDER BY applied_at DESC, version DESC
		LIMIT 1
	`).Scan(&version, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errors.New("no migrations to rollback")
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last migration: %w", err)
	}

	rollbackPath := filepath.Join(dir, strings.TrimSuffix(name, ".sql")+"_rollback.sql")
	content, err := os.ReadFile(rollbackPath)
	if err != nil {
		return "", fmt.Errorf("failed to read rollback file: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to start transaction: %w", err)
	}
	if _, err := tx.Exec(string(content)); err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("failed to execute rollback: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM schema_migrations WHERE version = $1", version); err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("failed to remove migration record: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit rollback: %w", err)
	}
	return name, nil
}
