package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/lib/pq"
)

// TestContainers holds references to test containers
type TestContainers struct {
	PostgresContainer *postgres.PostgresContainer
	DB                *sql.DB
	DBConnString      string
	JWTSecret         string
}

// SetupTestContainers starts a PostgreSQL container and applies migrations
func SetupTestContainers(t *testing.T) *TestContainers {
	t.Helper()
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:18",
		postgres.WithDatabase("safetrack_test"),
		postgres.WithUsername("safetrack_test"),
		postgres.WithPassword("safetrack_test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	if err := runMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return &TestContainers{
		PostgresContainer: postgresContainer,
		DB:                db,
		DBConnString:      connStr,
		JWTSecret:         "test-secret-key-for-testing-only",
	}
}

// Cleanup terminates the test containers
func (tc *TestContainers) Cleanup(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	if tc.DB != nil {
		tc.DB.Close()
	}

	if tc.PostgresContainer != nil {
		if err := tc.PostgresContainer.Terminate(ctx); err != nil {
			t.Errorf("Failed to terminate PostgreSQL container: %v", err)
		}
	}
}

// runMigrations executes SQL migrations
func runMigrations(db *sql.DB) error {
	migrationsDir := filepath.Join("..", "..", "migrations")

	// Check if running from a deeper test directory
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		migrationsDir = filepath.Join("..", "..", "..", "migrations")
	}

	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to find migration files: %w", err)
	}

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", file, err)
		}
	}

	return nil
}
