package database

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Migration represents a database migration
type Migration struct {
	Version  string
	Title    string
	UpSQL    string
	DownSQL  string
	Checksum string // SHA256 checksum of UpSQL content
}

// MigrationExecutor handles database migrations
type MigrationExecutor struct {
	db *sql.DB
}

// NewMigrationExecutor creates a new migration executor
func NewMigrationExecutor(db *sql.DB) *MigrationExecutor {
	return &MigrationExecutor{db: db}
}

// RunMigrations executes all pending migrations from the migrations directory
func (m *MigrationExecutor) RunMigrations(migrationsPath string) error {
	if err := m.createMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations, err := m.readMigrationFiles(migrationsPath)
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	if err := m.validateMigrationChecksums(migrations); err != nil {
		return fmt.Errorf("migration validation failed: %w", err)
	}

	applied, err := m.getAppliedMigrations()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, migration := range migrations {
		if !contains(applied, migration.Version) {
			if err := m.executeMigration(migration); err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", migration.Version, err)
			}
			slog.Info("Applied migration", "version", migration.Version, "title", migration.Title)
		}
	}

	return nil
}

// createMigrationsTable creates the migrations tracking table
func (m *MigrationExecutor) createMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			title VARCHAR(500),
			checksum VARCHAR(64),
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := m.db.Exec(query)
	return err
}

// readMigrationFiles reads all NNNN_name.up.sql / NNNN_name.down.sql pairs
func (m *MigrationExecutor) readMigrationFiles(migrationsPath string) ([]Migration, error) {
	files, err := os.ReadDir(migrationsPath)
	if err != nil {
		return nil, err
	}

	migrationsMap := make(map[string]*Migration)

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		filename := file.Name()
		if !strings.HasSuffix(filename, ".sql") {
			continue
		}

		parts := strings.SplitN(filename, "_", 2)
		if len(parts) < 2 {
			continue
		}
		version := parts[0]

		isUp := strings.HasSuffix(filename, ".up.sql")
		isDown := strings.HasSuffix(filename, ".down.sql")
		if !isUp && !isDown {
			continue
		}

		content, err := os.ReadFile(filepath.Join(migrationsPath, filename))
		if err != nil {
			return nil, err
		}

		mig, ok := migrationsMap[version]
		if !ok {
			title := strings.TrimSuffix(strings.TrimSuffix(parts[1], ".up.sql"), ".down.sql")
			title = strings.ReplaceAll(title, "_", " ")
			mig = &Migration{Version: version, Title: title}
			migrationsMap[version] = mig
		}

		if isUp {
			mig.UpSQL = string(content)
			sum := sha256.Sum256(content)
			mig.Checksum = hex.EncodeToString(sum[:])
		} else {
			mig.DownSQL = string(content)
		}
	}

	var migrations []Migration
	for _, mig := range migrationsMap {
		if mig.UpSQL == "" {
			return nil, fmt.Errorf("migration %s has no up file", mig.Version)
		}
		migrations = append(migrations, *mig)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// validateMigrationChecksums verifies applied migrations were not edited afterwards
func (m *MigrationExecutor) validateMigrationChecksums(migrations []Migration) error {
	rows, err := m.db.Query(`SELECT version, checksum FROM schema_migrations WHERE checksum IS NOT NULL`)
	if err != nil {
		return err
	}
	defer rows.Close()

	appliedChecksums := make(map[string]string)
	for rows.Next() {
		var version, checksum string
		if err := rows.Scan(&version, &checksum); err != nil {
			return err
		}
		appliedChecksums[version] = checksum
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, migration := range migrations {
		if applied, ok := appliedChecksums[migration.Version]; ok && applied != migration.Checksum {
			return fmt.Errorf("migration %s was modified after being applied (checksum mismatch)", migration.Version)
		}
	}

	return nil
}

// getAppliedMigrations returns the versions already recorded
func (m *MigrationExecutor) getAppliedMigrations() ([]string, error) {
	rows, err := m.db.Query(`SELECT version FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		versions = append(versions, version)
	}
	return versions, rows.Err()
}

// executeMigration runs one migration inside a transaction
func (m *MigrationExecutor) executeMigration(migration Migration) error {
	tx, err := m.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(migration.UpSQL); err != nil {
		return err
	}

	if _, err := tx.Exec(
		`INSERT INTO schema_migrations (version, title, checksum) VALUES ($1, $2, $3)`,
		migration.Version, migration.Title, migration.Checksum,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
