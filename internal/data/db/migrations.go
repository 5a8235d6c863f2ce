package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migration is one versioned schema change with its up and down SQL.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

// MigrationStatus pairs a migration with when it was applied, if ever.
type MigrationStatus struct {
	Migration
	Applied   bool
	AppliedAt time.Time
}

var migrationFile = regexp.MustCompile(`^(\d+)_(.+)\.(up|down)\.sql$`)

// parseFilename splits "NNNN_name.up.sql" / "NNNN_name.down.sql" into its
// version, name, and direction.
func parseFilename(filename string) (int, string, string, error) {
	parts := migrationFile.FindStringSubmatch(filename)
	if parts == nil {
		return 0, "", "", fmt.Errorf("expected format NNNN_name.{up,down}.sql, got %q", filename)
	}

	version, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, "", "", fmt.Errorf("version %q: %w", parts[1], err)
	}
	if version <= 0 {
		return 0, "", "", fmt.Errorf("version must be positive, got %d", version)
	}
	return version, parts[2], parts[3], nil
}

// loadMigrations reads the embedded SQL files in version order. Every version
// needs exactly one up and one down file.
func loadMigrations() ([]Migration, error) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	byVersion := make(map[int]*Migration)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		version, name, direction, err := parseFilename(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("invalid migration filename: %w", err)
		}
		content, err := fs.ReadFile(migrationsFS, "migrations/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}

		m, ok := byVersion[version]
		if !ok {
			m = &Migration{Version: version, Name: name}
			byVersion[version] = m
		}

		target := &m.UpSQL
		if direction == "down" {
			target = &m.DownSQL
		}
		if *target != "" {
			return nil, fmt.Errorf("duplicate %s migration for version %04d", direction, version)
		}
		*target = string(content)
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.UpSQL == "" || m.DownSQL == "" {
			return nil, fmt.Errorf("migration %04d (%s) needs both an up and a down file", m.Version, m.Name)
		}
		migrations = append(migrations, *m)
	}
	slices.SortFunc(migrations, func(a, b Migration) int { return a.Version - b.Version })

	return migrations, nil
}

// migrator applies and reverts the embedded migrations against one
// connection, tracking them in schema_migrations.
type migrator struct {
	conn       *sql.DB
	logger     zerolog.Logger
	migrations []Migration
}

func newMigrator(ctx context.Context, conn *sql.DB, logger zerolog.Logger) (*migrator, error) {
	migrations, err := loadMigrations()
	if err != nil {
		return nil, err
	}

	_, err = conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	return &migrator{conn: conn, logger: logger, migrations: migrations}, nil
}

// status reports every known migration in version order.
func (m *migrator) status(ctx context.Context) ([]MigrationStatus, error) {
	rows, err := m.conn.QueryContext(ctx, "SELECT version, applied_at FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("query schema_migrations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	appliedAt := make(map[int]time.Time)
	for rows.Next() {
		var (
			version int
			nanos   int64
		)
		if err := rows.Scan(&version, &nanos); err != nil {
			return nil, fmt.Errorf("scan schema_migrations: %w", err)
		}
		appliedAt[version] = time.Unix(0, nanos)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]MigrationStatus, len(m.migrations))
	for i, mig := range m.migrations {
		at, ok := appliedAt[mig.Version]
		out[i] = MigrationStatus{Migration: mig, Applied: ok, AppliedAt: at}
	}
	return out, nil
}

// up applies every pending migration and returns how many ran.
func (m *migrator) up(ctx context.Context) (int, error) {
	statuses, err := m.status(ctx)
	if err != nil {
		return 0, err
	}

	ran := 0
	for _, s := range statuses {
		if s.Applied {
			continue
		}
		m.logger.Info().Int("version", s.Version).Str("name", s.Name).Msg("applying migration")
		err := m.step(ctx, s.UpSQL,
			"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
			s.Version, s.Name, time.Now().UnixNano())
		if err != nil {
			return ran, fmt.Errorf("migration %04d (%s): %w", s.Version, s.Name, err)
		}
		ran++
	}
	return ran, nil
}

// down reverts the newest n applied migrations and returns them, newest first.
func (m *migrator) down(ctx context.Context, n int) ([]Migration, error) {
	if n <= 0 {
		return nil, fmt.Errorf("n must be positive, got %d", n)
	}

	statuses, err := m.status(ctx)
	if err != nil {
		return nil, err
	}

	var applied []Migration
	for _, s := range slices.Backward(statuses) {
		if s.Applied {
			applied = append(applied, s.Migration)
		}
	}
	if n > len(applied) {
		return nil, fmt.Errorf("requested %d down migrations but only %d are applied", n, len(applied))
	}

	reverted := applied[:n]
	for i, mig := range reverted {
		m.logger.Info().Int("version", mig.Version).Str("name", mig.Name).Msg("reverting migration")
		err := m.step(ctx, mig.DownSQL, "DELETE FROM schema_migrations WHERE version = ?", mig.Version)
		if err != nil {
			return reverted[:i], fmt.Errorf("revert migration %04d (%s): %w", mig.Version, mig.Name, err)
		}
	}
	return reverted, nil
}

// step runs schema SQL and its bookkeeping statement in one transaction.
func (m *migrator) step(ctx context.Context, schemaSQL, bookkeeping string, args ...any) error {
	tx, err := m.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	if _, err := tx.ExecContext(ctx, bookkeeping, args...); err != nil {
		return fmt.Errorf("update schema_migrations: %w", err)
	}
	return tx.Commit()
}

// migrateUp brings conn to the newest schema.
func migrateUp(ctx context.Context, conn *sql.DB, logger zerolog.Logger) error {
	m, err := newMigrator(ctx, conn, logger)
	if err != nil {
		return err
	}
	_, err = m.up(ctx)
	return err
}

// Migrations reports the state of every schema migration.
func (db *DB) Migrations(ctx context.Context) ([]MigrationStatus, error) {
	m, err := newMigrator(ctx, db.conn, db.logger)
	if err != nil {
		return nil, err
	}
	return m.status(ctx)
}

// Rollback reverts the newest n applied migrations and returns them, newest
// first. The next Open re-applies them.
func (db *DB) Rollback(ctx context.Context, n int) ([]Migration, error) {
	m, err := newMigrator(ctx, db.conn, db.logger)
	if err != nil {
		return nil, err
	}
	return m.down(ctx, n)
}
