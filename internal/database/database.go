package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"asset-browser/internal/logging"
	"asset-browser/internal/metrics"
)

// Default timeout for database operations
const defaultTimeout = 5 * time.Second

// DefaultRecentRuns is the number of runs RecentRuns returns when no limit is given.
const DefaultRecentRuns = 20

// Database keeps the history of indexing runs.
type Database struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// New opens (or creates) the run-history database.
// dbPath is the full path to the database FILE (e.g., "/database/runs.db");
// its parent directory must already exist and be writable.
func New(ctx context.Context, dbPath string) (*Database, error) {
	logging.Info("Database path: %s", dbPath)

	if err := diagnoseDatabasePermissions(dbPath); err != nil {
		logging.Warn("Database permission diagnostics: %v", err)
	}

	// busy_timeout helps prevent "database is locked" errors
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=10000&_temp_store=MEMORY&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One writer at a time is plenty for run history.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	d := &Database{
		db:     db,
		dbPath: dbPath,
	}

	if err := d.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	logging.Info("Database initialized successfully at %s", dbPath)
	return d, nil
}

func (d *Database) initialize(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { recordQuery("initialize_schema", start, err) }()

	schema := `
	-- Indexing runs
	CREATE TABLE IF NOT EXISTS index_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		target TEXT NOT NULL DEFAULT '',
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		collections_found INTEGER NOT NULL DEFAULT 0,
		collections_finished INTEGER NOT NULL DEFAULT 0,
		packs_found INTEGER NOT NULL DEFAULT 0,
		packs_finished INTEGER NOT NULL DEFAULT 0,
		assets_found INTEGER NOT NULL DEFAULT 0,
		assets_finished INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_index_runs_started ON index_runs(started_at);

	-- Metadata table
	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT
	);
	`

	if _, err = d.db.ExecContext(ctx, schema); err != nil {
		return err
	}

	return d.runMigrations(ctx)
}

// runMigrations applies database schema migrations
func (d *Database) runMigrations(ctx context.Context) error {
	// Migration 1: early databases recorded runs without a target column
	var targetExists bool
	err := d.db.QueryRowContext(ctx, `
		SELECT COUNT(*) > 0
		FROM pragma_table_info('index_runs')
		WHERE name='target'
	`).Scan(&targetExists)
	if err != nil {
		return fmt.Errorf("failed to check for target column: %w", err)
	}

	if !targetExists {
		logging.Info("Migrating database: adding target column to index_runs table")

		_, err = d.db.ExecContext(ctx, `
			ALTER TABLE index_runs ADD COLUMN target TEXT NOT NULL DEFAULT ''
		`)
		if err != nil {
			return fmt.Errorf("failed to add target column: %w", err)
		}

		logging.Info("Migration complete: target column added")
	}

	return nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// Path returns the database file path.
func (d *Database) Path() string {
	return d.dbPath
}

// RecordRun stores a finished run and returns its id.
func (d *Database) RecordRun(ctx context.Context, run IndexRun) (id int64, err error) {
	start := time.Now()
	defer func() { recordQuery("record_run", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := d.db.ExecContext(ctx, `
		INSERT INTO index_runs (
			kind, target, started_at, finished_at,
			collections_found, collections_finished,
			packs_found, packs_finished,
			assets_found, assets_finished,
			error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		string(run.Kind), run.Target, run.StartedAt.UnixMilli(), run.FinishedAt.UnixMilli(),
		run.Collections.Found, run.Collections.Finished,
		run.Packs.Found, run.Packs.Finished,
		run.Assets.Found, run.Assets.Finished,
		run.Error,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record run: %w", err)
	}
	return res.LastInsertId()
}

// RecentRuns returns up to limit runs, newest first. A limit of zero or less
// means DefaultRecentRuns.
func (d *Database) RecentRuns(ctx context.Context, limit int) (runs []IndexRun, err error) {
	start := time.Now()
	defer func() { recordQuery("recent_runs", start, err) }()

	if limit <= 0 {
		limit = DefaultRecentRuns
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx, `
		SELECT id, kind, target, started_at, finished_at,
			collections_found, collections_finished,
			packs_found, packs_finished,
			assets_found, assets_finished,
			error
		FROM index_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			logging.Warn("failed to close rows: %v", closeErr)
		}
	}()

	runs = []IndexRun{}
	for rows.Next() {
		var (
			run                 IndexRun
			kind                string
			startedMs, finishMs int64
		)
		if err = rows.Scan(
			&run.ID, &kind, &run.Target, &startedMs, &finishMs,
			&run.Collections.Found, &run.Collections.Finished,
			&run.Packs.Found, &run.Packs.Finished,
			&run.Assets.Found, &run.Assets.Finished,
			&run.Error,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Kind = RunKind(kind)
		run.StartedAt = time.UnixMilli(startedMs)
		run.FinishedAt = time.UnixMilli(finishMs)
		runs = append(runs, run)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// recordQuery records database query metrics
func recordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(duration)
}

// diagnoseDatabasePermissions checks database directory and file permissions
func diagnoseDatabasePermissions(dbPath string) error {
	dir := filepath.Dir(dbPath)

	dirInfo, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot stat database directory: %w", err)
	}

	logging.Debug("Database directory: %s (mode: %v)", dir, dirInfo.Mode())

	testFile := filepath.Join(dir, ".perm-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		return fmt.Errorf("database directory not writable: %w", err)
	}
	_ = os.Remove(testFile) // Explicitly ignore cleanup error
	logging.Debug("Database directory is writable")

	if dbInfo, err := os.Stat(dbPath); err == nil {
		logging.Debug("Database file exists: %s (mode: %v, size: %d bytes)", dbPath, dbInfo.Mode(), dbInfo.Size())
		if dbInfo.Mode().Perm()&0o200 == 0 {
			logging.Warn("Database file is read-only! Mode: %v", dbInfo.Mode())
		}
	}

	for _, suffix := range []string{"-wal", "-shm"} {
		sidecar := dbPath + suffix
		info, err := os.Stat(sidecar)
		if err != nil {
			continue
		}
		logging.Debug("Database sidecar exists: %s (mode: %v, size: %d bytes)", sidecar, info.Mode(), info.Size())
		if info.Mode().Perm()&0o200 == 0 {
			logging.Warn("Database sidecar %s is read-only! Mode: %v - this will cause write failures", sidecar, info.Mode())
			if chmodErr := os.Chmod(sidecar, 0o600); chmodErr != nil {
				logging.Error("Failed to fix %s permissions: %v", sidecar, chmodErr)
			} else {
				logging.Info("Fixed %s permissions", sidecar)
			}
		}
	}

	return nil
}
