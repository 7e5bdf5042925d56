package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"screensaver-bot/internal/logging"
	"screensaver-bot/internal/metrics"
)

// Default timeout for database operations
const defaultTimeout = 5 * time.Second

// ErrNotConfigured is returned when a required configuration record (the
// Telegram bot credential) has never been saved.
var ErrNotConfigured = errors.New("not configured")

// Database manages all persistent state for the screensaver bot.
type Database struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// New opens (and creates if necessary) the SQLite database at dbPath.
// dbPath must be the full path to the database FILE and its parent directory
// must already exist and be writable; startup.LoadConfig() validates this.
func New(ctx context.Context, dbPath string) (*Database, error) {
	logging.Info("Database path: %s", dbPath)

	// WAL mode plus busy_timeout keeps concurrent webhook/poller/cleanup
	// writers from tripping over "database is locked".
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

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

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
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

func (d *Database) initialize(ctx context.Context) error {
	schema := `
	-- HTTP polling sources
	CREATE TABLE IF NOT EXISTS http_sources (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		url TEXT NOT NULL,
		fetch_interval TEXT NOT NULL DEFAULT 'daily',
		enabled INTEGER NOT NULL DEFAULT 1,
		last_fetched_at INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_http_sources_enabled ON http_sources(enabled);

	-- Telegram bot credential (at most one row, last write wins)
	CREATE TABLE IF NOT EXISTS telegram_config (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		bot_token TEXT NOT NULL,
		chat_id TEXT NOT NULL,
		enabled INTEGER NOT NULL DEFAULT 1,
		updated_at INTEGER NOT NULL
	);

	-- Slideshow display settings (singleton, created with defaults on read)
	CREATE TABLE IF NOT EXISTS slideshow_config (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		grid_fetch_interval_seconds INTEGER NOT NULL,
		slide_interval_seconds INTEGER NOT NULL,
		transition TEXT NOT NULL,
		transition_mode TEXT NOT NULL
	);

	-- Retention policy (singleton, created with defaults on read)
	CREATE TABLE IF NOT EXISTS cleanup_config (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		max_store_size_mb INTEGER NOT NULL
	);

	-- Persisted application log, written by the logging sink
	CREATE TABLE IF NOT EXISTS app_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp INTEGER NOT NULL,
		level TEXT NOT NULL,
		message TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_app_log_timestamp ON app_log(timestamp);
	CREATE INDEX IF NOT EXISTS idx_app_log_level ON app_log(level);
	`

	execCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := d.db.ExecContext(execCtx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// Path returns the database file path.
func (d *Database) Path() string {
	return d.dbPath
}

// Ping verifies the database connection is alive.
func (d *Database) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return d.db.PingContext(pingCtx)
}

// GetStats returns store counts for the metrics collector.
func (d *Database) GetStats() (Stats, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var s Stats
	row := d.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM http_sources),
			(SELECT COUNT(*) FROM http_sources WHERE enabled = 1),
			(SELECT COUNT(*) FROM app_log)
	`)
	if err := row.Scan(&s.TotalSources, &s.EnabledSources, &s.LogEntries); err != nil {
		return Stats{}, fmt.Errorf("failed to collect stats: %w", err)
	}
	return s, nil
}

// observe records a query outcome metric.
func observe(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
}
