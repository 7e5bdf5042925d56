package database

import (
	"fmt"
	"strings"
	"time"

	"screensaver-bot/internal/logging"
)

// Emit implements logging.Sink. Failures propagate to the logging package,
// which discards them; nothing here may log.
func (d *Database) Emit(level logging.LogLevel, message string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, err := d.db.Exec(`INSERT INTO app_log (timestamp, level, message) VALUES (?, ?, ?)`,
		time.Now().UTC().Unix(), strings.ToUpper(level.String()), message)
	return err
}

// RecentLogs returns up to limit persisted log entries, newest first.
func (d *Database) RecentLogs(limit int) ([]LogEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	rows, err := d.db.Query(`
		SELECT id, timestamp, level, message FROM app_log
		ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	observe("recent_logs", err)
	if err != nil {
		return nil, fmt.Errorf("failed to read logs: %w", err)
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var (
			e  LogEntry
			ts int64
		)
		if err := rows.Scan(&e.ID, &ts, &e.Level, &e.Message); err != nil {
			return nil, fmt.Errorf("failed to scan log row: %w", err)
		}
		e.Timestamp = time.Unix(ts, 0).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("log row iteration failed: %w", err)
	}
	return entries, nil
}

// PruneLogs deletes log entries older than the retention window, returning
// the number removed.
func (d *Database) PruneLogs(olderThan time.Time) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	res, err := d.db.Exec(`DELETE FROM app_log WHERE timestamp < ?`, olderThan.UTC().Unix())
	observe("prune_logs", err)
	if err != nil {
		return 0, fmt.Errorf("failed to prune logs: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
