package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrSourceNotFound is returned when a source id does not exist.
var ErrSourceNotFound = errors.New("source not found")

// ListSources returns every polling source, enabled or not, in id order.
func (d *Database) ListSources() ([]Source, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rows, err := d.db.Query(`
		SELECT id, name, url, fetch_interval, enabled, last_fetched_at
		FROM http_sources ORDER BY id`)
	observe("list_sources", err)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	return scanSources(rows)
}

// ListEnabledSources returns the enabled polling sources in id order; this is
// the batch the fetch orchestrator walks.
func (d *Database) ListEnabledSources() ([]Source, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rows, err := d.db.Query(`
		SELECT id, name, url, fetch_interval, enabled, last_fetched_at
		FROM http_sources WHERE enabled = 1 ORDER BY id`)
	observe("list_enabled_sources", err)
	if err != nil {
		return nil, fmt.Errorf("failed to list enabled sources: %w", err)
	}
	defer rows.Close()

	return scanSources(rows)
}

// GetSource returns one source by id.
func (d *Database) GetSource(id int64) (*Source, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	row := d.db.QueryRow(`
		SELECT id, name, url, fetch_interval, enabled, last_fetched_at
		FROM http_sources WHERE id = ?`, id)

	src, err := scanSource(row)
	observe("get_source", err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source %d: %w", id, err)
	}
	return src, nil
}

// CreateSource inserts a new polling source and returns it with its id set.
func (d *Database) CreateSource(src Source) (*Source, error) {
	if !src.Interval.Valid() {
		src.Interval = IntervalDaily
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	res, err := d.db.Exec(`
		INSERT INTO http_sources (name, url, fetch_interval, enabled, last_fetched_at)
		VALUES (?, ?, ?, ?, NULL)`,
		src.Name, src.URL, string(src.Interval), boolToInt(src.Enabled))
	observe("create_source", err)
	if err != nil {
		return nil, fmt.Errorf("failed to create source: %w", err)
	}

	src.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read new source id: %w", err)
	}
	src.LastFetchedAt = nil
	return &src, nil
}

// UpdateSource rewrites a source's editable fields. LastFetchedAt is managed
// exclusively through TouchSource.
func (d *Database) UpdateSource(src Source) error {
	if !src.Interval.Valid() {
		src.Interval = IntervalDaily
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	res, err := d.db.Exec(`
		UPDATE http_sources SET name = ?, url = ?, fetch_interval = ?, enabled = ?
		WHERE id = ?`,
		src.Name, src.URL, string(src.Interval), boolToInt(src.Enabled), src.ID)
	observe("update_source", err)
	if err != nil {
		return fmt.Errorf("failed to update source %d: %w", src.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSourceNotFound
	}
	return nil
}

// DeleteSource removes a source.
func (d *Database) DeleteSource(id int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	res, err := d.db.Exec(`DELETE FROM http_sources WHERE id = ?`, id)
	observe("delete_source", err)
	if err != nil {
		return fmt.Errorf("failed to delete source %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSourceNotFound
	}
	return nil
}

// TouchSource records a successful fetch by setting last_fetched_at.
func (d *Database) TouchSource(id int64, fetchedAt time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, err := d.db.Exec(`UPDATE http_sources SET last_fetched_at = ? WHERE id = ?`,
		fetchedAt.UTC().Unix(), id)
	observe("touch_source", err)
	if err != nil {
		return fmt.Errorf("failed to update last_fetched_at for source %d: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSource(row rowScanner) (*Source, error) {
	var (
		src      Source
		interval string
		enabled  int
		fetched  sql.NullInt64
	)
	if err := row.Scan(&src.ID, &src.Name, &src.URL, &interval, &enabled, &fetched); err != nil {
		return nil, err
	}
	src.Interval = Interval(interval)
	src.Enabled = enabled != 0
	if fetched.Valid {
		t := time.Unix(fetched.Int64, 0).UTC()
		src.LastFetchedAt = &t
	}
	return &src, nil
}

func scanSources(rows *sql.Rows) ([]Source, error) {
	var sources []Source
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		sources = append(sources, *src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("source row iteration failed: %w", err)
	}
	return sources, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
