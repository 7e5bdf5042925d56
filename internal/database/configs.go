package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetTelegramConfig returns the active bot credential. If no credential was
// ever saved the caller gets ErrNotConfigured; there is no sensible default
// for a bot token.
func (d *Database) GetTelegramConfig() (*TelegramConfig, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	row := d.db.QueryRow(`
		SELECT bot_token, chat_id, enabled FROM telegram_config
		ORDER BY updated_at DESC, id DESC LIMIT 1`)

	var (
		cfg     TelegramConfig
		enabled int
	)
	err := row.Scan(&cfg.BotToken, &cfg.ChatID, &enabled)
	observe("get_telegram_config", err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotConfigured
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read telegram config: %w", err)
	}
	cfg.Enabled = enabled != 0
	return &cfg, nil
}

// SetTelegramConfig saves the bot credential with last-write-wins semantics:
// any previously stored credential rows are removed in the same transaction.
func (d *Database) SetTelegramConfig(cfg TelegramConfig) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tx, err := d.db.Begin()
	if err != nil {
		observe("set_telegram_config", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM telegram_config`); err != nil {
		observe("set_telegram_config", err)
		return fmt.Errorf("failed to clear previous telegram config: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO telegram_config (bot_token, chat_id, enabled, updated_at)
		VALUES (?, ?, ?, ?)`,
		cfg.BotToken, cfg.ChatID, boolToInt(cfg.Enabled), time.Now().UTC().Unix())
	if err != nil {
		observe("set_telegram_config", err)
		return fmt.Errorf("failed to save telegram config: %w", err)
	}

	err = tx.Commit()
	observe("set_telegram_config", err)
	if err != nil {
		return fmt.Errorf("failed to commit telegram config: %w", err)
	}
	return nil
}

// GetSlideshowConfig returns the slideshow settings, creating the row with
// defaults on first read.
func (d *Database) GetSlideshowConfig() (*SlideshowConfig, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	row := d.db.QueryRow(`
		SELECT grid_fetch_interval_seconds, slide_interval_seconds, transition, transition_mode
		FROM slideshow_config WHERE id = 1`)

	var cfg SlideshowConfig
	err := row.Scan(&cfg.GridFetchIntervalSeconds, &cfg.SlideIntervalSeconds,
		&cfg.Transition, &cfg.TransitionMode)
	if errors.Is(err, sql.ErrNoRows) {
		cfg = defaultSlideshowConfig
		_, err = d.db.Exec(`
			INSERT INTO slideshow_config (id, grid_fetch_interval_seconds, slide_interval_seconds, transition, transition_mode)
			VALUES (1, ?, ?, ?, ?)`,
			cfg.GridFetchIntervalSeconds, cfg.SlideIntervalSeconds, cfg.Transition, cfg.TransitionMode)
	}
	observe("get_slideshow_config", err)
	if err != nil {
		return nil, fmt.Errorf("failed to read slideshow config: %w", err)
	}
	return &cfg, nil
}

// SetSlideshowConfig replaces the slideshow settings.
func (d *Database) SetSlideshowConfig(cfg SlideshowConfig) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, err := d.db.Exec(`
		INSERT INTO slideshow_config (id, grid_fetch_interval_seconds, slide_interval_seconds, transition, transition_mode)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			grid_fetch_interval_seconds = excluded.grid_fetch_interval_seconds,
			slide_interval_seconds = excluded.slide_interval_seconds,
			transition = excluded.transition,
			transition_mode = excluded.transition_mode`,
		cfg.GridFetchIntervalSeconds, cfg.SlideIntervalSeconds, cfg.Transition, cfg.TransitionMode)
	observe("set_slideshow_config", err)
	if err != nil {
		return fmt.Errorf("failed to save slideshow config: %w", err)
	}
	return nil
}

// GetCleanupConfig returns the retention policy, creating the row with
// defaults on first read.
func (d *Database) GetCleanupConfig() (*CleanupConfig, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	row := d.db.QueryRow(`SELECT max_store_size_mb FROM cleanup_config WHERE id = 1`)

	var cfg CleanupConfig
	err := row.Scan(&cfg.MaxStoreSizeMB)
	if errors.Is(err, sql.ErrNoRows) {
		cfg = defaultCleanupConfig
		_, err = d.db.Exec(`INSERT INTO cleanup_config (id, max_store_size_mb) VALUES (1, ?)`,
			cfg.MaxStoreSizeMB)
	}
	observe("get_cleanup_config", err)
	if err != nil {
		return nil, fmt.Errorf("failed to read cleanup config: %w", err)
	}
	return &cfg, nil
}

// SetCleanupConfig replaces the retention policy.
func (d *Database) SetCleanupConfig(cfg CleanupConfig) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, err := d.db.Exec(`
		INSERT INTO cleanup_config (id, max_store_size_mb) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET max_store_size_mb = excluded.max_store_size_mb`,
		cfg.MaxStoreSizeMB)
	observe("set_cleanup_config", err)
	if err != nil {
		return fmt.Errorf("failed to save cleanup config: %w", err)
	}
	return nil
}
