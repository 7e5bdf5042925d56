// Package database manages the SQLite store backing the screensaver bot:
// HTTP polling sources, the Telegram bot credential, slideshow and cleanup
// configuration, and persisted application log entries.
//
// Configuration records follow a singleton pattern: at most one row exists,
// writes are last-write-wins, and reads create the row with defaults when it
// is missing. The Telegram credential is the exception: it has no sensible
// default, so reading it before it was ever saved returns ErrNotConfigured.
package database
