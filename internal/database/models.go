package database

import "time"

// Interval classifies how often a polling source should be refreshed.
type Interval string

const (
	IntervalHourly  Interval = "hourly"
	IntervalDaily   Interval = "daily"
	IntervalWeekly  Interval = "weekly"
	IntervalMonthly Interval = "monthly"
)

// Valid reports whether the interval is one of the supported classes.
func (i Interval) Valid() bool {
	switch i {
	case IntervalHourly, IntervalDaily, IntervalWeekly, IntervalMonthly:
		return true
	}
	return false
}

// Source is one HTTP polling origin. LastFetchedAt is nil until the first
// successful fetch.
type Source struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	URL           string     `json:"url"`
	Interval      Interval   `json:"interval"`
	Enabled       bool       `json:"enabled"`
	LastFetchedAt *time.Time `json:"lastFetchedAt,omitempty"`
}

// TelegramConfig is the single active bot credential record.
type TelegramConfig struct {
	BotToken string `json:"botToken"`
	ChatID   string `json:"chatId"`
	Enabled  bool   `json:"enabled"`
}

// SlideshowConfig holds the browser slideshow display settings.
type SlideshowConfig struct {
	GridFetchIntervalSeconds int    `json:"gridFetchIntervalSeconds"`
	SlideIntervalSeconds     int    `json:"slideIntervalSeconds"`
	Transition               string `json:"transition"`
	TransitionMode           string `json:"transitionMode"`
}

// Transitions lists the slideshow transition effects the frontend knows about.
var Transitions = []string{
	"burn", "fade", "slide", "zoom", "blur", "flip",
	"wipe-up", "wipe-down", "iris", "newspaper", "glitch", "squeeze",
}

// TransitionModes are the supported transition selection strategies.
var TransitionModes = []string{"fixed", "random"}

// CleanupConfig holds the retention policy for the image store.
type CleanupConfig struct {
	MaxStoreSizeMB int64 `json:"maxStoreSizeMb"`
}

// MaxStoreSizeBytes returns the retention limit in bytes.
func (c CleanupConfig) MaxStoreSizeBytes() int64 {
	return c.MaxStoreSizeMB * 1024 * 1024
}

// LogEntry is one persisted application log record.
type LogEntry struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// Stats summarizes the store for the metrics collector.
type Stats struct {
	TotalSources   int
	EnabledSources int
	LogEntries     int
}

// Defaults applied on first read of the singleton configuration rows.
var (
	defaultSlideshowConfig = SlideshowConfig{
		GridFetchIntervalSeconds: 60,
		SlideIntervalSeconds:     5,
		Transition:               "burn",
		TransitionMode:           "random",
	}
	defaultCleanupConfig = CleanupConfig{
		MaxStoreSizeMB: 500,
	}
)
