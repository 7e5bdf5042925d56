package ingest

import (
	"time"

	"screensaver-bot/internal/database"
)

// intervalSeconds maps each interval class to its refresh period. Monthly is
// a fixed 30-day month, not calendar-aware; an accepted approximation.
var intervalSeconds = map[database.Interval]int64{
	database.IntervalHourly:  3_600,
	database.IntervalDaily:   86_400,
	database.IntervalWeekly:  604_800,
	database.IntervalMonthly: 2_592_000,
}

// IntervalDuration returns the refresh period for an interval class.
// Unknown classes fall back to daily.
func IntervalDuration(i database.Interval) time.Duration {
	secs, ok := intervalSeconds[i]
	if !ok {
		secs = intervalSeconds[database.IntervalDaily]
	}
	return time.Duration(secs) * time.Second
}

// IsDue reports whether a source should be refreshed at now. A source that
// was never fetched is always due; otherwise it is due once its interval has
// fully elapsed since the last fetch.
func IsDue(src database.Source, now time.Time) bool {
	if src.LastFetchedAt == nil {
		return true
	}
	next := src.LastFetchedAt.Add(IntervalDuration(src.Interval))
	return !now.Before(next)
}
