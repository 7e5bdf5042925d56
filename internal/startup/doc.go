// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig].
// The following environment variables are supported:
//
//   - MEDIA_DIR: Path to the content store root holding images/ and previews/ (default: /media)
//   - DATABASE_DIR: Path to database directory (default: /database)
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable metrics server (default: true)
//   - POLL_INTERVAL: HTTP source polling batch interval as Go duration (default: 5m)
//   - CLEANUP_INTERVAL: Retention cleanup interval as Go duration (default: 1h)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//
// Runtime-tunable settings (polling sources, the Telegram credential, the
// slideshow display options, the retention limit) live in the database and
// are edited through the HTTP API, not the environment.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo].
package startup
