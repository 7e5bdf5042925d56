package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screensaver_bot_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "screensaver_bot_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "screensaver_bot_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screensaver_bot_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)
)

// Ingestion pipeline metrics
var (
	ImagesSavedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screensaver_bot_images_saved_total",
			Help: "Total number of images normalized and written to the store",
		},
		[]string{"origin"}, // "poll" or "telegram"
	)

	PreviewsGeneratedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "screensaver_bot_previews_generated_total",
			Help: "Total number of preview images generated",
		},
	)

	PreviewCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "screensaver_bot_preview_cache_hits_total",
			Help: "Preview generations skipped because the preview already existed",
		},
	)

	SaveImageDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "screensaver_bot_save_image_duration_seconds",
			Help:    "Time spent decoding and re-encoding one image",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)
)

// Fetch orchestrator metrics
var (
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screensaver_bot_fetches_total",
			Help: "Total number of fetch attempts",
		},
		[]string{"origin", "status"}, // origin: "poll"/"telegram", status: "success"/"error"/"skipped"
	)

	FetchBatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "screensaver_bot_fetch_batches_total",
			Help: "Total number of polling batch runs",
		},
	)

	WebhookUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screensaver_bot_webhook_updates_total",
			Help: "Total number of Telegram webhook updates received",
		},
		[]string{"outcome"}, // "saved", "ignored", "error"
	)
)

// Retention metrics
var (
	CleanupRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "screensaver_bot_cleanup_runs_total",
			Help: "Total number of retention cleanup runs",
		},
	)

	CleanupDeletedImages = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "screensaver_bot_cleanup_deleted_images_total",
			Help: "Total number of images deleted by retention cleanup",
		},
	)

	CleanupDeletedPreviews = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "screensaver_bot_cleanup_deleted_previews_total",
			Help: "Total number of previews deleted by retention cleanup",
		},
	)

	StoreSizeBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "screensaver_bot_store_size_bytes",
			Help: "Total size of the normalized image store in bytes",
		},
	)

	StoreImagesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "screensaver_bot_store_images_total",
			Help: "Number of images currently in the store",
		},
	)
)

// Configuration store metrics
var (
	SourcesTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "screensaver_bot_sources_total",
			Help: "Number of configured HTTP polling sources",
		},
		[]string{"state"}, // "enabled", "disabled"
	)

	LogEntriesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "screensaver_bot_log_entries_total",
			Help: "Number of persisted application log entries",
		},
	)
)

// InitializeMetrics pre-populates expected label combinations so every metric
// is exported from the first Prometheus scrape.
func InitializeMetrics() {
	for _, origin := range []string{"poll", "telegram"} {
		ImagesSavedTotal.WithLabelValues(origin)
		for _, status := range []string{"success", "error", "skipped"} {
			FetchesTotal.WithLabelValues(origin, status)
		}
	}

	for _, outcome := range []string{"saved", "ignored", "error"} {
		WebhookUpdatesTotal.WithLabelValues(outcome)
	}

	for _, state := range []string{"enabled", "disabled"} {
		SourcesTotal.WithLabelValues(state)
	}

	for _, op := range []string{"list_sources", "list_enabled_sources", "get_source",
		"create_source", "update_source", "delete_source", "touch_source",
		"get_telegram_config", "set_telegram_config",
		"get_slideshow_config", "set_slideshow_config",
		"get_cleanup_config", "set_cleanup_config",
		"recent_logs", "prune_logs"} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
	}
}
