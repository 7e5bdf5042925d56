package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"screensaver-bot/internal/cleanup"
	"screensaver-bot/internal/database"
	"screensaver-bot/internal/handlers"
	"screensaver-bot/internal/ingest"
	"screensaver-bot/internal/logging"
	"screensaver-bot/internal/media"
	"screensaver-bot/internal/memory"
	"screensaver-bot/internal/metrics"
	"screensaver-bot/internal/middleware"
	"screensaver-bot/internal/startup"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// logRetention is how long persisted log entries are kept.
const logRetention = 30 * 24 * time.Hour

func main() {
	startTime := time.Now()

	// Set GOMEMLIMIT from container limits before anything allocates
	memory.ConfigureFromEnv()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Initialize database
	dbStart := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.New(ctx, config.DatabasePath)
	cancel()
	if err != nil {
		startup.LogFatal("Failed to initialize database: %v", err)
	}
	defer db.Close()
	startup.LogDatabaseInit(time.Since(dbStart))

	// From here on, everything logged also lands in the app_log table
	logging.SetSink(db)

	// Prune old persisted log entries periodically
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		for range ticker.C {
			if _, err := db.PruneLogs(time.Now().Add(-logRetention)); err != nil {
				logging.Warn("Failed to prune old log entries: %v", err)
			}
		}
	}()

	// Initialize image pipeline
	if err := media.InitVips(); err != nil {
		logging.Warn("libvips init failed, previews fall back to pure Go: %v", err)
	}
	store := media.NewStore(config.MediaDir)
	startup.LogPipelineInit(store.ImagesDir(), store.PreviewsDir(), media.IsVipsAvailable())

	// Initialize ingestion and retention
	fetcher := ingest.NewFetcher(db, store, config.PollInterval)
	processor := ingest.NewProcessor(db, store, ingest.NewTelegramClient())
	cleaner := cleanup.New(db, store, config.CleanupInterval)

	startup.LogSchedulersInit(config.PollInterval, config.CleanupInterval)
	fetcher.Start()
	cleaner.Start()

	// Metrics
	var collector *metrics.Collector
	var metricsServer *http.Server
	if config.MetricsEnabled {
		metrics.InitializeMetrics()

		collector = metrics.NewCollector(&storeStatsProvider{db: db, store: store}, time.Minute)
		collector.Start()

		metricsServer = startMetricsServer(config.MetricsPort)
	}

	// Initialize handlers
	h := handlers.New(db, store, fetcher, cleaner, processor)

	// Setup router
	router := setupRouter(h)

	// Log routes dynamically
	startup.LogHTTPRoutes(router, config.LogHealthChecks)

	// Apply metrics middleware
	var handler http.Handler = router
	if config.MetricsEnabled {
		handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)
	}

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler = middleware.Logger(loggingConfig)(handler)

	// Apply compression middleware
	handler = middleware.Compression(middleware.DefaultCompressionConfig())(handler)

	// Create server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, metricsServer, fetcher, cleaner, collector)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

// storeStatsProvider merges database counters with an on-disk scan of the
// image store for the metrics collector.
type storeStatsProvider struct {
	db    *database.Database
	store *media.Store
}

func (p *storeStatsProvider) GetStats() (metrics.Stats, error) {
	dbStats, err := p.db.GetStats()
	if err != nil {
		return metrics.Stats{}, err
	}

	images, bytes := scanDir(p.store.ImagesDir())

	return metrics.Stats{
		TotalSources:   dbStats.TotalSources,
		EnabledSources: dbStats.EnabledSources,
		LogEntries:     dbStats.LogEntries,
		StoreImages:    images,
		StoreBytes:     bytes,
	}, nil
}

func scanDir(dir string) (int, int64) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0
	}

	var count int
	var total int64
	for _, e := range entries {
		info, err := e.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		count++
		total += info.Size()
	}
	return count, total
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// Telegram ingestion
	r.HandleFunc("/telegram/webhook", h.TelegramWebhook).Methods("POST")

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/previews", h.ListPreviews).Methods("GET")
	api.HandleFunc("/logs", h.GetLogs).Methods("GET")

	// Configuration
	api.HandleFunc("/config/slideshow", h.GetSlideshowConfig).Methods("GET")
	api.HandleFunc("/config/slideshow", h.UpdateSlideshowConfig).Methods("PUT")
	api.HandleFunc("/config/cleanup", h.GetCleanupConfig).Methods("GET")
	api.HandleFunc("/config/cleanup", h.UpdateCleanupConfig).Methods("PUT")
	api.HandleFunc("/config/telegram", h.GetTelegramConfig).Methods("GET")
	api.HandleFunc("/config/telegram", h.UpdateTelegramConfig).Methods("PUT")

	// Polling sources
	api.HandleFunc("/sources", h.ListSources).Methods("GET")
	api.HandleFunc("/sources", h.CreateSource).Methods("POST")
	api.HandleFunc("/sources/{id}", h.UpdateSource).Methods("PUT")
	api.HandleFunc("/sources/{id}", h.DeleteSource).Methods("DELETE")

	// On-demand runs
	api.HandleFunc("/run/fetch", h.RunFetch).Methods("POST")
	api.HandleFunc("/run/cleanup", h.RunCleanup).Methods("POST")

	// Media files
	r.HandleFunc("/media/images/{name}", h.GetImage).Methods("GET")
	r.HandleFunc("/media/previews/{name}", h.GetPreview).Methods("GET")

	return r
}

func startMetricsServer(port string) *http.Server {
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      metricsMux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logging.Error("Metrics server error: %v", err)
		}
	}()

	return srv
}

func handleShutdown(srv, metricsServer *http.Server, fetcher *ingest.Fetcher, cleaner *cleanup.Runner, collector *metrics.Collector) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Stopping fetch scheduler")
	fetcher.Stop()
	startup.LogShutdownStepComplete("Fetch scheduler stopped")

	startup.LogShutdownStep("Stopping retention scheduler")
	cleaner.Stop()
	startup.LogShutdownStepComplete("Retention scheduler stopped")

	if collector != nil {
		startup.LogShutdownStep("Stopping metrics collector")
		collector.Stop()
		startup.LogShutdownStepComplete("Metrics collector stopped")
	}

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	// Detach the database sink before the deferred Close tears it down
	logging.SetSink(nil)
	media.ShutdownVips()

	startup.LogShutdownComplete()
}
