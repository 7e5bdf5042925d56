package handlers

import (
	"net/http"
	"os"
	"runtime"

	"screensaver-bot/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`

	// Store summary
	StoreImages int   `json:"storeImages"`
	StoreBytes  int64 `json:"storeBytes"`
	Sources     int   `json:"sources"`
	LogEntries  int   `json:"logEntries"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:       statusHealthy,
		Version:      startup.Version,
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	stats, err := h.db.GetStats()
	if err != nil {
		response.Status = statusDegraded
	} else {
		response.Sources = stats.TotalSources
		response.LogEntries = stats.LogEntries
	}

	response.StoreImages, response.StoreBytes = storeUsage(h.store.ImagesDir())

	w.Header().Set("Content-Type", "application/json")
	if err := h.db.Ping(r.Context()); err != nil {
		response.Status = statusDegraded
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	writeJSON(w, response)
}

// storeUsage counts regular files and their total size in one directory.
func storeUsage(dir string) (int, int64) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0
	}

	var count int
	var bytes int64
	for _, e := range entries {
		info, err := e.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		count++
		bytes += info.Size()
	}
	return count, bytes
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}

// ReadinessCheck returns 200 only when the database is reachable
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := h.db.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		writeJSON(w, map[string]string{
			"status": "not_ready",
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	writeJSON(w, map[string]string{
		"status": "ready",
	})
}
