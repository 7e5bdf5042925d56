package handlers

import (
	"net/http"
	"strconv"

	"screensaver-bot/internal/database"
	"screensaver-bot/internal/logging"
)

const (
	defaultLogLimit = 100
	maxLogLimit     = 1000
)

// GetLogs returns recent persisted log entries, newest first.
func (h *Handlers) GetLogs(w http.ResponseWriter, r *http.Request) {
	limit := defaultLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSONError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}

	entries, err := h.db.RecentLogs(limit)
	if err != nil {
		logging.Error("failed to read logs: %v", err)
		writeJSONError(w, "failed to read logs", http.StatusInternalServerError)
		return
	}

	if entries == nil {
		entries = []database.LogEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, entries)
}
