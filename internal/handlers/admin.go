package handlers

import (
	"net/http"

	"screensaver-bot/internal/logging"
)

// RunFetch triggers a polling batch immediately instead of waiting for the
// next scheduled tick. Sources that are not yet due are still skipped.
func (h *Handlers) RunFetch(w http.ResponseWriter, r *http.Request) {
	if err := h.fetcher.RunBatch(r.Context()); err != nil {
		logging.Error("manual fetch batch failed: %v", err)
		writeJSONError(w, "fetch batch failed", http.StatusInternalServerError)
		return
	}

	writeJSONStatus(w, "ok")
}

// RunCleanup triggers a retention pass immediately and reports what it did.
func (h *Handlers) RunCleanup(w http.ResponseWriter, _ *http.Request) {
	report, err := h.cleaner.Run()
	if err != nil {
		logging.Error("manual cleanup failed: %v", err)
		writeJSONError(w, "cleanup failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, report)
}
