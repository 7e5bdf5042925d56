package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"screensaver-bot/internal/database"
	"screensaver-bot/internal/ingest"
	"screensaver-bot/internal/logging"
)

// TelegramWebhook receives a Telegram update, validates it, and saves any
// photo it carries. Updates that carry nothing usable (wrong chat, disabled
// source, no photo) are acknowledged with 200 so Telegram does not retry
// them; only real processing failures return 500.
func (h *Handlers) TelegramWebhook(w http.ResponseWriter, r *http.Request) {
	var update ingest.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		logging.Warn("telegram webhook received invalid JSON body")
		writeJSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	result, err := h.processor.ProcessUpdate(r.Context(), update)
	if err != nil {
		if errors.Is(err, database.ErrNotConfigured) {
			logging.Error("telegram source is not configured")
			writeJSONError(w, "not configured", http.StatusInternalServerError)
			return
		}
		logging.Error("failed to process telegram update: %v", err)
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logging.Debug("telegram update processed: %s", result)

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]bool{"ok": true})
}
