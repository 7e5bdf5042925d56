package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"screensaver-bot/internal/database"
	"screensaver-bot/internal/logging"
)

// SlideshowConfigResponse wraps the slideshow settings with the option lists
// the frontend needs to render its settings form.
type SlideshowConfigResponse struct {
	database.SlideshowConfig
	Transitions     []string `json:"transitions"`
	TransitionModes []string `json:"transitionModes"`
}

func (h *Handlers) GetSlideshowConfig(w http.ResponseWriter, _ *http.Request) {
	cfg, err := h.db.GetSlideshowConfig()
	if err != nil {
		logging.Error("failed to read slideshow config: %v", err)
		writeJSONError(w, "failed to read slideshow config", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, SlideshowConfigResponse{
		SlideshowConfig: *cfg,
		Transitions:     database.Transitions,
		TransitionModes: database.TransitionModes,
	})
}

func (h *Handlers) UpdateSlideshowConfig(w http.ResponseWriter, r *http.Request) {
	var cfg database.SlideshowConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if cfg.GridFetchIntervalSeconds <= 0 || cfg.SlideIntervalSeconds <= 0 {
		writeJSONError(w, "intervals must be positive", http.StatusBadRequest)
		return
	}
	if !contains(database.Transitions, cfg.Transition) {
		writeJSONError(w, "unknown transition", http.StatusBadRequest)
		return
	}
	if !contains(database.TransitionModes, cfg.TransitionMode) {
		writeJSONError(w, "unknown transition mode", http.StatusBadRequest)
		return
	}

	if err := h.db.SetSlideshowConfig(cfg); err != nil {
		logging.Error("failed to save slideshow config: %v", err)
		writeJSONError(w, "failed to save slideshow config", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, cfg)
}

func (h *Handlers) GetCleanupConfig(w http.ResponseWriter, _ *http.Request) {
	cfg, err := h.db.GetCleanupConfig()
	if err != nil {
		logging.Error("failed to read cleanup config: %v", err)
		writeJSONError(w, "failed to read cleanup config", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, cfg)
}

func (h *Handlers) UpdateCleanupConfig(w http.ResponseWriter, r *http.Request) {
	var cfg database.CleanupConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if cfg.MaxStoreSizeMB <= 0 {
		writeJSONError(w, "max store size must be positive", http.StatusBadRequest)
		return
	}

	if err := h.db.SetCleanupConfig(cfg); err != nil {
		logging.Error("failed to save cleanup config: %v", err)
		writeJSONError(w, "failed to save cleanup config", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, cfg)
}

// TelegramConfigResponse never carries the full bot token back out.
type TelegramConfigResponse struct {
	BotToken string `json:"botToken"`
	ChatID   string `json:"chatId"`
	Enabled  bool   `json:"enabled"`
}

func (h *Handlers) GetTelegramConfig(w http.ResponseWriter, _ *http.Request) {
	cfg, err := h.db.GetTelegramConfig()
	if err != nil {
		if errors.Is(err, database.ErrNotConfigured) {
			writeJSONError(w, "not configured", http.StatusNotFound)
			return
		}
		logging.Error("failed to read telegram config: %v", err)
		writeJSONError(w, "failed to read telegram config", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, TelegramConfigResponse{
		BotToken: maskToken(cfg.BotToken),
		ChatID:   cfg.ChatID,
		Enabled:  cfg.Enabled,
	})
}

func (h *Handlers) UpdateTelegramConfig(w http.ResponseWriter, r *http.Request) {
	var cfg database.TelegramConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if cfg.BotToken == "" {
		writeJSONError(w, "bot token is required", http.StatusBadRequest)
		return
	}
	if cfg.ChatID == "" {
		writeJSONError(w, "chat id is required", http.StatusBadRequest)
		return
	}

	if err := h.db.SetTelegramConfig(cfg); err != nil {
		logging.Error("failed to save telegram config: %v", err)
		writeJSONError(w, "failed to save telegram config", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, TelegramConfigResponse{
		BotToken: maskToken(cfg.BotToken),
		ChatID:   cfg.ChatID,
		Enabled:  cfg.Enabled,
	})
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
