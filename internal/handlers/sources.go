package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"screensaver-bot/internal/database"
	"screensaver-bot/internal/logging"
)

// SourceRequest is the mutable part of a polling source.
type SourceRequest struct {
	Name     string            `json:"name"`
	URL      string            `json:"url"`
	Interval database.Interval `json:"interval"`
	Enabled  bool              `json:"enabled"`
}

func (r SourceRequest) validate() string {
	if r.Name == "" {
		return "name is required"
	}
	if r.URL == "" {
		return "url is required"
	}
	if !r.Interval.Valid() {
		return "interval must be one of hourly, daily, weekly, monthly"
	}
	return ""
}

func (h *Handlers) ListSources(w http.ResponseWriter, _ *http.Request) {
	sources, err := h.db.ListSources()
	if err != nil {
		logging.Error("failed to list sources: %v", err)
		writeJSONError(w, "failed to list sources", http.StatusInternalServerError)
		return
	}

	if sources == nil {
		sources = []database.Source{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, sources)
}

func (h *Handlers) CreateSource(w http.ResponseWriter, r *http.Request) {
	var req SourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if msg := req.validate(); msg != "" {
		writeJSONError(w, msg, http.StatusBadRequest)
		return
	}

	created, err := h.db.CreateSource(database.Source{
		Name:     req.Name,
		URL:      req.URL,
		Interval: req.Interval,
		Enabled:  req.Enabled,
	})
	if err != nil {
		logging.Error("failed to create source: %v", err)
		writeJSONError(w, "failed to create source", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, created)
}

func (h *Handlers) UpdateSource(w http.ResponseWriter, r *http.Request) {
	id, ok := sourceID(w, r)
	if !ok {
		return
	}

	var req SourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if msg := req.validate(); msg != "" {
		writeJSONError(w, msg, http.StatusBadRequest)
		return
	}

	err := h.db.UpdateSource(database.Source{
		ID:       id,
		Name:     req.Name,
		URL:      req.URL,
		Interval: req.Interval,
		Enabled:  req.Enabled,
	})
	if err != nil {
		if errors.Is(err, database.ErrSourceNotFound) {
			writeJSONError(w, "source not found", http.StatusNotFound)
			return
		}
		logging.Error("failed to update source %d: %v", id, err)
		writeJSONError(w, "failed to update source", http.StatusInternalServerError)
		return
	}

	updated, err := h.db.GetSource(id)
	if err != nil {
		logging.Error("failed to reload source %d: %v", id, err)
		writeJSONError(w, "failed to reload source", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, updated)
}

func (h *Handlers) DeleteSource(w http.ResponseWriter, r *http.Request) {
	id, ok := sourceID(w, r)
	if !ok {
		return
	}

	if err := h.db.DeleteSource(id); err != nil {
		if errors.Is(err, database.ErrSourceNotFound) {
			writeJSONError(w, "source not found", http.StatusNotFound)
			return
		}
		logging.Error("failed to delete source %d: %v", id, err)
		writeJSONError(w, "failed to delete source", http.StatusInternalServerError)
		return
	}

	writeJSONStatus(w, "ok")
}

func sourceID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSONError(w, "invalid source id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
