package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gorilla/mux"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// PreviewEntry describes one preview file in the listing API.
type PreviewEntry struct {
	Filename   string `json:"filename"`
	PreviewURL string `json:"preview_url"`
}

// ListPreviews returns all available preview files sorted by filename.
// Filenames encode their capture timestamp, so lexical order is
// chronological order.
func (h *Handlers) ListPreviews(w http.ResponseWriter, _ *http.Request) {
	entries := []PreviewEntry{}

	dirEntries, err := os.ReadDir(h.store.PreviewsDir())
	if err != nil && !os.IsNotExist(err) {
		writeJSONError(w, "failed to list previews", http.StatusInternalServerError)
		return
	}

	for _, e := range dirEntries {
		if e.IsDir() {
			continue
		}
		if !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		entries = append(entries, PreviewEntry{
			Filename:   e.Name(),
			PreviewURL: "/media/previews/" + e.Name(),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Filename < entries[j].Filename
	})

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, entries)
}

// GetImage serves a stored full-size image by filename.
func (h *Handlers) GetImage(w http.ResponseWriter, r *http.Request) {
	h.serveMediaFile(w, r, h.store.ImagesDir())
}

// GetPreview serves a preview file by filename.
func (h *Handlers) GetPreview(w http.ResponseWriter, r *http.Request) {
	h.serveMediaFile(w, r, h.store.PreviewsDir())
}

func (h *Handlers) serveMediaFile(w http.ResponseWriter, r *http.Request, dir string) {
	vars := mux.Vars(r)
	name := vars["name"]

	fullPath := filepath.Join(dir, name)

	// Security check
	absPath, err := filepath.Abs(fullPath)
	if err != nil || !isSubPath(dir, absPath) {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	http.ServeFile(w, r, fullPath)
}
