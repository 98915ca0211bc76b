package handlers

import (
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

// The mp4 extension is not in the mime package's builtin table and the
// system table is not guaranteed to be present.
func init() {
	mime.AddExtensionType(".mp4", "video/mp4")
}

// StaticAsset serves a materialized asset by its storage key. Keys are
// sanitized by the store, so traversal attempts land on the 404 path.
func (a *App) StaticAsset(w http.ResponseWriter, r *http.Request) {
	if a.Files == nil {
		a.error(w, http.StatusNotFound, "not_found", "asset not found")
		return
	}
	key := chi.URLParam(r, "*")
	data, err := a.Files.Open(key)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "asset not found")
		return
	}
	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}
