package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// UploadsHandler serves stored detection images.
type UploadsHandler struct {
	dir    string
	logger *zap.Logger
}

// NewUploadsHandler creates a new UploadsHandler serving files from dir.
func NewUploadsHandler(dir string, logger *zap.Logger) *UploadsHandler {
	return &UploadsHandler{dir: dir, logger: logger.Named("uploads")}
}

// RegisterRoutes registers the uploads handler's routes on the given mux.
func (h *UploadsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /uploads/{name}", h.Serve)
}

// Serve handles GET /uploads/{name}. Names are restricted to the flat
// uploads directory; anything resembling a path is rejected.
func (h *UploadsHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, filepath.Join(h.dir, name))
}
