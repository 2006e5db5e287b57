package handler

import (
	"net/http"
	"os"

	"cropclassify/internal/config"
	"cropclassify/internal/logger"
	"cropclassify/internal/security"
)

// ViewImageHandler serves a single image given by the "path" query
// parameter. Relative paths are resolved against the image directory;
// anything resolving outside it is refused.
func ViewImageHandler(cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref := r.URL.Query().Get("path")
		if ref == "" {
			http.Error(w, "Path parameter is required", http.StatusBadRequest)
			return
		}

		filePath, err := security.ResolveWithinDirectory(ref, cfg.ImageDirectory)
		if err != nil {
			logger.Warning("Refused image path %q: %v", ref, err)
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		info, err := os.Stat(filePath)
		if err != nil || info.IsDir() {
			http.Error(w, "Image not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Cache-Control", "private, max-age=3600")
		http.ServeFile(w, r, filePath)
	}
}
