package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"cropclassify/internal/httputil"
	"cropclassify/internal/logger"
)

// ShowLogsHandler serves one of the log files as text/plain.
func ShowLogsHandler(l *logger.Logger, filename string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveLogFile(w, r, l.Dir(), filename)
	}
}

// serveLogFile is a helper that sets headers and serves a log file if it exists.
func serveLogFile(w http.ResponseWriter, r *http.Request, logDir, filename string) {
	filePath := filepath.Join(logDir, filename)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Log file not found: " + filename))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")

	http.ServeFile(w, r, filePath)
}

// ClearLogsHandler truncates one of the log files.
func ClearLogsHandler(l *logger.Logger, filename string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodDelete {
			httputil.MethodNotAllowed(w)
			return
		}
		if err := l.CleanLogs(filename); err != nil {
			l.Error("Error clearing %s: %v", filename, err)
			http.Error(w, "Failed to clear log", http.StatusInternalServerError)
			return
		}
		l.Info("Log file %s has been cleared.", filename)
		w.WriteHeader(http.StatusNoContent)
	}
}
