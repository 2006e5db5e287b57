package handler

import (
	"html/template"
	"net/http"

	"cropclassify/internal/logger"
	"cropclassify/internal/model"
)

var uploadTemplate = template.Must(template.ParseFS(templateFiles, "templates/upload.html"))

// UploadPageHandler renders the browser form that posts five images and an
// author name to /api/upload.
func UploadPageHandler(logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		data := struct{ Count int }{Count: model.ImagesPerSubmission}
		if err := uploadTemplate.Execute(w, data); err != nil {
			logger.Error("Error rendering upload page: %v", err)
		}
	}
}
