package handler

import (
	"net/http"

	"cropclassify/internal/dto"
	"cropclassify/internal/httputil"
	"cropclassify/internal/logger"
	"cropclassify/internal/service"
	"cropclassify/internal/service/websocket"
)

// ListDocumentsHandler handles GET /api/documents with optional start_date
// and end_date (YYYY-MM-DD, inclusive).
func ListDocumentsHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter, err := parseFilter(q)
		if err != nil {
			writeError(w, logger, err)
			return
		}

		rows, err := manager.List(r.Context(), filter)
		if err != nil {
			writeError(w, logger, err)
			return
		}

		httputil.WriteJSONOK(w, dto.DocumentsData{
			Documents: rows,
			Length:    len(rows),
			StartDate: q.Get("start_date"),
			EndDate:   q.Get("end_date"),
		})
	}
}

// GetDocumentHandler handles GET /api/documents/{id}.
func GetDocumentHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := manager.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, logger, err)
			return
		}
		httputil.WriteJSONOK(w, doc)
	}
}

// DeleteDocumentHandler handles DELETE /api/documents/{id}.
func DeleteDocumentHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if err := manager.Delete(r.Context(), id); err != nil {
			writeError(w, logger, err)
			return
		}
		httputil.WriteJSONOK(w, map[string]string{"status": "deleted", "document_id": id})
	}
}

// HealthHandler reports liveness, the number of stored documents and the
// number of connected live viewers.
func HealthHandler(manager *service.Manager, hub *websocket.HubService, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := manager.Count(r.Context())
		if err != nil {
			logger.Error("Health check failed: %v", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
		httputil.WriteJSONOK(w, map[string]interface{}{
			"status":    "healthy",
			"documents": n,
			"viewers":   hub.GetClientCount(),
		})
	}
}
