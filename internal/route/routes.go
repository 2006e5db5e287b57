package route

import (
	"net/http"

	"cropclassify/internal/config"
	"cropclassify/internal/handler"
	"cropclassify/internal/logger"
	"cropclassify/internal/middleware"
	"cropclassify/internal/service"
	"cropclassify/internal/service/storage"
	"cropclassify/internal/service/websocket"
)

// SetupRoutes registers the submission, listing, image, live-feed and log
// endpoints and wraps the mux with the request logger and the optional
// password middleware.
func SetupRoutes(manager *service.Manager, store *storage.ImageStore, hub *websocket.HubService,
	cfg *config.Config, l *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Submission
	mux.HandleFunc("/classify", handler.SubmitHandler(manager, l))
	mux.HandleFunc("/api/upload", handler.UploadHandler(manager, store, cfg, l))
	mux.HandleFunc("/upload", handler.UploadPageHandler(l))

	// Documents
	mux.HandleFunc("GET /api/documents", handler.ListDocumentsHandler(manager, l))
	mux.HandleFunc("GET /api/documents/{id}", handler.GetDocumentHandler(manager, l))
	mux.HandleFunc("DELETE /api/documents/{id}", handler.DeleteDocumentHandler(manager, l))
	mux.HandleFunc("/images", handler.ViewImageHandler(cfg, l))
	mux.HandleFunc("/api/live", handler.LiveWebsocketHandler(hub, l))
	mux.HandleFunc("/health", handler.HealthHandler(manager, hub, l))

	// Log endpoints
	mux.HandleFunc("/logs/info", handler.ShowLogsHandler(l, logger.InfoFile))
	mux.HandleFunc("/logs/warning", handler.ShowLogsHandler(l, logger.WarningFile))
	mux.HandleFunc("/logs/error", handler.ShowLogsHandler(l, logger.ErrorFile))

	mux.HandleFunc("/logs/info/clear", handler.ClearLogsHandler(l, logger.InfoFile))
	mux.HandleFunc("/logs/warning/clear", handler.ClearLogsHandler(l, logger.WarningFile))
	mux.HandleFunc("/logs/error/clear", handler.ClearLogsHandler(l, logger.ErrorFile))

	// Auth endpoints
	mux.HandleFunc("/login", handler.LoginPageHandler(l))
	mux.HandleFunc("/auth/login", handler.LoginHandler(cfg, l))
	mux.HandleFunc("/auth/logout", handler.LogoutHandler)

	// Table view
	mux.HandleFunc("/", handler.TableHandler(manager, l))

	return middleware.RequestLogger(l, middleware.AuthMiddleware(cfg.Password, mux))
}
