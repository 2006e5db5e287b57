package route

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"cropclassify/internal/config"
	"cropclassify/internal/logger"
	"cropclassify/internal/middleware"
	"cropclassify/internal/repository/sqlite"
	"cropclassify/internal/service"
	"cropclassify/internal/service/document"
	"cropclassify/internal/service/storage"
	"cropclassify/internal/service/websocket"
	"cropclassify/internal/timeutil"
)

func setupRouter(t *testing.T, password string) http.Handler {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		Password:       password,
		ImageDirectory: filepath.Join(root, "images"),
		MaxUploadSize:  1,
	}
	db, err := sqlite.New(filepath.Join(root, "routes.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	log := logger.Discard()
	clock := timeutil.NewMockClock(time.Now())
	manager := service.NewManager(nil, document.NewAssembler(clock), sqlite.NewDocumentRepository(db), nil, log)
	return SetupRoutes(manager, storage.NewImageStore(cfg, clock, log), websocket.NewHubService(log), cfg, log)
}

func TestSetupRoutes_Open(t *testing.T) {
	h := setupRouter(t, "")

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/documents", http.StatusOK},
		{http.MethodGet, "/api/documents/missing", http.StatusNotFound},
		{http.MethodDelete, "/api/documents/missing", http.StatusNotFound},
		{http.MethodGet, "/classify", http.StatusMethodNotAllowed},
		{http.MethodGet, "/images?path=../../etc/passwd", http.StatusForbidden},
		{http.MethodGet, "/login", http.StatusOK},
		{http.MethodGet, "/upload", http.StatusOK},
		{http.MethodGet, "/nothing-here", http.StatusNotFound},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
		if rr.Code != tt.status {
			t.Errorf("%s %s = %d, expected %d", tt.method, tt.path, rr.Code, tt.status)
		}
		if rr.Header().Get(middleware.RequestIDHeader) == "" {
			t.Errorf("%s %s: missing request id", tt.method, tt.path)
		}
	}
}

func TestSetupRoutes_PasswordProtected(t *testing.T) {
	h := setupRouter(t, "secret")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/documents", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("Expected /health to stay public, got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AuthCookie, Value: middleware.SessionToken("secret")})
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200 with session cookie, got %d", rr.Code)
	}
}
