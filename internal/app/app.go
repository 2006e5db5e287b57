package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cropclassify/internal/config"
	"cropclassify/internal/logger"
	"cropclassify/internal/repository/sqlite"
	"cropclassify/internal/route"
	"cropclassify/internal/service"
	"cropclassify/internal/service/aggregate"
	"cropclassify/internal/service/ai"
	"cropclassify/internal/service/document"
	"cropclassify/internal/service/storage"
	"cropclassify/internal/service/websocket"
	"cropclassify/internal/timeutil"
)

// App owns every long-lived collaborator of the server. It is built once at
// startup and released by Close.
type App struct {
	config     *config.Config
	logger     *logger.Logger
	db         *sqlite.DB
	classifier *ai.ClassifierService
	imageStore *storage.ImageStore
	hubService *websocket.HubService
	manager    *service.Manager
}

func NewApp() (*App, error) {
	cfg := config.Load()
	log := logger.NewLogger(cfg)

	if err := os.MkdirAll(cfg.ImageDirectory, 0755); err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	classifier, err := ai.LoadClassifierService(cfg, log)
	if err != nil {
		db.Close()
		log.Close()
		return nil, fmt.Errorf("failed to load classification models: %w", err)
	}

	clock := timeutil.RealClock{}
	hub := websocket.NewHubService(log)
	mng := service.NewManager(
		aggregate.NewAggregator(classifier, log),
		document.NewAssembler(clock),
		sqlite.NewDocumentRepository(db),
		hub,
		log,
	)

	return &App{
		config:     cfg,
		logger:     log,
		db:         db,
		classifier: classifier,
		imageStore: storage.NewImageStore(cfg, clock, log),
		hubService: hub,
		manager:    mng,
	}, nil
}

// Run serves HTTP until SIGINT or SIGTERM, then drains in-flight requests.
func (a *App) Run() error {
	go a.hubService.Run()
	defer a.hubService.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.config.Port),
		Handler:           route.SetupRoutes(a.manager, a.imageStore, a.hubService, a.config, a.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.logger.Info("Crop classification server listening on http://localhost:%d", a.config.Port)
	a.logger.Info("Images: %s, database: %s, backend: %s", a.config.ImageDirectory, a.config.DatabasePath, a.config.ClassifierBackend)
	if a.config.Password == "" {
		a.logger.Warning("PASSWORD is not set, dashboard authentication is disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(a.config.ShutdownTimeout)*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// Close releases models, the database and the log files.
func (a *App) Close() error {
	var errs []error
	if err := a.classifier.Close(); err != nil {
		errs = append(errs, err)
	}
	if a.config.ClassifierBackend == ai.BackendONNX {
		if err := ai.DestroyONNXEnvironment(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.db.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.logger.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
