// FilePath: internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/itsatony/pumpguard/api"
	"github.com/itsatony/pumpguard/api/middleware"
	"github.com/itsatony/pumpguard/internal/appstate"
	"github.com/itsatony/pumpguard/internal/classifier"
	"github.com/itsatony/pumpguard/internal/cleanup"
	"github.com/itsatony/pumpguard/internal/config"
	"github.com/itsatony/pumpguard/internal/database"
	"github.com/itsatony/pumpguard/internal/monitoring"
	"github.com/itsatony/pumpguard/internal/pumpservice"
	"github.com/itsatony/pumpguard/internal/repository/files"
	"github.com/itsatony/pumpguard/internal/repository/postgres"
	"github.com/itsatony/pumpguard/internal/repository/timescale"
	nuts "github.com/vaudience/go-nuts"
)

const healthTimeout = 2 * time.Second

// Server represents our HTTP server
type Server struct {
	config      *config.Config
	srv         *http.Server
	pumpservice *pumpservice.PumpService
	monitoring  *monitoring.Service
	deps        []dependency
	closers     []func() error
	stopJobs    context.CancelFunc
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		config:   cfg,
		srv:      srv,
		stopJobs: func() {},
	}
}

// Start begins listening for requests
func (s *Server) Start() error {
	nuts.L.Infof("[Server] Log level %s, trend source %s", s.config.Monitoring.LogLevel, s.config.Classifier.TrendSource)

	s.monitoring = monitoring.NewService()
	if err := s.initializePumpService(); err != nil {
		s.close()
		return err
	}

	s.setupCleanupHandlers()
	s.startRetention()

	s.srv.Handler = s.newRouter()

	errCh := make(chan error, 1)
	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	return s.waitForShutdown(errCh)
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown(errCh <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-errCh:
		s.stopJobs()
		s.close()
		return fmt.Errorf("error starting server: %w", err)
	}

	nuts.L.Infof("[Server] Shutting down server...")
	s.stopJobs()

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		s.close()
		return fmt.Errorf("error shutting down server: %w", err)
	}
	s.close()

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

func (s *Server) newRouter() http.Handler {
	opts := api.Options{
		Auth:           middleware.NewKeycloakMiddleware(s.config.Keycloak),
		Observer:       s.monitoring,
		HealthCheck:    healthHandler(s.deps),
		AllowedOrigins: s.config.CORS.AllowedOrigins,
		MaxUploadSize:  s.config.FileStore.MaxFileSize,
		AccessLog:      os.Stdout,
	}
	if s.config.Monitoring.MetricsEnabled {
		opts.Metrics = s.monitoring.Handler()
	}
	return api.NewRouter(s.pumpservice, opts)
}

func (s *Server) setupCleanupHandlers() {
	s.pumpservice.Cleanup.OnCleanup(cleanup.EventUploadDeleted, func(id string) {
		nuts.L.Infof("[Cleanup] Upload %s and all associated data deleted", id)
		s.monitoring.RecordEvent(cleanup.EventUploadDeleted, map[string]string{"upload_id": id})
	})

	s.pumpservice.Cleanup.OnCleanup(cleanup.EventRetentionPurged, func(before string) {
		s.monitoring.RecordEvent(cleanup.EventRetentionPurged, map[string]string{"before": before})
	})
}

func (s *Server) startRetention() {
	ret := s.config.Retention
	if ret.Interval <= 0 || ret.MaxAge <= 0 {
		nuts.L.Infof("[Server] Retention disabled")
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.stopJobs = cancel
	nuts.L.Infof("[Server] Purging uploads older than %s every %s", ret.MaxAge, ret.Interval)
	go s.pumpservice.Cleanup.RunRetention(ctx, ret.Interval, ret.MaxAge, time.Now)
}

// initializePumpService connects the stores and creates the pump service
func (s *Server) initializePumpService() error {
	cfg := s.config

	tsdb, err := database.NewTimescaleDB(cfg.Database.TimescaleDB)
	if err != nil {
		return fmt.Errorf("failed to connect to TimescaleDB: %w", err)
	}
	s.track("timescaledb", tsdb, tsdb.Close)

	appDB, err := database.NewPostgresDB(cfg.Database.AppDB)
	if err != nil {
		return fmt.Errorf("failed to connect to AppDB: %w", err)
	}
	s.track("postgres", appDB, appDB.Close)

	readings, err := timescale.NewReadingRepository(tsdb)
	if err != nil {
		return fmt.Errorf("failed to initialize reading repository: %w", err)
	}
	uploads, err := postgres.NewUploadRepository(appDB)
	if err != nil {
		return fmt.Errorf("failed to initialize upload repository: %w", err)
	}
	fileRepo, err := files.NewFileRepository(files.FileConfig{BasePath: cfg.FileStore.BasePath})
	if err != nil {
		return fmt.Errorf("failed to initialize file repository: %w", err)
	}

	state, err := initAppState(cfg.Redis)
	if err != nil {
		return err
	}
	s.track("appstate", state, state.Close)

	cls := classifier.New(classifier.Config{
		BaseURL: cfg.Classifier.BaseURL,
		Timeout: cfg.Classifier.Timeout,
	})

	s.pumpservice = pumpservice.New(readings, uploads, fileRepo, cls, state, s.monitoring, pumpservice.Options{
		TrendSource: cfg.Classifier.TrendSource,
		MaxFileSize: cfg.FileStore.MaxFileSize,
	})
	return s.pumpservice.Validate()
}

func initAppState(cfg config.RedisConfig) (*appstate.AppState, error) {
	if cfg.Host == "" {
		nuts.L.Warnf("[Server] Redis not configured, application state is kept in memory")
		return appstate.New(appstate.NewMemoryStore()), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	store, err := appstate.NewRedisStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return appstate.New(store), nil
}

func (s *Server) track(name string, p pinger, closeFn func() error) {
	s.deps = append(s.deps, dependency{name: name, pinger: p})
	s.closers = append(s.closers, closeFn)
}

func (s *Server) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			nuts.L.Warnf("[Server] Error closing resource: %v", err)
		}
	}
	s.closers = nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

type dependency struct {
	name   string
	pinger pinger
}

type healthReport struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies"`
}

// healthHandler reports ok only when every dependency answers a ping
func healthHandler(deps []dependency) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		report := healthReport{Status: "ok", Version: nuts.GetVersion(), Dependencies: map[string]string{}}
		code := http.StatusOK
		for _, d := range deps {
			if err := d.pinger.Ping(ctx); err != nil {
				nuts.L.Warnf("[Server] Health check of %s failed: %v", d.name, err)
				report.Dependencies[d.name] = "unavailable"
				report.Status = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			report.Dependencies[d.name] = "ok"
		}

		writeJSON(w, code, report)
	}
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
