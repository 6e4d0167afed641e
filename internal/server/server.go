package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/nba-shot-charts/internal/app/shotchart"
	"github.com/preston-bernstein/nba-shot-charts/internal/config"
	"github.com/preston-bernstein/nba-shot-charts/internal/dataset"
	httpserver "github.com/preston-bernstein/nba-shot-charts/internal/http"
	"github.com/preston-bernstein/nba-shot-charts/internal/http/handlers"
	"github.com/preston-bernstein/nba-shot-charts/internal/http/middleware"
	"github.com/preston-bernstein/nba-shot-charts/internal/loader"
	"github.com/preston-bernstein/nba-shot-charts/internal/logging"
	"github.com/preston-bernstein/nba-shot-charts/internal/metrics"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	store         shotStore
	service       *shotchart.Service
	httpServer    httpServer
	metricsServer httpServer
	loader        DatasetLoader
	metricsStop   func(context.Context) error
}

// New constructs a server that reads the configured season tables.
func New(cfg config.Config, logger *slog.Logger) *Server {
	return newServerWithSources(cfg, logger, buildSources(cfg, logger))
}

func newServerWithSources(cfg config.Config, logger *slog.Logger, sources []dataset.Source) *Server {
	return newServerWithMetrics(cfg, logger, sources, nil)
}

func newServerWithMetrics(cfg config.Config, logger *slog.Logger, sources []dataset.Source, recorder *metrics.Recorder) *Server {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	st := buildStore(context.Background(), cfg, logger)
	svc := shotchart.NewService(st)
	ldr := loader.New(sources, svc, logger, recorder, cfg.ReloadInterval)
	httpSrv := buildHTTPServer(cfg, svc, logger, recorder, ldr)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		store:         st,
		service:       svc,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		loader:        ldr,
		metricsStop:   metricsShutdown,
	}
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, svc *shotchart.Service, httpSrv httpServer, ldr DatasetLoader) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		service:    svc,
		httpServer: httpSrv,
		loader:     ldr,
	}
}

func buildHTTPServer(cfg config.Config, svc *shotchart.Service, logger *slog.Logger, recorder *metrics.Recorder, ldr DatasetLoader) httpServer {
	var statusFn func() loader.Status
	if ldr != nil {
		statusFn = ldr.Status
	}
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}

	charts, format := buildRenderer(cfg, logger)
	handler := handlers.NewHandler(svc, charts, format, logger, recorder, statusFn)
	var renderMiddleware []func(http.Handler) http.Handler
	if cfg.RateLimit.Enabled() {
		limiter := middleware.NewLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		renderMiddleware = append(renderMiddleware, middleware.RateLimit(limiter, recorder))
		logging.Info(logger, "chart rate limit enabled",
			slog.Float64("rps", cfg.RateLimit.RPS),
			slog.Int("burst", cfg.RateLimit.Burst),
		)
	}
	router := httpserver.NewRouter(handler, renderMiddleware...)
	wrapped := middleware.LoggingMiddleware(logger, recorder, router)

	return newNetHTTPServer(":"+cfg.Port, wrapped)
}

// Run loads the season tables, starts the listeners and the reload loop, then
// waits for context cancellation to shut down gracefully. A load failure is
// returned without starting any listener.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) error {
	if err := s.loader.Load(ctx); err != nil {
		logging.Error(s.logger, "dataset load failed", err)
		s.gracefulShutdown()
		return fmt.Errorf("load datasets: %w", err)
	}

	s.startMetrics()
	s.startServer(stop)
	s.loader.Start(ctx)

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
	return nil
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	if err := s.loader.Stop(shutdownCtx); err != nil {
		logging.Error(s.logger, "failed to stop loader", err)
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			logging.Warn(s.logger, "store close failed", "error", err)
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "err", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readHeaderTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		logging.Info(logger, "starting "+name+" server", slog.String("addr", srv.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}

// Service exposes the shot chart service (useful for tests).
func (s *Server) Service() *shotchart.Service {
	return s.service
}
