package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "cifcheck/docs" // Swagger docs
	"cifcheck/internal/api/handlers"
	apimiddleware "cifcheck/internal/api/middleware"
	configapp "cifcheck/internal/config/application"
	enterpriseapp "cifcheck/internal/enterprise/application"
	sharedlogger "cifcheck/internal/shared/logger"
)

// Server represents the API server
type Server struct {
	httpServer *http.Server
	logger     sharedlogger.Logger
}

// NewServer creates a new API server. metricsHandler may be nil.
func NewServer(
	logger sharedlogger.Logger,
	runtimeCfg *configapp.RuntimeConfig,
	service *enterpriseapp.Service,
	metricsHandler http.Handler,
) (*Server, error) {
	if err := runtimeCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid runtime config: %w", err)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + runtimeCfg.APIPort,
			Handler:      NewRouter(logger, runtimeCfg, service, metricsHandler),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}, nil
}

// NewRouter builds the chi router with middleware and routes
func NewRouter(
	logger sharedlogger.Logger,
	runtimeCfg *configapp.RuntimeConfig,
	service *enterpriseapp.Service,
	metricsHandler http.Handler,
) http.Handler {
	cifHandler := handlers.NewCIFHandler(service)
	enterpriseHandler := handlers.NewEnterpriseHandler(service)

	// HTTP logging middleware - need concrete slog.Logger for httplog
	var slogLogger *slog.Logger
	if infraLogger, ok := logger.(interface{ SLog() *slog.Logger }); ok {
		slogLogger = infraLogger.SLog()
	} else {
		slogLogger = slog.Default()
	}

	logLevel := slog.LevelInfo
	if runtimeCfg.DevMode {
		logLevel = slog.LevelDebug
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httplog.RequestLogger(slogLogger, &httplog.Options{
		Level:             logLevel,
		Schema:            httplog.SchemaECS.Concise(!runtimeCfg.DevMode),
		LogRequestHeaders: []string{}, // Log no headers by default to reduce verbosity
	}))
	r.Use(handlers.WithLogger(slogLogger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	// Swagger UI (only in dev mode, no auth required)
	if runtimeCfg.DevMode {
		swaggerHandler := httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		)
		r.Handle("/swagger/*", swaggerHandler)
		r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
		})
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apimiddleware.APIKeyAuthWithKey(runtimeCfg.APIKey))

		r.Post("/cif/validate", cifHandler.Validate)
		r.Post("/cif/complete", cifHandler.Complete)
		r.Post("/enterprises", enterpriseHandler.Register)
		r.Get("/enterprises", enterpriseHandler.ListEnterprises)
		r.Get("/enterprises/{cif}", enterpriseHandler.GetEnterprise)
	})

	logger.Debug("Router configured",
		"dev_mode", runtimeCfg.DevMode,
		"middleware", []string{"RequestID", "RealIP", "Recoverer", "httplog"},
	)

	return r
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		s.logger.Error("Server error", "err", err)
	}
	return err
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		s.logger.Error("Server shutdown error", "err", err)
	} else {
		s.logger.Info("Server shutdown complete")
	}
	return err
}
