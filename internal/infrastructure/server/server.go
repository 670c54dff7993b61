package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/styleselector/core/docs"
	"github.com/styleselector/core/internal/adapters/host"
	httpHandlers "github.com/styleselector/core/internal/adapters/http"
	"github.com/styleselector/core/internal/application/services"
	"github.com/styleselector/core/internal/infrastructure/config"
	"github.com/styleselector/core/internal/infrastructure/logger"
	"github.com/styleselector/core/internal/infrastructure/storage"
)

// Server represents the HTTP bridge the host web UI talks to
type Server struct {
	echo     *echo.Echo
	config   *config.Config
	logger   *logger.Logger
	store    *storage.Storage
	ext      *host.Extension
	registry *prometheus.Registry
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance
func New(cfg *config.Config, store *storage.Storage, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	// Set custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true

	// Custom error handler
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	// Initialize services
	styleService := services.NewStyleService(store.Styles, store.Categories, store.Images, store.Mutations, appLogger)
	categoryService := services.NewCategoryService(store.Categories, store.Styles, cfg.Store, store.Mutations, appLogger)
	composeService := services.NewComposeService(store.Styles, appLogger)

	ext := host.NewExtension(styleService, categoryService, composeService, cfg.Store, appLogger)
	if err := ext.Init(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to initialize extension: %w", err)
	}

	// Initialize handlers
	styleHandler := httpHandlers.NewStyleHandler(ext, appLogger)
	categoryHandler := httpHandlers.NewCategoryHandler(ext, categoryService, appLogger)
	hostHandler := httpHandlers.NewHostHandler(ext, appLogger)

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger,
		store:  store,
		ext:    ext,
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup metrics before routes so the metrics middleware sees every request
	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}

	// Setup routes
	server.setupRoutes(styleHandler, categoryHandler, hostHandler)

	return server, nil
}

// Extension returns the host extension the server drives
func (s *Server) Extension() *host.Extension {
	return s.ext
}

// Handler returns the underlying HTTP handler
func (s *Server) Handler() http.Handler {
	return s.echo
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(styleHandler *httpHandlers.StyleHandler, categoryHandler *httpHandlers.CategoryHandler, hostHandler *httpHandlers.HostHandler) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// Swagger documentation
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	// Host lifecycle
	v1.GET("/ui", hostHandler.BuildUI)
	v1.POST("/components", hostHandler.RegisterComponent)
	v1.POST("/process", hostHandler.Process)

	// Style routes
	styleGroup := v1.Group("/styles")
	styleGroup.GET("", styleHandler.ListStyles)
	styleGroup.POST("", styleHandler.AddStyle)
	styleGroup.PUT("", styleHandler.ModifyStyle)
	styleGroup.DELETE("", styleHandler.DeleteStyle)
	styleGroup.GET("/details", styleHandler.GetStyle)
	styleGroup.GET("/image", styleHandler.GetStyleImage)
	styleGroup.POST("/apply", styleHandler.ApplyStyle)

	// Prompt box helpers
	promptGroup := v1.Group("/prompts")
	promptGroup.POST("/extract", styleHandler.ExtractPrompts)
	promptGroup.POST("/clear", styleHandler.ClearPrompt)

	// Category routes
	categoryGroup := v1.Group("/categories")
	categoryGroup.GET("", categoryHandler.ListCategories)
	categoryGroup.POST("", categoryHandler.AddCategory)
	categoryGroup.PUT("", categoryHandler.RenameCategory)
	categoryGroup.DELETE("", categoryHandler.DeleteCategory)

	v1.POST("/reconcile", categoryHandler.Reconcile)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	s.registry = prometheus.NewRegistry()
	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	s.registry.MustRegister(s.store.Cache.Collectors()...)

	s.echo.Use(metricsMiddleware(s.registry))
	s.echo.GET("/metrics", metricsHandler(s.registry))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	if err := s.store.HealthCheck(); err != nil {
		status = "error"
		checks["store"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	} else {
		checks["store"] = map[string]interface{}{
			"status": "ok",
			"stats":  s.store.GetInfo(),
		}
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if err := s.store.Ping(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "store_not_ready",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address)

	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.WriteTimeout
	s.echo.Server.IdleTimeout = s.config.Server.IdleTimeout

	if err := s.echo.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		var he *echo.HTTPError
		var ve validator.ValidationErrors
		if errors.As(err, &he) {
			code = he.Code
			msg = map[string]interface{}{"message": he.Message}
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		} else if errors.As(err, &ve) {
			code = http.StatusBadRequest
			msg = map[string]string{"message": "validation failed", "details": ve.Error()}
		} else {
			msg = map[string]string{"message": http.StatusText(code)}
		}

		if code == http.StatusInternalServerError {
			logger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		// Send response
		if !c.Response().Committed {
			if c.Request().Method == echo.HEAD {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Errorw("Error sending response", "error", err)
			}
		}
	}
}
