package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/formrelay/formrelay-api/config"
	"github.com/formrelay/formrelay-api/internal/handlers"
	"github.com/formrelay/formrelay-api/internal/middleware"
	"github.com/formrelay/formrelay-api/internal/services"
	"github.com/formrelay/formrelay-api/pkg/httpclient"
	"github.com/formrelay/formrelay-api/pkg/logger"
	"github.com/formrelay/formrelay-api/pkg/mailer"
	"github.com/formrelay/formrelay-api/pkg/metrics"
	"github.com/formrelay/formrelay-api/pkg/profiling"
	"github.com/formrelay/formrelay-api/pkg/sheetsapi"
	"github.com/formrelay/formrelay-api/pkg/tracing"
)

// newSheetsAPIClient builds the service-account Sheets client when
// credentials are configured. A broken credential is logged, not fatal: the
// mirror falls back to the webhook (or reports the failure per request).
func newSheetsAPIClient(ctx context.Context, cfg *config.Config) services.SheetsAPI {
	if !cfg.ServiceAccountConfigured() {
		return nil
	}

	creds := []byte(cfg.GoogleSheets.ServiceAccountJSON)
	if len(creds) == 0 {
		var err error
		creds, err = os.ReadFile(cfg.GoogleSheets.ServiceAccountPath)
		if err != nil {
			logger.Error("Failed to read service account credentials", zap.Error(err))
			return nil
		}
	}

	client, err := sheetsapi.NewClient(ctx, creds)
	if err != nil {
		logger.Error("Failed to create Sheets API client", zap.Error(err))
		return nil
	}

	logger.Info("Sheets API client ready")
	return client
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting FormRelay API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Missing delivery settings disable channels per request, never startup.
	// Surface them once here so operators see the gap immediately.
	if missing := cfg.MissingEmailFields(); len(missing) > 0 {
		logger.Warn("Email channel not fully configured", zap.Strings("missing", missing))
	}
	if !cfg.SheetsConfigured() {
		logger.Info("Google Sheets mirroring disabled: GOOGLE_SHEETS_URL not set")
	}

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
		cfg.Observability.OTLPEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Initialize metrics
	metrics.Init()

	// Initialize continuous profiling (no-op unless enabled)
	profilerStop, err := profiling.InitProfiler(
		cfg.Profiling,
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
	)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer profilerStop()

	// Initialize HTTP client for webhook calls
	httpClient := httpclient.NewStandardClient()

	// SMTP transport; connection is established lazily on first send
	mailProvider := mailer.NewProvider(mailer.Config{
		Host: cfg.Email.Host,
		Port: cfg.Email.Port,
		User: cfg.Email.User,
		Pass: cfg.Email.Pass,
	})

	// Sheets API client (nil unless a service account is configured)
	sheetsClient := newSheetsAPIClient(context.Background(), cfg)

	// Initialize services
	sheetsService := services.NewSheetsService(cfg, httpClient, sheetsClient)
	emailService := services.NewEmailService(cfg, mailProvider)
	submissionService := services.NewSubmissionService(cfg, emailService, sheetsService)

	// Initialize handlers
	contactHandler := handlers.NewContactHandler(submissionService)
	healthHandler := handlers.NewHealthHandler(cfg)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName)) // OpenTelemetry tracing
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS configuration. The submit endpoints are called straight from
	// browsers, so the default is permissive; lock it down per deployment
	// with ALLOWED_CORS_ORIGINS.
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "traceparent", "tracestate"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if cfg.Server.CORSAllowAll {
		corsConfig.AllowAllOrigins = true
	} else {
		allowedOrigins := cfg.Server.AllowedOrigins
		if cfg.IsDevelopment() {
			allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
		}
		corsConfig.AllowOrigins = allowedOrigins
	}
	router.Use(cors.New(corsConfig))

	// SECURITY: Rate limiters to prevent abuse and DoS attacks
	generalRateLimiter := middleware.NewRateLimiter(100, 200) // 100 req/sec, burst of 200
	contactRateLimiter := middleware.NewRateLimiter(5, 10)    // 5 req/sec, burst of 10 (prevent spam)

	// Utility endpoints (not versioned - operational endpoints)
	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// API v1 routes
	// SECURITY: Apply body size limits to prevent DoS attacks
	v1 := router.Group("/api/v1")
	v1.GET("/contact/health", generalRateLimiter.Middleware(), healthHandler.ContactHealth)
	v1.POST("/contact/submit", contactRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), contactHandler.SubmitContactForm)
	v1.POST("/contact/submit/dynamic", contactRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), contactHandler.SubmitContactFormDynamic)

	// Create HTTP server
	// SECURITY: Bind to all interfaces for Docker Compose networking
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second, // must outlast the email send budget
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // SECURITY: 1 MB max header size
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
