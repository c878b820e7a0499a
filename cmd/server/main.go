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
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/schedule-admin/internal/config"
	"github.com/smarttransit/schedule-admin/internal/database"
	"github.com/smarttransit/schedule-admin/internal/handlers"
	"github.com/smarttransit/schedule-admin/internal/metrics"
	"github.com/smarttransit/schedule-admin/internal/middleware"
	"github.com/smarttransit/schedule-admin/internal/services"
	"github.com/smarttransit/schedule-admin/pkg/jwt"
	"github.com/smarttransit/schedule-admin/pkg/scheduleapi"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting SmartTransit Schedule Admin Portal")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Database holds staff accounts and the audit trail
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	collector := metrics.NewCollector()

	backendTransport := http.DefaultTransport.(*http.Transport).Clone()
	backendTransport.MaxIdleConnsPerHost = 10
	backend := scheduleapi.NewHTTPClient(
		scheduleapi.Config{BaseURL: cfg.Backend.URL, Timeout: cfg.Backend.Timeout},
		scheduleapi.WithObserver(collector.ObserveBackend),
		scheduleapi.WithHTTPClient(&http.Client{Timeout: cfg.Backend.Timeout, Transport: backendTransport}),
	)
	logger.WithField("backend_url", cfg.Backend.URL).Info("Schedule service client initialized")

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.SessionExpiry)
	adminRepo := database.NewAdminUserRepository(db)
	auditService := services.NewAuditService(db, logger, cfg.Security.EnableAuditLog)
	authService := services.NewAdminAuthService(adminRepo, jwtService, auditService, logger)
	rateLimiter := services.NewRateLimitService(cfg.RateLimit)
	workspaces := services.NewWorkspaceStore(cfg.Session.DraftTTL, cfg.Session.CleanupInterval, collector)
	listingService := services.NewListingService(backend, collector, logger, cfg.Listing.DefaultLimit, cfg.Listing.MaxLimit)
	submissionService := services.NewSubmissionService(backend, auditService, collector, logger)
	exportService := services.NewExportService()

	cronService := services.NewCronService(auditService, cfg.Security.AuditRetentionDays, logger)
	if err := cronService.Start(cfg.Security.AuditPruneSchedule); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}

	h := handlers.Handlers{
		Auth:      handlers.NewAuthHandler(authService, rateLimiter, workspaces, cfg.Session, logger),
		Dashboard: handlers.NewDashboardHandler(listingService, db, version, logger),
		Form:      handlers.NewScheduleFormHandler(workspaces, submissionService, logger),
		Schedules: handlers.NewScheduleListHandler(workspaces, listingService, exportService, logger),
	}

	templates, err := handlers.LoadTemplates()
	if err != nil {
		logger.Fatalf("Failed to parse templates: %v", err)
	}

	// Initialize Gin router
	router := gin.New()
	router.SetHTMLTemplate(templates)

	// Middleware
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(middleware.RequestLogger(logger))
	}
	if cfg.Metrics.Enabled {
		router.Use(middleware.RequestMetrics(collector))
	}

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	if cfg.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(collector.Handler()))
	}

	h.Register(router,
		middleware.AuthMiddleware(jwtService, cfg.Session.CookieName, logger),
		middleware.RequireActiveAccount(adminRepo, logger),
	)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Backend.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	cronService.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}
