package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/medibridge/backend/internal/config"
	"github.com/medibridge/backend/internal/handler"
	"github.com/medibridge/backend/internal/middleware"
	"github.com/medibridge/backend/internal/pdf"
	"github.com/medibridge/backend/internal/security"
	"github.com/medibridge/backend/internal/session"
	"github.com/medibridge/backend/internal/service"
	"github.com/medibridge/backend/internal/upstream"
	"github.com/medibridge/backend/pkg/model"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize Zap logger
	var logger *zap.Logger
	if cfg.Server.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded successfully",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	// Initialize the redis session store
	store, err := session.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal("Failed to connect to session store", zap.Error(err))
	}
	defer store.Close()
	logger.Info("Successfully connected to session store")

	// Initialize the profile cipher
	cipher, err := security.NewProfileCipher([]byte(cfg.Security.ProfileKey))
	if err != nil {
		logger.Fatal("Failed to initialize profile cipher", zap.Error(err))
	}

	// Initialize upstream collaborator clients
	authClient := upstream.NewAuthClient(cfg.Upstream.AuthURL, cfg.Upstream.Timeout, logger)
	directoryClient := upstream.NewDirectoryClient(cfg.Upstream.DirectoryURL, cfg.Upstream.Timeout, logger)
	consultationClient := upstream.NewConsultationClient(cfg.Upstream.ConsultationURL, cfg.Upstream.Timeout, logger)
	inventoryClient := upstream.NewInventoryClient(cfg.Upstream.InventoryURL, cfg.Upstream.Timeout, logger)
	symptomsClient := upstream.NewSymptomsClient(cfg.Upstream.SymptomsURL, cfg.Upstream.Timeout, logger)

	// Initialize services
	sessionService := service.NewSessionService(store, authClient, cipher, logger)
	profileService := service.NewProfileService(store, authClient, cipher, logger)
	bookingService := service.NewBookingService(consultationClient, logger)
	inventoryService := service.NewInventoryService(inventoryClient, logger)
	queueService := service.NewQueueService(consultationClient, logger)
	symptomService := service.NewSymptomService(symptomsClient, logger)

	// Initialize PDF generator
	pdfGenerator := pdf.NewPDFGenerator(logger)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(sessionService, profileService, logger)
	profileHandler := handler.NewProfileHandler(profileService, logger)
	bookingHandler := handler.NewBookingHandler(bookingService, logger)
	inventoryHandler := handler.NewInventoryHandler(inventoryService, logger)
	queueHandler := handler.NewQueueHandler(queueService, logger)
	directoryHandler := handler.NewDirectoryHandler(directoryClient, bookingService, logger)
	symptomHandler := handler.NewSymptomHandler(symptomService, logger)
	reportHandler := handler.NewReportHandler(inventoryService, pdfGenerator, logger)
	locationHandler := handler.NewLocationHandler(store, logger)
	healthHandler := handler.NewHealthHandler(store, symptomsClient, logger)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	r := gin.New()

	// Add recovery middleware (must be first)
	r.Use(middleware.RecoveryMiddleware(logger))

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Configure appropriately for production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "X-Session-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add request ID middleware
	r.Use(middleware.RequestIDMiddleware())

	// Add request metrics middleware
	metrics, registry := middleware.NewRequestMetrics()
	r.Use(metrics.Middleware())

	// Add request logging middleware
	r.Use(middleware.RequestLoggingMiddleware(logger))

	// Add error logging middleware
	r.Use(middleware.ErrorLoggingMiddleware(logger))

	// Operational endpoints
	r.GET("/health", healthHandler.Check)
	r.GET("/metrics", middleware.MetricsHandler(registry))

	api := r.Group("/api/v1")

	// Public surface
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/doctors", directoryHandler.List)
	api.POST("/doctors", directoryHandler.Create)

	// Any logged-in role
	account := api.Group("", middleware.RequireAnyRole(sessionService, logger))
	account.GET("/profile", profileHandler.View)
	account.POST("/profile/edit", profileHandler.Edit)
	account.POST("/profile/change", profileHandler.Change)
	account.POST("/profile/cancel", profileHandler.Cancel)
	account.POST("/profile/save", profileHandler.Save)

	// Patient dashboard
	patient := api.Group("", middleware.RequireRole(sessionService, model.RolePatient, logger))
	patient.POST("/consultations", bookingHandler.Book)
	patient.POST("/symptoms/analyze", symptomHandler.Analyze)
	patient.POST("/location", locationHandler.Report)
	patient.GET("/location", locationHandler.Resolve)

	// Doctor dashboard
	doctor := api.Group("", middleware.RequireRole(sessionService, model.RoleDoctor, logger))
	doctor.GET("/queue", queueHandler.List)
	doctor.POST("/queue/:id/start", queueHandler.Start)
	doctor.POST("/queue/:id/complete", queueHandler.Complete)

	// Pharmacy dashboard
	pharmacy := api.Group("", middleware.RequireRole(sessionService, model.RolePharmacy, logger))
	pharmacy.GET("/medicines", inventoryHandler.List)
	pharmacy.GET("/medicines/summary", inventoryHandler.Summary)
	pharmacy.POST("/medicines", inventoryHandler.Add)
	pharmacy.PUT("/medicines/:name", inventoryHandler.Update)
	pharmacy.GET("/reports/inventory", reportHandler.Inventory)

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
