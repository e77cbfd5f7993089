package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thryve-market/service-marketplace/internal/application"
	"github.com/thryve-market/service-marketplace/internal/config"
	"github.com/thryve-market/service-marketplace/internal/events"
	"github.com/thryve-market/service-marketplace/internal/handler"
	"github.com/thryve-market/service-marketplace/internal/platform/auth"
	"github.com/thryve-market/service-marketplace/internal/platform/database"
	"github.com/thryve-market/service-marketplace/internal/platform/health"
	"github.com/thryve-market/service-marketplace/internal/platform/kafka"
	"github.com/thryve-market/service-marketplace/internal/platform/logger"
	"github.com/thryve-market/service-marketplace/internal/platform/middleware"
	"github.com/thryve-market/service-marketplace/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-marketplace")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-marketplace",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.ListingModel{},
			&repository.BookingRequestModel{},
			&repository.ConnectionRequestModel{},
			&repository.ConnectionModel{},
			&repository.PostModel{},
			&repository.LikeModel{},
			&repository.CommentModel{},
		); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, 15*time.Minute)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories
	listingRepo := repository.NewGormListingRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	connectionRequestRepo := repository.NewGormConnectionRequestRepository(db)
	connectionRepo := repository.NewGormConnectionRepository(db)
	communityRepo := repository.NewGormCommunityRepository(db)

	// Initialize application services
	listingService := application.NewListingService(listingRepo, kafkaProducer, log)
	bookingService := application.NewBookingService(bookingRepo, listingRepo, kafkaProducer, log)
	connectionService := application.NewConnectionService(connectionRequestRepo, connectionRepo, kafkaProducer, log)
	communityService := application.NewCommunityService(communityRepo, log)

	// Initialize and start listing event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.KafkaConfig.GroupPrefix + "marketplace-service"
	listingConsumer := events.NewListingEventConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		bookingService,
		log,
	)
	defer func() { _ = listingConsumer.Close() }()

	go func() {
		log.Info("starting listing event consumer")
		if err := listingConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("listing event consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	handler.RegisterValidations()
	listingHandler := handler.NewListingHandler(listingService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	connectionHandler := handler.NewConnectionHandler(connectionService)
	communityHandler := handler.NewCommunityHandler(communityService)
	adminHandler := handler.NewAdminHandler(bookingService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-marketplace")
	healthHandler.RegisterRoutes(router)

	// Register routes
	listingHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	bookingHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	connectionHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	communityHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	adminHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-marketplace...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-marketplace stopped")
}
