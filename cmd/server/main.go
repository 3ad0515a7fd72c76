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
	"go.uber.org/zap"

	"github.com/loadlane/service-logistics/internal/application"
	"github.com/loadlane/service-logistics/internal/config"
	bookingDomain "github.com/loadlane/service-logistics/internal/domain/booking"
	"github.com/loadlane/service-logistics/internal/events"
	"github.com/loadlane/service-logistics/internal/handler"
	"github.com/loadlane/service-logistics/internal/notify"
	"github.com/loadlane/service-logistics/internal/pkg/auth"
	"github.com/loadlane/service-logistics/internal/pkg/database"
	"github.com/loadlane/service-logistics/internal/pkg/health"
	"github.com/loadlane/service-logistics/internal/pkg/kafka"
	"github.com/loadlane/service-logistics/internal/pkg/logger"
	"github.com/loadlane/service-logistics/internal/pkg/middleware"
	"github.com/loadlane/service-logistics/internal/repository"
	"github.com/loadlane/service-logistics/internal/routing"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-logistics")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-logistics",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.BookingModel{}, &repository.TruckTypeModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		if err := repository.SeedTruckTypes(db); err != nil {
			log.Fatal("failed to seed truck types", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, 15*time.Minute)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories
	bookingRepo := repository.NewGormBookingRepository(db)
	truckTypeRepo := repository.NewGormTruckTypeRepository(db)

	// Initialize domain collaborators
	pricingStrategy := bookingDomain.NewPerKmPricingStrategy()
	routingClient := routing.NewClient(cfg.Mapbox.BaseURL, cfg.Mapbox.AccessToken)
	hub := notify.NewHub(log)
	defer hub.Close()

	// Initialize application services
	bookingService := application.NewBookingService(
		bookingRepo,
		truckTypeRepo,
		pricingStrategy,
		routingClient,
		hub,
		kafkaProducer,
		log,
	)
	truckTypeService := application.NewTruckTypeService(truckTypeRepo, log)

	// Start the dispatch event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatchConsumer := events.NewDispatchConsumer(bookingService, log)
	consumer := kafka.NewConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.GroupPrefix+"logistics-service",
		events.TopicDispatchEvents,
		log,
	)
	defer func() { _ = consumer.Close() }()

	go func() {
		log.Info("starting dispatch event consumer")
		if err := consumer.Consume(ctx, dispatchConsumer.Handle); err != nil && err != context.Canceled {
			log.Error("dispatch event consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService, log)
	truckTypeHandler := handler.NewTruckTypeHandler(truckTypeService, log)
	trackingHandler := handler.NewTrackingHandler(bookingService, hub, jwtManager, log)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:       12 * time.Hour,
	}))

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-logistics")
	healthHandler.RegisterRoutes(router)

	// Register public routes
	public := router.Group("/api/v1")
	truckTypeHandler.RegisterPublicRoutes(public)
	trackingHandler.RegisterPublicRoutes(public)

	// Register authenticated routes
	authed := router.Group("/api/v1", middleware.AuthMiddleware(jwtManager))
	bookingHandler.RegisterRoutes(authed)
	truckTypeHandler.RegisterAdminRoutes(authed)

	// Register websocket stream (token rides the query string)
	trackingHandler.RegisterWebsocket(router)

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

	log.Info("shutting down service-logistics...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-logistics stopped")
}
