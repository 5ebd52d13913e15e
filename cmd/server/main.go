package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/papikos/notification-service/internal/client"
	"github.com/papikos/notification-service/internal/config"
	"github.com/papikos/notification-service/internal/event"
	"github.com/papikos/notification-service/internal/handler"
	"github.com/papikos/notification-service/internal/middleware"
	"github.com/papikos/notification-service/internal/repository"
	"github.com/papikos/notification-service/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set up logger
	logger, err := createLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	db, err := connectToDB(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Create repositories
	wishlistRepo := repository.NewWishlistRepository(db, logger)
	notificationRepo := repository.NewNotificationRepository(db, logger)

	// Create downstream clients. One shared instance per process; timeout
	// policy lives here, not at call sites.
	propertyClient := client.NewPropertyClient(
		cfg.Clients.Property.URL,
		cfg.Clients.Property.ServiceKey,
		cfg.Clients.Property.Timeout,
		logger,
	)
	rentalClient := client.NewRentalClient(
		cfg.Clients.Rental.URL,
		cfg.Clients.Rental.ServiceKey,
		cfg.Clients.Rental.Timeout,
		logger,
	)

	// Create services
	wishlistService := service.NewWishlistService(wishlistRepo, propertyClient, logger)
	notificationService := service.NewNotificationService(
		notificationRepo,
		wishlistRepo,
		propertyClient,
		rentalClient,
		logger,
	)

	// Start the room-availability consumer (if enabled)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var consumer *event.AvailabilityConsumer
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		consumer = event.NewAvailabilityConsumer(
			cfg.Kafka.Brokers,
			cfg.Kafka.GroupID,
			cfg.Kafka.Topics.RoomAvailability,
			notificationService,
			logger,
		)
		go func() {
			logger.Info("Starting room-availability consumer",
				zap.Strings("brokers", cfg.Kafka.Brokers),
				zap.String("topic", cfg.Kafka.Topics.RoomAvailability))
			if err := consumer.Run(ctx); err != nil && err != context.Canceled {
				logger.Error("Availability consumer stopped", zap.Error(err))
			}
		}()
	}

	// Create HTTP server
	router := setupRouter(cfg, wishlistService, notificationService, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	cancel()
	if consumer != nil {
		consumer.Close()
	}

	// Create a deadline for server shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited properly")
}

func createLogger(level string) (*zap.Logger, error) {
	var zapLevel zap.AtomicLevel
	switch level {
	case "debug":
		zapLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zapLevel

	return zapCfg.Build()
}

func connectToDB(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

func setupRouter(
	cfg *config.Config,
	wishlistService *service.WishlistService,
	notificationService *service.NotificationService,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Use middlewares
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	wishlistHandler := handler.NewWishlistHandler(wishlistService, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger)

	v1 := router.Group("/api/v1")
	{
		// ==================== WISHLIST ROUTES ====================
		wishlist := v1.Group("/wishlist")
		{
			wishlist.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret, logger))
			wishlist.Use(middleware.RequireRole(middleware.RoleTenant))

			wishlist.POST("", wishlistHandler.AddToWishlist)
			wishlist.GET("", wishlistHandler.GetWishlist)
			wishlist.DELETE("/:propertyId", wishlistHandler.RemoveFromWishlist)
		}

		// ==================== NOTIFICATION ROUTES ====================
		notifications := v1.Group("/notifications")
		{
			notifications.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret, logger))

			notifications.GET("", notificationHandler.GetNotifications)
			notifications.PATCH("/:notificationId/read", notificationHandler.MarkNotificationAsRead)

			// Admin-triggered creation
			admin := notifications.Group("")
			admin.Use(middleware.RequireRole(middleware.RoleAdmin))
			admin.POST("/broadcast", notificationHandler.SendBroadcast)
			admin.POST("/vacancy", notificationHandler.SendVacancyNotification)
			admin.POST("/rental-update", notificationHandler.SendRentalUpdate)
		}

		// ==================== INTERNAL ROUTES ====================
		internal := v1.Group("/internal/notifications")
		{
			internal.Use(middleware.RequireServiceKey(cfg.Auth.ServiceKey))

			internal.POST("", notificationHandler.SendInternal)
			internal.POST("/account-approved", notificationHandler.SendAccountApproved)
			internal.POST("/payment-update", notificationHandler.SendPaymentUpdate)
		}
	}

	return router
}
