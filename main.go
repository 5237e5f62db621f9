// File: fixly/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fixly/config"
	"fixly/database"
	bookingRepoPkg "fixly/database/repository/booking"
	notificationRepoPkg "fixly/database/repository/notification"
	providerRepoPkg "fixly/database/repository/provider"
	userRepoPkg "fixly/database/repository/user"
	"fixly/database/seed"
	"fixly/handlers"
	"fixly/middleware"
	"fixly/routes"
	"fixly/services/access"
	"fixly/services/assign"
	"fixly/services/booking"
	"fixly/services/catalog"
	"fixly/services/realtime"
	"fixly/services/user"
	"fixly/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRealtime()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	provRepo := providerRepoPkg.NewMongoProviderRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()
	bookRepo := bookingRepoPkg.NewMongoBookingRepo()
	notifRepo := notificationRepoPkg.NewMongoNotificationRepo()

	if config.AppConfig.SeedDemo {
		inserted, err := seed.Providers(provRepo)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to seed demo providers: %v", err)
		}
		logger.Sugar().Infof("main: seeded %d demo providers", inserted)
	}

	// services.
	serviceCatalog := catalog.Default()

	guard := &access.Guard{
		Bookings:  bookRepo,
		Providers: provRepo,
	}

	engine := &assign.DefaultEngine{
		Providers: provRepo,
		Catalog:   serviceCatalog,
	}

	hub := realtime.NewRedisHub(utils.GetRealtimeClient())
	notifier := &realtime.DefaultNotifier{
		Repo: notifRepo,
		Hub:  hub,
	}
	feed := &realtime.Feed{Repo: notifRepo}

	bookingService := &booking.DefaultBookingService{
		Bookings:    bookRepo,
		Providers:   provRepo,
		Users:       userRepo,
		Guard:       guard,
		Engine:      engine,
		Notifier:    notifier,
		Catalog:     serviceCatalog,
		AvgSpeedKmh: config.AppConfig.AvgSpeedKmh,
	}

	userService := &user.DefaultUserService{
		Users:     userRepo,
		Providers: provRepo,
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Auth:         handlers.NewAuthHandler(userService),
		Catalog:      handlers.NewCatalogHandler(serviceCatalog, engine),
		Booking:      handlers.NewBookingHandler(bookingService),
		Provider:     handlers.NewProviderHandler(bookingService),
		Notification: handlers.NewNotificationHandler(feed),
		Admin:        handlers.NewAdminHandler(bookingService),
		Realtime:     handlers.NewRealtimeHandler(hub, guard),
		UserRepo:     userRepo,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
