package routes

import (
	"net/http"
	"time"

	"fixly/handlers"
	"fixly/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers account endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.Auth.Register)
		api.POST("/login", hb.Auth.Login)
	}
}

// RegisterCatalogRoutes registers the public catalog and provider browse.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/services", hb.Catalog.Services)
		api.POST("/providers/nearby", hb.Catalog.NearbyProviders)
	}
}

// RegisterBookingRoutes sets up the customer booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.POST("", hb.Booking.Create)
		api.GET("", hb.Booking.History)
		api.GET("/:id", hb.Booking.Get)
		api.POST("/:id/cancel", hb.Booking.Cancel)
		api.POST("/:id/rate", hb.Booking.Rate)
		api.POST("/:id/pay", hb.Booking.Pay)
		api.GET("/:id/messages", hb.Booking.Messages)
		api.POST("/:id/messages", hb.Booking.SendMessage)
	}
}

// RegisterProviderRoutes sets up the provider work queue endpoints.
func RegisterProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/provider")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.GET("/assignments", hb.Provider.Assignments)
		api.POST("/bookings/:id/respond", hb.Provider.Respond)
		api.PUT("/availability", hb.Provider.SetAvailability)
	}
}

// RegisterNotificationRoutes sets up the notification bell endpoints.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.GET("", hb.Notification.List)
		api.POST("/:id/read", hb.Notification.MarkRead)
	}
}

// RegisterRealtimeRoutes sets up the live event streams.
func RegisterRealtimeRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/stream")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.GET("/me", hb.Realtime.UserStream)
		api.GET("/bookings/:id", hb.Realtime.BookingStream)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		adminGroup.GET("/overview", hb.Admin.Overview)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Fixly"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAuthRoutes(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterProviderRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterRealtimeRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
