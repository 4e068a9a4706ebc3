package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	rdb "github.com/redis/go-redis/v9"

	"fleet/internal/domain"
	"fleet/internal/handler"
	"fleet/internal/middleware"
	"fleet/internal/redis"
	"fleet/internal/service"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	AuthHandler      *handler.AuthHandler
	VehicleHandler   *handler.VehicleHandler
	BookingHandler   *handler.BookingHandler
	TripHandler      *handler.TripHandler
	DriverHandler    *handler.DriverHandler
	AnalyticsHandler *handler.AnalyticsHandler

	AuthService    *service.AuthService
	RateLimitStore redis.RateLimitStoreInterface
	RateLimit      int64
	RateWindow     time.Duration

	RedisClient *rdb.Client
	NewRelicApp *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	if deps.RateLimitStore != nil {
		router.Use(middleware.RateLimitMiddleware(deps.RateLimitStore, deps.RateLimit, deps.RateWindow))
	}
	if deps.RedisClient != nil {
		router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authed := middleware.AuthMiddleware(deps.AuthService)

	v1 := router.Group("/api/v1")
	{
		// Auth routes.
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", deps.AuthHandler.Signup)
			auth.POST("/login", deps.AuthHandler.Login)
			auth.POST("/refresh", deps.AuthHandler.Refresh)
			auth.POST("/logout", deps.AuthHandler.Logout)
		}

		// Vehicle routes.
		vehicles := v1.Group("/vehicles", authed)
		{
			vehicles.POST("", middleware.RequireRole(domain.RoleOwner, domain.RoleAdmin), deps.VehicleHandler.CreateVehicle)
			vehicles.GET("", deps.VehicleHandler.ListVehicles)
			vehicles.GET("/available", deps.VehicleHandler.ListAvailableVehicles)
			vehicles.GET("/:id", deps.VehicleHandler.GetVehicle)
			vehicles.GET("/:id/availability", deps.BookingHandler.CheckAvailability)
			vehicles.PATCH("/:id", middleware.RequireRole(domain.RoleOwner, domain.RoleAdmin), deps.VehicleHandler.UpdateVehicle)
			vehicles.DELETE("/:id", middleware.RequireRole(domain.RoleOwner, domain.RoleAdmin), deps.VehicleHandler.DeleteVehicle)
		}

		// Booking routes.
		bookings := v1.Group("/bookings", authed)
		{
			bookings.POST("", middleware.RequireRole(domain.RoleCustomer), deps.BookingHandler.CreateBooking)
			bookings.GET("", deps.BookingHandler.ListBookings)
			bookings.GET("/:id", deps.BookingHandler.GetBooking)
			bookings.POST("/:id/cancel", deps.BookingHandler.CancelBooking)
		}

		// Trip routes.
		trips := v1.Group("/trips", authed)
		{
			trips.POST("", middleware.RequireRole(domain.RoleAdmin), deps.TripHandler.CreateTrip)
			trips.GET("", middleware.RequireRole(domain.RoleDriver, domain.RoleAdmin), deps.TripHandler.ListTrips)
			trips.GET("/:id", deps.TripHandler.GetTrip)
			trips.PATCH("/:id/status", middleware.RequireRole(domain.RoleDriver), deps.TripHandler.UpdateTripStatus)
			trips.POST("/:id/cancel", middleware.RequireRole(domain.RoleDriver, domain.RoleAdmin), deps.TripHandler.CancelTrip)
		}

		// Driver routes.
		drivers := v1.Group("/drivers", authed)
		{
			drivers.POST("", middleware.RequireRole(domain.RoleAdmin), deps.DriverHandler.CreateDriver)
			drivers.GET("", middleware.RequireRole(domain.RoleAdmin), deps.DriverHandler.ListDrivers)
			drivers.GET("/me/vehicle", middleware.RequireRole(domain.RoleDriver), deps.DriverHandler.GetRegisteredVehicle)
			drivers.POST("/me/vehicle", middleware.RequireRole(domain.RoleDriver), deps.DriverHandler.RegisterVehicle)
			drivers.DELETE("/me/vehicle", middleware.RequireRole(domain.RoleDriver), deps.DriverHandler.ReturnVehicle)
			drivers.GET("/:id", middleware.RequireRole(domain.RoleAdmin), deps.DriverHandler.GetDriver)
			drivers.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), deps.DriverHandler.DeleteDriver)
		}

		// Analytics routes.
		analytics := v1.Group("/analytics", authed, middleware.RequireRole(domain.RoleAdmin))
		{
			analytics.GET("/dashboard", deps.AnalyticsHandler.Dashboard)
		}
	}

	return router
}
