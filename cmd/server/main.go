package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"fleet/internal/app"
	"fleet/internal/config"
	"fleet/internal/handler"
	internalRedis "fleet/internal/redis"
	"fleet/internal/repository/postgres"
	"fleet/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	tokenStore := internalRedis.NewTokenStore(redisClient)
	rateLimitStore := internalRedis.NewRateLimitStore(redisClient)

	// Initialize store and repositories.
	store := postgres.NewStore(db)
	analyticsRepo := postgres.NewAnalyticsRepository(db)

	// Initialize notification delivery. Without a SendGrid key emails go to
	// the log, which is what dev environments want.
	var sender service.EmailSender
	if cfg.Email.SendGridAPIKey != "" {
		sender = service.NewSendGridSender(cfg.Email.SendGridAPIKey, cfg.Email.FromName, cfg.Email.FromAddress)
	} else {
		sender = service.LogSender{}
	}
	notificationService := service.NewNotificationService(sender)

	// Initialize services.
	authService := service.NewAuthService(store, tokenStore, cfg.Auth.Secret)
	availabilityService := service.NewAvailabilityService(store)
	bookingService := service.NewBookingService(store, lockStore, notificationService, cfg.Booking.RatePerDay)
	tripService := service.NewTripService(store, service.NewStubOdometerReader(), notificationService)
	assignmentService := service.NewAssignmentService(store)
	vehicleService := service.NewVehicleService(store)
	driverService := service.NewDriverService(store)
	analyticsService := service.NewAnalyticsService(analyticsRepo)

	// Initialize handlers.
	authHandler := handler.NewAuthHandler(authService)
	vehicleHandler := handler.NewVehicleHandler(vehicleService)
	bookingHandler := handler.NewBookingHandler(bookingService, availabilityService)
	tripHandler := handler.NewTripHandler(tripService)
	driverHandler := handler.NewDriverHandler(driverService, assignmentService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)

	// Create router.
	deps := app.RouterDeps{
		AuthHandler:      authHandler,
		VehicleHandler:   vehicleHandler,
		BookingHandler:   bookingHandler,
		TripHandler:      tripHandler,
		DriverHandler:    driverHandler,
		AnalyticsHandler: analyticsHandler,
		AuthService:      authService,
		RedisClient:      redisClient,
		NewRelicApp:      nrApp,
	}
	if cfg.RateLimit.Enabled {
		deps.RateLimitStore = rateLimitStore
		deps.RateLimit = cfg.RateLimit.Requests
		deps.RateWindow = cfg.RateLimit.Window
	}
	router := app.NewRouter(deps)

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
