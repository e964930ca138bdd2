// File: consultbook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"consultbook/config"
	"consultbook/cron"
	"consultbook/database"
	availabilityRepoPkg "consultbook/database/repository/availability"
	bookingRepoPkg "consultbook/database/repository/booking"
	expertRepoPkg "consultbook/database/repository/expert"
	statsRepoPkg "consultbook/database/repository/stats"
	"consultbook/handlers"
	"consultbook/middleware"
	"consultbook/routes"
	"consultbook/services/booking"
	"consultbook/services/notification"
	"consultbook/services/schedule"
	"consultbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	availabilityRepo := availabilityRepoPkg.NewMongoAvailabilityRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	statsRepo := statsRepoPkg.NewMongoStatsRepo()
	expertRepo := expertRepoPkg.NewMongoExpertRepo()

	for name, ensure := range map[string]func() error{
		"availability": availabilityRepo.EnsureIndexes,
		"bookings":     bookingRepo.EnsureIndexes,
		"stats":        statsRepo.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure %s indexes: %v", name, err)
		}
	}

	// services.
	scheduleCache := schedule.NewCache(utils.GetCacheClient(),
		time.Duration(config.AppConfig.ScheduleCacheTTLSeconds)*time.Second)

	resolver := &schedule.Resolver{
		Availability: availabilityRepo,
		Bookings:     bookingRepo,
		Cache:        scheduleCache,
	}

	availabilityService := &schedule.DefaultAvailabilityService{
		Repo:  availabilityRepo,
		Cache: scheduleCache,
	}

	notificationService := &notification.DefaultNotificationService{
		Repo: expertRepo,
	}

	bookingService := &booking.DefaultBookingService{
		Repo:         bookingRepo,
		StatsRepo:    statsRepo,
		ExpertRepo:   expertRepo,
		Cache:        scheduleCache,
		Notification: notificationService,
		Reminders:    cron.NewReminderScheduler(),
	}

	paymentService := &booking.DefaultPaymentService{
		Bookings:   bookingService,
		ExpertRepo: expertRepo,
	}

	// Background worker: stale-payment sweep and session reminders.
	cron.InitBookingWorker(bookingService, bookingRepo, notificationService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Schedule:     &handlers.ScheduleHandler{Resolver: resolver},
		Availability: &handlers.AvailabilityHandler{Service: availabilityService},
		Bookings:     &handlers.BookingHandler{Service: bookingService},
		Payments:     &handlers.PaymentHandler{Payments: paymentService},
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
