package routes

import (
	"net/http"
	"time"

	"consultbook/handlers"
	"consultbook/middleware"
	"consultbook/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterScheduleRoutes registers the public schedule resolution endpoints.
func RegisterScheduleRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/experts")
	{
		api.GET("/:id/schedule/:date", hb.Schedule.GetDayHandler)
		api.GET("/:id/schedule", hb.Schedule.GetRangeHandler)
	}
}

// RegisterAvailabilityRoutes registers pattern and override management.
// All endpoints act on the authenticated expert's own schedule.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/availability")
	{
		api.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(models.RoleExpert))
		api.GET("/patterns", hb.Availability.ListPatternsHandler)
		api.POST("/patterns", hb.Availability.CreatePatternHandler)
		api.PUT("/patterns/:patternID", hb.Availability.UpdatePatternHandler)
		api.DELETE("/patterns/:patternID", hb.Availability.DeletePatternHandler)

		api.POST("/overrides", hb.Availability.CreateOverrideHandler)
		api.PUT("/overrides/:date", hb.Availability.UpdateOverrideHandler)
		api.DELETE("/overrides/:date", hb.Availability.DeleteOverrideHandler)
	}
}

// RegisterBookingRoutes sets up the endpoints for the booking lifecycle.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", middleware.RequireRole(models.RoleClient), hb.Bookings.CreateBookingHandler)
		api.GET("", hb.Bookings.ListBookingsHandler)
		api.GET("/stats", hb.Bookings.GetStatsHandler)
		api.GET("/:id", hb.Bookings.GetBookingHandler)
		api.POST("/:id/cancel", middleware.RequireRole(models.RoleClient), hb.Bookings.CancelBookingHandler)
		api.POST("/:id/complete", middleware.RequireRole(models.RoleExpert), hb.Bookings.CompleteBookingHandler)
		api.POST("/:id/payment", middleware.RequireRole(models.RoleClient), hb.Payments.CreatePaymentHandler)
	}
}

// RegisterPaymentRoutes registers the gateway callback endpoints. These are
// hit by the gateway (or a redirected browser), not by authenticated actors.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payments")
	{
		api.GET("/return", hb.Payments.PaymentReturnHandler)
		api.POST("/ipn", hb.Payments.PaymentIPNHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Consultbook"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterScheduleRoutes(r, hb)
	RegisterAvailabilityRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
}
