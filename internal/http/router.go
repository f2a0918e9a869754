package api

import (
	"log"
	stdhttp "net/http"
	"time"

	intconfig "ferryapp/internal/config"
	h "ferryapp/internal/http/handlers"
	"ferryapp/internal/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), corsMiddleware())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route tidak ditemukan",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		// Schedules: search is public, mutations are admin-only.
		schedules := api.Group("/schedules")
		schedules.GET("", h.SearchSchedules)
		schedules.GET("/:id", h.GetScheduleByID)
		schedules.POST("", middleware.RequireAuth(), middleware.RequireAdmin(), h.CreateSchedule)
		schedules.PUT("/:id/status", middleware.RequireAuth(), middleware.RequireAdmin(), h.UpdateScheduleStatus)

		// Bookings & payments (customer, authenticated)
		bookings := api.Group("/bookings", middleware.RequireAuth())
		bookings.POST("", h.CreateBooking)
		bookings.GET("/:code", h.GetBookingByCode)
		bookings.POST("/:code/payments", h.CreatePayment)
		bookings.DELETE("/:code", middleware.RequireAdmin(), h.DeleteBooking)

		payments := api.Group("/payments", middleware.RequireAuth())
		payments.POST("/:id/sync", h.SyncPayment)

		// Passengers: e-ticket for the owner, boarding scan for staff.
		passengers := api.Group("/passengers", middleware.RequireAuth())
		passengers.GET("/:id/eticket", h.GetETicket)
		passengers.POST("/:id/scan", middleware.RequireAdmin(), h.ScanPassenger)

		// Gateway callbacks: no JWT, validated by shared token inside.
		webhooks := api.Group("/webhooks")
		webhooks.POST("/xendit", h.XenditWebhook)
	}

	return r
}

func corsMiddleware() gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
		"http://localhost:5173",
		"http://127.0.0.1:5173",
	}
	cfg.AllowHeaders = []string{"Content-Type", "Authorization", "Accept", "Origin", "X-Request-ID"}
	cfg.AllowCredentials = true
	cfg.MaxAge = 24 * time.Hour
	return cors.New(cfg)
}
