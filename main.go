package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "ferryapp/internal/config"
	router "ferryapp/internal/http"
	"ferryapp/internal/notification"
	"ferryapp/internal/repositories"
	"ferryapp/internal/scheduler"
	"ferryapp/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	if env.AMQPURL != "" {
		broker, err := notification.Connect(env.AMQPURL, "booking-events")
		if err != nil {
			log.Printf("warning: broker tidak tersedia: %v", err)
		} else {
			notification.Default = broker
			defer broker.Close()
		}
	}

	// Expiration sweeper
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	sweep := services.ExpirationService{
		Bookings: repositories.BookingRepository{},
		Notifier: notification.Default,
	}
	go scheduler.New(sweep, env.SweepInterval).Start(sweepCtx)

	// Router (Gin engine)
	r := router.NewRouter(env)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server berjalan di http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Gagal menjalankan server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Mematikan server...")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Shutdown server gagal: %v", err)
	}

	log.Println("Server berhenti dengan aman.")
}
