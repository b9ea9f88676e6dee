// Entry point of the booking orchestrator service.
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/ticketloom/booking/internal/client"
	"github.com/ticketloom/booking/internal/config"
	"github.com/ticketloom/booking/internal/database"
	"github.com/ticketloom/booking/internal/handler"
	"github.com/ticketloom/booking/internal/middleware"
	"github.com/ticketloom/booking/internal/repository"
	"github.com/ticketloom/booking/internal/router"
	"github.com/ticketloom/booking/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg := config.LoadBooking()

	db, err := database.Open(cfg.DB)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := database.MigrateBooking(context.Background(), db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	bookings := service.NewBookingService(
		repository.NewBookingRepo(db),
		client.NewInventoryClient(cfg.Ledger),
		client.NewPaymentClient(cfg.Payment),
	)

	e := echo.New()
	e.HideBanner = true
	router.RegisterCommon(e)

	rdb := config.NewRedisClient()
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	router.RegisterBooking(e, handler.NewBookingHandler(bookings), limiter)

	addr := ":" + cfg.Port
	log.Printf("booking service listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
